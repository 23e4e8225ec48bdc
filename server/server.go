// Package server exposes the review pipeline over HTTP: session
// creation, manuscript upload, analysis, follow-up chat, and report
// export. It is a thin shell — all review semantics live in the
// scrutari package.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/scrutari/scrutari"
	"github.com/scrutari/scrutari/export"
)

const (
	maxUploadBytes = 32 << 20
	reviewTimeout  = 5 * time.Minute
	chatTimeout    = 2 * time.Minute
)

// Server drives sessions over HTTP.
type Server struct {
	agent     *scrutari.Agent
	extractor scrutari.Extractor
	store     *sessionStore
	log       *zap.SugaredLogger
}

// entry wraps a session with the mutex that serializes its turns: one
// user-visible action at a time per session.
type entry struct {
	mu      sync.Mutex
	session *scrutari.Session
}

type sessionStore struct {
	mu       sync.Mutex
	sessions map[string]*entry
}

func newStore() *sessionStore {
	return &sessionStore{sessions: make(map[string]*entry)}
}

func (s *sessionStore) create() *entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := newSessionID()
	e := &entry{session: scrutari.NewSession(id)}
	s.sessions[id] = e
	return e
}

func (s *sessionStore) get(id string) (*entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.sessions[id]
	return e, ok
}

func (s *sessionStore) remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return false
	}
	delete(s.sessions, id)
	return true
}

// New constructs a Server.
func New(agent *scrutari.Agent, extractor scrutari.Extractor, log *zap.SugaredLogger) (*Server, error) {
	if agent == nil {
		return nil, errors.New("agent is required")
	}
	if extractor == nil {
		return nil, errors.New("extractor is required")
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Server{agent: agent, extractor: extractor, store: newStore(), log: log}, nil
}

// Routes builds the HTTP handler.
func (s *Server) Routes() http.Handler {
	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/sessions", s.handleCreate).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{id}", s.handleState).Methods(http.MethodGet)
	api.HandleFunc("/sessions/{id}", s.handleDelete).Methods(http.MethodDelete)
	api.HandleFunc("/sessions/{id}/manuscript", s.handleManuscript).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{id}/review", s.handleReview).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{id}/chat", s.handleChat).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{id}/reset", s.handleReset).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{id}/export", s.handleExport).Methods(http.MethodGet)
	return s.logMiddleware(r)
}

type stateResp struct {
	SessionID  string `json:"session_id"`
	HasText    bool   `json:"has_manuscript"`
	Report     string `json:"report,omitempty"`
	Turns      int    `json:"turns"`
	Characters int    `json:"manuscript_chars,omitempty"`
}

func (s *Server) state(e *entry) stateResp {
	sess := e.session
	return stateResp{
		SessionID:  sess.ID,
		HasText:    sess.Manuscript() != "",
		Report:     sess.Report(),
		Turns:      sess.Transcript.Len(),
		Characters: len(sess.Manuscript()),
	}
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	e := s.store.create()
	writeJSON(w, http.StatusCreated, s.state(e))
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	e, ok := s.store.get(mux.Vars(r)["id"])
	if !ok {
		httpError(w, http.StatusNotFound, "session not found")
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	writeJSON(w, http.StatusOK, s.state(e))
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if !s.store.remove(mux.Vars(r)["id"]) {
		httpError(w, http.StatusNotFound, "session not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleManuscript accepts the uploaded document: application/pdf is
// run through the extractor, text/plain is taken verbatim. A session
// holds at most one manuscript until reset.
func (s *Server) handleManuscript(w http.ResponseWriter, r *http.Request) {
	e, ok := s.store.get(mux.Vars(r)["id"])
	if !ok {
		httpError(w, http.StatusNotFound, "session not found")
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.session.Manuscript() != "" {
		httpError(w, http.StatusConflict, "manuscript already loaded; reset the session first")
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxUploadBytes))
	if err != nil {
		httpError(w, http.StatusBadRequest, "could not read upload")
		return
	}
	if len(body) == 0 {
		httpError(w, http.StatusBadRequest, "empty upload")
		return
	}

	var text string
	if strings.HasPrefix(r.Header.Get("Content-Type"), "text/plain") {
		text = string(body)
	} else {
		text, err = s.extractor.Extract(bytes.NewReader(body), int64(len(body)))
		if err != nil {
			s.log.Warnw("manuscript extraction failed", "session", e.session.ID, "error", err)
			httpError(w, http.StatusBadRequest, "could not read the document: "+err.Error())
			return
		}
	}
	if !e.session.SetManuscript(text) {
		httpError(w, http.StatusBadRequest, "document contains no text")
		return
	}
	s.log.Infow("manuscript loaded", "session", e.session.ID, "chars", len(e.session.Manuscript()))
	writeJSON(w, http.StatusOK, s.state(e))
}

func (s *Server) handleReview(w http.ResponseWriter, r *http.Request) {
	e, ok := s.store.get(mux.Vars(r)["id"])
	if !ok {
		httpError(w, http.StatusNotFound, "session not found")
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.session.Manuscript() == "" {
		httpError(w, http.StatusConflict, "no manuscript loaded")
		return
	}
	if e.session.Report() != "" {
		httpError(w, http.StatusConflict, "analysis already ran; reset the session to re-run")
		return
	}

	ctx, cancel := contextWithTimeout(r, reviewTimeout)
	defer cancel()
	report, err := s.agent.Review(ctx, e.session)
	if err != nil {
		s.log.Errorw("review failed", "session", e.session.ID, "error", err)
		httpError(w, http.StatusBadGateway, "analysis failed: "+err.Error())
		return
	}
	s.log.Infow("review complete", "session", e.session.ID, "report_chars", len(report))
	writeJSON(w, http.StatusOK, s.state(e))
}

type chatReq struct {
	Message string `json:"message"`
}

// handleChat streams the answer as chunked plain text, flushing each
// fragment as it arrives.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	e, ok := s.store.get(mux.Vars(r)["id"])
	if !ok {
		httpError(w, http.StatusNotFound, "session not found")
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	var req chatReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ctx, cancel := contextWithTimeout(r, chatTimeout)
	defer cancel()
	stream, err := s.agent.Chat(ctx, e.session, req.Message)
	if err != nil {
		httpError(w, http.StatusBadGateway, err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	flusher, _ := w.(http.Flusher)
	for stream.Next() {
		if _, err := io.WriteString(w, stream.Current()); err != nil {
			return
		}
		if flusher != nil {
			flusher.Flush()
		}
	}
	if err := stream.Err(); err != nil {
		// Headers are gone; the truncated body is all we can signal.
		s.log.Errorw("chat stream failed", "session", e.session.ID, "error", err)
	}
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	e, ok := s.store.get(mux.Vars(r)["id"])
	if !ok {
		httpError(w, http.StatusNotFound, "session not found")
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.session.Reset()
	writeJSON(w, http.StatusOK, s.state(e))
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	e, ok := s.store.get(mux.Vars(r)["id"])
	if !ok {
		httpError(w, http.StatusNotFound, "session not found")
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.session.Report() == "" {
		httpError(w, http.StatusConflict, "no report to export")
		return
	}
	html, err := export.HTML(e.session.Report())
	if err != nil {
		httpError(w, http.StatusInternalServerError, "export failed")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="review_report.html"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(html)
}

func contextWithTimeout(r *http.Request, d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), d)
}

func newSessionID() string {
	return strings.ReplaceAll(time.Now().Format("20060102T150405.000000000"), ".", "")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func httpError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Infow("request", "method", r.Method, "path", r.URL.Path, "duration", fmt.Sprintf("%v", time.Since(start).Truncate(time.Millisecond)))
	})
}
