package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"

	"go.uber.org/zap"

	"github.com/scrutari/scrutari"
	"github.com/scrutari/scrutari/completion"
	"github.com/scrutari/scrutari/config"
	"github.com/scrutari/scrutari/extract"
	"github.com/scrutari/scrutari/search"
	"github.com/scrutari/scrutari/server"
)

func main() {
	configPath := flag.String("config", "", "path to config.yaml (optional)")
	addr := flag.String("addr", "", "http listen address (overrides config)")
	debug := flag.Bool("debug", false, "enable development logging")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	var logger *zap.Logger
	if *debug {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()
	sugar := logger.Sugar()

	llm, err := completion.NewOpenAI(cfg.APIKey, cfg.Model.BaseURL)
	if err != nil {
		sugar.Fatalw("completion client", "error", err)
	}

	var web scrutari.SearchProvider
	switch cfg.Search.Web {
	case "brave":
		web = search.NewBrave(cfg.BraveKey)
	default:
		web = search.NewDuckDuckGo()
	}

	agent := scrutari.New(
		scrutari.WithCompletionProvider(llm),
		scrutari.WithWebSearch(web),
		scrutari.WithLiteratureSearch(search.NewPubMed(cfg.PubMedKey)),
		scrutari.WithModel(cfg.Model.Name),
		scrutari.WithReportTokens(cfg.Model.ReportTokens),
		scrutari.WithChatTokens(cfg.Model.ChatTokens),
		scrutari.WithScanTemperature(cfg.Model.ScanTemperature),
		scrutari.WithManuscriptLimit(cfg.Review.ManuscriptLimit),
		scrutari.WithChatExcerptLimit(cfg.Review.ChatExcerptLimit),
		scrutari.WithHistoryWindow(cfg.Review.HistoryWindow),
		scrutari.WithVerification(cfg.Review.VerifyCitations),
		scrutari.WithSynthesis(cfg.Review.Synthesis),
		scrutari.WithChatSearch(cfg.Review.ChatSearch),
		scrutari.WithLogger(sugar),
	)

	srv, err := server.New(agent, extract.NewPDF(), sugar)
	if err != nil {
		sugar.Fatalw("server", "error", err)
	}

	listen := cfg.Server.Address
	if *addr != "" {
		listen = *addr
	}
	sugar.Infow("starting server", "addr", listen, "model", cfg.Model.Name, "web_search", cfg.Search.Web)
	if err := http.ListenAndServe(listen, srv.Routes()); err != nil {
		sugar.Fatalw("listen", "error", err)
	}
}
