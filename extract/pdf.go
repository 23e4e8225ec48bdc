// Package extract turns uploaded manuscripts into plain text.
package extract

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PDF extracts plain text from a PDF manuscript, annotating page
// boundaries so critiques can point at locations.
type PDF struct {
	// PageMarkers inserts "[Page N]" lines between pages.
	PageMarkers bool
}

// NewPDF creates an extractor with page markers enabled.
func NewPDF() *PDF {
	return &PDF{PageMarkers: true}
}

// Extract reads the whole document. Pages that fail individually are
// skipped; an unreadable file or a document with no extractable text at
// all is an error for the caller to surface to the user.
func (p *PDF) Extract(r io.ReaderAt, size int64) (string, error) {
	reader, err := pdf.NewReader(r, size)
	if err != nil {
		return "", fmt.Errorf("read pdf: %w", err)
	}

	var b strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil || strings.TrimSpace(text) == "" {
			continue
		}
		if p.PageMarkers {
			fmt.Fprintf(&b, "\n[Page %d]\n", i)
		}
		b.WriteString(text)
	}

	out := strings.TrimSpace(b.String())
	if out == "" {
		return "", errors.New("no extractable text in document")
	}
	return out, nil
}
