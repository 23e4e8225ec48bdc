package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("BRAVE_API_KEY", "")
	t.Setenv("NCBI_API_KEY", "")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Address != ":8080" {
		t.Fatalf("address = %q", cfg.Server.Address)
	}
	if cfg.Model.Name != "gpt-4o-mini" || cfg.Model.ReportTokens != 4000 || cfg.Model.ChatTokens != 1024 {
		t.Fatalf("model defaults = %+v", cfg.Model)
	}
	if cfg.Review.ManuscriptLimit != 120000 || cfg.Review.ChatExcerptLimit != 30000 || cfg.Review.HistoryWindow != 4 {
		t.Fatalf("review defaults = %+v", cfg.Review)
	}
	if !cfg.Review.VerifyCitations || !cfg.Review.Synthesis || !cfg.Review.ChatSearch {
		t.Fatalf("pipeline toggles should default on: %+v", cfg.Review)
	}
	if cfg.Search.Web != "duckduckgo" {
		t.Fatalf("web backend = %q", cfg.Search.Web)
	}
	if cfg.APIKey != "sk-test" {
		t.Fatalf("api key = %q", cfg.APIKey)
	}
}

func TestLoadMissingAPIKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	if _, err := Load(""); err == nil {
		t.Fatal("expected error when OPENAI_API_KEY is unset")
	}
}

func TestLoadYAMLOverrides(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("BRAVE_API_KEY", "")

	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`
server:
  address: ":9999"
model:
  name: gpt-4o
  report_tokens: 2000
review:
  history_window: 8
  verify_citations: false
`)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Address != ":9999" {
		t.Fatalf("address = %q", cfg.Server.Address)
	}
	if cfg.Model.Name != "gpt-4o" || cfg.Model.ReportTokens != 2000 {
		t.Fatalf("model = %+v", cfg.Model)
	}
	if cfg.Review.HistoryWindow != 8 || cfg.Review.VerifyCitations {
		t.Fatalf("review = %+v", cfg.Review)
	}
	// Untouched fields keep their defaults.
	if cfg.Model.ChatTokens != 1024 {
		t.Fatalf("chat tokens = %d", cfg.Model.ChatTokens)
	}
}

func TestLoadBraveRequiresKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("BRAVE_API_KEY", "")

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("search:\n  web: brave\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for brave backend without BRAVE_API_KEY")
	}
}

func TestLoadMissingFile(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for a missing config file")
	}
}
