// Package config loads the service configuration: an optional YAML file
// layered over defaults, plus secrets resolved from the process
// environment (with a .env fallback for local runs).
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the full service configuration.
type Config struct {
	Server struct {
		Address string `yaml:"address"`
	} `yaml:"server"`

	Model struct {
		Name            string  `yaml:"name"`
		BaseURL         string  `yaml:"base_url"`
		ReportTokens    int64   `yaml:"report_tokens"`
		ChatTokens      int64   `yaml:"chat_tokens"`
		ScanTemperature float64 `yaml:"scan_temperature"`
	} `yaml:"model"`

	Review struct {
		ManuscriptLimit  int  `yaml:"manuscript_limit"`
		ChatExcerptLimit int  `yaml:"chat_excerpt_limit"`
		HistoryWindow    int  `yaml:"history_window"`
		VerifyCitations  bool `yaml:"verify_citations"`
		Synthesis        bool `yaml:"synthesis"`
		ChatSearch       bool `yaml:"chat_search"`
	} `yaml:"review"`

	Search struct {
		// Web selects the general web backend: duckduckgo or brave.
		Web string `yaml:"web"`
	} `yaml:"search"`

	// Secrets, environment-only.
	APIKey    string `yaml:"-"`
	BraveKey  string `yaml:"-"`
	PubMedKey string `yaml:"-"`
}

// Default returns the configuration used when no file overrides it.
func Default() Config {
	var cfg Config
	cfg.Server.Address = ":8080"
	cfg.Model.Name = "gpt-4o-mini"
	cfg.Model.ReportTokens = 4000
	cfg.Model.ChatTokens = 1024
	cfg.Model.ScanTemperature = 0.3
	cfg.Review.ManuscriptLimit = 120000
	cfg.Review.ChatExcerptLimit = 30000
	cfg.Review.HistoryWindow = 4
	cfg.Review.VerifyCitations = true
	cfg.Review.Synthesis = true
	cfg.Review.ChatSearch = true
	cfg.Search.Web = "duckduckgo"
	return cfg
}

// Load reads the optional YAML file at path (empty means defaults only)
// and resolves secrets. A missing completion API key is an error: the
// service must not start without it.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	}

	// Populate the environment from .env when present; real environment
	// variables win.
	_ = godotenv.Load(".env")

	cfg.APIKey = os.Getenv("OPENAI_API_KEY")
	if cfg.APIKey == "" {
		return Config{}, errors.New("OPENAI_API_KEY is not set (environment or .env)")
	}
	cfg.BraveKey = os.Getenv("BRAVE_API_KEY")
	cfg.PubMedKey = os.Getenv("NCBI_API_KEY")

	if cfg.Search.Web == "brave" && cfg.BraveKey == "" {
		return Config{}, errors.New("search.web is brave but BRAVE_API_KEY is not set")
	}
	return cfg, nil
}
