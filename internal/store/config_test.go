package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfigAppliesDefaults(t *testing.T) {
	path := writeConfig(t, "symbols: [AAPL]\n")
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.InitialCash != 100000 {
		t.Errorf("Expected default initial_cash 100000, got %.2f", cfg.InitialCash)
	}
	if cfg.Simulation.Days != 1 || cfg.Simulation.IntervalDays != 1 {
		t.Errorf("Expected one-day defaults, got days=%d interval=%d", cfg.Simulation.Days, cfg.Simulation.IntervalDays)
	}
	if cfg.Market.Provider != "YAHOO" || cfg.Market.LookbackDays != 30 {
		t.Errorf("Unexpected market defaults: %+v", cfg.Market)
	}
	if cfg.News.Provider != "NEWSAPI" || cfg.News.MaxItems != 5 {
		t.Errorf("Unexpected news defaults: %+v", cfg.News)
	}
	if cfg.LLM.Provider != "NOOP" || cfg.LLM.MaxTokens != 150 {
		t.Errorf("Unexpected llm defaults: %+v", cfg.LLM)
	}
	if cfg.Report.Dir != "reports" {
		t.Errorf("Expected default report dir 'reports', got %q", cfg.Report.Dir)
	}
}

func TestLoadConfigFullDocument(t *testing.T) {
	path := writeConfig(t, `
symbols: [AAPL, MSFT]
initial_cash: 50000
simulation:
  days: 10
  interval_days: 2
  end_date: "2025-06-15"
market:
  provider: STATIC
  static:
    AAPL:
      - {date: "2025-06-02", close: 150.0}
news:
  provider: NONE
llm:
  provider: OPENAI
  model: gpt-4o-mini
  temperature: 0.2
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if len(cfg.Symbols) != 2 || cfg.Symbols[1] != "MSFT" {
		t.Errorf("Unexpected symbols: %v", cfg.Symbols)
	}
	end, err := cfg.EndDate()
	if err != nil {
		t.Fatal(err)
	}
	want := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	if !end.Equal(want) {
		t.Errorf("Expected end date %s, got %s", want, end)
	}
	if len(cfg.Market.Static["AAPL"]) != 1 || cfg.Market.Static["AAPL"][0].Close != 150.0 {
		t.Errorf("Unexpected static fixtures: %+v", cfg.Market.Static)
	}
}

func TestEndDateDefaultsToTodayMidnightUTC(t *testing.T) {
	cfg := &Config{}
	end, err := cfg.EndDate()
	if err != nil {
		t.Fatal(err)
	}
	if end.Hour() != 0 || end.Minute() != 0 || end.Location() != time.UTC {
		t.Errorf("Expected midnight UTC anchor, got %s", end)
	}
}

func TestValidateRejections(t *testing.T) {
	base := func() *Config {
		c := &Config{Symbols: []string{"AAPL"}, InitialCash: 1000}
		applyDefaults(c)
		return c
	}

	cases := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"no symbols", func(c *Config) { c.Symbols = nil }, "symbols cannot be empty"},
		{"negative cash", func(c *Config) { c.InitialCash = -1 }, "initial_cash must be positive"},
		{"zero days", func(c *Config) { c.Simulation.Days = -1 }, "simulation.days must be positive"},
		{"zero interval", func(c *Config) { c.Simulation.IntervalDays = -1 }, "simulation.interval_days must be positive"},
		{"bad market provider", func(c *Config) { c.Market.Provider = "BLOOMBERG" }, "market.provider must be"},
		{"kite without tokens", func(c *Config) { c.Market.Provider = "KITE" }, "instrument_tokens required"},
		{"static without fixtures", func(c *Config) { c.Market.Provider = "STATIC" }, "static fixtures required"},
		{"bad news provider", func(c *Config) { c.News.Provider = "RSS" }, "news.provider must be"},
		{"bad llm provider", func(c *Config) { c.LLM.Provider = "LLAMA" }, "llm.provider must be"},
		{"bad end date", func(c *Config) { c.Simulation.EndDate = "15/06/2025" }, "invalid simulation.end_date"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := base()
			tc.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("Expected validation error")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("Expected error containing %q, got %q", tc.wantErr, err)
			}
		})
	}
}

func TestValidateAcceptsDefaults(t *testing.T) {
	c := &Config{Symbols: []string{"AAPL"}}
	applyDefaults(c)
	if err := c.Validate(); err != nil {
		t.Fatalf("Defaulted config must validate, got %v", err)
	}
}
