package store

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// StaticBar is one fixture close used by the STATIC market data provider.
type StaticBar struct {
	Date  string  `yaml:"date"` // YYYY-MM-DD
	Close float64 `yaml:"close"`
}

type Config struct {
	Symbols     []string `yaml:"symbols"`
	InitialCash float64  `yaml:"initial_cash"`

	Simulation struct {
		Days         int    `yaml:"days"`
		IntervalDays int    `yaml:"interval_days"`
		EndDate      string `yaml:"end_date"` // YYYY-MM-DD, empty means today
		PauseMs      int    `yaml:"pause_ms"`
	} `yaml:"simulation"`

	Market struct {
		Provider         string                 `yaml:"provider"` // YAHOO, KITE, ALPACA, STATIC
		LookbackDays     int                    `yaml:"lookback_days"`
		InstrumentTokens map[string]int         `yaml:"instrument_tokens"` // KITE only
		Static           map[string][]StaticBar `yaml:"static"`            // STATIC only
	} `yaml:"market"`

	News struct {
		Provider string `yaml:"provider"` // NEWSAPI, SCRAPER, NONE
		MaxItems int    `yaml:"max_items"`
	} `yaml:"news"`

	LLM struct {
		Provider    string  `yaml:"provider"` // OPENAI, GEMINI, NOOP
		Model       string  `yaml:"model"`
		MaxTokens   int     `yaml:"max_tokens"`
		Temperature float32 `yaml:"temperature"`
		System      string  `yaml:"system"`
	} `yaml:"llm"`

	Report struct {
		Dir string `yaml:"dir"`
	} `yaml:"report"`
}

// EndDate resolves the simulation end anchor. Empty config means today.
func (c *Config) EndDate() (time.Time, error) {
	if c.Simulation.EndDate == "" {
		now := time.Now().UTC()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	t, err := time.Parse("2006-01-02", c.Simulation.EndDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid simulation.end_date %q: %w", c.Simulation.EndDate, err)
	}
	return t, nil
}

func (c *Config) Validate() error {
	if len(c.Symbols) == 0 {
		return errors.New("symbols cannot be empty")
	}
	if c.InitialCash <= 0 {
		return fmt.Errorf("initial_cash must be positive, got %.2f", c.InitialCash)
	}
	if c.Simulation.Days <= 0 {
		return fmt.Errorf("simulation.days must be positive, got %d", c.Simulation.Days)
	}
	if c.Simulation.IntervalDays <= 0 {
		return fmt.Errorf("simulation.interval_days must be positive, got %d", c.Simulation.IntervalDays)
	}
	switch c.Market.Provider {
	case "YAHOO", "KITE", "ALPACA", "STATIC":
	default:
		return fmt.Errorf("market.provider must be 'YAHOO', 'KITE', 'ALPACA', or 'STATIC', got '%s'", c.Market.Provider)
	}
	if c.Market.Provider == "KITE" && len(c.Market.InstrumentTokens) == 0 {
		return errors.New("market.instrument_tokens required for KITE provider")
	}
	if c.Market.Provider == "STATIC" && len(c.Market.Static) == 0 {
		return errors.New("market.static fixtures required for STATIC provider")
	}
	switch c.News.Provider {
	case "NEWSAPI", "SCRAPER", "NONE":
	default:
		return fmt.Errorf("news.provider must be 'NEWSAPI', 'SCRAPER', or 'NONE', got '%s'", c.News.Provider)
	}
	switch c.LLM.Provider {
	case "OPENAI", "GEMINI", "NOOP":
	default:
		return fmt.Errorf("llm.provider must be 'OPENAI', 'GEMINI', or 'NOOP', got '%s'", c.LLM.Provider)
	}
	if _, err := c.EndDate(); err != nil {
		return err
	}
	return nil
}

func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}

	applyDefaults(&c)

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &c, nil
}

func applyDefaults(c *Config) {
	if c.InitialCash == 0 {
		c.InitialCash = 100000
	}
	if c.Simulation.Days == 0 {
		c.Simulation.Days = 1
	}
	if c.Simulation.IntervalDays == 0 {
		c.Simulation.IntervalDays = 1
	}
	if c.Market.Provider == "" {
		c.Market.Provider = "YAHOO"
	}
	if c.Market.LookbackDays == 0 {
		c.Market.LookbackDays = 30
	}
	if c.News.Provider == "" {
		c.News.Provider = "NEWSAPI"
	}
	if c.News.MaxItems == 0 {
		c.News.MaxItems = 5
	}
	if c.LLM.Provider == "" {
		c.LLM.Provider = "NOOP"
	}
	if c.LLM.Model == "" {
		c.LLM.Model = "gpt-4o"
	}
	if c.LLM.MaxTokens == 0 {
		c.LLM.MaxTokens = 150
	}
	if c.LLM.Temperature == 0 {
		c.LLM.Temperature = 0.5
	}
	if c.Report.Dir == "" {
		c.Report.Dir = "reports"
	}
}
