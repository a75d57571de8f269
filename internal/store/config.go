package store

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Backtest struct {
		Horizon   string    `yaml:"horizon"`
		Threshold float64   `yaml:"threshold"`
		Sweep     []float64 `yaml:"sweep"`
	} `yaml:"backtest"`
	Window struct {
		PadBeforeDays int `yaml:"pad_before_days"`
		PadAfterDays  int `yaml:"pad_after_days"`
	} `yaml:"window"`
	Prices struct {
		Provider      string        `yaml:"provider"`
		Exchange      string        `yaml:"exchange"`
		RatePerSecond float64       `yaml:"rate_per_second"`
		Concurrency   int           `yaml:"concurrency"`
		Timeout       time.Duration `yaml:"timeout"`
		CacheTTL      time.Duration `yaml:"cache_ttl"`
		CSVPath       string        `yaml:"csv_path"`
		YahooBaseURL  string        `yaml:"yahoo_base_url"`
		Seed          int64         `yaml:"seed"`
	} `yaml:"prices"`
	News struct {
		Sources     []string      `yaml:"sources"`
		MaxPerQuery int           `yaml:"max_per_query"`
		Timeout     time.Duration `yaml:"timeout"`
	} `yaml:"news"`
	Export struct {
		Dir        string `yaml:"dir"`
		JoinedFile string `yaml:"joined_file"`
		CurveFile  string `yaml:"curve_file"`
		ResultFile string `yaml:"result_file"`
	} `yaml:"export"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

func (c *Config) applyDefaults() {
	if c.Backtest.Horizon == "" {
		c.Backtest.Horizon = "1d"
	}
	if c.Backtest.Threshold == 0 {
		c.Backtest.Threshold = 0.05
	}
	if len(c.Backtest.Sweep) == 0 {
		c.Backtest.Sweep = []float64{-0.5, -0.4, -0.3, -0.2, -0.1, 0, 0.05, 0.1, 0.2, 0.3, 0.4, 0.5}
	}
	if c.Window.PadBeforeDays == 0 {
		c.Window.PadBeforeDays = 30
	}
	if c.Window.PadAfterDays == 0 {
		c.Window.PadAfterDays = 10
	}
	if c.Prices.Provider == "" {
		c.Prices.Provider = "STATIC"
	}
	c.Prices.Provider = strings.ToUpper(c.Prices.Provider)
	if c.Prices.Exchange == "" {
		c.Prices.Exchange = "NSE"
	}
	if c.Prices.RatePerSecond == 0 {
		c.Prices.RatePerSecond = 2
	}
	if c.Prices.Concurrency == 0 {
		c.Prices.Concurrency = 4
	}
	if c.Prices.Timeout == 0 {
		c.Prices.Timeout = 20 * time.Second
	}
	if c.Prices.CacheTTL == 0 {
		c.Prices.CacheTTL = 15 * time.Minute
	}
	if c.News.MaxPerQuery == 0 {
		c.News.MaxPerQuery = 20
	}
	if c.News.Timeout == 0 {
		c.News.Timeout = 30 * time.Second
	}
	if c.Export.Dir == "" {
		c.Export.Dir = "out"
	}
	if c.Export.JoinedFile == "" {
		c.Export.JoinedFile = "sentiment_price_joined.csv"
	}
	if c.Export.CurveFile == "" {
		c.Export.CurveFile = "equity_curve.csv"
	}
	if c.Export.ResultFile == "" {
		c.Export.ResultFile = "result.json"
	}
}

func (c *Config) Validate() error {
	switch c.Backtest.Horizon {
	case "1d", "3d", "5d":
	default:
		return fmt.Errorf("backtest.horizon must be '1d', '3d' or '5d', got '%s'", c.Backtest.Horizon)
	}
	if c.Backtest.Threshold < -1 || c.Backtest.Threshold > 1 {
		return fmt.Errorf("backtest.threshold must be within [-1, 1], got %.2f", c.Backtest.Threshold)
	}
	if c.Window.PadBeforeDays < 0 || c.Window.PadAfterDays < 0 {
		return fmt.Errorf("window padding cannot be negative")
	}
	switch c.Prices.Provider {
	case "STATIC", "YAHOO", "KITE":
	case "CSV":
		if c.Prices.CSVPath == "" {
			return fmt.Errorf("prices.csv_path is required when prices.provider is 'CSV'")
		}
	default:
		return fmt.Errorf("invalid prices.provider '%s': must be 'STATIC', 'YAHOO', 'KITE' or 'CSV'", c.Prices.Provider)
	}
	if c.Prices.Concurrency < 1 {
		return fmt.Errorf("prices.concurrency must be at least 1, got %d", c.Prices.Concurrency)
	}
	if c.Prices.RatePerSecond < 0 {
		return fmt.Errorf("prices.rate_per_second cannot be negative")
	}
	return nil
}

func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	// Decoding over the defaults keeps explicit zero values such as threshold: 0.
	c := Default()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	c.Prices.Provider = strings.ToUpper(c.Prices.Provider)
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return c, nil
}
