package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gigurra/cashflow-forecast/internal/forecast"
	"gopkg.in/yaml.v3"
)

// Defaults used when the config file leaves a key out.
const (
	DefaultHorizonMonths = 12
	DefaultView          = forecast.ViewMonth
)

type Config struct {
	// Currency is the ISO code used when formatting amounts.
	Currency string `yaml:"currency,omitempty"`

	// HorizonMonths is how far ahead the forecast runs.
	HorizonMonths int `yaml:"horizon_months,omitempty"`

	// MaxIterations caps how far a single rule is expanded (see forecast.DefaultMaxIterations).
	MaxIterations int `yaml:"max_iterations,omitempty"`

	// View is the default paging granularity for table output.
	View string `yaml:"view,omitempty"`

	// SpendBands overrides the weekly amount of onboarding spend bands.
	SpendBands map[int]float64 `yaml:"spend_bands,omitempty"`

	// LowBalanceWarning makes the CLI warn when the lowest projected balance
	// falls below this amount, even if it stays positive.
	LowBalanceWarning *float64 `yaml:"low_balance_warning,omitempty"`
}

// DefaultConfigPath returns the default config file path (~/.cashflow-forecast/config.yaml)
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".cashflow-forecast", "config.yaml")
}

// NewDefaultConfig returns the config used when no file exists.
func NewDefaultConfig() *Config {
	return &Config{
		Currency:      DefaultCurrency,
		HorizonMonths: DefaultHorizonMonths,
		MaxIterations: forecast.DefaultMaxIterations,
		View:          string(DefaultView),
	}
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := NewDefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}

	return cfg, nil
}

func (c *Config) validate() error {
	c.Currency = strings.ToUpper(strings.TrimSpace(c.Currency))
	if c.Currency == "" {
		c.Currency = DefaultCurrency
	}
	if c.HorizonMonths < 0 {
		return fmt.Errorf("horizon_months must not be negative, got %d", c.HorizonMonths)
	}
	if c.MaxIterations < 0 {
		return fmt.Errorf("max_iterations must not be negative, got %d", c.MaxIterations)
	}
	if c.View != "" {
		if _, err := forecast.ParseView(c.View); err != nil {
			return err
		}
	}
	for band, amount := range c.SpendBands {
		if amount < 0 {
			return fmt.Errorf("spend band %d has negative amount %v", band, amount)
		}
	}
	return nil
}

func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	// Create parent directories if they don't exist
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// WeeklySpendForBand resolves a spend band, preferring configured overrides.
func (c *Config) WeeklySpendForBand(band int) float64 {
	if c != nil {
		if amount, ok := c.SpendBands[band]; ok {
			return amount
		}
	}
	return WeeklySpendForBand(band)
}

// MaxIterationsOrDefault returns the configured iteration cap.
func (c *Config) MaxIterationsOrDefault() int {
	if c == nil || c.MaxIterations <= 0 {
		return forecast.DefaultMaxIterations
	}
	return c.MaxIterations
}

// Horizon returns the forecast horizon in months.
func (c *Config) Horizon() int {
	if c == nil || c.HorizonMonths <= 0 {
		return DefaultHorizonMonths
	}
	return c.HorizonMonths
}

// DefaultViewOrFallback returns the configured view, or month.
func (c *Config) DefaultViewOrFallback() forecast.View {
	if c == nil || c.View == "" {
		return DefaultView
	}
	v, err := forecast.ParseView(c.View)
	if err != nil {
		return DefaultView
	}
	return v
}

// CurrencyCode returns the configured currency code.
func (c *Config) CurrencyCode() string {
	if c == nil || c.Currency == "" {
		return DefaultCurrency
	}
	return c.Currency
}
