package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultAPIBase is the payments API the remote source talks to.
const DefaultAPIBase = "https://api.nikohealth.com"

// DefaultMinScore is the priority threshold applied when none is
// configured.
const DefaultMinScore = 0.3

// Config holds all runtime configuration for an ardash run.
type Config struct {
	APIKey     string // presence selects the remote source
	APIBase    string
	DSN        string // optional snapshot archive
	ListenAddr string
	LogFormat  string // "text" or "json"

	StartDate string // ISO YYYY-MM-DD, optional
	EndDate   string
	MinScore  float64

	// PayerRiskOverrides adjusts the scoring table per payer.
	PayerRiskOverrides map[string]float64 `yaml:"payer_risk"`
}

// yamlConfig is the on-disk YAML structure.
type yamlConfig struct {
	MinScore  *float64           `yaml:"min_score"`
	PayerRisk map[string]float64 `yaml:"payer_risk"`
}

// LoadFromFile reads a YAML config file and merges its values into Config.
func (c *Config) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	var yc yamlConfig
	if err := yaml.Unmarshal(data, &yc); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	if yc.MinScore != nil {
		c.MinScore = *yc.MinScore
	}
	if len(yc.PayerRisk) > 0 {
		c.PayerRiskOverrides = yc.PayerRisk
	}
	return nil
}

// RemoteEnabled reports whether the remote payments source is active.
// Mock and remote are mutually exclusive, selected only by key presence.
func (c *Config) RemoteEnabled() bool {
	return c.APIKey != ""
}

// Validate checks threshold and date fields.
func (c *Config) Validate() error {
	if c.MinScore < 0 || c.MinScore > 1 {
		return fmt.Errorf("min score %v outside [0,1]", c.MinScore)
	}
	for payer, risk := range c.PayerRiskOverrides {
		if risk < 0 || risk > 1 {
			return fmt.Errorf("payer risk override %q = %v outside [0,1]", payer, risk)
		}
	}
	start, err := parseDate(c.StartDate)
	if err != nil {
		return fmt.Errorf("start date: %w", err)
	}
	end, err := parseDate(c.EndDate)
	if err != nil {
		return fmt.Errorf("end date: %w", err)
	}
	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		return fmt.Errorf("end date %s before start date %s", c.EndDate, c.StartDate)
	}
	return nil
}

// ValidateWithDSN additionally requires a database connection string.
func (c *Config) ValidateWithDSN() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.DSN == "" {
		return fmt.Errorf("--dsn or DATABASE_URL is required")
	}
	return nil
}

// DateRange resolves the configured range, defaulting to the trailing
// 90 days ending at now.
func (c *Config) DateRange(now time.Time) (time.Time, time.Time, error) {
	start, err := parseDate(c.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("start date: %w", err)
	}
	end, err := parseDate(c.EndDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("end date: %w", err)
	}
	if end.IsZero() {
		end = now
	}
	if start.IsZero() {
		start = end.AddDate(0, 0, -90)
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("end date %s before start date %s", c.EndDate, c.StartDate)
	}
	return start, end, nil
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse %q: %w", s, err)
	}
	return t, nil
}
