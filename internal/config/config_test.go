package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadFromFile_Valid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	os.WriteFile(path, []byte("min_score: 0.5\npayer_risk:\n  Cigna: 0.45\n"), 0644)

	c := Config{MinScore: DefaultMinScore}
	if err := c.LoadFromFile(path); err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}
	if c.MinScore != 0.5 {
		t.Errorf("MinScore = %v, want 0.5", c.MinScore)
	}
	if got := c.PayerRiskOverrides["Cigna"]; got != 0.45 {
		t.Errorf("PayerRiskOverrides[Cigna] = %v, want 0.45", got)
	}
}

func TestLoadFromFile_PartialKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	os.WriteFile(path, []byte("payer_risk:\n  Humana: 0.7\n"), 0644)

	c := Config{MinScore: DefaultMinScore}
	if err := c.LoadFromFile(path); err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}
	if c.MinScore != DefaultMinScore {
		t.Errorf("MinScore = %v, want default %v", c.MinScore, DefaultMinScore)
	}
}

func TestLoadFromFile_MissingFile(t *testing.T) {
	var c Config
	if err := c.LoadFromFile("/nonexistent/config.yaml"); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"defaults", Config{MinScore: 0.3}, false},
		{"min score too high", Config{MinScore: 1.2}, true},
		{"min score negative", Config{MinScore: -0.1}, true},
		{"bad override", Config{MinScore: 0.3, PayerRiskOverrides: map[string]float64{"X": 2}}, true},
		{"bad start date", Config{MinScore: 0.3, StartDate: "06/01/2025"}, true},
		{"inverted range", Config{MinScore: 0.3, StartDate: "2025-06-01", EndDate: "2025-05-01"}, true},
		{"valid range", Config{MinScore: 0.3, StartDate: "2025-05-01", EndDate: "2025-06-01"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() err = %v, wantErr = %v", err, tc.wantErr)
			}
		})
	}
}

func TestRemoteEnabled(t *testing.T) {
	if (&Config{}).RemoteEnabled() {
		t.Error("RemoteEnabled without key")
	}
	if !(&Config{APIKey: "sk-test"}).RemoteEnabled() {
		t.Error("not RemoteEnabled with key")
	}
}

func TestDateRange_Defaults(t *testing.T) {
	now := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	start, end, err := (&Config{}).DateRange(now)
	if err != nil {
		t.Fatalf("DateRange: %v", err)
	}
	if !end.Equal(now) {
		t.Errorf("end = %s, want now", end)
	}
	if !start.Equal(now.AddDate(0, 0, -90)) {
		t.Errorf("start = %s, want now-90d", start)
	}
}

func TestDateRange_Explicit(t *testing.T) {
	now := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	c := &Config{StartDate: "2025-01-01", EndDate: "2025-03-01"}
	start, end, err := c.DateRange(now)
	if err != nil {
		t.Fatalf("DateRange: %v", err)
	}
	if start.Format(time.DateOnly) != "2025-01-01" || end.Format(time.DateOnly) != "2025-03-01" {
		t.Errorf("range = %s..%s", start, end)
	}
}
