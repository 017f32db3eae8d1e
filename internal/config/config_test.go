package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := loadDefaults()
	if err != nil {
		t.Fatalf("loadDefaults: %v", err)
	}
	if len(cfg.Categories) != 3 {
		t.Errorf("expected 3 default categories, got %d", len(cfg.Categories))
	}
	if cfg.MaxItemsPerCategory != 50 {
		t.Errorf("expected max_items_per_category 50, got %d", cfg.MaxItemsPerCategory)
	}
	if cfg.MaxAgeDays != 30 {
		t.Errorf("expected max_age_days 30, got %d", cfg.MaxAgeDays)
	}
	if err := validate(cfg); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestMaxAge(t *testing.T) {
	cfg := &Config{MaxAgeDays: 30}
	if got := cfg.MaxAge(); got != 30*24*time.Hour {
		t.Errorf("MaxAge = %v, want 720h", got)
	}
	cfg.MaxAgeDays = 0
	if got := cfg.MaxAge(); got != 30*24*time.Hour {
		t.Errorf("MaxAge default = %v, want 720h", got)
	}
}

func TestTimeout(t *testing.T) {
	cfg := &Config{RequestTimeout: "10s"}
	if got := cfg.Timeout(); got != 10*time.Second {
		t.Errorf("Timeout = %v, want 10s", got)
	}
	cfg.RequestTimeout = "invalid"
	if got := cfg.Timeout(); got != 30*time.Second {
		t.Errorf("Timeout fallback = %v, want 30s", got)
	}
}

func TestRetentionDuration(t *testing.T) {
	tests := []struct {
		input    string
		wantDays int
	}{
		{"90d", 90},
		{"30d", 30},
		{"720h", 30},
		{"", 90},        // default
		{"invalid", 90}, // fallback to default
	}
	for _, tt := range tests {
		cfg := &Config{Retention: tt.input}
		got := cfg.RetentionDuration()
		wantHours := float64(tt.wantDays * 24)
		if got.Hours() != wantHours {
			t.Errorf("RetentionDuration(%q) = %v, want %dd", tt.input, got, tt.wantDays)
		}
	}
}

func TestEnabledSourcesExpandsBase(t *testing.T) {
	cat := CategoryConfig{
		Key: "community",
		Sources: []Source{
			{Name: "A", Kind: KindFeed, URL: "${RSSHUB_BASE}/twitter/user/korindo", Enabled: true},
			{Name: "B", Kind: KindFeed, URL: "https://example.com/feed", Enabled: false},
		},
	}
	enabled := cat.EnabledSources("https://rsshub.example")
	if len(enabled) != 1 {
		t.Fatalf("expected 1 enabled source, got %d", len(enabled))
	}
	if enabled[0].URL != "https://rsshub.example/twitter/user/korindo" {
		t.Errorf("expected expanded URL, got %s", enabled[0].URL)
	}
}

func TestResolvedRSSHubBaseEnvOverride(t *testing.T) {
	t.Setenv("RSSHUB_BASE", "https://my-instance.example")
	cfg := &Config{RSSHubBase: "https://rsshub.app"}
	if got := cfg.ResolvedRSSHubBase(); got != "https://my-instance.example" {
		t.Errorf("env override ignored, got %s", got)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")

	content := `max_age_days: 14
categories:
  - key: official
    label: Front Page
    sources:
      - name: Test
        kind: feed
        url: https://example.com/feed
        enabled: true
`
	if err := os.WriteFile(cfgPath, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.MaxAgeDays != 14 {
		t.Errorf("expected max_age_days 14, got %d", cfg.MaxAgeDays)
	}
	if len(cfg.Categories) != 1 || cfg.Categories[0].Sources[0].Name != "Test" {
		t.Errorf("unexpected categories: %+v", cfg.Categories)
	}
}

func TestLoadNonexistentFallsBackToDefaults(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "sub", "config.yaml")

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.Categories) == 0 {
		t.Error("expected default categories when config doesn't exist")
	}
}

func TestValidateUnknownKind(t *testing.T) {
	cfg := &Config{Categories: []CategoryConfig{{
		Key: "official",
		Sources: []Source{
			{Name: "Test", Kind: "telepathy", URL: "https://example.com"},
		},
	}}}
	if err := validate(cfg); err == nil {
		t.Error("expected error for unknown kind")
	}
}

func TestValidateRankingNeedsRID(t *testing.T) {
	cfg := &Config{Categories: []CategoryConfig{{
		Key: "community",
		Sources: []Source{
			{Name: "Rank", Kind: KindRanking},
		},
	}}}
	if err := validate(cfg); err == nil {
		t.Error("expected error for ranking source without rid")
	}
}

func TestValidateRankingNeedsNoURL(t *testing.T) {
	cfg := &Config{Categories: []CategoryConfig{{
		Key: "community",
		Sources: []Source{
			{Name: "Rank", Kind: KindRanking, RID: 25},
		},
	}}}
	if err := validate(cfg); err != nil {
		t.Errorf("ranking source with rid should validate: %v", err)
	}
}

func TestValidateInvalidURLScheme(t *testing.T) {
	cfg := &Config{Categories: []CategoryConfig{{
		Key: "official",
		Sources: []Source{
			{Name: "Test", Kind: KindFeed, URL: "file:///etc/passwd"},
		},
	}}}
	if err := validate(cfg); err == nil {
		t.Error("expected error for file:// URL scheme")
	}
}

func TestValidateDuplicateCategoryKey(t *testing.T) {
	cfg := &Config{Categories: []CategoryConfig{
		{Key: "official"},
		{Key: "official"},
	}}
	if err := validate(cfg); err == nil {
		t.Error("expected error for duplicate category key")
	}
}
