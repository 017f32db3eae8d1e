package config

import (
	"embed"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

//go:embed default_config.yaml
var defaultConfigFS embed.FS

// Kind selects the adapter behavior for a source. Each kind carries exactly
// the behavior it needs; there are no per-source boolean flags.
type Kind string

const (
	// KindFeed is a plain syndication feed taken as-is.
	KindFeed Kind = "feed"
	// KindFilteredFeed is a feed whose entries pass the relevance classifier.
	KindFilteredFeed Kind = "filtered-feed"
	// KindRanking is the signed bilibili ranking API; entries pass the
	// relevance classifier.
	KindRanking Kind = "ranking"
	// KindAuthorFeed is a trusted author's feed filtered down to
	// announcement-grade posts.
	KindAuthorFeed Kind = "author-feed"
)

type Source struct {
	Name          string `yaml:"name"`
	Kind          Kind   `yaml:"kind"`
	URL           string `yaml:"url,omitempty"`
	RID           int    `yaml:"rid,omitempty"`
	Icon          string `yaml:"icon"`
	Priority      int    `yaml:"priority"`
	Enabled       bool   `yaml:"enabled"`
	ProxyFallback bool   `yaml:"proxy_fallback,omitempty"`
}

type CategoryConfig struct {
	Key     string   `yaml:"key"`
	Label   string   `yaml:"label"`
	Sources []Source `yaml:"sources"`
}

type Config struct {
	RSSHubBase          string           `yaml:"rsshub_base"`
	BilibiliAPIBase     string           `yaml:"bilibili_api_base"`
	ProxyBase           string           `yaml:"proxy_base"`
	MaxItemsPerCategory int              `yaml:"max_items_per_category"`
	MaxAgeDays          int              `yaml:"max_age_days"`
	RequestTimeout      string           `yaml:"request_timeout"`
	Retention           string           `yaml:"retention"`
	DataFile            string           `yaml:"data_file,omitempty"`
	Categories          []CategoryConfig `yaml:"categories"`
}

// MaxAge returns the merge retention window.
func (c *Config) MaxAge() time.Duration {
	days := c.MaxAgeDays
	if days <= 0 {
		days = 30
	}
	return time.Duration(days) * 24 * time.Hour
}

// Timeout returns the per-request timeout.
func (c *Config) Timeout() time.Duration {
	d, err := time.ParseDuration(c.RequestTimeout)
	if err != nil || d <= 0 {
		return 30 * time.Second
	}
	return d
}

// MaxItems returns the per-category item cap.
func (c *Config) MaxItems() int {
	if c.MaxItemsPerCategory <= 0 {
		return 50
	}
	return c.MaxItemsPerCategory
}

// RetentionDuration returns the archive prune window. Supports "Nd" day
// syntax on top of time.ParseDuration.
func (c *Config) RetentionDuration() time.Duration {
	if c.Retention == "" {
		return 90 * 24 * time.Hour
	}
	if len(c.Retention) > 1 && c.Retention[len(c.Retention)-1] == 'd' {
		var days int
		if _, err := fmt.Sscanf(c.Retention, "%dd", &days); err == nil {
			return time.Duration(days) * 24 * time.Hour
		}
	}
	d, err := time.ParseDuration(c.Retention)
	if err != nil {
		return 90 * 24 * time.Hour
	}
	return d
}

// EnabledSources returns the enabled sources for one category, with
// ${RSSHUB_BASE} expanded.
func (cc CategoryConfig) EnabledSources(rsshubBase string) []Source {
	var out []Source
	for _, s := range cc.Sources {
		if !s.Enabled {
			continue
		}
		s.URL = strings.ReplaceAll(s.URL, "${RSSHUB_BASE}", rsshubBase)
		out = append(out, s)
	}
	return out
}

// ResolvedRSSHubBase prefers the RSSHUB_BASE environment variable, matching
// how the CI job points the pipeline at a self-hosted instance.
func (c *Config) ResolvedRSSHubBase() string {
	if env := os.Getenv("RSSHUB_BASE"); env != "" {
		return env
	}
	if c.RSSHubBase != "" {
		return c.RSSHubBase
	}
	return "https://rsshub.app"
}

// SnapshotPath returns the data file location: config override, or the XDG
// data directory.
func (c *Config) SnapshotPath() string {
	if c.DataFile != "" {
		return c.DataFile
	}
	return filepath.Join(xdg.DataHome, "gensokyo-daily", "news_data.json")
}

func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, "gensokyo-daily", "config.yaml")
}

func ArchivePath() string {
	return filepath.Join(xdg.CacheHome, "gensokyo-daily", "archive.db")
}

func loadDefaults() (*Config, error) {
	data, err := defaultConfigFS.ReadFile("default_config.yaml")
	if err != nil {
		return nil, fmt.Errorf("reading embedded config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded config: %w", err)
	}
	return &cfg, nil
}

func Load(path string) (*Config, error) {
	defaults, err := loadDefaults()
	if err != nil {
		return nil, err
	}

	if path == "" {
		path = DefaultConfigPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Write defaults to config path on first run
			if err := writeDefaults(path); err != nil {
				// Non-fatal: just use embedded defaults
				return defaults, nil
			}
			return defaults, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func writeDefaults(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, _ := defaultConfigFS.ReadFile("default_config.yaml")
	return os.WriteFile(path, data, 0o644)
}

func validate(cfg *Config) error {
	validKinds := map[Kind]bool{
		KindFeed: true, KindFilteredFeed: true, KindRanking: true, KindAuthorFeed: true,
	}
	seen := map[string]bool{}
	for _, cat := range cfg.Categories {
		if cat.Key == "" {
			return fmt.Errorf("category %q: key is required", cat.Label)
		}
		if seen[cat.Key] {
			return fmt.Errorf("duplicate category key %q", cat.Key)
		}
		seen[cat.Key] = true

		for i, s := range cat.Sources {
			if s.Name == "" {
				return fmt.Errorf("category %q source %d: name is required", cat.Key, i)
			}
			if !validKinds[s.Kind] {
				return fmt.Errorf("source %q: unknown kind %q (valid: feed, filtered-feed, ranking, author-feed)", s.Name, s.Kind)
			}
			if s.Kind == KindRanking {
				if s.RID <= 0 {
					return fmt.Errorf("source %q: ranking sources need a positive rid", s.Name)
				}
				continue
			}
			if s.URL == "" {
				return fmt.Errorf("source %q: url is required", s.Name)
			}
			raw := strings.ReplaceAll(s.URL, "${RSSHUB_BASE}", "https://rsshub.example")
			u, err := url.Parse(raw)
			if err != nil {
				return fmt.Errorf("source %q: invalid url: %w", s.Name, err)
			}
			if u.Scheme != "http" && u.Scheme != "https" {
				return fmt.Errorf("source %q: url scheme must be http or https, got %q", s.Name, u.Scheme)
			}
		}
	}
	return nil
}
