// Package config loads the newswatch configuration file. Every field
// has a default so the binary runs with no config at all; CLI flags
// override whatever the file provides.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sawpanic/newswatch/internal/calendar"
	"github.com/sawpanic/newswatch/internal/ingest"
)

// Config is the full runtime configuration.
type Config struct {
	Source  SourceConfig          `yaml:"source"`
	Fetcher ingest.FetcherConfig  `yaml:"fetcher"`
	Windows calendar.WindowConfig `yaml:"windows"`
	Query   QueryConfig           `yaml:"query"`
}

// SourceConfig describes where events come from and how their
// timestamps are expressed.
type SourceConfig struct {
	CSVExportURL string `yaml:"csv_export_url"`
	XMLExportURL string `yaml:"xml_export_url"`
	CalendarURL  string `yaml:"calendar_url"`
	// Timezone the feed's timestamps are expressed in, IANA name.
	Timezone string `yaml:"timezone"`
}

// QueryConfig carries the default query shape.
type QueryConfig struct {
	Currencies []string `yaml:"currencies"`
	RangeDays  int      `yaml:"range_days"`
}

// Default returns the stock configuration.
func Default() Config {
	return Config{
		Source: SourceConfig{
			CalendarURL: ingest.DefaultCalendarURL,
			Timezone:    "UTC",
		},
		Fetcher: ingest.DefaultFetcherConfig(),
		Windows: calendar.DefaultWindowConfig(),
		Query: QueryConfig{
			Currencies: []string{"USD", "EUR", "GBP", "JPY", "AUD", "CAD", "CHF", "NZD"},
			RangeDays:  7,
		},
	}
}

// Load reads a YAML config over the defaults. An empty path returns
// pure defaults. A windows section in the file replaces the default
// maps wholesale: an impact missing from a user-supplied window map is
// a ConfigError, never silently defaulted.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	var file Config
	if err := yaml.Unmarshal(data, &file); err != nil {
		return cfg, fmt.Errorf("failed to parse config YAML: %w", err)
	}
	cfg.merge(file)
	if err := cfg.Windows.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// merge overlays the explicitly-set fields of a file config.
func (c *Config) merge(o Config) {
	if o.Source.CSVExportURL != "" {
		c.Source.CSVExportURL = o.Source.CSVExportURL
	}
	if o.Source.XMLExportURL != "" {
		c.Source.XMLExportURL = o.Source.XMLExportURL
	}
	if o.Source.CalendarURL != "" {
		c.Source.CalendarURL = o.Source.CalendarURL
	}
	if o.Source.Timezone != "" {
		c.Source.Timezone = o.Source.Timezone
	}
	if o.Fetcher.Timeout != 0 {
		c.Fetcher.Timeout = o.Fetcher.Timeout
	}
	if o.Fetcher.RatePerSecond != 0 {
		c.Fetcher.RatePerSecond = o.Fetcher.RatePerSecond
	}
	if o.Fetcher.RateBurst != 0 {
		c.Fetcher.RateBurst = o.Fetcher.RateBurst
	}
	if o.Fetcher.BreakerMaxFail != 0 {
		c.Fetcher.BreakerMaxFail = o.Fetcher.BreakerMaxFail
	}
	if o.Fetcher.BreakerCooloff != 0 {
		c.Fetcher.BreakerCooloff = o.Fetcher.BreakerCooloff
	}
	if o.Fetcher.UserAgents != nil {
		c.Fetcher.UserAgents = o.Fetcher.UserAgents
	}
	if o.Windows.MinsBefore != nil {
		c.Windows.MinsBefore = o.Windows.MinsBefore
	}
	if o.Windows.MinsAfter != nil {
		c.Windows.MinsAfter = o.Windows.MinsAfter
	}
	if o.Query.Currencies != nil {
		c.Query.Currencies = o.Query.Currencies
	}
	if o.Query.RangeDays != 0 {
		c.Query.RangeDays = o.Query.RangeDays
	}
}

// SourceZone resolves the configured feed timezone.
func (c Config) SourceZone() (*time.Location, error) {
	if c.Source.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.Source.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid source timezone %q: %w", c.Source.Timezone, err)
	}
	return loc, nil
}
