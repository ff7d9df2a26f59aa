package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sawpanic/newswatch/internal/calendar"
)

func TestDefault_CompleteAndValid(t *testing.T) {
	cfg := Default()

	assert.NoError(t, cfg.Windows.Validate())
	assert.Equal(t, 20, cfg.Windows.MinsBefore[calendar.ImpactHigh])
	assert.Equal(t, 30, cfg.Windows.MinsAfter[calendar.ImpactHigh])
	assert.Equal(t, []string{"USD", "EUR", "GBP", "JPY", "AUD", "CAD", "CHF", "NZD"}, cfg.Query.Currencies)
	assert.Equal(t, 7, cfg.Query.RangeDays)
	assert.NotEmpty(t, cfg.Source.CalendarURL)

	zone, err := cfg.SourceZone()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, zone)
}

func TestLoad_EmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_OverlaysFileOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "newswatch.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
source:
  xml_export_url: "https://example.com/export.xml"
  timezone: "America/New_York"
query:
  range_days: 2
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/export.xml", cfg.Source.XMLExportURL)
	assert.Equal(t, 2, cfg.Query.RangeDays)
	// Untouched sections keep their defaults.
	assert.Equal(t, 15, cfg.Windows.MinsBefore[calendar.ImpactMedium])

	zone, err := cfg.SourceZone()
	require.NoError(t, err)
	assert.Equal(t, "America/New_York", zone.String())
}

func TestLoad_IncompleteWindowsRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "newswatch.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
windows:
  mins_before:
    High: 20
  mins_after:
    High: 30
`), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	var ce *calendar.ConfigError
	assert.ErrorAs(t, err, &ce)
}

func TestLoad_MissingFileIsError(t *testing.T) {
	_, err := Load("/nonexistent/newswatch.yaml")
	assert.Error(t, err)
}

func TestSourceZone_InvalidName(t *testing.T) {
	cfg := Default()
	cfg.Source.Timezone = "Mars/Olympus_Mons"
	_, err := cfg.SourceZone()
	assert.Error(t, err)
}
