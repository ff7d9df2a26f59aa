package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/sawpanic/newswatch/internal/calendar"
	"github.com/sawpanic/newswatch/internal/config"
	"github.com/sawpanic/newswatch/internal/ingest"
)

// runOptions is the resolved state shared by fetch/monitor/serve:
// config overlaid with flags, the query range in the display zone, and
// the wired ingestion pipeline.
type runOptions struct {
	cfg        config.Config
	start      time.Time
	end        time.Time
	currencies []string
	highOnly   bool
	normalizer *calendar.Normalizer
	pipeline   *ingest.Pipeline
}

// buildRun resolves flags over config into a ready-to-run setup.
// Malformed dates or timezones are unrecoverable configuration errors
// and surface as non-zero exits.
func buildRun(cmd *cobra.Command) (*runOptions, error) {
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	if exportURL, _ := cmd.Flags().GetString("mfb-export-url"); exportURL != "" {
		csvURL, xmlURL := ingest.SplitExportURL(exportURL)
		cfg.Source.CSVExportURL = csvURL
		cfg.Source.XMLExportURL = xmlURL
	}
	if tz, _ := cmd.Flags().GetString("source-tz"); tz != "" {
		cfg.Source.Timezone = tz
	}

	displayZone := calendar.DisplayZone()
	startStr, _ := cmd.Flags().GetString("start")
	endStr, _ := cmd.Flags().GetString("end")

	start, end, err := resolveRange(startStr, endStr, cfg.Query.RangeDays, displayZone)
	if err != nil {
		return nil, err
	}

	sourceZone, err := cfg.SourceZone()
	if err != nil {
		return nil, err
	}

	// The flag default mirrors the config default; an explicit flag
	// always wins, otherwise the config file's list applies.
	currencies := cfg.Query.Currencies
	if cmd.Flags().Changed("currencies") {
		currenciesStr, _ := cmd.Flags().GetString("currencies")
		currencies = splitCurrencies(currenciesStr)
	}
	highOnly, _ := cmd.Flags().GetBool("high-only")

	pipeline := ingest.NewPipeline(ingest.NewHTTPFetcher(cfg.Fetcher), ingest.PipelineConfig{
		CSVExportURL: cfg.Source.CSVExportURL,
		XMLExportURL: cfg.Source.XMLExportURL,
		CalendarURL:  cfg.Source.CalendarURL,
		FallbackDate: start.Format("2006-01-02"),
	})

	return &runOptions{
		cfg:        cfg,
		start:      start,
		end:        end,
		currencies: currencies,
		highOnly:   highOnly,
		normalizer: calendar.NewNormalizer(sourceZone),
		pipeline:   pipeline,
	}, nil
}

// resolveRange parses the start/end flags in the display zone.
// Defaults: start is today's midnight, end is start plus the
// configured range. A date-only end means midnight at the start of
// that day, inclusive of that exact instant.
func resolveRange(startStr, endStr string, rangeDays int, zone *time.Location) (time.Time, time.Time, error) {
	now := time.Now().In(zone)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, zone)

	start := today
	if startStr != "" {
		var err error
		start, err = parseFlagTime(startStr, zone)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --start: %w", err)
		}
	}

	end := start.AddDate(0, 0, rangeDays)
	if endStr != "" {
		var err error
		end, err = parseFlagTime(endStr, zone)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --end: %w", err)
		}
	}

	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("range end %s precedes start %s", end.Format("2006-01-02"), start.Format("2006-01-02"))
	}
	return start, end, nil
}

func parseFlagTime(s string, zone *time.Location) (time.Time, error) {
	for _, layout := range []string{"2006-01-02 15:04", "2006-01-02T15:04", "2006-01-02"} {
		if t, err := time.ParseInLocation(layout, s, zone); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q (want YYYY-MM-DD or \"YYYY-MM-DD HH:MM\")", s)
}

func splitCurrencies(s string) []string {
	var out []string
	for _, c := range strings.Split(s, ",") {
		c = strings.ToUpper(strings.TrimSpace(c))
		if c != "" {
			out = append(out, c)
		}
	}
	return out
}

// ingestFiltered runs the full flow: fallback-chain ingestion,
// normalization, then the static range/currency/impact filter.
func (o *runOptions) ingestFiltered(ctx context.Context) ([]calendar.NewsEvent, ingest.Stage) {
	records, stage := o.pipeline.Run(ctx)
	events := o.normalizer.Normalize(records)
	return calendar.FilterEvents(events, o.start, o.end, o.currencies, o.highOnly), stage
}
