package ingest

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/sawpanic/newswatch/internal/metrics"
)

// Stage names one state of the fallback chain.
type Stage string

const (
	StageCSV   Stage = "csv"
	StageXML   Stage = "xml"
	StageHTML  Stage = "html"
	StageEmpty Stage = "empty"
)

// DefaultCalendarURL is the public page the HTML stage scrapes when no
// export URL is configured or every export attempt failed.
const DefaultCalendarURL = "https://www.myfxbook.com/forex-economic-calendar"

// PipelineConfig wires the fallback chain. An export URL ending in
// .xml feeds the XML stage; any other export URL feeds the CSV stage.
type PipelineConfig struct {
	CSVExportURL string `yaml:"csv_export_url"`
	XMLExportURL string `yaml:"xml_export_url"`
	CalendarURL  string `yaml:"calendar_url"`
	// FallbackDate seeds the HTML scraper's date for rows without a
	// recognizable day header.
	FallbackDate string `yaml:"-"`
}

// SplitExportURL routes a single user-supplied export URL to the right
// stage by extension.
func SplitExportURL(exportURL string) (csvURL, xmlURL string) {
	exportURL = strings.TrimSpace(exportURL)
	if exportURL == "" {
		return "", ""
	}
	if strings.HasSuffix(strings.ToLower(exportURL), ".xml") {
		return "", exportURL
	}
	return exportURL, ""
}

// Pipeline orchestrates the ordered fallback chain across format
// parsers until one yields records or the chain is exhausted.
type Pipeline struct {
	fetcher Fetcher
	cfg     PipelineConfig
}

func NewPipeline(fetcher Fetcher, cfg PipelineConfig) *Pipeline {
	if cfg.CalendarURL == "" {
		cfg.CalendarURL = DefaultCalendarURL
	}
	return &Pipeline{fetcher: fetcher, cfg: cfg}
}

type attempt struct {
	stage  Stage
	url    string
	parser Parser
}

// Run walks TRY_CSV -> TRY_XML -> TRY_HTML, exiting at the first stage
// that yields at least one record. Stage-level NetworkError/ParseError
// advance the chain; exhaustion returns an empty record set with
// StageEmpty, never an error. Callers must treat the empty result as a
// legitimate outcome — operational visibility lives in the logs and
// metrics, not the return value.
func (p *Pipeline) Run(ctx context.Context) ([]RawRecord, Stage) {
	var attempts []attempt
	if p.cfg.CSVExportURL != "" {
		attempts = append(attempts, attempt{StageCSV, p.cfg.CSVExportURL, CSVParser{}})
	}
	if p.cfg.XMLExportURL != "" {
		attempts = append(attempts, attempt{StageXML, p.cfg.XMLExportURL, XMLParser{}})
	}
	attempts = append(attempts, attempt{StageHTML, p.cfg.CalendarURL, HTMLParser{FallbackDate: p.cfg.FallbackDate}})

	for _, a := range attempts {
		metrics.FetchAttempts.WithLabelValues(string(a.stage)).Inc()

		payload, err := p.fetcher.Fetch(ctx, a.url)
		if err != nil {
			metrics.FetchFailures.WithLabelValues(string(a.stage)).Inc()
			log.Warn().Err(err).Str("stage", string(a.stage)).Str("url", a.url).Msg("ingestion stage fetch failed, advancing fallback chain")
			continue
		}

		records, err := a.parser.Parse(payload)
		if err != nil {
			metrics.FetchFailures.WithLabelValues(string(a.stage)).Inc()
			log.Warn().Err(err).Str("stage", string(a.stage)).Msg("ingestion stage parse failed, advancing fallback chain")
			continue
		}
		if len(records) == 0 {
			log.Warn().Str("stage", string(a.stage)).Msg("ingestion stage returned no records, advancing fallback chain")
			continue
		}

		metrics.StageWins.WithLabelValues(string(a.stage)).Inc()
		metrics.EventsIngested.Add(float64(len(records)))
		log.Info().Str("stage", string(a.stage)).Int("records", len(records)).Msg("ingestion stage succeeded")
		return records, a.stage
	}

	metrics.StageWins.WithLabelValues(string(StageEmpty)).Inc()
	log.Warn().Msg("every ingestion stage failed or returned empty")
	return nil, StageEmpty
}
