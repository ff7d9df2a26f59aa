package calendar

import (
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/sawpanic/newswatch/internal/ingest"
)

// SourceMyFXBook is the provenance tag for this ingestion path.
const SourceMyFXBook = "MyFXBook"

// DisplayZoneName is the fixed zone every canonical timestamp lives in.
const DisplayZoneName = "Europe/London"

// DisplayZone loads the fixed display zone. The zone ships with the Go
// tzdata on every supported platform, so failure here is a broken
// environment, not bad input.
func DisplayZone() *time.Location {
	loc, err := time.LoadLocation(DisplayZoneName)
	if err != nil {
		panic("calendar: cannot load " + DisplayZoneName + ": " + err.Error())
	}
	return loc
}

// Feed exports are inconsistent about layouts, so parsing tries a
// fixed list rather than a single format.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"Jan 2, 2006",
	"Jan 2 2006",
	"2 Jan 2006",
}

var timeLayouts = []string{
	"15:04",
	"15:04:05",
	"3:04pm",
	"3:04 PM",
}

// Normalizer converts raw parser records into canonical NewsEvents:
// one timezone conversion, impact canonicalization, trimming, dedup.
type Normalizer struct {
	SourceZone  *time.Location // zone the feed's timestamps are expressed in
	DisplayZone *time.Location // fixed output zone
}

// NewNormalizer builds a normalizer; a nil sourceZone assumes UTC.
func NewNormalizer(sourceZone *time.Location) *Normalizer {
	if sourceZone == nil {
		sourceZone = time.UTC
	}
	return &Normalizer{SourceZone: sourceZone, DisplayZone: DisplayZone()}
}

// Normalize converts records to the canonical event table. Records
// with an unparseable date/time, empty currency, or empty title are
// dropped without affecting the rest of the batch. The result is
// deduplicated by (dt, currency, title) and chronologically ordered.
func (n *Normalizer) Normalize(records []ingest.RawRecord) []NewsEvent {
	events := make([]NewsEvent, 0, len(records))
	dropped := 0
	for _, rec := range records {
		ev, ok := n.normalizeOne(rec)
		if !ok {
			dropped++
			continue
		}
		events = append(events, ev)
	}
	if dropped > 0 {
		log.Debug().Int("dropped", dropped).Int("kept", len(events)).Msg("normalizer dropped records")
	}
	SortEvents(events)
	return DedupEvents(events)
}

func (n *Normalizer) normalizeOne(rec ingest.RawRecord) (NewsEvent, bool) {
	currency := strings.ToUpper(strings.TrimSpace(rec.Currency))
	title := strings.TrimSpace(rec.Title)
	if currency == "" || title == "" {
		return NewsEvent{}, false
	}

	dt, err := n.parseInstant(rec.Date, rec.Time)
	if err != nil {
		log.Debug().Str("date", rec.Date).Str("time", rec.Time).Msg("unparseable event timestamp")
		return NewsEvent{}, false
	}

	return NewsEvent{
		Source:   SourceMyFXBook,
		DT:       dt.In(n.DisplayZone),
		Currency: currency,
		Impact:   ParseImpact(rec.Impact),
		Title:    title,
	}, true
}

// parseInstant interprets the date+time pair in the source zone.
// A missing time defaults to midnight, matching the feed's day-level
// rows.
func (n *Normalizer) parseInstant(dateStr, timeStr string) (time.Time, error) {
	dateStr = strings.TrimSpace(dateStr)
	timeStr = strings.TrimSpace(timeStr)
	if timeStr == "" {
		timeStr = "00:00"
	}

	var day time.Time
	var err error
	for _, layout := range dateLayouts {
		day, err = time.ParseInLocation(layout, dateStr, n.SourceZone)
		if err == nil {
			break
		}
	}
	if err != nil {
		return time.Time{}, err
	}

	var clock time.Time
	for _, layout := range timeLayouts {
		clock, err = time.Parse(layout, timeStr)
		if err == nil {
			break
		}
	}
	if err != nil {
		return time.Time{}, err
	}

	return time.Date(day.Year(), day.Month(), day.Day(),
		clock.Hour(), clock.Minute(), clock.Second(), 0, n.SourceZone), nil
}
