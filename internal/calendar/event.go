package calendar

import (
	"sort"
	"strings"
	"time"
)

// Impact represents the expected market effect of an economic event
type Impact string

const (
	ImpactLow    Impact = "Low"
	ImpactMedium Impact = "Medium"
	ImpactHigh   Impact = "High"
)

// Impacts lists every valid impact value, lowest first.
var Impacts = []Impact{ImpactLow, ImpactMedium, ImpactHigh}

// impactSynonyms maps source-specific impact labels (lowercased) to the
// canonical enum. New source variants go here, not into control flow.
var impactSynonyms = map[string]Impact{
	"high":    ImpactHigh,
	"h":       ImpactHigh,
	"3":       ImpactHigh,
	"red":     ImpactHigh,
	"medium":  ImpactMedium,
	"med":     ImpactMedium,
	"m":       ImpactMedium,
	"2":       ImpactMedium,
	"orange":  ImpactMedium,
	"yellow":  ImpactMedium,
	"low":     ImpactLow,
	"l":       ImpactLow,
	"1":       ImpactLow,
	"none":    ImpactLow,
	"holiday": ImpactLow,
}

// ParseImpact canonicalizes a free-form source label. Unrecognized
// labels map to ImpactLow rather than failing ingestion.
func ParseImpact(label string) Impact {
	if imp, ok := impactSynonyms[strings.ToLower(strings.TrimSpace(label))]; ok {
		return imp
	}
	return ImpactLow
}

// Rank orders impacts for threshold comparisons (Low=1 .. High=3).
func (i Impact) Rank() int {
	switch i {
	case ImpactHigh:
		return 3
	case ImpactMedium:
		return 2
	default:
		return 1
	}
}

// NewsEvent is a canonical scheduled economic event. DT is always
// timezone-aware in the fixed display zone; a naive or foreign-zone
// timestamp here is a defect upstream. Immutable once created.
type NewsEvent struct {
	Source   string    `json:"source"`
	DT       time.Time `json:"dt"`
	Currency string    `json:"currency"`
	Impact   Impact    `json:"impact"`
	Title    string    `json:"title"`
}

// Key identifies an event within one ingestion batch for dedup.
func (e NewsEvent) Key() string {
	return e.DT.Format(time.RFC3339) + "|" + e.Currency + "|" + e.Title
}

// WindowedEvent is a NewsEvent plus its derived active window. It is a
// pure view recomputed per query and holds no independent state.
type WindowedEvent struct {
	NewsEvent
	WindowStart time.Time `json:"window_start"`
	WindowEnd   time.Time `json:"window_end"`
}

// SortEvents orders events chronologically, in place. Ties break on
// currency then title so batches sort deterministically.
func SortEvents(events []NewsEvent) {
	sort.SliceStable(events, func(i, j int) bool {
		if !events[i].DT.Equal(events[j].DT) {
			return events[i].DT.Before(events[j].DT)
		}
		if events[i].Currency != events[j].Currency {
			return events[i].Currency < events[j].Currency
		}
		return events[i].Title < events[j].Title
	})
}

// DedupEvents removes duplicates by (dt, currency, title), keeping the
// first occurrence and preserving order. Overlapping source pages can
// hand the same row to more than one parser attempt. The input slice
// is left untouched.
func DedupEvents(events []NewsEvent) []NewsEvent {
	seen := make(map[string]struct{}, len(events))
	out := make([]NewsEvent, 0, len(events))
	for _, e := range events {
		k := e.Key()
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, e)
	}
	return out
}
