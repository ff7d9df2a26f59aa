package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseImpact_Synonyms(t *testing.T) {
	cases := map[string]Impact{
		"High":       ImpactHigh,
		"high":       ImpactHigh,
		" H ":        ImpactHigh,
		"3":          ImpactHigh,
		"red":        ImpactHigh,
		"Medium":     ImpactMedium,
		"MED":        ImpactMedium,
		"2":          ImpactMedium,
		"orange":     ImpactMedium,
		"Low":        ImpactLow,
		"l":          ImpactLow,
		"1":          ImpactLow,
		"holiday":    ImpactLow,
		"":           ImpactLow,
		"Non-Farm":   ImpactLow, // unrecognized defaults to Low
		"whatever":   ImpactLow,
		"IMPORTANT!": ImpactLow,
	}
	for label, want := range cases {
		assert.Equal(t, want, ParseImpact(label), "label %q", label)
	}
}

func TestImpactRank_Ordering(t *testing.T) {
	assert.Greater(t, ImpactHigh.Rank(), ImpactMedium.Rank())
	assert.Greater(t, ImpactMedium.Rank(), ImpactLow.Rank())
}

func TestDedupEvents_KeepsFirstOccurrence(t *testing.T) {
	dt := time.Date(2024, 3, 1, 13, 30, 0, 0, DisplayZone())
	events := []NewsEvent{
		{Source: SourceMyFXBook, DT: dt, Currency: "USD", Impact: ImpactHigh, Title: "Non-Farm Payrolls"},
		{Source: SourceMyFXBook, DT: dt, Currency: "USD", Impact: ImpactHigh, Title: "Non-Farm Payrolls"},
		{Source: SourceMyFXBook, DT: dt, Currency: "USD", Impact: ImpactHigh, Title: "Unemployment Rate"},
	}
	out := DedupEvents(events)
	assert.Len(t, out, 2)
	assert.Equal(t, "Non-Farm Payrolls", out[0].Title)
	assert.Equal(t, "Unemployment Rate", out[1].Title)
}

func TestDedupEvents_LeavesInputIntact(t *testing.T) {
	dt := time.Date(2024, 3, 1, 13, 30, 0, 0, DisplayZone())
	events := []NewsEvent{
		{DT: dt, Currency: "USD", Title: "Non-Farm Payrolls"},
		{DT: dt, Currency: "USD", Title: "Non-Farm Payrolls"},
		{DT: dt, Currency: "EUR", Title: "ECB Speech"},
	}
	_ = DedupEvents(events)

	// The caller's slice still holds all three original rows.
	assert.Len(t, events, 3)
	assert.Equal(t, "Non-Farm Payrolls", events[1].Title)
	assert.Equal(t, "ECB Speech", events[2].Title)
}

func TestSortEvents_ChronologicalWithDeterministicTies(t *testing.T) {
	zone := DisplayZone()
	later := time.Date(2024, 3, 1, 15, 0, 0, 0, zone)
	earlier := time.Date(2024, 3, 1, 9, 0, 0, 0, zone)
	events := []NewsEvent{
		{DT: later, Currency: "USD", Title: "B"},
		{DT: earlier, Currency: "GBP", Title: "A"},
		{DT: later, Currency: "EUR", Title: "C"},
	}
	SortEvents(events)
	assert.Equal(t, "A", events[0].Title)
	assert.Equal(t, "EUR", events[1].Currency) // same instant: currency breaks the tie
	assert.Equal(t, "USD", events[2].Currency)
}
