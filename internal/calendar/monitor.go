package calendar

import (
	"sort"
	"time"
)

// sortedWindows returns the table ordered for monitor queries without
// mutating the caller's slice. Upstream normally hands us a sorted
// table, but both monitor operations sort defensively rather than
// assume it.
func sortedWindows(windowed []WindowedEvent) []WindowedEvent {
	out := make([]WindowedEvent, len(windowed))
	copy(out, windowed)
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].WindowStart.Equal(out[j].WindowStart) {
			return out[i].WindowStart.Before(out[j].WindowStart)
		}
		if !out[i].DT.Equal(out[j].DT) {
			return out[i].DT.Before(out[j].DT)
		}
		return out[i].Title < out[j].Title
	})
	return out
}

// IsNewsActive reports whether any event's window contains now
// (window_start <= now <= window_end). When several windows overlap,
// the earliest-starting event wins so the answer is deterministic.
func IsNewsActive(windowed []WindowedEvent, now time.Time) (bool, *WindowedEvent) {
	for _, ev := range sortedWindows(windowed) {
		if !ev.WindowStart.After(now) && !ev.WindowEnd.Before(now) {
			hit := ev
			return true, &hit
		}
	}
	return false, nil
}

// NextNews returns the event with the smallest dt strictly after now,
// or nil when no future event exists.
func NextNews(windowed []WindowedEvent, now time.Time) *WindowedEvent {
	var next *WindowedEvent
	for _, ev := range windowed {
		if !ev.DT.After(now) {
			continue
		}
		if next == nil || ev.DT.Before(next.DT) {
			hit := ev
			next = &hit
		}
	}
	return next
}
