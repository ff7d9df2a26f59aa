package calendar

import (
	"fmt"
	"strings"
	"time"
)

// InvalidArgumentError reports a caller-supplied query parameter that
// is out of range. Surfaced immediately, never swallowed.
type InvalidArgumentError struct {
	Reason string
}

func (e *InvalidArgumentError) Error() string {
	return "invalid argument: " + e.Reason
}

// FilterEvents returns the ordered subsequence of events with
// start <= dt <= end (inclusive at both instants), currency in the
// given set (an empty set means no restriction), and impact High when
// highOnly is set. A date-only end boundary therefore means midnight
// at the start of that day; callers wanting a full final day pass the
// following midnight or an explicit end-of-day instant.
func FilterEvents(events []NewsEvent, start, end time.Time, currencies []string, highOnly bool) []NewsEvent {
	var cset map[string]struct{}
	if len(currencies) > 0 {
		cset = make(map[string]struct{}, len(currencies))
		for _, c := range currencies {
			c = strings.ToUpper(strings.TrimSpace(c))
			if c != "" {
				cset[c] = struct{}{}
			}
		}
	}

	out := make([]NewsEvent, 0, len(events))
	for _, ev := range events {
		if ev.DT.Before(start) || ev.DT.After(end) {
			continue
		}
		if cset != nil {
			if _, ok := cset[ev.Currency]; !ok {
				continue
			}
		}
		if highOnly && ev.Impact != ImpactHigh {
			continue
		}
		out = append(out, ev)
	}
	return out
}

// FilterByFutureMinutes returns events with now < dt <= now+minutes.
// The caller samples now once and threads it in so a single query sees
// one consistent clock. minutes must be positive.
func FilterByFutureMinutes(events []NewsEvent, now time.Time, minutes int) ([]NewsEvent, error) {
	if minutes <= 0 {
		return nil, &InvalidArgumentError{Reason: fmt.Sprintf("minutes must be positive, got %d", minutes)}
	}
	cutoff := now.Add(time.Duration(minutes) * time.Minute)
	out := make([]NewsEvent, 0, len(events))
	for _, ev := range events {
		if ev.DT.After(now) && !ev.DT.After(cutoff) {
			out = append(out, ev)
		}
	}
	return out, nil
}
