package calendar

import (
	"fmt"
	"time"
)

// WindowConfig maps each impact level to the minutes before/after the
// scheduled instant during which the event counts as active.
type WindowConfig struct {
	MinsBefore map[Impact]int `yaml:"mins_before"`
	MinsAfter  map[Impact]int `yaml:"mins_after"`
}

// DefaultWindowConfig returns the stock impact windows.
func DefaultWindowConfig() WindowConfig {
	return WindowConfig{
		MinsBefore: map[Impact]int{
			ImpactHigh:   20,
			ImpactMedium: 15,
			ImpactLow:    10,
		},
		MinsAfter: map[Impact]int{
			ImpactHigh:   30,
			ImpactMedium: 20,
			ImpactLow:    15,
		},
	}
}

// ConfigError reports an incomplete or invalid impact-window
// configuration. It is fatal: windows are never silently defaulted.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return "window config: " + e.Reason
}

// Validate checks that every impact value has a non-negative entry in
// both maps.
func (c WindowConfig) Validate() error {
	for _, imp := range Impacts {
		b, ok := c.MinsBefore[imp]
		if !ok {
			return &ConfigError{Reason: fmt.Sprintf("mins_before missing entry for %s", imp)}
		}
		a, ok := c.MinsAfter[imp]
		if !ok {
			return &ConfigError{Reason: fmt.Sprintf("mins_after missing entry for %s", imp)}
		}
		if b < 0 || a < 0 {
			return &ConfigError{Reason: fmt.Sprintf("negative window for %s", imp)}
		}
	}
	return nil
}

// ComputeWindow derives the active window for a single event. The
// window always contains the event instant: start = dt - before,
// end = dt + after, with before/after >= 0.
func ComputeWindow(ev NewsEvent, cfg WindowConfig) (start, end time.Time, err error) {
	if err := cfg.Validate(); err != nil {
		return time.Time{}, time.Time{}, err
	}
	before := time.Duration(cfg.MinsBefore[ev.Impact]) * time.Minute
	after := time.Duration(cfg.MinsAfter[ev.Impact]) * time.Minute
	return ev.DT.Add(-before), ev.DT.Add(after), nil
}

// BuildWindows derives the windowed view of an event table.
func BuildWindows(events []NewsEvent, cfg WindowConfig) ([]WindowedEvent, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	out := make([]WindowedEvent, 0, len(events))
	for _, ev := range events {
		before := time.Duration(cfg.MinsBefore[ev.Impact]) * time.Minute
		after := time.Duration(cfg.MinsAfter[ev.Impact]) * time.Minute
		out = append(out, WindowedEvent{
			NewsEvent:   ev,
			WindowStart: ev.DT.Add(-before),
			WindowEnd:   ev.DT.Add(after),
		})
	}
	return out, nil
}
