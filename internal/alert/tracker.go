package alert

import "time"

// Transition records a change in a metric's severity between cycles.
type Transition struct {
	Key  string
	From Severity
	To   Severity
	At   time.Time
}

// Tracker converts per-cycle severity observations into a minimal stream of
// transition events. Thresholds are noisy near the boundary; without
// de-duplication every cycle at sustained Warning would re-alert.
//
// The tracker compares current vs. previous severity only — a drop from
// Critical straight to Normal is a single event. Rapid flapping across a
// boundary on consecutive cycles is not damped (no hysteresis or minimum
// dwell time); each genuine change emits an event.
//
// A Tracker is owned by a single sampling loop and is not safe for
// concurrent use.
type Tracker struct {
	states map[string]Severity
}

// NewTracker creates an empty tracker. States are created lazily at Normal
// on first observation of each metric key and live until the tracker is
// discarded; the key set is bounded by hardware topology.
func NewTracker() *Tracker {
	return &Tracker{states: make(map[string]Severity)}
}

// Update records the observed severity for a metric key. It returns a
// transition event when the severity differs from the stored one, nil
// otherwise. The new severity is stored unconditionally.
func (t *Tracker) Update(key string, s Severity) *Transition {
	prev := t.states[key] // missing key reads as Normal
	t.states[key] = s
	if s == prev {
		return nil
	}
	return &Transition{
		Key:  key,
		From: prev,
		To:   s,
		At:   time.Now(),
	}
}

// Current returns the stored severity for a metric key, Normal if the key
// has never been observed.
func (t *Tracker) Current(key string) Severity {
	return t.states[key]
}
