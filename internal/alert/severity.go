// Package alert classifies metric values against configured thresholds and
// turns the per-cycle classifications into a de-duplicated stream of
// transition events for downstream sinks.
package alert

// Severity is the classification of a metric value against its thresholds.
// Severities are totally ordered: Normal < Warning < Critical.
type Severity int

const (
	Normal Severity = iota
	Warning
	Critical
)

// String returns the lowercase severity name used in logs and alert lines.
func (s Severity) String() string {
	switch s {
	case Warning:
		return "warning"
	case Critical:
		return "critical"
	default:
		return "normal"
	}
}
