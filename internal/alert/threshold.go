package alert

// Threshold holds the warning/critical percentage bounds for one metric.
// Ordering (0 <= Warning <= Critical <= 100) is enforced at config load,
// so Classify never sees an invalid pair.
type Threshold struct {
	Warning  float64
	Critical float64
}

// Classify maps a percentage value onto a severity. Boundary values belong
// to the higher severity: value == Warning classifies as Warning, value ==
// Critical as Critical. Callers clamp values to [0,100] before calling.
func Classify(value float64, t Threshold) Severity {
	switch {
	case value >= t.Critical:
		return Critical
	case value >= t.Warning:
		return Warning
	default:
		return Normal
	}
}

// Clamp bounds a percentage to [0,100]. Acquisition can briefly report
// slightly out-of-range values (e.g. CPU percent summing above 100 on some
// platforms); classification expects clamped input.
func Clamp(value float64) float64 {
	if value < 0 {
		return 0
	}
	if value > 100 {
		return 100
	}
	return value
}
