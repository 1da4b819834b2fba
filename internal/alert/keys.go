package alert

// Metric keys identify alertable metric instances. They are stable across
// cycles and appear verbatim in transition events and alert log lines.
const (
	KeyCPU    = "cpu.overall"
	KeyMemory = "memory"
	KeySwap   = "swap"
)

// DiskKey returns the metric key for a disk mount point, e.g. "disk:/".
func DiskKey(mount string) string {
	return "disk:" + mount
}
