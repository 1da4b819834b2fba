// Package models defines the metric data structures shared between the
// collectors, the sampling loop, the renderer, and the alert pipeline.
// A Snapshot is built once per cycle and treated as immutable afterwards.
package models

import "time"

// Snapshot represents a single point-in-time capture of all system metrics.
// The cycle that creates it owns it; downstream consumers must not mutate it.
type Snapshot struct {
	Timestamp time.Time
	CPU       CPUStats
	Memory    MemoryStats
	Swap      *MemoryStats // nil when the platform reports no swap
	Disks     []DiskStats  // sorted by mount point
	Processes []ProcessStats
	System    SystemInfo

	// Omitted lists facilities that failed to acquire this cycle.
	// A non-empty list marks the snapshot as degraded.
	Omitted []string
}

// Degraded reports whether one or more facilities were omitted this cycle.
func (s *Snapshot) Degraded() bool { return len(s.Omitted) > 0 }

// OmittedFacility reports whether the named facility was omitted this cycle.
func (s *Snapshot) OmittedFacility(name string) bool {
	for _, f := range s.Omitted {
		if f == name {
			return true
		}
	}
	return false
}

// CPUStats holds overall and per-core CPU utilization percentages.
type CPUStats struct {
	Overall float64
	PerCore []float64
}

// MemoryStats holds byte counts for RAM or swap.
type MemoryStats struct {
	Total     uint64
	Used      uint64
	Available uint64
}

// UsedPercent returns used/total as a percentage, or 0 when total is 0.
func (m MemoryStats) UsedPercent() float64 {
	if m.Total == 0 {
		return 0
	}
	return float64(m.Used) / float64(m.Total) * 100
}

// DiskStats holds usage for a single mounted filesystem.
type DiskStats struct {
	Mount string
	Total uint64
	Used  uint64
	Free  uint64
}

// UsedPercent returns used/total as a percentage, or 0 when total is 0.
func (d DiskStats) UsedPercent() float64 {
	if d.Total == 0 {
		return 0
	}
	return float64(d.Used) / float64(d.Total) * 100
}

// ProcessStats holds one process's resource usage for the top-N table.
type ProcessStats struct {
	PID         int32
	Name        string
	CPUPercent  float64
	MemoryBytes uint64
}

// SystemInfo holds general host information, refreshed every cycle.
type SystemInfo struct {
	OS       string
	Hostname string
	Uptime   time.Duration
	LoadAvg  [3]float64
}
