// Package collector defines the Collector interface and provides
// gopsutil-backed implementations for each metric facility.
package collector

import "context"

// Facility names. The sampling loop uses these to map registry results onto
// snapshot fields and to mark omitted facilities.
const (
	FacilityCPU       = "cpu"
	FacilityMemory    = "memory"
	FacilitySwap      = "swap"
	FacilityDisk      = "disk"
	FacilityProcesses = "processes"
	FacilitySystem    = "system"
)

// Collector is the interface that all metric collectors implement.
// Each collector gathers one facility's data.
type Collector interface {
	// Name returns the unique facility identifier for this collector.
	Name() string

	// Collect gathers the metric data and returns it.
	// The context allows for cancellation and timeout control.
	Collect(ctx context.Context) (interface{}, error)

	// IsAvailable checks if this collector can run on the current platform.
	// Collectors that return false will not be registered.
	IsAvailable() bool
}
