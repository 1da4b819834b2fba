// CPU usage collector — gathers overall and per-core CPU utilization.
// Uses gopsutil for cross-platform CPU metrics.
package collector

import (
	"context"

	"github.com/shirou/gopsutil/v3/cpu"

	"github.com/sysmon-tools/sysmon/internal/models"
)

// CPUCollector collects CPU usage metrics.
//
// gopsutil computes percentages as deltas against the previous call on the
// same process, so the first cycle after startup reports 0 and every later
// cycle covers exactly one refresh interval. That keeps Collect from
// blocking inside a measurement window.
type CPUCollector struct{}

// NewCPUCollector creates a new CPU collector.
func NewCPUCollector() *CPUCollector {
	return &CPUCollector{}
}

// Name returns the facility identifier.
func (c *CPUCollector) Name() string { return FacilityCPU }

// Collect gathers CPU usage data (overall percentage and per-core).
func (c *CPUCollector) Collect(ctx context.Context) (interface{}, error) {
	overall, err := cpu.PercentWithContext(ctx, 0, false)
	if err != nil {
		return nil, err
	}

	// Per-core usage is best-effort: overall alone is still a usable result.
	perCore, err := cpu.PercentWithContext(ctx, 0, true)
	if err != nil {
		perCore = nil
	}

	result := models.CPUStats{PerCore: perCore}
	if len(overall) > 0 {
		result.Overall = overall[0]
	}
	return result, nil
}

// IsAvailable returns true — CPU metrics are available on all platforms.
func (c *CPUCollector) IsAvailable() bool { return true }
