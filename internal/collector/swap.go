// Swap usage collector. Returns a nil result on platforms without swap
// configured; the sampling loop treats nil as "facility present, no swap"
// rather than an acquisition failure.
package collector

import (
	"context"

	"github.com/shirou/gopsutil/v3/mem"

	"github.com/sysmon-tools/sysmon/internal/models"
)

// SwapCollector collects swap usage metrics.
type SwapCollector struct{}

// NewSwapCollector creates a new swap collector.
func NewSwapCollector() *SwapCollector {
	return &SwapCollector{}
}

// Name returns the facility identifier.
func (c *SwapCollector) Name() string { return FacilitySwap }

// Collect gathers swap usage data. A zero-total swap device means the
// platform has no swap; that is reported as a nil *models.MemoryStats,
// not an error.
func (c *SwapCollector) Collect(ctx context.Context) (interface{}, error) {
	s, err := mem.SwapMemoryWithContext(ctx)
	if err != nil {
		return nil, err
	}
	if s.Total == 0 {
		return (*models.MemoryStats)(nil), nil
	}
	free := uint64(0)
	if s.Total > s.Used {
		free = s.Total - s.Used
	}
	return &models.MemoryStats{
		Total:     s.Total,
		Used:      s.Used,
		Available: free,
	}, nil
}

// IsAvailable returns true — swap state is queryable on all platforms.
func (c *SwapCollector) IsAvailable() bool { return true }
