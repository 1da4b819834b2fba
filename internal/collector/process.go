// Top N processes collector — gathers the most CPU-intensive processes.
// Uses gopsutil for cross-platform process listing.
package collector

import (
	"context"
	"sort"

	"github.com/shirou/gopsutil/v3/process"

	"github.com/sysmon-tools/sysmon/internal/models"
)

// ProcessCollector collects the top N processes by CPU usage. The ranking is
// recomputed from scratch every cycle; the only state carried between cycles
// lives inside gopsutil, which needs the previous CPU times of each process
// to turn counters into percentages.
type ProcessCollector struct {
	topN int
}

// NewProcessCollector creates a process collector that returns the top N
// processes sorted by CPU usage descending.
func NewProcessCollector(topN int) *ProcessCollector {
	return &ProcessCollector{topN: topN}
}

// Name returns the facility identifier.
func (c *ProcessCollector) Name() string { return FacilityProcesses }

// Collect gathers the top N processes sorted by CPU usage descending.
// Individual process errors are skipped so a single inaccessible process
// cannot fail the whole facility.
func (c *ProcessCollector) Collect(ctx context.Context) (interface{}, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, err
	}

	var infos []models.ProcessStats
	for _, p := range procs {
		name, err := p.NameWithContext(ctx)
		if err != nil {
			continue
		}
		cpuPct, _ := p.CPUPercentWithContext(ctx)

		var memBytes uint64
		if memInfo, err := p.MemoryInfoWithContext(ctx); err == nil && memInfo != nil {
			memBytes = memInfo.RSS
		}

		infos = append(infos, models.ProcessStats{
			PID:         p.Pid,
			Name:        name,
			CPUPercent:  cpuPct,
			MemoryBytes: memBytes,
		})
	}

	sort.Slice(infos, func(i, j int) bool {
		return infos[i].CPUPercent > infos[j].CPUPercent
	})

	if len(infos) > c.topN {
		infos = infos[:c.topN]
	}
	return infos, nil
}

// IsAvailable returns true — process listing is available on all platforms.
func (c *ProcessCollector) IsAvailable() bool { return true }
