// System info collector — gathers OS name, hostname, uptime, and load
// averages. The data is mostly static but is refreshed every cycle so the
// dashboard's uptime stays current.
package collector

import (
	"context"
	"fmt"
	"time"

	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/load"

	"github.com/sysmon-tools/sysmon/internal/models"
)

// SystemCollector collects general host information.
type SystemCollector struct{}

// NewSystemCollector creates a new system info collector.
func NewSystemCollector() *SystemCollector {
	return &SystemCollector{}
}

// Name returns the facility identifier.
func (c *SystemCollector) Name() string { return FacilitySystem }

// Collect gathers OS name, hostname, uptime, and load averages.
// Load averages are best-effort: unsupported platforms report zeros.
func (c *SystemCollector) Collect(ctx context.Context) (interface{}, error) {
	info, err := host.InfoWithContext(ctx)
	if err != nil {
		return nil, err
	}

	result := models.SystemInfo{
		OS:       describeOS(info),
		Hostname: info.Hostname,
		Uptime:   time.Duration(info.Uptime) * time.Second,
	}

	if avg, err := load.AvgWithContext(ctx); err == nil {
		result.LoadAvg = [3]float64{avg.Load1, avg.Load5, avg.Load15}
	}

	return result, nil
}

// IsAvailable returns true — host info is available on all platforms.
func (c *SystemCollector) IsAvailable() bool { return true }

// describeOS builds a human-readable OS string like "Ubuntu 22.04".
func describeOS(info *host.InfoStat) string {
	name := info.Platform
	if name == "" {
		name = info.OS
	}
	if info.PlatformVersion != "" {
		return fmt.Sprintf("%s %s", name, info.PlatformVersion)
	}
	return name
}
