// Disk usage collector — gathers per-mount disk usage information.
// Uses gopsutil for cross-platform disk metrics.
package collector

import (
	"context"
	"sort"
	"strings"

	"github.com/shirou/gopsutil/v3/disk"
	"go.uber.org/zap"

	"github.com/sysmon-tools/sysmon/internal/models"
)

// pseudoFSTypes contains filesystem types excluded from disk metrics.
// These are virtual/system filesystems and network/remote filesystems that
// don't represent local storage devices.
var pseudoFSTypes = map[string]bool{
	// Virtual / system filesystems
	"devfs":         true,
	"autofs":        true,
	"nullfs":        true,
	"tmpfs":         true,
	"sysfs":         true,
	"proc":          true,
	"procfs":        true,
	"devtmpfs":      true,
	"cgroup":        true,
	"cgroup2":       true,
	"overlay":       true,
	"squashfs":      true,
	"fuse.snapfuse": true,
	"nsfs":          true,
	"pstore":        true,
	"debugfs":       true,
	"tracefs":       true,
	"securityfs":    true,
	"configfs":      true,
	"fusectl":       true,
	"mqueue":        true,
	"hugetlbfs":     true,
	"binfmt_misc":   true,
	"efivarfs":      true,
	"bpf":           true,
	"ramfs":         true,

	// Network / remote filesystems
	"nfs":           true,
	"nfs4":          true,
	"cifs":          true,
	"smbfs":         true,
	"fuse.sshfs":    true,
	"fuse.rclone":   true,
	"9p":            true,
	"afs":           true,
	"ncpfs":         true,
	"glusterfs":     true,
	"lustre":        true,
	"ceph":          true,
	"fuse.ceph":     true,
	"gpfs":          true,
	"pvfs2":         true,
	"fuse.s3fs":     true,
	"fuse.gcsfuse":  true,
	"fuse.blobfuse": true,
	"davfs2":        true,
}

// isSystemMount returns true for mount points that are macOS system volumes
// or other OS-internal paths that shouldn't be shown to users.
func isSystemMount(mount string) bool {
	systemPrefixes := []string{
		"/System/Volumes/",
		"/private/var/vm",
	}
	for _, prefix := range systemPrefixes {
		if strings.HasPrefix(mount, prefix) {
			return true
		}
	}
	return false
}

// DiskCollector collects disk usage metrics per mount point.
type DiskCollector struct {
	logger *zap.Logger
}

// NewDiskCollector creates a new disk collector.
func NewDiskCollector(logger *zap.Logger) *DiskCollector {
	return &DiskCollector{logger: logger}
}

// Name returns the facility identifier.
func (c *DiskCollector) Name() string { return FacilityDisk }

// Collect gathers disk usage data for all mounted partitions, sorted by
// mount point so downstream evaluation order is stable across cycles.
// Inaccessible partitions are silently skipped.
func (c *DiskCollector) Collect(ctx context.Context) (interface{}, error) {
	partitions, err := disk.PartitionsWithContext(ctx, false)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var results []models.DiskStats
	for _, p := range partitions {
		if pseudoFSTypes[p.Fstype] {
			c.logger.Debug("Skipping pseudo/network filesystem",
				zap.String("mount", p.Mountpoint),
				zap.String("fstype", p.Fstype))
			continue
		}
		if isSystemMount(p.Mountpoint) {
			continue
		}
		// Bind mounts can repeat a mount point; keep the first.
		if seen[p.Mountpoint] {
			continue
		}

		usage, err := disk.UsageWithContext(ctx, p.Mountpoint)
		if err != nil {
			continue // Skip inaccessible partitions
		}
		// Some virtual mounts report 0 total bytes.
		if usage.Total == 0 {
			continue
		}
		seen[p.Mountpoint] = true
		results = append(results, models.DiskStats{
			Mount: p.Mountpoint,
			Total: usage.Total,
			Used:  usage.Used,
			Free:  usage.Free,
		})
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Mount < results[j].Mount
	})
	return results, nil
}

// IsAvailable returns true — disk metrics are available on all platforms.
func (c *DiskCollector) IsAvailable() bool { return true }
