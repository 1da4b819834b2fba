package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/sysmon-tools/sysmon/internal/alert"
	"github.com/sysmon-tools/sysmon/internal/collector"
	"github.com/sysmon-tools/sysmon/internal/config"
	"github.com/sysmon-tools/sysmon/internal/models"
)

const (
	barWidth       = 20
	processNameMax = 20
	gib            = 1024 * 1024 * 1024
	mib            = 1024 * 1024
)

// Severity colors use basic ANSI codes for broad terminal compatibility.
const (
	colorNormal   lipgloss.Color = "2" // Green
	colorWarning  lipgloss.Color = "3" // Yellow
	colorCritical lipgloss.Color = "1" // Red
	colorHeading  lipgloss.Color = "6" // Cyan
	colorBanner   lipgloss.Color = "4" // Blue
	colorMuted    lipgloss.Color = "8" // Gray (bright black)
)

// Dashboard renders the full-screen textual dashboard each cycle.
type Dashboard struct {
	out     io.Writer
	display config.DisplayConfig

	heading lipgloss.Style
	banner  lipgloss.Style
	muted   lipgloss.Style
	byLevel map[alert.Severity]lipgloss.Style
}

// NewDashboard creates a terminal dashboard writing to out. When colors are
// disabled (by config or because the terminal has no color support) all
// styling degrades to plain text.
func NewDashboard(out io.Writer, display config.DisplayConfig) *Dashboard {
	useColors := display.UseColors && termenv.DefaultOutput().Profile != termenv.Ascii

	d := &Dashboard{out: out, display: display}
	if useColors {
		d.heading = lipgloss.NewStyle().Foreground(colorHeading).Bold(true)
		d.banner = lipgloss.NewStyle().Foreground(colorBanner).Bold(true)
		d.muted = lipgloss.NewStyle().Foreground(colorMuted)
		d.byLevel = map[alert.Severity]lipgloss.Style{
			alert.Normal:   lipgloss.NewStyle().Foreground(colorNormal),
			alert.Warning:  lipgloss.NewStyle().Foreground(colorWarning),
			alert.Critical: lipgloss.NewStyle().Foreground(colorCritical),
		}
	} else {
		plain := lipgloss.NewStyle()
		d.heading, d.banner, d.muted = plain, plain, plain
		d.byLevel = map[alert.Severity]lipgloss.Style{
			alert.Normal: plain, alert.Warning: plain, alert.Critical: plain,
		}
	}
	return d
}

// Render clears the screen and draws the dashboard for one snapshot.
func (d *Dashboard) Render(s *models.Snapshot, severities map[string]alert.Severity) error {
	var b strings.Builder

	// Clear screen and home the cursor before redrawing.
	fmt.Fprintf(&b, termenv.CSI+termenv.EraseDisplaySeq, 2)
	fmt.Fprintf(&b, termenv.CSI+termenv.CursorPositionSeq, 1, 1)

	rule := strings.Repeat("=", 48)
	b.WriteString(d.banner.Render(rule) + "\n")
	b.WriteString(d.banner.Render(fmt.Sprintf("       System Monitor - %s", s.Timestamp.Format("2006-01-02 15:04:05"))) + "\n")
	b.WriteString(d.banner.Render(rule) + "\n")
	if s.Degraded() {
		b.WriteString(d.muted.Render(fmt.Sprintf("degraded: %s unavailable this cycle", strings.Join(s.Omitted, ", "))) + "\n")
	}

	d.renderCPU(&b, s, severities)
	d.renderMemory(&b, s, severities)
	d.renderSwap(&b, s, severities)
	d.renderDisks(&b, s, severities)
	d.renderProcesses(&b, s)
	d.renderSystem(&b, s)

	b.WriteString("\n" + d.muted.Render("Press Ctrl+C to exit...") + "\n")

	_, err := io.WriteString(d.out, b.String())
	if err != nil {
		return fmt.Errorf("writing dashboard: %w", err)
	}
	return nil
}

func (d *Dashboard) renderCPU(b *strings.Builder, s *models.Snapshot, sev map[string]alert.Severity) {
	b.WriteString("\n" + d.heading.Render("CPU") + "\n")
	if s.OmittedFacility(collector.FacilityCPU) {
		b.WriteString(d.muted.Render("  (unavailable this cycle)") + "\n")
		return
	}

	level := sev[alert.KeyCPU]
	fmt.Fprintf(b, "Overall:  %s\n", d.gauge(s.CPU.Overall, level))

	if d.display.ShowPerCoreCPU && len(s.CPU.PerCore) > 0 {
		for i, core := range s.CPU.PerCore {
			fmt.Fprintf(b, "  Core %2d: %s\n", i, d.gauge(core, level))
		}
	}
}

func (d *Dashboard) renderMemory(b *strings.Builder, s *models.Snapshot, sev map[string]alert.Severity) {
	b.WriteString("\n" + d.heading.Render("MEMORY") + "\n")
	if s.OmittedFacility(collector.FacilityMemory) {
		b.WriteString(d.muted.Render("  (unavailable this cycle)") + "\n")
		return
	}

	fmt.Fprintf(b, "RAM:       %s\n", d.gauge(s.Memory.UsedPercent(), sev[alert.KeyMemory]))
	fmt.Fprintf(b, "Total:     %.1f GiB\n", float64(s.Memory.Total)/gib)
	fmt.Fprintf(b, "Used:      %.1f GiB\n", float64(s.Memory.Used)/gib)
	fmt.Fprintf(b, "Available: %.1f GiB\n", float64(s.Memory.Available)/gib)
}

func (d *Dashboard) renderSwap(b *strings.Builder, s *models.Snapshot, sev map[string]alert.Severity) {
	if s.OmittedFacility(collector.FacilitySwap) {
		fmt.Fprintf(b, "Swap:      %s\n", d.muted.Render("(unavailable this cycle)"))
		return
	}
	if s.Swap == nil {
		b.WriteString("Swap:      not available\n")
		return
	}
	fmt.Fprintf(b, "Swap:      %s\n", d.gauge(s.Swap.UsedPercent(), sev[alert.KeySwap]))
}

func (d *Dashboard) renderDisks(b *strings.Builder, s *models.Snapshot, sev map[string]alert.Severity) {
	b.WriteString("\n" + d.heading.Render("DISKS") + "\n")
	if s.OmittedFacility(collector.FacilityDisk) {
		b.WriteString(d.muted.Render("  (unavailable this cycle)") + "\n")
		return
	}
	if len(s.Disks) == 0 {
		b.WriteString(d.muted.Render("  (no local filesystems)") + "\n")
		return
	}

	for _, disk := range s.Disks {
		fmt.Fprintf(b, "%s %s\n", disk.Mount, d.gauge(disk.UsedPercent(), sev[alert.DiskKey(disk.Mount)]))
		fmt.Fprintf(b, "  Total: %.1f GiB | Used: %.1f GiB | Free: %.1f GiB\n",
			float64(disk.Total)/gib, float64(disk.Used)/gib, float64(disk.Free)/gib)
	}
}

func (d *Dashboard) renderProcesses(b *strings.Builder, s *models.Snapshot) {
	if d.display.MaxProcessesToDisplay == 0 {
		return
	}
	b.WriteString("\n" + d.heading.Render("TOP PROCESSES") + "\n")
	if s.OmittedFacility(collector.FacilityProcesses) {
		b.WriteString(d.muted.Render("  (unavailable this cycle)") + "\n")
		return
	}

	fmt.Fprintf(b, "%-8s %-20s %8s %10s\n", "PID", "NAME", "CPU%", "MEMORY")
	b.WriteString(strings.Repeat("-", 50) + "\n")
	for _, p := range s.Processes {
		name := p.Name
		if len(name) > processNameMax {
			name = name[:processNameMax]
		}
		fmt.Fprintf(b, "%-8d %-20s %7.1f%% %8.1fMB\n",
			p.PID, name, p.CPUPercent, float64(p.MemoryBytes)/mib)
	}
}

func (d *Dashboard) renderSystem(b *strings.Builder, s *models.Snapshot) {
	b.WriteString("\n" + d.heading.Render("SYSTEM") + "\n")
	if s.OmittedFacility(collector.FacilitySystem) {
		b.WriteString(d.muted.Render("  (unavailable this cycle)") + "\n")
		return
	}

	fmt.Fprintf(b, "OS:       %s\n", s.System.OS)
	fmt.Fprintf(b, "Hostname: %s\n", s.System.Hostname)
	hours := int(s.System.Uptime.Hours())
	minutes := int(s.System.Uptime.Minutes()) % 60
	fmt.Fprintf(b, "Uptime:   %dh %dm\n", hours, minutes)
	fmt.Fprintf(b, "Load Avg: %.2f, %.2f, %.2f\n",
		s.System.LoadAvg[0], s.System.LoadAvg[1], s.System.LoadAvg[2])
}

// gauge formats a percentage as a severity-colored progress bar, or as a
// bare percentage when bars are disabled.
func (d *Dashboard) gauge(pct float64, level alert.Severity) string {
	style := d.byLevel[level]
	if !d.display.ShowProgressBars {
		return style.Render(fmt.Sprintf("%6.1f%%", pct))
	}

	filled := int(pct / 100 * barWidth)
	if filled > barWidth {
		filled = barWidth
	}
	if filled < 0 {
		filled = 0
	}
	bar := strings.Repeat("#", filled) + strings.Repeat("-", barWidth-filled)
	return fmt.Sprintf("[%s] %6.1f%%", style.Render(bar), pct)
}
