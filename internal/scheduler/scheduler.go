// Package scheduler implements the sampling loop: it drives periodic metric
// acquisition, classifies each metric against its thresholds, feeds the
// renderer and alert sink, and enforces the refresh cadence. One cycle runs
// acquire → evaluate → publish → sleep; a slow or failed cycle never crashes
// the loop or compounds drift into later cycles.
package scheduler

import (
	"context"
	"errors"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/sysmon-tools/sysmon/internal/alert"
	"github.com/sysmon-tools/sysmon/internal/collector"
	"github.com/sysmon-tools/sysmon/internal/config"
	"github.com/sysmon-tools/sysmon/internal/models"
	"github.com/sysmon-tools/sysmon/internal/render"
)

// ErrNoMetrics reports that no facility produced data this cycle. The cycle
// is skipped; the loop itself continues.
var ErrNoMetrics = errors.New("no metrics available")

// maxCollectTimeout caps how long one acquisition pass may take, so a hung
// platform call cannot stall the cadence indefinitely.
const maxCollectTimeout = 10 * time.Second

// Loop owns one run of the sampling state machine. The alert tracker is
// created by and owned exclusively by the loop; it is only touched during
// the evaluate step, so no synchronization is needed.
type Loop struct {
	registry *collector.Registry
	tracker  *alert.Tracker
	renderer render.Renderer
	sink     alert.Sink
	cfg      *config.Config
	logger   *zap.Logger
}

// New creates a sampling loop. The sink may be nil when alerting output is
// disabled; the renderer must not be nil.
func New(registry *collector.Registry, cfg *config.Config, renderer render.Renderer, sink alert.Sink, logger *zap.Logger) *Loop {
	return &Loop{
		registry: registry,
		tracker:  alert.NewTracker(),
		renderer: renderer,
		sink:     sink,
		cfg:      cfg,
		logger:   logger,
	}
}

// cycleResult carries one cycle's output to the publishing step.
type cycleResult struct {
	snapshot    *models.Snapshot
	severities  map[string]alert.Severity
	transitions []alert.Transition
}

// Run executes cycles until the context is cancelled. Rendering and alert
// notification are dispatched to a publisher worker so a stalled sink cannot
// block the next cycle; a cycle that has started evaluating always gets its
// result enqueued before the loop observes cancellation.
func (l *Loop) Run(ctx context.Context) {
	pub := newPublisher(l.renderer, l.sink, l.logger)
	pub.start()
	defer pub.stop()

	interval := l.cfg.General.RefreshInterval.Duration
	timer := time.NewTimer(0)
	if !timer.Stop() {
		<-timer.C
	}

	for {
		// Cancellation check at the start of Acquiring.
		if ctx.Err() != nil {
			return
		}

		start := time.Now()
		res, err := l.cycle(ctx)
		if err != nil {
			// Cancellation mid-acquisition surfaces as a failed cycle;
			// that's a normal stop, not an error worth logging.
			if ctx.Err() != nil {
				return
			}
			l.logger.Error("Cycle skipped", zap.Error(err))
		} else {
			pub.publish(res)
		}

		remaining := remainingSleep(interval, time.Since(start))
		if remaining <= 0 {
			continue
		}

		timer.Reset(remaining)
		select {
		case <-ctx.Done():
			if !timer.Stop() {
				<-timer.C
			}
			return
		case <-timer.C:
		}
	}
}

// RunOnce executes exactly one acquire → evaluate → publish pass with no
// sleeping and synchronous publishing. It returns an error only when
// acquisition failed entirely.
func (l *Loop) RunOnce(ctx context.Context) error {
	res, err := l.cycle(ctx)
	if err != nil {
		return err
	}
	if err := l.renderer.Render(res.snapshot, res.severities); err != nil {
		l.logger.Error("Render failed", zap.Error(err))
	}
	l.notify(res.transitions)
	return nil
}

// cycle performs the Acquiring and Evaluating states and returns the
// publishable result. Facility failures degrade the snapshot; only a fully
// failed acquisition aborts the cycle.
func (l *Loop) cycle(ctx context.Context) (cycleResult, error) {
	collectCtx, cancel := context.WithTimeout(ctx, collectTimeout(l.cfg.General.RefreshInterval.Duration))
	defer cancel()

	acquired := l.registry.CollectAll(collectCtx)
	if acquired.Empty() {
		return cycleResult{}, ErrNoMetrics
	}

	snapshot := l.assemble(acquired)
	severities, transitions := l.evaluate(snapshot)

	if snapshot.Degraded() {
		l.logger.Warn("Degraded snapshot", zap.Strings("omitted", snapshot.Omitted))
	}
	return cycleResult{snapshot: snapshot, severities: severities, transitions: transitions}, nil
}

// assemble maps collection results onto a snapshot and records omitted
// facilities. Each facility is all-or-nothing: either its data made it into
// the result map atomically or the facility is listed as omitted.
func (l *Loop) assemble(acquired collector.Result) *models.Snapshot {
	snapshot := &models.Snapshot{Timestamp: time.Now()}

	if data, ok := acquired.Data[collector.FacilityCPU]; ok {
		if cpu, ok := data.(models.CPUStats); ok {
			snapshot.CPU = cpu
		}
	}
	if data, ok := acquired.Data[collector.FacilityMemory]; ok {
		if memStats, ok := data.(models.MemoryStats); ok {
			snapshot.Memory = memStats
		}
	}
	if data, ok := acquired.Data[collector.FacilitySwap]; ok {
		if swap, ok := data.(*models.MemoryStats); ok {
			snapshot.Swap = swap
		}
	}
	if data, ok := acquired.Data[collector.FacilityDisk]; ok {
		if disks, ok := data.([]models.DiskStats); ok {
			snapshot.Disks = disks
		}
	}
	if data, ok := acquired.Data[collector.FacilityProcesses]; ok {
		if procs, ok := data.([]models.ProcessStats); ok {
			snapshot.Processes = procs
		}
	}
	if data, ok := acquired.Data[collector.FacilitySystem]; ok {
		if sys, ok := data.(models.SystemInfo); ok {
			snapshot.System = sys
		}
	}

	for name := range acquired.Errors {
		snapshot.Omitted = append(snapshot.Omitted, name)
	}
	sort.Strings(snapshot.Omitted)
	return snapshot
}

// evaluate classifies every alertable metric in a fixed enumeration order
// (cpu.overall, memory, swap, then disks by mount) so the transition stream
// is deterministic across cycles.
func (l *Loop) evaluate(snapshot *models.Snapshot) (map[string]alert.Severity, []alert.Transition) {
	severities := make(map[string]alert.Severity)
	var transitions []alert.Transition

	observe := func(key string, value float64, t config.ThresholdPair) {
		s := alert.Classify(alert.Clamp(value), alert.Threshold{Warning: t.Warning, Critical: t.Critical})
		severities[key] = s
		if ev := l.tracker.Update(key, s); ev != nil {
			transitions = append(transitions, *ev)
		}
	}

	if !snapshot.OmittedFacility(collector.FacilityCPU) {
		observe(alert.KeyCPU, snapshot.CPU.Overall, l.cfg.Thresholds.CPU)
	}
	if !snapshot.OmittedFacility(collector.FacilityMemory) {
		observe(alert.KeyMemory, snapshot.Memory.UsedPercent(), l.cfg.Thresholds.Memory)
	}
	if snapshot.Swap != nil && !snapshot.OmittedFacility(collector.FacilitySwap) {
		observe(alert.KeySwap, snapshot.Swap.UsedPercent(), l.cfg.Thresholds.Swap)
	}
	if !snapshot.OmittedFacility(collector.FacilityDisk) {
		// Disks arrive sorted by mount point from the collector.
		for _, disk := range snapshot.Disks {
			observe(alert.DiskKey(disk.Mount), disk.UsedPercent(), l.cfg.Thresholds.Disk)
		}
	}

	return severities, transitions
}

// notify delivers transitions to the sink in order, logging failures.
func (l *Loop) notify(transitions []alert.Transition) {
	if l.sink == nil {
		return
	}
	for _, t := range transitions {
		if err := l.sink.Notify(t); err != nil {
			l.logger.Error("Alert notification failed",
				zap.String("metric", t.Key), zap.Error(err))
		}
	}
}

// remainingSleep computes this cycle's sleep from its own elapsed time.
// Overruns skip the sleep entirely instead of accumulating debt, so a slow
// cycle self-corrects on the next tick rather than bursting.
func remainingSleep(interval, elapsed time.Duration) time.Duration {
	if elapsed >= interval {
		return 0
	}
	return interval - elapsed
}

// collectTimeout bounds acquisition to the refresh interval, capped so very
// long intervals don't allow equally long hangs.
func collectTimeout(interval time.Duration) time.Duration {
	if interval > 0 && interval < maxCollectTimeout {
		return interval
	}
	return maxCollectTimeout
}
