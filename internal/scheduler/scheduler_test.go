package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sysmon-tools/sysmon/internal/alert"
	"github.com/sysmon-tools/sysmon/internal/collector"
	"github.com/sysmon-tools/sysmon/internal/config"
	"github.com/sysmon-tools/sysmon/internal/models"
)

// fakeCollector returns canned data or a canned error.
type fakeCollector struct {
	name string
	data interface{}
	err  error
}

func (f *fakeCollector) Name() string { return f.name }
func (f *fakeCollector) Collect(ctx context.Context) (interface{}, error) {
	return f.data, f.err
}
func (f *fakeCollector) IsAvailable() bool { return true }

// captureRenderer records every rendered snapshot.
type captureRenderer struct {
	mu         sync.Mutex
	snapshots  []*models.Snapshot
	severities []map[string]alert.Severity
	delay      time.Duration
	err        error
}

func (r *captureRenderer) Render(s *models.Snapshot, sev map[string]alert.Severity) error {
	if r.delay > 0 {
		time.Sleep(r.delay)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snapshots = append(r.snapshots, s)
	r.severities = append(r.severities, sev)
	return r.err
}

func (r *captureRenderer) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.snapshots)
}

// captureSink records transitions in delivery order.
type captureSink struct {
	mu  sync.Mutex
	got []alert.Transition
}

func (c *captureSink) Notify(t alert.Transition) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.got = append(c.got, t)
	return nil
}

func (c *captureSink) keys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	keys := make([]string, len(c.got))
	for i, t := range c.got {
		keys[i] = t.Key
	}
	return keys
}

func testConfig(interval time.Duration) *config.Config {
	cfg := config.DefaultConfig()
	cfg.General.RefreshInterval = config.Duration{Duration: interval}
	return cfg
}

func cpuData(overall float64) models.CPUStats {
	return models.CPUStats{Overall: overall, PerCore: []float64{overall}}
}

func memData(usedPct float64) models.MemoryStats {
	total := uint64(100 * 1024 * 1024)
	used := uint64(usedPct / 100 * float64(total))
	return models.MemoryStats{Total: total, Used: used, Available: total - used}
}

func newRegistry(t *testing.T, collectors ...collector.Collector) *collector.Registry {
	t.Helper()
	r := collector.NewRegistry(zap.NewNop())
	for _, c := range collectors {
		r.Register(c)
	}
	return r
}

func TestRunOnce_SingleRenderPass(t *testing.T) {
	registry := newRegistry(t,
		&fakeCollector{name: collector.FacilityCPU, data: cpuData(50)},
		&fakeCollector{name: collector.FacilityMemory, data: memData(40)},
	)
	renderer := &captureRenderer{}
	sink := &captureSink{}
	loop := New(registry, testConfig(time.Second), renderer, sink, zap.NewNop())

	err := loop.RunOnce(context.Background())
	require.NoError(t, err)

	require.Equal(t, 1, renderer.count())
	assert.Equal(t, alert.Normal, renderer.severities[0][alert.KeyCPU])
	assert.Equal(t, alert.Normal, renderer.severities[0][alert.KeyMemory])
	assert.Empty(t, sink.got, "all-Normal first cycle emits no transitions")
}

func TestRunOnce_TotalAcquisitionFailure(t *testing.T) {
	registry := newRegistry(t,
		&fakeCollector{name: collector.FacilityCPU, err: errors.New("procfs gone")},
		&fakeCollector{name: collector.FacilityMemory, err: errors.New("procfs gone")},
	)
	renderer := &captureRenderer{}
	loop := New(registry, testConfig(time.Second), renderer, nil, zap.NewNop())

	err := loop.RunOnce(context.Background())
	assert.ErrorIs(t, err, ErrNoMetrics)
	assert.Equal(t, 0, renderer.count(), "failed cycle must not render")
}

func TestRunOnce_PartialFacilityFailure(t *testing.T) {
	registry := newRegistry(t,
		&fakeCollector{name: collector.FacilityCPU, data: cpuData(95)},
		&fakeCollector{name: collector.FacilityMemory, data: memData(50)},
		&fakeCollector{name: collector.FacilityDisk, err: errors.New("mount table unreadable")},
	)
	renderer := &captureRenderer{}
	sink := &captureSink{}
	loop := New(registry, testConfig(time.Second), renderer, sink, zap.NewNop())

	require.NoError(t, loop.RunOnce(context.Background()))

	require.Equal(t, 1, renderer.count())
	snap := renderer.snapshots[0]
	assert.True(t, snap.Degraded())
	assert.Equal(t, []string{collector.FacilityDisk}, snap.Omitted)
	assert.Empty(t, snap.Disks)

	// Alerting still fires for the facilities that acquired.
	assert.Equal(t, alert.Critical, renderer.severities[0][alert.KeyCPU])
	assert.Equal(t, []string{alert.KeyCPU}, sink.keys())
}

func TestEvaluate_FixedMetricOrder(t *testing.T) {
	swap := memData(75)
	registry := newRegistry(t,
		&fakeCollector{name: collector.FacilityCPU, data: cpuData(80)},
		&fakeCollector{name: collector.FacilityMemory, data: memData(95)},
		&fakeCollector{name: collector.FacilitySwap, data: &swap},
		&fakeCollector{name: collector.FacilityDisk, data: []models.DiskStats{
			{Mount: "/", Total: 100, Used: 80, Free: 20},
			{Mount: "/home", Total: 100, Used: 91, Free: 9},
		}},
	)
	sink := &captureSink{}
	loop := New(registry, testConfig(time.Second), &captureRenderer{}, sink, zap.NewNop())

	require.NoError(t, loop.RunOnce(context.Background()))

	// Everything crossed a threshold on the first cycle, so the transition
	// stream exposes the full evaluation order.
	assert.Equal(t, []string{
		alert.KeyCPU,
		alert.KeyMemory,
		alert.KeySwap,
		alert.DiskKey("/"),
		alert.DiskKey("/home"),
	}, sink.keys())
}

func TestEvaluate_NoSwapMeansNoSwapKey(t *testing.T) {
	registry := newRegistry(t,
		&fakeCollector{name: collector.FacilityCPU, data: cpuData(10)},
		&fakeCollector{name: collector.FacilitySwap, data: (*models.MemoryStats)(nil)},
	)
	renderer := &captureRenderer{}
	loop := New(registry, testConfig(time.Second), renderer, nil, zap.NewNop())

	require.NoError(t, loop.RunOnce(context.Background()))
	_, hasSwap := renderer.severities[0][alert.KeySwap]
	assert.False(t, hasSwap, "absent swap must not be classified")
}

func TestRun_RepeatsAndStopsOnCancel(t *testing.T) {
	registry := newRegistry(t,
		&fakeCollector{name: collector.FacilityCPU, data: cpuData(30)},
	)
	renderer := &captureRenderer{}
	loop := New(registry, testConfig(20*time.Millisecond), renderer, nil, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		loop.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return renderer.count() >= 3 },
		2*time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("loop did not stop after cancellation")
	}
}

func TestRun_SurvivesFailedCycles(t *testing.T) {
	registry := newRegistry(t,
		&fakeCollector{name: collector.FacilityCPU, err: errors.New("flaky")},
	)
	loop := New(registry, testConfig(10*time.Millisecond), &captureRenderer{}, nil, zap.NewNop())

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Millisecond)
	defer cancel()

	done := make(chan struct{})
	go func() {
		loop.Run(ctx) // must keep looping through ErrNoMetrics cycles
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("loop did not stop")
	}
}

func TestRemainingSleep(t *testing.T) {
	interval := 100 * time.Millisecond
	assert.Equal(t, 70*time.Millisecond, remainingSleep(interval, 30*time.Millisecond))
	assert.Equal(t, time.Duration(0), remainingSleep(interval, interval))
	assert.Equal(t, time.Duration(0), remainingSleep(interval, 250*time.Millisecond),
		"overrun must not produce a negative sleep or catch-up debt")
}

func TestCollectTimeout(t *testing.T) {
	assert.Equal(t, 2*time.Second, collectTimeout(2*time.Second))
	assert.Equal(t, maxCollectTimeout, collectTimeout(time.Minute))
	assert.Equal(t, maxCollectTimeout, collectTimeout(0))
}

func TestPublisher_LatestPendingWins(t *testing.T) {
	renderer := &captureRenderer{delay: 30 * time.Millisecond}
	pub := newPublisher(renderer, nil, zap.NewNop())
	pub.start()

	mkJob := func(ts time.Time) cycleResult {
		return cycleResult{snapshot: &models.Snapshot{Timestamp: ts}}
	}
	t0 := time.Unix(1000, 0)

	// First job occupies the worker; the next two contend for the single
	// queue slot, so only the latest of them survives.
	pub.publish(mkJob(t0))
	time.Sleep(5 * time.Millisecond)
	pub.publish(mkJob(t0.Add(time.Second)))
	pub.publish(mkJob(t0.Add(2 * time.Second)))
	pub.stop()

	require.Len(t, renderer.snapshots, 2)
	assert.Equal(t, t0, renderer.snapshots[0].Timestamp)
	assert.Equal(t, t0.Add(2*time.Second), renderer.snapshots[1].Timestamp)
}

func TestPublisher_RenderFailureIsNonFatal(t *testing.T) {
	renderer := &captureRenderer{err: errors.New("broken pipe")}
	sink := &captureSink{}
	pub := newPublisher(renderer, sink, zap.NewNop())
	pub.start()

	pub.publish(cycleResult{
		snapshot: &models.Snapshot{Timestamp: time.Now()},
		transitions: []alert.Transition{
			{Key: alert.KeyCPU, From: alert.Normal, To: alert.Warning, At: time.Now()},
		},
	})
	pub.stop()

	// Transitions still reach the sink even when rendering fails.
	assert.Equal(t, []string{alert.KeyCPU}, sink.keys())
}
