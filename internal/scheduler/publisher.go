package scheduler

import (
	"sync"

	"go.uber.org/zap"

	"github.com/sysmon-tools/sysmon/internal/alert"
	"github.com/sysmon-tools/sysmon/internal/render"
)

// publisher delivers cycle results to the renderer and alert sink on a
// worker goroutine so a stalled consumer never blocks the sampling cadence.
// The queue has depth 1 with latest-pending semantics: if the worker is
// busy, a newer result overwrites an undelivered older one, trading
// staleness for liveness. Per-sink delivery order is preserved because one
// worker serves both consumers sequentially.
type publisher struct {
	renderer render.Renderer
	sink     alert.Sink
	logger   *zap.Logger

	jobs chan cycleResult
	wg   sync.WaitGroup

	renderBroken bool // last render attempt failed; used to log state changes once
}

func newPublisher(renderer render.Renderer, sink alert.Sink, logger *zap.Logger) *publisher {
	return &publisher{
		renderer: renderer,
		sink:     sink,
		logger:   logger,
		jobs:     make(chan cycleResult, 1),
	}
}

// start launches the worker goroutine.
func (p *publisher) start() {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		for job := range p.jobs {
			p.deliver(job)
		}
	}()
}

// stop closes the queue and waits for in-flight and pending work to drain,
// so a cycle that reached Publishing is never half-published.
func (p *publisher) stop() {
	close(p.jobs)
	p.wg.Wait()
}

// publish enqueues a cycle result without blocking. When the queue already
// holds an undelivered result, that stale result is dropped in favor of the
// new one.
func (p *publisher) publish(res cycleResult) {
	for {
		select {
		case p.jobs <- res:
			return
		default:
		}
		select {
		case stale := <-p.jobs:
			p.logger.Debug("Dropping stale snapshot, renderer can't keep up",
				zap.Time("timestamp", stale.snapshot.Timestamp))
		default:
		}
	}
}

// deliver renders the snapshot and forwards transitions, best-effort.
func (p *publisher) deliver(job cycleResult) {
	if err := p.renderer.Render(job.snapshot, job.severities); err != nil {
		if !p.renderBroken {
			p.logger.Error("Render failed", zap.Error(err))
			p.renderBroken = true
		}
	} else if p.renderBroken {
		p.logger.Info("Render recovered")
		p.renderBroken = false
	}

	if p.sink == nil {
		return
	}
	for _, t := range job.transitions {
		if err := p.sink.Notify(t); err != nil {
			p.logger.Error("Alert notification failed",
				zap.String("metric", t.Key), zap.Error(err))
		}
	}
}
