// Package collector provides a registry for managing metric collectors.
// Collectors are registered at startup; the sampling loop queries the
// registry to run all available collectors concurrently each cycle.
package collector

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Result holds the outcome of one collection pass: per-facility data for
// collectors that succeeded and per-facility errors for those that failed.
// A facility appears in exactly one of the two maps.
type Result struct {
	Data   map[string]interface{}
	Errors map[string]error
}

// Complete reports whether every registered facility produced data.
func (r Result) Complete() bool { return len(r.Errors) == 0 }

// Empty reports whether no facility produced data at all.
func (r Result) Empty() bool { return len(r.Data) == 0 }

// Registry manages all registered collectors and orchestrates concurrent
// collection.
type Registry struct {
	collectors []Collector
	logger     *zap.Logger
}

// NewRegistry creates a new collector registry with the given logger.
func NewRegistry(logger *zap.Logger) *Registry {
	return &Registry{
		collectors: make([]Collector, 0),
		logger:     logger,
	}
}

// Register adds a collector if it's available on the current platform.
// Unavailable collectors are logged and skipped.
func (r *Registry) Register(c Collector) {
	if c.IsAvailable() {
		r.collectors = append(r.collectors, c)
		r.logger.Debug("Registered collector", zap.String("name", c.Name()))
	} else {
		r.logger.Warn("Collector not available, skipping", zap.String("name", c.Name()))
	}
}

// CollectAll runs all registered collectors concurrently and returns their
// results. A failed collector does not prevent others from completing; its
// error is recorded so the caller can mark the facility as omitted.
func (r *Registry) CollectAll(ctx context.Context) Result {
	res := Result{
		Data:   make(map[string]interface{}),
		Errors: make(map[string]error),
	}
	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, c := range r.collectors {
		wg.Add(1)
		go func(col Collector) {
			defer wg.Done()
			data, err := col.Collect(ctx)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				r.logger.Warn("Collection failed",
					zap.String("collector", col.Name()),
					zap.Error(err))
				res.Errors[col.Name()] = err
				return
			}
			res.Data[col.Name()] = data
		}(c)
	}

	wg.Wait()
	return res
}

// Collectors returns a copy of all registered collectors.
func (r *Registry) Collectors() []Collector {
	result := make([]Collector, len(r.collectors))
	copy(result, r.collectors)
	return result
}
