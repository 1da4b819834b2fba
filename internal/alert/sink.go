package alert

import (
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
)

// Sink consumes alert transition events. Delivery is at-least-once;
// implementations must preserve per-metric transition order.
type Sink interface {
	Notify(t Transition) error
}

// LogSink writes transitions to the structured logger. Raised or escalated
// alerts log at Warn, cleared or de-escalated ones at Info.
type LogSink struct {
	logger *zap.Logger
}

// NewLogSink creates a sink that logs transitions via zap.
func NewLogSink(logger *zap.Logger) *LogSink {
	return &LogSink{logger: logger}
}

// Notify logs the transition.
func (s *LogSink) Notify(t Transition) error {
	fields := []zap.Field{
		zap.String("metric", t.Key),
		zap.String("from", t.From.String()),
		zap.String("to", t.To.String()),
	}
	if t.To > t.From {
		s.logger.Warn("Alert raised", fields...)
	} else {
		s.logger.Info("Alert cleared", fields...)
	}
	return nil
}

// FileSink appends one line per transition to an alert log file:
//
//	<timestamp> [<severity>] <metric_key> <previous>-><new>
//
// The file is opened per write so an externally rotated or deleted log file
// heals on the next transition.
type FileSink struct {
	path string
}

// NewFileSink creates a sink that appends alert lines to the given path.
func NewFileSink(path string) *FileSink {
	return &FileSink{path: path}
}

// Notify appends the transition line to the alert log file.
func (s *FileSink) Notify(t Transition) error {
	line := fmt.Sprintf("%s [%s] %s %s->%s\n",
		t.At.Format(time.RFC3339), t.To, t.Key, t.From, t.To)

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0640)
	if err != nil {
		return fmt.Errorf("opening alert log: %w", err)
	}
	defer f.Close()
	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("writing alert log: %w", err)
	}
	return nil
}

// MultiSink fans a transition out to several sinks in order. It delivers to
// every sink even when an earlier one fails and returns the first error.
type MultiSink struct {
	sinks []Sink
}

// NewMultiSink creates a sink that forwards to all given sinks.
func NewMultiSink(sinks ...Sink) *MultiSink {
	return &MultiSink{sinks: sinks}
}

// Notify forwards the transition to every sink.
func (s *MultiSink) Notify(t Transition) error {
	var first error
	for _, sink := range s.sinks {
		if err := sink.Notify(t); err != nil && first == nil {
			first = err
		}
	}
	return first
}
