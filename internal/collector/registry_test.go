package collector

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
)

// fakeCollector is a test double with a fixed name, result, and error.
type fakeCollector struct {
	name      string
	data      interface{}
	err       error
	available bool
}

func (f *fakeCollector) Name() string { return f.name }
func (f *fakeCollector) Collect(ctx context.Context) (interface{}, error) {
	return f.data, f.err
}
func (f *fakeCollector) IsAvailable() bool { return f.available }

func TestRegistry_SkipsUnavailable(t *testing.T) {
	r := NewRegistry(zap.NewNop())
	r.Register(&fakeCollector{name: "a", available: true})
	r.Register(&fakeCollector{name: "b", available: false})

	if got := len(r.Collectors()); got != 1 {
		t.Fatalf("registered %d collectors, want 1", got)
	}
	if r.Collectors()[0].Name() != "a" {
		t.Errorf("kept collector %q, want a", r.Collectors()[0].Name())
	}
}

func TestCollectAll_PartialFailure(t *testing.T) {
	r := NewRegistry(zap.NewNop())
	r.Register(&fakeCollector{name: "cpu", data: 42.0, available: true})
	r.Register(&fakeCollector{name: "disk", err: errors.New("mount table unreadable"), available: true})

	res := r.CollectAll(context.Background())

	if res.Complete() {
		t.Error("Complete() = true with a failed facility")
	}
	if res.Empty() {
		t.Error("Empty() = true with a successful facility")
	}
	if _, ok := res.Data["cpu"]; !ok {
		t.Error("cpu result missing")
	}
	if _, ok := res.Data["disk"]; ok {
		t.Error("failed facility must not appear in Data")
	}
	if res.Errors["disk"] == nil {
		t.Error("disk error missing from Errors")
	}
}

func TestCollectAll_AllFailed(t *testing.T) {
	r := NewRegistry(zap.NewNop())
	r.Register(&fakeCollector{name: "cpu", err: errors.New("nope"), available: true})
	r.Register(&fakeCollector{name: "memory", err: errors.New("nope"), available: true})

	res := r.CollectAll(context.Background())
	if !res.Empty() {
		t.Error("Empty() = false when every facility failed")
	}
	if len(res.Errors) != 2 {
		t.Errorf("got %d errors, want 2", len(res.Errors))
	}
}
