package alert

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTracker_FirstNormalEmitsNothing(t *testing.T) {
	tr := NewTracker()
	assert.Nil(t, tr.Update("cpu.overall", Normal))
	assert.Equal(t, Normal, tr.Current("cpu.overall"))
}

func TestTracker_DeduplicatesSustainedSeverity(t *testing.T) {
	tr := NewTracker()

	first := tr.Update("cpu.overall", Warning)
	require.NotNil(t, first)
	assert.Equal(t, Normal, first.From)
	assert.Equal(t, Warning, first.To)

	// Sustained Warning produces no further events.
	for i := 0; i < 5; i++ {
		assert.Nil(t, tr.Update("cpu.overall", Warning))
	}
}

func TestTracker_FullCycle(t *testing.T) {
	tr := NewTracker()

	var events []*Transition
	for _, s := range []Severity{Normal, Warning, Critical, Normal} {
		if ev := tr.Update("memory", s); ev != nil {
			events = append(events, ev)
		}
	}

	require.Len(t, events, 3)
	assert.Equal(t, Normal, events[0].From)
	assert.Equal(t, Warning, events[0].To)
	assert.Equal(t, Warning, events[1].From)
	assert.Equal(t, Critical, events[1].To)
	assert.Equal(t, Critical, events[2].From)
	assert.Equal(t, Normal, events[2].To)
}

func TestTracker_CriticalToNormalIsOneEvent(t *testing.T) {
	tr := NewTracker()
	tr.Update("disk:/", Critical)

	ev := tr.Update("disk:/", Normal)
	require.NotNil(t, ev)
	assert.Equal(t, Critical, ev.From)
	assert.Equal(t, Normal, ev.To)
	// No intermediate Warning event exists; next Normal is silent.
	assert.Nil(t, tr.Update("disk:/", Normal))
}

func TestTracker_KeysAreIndependent(t *testing.T) {
	tr := NewTracker()
	require.NotNil(t, tr.Update("disk:/", Warning))
	require.NotNil(t, tr.Update("disk:/home", Warning))
	assert.Nil(t, tr.Update("disk:/", Warning))
	assert.Equal(t, Warning, tr.Current("disk:/home"))
	assert.Equal(t, Normal, tr.Current("disk:/var"))
}

func TestTracker_ThresholdScenario(t *testing.T) {
	// cpu warning=70 critical=90, samples [50 75 95 60]:
	// severities [Normal Warning Critical Normal], events at indices 1, 2, 3.
	th := Threshold{Warning: 70, Critical: 90}
	tr := NewTracker()

	samples := []float64{50, 75, 95, 60}
	wantSeverity := []Severity{Normal, Warning, Critical, Normal}
	var events []*Transition

	for i, v := range samples {
		s := Classify(v, th)
		assert.Equal(t, wantSeverity[i], s, "sample %d", i)
		if ev := tr.Update("cpu.overall", s); ev != nil {
			events = append(events, ev)
		}
	}

	require.Len(t, events, 3)
	assert.Equal(t, Warning, events[0].To)
	assert.Equal(t, Critical, events[1].To)
	assert.Equal(t, Normal, events[2].To)
}
