package stepseq

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingListener struct {
	sampleAdded, sampleRemoved         int
	eventAdded, eventRemoved           int
	timeSignatureChanged, tempoChanged int
}

func (l *countingListener) SampleAdded(Sample)                { l.sampleAdded++ }
func (l *countingListener) SampleRemoved(Sample)               { l.sampleRemoved++ }
func (l *countingListener) EventAdded(Event)                   { l.eventAdded++ }
func (l *countingListener) EventRemoved(Event)                 { l.eventRemoved++ }
func (l *countingListener) TimeSignatureChanged(TimeSignature) { l.timeSignatureChanged++ }
func (l *countingListener) TempoChanged(float64)               { l.tempoChanged++ }

func TestSessionAddSampleNoDuplicate(t *testing.T) {
	s := NewSession()
	l := &countingListener{}
	s.AddListener(l)

	kick := Sample{Name: "kick"}
	assert.True(t, s.AddSample(kick))
	assert.False(t, s.AddSample(kick))
	assert.Equal(t, 1, l.sampleAdded)
}

func TestSessionAddEventRequiresSample(t *testing.T) {
	s := NewSession()
	assert.False(t, s.AddEvent(NewEvent("kick", 0)))

	s.AddSample(Sample{Name: "kick"})
	assert.True(t, s.AddEvent(NewEvent("kick", 0)))
	assert.False(t, s.AddEvent(NewEvent("kick", 0)))
}

// S2 — Sample cascade delete.
func TestSessionRemoveSampleCascade(t *testing.T) {
	s := NewSession()
	l := &countingListener{}
	s.AddListener(l)

	kick := Sample{Name: "kick"}
	snare := Sample{Name: "snare"}
	s.AddSample(kick)
	s.AddSample(snare)

	s.AddEvent(NewEvent("kick", 0))
	s.AddEvent(NewEvent("kick", 4))
	s.AddEvent(NewEvent("snare", 3))

	require.True(t, s.RemoveSample(kick))

	assert.Equal(t, 2, l.eventRemoved)
	assert.Equal(t, 1, l.sampleRemoved)
	assert.Len(t, s.Samples, 1)
	assert.Len(t, s.Events, 1)
}

func TestSessionChangeTempo(t *testing.T) {
	s := NewSession()
	l := &countingListener{}
	s.AddListener(l)

	assert.False(t, s.ChangeTempo(0))
	assert.False(t, s.ChangeTempo(-10))
	assert.True(t, s.ChangeTempo(140))
	assert.Equal(t, 140.0, s.TempoBPM)
	assert.Equal(t, 1, l.tempoChanged)
}

func TestSessionChangeTimeSignatureAlwaysNotifies(t *testing.T) {
	s := NewSession()
	l := &countingListener{}
	s.AddListener(l)

	ts := s.TimeSignature
	s.ChangeTimeSignature(ts)
	s.ChangeTimeSignature(ts)
	assert.Equal(t, 2, l.timeSignatureChanged)
}

func TestSessionLoopEnd(t *testing.T) {
	s := NewSession()
	s.AddSample(Sample{Name: "h"})

	s.AddEvent(NewEvent("h", 0))
	assert.Equal(t, Tick(16), s.LoopEnd())

	s.AddEvent(NewEvent("h", 15))
	assert.Equal(t, Tick(16), s.LoopEnd())

	s.AddEvent(NewEvent("h", 16))
	assert.Equal(t, Tick(32), s.LoopEnd())
}

func TestSessionRemoveListener(t *testing.T) {
	s := NewSession()
	l := &countingListener{}
	s.AddListener(l)
	s.RemoveListener(l)

	s.AddSample(Sample{Name: "kick"})
	assert.Equal(t, 0, l.sampleAdded)
}
