package stepseq

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimeSignature(t *testing.T) {
	_, err := NewTimeSignature(0, 4, 4)
	assert.Error(t, err)

	_, err = NewTimeSignature(4, 3, 4)
	assert.Error(t, err)

	_, err = NewTimeSignature(4, 4, 0)
	assert.Error(t, err)

	ts, err := NewTimeSignature(3, 4, 4)
	require.NoError(t, err)
	assert.Equal(t, 3, ts.Numerator)
	assert.Equal(t, 4, ts.Denominator)
}

func TestTicksPerBar(t *testing.T) {
	ts := DefaultTimeSignature() // 4/4, tpqn 4
	assert.Equal(t, 4, ts.TicksPerDenominator())
	assert.Equal(t, 16, ts.TicksPerBar())

	eighths, err := NewTimeSignature(6, 8, 4)
	require.NoError(t, err)
	assert.Equal(t, 2, eighths.TicksPerDenominator())
	assert.Equal(t, 12, eighths.TicksPerBar())
}

func TestIsTickStartOfBar(t *testing.T) {
	ts := DefaultTimeSignature()
	assert.True(t, ts.IsTickStartOfBar(0))
	assert.True(t, ts.IsTickStartOfBar(16))
	assert.False(t, ts.IsTickStartOfBar(1))
	assert.False(t, ts.IsTickStartOfBar(15))
}

// S1 — Loop bounds: ts=4/4, tpqn=4.
func TestLoopEndFor(t *testing.T) {
	ts := DefaultTimeSignature()

	assert.Equal(t, Tick(16), ts.LoopEndFor(0))
	assert.Equal(t, Tick(16), ts.LoopEndFor(15))
	assert.Equal(t, Tick(32), ts.LoopEndFor(16))
}

func TestWrap(t *testing.T) {
	assert.Equal(t, 0, Wrap(0, 16))
	assert.Equal(t, 1, Wrap(17, 16))
	assert.Equal(t, 15, Wrap(-1, 16))
	assert.Equal(t, 13, Wrap(-3, 16))
}

func TestMusicalTimeToTicks(t *testing.T) {
	ts := DefaultTimeSignature()
	assert.Equal(t, Tick(0), ts.MusicalTimeToTicks(0, 0, 0))
	assert.Equal(t, Tick(16), ts.MusicalTimeToTicks(1, 0, 0))
	assert.Equal(t, Tick(4), ts.MusicalTimeToTicks(0, 1, 0))
	assert.Equal(t, Tick(1), ts.MusicalTimeToTicks(0, 0, 1))
}

func TestWrapProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	properties := gopter.NewProperties(parameters)

	properties.Property("wrap(v, m) is always in [0, m)", prop.ForAll(
		func(v, m int) bool {
			w := Wrap(v, m)
			return w >= 0 && w < m
		},
		gen.IntRange(-10000, 10000),
		gen.IntRange(1, 1000),
	))

	properties.TestingRun(t)
}

func TestMusicalTimeToTicksMonotonic(t *testing.T) {
	ts := DefaultTimeSignature()
	parameters := gopter.DefaultTestParameters()
	properties := gopter.NewProperties(parameters)

	properties.Property("musical_time_to_ticks is monotonic in bar", prop.ForAll(
		func(bar int) bool {
			return ts.MusicalTimeToTicks(bar, 0, 0) < ts.MusicalTimeToTicks(bar+1, 0, 0)
		},
		gen.IntRange(0, 1000),
	))

	properties.Property("is_tick_start_of_bar holds at every bar boundary", prop.ForAll(
		func(bar int) bool {
			return ts.IsTickStartOfBar(ts.MusicalTimeToTicks(bar, 0, 0))
		},
		gen.IntRange(0, 1000),
	))

	properties.TestingRun(t)
}
