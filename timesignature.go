// Package stepseq implements a step-sequencer engine for drum-style rhythm
// composition: a session model with undo/redo editing, a euclidean rhythm
// generator, and a real-time playback sequencer that dispatches trigger
// events to a pluggable handler.
package stepseq

import "fmt"

// Tick is the atomic time unit of a pattern timeline.
type Tick int

// TimeSignature is an immutable value describing how ticks map onto bars,
// beats, and quarter notes.
type TimeSignature struct {
	Numerator           int
	Denominator         int
	TicksPerQuarterNote int
}

// validDenominators are the note values a TimeSignature may be expressed in.
var validDenominators = map[int]bool{2: true, 4: true, 8: true, 16: true, 32: true}

// NewTimeSignature validates and constructs a TimeSignature.
func NewTimeSignature(numerator, denominator, ticksPerQuarterNote int) (TimeSignature, error) {
	if numerator <= 0 {
		return TimeSignature{}, fmt.Errorf("stepseq: time signature numerator must be positive, got %d", numerator)
	}
	if !validDenominators[denominator] {
		return TimeSignature{}, fmt.Errorf("stepseq: time signature denominator must be one of 2,4,8,16,32, got %d", denominator)
	}
	if ticksPerQuarterNote <= 0 {
		return TimeSignature{}, fmt.Errorf("stepseq: ticks per quarter note must be positive, got %d", ticksPerQuarterNote)
	}
	return TimeSignature{Numerator: numerator, Denominator: denominator, TicksPerQuarterNote: ticksPerQuarterNote}, nil
}

// DefaultTimeSignature returns 4/4 at a resolution of four ticks per quarter note.
func DefaultTimeSignature() TimeSignature {
	return TimeSignature{Numerator: 4, Denominator: 4, TicksPerQuarterNote: 4}
}

// TicksPerDenominator returns the number of ticks in one beat (one note of
// the signature's denominator value).
func (ts TimeSignature) TicksPerDenominator() int {
	return ts.TicksPerQuarterNote * 4 / ts.Denominator
}

// TicksPerBar returns the number of ticks in one bar.
func (ts TimeSignature) TicksPerBar() int {
	return ts.TicksPerDenominator() * ts.Numerator
}

// IsTickStartOfBar reports whether tick lands exactly on a bar boundary.
func (ts TimeSignature) IsTickStartOfBar(tick Tick) bool {
	return int(tick)%ts.TicksPerBar() == 0
}

// MusicalTimeToTicks converts a bar/beat/tick triple to an absolute tick,
// according to this time signature.
func (ts TimeSignature) MusicalTimeToTicks(bar, beat, tick int) Tick {
	return Tick(ts.TicksPerBar()*bar + ts.TicksPerDenominator()*beat + tick)
}

// LoopEndFor returns the smallest tick L >= highestTimeStamp such that L is a
// bar boundary under this time signature. An event sitting exactly on a bar
// line still reserves a full trailing bar, so a highestTimeStamp that is
// itself a bar boundary yields L = highestTimeStamp + TicksPerBar().
func (ts TimeSignature) LoopEndFor(highestTimeStamp Tick) Tick {
	barTicks := ts.TicksPerBar()
	if int(highestTimeStamp)%barTicks == 0 {
		return highestTimeStamp + Tick(barTicks)
	}
	for !ts.IsTickStartOfBar(highestTimeStamp) {
		highestTimeStamp++
	}
	return highestTimeStamp
}

// Wrap returns v modulo m, always in the range [0, m) for m > 0.
func Wrap(v, m int) int {
	v %= m
	if v < 0 {
		v += m
	}
	return v
}
