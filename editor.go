package stepseq

import (
	"fmt"
	"strings"
)

// SessionEditor is a façade over Session/EditManager that accepts
// high-level intent (sample names, bar/beat/tick triples) instead of raw
// Edit values, resolving sample names against the session and silently
// ignoring commands that reference unknown samples. All exported methods
// are safe to call from a single editor goroutine; SessionEditor itself
// does not add locking beyond what Session already provides.
type SessionEditor struct {
	session *Session
	edits   *EditManager
	rand    RandSource
}

// NewSessionEditor returns a SessionEditor operating on session.
func NewSessionEditor(session *Session) *SessionEditor {
	return &SessionEditor{session: session, edits: NewEditManager()}
}

// Session returns the session this editor mutates.
func (ed *SessionEditor) Session() *Session { return ed.session }

// Retarget points the editor at a different session, used by Engine's
// load_session swap. It also discards the undo/redo history by installing
// a fresh EditManager, since the stacked Edits close over the old
// session's state and would be meaningless applied to a new one.
func (ed *SessionEditor) Retarget(session *Session) {
	ed.session = session
	ed.edits = NewEditManager()
}

// FindSampleWithName returns the sample with the given name and true, or
// the zero Sample and false if none is present.
func (ed *SessionEditor) FindSampleWithName(name string) (Sample, bool) {
	for _, s := range ed.session.Samples {
		if s.Name == name {
			return s, true
		}
	}
	return Sample{}, false
}

// AddSample adds sample to the session.
func (ed *SessionEditor) AddSample(sample Sample) {
	ed.edits.Perform(&AddSampleEdit{Sample: sample}, ed.session)
}

// RemoveSample removes the sample named name, a no-op if unknown.
func (ed *SessionEditor) RemoveSample(name string) {
	sample, ok := ed.FindSampleWithName(name)
	if !ok {
		return
	}
	ed.edits.Perform(&RemoveSampleEdit{Sample: sample}, ed.session)
}

// AddEvent adds an event for sampleName at the given bar/beat/tick
// position, a no-op if sampleName is unknown.
func (ed *SessionEditor) AddEvent(sampleName string, bar, beat, tick int) {
	if _, ok := ed.FindSampleWithName(sampleName); !ok {
		return
	}
	ts := ed.session.TimeSignature.MusicalTimeToTicks(bar, beat, tick)
	ed.edits.Perform(&AddEventEdit{Event: NewEvent(sampleName, ts)}, ed.session)
}

// RemoveEvent removes the event for sampleName at the given position, a
// no-op if no such event exists.
func (ed *SessionEditor) RemoveEvent(sampleName string, bar, beat, tick int) {
	ts := ed.session.TimeSignature.MusicalTimeToTicks(bar, beat, tick)
	event := NewEvent(sampleName, ts)
	if !ed.session.ContainsEvent(event) {
		return
	}
	ed.edits.Perform(&RemoveEventEdit{Event: event}, ed.session)
}

// RemoveAllEvents clears every event in the session.
func (ed *SessionEditor) RemoveAllEvents() {
	ed.edits.Perform(&RemoveAllEventsEdit{}, ed.session)
}

// RemoveAllEventsWithSample clears every event referencing sampleName, a
// no-op if sampleName is unknown.
func (ed *SessionEditor) RemoveAllEventsWithSample(sampleName string) {
	sample, ok := ed.FindSampleWithName(sampleName)
	if !ok {
		return
	}
	ed.edits.Perform(&RemoveAllEventsWithSampleEdit{Sample: sample}, ed.session)
}

// ChangeTempo sets the session tempo to bpm.
func (ed *SessionEditor) ChangeTempo(bpm float64) {
	ed.edits.Perform(&ChangeTempoEdit{BPM: bpm}, ed.session)
}

// ChangeTimeSignature sets the session time signature.
func (ed *SessionEditor) ChangeTimeSignature(ts TimeSignature) {
	ed.edits.Perform(&ChangeTimeSignatureEdit{TimeSignature: ts}, ed.session)
}

// EuclideanForSample replaces sampleName's events with a euclidean
// distribution of numEvents onsets over one bar, a no-op if sampleName is
// unknown.
func (ed *SessionEditor) EuclideanForSample(sampleName string, numEvents int) {
	sample, ok := ed.FindSampleWithName(sampleName)
	if !ok {
		return
	}
	ed.edits.Perform(&EuclideanForSampleEdit{Sample: sample, NumEvents: numEvents}, ed.session)
}

// RotateLeft shifts every event of sampleName backward by amount ticks, a
// no-op if sampleName is unknown.
func (ed *SessionEditor) RotateLeft(sampleName string, amount int) {
	ed.rotate(sampleName, -amount)
}

// RotateRight shifts every event of sampleName forward by amount ticks, a
// no-op if sampleName is unknown.
func (ed *SessionEditor) RotateRight(sampleName string, amount int) {
	ed.rotate(sampleName, amount)
}

func (ed *SessionEditor) rotate(sampleName string, amount int) {
	sample, ok := ed.FindSampleWithName(sampleName)
	if !ok {
		return
	}
	ed.edits.Perform(&RotateSampleEdit{Sample: sample, Amount: amount}, ed.session)
}

// SetRandSource overrides the randomness GenerateSequence draws from,
// primarily for deterministic tests.
func (ed *SessionEditor) SetRandSource(r RandSource) { ed.rand = r }

// GenerateSequence clears every event in the session (samples are kept)
// and fills it with a pseudo-random
// pattern, one euclidean distribution per sample scaled by spectral
// position.
func (ed *SessionEditor) GenerateSequence() {
	ed.edits.Perform(&GenerateSequenceEdit{Rand: ed.rand}, ed.session)
}

// Undo reverts the most recent edit, a no-op if there is nothing to undo.
func (ed *SessionEditor) Undo() { ed.edits.Undo(ed.session) }

// Redo re-applies the most recently undone edit, a no-op if there is
// nothing to redo.
func (ed *SessionEditor) Redo() { ed.edits.Redo(ed.session) }

// CanUndo reports whether Undo would do anything.
func (ed *SessionEditor) CanUndo() bool { return ed.edits.CanUndo() }

// CanRedo reports whether Redo would do anything.
func (ed *SessionEditor) CanRedo() bool { return ed.edits.CanRedo() }

// Render formats the session as a human-readable grid: a header giving
// tempo and time signature, followed by one line per sample showing its
// events as a bar-by-bar, beat-by-beat grid of 'x'/'.' cells.
func (ed *SessionEditor) Render() string {
	s := ed.session
	ts := s.TimeSignature

	var b strings.Builder
	fmt.Fprintf(&b, "tempo: %v bpm\n", s.TempoBPM)
	fmt.Fprintf(&b, "time signature: %d/%d\n", ts.Numerator, ts.Denominator)

	ticksPerBar := ts.TicksPerBar()
	loopEnd := int(s.LoopEnd())
	numBars := 1
	if ticksPerBar > 0 && loopEnd > 0 {
		numBars = loopEnd / ticksPerBar
	}
	ticksPerDenom := ts.TicksPerDenominator()

	for _, sample := range s.Samples {
		onsets := make(map[Tick]bool)
		for _, e := range s.EventsWithSample(sample.Name) {
			onsets[e.TimeStamp] = true
		}

		var line strings.Builder
		fmt.Fprintf(&line, "%s<%s>  ", sample.Name, sample.SpectralPosition.letter())
		tick := 0
		for bar := 0; bar < numBars; bar++ {
			line.WriteByte('|')
			for beat := 0; beat < ts.Numerator; beat++ {
				if beat > 0 {
					line.WriteByte(' ')
				}
				for cell := 0; cell < ticksPerDenom; cell++ {
					if onsets[Tick(tick)] {
						line.WriteByte('x')
					} else {
						line.WriteByte('.')
					}
					tick++
				}
			}
		}
		line.WriteByte('|')
		b.WriteString(line.String())
		b.WriteByte('\n')
	}

	return b.String()
}
