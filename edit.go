package stepseq

import (
	"math"
	"math/rand"

	clone "github.com/huandu/go-clone/generic"
)

// Edit is a reversible mutation applied to a Session.
type Edit interface {
	Perform(s *Session)
	Undo(s *Session)
}

// EditManager maintains undo/redo stacks of Edits. Perform clears the redo
// stack before pushing the new edit: spec.md §9 Open Question 1 notes the
// original implementation never clears it (likely a bug) and instructs
// implementers to adopt standard undo semantics instead, which is what
// EditManager does here.
type EditManager struct {
	undoStack []Edit
	redoStack []Edit
}

// NewEditManager returns an empty EditManager.
func NewEditManager() *EditManager {
	return &EditManager{}
}

// Perform applies edit to session, pushes it onto the undo stack, and
// clears the redo stack.
func (m *EditManager) Perform(edit Edit, session *Session) {
	edit.Perform(session)
	m.undoStack = append(m.undoStack, edit)
	m.redoStack = nil
}

// Undo pops the most recent edit off the undo stack, undoes it, and pushes
// it onto the redo stack. A no-op on an empty undo stack.
func (m *EditManager) Undo(session *Session) {
	if len(m.undoStack) == 0 {
		return
	}
	last := len(m.undoStack) - 1
	edit := m.undoStack[last]
	m.undoStack = m.undoStack[:last]

	edit.Undo(session)
	m.redoStack = append(m.redoStack, edit)
}

// Redo pops the most recently undone edit off the redo stack, re-performs
// it, and pushes it back onto the undo stack. A no-op on an empty redo
// stack.
func (m *EditManager) Redo(session *Session) {
	if len(m.redoStack) == 0 {
		return
	}
	last := len(m.redoStack) - 1
	edit := m.redoStack[last]
	m.redoStack = m.redoStack[:last]

	edit.Perform(session)
	m.undoStack = append(m.undoStack, edit)
}

// CanUndo reports whether Undo would do anything.
func (m *EditManager) CanUndo() bool { return len(m.undoStack) > 0 }

// CanRedo reports whether Redo would do anything.
func (m *EditManager) CanRedo() bool { return len(m.redoStack) > 0 }

// ---------------------------------------------------------------------
// Primitive edits
// ---------------------------------------------------------------------

// AddEventEdit adds a single event.
type AddEventEdit struct{ Event Event }

func (e *AddEventEdit) Perform(s *Session) { s.AddEvent(e.Event) }
func (e *AddEventEdit) Undo(s *Session)    { s.RemoveEvent(e.Event) }

// RemoveEventEdit removes a single event.
type RemoveEventEdit struct{ Event Event }

func (e *RemoveEventEdit) Perform(s *Session) { s.RemoveEvent(e.Event) }
func (e *RemoveEventEdit) Undo(s *Session)    { s.AddEvent(e.Event) }

// AddSampleEdit adds a single sample.
type AddSampleEdit struct{ Sample Sample }

func (e *AddSampleEdit) Perform(s *Session) { s.AddSample(e.Sample) }
func (e *AddSampleEdit) Undo(s *Session)    { s.RemoveSample(e.Sample) }

// RemoveSampleEdit removes a sample, snapshotting the session's events
// beforehand so Undo can restore both the sample and every event that used
// it.
type RemoveSampleEdit struct {
	Sample      Sample
	eventBackup []Event
}

func (e *RemoveSampleEdit) Perform(s *Session) {
	e.eventBackup = clone.Clone(s.SnapshotEvents())
	s.RemoveSample(e.Sample)
}

func (e *RemoveSampleEdit) Undo(s *Session) {
	s.AddSample(e.Sample)
	for _, ev := range e.eventBackup {
		if ev.SampleName == e.Sample.Name {
			s.AddEvent(ev)
		}
	}
}

// RemoveAllEventsEdit removes every event in the session, snapshotting them
// beforehand so Undo can restore all of them.
type RemoveAllEventsEdit struct {
	backup []Event
}

func (e *RemoveAllEventsEdit) Perform(s *Session) {
	e.backup = clone.Clone(s.SnapshotEvents())
	for _, ev := range e.backup {
		s.RemoveEvent(ev)
	}
}

func (e *RemoveAllEventsEdit) Undo(s *Session) {
	for _, ev := range e.backup {
		s.AddEvent(ev)
	}
}

// RemoveAllEventsWithSampleEdit removes every event referencing Sample,
// snapshotting them beforehand so Undo can restore exactly those.
type RemoveAllEventsWithSampleEdit struct {
	Sample  Sample
	removed []Event
}

func (e *RemoveAllEventsWithSampleEdit) Perform(s *Session) {
	e.removed = nil
	for _, ev := range clone.Clone(s.SnapshotEvents()) {
		if ev.SampleName == e.Sample.Name {
			e.removed = append(e.removed, ev)
			s.RemoveEvent(ev)
		}
	}
}

func (e *RemoveAllEventsWithSampleEdit) Undo(s *Session) {
	for _, ev := range e.removed {
		s.AddEvent(ev)
	}
	e.removed = nil
}

// ChangeTempoEdit swaps the session's tempo for a new value. Perform and
// Undo are the same operation: each call saves the session's current tempo
// into the edit's own field before applying the value already stored
// there, so calling Perform twice in a row restores the original tempo.
type ChangeTempoEdit struct{ BPM float64 }

func (e *ChangeTempoEdit) Perform(s *Session) {
	old := s.TempoBPM
	s.ChangeTempo(e.BPM)
	e.BPM = old
}

func (e *ChangeTempoEdit) Undo(s *Session) { e.Perform(s) }

// ChangeTimeSignatureEdit swaps the session's time signature for a new
// value, using the same self-inverting swap pattern as ChangeTempoEdit.
type ChangeTimeSignatureEdit struct{ TimeSignature TimeSignature }

func (e *ChangeTimeSignatureEdit) Perform(s *Session) {
	old := s.TimeSignature
	s.ChangeTimeSignature(e.TimeSignature)
	e.TimeSignature = old
}

func (e *ChangeTimeSignatureEdit) Undo(s *Session) { e.Perform(s) }

// RotateSampleEdit shifts every event using Sample forward by Amount ticks,
// wrapping around the session's current loop end. A negative Amount
// rotates backward.
type RotateSampleEdit struct {
	Sample Sample
	Amount int
}

func (e *RotateSampleEdit) Perform(s *Session) { e.rotate(s, e.Amount) }
func (e *RotateSampleEdit) Undo(s *Session)    { e.rotate(s, -e.Amount) }

func (e *RotateSampleEdit) rotate(s *Session, amount int) {
	events := s.EventsWithSample(e.Sample.Name)
	loopEnd := int(s.LoopEnd())
	for _, ev := range events {
		s.RemoveEvent(ev)
	}
	if loopEnd == 0 {
		return
	}
	for _, ev := range events {
		ev.TimeStamp = Tick(Wrap(int(ev.TimeStamp)+amount, loopEnd))
		s.AddEvent(ev)
	}
}

// EuclideanForSampleEdit replaces every event using Sample with a euclidean
// distribution of NumEvents onsets over one bar. Undo removes exactly the
// events this edit added and restores exactly the events it removed,
// resolving spec.md §9 Open Question 3 (the original's undo replays a
// fresh remove-all then the inner clear edit's undo, which is fragile when
// the session has changed shape in between).
type EuclideanForSampleEdit struct {
	Sample    Sample
	NumEvents int
	removed   []Event
	added     []Event
}

func (e *EuclideanForSampleEdit) Perform(s *Session) {
	e.removed = nil
	for _, ev := range s.EventsWithSample(e.Sample.Name) {
		e.removed = append(e.removed, ev)
		s.RemoveEvent(ev)
	}

	numTicks := s.TimeSignature.TicksPerBar()
	distribution := Distribute(numTicks, e.NumEvents)

	e.added = nil
	for i, onset := range distribution {
		if onset != 1 {
			continue
		}
		ev := NewEvent(e.Sample.Name, Tick(i))
		if s.AddEvent(ev) {
			e.added = append(e.added, ev)
		}
	}
}

func (e *EuclideanForSampleEdit) Undo(s *Session) {
	for _, ev := range e.added {
		s.RemoveEvent(ev)
	}
	e.added = nil
	for _, ev := range e.removed {
		s.AddEvent(ev)
	}
}

// RandSource is the seedable randomness GenerateSequenceEdit draws from,
// satisfied by *math/rand.Rand. Injecting it keeps generated sequences
// reproducible in tests, per spec.md §9's explicit design note.
type RandSource interface {
	Intn(n int) int
}

// GenerateSequenceEdit clears every event in the session and regenerates a
// pseudo-random pattern: each sample gets a euclidean distribution whose
// density depends on its spectral position, and mid/high samples are
// additionally rotated by a bounded random offset. It is itself composed
// of the sub-edits it ran, so Undo replays them in reverse, mirroring
// core/session_editor.py's GenerateSequence_SessionEdit.
type GenerateSequenceEdit struct {
	Rand RandSource

	clear *RemoveAllEventsEdit
	subs  []Edit
}

func (e *GenerateSequenceEdit) Perform(s *Session) {
	e.clear = &RemoveAllEventsEdit{}
	e.clear.Perform(s)
	e.subs = nil

	numTicks := s.TimeSignature.TicksPerBar()
	rnd := e.Rand
	if rnd == nil {
		rnd = rand.New(rand.NewSource(1))
	}

	// densityForRange picks an event count as a random percentage of
	// numTicks within [loPct, hiPct], per generators/euclidean.py's
	// per-spectral-position density bands (low sparse, high dense).
	densityForRange := func(loPct, hiPct int) int {
		if numTicks <= 0 {
			return 0
		}
		pct := rnd.Intn(hiPct-loPct+1) + loPct
		return int(math.Ceil(float64(numTicks*pct) / 100))
	}

	for _, sample := range append([]Sample(nil), s.Samples...) {
		switch sample.SpectralPosition {
		case Low:
			density := densityForRange(10, 30)
			edit := &EuclideanForSampleEdit{Sample: sample, NumEvents: density}
			edit.Perform(s)
			e.subs = append(e.subs, edit)
		case Mid:
			density := densityForRange(20, 50)
			edit := &EuclideanForSampleEdit{Sample: sample, NumEvents: density}
			edit.Perform(s)
			e.subs = append(e.subs, edit)

			if numTicks > 8 {
				amount := rnd.Intn(numTicks-4-4+1) + 4
				rot := &RotateSampleEdit{Sample: sample, Amount: amount}
				rot.Perform(s)
				e.subs = append(e.subs, rot)
			}
		case High:
			density := densityForRange(40, 60)
			edit := &EuclideanForSampleEdit{Sample: sample, NumEvents: density}
			edit.Perform(s)
			e.subs = append(e.subs, edit)

			amount := rnd.Intn(numTicks + 1)
			rot := &RotateSampleEdit{Sample: sample, Amount: amount}
			rot.Perform(s)
			e.subs = append(e.subs, rot)
		}
	}
}

func (e *GenerateSequenceEdit) Undo(s *Session) {
	for i := len(e.subs) - 1; i >= 0; i-- {
		e.subs[i].Undo(s)
	}
	if e.clear != nil {
		e.clear.Undo(s)
	}
}
