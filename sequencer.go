package stepseq

import (
	"context"
	"sync"
	"time"
)

// millisecondsPerMinute is used to derive a tick period from tempo: a
// quarter note lasts 60000/bpm milliseconds, and a tick is one
// ticksPerQuarterNote'th of that.
const millisecondsPerMinute = 60000.0

// Sequencer drives real-time playback of a Session: a single goroutine
// blocks on a Clock, and on every tick dispatches the events scheduled at
// the current PlayHead position to an EventHandler, then advances the
// PlayHead. It implements Listener so tempo, time signature, and event
// changes made through a SessionEditor keep the clock period and loop
// bounds in sync while playing.
//
// Session invokes Listener callbacks while its own lock is held (see
// session.go), and that lock is not reentrant, so the Listener methods below
// must never call back into a Session method that locks. Instead, Sequencer
// mirrors the state it needs (events, time signature, tempo) in its own
// fields under its own mu, kept current purely from the data each
// notification already carries.
type Sequencer struct {
	mu       sync.Mutex
	session  *Session
	handler  EventHandler
	clock    *Clock
	playHead *PlayHead
	playing  bool

	events   []Event
	ts       TimeSignature
	tempoBPM float64

	ctx      context.Context
	cancelFn context.CancelFunc
	wg       sync.WaitGroup
	stopOnce sync.Once
}

// NewSequencer returns a Sequencer for session, initially stopped, with a
// NopEventHandler installed.
func NewSequencer(session *Session) *Sequencer {
	return newSequencer(session, nil)
}

// NewSequencerWithClock returns a Sequencer paced by an explicitly supplied
// Clock, letting tests install one backed by a *clock.Mock instead of the
// wall clock.
func NewSequencerWithClock(session *Session, c *Clock) *Sequencer {
	return newSequencer(session, c)
}

func newSequencer(session *Session, c *Clock) *Sequencer {
	seq := &Sequencer{
		session:  session,
		handler:  NopEventHandler{},
		playHead: NewPlayHead(),
	}

	seq.events = session.SnapshotEvents()
	seq.ts = session.CurrentTimeSignature()
	seq.tempoBPM = session.CurrentTempo()

	if c != nil {
		seq.clock = c
		seq.clock.UpdateTickTime(seq.tickPeriodLocked())
	} else {
		seq.clock = NewClock(seq.tickPeriodLocked())
	}
	seq.recomputeLoopEndLocked()

	session.AddListener(seq)
	return seq
}

// tickPeriodLocked derives the tick period from the shadow time signature
// and tempo. Caller must hold seq.mu.
func (seq *Sequencer) tickPeriodLocked() time.Duration {
	bpm := seq.tempoBPM
	if bpm <= 0 {
		bpm = 1
	}
	ms := millisecondsPerMinute / (float64(seq.ts.TicksPerQuarterNote) * bpm)
	return time.Duration(ms * float64(time.Millisecond))
}

// recomputeLoopEndLocked recomputes the play head's loop bounds from the
// shadow event list and time signature, never touching the session. Caller
// must hold seq.mu.
func (seq *Sequencer) recomputeLoopEndLocked() {
	end := seq.ts.LoopEndFor(highestTimeStamp(seq.events))
	seq.playHead.SetLooping(0, end)
}

func highestTimeStamp(events []Event) Tick {
	var highest Tick
	for _, e := range events {
		if e.TimeStamp > highest {
			highest = e.TimeStamp
		}
	}
	return highest
}

// SetEventHandler replaces the handler, informing it of every current
// sample before returning.
func (seq *Sequencer) SetEventHandler(h EventHandler) {
	if h == nil {
		h = NopEventHandler{}
	}
	samples := seq.session.SnapshotSamples()

	seq.mu.Lock()
	seq.handler = h
	seq.mu.Unlock()

	for _, s := range samples {
		h.AddSample(s)
	}
}

// IsPlaying reports whether the sequencer is currently advancing.
func (seq *Sequencer) IsPlaying() bool {
	seq.mu.Lock()
	defer seq.mu.Unlock()
	return seq.playing
}

// Start begins playback, spawning the tick goroutine if it is not already
// running.
func (seq *Sequencer) Start() {
	seq.mu.Lock()
	if seq.playing {
		seq.mu.Unlock()
		return
	}
	seq.playing = true
	seq.ctx, seq.cancelFn = context.WithCancel(context.Background())
	seq.stopOnce = sync.Once{}
	seq.clock.Start()
	ctx := seq.ctx
	seq.mu.Unlock()

	seq.wg.Add(1)
	go seq.run(ctx)
}

// Stop halts playback and waits for the tick goroutine to exit.
func (seq *Sequencer) Stop() {
	seq.mu.Lock()
	if !seq.playing {
		seq.mu.Unlock()
		return
	}
	seq.playing = false
	cancel := seq.cancelFn
	seq.mu.Unlock()

	seq.stopOnce.Do(func() {
		if cancel != nil {
			cancel()
		}
	})
	seq.wg.Wait()
}

// Rewind resets the play head to the start of the loop.
func (seq *Sequencer) Rewind() {
	seq.mu.Lock()
	defer seq.mu.Unlock()
	seq.playHead.Rewind()
}

// Position returns the play head's current tick.
func (seq *Sequencer) Position() Tick {
	seq.mu.Lock()
	defer seq.mu.Unlock()
	return seq.playHead.Position
}

func (seq *Sequencer) run(ctx context.Context) {
	defer seq.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		seq.clock.BlockUntilNextTick()

		select {
		case <-ctx.Done():
			return
		default:
		}

		seq.tick()
	}
}

func (seq *Sequencer) tick() {
	seq.mu.Lock()
	position := seq.playHead.Position
	handler := seq.handler
	var due []Event
	for _, e := range seq.events {
		if e.TimeStamp == position {
			due = append(due, e)
		}
	}
	seq.playHead.Advance()
	seq.mu.Unlock()

	for _, e := range due {
		seq.dispatch(handler, e)
	}
}

// dispatch invokes handler.Handle, recovering from any panic so a faulty
// EventHandler cannot crash playback.
func (seq *Sequencer) dispatch(handler EventHandler, e Event) {
	defer func() { recover() }()
	handler.Handle(e)
}

// LoadSession atomically swaps the session being played: if currently
// playing it stops, detaches from the old session, notifies the handler to
// drop all of its samples, attaches to the new session, notifies the
// handler to load the new session's samples, recomputes loop end and tick
// period, rewinds, and restarts playback if it was previously playing.
func (seq *Sequencer) LoadSession(newSession *Session) {
	wasPlaying := seq.IsPlaying()
	if wasPlaying {
		seq.Stop()
	}

	seq.mu.Lock()
	oldSession := seq.session
	handler := seq.handler
	seq.mu.Unlock()

	oldSession.RemoveListener(seq)
	for _, s := range oldSession.SnapshotSamples() {
		handler.RemoveSample(s)
	}

	events := newSession.SnapshotEvents()
	ts := newSession.CurrentTimeSignature()
	tempoBPM := newSession.CurrentTempo()

	seq.mu.Lock()
	seq.session = newSession
	seq.events = events
	seq.ts = ts
	seq.tempoBPM = tempoBPM
	seq.recomputeLoopEndLocked()
	seq.clock.UpdateTickTime(seq.tickPeriodLocked())
	seq.mu.Unlock()

	newSession.AddListener(seq)
	for _, s := range newSession.SnapshotSamples() {
		handler.AddSample(s)
	}

	seq.Rewind()

	if wasPlaying {
		seq.Start()
	}
}

// Listener implementation: keeps tick period and loop bounds in sync with
// session mutations made via a SessionEditor while the sequencer plays.

func (seq *Sequencer) SampleAdded(s Sample) {
	seq.mu.Lock()
	h := seq.handler
	seq.mu.Unlock()
	h.AddSample(s)
}

func (seq *Sequencer) SampleRemoved(s Sample) {
	seq.mu.Lock()
	h := seq.handler
	seq.mu.Unlock()
	h.RemoveSample(s)
}

func (seq *Sequencer) EventAdded(e Event) {
	seq.mu.Lock()
	seq.events = append(seq.events, e)
	seq.recomputeLoopEndLocked()
	seq.mu.Unlock()
}

func (seq *Sequencer) EventRemoved(e Event) {
	seq.mu.Lock()
	for i, existing := range seq.events {
		if existing.Equal(e) {
			seq.events = append(seq.events[:i], seq.events[i+1:]...)
			break
		}
	}
	seq.recomputeLoopEndLocked()
	seq.mu.Unlock()
}

func (seq *Sequencer) TimeSignatureChanged(ts TimeSignature) {
	seq.mu.Lock()
	seq.ts = ts
	seq.recomputeLoopEndLocked()
	seq.clock.UpdateTickTime(seq.tickPeriodLocked())
	seq.mu.Unlock()
}

func (seq *Sequencer) TempoChanged(bpm float64) {
	seq.mu.Lock()
	seq.tempoBPM = bpm
	seq.clock.UpdateTickTime(seq.tickPeriodLocked())
	seq.mu.Unlock()
}
