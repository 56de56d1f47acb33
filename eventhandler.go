package stepseq

// EventHandler consumes sample lifecycle notifications and per-tick trigger
// events dispatched by a Sequencer. AddSample/RemoveSample are only ever
// invoked from the editor thread (via Session notifications); Handle is
// only ever invoked from the Sequencer's own goroutine. Implementations
// must make that pairing safe — typically a map guarded by an internal
// lock.
//
// Handle must not block for long: it runs on the sequencer's own goroutine,
// between one tick and the next. A failing or slow handler must not be
// allowed to crash or stall playback, so the Sequencer treats Handle as
// best-effort and recovers from any panic it raises.
type EventHandler interface {
	AddSample(Sample) error
	RemoveSample(Sample) error
	Handle(Event)
}

// NopEventHandler is an EventHandler that does nothing, useful as a default
// or in tests.
type NopEventHandler struct{}

func (NopEventHandler) AddSample(Sample) error    { return nil }
func (NopEventHandler) RemoveSample(Sample) error { return nil }
func (NopEventHandler) Handle(Event)              {}
