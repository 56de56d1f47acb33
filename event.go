package stepseq

// DefaultEventDuration is the duration, in beats (quarter notes), a newly
// constructed Event carries when no explicit duration is given: a
// sixteenth note.
const DefaultEventDuration = 0.25

// Event is a value entity placing a Sample at a tick in the timeline, plus
// the MIDI metadata needed to export it. It references its sample by name,
// not by pointer, so sessions round-trip trivially through JSON.
type Event struct {
	SampleName string
	TimeStamp  Tick
	Duration   float64
	MidiNote   int
	Velocity   int
}

// NewEvent constructs an Event for sampleName at timeStamp with the default
// duration, a middle-C note number, and full velocity.
func NewEvent(sampleName string, timeStamp Tick) Event {
	return Event{
		SampleName: sampleName,
		TimeStamp:  timeStamp,
		Duration:   DefaultEventDuration,
		MidiNote:   60,
		Velocity:   127,
	}
}

// Equal reports whether two events share the same identity: the same
// sample name at the same time stamp. Equal events need not carry the same
// duration/note/velocity metadata.
func (e Event) Equal(other Event) bool {
	return e.SampleName == other.SampleName && e.TimeStamp == other.TimeStamp
}
