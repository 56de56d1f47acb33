// Package mid renders a session as a single-track, channel-10 standard
// MIDI file, grounded on gitlab.com/gomidi/midi/v2's smf builder API.
package mid

import (
	"fmt"
	"io"
	"sort"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/kerrach/stepseq"
)

// drumChannel is GM channel 10 (zero-indexed as 9), the percussion channel.
const drumChannel = 9

// notePools assigns General MIDI drum notes by spectral position. When a
// pool is exhausted, note assignment falls back to spectralPosition + 30,
// an inherited quirk preserved rather than replaced (see DESIGN.md).
var notePools = map[stepseq.SpectralPosition][]uint8{
	stepseq.Low:  {35, 36, 41},
	stepseq.Mid:  {38, 39, 40},
	stepseq.High: {42, 44, 46, 53},
}

// assignNotes maps each sample name to a MIDI note number, drawing from
// its spectral position's pool in the order samples appear and falling
// back to spectralPosition + 30 once a pool runs out.
func assignNotes(samples []stepseq.Sample) map[string]uint8 {
	cursor := map[stepseq.SpectralPosition]int{}
	notes := make(map[string]uint8, len(samples))
	for _, s := range samples {
		pool := notePools[s.SpectralPosition]
		i := cursor[s.SpectralPosition]
		cursor[s.SpectralPosition] = i + 1
		if i < len(pool) {
			notes[s.Name] = pool[i]
		} else {
			notes[s.Name] = uint8(int(s.SpectralPosition) + 30)
		}
	}
	return notes
}

type timedMessage struct {
	tick uint32
	msg  smf.Message
}

// Export writes session as a standard MIDI file to w: a single track on
// the drum channel, with track name, time-signature, and tempo meta
// events, and a note-on/note-off pair per event.
func Export(session *stepseq.Session, w io.Writer) error {
	ts := session.TimeSignature
	if ts.TicksPerQuarterNote <= 0 {
		return fmt.Errorf("stepseq/mid: invalid ticks per quarter note %d", ts.TicksPerQuarterNote)
	}

	notes := assignNotes(session.Samples)

	file := smf.NewSMF1()
	file.TimeFormat = smf.MetricTicks(ts.TicksPerQuarterNote)

	var track smf.Track
	track = append(track, smf.Event{Delta: 0, Message: smf.Message(smf.MetaTrackSequenceName("stepseq"))})
	track = append(track, smf.Event{Delta: 0, Message: smf.Message(smf.MetaTimeSig(uint8(ts.Numerator), uint8(ts.Denominator), 24, 8))})
	track = append(track, smf.Event{Delta: 0, Message: smf.Message(smf.MetaTempo(session.TempoBPM))})

	var timed []timedMessage
	for _, e := range session.SnapshotEvents() {
		note, ok := notes[e.SampleName]
		if !ok {
			continue
		}
		velocity := uint8(e.Velocity)
		startTick := uint32(e.TimeStamp)
		endTick := startTick + uint32(e.Duration*float64(ts.TicksPerQuarterNote))

		timed = append(timed, timedMessage{tick: startTick, msg: smf.Message(midi.NoteOn(drumChannel, note, velocity))})
		timed = append(timed, timedMessage{tick: endTick, msg: smf.Message(midi.NoteOff(drumChannel, note))})
	}

	sort.SliceStable(timed, func(i, j int) bool { return timed[i].tick < timed[j].tick })

	var lastTick uint32
	for _, tm := range timed {
		track = append(track, smf.Event{Delta: tm.tick - lastTick, Message: tm.msg})
		lastTick = tm.tick
	}
	track = append(track, smf.Event{Delta: 0, Message: smf.EOT})

	file.Add(track)

	_, err := file.WriteTo(w)
	return err
}
