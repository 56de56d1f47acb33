package main

import (
	"os"
	"sync"

	"github.com/go-audio/wav"
	"github.com/gordonklaus/portaudio"

	"github.com/kerrach/stepseq"
)

const (
	stereoChannels  = 2
	audioBufferSize = 756 / 2
)

// voice is a sample's decoded, interleaved PCM, cached once on AddSample.
type voice struct {
	pcm         []int16
	numChannels int
}

// playingVoice tracks one in-flight trigger of a voice: a read cursor into
// its frames and the velocity it was triggered at.
type playingVoice struct {
	v        *voice
	frame    int
	velocity float64
}

// PortAudioEventHandler is a reference EventHandler: it loads each
// sample's WAV file into memory on AddSample and additively mixes
// triggered voices into a shared PortAudio output stream, a scalar
// accumulate-and-clamp mix applied to independently-triggered one-shot
// voices instead of pattern-driven channels.
type PortAudioEventHandler struct {
	mu     sync.Mutex
	voices map[string]*voice
	active []playingVoice

	stream *portaudio.Stream
}

// NewPortAudioEventHandler opens a stereo output stream at sampleRate and
// returns a handler ready to receive AddSample/Handle calls. Call Close
// when done.
func NewPortAudioEventHandler(sampleRate float64) (*PortAudioEventHandler, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, err
	}

	h := &PortAudioEventHandler{
		voices: make(map[string]*voice),
	}

	stream, err := portaudio.OpenDefaultStream(0, stereoChannels, sampleRate, audioBufferSize, h.streamCallback)
	if err != nil {
		portaudio.Terminate()
		return nil, err
	}
	h.stream = stream

	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return nil, err
	}

	return h, nil
}

// Close stops playback and releases PortAudio resources.
func (h *PortAudioEventHandler) Close() error {
	var err error
	if h.stream != nil {
		err = h.stream.Stop()
		h.stream.Close()
	}
	portaudio.Terminate()
	return err
}

// streamCallback fills out, an interleaved stereo int16 buffer, by
// additively mixing every active voice and advancing its read cursor.
// Exhausted voices are dropped from h.active.
func (h *PortAudioEventHandler) streamCallback(out []int16) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clear(out)
	frames := len(out) / stereoChannels

	var survivors []playingVoice
	for _, pv := range h.active {
		srcChannels := pv.v.numChannels
		if srcChannels == 0 {
			srcChannels = 1
		}
		totalFrames := len(pv.v.pcm) / srcChannels

		for i := 0; i < frames && pv.frame < totalFrames; i++ {
			for ch := 0; ch < stereoChannels; ch++ {
				srcCh := ch
				if srcCh >= srcChannels {
					srcCh = srcChannels - 1
				}
				sample := int32(float64(pv.v.pcm[pv.frame*srcChannels+srcCh]) * pv.velocity)
				idx := i*stereoChannels + ch
				out[idx] = clampInt16(int32(out[idx]) + sample)
			}
			pv.frame++
		}
		if pv.frame < totalFrames {
			survivors = append(survivors, pv)
		}
	}
	h.active = survivors
}

func clampInt16(v int32) int16 {
	if v > 32767 {
		return 32767
	}
	if v < -32768 {
		return -32768
	}
	return int16(v)
}

// AddSample decodes sample.FilePath as a 16-bit PCM WAV file and caches it
// for future triggers. Missing or malformed files are an event-handler
// concern per spec.md's error taxonomy: the error is returned to the
// caller, but playback of other samples is unaffected.
func (h *PortAudioEventHandler) AddSample(sample stepseq.Sample) error {
	f, err := os.Open(sample.FilePath)
	if err != nil {
		return err
	}
	defer f.Close()

	decoder := wav.NewDecoder(f)
	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return err
	}

	pcm := make([]int16, len(buf.Data))
	for i, v := range buf.Data {
		pcm[i] = int16(v)
	}

	h.mu.Lock()
	h.voices[sample.Name] = &voice{pcm: pcm, numChannels: buf.Format.NumChannels}
	h.mu.Unlock()
	return nil
}

// RemoveSample drops the cached decoded audio for sample. Idempotent.
func (h *PortAudioEventHandler) RemoveSample(sample stepseq.Sample) error {
	h.mu.Lock()
	delete(h.voices, sample.Name)
	h.mu.Unlock()
	return nil
}

// Handle triggers sample playback for e, mixing it into the output stream
// from the next callback onward. Unknown samples are silently ignored.
func (h *PortAudioEventHandler) Handle(e stepseq.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	v, ok := h.voices[e.SampleName]
	if !ok {
		return
	}
	velocity := float64(e.Velocity) / 127.0
	h.active = append(h.active, playingVoice{v: v, velocity: velocity})
}
