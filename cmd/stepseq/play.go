package main

import (
	"fmt"
	"os"
	"sync"

	"atomicgo.dev/keyboard"
	"atomicgo.dev/keyboard/keys"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/kerrach/stepseq"
)

var (
	playCyan   = color.New(color.FgCyan).SprintfFunc()
	playGreen  = color.New(color.FgGreen).SprintfFunc()
	playYellow = color.New(color.FgYellow).SprintfFunc()
)

var playSampleRate float64

var playCmd = &cobra.Command{
	Use:   "play <document.json>",
	Short: "Interactively play and edit a session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		session, err := stepseq.DecodeDocument(data)
		if err != nil {
			return err
		}
		return NewInteractiveSession(session, playSampleRate).Run()
	},
}

func init() {
	playCmd.Flags().Float64Var(&playSampleRate, "sample-rate", 44100, "output sample rate")
}

// InteractiveSession wires a Session to an Engine and drives it from
// keyboard input, guarding shutdown with a sync.Once the way the
// teacher's AudioPlayer guards its own Stop.
type InteractiveSession struct {
	engine *stepseq.Engine
	audio  *PortAudioEventHandler

	stopOnce sync.Once
}

// NewInteractiveSession constructs an InteractiveSession around session.
// It opens no audio device and does not use sampleRate: Run opens the
// PortAudio output stream, at the rate set by the --sample-rate flag.
func NewInteractiveSession(session *stepseq.Session, sampleRate float64) *InteractiveSession {
	engine := stepseq.NewEngine()
	engine.LoadSession(session)
	return &InteractiveSession{engine: engine}
}

// Run opens the audio device, starts keyboard handling, and blocks until
// the user quits.
func (is *InteractiveSession) Run() error {
	audio, err := NewPortAudioEventHandler(playSampleRate)
	if err != nil {
		return fmt.Errorf("opening audio device: %w", err)
	}
	is.audio = audio
	is.engine.Sequencer().SetEventHandler(audio)

	fmt.Println(playCyan("stepseq interactive session"))
	fmt.Println(playYellow("space: play/stop   g: generate   u: undo   r: redo   q: quit"))

	is.printStatus()

	err = keyboard.Listen(func(key keys.Key) (stop bool, err error) {
		switch key.Code {
		case keys.CtrlC, keys.Escape:
			is.Stop()
			return true, nil
		case keys.RuneKey:
			if len(key.Runes) == 0 {
				return false, nil
			}
			switch key.Runes[0] {
			case 'q':
				is.Stop()
				return true, nil
			case 'g':
				is.engine.Editor().GenerateSequence()
				is.printStatus()
			case 'u':
				is.engine.Editor().Undo()
				is.printStatus()
			case 'r':
				is.engine.Editor().Redo()
				is.printStatus()
			}
		case keys.Space:
			seq := is.engine.Sequencer()
			if seq.IsPlaying() {
				seq.Stop()
				fmt.Println(playYellow("stopped"))
			} else {
				seq.Rewind()
				seq.Start()
				fmt.Println(playGreen("playing"))
			}
		}
		return false, nil
	})
	return err
}

func (is *InteractiveSession) printStatus() {
	fmt.Print(is.engine.Editor().Render())
}

// Stop halts playback and releases the audio device exactly once.
func (is *InteractiveSession) Stop() {
	is.stopOnce.Do(func() {
		is.engine.ShutDown()
		if is.audio != nil {
			is.audio.Close()
		}
	})
}
