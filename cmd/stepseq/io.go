package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kerrach/stepseq"
	"github.com/kerrach/stepseq/internal/mid"
)

var importCmd = &cobra.Command{
	Use:   "import <document.json>",
	Short: "Validate a session document and print its formatted rendering",
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
		editor := stepseq.NewSessionEditor(session)
		fmt.Print(editor.Render())
		return nil
	},
}

var exportJSONCmd = &cobra.Command{
	Use:   "export-json <document.json> <out.json>",
	Short: "Round-trip a session document (decode then re-encode)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		session, err := stepseq.DecodeDocument(data)
		if err != nil {
			return err
		}
		out, err := stepseq.EncodeDocument(session)
		if err != nil {
			return err
		}
		return os.WriteFile(args[1], out, 0o644)
	},
}

var exportMIDICmd = &cobra.Command{
	Use:   "export-midi <document.json> <out.mid>",
	Short: "Export a session document as a standard MIDI file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		session, err := stepseq.DecodeDocument(data)
		if err != nil {
			return err
		}

		f, err := os.Create(args[1])
		if err != nil {
			return err
		}
		defer f.Close()

		return mid.Export(session, f)
	},
}
