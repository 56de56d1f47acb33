package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/kerrach/stepseq"
)

var renderColor bool

var onsetColor = color.New(color.FgYellow).SprintFunc()

var generateCmd = &cobra.Command{
	Use:   "generate <document.json> <out.json>",
	Short: "Load a document, generate a random rhythm, and save the result",
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

		editor := stepseq.NewSessionEditor(session)
		editor.GenerateSequence()
		fmt.Print(editor.Render())

		out, err := stepseq.EncodeDocument(session)
		if err != nil {
			return err
		}
		return os.WriteFile(args[1], out, 0o644)
	},
}

var renderCmd = &cobra.Command{
	Use:   "render <document.json>",
	Short: "Print a session document's formatted grid rendering",
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
		out := editor.Render()
		if renderColor {
			out = strings.ReplaceAll(out, "x", onsetColor("x"))
		}
		fmt.Print(out)
		return nil
	},
}

func init() {
	renderCmd.Flags().BoolVar(&renderColor, "color", false, "highlight onset cells")
}
