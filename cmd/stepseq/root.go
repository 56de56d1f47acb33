package main

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "stepseq",
	Short: "Drum step-sequencer engine",
	Long:  "stepseq composes, edits, plays back, and exports drum-style step sequences.",
}

func init() {
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(exportJSONCmd)
	rootCmd.AddCommand(exportMIDICmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(renderCmd)
}
