package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "titan",
	Short: "Titan - multi-provider LLM gateway",
	Long: `Titan is an HTTP gateway in front of multiple LLM and research backends.

It provides:
  - Capability-aware provider selection with a fixed priority order
  - Per-user credential overrides on top of global defaults
  - Conversation persistence with scheduled retention pruning
  - Bounded retry escalation when a backend fails
  - Voice transcription, speech synthesis, and research endpoints`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
}
