package main

import (
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

const (
	outputJSON = "json"
	outputYAML = "yaml"
	outputText = "text"
)

var (
	formatFlag string
	debugFlag  bool
	noColor    bool
)

var rootCmd = &cobra.Command{
	Use:   "statefile",
	Short: "Inspect and manage JSON/YAML state files",
	Long: `Statefile inspects and manages structured state files.

A state file holds a single JSON or YAML document that a long-running
process loads at startup and writes back on each change. All mutating
commands replace the file contents atomically, so an interrupted run
never leaves a partial file behind.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		level := slog.LevelWarn
		if debugFlag {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

		if noColor || !isatty.IsTerminal(os.Stdout.Fd()) {
			color.NoColor = true
		}
	},
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&formatFlag, "format", "", "State file format (json, yaml); defaults by file extension")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(
		versionCmd,
		showCmd,
		getCmd,
		setCmd,
		unsetCmd,
		backupCmd,
		restoreCmd,
		diffCmd,
	)
}
