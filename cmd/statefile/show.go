package main

import (
	"github.com/spf13/cobra"
)

var showOutput string

var showCmd = &cobra.Command{
	Use:   "show FILE",
	Short: "Display a state file",
	Long: `Display the decoded content of a state file.

A missing or empty file shows an empty document, matching what an
application opening the file would observe.`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func init() {
	showCmd.Flags().StringVarP(&showOutput, "output", "o", outputJSON, "Output format (json, yaml)")
}

func runShow(cmd *cobra.Command, args []string) error {
	f, err := openDocument(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	// Path goes to stderr so the document stays clean for piping.
	cmd.PrintErrln("State file:", f.Path())

	return printDocument(cmd, f.Read(), showOutput)
}
