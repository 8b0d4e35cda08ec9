package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/terassyi/statefile/internal/document"
)

var getCmd = &cobra.Command{
	Use:   "get FILE KEY",
	Short: "Print a single value from a state file",
	Long: `Print the value at a dotted key path, JSON-encoded.

Examples:
  statefile get state.json version
  statefile get state.json tools.gh.version`,
	Args: cobra.ExactArgs(2),
	RunE: runGet,
}

func runGet(cmd *cobra.Command, args []string) error {
	f, err := openDocument(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	v, ok := document.Get(f.Read(), args[1])
	if !ok {
		return fmt.Errorf("key %q not found in %s", args[1], args[0])
	}

	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}
	cmd.Println(string(data))
	return nil
}
