package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/terassyi/statefile/internal/document"
)

var unsetCmd = &cobra.Command{
	Use:   "unset FILE KEY",
	Short: "Remove a value and write the file back atomically",
	Args:  cobra.ExactArgs(2),
	RunE:  runUnset,
}

func runUnset(cmd *cobra.Command, args []string) error {
	f, err := openDocumentLocked(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	return f.Update(cmd.Context(), func(doc *Document) error {
		if !document.Delete(*doc, args[1]) {
			return fmt.Errorf("key %q not found in %s", args[1], args[0])
		}
		return nil
	})
}
