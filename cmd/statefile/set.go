package main

import (
	"github.com/spf13/cobra"

	"github.com/terassyi/statefile/internal/document"
)

var setCmd = &cobra.Command{
	Use:   "set FILE KEY VALUE",
	Short: "Set a value and write the file back atomically",
	Long: `Set the value at a dotted key path and write the state file back.

VALUE is parsed as JSON when possible (numbers, booleans, null, arrays,
objects) and stored as a plain string otherwise. Intermediate objects
are created as needed.

The file is locked against concurrent statefile invocations while the
change is applied.

Examples:
  statefile set state.json version "2"
  statefile set state.json tools.gh.version 2.86.0
  statefile set state.json retries 3`,
	Args: cobra.ExactArgs(3),
	RunE: runSet,
}

func runSet(cmd *cobra.Command, args []string) error {
	f, err := openDocumentLocked(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	value := parseScalar(args[2])

	return f.Update(cmd.Context(), func(doc *Document) error {
		if *doc == nil {
			*doc = Document{}
		}
		return document.Set(*doc, args[1], value)
	})
}
