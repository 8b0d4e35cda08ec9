package main

import (
	"encoding/json"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/terassyi/statefile"
)

var diffOutput string

var diffCmd = &cobra.Command{
	Use:   "diff FILE",
	Short: "Show changes since the last backup",
	Long: `Compare a state file with its backup.

Create a backup with "statefile backup" before applying changes, then
diff to see what changed since.`,
	Args: cobra.ExactArgs(1),
	RunE: runDiff,
}

func init() {
	diffCmd.Flags().StringVarP(&diffOutput, "output", "o", outputText, "Output format: text, json")
}

func runDiff(cmd *cobra.Command, args []string) error {
	path := args[0]

	codec, err := resolveCodec(path)
	if err != nil {
		return err
	}

	f, err := openDocument(path)
	if err != nil {
		return err
	}
	defer f.Close()

	backup, err := statefile.LoadBackup(path, codec)
	if err != nil {
		return fmt.Errorf("failed to load backup state: %w", err)
	}
	if backup == nil {
		cmd.Println("No backup found. Run 'statefile backup' first.")
		return nil
	}

	diff := statefile.DiffDocuments(*backup, f.Read())

	switch diffOutput {
	case outputJSON:
		return printDiffJSON(cmd, diff)
	default:
		printDiffText(cmd, diff)
		return nil
	}
}

func printDiffJSON(cmd *cobra.Command, diff *statefile.Diff) error {
	data, err := json.MarshalIndent(diff, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal diff: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func printDiffText(cmd *cobra.Command, diff *statefile.Diff) {
	if !diff.HasChanges() {
		cmd.Println("No changes since last backup.")
		return
	}

	addedColor := color.New(color.FgGreen)
	removedColor := color.New(color.FgRed)
	modifiedColor := color.New(color.FgYellow)

	for _, c := range diff.Changes {
		switch c.Type {
		case statefile.DiffAdded:
			cmd.Println(addedColor.Sprintf("  + %s = %s", c.Key, formatValue(c.New)))
		case statefile.DiffRemoved:
			cmd.Println(removedColor.Sprintf("  - %s = %s", c.Key, formatValue(c.Old)))
		case statefile.DiffModified:
			cmd.Println(modifiedColor.Sprintf("  ~ %s: %s -> %s", c.Key, formatValue(c.Old), formatValue(c.New)))
		}
	}

	added, modified, removed := diff.Summary()
	cmd.Println()
	cmd.Printf("%d added, %d modified, %d removed\n", added, modified, removed)
}

func formatValue(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}
