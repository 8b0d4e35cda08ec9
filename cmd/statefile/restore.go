package main

import (
	"github.com/spf13/cobra"

	"github.com/terassyi/statefile"
)

var restoreCmd = &cobra.Command{
	Use:   "restore FILE",
	Short: "Restore a state file from its backup",
	Long: `Atomically replace a state file with its backup.

Both FILE.bak and FILE.bak.xz are recognized, preferring the plain
backup when both exist.`,
	Args: cobra.ExactArgs(1),
	RunE: runRestore,
}

func runRestore(cmd *cobra.Command, args []string) error {
	if err := statefile.RestoreBackup(args[0]); err != nil {
		return err
	}
	cmd.Println("Restored", args[0], "from backup")
	return nil
}
