package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/terassyi/statefile"
)

var backupCompress bool

var backupCmd = &cobra.Command{
	Use:   "backup FILE",
	Short: "Create a backup of a state file",
	Long: `Copy a state file atomically to FILE.bak.

With --compress, an xz-compressed FILE.bak.xz is written instead.
Run this before applying changes, then use "statefile diff" to see
what changed since.`,
	Args: cobra.ExactArgs(1),
	RunE: runBackup,
}

func init() {
	backupCmd.Flags().BoolVar(&backupCompress, "compress", false, "Compress the backup with xz")
}

func runBackup(cmd *cobra.Command, args []string) error {
	path := args[0]
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return fmt.Errorf("no state file at %s", path)
	}

	f, err := openDocument(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if backupCompress {
		if err := f.CreateCompressedBackup(); err != nil {
			return err
		}
		cmd.Println("Backup written to", statefile.CompressedBackupPath(path))
		return nil
	}

	if err := f.CreateBackup(); err != nil {
		return err
	}
	cmd.Println("Backup written to", statefile.BackupPath(path))
	return nil
}
