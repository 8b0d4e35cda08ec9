// Package fswrite performs atomic, durable file replacement.
package fswrite

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Write replaces the contents of path with data so that a reader observes
// either the fully-old or the fully-new content, never a mixture, even
// across a crash mid-write. The payload goes to a temporary file in the
// same directory (the rename is only atomic within one filesystem), is
// synced to stable storage, and is then renamed onto path.
//
// A failure at any step before the rename leaves path untouched and
// removes the temporary file. A cancelled context aborts the replacement
// between the sync and the rename, again with path intact.
func Write(ctx context.Context, path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if err := writeAndSync(tmp, data, perm); err != nil {
		os.Remove(tmpPath)
		return err
	}

	// The rename is the commit point.
	if err := ctx.Err(); err != nil {
		os.Remove(tmpPath)
		return err
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	syncDir(dir)
	return nil
}

func writeAndSync(tmp *os.File, data []byte, perm os.FileMode) error {
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Chmod(perm); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to chmod temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	return nil
}

// syncDir flushes the directory entry after a rename. Errors are ignored;
// not every filesystem supports fsync on a directory.
func syncDir(dir string) {
	d, err := os.Open(dir)
	if err != nil {
		return
	}
	_ = d.Sync()
	_ = d.Close()
}
