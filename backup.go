package statefile

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/ulikunitz/xz"

	"github.com/terassyi/statefile/internal/fswrite"
)

const (
	backupSuffix           = ".bak"
	compressedBackupSuffix = ".bak.xz"
)

// BackupPath returns the backup file path for the given state file path.
func BackupPath(path string) string {
	return path + backupSuffix
}

// CompressedBackupPath returns the xz-compressed backup file path.
func CompressedBackupPath(path string) string {
	return path + compressedBackupSuffix
}

// CreateBackup copies the current on-disk state atomically to the backup
// path. If the state file doesn't exist yet, does nothing (no error).
//
// The on-disk bytes are copied as-is, so the backup reflects the last
// committed state, not unpersisted in-memory mutations.
func (f *File[T]) CreateBackup() error {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // nothing to back up
		}
		return fmt.Errorf("failed to read state for backup: %w", err)
	}

	if err := fswrite.Write(context.Background(), BackupPath(f.path), data, f.perm); err != nil {
		return fmt.Errorf("failed to write backup: %w", err)
	}
	return nil
}

// CreateCompressedBackup writes an xz-compressed copy of the current
// on-disk state to the compressed backup path. If the state file doesn't
// exist yet, does nothing.
func (f *File[T]) CreateCompressedBackup() error {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read state for backup: %w", err)
	}

	var buf bytes.Buffer
	xw, err := xz.NewWriter(&buf)
	if err != nil {
		return fmt.Errorf("failed to create xz writer: %w", err)
	}
	if _, err := xw.Write(data); err != nil {
		return fmt.Errorf("failed to compress backup: %w", err)
	}
	if err := xw.Close(); err != nil {
		return fmt.Errorf("failed to finalize compressed backup: %w", err)
	}

	if err := fswrite.Write(context.Background(), CompressedBackupPath(f.path), buf.Bytes(), f.perm); err != nil {
		return fmt.Errorf("failed to write backup: %w", err)
	}
	return nil
}

// readBackup returns the raw backup bytes for the state file at path and
// the backup file they came from, preferring the plain backup and falling
// back to the compressed one. Returns nil, "", nil when neither exists.
func readBackup(path string) ([]byte, string, error) {
	data, err := os.ReadFile(BackupPath(path))
	if err == nil {
		return data, BackupPath(path), nil
	}
	if !os.IsNotExist(err) {
		return nil, "", fmt.Errorf("failed to read backup: %w", err)
	}

	cf, err := os.Open(CompressedBackupPath(path))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", nil
		}
		return nil, "", fmt.Errorf("failed to read backup: %w", err)
	}
	defer cf.Close()

	xr, err := xz.NewReader(cf)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open compressed backup: %w", err)
	}
	data, err = io.ReadAll(xr)
	if err != nil {
		return nil, "", fmt.Errorf("failed to decompress backup: %w", err)
	}
	return data, CompressedBackupPath(path), nil
}

// LoadBackup reads and decodes the backup for the state file at path.
// Returns nil, nil if no backup exists.
func LoadBackup[T any](path string, codec Codec[T]) (*T, error) {
	data, src, err := readBackup(path)
	if err != nil || data == nil {
		return nil, err
	}

	v := new(T)
	if err := codec.Decode(data, v); err != nil {
		return nil, &DecodeError{Path: src, Err: err}
	}
	return v, nil
}

// RestoreBackup atomically replaces the state file at path with its
// backup. Fails if no backup exists. The permission bits of the current
// state file are kept, falling back to the backup's and then 0644 when
// no state file exists.
func RestoreBackup(path string) error {
	data, src, err := readBackup(path)
	if err != nil {
		return err
	}
	if data == nil {
		return fmt.Errorf("no backup found for %s", path)
	}

	perm := defaultFileMode
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	} else if info, err := os.Stat(src); err == nil {
		perm = info.Mode().Perm()
	}

	if err := fswrite.Write(context.Background(), path, data, perm); err != nil {
		return fmt.Errorf("failed to restore backup: %w", err)
	}
	return nil
}
