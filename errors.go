package statefile

import (
	"errors"
	"fmt"
)

// ErrClosed is returned by Write and Persist after the File has been
// closed.
var ErrClosed = errors.New("state file is closed")

// DecodeError reports that a state file exists and is non-empty but its
// bytes do not decode as the stored value type. Open refuses to fall back
// to the default value in this case.
type DecodeError struct {
	// Path is the file that failed to decode.
	Path string

	// Err is the codec error.
	Err error
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode state file %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying codec error.
func (e *DecodeError) Unwrap() error {
	return e.Err
}

// EncodeError reports that the in-memory value could not be serialized.
type EncodeError struct {
	// Err is the codec error.
	Err error
}

// Error implements the error interface.
func (e *EncodeError) Error() string {
	return fmt.Sprintf("failed to encode state: %v", e.Err)
}

// Unwrap returns the underlying codec error.
func (e *EncodeError) Unwrap() error {
	return e.Err
}

// LockError reports that another process holds the state file lock.
type LockError struct {
	// LockFile is the path to the lock file.
	LockFile string

	// LockPID is the PID recorded by the lock holder, if readable.
	LockPID int
}

// Error implements the error interface.
func (e *LockError) Error() string {
	if e.LockPID > 0 {
		return fmt.Sprintf("state file locked by another process (PID %d)", e.LockPID)
	}
	return "state file locked by another process"
}

// Hint returns actionable advice for resolving the lock conflict.
func (e *LockError) Hint() string {
	return fmt.Sprintf("Wait for the other process to finish, or\nrun 'rm %s' if it's stale.", e.LockFile)
}
