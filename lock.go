package statefile

import (
	"fmt"
	"os"
	"strconv"

	"github.com/gofrs/flock"
)

const lockSuffix = ".lock"

// processLock is an advisory cross-process lock backed by flock, with the
// holder's PID written into the lock file for diagnostics.
type processLock struct {
	path string
	fl   *flock.Flock
}

// acquireProcessLock takes the lock or reports who holds it.
func acquireProcessLock(path string) (*processLock, error) {
	fl := flock.New(path)
	locked, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire lock: %w", err)
	}
	if !locked {
		pid, _ := readLockPID(path)
		return nil, &LockError{LockFile: path, LockPID: pid}
	}

	if err := os.WriteFile(path, []byte(strconv.Itoa(os.Getpid())), 0644); err != nil {
		_ = fl.Unlock()
		return nil, fmt.Errorf("failed to write PID to lock file: %w", err)
	}

	return &processLock{path: path, fl: fl}, nil
}

// release drops the flock. The lock file itself is left in place; its
// content is only meaningful while the lock is held.
func (l *processLock) release() error {
	if err := l.fl.Unlock(); err != nil {
		return fmt.Errorf("failed to release lock: %w", err)
	}
	return nil
}

func readLockPID(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	pid, err := strconv.Atoi(string(data))
	if err != nil {
		return 0, err
	}
	return pid, nil
}
