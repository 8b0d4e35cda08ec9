package statefile

import (
	"io/fs"
	"log/slog"
)

// ValidationWarning is a non-fatal issue found in a loaded state value.
type ValidationWarning struct {
	Field   string // e.g. "version", "tools.gh.version"
	Message string
}

// Option is a functional option for configuring a File at Open.
type Option[T any] func(*File[T])

// WithCodec sets the codec used to encode and decode the stored value.
// The default is JSONCodec.
func WithCodec[T any](c Codec[T]) Option[T] {
	return func(f *File[T]) {
		f.codec = c
	}
}

// WithLogger sets the logger used for persistence and validation
// messages. The default is slog.Default().
func WithLogger[T any](l *slog.Logger) Option[T] {
	return func(f *File[T]) {
		f.log = l
	}
}

// WithFileMode sets the permission bits for the state file and its
// backups. The default is 0644.
func WithFileMode[T any](mode fs.FileMode) Option[T] {
	return func(f *File[T]) {
		f.perm = mode
	}
}

// WithProcessLock makes Open acquire an advisory cross-process lock next
// to the state file (path + ".lock") and record the holder's PID in it.
// Open fails with a LockError when another process holds the lock; Close
// releases it.
//
// The lock coordinates whole processes, not individual guards. Within one
// process the File itself serializes mutation.
func WithProcessLock[T any]() Option[T] {
	return func(f *File[T]) {
		f.useLock = true
	}
}

// WithValidate registers a validation function run against the value
// loaded at Open. Warnings are logged, not fatal.
func WithValidate[T any](fn func(*T) []ValidationWarning) Option[T] {
	return func(f *File[T]) {
		f.validate = fn
	}
}

// WithAsyncPersist switches guard release to enqueue the encoded snapshot
// for a background worker instead of waiting for the write to reach disk.
// Release returns before the data is durable; this is a weaker guarantee
// than the default. Write ordering is still preserved.
//
// Failed writes are reported to onError (may be nil) and logged. Close
// flushes the queue before returning.
func WithAsyncPersist[T any](onError func(error)) Option[T] {
	return func(f *File[T]) {
		f.async = true
		f.onAsyncError = onError
	}
}
