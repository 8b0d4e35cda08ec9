// Package statefile provides strongly typed access to a single structured
// value backed by a file on disk. The value is loaded once at Open and
// written back atomically each time a write guard is released, so a process
// can keep durable state without carrying a database.
//
// The zero value of T is used when the backing file is missing or empty.
// A non-empty file that fails to decode is surfaced as a DecodeError and
// never silently replaced with the default, since that would mask
// corruption or a schema mismatch.
package statefile

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"sync/atomic"

	"golang.org/x/sync/semaphore"

	"github.com/terassyi/statefile/internal/fswrite"
)

const defaultFileMode fs.FileMode = 0644

// asyncQueueSize bounds the number of encoded snapshots waiting for the
// async persist worker before guard release blocks.
const asyncQueueSize = 16

// File owns the in-memory value of type T and its backing path.
// Mutation goes through a single writer slot handed out by Write, so guard
// acquisitions are strictly serialized. Readers take snapshots through Read
// and never block on a held guard.
type File[T any] struct {
	path string

	codec    Codec[T]
	log      *slog.Logger
	perm     fs.FileMode
	useLock  bool
	validate func(*T) []ValidationWarning

	async        bool
	onAsyncError func(error)

	writer *semaphore.Weighted // single writer slot
	value  *T                  // owned by the current guard while one is held
	snap   atomic.Pointer[T]   // last committed value, served to readers

	plock *processLock

	closed  atomic.Bool
	pending chan []byte
	done    chan struct{}
}

// Open reads the state file at path if it exists.
//
// A missing or zero-byte file yields the zero value of T; no file is
// created until the first persist. A non-empty file is decoded with the
// configured codec, failing the open with a DecodeError if the bytes do
// not parse. Filesystem errors other than not-found are returned as-is,
// wrapped.
//
// The parent directory must exist and be writable: persistence writes a
// sibling temporary file before renaming it onto path.
func Open[T any](path string, opts ...Option[T]) (*File[T], error) {
	f := &File[T]{
		path:   path,
		codec:  JSONCodec[T]{},
		log:    slog.Default(),
		perm:   defaultFileMode,
		writer: semaphore.NewWeighted(1),
	}
	for _, opt := range opts {
		opt(f)
	}

	if f.useLock {
		lock, err := acquireProcessLock(path + lockSuffix)
		if err != nil {
			return nil, err
		}
		f.plock = lock
	}

	if err := f.load(); err != nil {
		if f.plock != nil {
			_ = f.plock.release()
		}
		return nil, err
	}

	if f.validate != nil {
		for _, w := range f.validate(f.value) {
			f.log.Warn("state validation warning", "field", w.Field, "message", w.Message)
		}
	}

	if f.async {
		f.pending = make(chan []byte, asyncQueueSize)
		f.done = make(chan struct{})
		go f.persistLoop()
	}

	return f, nil
}

// load reads and decodes the backing file into the value and the reader
// snapshot.
func (f *File[T]) load() error {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			f.value = new(T)
			f.snap.Store(new(T))
			return nil
		}
		return fmt.Errorf("failed to read state file: %w", err)
	}
	if len(data) == 0 {
		f.value = new(T)
		f.snap.Store(new(T))
		return nil
	}

	// Decode twice so the reader snapshot never aliases the value a guard
	// will later mutate in place.
	value := new(T)
	if err := f.codec.Decode(data, value); err != nil {
		return &DecodeError{Path: f.path, Err: err}
	}
	snap := new(T)
	if err := f.codec.Decode(data, snap); err != nil {
		return &DecodeError{Path: f.path, Err: err}
	}
	f.value = value
	f.snap.Store(snap)
	return nil
}

// Read returns the last committed value. It never blocks, even while a
// write guard is held; the snapshot reflects the state as of the most
// recent guard release (or the value loaded at Open).
func (f *File[T]) Read() T {
	return *f.snap.Load()
}

// Write blocks until any outstanding guard has been released, then grants
// exclusive mutable access to the value. The context cancels the wait.
//
// In the default synchronous mode the previous guard's persist has
// completed, successfully or not, before Write returns.
func (f *File[T]) Write(ctx context.Context) (*Guard[T], error) {
	if f.closed.Load() {
		return nil, ErrClosed
	}
	if err := f.writer.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	if f.closed.Load() {
		f.writer.Release(1)
		return nil, ErrClosed
	}
	return &Guard[T]{file: f, ctx: ctx}, nil
}

// Update acquires a guard, applies fn to the value, and releases the
// guard. The persist fires even when fn returns an error or panics,
// keeping the release semantics identical to a manual guard; fn and
// release errors are both reported. A panic propagates after the
// release, so the writer slot is never leaked.
func (f *File[T]) Update(ctx context.Context, fn func(*T) error) (err error) {
	g, err := f.Write(ctx)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, g.Release())
	}()
	return fn(g.Value())
}

// Persist saves the current value without mutating it. It waits for any
// outstanding guard first.
func (f *File[T]) Persist(ctx context.Context) error {
	g, err := f.Write(ctx)
	if err != nil {
		return err
	}
	return g.Release()
}

// commit encodes the current value, publishes the reader snapshot, and
// hands the bytes to the durable writer (or the async queue).
// Called with the writer slot held.
func (f *File[T]) commit(ctx context.Context) error {
	data, err := f.codec.Encode(f.value)
	if err != nil {
		return &EncodeError{Err: err}
	}

	// Publish a detached snapshot so readers never share memory with the
	// value the next guard will mutate.
	snap := new(T)
	if err := f.codec.Decode(data, snap); err != nil {
		f.log.Warn("failed to refresh read snapshot", "path", f.path, "error", err)
	} else {
		f.snap.Store(snap)
	}

	if f.async {
		select {
		case f.pending <- data:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	if err := fswrite.Write(ctx, f.path, data, f.perm); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}
	f.log.Debug("state written", "path", f.path, "bytes", len(data))
	return nil
}

// persistLoop writes queued snapshots in order. Queue order matches guard
// release order, so persisted snapshots are never reordered even though
// release no longer waits for I/O.
func (f *File[T]) persistLoop() {
	defer close(f.done)
	for data := range f.pending {
		if err := fswrite.Write(context.Background(), f.path, data, f.perm); err != nil {
			f.log.Error("async state write failed", "path", f.path, "error", err)
			if f.onAsyncError != nil {
				f.onAsyncError(err)
			}
			continue
		}
		f.log.Debug("state written", "path", f.path, "bytes", len(data))
	}
}

// Close waits for an outstanding guard, flushes pending async writes, and
// releases the process lock if one is held. Close does not persist by
// itself; guards already triggered every save that was requested.
// Subsequent Write and Persist calls return ErrClosed.
func (f *File[T]) Close() error {
	if !f.closed.CompareAndSwap(false, true) {
		return nil
	}

	if err := f.writer.Acquire(context.Background(), 1); err != nil {
		return err
	}
	defer f.writer.Release(1)

	if f.async {
		close(f.pending)
		<-f.done
	}
	if f.plock != nil {
		return f.plock.release()
	}
	return nil
}

// Path returns the backing file path.
func (f *File[T]) Path() string {
	return f.path
}
