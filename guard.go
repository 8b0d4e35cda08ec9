package statefile

import "context"

// Guard grants exclusive mutable access to a File's value. While a guard
// is held no other guard can be acquired; readers keep seeing the last
// committed snapshot. Releasing the guard triggers exactly one save
// attempt and returns its outcome.
type Guard[T any] struct {
	file     *File[T]
	ctx      context.Context
	released bool
}

// Value returns the guarded value for mutation. The pointer must not be
// retained or dereferenced after Release.
func (g *Guard[T]) Value() *T {
	return g.file.value
}

// Release persists the current value and frees the writer slot. Releasing
// an already released guard is a no-op returning nil, so a deferred
// Release after an explicit one does not persist twice.
//
// The in-memory value keeps the caller's mutation even when persistence
// fails; only the on-disk copy is stale, and the error tells the caller
// to retry or fail loudly. Nothing is rolled back silently.
func (g *Guard[T]) Release() error {
	if g.released {
		return nil
	}
	g.released = true

	err := g.file.commit(g.ctx)
	g.file.writer.Release(1)
	return err
}
