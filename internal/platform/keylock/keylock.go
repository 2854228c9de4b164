// Package keylock provides an in-process registry of mutexes addressed by
// composite string keys. It backs the per-(user, dictionary) mutual
// exclusion required when starting training sessions: the check-then-create
// sequence must not run concurrently for the same pair.
//
// The Locker interface is deliberately narrow so the in-process registry can
// later be swapped for a database-level exclusive lock facility (e.g.
// Postgres advisory locks) without touching callers.
package keylock

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Locker acquires an exclusive lock for a composite key and returns a
// release function. Acquire blocks until the lock is available or the
// context is done.
type Locker interface {
	Acquire(ctx context.Context, key string) (release func(), err error)
}

// Key builds the canonical composite lock key for a (user, dictionary) pair.
func Key(userID, dictionaryID uuid.UUID) string {
	return userID.String() + ":" + dictionaryID.String()
}

// Registry is an in-process Locker holding one mutex per key. Mutexes are
// created lazily and retained for the lifetime of the registry; the key
// space (users × dictionaries actively starting sessions) is small enough
// that eviction is not worth the complexity.
type Registry struct {
	mu    sync.Mutex
	locks map[string]*entry
}

type entry struct {
	ch chan struct{} // buffered with capacity 1; holding the token means holding the lock
}

// NewRegistry creates an empty lock registry.
func NewRegistry() *Registry {
	return &Registry{locks: make(map[string]*entry)}
}

// Ensure Registry implements Locker.
var _ Locker = (*Registry)(nil)

// Acquire implements Locker.Acquire. The returned release function must be
// called exactly once; releasing is idempotent-unsafe by design, matching
// sync.Mutex semantics.
func (r *Registry) Acquire(ctx context.Context, key string) (func(), error) {
	r.mu.Lock()
	e, ok := r.locks[key]
	if !ok {
		e = &entry{ch: make(chan struct{}, 1)}
		e.ch <- struct{}{}
		r.locks[key] = e
	}
	r.mu.Unlock()

	select {
	case <-e.ch:
		return func() { e.ch <- struct{}{} }, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
