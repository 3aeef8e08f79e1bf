// Package keymutex provides named mutual-exclusion regions: one mutex per
// string key, created on first use. The lifecycle engine serializes per-loan
// event execution with it, and the scoring engine serializes per-entity
// credit-history updates.
package keymutex

import "sync"

// KeyMutex is a set of mutexes addressed by key.
type KeyMutex struct {
	mu    sync.Mutex
	locks map[string]*entry
}

type entry struct {
	mu   sync.Mutex
	refs int
}

// New creates an empty KeyMutex.
func New() *KeyMutex {
	return &KeyMutex{locks: make(map[string]*entry)}
}

// Lock acquires the mutex for key, creating it if needed.
func (k *KeyMutex) Lock(key string) {
	k.mu.Lock()
	e, ok := k.locks[key]
	if !ok {
		e = &entry{}
		k.locks[key] = e
	}
	e.refs++
	k.mu.Unlock()

	e.mu.Lock()
}

// Unlock releases the mutex for key. The entry is removed once no goroutine
// holds or waits on it, so the map does not grow with the keyspace.
func (k *KeyMutex) Unlock(key string) {
	k.mu.Lock()
	e, ok := k.locks[key]
	if !ok {
		k.mu.Unlock()
		panic("keymutex: unlock of unlocked key " + key)
	}
	e.refs--
	if e.refs == 0 {
		delete(k.locks, key)
	}
	k.mu.Unlock()

	e.mu.Unlock()
}

// WithLock runs fn while holding the mutex for key.
func (k *KeyMutex) WithLock(key string, fn func()) {
	k.Lock(key)
	defer k.Unlock(key)
	fn()
}
