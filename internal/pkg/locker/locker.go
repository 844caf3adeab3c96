// Package locker provides an in-process registry of per-subject locks.
// Each workflow subject (order or item) gets its own mutex so that a
// trigger-and-cascade unit executes exclusively with respect to other
// triggers on the same subject, while unrelated subjects proceed in
// parallel.
//
// Deadlock avoidance relies on a fixed acquisition order: callers must pass
// the order's key before its member items, and member items in ascending
// key order. Acquire preserves the argument order and deduplicates keys, so
// following that convention at every call site is sufficient.
package locker

import (
	"sort"
	"sync"
)

// Registry hands out one mutex per subject key. The zero value is not
// usable; create instances via NewRegistry.
type Registry struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewRegistry creates an empty lock registry.
func NewRegistry() *Registry {
	return &Registry{locks: make(map[string]*sync.Mutex)}
}

// Acquire locks every key in the given order and returns a function that
// releases them in reverse order. Duplicate keys are locked once.
func (r *Registry) Acquire(keys ...string) func() {
	acquired := make([]*sync.Mutex, 0, len(keys))
	seen := make(map[string]struct{}, len(keys))

	for _, key := range keys {
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}

		mu := r.lookup(key)
		mu.Lock()
		acquired = append(acquired, mu)
	}

	return func() {
		for i := len(acquired) - 1; i >= 0; i-- {
			acquired[i].Unlock()
		}
	}
}

// AcquireSubjects locks the primary subject first, then the related subjects
// in ascending key order. This is the canonical order-before-items call used
// by trigger command handlers.
func (r *Registry) AcquireSubjects(primary string, related ...string) func() {
	sorted := make([]string, len(related))
	copy(sorted, related)
	sort.Strings(sorted)

	return r.Acquire(append([]string{primary}, sorted...)...)
}

func (r *Registry) lookup(key string) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()

	mu, ok := r.locks[key]
	if !ok {
		mu = &sync.Mutex{}
		r.locks[key] = mu
	}
	return mu
}
