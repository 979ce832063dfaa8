package tracker

import (
	"sync"

	"github.com/wirekit/wire/pkg/domain"
)

// Inflight is a binder-scoped registry of pending invocations by cache
// key. Trackers sharing one registry reuse an already-pending operation
// for a key instead of re-invoking the model; a settled operation
// removes itself, so reuse only ever spans the in-flight window.
type Inflight struct {
	mu      sync.Mutex
	token   uint64
	entries map[string]inflightEntry
}

// Entries carry a token instead of being compared by Awaitable
// identity, which would panic for uncomparable implementations.
type inflightEntry struct {
	aw    domain.Awaitable
	token uint64
}

func NewInflight() *Inflight {
	return &Inflight{entries: make(map[string]inflightEntry)}
}

// Lookup returns the pending operation registered for key, if any.
func (r *Inflight) Lookup(key string) (domain.Awaitable, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[key]
	return e.aw, ok
}

// Register stores aw as the pending operation for key and returns the
// operation to track. Without replace, an operation already registered
// for the key wins and aw is discarded; with replace (forced refresh)
// aw supersedes any existing entry.
//
// The registered operation is deregistered when it settles; if it
// already settled, registration is a no-op.
func (r *Inflight) Register(key string, aw domain.Awaitable, replace bool) domain.Awaitable {
	r.mu.Lock()
	if e, ok := r.entries[key]; ok && !replace {
		r.mu.Unlock()
		return e.aw
	}
	r.token++
	token := r.token
	r.entries[key] = inflightEntry{aw: aw, token: token}
	r.mu.Unlock()

	// An already-settled awaitable fires synchronously and removes the
	// entry right away.
	aw.Subscribe(func(any, error) {
		r.remove(key, token)
	})
	return aw
}

func (r *Inflight) remove(key string, token uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.entries[key]; ok && e.token == token {
		delete(r.entries, key)
	}
}

// Len returns the number of pending entries.
func (r *Inflight) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}
