// Copyright (c) 2026 Mycelium Node One (https://github.com/Mycelium-Node-1)
//
// registry.go — in-memory registry of issued tokens keyed by token string.
// Entries expire with their token and are swept by a background loop, so the
// registry doubles as the cross-validation set for VerifyToken.

package sovereign

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/Mycelium-Node-1/UCST-AI/internal/clock"
)

// RegistryOptions configures a token Registry.
type RegistryOptions struct {
	Clock         clock.Clock
	SweepInterval time.Duration
}

// Registry is a TTL-evicting store of issued tokens. Safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	items  map[string]Token
	clock  clock.Clock
	hits   atomic.Int64
	misses atomic.Int64
	stopCh chan struct{}
	once   sync.Once
}

// NewRegistry creates a Registry and starts its sweep loop.
func NewRegistry(opts RegistryOptions) *Registry {
	if opts.Clock == nil {
		opts.Clock = clock.Real{}
	}
	if opts.SweepInterval == 0 {
		opts.SweepInterval = 30 * time.Second
	}
	r := &Registry{
		items:  make(map[string]Token),
		clock:  opts.Clock,
		stopCh: make(chan struct{}),
	}
	go r.sweepLoop(opts.SweepInterval)
	return r
}

// Put records an issued token. Already-expired tokens are ignored.
func (r *Registry) Put(tok Token) {
	if tok.Expired(r.clock.Now()) {
		return
	}
	r.mu.Lock()
	r.items[tok.TokenString] = tok
	r.mu.Unlock()
}

// Get returns the token for the given token string. Expired entries read as
// absent even before the sweeper removes them.
func (r *Registry) Get(tokenString string) (Token, bool) {
	r.mu.RLock()
	tok, ok := r.items[tokenString]
	r.mu.RUnlock()
	if !ok || tok.Expired(r.clock.Now()) {
		r.misses.Add(1)
		return Token{}, false
	}
	r.hits.Add(1)
	return tok, true
}

// Known reports whether the token string belongs to a live issued token.
func (r *Registry) Known(tokenString string) bool {
	_, ok := r.Get(tokenString)
	return ok
}

// Revoke marks the registered token with the given token string invalid.
// Returns false when the token is unknown.
func (r *Registry) Revoke(tokenString string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	tok, ok := r.items[tokenString]
	if !ok {
		return false
	}
	tok.Revoke()
	r.items[tokenString] = tok
	return true
}

// Len returns the number of registered tokens, including not-yet-swept
// expired ones.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}

// RegistryStats holds registry hit/miss counters.
type RegistryStats struct {
	Hits   int64
	Misses int64
}

// Stats returns current hit/miss counts.
func (r *Registry) Stats() RegistryStats {
	return RegistryStats{Hits: r.hits.Load(), Misses: r.misses.Load()}
}

// Close stops the sweep loop. Idempotent.
func (r *Registry) Close() {
	r.once.Do(func() { close(r.stopCh) })
}

func (r *Registry) sweepLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-r.stopCh:
			return
		case <-ticker.C:
			r.sweep()
		}
	}
}

func (r *Registry) sweep() {
	now := r.clock.Now()
	r.mu.Lock()
	for key, tok := range r.items {
		if tok.Expired(now) {
			delete(r.items, key)
		}
	}
	r.mu.Unlock()
}
