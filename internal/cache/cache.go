// SPDX-License-Identifier: MIT

// Package cache provides in-process memoization with per-entry TTL expiry.
package cache

import (
	"sync"
	"time"
)

// Store is the caching contract shared by all backends. Get fails closed:
// a missing or expired entry reads as absent, and expired entries are
// evicted as a side effect of the read.
type Store interface {
	// Get retrieves a value. The second return is false if the key is
	// absent or its entry has expired.
	Get(key string) (any, bool)
	// Set stores a value under key for the given TTL, overwriting any
	// existing entry. The TTL is mandatory; there is no cache-forever
	// sentinel.
	Set(key string, value any, ttl time.Duration)
	// Delete removes a key.
	Delete(key string)
	// Clear removes all entries.
	Clear()
	// Stats returns aggregate counters for monitoring.
	Stats() Stats
}

// Stats holds cache performance counters.
type Stats struct {
	Hits        int64
	Misses      int64
	Sets        int64
	Evictions   int64
	CurrentSize int
}

type entry struct {
	value  any
	expiry time.Time
}

// Memory is a mutex-guarded in-memory Store. Expiry is lazy on read; an
// optional janitor goroutine reclaims memory for entries nobody reads again.
type Memory struct {
	mu      sync.Mutex
	entries map[string]entry
	stats   Stats
	now     func() time.Time
	stop    chan struct{}
}

// Option configures a Memory store.
type Option func(*Memory)

// WithClock substitutes the time source, letting tests cross TTL boundaries
// without sleeping.
func WithClock(now func() time.Time) Option {
	return func(m *Memory) { m.now = now }
}

// NewMemory creates an in-memory store. A positive sweepInterval starts a
// background janitor that periodically drops expired entries; the sweep only
// reclaims memory and has no effect on read/write correctness.
func NewMemory(sweepInterval time.Duration, opts ...Option) *Memory {
	m := &Memory{
		entries: make(map[string]entry),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	if sweepInterval > 0 {
		m.stop = make(chan struct{})
		go m.sweep(sweepInterval)
	}
	return m
}

// Get retrieves a value, evicting the entry if it has expired.
func (m *Memory) Get(key string) (any, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok {
		m.stats.Misses++
		return nil, false
	}
	if m.now().After(e.expiry) {
		delete(m.entries, key)
		m.stats.Misses++
		m.stats.Evictions++
		return nil, false
	}
	m.stats.Hits++
	return e.value, true
}

// Set stores a value, overwriting any existing entry for key.
func (m *Memory) Set(key string, value any, ttl time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[key] = entry{value: value, expiry: m.now().Add(ttl)}
	m.stats.Sets++
}

// Delete removes a key.
func (m *Memory) Delete(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
}

// Clear removes all entries.
func (m *Memory) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[string]entry)
}

// Stats returns a snapshot of the cache counters.
func (m *Memory) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()

	stats := m.stats
	stats.CurrentSize = len(m.entries)
	return stats
}

// Stop terminates the janitor goroutine, if one was started.
func (m *Memory) Stop() {
	if m.stop != nil {
		close(m.stop)
	}
}

func (m *Memory) sweep(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.deleteExpired()
		case <-m.stop:
			return
		}
	}
}

func (m *Memory) deleteExpired() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	for key, e := range m.entries {
		if now.After(e.expiry) {
			delete(m.entries, key)
			m.stats.Evictions++
		}
	}
}

// Disabled is a Store that never retains anything. It backs deployments
// where per-process state is unsafe to keep, such as serverless runtimes.
type Disabled struct{}

// NewDisabled creates a no-op store.
func NewDisabled() Disabled { return Disabled{} }

func (Disabled) Get(string) (any, bool)         { return nil, false }
func (Disabled) Set(string, any, time.Duration) {}
func (Disabled) Delete(string)                  {}
func (Disabled) Clear()                         {}
func (Disabled) Stats() Stats                   { return Stats{} }
