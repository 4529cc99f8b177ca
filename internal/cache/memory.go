package cache

import (
	"context"
	"sync"
	"time"
)

// DefaultMaxEntries bounds the in-memory cache.
const DefaultMaxEntries = 10000

type memoryEntry struct {
	value   string
	expires time.Time
}

// Memory is an in-process Repository. A non-positive ttl keeps entries until
// they are evicted to make room.
type Memory struct {
	mu         sync.Mutex
	entries    map[string]memoryEntry
	ttl        time.Duration
	maxEntries int
	now        func() time.Time
}

// NewMemory creates an empty in-memory cache.
func NewMemory(ttl time.Duration, maxEntries int) *Memory {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &Memory{
		entries:    make(map[string]memoryEntry),
		ttl:        ttl,
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

func (m *Memory) expired(e memoryEntry, now time.Time) bool {
	return !e.expires.IsZero() && !now.Before(e.expires)
}

// Get returns the value stored under key if it has not expired.
func (m *Memory) Get(_ context.Context, key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok {
		return "", false
	}
	if m.expired(e, m.now()) {
		delete(m.entries, key)
		return "", false
	}
	return e.value, true
}

// Set stores value under key, evicting expired entries first when full.
func (m *Memory) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if _, exists := m.entries[key]; !exists && len(m.entries) >= m.maxEntries {
		m.evict(now)
	}

	e := memoryEntry{value: value}
	if m.ttl > 0 {
		e.expires = now.Add(m.ttl)
	}
	m.entries[key] = e
	return nil
}

// evict drops expired entries, then the entry closest to expiry if none were.
func (m *Memory) evict(now time.Time) {
	for k, e := range m.entries {
		if m.expired(e, now) {
			delete(m.entries, k)
		}
	}
	if len(m.entries) < m.maxEntries {
		return
	}

	var victim string
	var soonest time.Time
	for k, e := range m.entries {
		if victim == "" || e.expires.Before(soonest) {
			victim, soonest = k, e.expires
		}
	}
	delete(m.entries, victim)
}

// Len reports the number of stored entries, including expired ones not yet evicted.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// Close releases nothing.
func (m *Memory) Close() error {
	return nil
}
