package cache

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	reply     string
	expiresAt time.Time
}

// Memory is the in-process reply cache. Entries expire after ttl; expired
// entries are swept out once the map grows past sweepSize. Suitable for
// single-instance deployments; the Redis driver shares hits across instances.
type Memory struct {
	mu        sync.RWMutex
	entries   map[string]entry
	ttl       time.Duration
	sweepSize int
	now       func() time.Time
}

func NewMemory(ttl time.Duration, sweepSize int) *Memory {
	return &Memory{
		entries:   make(map[string]entry),
		ttl:       ttl,
		sweepSize: sweepSize,
		now:       time.Now,
	}
}

func (m *Memory) Get(ctx context.Context, key string) (string, bool) {
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()

	if !ok || m.now().After(e.expiresAt) {
		return "", false
	}
	return e.reply, true
}

func (m *Memory) Put(ctx context.Context, key string, reply string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[key] = entry{reply: reply, expiresAt: m.now().Add(m.ttl)}

	if len(m.entries) > m.sweepSize {
		m.sweepLocked()
	}
}

func (m *Memory) sweepLocked() {
	now := m.now()
	for k, e := range m.entries {
		if now.After(e.expiresAt) {
			delete(m.entries, k)
		}
	}
}

// Len reports current entry count, expired entries included.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
