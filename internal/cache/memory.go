package cache

import (
	"context"
	"sync"
	"time"

	"github.com/rolodex-dev/rolodex/internal/domain"
	"github.com/rolodex-dev/rolodex/internal/logger"
)

// Memory is the in-process fallback used when no redis address is
// configured. Expired entries are dropped lazily on Get and swept by the
// janitor.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

type memoryEntry struct {
	user      domain.User
	expiresAt time.Time
}

func NewMemory() *Memory {
	return &Memory{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (m *Memory) Get(ctx context.Context, token string) (*domain.User, error) {
	m.mu.RLock()
	entry, ok := m.entries[token]
	m.mu.RUnlock()

	if !ok {
		return nil, ErrMiss
	}
	if m.now().After(entry.expiresAt) {
		m.mu.Lock()
		delete(m.entries, token)
		m.mu.Unlock()
		return nil, ErrMiss
	}

	user := entry.user
	return &user, nil
}

func (m *Memory) Set(ctx context.Context, token string, user *domain.User, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	m.mu.Lock()
	m.entries[token] = memoryEntry{user: *user, expiresAt: m.now().Add(ttl)}
	m.mu.Unlock()
	return nil
}

func (m *Memory) Delete(ctx context.Context, token string) error {
	m.mu.Lock()
	delete(m.entries, token)
	m.mu.Unlock()
	return nil
}

// StartJanitor periodically sweeps expired entries until ctx is cancelled.
func (m *Memory) StartJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				m.sweep()
			case <-ctx.Done():
				logger.Log.Info("session cache janitor shutting down", "component", "session_cache")
				return
			}
		}
	}()
}

func (m *Memory) sweep() {
	now := m.now()
	m.mu.Lock()
	for token, entry := range m.entries {
		if now.After(entry.expiresAt) {
			delete(m.entries, token)
		}
	}
	m.mu.Unlock()
}
