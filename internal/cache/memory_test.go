package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rolodex-dev/rolodex/internal/domain"
)

func TestMemoryGetSet(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	user := &domain.User{Id: 1, Username: "alice", Email: "alice@mail.test"}

	_, err := m.Get(ctx, "tok")
	assert.ErrorIs(t, err, ErrMiss)

	require.NoError(t, m.Set(ctx, "tok", user, time.Minute))

	got, err := m.Get(ctx, "tok")
	require.NoError(t, err)
	assert.Equal(t, user, got)
}

func TestMemoryGetReturnsCopy(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	require.NoError(t, m.Set(ctx, "tok", &domain.User{Id: 1, Username: "alice"}, time.Minute))

	first, err := m.Get(ctx, "tok")
	require.NoError(t, err)
	first.Username = "mutated"

	second, err := m.Get(ctx, "tok")
	require.NoError(t, err)
	assert.Equal(t, "alice", second.Username)
}

func TestMemoryExpiry(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	now := time.Now()
	m.now = func() time.Time { return now }
	require.NoError(t, m.Set(ctx, "tok", &domain.User{Id: 1}, time.Minute))

	m.now = func() time.Time { return now.Add(2 * time.Minute) }
	_, err := m.Get(ctx, "tok")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestMemoryNonPositiveTTLNotStored(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "tok", &domain.User{Id: 1}, 0))
	_, err := m.Get(ctx, "tok")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestMemoryDelete(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "tok", &domain.User{Id: 1}, time.Minute))
	require.NoError(t, m.Delete(ctx, "tok"))

	_, err := m.Get(ctx, "tok")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestMemorySweep(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	now := time.Now()
	m.now = func() time.Time { return now }
	require.NoError(t, m.Set(ctx, "old", &domain.User{Id: 1}, time.Minute))
	require.NoError(t, m.Set(ctx, "fresh", &domain.User{Id: 2}, time.Hour))

	m.now = func() time.Time { return now.Add(30 * time.Minute) }
	m.sweep()

	m.mu.RLock()
	defer m.mu.RUnlock()
	assert.NotContains(t, m.entries, "old")
	assert.Contains(t, m.entries, "fresh")
}
