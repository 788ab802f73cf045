package chat

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreCRUD(t *testing.T) {
	store := NewMemoryStore()
	now := time.Now()

	session := &Session{ID: "abc", CreatedAt: now, LastActivity: now}
	store.Put(session)

	got, ok := store.Get("abc")
	require.True(t, ok)
	assert.Same(t, session, got)
	assert.Equal(t, 1, store.Len())

	_, ok = store.Get("missing")
	assert.False(t, ok)

	store.Delete("abc")
	_, ok = store.Get("abc")
	assert.False(t, ok)
	assert.Equal(t, 0, store.Len())
}

func TestMemoryStoreTouch(t *testing.T) {
	store := NewMemoryStore()
	started := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

	store.Put(&Session{ID: "abc", CreatedAt: started, LastActivity: started})

	later := started.Add(30 * time.Minute)
	store.Touch("abc", later)

	got, ok := store.Get("abc")
	require.True(t, ok)
	assert.Equal(t, later, got.LastActivity)

	// Touching an unknown session is a no-op.
	store.Touch("missing", later)
}

func TestMemoryStoreSweep(t *testing.T) {
	store := NewMemoryStore()
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	store.Put(&Session{ID: "stale", LastActivity: now.Add(-2 * time.Hour)})
	store.Put(&Session{ID: "fresh", LastActivity: now.Add(-5 * time.Minute)})
	store.Put(&Session{ID: "boundary", LastActivity: now.Add(-time.Hour)})

	removed := store.Sweep(now.Add(-time.Hour))

	assert.Equal(t, 1, removed)
	_, ok := store.Get("stale")
	assert.False(t, ok)
	_, ok = store.Get("fresh")
	assert.True(t, ok)

	// Exactly at the cutoff is not strictly before it, so it survives.
	_, ok = store.Get("boundary")
	assert.True(t, ok)
}

func TestMemoryStoreSweepSparesTouchedSession(t *testing.T) {
	store := NewMemoryStore()
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	store.Put(&Session{ID: "active", LastActivity: now.Add(-2 * time.Hour)})
	store.Touch("active", now)

	removed := store.Sweep(now.Add(-time.Hour))
	assert.Equal(t, 0, removed)

	_, ok := store.Get("active")
	assert.True(t, ok)
}
