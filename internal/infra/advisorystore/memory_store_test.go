package advisorystore

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/agromitra/advisory-engine/internal/domain/advisory"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore(time.Minute, 10)

	record := advisory.Record{ID: "a1", Confidence: 0.85}
	require.NoError(t, store.Save(context.Background(), record))

	got, ok, err := store.Get(context.Background(), "a1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, record.ID, got.ID)
	require.Equal(t, record.Confidence, got.Confidence)
}

func TestMemoryStoreMissing(t *testing.T) {
	store := NewMemoryStore(time.Minute, 10)

	_, ok, err := store.Get(context.Background(), "nope")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMemoryStoreExpiry(t *testing.T) {
	store := NewMemoryStore(time.Minute, 10)
	current := time.Date(2026, time.July, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return current }

	require.NoError(t, store.Save(context.Background(), advisory.Record{ID: "a1"}))

	current = current.Add(2 * time.Minute)
	_, ok, err := store.Get(context.Background(), "a1")
	require.NoError(t, err)
	require.False(t, ok)
	require.Equal(t, 0, store.Len())
}

func TestMemoryStoreEvictsOldestWhenFull(t *testing.T) {
	store := NewMemoryStore(time.Hour, 3)
	current := time.Date(2026, time.July, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return current }

	for i := 0; i < 3; i++ {
		require.NoError(t, store.Save(context.Background(), advisory.Record{ID: fmt.Sprintf("a%d", i)}))
		current = current.Add(time.Second)
	}
	require.NoError(t, store.Save(context.Background(), advisory.Record{ID: "a3"}))

	require.Equal(t, 3, store.Len())
	_, ok, _ := store.Get(context.Background(), "a0")
	require.False(t, ok)
	_, ok, _ = store.Get(context.Background(), "a3")
	require.True(t, ok)
}

func TestMemoryStoreResaveDoesNotEvict(t *testing.T) {
	store := NewMemoryStore(time.Hour, 2)

	require.NoError(t, store.Save(context.Background(), advisory.Record{ID: "a"}))
	require.NoError(t, store.Save(context.Background(), advisory.Record{ID: "b"}))
	require.NoError(t, store.Save(context.Background(), advisory.Record{ID: "a", Confidence: 0.9}))

	require.Equal(t, 2, store.Len())
	got, ok, _ := store.Get(context.Background(), "a")
	require.True(t, ok)
	require.Equal(t, 0.9, got.Confidence)
}
