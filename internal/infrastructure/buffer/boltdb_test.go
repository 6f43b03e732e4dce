package buffer

import (
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "buffer.db"), "")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestEnqueueAndGetBatchPreservesArrivalOrder(t *testing.T) {
	store := openTestStore(t)

	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	for i, id := range []string{"first", "second", "third"} {
		require.NoError(t, store.Enqueue(Item{
			ID:        id,
			Member:    "Leo",
			Entity:    EntityActivity,
			Operation: OperationCreate,
			Data:      json.RawMessage(`{}`),
			Timestamp: base.Add(time.Duration(i) * time.Second),
		}))
	}

	size, err := store.Size()
	require.NoError(t, err)
	require.Equal(t, 3, size)

	items, err := store.GetBatch(10)
	require.NoError(t, err)
	require.Len(t, items, 3)
	require.Equal(t, "first", items[0].ID)
	require.Equal(t, "second", items[1].ID)
	require.Equal(t, "third", items[2].ID)
}

func TestGetBatchHonorsLimit(t *testing.T) {
	store := openTestStore(t)

	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		require.NoError(t, store.Enqueue(Item{
			Entity:    EntityMessage,
			Operation: OperationCreate,
			Timestamp: base.Add(time.Duration(i) * time.Second),
		}))
	}

	items, err := store.GetBatch(2)
	require.NoError(t, err)
	require.Len(t, items, 2)

	// Peeking does not drain.
	size, err := store.Size()
	require.NoError(t, err)
	require.Equal(t, 5, size)
}

func TestRemoveDeletesBatchedItem(t *testing.T) {
	store := openTestStore(t)

	require.NoError(t, store.Enqueue(Item{ID: "only", Entity: EntityCompletion, Operation: OperationClear}))

	items, err := store.GetBatch(1)
	require.NoError(t, err)
	require.Len(t, items, 1)

	require.NoError(t, store.Remove(items[0]))

	size, err := store.Size()
	require.NoError(t, err)
	require.Zero(t, size)
}

func TestRemoveFallsBackToIDLookup(t *testing.T) {
	store := openTestStore(t)

	require.NoError(t, store.Enqueue(Item{ID: "by-id", Entity: EntityActivity, Operation: OperationDelete}))

	// An item rebuilt without its bucket key still gets removed.
	require.NoError(t, store.Remove(Item{ID: "by-id"}))

	size, err := store.Size()
	require.NoError(t, err)
	require.Zero(t, size)
}

func TestRequeueMovesItemToBackOfQueue(t *testing.T) {
	store := openTestStore(t)

	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, store.Enqueue(Item{ID: "stuck", Entity: EntityActivity, Operation: OperationCreate, Timestamp: base}))
	require.NoError(t, store.Enqueue(Item{ID: "fresh", Entity: EntityActivity, Operation: OperationCreate, Timestamp: base.Add(time.Second)}))

	items, err := store.GetBatch(1)
	require.NoError(t, err)
	require.Equal(t, "stuck", items[0].ID)

	require.NoError(t, store.Remove(items[0]))
	items[0].Retries++
	require.NoError(t, store.Requeue(items[0]))

	items, err = store.GetBatch(10)
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.Equal(t, "fresh", items[0].ID)
	require.Equal(t, "stuck", items[1].ID)
	require.Equal(t, 1, items[1].Retries)
}

func TestCleanupDropsExpiredItems(t *testing.T) {
	store := openTestStore(t)

	old := time.Now().Add(-48 * time.Hour)
	require.NoError(t, store.Enqueue(Item{ID: "old", Entity: EntityMessage, Operation: OperationCreate, Timestamp: old}))
	require.NoError(t, store.Enqueue(Item{ID: "new", Entity: EntityMessage, Operation: OperationCreate, Timestamp: time.Now()}))

	require.NoError(t, store.Cleanup(time.Now().Add(-24*time.Hour)))

	items, err := store.GetBatch(10)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, "new", items[0].ID)
}
