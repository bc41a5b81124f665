package store

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chitieu/internal/core"
)

func TestStoreMutationsPublishSnapshots(t *testing.T) {
	ctx := context.Background()
	st := New(nil)

	var ops []string
	st.OnChange(func(op string, next *Snapshot) {
		ops = append(ops, op)
	})

	first := st.Snapshot()
	cat, err := st.CreateCategory(ctx, breakfast())
	require.NoError(t, err)
	assert.Equal(t, 0, first.Len(), "held snapshot must not change")
	assert.Equal(t, 1, st.Snapshot().Len())

	item, err := st.AddExpenseItem(ctx, cat.ID, core.ItemInput{Title: "Phở", Amount: 50000, Date: core.NewDate(2024, 3, 5)})
	require.NoError(t, err)
	require.NoError(t, st.UpdateCategory(ctx, cat.ID, breakfast()))
	require.NoError(t, st.RemoveExpenseItem(ctx, cat.ID, item.ID))
	require.NoError(t, st.DeleteCategory(ctx, cat.ID))

	assert.Equal(t, []string{OpCreateCategory, OpAddItem, OpUpdateCategory, OpRemoveItem, OpDeleteCategory}, ops)
	assert.Equal(t, uint64(5), st.Snapshot().Version())
}

func TestStoreFailedMutationKeepsSnapshot(t *testing.T) {
	ctx := context.Background()
	st := New(nil)
	called := false
	st.OnChange(func(string, *Snapshot) { called = true })

	before := st.Snapshot()
	err := st.DeleteCategory(ctx, "missing")
	require.ErrorIs(t, err, core.ErrNotFound)
	assert.Same(t, before, st.Snapshot())
	assert.False(t, called)
}

func TestStoreConcurrentWriters(t *testing.T) {
	ctx := context.Background()
	st := New(nil)
	cat, err := st.CreateCategory(ctx, breakfast())
	require.NoError(t, err)

	const writers, perWriter = 8, 50
	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				_, err := st.AddExpenseItem(ctx, cat.ID, core.ItemInput{Title: "x", Amount: 1, Date: core.NewDate(2024, 1, 1)})
				assert.NoError(t, err)
				_ = st.Snapshot().Categories()
			}
		}()
	}
	wg.Wait()

	got, _ := st.Snapshot().Category(cat.ID)
	assert.Len(t, got.Items, writers*perWriter)
}
