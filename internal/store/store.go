package store

import (
	"context"
	"sync"
	"sync/atomic"

	"chitieu/internal/core"
)

// ChangeFunc observes each snapshot published by a successful mutation.
type ChangeFunc func(op string, next *Snapshot)

// Store serialises mutations and publishes the current snapshot. Readers
// never take the lock.
type Store struct {
	mu       sync.Mutex
	current  atomic.Pointer[Snapshot]
	onChange ChangeFunc
}

// Mutation names passed to ChangeFunc.
const (
	OpCreateCategory = "create_category"
	OpUpdateCategory = "update_category"
	OpDeleteCategory = "delete_category"
	OpAddItem        = "add_item"
	OpRemoveItem     = "remove_item"
)

// New wraps an initial snapshot. A nil snapshot starts empty.
func New(initial *Snapshot) *Store {
	if initial == nil {
		initial = Empty()
	}
	st := &Store{}
	st.current.Store(initial)
	return st
}

// OnChange registers a hook called, under the writer lock, after each
// successful mutation.
func (st *Store) OnChange(fn ChangeFunc) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.onChange = fn
}

// Snapshot returns the current snapshot.
func (st *Store) Snapshot() *Snapshot {
	return st.current.Load()
}

func (st *Store) CreateCategory(_ context.Context, in core.CategoryInput) (core.Category, error) {
	var created core.Category
	err := st.mutate(OpCreateCategory, func(s *Snapshot) (*Snapshot, error) {
		next, c, err := s.CreateCategory(in)
		created = c
		return next, err
	})
	return created, err
}

func (st *Store) UpdateCategory(_ context.Context, id string, in core.CategoryInput) error {
	return st.mutate(OpUpdateCategory, func(s *Snapshot) (*Snapshot, error) {
		return s.UpdateCategory(id, in)
	})
}

func (st *Store) DeleteCategory(_ context.Context, id string) error {
	return st.mutate(OpDeleteCategory, func(s *Snapshot) (*Snapshot, error) {
		return s.DeleteCategory(id)
	})
}

func (st *Store) AddExpenseItem(_ context.Context, categoryID string, in core.ItemInput) (core.ExpenseItem, error) {
	var added core.ExpenseItem
	err := st.mutate(OpAddItem, func(s *Snapshot) (*Snapshot, error) {
		next, it, err := s.AddExpenseItem(categoryID, in)
		added = it
		return next, err
	})
	return added, err
}

func (st *Store) RemoveExpenseItem(_ context.Context, categoryID, itemID string) error {
	return st.mutate(OpRemoveItem, func(s *Snapshot) (*Snapshot, error) {
		return s.RemoveExpenseItem(categoryID, itemID)
	})
}

func (st *Store) mutate(op string, fn func(*Snapshot) (*Snapshot, error)) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	next, err := fn(st.current.Load())
	if err != nil {
		return err
	}
	st.current.Store(next)
	if st.onChange != nil {
		st.onChange(op, next)
	}
	return nil
}
