// Package store holds the authoritative category collection.
//
// A Snapshot is an immutable value: every mutation returns a successor and
// leaves the receiver untouched. Successors share unchanged item slices with
// their predecessor, which is safe because nothing writes into them.
package store

import (
	"fmt"

	"github.com/google/uuid"

	"chitieu/internal/core"
)

// IDGenerator produces opaque identifiers. Uniqueness is enforced by the
// snapshot, so generators only need to be unlikely to repeat.
type IDGenerator func() string

// maxIDAttempts bounds retries when a generator returns a taken id.
const maxIDAttempts = 16

type Snapshot struct {
	cats    []core.Category
	version uint64
	newID   IDGenerator
}

// Option configures an empty snapshot.
type Option func(*Snapshot)

// WithIDGenerator replaces the default uuid generator.
func WithIDGenerator(gen IDGenerator) Option {
	return func(s *Snapshot) {
		if gen != nil {
			s.newID = gen
		}
	}
}

// Empty returns a snapshot with no categories.
func Empty(opts ...Option) *Snapshot {
	s := &Snapshot{newID: uuid.NewString}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FromCategories builds a snapshot from existing categories, e.g. seed data.
// Missing ids are generated; duplicate ids are rejected.
func FromCategories(cats []core.Category, opts ...Option) (*Snapshot, error) {
	s := Empty(opts...)
	out := make([]core.Category, 0, len(cats))
	seen := make(map[string]struct{}, len(cats))
	for _, c := range cats {
		c = c.Clone()
		if c.ID == "" {
			id, err := s.freshID(func(id string) bool { _, ok := seen[id]; return ok })
			if err != nil {
				return nil, err
			}
			c.ID = id
		}
		if _, ok := seen[c.ID]; ok {
			return nil, fmt.Errorf("%w: duplicate category id %q", core.ErrInvalidInput, c.ID)
		}
		seen[c.ID] = struct{}{}

		items := make(map[string]struct{}, len(c.Items))
		for i := range c.Items {
			if c.Items[i].ID == "" {
				id, err := s.freshID(func(id string) bool { _, ok := items[id]; return ok })
				if err != nil {
					return nil, err
				}
				c.Items[i].ID = id
			}
			if _, ok := items[c.Items[i].ID]; ok {
				return nil, fmt.Errorf("%w: duplicate item id %q in category %q", core.ErrInvalidInput, c.Items[i].ID, c.ID)
			}
			items[c.Items[i].ID] = struct{}{}
		}
		out = append(out, c)
	}
	s.cats = out
	return s, nil
}

// Version increases by one on every successful mutation.
func (s *Snapshot) Version() uint64 {
	return s.version
}

// Len returns the number of categories.
func (s *Snapshot) Len() int {
	return len(s.cats)
}

// Categories returns copies of all categories in insertion order.
func (s *Snapshot) Categories() []core.Category {
	out := make([]core.Category, len(s.cats))
	for i, c := range s.cats {
		out[i] = c.Clone()
	}
	return out
}

// Category returns a copy of the category with the given id.
func (s *Snapshot) Category(id string) (core.Category, bool) {
	i := s.index(id)
	if i < 0 {
		return core.Category{}, false
	}
	return s.cats[i].Clone(), true
}

// CreateCategory appends a new category with an empty item list.
func (s *Snapshot) CreateCategory(in core.CategoryInput) (*Snapshot, core.Category, error) {
	if err := in.Validate(); err != nil {
		return s, core.Category{}, err
	}
	id, err := s.freshID(func(id string) bool { return s.index(id) >= 0 })
	if err != nil {
		return s, core.Category{}, err
	}
	c := core.Category{ID: id}
	apply(&c, in)

	next := s.successor(len(s.cats) + 1)
	next.cats = append(next.cats, s.cats...)
	next.cats = append(next.cats, c)
	return next, c.Clone(), nil
}

// UpdateCategory replaces the editable fields of a category. Items are kept.
func (s *Snapshot) UpdateCategory(id string, in core.CategoryInput) (*Snapshot, error) {
	if err := in.Validate(); err != nil {
		return s, err
	}
	i := s.index(id)
	if i < 0 {
		return s, categoryNotFound(id)
	}
	next := s.successor(len(s.cats))
	next.cats = append(next.cats, s.cats...)
	apply(&next.cats[i], in)
	return next, nil
}

// DeleteCategory removes a category together with all of its items.
func (s *Snapshot) DeleteCategory(id string) (*Snapshot, error) {
	i := s.index(id)
	if i < 0 {
		return s, categoryNotFound(id)
	}
	next := s.successor(len(s.cats) - 1)
	next.cats = append(next.cats, s.cats[:i]...)
	next.cats = append(next.cats, s.cats[i+1:]...)
	return next, nil
}

// AddExpenseItem appends an item to a category. The baseline amount of the
// category is not touched.
func (s *Snapshot) AddExpenseItem(categoryID string, in core.ItemInput) (*Snapshot, core.ExpenseItem, error) {
	i := s.index(categoryID)
	if i < 0 {
		return s, core.ExpenseItem{}, categoryNotFound(categoryID)
	}
	if err := in.Validate(); err != nil {
		return s, core.ExpenseItem{}, err
	}
	cat := s.cats[i]
	id, err := s.freshID(cat.HasItem)
	if err != nil {
		return s, core.ExpenseItem{}, err
	}
	item := core.ExpenseItem{ID: id, Title: in.Title, Amount: in.Amount, Date: in.Date}

	items := make([]core.ExpenseItem, 0, len(cat.Items)+1)
	items = append(items, cat.Items...)
	cat.Items = append(items, item)

	next := s.successor(len(s.cats))
	next.cats = append(next.cats, s.cats...)
	next.cats[i] = cat
	return next, item, nil
}

// RemoveExpenseItem drops an item from a category. When either id is absent
// the receiver is returned unchanged along with ErrNotFound.
func (s *Snapshot) RemoveExpenseItem(categoryID, itemID string) (*Snapshot, error) {
	i := s.index(categoryID)
	if i < 0 {
		return s, categoryNotFound(categoryID)
	}
	cat := s.cats[i]
	pos := -1
	for j, it := range cat.Items {
		if it.ID == itemID {
			pos = j
			break
		}
	}
	if pos < 0 {
		return s, fmt.Errorf("%w: item %q in category %q", core.ErrNotFound, itemID, categoryID)
	}

	items := make([]core.ExpenseItem, 0, len(cat.Items)-1)
	items = append(items, cat.Items[:pos]...)
	cat.Items = append(items, cat.Items[pos+1:]...)

	next := s.successor(len(s.cats))
	next.cats = append(next.cats, s.cats...)
	next.cats[i] = cat
	return next, nil
}

func (s *Snapshot) successor(capacity int) *Snapshot {
	return &Snapshot{
		cats:    make([]core.Category, 0, capacity),
		version: s.version + 1,
		newID:   s.newID,
	}
}

func (s *Snapshot) index(id string) int {
	for i := range s.cats {
		if s.cats[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Snapshot) freshID(taken func(string) bool) (string, error) {
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		id := s.newID()
		if id != "" && !taken(id) {
			return id, nil
		}
	}
	return "", fmt.Errorf("generate id: %d attempts collided", maxIDAttempts)
}

func apply(c *core.Category, in core.CategoryInput) {
	c.Name = in.Name
	c.Color = in.Color
	if c.Color == "" {
		c.Color = core.DefaultColor
	}
	c.Group = in.Group
	c.Description = in.Description
	c.BaselineAmount = in.BaselineAmount
}

func categoryNotFound(id string) error {
	return fmt.Errorf("%w: category %q", core.ErrNotFound, id)
}
