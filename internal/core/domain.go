package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire format for expense dates (YYYY-MM-DD).
const DateLayout = "2006-01-02"

type (
	Date struct {
		time.Time
	}

	ExpenseItem struct {
		ID     string
		Title  string
		Amount int64 // whole currency units
		Date   Date
	}

	// Category is a user-defined spending bucket. BaselineAmount is the
	// figure typed into the category form; it is never derived from Items.
	Category struct {
		ID             string
		Name           string
		Color          string
		Group          Group
		Description    string
		BaselineAmount int64
		Items          []ExpenseItem
	}

	// CategoryInput carries the editable fields of a category.
	CategoryInput struct {
		Name           string
		Color          string
		Group          Group
		Description    string
		BaselineAmount int64
	}

	// ItemInput carries the fields of a new expense item.
	ItemInput struct {
		Title  string
		Amount int64
		Date   Date
	}
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrInvalidDate  = errors.New("invalid date")

	ErrEmptyName      = fmt.Errorf("%w: empty category name", ErrInvalidInput)
	ErrEmptyTitle     = fmt.Errorf("%w: empty item title", ErrInvalidInput)
	ErrInvalidGroup   = fmt.Errorf("%w: unknown group", ErrInvalidInput)
	ErrNegativeAmount = fmt.Errorf("%w: negative amount", ErrInvalidInput)
	ErrInvalidMonth   = fmt.Errorf("%w: month out of range", ErrInvalidInput)
	ErrInvalidYear    = fmt.Errorf("%w: year out of range", ErrInvalidInput)
)

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string. Failures wrap ErrInvalidDate.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return Date{Time: t}, nil
}

// Month returns the month
func (d Date) Month() int {
	return int(d.Time.Month())
}

// Year returns the year
func (d Date) Year() int {
	return d.Time.Year()
}

// In reports whether the date falls in the given calendar month.
func (d Date) In(month, year int) bool {
	return !d.IsZero() && d.Month() == month && d.Year() == year
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// String renders the date as YYYY-MM-DD, or "" for the zero date.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

func (in CategoryInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return ErrEmptyName
	}
	if !in.Group.IsValid() {
		return ErrInvalidGroup
	}
	if in.BaselineAmount < 0 {
		return ErrNegativeAmount
	}
	return nil
}

func (in ItemInput) Validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return ErrEmptyTitle
	}
	if in.Amount < 0 {
		return ErrNegativeAmount
	}
	return in.Date.Validate()
}

// Clone returns a copy of the category that shares no item storage.
func (c Category) Clone() Category {
	out := c
	if c.Items != nil {
		out.Items = make([]ExpenseItem, len(c.Items))
		copy(out.Items, c.Items)
	}
	return out
}

// HasItem reports whether an item with the given id belongs to the category.
func (c Category) HasItem(id string) bool {
	for _, it := range c.Items {
		if it.ID == id {
			return true
		}
	}
	return false
}
