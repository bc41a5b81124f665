// Package aggregate derives period views from store snapshots.
//
// Every function here is pure: the same snapshot and query always produce
// the same result and no input is modified. Items whose date is invalid
// (the zero Date) are excluded from every filter and sum and reported as a
// skipped count instead of failing the computation.
package aggregate

import (
	"errors"
	"fmt"
	"sort"

	"chitieu/internal/core"
)

// ErrSkippedItems is reported when a computation excluded invalid-dated
// items. It wraps core.ErrInvalidDate.
var ErrSkippedItems = fmt.Errorf("%w: items excluded from totals", core.ErrInvalidDate)

// FilterItemsByPeriod keeps the items dated in (month, year), preserving
// input order. The second result counts items skipped for an invalid date.
func FilterItemsByPeriod(items []core.ExpenseItem, month, year int) ([]core.ExpenseItem, int) {
	out := make([]core.ExpenseItem, 0, len(items))
	skipped := 0
	for _, it := range items {
		if it.Date.IsZero() {
			skipped++
			continue
		}
		if it.Date.In(month, year) {
			out = append(out, it)
		}
	}
	return out, skipped
}

// PeriodTotal sums the amounts of items. Empty input sums to zero.
func PeriodTotal(items []core.ExpenseItem) int64 {
	var total int64
	for _, it := range items {
		total += it.Amount
	}
	return total
}

// SortByRecency returns a copy of items ordered newest first. Items on the
// same day keep their relative order.
func SortByRecency(items []core.ExpenseItem) []core.ExpenseItem {
	out := make([]core.ExpenseItem, len(items))
	copy(out, items)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date.Time)
	})
	return out
}

// skippedErr turns a skipped count into a warning error, nil when zero.
func skippedErr(n int) error {
	if n == 0 {
		return nil
	}
	return fmt.Errorf("%w (%d)", ErrSkippedItems, n)
}

// IsSkipWarning reports whether err only signals excluded items.
func IsSkipWarning(err error) bool {
	return errors.Is(err, ErrSkippedItems)
}
