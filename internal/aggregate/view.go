package aggregate

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"chitieu/internal/core"
)

// CategoryView is a category projected onto one period. BaselineAmount is
// the stored figure; PeriodTotal is always computed from CurrentPeriodItems.
type CategoryView struct {
	ID                 string
	Name               string
	Color              string
	Group              core.Group
	Description        string
	BaselineAmount     int64
	CurrentPeriodItems []core.ExpenseItem
	PeriodTotal        int64
	ItemCount          int // all items, any period
	SkippedItems       int
}

// DeriveCategoryView projects a category onto (month, year).
func DeriveCategoryView(cat core.Category, month, year int) CategoryView {
	items, skipped := FilterItemsByPeriod(cat.Items, month, year)
	return CategoryView{
		ID:                 cat.ID,
		Name:               cat.Name,
		Color:              cat.Color,
		Group:              cat.Group,
		Description:        cat.Description,
		BaselineAmount:     cat.BaselineAmount,
		CurrentPeriodItems: items,
		PeriodTotal:        PeriodTotal(items),
		ItemCount:          len(cat.Items),
		SkippedItems:       skipped,
	}
}

// DeriveViews projects every category onto the query period, in input
// order. Search and group filters are not applied here.
func DeriveViews(cats []core.Category, q core.Query) []CategoryView {
	out := make([]CategoryView, len(cats))
	for i, c := range cats {
		out[i] = DeriveCategoryView(c, q.Month, q.Year)
	}
	return out
}

// FilterCategories keeps views whose name contains search, ignoring case,
// and whose group matches. An empty search and GroupAll match everything.
// Both sides are NFC-normalised before folding, so precomposed and
// combining-mark spellings of Vietnamese text compare equal.
func FilterCategories(views []CategoryView, search string, group core.Group) []CategoryView {
	fold := cases.Fold()
	needle := foldString(fold, search)
	allGroups := group == "" || group == core.GroupAll

	out := make([]CategoryView, 0, len(views))
	for _, v := range views {
		if needle != "" && !strings.Contains(foldString(fold, v.Name), needle) {
			continue
		}
		if !allGroups && v.Group != group {
			continue
		}
		out = append(out, v)
	}
	return out
}

func foldString(fold cases.Caser, s string) string {
	return fold.String(norm.NFC.String(s))
}
