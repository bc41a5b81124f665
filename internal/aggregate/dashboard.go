package aggregate

import "chitieu/internal/core"

// Totals summarises a set of views.
type Totals struct {
	Total         int64
	CategoryCount int
	// TopCategory is the view with the largest period total; the first one
	// wins ties. Nil when there are no views.
	TopCategory  *CategoryView
	SkippedItems int
}

// Warning returns ErrSkippedItems when any view excluded invalid-dated
// items, nil otherwise.
func (t Totals) Warning() error {
	return skippedErr(t.SkippedItems)
}

// Slice is one segment of the spending pie chart.
type Slice struct {
	Name  string
	Value int64
	Color string
}

// GroupTotal is the period spend of one category group.
type GroupTotal struct {
	Group core.Group
	Total int64
}

// DashboardTotals sums the period totals of views and picks the top spender.
func DashboardTotals(views []CategoryView) Totals {
	t := Totals{CategoryCount: len(views)}
	for i := range views {
		t.Total += views[i].PeriodTotal
		t.SkippedItems += views[i].SkippedItems
		if t.TopCategory == nil || views[i].PeriodTotal > t.TopCategory.PeriodTotal {
			top := views[i]
			t.TopCategory = &top
		}
	}
	return t
}

// PieDistribution lists views with a positive period total, in input order.
func PieDistribution(views []CategoryView) []Slice {
	out := make([]Slice, 0, len(views))
	for _, v := range views {
		if v.PeriodTotal <= 0 {
			continue
		}
		out = append(out, Slice{Name: v.Name, Value: v.PeriodTotal, Color: v.Color})
	}
	return out
}

// GroupTotals sums period totals per group, one entry per group in
// core.Groups order, zero totals included.
func GroupTotals(views []CategoryView) []GroupTotal {
	sums := make(map[core.Group]int64, len(core.Groups))
	for _, v := range views {
		sums[v.Group] += v.PeriodTotal
	}
	out := make([]GroupTotal, len(core.Groups))
	for i, g := range core.Groups {
		out[i] = GroupTotal{Group: g, Total: sums[g]}
	}
	return out
}
