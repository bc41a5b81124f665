package aggregate

import "chitieu/internal/core"

// Dashboard is everything the main screen shows for one query. Views are
// derived once; Totals, Pie and Groups cover all categories while
// Categories is the search/group filtered subset.
type Dashboard struct {
	Query      core.Query
	Views      []CategoryView
	Categories []CategoryView
	Totals     Totals
	Pie        []Slice
	Groups     []GroupTotal
}

// BuildDashboard derives the dashboard for q from a category list.
func BuildDashboard(cats []core.Category, q core.Query) Dashboard {
	views := DeriveViews(cats, q)
	return Dashboard{
		Query:      q,
		Views:      views,
		Categories: FilterCategories(views, q.Search, q.Group),
		Totals:     DashboardTotals(views),
		Pie:        PieDistribution(views),
		Groups:     GroupTotals(views),
	}
}

// CategoryDetail is the item list of one category for a period, newest
// first.
func CategoryDetail(cat core.Category, month, year int) CategoryView {
	v := DeriveCategoryView(cat, month, year)
	v.CurrentPeriodItems = SortByRecency(v.CurrentPeriodItems)
	return v
}
