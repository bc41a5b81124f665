package core

// YearRange bounds the years a query may select, inclusive.
type YearRange struct {
	Min int
	Max int
}

// DefaultYearRange matches the year selector of the tracker UI.
var DefaultYearRange = YearRange{Min: 2024, Max: 2027}

// Contains reports whether year lies within the range.
func (r YearRange) Contains(year int) bool {
	return year >= r.Min && year <= r.Max
}

// Years enumerates the range in ascending order.
func (r YearRange) Years() []int {
	if r.Max < r.Min {
		return nil
	}
	out := make([]int, 0, r.Max-r.Min+1)
	for y := r.Min; y <= r.Max; y++ {
		out = append(out, y)
	}
	return out
}

// Query selects the period and the category filters of a derived view.
type Query struct {
	Month  int // 1-12
	Year   int
	Search string
	Group  Group // GroupAll (or empty) or a category group
}

// MatchesAllGroups reports whether the query applies no group filter.
func (q Query) MatchesAllGroups() bool {
	return q.Group == "" || q.Group == GroupAll
}

// Validate checks the period against the supported ranges and the group
// against the closed set.
func (q Query) Validate(years YearRange) error {
	if q.Month < 1 || q.Month > 12 {
		return ErrInvalidMonth
	}
	if !years.Contains(q.Year) {
		return ErrInvalidYear
	}
	if !q.MatchesAllGroups() && !q.Group.IsValid() {
		return ErrInvalidGroup
	}
	return nil
}
