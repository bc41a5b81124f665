package cache

import (
	"fmt"

	"golang.org/x/text/cases"

	"chitieu/internal/core"
)

// DashboardKey identifies a dashboard derived from one snapshot version.
// Searches that fold to the same string share an entry.
func DashboardKey(version uint64, q core.Query) string {
	group := q.Group
	if q.MatchesAllGroups() {
		group = core.GroupAll
	}
	return fmt.Sprintf("dash:v%d:%04d-%02d:%s:%s", version, q.Year, q.Month, group.Key(), cases.Fold().String(q.Search))
}

// YearlyKey identifies a yearly breakdown derived from one snapshot version.
func YearlyKey(version uint64, year int) string {
	return fmt.Sprintf("year:v%d:%04d", version, year)
}
