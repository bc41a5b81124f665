package aggregate

import "chitieu/internal/core"

// MonthTotal is the spend across all categories in one month.
type MonthTotal struct {
	Month int // 1-12
	Total int64
}

// Yearly is the month-by-month breakdown of one year.
type Yearly struct {
	Year         int
	Months       [12]MonthTotal
	Total        int64
	SkippedItems int
}

// Warning returns ErrSkippedItems when invalid-dated items were excluded.
func (y Yearly) Warning() error {
	return skippedErr(y.SkippedItems)
}

// YearlyBreakdown totals every item of every category by month of year.
// Search and group filters never apply to the yearly summary.
func YearlyBreakdown(cats []core.Category, year int) Yearly {
	y := Yearly{Year: year}
	for m := range y.Months {
		y.Months[m].Month = m + 1
	}
	for _, c := range cats {
		for _, it := range c.Items {
			if it.Date.IsZero() {
				y.SkippedItems++
				continue
			}
			if it.Date.Year() != year {
				continue
			}
			y.Months[it.Date.Month()-1].Total += it.Amount
			y.Total += it.Amount
		}
	}
	return y
}
