package forecast

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Totals is the money in and out over a run of days.
type Totals struct {
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
}

// Net returns Income minus Expense.
func (t Totals) Net() float64 {
	return t.Income - t.Expense
}

// CalculateTotals sums every transaction applied on the given days.
// The synthetic daily spend counts as expense.
func CalculateTotals(days []ForecastDay) Totals {
	var totals Totals
	for _, day := range days {
		for _, tx := range day.Transactions {
			if tx.Direction == In {
				totals.Income += tx.Amount
			} else {
				totals.Expense += tx.Amount
			}
		}
	}
	return totals
}

// View is a paging granularity for browsing a timeline.
type View string

const (
	ViewDay   View = "day"
	ViewMonth View = "month"
	ViewTerm  View = "term"
	ViewYear  View = "year"
)

// Views lists the supported views.
var Views = []View{ViewDay, ViewMonth, ViewTerm, ViewYear}

// ParseView maps a view name to a View.
func ParseView(s string) (View, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, v := range Views {
		if string(v) == s {
			return v, nil
		}
	}
	return "", fmt.Errorf("unknown view %q (available: %v)", s, Views)
}

// PageSize is the number of days shown per page for a view.
func PageSize(v View) int {
	switch v {
	case ViewDay:
		return 7
	case ViewTerm:
		return 150
	case ViewYear:
		return 365
	default:
		return 30
	}
}

// Paginate splits days into consecutive pages of PageSize(v) days.
// The last page may be shorter.
func Paginate(days []ForecastDay, v View) [][]ForecastDay {
	size := PageSize(v)
	var pages [][]ForecastDay
	for start := 0; start < len(days); start += size {
		end := min(start+size, len(days))
		pages = append(pages, days[start:end])
	}
	return pages
}

// PeriodSummary condenses one page of a timeline.
type PeriodSummary struct {
	Start          time.Time `json:"start"`
	End            time.Time `json:"end"`
	OpeningBalance float64   `json:"opening_balance"`
	ClosingBalance float64   `json:"closing_balance"`
	LowestBalance  float64   `json:"lowest_balance"`
	Totals
}

// SummarizePeriods returns one summary per page of the given view.
// The opening balance of a page is the closing balance of the page before it;
// the first page reconstructs it from its first day's transactions.
func SummarizePeriods(days []ForecastDay, v View) []PeriodSummary {
	pages := Paginate(days, v)
	summaries := make([]PeriodSummary, 0, len(pages))

	for i, page := range pages {
		var opening float64
		if i == 0 {
			opening = RoundCents(page[0].Balance - CalculateTotals(page[:1]).Net())
		} else {
			opening = summaries[i-1].ClosingBalance
		}

		lowest := math.Inf(1)
		for _, day := range page {
			lowest = math.Min(lowest, day.Balance)
		}

		summaries = append(summaries, PeriodSummary{
			Start:          page[0].Date,
			End:            page[len(page)-1].Date,
			OpeningBalance: opening,
			ClosingBalance: page[len(page)-1].Balance,
			LowestBalance:  lowest,
			Totals:         CalculateTotals(page),
		})
	}
	return summaries
}
