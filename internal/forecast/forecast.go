package forecast

import (
	"sort"
)

// DailySpendingTitle is the title of the synthetic discretionary spend entry.
const DailySpendingTitle = "Daily spending"

// Input holds everything a forecast run needs.
type Input struct {
	StartingBalance float64

	// SavingsBufferForDisplay is the user's savings. It is deliberately NOT
	// part of the running balance: it is handed back on Forecast so a view can
	// draw it as a reference line below zero. Do not add it to the balance.
	SavingsBufferForDisplay float64

	Rules []TransactionRule

	// WeeklySpend is drained evenly, WeeklySpend/7 every day of the window.
	WeeklySpend float64

	Window DateRange

	// MaxIterations overrides DefaultMaxIterations when positive.
	MaxIterations int
}

// Forecast is the result of one run.
type Forecast struct {
	Days                    []ForecastDay
	SavingsBufferForDisplay float64
	Truncated               []string // titles of rules cut short by the iteration cap
}

// BuildForecast walks every calendar day of in.Window and returns the
// end-of-day balance for each, one entry per day with no gaps.
//
// Each day the daily spend is taken first, then that day's occurrences are
// applied in date order (same-day occurrences keep the order the rules were
// given in). The reported balance is rounded to cents once per day; the
// running balance is carried at full precision.
//
// Input is not validated. NaN amounts give NaN balances.
func BuildForecast(in Input) Forecast {
	start := StartOfDay(in.Window.Start)
	end := dateIn(in.Window.End, start.Location())

	gen := Generator{MaxIterations: in.MaxIterations}

	var occurrences []Occurrence
	var truncated []string
	for _, rule := range in.Rules {
		ruleOccurrences, cut := gen.Generate(rule, start, end)
		occurrences = append(occurrences, ruleOccurrences...)
		if cut {
			truncated = append(truncated, rule.Title)
		}
	}

	sort.SliceStable(occurrences, func(i, j int) bool {
		return occurrences[i].Date.Before(occurrences[j].Date)
	})

	dailySpend := 0.0
	if in.WeeklySpend != 0 {
		dailySpend = in.WeeklySpend / 7
	}

	days := make([]ForecastDay, 0, DaysInclusive(DateRange{Start: start, End: end}))
	balance := in.StartingBalance
	next := 0

	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		var applied []DayTransaction

		if dailySpend > 0 {
			balance -= dailySpend
			applied = append(applied, DayTransaction{
				Title:     DailySpendingTitle,
				Amount:    dailySpend,
				Direction: Out,
				Synthetic: true,
			})
		}

		for next < len(occurrences) && SameDay(occurrences[next].Date, day) {
			occ := occurrences[next]
			if occ.Direction == In {
				balance += occ.Amount
			} else {
				balance -= occ.Amount
			}
			applied = append(applied, DayTransaction{
				Title:     occ.Title,
				Category:  occ.Category,
				Amount:    occ.Amount,
				Direction: occ.Direction,
			})
			next++
		}

		days = append(days, ForecastDay{
			Date:         day,
			Balance:      RoundCents(balance),
			Transactions: applied,
		})
	}

	return Forecast{
		Days:                    days,
		SavingsBufferForDisplay: in.SavingsBufferForDisplay,
		Truncated:               truncated,
	}
}
