package forecast

import "math"

// AnalyzeForecast scans the timeline once and reports the lowest balance and
// the first day the balance drops below zero.
//
// Ties for the lowest balance keep the earliest day. An empty timeline gives
// LowestBalance = +Inf and HasData = false.
func AnalyzeForecast(days []ForecastDay) Insights {
	insights := Insights{
		LowestBalance: math.Inf(1),
		IsHealthy:     true,
		HasData:       len(days) > 0,
	}

	for i, day := range days {
		if day.Balance < insights.LowestBalance {
			insights.LowestBalance = day.Balance
			date := day.Date
			insights.LowestBalanceDate = &date
		}

		if day.Balance < 0 && insights.RunOutDate == nil {
			date := day.Date
			index := i
			insights.RunOutDate = &date
			insights.DaysUntilNegative = &index
			insights.IsHealthy = false
		}
	}

	return insights
}
