package forecast

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func balances(days []ForecastDay) []float64 {
	out := make([]float64, len(days))
	for i, d := range days {
		out[i] = d.Balance
	}
	return out
}

func TestBuildForecast_FlatLine(t *testing.T) {
	result := BuildForecast(Input{
		StartingBalance: 100,
		Window:          DateRange{Start: date("2025-01-01"), End: date("2025-01-03")},
	})

	assert.Equal(t, []float64{100, 100, 100}, balances(result.Days))
	for _, day := range result.Days {
		assert.Empty(t, day.Transactions)
	}
}

func TestBuildForecast_WeeklyExpense(t *testing.T) {
	result := BuildForecast(Input{
		StartingBalance: 100,
		Rules: []TransactionRule{
			{Direction: Out, Amount: 7, Recurrence: Weekly{}, ScheduledDate: date("2025-01-01"), Title: "Gym"},
		},
		Window: DateRange{Start: date("2025-01-01"), End: date("2025-01-15")},
	})

	require.Len(t, result.Days, 15)
	for i, day := range result.Days {
		var expected float64
		switch {
		case i < 7:
			expected = 93
		case i < 14:
			expected = 86
		default:
			expected = 79
		}
		assert.Equal(t, expected, day.Balance, "day %d", i)

		if i%7 == 0 {
			require.Len(t, day.Transactions, 1)
			assert.Equal(t, "Gym", day.Transactions[0].Title)
		} else {
			assert.Empty(t, day.Transactions)
		}
	}
}

func TestBuildForecast_MonthlyIncomeWithDailySpend(t *testing.T) {
	result := BuildForecast(Input{
		StartingBalance: 0,
		Rules: []TransactionRule{
			{Direction: In, Amount: 350, Recurrence: Monthly{}, ScheduledDate: date("2025-09-01"), Title: "Part-time job"},
		},
		WeeklySpend: 50,
		Window:      DateRange{Start: date("2025-09-01"), End: date("2025-09-30")},
	})

	require.Len(t, result.Days, 30)
	assert.Equal(t, 342.86, result.Days[0].Balance)
	assert.Equal(t, 135.71, result.Days[29].Balance)

	first := result.Days[0].Transactions
	require.Len(t, first, 2)
	assert.Equal(t, DailySpendingTitle, first[0].Title)
	assert.True(t, first[0].Synthetic)
	assert.Equal(t, Out, first[0].Direction)
	assert.InDelta(t, 50.0/7, first[0].Amount, 1e-9)
	assert.Equal(t, "Part-time job", first[1].Title)

	for i := 1; i < len(result.Days); i++ {
		assert.Less(t, result.Days[i].Balance, result.Days[i-1].Balance)
		assert.Len(t, result.Days[i].Transactions, 1)
	}
}

func TestBuildForecast_SavingsNotInBalance(t *testing.T) {
	result := BuildForecast(Input{
		StartingBalance:         100,
		SavingsBufferForDisplay: 500,
		Window:                  DateRange{Start: date("2025-01-01"), End: date("2025-01-02")},
	})

	assert.Equal(t, []float64{100, 100}, balances(result.Days))
	assert.Equal(t, 500.0, result.SavingsBufferForDisplay)
}

func TestBuildForecast_SameDayOrder(t *testing.T) {
	result := BuildForecast(Input{
		StartingBalance: 10,
		Rules: []TransactionRule{
			{Direction: In, Amount: 1, Recurrence: Monthly{}, ScheduledDate: date("2025-01-05"), Title: "A"},
			{Direction: Out, Amount: 2, Recurrence: Once{}, ScheduledDate: date("2025-02-05"), Title: "B"},
			{Direction: In, Amount: 3, Recurrence: Weekly{}, ScheduledDate: date("2025-01-29"), Title: "C"},
		},
		WeeklySpend: 7,
		Window:      DateRange{Start: date("2025-02-05"), End: date("2025-02-05")},
	})

	require.Len(t, result.Days, 1)
	var titles []string
	for _, tx := range result.Days[0].Transactions {
		titles = append(titles, tx.Title)
	}
	assert.Equal(t, []string{DailySpendingTitle, "A", "B", "C"}, titles)
	assert.Equal(t, 11.0, result.Days[0].Balance)
}

func TestBuildForecast_NegativeWeeklySpendIgnored(t *testing.T) {
	result := BuildForecast(Input{
		StartingBalance: 20,
		WeeklySpend:     -70,
		Window:          DateRange{Start: date("2025-01-01"), End: date("2025-01-02")},
	})

	assert.Equal(t, []float64{20, 20}, balances(result.Days))
}

func TestBuildForecast_EmptyWindow(t *testing.T) {
	result := BuildForecast(Input{
		StartingBalance: 20,
		Window:          DateRange{Start: date("2025-01-02"), End: date("2025-01-01")},
	})

	assert.Empty(t, result.Days)
}

func TestBuildForecast_ReportsTruncatedRules(t *testing.T) {
	result := BuildForecast(Input{
		Rules: []TransactionRule{
			{Direction: Out, Amount: 1, Recurrence: Weekly{}, ScheduledDate: date("2025-01-01"), Title: "Coffee"},
			{Direction: Out, Amount: 1, Recurrence: Yearly{}, ScheduledDate: date("2025-01-01"), Title: "Insurance"},
		},
		Window:        DateRange{Start: date("2025-01-01"), End: date("2025-12-31")},
		MaxIterations: 10,
	})

	assert.Equal(t, []string{"Coffee"}, result.Truncated)
}

func TestBuildForecast_NaNAmountPropagates(t *testing.T) {
	result := BuildForecast(Input{
		StartingBalance: 10,
		Rules: []TransactionRule{
			{Direction: In, Amount: math.NaN(), Recurrence: Once{}, ScheduledDate: date("2025-01-02")},
		},
		Window: DateRange{Start: date("2025-01-01"), End: date("2025-01-03")},
	})

	require.Len(t, result.Days, 3)
	assert.Equal(t, 10.0, result.Days[0].Balance)
	assert.True(t, math.IsNaN(result.Days[1].Balance))
	assert.True(t, math.IsNaN(result.Days[2].Balance))
}

func studentYear() Input {
	return Input{
		StartingBalance:         812.37,
		SavingsBufferForDisplay: 1200,
		Rules: []TransactionRule{
			{Direction: In, Amount: 1523.33, Recurrence: Yearly{}, ScheduledDate: date("2025-09-22"), Title: "Student loan - september"},
			{Direction: In, Amount: 1523.33, Recurrence: Yearly{}, ScheduledDate: date("2026-01-12"), Title: "Student loan - january"},
			{Direction: In, Amount: 1523.34, Recurrence: Yearly{}, ScheduledDate: date("2026-04-20"), Title: "Student loan - april"},
			{Direction: Out, Amount: 645, Recurrence: Monthly{}, ScheduledDate: date("2025-08-31"), Title: "Rent"},
			{Direction: Out, Amount: 10.99, Recurrence: Monthly{}, ScheduledDate: date("2025-09-14"), Title: "Subscription"},
			{Direction: In, Amount: 96.25, Recurrence: Weekly{}, ScheduledDate: date("2025-10-03"), Title: "Part-time job"},
			{Direction: In, Amount: 400, Recurrence: Termly{}, ScheduledDate: date("2025-10-27"), Title: "Bursary"},
			{Direction: Out, Amount: 180, Recurrence: Once{}, ScheduledDate: date("2026-03-14"), Title: "Trip"},
		},
		WeeklySpend: 100,
		Window:      DateRange{Start: date("2025-09-01"), End: date("2026-09-01")},
	}
}

func TestBuildForecast_Deterministic(t *testing.T) {
	first := BuildForecast(studentYear())
	second := BuildForecast(studentYear())
	assert.Equal(t, first, second)
}

func TestBuildForecast_Contiguous(t *testing.T) {
	in := studentYear()
	result := BuildForecast(in)

	require.Len(t, result.Days, DaysInclusive(in.Window))
	assert.Equal(t, 366, len(result.Days))
	assert.Equal(t, in.Window.Start, result.Days[0].Date)
	assert.Equal(t, in.Window.End, result.Days[len(result.Days)-1].Date)
	for i := 1; i < len(result.Days); i++ {
		assert.Equal(t, result.Days[i-1].Date.AddDate(0, 0, 1), result.Days[i].Date)
	}
}

func TestBuildForecast_BalanceConservation(t *testing.T) {
	in := studentYear()
	result := BuildForecast(in)

	previous := in.StartingBalance
	for i, day := range result.Days {
		net := 0.0
		for _, tx := range day.Transactions {
			if tx.Direction == In {
				net += tx.Amount
			} else {
				net -= tx.Amount
			}
		}
		assert.InDelta(t, previous+net, day.Balance, 0.0100001, "day %d", i)
		previous = day.Balance
	}
}

func TestBuildForecast_RoundsOncePerDay(t *testing.T) {
	// 1/3 per day: rounding the running balance would drift by a cent every
	// three days.
	result := BuildForecast(Input{
		StartingBalance: 100,
		WeeklySpend:     7.0 / 3,
		Window:          DateRange{Start: date("2025-01-01"), End: date("2025-01-30")},
	})

	assert.Equal(t, 99.67, result.Days[0].Balance)
	assert.Equal(t, 90.0, result.Days[29].Balance)
}
