package internal

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/gigurra/cashflow-forecast/internal/forecast"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// OutputOptions controls how a forecast is displayed
type OutputOptions struct {
	View              forecast.View
	Daily             bool // one row per day instead of one per period
	Currency          Currency
	LowBalanceWarning *float64
}

// JSONOutput is the root JSON output object
type JSONOutput struct {
	Currency      string          `json:"currency"`
	Insights      JSONInsights    `json:"insights"`
	Totals        forecast.Totals `json:"totals"`
	SavingsBuffer float64         `json:"savings_buffer"`
	Periods       []JSONPeriod    `json:"periods,omitempty"`
	Days          []JSONDay       `json:"days,omitempty"`
	Truncated     []string        `json:"truncated,omitempty"`
}

// JSONInsights is the JSON form of forecast.Insights.
// LowestBalance is null for an empty forecast.
type JSONInsights struct {
	HasData           bool     `json:"has_data"`
	IsHealthy         bool     `json:"is_healthy"`
	LowestBalance     *float64 `json:"lowest_balance"`
	LowestBalanceDate string   `json:"lowest_balance_date,omitempty"`
	RunOutDate        string   `json:"run_out_date,omitempty"`
	DaysUntilNegative *int     `json:"days_until_negative,omitempty"`
}

// JSONDay is one day of the timeline
type JSONDay struct {
	Date         string                    `json:"date"`
	Balance      float64                   `json:"balance"`
	Transactions []forecast.DayTransaction `json:"transactions,omitempty"`
}

// JSONPeriod is one page of the timeline
type JSONPeriod struct {
	Start          string  `json:"start"`
	End            string  `json:"end"`
	OpeningBalance float64 `json:"opening_balance"`
	ClosingBalance float64 `json:"closing_balance"`
	LowestBalance  float64 `json:"lowest_balance"`
	Income         float64 `json:"income"`
	Expense        float64 `json:"expense"`
}

// NewJSONInsights converts insights to their JSON form
func NewJSONInsights(in forecast.Insights) JSONInsights {
	out := JSONInsights{
		HasData:           in.HasData,
		IsHealthy:         in.IsHealthy,
		DaysUntilNegative: in.DaysUntilNegative,
	}
	if !math.IsInf(in.LowestBalance, 0) {
		lowest := in.LowestBalance
		out.LowestBalance = &lowest
	}
	if in.LowestBalanceDate != nil {
		out.LowestBalanceDate = in.LowestBalanceDate.Format(DateLayout)
	}
	if in.RunOutDate != nil {
		out.RunOutDate = in.RunOutDate.Format(DateLayout)
	}
	return out
}

// BuildJSONOutput assembles the JSON document for a forecast
func BuildJSONOutput(fc forecast.Forecast, insights forecast.Insights, opts OutputOptions) JSONOutput {
	output := JSONOutput{
		Currency:      opts.Currency.Code,
		Insights:      NewJSONInsights(insights),
		Totals:        forecast.CalculateTotals(fc.Days),
		SavingsBuffer: fc.SavingsBufferForDisplay,
		Truncated:     fc.Truncated,
	}

	if opts.Daily {
		for _, day := range fc.Days {
			output.Days = append(output.Days, JSONDay{
				Date:         day.Date.Format(DateLayout),
				Balance:      day.Balance,
				Transactions: day.Transactions,
			})
		}
		return output
	}

	for _, p := range forecast.SummarizePeriods(fc.Days, opts.View) {
		output.Periods = append(output.Periods, JSONPeriod{
			Start:          p.Start.Format(DateLayout),
			End:            p.End.Format(DateLayout),
			OpeningBalance: p.OpeningBalance,
			ClosingBalance: p.ClosingBalance,
			LowestBalance:  p.LowestBalance,
			Income:         forecast.RoundCents(p.Income),
			Expense:        forecast.RoundCents(p.Expense),
		})
	}
	return output
}

// PrintForecastJSON outputs the forecast in JSON format
func PrintForecastJSON(w io.Writer, fc forecast.Forecast, insights forecast.Insights, opts OutputOptions) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(BuildJSONOutput(fc, insights, opts)); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}

// PrintForecastTable outputs the forecast as a formatted table followed by the insights
func PrintForecastTable(w io.Writer, fc forecast.Forecast, insights forecast.Insights, opts OutputOptions) {
	if !insights.HasData {
		fmt.Fprintln(w, "No forecast data.")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)

	totals := forecast.CalculateTotals(fc.Days)
	money := opts.Currency.Format

	if opts.Daily {
		t.AppendHeader(table.Row{"Date", "Balance", "Transactions"})
		for _, day := range fc.Days {
			t.AppendRow(table.Row{day.Date.Format("Mon 2006-01-02"), colorBalance(day.Balance, money), describeTransactions(day.Transactions, opts.Currency)})
		}
		t.AppendSeparator()
		t.AppendFooter(table.Row{"", "", text.Bold.Sprintf("In %s / Out %s", money(totals.Income), money(totals.Expense))})
		t.SetColumnConfigs([]table.ColumnConfig{
			{Number: 2, Align: text.AlignRight},
		})
	} else {
		t.AppendHeader(table.Row{"Period", "Opening", "Money in", "Money out", "Closing", "Lowest"})
		for _, p := range forecast.SummarizePeriods(fc.Days, opts.View) {
			period := p.Start.Format("2006-01-02") + " - " + p.End.Format("2006-01-02")
			t.AppendRow(table.Row{
				period,
				colorBalance(p.OpeningBalance, money),
				money(p.Income),
				money(p.Expense),
				colorBalance(p.ClosingBalance, money),
				colorBalance(p.LowestBalance, money),
			})
		}
		t.AppendSeparator()
		t.AppendFooter(table.Row{text.Bold.Sprint("Total"), "", text.Bold.Sprint(money(totals.Income)), text.Bold.Sprint(money(totals.Expense)), "", ""})
		t.SetColumnConfigs([]table.ColumnConfig{
			{Number: 2, Align: text.AlignRight},
			{Number: 3, Align: text.AlignRight},
			{Number: 4, Align: text.AlignRight},
			{Number: 5, Align: text.AlignRight},
			{Number: 6, Align: text.AlignRight},
		})
	}

	t.SetStyle(table.StyleRounded)
	t.Style().Format.Header = text.FormatDefault
	t.Style().Format.Footer = text.FormatDefault
	t.Render()

	fmt.Fprintln(w)
	printInsights(w, fc, insights, opts)
}

func printInsights(w io.Writer, fc forecast.Forecast, insights forecast.Insights, opts OutputOptions) {
	money := opts.Currency.Format

	if insights.LowestBalanceDate != nil {
		fmt.Fprintf(w, "Lowest balance: %s on %s\n",
			colorBalance(insights.LowestBalance, money),
			insights.LowestBalanceDate.Format("2006-01-02"))
	} else {
		fmt.Fprintln(w, "Lowest balance: n/a")
	}

	if insights.RunOutDate != nil {
		fmt.Fprintf(w, "%s on %s (in %d days)\n",
			text.FgRed.Sprint("Money runs out"),
			insights.RunOutDate.Format("2006-01-02"),
			*insights.DaysUntilNegative)
	} else {
		fmt.Fprintln(w, text.FgGreen.Sprint("Balance stays positive for the whole forecast"))
	}

	if opts.LowBalanceWarning != nil && insights.IsHealthy && insights.LowestBalance < *opts.LowBalanceWarning {
		fmt.Fprintf(w, "%s: balance dips below %s\n", text.FgYellow.Sprint("Warning"), money(*opts.LowBalanceWarning))
	}

	if fc.SavingsBufferForDisplay > 0 {
		fmt.Fprintf(w, "Savings buffer (not included above): %s\n", money(fc.SavingsBufferForDisplay))
	}
}

func colorBalance(v float64, format func(float64) string) string {
	if v < 0 {
		return text.FgRed.Sprint(format(v))
	}
	return format(v)
}

func describeTransactions(txs []forecast.DayTransaction, c Currency) string {
	var parts []string
	for _, tx := range txs {
		if tx.Synthetic {
			continue
		}
		sign := "+"
		if tx.Direction == forecast.Out {
			sign = "-"
		}
		parts = append(parts, fmt.Sprintf("%s %s%s", tx.Title, sign, c.Format(tx.Amount)))
	}
	return strings.Join(parts, ", ")
}
