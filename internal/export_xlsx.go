package internal

import (
	"fmt"
	"strings"

	"github.com/gigurra/cashflow-forecast/internal/forecast"
	"github.com/xuri/excelize/v2"
)

const (
	forecastSheet = "Forecast"
	insightsSheet = "Insights"
)

// ExportForecastXLSX writes the daily timeline and the insights to an Excel workbook
func ExportForecastXLSX(path string, fc forecast.Forecast, insights forecast.Insights, c Currency) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), forecastSheet); err != nil {
		return fmt.Errorf("renaming sheet: %w", err)
	}

	if err := f.SetSheetRow(forecastSheet, "A1", &[]any{"Date", "Balance", "Transactions"}); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, day := range fc.Days {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{day.Date.Format(DateLayout), day.Balance, describeTransactions(day.Transactions, c)}
		if err := f.SetSheetRow(forecastSheet, cell, &row); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	if err := f.SetColWidth(forecastSheet, "A", "A", 12); err != nil {
		return err
	}
	if err := f.SetColWidth(forecastSheet, "C", "C", 60); err != nil {
		return err
	}

	if _, err := f.NewSheet(insightsSheet); err != nil {
		return fmt.Errorf("creating insights sheet: %w", err)
	}
	for i, row := range insightRows(fc, insights) {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(insightsSheet, cell, &row); err != nil {
			return fmt.Errorf("writing insights: %w", err)
		}
	}
	if err := f.SetColWidth(insightsSheet, "A", "A", 24); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving workbook: %w", err)
	}
	return nil
}

func insightRows(fc forecast.Forecast, insights forecast.Insights) [][]any {
	rows := [][]any{
		{"Healthy", insights.IsHealthy},
		{"Savings buffer", fc.SavingsBufferForDisplay},
	}
	if insights.LowestBalanceDate == nil {
		return append(rows, []any{"Lowest balance", "n/a"})
	}

	rows = append(rows,
		[]any{"Lowest balance", insights.LowestBalance},
		[]any{"Lowest balance date", insights.LowestBalanceDate.Format(DateLayout)},
	)
	if insights.RunOutDate != nil {
		rows = append(rows,
			[]any{"Run out date", insights.RunOutDate.Format(DateLayout)},
			[]any{"Days until negative", *insights.DaysUntilNegative},
		)
	}

	totals := forecast.CalculateTotals(fc.Days)
	rows = append(rows,
		[]any{"Total income", forecast.RoundCents(totals.Income)},
		[]any{"Total expense", forecast.RoundCents(totals.Expense)},
		[]any{"Net", forecast.RoundCents(totals.Net())},
	)
	if len(fc.Truncated) > 0 {
		rows = append(rows, []any{"Truncated rules", strings.Join(fc.Truncated, ", ")})
	}
	return rows
}
