package internal

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// cashflowColumns are the header names the spreadsheet parser looks for.
// Category is optional.
var cashflowColumns = []string{"Direction", "Title", "Category", "Amount", "Recurrence", "Date"}

// ParseCashflowXLSX reads cashflow records from the first sheet of an Excel
// workbook. The header row may appear anywhere; rows above it are ignored, as
// are rows missing a direction, amount or date. The result has no profile.
// Cells are read unformatted, so Date may be text or a real Excel date.
func ParseCashflowXLSX(path string) (UserData, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return UserData{}, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return UserData{}, fmt.Errorf("no sheets found in file")
	}

	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return UserData{}, fmt.Errorf("reading sheet: %w", err)
	}

	props, err := f.GetWorkbookProps()
	if err != nil {
		return UserData{}, fmt.Errorf("reading workbook properties: %w", err)
	}
	date1904 := props.Date1904 != nil && *props.Date1904

	// Find header row and column indices
	cols := map[string]int{}
	dataStartRow := -1
	for i, row := range rows {
		found := map[string]int{}
		for j, cell := range row {
			cell = strings.TrimSpace(cell)
			for _, name := range cashflowColumns {
				if strings.EqualFold(cell, name) {
					found[name] = j
				}
			}
		}
		if hasRequiredColumns(found) {
			cols = found
			dataStartRow = i + 1
			break
		}
	}

	if dataStartRow < 0 {
		return UserData{}, fmt.Errorf("could not find required columns (Direction, Title, Amount, Recurrence, Date)")
	}

	cell := func(row []string, name string) string {
		j, ok := cols[name]
		if !ok || j >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[j])
	}

	var records []CashflowRecord
	for _, row := range rows[dataStartRow:] {
		record := CashflowRecord{
			Direction:     strings.ToLower(cell(row, "Direction")),
			Title:         cell(row, "Title"),
			Category:      cell(row, "Category"),
			Amount:        Amount(cell(row, "Amount")),
			Recurrence:    strings.ToLower(cell(row, "Recurrence")),
			ScheduledDate: cellDate(cell(row, "Date"), date1904),
			Source:        "xlsx",
		}

		// Skip empty rows
		if record.Direction == "" || record.Amount == "" || record.ScheduledDate == "" {
			continue
		}

		records = append(records, record)
	}

	return UserData{Cashflows: records}, nil
}

// cellDate turns an Excel date serial into a DateLayout string. Anything else,
// including text dates, is returned unchanged for ParseDate to judge later.
func cellDate(value string, date1904 bool) string {
	if value == "" {
		return ""
	}
	if _, err := ParseDate(value); err == nil {
		return value
	}
	serial, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return value
	}
	t, err := excelize.ExcelDateToTime(serial, date1904)
	if err != nil {
		return value
	}
	return t.Format(DateLayout)
}

func hasRequiredColumns(found map[string]int) bool {
	for _, name := range cashflowColumns {
		if name == "Category" {
			continue
		}
		if _, ok := found[name]; !ok {
			return false
		}
	}
	return true
}

func init() {
	RegisterParser("cashflow-xlsx", ParserFunc(ParseCashflowXLSX), ".xlsx")
}
