package internal

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultCurrency is the single currency unit the application works in.
const DefaultCurrency = "GBP"

// OnboardingAnswers holds the answers to the financial onboarding questionnaire.
type OnboardingAnswers struct {
	University   string `yaml:"university,omitempty" json:"university,omitempty"`
	Balance      Amount `yaml:"balance" json:"balance"`
	Savings      Amount `yaml:"savings,omitempty" json:"savings,omitempty"`
	WeeklySpend  int    `yaml:"weekly_spend,omitempty" json:"weekly_spend,omitempty"` // spend band, 1-4
	AcademicYear int    `yaml:"academic_year,omitempty" json:"academic_year,omitempty"`

	StudentLoan bool              `yaml:"student_loan,omitempty" json:"student_loan,omitempty"`
	LoanAmount  Amount            `yaml:"loan_amount,omitempty" json:"loan_amount,omitempty"`
	LoanMonths  []string          `yaml:"loan_months,omitempty" json:"loan_months,omitempty"`
	LoanDates   map[string]string `yaml:"loan_dates,omitempty" json:"loan_dates,omitempty"` // month key -> exact date

	Bursary       bool     `yaml:"bursary,omitempty" json:"bursary,omitempty"`
	BursaryAmount Amount   `yaml:"bursary_amount,omitempty" json:"bursary_amount,omitempty"`
	BursaryDates  []string `yaml:"bursary_dates,omitempty" json:"bursary_dates,omitempty"`

	OtherIncome      bool            `yaml:"other_income,omitempty" json:"other_income,omitempty"`
	OtherIncomeItems []RecurringItem `yaml:"other_income_items,omitempty" json:"other_income_items,omitempty"`

	RegularExpense      bool            `yaml:"regular_expense,omitempty" json:"regular_expense,omitempty"`
	RegularExpenseItems []RecurringItem `yaml:"regular_expense_items,omitempty" json:"regular_expense_items,omitempty"`

	OneOffPayments bool         `yaml:"one_off_payments,omitempty" json:"one_off_payments,omitempty"`
	OneOffIn       []OneOffItem `yaml:"one_off_in,omitempty" json:"one_off_in,omitempty"`
	OneOffOut      []OneOffItem `yaml:"one_off_out,omitempty" json:"one_off_out,omitempty"`
}

// RecurringItem is a regular income or expense entered during onboarding.
type RecurringItem struct {
	Type      string `yaml:"type,omitempty" json:"type,omitempty"`
	Amount    Amount `yaml:"amount" json:"amount"`
	Date      string `yaml:"date,omitempty" json:"date,omitempty"`
	Frequency string `yaml:"frequency,omitempty" json:"frequency,omitempty"`
}

// OneOffItem is a single upcoming payment in or out.
type OneOffItem struct {
	Name   string `yaml:"name,omitempty" json:"name,omitempty"`
	Amount Amount `yaml:"amount" json:"amount"`
	Date   string `yaml:"date,omitempty" json:"date,omitempty"`
}

var incomeTypeLabels = map[string]string{
	"part_time_job": "Part-time job",
	"family":        "Family support",
	"freelance":     "Freelance work",
	"investments":   "Investments",
	"other":         "Other",
}

var paymentTypeLabels = map[string]string{
	"rent":         "Rent",
	"bills":        "Bills",
	"subscription": "Subscription",
	"insurance":    "Insurance",
	"other":        "Other",
}

// academicMonths lists month keys in academic-year order, September first.
var academicMonths = []string{
	"september", "october", "november", "december",
	"january", "february", "march", "april", "may", "june", "july", "august",
}

// AcademicYear returns the calendar year in which the academic year containing t started.
func AcademicYear(t time.Time) int {
	if t.Month() >= time.September {
		return t.Year()
	}
	return t.Year() - 1
}

// MonthDefaultDate returns the 1st of the named month within the academic year
// starting in academicYear, or "" for an unknown month.
func MonthDefaultDate(month string, academicYear int) string {
	month = strings.ToLower(strings.TrimSpace(month))
	for i, key := range academicMonths {
		if key != month {
			continue
		}
		d := time.Date(academicYear, time.September+time.Month(i), 1, 0, 0, 0, 0, time.UTC)
		return d.Format(DateLayout)
	}
	return ""
}

// splitEvenly divides total into n instalments rounded to the penny.
// It returns "" when total is missing or invalid or n is zero.
func splitEvenly(total Amount, n int) Amount {
	if n == 0 {
		return ""
	}
	d, err := total.Decimal()
	if err != nil {
		return ""
	}
	return Amount(d.DivRound(decimal.NewFromInt(int64(n)), 2).StringFixed(2))
}

// Profile returns the financial profile implied by the answers.
func (a OnboardingAnswers) Profile(userID string) Profile {
	return Profile{
		UserID:          userID,
		University:      a.University,
		CurrentBalance:  a.Balance,
		Savings:         a.Savings,
		WeeklySpendBand: a.WeeklySpend,
		Currency:        DefaultCurrency,
	}
}

// Records maps the answers to cashflow records. Months without an exact loan
// date default to the 1st of that month in academicYear (a.AcademicYear wins
// when set). Items without an amount are skipped.
func (a OnboardingAnswers) Records(userID string, academicYear int) []CashflowRecord {
	if a.AcademicYear != 0 {
		academicYear = a.AcademicYear
	}

	var records []CashflowRecord
	add := func(r CashflowRecord) {
		r.UserID = userID
		r.Currency = DefaultCurrency
		r.Source = "manual"
		records = append(records, r)
	}

	if a.StudentLoan && len(a.LoanMonths) > 0 {
		perInstalment := splitEvenly(a.LoanAmount, len(a.LoanMonths))
		for _, month := range a.LoanMonths {
			scheduled := a.LoanDates[month]
			if scheduled == "" {
				scheduled = MonthDefaultDate(month, academicYear)
			}
			add(CashflowRecord{
				Direction:     "in",
				Category:      "student_loan",
				Title:         fmt.Sprintf("Student loan - %s", month),
				Amount:        perInstalment,
				Recurrence:    "yearly",
				ScheduledDate: scheduled,
			})
		}
	}

	if a.Bursary && len(a.BursaryDates) > 0 {
		var dates []string
		for _, d := range a.BursaryDates {
			if strings.TrimSpace(d) != "" {
				dates = append(dates, d)
			}
		}
		perPayment := splitEvenly(a.BursaryAmount, len(dates))
		for _, d := range dates {
			add(CashflowRecord{
				Direction:     "in",
				Category:      "bursary",
				Title:         "Bursary",
				Amount:        perPayment,
				Recurrence:    "yearly",
				ScheduledDate: d,
			})
		}
	}

	if a.OtherIncome {
		for _, item := range a.OtherIncomeItems {
			if strings.TrimSpace(string(item.Amount)) == "" {
				continue
			}
			add(CashflowRecord{
				Direction:     "in",
				Category:      withDefault(item.Type, "income"),
				Title:         withDefault(incomeTypeLabels[item.Type], "Other income"),
				Amount:        item.Amount,
				Recurrence:    MapFrequencyToRecurrence(item.Frequency).String(),
				ScheduledDate: item.Date,
			})
		}
	}

	if a.RegularExpense {
		for _, item := range a.RegularExpenseItems {
			if strings.TrimSpace(string(item.Amount)) == "" {
				continue
			}
			add(CashflowRecord{
				Direction:     "out",
				Category:      withDefault(item.Type, "bill"),
				Title:         withDefault(paymentTypeLabels[item.Type], "Regular payment"),
				Amount:        item.Amount,
				Recurrence:    MapFrequencyToRecurrence(item.Frequency).String(),
				ScheduledDate: item.Date,
			})
		}
	}

	if a.OneOffPayments {
		for _, item := range a.OneOffIn {
			if strings.TrimSpace(string(item.Amount)) == "" {
				continue
			}
			add(CashflowRecord{
				Direction:     "in",
				Category:      "one_off",
				Title:         withDefault(item.Name, "One-off income"),
				Amount:        item.Amount,
				Recurrence:    "once",
				ScheduledDate: item.Date,
			})
		}
		for _, item := range a.OneOffOut {
			if strings.TrimSpace(string(item.Amount)) == "" {
				continue
			}
			add(CashflowRecord{
				Direction:     "out",
				Category:      "one_off",
				Title:         withDefault(item.Name, "One-off expense"),
				Amount:        item.Amount,
				Recurrence:    "once",
				ScheduledDate: item.Date,
			})
		}
	}

	return records
}

func withDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
