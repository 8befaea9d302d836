package internal

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/gigurra/cashflow-forecast/internal/forecast"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// DateLayout is the date format used in records and config files.
const DateLayout = "2006-01-02"

// Amount is a money value as a user typed it or a text column stored it,
// e.g. "1,250.50", "1250.5" or a bare number in YAML/JSON.
type Amount string

// UnmarshalJSON accepts both JSON strings and JSON numbers.
func (a *Amount) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*a = Amount(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidAmount, data)
	}
	*a = Amount(n.String())
	return nil
}

// UnmarshalYAML keeps the scalar's text whatever YAML type it resolves to.
func (a *Amount) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("%w: line %d is not a scalar", ErrInvalidAmount, node.Line)
	}
	*a = Amount(node.Value)
	return nil
}

// Decimal parses the amount, ignoring thousands separators.
func (a Amount) Decimal() (decimal.Decimal, error) {
	return ParseAmount(string(a))
}

// ParseAmount parses a money string such as "1,250.50".
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return decimal.Zero, ErrMissingAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w %q", ErrInvalidAmount, s)
	}
	return d, nil
}

// ParseDate parses a YYYY-MM-DD date, also accepting RFC 3339 timestamps.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w %q", ErrInvalidDate, s)
	}
	return forecast.StartOfDay(t), nil
}

// ParseDirection maps "in"/"out" to a forecast.Direction.
func ParseDirection(s string) (forecast.Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "in":
		return forecast.In, nil
	case "out":
		return forecast.Out, nil
	default:
		return "", fmt.Errorf("%w %q", ErrUnknownDirection, s)
	}
}

// MapFrequencyToRecurrence maps a questionnaire frequency to a recurrence.
// Frequencies with no exact recurrence (quarterly, other, unknown) fall back
// to monthly.
func MapFrequencyToRecurrence(freq string) forecast.Recurrence {
	switch strings.ToLower(strings.TrimSpace(freq)) {
	case "one_off", "once":
		return forecast.Once{}
	case "weekly":
		return forecast.Weekly{}
	case "termly":
		return forecast.Termly{}
	case "yearly":
		return forecast.Yearly{}
	default:
		return forecast.Monthly{}
	}
}

// Profile is a user's financial profile as stored.
type Profile struct {
	UserID          string `yaml:"user_id,omitempty" json:"user_id,omitempty"`
	University      string `yaml:"university,omitempty" json:"university,omitempty"`
	CurrentBalance  Amount `yaml:"current_balance" json:"current_balance"`
	Savings         Amount `yaml:"savings,omitempty" json:"savings,omitempty"`
	WeeklySpendBand int    `yaml:"weekly_spend_band,omitempty" json:"weekly_spend_band,omitempty"`
	WeeklySpend     Amount `yaml:"weekly_spend,omitempty" json:"weekly_spend,omitempty"` // takes precedence over the band
	Currency        string `yaml:"currency,omitempty" json:"currency,omitempty"`
}

// CashflowRecord is one stored income or expense entry.
type CashflowRecord struct {
	ID            string `yaml:"id,omitempty" json:"id,omitempty"`
	UserID        string `yaml:"user_id,omitempty" json:"user_id,omitempty"`
	Direction     string `yaml:"direction" json:"direction"`
	Category      string `yaml:"category,omitempty" json:"category,omitempty"`
	Title         string `yaml:"title" json:"title"`
	Amount        Amount `yaml:"amount" json:"amount"`
	Currency      string `yaml:"currency,omitempty" json:"currency,omitempty"`
	Recurrence    string `yaml:"recurrence" json:"recurrence"`
	ScheduledDate string `yaml:"scheduled_date" json:"scheduled_date"`
	EndDate       string `yaml:"end_date,omitempty" json:"end_date,omitempty"`
	Source        string `yaml:"source,omitempty" json:"source,omitempty"`
}

// ToRule validates the record and converts it into a forecast rule.
// An unknown recurrence is not an error: the record is treated as one-off and
// a warning is logged.
func (r CashflowRecord) ToRule(log logrus.FieldLogger) (forecast.TransactionRule, error) {
	if log == nil {
		log = discardLogger()
	}

	direction, err := ParseDirection(r.Direction)
	if err != nil {
		return forecast.TransactionRule{}, fmt.Errorf("cashflow %q: %w", r.Title, err)
	}

	amount, err := r.Amount.Decimal()
	if err != nil {
		return forecast.TransactionRule{}, fmt.Errorf("cashflow %q: %w", r.Title, err)
	}
	if amount.IsNegative() {
		return forecast.TransactionRule{}, fmt.Errorf("cashflow %q: %w: negative %s", r.Title, ErrInvalidAmount, amount)
	}

	scheduled, err := ParseDate(r.ScheduledDate)
	if err != nil {
		return forecast.TransactionRule{}, fmt.Errorf("cashflow %q: %w", r.Title, err)
	}

	recurrence, err := forecast.ParseRecurrence(r.Recurrence)
	if err != nil {
		log.WithFields(logrus.Fields{
			"title":      r.Title,
			"recurrence": r.Recurrence,
		}).Warn("Unknown recurrence, treating as one-off")
		recurrence = forecast.Once{}
	}

	return forecast.TransactionRule{
		Direction:     direction,
		Amount:        amount.InexactFloat64(),
		ScheduledDate: scheduled,
		Recurrence:    recurrence,
		Title:         r.Title,
		Category:      r.Category,
	}, nil
}

// UserData is everything needed to forecast for one user.
type UserData struct {
	Profile    *Profile           `yaml:"profile,omitempty" json:"profile,omitempty"`
	Cashflows  []CashflowRecord   `yaml:"cashflows,omitempty" json:"cashflows,omitempty"`
	Onboarding *OnboardingAnswers `yaml:"onboarding,omitempty" json:"onboarding,omitempty"`
}

// ApplyOnboarding turns the onboarding answers, if any, into a profile and
// cashflow records. An existing profile is kept; records are appended.
func (d *UserData) ApplyOnboarding(userID string, academicYear int) {
	if d.Onboarding == nil {
		return
	}
	if d.Profile == nil {
		p := d.Onboarding.Profile(userID)
		d.Profile = &p
	}
	d.Cashflows = append(d.Cashflows, d.Onboarding.Records(userID, academicYear)...)
	d.Onboarding = nil
}

// Rules converts every cashflow record into a rule. Invalid records are
// skipped and returned as errors.
func (d UserData) Rules(log logrus.FieldLogger) ([]forecast.TransactionRule, []error) {
	var rules []forecast.TransactionRule
	var errs []error
	for _, record := range d.Cashflows {
		rule, err := record.ToRule(log)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		rules = append(rules, rule)
	}
	return rules, errs
}

// ForecastInput assembles the engine input for window. The weekly spend is the
// profile's explicit amount if set (zero included), otherwise its band resolved
// through cfg. A missing or invalid current balance, or an invalid savings or
// weekly spend, is returned as an ErrInvalidProfile error with an empty input.
func (d UserData) ForecastInput(cfg *Config, window forecast.DateRange, log logrus.FieldLogger) (forecast.Input, []error) {
	if d.Profile == nil {
		return forecast.Input{}, []error{ErrNoProfile}
	}

	balance, err := ParseAmount(string(d.Profile.CurrentBalance))
	if err != nil {
		return forecast.Input{}, []error{profileError("current_balance", err)}
	}

	savings := decimal.Zero
	if !isBlank(d.Profile.Savings) {
		if savings, err = d.Profile.Savings.Decimal(); err != nil {
			return forecast.Input{}, []error{profileError("savings", err)}
		}
	}

	weekly := cfg.WeeklySpendForBand(d.Profile.WeeklySpendBand)
	if !isBlank(d.Profile.WeeklySpend) {
		explicit, err := d.Profile.WeeklySpend.Decimal()
		if err != nil {
			return forecast.Input{}, []error{profileError("weekly_spend", err)}
		}
		weekly = explicit.InexactFloat64()
	}

	rules, errs := d.Rules(log)

	return forecast.Input{
		StartingBalance:         balance.InexactFloat64(),
		SavingsBufferForDisplay: savings.InexactFloat64(),
		Rules:                   rules,
		WeeklySpend:             weekly,
		Window:                  window,
		MaxIterations:           cfg.MaxIterationsOrDefault(),
	}, errs
}

func profileError(field string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrInvalidProfile, field, err)
}

func isBlank(a Amount) bool {
	return strings.TrimSpace(string(a)) == ""
}
