// Package forecast projects a day-by-day bank balance from a starting balance,
// a set of income and expense rules and an average discretionary spend, and
// extracts insights (lowest point, first negative day) from the projection.
//
// Everything in this package is a pure computation over values: no I/O, no
// shared state, identical inputs always give identical output.
package forecast

import "time"

// Direction tells whether a transaction adds to or takes from the balance.
type Direction string

const (
	In  Direction = "in"
	Out Direction = "out"
)

// TransactionRule is an income or expense obligation, possibly recurring.
// Amount is always positive; the sign comes from Direction.
type TransactionRule struct {
	Direction     Direction
	Amount        float64
	ScheduledDate time.Time // anchor, the first occurrence
	Recurrence    Recurrence
	Title         string
	Category      string
}

// Occurrence is one concrete dated event produced from a rule.
// Amount stays unsigned; it is signed by Direction when applied.
type Occurrence struct {
	Date      time.Time
	Amount    float64
	Direction Direction
	Title     string
	Category  string
}

// DayTransaction is one event applied to the balance on a given day.
type DayTransaction struct {
	Title     string    `json:"title"`
	Category  string    `json:"category,omitempty"`
	Amount    float64   `json:"amount"`
	Direction Direction `json:"direction"`
	Synthetic bool      `json:"synthetic,omitempty"` // the daily discretionary spend entry
}

// ForecastDay is the end-of-day state of one calendar day.
type ForecastDay struct {
	Date         time.Time        `json:"date"`
	Balance      float64          `json:"balance"`
	Transactions []DayTransaction `json:"transactions,omitempty"`
}

// Insights summarises a timeline.
type Insights struct {
	LowestBalance     float64
	LowestBalanceDate *time.Time
	RunOutDate        *time.Time
	DaysUntilNegative *int
	IsHealthy         bool
	HasData           bool // false for an empty timeline, which is "no data", not "healthy"
}

// DateRange is an inclusive window of calendar days.
type DateRange struct {
	Start time.Time
	End   time.Time
}
