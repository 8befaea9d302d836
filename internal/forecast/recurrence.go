package forecast

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrUnknownRecurrence is returned by ParseRecurrence for tags outside the known set.
var ErrUnknownRecurrence = errors.New("unknown recurrence")

// Recurrence is how often a rule repeats. The set is closed: Once, Weekly,
// Monthly, Termly and Yearly are the only implementations.
type Recurrence interface {
	fmt.Stringer

	// nth returns the n-th repeat (n >= 1) counted from anchor,
	// or false when the rule does not repeat.
	nth(anchor time.Time, n int) (time.Time, bool)
}

// Once never repeats.
type Once struct{}

// Weekly repeats every 7 days.
type Weekly struct{}

// Monthly repeats on the same day of month, clamped to the month's last day.
type Monthly struct{}

// Termly repeats every 4 calendar months, an approximation of an academic term.
type Termly struct{}

// Yearly repeats on the same day of year; Feb 29 falls back to Feb 28.
type Yearly struct{}

func (Once) String() string    { return "once" }
func (Weekly) String() string  { return "weekly" }
func (Monthly) String() string { return "monthly" }
func (Termly) String() string  { return "termly" }
func (Yearly) String() string  { return "yearly" }

func (Once) nth(time.Time, int) (time.Time, bool) { return time.Time{}, false }

func (Weekly) nth(anchor time.Time, n int) (time.Time, bool) {
	return anchor.AddDate(0, 0, 7*n), true
}

func (Monthly) nth(anchor time.Time, n int) (time.Time, bool) {
	return AddMonths(anchor, n), true
}

func (Termly) nth(anchor time.Time, n int) (time.Time, bool) {
	return AddMonths(anchor, 4*n), true
}

func (Yearly) nth(anchor time.Time, n int) (time.Time, bool) {
	return AddYears(anchor, n), true
}

// Recurrences lists every variant in display order.
var Recurrences = []Recurrence{Once{}, Weekly{}, Monthly{}, Termly{}, Yearly{}}

// ParseRecurrence maps a tag such as "monthly" to its Recurrence (case-insensitive).
func ParseRecurrence(tag string) (Recurrence, error) {
	tag = strings.ToLower(strings.TrimSpace(tag))
	for _, r := range Recurrences {
		if r.String() == tag {
			return r, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownRecurrence, tag)
}
