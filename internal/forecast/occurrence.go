package forecast

import "time"

// DefaultMaxIterations bounds how many steps a single rule may be walked
// forward. 1000 weekly steps covers roughly 19 years.
const DefaultMaxIterations = 1000

// Generator expands rules into dated occurrences.
type Generator struct {
	// MaxIterations caps the steps taken per rule. Zero or less means DefaultMaxIterations.
	MaxIterations int
}

// GenerateOccurrences expands rule over [start, end] with the default iteration cap.
func GenerateOccurrences(rule TransactionRule, start, end time.Time) []Occurrence {
	occurrences, _ := Generator{}.Generate(rule, start, end)
	return occurrences
}

// Generate returns the occurrences of rule inside [start, end], both ends
// inclusive, in date order. Times of day are ignored; all dates are taken as
// calendar days in start's location.
//
// Recurring rules are walked forward from their anchor. The n-th date is
// computed from the anchor rather than from the previous date, so a rule
// anchored on the 31st returns to the 31st after a short month. Dates before
// start use up a step without being emitted.
//
// The second result is true when the iteration cap stopped the walk before
// it passed end; the occurrences returned are then a prefix of the full set.
func (g Generator) Generate(rule TransactionRule, start, end time.Time) ([]Occurrence, bool) {
	loc := start.Location()
	start = dateIn(start, loc)
	end = dateIn(end, loc)
	anchor := dateIn(rule.ScheduledDate, loc)

	if anchor.After(end) {
		return nil, false
	}

	recurrence := rule.Recurrence
	if recurrence == nil {
		recurrence = Once{}
	}

	limit := g.MaxIterations
	if limit <= 0 {
		limit = DefaultMaxIterations
	}

	var occurrences []Occurrence
	current := anchor
	for n := 0; ; {
		if n >= limit {
			return occurrences, true
		}
		if !current.Before(start) {
			occurrences = append(occurrences, Occurrence{
				Date:      current,
				Amount:    rule.Amount,
				Direction: rule.Direction,
				Title:     rule.Title,
				Category:  rule.Category,
			})
		}

		n++
		next, repeats := recurrence.nth(anchor, n)
		if !repeats || next.After(end) {
			return occurrences, false
		}
		current = next
	}
}
