package internal

// DefaultSpendBands maps the weekly spend band picked during onboarding to a
// weekly amount, the midpoint of each range.
var DefaultSpendBands = map[int]float64{
	1: 65,  // 50-80, very frugal
	2: 100, // 80-120, typical student
	3: 150, // 120-180, social & eating out
	4: 200, // 180+, lifestyle-heavy
}

// WeeklySpendForBand returns the weekly amount for a band, or 0 for an unknown band.
func WeeklySpendForBand(band int) float64 {
	return DefaultSpendBands[band]
}
