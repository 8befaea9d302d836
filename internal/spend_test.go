package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWeeklySpendForBand(t *testing.T) {
	assert.Equal(t, 65.0, WeeklySpendForBand(1))
	assert.Equal(t, 100.0, WeeklySpendForBand(2))
	assert.Equal(t, 150.0, WeeklySpendForBand(3))
	assert.Equal(t, 200.0, WeeklySpendForBand(4))
	assert.Equal(t, 0.0, WeeklySpendForBand(0))
	assert.Equal(t, 0.0, WeeklySpendForBand(5))
}
