package deadline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCalculateThreeMonthPeriod(t *testing.T) {
	c := NewCalculator(EntityLarge)
	res, err := c.Calculate(date(2024, time.January, 1), 3)
	require.NoError(t, err)

	assert.Equal(t, date(2024, time.April, 1), res.StatutoryDue)
	assert.Equal(t, date(2024, time.April, 1), res.Due, "2024-04-01 is a Monday, no roll")
}

func TestCalculateWeekendRoll(t *testing.T) {
	c := NewCalculator(EntityLarge)
	// 2024-03-09 is a Saturday; due rolls to Monday 2024-03-11.
	res, err := c.Calculate(date(2024, time.January, 9), 2)
	require.NoError(t, err)
	assert.Equal(t, date(2024, time.March, 9), res.StatutoryDue)
	assert.Equal(t, date(2024, time.March, 11), res.Due)
}

func TestCalculateHolidayRoll(t *testing.T) {
	c := NewCalculator(EntityLarge)
	// Three months from 2024-04-04 is 2024-07-04, Independence Day (a
	// Thursday); due rolls to Friday 2024-07-05.
	res, err := c.Calculate(date(2024, time.April, 4), 3)
	require.NoError(t, err)
	assert.Equal(t, date(2024, time.July, 5), res.Due)
}

func TestCalculateMonthEndClamp(t *testing.T) {
	c := NewCalculator(EntityLarge)
	// One month from Jan 31 in a leap year is Feb 29.
	res, err := c.Calculate(date(2024, time.January, 31), 1)
	require.NoError(t, err)
	assert.Equal(t, date(2024, time.February, 29), res.StatutoryDue)
}

func TestCalculateExtensionTiers(t *testing.T) {
	c := NewCalculator(EntityLarge)
	res, err := c.Calculate(date(2024, time.January, 1), 3)
	require.NoError(t, err)

	require.Len(t, res.Extensions, 5)
	assert.Equal(t, 1, res.Extensions[0].Months)
	assert.Equal(t, 220, res.Extensions[0].Fee)
	assert.Equal(t, 3160, res.Extensions[4].Fee)
	// Statutory due 2024-04-01 + 5 months = 2024-09-01, a Sunday; Labor Day
	// is Monday 2024-09-02, so the final deadline rolls to Tuesday.
	assert.Equal(t, date(2024, time.September, 3), res.FinalDeadline)
}

func TestFeeForEntitySizes(t *testing.T) {
	assert.Equal(t, 0, NewCalculator(EntityLarge).FeeFor(0), "statutory period is free")
	assert.Equal(t, 88, NewCalculator(EntitySmall).FeeFor(1))
	assert.Equal(t, 44, NewCalculator(EntityMicro).FeeFor(1))
	assert.Equal(t, 3160, NewCalculator(EntityLarge).FeeFor(99), "clamped to top tier")
}

func TestCalculateRejectsBadInput(t *testing.T) {
	c := NewCalculator(EntityLarge)
	_, err := c.Calculate(time.Time{}, 3)
	assert.Error(t, err)
	_, err = c.Calculate(date(2024, time.January, 1), 0)
	assert.Error(t, err)
	_, err = c.Calculate(date(2024, time.January, 1), 7)
	assert.Error(t, err)
}

func TestIsFederalHoliday(t *testing.T) {
	holidays := []time.Time{
		date(2024, time.January, 1),   // New Year's Day (Monday)
		date(2024, time.January, 15),  // MLK Day
		date(2024, time.May, 27),      // Memorial Day
		date(2024, time.June, 19),     // Juneteenth
		date(2024, time.July, 4),      // Independence Day
		date(2024, time.September, 2), // Labor Day
		date(2024, time.November, 28), // Thanksgiving
		date(2024, time.December, 25), // Christmas
	}
	for _, h := range holidays {
		assert.True(t, IsFederalHoliday(h), "%s should be a holiday", h.Format("2006-01-02"))
	}

	assert.False(t, IsFederalHoliday(date(2024, time.March, 11)))
	assert.False(t, IsFederalHoliday(date(2024, time.July, 5)))
}

func TestObservedHolidayShift(t *testing.T) {
	// 2027-07-04 falls on a Sunday; observed Monday 2027-07-05.
	assert.True(t, IsFederalHoliday(date(2027, time.July, 5)))
	// 2026-07-04 falls on a Saturday; observed Friday 2026-07-03.
	assert.True(t, IsFederalHoliday(date(2026, time.July, 3)))
}
