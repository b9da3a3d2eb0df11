package deadline

import "time"

// Federal holidays observed in the District of Columbia, which are the days
// the USPTO is closed for deadline purposes (35 U.S.C. 21(b)).  Fixed-date
// holidays falling on a weekend are observed on the adjacent weekday.

// IsFederalHoliday reports whether t (date portion, UTC) is an observed
// federal holiday.
func IsFederalHoliday(t time.Time) bool {
	y, m, d := t.Date()

	// Fixed-date holidays, with weekend observation shift.
	for _, h := range []struct {
		month time.Month
		day   int
	}{
		{time.January, 1},   // New Year's Day
		{time.June, 19},     // Juneteenth
		{time.July, 4},      // Independence Day
		{time.November, 11}, // Veterans Day
		{time.December, 25}, // Christmas Day
	} {
		if observedMatch(y, h.month, h.day, m, d) {
			return true
		}
	}
	// New Year's Day observed Dec 31 when Jan 1 falls on a Saturday.
	if m == time.December && d == 31 {
		nextNY := time.Date(y+1, time.January, 1, 0, 0, 0, 0, time.UTC)
		if nextNY.Weekday() == time.Saturday {
			return true
		}
	}

	switch {
	case m == time.January && isNthWeekday(y, m, d, time.Monday, 3): // MLK Day
		return true
	case m == time.February && isNthWeekday(y, m, d, time.Monday, 3): // Washington's Birthday
		return true
	case m == time.May && isLastWeekday(y, m, d, time.Monday): // Memorial Day
		return true
	case m == time.September && isNthWeekday(y, m, d, time.Monday, 1): // Labor Day
		return true
	case m == time.October && isNthWeekday(y, m, d, time.Monday, 2): // Columbus Day
		return true
	case m == time.November && isNthWeekday(y, m, d, time.Thursday, 4): // Thanksgiving
		return true
	}
	return false
}

// observedMatch reports whether (m, d) is the observed date of the fixed
// holiday (hm, hd) in year y: the day itself on a weekday, the preceding
// Friday for a Saturday holiday, the following Monday for a Sunday holiday.
func observedMatch(y int, hm time.Month, hd int, m time.Month, d int) bool {
	holiday := time.Date(y, hm, hd, 0, 0, 0, 0, time.UTC)
	observed := holiday
	switch holiday.Weekday() {
	case time.Saturday:
		observed = holiday.AddDate(0, 0, -1)
	case time.Sunday:
		observed = holiday.AddDate(0, 0, 1)
	}
	return observed.Month() == m && observed.Day() == d
}

func isNthWeekday(y int, m time.Month, d int, weekday time.Weekday, n int) bool {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	if t.Weekday() != weekday {
		return false
	}
	return (d-1)/7+1 == n
}

func isLastWeekday(y int, m time.Month, d int, weekday time.Weekday) bool {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	if t.Weekday() != weekday {
		return false
	}
	return d+7 > lastDayOfMonth(y, m)
}
