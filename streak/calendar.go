package streak

import (
	"time"

	"github.com/next-chapter/api/models"
)

const DefaultWindowDays = 90

// BuildCalendarWindow buckets the last windowDays days into Sunday-aligned
// weeks for heatmap rendering. Every in-range day gets a cell (inactive days
// included); slots outside the window stay nil. Month markers point at the
// first bucket whose earliest in-range day opens a new calendar month.
func BuildCalendarWindow(activeDates, frozenDates []time.Time, today time.Time, windowDays int) models.CalendarWindow {
	if windowDays <= 0 {
		windowDays = DefaultWindowDays
	}
	today = Day(today)
	start := today.AddDate(0, 0, -(windowDays - 1))

	activeSet := make(map[time.Time]bool, len(activeDates))
	for _, d := range activeDates {
		activeSet[Day(d)] = true
	}
	frozenSet := make(map[time.Time]bool, len(frozenDates))
	for _, d := range frozenDates {
		frozenSet[Day(d)] = true
	}

	window := models.CalendarWindow{WindowDays: windowDays}
	lastMonth := 0

	for d := start; !d.After(today); d = d.AddDate(0, 0, 1) {
		weekStart := d.AddDate(0, 0, -int(d.Weekday()))

		n := len(window.Weeks)
		if n == 0 || !window.Weeks[n-1].WeekStart.Equal(weekStart) {
			window.Weeks = append(window.Weeks, models.WeekBucket{WeekStart: weekStart})
			n++

			// d is this bucket's earliest in-range day
			month := d.Year()*12 + int(d.Month())
			if month != lastMonth {
				window.Months = append(window.Months, models.MonthMarker{
					BucketIndex: n - 1,
					Label:       d.Format("Jan"),
				})
				lastMonth = month
			}
		}

		window.Weeks[n-1].Days[int(d.Weekday())] = &models.DayCell{
			Date:   d,
			Active: activeSet[d],
			Frozen: frozenSet[d],
		}
	}

	return window
}
