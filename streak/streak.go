package streak

import (
	"sort"
	"time"
)

// Day truncates a timestamp to its calendar date. All streak math runs on
// these normalized days, mirroring the (user_id, date) rows in the store.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func firstOfMonth(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func sameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}

// Stats is the pure result of walking an activity log
type Stats struct {
	Current         int
	Longest         int
	TotalActiveDays int
	LastActiveDate  *time.Time
}

// Compute derives streak statistics from a user's active days and the missed
// days bridged by freeze tokens. Duplicates are tolerated. A run extends
// across consecutive calendar days that are either active or frozen; frozen
// days keep a run alive but do not add to its length. The run ending at the
// most recent day only counts as current while that day is today or
// yesterday.
func Compute(activeDates, frozenDates []time.Time, today time.Time) Stats {
	today = Day(today)

	activeSet := make(map[time.Time]bool, len(activeDates))
	for _, d := range activeDates {
		activeSet[Day(d)] = true
	}
	unionSet := make(map[time.Time]bool, len(activeDates)+len(frozenDates))
	for d := range activeSet {
		unionSet[d] = true
	}
	for _, d := range frozenDates {
		unionSet[Day(d)] = true
	}

	var stats Stats
	stats.TotalActiveDays = len(activeSet)
	if len(unionSet) == 0 {
		return stats
	}

	days := make([]time.Time, 0, len(unionSet))
	for d := range unionSet {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	runActive := 0
	for i, d := range days {
		if i > 0 && !d.Equal(days[i-1].AddDate(0, 0, 1)) {
			runActive = 0
		}
		if activeSet[d] {
			runActive++
		}
		if runActive > stats.Longest {
			stats.Longest = runActive
		}
	}

	lastActive := time.Time{}
	for d := range activeSet {
		if d.After(lastActive) {
			lastActive = d
		}
	}
	if !lastActive.IsZero() {
		stats.LastActiveDate = &lastActive
	}

	// The final run is only current while its last day is today or
	// yesterday; one full missed day with no freeze expires it.
	lastUnion := days[len(days)-1]
	if !lastUnion.Before(today.AddDate(0, 0, -1)) {
		stats.Current = runActive
	}

	return stats
}
