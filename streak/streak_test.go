package streak

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestComputeEmpty(t *testing.T) {
	stats := Compute(nil, nil, date(2025, 6, 10))

	if stats.Current != 0 || stats.Longest != 0 || stats.TotalActiveDays != 0 {
		t.Fatalf("expected zero stats, got %+v", stats)
	}
	if stats.LastActiveDate != nil {
		t.Fatalf("expected nil last active date, got %v", stats.LastActiveDate)
	}
}

func TestComputeConsecutiveRun(t *testing.T) {
	active := []time.Time{
		date(2025, 6, 8),
		date(2025, 6, 9),
		date(2025, 6, 10),
	}

	stats := Compute(active, nil, date(2025, 6, 10))

	if stats.Current != 3 {
		t.Errorf("current = %d, want 3", stats.Current)
	}
	if stats.Longest != 3 {
		t.Errorf("longest = %d, want 3", stats.Longest)
	}
	if stats.TotalActiveDays != 3 {
		t.Errorf("total active days = %d, want 3", stats.TotalActiveDays)
	}
	if stats.LastActiveDate == nil || !stats.LastActiveDate.Equal(date(2025, 6, 10)) {
		t.Errorf("last active date = %v, want 2025-06-10", stats.LastActiveDate)
	}
}

func TestComputeStreakExpiresAfterMissedDay(t *testing.T) {
	active := []time.Time{
		date(2025, 6, 1),
		date(2025, 6, 2),
		date(2025, 6, 3),
	}

	// Day 4 missed with no freeze; by day 5 the run is gone.
	stats := Compute(active, nil, date(2025, 6, 5))

	if stats.Current != 0 {
		t.Errorf("current = %d, want 0", stats.Current)
	}
	if stats.Longest != 3 {
		t.Errorf("longest = %d, want 3", stats.Longest)
	}
}

func TestComputeStreakStillCurrentYesterday(t *testing.T) {
	active := []time.Time{
		date(2025, 6, 1),
		date(2025, 6, 2),
		date(2025, 6, 3),
	}

	// Today has not been read yet but the run ended yesterday.
	stats := Compute(active, nil, date(2025, 6, 4))

	if stats.Current != 3 {
		t.Errorf("current = %d, want 3", stats.Current)
	}
}

func TestComputeFrozenDayBridgesWithoutCounting(t *testing.T) {
	active := []time.Time{
		date(2025, 6, 1),
		date(2025, 6, 2),
		date(2025, 6, 3),
		date(2025, 6, 5),
	}
	frozen := []time.Time{date(2025, 6, 4)}

	stats := Compute(active, frozen, date(2025, 6, 5))

	if stats.Current != 4 {
		t.Errorf("current = %d, want 4 (frozen day bridges but does not count)", stats.Current)
	}
	if stats.TotalActiveDays != 4 {
		t.Errorf("total active days = %d, want 4", stats.TotalActiveDays)
	}
}

func TestComputeDuplicateDaysAreIdempotent(t *testing.T) {
	active := []time.Time{
		date(2025, 6, 9),
		date(2025, 6, 9),
		date(2025, 6, 10),
		time.Date(2025, 6, 10, 23, 15, 0, 0, time.UTC),
	}

	stats := Compute(active, nil, date(2025, 6, 10))

	if stats.Current != 2 {
		t.Errorf("current = %d, want 2", stats.Current)
	}
	if stats.TotalActiveDays != 2 {
		t.Errorf("total active days = %d, want 2", stats.TotalActiveDays)
	}
}

func TestComputeLongestSurvivesBrokenRuns(t *testing.T) {
	active := []time.Time{
		date(2025, 5, 1),
		date(2025, 5, 2),
		date(2025, 5, 3),
		date(2025, 5, 4),
		date(2025, 5, 5),
		date(2025, 6, 9),
		date(2025, 6, 10),
	}

	stats := Compute(active, nil, date(2025, 6, 10))

	if stats.Current != 2 {
		t.Errorf("current = %d, want 2", stats.Current)
	}
	if stats.Longest != 5 {
		t.Errorf("longest = %d, want 5", stats.Longest)
	}
	if stats.TotalActiveDays != 7 {
		t.Errorf("total active days = %d, want 7", stats.TotalActiveDays)
	}
}

func TestComputeCurrentNeverExceedsLongest(t *testing.T) {
	cases := [][]time.Time{
		{date(2025, 6, 10)},
		{date(2025, 6, 8), date(2025, 6, 9), date(2025, 6, 10)},
		{date(2025, 6, 1), date(2025, 6, 9), date(2025, 6, 10)},
	}

	for _, active := range cases {
		stats := Compute(active, nil, date(2025, 6, 10))
		if stats.Current > stats.Longest {
			t.Errorf("current %d exceeds longest %d for %v", stats.Current, stats.Longest, active)
		}
	}
}

func TestComputeTrailingFrozenDayKeepsRunCurrent(t *testing.T) {
	active := []time.Time{
		date(2025, 6, 8),
		date(2025, 6, 9),
	}
	frozen := []time.Time{date(2025, 6, 10)}

	stats := Compute(active, frozen, date(2025, 6, 11))

	if stats.Current != 2 {
		t.Errorf("current = %d, want 2", stats.Current)
	}
}

func TestDayNormalizesToUTCMidnight(t *testing.T) {
	stamp := time.Date(2025, 6, 10, 18, 45, 12, 999, time.UTC)

	day := Day(stamp)

	if !day.Equal(date(2025, 6, 10)) {
		t.Fatalf("Day(%v) = %v, want 2025-06-10T00:00:00Z", stamp, day)
	}
}
