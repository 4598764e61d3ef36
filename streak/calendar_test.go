package streak

import (
	"testing"
	"time"
)

func TestBuildCalendarWindowSundayAlignment(t *testing.T) {
	// Five-day window ending Sunday 2025-01-05: the window opens on
	// Wednesday 2025-01-01, mid-week.
	today := date(2025, 1, 5)
	active := []time.Time{
		date(2025, 1, 2),
		date(2025, 1, 4),
	}
	frozen := []time.Time{date(2025, 1, 3)}

	window := BuildCalendarWindow(active, frozen, today, 5)

	if window.WindowDays != 5 {
		t.Fatalf("window days = %d, want 5", window.WindowDays)
	}
	if len(window.Weeks) != 2 {
		t.Fatalf("weeks = %d, want 2", len(window.Weeks))
	}

	first := window.Weeks[0]
	if !first.WeekStart.Equal(date(2024, 12, 29)) {
		t.Errorf("first week start = %v, want Sunday 2024-12-29", first.WeekStart)
	}
	for i := 0; i < 3; i++ {
		if first.Days[i] != nil {
			t.Errorf("day slot %d before the window should be nil, got %+v", i, first.Days[i])
		}
	}
	for i := 3; i < 7; i++ {
		if first.Days[i] == nil {
			t.Fatalf("day slot %d inside the window should be populated", i)
		}
	}
	if !first.Days[3].Date.Equal(date(2025, 1, 1)) {
		t.Errorf("slot 3 date = %v, want 2025-01-01", first.Days[3].Date)
	}
	if !first.Days[4].Active {
		t.Errorf("2025-01-02 should be active")
	}
	if !first.Days[5].Frozen || first.Days[5].Active {
		t.Errorf("2025-01-03 should be frozen only, got %+v", first.Days[5])
	}
	if !first.Days[6].Active {
		t.Errorf("2025-01-04 should be active")
	}

	second := window.Weeks[1]
	if !second.WeekStart.Equal(date(2025, 1, 5)) {
		t.Errorf("second week start = %v, want Sunday 2025-01-05", second.WeekStart)
	}
	if second.Days[0] == nil || !second.Days[0].Date.Equal(today) {
		t.Errorf("today should occupy slot 0 of the final bucket")
	}
	if second.Days[0].Active || second.Days[0].Frozen {
		t.Errorf("today has no activity yet, got %+v", second.Days[0])
	}
	for i := 1; i < 7; i++ {
		if second.Days[i] != nil {
			t.Errorf("future day slot %d should be nil", i)
		}
	}
}

func TestBuildCalendarWindowMonthMarkers(t *testing.T) {
	today := date(2025, 1, 5)

	window := BuildCalendarWindow(nil, nil, today, 5)

	if len(window.Months) != 1 {
		t.Fatalf("months = %d, want 1", len(window.Months))
	}
	marker := window.Months[0]
	if marker.BucketIndex != 0 {
		t.Errorf("marker bucket = %d, want 0", marker.BucketIndex)
	}
	if marker.Label != "Jan" {
		t.Errorf("marker label = %q, want Jan", marker.Label)
	}
}

func TestBuildCalendarWindowMarkerPerMonthBoundary(t *testing.T) {
	// Window spanning late January into February yields one marker per month.
	today := date(2025, 2, 10)

	window := BuildCalendarWindow(nil, nil, today, 30)

	if len(window.Months) != 2 {
		t.Fatalf("months = %d, want 2 (%+v)", len(window.Months), window.Months)
	}
	if window.Months[0].Label != "Jan" || window.Months[1].Label != "Feb" {
		t.Errorf("labels = %q, %q; want Jan, Feb", window.Months[0].Label, window.Months[1].Label)
	}
	if window.Months[1].BucketIndex <= window.Months[0].BucketIndex {
		t.Errorf("marker buckets out of order: %+v", window.Months)
	}
}

func TestBuildCalendarWindowDefaultSize(t *testing.T) {
	today := date(2025, 6, 10)

	window := BuildCalendarWindow(nil, nil, today, 0)

	if window.WindowDays != DefaultWindowDays {
		t.Fatalf("window days = %d, want %d", window.WindowDays, DefaultWindowDays)
	}

	cells := 0
	for _, week := range window.Weeks {
		for _, day := range week.Days {
			if day != nil {
				cells++
			}
		}
	}
	if cells != DefaultWindowDays {
		t.Errorf("populated cells = %d, want %d", cells, DefaultWindowDays)
	}
}
