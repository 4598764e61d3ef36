package models

import "time"

// ActivityRecord marks one calendar day on which a user did something that
// counts toward their reading streak. At most one row per (user, date).
type ActivityRecord struct {
	UserID string    `json:"userId" db:"user_id"`
	Date   time.Time `json:"date" db:"date"`
	Active bool      `json:"active" db:"active"`
}

// FreezeRecord marks a missed day that was bridged by a freeze token
type FreezeRecord struct {
	UserID string    `json:"userId" db:"user_id"`
	Date   time.Time `json:"date" db:"date"`
	UsedAt time.Time `json:"usedAt" db:"used_at"`
}

// StreakState is the persisted per-user summary, recomputed from the
// activity log on every mutation.
type StreakState struct {
	UserID            string     `json:"userId" db:"user_id"`
	CurrentStreak     int        `json:"currentStreak" db:"current_streak"`
	LongestStreak     int        `json:"longestStreak" db:"longest_streak"`
	TotalActiveDays   int        `json:"totalActiveDays" db:"total_active_days"`
	FreezesRemaining  int        `json:"freezesRemaining" db:"freezes_remaining"`
	LastActiveDate    *time.Time `json:"lastActiveDate,omitempty" db:"last_active_date"`
	FreezeMonthAnchor time.Time  `json:"freezeMonthAnchor" db:"freeze_month_anchor"`
	UpdatedAt         time.Time  `json:"updatedAt" db:"updated_at"`
}

// DayCell is one rendered day in the heatmap. A nil *DayCell in a bucket
// slot means the day is outside the requested window; Active=false means
// the day is in range but had no activity.
type DayCell struct {
	Date   time.Time `json:"date"`
	Active bool      `json:"active"`
	Frozen bool      `json:"frozen"`
}

// WeekBucket holds one Sunday-aligned week, slots indexed Sunday(0)..Saturday(6)
type WeekBucket struct {
	WeekStart time.Time  `json:"weekStart"`
	Days      [7]*DayCell `json:"days"`
}

// MonthMarker points at the first bucket whose earliest in-range day falls
// in a new calendar month.
type MonthMarker struct {
	BucketIndex int    `json:"bucketIndex"`
	Label       string `json:"label"`
}

// CalendarWindow is the heatmap payload for the last N days
type CalendarWindow struct {
	WindowDays int           `json:"windowDays"`
	Weeks      []WeekBucket  `json:"weeks"`
	Months     []MonthMarker `json:"months"`
}
