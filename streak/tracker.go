package streak

import (
	"time"

	"github.com/next-chapter/api/apperrors"
	"github.com/next-chapter/api/models"
)

// Store is the persistence the tracker drives. Implementations must make
// UpsertActivity and SaveState atomic per key so two devices racing on the
// same user cannot interleave a read-modify-write. SpendFreeze must commit
// the freeze days and the state row together or not at all: a failure may
// not leave a bridged gap with no token spent.
type Store interface {
	UpsertActivity(userID string, date time.Time) error
	ActivityDates(userID string) ([]time.Time, error)
	FreezeDates(userID string) ([]time.Time, error)
	SpendFreeze(userID string, days []time.Time, usedAt time.Time, state models.StreakState) error
	GetState(userID string) (models.StreakState, bool, error)
	SaveState(state models.StreakState) error
}

type Config struct {
	MonthlyFreezes int // tokens replenished each calendar month
	FreezeGapDays  int // widest gap one token may bridge
}

func DefaultConfig() Config {
	return Config{MonthlyFreezes: 3, FreezeGapDays: 1}
}

type Tracker struct {
	store Store
	cfg   Config
	now   func() time.Time
}

func NewTracker(store Store, cfg Config) *Tracker {
	if cfg.MonthlyFreezes <= 0 {
		cfg.MonthlyFreezes = DefaultConfig().MonthlyFreezes
	}
	if cfg.FreezeGapDays <= 0 {
		cfg.FreezeGapDays = DefaultConfig().FreezeGapDays
	}
	return &Tracker{store: store, cfg: cfg, now: time.Now}
}

// RecordActivity upserts an active day for the user and recomputes their
// persisted streak state. Recording the same day twice is a no-op.
func (t *Tracker) RecordActivity(userID string, date time.Time) (models.StreakState, error) {
	day := Day(date)
	today := Day(t.now())
	if day.After(today) {
		return models.StreakState{}, apperrors.ErrInvalidDate
	}

	if err := t.store.UpsertActivity(userID, day); err != nil {
		return models.StreakState{}, err
	}

	return t.recompute(userID, today)
}

// UseFreeze spends one token to bridge the gap between the last streak day
// and today. The gap must still be bridgeable: once a streak has expired the
// token cannot resurrect it.
func (t *Tracker) UseFreeze(userID string) (models.StreakState, error) {
	today := Day(t.now())

	state, err := t.State(userID)
	if err != nil {
		return models.StreakState{}, err
	}
	if state.FreezesRemaining <= 0 {
		return models.StreakState{}, apperrors.ErrNoFreezeRemaining
	}

	active, err := t.store.ActivityDates(userID)
	if err != nil {
		return models.StreakState{}, err
	}
	frozen, err := t.store.FreezeDates(userID)
	if err != nil {
		return models.StreakState{}, err
	}

	missed := missedDays(active, frozen, today)
	if len(missed) == 0 || len(missed) > t.cfg.FreezeGapDays {
		return models.StreakState{}, apperrors.ErrNoStreakToProtect
	}
	// Evaluate the streak as of the day before the gap opened: a token
	// protects a live run, it never resurrects a broken one.
	if Compute(active, frozen, missed[0].AddDate(0, 0, -1)).Current == 0 {
		return models.StreakState{}, apperrors.ErrNoStreakToProtect
	}

	// Derive the post-freeze state up front so the store can commit the
	// freeze days and the state row in one shot. If that commit fails,
	// nothing was spent and nothing was bridged.
	stats := Compute(active, append(frozen, missed...), today)
	next := models.StreakState{
		UserID:            userID,
		CurrentStreak:     stats.Current,
		LongestStreak:     stats.Longest,
		TotalActiveDays:   stats.TotalActiveDays,
		FreezesRemaining:  state.FreezesRemaining - 1,
		LastActiveDate:    stats.LastActiveDate,
		FreezeMonthAnchor: state.FreezeMonthAnchor,
		UpdatedAt:         t.now(),
	}
	if err := t.store.SpendFreeze(userID, missed, t.now(), next); err != nil {
		return models.StreakState{}, err
	}
	return next, nil
}

// State returns the persisted streak state, materializing a fresh one for
// users with no history and lazily replenishing the monthly token allowance.
func (t *Tracker) State(userID string) (models.StreakState, error) {
	today := Day(t.now())

	state, found, err := t.store.GetState(userID)
	if err != nil {
		return models.StreakState{}, err
	}
	if !found {
		return models.StreakState{
			UserID:            userID,
			FreezesRemaining:  t.cfg.MonthlyFreezes,
			FreezeMonthAnchor: firstOfMonth(today),
		}, nil
	}

	if !sameMonth(state.FreezeMonthAnchor, today) {
		state.FreezesRemaining = t.cfg.MonthlyFreezes
		state.FreezeMonthAnchor = firstOfMonth(today)
		if err := t.store.SaveState(state); err != nil {
			return models.StreakState{}, err
		}
	}

	return state, nil
}

// CalendarWindow builds the heatmap buckets for the last windowDays days
func (t *Tracker) CalendarWindow(userID string, windowDays int) (models.CalendarWindow, error) {
	active, err := t.store.ActivityDates(userID)
	if err != nil {
		return models.CalendarWindow{}, err
	}
	frozen, err := t.store.FreezeDates(userID)
	if err != nil {
		return models.CalendarWindow{}, err
	}
	return BuildCalendarWindow(active, frozen, Day(t.now()), windowDays), nil
}

func (t *Tracker) recompute(userID string, today time.Time) (models.StreakState, error) {
	active, err := t.store.ActivityDates(userID)
	if err != nil {
		return models.StreakState{}, err
	}
	frozen, err := t.store.FreezeDates(userID)
	if err != nil {
		return models.StreakState{}, err
	}

	prior, err := t.State(userID)
	if err != nil {
		return models.StreakState{}, err
	}

	stats := Compute(active, frozen, today)
	state := models.StreakState{
		UserID:            userID,
		CurrentStreak:     stats.Current,
		LongestStreak:     stats.Longest,
		TotalActiveDays:   stats.TotalActiveDays,
		FreezesRemaining:  prior.FreezesRemaining,
		LastActiveDate:    stats.LastActiveDate,
		FreezeMonthAnchor: prior.FreezeMonthAnchor,
		UpdatedAt:         t.now(),
	}
	if err := t.store.SaveState(state); err != nil {
		return models.StreakState{}, err
	}
	return state, nil
}

// missedDays lists the uncovered days from the end of the last run through
// today, oldest first. Empty when today is already active or frozen.
func missedDays(active, frozen []time.Time, today time.Time) []time.Time {
	covered := make(map[time.Time]bool, len(active)+len(frozen))
	last := time.Time{}
	for _, d := range active {
		day := Day(d)
		covered[day] = true
		if day.After(last) && !day.After(today) {
			last = day
		}
	}
	for _, d := range frozen {
		day := Day(d)
		covered[day] = true
		if day.After(last) && !day.After(today) {
			last = day
		}
	}
	if last.IsZero() || covered[today] {
		return nil
	}

	var missed []time.Time
	for d := last.AddDate(0, 0, 1); !d.After(today); d = d.AddDate(0, 0, 1) {
		missed = append(missed, d)
	}
	return missed
}
