package datastore

import (
	"database/sql"
	"time"

	_ "github.com/lib/pq"

	"github.com/next-chapter/api/models"
)

// StreakDatabase implements streak.Store over postgres. Activity and state
// writes are single-statement upserts keyed on the user so concurrent
// devices serialize at the row, not in application code.
type StreakDatabase struct {
	database *sql.DB
}

func NewStreakDatabase(db *sql.DB) (StreakDatabase, error) {
	var streakDB StreakDatabase
	streakDB.database = db
	return streakDB, nil
}

// UpsertActivity records an active day; recording the same day twice is a no-op
func (sdb StreakDatabase) UpsertActivity(userID string, date time.Time) error {
	db := sdb.database

	sqlStatement := `
		INSERT INTO reading_activity (user_id, date, active, created_at)
		VALUES ($1, $2, TRUE, NOW())
		ON CONFLICT (user_id, date) DO NOTHING`

	_, err := db.Exec(sqlStatement, userID, date)
	return err
}

func (sdb StreakDatabase) ActivityDates(userID string) ([]time.Time, error) {
	return sdb.queryDates(`
		SELECT date FROM reading_activity
		WHERE user_id = $1 AND active = TRUE
		ORDER BY date ASC`, userID)
}

func (sdb StreakDatabase) FreezeDates(userID string) ([]time.Time, error) {
	return sdb.queryDates(`
		SELECT date FROM streak_freezes
		WHERE user_id = $1
		ORDER BY date ASC`, userID)
}

func (sdb StreakDatabase) queryDates(sqlStatement, userID string) ([]time.Time, error) {
	db := sdb.database

	rows, err := db.Query(sqlStatement, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var dates []time.Time
	for rows.Next() {
		var d time.Time
		if err := rows.Scan(&d); err != nil {
			return nil, err
		}
		dates = append(dates, d)
	}

	return dates, rows.Err()
}

// SpendFreeze commits the bridged days and the decremented state in one
// transaction, so a failure leaves neither behind
func (sdb StreakDatabase) SpendFreeze(userID string, days []time.Time, usedAt time.Time, state models.StreakState) error {
	db := sdb.database

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	sqlStatement := `
		INSERT INTO streak_freezes (user_id, date, used_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, date) DO NOTHING`

	for _, day := range days {
		if _, err := tx.Exec(sqlStatement, userID, day, usedAt); err != nil {
			return err
		}
	}

	if err := saveStateIn(tx, state); err != nil {
		return err
	}

	return tx.Commit()
}

func (sdb StreakDatabase) GetState(userID string) (models.StreakState, bool, error) {
	db := sdb.database

	sqlStatement := `
		SELECT user_id, current_streak, longest_streak, total_active_days,
			freezes_remaining, last_active_date, freeze_month_anchor, updated_at
		FROM streak_states
		WHERE user_id = $1`

	var state models.StreakState
	err := db.QueryRow(sqlStatement, userID).Scan(
		&state.UserID,
		&state.CurrentStreak,
		&state.LongestStreak,
		&state.TotalActiveDays,
		&state.FreezesRemaining,
		&state.LastActiveDate,
		&state.FreezeMonthAnchor,
		&state.UpdatedAt,
	)

	switch err {
	case sql.ErrNoRows:
		return models.StreakState{}, false, nil
	case nil:
		return state, true, nil
	default:
		return models.StreakState{}, false, err
	}
}

// SaveState upserts the whole state row in one statement
func (sdb StreakDatabase) SaveState(state models.StreakState) error {
	return saveStateIn(sdb.database, state)
}

// execer covers both *sql.DB and *sql.Tx
type execer interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
}

func saveStateIn(db execer, state models.StreakState) error {
	sqlStatement := `
		INSERT INTO streak_states (
			user_id, current_streak, longest_streak, total_active_days,
			freezes_remaining, last_active_date, freeze_month_anchor, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		ON CONFLICT (user_id)
		DO UPDATE SET
			current_streak = EXCLUDED.current_streak,
			longest_streak = EXCLUDED.longest_streak,
			total_active_days = EXCLUDED.total_active_days,
			freezes_remaining = EXCLUDED.freezes_remaining,
			last_active_date = EXCLUDED.last_active_date,
			freeze_month_anchor = EXCLUDED.freeze_month_anchor,
			updated_at = NOW()`

	_, err := db.Exec(
		sqlStatement,
		state.UserID,
		state.CurrentStreak,
		state.LongestStreak,
		state.TotalActiveDays,
		state.FreezesRemaining,
		state.LastActiveDate,
		state.FreezeMonthAnchor,
	)
	return err
}
