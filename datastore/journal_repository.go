package datastore

import (
	"database/sql"
	"time"

	_ "github.com/lib/pq"

	"github.com/next-chapter/api/models"
)

type JournalRepository interface {
	Save(entry models.JournalEntry) (models.JournalEntry, error)
	ListByBook(userID, volumeID string) ([]models.JournalEntry, error)
	Delete(userID, entryID string) error
}

type JournalDatabase struct {
	database *sql.DB
}

func NewJournalDatabase(db *sql.DB) (JournalDatabase, error) {
	var journalDB JournalDatabase
	journalDB.database = db
	return journalDB, nil
}

// Save upserts the note for one (user, volume, day). The client fires this
// on a debounce timer while the user types, so repeated saves of the same
// day's note must land on the same row.
func (jdb JournalDatabase) Save(entry models.JournalEntry) (models.JournalEntry, error) {
	db := jdb.database

	day := time.Date(entry.EntryDate.Year(), entry.EntryDate.Month(), entry.EntryDate.Day(), 0, 0, 0, 0, time.UTC)

	sqlStatement := `
		INSERT INTO journal_entries (id, user_id, volume_id, entry_date, body, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id, volume_id, entry_date)
		DO UPDATE SET body = EXCLUDED.body, updated_at = EXCLUDED.updated_at
		RETURNING id, created_at`

	err := db.QueryRow(
		sqlStatement,
		entry.ID,
		entry.UserID,
		entry.VolumeID,
		day,
		entry.Body,
		entry.CreatedAt,
		entry.UpdatedAt,
	).Scan(&entry.ID, &entry.CreatedAt)

	if err != nil {
		return models.JournalEntry{}, err
	}
	entry.EntryDate = day
	return entry, nil
}

func (jdb JournalDatabase) ListByBook(userID, volumeID string) ([]models.JournalEntry, error) {
	db := jdb.database

	sqlStatement := `
		SELECT id, user_id, volume_id, entry_date, body, created_at, updated_at
		FROM journal_entries
		WHERE user_id = $1 AND volume_id = $2
		ORDER BY entry_date DESC`

	rows, err := db.Query(sqlStatement, userID, volumeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.JournalEntry
	for rows.Next() {
		var entry models.JournalEntry
		err := rows.Scan(
			&entry.ID,
			&entry.UserID,
			&entry.VolumeID,
			&entry.EntryDate,
			&entry.Body,
			&entry.CreatedAt,
			&entry.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

func (jdb JournalDatabase) Delete(userID, entryID string) error {
	db := jdb.database

	result, err := db.Exec(`DELETE FROM journal_entries WHERE user_id = $1 AND id = $2`, userID, entryID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return NoRowsError{true, sql.ErrNoRows}
	}
	return nil
}
