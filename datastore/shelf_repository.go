package datastore

import (
	"database/sql"
	"time"

	_ "github.com/lib/pq"

	"github.com/next-chapter/api/models"
)

type ShelfRepository interface {
	Save(entry models.ShelfEntry) (models.ShelfEntry, error)
	Get(userID, volumeID string) (models.ShelfEntry, error)
	List(userID string) ([]models.ShelfEntry, error)
	ListByStatus(userID, status string) ([]models.ShelfEntry, error)
	UpdateProgress(userID, volumeID string, currentPage int) (models.ShelfEntry, error)
	UpdateStatus(userID, volumeID, status string) (models.ShelfEntry, error)
	Remove(userID, volumeID string) error
}

type ShelfDatabase struct {
	database *sql.DB
}

func NewShelfDatabase(db *sql.DB) (ShelfDatabase, error) {
	var shelfDB ShelfDatabase
	shelfDB.database = db
	return shelfDB, nil
}

const shelfColumns = `
	id, user_id, volume_id, title, authors, thumbnail_url, page_count,
	status, current_page, started_at, finished_at, created_at, updated_at`

func scanShelfEntry(row *sql.Row) (models.ShelfEntry, error) {
	var entry models.ShelfEntry
	err := row.Scan(
		&entry.ID,
		&entry.UserID,
		&entry.VolumeID,
		&entry.Title,
		&entry.Authors,
		&entry.ThumbnailURL,
		&entry.PageCount,
		&entry.Status,
		&entry.CurrentPage,
		&entry.StartedAt,
		&entry.FinishedAt,
		&entry.CreatedAt,
		&entry.UpdatedAt,
	)

	switch err {
	case sql.ErrNoRows:
		return models.ShelfEntry{}, NoRowsError{true, err}
	case nil:
		return entry, nil
	default:
		return models.ShelfEntry{}, err
	}
}

// Save upserts a shelf entry keyed on (user, volume); saving a book already
// on the shelf refreshes its metadata and status without duplicating it.
func (sdb ShelfDatabase) Save(entry models.ShelfEntry) (models.ShelfEntry, error) {
	db := sdb.database

	sqlStatement := `
		INSERT INTO shelf_entries (` + shelfColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (user_id, volume_id)
		DO UPDATE SET
			title = EXCLUDED.title,
			authors = EXCLUDED.authors,
			thumbnail_url = EXCLUDED.thumbnail_url,
			page_count = EXCLUDED.page_count,
			status = EXCLUDED.status,
			updated_at = EXCLUDED.updated_at
		RETURNING id`

	err := db.QueryRow(
		sqlStatement,
		entry.ID,
		entry.UserID,
		entry.VolumeID,
		entry.Title,
		entry.Authors,
		entry.ThumbnailURL,
		entry.PageCount,
		entry.Status,
		entry.CurrentPage,
		entry.StartedAt,
		entry.FinishedAt,
		entry.CreatedAt,
		entry.UpdatedAt,
	).Scan(&entry.ID)

	if err != nil {
		return models.ShelfEntry{}, err
	}
	return entry, nil
}

func (sdb ShelfDatabase) Get(userID, volumeID string) (models.ShelfEntry, error) {
	db := sdb.database

	sqlStatement := `SELECT ` + shelfColumns + ` FROM shelf_entries WHERE user_id = $1 AND volume_id = $2`

	return scanShelfEntry(db.QueryRow(sqlStatement, userID, volumeID))
}

func (sdb ShelfDatabase) List(userID string) ([]models.ShelfEntry, error) {
	return sdb.list(`SELECT `+shelfColumns+` FROM shelf_entries WHERE user_id = $1 ORDER BY updated_at DESC`, userID)
}

func (sdb ShelfDatabase) ListByStatus(userID, status string) ([]models.ShelfEntry, error) {
	return sdb.list(`SELECT `+shelfColumns+` FROM shelf_entries WHERE user_id = $1 AND status = $2 ORDER BY updated_at DESC`, userID, status)
}

func (sdb ShelfDatabase) list(sqlStatement string, args ...interface{}) ([]models.ShelfEntry, error) {
	db := sdb.database

	rows, err := db.Query(sqlStatement, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.ShelfEntry
	for rows.Next() {
		var entry models.ShelfEntry
		err := rows.Scan(
			&entry.ID,
			&entry.UserID,
			&entry.VolumeID,
			&entry.Title,
			&entry.Authors,
			&entry.ThumbnailURL,
			&entry.PageCount,
			&entry.Status,
			&entry.CurrentPage,
			&entry.StartedAt,
			&entry.FinishedAt,
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

// UpdateProgress records a new page position. Moving past page zero flips a
// want_to_read entry to reading and stamps started_at.
func (sdb ShelfDatabase) UpdateProgress(userID, volumeID string, currentPage int) (models.ShelfEntry, error) {
	db := sdb.database

	sqlStatement := `
		UPDATE shelf_entries
		SET current_page = $3,
			status = CASE WHEN status = $4 AND $3 > 0 THEN $5 ELSE status END,
			started_at = COALESCE(started_at, CASE WHEN $3 > 0 THEN NOW() END),
			updated_at = NOW()
		WHERE user_id = $1 AND volume_id = $2
		RETURNING ` + shelfColumns

	return scanShelfEntry(db.QueryRow(
		sqlStatement, userID, volumeID, currentPage,
		models.ShelfStatusWantToRead, models.ShelfStatusReading,
	))
}

func (sdb ShelfDatabase) UpdateStatus(userID, volumeID, status string) (models.ShelfEntry, error) {
	db := sdb.database

	var finishedAt *time.Time
	if status == models.ShelfStatusFinished {
		now := time.Now()
		finishedAt = &now
	}

	sqlStatement := `
		UPDATE shelf_entries
		SET status = $3, finished_at = $4, updated_at = NOW()
		WHERE user_id = $1 AND volume_id = $2
		RETURNING ` + shelfColumns

	return scanShelfEntry(db.QueryRow(sqlStatement, userID, volumeID, status, finishedAt))
}

func (sdb ShelfDatabase) Remove(userID, volumeID string) error {
	db := sdb.database

	result, err := db.Exec(`DELETE FROM shelf_entries WHERE user_id = $1 AND volume_id = $2`, userID, volumeID)
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
