package datastore

import (
	"database/sql"
	"time"

	_ "github.com/lib/pq"

	"github.com/next-chapter/api/models"
)

type FeaturedRepository interface {
	Replace(date time.Time, books []models.FeaturedBook) error
	GetByDate(date time.Time) ([]models.FeaturedBook, error)
}

type FeaturedDatabase struct {
	database *sql.DB
}

func NewFeaturedDatabase(db *sql.DB) (FeaturedDatabase, error) {
	var featuredDB FeaturedDatabase
	featuredDB.database = db
	return featuredDB, nil
}

// Replace swaps in the featured shelf for a date inside one transaction
func (fdb FeaturedDatabase) Replace(date time.Time, books []models.FeaturedBook) error {
	db := fdb.database

	normalizedDate := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM featured_books WHERE date = $1`, normalizedDate); err != nil {
		return err
	}

	sqlStatement := `
		INSERT INTO featured_books (date, volume_id, title, authors, thumbnail_url, subject, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())`

	for _, book := range books {
		_, err := tx.Exec(
			sqlStatement,
			normalizedDate,
			book.VolumeID,
			book.Title,
			book.Authors,
			book.ThumbnailURL,
			book.Subject,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (fdb FeaturedDatabase) GetByDate(date time.Time) ([]models.FeaturedBook, error) {
	db := fdb.database

	normalizedDate := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)

	sqlStatement := `
		SELECT id, date, volume_id, title, authors, thumbnail_url, subject, created_at
		FROM featured_books
		WHERE date = $1
		ORDER BY id ASC`

	rows, err := db.Query(sqlStatement, normalizedDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var books []models.FeaturedBook
	for rows.Next() {
		var book models.FeaturedBook
		err := rows.Scan(
			&book.ID,
			&book.Date,
			&book.VolumeID,
			&book.Title,
			&book.Authors,
			&book.ThumbnailURL,
			&book.Subject,
			&book.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		books = append(books, book)
	}

	return books, rows.Err()
}
