package datastore

import (
	"database/sql"

	_ "github.com/lib/pq"

	"github.com/next-chapter/api/models"
)

type ReviewRepository interface {
	Upsert(review models.Review) (models.Review, error)
	Get(userID, volumeID string) (models.Review, error)
	ListByUser(userID string) ([]models.Review, error)
	ListByVolume(volumeID string) ([]models.Review, error)
	Delete(userID, volumeID string) error
}

type ReviewDatabase struct {
	database *sql.DB
}

func NewReviewDatabase(db *sql.DB) (ReviewDatabase, error) {
	var reviewDB ReviewDatabase
	reviewDB.database = db
	return reviewDB, nil
}

// Upsert writes the single review a user may hold per volume
func (rdb ReviewDatabase) Upsert(review models.Review) (models.Review, error) {
	db := rdb.database

	sqlStatement := `
		INSERT INTO reviews (id, user_id, volume_id, rating, body, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id, volume_id)
		DO UPDATE SET rating = EXCLUDED.rating, body = EXCLUDED.body, updated_at = EXCLUDED.updated_at
		RETURNING id, created_at`

	err := db.QueryRow(
		sqlStatement,
		review.ID,
		review.UserID,
		review.VolumeID,
		review.Rating,
		review.Body,
		review.CreatedAt,
		review.UpdatedAt,
	).Scan(&review.ID, &review.CreatedAt)

	if err != nil {
		return models.Review{}, err
	}
	return review, nil
}

func (rdb ReviewDatabase) Get(userID, volumeID string) (models.Review, error) {
	db := rdb.database

	sqlStatement := `
		SELECT id, user_id, volume_id, rating, body, created_at, updated_at
		FROM reviews
		WHERE user_id = $1 AND volume_id = $2`

	var review models.Review
	err := db.QueryRow(sqlStatement, userID, volumeID).Scan(
		&review.ID,
		&review.UserID,
		&review.VolumeID,
		&review.Rating,
		&review.Body,
		&review.CreatedAt,
		&review.UpdatedAt,
	)

	switch err {
	case sql.ErrNoRows:
		return models.Review{}, NoRowsError{true, err}
	case nil:
		return review, nil
	default:
		return models.Review{}, err
	}
}

func (rdb ReviewDatabase) ListByUser(userID string) ([]models.Review, error) {
	return rdb.list(`
		SELECT id, user_id, volume_id, rating, body, created_at, updated_at
		FROM reviews
		WHERE user_id = $1
		ORDER BY updated_at DESC`, userID)
}

func (rdb ReviewDatabase) ListByVolume(volumeID string) ([]models.Review, error) {
	return rdb.list(`
		SELECT id, user_id, volume_id, rating, body, created_at, updated_at
		FROM reviews
		WHERE volume_id = $1
		ORDER BY updated_at DESC`, volumeID)
}

func (rdb ReviewDatabase) list(sqlStatement string, arg string) ([]models.Review, error) {
	db := rdb.database

	rows, err := db.Query(sqlStatement, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []models.Review
	for rows.Next() {
		var review models.Review
		err := rows.Scan(
			&review.ID,
			&review.UserID,
			&review.VolumeID,
			&review.Rating,
			&review.Body,
			&review.CreatedAt,
			&review.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, review)
	}

	return reviews, rows.Err()
}

func (rdb ReviewDatabase) Delete(userID, volumeID string) error {
	db := rdb.database

	result, err := db.Exec(`DELETE FROM reviews WHERE user_id = $1 AND volume_id = $2`, userID, volumeID)
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
