package datastore

import (
	"database/sql"
	"time"

	_ "github.com/lib/pq"

	"github.com/next-chapter/api/models"
)

type BadgeRepository interface {
	Award(userID, code string) (bool, error)
	ListByUser(userID string) ([]models.Badge, error)
}

type BadgeDatabase struct {
	database *sql.DB
}

func NewBadgeDatabase(db *sql.DB) (BadgeDatabase, error) {
	var badgeDB BadgeDatabase
	badgeDB.database = db
	return badgeDB, nil
}

// Award grants a badge once; returns whether this call was the first grant
func (bdb BadgeDatabase) Award(userID, code string) (bool, error) {
	db := bdb.database

	sqlStatement := `
		INSERT INTO badges (user_id, code, earned_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, code) DO NOTHING`

	result, err := db.Exec(sqlStatement, userID, code, time.Now())
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (bdb BadgeDatabase) ListByUser(userID string) ([]models.Badge, error) {
	db := bdb.database

	sqlStatement := `
		SELECT user_id, code, earned_at
		FROM badges
		WHERE user_id = $1
		ORDER BY earned_at ASC`

	rows, err := db.Query(sqlStatement, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var badges []models.Badge
	for rows.Next() {
		var badge models.Badge
		if err := rows.Scan(&badge.UserID, &badge.Code, &badge.EarnedAt); err != nil {
			return nil, err
		}
		badges = append(badges, badge)
	}

	return badges, rows.Err()
}
