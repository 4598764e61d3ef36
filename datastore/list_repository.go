package datastore

import (
	"database/sql"

	_ "github.com/lib/pq"

	"github.com/next-chapter/api/models"
)

type ListRepository interface {
	Create(list models.BookList) (models.BookList, error)
	Get(listID string) (models.BookList, error)
	ListByUser(userID string) ([]models.BookList, error)
	Update(list models.BookList) (models.BookList, error)
	Delete(userID, listID string) error

	AddItem(item models.ListItem) error
	RemoveItem(listID, volumeID string) error
	Items(listID string) ([]models.ListItem, error)
}

type ListDatabase struct {
	database *sql.DB
}

func NewListDatabase(db *sql.DB) (ListDatabase, error) {
	var listDB ListDatabase
	listDB.database = db
	return listDB, nil
}

func (ldb ListDatabase) Create(list models.BookList) (models.BookList, error) {
	db := ldb.database

	sqlStatement := `
		INSERT INTO book_lists (id, user_id, name, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := db.Exec(
		sqlStatement,
		list.ID,
		list.UserID,
		list.Name,
		list.Description,
		list.CreatedAt,
		list.UpdatedAt,
	)
	if err != nil {
		return models.BookList{}, err
	}
	return list, nil
}

func (ldb ListDatabase) Get(listID string) (models.BookList, error) {
	db := ldb.database

	sqlStatement := `
		SELECT id, user_id, name, description, created_at, updated_at
		FROM book_lists
		WHERE id = $1`

	var list models.BookList
	err := db.QueryRow(sqlStatement, listID).Scan(
		&list.ID,
		&list.UserID,
		&list.Name,
		&list.Description,
		&list.CreatedAt,
		&list.UpdatedAt,
	)

	switch err {
	case sql.ErrNoRows:
		return models.BookList{}, NoRowsError{true, err}
	case nil:
		return list, nil
	default:
		return models.BookList{}, err
	}
}

func (ldb ListDatabase) ListByUser(userID string) ([]models.BookList, error) {
	db := ldb.database

	sqlStatement := `
		SELECT id, user_id, name, description, created_at, updated_at
		FROM book_lists
		WHERE user_id = $1
		ORDER BY updated_at DESC`

	rows, err := db.Query(sqlStatement, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lists []models.BookList
	for rows.Next() {
		var list models.BookList
		err := rows.Scan(
			&list.ID,
			&list.UserID,
			&list.Name,
			&list.Description,
			&list.CreatedAt,
			&list.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		lists = append(lists, list)
	}

	return lists, rows.Err()
}

func (ldb ListDatabase) Update(list models.BookList) (models.BookList, error) {
	db := ldb.database

	sqlStatement := `
		UPDATE book_lists
		SET name = $3, description = $4, updated_at = NOW()
		WHERE id = $1 AND user_id = $2`

	_, err := db.Exec(sqlStatement, list.ID, list.UserID, list.Name, list.Description)
	if err != nil {
		return models.BookList{}, err
	}
	return list, nil
}

func (ldb ListDatabase) Delete(userID, listID string) error {
	db := ldb.database

	result, err := db.Exec(`DELETE FROM book_lists WHERE id = $1 AND user_id = $2`, listID, userID)
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

// AddItem appends a volume to a list; the position defaults to the end
func (ldb ListDatabase) AddItem(item models.ListItem) error {
	db := ldb.database

	sqlStatement := `
		INSERT INTO list_items (list_id, volume_id, title, position)
		VALUES ($1, $2, $3,
			COALESCE($4, (SELECT COALESCE(MAX(position), 0) + 1 FROM list_items WHERE list_id = $1)))
		ON CONFLICT (list_id, volume_id)
		DO UPDATE SET title = EXCLUDED.title, position = EXCLUDED.position`

	var position *int
	if item.Position > 0 {
		position = &item.Position
	}

	_, err := db.Exec(sqlStatement, item.ListID, item.VolumeID, item.Title, position)
	return err
}

func (ldb ListDatabase) RemoveItem(listID, volumeID string) error {
	db := ldb.database

	_, err := db.Exec(`DELETE FROM list_items WHERE list_id = $1 AND volume_id = $2`, listID, volumeID)
	return err
}

func (ldb ListDatabase) Items(listID string) ([]models.ListItem, error) {
	db := ldb.database

	sqlStatement := `
		SELECT list_id, volume_id, title, position
		FROM list_items
		WHERE list_id = $1
		ORDER BY position ASC`

	rows, err := db.Query(sqlStatement, listID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.ListItem
	for rows.Next() {
		var item models.ListItem
		if err := rows.Scan(&item.ListID, &item.VolumeID, &item.Title, &item.Position); err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, rows.Err()
}
