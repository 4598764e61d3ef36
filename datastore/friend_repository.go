package datastore

import (
	"database/sql"
	"time"

	"github.com/lib/pq"

	"github.com/next-chapter/api/apperrors"
	"github.com/next-chapter/api/friends"
	"github.com/next-chapter/api/models"
)

// FriendRepository is friends.Store plus the listing queries the handlers
// need on top of the state machine.
type FriendRepository interface {
	friends.Store
	ListFriends(email string) ([]models.FriendSummary, error)
	ListRequests(email string) ([]models.FriendRequestSummary, error)
}

// FriendDatabase implements FriendRepository over postgres. A partial unique
// index on the canonical pair of pending rows backs the
// one-pending-request-per-pair rule.
type FriendDatabase struct {
	database *sql.DB
}

func NewFriendDatabase(db *sql.DB) (FriendDatabase, error) {
	return FriendDatabase{database: db}, nil
}

const pqUniqueViolation = "23505"

// CreateRequest inserts a pending request. A unique-index violation means a
// concurrent request won the race for this pair.
func (fr FriendDatabase) CreateRequest(req models.FriendRequest) error {
	sqlStatement := `
		INSERT INTO friend_requests (id, sender_email, receiver_email, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := fr.database.Exec(
		sqlStatement,
		req.ID,
		req.SenderEmail,
		req.ReceiverEmail,
		req.Status,
		req.CreatedAt,
		req.UpdatedAt,
	)
	if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == pqUniqueViolation {
		return apperrors.ErrDuplicateRequest
	}
	return err
}

func (fr FriendDatabase) GetRequest(id string) (models.FriendRequest, bool, error) {
	sqlStatement := `
		SELECT id, sender_email, receiver_email, status, created_at, updated_at
		FROM friend_requests
		WHERE id = $1`

	var req models.FriendRequest
	err := fr.database.QueryRow(sqlStatement, id).Scan(
		&req.ID,
		&req.SenderEmail,
		&req.ReceiverEmail,
		&req.Status,
		&req.CreatedAt,
		&req.UpdatedAt,
	)

	switch err {
	case sql.ErrNoRows:
		return models.FriendRequest{}, false, nil
	case nil:
		return req, true, nil
	default:
		return models.FriendRequest{}, false, err
	}
}

// ActiveRequestBetween finds the pending request between two users in
// either direction
func (fr FriendDatabase) ActiveRequestBetween(a, b string) (models.FriendRequest, bool, error) {
	sqlStatement := `
		SELECT id, sender_email, receiver_email, status, created_at, updated_at
		FROM friend_requests
		WHERE status = $3
			AND ((sender_email = $1 AND receiver_email = $2)
				OR (sender_email = $2 AND receiver_email = $1))`

	var req models.FriendRequest
	err := fr.database.QueryRow(sqlStatement, a, b, models.FriendRequestStatusPending).Scan(
		&req.ID,
		&req.SenderEmail,
		&req.ReceiverEmail,
		&req.Status,
		&req.CreatedAt,
		&req.UpdatedAt,
	)

	switch err {
	case sql.ErrNoRows:
		return models.FriendRequest{}, false, nil
	case nil:
		return req, true, nil
	default:
		return models.FriendRequest{}, false, err
	}
}

// UpdateRequestStatus is a compare-and-set: the row only moves when it is
// still in the expected prior status.
func (fr FriendDatabase) UpdateRequestStatus(id, from, to string, at time.Time) (models.FriendRequest, bool, error) {
	sqlStatement := `
		UPDATE friend_requests
		SET status = $3, updated_at = $4
		WHERE id = $1 AND status = $2
		RETURNING id, sender_email, receiver_email, status, created_at, updated_at`

	var req models.FriendRequest
	err := fr.database.QueryRow(sqlStatement, id, from, to, at).Scan(
		&req.ID,
		&req.SenderEmail,
		&req.ReceiverEmail,
		&req.Status,
		&req.CreatedAt,
		&req.UpdatedAt,
	)

	switch err {
	case sql.ErrNoRows:
		return models.FriendRequest{}, false, nil
	case nil:
		return req, true, nil
	default:
		return models.FriendRequest{}, false, err
	}
}

// AcceptRequest moves a still-pending request to accepted and inserts the
// friendship row in one transaction, so a failure leaves the request pending
// and retryable.
func (fr FriendDatabase) AcceptRequest(id string, at time.Time, f models.Friendship) (models.FriendRequest, bool, error) {
	tx, err := fr.database.Begin()
	if err != nil {
		return models.FriendRequest{}, false, err
	}
	defer tx.Rollback()

	sqlStatement := `
		UPDATE friend_requests
		SET status = $3, updated_at = $4
		WHERE id = $1 AND status = $2
		RETURNING id, sender_email, receiver_email, status, created_at, updated_at`

	var req models.FriendRequest
	err = tx.QueryRow(sqlStatement, id, models.FriendRequestStatusPending, models.FriendRequestStatusAccepted, at).Scan(
		&req.ID,
		&req.SenderEmail,
		&req.ReceiverEmail,
		&req.Status,
		&req.CreatedAt,
		&req.UpdatedAt,
	)
	switch err {
	case sql.ErrNoRows:
		return models.FriendRequest{}, false, nil
	case nil:
	default:
		return models.FriendRequest{}, false, err
	}

	sqlStatement = `
		INSERT INTO friendships (user_a, user_b, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_a, user_b) DO NOTHING`

	if _, err := tx.Exec(sqlStatement, f.UserA, f.UserB, f.CreatedAt); err != nil {
		return models.FriendRequest{}, false, err
	}
	if err := tx.Commit(); err != nil {
		return models.FriendRequest{}, false, err
	}
	return req, true, nil
}

func (fr FriendDatabase) DeleteFriendship(a, b string) (bool, error) {
	sqlStatement := `DELETE FROM friendships WHERE user_a = $1 AND user_b = $2`

	result, err := fr.database.Exec(sqlStatement, a, b)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (fr FriendDatabase) FriendshipExists(a, b string) (bool, error) {
	sqlStatement := `SELECT EXISTS (SELECT 1 FROM friendships WHERE user_a = $1 AND user_b = $2)`

	var exists bool
	err := fr.database.QueryRow(sqlStatement, a, b).Scan(&exists)
	return exists, err
}

// ListFriends returns the other side of every friendship the user is in
func (fr FriendDatabase) ListFriends(email string) ([]models.FriendSummary, error) {
	sqlStatement := `
		SELECT f.created_at,
			u.user_id, u.username, u.email
		FROM friendships f
		JOIN users u ON u.email = CASE WHEN f.user_a = $1 THEN f.user_b ELSE f.user_a END
		WHERE f.user_a = $1 OR f.user_b = $1
		ORDER BY f.created_at DESC`

	rows, err := fr.database.Query(sqlStatement, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var friends []models.FriendSummary
	for rows.Next() {
		var friend models.FriendSummary
		var summary models.UserSummary
		err := rows.Scan(
			&friend.CreatedAt,
			&summary.UserID,
			&summary.Username,
			&summary.Email,
		)
		if err != nil {
			return nil, err
		}
		friend.Friend = summary
		friends = append(friends, friend)
	}

	return friends, rows.Err()
}

// ListRequests returns the user's pending requests in both directions
func (fr FriendDatabase) ListRequests(email string) ([]models.FriendRequestSummary, error) {
	sqlStatement := `
		SELECT fr.id, fr.created_at,
			CASE WHEN fr.receiver_email = $1 THEN 'incoming' ELSE 'outgoing' END AS direction,
			u.user_id, u.username, u.email
		FROM friend_requests fr
		JOIN users u ON u.email = CASE WHEN fr.receiver_email = $1 THEN fr.sender_email ELSE fr.receiver_email END
		WHERE (fr.sender_email = $1 OR fr.receiver_email = $1) AND fr.status = $2
		ORDER BY fr.created_at DESC`

	rows, err := fr.database.Query(sqlStatement, email, models.FriendRequestStatusPending)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []models.FriendRequestSummary
	for rows.Next() {
		var request models.FriendRequestSummary
		var summary models.UserSummary
		err := rows.Scan(
			&request.RequestID,
			&request.CreatedAt,
			&request.Direction,
			&summary.UserID,
			&summary.Username,
			&summary.Email,
		)
		if err != nil {
			return nil, err
		}
		request.User = summary
		requests = append(requests, request)
	}

	return requests, rows.Err()
}
