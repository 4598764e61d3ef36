package friends

import (
	"time"

	"github.com/google/uuid"
	"github.com/next-chapter/api/apperrors"
	"github.com/next-chapter/api/models"
)

const (
	DecisionAccept = "accept"
	DecisionReject = "reject"
)

var errBadDecision = &apperrors.Error{Kind: apperrors.Validation, Code: "InvalidDecision", Msg: "decision must be accept or reject"}

// ErrRequestNotFound is returned when a request id resolves to nothing
var ErrRequestNotFound = &apperrors.Error{Kind: apperrors.Validation, Code: "RequestNotFound", Msg: "friend request not found"}

// Store is the persistence the graph drives. CreateRequest must enforce the
// one-pending-request-per-pair rule atomically (a unique index, not an
// application-side check) and return apperrors.ErrDuplicateRequest on
// violation; UpdateRequestStatus must be a compare-and-set on the expected
// prior status so a racing double-accept loses cleanly. AcceptRequest must
// commit that compare-and-set and the friendship row in one transaction: a
// failure may not leave a terminally accepted request with no friendship.
type Store interface {
	CreateRequest(req models.FriendRequest) error
	GetRequest(id string) (models.FriendRequest, bool, error)
	ActiveRequestBetween(a, b string) (models.FriendRequest, bool, error)
	UpdateRequestStatus(id, from, to string, at time.Time) (models.FriendRequest, bool, error)
	AcceptRequest(id string, at time.Time, f models.Friendship) (models.FriendRequest, bool, error)
	DeleteFriendship(a, b string) (bool, error)
	FriendshipExists(a, b string) (bool, error)
}

// PairKey orders two emails canonically so the unordered pair {A,B} is
// stored exactly once.
func PairKey(a, b string) (string, string) {
	if b < a {
		return b, a
	}
	return a, b
}

// Graph enforces the friend-request lifecycle:
// none -> pending -> friends (accept) or back to none (reject/cancel),
// friends -> none (remove). Rejected and cancelled rows stay as history.
type Graph struct {
	store Store
	now   func() time.Time
}

func NewGraph(store Store) *Graph {
	return &Graph{store: store, now: time.Now}
}

// SendRequest creates a pending request from sender to receiver
func (g *Graph) SendRequest(sender, receiver string) (models.FriendRequest, error) {
	if sender == receiver {
		return models.FriendRequest{}, apperrors.ErrSelfRequest
	}

	userA, userB := PairKey(sender, receiver)
	exists, err := g.store.FriendshipExists(userA, userB)
	if err != nil {
		return models.FriendRequest{}, err
	}
	if exists {
		return models.FriendRequest{}, apperrors.ErrAlreadyFriends
	}

	if _, found, err := g.store.ActiveRequestBetween(sender, receiver); err != nil {
		return models.FriendRequest{}, err
	} else if found {
		return models.FriendRequest{}, apperrors.ErrDuplicateRequest
	}

	req := models.FriendRequest{
		ID:            uuid.New().String(),
		SenderEmail:   sender,
		ReceiverEmail: receiver,
		Status:        models.FriendRequestStatusPending,
		CreatedAt:     g.now(),
		UpdatedAt:     g.now(),
	}
	if err := g.store.CreateRequest(req); err != nil {
		return models.FriendRequest{}, err
	}
	return req, nil
}

// Respond lets the receiver accept or reject a pending request. Accepting
// creates the symmetric friendship pair; this is the one cross-user write in
// the system, so the acting identity is checked before any mutation.
func (g *Graph) Respond(requestID, actingUser, decision string) (models.FriendRequest, error) {
	var newStatus string
	switch decision {
	case DecisionAccept:
		newStatus = models.FriendRequestStatusAccepted
	case DecisionReject:
		newStatus = models.FriendRequestStatusRejected
	default:
		return models.FriendRequest{}, errBadDecision
	}

	req, found, err := g.store.GetRequest(requestID)
	if err != nil {
		return models.FriendRequest{}, err
	}
	if !found {
		return models.FriendRequest{}, ErrRequestNotFound
	}
	if req.ReceiverEmail != actingUser {
		return models.FriendRequest{}, apperrors.ErrNotAuthorized
	}
	if req.Status != models.FriendRequestStatusPending {
		return models.FriendRequest{}, apperrors.ErrRequestNotPending
	}

	var updated models.FriendRequest
	var ok bool
	if newStatus == models.FriendRequestStatusAccepted {
		userA, userB := PairKey(req.SenderEmail, req.ReceiverEmail)
		updated, ok, err = g.store.AcceptRequest(requestID, g.now(), models.Friendship{UserA: userA, UserB: userB, CreatedAt: g.now()})
	} else {
		updated, ok, err = g.store.UpdateRequestStatus(requestID, models.FriendRequestStatusPending, newStatus, g.now())
	}
	if err != nil {
		return models.FriendRequest{}, err
	}
	if !ok {
		return models.FriendRequest{}, apperrors.ErrRequestNotPending
	}
	return updated, nil
}

// Cancel lets the original sender withdraw a still-pending request
func (g *Graph) Cancel(requestID, actingUser string) error {
	req, found, err := g.store.GetRequest(requestID)
	if err != nil {
		return err
	}
	if !found {
		return ErrRequestNotFound
	}
	if req.SenderEmail != actingUser {
		return apperrors.ErrNotAuthorized
	}
	if req.Status != models.FriendRequestStatusPending {
		return apperrors.ErrRequestNotPending
	}

	_, ok, err := g.store.UpdateRequestStatus(requestID, models.FriendRequestStatusPending, models.FriendRequestStatusCancelled, g.now())
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.ErrRequestNotPending
	}
	return nil
}

// Remove deletes the friendship pair. Historical request rows are left
// alone, so either user can send a fresh request afterwards.
func (g *Graph) Remove(userA, userB string) error {
	a, b := PairKey(userA, userB)
	deleted, err := g.store.DeleteFriendship(a, b)
	if err != nil {
		return err
	}
	if !deleted {
		return apperrors.ErrNotFriends
	}
	return nil
}

// StatusBetween resolves the relationship as seen from userA's side
func (g *Graph) StatusBetween(userA, userB string) (models.PairStatus, error) {
	a, b := PairKey(userA, userB)
	exists, err := g.store.FriendshipExists(a, b)
	if err != nil {
		return models.PairStatus{}, err
	}
	if exists {
		return models.PairStatus{Status: models.RelationFriends}, nil
	}

	req, found, err := g.store.ActiveRequestBetween(userA, userB)
	if err != nil {
		return models.PairStatus{}, err
	}
	if found {
		status := models.RelationPendingReceived
		if req.SenderEmail == userA {
			status = models.RelationPendingSent
		}
		return models.PairStatus{Status: status, RequestID: req.ID}, nil
	}

	return models.PairStatus{Status: models.RelationNone}, nil
}
