package friends

import (
	"errors"
	"testing"
	"time"

	"github.com/next-chapter/api/apperrors"
	"github.com/next-chapter/api/models"
)

type pair struct {
	a, b string
}

type memStore struct {
	requests    map[string]models.FriendRequest
	friendships map[pair]models.Friendship
	acceptErr   error
}

func newMemStore() *memStore {
	return &memStore{
		requests:    make(map[string]models.FriendRequest),
		friendships: make(map[pair]models.Friendship),
	}
}

func (m *memStore) CreateRequest(req models.FriendRequest) error {
	for _, existing := range m.requests {
		if existing.Status != models.FriendRequestStatusPending {
			continue
		}
		ea, eb := PairKey(existing.SenderEmail, existing.ReceiverEmail)
		na, nb := PairKey(req.SenderEmail, req.ReceiverEmail)
		if ea == na && eb == nb {
			return apperrors.ErrDuplicateRequest
		}
	}
	m.requests[req.ID] = req
	return nil
}

func (m *memStore) GetRequest(id string) (models.FriendRequest, bool, error) {
	req, ok := m.requests[id]
	return req, ok, nil
}

func (m *memStore) ActiveRequestBetween(a, b string) (models.FriendRequest, bool, error) {
	for _, req := range m.requests {
		if req.Status != models.FriendRequestStatusPending {
			continue
		}
		if (req.SenderEmail == a && req.ReceiverEmail == b) ||
			(req.SenderEmail == b && req.ReceiverEmail == a) {
			return req, true, nil
		}
	}
	return models.FriendRequest{}, false, nil
}

func (m *memStore) UpdateRequestStatus(id, from, to string, at time.Time) (models.FriendRequest, bool, error) {
	req, ok := m.requests[id]
	if !ok || req.Status != from {
		return models.FriendRequest{}, false, nil
	}
	req.Status = to
	req.UpdatedAt = at
	m.requests[id] = req
	return req, true, nil
}

func (m *memStore) AcceptRequest(id string, at time.Time, f models.Friendship) (models.FriendRequest, bool, error) {
	if m.acceptErr != nil {
		return models.FriendRequest{}, false, m.acceptErr
	}
	req, ok, err := m.UpdateRequestStatus(id, models.FriendRequestStatusPending, models.FriendRequestStatusAccepted, at)
	if err != nil || !ok {
		return req, ok, err
	}
	m.friendships[pair{f.UserA, f.UserB}] = f
	return req, true, nil
}

func (m *memStore) DeleteFriendship(a, b string) (bool, error) {
	key := pair{a, b}
	if _, ok := m.friendships[key]; !ok {
		return false, nil
	}
	delete(m.friendships, key)
	return true, nil
}

func (m *memStore) FriendshipExists(a, b string) (bool, error) {
	_, ok := m.friendships[pair{a, b}]
	return ok, nil
}

const (
	alice = "alice@example.com"
	bob   = "bob@example.com"
	carol = "carol@example.com"
)

func TestPairKeyOrdersCanonically(t *testing.T) {
	a1, b1 := PairKey(alice, bob)
	a2, b2 := PairKey(bob, alice)

	if a1 != a2 || b1 != b2 {
		t.Fatalf("pair key not canonical: (%s,%s) vs (%s,%s)", a1, b1, a2, b2)
	}
	if a1 > b1 {
		t.Fatalf("pair key out of order: %s > %s", a1, b1)
	}
}

func TestSendRequestCreatesPending(t *testing.T) {
	graph := NewGraph(newMemStore())

	req, err := graph.SendRequest(alice, bob)
	if err != nil {
		t.Fatal(err)
	}

	if req.Status != models.FriendRequestStatusPending {
		t.Errorf("status = %q, want pending", req.Status)
	}
	if req.SenderEmail != alice || req.ReceiverEmail != bob {
		t.Errorf("request endpoints wrong: %+v", req)
	}
	if req.ID == "" {
		t.Errorf("request has no id")
	}
}

func TestSendRequestRejectsSelf(t *testing.T) {
	graph := NewGraph(newMemStore())

	_, err := graph.SendRequest(alice, alice)
	if !errors.Is(err, apperrors.ErrSelfRequest) {
		t.Fatalf("expected ErrSelfRequest, got %v", err)
	}
}

func TestSendRequestRejectsDuplicateEitherDirection(t *testing.T) {
	graph := NewGraph(newMemStore())

	if _, err := graph.SendRequest(alice, bob); err != nil {
		t.Fatal(err)
	}

	if _, err := graph.SendRequest(alice, bob); !errors.Is(err, apperrors.ErrDuplicateRequest) {
		t.Errorf("same direction: expected ErrDuplicateRequest, got %v", err)
	}
	if _, err := graph.SendRequest(bob, alice); !errors.Is(err, apperrors.ErrDuplicateRequest) {
		t.Errorf("reverse direction: expected ErrDuplicateRequest, got %v", err)
	}
}

func TestSendRequestRejectsExistingFriends(t *testing.T) {
	graph := NewGraph(newMemStore())

	req, err := graph.SendRequest(alice, bob)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := graph.Respond(req.ID, bob, DecisionAccept); err != nil {
		t.Fatal(err)
	}

	_, err = graph.SendRequest(alice, bob)
	if !errors.Is(err, apperrors.ErrAlreadyFriends) {
		t.Fatalf("expected ErrAlreadyFriends, got %v", err)
	}
}

func TestRespondAcceptCreatesFriendship(t *testing.T) {
	store := newMemStore()
	graph := NewGraph(store)

	req, err := graph.SendRequest(alice, bob)
	if err != nil {
		t.Fatal(err)
	}

	updated, err := graph.Respond(req.ID, bob, DecisionAccept)
	if err != nil {
		t.Fatal(err)
	}
	if updated.Status != models.FriendRequestStatusAccepted {
		t.Errorf("status = %q, want accepted", updated.Status)
	}

	status, err := graph.StatusBetween(alice, bob)
	if err != nil {
		t.Fatal(err)
	}
	if status.Status != models.RelationFriends {
		t.Errorf("relation = %q, want friends", status.Status)
	}
}

func TestRespondAcceptFailureLeavesRequestPending(t *testing.T) {
	store := newMemStore()
	graph := NewGraph(store)

	req, err := graph.SendRequest(alice, bob)
	if err != nil {
		t.Fatal(err)
	}

	store.acceptErr = errors.New("connection reset")
	if _, err := graph.Respond(req.ID, bob, DecisionAccept); err == nil {
		t.Fatal("expected accept to fail")
	}

	// The failed accept must not have moved the request or half-created the
	// friendship, so the receiver can simply try again.
	stored, found, err := store.GetRequest(req.ID)
	if err != nil || !found {
		t.Fatalf("request lost after failed accept: found=%v err=%v", found, err)
	}
	if stored.Status != models.FriendRequestStatusPending {
		t.Errorf("status = %q, want pending", stored.Status)
	}
	status, err := graph.StatusBetween(alice, bob)
	if err != nil {
		t.Fatal(err)
	}
	if status.Status != models.RelationPendingSent {
		t.Errorf("relation = %q, want pending_sent", status.Status)
	}

	store.acceptErr = nil
	updated, err := graph.Respond(req.ID, bob, DecisionAccept)
	if err != nil {
		t.Fatalf("retry after failure: %v", err)
	}
	if updated.Status != models.FriendRequestStatusAccepted {
		t.Errorf("status = %q, want accepted", updated.Status)
	}
	status, err = graph.StatusBetween(alice, bob)
	if err != nil {
		t.Fatal(err)
	}
	if status.Status != models.RelationFriends {
		t.Errorf("relation = %q, want friends", status.Status)
	}
}

func TestRespondRejectLeavesNoFriendship(t *testing.T) {
	graph := NewGraph(newMemStore())

	req, err := graph.SendRequest(alice, bob)
	if err != nil {
		t.Fatal(err)
	}

	updated, err := graph.Respond(req.ID, bob, DecisionReject)
	if err != nil {
		t.Fatal(err)
	}
	if updated.Status != models.FriendRequestStatusRejected {
		t.Errorf("status = %q, want rejected", updated.Status)
	}

	status, err := graph.StatusBetween(alice, bob)
	if err != nil {
		t.Fatal(err)
	}
	if status.Status != models.RelationNone {
		t.Errorf("relation = %q, want none", status.Status)
	}

	// A rejected request does not block a fresh one.
	if _, err := graph.SendRequest(bob, alice); err != nil {
		t.Errorf("new request after rejection failed: %v", err)
	}
}

func TestRespondOnlyReceiverMayDecide(t *testing.T) {
	graph := NewGraph(newMemStore())

	req, err := graph.SendRequest(alice, bob)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := graph.Respond(req.ID, alice, DecisionAccept); !errors.Is(err, apperrors.ErrNotAuthorized) {
		t.Errorf("sender deciding: expected ErrNotAuthorized, got %v", err)
	}
	if _, err := graph.Respond(req.ID, carol, DecisionAccept); !errors.Is(err, apperrors.ErrNotAuthorized) {
		t.Errorf("third party deciding: expected ErrNotAuthorized, got %v", err)
	}
}

func TestRespondRejectsDoubleDecision(t *testing.T) {
	graph := NewGraph(newMemStore())

	req, err := graph.SendRequest(alice, bob)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := graph.Respond(req.ID, bob, DecisionAccept); err != nil {
		t.Fatal(err)
	}

	_, err = graph.Respond(req.ID, bob, DecisionAccept)
	if !errors.Is(err, apperrors.ErrRequestNotPending) {
		t.Fatalf("expected ErrRequestNotPending, got %v", err)
	}
}

func TestRespondUnknownRequest(t *testing.T) {
	graph := NewGraph(newMemStore())

	_, err := graph.Respond("no-such-id", bob, DecisionAccept)
	if !errors.Is(err, ErrRequestNotFound) {
		t.Fatalf("expected ErrRequestNotFound, got %v", err)
	}
}

func TestRespondBadDecision(t *testing.T) {
	graph := NewGraph(newMemStore())

	req, err := graph.SendRequest(alice, bob)
	if err != nil {
		t.Fatal(err)
	}

	var appErr *apperrors.Error
	_, err = graph.Respond(req.ID, bob, "maybe")
	if !errors.As(err, &appErr) || appErr.Kind != apperrors.Validation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCancelOnlySenderWhilePending(t *testing.T) {
	graph := NewGraph(newMemStore())

	req, err := graph.SendRequest(alice, bob)
	if err != nil {
		t.Fatal(err)
	}

	if err := graph.Cancel(req.ID, bob); !errors.Is(err, apperrors.ErrNotAuthorized) {
		t.Errorf("receiver cancelling: expected ErrNotAuthorized, got %v", err)
	}
	if err := graph.Cancel(req.ID, alice); err != nil {
		t.Fatalf("sender cancelling: %v", err)
	}
	if err := graph.Cancel(req.ID, alice); !errors.Is(err, apperrors.ErrRequestNotPending) {
		t.Errorf("cancelling twice: expected ErrRequestNotPending, got %v", err)
	}

	// Cancellation reopens the pair for either side.
	if _, err := graph.SendRequest(bob, alice); err != nil {
		t.Errorf("new request after cancel failed: %v", err)
	}
}

func TestRemoveFriendship(t *testing.T) {
	graph := NewGraph(newMemStore())

	req, err := graph.SendRequest(alice, bob)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := graph.Respond(req.ID, bob, DecisionAccept); err != nil {
		t.Fatal(err)
	}

	if err := graph.Remove(bob, alice); err != nil {
		t.Fatalf("remove: %v", err)
	}

	status, err := graph.StatusBetween(alice, bob)
	if err != nil {
		t.Fatal(err)
	}
	if status.Status != models.RelationNone {
		t.Errorf("relation after remove = %q, want none", status.Status)
	}

	if err := graph.Remove(alice, bob); !errors.Is(err, apperrors.ErrNotFriends) {
		t.Errorf("removing twice: expected ErrNotFriends, got %v", err)
	}
}

func TestStatusBetweenPendingDirections(t *testing.T) {
	graph := NewGraph(newMemStore())

	req, err := graph.SendRequest(alice, bob)
	if err != nil {
		t.Fatal(err)
	}

	fromSender, err := graph.StatusBetween(alice, bob)
	if err != nil {
		t.Fatal(err)
	}
	if fromSender.Status != models.RelationPendingSent {
		t.Errorf("sender view = %q, want pending_sent", fromSender.Status)
	}
	if fromSender.RequestID != req.ID {
		t.Errorf("sender view request id = %q, want %q", fromSender.RequestID, req.ID)
	}

	fromReceiver, err := graph.StatusBetween(bob, alice)
	if err != nil {
		t.Fatal(err)
	}
	if fromReceiver.Status != models.RelationPendingReceived {
		t.Errorf("receiver view = %q, want pending_received", fromReceiver.Status)
	}
}

func TestStatusBetweenStrangers(t *testing.T) {
	graph := NewGraph(newMemStore())

	status, err := graph.StatusBetween(alice, carol)
	if err != nil {
		t.Fatal(err)
	}
	if status.Status != models.RelationNone {
		t.Errorf("relation = %q, want none", status.Status)
	}
}
