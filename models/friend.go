package models

import "time"

const (
	FriendRequestStatusPending   = "pending"
	FriendRequestStatusAccepted  = "accepted"
	FriendRequestStatusRejected  = "rejected"
	FriendRequestStatusCancelled = "cancelled"
)

// Relationship statuses as seen from one side of a pair
const (
	RelationNone            = "none"
	RelationPendingSent     = "pending_sent"
	RelationPendingReceived = "pending_received"
	RelationFriends         = "friends"
)

// FriendRequest represents one request record; rejected and cancelled rows
// are kept as history and never reopened.
type FriendRequest struct {
	ID            string    `json:"id" db:"id"`
	SenderEmail   string    `json:"senderEmail" db:"sender_email"`
	ReceiverEmail string    `json:"receiverEmail" db:"receiver_email"`
	Status        string    `json:"status" db:"status"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time `json:"updatedAt" db:"updated_at"`
}

// Friendship is the symmetric pair derived from an accepted request.
// UserA always holds the lexicographically smaller email.
type Friendship struct {
	UserA     string    `json:"userA" db:"user_a"`
	UserB     string    `json:"userB" db:"user_b"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// PairStatus is the authoritative answer for a friend-button render
type PairStatus struct {
	Status    string `json:"status"`
	RequestID string `json:"requestId,omitempty"`
}

// FriendSummary represents an accepted friendship with the other user's summary
type FriendSummary struct {
	Friend    UserSummary `json:"friend"`
	CreatedAt time.Time   `json:"createdAt"`
}

// FriendRequestSummary represents a pending request in either direction
type FriendRequestSummary struct {
	RequestID string      `json:"requestId"`
	User      UserSummary `json:"user"`
	Direction string      `json:"direction"` // "incoming" or "outgoing"
	CreatedAt time.Time   `json:"createdAt"`
}
