package apperrors

import "fmt"

// Kind classifies an error for the transport layer.
type Kind int

const (
	Validation Kind = iota + 1
	Conflict
	Authorization
	State
)

func (k Kind) String() string {
	switch k {
	case Validation:
		return "validation"
	case Conflict:
		return "conflict"
	case Authorization:
		return "authorization"
	case State:
		return "state"
	}
	return "unknown"
}

// Error is a terminal, single-operation error with a stable code.
type Error struct {
	Kind Kind
	Code string
	Msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Msg)
}

// Sentinel errors for every failure the streak and friend components can
// return. Handlers match these with errors.Is and map Kind to a status code.
var (
	ErrInvalidDate = &Error{Validation, "InvalidDate", "activity date cannot be in the future"}
	ErrSelfRequest = &Error{Validation, "SelfRequest", "cannot send a friend request to yourself"}

	ErrAlreadyFriends   = &Error{Conflict, "AlreadyFriends", "users are already friends"}
	ErrDuplicateRequest = &Error{Conflict, "DuplicateRequest", "a pending request already exists between these users"}
	ErrNotFriends       = &Error{Conflict, "NotFriends", "users are not friends"}

	ErrNotAuthorized = &Error{Authorization, "NotAuthorized", "acting user is not allowed to perform this operation"}

	ErrRequestNotPending = &Error{State, "RequestNotPending", "friend request is no longer pending"}
	ErrNoFreezeRemaining = &Error{State, "NoFreezeRemaining", "no streak freezes left this month"}
	ErrNoStreakToProtect = &Error{State, "NoStreakToProtect", "no active streak for a freeze to protect"}
)
