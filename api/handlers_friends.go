package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
)

// GET /v1/friends
func (app *Application) getFriends(w http.ResponseWriter, r *http.Request) {
	user, err := app.getUserFromToken(w, r)
	if err != nil {
		return
	}

	friendList, err := app.FriendRepo.ListFriends(user.Email)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"friends": friendList,
	})
}

// GET /v1/friends/requests
func (app *Application) getFriendRequests(w http.ResponseWriter, r *http.Request) {
	user, err := app.getUserFromToken(w, r)
	if err != nil {
		return
	}

	requests, err := app.FriendRepo.ListRequests(user.Email)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"requests": requests,
	})
}

// POST /v1/friends/request
func (app *Application) sendFriendRequest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		app.requirePostMethod(w, r, ErrPOST)
		return
	}

	user, err := app.getUserFromToken(w, r)
	if err != nil {
		return
	}

	var payload struct {
		ReceiverEmail string `json:"receiverEmail"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		app.badJSONRequest(w, r, err)
		return
	}

	receiver := strings.TrimSpace(payload.ReceiverEmail)
	if receiver == "" {
		app.badRequest(w, r, errors.New("receiverEmail is required"))
		return
	}

	// Ensure the receiver exists before touching the graph
	if _, err := app.UserRepo.GetUserByEmail(receiver); err != nil {
		app.badRequest(w, r, errors.New("user not found"))
		return
	}

	request, err := app.Friends.SendRequest(user.Email, receiver)
	if err != nil {
		app.componentError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(request)
}

// POST /v1/friends/respond
func (app *Application) respondToFriendRequest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		app.requirePostMethod(w, r, ErrPOST)
		return
	}

	user, err := app.getUserFromToken(w, r)
	if err != nil {
		return
	}

	var payload struct {
		RequestID string `json:"requestId"`
		Decision  string `json:"decision"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		app.badJSONRequest(w, r, err)
		return
	}

	if payload.RequestID == "" || payload.Decision == "" {
		app.badRequest(w, r, errors.New("requestId and decision are required"))
		return
	}

	request, err := app.Friends.Respond(payload.RequestID, user.Email, strings.ToLower(payload.Decision))
	if err != nil {
		app.componentError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(request)
}

// POST /v1/friends/cancel
func (app *Application) cancelFriendRequest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		app.requirePostMethod(w, r, ErrPOST)
		return
	}

	user, err := app.getUserFromToken(w, r)
	if err != nil {
		return
	}

	var payload struct {
		RequestID string `json:"requestId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		app.badJSONRequest(w, r, err)
		return
	}

	if payload.RequestID == "" {
		app.badRequest(w, r, errors.New("requestId is required"))
		return
	}

	if err := app.Friends.Cancel(payload.RequestID, user.Email); err != nil {
		app.componentError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"cancelled": payload.RequestID,
	})
}

// POST /v1/friends/remove
func (app *Application) removeFriend(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		app.requirePostMethod(w, r, ErrPOST)
		return
	}

	user, err := app.getUserFromToken(w, r)
	if err != nil {
		return
	}

	var payload struct {
		FriendEmail string `json:"friendEmail"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		app.badJSONRequest(w, r, err)
		return
	}

	if payload.FriendEmail == "" {
		app.badRequest(w, r, errors.New("friendEmail is required"))
		return
	}

	if err := app.Friends.Remove(user.Email, payload.FriendEmail); err != nil {
		app.componentError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"removed": payload.FriendEmail,
	})
}

// GET /v1/friends/status?email= - the authoritative friend-button state
func (app *Application) getFriendStatus(w http.ResponseWriter, r *http.Request) {
	user, err := app.getUserFromToken(w, r)
	if err != nil {
		return
	}

	other := strings.TrimSpace(r.URL.Query().Get("email"))
	if other == "" {
		app.badRequest(w, r, errors.New("email query parameter is required"))
		return
	}

	status, err := app.Friends.StatusBetween(user.Email, other)
	if err != nil {
		app.componentError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(status)
}
