package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/next-chapter/api/models"
)

// GET /v1/journal?volumeId=
func (app *Application) getJournal(w http.ResponseWriter, r *http.Request) {
	user, err := app.getUserFromToken(w, r)
	if err != nil {
		return
	}

	volumeID := r.URL.Query().Get("volumeId")
	if volumeID == "" {
		app.badRequest(w, r, errors.New("volumeId query parameter is required"))
		return
	}

	entries, listErr := app.JournalRepo.ListByBook(user.UserID, volumeID)
	if listErr != nil {
		app.internalServerError(w, r, listErr)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"entries": entries,
	})
}

// POST /v1/journal/save - idempotent upsert, the target of the client's
// debounced auto-save
func (app *Application) saveJournalEntry(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		app.requirePostMethod(w, r, ErrPOST)
		return
	}

	user, err := app.getUserFromToken(w, r)
	if err != nil {
		return
	}

	var payload struct {
		VolumeID string `json:"volumeId"`
		Body     string `json:"body"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		app.badJSONRequest(w, r, err)
		return
	}

	if payload.VolumeID == "" {
		app.badRequest(w, r, errors.New("volumeId is required"))
		return
	}

	entry := models.JournalEntry{
		ID:        uuid.New().String(),
		UserID:    user.UserID,
		VolumeID:  payload.VolumeID,
		EntryDate: time.Now(),
		Body:      payload.Body,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	saved, saveErr := app.JournalRepo.Save(entry)
	if saveErr != nil {
		app.internalServerError(w, r, saveErr)
		return
	}

	// Journaling counts toward the reading streak
	state, streakErr := app.Streaks.RecordActivity(user.UserID, time.Now())
	if streakErr != nil {
		app.componentError(w, r, streakErr)
		return
	}
	app.checkStreakBadges(user.UserID, state)

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"entry":  saved,
		"streak": state,
	})
}

// POST /v1/journal/delete
func (app *Application) deleteJournalEntry(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		app.requirePostMethod(w, r, ErrPOST)
		return
	}

	user, err := app.getUserFromToken(w, r)
	if err != nil {
		return
	}

	var payload struct {
		EntryID string `json:"entryId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		app.badJSONRequest(w, r, err)
		return
	}

	if payload.EntryID == "" {
		app.badRequest(w, r, errors.New("entryId is required"))
		return
	}

	if err := app.JournalRepo.Delete(user.UserID, payload.EntryID); err != nil {
		app.componentError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"deleted": payload.EntryID,
	})
}
