package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/next-chapter/api/models"
)

// GET /v1/reviews?volumeId= - reviews for a volume, or the caller's own
func (app *Application) getReviews(w http.ResponseWriter, r *http.Request) {
	user, err := app.getUserFromToken(w, r)
	if err != nil {
		return
	}

	var reviews []models.Review
	var listErr error

	if volumeID := r.URL.Query().Get("volumeId"); volumeID != "" {
		reviews, listErr = app.ReviewRepo.ListByVolume(volumeID)
	} else {
		reviews, listErr = app.ReviewRepo.ListByUser(user.UserID)
	}

	if listErr != nil {
		app.internalServerError(w, r, listErr)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"reviews": reviews,
	})
}

// POST /v1/reviews/save
func (app *Application) saveReview(w http.ResponseWriter, r *http.Request) {
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
		Rating   int    `json:"rating"`
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
	if payload.Rating < 1 || payload.Rating > 5 {
		app.badRequest(w, r, errors.New("rating must be between 1 and 5"))
		return
	}

	review := models.Review{
		ID:        uuid.New().String(),
		UserID:    user.UserID,
		VolumeID:  payload.VolumeID,
		Rating:    payload.Rating,
		Body:      payload.Body,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	saved, saveErr := app.ReviewRepo.Upsert(review)
	if saveErr != nil {
		app.internalServerError(w, r, saveErr)
		return
	}

	// Writing a review counts toward the reading streak
	state, streakErr := app.Streaks.RecordActivity(user.UserID, time.Now())
	if streakErr != nil {
		app.componentError(w, r, streakErr)
		return
	}
	app.checkStreakBadges(user.UserID, state)

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"review": saved,
		"streak": state,
	})
}

// POST /v1/reviews/delete
func (app *Application) deleteReview(w http.ResponseWriter, r *http.Request) {
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
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		app.badJSONRequest(w, r, err)
		return
	}

	if payload.VolumeID == "" {
		app.badRequest(w, r, errors.New("volumeId is required"))
		return
	}

	if err := app.ReviewRepo.Delete(user.UserID, payload.VolumeID); err != nil {
		app.componentError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"deleted": payload.VolumeID,
	})
}
