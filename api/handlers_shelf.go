package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/next-chapter/api/models"
)

// GET /v1/shelf?status=
func (app *Application) getShelf(w http.ResponseWriter, r *http.Request) {
	user, err := app.getUserFromToken(w, r)
	if err != nil {
		return
	}

	var entries []models.ShelfEntry
	var listErr error

	status := r.URL.Query().Get("status")
	if status != "" {
		if !validShelfStatus(status) {
			app.badRequest(w, r, errors.New("invalid shelf status"))
			return
		}
		entries, listErr = app.ShelfRepo.ListByStatus(user.UserID, status)
	} else {
		entries, listErr = app.ShelfRepo.List(user.UserID)
	}

	if listErr != nil {
		app.internalServerError(w, r, listErr)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"shelf": entries,
	})
}

// POST /v1/shelf/save
func (app *Application) saveToShelf(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		app.requirePostMethod(w, r, ErrPOST)
		return
	}

	user, err := app.getUserFromToken(w, r)
	if err != nil {
		return
	}

	var payload models.SaveBookRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		app.badJSONRequest(w, r, err)
		return
	}

	if payload.VolumeID == "" || payload.Title == "" {
		app.badRequest(w, r, errors.New("volumeId and title are required"))
		return
	}

	status := payload.Status
	if status == "" {
		status = models.ShelfStatusWantToRead
	}
	if !validShelfStatus(status) {
		app.badRequest(w, r, errors.New("invalid shelf status"))
		return
	}

	entry := models.ShelfEntry{
		ID:           uuid.New().String(),
		UserID:       user.UserID,
		VolumeID:     payload.VolumeID,
		Title:        payload.Title,
		Authors:      payload.Authors,
		ThumbnailURL: payload.ThumbnailURL,
		PageCount:    payload.PageCount,
		Status:       status,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	saved, saveErr := app.ShelfRepo.Save(entry)
	if saveErr != nil {
		app.internalServerError(w, r, saveErr)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(saved)
}

// POST /v1/shelf/remove
func (app *Application) removeFromShelf(w http.ResponseWriter, r *http.Request) {
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

	if err := app.ShelfRepo.Remove(user.UserID, payload.VolumeID); err != nil {
		app.componentError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"removed": payload.VolumeID,
	})
}

// POST /v1/shelf/progress
func (app *Application) updateProgress(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		app.requirePostMethod(w, r, ErrPOST)
		return
	}

	user, err := app.getUserFromToken(w, r)
	if err != nil {
		return
	}

	var payload models.ProgressUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		app.badJSONRequest(w, r, err)
		return
	}

	if payload.VolumeID == "" {
		app.badRequest(w, r, errors.New("volumeId is required"))
		return
	}
	if payload.CurrentPage < 0 {
		app.badRequest(w, r, errors.New("currentPage cannot be negative"))
		return
	}

	entry, updateErr := app.ShelfRepo.UpdateProgress(user.UserID, payload.VolumeID, payload.CurrentPage)
	if updateErr != nil {
		app.componentError(w, r, updateErr)
		return
	}

	// Progress counts toward the reading streak
	state, streakErr := app.Streaks.RecordActivity(user.UserID, time.Now())
	if streakErr != nil {
		app.componentError(w, r, streakErr)
		return
	}
	app.checkStreakBadges(user.UserID, state)

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"entry":  entry,
		"streak": state,
	})
}

// POST /v1/shelf/finish
func (app *Application) finishBook(w http.ResponseWriter, r *http.Request) {
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

	entry, updateErr := app.ShelfRepo.UpdateStatus(user.UserID, payload.VolumeID, models.ShelfStatusFinished)
	if updateErr != nil {
		app.componentError(w, r, updateErr)
		return
	}

	total, incErr := app.UserRepo.IncrementBooksFinished(user.UserID)
	if incErr != nil {
		app.internalServerError(w, r, incErr)
		return
	}
	app.checkFinishBadges(user.UserID, total)

	// Finishing a book counts toward the reading streak
	state, streakErr := app.Streaks.RecordActivity(user.UserID, time.Now())
	if streakErr != nil {
		app.componentError(w, r, streakErr)
		return
	}
	app.checkStreakBadges(user.UserID, state)

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"entry":  entry,
		"streak": state,
	})
}

func (app *Application) checkFinishBadges(userID string, totalFinished int) {
	codes := []string{}
	if totalFinished >= 1 {
		codes = append(codes, models.BadgeFirstBook)
	}
	if totalFinished >= 10 {
		codes = append(codes, models.BadgeTenFinished)
	}
	for _, code := range codes {
		if _, err := app.BadgeRepo.Award(userID, code); err != nil {
			log.Warn().Err(err).Str("badge", code).Msg("failed to award finish badge")
		}
	}
}

func validShelfStatus(status string) bool {
	switch status {
	case models.ShelfStatusWantToRead, models.ShelfStatusReading, models.ShelfStatusFinished:
		return true
	}
	return false
}
