package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/next-chapter/api/models"
	"github.com/next-chapter/api/streak"
)

// GET /v1/streak
func (app *Application) getStreakState(w http.ResponseWriter, r *http.Request) {
	user, err := app.getUserFromToken(w, r)
	if err != nil {
		return
	}

	state, err := app.Streaks.State(user.UserID)
	if err != nil {
		app.componentError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(state)
}

// POST /v1/streak/record
func (app *Application) recordActivity(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		app.requirePostMethod(w, r, ErrPOST)
		return
	}

	user, err := app.getUserFromToken(w, r)
	if err != nil {
		return
	}

	var payload struct {
		Date string `json:"date,omitempty"` // YYYY-MM-DD, defaults to today
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil && err != io.EOF {
		app.badJSONRequest(w, r, err)
		return
	}

	date := time.Now()
	if payload.Date != "" {
		parsed, parseErr := time.Parse("2006-01-02", payload.Date)
		if parseErr != nil {
			app.badJSONRequest(w, r, parseErr)
			return
		}
		date = parsed
	}

	state, err := app.Streaks.RecordActivity(user.UserID, date)
	if err != nil {
		app.componentError(w, r, err)
		return
	}

	app.checkStreakBadges(user.UserID, state)

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(state)
}

// POST /v1/streak/freeze
func (app *Application) useStreakFreeze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		app.requirePostMethod(w, r, ErrPOST)
		return
	}

	user, err := app.getUserFromToken(w, r)
	if err != nil {
		return
	}

	state, err := app.Streaks.UseFreeze(user.UserID)
	if err != nil {
		app.componentError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(state)
}

// GET /v1/streak/calendar?days=90
func (app *Application) getStreakCalendar(w http.ResponseWriter, r *http.Request) {
	user, err := app.getUserFromToken(w, r)
	if err != nil {
		return
	}

	windowDays := streak.DefaultWindowDays
	if days := r.URL.Query().Get("days"); days != "" {
		parsed, parseErr := strconv.Atoi(days)
		if parseErr != nil || parsed <= 0 || parsed > 366 {
			app.badRequest(w, r, errors.New("days must be between 1 and 366"))
			return
		}
		windowDays = parsed
	}

	window, err := app.Streaks.CalendarWindow(user.UserID, windowDays)
	if err != nil {
		app.componentError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(window)
}

// GET /v1/badges
func (app *Application) getBadges(w http.ResponseWriter, r *http.Request) {
	user, err := app.getUserFromToken(w, r)
	if err != nil {
		return
	}

	badges, err := app.BadgeRepo.ListByUser(user.UserID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"badges": badges,
	})
}

// checkStreakBadges awards streak milestones. Awards are idempotent upserts,
// so a failed award only costs the user a retry on their next activity.
func (app *Application) checkStreakBadges(userID string, state models.StreakState) {
	milestones := map[int]string{
		7:   models.BadgeStreakWeek,
		30:  models.BadgeStreakMonth,
		100: models.BadgeStreakLegend,
	}

	for days, code := range milestones {
		if state.CurrentStreak >= days || state.LongestStreak >= days {
			if _, err := app.BadgeRepo.Award(userID, code); err != nil {
				log.Warn().Err(err).Str("badge", code).Msg("failed to award streak badge")
			}
		}
	}
}
