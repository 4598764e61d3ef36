package api

import (
	"net/http"
	"regexp"
	"strings"
)

func cleanOrigin(origin string) string {
	cleanedOrigin := strings.TrimPrefix(origin, "https://")
	cleanedOrigin = strings.TrimPrefix(cleanedOrigin, "wss://")
	if idx := strings.Index(cleanedOrigin, "/"); idx != -1 {
		cleanedOrigin = cleanedOrigin[:idx]
	}
	return cleanedOrigin
}

func isAllowedOrigin(origin string, allowedOrigins []string) bool {
	cleanedRequest := cleanOrigin(origin)

	// Allow localhost for development
	localhostPattern := regexp.MustCompile(`^localhost:\d+$`)
	if localhostPattern.MatchString(cleanedRequest) {
		return true
	}

	// Check against configured allowed origins
	for _, allowed := range allowedOrigins {
		cleanedAllowed := cleanOrigin(allowed)
		if cleanedAllowed == cleanedRequest {
			return true
		}
	}

	return false
}

func wrapMuxWithCorsAndOrigins(mux *http.ServeMux, app Application) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")

		if origin == "" {
			referer := r.Header.Get("Referer")
			if referer != "" {
				origin = referer
			}
		}

		if origin == "" {
			handleCors(mux.ServeHTTP)(w, r)
			return
		}

		// Check if origin is allowed
		if isAllowedOrigin(origin, app.Config.AllowedOrigins) {
			handleCors(mux.ServeHTTP)(w, r)
			return
		}

		w.WriteHeader(403)
		w.Write([]byte("origin not allowed: " + cleanOrigin(origin)))
	})
}

func (app Application) BuildRoutes(mux *http.ServeMux) *http.ServeMux {
	finalMux := http.NewServeMux()

	// Public endpoints
	mux.HandleFunc("/", app.home)
	mux.HandleFunc("/v1/auth/signup", app.signup)
	mux.HandleFunc("/v1/auth/login", app.login)
	mux.HandleFunc("/v1/auth/refresh", app.refreshSession)
	mux.HandleFunc("/v1/auth/logout", app.logout)
	mux.HandleFunc("/v1/books/search", app.searchBooks)
	mux.HandleFunc("/v1/books/featured", app.getFeaturedBooks)

	// Authenticated endpoints
	mux.HandleFunc("/v1/users/me", app.authenticate(app.getCurrentUser))
	mux.HandleFunc("/v1/users/me/update", app.authenticate(app.updateCurrentUser))

	mux.HandleFunc("/v1/shelf", app.authenticate(app.getShelf))
	mux.HandleFunc("/v1/shelf/save", app.authenticate(app.saveToShelf))
	mux.HandleFunc("/v1/shelf/remove", app.authenticate(app.removeFromShelf))
	mux.HandleFunc("/v1/shelf/progress", app.authenticate(app.updateProgress))
	mux.HandleFunc("/v1/shelf/finish", app.authenticate(app.finishBook))

	mux.HandleFunc("/v1/streak", app.authenticate(app.getStreakState))
	mux.HandleFunc("/v1/streak/record", app.authenticate(app.recordActivity))
	mux.HandleFunc("/v1/streak/freeze", app.authenticate(app.useStreakFreeze))
	mux.HandleFunc("/v1/streak/calendar", app.authenticate(app.getStreakCalendar))
	mux.HandleFunc("/v1/badges", app.authenticate(app.getBadges))

	mux.HandleFunc("/v1/reviews", app.authenticate(app.getReviews))
	mux.HandleFunc("/v1/reviews/save", app.authenticate(app.saveReview))
	mux.HandleFunc("/v1/reviews/delete", app.authenticate(app.deleteReview))

	mux.HandleFunc("/v1/journal", app.authenticate(app.getJournal))
	mux.HandleFunc("/v1/journal/save", app.authenticate(app.saveJournalEntry))
	mux.HandleFunc("/v1/journal/delete", app.authenticate(app.deleteJournalEntry))

	mux.HandleFunc("/v1/lists", app.authenticate(app.getLists))
	mux.HandleFunc("/v1/lists/create", app.authenticate(app.createList))
	mux.HandleFunc("/v1/lists/update", app.authenticate(app.updateList))
	mux.HandleFunc("/v1/lists/delete", app.authenticate(app.deleteList))
	mux.HandleFunc("/v1/lists/items", app.authenticate(app.getListItems))
	mux.HandleFunc("/v1/lists/items/add", app.authenticate(app.addListItem))
	mux.HandleFunc("/v1/lists/items/remove", app.authenticate(app.removeListItem))

	mux.HandleFunc("/v1/friends", app.authenticate(app.getFriends))
	mux.HandleFunc("/v1/friends/requests", app.authenticate(app.getFriendRequests))
	mux.HandleFunc("/v1/friends/request", app.authenticate(app.sendFriendRequest))
	mux.HandleFunc("/v1/friends/respond", app.authenticate(app.respondToFriendRequest))
	mux.HandleFunc("/v1/friends/cancel", app.authenticate(app.cancelFriendRequest))
	mux.HandleFunc("/v1/friends/remove", app.authenticate(app.removeFriend))
	mux.HandleFunc("/v1/friends/status", app.authenticate(app.getFriendStatus))

	// Admin endpoints
	mux.HandleFunc("/v1/users", app.verifyPermissions(app.getAllUsers))
	mux.HandleFunc("/v1/admin/featured/refresh", app.verifyPermissions(app.refreshFeaturedBooks))

	// Wrap entire mux with CORS and origins check
	finalMux.Handle("/", logRequests(wrapMuxWithCorsAndOrigins(mux, app)))

	return finalMux
}
