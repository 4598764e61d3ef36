package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/next-chapter/api/models"
)

// GET /v1/books/search?q=&limit=
func (app *Application) searchBooks(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if len(query) < 2 {
		app.badRequest(w, r, errors.New("search query must be at least 2 characters"))
		return
	}

	limit := 20
	if l := r.URL.Query().Get("limit"); l != "" {
		parsed, parseErr := strconv.Atoi(l)
		if parseErr != nil || parsed <= 0 || parsed > 40 {
			app.badRequest(w, r, errors.New("limit must be between 1 and 40"))
			return
		}
		limit = parsed
	}

	cacheKey := fmt.Sprintf("%s|%d", strings.ToLower(query), limit)
	if cached, found := app.SearchCache.Get(cacheKey); found {
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"results": cached,
			"cached":  true,
		})
		return
	}

	results, err := app.Books.Search(query, limit)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	app.SearchCache.Put(cacheKey, results)

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"results": results,
		"cached":  false,
	})
}

// GET /v1/books/featured
func (app *Application) getFeaturedBooks(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	featured, err := app.FeaturedRepo.GetByDate(time.Now())
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"featured": featured,
	})
}

// POST /v1/admin/featured/refresh - Manually refresh the featured shelf (Admin only)
func (app *Application) refreshFeaturedBooks(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		app.requirePostMethod(w, r, ErrPOST)
		return
	}

	books, err := app.Books.BySubject(app.Config.FeaturedSubject, 12)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	featured := models.FeaturedFromBooks(books, app.Config.FeaturedSubject)
	if err := app.FeaturedRepo.Replace(time.Now(), featured); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"refreshed": len(featured),
	})
}
