package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/next-chapter/api/apperrors"
	"github.com/next-chapter/api/models"
)

// GET /v1/lists
func (app *Application) getLists(w http.ResponseWriter, r *http.Request) {
	user, err := app.getUserFromToken(w, r)
	if err != nil {
		return
	}

	lists, listErr := app.ListRepo.ListByUser(user.UserID)
	if listErr != nil {
		app.internalServerError(w, r, listErr)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"lists": lists,
	})
}

// POST /v1/lists/create
func (app *Application) createList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		app.requirePostMethod(w, r, ErrPOST)
		return
	}

	user, err := app.getUserFromToken(w, r)
	if err != nil {
		return
	}

	var payload struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		app.badJSONRequest(w, r, err)
		return
	}

	if payload.Name == "" {
		app.badRequest(w, r, errors.New("name is required"))
		return
	}

	list := models.BookList{
		ID:          uuid.New().String(),
		UserID:      user.UserID,
		Name:        payload.Name,
		Description: payload.Description,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	created, createErr := app.ListRepo.Create(list)
	if createErr != nil {
		app.internalServerError(w, r, createErr)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(created)
}

// POST /v1/lists/update
func (app *Application) updateList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		app.requirePostMethod(w, r, ErrPOST)
		return
	}

	user, err := app.getUserFromToken(w, r)
	if err != nil {
		return
	}

	var payload struct {
		ListID      string `json:"listId"`
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		app.badJSONRequest(w, r, err)
		return
	}

	if payload.ListID == "" || payload.Name == "" {
		app.badRequest(w, r, errors.New("listId and name are required"))
		return
	}

	list, getErr := app.listOwnedBy(user.UserID, payload.ListID)
	if getErr != nil {
		app.componentError(w, r, getErr)
		return
	}

	list.Name = payload.Name
	list.Description = payload.Description

	updated, updateErr := app.ListRepo.Update(list)
	if updateErr != nil {
		app.internalServerError(w, r, updateErr)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(updated)
}

// POST /v1/lists/delete
func (app *Application) deleteList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		app.requirePostMethod(w, r, ErrPOST)
		return
	}

	user, err := app.getUserFromToken(w, r)
	if err != nil {
		return
	}

	var payload struct {
		ListID string `json:"listId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		app.badJSONRequest(w, r, err)
		return
	}

	if payload.ListID == "" {
		app.badRequest(w, r, errors.New("listId is required"))
		return
	}

	if err := app.ListRepo.Delete(user.UserID, payload.ListID); err != nil {
		app.componentError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"deleted": payload.ListID,
	})
}

// GET /v1/lists/items?listId=
func (app *Application) getListItems(w http.ResponseWriter, r *http.Request) {
	user, err := app.getUserFromToken(w, r)
	if err != nil {
		return
	}

	listID := r.URL.Query().Get("listId")
	if listID == "" {
		app.badRequest(w, r, errors.New("listId query parameter is required"))
		return
	}

	if _, err := app.listOwnedBy(user.UserID, listID); err != nil {
		app.componentError(w, r, err)
		return
	}

	items, itemsErr := app.ListRepo.Items(listID)
	if itemsErr != nil {
		app.internalServerError(w, r, itemsErr)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"items": items,
	})
}

// POST /v1/lists/items/add
func (app *Application) addListItem(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		app.requirePostMethod(w, r, ErrPOST)
		return
	}

	user, err := app.getUserFromToken(w, r)
	if err != nil {
		return
	}

	var payload struct {
		ListID   string `json:"listId"`
		VolumeID string `json:"volumeId"`
		Title    string `json:"title"`
		Position int    `json:"position"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		app.badJSONRequest(w, r, err)
		return
	}

	if payload.ListID == "" || payload.VolumeID == "" {
		app.badRequest(w, r, errors.New("listId and volumeId are required"))
		return
	}

	if _, err := app.listOwnedBy(user.UserID, payload.ListID); err != nil {
		app.componentError(w, r, err)
		return
	}

	item := models.ListItem{
		ListID:   payload.ListID,
		VolumeID: payload.VolumeID,
		Title:    payload.Title,
		Position: payload.Position,
	}
	if err := app.ListRepo.AddItem(item); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(item)
}

// POST /v1/lists/items/remove
func (app *Application) removeListItem(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		app.requirePostMethod(w, r, ErrPOST)
		return
	}

	user, err := app.getUserFromToken(w, r)
	if err != nil {
		return
	}

	var payload struct {
		ListID   string `json:"listId"`
		VolumeID string `json:"volumeId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		app.badJSONRequest(w, r, err)
		return
	}

	if payload.ListID == "" || payload.VolumeID == "" {
		app.badRequest(w, r, errors.New("listId and volumeId are required"))
		return
	}

	if _, err := app.listOwnedBy(user.UserID, payload.ListID); err != nil {
		app.componentError(w, r, err)
		return
	}

	if err := app.ListRepo.RemoveItem(payload.ListID, payload.VolumeID); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"removed": payload.VolumeID,
	})
}

// listOwnedBy loads a list and rejects callers who do not own it
func (app *Application) listOwnedBy(userID, listID string) (models.BookList, error) {
	list, err := app.ListRepo.Get(listID)
	if err != nil {
		return models.BookList{}, err
	}
	if list.UserID != userID {
		return models.BookList{}, apperrors.ErrNotAuthorized
	}
	return list, nil
}
