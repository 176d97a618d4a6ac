package controllers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"modboard/app/identity"
	"modboard/app/middleware"
	"modboard/app/models"
	"modboard/app/services"

	"github.com/gorilla/mux"
)

// MaxPageSize caps the per_page query parameter.
const MaxPageSize = 100

func sendJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func sendError(w http.ResponseWriter, message string, status int) {
	sendJSON(w, status, map[string]string{"error": message})
}

// writeServiceError maps the service error kinds onto HTTP status codes.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, services.ErrValidation):
		sendError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, services.ErrForbidden):
		sendError(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, services.ErrNotFound):
		sendError(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, services.ErrConflict):
		sendError(w, err.Error(), http.StatusConflict)
	default:
		log.Printf("%s %s failed: %v [%s]", r.Method, r.URL.Path, err, middleware.RequestIDFrom(r.Context()))
		sendError(w, "internal server error", http.StatusInternalServerError)
	}
}

// requireCaller returns the authenticated caller or answers 401.
func requireCaller(w http.ResponseWriter, r *http.Request) (identity.Caller, bool) {
	caller, ok := identity.CallerFrom(r.Context())
	if !ok {
		sendError(w, "authentication required", http.StatusUnauthorized)
	}
	return caller, ok
}

// optionalActor is the caller's actor on routes that also serve anonymous users.
func optionalActor(r *http.Request) *models.Actor {
	if caller, ok := identity.CallerFrom(r.Context()); ok {
		return &caller.Actor
	}
	return nil
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		sendError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

func pathID(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	id, err := strconv.Atoi(mux.Vars(r)[name])
	if err != nil || id < 1 {
		sendError(w, "Invalid "+name, http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// pagination reads page and per_page, falling back to the defaults on
// missing or malformed values.
func pagination(r *http.Request) (page, perPage int) {
	page = 1
	if p, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && p > 0 {
		page = p
	}
	perPage = services.DefaultPageSize
	if pp, err := strconv.Atoi(r.URL.Query().Get("per_page")); err == nil && pp > 0 {
		perPage = pp
	}
	if perPage > MaxPageSize {
		perPage = MaxPageSize
	}
	return page, perPage
}
