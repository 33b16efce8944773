package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/recipebox/api/internal/middleware"
	"github.com/recipebox/api/internal/repository"
)

// EntityService defines the owner-scoped operations shared by the tag
// and ingredient handlers.
type EntityService interface {
	Create(ctx context.Context, userID int64, name string) (*repository.NamedEntity, error)
	List(ctx context.Context, userID int64) ([]repository.NamedEntity, error)
	Get(ctx context.Context, userID, id int64) (*repository.NamedEntity, error)
	Update(ctx context.Context, userID, id int64, name string) (*repository.NamedEntity, error)
	Delete(ctx context.Context, userID, id int64) error
}

// EntityHandler handles HTTP requests for tags or ingredients; one
// instance is mounted per resource.
type EntityHandler struct {
	// EntityService performs the underlying entity operations.
	EntityService EntityService
}

// entityResponse is the wire representation of a tag or ingredient.
// The id and owner are read-only: they are never taken from payloads.
type entityResponse struct {
	ID   int64  `json:"id"`
	User int64  `json:"user"`
	Name string `json:"name"`
}

// entityRequest represents the JSON payload for create and update.
type entityRequest struct {
	Name string `json:"name"`
}

func toEntityResponse(e *repository.NamedEntity) entityResponse {
	return entityResponse{ID: e.ID, User: e.UserID, Name: e.Name}
}

// List handles GET on the collection, returning only the caller's
// records ordered by name descending.
func (h *EntityHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())

	entities, err := h.EntityService.List(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]entityResponse, 0, len(entities))
	for i := range entities {
		out = append(out, toEntityResponse(&entities[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

// Create handles POST on the collection and responds with the created
// record and status 201.
func (h *EntityHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())

	var req entityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	entity, err := h.EntityService.Create(r.Context(), userID, req.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toEntityResponse(entity))
}

// Get handles GET on a single record.
func (h *EntityHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}

	entity, err := h.EntityService.Get(r.Context(), userID, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toEntityResponse(entity))
}

// Update handles PATCH and PUT on a single record. With a single
// mutable field the two share semantics: the name is required.
func (h *EntityHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}

	var req entityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	entity, err := h.EntityService.Update(r.Context(), userID, id, req.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toEntityResponse(entity))
}

// Delete handles DELETE on a single record and responds with 204.
func (h *EntityHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}

	if err := h.EntityService.Delete(r.Context(), userID, id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// pathID parses the {id} route parameter.
func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}
