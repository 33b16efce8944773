// Package http provides the HTTP handlers and routing for the recipe API.
package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/recipebox/api/internal/middleware"
	"github.com/recipebox/api/internal/models"
	"github.com/recipebox/api/internal/service"
)

// UserService defines the account operations required by the HTTP
// handlers.
type UserService interface {
	// Register creates a regular user from email and password.
	Register(ctx context.Context, email, password string) (*models.User, error)
	// Login verifies credentials and returns a fresh bearer token.
	Login(ctx context.Context, email, password string) (string, error)
	// Me returns the caller's own profile.
	Me(ctx context.Context, userID int64) (*models.User, error)
	// UpdateMe patches the caller's email and/or password.
	UpdateMe(ctx context.Context, userID int64, upd service.ProfileUpdate) (*models.User, error)
}

// UserHandler handles HTTP requests for registration, token issuance
// and the caller's own profile.
type UserHandler struct {
	// UserService performs the underlying account operations.
	UserService UserService
}

// credentialsRequest represents the JSON payload for registration and
// token requests.
type credentialsRequest struct {
	// Email is the user's login address.
	Email string `json:"email"`
	// Password is the plaintext password; it is hashed before storage.
	Password string `json:"password"`
}

// profileResponse is the wire representation of a user profile. The
// password never appears in it.
type profileResponse struct {
	ID          int64  `json:"id"`
	Email       string `json:"email"`
	IsStaff     bool   `json:"is_staff"`
	IsSuperuser bool   `json:"is_superuser"`
}

func toProfile(u *models.User) profileResponse {
	return profileResponse{ID: u.ID, Email: u.Email, IsStaff: u.IsStaff, IsSuperuser: u.IsSuperuser}
}

// Register handles POST /users/create.
// It expects a JSON body with "email" and "password" and responds with
// the created profile and status 201.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	user, err := h.UserService.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toProfile(user))
}

// Token handles POST /users/token.
// Valid credentials yield a fresh bearer token; anything else is a 400.
func (h *UserHandler) Token(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	token, err := h.UserService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

// Me handles GET /users/me for the authenticated caller.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())

	user, err := h.UserService.Me(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProfile(user))
}

// UpdateMe handles PATCH /users/me. Omitted fields keep their stored
// values; a supplied password is re-hashed.
func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())

	var req struct {
		Email    *string `json:"email"`
		Password *string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	user, err := h.UserService.UpdateMe(r.Context(), userID, service.ProfileUpdate{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProfile(user))
}
