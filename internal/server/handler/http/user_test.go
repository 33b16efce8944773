package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/recipebox/api/internal/apperr"
	"github.com/recipebox/api/internal/middleware"
	"github.com/recipebox/api/internal/models"
	"github.com/recipebox/api/internal/service"
)

// fakeUserService implements UserService for testing.
type fakeUserService struct {
	registerUser *models.User
	registerErr  error
	loginToken   string
	loginErr     error
	meUser       *models.User
	meErr        error
	updatedUser  *models.User
	updateErr    error
}

func (f *fakeUserService) Register(ctx context.Context, email, password string) (*models.User, error) {
	return f.registerUser, f.registerErr
}

func (f *fakeUserService) Login(ctx context.Context, email, password string) (string, error) {
	return f.loginToken, f.loginErr
}

func (f *fakeUserService) Me(ctx context.Context, userID int64) (*models.User, error) {
	return f.meUser, f.meErr
}

func (f *fakeUserService) UpdateMe(ctx context.Context, userID int64, upd service.ProfileUpdate) (*models.User, error) {
	return f.updatedUser, f.updateErr
}

func TestUserHandler_Register(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		service        *fakeUserService
		expectedCode   int
		expectedSubstr string
	}{
		{
			name:           "invalid JSON",
			body:           `not a json`,
			service:        &fakeUserService{},
			expectedCode:   http.StatusBadRequest,
			expectedSubstr: "invalid request",
		},
		{
			name:           "missing email",
			body:           `{"password":"testpass123"}`,
			service:        &fakeUserService{registerErr: apperr.Validation("email is required")},
			expectedCode:   http.StatusBadRequest,
			expectedSubstr: "email is required",
		},
		{
			name:           "duplicate email",
			body:           `{"email":"dup@example.com","password":"testpass123"}`,
			service:        &fakeUserService{registerErr: apperr.ErrDuplicateEmail},
			expectedCode:   http.StatusBadRequest,
			expectedSubstr: "email already registered",
		},
		{
			name:           "created",
			body:           `{"email":"alice@example.com","password":"testpass123"}`,
			service:        &fakeUserService{registerUser: &models.User{ID: 1, Email: "alice@example.com"}},
			expectedCode:   http.StatusCreated,
			expectedSubstr: `"email":"alice@example.com"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest("POST", "/users/create", bytes.NewBufferString(tt.body))
			h := &UserHandler{UserService: tt.service}
			h.Register(rec, req)

			if rec.Code != tt.expectedCode {
				t.Errorf("expected status %d, got %d", tt.expectedCode, rec.Code)
			}
			if !strings.Contains(rec.Body.String(), tt.expectedSubstr) {
				t.Errorf("expected body to contain %q, got %q", tt.expectedSubstr, rec.Body.String())
			}
		})
	}
}

func TestUserHandler_RegisterNeverEchoesPassword(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/users/create", bytes.NewBufferString(`{"email":"a@b.com","password":"testpass123"}`))
	h := &UserHandler{UserService: &fakeUserService{
		registerUser: &models.User{ID: 1, Email: "a@b.com", PasswordHash: []byte("testpass123")},
	}}
	h.Register(rec, req)

	if strings.Contains(rec.Body.String(), "testpass123") {
		t.Errorf("response leaks the password: %q", rec.Body.String())
	}
}

func TestUserHandler_Token(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		service        *fakeUserService
		expectedCode   int
		expectedSubstr string
	}{
		{
			name:           "invalid JSON",
			body:           `{`,
			service:        &fakeUserService{},
			expectedCode:   http.StatusBadRequest,
			expectedSubstr: "invalid request",
		},
		{
			name:           "bad credentials",
			body:           `{"email":"a@b.com","password":"wrong"}`,
			service:        &fakeUserService{loginErr: apperr.ErrInvalidCredentials},
			expectedCode:   http.StatusBadRequest,
			expectedSubstr: "invalid credentials",
		},
		{
			name:           "issued",
			body:           `{"email":"a@b.com","password":"testpass123"}`,
			service:        &fakeUserService{loginToken: "tok123"},
			expectedCode:   http.StatusOK,
			expectedSubstr: `"token":"tok123"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest("POST", "/users/token", bytes.NewBufferString(tt.body))
			h := &UserHandler{UserService: tt.service}
			h.Token(rec, req)

			if rec.Code != tt.expectedCode {
				t.Errorf("expected status %d, got %d", tt.expectedCode, rec.Code)
			}
			if !strings.Contains(rec.Body.String(), tt.expectedSubstr) {
				t.Errorf("expected body to contain %q, got %q", tt.expectedSubstr, rec.Body.String())
			}
		})
	}
}

func TestUserHandler_Me(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/users/me", nil)
	req = req.WithContext(middleware.WithUserID(req.Context(), 7))

	h := &UserHandler{UserService: &fakeUserService{
		meUser: &models.User{ID: 7, Email: "me@example.com", IsStaff: true},
	}}
	h.Me(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	var got profileResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if got.ID != 7 || got.Email != "me@example.com" || !got.IsStaff {
		t.Errorf("unexpected profile: %+v", got)
	}
}

func TestUserHandler_UpdateMe(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("PATCH", "/users/me", bytes.NewBufferString(`{"email":"new@example.com"}`))
	req = req.WithContext(middleware.WithUserID(req.Context(), 7))

	h := &UserHandler{UserService: &fakeUserService{
		updatedUser: &models.User{ID: 7, Email: "new@example.com"},
	}}
	h.UpdateMe(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"email":"new@example.com"`) {
		t.Errorf("unexpected body: %q", rec.Body.String())
	}
}
