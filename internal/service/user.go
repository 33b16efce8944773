// Package service provides the business logic of the recipe API,
// delegating persistence to repository interfaces.
package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/recipebox/api/internal/apperr"
	"github.com/recipebox/api/internal/models"
)

// UserRepository defines the persistence operations required by the
// user service.
type UserRepository interface {
	CreateUser(ctx context.Context, email string, passwordHash []byte, isStaff, isSuperuser bool) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	UpdateUser(ctx context.Context, id int64, email string, passwordHash []byte) error
}

// TokenRepository defines the token persistence operations required by
// the user service.
type TokenRepository interface {
	SaveToken(ctx context.Context, token string, userID int64, expiresAt time.Time) error
	UserIDByToken(ctx context.Context, token string) (int64, error)
	DeleteToken(ctx context.Context, token string) error
}

// ProfileUpdate describes a partial update of the caller's own profile.
// Nil fields keep their current value.
type ProfileUpdate struct {
	Email    *string
	Password *string
}

// UserService implements account and token operations.
type UserService struct {
	users  UserRepository
	tokens TokenRepository
	// tokenTTL is the lifetime of issued tokens.
	tokenTTL time.Duration
}

// NewUserService constructs a UserService with the given repositories
// and token lifetime.
func NewUserService(users UserRepository, tokens TokenRepository, tokenTTL time.Duration) *UserService {
	return &UserService{users: users, tokens: tokens, tokenTTL: tokenTTL}
}

// NormalizeEmail lower-cases an email address for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a regular user. The email is required and normalized
// to lowercase before storage; the password is stored only as a bcrypt
// hash.
func (s *UserService) Register(ctx context.Context, email, password string) (*models.User, error) {
	return s.create(ctx, email, password, false, false)
}

// RegisterSuperuser creates a user with both staff and superuser flags set.
func (s *UserService) RegisterSuperuser(ctx context.Context, email, password string) (*models.User, error) {
	return s.create(ctx, email, password, true, true)
}

// RegisterStaff creates a user with the staff flag set and the
// superuser flag unset.
func (s *UserService) RegisterStaff(ctx context.Context, email, password string) (*models.User, error) {
	return s.create(ctx, email, password, true, false)
}

func (s *UserService) create(ctx context.Context, email, password string, isStaff, isSuperuser bool) (*models.User, error) {
	email = NormalizeEmail(email)
	if email == "" {
		return nil, apperr.Validation("email is required")
	}
	if password == "" {
		return nil, apperr.Validation("password is required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	return s.users.CreateUser(ctx, email, hash, isStaff, isSuperuser)
}

// VerifyPassword checks a candidate password against the stored hash.
// Plaintext passwords are never compared.
func (s *UserService) VerifyPassword(user *models.User, candidate string) bool {
	return bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(candidate)) == nil
}

// Login verifies credentials and issues a fresh opaque token. Bad
// credentials are reported as apperr.ErrInvalidCredentials regardless
// of whether the email exists.
func (s *UserService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.users.GetUserByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return "", apperr.ErrInvalidCredentials
	}
	if !s.VerifyPassword(user, password) {
		return "", apperr.ErrInvalidCredentials
	}

	token, err := newToken()
	if err != nil {
		return "", err
	}
	if err := s.tokens.SaveToken(ctx, token, user.ID, time.Now().Add(s.tokenTTL)); err != nil {
		return "", err
	}
	return token, nil
}

// Authenticate resolves a bearer token to the owning user id.
func (s *UserService) Authenticate(ctx context.Context, token string) (int64, error) {
	return s.tokens.UserIDByToken(ctx, token)
}

// Me returns the caller's own profile.
func (s *UserService) Me(ctx context.Context, userID int64) (*models.User, error) {
	return s.users.GetUserByID(ctx, userID)
}

// UpdateMe patches the caller's email and/or password. A supplied
// password is re-hashed; omitted fields keep their stored values.
func (s *UserService) UpdateMe(ctx context.Context, userID int64, upd ProfileUpdate) (*models.User, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	email := user.Email
	if upd.Email != nil {
		email = NormalizeEmail(*upd.Email)
		if email == "" {
			return nil, apperr.Validation("email is required")
		}
	}
	hash := user.PasswordHash
	if upd.Password != nil {
		if *upd.Password == "" {
			return nil, apperr.Validation("password is required")
		}
		hash, err = bcrypt.GenerateFromPassword([]byte(*upd.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
	}

	if err := s.users.UpdateUser(ctx, userID, email, hash); err != nil {
		return nil, err
	}
	user.Email = email
	user.PasswordHash = hash
	return user, nil
}

// newToken generates an opaque 40-character hex token.
func newToken() (string, error) {
	buf := make([]byte, 20)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
