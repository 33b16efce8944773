package service

import (
	"context"
	"strings"

	"github.com/recipebox/api/internal/apperr"
	"github.com/recipebox/api/internal/repository"
)

// NamedEntityRepository defines the owner-scoped persistence operations
// shared by tags and ingredients.
type NamedEntityRepository interface {
	Create(ctx context.Context, userID int64, name string) (*repository.NamedEntity, error)
	ListByUser(ctx context.Context, userID int64) ([]repository.NamedEntity, error)
	GetByID(ctx context.Context, userID, id int64) (*repository.NamedEntity, error)
	Update(ctx context.Context, userID, id int64, name string) error
	Delete(ctx context.Context, userID, id int64) error
}

// NamedEntityService implements tag and ingredient operations. The kind
// string ("tag" or "ingredient") only flavors validation messages.
type NamedEntityService struct {
	repo NamedEntityRepository
	kind string
}

// NewTagService constructs a service over the tag repository.
func NewTagService(repo NamedEntityRepository) *NamedEntityService {
	return &NamedEntityService{repo: repo, kind: "tag"}
}

// NewIngredientService constructs a service over the ingredient repository.
func NewIngredientService(repo NamedEntityRepository) *NamedEntityService {
	return &NamedEntityService{repo: repo, kind: "ingredient"}
}

// Create persists a new record owned by userID. The name is required.
func (s *NamedEntityService) Create(ctx context.Context, userID int64, name string) (*repository.NamedEntity, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.Validation(s.kind + " name is required")
	}
	return s.repo.Create(ctx, userID, name)
}

// List returns the caller's records, name-descending.
func (s *NamedEntityService) List(ctx context.Context, userID int64) ([]repository.NamedEntity, error) {
	return s.repo.ListByUser(ctx, userID)
}

// Get returns a single record owned by userID.
func (s *NamedEntityService) Get(ctx context.Context, userID, id int64) (*repository.NamedEntity, error) {
	return s.repo.GetByID(ctx, userID, id)
}

// Update renames a record owned by userID and returns the updated record.
func (s *NamedEntityService) Update(ctx context.Context, userID, id int64, name string) (*repository.NamedEntity, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.Validation(s.kind + " name is required")
	}
	if err := s.repo.Update(ctx, userID, id, name); err != nil {
		return nil, err
	}
	return &repository.NamedEntity{ID: id, UserID: userID, Name: name}, nil
}

// Delete removes a record owned by userID.
func (s *NamedEntityService) Delete(ctx context.Context, userID, id int64) error {
	return s.repo.Delete(ctx, userID, id)
}
