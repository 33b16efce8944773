package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recipebox/api/internal/apperr"
	"github.com/recipebox/api/internal/repository"
)

// fakeEntityRepo implements NamedEntityRepository for testing.
type fakeEntityRepo struct {
	created   *repository.NamedEntity
	list      []repository.NamedEntity
	got       *repository.NamedEntity
	gotErr    error
	updated   string
	updateErr error
	deleted   bool
}

func (f *fakeEntityRepo) Create(ctx context.Context, userID int64, name string) (*repository.NamedEntity, error) {
	f.created = &repository.NamedEntity{ID: 1, UserID: userID, Name: name}
	return f.created, nil
}

func (f *fakeEntityRepo) ListByUser(ctx context.Context, userID int64) ([]repository.NamedEntity, error) {
	return f.list, nil
}

func (f *fakeEntityRepo) GetByID(ctx context.Context, userID, id int64) (*repository.NamedEntity, error) {
	return f.got, f.gotErr
}

func (f *fakeEntityRepo) Update(ctx context.Context, userID, id int64, name string) error {
	f.updated = name
	return f.updateErr
}

func (f *fakeEntityRepo) Delete(ctx context.Context, userID, id int64) error {
	f.deleted = true
	return nil
}

func TestEntityCreate_TrimsName(t *testing.T) {
	repo := &fakeEntityRepo{}
	svc := NewTagService(repo)

	entity, err := svc.Create(context.Background(), 1, "  Dessert  ")
	require.NoError(t, err)
	assert.Equal(t, "Dessert", entity.Name)
	assert.Equal(t, int64(1), entity.UserID)
}

func TestEntityCreate_EmptyName(t *testing.T) {
	svc := NewTagService(&fakeEntityRepo{})

	_, err := svc.Create(context.Background(), 1, "   ")
	assert.True(t, apperr.IsValidation(err), "expected validation error, got %v", err)
	assert.EqualError(t, err, "tag name is required")
}

func TestIngredientCreate_EmptyNameMessage(t *testing.T) {
	svc := NewIngredientService(&fakeEntityRepo{})

	_, err := svc.Create(context.Background(), 1, "")
	assert.True(t, apperr.IsValidation(err), "expected validation error, got %v", err)
	assert.EqualError(t, err, "ingredient name is required")
}

func TestEntityUpdate_EmptyName(t *testing.T) {
	repo := &fakeEntityRepo{}
	svc := NewTagService(repo)

	_, err := svc.Update(context.Background(), 1, 10, "")
	assert.True(t, apperr.IsValidation(err), "expected validation error, got %v", err)
	assert.Empty(t, repo.updated)
}

func TestEntityUpdate_PropagatesNotFound(t *testing.T) {
	repo := &fakeEntityRepo{updateErr: apperr.ErrNotFound}
	svc := NewTagService(repo)

	_, err := svc.Update(context.Background(), 1, 10, "Brunch")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestEntityUpdate_ReturnsUpdated(t *testing.T) {
	repo := &fakeEntityRepo{}
	svc := NewTagService(repo)

	entity, err := svc.Update(context.Background(), 1, 10, " Brunch ")
	require.NoError(t, err)
	assert.Equal(t, "Brunch", entity.Name)
	assert.Equal(t, int64(10), entity.ID)
	assert.Equal(t, "Brunch", repo.updated)
}

func TestEntityDelete(t *testing.T) {
	repo := &fakeEntityRepo{}
	svc := NewIngredientService(repo)

	require.NoError(t, svc.Delete(context.Background(), 1, 10))
	assert.True(t, repo.deleted)
}
