package repository

import (
	"context"
	"errors"
	"fmt"

	"verbalist/internal/docstore"
	"verbalist/internal/models"
)

// UserRepository handles document operations for user profiles
type UserRepository struct {
	store docstore.Store
}

// NewUserRepository creates a new user repository
func NewUserRepository(store docstore.Store) *UserRepository {
	return &UserRepository{store: store}
}

// GetByID retrieves a user profile. Returns nil, nil if it does not exist.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := r.store.Get(ctx, models.CollectionUsers, id, &user)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// Save creates or replaces a user profile
func (r *UserRepository) Save(ctx context.Context, user *models.User) error {
	if err := r.store.Set(ctx, models.CollectionUsers, user.ID, user); err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}

// UpdateName changes the user's display name
func (r *UserRepository) UpdateName(ctx context.Context, id, name string) error {
	return r.update(ctx, id, docstore.Patch{"name": name})
}

// UpdateActiveWordList changes the list new sessions default to
func (r *UserRepository) UpdateActiveWordList(ctx context.Context, id, wordListID string) error {
	return r.update(ctx, id, docstore.Patch{"activeWordListId": wordListID})
}

func (r *UserRepository) update(ctx context.Context, id string, patch docstore.Patch) error {
	if err := r.store.Update(ctx, models.CollectionUsers, id, patch); err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}
