package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"verbalist/internal/docstore"
	"verbalist/internal/models"
)

// ListRepository handles document operations for word lists
type ListRepository struct {
	store docstore.Store
}

// NewListRepository creates a new list repository
func NewListRepository(store docstore.Store) *ListRepository {
	return &ListRepository{store: store}
}

// NewID returns a fresh word list id
func (r *ListRepository) NewID() string {
	return r.store.NewID(models.CollectionWordLists)
}

// GetByID retrieves a word list by ID. Returns nil, nil if it does not exist.
func (r *ListRepository) GetByID(ctx context.Context, id string) (*models.WordList, error) {
	var list models.WordList
	err := r.store.Get(ctx, models.CollectionWordLists, id, &list)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get word list: %w", err)
	}
	if list.ID == "" {
		list.ID = id
	}
	return &list, nil
}

// Save creates or replaces a word list, keyed by list.ID
func (r *ListRepository) Save(ctx context.Context, list *models.WordList) error {
	if list.ID == "" {
		return fmt.Errorf("word list id is required")
	}
	list.WordCount = len(list.Words)
	if err := r.store.Set(ctx, models.CollectionWordLists, list.ID, list); err != nil {
		return fmt.Errorf("failed to save word list: %w", err)
	}
	return nil
}

// GetAll returns every word list
func (r *ListRepository) GetAll(ctx context.Context) ([]models.WordList, error) {
	var lists []models.WordList
	if err := r.store.List(ctx, models.CollectionWordLists, &lists); err != nil {
		return nil, fmt.Errorf("failed to list word lists: %w", err)
	}
	return lists, nil
}

// GetTemplates returns the template lists sorted by name
func (r *ListRepository) GetTemplates(ctx context.Context) ([]models.WordList, error) {
	all, err := r.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	templates := make([]models.WordList, 0, len(all))
	for _, list := range all {
		if list.IsTemplate {
			templates = append(templates, list)
		}
	}
	sort.Slice(templates, func(i, j int) bool {
		return templates[i].Name < templates[j].Name
	})
	return templates, nil
}

// GetUserLists returns the custom lists owned by userID sorted by name
func (r *ListRepository) GetUserLists(ctx context.Context, userID string) ([]models.WordList, error) {
	all, err := r.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	var lists []models.WordList
	for _, list := range all {
		if list.OwnedBy(userID) {
			lists = append(lists, list)
		}
	}
	sort.Slice(lists, func(i, j int) bool {
		return lists[i].Name < lists[j].Name
	})
	return lists, nil
}
