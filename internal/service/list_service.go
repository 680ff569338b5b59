package service

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"verbalist/internal/models"
	"verbalist/internal/repository"
	"verbalist/internal/validation"
)

var (
	ErrListNotFound = errors.New("list not found")
	ErrNoValidWords = errors.New("word list has no valid words")
)

//go:embed wordlists.toml
var defaultTemplateLists []byte

// TemplateList is one seedable template list as written in a TOML file
type TemplateList struct {
	Slug        string   `toml:"slug"`
	Name        string   `toml:"name"`
	Description string   `toml:"description"`
	Words       []string `toml:"words"`
}

type templateFile struct {
	Lists []TemplateList `toml:"list"`
}

// LoadTemplateLists reads template lists from a TOML file of [[list]]
// tables. An empty path loads the built-in set.
func LoadTemplateLists(path string) ([]TemplateList, error) {
	if path == "" {
		return ParseTemplateLists(defaultTemplateLists)
	}
	var file templateFile
	if _, err := toml.DecodeFile(path, &file); err != nil {
		return nil, fmt.Errorf("failed to decode word lists file: %w", err)
	}
	return checkTemplateLists(file.Lists)
}

// ParseTemplateLists decodes template lists from TOML text
func ParseTemplateLists(data []byte) ([]TemplateList, error) {
	var file templateFile
	if _, err := toml.Decode(string(data), &file); err != nil {
		return nil, fmt.Errorf("failed to decode word lists: %w", err)
	}
	return checkTemplateLists(file.Lists)
}

func checkTemplateLists(lists []TemplateList) ([]TemplateList, error) {
	seen := make(map[string]bool)
	for i, l := range lists {
		if l.Slug == "" {
			return nil, fmt.Errorf("word list %d: slug is required", i)
		}
		if seen[l.Slug] {
			return nil, fmt.Errorf("word list %s: duplicate slug", l.Slug)
		}
		seen[l.Slug] = true
		if err := validation.ValidateName(l.Name); err != nil {
			return nil, fmt.Errorf("word list %s: %w", l.Slug, err)
		}
		if len(l.Words) == 0 {
			return nil, fmt.Errorf("word list %s: %w", l.Slug, ErrNoValidWords)
		}
	}
	return lists, nil
}

// CustomListResult is a created custom list with the words that were dropped
type CustomListResult struct {
	List     *models.WordList          `json:"list"`
	Rejected []validation.InvalidWord `json:"rejected"`
}

// ListService handles word list business logic
type ListService struct {
	listRepo *repository.ListRepository
	users    *UserService
	now      func() time.Time
}

// NewListService creates a new list service
func NewListService(listRepo *repository.ListRepository, users *UserService) *ListService {
	return &ListService{
		listRepo: listRepo,
		users:    users,
		now:      time.Now,
	}
}

// SeedTemplateLists writes template lists under their well-known ids.
// Lists that already exist are left untouched. Returns how many were created.
func (s *ListService) SeedTemplateLists(ctx context.Context, lists []TemplateList) (int, error) {
	created := 0
	for _, tl := range lists {
		id := models.TemplateListID(tl.Slug)

		existing, err := s.listRepo.GetByID(ctx, id)
		if err != nil {
			return created, err
		}
		if existing != nil {
			continue
		}

		list := &models.WordList{
			ID:          id,
			Name:        tl.Name,
			Description: tl.Description,
			Words:       tl.Words,
			IsTemplate:  true,
			CreatedAt:   s.now(),
		}
		if err := s.listRepo.Save(ctx, list); err != nil {
			return created, fmt.Errorf("failed to seed %s: %w", id, err)
		}
		log.Printf("Seeded template list %s (%d words)", id, len(tl.Words))
		created++
	}
	return created, nil
}

// ListTemplates returns all template lists sorted by name
func (s *ListService) ListTemplates(ctx context.Context) ([]models.WordList, error) {
	return s.listRepo.GetTemplates(ctx)
}

// ListUserLists returns the custom lists owned by userID
func (s *ListService) ListUserLists(ctx context.Context, userID string) ([]models.WordList, error) {
	return s.listRepo.GetUserLists(ctx, userID)
}

// GetList returns a list visible to userID. Templates are visible to
// everyone, custom lists only to their owner. An empty userID only sees
// templates.
func (s *ListService) GetList(ctx context.Context, userID, listID string) (*models.WordList, error) {
	list, err := s.listRepo.GetByID(ctx, listID)
	if err != nil {
		return nil, err
	}
	if list == nil || !list.VisibleTo(userID) {
		return nil, ErrListNotFound
	}
	return list, nil
}

// CreateCustomList parses free text into words, stores the valid ones as a
// new list owned by userID, and makes it the user's active list.
func (s *ListService) CreateCustomList(ctx context.Context, userID, name, rawWords string) (*CustomListResult, error) {
	name = strings.TrimSpace(name)
	if err := validation.ValidateName(name); err != nil {
		return nil, err
	}

	valid, invalid := validation.ParseWords(rawWords)
	if len(valid) == 0 {
		return nil, ErrNoValidWords
	}

	owner := userID
	list := &models.WordList{
		ID:          s.listRepo.NewID(),
		Name:        name,
		Description: fmt.Sprintf("Custom word list with %d words", len(valid)),
		Words:       valid,
		IsTemplate:  false,
		UserID:      &owner,
		CreatedAt:   s.now(),
	}
	if err := s.listRepo.Save(ctx, list); err != nil {
		return nil, err
	}

	if err := s.users.SetActiveWordList(ctx, userID, list.ID); err != nil {
		return nil, fmt.Errorf("failed to activate list %s: %w", list.ID, err)
	}

	log.Printf("User %s created custom list %s with %d words (%d rejected)", userID, list.ID, len(valid), len(invalid))

	return &CustomListResult{List: list, Rejected: invalid}, nil
}
