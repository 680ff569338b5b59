package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"verbalist/internal/models"
	"verbalist/internal/repository"
	"verbalist/internal/validation"
)

var ErrUserNotFound = errors.New("user not found")

// DefaultWordListID is the list new profiles start with
var DefaultWordListID = models.TemplateListID("general")

// UserService handles user profile business logic
type UserService struct {
	userRepo *repository.UserRepository
	listRepo *repository.ListRepository
	now      func() time.Time
}

// NewUserService creates a new user service
func NewUserService(userRepo *repository.UserRepository, listRepo *repository.ListRepository) *UserService {
	return &UserService{
		userRepo: userRepo,
		listRepo: listRepo,
		now:      time.Now,
	}
}

// GetProfile returns the profile for userID
func (s *UserService) GetProfile(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// EnsureProfile returns the profile for userID, creating a free-tier
// profile on first use. An invalid email is dropped rather than rejected.
func (s *UserService) EnsureProfile(ctx context.Context, userID, email string) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user != nil {
		return user, nil
	}

	if email != "" && validation.ValidateEmail(email) != nil {
		email = ""
	}

	now := s.now()
	user = &models.User{
		ID:               userID,
		Email:            email,
		CreatedAt:        now,
		ActiveWordListID: DefaultWordListID,
		Tier:             models.TierFree,
		DailyUsageCount:  0,
		LastResetDate:    now.Format("2006-01-02"),
		Preferences:      models.DefaultPreferences(),
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	log.Printf("Created profile for user %s", userID)
	return user, nil
}

// UpdateName sets the user's display name
func (s *UserService) UpdateName(ctx context.Context, userID, name string) error {
	name = strings.TrimSpace(name)
	if err := validation.ValidateName(name); err != nil {
		return err
	}
	if _, err := s.EnsureProfile(ctx, userID, ""); err != nil {
		return err
	}
	return s.userRepo.UpdateName(ctx, userID, name)
}

// SetActiveWordList selects the list new sessions use. The list must exist
// and be visible to the user.
func (s *UserService) SetActiveWordList(ctx context.Context, userID, listID string) error {
	list, err := s.listRepo.GetByID(ctx, listID)
	if err != nil {
		return err
	}
	if list == nil || !list.VisibleTo(userID) {
		return ErrListNotFound
	}
	if _, err := s.EnsureProfile(ctx, userID, ""); err != nil {
		return err
	}
	return s.userRepo.UpdateActiveWordList(ctx, userID, listID)
}
