package service

import (
	"context"
	"errors"
	"testing"

	"verbalist/internal/models"
)

func TestEnsureProfile(t *testing.T) {
	env := newTestEnv(t)
	svc := NewUserService(env.users, env.lists)
	ctx := context.Background()

	if _, err := svc.GetProfile(ctx, "user-1"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("GetProfile before creation error = %v, want ErrUserNotFound", err)
	}

	user, err := svc.EnsureProfile(ctx, "user-1", "sam@example.com")
	if err != nil {
		t.Fatalf("EnsureProfile failed: %v", err)
	}
	if user.Tier != models.TierFree || user.ActiveWordListID != DefaultWordListID || user.Email != "sam@example.com" {
		t.Errorf("new profile = %+v", user)
	}
	if user.LastResetDate == "" || user.Preferences.Theme != "light" {
		t.Errorf("new profile defaults missing: %+v", user)
	}

	again, err := svc.EnsureProfile(ctx, "user-1", "other@example.com")
	if err != nil {
		t.Fatalf("second EnsureProfile failed: %v", err)
	}
	if again.Email != "sam@example.com" {
		t.Errorf("existing profile was replaced: %+v", again)
	}
}

func TestEnsureProfileDropsInvalidEmail(t *testing.T) {
	env := newTestEnv(t)
	svc := NewUserService(env.users, env.lists)

	user, err := svc.EnsureProfile(context.Background(), "user-1", "not-an-email")
	if err != nil {
		t.Fatalf("EnsureProfile failed: %v", err)
	}
	if user.Email != "" {
		t.Errorf("Email = %q, want empty", user.Email)
	}
}

func TestUpdateName(t *testing.T) {
	env := newTestEnv(t)
	svc := NewUserService(env.users, env.lists)
	ctx := context.Background()

	if err := svc.UpdateName(ctx, "user-1", ""); err == nil {
		t.Error("empty name should be rejected")
	}
	if err := svc.UpdateName(ctx, "user-1", " Sam "); err != nil {
		t.Fatalf("UpdateName failed: %v", err)
	}

	user, err := svc.GetProfile(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetProfile failed: %v", err)
	}
	if user.Name != "Sam" {
		t.Errorf("Name = %q, want Sam", user.Name)
	}
}

func TestSetActiveWordList(t *testing.T) {
	env := newTestEnv(t)
	env.seedList(t, "template-general", generalWords)
	svc := NewUserService(env.users, env.lists)
	ctx := context.Background()

	if err := svc.SetActiveWordList(ctx, "user-1", "missing"); !errors.Is(err, ErrListNotFound) {
		t.Errorf("missing list error = %v, want ErrListNotFound", err)
	}

	if err := svc.SetActiveWordList(ctx, "user-1", "template-general"); err != nil {
		t.Fatalf("SetActiveWordList failed: %v", err)
	}
	user, err := svc.GetProfile(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetProfile failed: %v", err)
	}
	if user.ActiveWordListID != "template-general" {
		t.Errorf("ActiveWordListID = %q", user.ActiveWordListID)
	}
}
