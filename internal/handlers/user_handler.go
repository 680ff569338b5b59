package handlers

import (
	"errors"
	"net/http"

	"verbalist/internal/auth"
	"verbalist/internal/service"
	"verbalist/internal/validation"
)

// UserHandler serves the caller's profile
type UserHandler struct {
	userService *service.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// GetMe returns the caller's profile, creating it on first use
func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())
	user, err := h.userService.EnsureProfile(r.Context(), id.UID, id.Email)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Error loading profile", err)
		return
	}
	respondWithJSON(w, http.StatusOK, user)
}

// UpdateName sets the caller's display name
func (h *UserHandler) UpdateName(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())

	var req struct {
		Name string `json:"name"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidRequestBody, "", nil)
		return
	}

	if err := h.userService.UpdateName(r.Context(), id.UID, req.Name); err != nil {
		var ve validation.ValidationError
		if errors.As(err, &ve) {
			respondWithError(w, http.StatusBadRequest, ve.Error(), "", nil)
			return
		}
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Error updating name", err)
		return
	}
	h.GetMe(w, r)
}

// SetActiveWordList selects the list the caller's sessions use
func (h *UserHandler) SetActiveWordList(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())

	var req struct {
		WordListID string `json:"wordListId"`
	}
	if err := decodeJSON(w, r, &req); err != nil || req.WordListID == "" {
		respondWithError(w, http.StatusBadRequest, ErrInvalidRequestBody, "", nil)
		return
	}

	err := h.userService.SetActiveWordList(r.Context(), id.UID, req.WordListID)
	if errors.Is(err, service.ErrListNotFound) {
		respondWithError(w, http.StatusNotFound, ErrListNotFound, "", nil)
		return
	}
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Error setting active list", err)
		return
	}
	h.GetMe(w, r)
}
