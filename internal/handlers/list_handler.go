package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"verbalist/internal/auth"
	"verbalist/internal/callable"
	"verbalist/internal/service"
	"verbalist/internal/validation"
)

// ListHandler handles word list HTTP requests
type ListHandler struct {
	listService *service.ListService
}

// NewListHandler creates a new list handler
func NewListHandler(listService *service.ListService) *ListHandler {
	return &ListHandler{listService: listService}
}

type createCustomWordListRequest struct {
	Name  string `json:"name"`
	Words string `json:"words"`
}

// CreateCustomWordList is the createCustomWordList callable. Words are
// free text; the response lists the words that were rejected.
func (h *ListHandler) CreateCustomWordList(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.FromContext(r.Context())
	if !ok {
		callable.WriteError(w, callable.NewError(callable.CodeUnauthenticated, "User must be authenticated to create a word list"))
		return
	}

	var req createCustomWordListRequest
	if err := callable.Decode(r, &req); err != nil {
		callable.WriteError(w, err)
		return
	}

	result, err := h.listService.CreateCustomList(r.Context(), id.UID, req.Name, req.Words)
	if err != nil {
		var ve validation.ValidationError
		switch {
		case errors.As(err, &ve):
			callable.WriteError(w, callable.NewError(callable.CodeInvalidArgument, ve.Error()))
		case errors.Is(err, service.ErrNoValidWords):
			callable.WriteError(w, callable.NewError(callable.CodeInvalidArgument, "No valid words found"))
		default:
			callable.WriteError(w, callable.Internal("Failed to create word list", err))
		}
		return
	}

	callable.WriteResult(w, result)
}

// ListTemplates returns every template list
func (h *ListHandler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	lists, err := h.listService.ListTemplates(r.Context())
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Error listing templates", err)
		return
	}
	respondWithJSON(w, http.StatusOK, lists)
}

// ListMine returns the caller's custom lists
func (h *ListHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())
	lists, err := h.listService.ListUserLists(r.Context(), id.UID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Error listing user lists", err)
		return
	}
	respondWithJSON(w, http.StatusOK, lists)
}

// GetList returns a template list, or a custom list owned by the caller
func (h *ListHandler) GetList(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())
	listID := chi.URLParam(r, "id")

	list, err := h.listService.GetList(r.Context(), id.UID, listID)
	if errors.Is(err, service.ErrListNotFound) {
		respondWithError(w, http.StatusNotFound, ErrListNotFound, "", nil)
		return
	}
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Error loading list", err)
		return
	}
	respondWithJSON(w, http.StatusOK, list)
}
