package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"verbalist/internal/auth"
	"verbalist/internal/callable"
	"verbalist/internal/service"
)

// SessionHandler serves chat session creation and lookup
type SessionHandler struct {
	sessionService *service.SessionService
	personas       *service.PersonaCatalog
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessionService *service.SessionService, personas *service.PersonaCatalog) *SessionHandler {
	return &SessionHandler{
		sessionService: sessionService,
		personas:       personas,
	}
}

type createChatSessionRequest struct {
	PersonaID  string `json:"personaId"`
	WordListID string `json:"wordListId"`
}

// CreateChatSession is the createChatSession callable. Checks run in
// order: caller identity, required fields, persona. Any failure after
// that is reported as a generic internal error.
func (h *SessionHandler) CreateChatSession(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.FromContext(r.Context())
	if !ok {
		callable.WriteError(w, callable.NewError(callable.CodeUnauthenticated, "User must be authenticated to create a session"))
		return
	}

	var req createChatSessionRequest
	if err := callable.Decode(r, &req); err != nil {
		callable.WriteError(w, err)
		return
	}

	if req.PersonaID == "" || req.WordListID == "" {
		callable.WriteError(w, callable.NewError(callable.CodeInvalidArgument, "personaId and wordListId are required"))
		return
	}

	if !h.personas.IsValid(req.PersonaID) {
		callable.WriteError(w, callable.NewError(callable.CodeInvalidArgument, "Invalid personaId"))
		return
	}

	result, err := h.sessionService.CreateSession(r.Context(), id.UID, req.PersonaID, req.WordListID)
	if err != nil {
		callable.WriteError(w, callable.Internal("Failed to create chat session", err))
		return
	}

	callable.WriteResult(w, result)
}

// GetSession returns a session owned by the caller with its messages
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())
	sessionID := chi.URLParam(r, "id")

	view, err := h.sessionService.GetSession(r.Context(), id.UID, sessionID)
	if errors.Is(err, service.ErrSessionNotFound) {
		respondWithError(w, http.StatusNotFound, ErrSessionNotFound, "", nil)
		return
	}
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Error loading session", err)
		return
	}

	respondWithJSON(w, http.StatusOK, view)
}
