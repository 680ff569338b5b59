package handlers

import (
	"net/http"

	"verbalist/internal/service"
)

// PersonaHandler lists the available personas
type PersonaHandler struct {
	personas *service.PersonaCatalog
}

// NewPersonaHandler creates a new persona handler
func NewPersonaHandler(personas *service.PersonaCatalog) *PersonaHandler {
	return &PersonaHandler{personas: personas}
}

// ListPersonas returns the persona catalog
func (h *PersonaHandler) ListPersonas(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.personas.List())
}
