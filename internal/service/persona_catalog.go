package service

import "verbalist/internal/models"

// PersonaCatalog is the fixed set of personas a session may use
type PersonaCatalog struct {
	personas []models.Persona
	byID     map[string]models.Persona
}

// DefaultPersonas returns the built-in personas
func DefaultPersonas() []models.Persona {
	return []models.Persona{
		{
			ID:          "chris",
			Name:        "Chris",
			DisplayName: "Chris",
			Expertise:   "Everyday conversation",
			Description: "Friendly, sharp, and natural, like a well-read friend.",
		},
		{
			ID:          "gemma",
			Name:        "Gemma",
			DisplayName: "Gemma",
			Expertise:   "Literature & arts",
			Description: "Literary, lyrical, and steeped in art and storytelling.",
		},
		{
			ID:          "eva",
			Name:        "Eva",
			DisplayName: "Eva",
			Expertise:   "Philosophy & psychology",
			Description: "Thoughtful, reflective, and psychologically insightful.",
		},
		{
			ID:          "sid",
			Name:        "Sid",
			DisplayName: "Sid",
			Expertise:   "History & politics",
			Description: "Historically grounded, analytical, and current-events savvy.",
		},
	}
}

// NewPersonaCatalog creates a catalog of the given personas, or the
// defaults when none are given
func NewPersonaCatalog(personas ...models.Persona) *PersonaCatalog {
	if len(personas) == 0 {
		personas = DefaultPersonas()
	}
	c := &PersonaCatalog{
		personas: personas,
		byID:     make(map[string]models.Persona, len(personas)),
	}
	for _, p := range personas {
		c.byID[p.ID] = p
	}
	return c
}

// List returns the personas in catalog order
func (c *PersonaCatalog) List() []models.Persona {
	out := make([]models.Persona, len(c.personas))
	copy(out, c.personas)
	return out
}

// FindByID looks up a persona
func (c *PersonaCatalog) FindByID(id string) (models.Persona, bool) {
	p, ok := c.byID[id]
	return p, ok
}

// IsValid reports whether id names a persona in the catalog
func (c *PersonaCatalog) IsValid(id string) bool {
	_, ok := c.byID[id]
	return ok
}
