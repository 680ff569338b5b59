package models

import "time"

// WordList is a named collection of vocabulary words. Template lists are
// authored by the system and shared; custom lists belong to one user.
type WordList struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Words       []string  `json:"words"`
	WordCount   int       `json:"wordCount"`
	IsTemplate  bool      `json:"isTemplate"`
	UserID      *string   `json:"userId"`
	CreatedAt   time.Time `json:"createdAt"`
}

// OwnedBy reports whether the list is a custom list belonging to userID
func (l *WordList) OwnedBy(userID string) bool {
	return l.UserID != nil && *l.UserID == userID
}

// VisibleTo reports whether userID may read or select the list
func (l *WordList) VisibleTo(userID string) bool {
	return l.IsTemplate || l.OwnedBy(userID)
}

// TemplateListID returns the well-known document id for a template slug
func TemplateListID(slug string) string {
	return "template-" + slug
}
