package models

// Persona is one of the fixed conversational personalities
type Persona struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	Expertise   string `json:"expertise"`
	Description string `json:"description"`
}
