package models

import "time"

// UserTier controls daily message allowances
type UserTier string

const (
	TierFree    UserTier = "free"
	TierPremium UserTier = "premium"
)

// Preferences holds client display settings
type Preferences struct {
	Theme          string `json:"theme"`
	ChatBackground string `json:"chatBackground,omitempty"`
	FontSize       string `json:"fontSize"`
}

// DefaultPreferences returns the settings for a new profile
func DefaultPreferences() Preferences {
	return Preferences{Theme: "light", FontSize: "medium"}
}

// User is an app user profile, keyed by the authenticated subject
type User struct {
	ID                 string      `json:"id"`
	Name               string      `json:"name"`
	Email              string      `json:"email,omitempty"`
	CreatedAt          time.Time   `json:"createdAt"`
	ActiveWordListID   string      `json:"activeWordListId"`
	Tier               UserTier    `json:"tier"`
	DailyUsageCount    int         `json:"dailyUsageCount"`
	LastResetDate      string      `json:"lastResetDate"`
	CustomInstructions string      `json:"customInstructions,omitempty"`
	Preferences        Preferences `json:"preferences"`
}

// DailyMessageLimit returns the number of messages the user's tier allows per day
func (u *User) DailyMessageLimit() int {
	if u.Tier == TierPremium {
		return PremiumMessagesPerDay
	}
	return FreeMessagesPerDay
}
