package models

// Document collections
const (
	CollectionWordLists    = "wordLists"
	CollectionChatSessions = "chatSessions"
	CollectionMessages     = "messages"
	CollectionUsers        = "users"
)

// Word bag size bounds, inclusive
const (
	WordBagMin = 3
	WordBagMax = 5
)

const MessageCharacterLimit = 500

// Daily message allowances per tier
const (
	FreeMessagesPerDay    = 2
	PremiumMessagesPerDay = 8
)

// Session length limits in messages
const (
	SessionSoftWindDownAt = 15
	SessionHardEndAt      = 20
)
