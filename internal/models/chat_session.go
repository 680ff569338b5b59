package models

import "time"

// SessionStatus is the lifecycle state of a chat session
type SessionStatus string

const (
	SessionActive   SessionStatus = "active"
	SessionComplete SessionStatus = "complete"
)

// MessageRole identifies the author of a message
type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

// WordBagItem is one target word of a session with its usage counters
type WordBagItem struct {
	Word            string `json:"word"`
	TargetUseCount  int    `json:"targetUseCount"`
	CurrentUseCount int    `json:"currentUseCount"`
}

// Remaining returns how many more uses are needed to meet the target
func (w WordBagItem) Remaining() int {
	if w.CurrentUseCount >= w.TargetUseCount {
		return 0
	}
	return w.TargetUseCount - w.CurrentUseCount
}

// ChatSession is one conversation between a user and a persona
type ChatSession struct {
	ID            string        `json:"id"`
	UserID        string        `json:"userId"`
	PersonaID     string        `json:"personaId"`
	WordListID    string        `json:"wordListId"`
	Status        SessionStatus `json:"status"`
	StartedAt     time.Time     `json:"startedAt"`
	CompletedAt   *time.Time    `json:"completedAt,omitempty"`
	MessageCount  int           `json:"messageCount"`
	WordBag       []WordBagItem `json:"wordBag"`
	ContextWindow []string      `json:"contextWindow"`
}

// IsActive reports whether the session still accepts messages
func (s *ChatSession) IsActive() bool {
	return s.Status == SessionActive
}

// Message is a single chat message within a session
type Message struct {
	ID        string      `json:"id"`
	SessionID string      `json:"sessionId"`
	Role      MessageRole `json:"role"`
	Content   string      `json:"content"`
	Timestamp time.Time   `json:"timestamp"`
	WordUsage []string    `json:"wordUsage,omitempty"`
}
