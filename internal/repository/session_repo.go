package repository

import (
	"context"
	"errors"
	"fmt"

	"verbalist/internal/docstore"
	"verbalist/internal/models"
)

// SessionRepository handles document operations for chat sessions and
// their messages
type SessionRepository struct {
	store docstore.Store
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(store docstore.Store) *SessionRepository {
	return &SessionRepository{store: store}
}

// NewSessionID returns a fresh chat session id
func (r *SessionRepository) NewSessionID() string {
	return r.store.NewID(models.CollectionChatSessions)
}

// NewMessageID returns a fresh message id
func (r *SessionRepository) NewMessageID() string {
	return r.store.NewID(models.CollectionMessages)
}

// CreateWithFirstMessage writes a new session, its first message, and the
// link from the session's context window to that message as one atomic
// batch: session set, message set, session update.
func (r *SessionRepository) CreateWithFirstMessage(ctx context.Context, session *models.ChatSession, msg *models.Message) error {
	err := r.store.Batch().
		Set(models.CollectionChatSessions, session.ID, session).
		Set(models.CollectionMessages, msg.ID, msg).
		Update(models.CollectionChatSessions, session.ID, docstore.Patch{
			"contextWindow": docstore.ArrayUnion(msg.ID),
			"messageCount":  1,
		}).
		Commit(ctx)
	if err != nil {
		return fmt.Errorf("failed to create session %s: %w", session.ID, err)
	}
	return nil
}

// GetByID retrieves a chat session. Returns nil, nil if it does not exist.
func (r *SessionRepository) GetByID(ctx context.Context, id string) (*models.ChatSession, error) {
	var session models.ChatSession
	err := r.store.Get(ctx, models.CollectionChatSessions, id, &session)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return &session, nil
}

// GetMessage retrieves a message. Returns nil, nil if it does not exist.
func (r *SessionRepository) GetMessage(ctx context.Context, id string) (*models.Message, error) {
	var msg models.Message
	err := r.store.Get(ctx, models.CollectionMessages, id, &msg)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get message: %w", err)
	}
	return &msg, nil
}

// GetContextMessages loads the messages referenced by the session's context
// window, in window order. Missing messages are skipped.
func (r *SessionRepository) GetContextMessages(ctx context.Context, session *models.ChatSession) ([]models.Message, error) {
	messages := make([]models.Message, 0, len(session.ContextWindow))
	for _, id := range session.ContextWindow {
		msg, err := r.GetMessage(ctx, id)
		if err != nil {
			return nil, err
		}
		if msg != nil {
			messages = append(messages, *msg)
		}
	}
	return messages, nil
}
