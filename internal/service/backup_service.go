package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"time"

	"verbalist/internal/docstore"
	"verbalist/internal/models"
)

// BackupVersion is written into every export
const BackupVersion = "1.0"

// BackupData represents the complete document store backup structure
type BackupData struct {
	Version      string               `json:"version"`
	ExportedAt   time.Time            `json:"exported_at"`
	WordLists    []models.WordList    `json:"word_lists"`
	ChatSessions []models.ChatSession `json:"chat_sessions"`
	Messages     []models.Message     `json:"messages"`
	Users        []models.User        `json:"users"`
}

// BackupService handles document store backup and restore operations
type BackupService struct {
	store docstore.Store
}

// NewBackupService creates a new backup service
func NewBackupService(store docstore.Store) *BackupService {
	return &BackupService{store: store}
}

// Export writes every collection to w as one JSON document
func (s *BackupService) Export(ctx context.Context, w io.Writer) (*BackupData, error) {
	log.Println("Starting export...")

	backup := &BackupData{
		Version:    BackupVersion,
		ExportedAt: time.Now(),
	}

	if err := s.store.List(ctx, models.CollectionWordLists, &backup.WordLists); err != nil {
		return nil, fmt.Errorf("failed to export word lists: %w", err)
	}
	if err := s.store.List(ctx, models.CollectionChatSessions, &backup.ChatSessions); err != nil {
		return nil, fmt.Errorf("failed to export sessions: %w", err)
	}
	if err := s.store.List(ctx, models.CollectionMessages, &backup.Messages); err != nil {
		return nil, fmt.Errorf("failed to export messages: %w", err)
	}
	if err := s.store.List(ctx, models.CollectionUsers, &backup.Users); err != nil {
		return nil, fmt.Errorf("failed to export users: %w", err)
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(backup); err != nil {
		return nil, fmt.Errorf("failed to encode backup: %w", err)
	}

	log.Printf("Export completed: %d lists, %d sessions, %d messages, %d users",
		len(backup.WordLists), len(backup.ChatSessions), len(backup.Messages), len(backup.Users))
	return backup, nil
}

// Import restores a backup read from r in one batch. With clear set, every
// document in the four collections is deleted first.
func (s *BackupService) Import(ctx context.Context, r io.Reader, clear bool) (*BackupData, error) {
	log.Println("Starting import...")

	var backup BackupData
	if err := json.NewDecoder(r).Decode(&backup); err != nil {
		return nil, fmt.Errorf("failed to decode backup: %w", err)
	}
	if backup.Version != BackupVersion {
		return nil, fmt.Errorf("unsupported backup version %q", backup.Version)
	}

	log.Printf("Backup version: %s, exported at: %s", backup.Version, backup.ExportedAt)

	if clear {
		if err := s.clear(ctx); err != nil {
			return nil, err
		}
	}

	batch := s.store.Batch()
	for i := range backup.WordLists {
		batch.Set(models.CollectionWordLists, backup.WordLists[i].ID, &backup.WordLists[i])
	}
	for i := range backup.Users {
		batch.Set(models.CollectionUsers, backup.Users[i].ID, &backup.Users[i])
	}
	for i := range backup.ChatSessions {
		batch.Set(models.CollectionChatSessions, backup.ChatSessions[i].ID, &backup.ChatSessions[i])
	}
	for i := range backup.Messages {
		batch.Set(models.CollectionMessages, backup.Messages[i].ID, &backup.Messages[i])
	}
	if err := batch.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to import documents: %w", err)
	}

	log.Println("Import completed successfully")
	return &backup, nil
}

func (s *BackupService) clear(ctx context.Context) error {
	collections := []string{
		models.CollectionMessages,
		models.CollectionChatSessions,
		models.CollectionUsers,
		models.CollectionWordLists,
	}
	for _, collection := range collections {
		var docs []struct {
			ID string `json:"id"`
		}
		if err := s.store.List(ctx, collection, &docs); err != nil {
			return fmt.Errorf("failed to list %s: %w", collection, err)
		}
		for _, d := range docs {
			if err := s.store.Delete(ctx, collection, d.ID); err != nil {
				return fmt.Errorf("failed to clear %s/%s: %w", collection, d.ID, err)
			}
		}
		log.Printf("Cleared %d documents from %s", len(docs), collection)
	}
	return nil
}
