package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"verbalist/internal/docstore"
	"verbalist/internal/models"
	"verbalist/internal/repository"
)

var generalWords = []string{"ubiquitous", "ephemeral", "pragmatic", "eloquent", "resilient", "ambiguous", "candid"}

// recordingStore wraps a Store and records every call in order
type recordingStore struct {
	docstore.Store

	mu        sync.Mutex
	calls     []string
	commitErr error
}

func newRecordingStore() *recordingStore {
	return &recordingStore{Store: docstore.NewMemoryStore()}
}

func (s *recordingStore) record(format string, args ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, fmt.Sprintf(format, args...))
}

func (s *recordingStore) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.calls))
	copy(out, s.calls)
	return out
}

func (s *recordingStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = nil
}

func (s *recordingStore) Get(ctx context.Context, collection, id string, dst any) error {
	s.record("get %s", collection)
	return s.Store.Get(ctx, collection, id, dst)
}

func (s *recordingStore) Set(ctx context.Context, collection, id string, doc any) error {
	s.record("set %s", collection)
	return s.Store.Set(ctx, collection, id, doc)
}

func (s *recordingStore) Update(ctx context.Context, collection, id string, patch docstore.Patch) error {
	s.record("update %s", collection)
	return s.Store.Update(ctx, collection, id, patch)
}

func (s *recordingStore) Batch() docstore.Batch {
	return &recordingBatch{store: s, inner: s.Store.Batch()}
}

type recordingBatch struct {
	store *recordingStore
	inner docstore.Batch
}

func (b *recordingBatch) Set(collection, id string, doc any) docstore.Batch {
	b.store.record("batch set %s", collection)
	b.inner.Set(collection, id, doc)
	return b
}

func (b *recordingBatch) Update(collection, id string, patch docstore.Patch) docstore.Batch {
	b.store.record("batch update %s", collection)
	b.inner.Update(collection, id, patch)
	return b
}

func (b *recordingBatch) Commit(ctx context.Context) error {
	b.store.record("commit")
	if b.store.commitErr != nil {
		return b.store.commitErr
	}
	return b.inner.Commit(ctx)
}

var errInjected = errors.New("injected store failure")

type testEnv struct {
	store    *recordingStore
	lists    *repository.ListRepository
	sessions *repository.SessionRepository
	users    *repository.UserRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := newRecordingStore()
	return &testEnv{
		store:    store,
		lists:    repository.NewListRepository(store),
		sessions: repository.NewSessionRepository(store),
		users:    repository.NewUserRepository(store),
	}
}

func (e *testEnv) sessionService(seed uint64) *SessionService {
	return NewSessionService(e.lists, e.sessions, rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func (e *testEnv) seedList(t *testing.T, id string, words []string) {
	t.Helper()
	list := &models.WordList{
		ID:         id,
		Name:       id,
		Words:      words,
		IsTemplate: true,
		CreatedAt:  time.Now(),
	}
	if err := e.lists.Save(context.Background(), list); err != nil {
		t.Fatalf("Failed to seed list %s: %v", id, err)
	}
	e.store.Reset()
}
