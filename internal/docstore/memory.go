package docstore

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore implements Store with in-process maps. Suitable for tests
// and single-process development.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string]map[string][]byte
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string]map[string][]byte)}
}

// NewID implements Store.
func (s *MemoryStore) NewID(string) string {
	return newID()
}

// Get implements Store.
func (s *MemoryStore) Get(_ context.Context, collection, id string, dst any) error {
	s.mu.RLock()
	body, ok := s.docs[collection][id]
	s.mu.RUnlock()

	if !ok {
		return ErrNotFound
	}
	return decodeDoc(body, dst)
}

// Set implements Store.
func (s *MemoryStore) Set(_ context.Context, collection, id string, doc any) error {
	body, err := encodeDoc(doc)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.put(collection, id, body)
	return nil
}

// Update implements Store.
func (s *MemoryStore) Update(_ context.Context, collection, id string, patch Patch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	body, ok := s.docs[collection][id]
	if !ok {
		return ErrNotFound
	}
	next, err := applyPatch(body, patch)
	if err != nil {
		return err
	}
	s.put(collection, id, next)
	return nil
}

// List implements Store.
func (s *MemoryStore) List(_ context.Context, collection string, dst any) error {
	s.mu.RLock()
	docs := s.docs[collection]
	ids := make([]string, 0, len(docs))
	for id := range docs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	bodies := make([][]byte, 0, len(ids))
	for _, id := range ids {
		bodies = append(bodies, docs[id])
	}
	s.mu.RUnlock()

	return decodeList(bodies, dst)
}

// Delete implements Store.
func (s *MemoryStore) Delete(_ context.Context, collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs[collection], id)
	return nil
}

// Batch implements Store. The whole batch is resolved under the write lock
// and only published if every operation succeeds.
func (s *MemoryStore) Batch() Batch {
	return &opBatch{commit: s.commit}
}

func (s *MemoryStore) commit(_ context.Context, ops []op) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, staged, err := stage(ops, func(collection, id string) ([]byte, error) {
		return s.docs[collection][id], nil
	})
	if err != nil {
		return err
	}
	for _, key := range order {
		s.put(key.collection, key.id, staged[key])
	}
	return nil
}

// Close implements Store.
func (s *MemoryStore) Close() error {
	return nil
}

// put stores body; caller holds the write lock.
func (s *MemoryStore) put(collection, id string, body []byte) {
	docs, ok := s.docs[collection]
	if !ok {
		docs = make(map[string][]byte)
		s.docs[collection] = docs
	}
	docs[id] = body
}
