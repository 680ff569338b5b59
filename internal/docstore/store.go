// Package docstore is a small document database abstraction: JSON documents
// addressed by (collection, id), with partial updates and ordered atomic
// batches. Drivers exist for memory, SQL (through internal/database) and
// Redis.
package docstore

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrNotFound      = errors.New("document not found")
	ErrInvalidConfig = errors.New("invalid store configuration")
	ErrNotObject     = errors.New("document must encode to a JSON object")
)

// Store is the document store handle used by repositories.
type Store interface {
	// NewID returns a fresh document id for the collection.
	NewID(collection string) string

	// Get decodes the document into dst. Returns ErrNotFound if absent.
	Get(ctx context.Context, collection, id string, dst any) error

	// Set creates or replaces a document.
	Set(ctx context.Context, collection, id string, doc any) error

	// Update applies a partial update. Returns ErrNotFound if absent.
	Update(ctx context.Context, collection, id string, patch Patch) error

	// List decodes every document of the collection into dst, which must be
	// a pointer to a slice. Documents are ordered by id.
	List(ctx context.Context, collection string, dst any) error

	// Delete removes a document. Deleting a missing document is not an error.
	Delete(ctx context.Context, collection, id string) error

	// Batch starts an ordered group of writes committed atomically.
	Batch() Batch

	Close() error
}

// Batch collects writes that are applied in order and all-or-nothing on
// Commit. An Update may target a document Set earlier in the same batch.
type Batch interface {
	Set(collection, id string, doc any) Batch
	Update(collection, id string, patch Patch) Batch
	Commit(ctx context.Context) error
}

func newID() string {
	return uuid.NewString()
}

type opKind int

const (
	opSet opKind = iota
	opUpdate
)

type op struct {
	kind       opKind
	collection string
	id         string
	doc        any
	patch      Patch
}

// opBatch records operations and hands them to a driver-specific commit.
type opBatch struct {
	ops    []op
	commit func(ctx context.Context, ops []op) error
}

func (b *opBatch) Set(collection, id string, doc any) Batch {
	b.ops = append(b.ops, op{kind: opSet, collection: collection, id: id, doc: doc})
	return b
}

func (b *opBatch) Update(collection, id string, patch Patch) Batch {
	b.ops = append(b.ops, op{kind: opUpdate, collection: collection, id: id, patch: patch})
	return b
}

func (b *opBatch) Commit(ctx context.Context) error {
	if len(b.ops) == 0 {
		return nil
	}
	return b.commit(ctx, b.ops)
}

type docKey struct {
	collection string
	id         string
}

// stage resolves a batch against current document bodies. load is called
// at most once per document not already written earlier in the batch and
// returns (nil, nil) for a missing document. The result preserves first
// write order.
func stage(ops []op, load func(collection, id string) ([]byte, error)) ([]docKey, map[docKey][]byte, error) {
	var order []docKey
	staged := make(map[docKey][]byte)

	for _, o := range ops {
		key := docKey{collection: o.collection, id: o.id}
		var next []byte
		var err error

		switch o.kind {
		case opSet:
			next, err = encodeDoc(o.doc)
		case opUpdate:
			current, ok := staged[key]
			if !ok {
				current, err = load(o.collection, o.id)
				if err != nil {
					return nil, nil, err
				}
			}
			if current == nil {
				return nil, nil, ErrNotFound
			}
			next, err = applyPatch(current, o.patch)
		}
		if err != nil {
			return nil, nil, err
		}

		if _, seen := staged[key]; !seen {
			order = append(order, key)
		}
		staged[key] = next
	}
	return order, staged, nil
}
