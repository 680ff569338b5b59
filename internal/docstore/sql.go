package docstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"verbalist/internal/database"
)

// SQLStore implements Store on the documents table. Batches and updates run
// inside a database transaction.
type SQLStore struct {
	db *database.DB
}

// NewSQLStore wraps a migrated database connection
func NewSQLStore(db *database.DB) *SQLStore {
	return &SQLStore{db: db}
}

// NewID implements Store.
func (s *SQLStore) NewID(string) string {
	return newID()
}

// Get implements Store.
func (s *SQLStore) Get(ctx context.Context, collection, id string, dst any) error {
	body, err := loadBody(ctx, s.db, collection, id, false)
	if err != nil {
		return err
	}
	if body == nil {
		return ErrNotFound
	}
	return decodeDoc(body, dst)
}

// Set implements Store.
func (s *SQLStore) Set(ctx context.Context, collection, id string, doc any) error {
	body, err := encodeDoc(doc)
	if err != nil {
		return err
	}
	return upsertBody(ctx, s.db, collection, id, body)
}

// Update implements Store.
func (s *SQLStore) Update(ctx context.Context, collection, id string, patch Patch) error {
	return s.db.WithTx(ctx, func(tx *database.Tx) error {
		body, err := loadBody(ctx, tx, collection, id, true)
		if err != nil {
			return err
		}
		if body == nil {
			return ErrNotFound
		}
		next, err := applyPatch(body, patch)
		if err != nil {
			return err
		}
		return upsertBody(ctx, tx, collection, id, next)
	})
}

// List implements Store.
func (s *SQLStore) List(ctx context.Context, collection string, dst any) error {
	query := "SELECT body FROM documents WHERE collection = ? ORDER BY id"
	rows, err := s.db.QueryContext(ctx, query, collection)
	if err != nil {
		return fmt.Errorf("failed to query documents: %w", err)
	}
	defer rows.Close()

	var bodies [][]byte
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return fmt.Errorf("failed to scan document: %w", err)
		}
		bodies = append(bodies, []byte(body))
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate documents: %w", err)
	}
	return decodeList(bodies, dst)
}

// Delete implements Store.
func (s *SQLStore) Delete(ctx context.Context, collection, id string) error {
	query := "DELETE FROM documents WHERE collection = ? AND id = ?"
	if _, err := s.db.ExecContext(ctx, query, collection, id); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	return nil
}

// Batch implements Store.
func (s *SQLStore) Batch() Batch {
	return &opBatch{commit: s.commit}
}

func (s *SQLStore) commit(ctx context.Context, ops []op) error {
	return s.db.WithTx(ctx, func(tx *database.Tx) error {
		order, staged, err := stage(ops, func(collection, id string) ([]byte, error) {
			return loadBody(ctx, tx, collection, id, true)
		})
		if err != nil {
			return err
		}
		for _, key := range order {
			if err := upsertBody(ctx, tx, key.collection, key.id, staged[key]); err != nil {
				return err
			}
		}
		return nil
	})
}

// Close implements Store.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

// loadBody returns nil, nil when the row does not exist.
func loadBody(ctx context.Context, q database.DBTX, collection, id string, lock bool) ([]byte, error) {
	query := "SELECT body FROM documents WHERE collection = ? AND id = ?"
	if lock {
		query += q.GetDialect().LockingSuffix()
	}

	var body string
	err := q.QueryRowContext(ctx, query, collection, id).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get document %s/%s: %w", collection, id, err)
	}
	return []byte(body), nil
}

func upsertBody(ctx context.Context, q database.DBTX, collection, id string, body []byte) error {
	if _, err := q.ExecContext(ctx, q.GetDialect().UpsertDocumentQuery(), collection, id, string(body)); err != nil {
		return fmt.Errorf("failed to write document %s/%s: %w", collection, id, err)
	}
	return nil
}
