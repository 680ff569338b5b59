package docstore

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"
)

const (
	defaultRedisPrefix = "verbalist"
	// Attempts for a WATCH transaction before giving up on contention
	maxWatchRetries = 5
)

// RedisStore implements Store on Redis. Documents live under
// "<prefix>:<collection>:<id>" and each collection keeps an id index set
// under "<prefix>:index:<collection>". Updates and batches use
// WATCH/MULTI/EXEC.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore creates a Redis-backed store
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = defaultRedisPrefix
	}
	return &RedisStore{client: client, prefix: prefix}
}

// NewID implements Store.
func (s *RedisStore) NewID(string) string {
	return newID()
}

// Get implements Store.
func (s *RedisStore) Get(ctx context.Context, collection, id string, dst any) error {
	val, err := s.client.Get(ctx, s.key(collection, id)).Bytes()
	if err == redis.Nil {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to get document %s/%s: %w", collection, id, err)
	}
	return decodeDoc(val, dst)
}

// Set implements Store.
func (s *RedisStore) Set(ctx context.Context, collection, id string, doc any) error {
	body, err := encodeDoc(doc)
	if err != nil {
		return err
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.key(collection, id), body, 0)
		pipe.SAdd(ctx, s.indexKey(collection), id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to write document %s/%s: %w", collection, id, err)
	}
	return nil
}

// Update implements Store.
func (s *RedisStore) Update(ctx context.Context, collection, id string, patch Patch) error {
	ops := []op{{kind: opUpdate, collection: collection, id: id, patch: patch}}
	return s.commit(ctx, ops)
}

// List implements Store.
func (s *RedisStore) List(ctx context.Context, collection string, dst any) error {
	ids, err := s.client.SMembers(ctx, s.indexKey(collection)).Result()
	if err != nil {
		return fmt.Errorf("failed to list %s: %w", collection, err)
	}
	if len(ids) == 0 {
		return decodeList(nil, dst)
	}
	sort.Strings(ids)

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.key(collection, id)
	}
	vals, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", collection, err)
	}

	bodies := make([][]byte, 0, len(vals))
	for _, v := range vals {
		// Index entries can briefly outlive a deleted key
		str, ok := v.(string)
		if !ok {
			continue
		}
		bodies = append(bodies, []byte(str))
	}
	return decodeList(bodies, dst)
}

// Delete implements Store.
func (s *RedisStore) Delete(ctx context.Context, collection, id string) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, s.key(collection, id))
		pipe.SRem(ctx, s.indexKey(collection), id)
		return nil
	})
	return err
}

// Batch implements Store.
func (s *RedisStore) Batch() Batch {
	return &opBatch{commit: s.commit}
}

func (s *RedisStore) commit(ctx context.Context, ops []op) error {
	keys := make([]string, 0, len(ops))
	seen := make(map[string]bool)
	for _, o := range ops {
		k := s.key(o.collection, o.id)
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}

	txf := func(tx *redis.Tx) error {
		order, staged, err := stage(ops, func(collection, id string) ([]byte, error) {
			val, err := tx.Get(ctx, s.key(collection, id)).Bytes()
			if err == redis.Nil {
				return nil, nil
			}
			return val, err
		})
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			for _, key := range order {
				pipe.Set(ctx, s.key(key.collection, key.id), staged[key], 0)
				pipe.SAdd(ctx, s.indexKey(key.collection), key.id)
			}
			return nil
		})
		return err
	}

	for attempt := 0; attempt < maxWatchRetries; attempt++ {
		err := s.client.Watch(ctx, txf, keys...)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return err
	}
	return fmt.Errorf("batch aborted after %d attempts: %w", maxWatchRetries, redis.TxFailedErr)
}

// Close implements Store.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) key(collection, id string) string {
	return s.prefix + ":" + collection + ":" + id
}

func (s *RedisStore) indexKey(collection string) string {
	return s.prefix + ":index:" + collection
}
