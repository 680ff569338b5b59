package docstore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"sync"
	"testing"

	"github.com/redis/go-redis/v9"

	"verbalist/internal/database"
)

type testDoc struct {
	Name  string   `json:"name"`
	Tags  []string `json:"tags"`
	Count int      `json:"count"`
}

// storeFactories returns every driver that can run in the current
// environment. Redis only runs when REDIS_URL is set.
func storeFactories(t *testing.T) map[string]func(t *testing.T) Store {
	t.Helper()
	factories := map[string]func(t *testing.T) Store{
		"memory": func(t *testing.T) Store { return NewMemoryStore() },
		"sql": func(t *testing.T) Store {
			if testing.Short() {
				t.Skip("Skipping SQL store test in short mode")
			}
			db, err := database.Open(database.NewPureSQLiteDialect(), database.DialectConfig{
				Path: filepath.Join(t.TempDir(), "docstore_test.db"),
			})
			if err != nil {
				t.Fatalf("Failed to open database: %v", err)
			}
			if err := db.RunMigrations(context.Background(), "../../migrations"); err != nil {
				t.Fatalf("Failed to run migrations: %v", err)
			}
			s := NewSQLStore(db)
			t.Cleanup(func() { s.Close() })
			return s
		},
	}

	if url := os.Getenv("REDIS_URL"); url != "" {
		factories["redis"] = func(t *testing.T) Store {
			opts, err := redis.ParseURL(url)
			if err != nil {
				t.Fatalf("invalid REDIS_URL: %v", err)
			}
			client := redis.NewClient(opts)
			prefix := "verbalist-test-" + newID()
			s := NewRedisStore(client, prefix)
			t.Cleanup(func() {
				ctx := context.Background()
				keys, _ := client.Keys(ctx, prefix+":*").Result()
				if len(keys) > 0 {
					client.Del(ctx, keys...)
				}
				s.Close()
			})
			return s
		}
	}
	return factories
}

func TestStoreSetGet(t *testing.T) {
	for name, newStore := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			s := newStore(t)
			ctx := context.Background()

			want := testDoc{Name: "alpha", Tags: []string{"a"}, Count: 1}
			if err := s.Set(ctx, "docs", "1", want); err != nil {
				t.Fatalf("Set failed: %v", err)
			}

			var got testDoc
			if err := s.Get(ctx, "docs", "1", &got); err != nil {
				t.Fatalf("Get failed: %v", err)
			}
			if !reflect.DeepEqual(got, want) {
				t.Errorf("Get = %+v, want %+v", got, want)
			}

			err := s.Get(ctx, "docs", "missing", &got)
			if !errors.Is(err, ErrNotFound) {
				t.Errorf("Get missing error = %v, want ErrNotFound", err)
			}
		})
	}
}

func TestStoreSetRejectsNonObject(t *testing.T) {
	s := NewMemoryStore()
	err := s.Set(context.Background(), "docs", "1", []string{"x"})
	if !errors.Is(err, ErrNotObject) {
		t.Errorf("Set error = %v, want ErrNotObject", err)
	}
}

func TestStoreUpdate(t *testing.T) {
	for name, newStore := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			s := newStore(t)
			ctx := context.Background()

			if err := s.Set(ctx, "docs", "1", testDoc{Name: "alpha", Tags: []string{"a"}}); err != nil {
				t.Fatalf("Set failed: %v", err)
			}

			patch := Patch{
				"name":  "beta",
				"tags":  ArrayUnion("a", "b"),
				"count": Increment(2),
			}
			if err := s.Update(ctx, "docs", "1", patch); err != nil {
				t.Fatalf("Update failed: %v", err)
			}

			var got testDoc
			if err := s.Get(ctx, "docs", "1", &got); err != nil {
				t.Fatalf("Get failed: %v", err)
			}
			want := testDoc{Name: "beta", Tags: []string{"a", "b"}, Count: 2}
			if !reflect.DeepEqual(got, want) {
				t.Errorf("after Update = %+v, want %+v", got, want)
			}

			err := s.Update(ctx, "docs", "missing", Patch{"name": "x"})
			if !errors.Is(err, ErrNotFound) {
				t.Errorf("Update missing error = %v, want ErrNotFound", err)
			}
		})
	}
}

func TestStoreConcurrentUpdates(t *testing.T) {
	const workers = 20

	for name, newStore := range storeFactories(t) {
		if name == "redis" {
			// WATCH retries are bounded, so heavy contention on one key may fail
			continue
		}
		t.Run(name, func(t *testing.T) {
			s := newStore(t)
			ctx := context.Background()

			if err := s.Set(ctx, "docs", "1", testDoc{Name: "counter"}); err != nil {
				t.Fatalf("Set failed: %v", err)
			}

			var wg sync.WaitGroup
			errs := make(chan error, workers)
			for i := 0; i < workers; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					if err := s.Update(ctx, "docs", "1", Patch{"count": Increment(1)}); err != nil {
						errs <- err
					}
				}()
			}
			wg.Wait()
			close(errs)

			for err := range errs {
				t.Errorf("concurrent Update failed: %v", err)
			}

			var got testDoc
			if err := s.Get(ctx, "docs", "1", &got); err != nil {
				t.Fatalf("Get failed: %v", err)
			}
			if got.Count != workers {
				t.Errorf("count = %d, want %d", got.Count, workers)
			}
		})
	}
}

func TestStoreListAndDelete(t *testing.T) {
	for name, newStore := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			s := newStore(t)
			ctx := context.Background()

			for _, id := range []string{"b", "a", "c"} {
				if err := s.Set(ctx, "docs", id, testDoc{Name: id}); err != nil {
					t.Fatalf("Set %s failed: %v", id, err)
				}
			}
			if err := s.Set(ctx, "other", "z", testDoc{Name: "z"}); err != nil {
				t.Fatalf("Set other failed: %v", err)
			}

			var docs []testDoc
			if err := s.List(ctx, "docs", &docs); err != nil {
				t.Fatalf("List failed: %v", err)
			}
			var names []string
			for _, d := range docs {
				names = append(names, d.Name)
			}
			if !reflect.DeepEqual(names, []string{"a", "b", "c"}) {
				t.Errorf("List names = %v, want [a b c]", names)
			}

			if err := s.Delete(ctx, "docs", "b"); err != nil {
				t.Fatalf("Delete failed: %v", err)
			}
			if err := s.Delete(ctx, "docs", "never"); err != nil {
				t.Errorf("Delete missing should not fail: %v", err)
			}

			docs = nil
			if err := s.List(ctx, "docs", &docs); err != nil {
				t.Fatalf("List failed: %v", err)
			}
			if len(docs) != 2 {
				t.Errorf("List after delete returned %d docs, want 2", len(docs))
			}

			var empty []testDoc
			if err := s.List(ctx, "nothing", &empty); err != nil {
				t.Fatalf("List empty failed: %v", err)
			}
			if len(empty) != 0 {
				t.Errorf("List empty returned %d docs", len(empty))
			}
		})
	}
}

func TestStoreBatchAppliesInOrder(t *testing.T) {
	for name, newStore := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			s := newStore(t)
			ctx := context.Background()

			err := s.Batch().
				Set("docs", "1", testDoc{Name: "one"}).
				Set("docs", "2", testDoc{Name: "two"}).
				Update("docs", "1", Patch{"tags": ArrayUnion("2"), "count": Increment(1)}).
				Commit(ctx)
			if err != nil {
				t.Fatalf("Commit failed: %v", err)
			}

			var got testDoc
			if err := s.Get(ctx, "docs", "1", &got); err != nil {
				t.Fatalf("Get failed: %v", err)
			}
			want := testDoc{Name: "one", Tags: []string{"2"}, Count: 1}
			if !reflect.DeepEqual(got, want) {
				t.Errorf("doc 1 = %+v, want %+v", got, want)
			}
			if err := s.Get(ctx, "docs", "2", &got); err != nil {
				t.Errorf("doc 2 missing after commit: %v", err)
			}
		})
	}
}

func TestStoreBatchIsAtomic(t *testing.T) {
	for name, newStore := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			s := newStore(t)
			ctx := context.Background()

			err := s.Batch().
				Set("docs", "1", testDoc{Name: "one"}).
				Update("docs", "missing", Patch{"count": Increment(1)}).
				Commit(ctx)
			if !errors.Is(err, ErrNotFound) {
				t.Fatalf("Commit error = %v, want ErrNotFound", err)
			}

			var got testDoc
			if err := s.Get(ctx, "docs", "1", &got); !errors.Is(err, ErrNotFound) {
				t.Errorf("doc 1 should not exist after failed batch, got err %v", err)
			}
		})
	}
}

func TestEmptyBatchCommit(t *testing.T) {
	s := NewMemoryStore()
	if err := s.Batch().Commit(context.Background()); err != nil {
		t.Errorf("empty batch Commit failed: %v", err)
	}
}

func TestApplyPatch(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		patch Patch
		want  string
	}{
		{
			name:  "union into missing field",
			body:  `{}`,
			patch: Patch{"ids": ArrayUnion("a")},
			want:  `{"ids":["a"]}`,
		},
		{
			name:  "union skips duplicates",
			body:  `{"ids":["a","b"]}`,
			patch: Patch{"ids": ArrayUnion("b", "c", "c")},
			want:  `{"ids":["a","b","c"]}`,
		},
		{
			name:  "union with no values keeps empty array",
			body:  `{}`,
			patch: Patch{"ids": ArrayUnion()},
			want:  `{"ids":[]}`,
		},
		{
			name:  "increment missing field",
			body:  `{}`,
			patch: Patch{"n": Increment(3)},
			want:  `{"n":3}`,
		},
		{
			name:  "increment existing field",
			body:  `{"n":4}`,
			patch: Patch{"n": Increment(-1)},
			want:  `{"n":3}`,
		},
		{
			name:  "plain field replaces value",
			body:  `{"name":"a","keep":true}`,
			patch: Patch{"name": "b"},
			want:  `{"keep":true,"name":"b"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := applyPatch([]byte(tt.body), tt.patch)
			if err != nil {
				t.Fatalf("applyPatch failed: %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("applyPatch = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestNew(t *testing.T) {
	if _, err := New(DriverMemory); err != nil {
		t.Errorf("New(memory) failed: %v", err)
	}
	if _, err := New(DriverSQL); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("New(sql) without db error = %v, want ErrInvalidConfig", err)
	}
	if _, err := New(DriverRedis); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("New(redis) without client error = %v, want ErrInvalidConfig", err)
	}
	if _, err := New(Driver("bogus")); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("New(bogus) error = %v, want ErrInvalidConfig", err)
	}
}
