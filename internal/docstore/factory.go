package docstore

import (
	"context"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"

	"verbalist/internal/config"
	"verbalist/internal/database"
)

// Driver names the backing implementation of a Store.
type Driver string

const (
	DriverMemory Driver = "memory"
	DriverSQL    Driver = "sql"
	DriverRedis  Driver = "redis"
)

// Option configures New.
type Option func(*options)

type options struct {
	db          *database.DB
	redisClient *redis.Client
	redisPrefix string
}

// WithDB sets the migrated database used by the SQL driver.
func WithDB(db *database.DB) Option {
	return func(o *options) {
		o.db = db
	}
}

// WithRedisClient sets the client used by the Redis driver.
func WithRedisClient(client *redis.Client) Option {
	return func(o *options) {
		o.redisClient = client
	}
}

// WithRedisPrefix sets the key prefix used by the Redis driver.
func WithRedisPrefix(prefix string) Option {
	return func(o *options) {
		o.redisPrefix = prefix
	}
}

// New creates a Store for the given driver. The SQL driver requires WithDB
// and the Redis driver requires WithRedisClient.
func New(driver Driver, opts ...Option) (Store, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	switch driver {
	case DriverMemory:
		return NewMemoryStore(), nil
	case DriverSQL:
		if o.db == nil {
			return nil, ErrInvalidConfig
		}
		return NewSQLStore(o.db), nil
	case DriverRedis:
		if o.redisClient == nil {
			return nil, ErrInvalidConfig
		}
		return NewRedisStore(o.redisClient, o.redisPrefix), nil
	default:
		return nil, fmt.Errorf("%w: unknown driver %q", ErrInvalidConfig, driver)
	}
}

// OpenFromConfig connects the backend named by cfg.StoreDriver. For SQL it
// opens the database and runs migrations; for Redis it parses RedisURL and
// pings the server.
func OpenFromConfig(ctx context.Context, cfg *config.Config) (Store, error) {
	switch Driver(cfg.StoreDriver) {
	case DriverMemory:
		log.Println("Using in-memory document store")
		return New(DriverMemory)

	case DriverSQL:
		db, err := database.InitializeWithConfig(cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		if err := db.RunMigrations(ctx, cfg.MigrationsPath); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		log.Printf("Using %s document store", db.Dialect.DriverName())
		return New(DriverSQL, WithDB(db))

	case DriverRedis:
		redisOpts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
		}
		client := redis.NewClient(redisOpts)
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		log.Printf("Using redis document store at %s", redisOpts.Addr)
		return New(DriverRedis, WithRedisClient(client), WithRedisPrefix(cfg.RedisPrefix))

	default:
		return nil, fmt.Errorf("%w: unknown driver %q", ErrInvalidConfig, cfg.StoreDriver)
	}
}
