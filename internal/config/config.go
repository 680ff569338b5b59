package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	ServerPort     string
	StoreDriver    string
	DatabaseType   string
	DatabasePath   string
	DatabaseURL    string
	MigrationsPath string
	RedisURL       string
	RedisPrefix    string
	AuthSecret     string
	AuthIssuer     string
	TokenTTL       time.Duration
	WordListsFile  string
	SeedOnStart    bool
	RateLimit      int
	RateWindow     time.Duration
}

// FileConfig mirrors Config for the optional TOML file. Pointer fields
// distinguish "unset" from zero values.
type FileConfig struct {
	Server struct {
		Port *string `toml:"port"`
	} `toml:"server"`
	Store struct {
		Driver *string `toml:"driver"`
	} `toml:"store"`
	Database struct {
		Type       *string `toml:"type"`
		Path       *string `toml:"path"`
		URL        *string `toml:"url"`
		Migrations *string `toml:"migrations"`
	} `toml:"database"`
	Redis struct {
		URL    *string `toml:"url"`
		Prefix *string `toml:"prefix"`
	} `toml:"redis"`
	Auth struct {
		Secret   *string `toml:"secret"`
		Issuer   *string `toml:"issuer"`
		TokenTTL *string `toml:"token_ttl"`
	} `toml:"auth"`
	Seed struct {
		File    *string `toml:"file"`
		OnStart *bool   `toml:"on_start"`
	} `toml:"seed"`
	RateLimit struct {
		Requests *int    `toml:"requests"`
		Window   *string `toml:"window"`
	} `toml:"rate_limit"`
}

// Load reads configuration from a .env file, an optional TOML file named by
// VERBALIST_CONFIG, and environment variables, in increasing precedence.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := defaults()

	if path := os.Getenv("VERBALIST_CONFIG"); path != "" {
		fileCfg, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		if err := cfg.applyFile(fileCfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		ServerPort:     "8080",
		StoreDriver:    "sql",
		DatabaseType:   "sqlite",
		DatabasePath:   "./verbalist.db",
		MigrationsPath: "./migrations",
		RedisURL:       "redis://localhost:6379/0",
		RedisPrefix:    "verbalist",
		AuthIssuer:     "verbalist",
		TokenTTL:       time.Hour,
		SeedOnStart:    true,
		RateLimit:      30,
		RateWindow:     time.Minute,
	}
}

// LoadFile decodes a TOML config file. A missing file is not an error.
func LoadFile(path string) (FileConfig, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var fileCfg FileConfig
	if _, err := toml.DecodeFile(path, &fileCfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return fileCfg, nil
}

func (c *Config) applyFile(f FileConfig) error {
	setString(&c.ServerPort, f.Server.Port)
	setString(&c.StoreDriver, f.Store.Driver)
	setString(&c.DatabaseType, f.Database.Type)
	setString(&c.DatabasePath, f.Database.Path)
	setString(&c.DatabaseURL, f.Database.URL)
	setString(&c.MigrationsPath, f.Database.Migrations)
	setString(&c.RedisURL, f.Redis.URL)
	setString(&c.RedisPrefix, f.Redis.Prefix)
	setString(&c.AuthSecret, f.Auth.Secret)
	setString(&c.AuthIssuer, f.Auth.Issuer)
	setString(&c.WordListsFile, f.Seed.File)
	if f.Seed.OnStart != nil {
		c.SeedOnStart = *f.Seed.OnStart
	}
	if f.RateLimit.Requests != nil {
		c.RateLimit = *f.RateLimit.Requests
	}
	if f.RateLimit.Window != nil {
		window, err := time.ParseDuration(*f.RateLimit.Window)
		if err != nil {
			return fmt.Errorf("invalid rate_limit.window: %w", err)
		}
		c.RateWindow = window
	}
	if f.Auth.TokenTTL != nil {
		ttl, err := time.ParseDuration(*f.Auth.TokenTTL)
		if err != nil {
			return fmt.Errorf("invalid auth.token_ttl: %w", err)
		}
		c.TokenTTL = ttl
	}
	return nil
}

func (c *Config) applyEnv() error {
	c.ServerPort = getEnv("PORT", c.ServerPort)
	c.StoreDriver = strings.ToLower(getEnv("STORE_DRIVER", c.StoreDriver))
	c.DatabaseType = strings.ToLower(getEnv("DB_TYPE", c.DatabaseType))
	c.DatabasePath = getEnv("DB_PATH", c.DatabasePath)
	c.DatabaseURL = getEnv("DATABASE_URL", c.DatabaseURL)
	c.MigrationsPath = getEnv("MIGRATIONS_PATH", c.MigrationsPath)
	c.RedisURL = getEnv("REDIS_URL", c.RedisURL)
	c.RedisPrefix = getEnv("REDIS_PREFIX", c.RedisPrefix)
	c.AuthSecret = getEnv("AUTH_SECRET", c.AuthSecret)
	c.AuthIssuer = getEnv("AUTH_ISSUER", c.AuthIssuer)
	c.WordListsFile = getEnv("WORDLISTS_FILE", c.WordListsFile)
	c.SeedOnStart = getEnvBool("SEED_ON_START", c.SeedOnStart)

	if raw := os.Getenv("RATE_LIMIT"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("invalid RATE_LIMIT: %w", err)
		}
		c.RateLimit = n
	}
	if raw := os.Getenv("RATE_WINDOW"); raw != "" {
		window, err := time.ParseDuration(raw)
		if err != nil {
			return fmt.Errorf("invalid RATE_WINDOW: %w", err)
		}
		c.RateWindow = window
	}

	if raw := os.Getenv("TOKEN_TTL"); raw != "" {
		ttl, err := time.ParseDuration(raw)
		if err != nil {
			return fmt.Errorf("invalid TOKEN_TTL: %w", err)
		}
		c.TokenTTL = ttl
	}
	return nil
}

// Validate checks that the configuration is usable
func (c *Config) Validate() error {
	if c.ServerPort == "" {
		return fmt.Errorf("PORT cannot be empty")
	}
	switch c.StoreDriver {
	case "memory", "redis":
	case "sql":
		switch c.DatabaseType {
		case "sqlite", "sqlite3", "sqlite-purego", "":
			if c.DatabasePath == "" {
				return fmt.Errorf("DB_PATH cannot be empty for sqlite")
			}
		case "postgres", "postgresql", "mysql":
			if c.DatabaseURL == "" {
				return fmt.Errorf("DATABASE_URL is required for %s", c.DatabaseType)
			}
		default:
			return fmt.Errorf("unsupported database type: %s", c.DatabaseType)
		}
	default:
		return fmt.Errorf("unsupported store driver: %s", c.StoreDriver)
	}
	if c.AuthSecret == "" && c.StoreDriver != "memory" {
		return fmt.Errorf("AUTH_SECRET is required")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive")
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("RATE_LIMIT cannot be negative")
	}
	if c.RateLimit > 0 && c.RateWindow <= 0 {
		return fmt.Errorf("RATE_WINDOW must be positive")
	}
	return nil
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return b
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
