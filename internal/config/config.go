// Package config loads the storefront service settings from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every knob the service binary reads at boot.
type Config struct {
	HTTPAddr        string
	ShutdownTimeout time.Duration

	CatalogDriver  string // postgres | memory
	DatabaseURL    string
	DBMaxOpenConns int
	DBMaxIdleConns int

	CacheProvider    string // redis | ristretto | bigcache
	RedisAddr        string
	RedisPassword    string
	RedisDB          int
	CacheNamespace   string
	CacheCodec       string // json | msgpack | cbor | proto
	CacheTTL         time.Duration
	MaxSnapshotBytes int
	CacheDisabled    bool
	RefreshOnDelete  bool
	WarmOnStart      bool

	GenStore    string // local | redis
	GenStoreTTL time.Duration

	LogBackend string // zap | logrus | slog
	LogLevel   string
}

// Load reads an optional .env file (paths default to ".env"), then the
// process environment. Variables already set in the environment win.
func Load(paths ...string) (Config, error) {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("config: load %s: %w", p, err)
		}
	}

	cfg := Config{
		HTTPAddr:        getenv("HTTP_ADDR", ":5000"),
		ShutdownTimeout: durenv("SHUTDOWN_TIMEOUT", 15*time.Second),

		CatalogDriver:  strings.ToLower(getenv("CATALOG_DRIVER", "memory")),
		DatabaseURL:    getenv("DATABASE_URL", ""),
		DBMaxOpenConns: atoienv("DB_MAX_OPEN_CONNS", 10),
		DBMaxIdleConns: atoienv("DB_MAX_IDLE_CONNS", 5),

		CacheProvider:    strings.ToLower(getenv("CACHE_PROVIDER", "ristretto")),
		RedisAddr:        getenv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:    getenv("REDIS_PASSWORD", ""),
		RedisDB:          atoienv("REDIS_DB", 0),
		CacheNamespace:   getenv("CACHE_NAMESPACE", "default"),
		CacheCodec:       strings.ToLower(getenv("CACHE_CODEC", "json")),
		CacheTTL:         durenv("CACHE_TTL", 0),
		MaxSnapshotBytes: atoienv("CACHE_MAX_SNAPSHOT_BYTES", 4<<20),
		CacheDisabled:    boolenv("CACHE_DISABLED", false),
		RefreshOnDelete:  boolenv("CACHE_REFRESH_ON_DELETE", true),
		WarmOnStart:      boolenv("CACHE_WARM_ON_START", false),

		GenStore:    strings.ToLower(getenv("GENSTORE", "local")),
		GenStoreTTL: durenv("GENSTORE_TTL", 0),

		LogBackend: strings.ToLower(getenv("LOG_BACKEND", "zap")),
		LogLevel:   strings.ToLower(getenv("LOG_LEVEL", "info")),
	}
	return cfg, cfg.Validate()
}

// Validate rejects unknown enum values and settings that cannot work together.
func (c Config) Validate() error {
	if err := oneOf("CATALOG_DRIVER", c.CatalogDriver, "postgres", "memory"); err != nil {
		return err
	}
	if c.CatalogDriver == "postgres" && c.DatabaseURL == "" {
		return errors.New("config: DATABASE_URL is required when CATALOG_DRIVER=postgres")
	}
	if err := oneOf("CACHE_PROVIDER", c.CacheProvider, "redis", "ristretto", "bigcache"); err != nil {
		return err
	}
	if err := oneOf("CACHE_CODEC", c.CacheCodec, "json", "msgpack", "cbor", "proto"); err != nil {
		return err
	}
	if err := oneOf("GENSTORE", c.GenStore, "local", "redis"); err != nil {
		return err
	}
	if c.GenStore == "redis" && c.CacheProvider != "redis" {
		return errors.New("config: GENSTORE=redis requires CACHE_PROVIDER=redis")
	}
	// replicas sharing a snapshot must share its generation, or each one
	// treats the others' writes as stale
	if c.CacheProvider == "redis" && c.GenStore != "redis" {
		return errors.New("config: CACHE_PROVIDER=redis requires GENSTORE=redis")
	}
	if err := oneOf("LOG_BACKEND", c.LogBackend, "zap", "logrus", "slog"); err != nil {
		return err
	}
	if err := oneOf("LOG_LEVEL", c.LogLevel, "debug", "info", "warn", "error"); err != nil {
		return err
	}
	if c.CacheNamespace == "" {
		return errors.New("config: CACHE_NAMESPACE must not be empty")
	}
	if c.CacheTTL < 0 {
		return errors.New("config: CACHE_TTL must be >= 0")
	}
	return nil
}

func oneOf(name, v string, allowed ...string) error {
	for _, a := range allowed {
		if v == a {
			return nil
		}
	}
	return fmt.Errorf("config: %s=%q, want one of %s", name, v, strings.Join(allowed, "|"))
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoienv(key string, def int) int {
	n, err := strconv.Atoi(getenv(key, ""))
	if err != nil {
		return def
	}
	return n
}

func boolenv(key string, def bool) bool {
	b, err := strconv.ParseBool(getenv(key, ""))
	if err != nil {
		return def
	}
	return b
}

// durenv accepts Go durations ("30s") or bare seconds ("30").
func durenv(key string, def time.Duration) time.Duration {
	v := getenv(key, "")
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if sec, err := strconv.Atoi(v); err == nil {
		return time.Duration(sec) * time.Second
	}
	return def
}
