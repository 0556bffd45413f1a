package macro

import (
	"context"

	terrors "github.com/matzehuels/termmap/pkg/errors"
)

// Backend names accepted by [Open].
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
)

// Config selects and configures a [Store].
type Config struct {
	Backend  string `toml:"backend"`
	Path     string `toml:"path"`     // file backend
	URL      string `toml:"url"`      // redis and mongo backends
	Database string `toml:"database"` // mongo database or redis hash key
}

// Open returns the store described by cfg. An empty backend selects memory.
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Backend {
	case "", BackendMemory:
		return NewMemoryStore(), nil
	case BackendFile:
		return NewFileStore(cfg.Path)
	case BackendRedis:
		if cfg.URL == "" {
			return nil, terrors.New(terrors.ErrCodeInvalidInput, "redis macro store needs a url")
		}
		return NewRedisStore(ctx, cfg.URL, cfg.Database)
	case BackendMongo:
		if cfg.URL == "" {
			return nil, terrors.New(terrors.ErrCodeInvalidInput, "mongo macro store needs a url")
		}
		return NewMongoStore(ctx, cfg.URL, cfg.Database)
	default:
		return nil, terrors.New(terrors.ErrCodeInvalidInput, "unknown macro backend %q (must be one of: memory, file, redis, mongo)", cfg.Backend)
	}
}
