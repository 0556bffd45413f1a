package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	terrors "github.com/matzehuels/termmap/pkg/errors"
)

// applyEnv overrides cfg with TERMMAP_* variables.
func applyEnv(cfg *Config) error {
	var err error
	set := func(e error) {
		if err == nil {
			err = e
		}
	}

	set(envFloat("TERMMAP_DX", &cfg.Layout.DistanceX))
	set(envFloat("TERMMAP_DY", &cfg.Layout.DistanceY))
	set(envInt("TERMMAP_MAX_VERTICES", &cfg.Reduction.MaxVertices))
	set(envInt("TERMMAP_MAX_EDGES", &cfg.Reduction.MaxEdges))
	set(envInt("TERMMAP_MAX_LEVEL", &cfg.Reduction.MaxLevel))
	set(envInt("TERMMAP_MAX_PATHS", &cfg.Reduction.MaxPaths))
	set(envDuration("TERMMAP_HIGHLIGHT_DELAY", &cfg.Highlight.Delay))

	cfg.Macros.Backend = envOrDefault("TERMMAP_MACRO_BACKEND", cfg.Macros.Backend)
	cfg.Macros.Path = envOrDefault("TERMMAP_MACRO_PATH", cfg.Macros.Path)
	cfg.Macros.URL = envOrDefault("TERMMAP_MACRO_URL", cfg.Macros.URL)
	cfg.Macros.Database = envOrDefault("TERMMAP_MACRO_DATABASE", cfg.Macros.Database)
	cfg.Serve.Addr = envOrDefault("TERMMAP_ADDR", cfg.Serve.Addr)
	set(envDuration("TERMMAP_SESSION_TTL", &cfg.Serve.SessionTTL))
	cfg.Sessions.Backend = envOrDefault("TERMMAP_SESSION_BACKEND", cfg.Sessions.Backend)
	cfg.Sessions.Path = envOrDefault("TERMMAP_SESSION_PATH", cfg.Sessions.Path)
	cfg.Sessions.URL = envOrDefault("TERMMAP_SESSION_URL", cfg.Sessions.URL)
	return err
}

// envOrDefault returns the trimmed value of key, or def when unset or blank.
func envOrDefault(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func envInt(key string, dst *int) error {
	raw := envOrDefault(key, "")
	if raw == "" {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return terrors.Wrap(terrors.ErrCodeInvalidInput, err, "%s", key)
	}
	*dst = v
	return nil
}

func envFloat(key string, dst *float64) error {
	raw := envOrDefault(key, "")
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return terrors.Wrap(terrors.ErrCodeInvalidInput, err, "%s", key)
	}
	*dst = v
	return nil
}

func envDuration(key string, dst *Duration) error {
	raw := envOrDefault(key, "")
	if raw == "" {
		return nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return terrors.Wrap(terrors.ErrCodeInvalidInput, err, "%s", key)
	}
	*dst = Duration(v)
	return nil
}
