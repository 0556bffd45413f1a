// Package config loads termmap settings.
//
// Settings come from three layers, later layers winning:
//
//  1. built-in defaults ([Default])
//  2. a TOML file, by default $XDG_CONFIG_HOME/termmap/config.toml
//  3. TERMMAP_* environment variables, after loading a .env file from the
//     working directory
//
// Command-line flags are applied on top by the CLI.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	terrors "github.com/matzehuels/termmap/pkg/errors"
	"github.com/matzehuels/termmap/pkg/highlight"
	"github.com/matzehuels/termmap/pkg/macro"
	"github.com/matzehuels/termmap/pkg/reduction"
	"github.com/matzehuels/termmap/pkg/session"
	"github.com/matzehuels/termmap/pkg/termmap"
)

const appName = "termmap"

// Default listen address of termmap serve.
const DefaultAddr = "127.0.0.1:8080"

// Config is the merged configuration.
type Config struct {
	Layout    LayoutConfig    `toml:"layout"`
	Reduction ReductionConfig `toml:"reduction"`
	Highlight HighlightConfig `toml:"highlight"`
	Macros    macro.Config    `toml:"macros"`
	Serve     ServeConfig     `toml:"serve"`
	Sessions  session.Config  `toml:"sessions"`
}

// LayoutConfig holds term map spacing.
type LayoutConfig struct {
	DistanceX float64 `toml:"dx"`
	DistanceY float64 `toml:"dy"`
}

// ReductionConfig holds the reduction graph budgets.
type ReductionConfig struct {
	MaxVertices int `toml:"max_vertices"`
	MaxEdges    int `toml:"max_edges"`
	MaxLevel    int `toml:"max_level"` // 0 means unlimited
	MaxPaths    int `toml:"max_paths"`
}

// HighlightConfig holds highlight queue timing.
type HighlightConfig struct {
	Delay Duration `toml:"delay"`
}

// ServeConfig holds HTTP server settings.
type ServeConfig struct {
	Addr         string   `toml:"addr"`
	CacheEntries int      `toml:"cache_entries"` // in-memory layout and artifact cache
	MemoEntries  int      `toml:"memo_entries"`  // reduction successor memo
	SessionTTL   Duration `toml:"session_ttl"`   // lifetime of highlight sessions
}

// Duration is a time.Duration written as a Go duration string ("250ms").
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Default returns the built-in configuration. The macro store defaults to a
// file next to the config file.
func Default() Config {
	macroPath := "macros.toml"
	if dir, err := Dir(); err == nil {
		macroPath = filepath.Join(dir, "macros.toml")
	}
	return Config{
		Layout: LayoutConfig{
			DistanceX: termmap.DefaultDistanceX,
			DistanceY: termmap.DefaultDistanceY,
		},
		Reduction: ReductionConfig{
			MaxVertices: reduction.DefaultMaxVertices,
			MaxEdges:    reduction.DefaultMaxEdges,
			MaxPaths:    reduction.DefaultMaxPaths,
		},
		Highlight: HighlightConfig{Delay: Duration(highlight.DefaultDelay)},
		Macros:    macro.Config{Backend: macro.BackendFile, Path: macroPath},
		Serve: ServeConfig{
			Addr:         DefaultAddr,
			CacheEntries: 1024,
			MemoEntries:  4096,
			SessionTTL:   Duration(session.DefaultTTL),
		},
		Sessions: session.Config{Backend: "memory"},
	}
}

// Dir returns the configuration directory using the XDG standard
// (~/.config/termmap/).
func Dir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// Path returns the config file location. TERMMAP_CONFIG overrides it.
func Path() (string, error) {
	if p := os.Getenv("TERMMAP_CONFIG"); p != "" {
		return p, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads the config file at path (or [Path] when empty) over the
// defaults and applies environment overrides. A missing file is not an
// error.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path == "" {
		p, err := Path()
		if err != nil {
			return cfg, err
		}
		path = p
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return cfg, terrors.Wrap(terrors.ErrCodeInvalidInput, err, "read config %s", path)
	}
	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// Write stores cfg as TOML at path, creating parent directories.
func Write(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(cfg)
}

// Validate checks value ranges.
func (c Config) Validate() error {
	switch {
	case c.Layout.DistanceX <= 0 || c.Layout.DistanceY <= 0:
		return terrors.New(terrors.ErrCodeInvalidInput, "layout distances must be positive")
	case c.Reduction.MaxVertices <= 0 || c.Reduction.MaxEdges <= 0 || c.Reduction.MaxPaths <= 0:
		return terrors.New(terrors.ErrCodeInvalidInput, "reduction budgets must be positive")
	case c.Reduction.MaxLevel < 0:
		return terrors.New(terrors.ErrCodeInvalidInput, "reduction max_level cannot be negative")
	case c.Highlight.Delay < 0:
		return terrors.New(terrors.ErrCodeInvalidInput, "highlight delay cannot be negative")
	case c.Serve.SessionTTL < 0:
		return terrors.New(terrors.ErrCodeInvalidInput, "serve session_ttl cannot be negative")
	}
	return nil
}
