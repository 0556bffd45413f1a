package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	terrors "github.com/matzehuels/termmap/pkg/errors"
	"github.com/matzehuels/termmap/pkg/macro"
)

func TestDefault(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/cfg")
	cfg := Default()

	if cfg.Layout.DistanceX != 30 || cfg.Layout.DistanceY != 30 {
		t.Errorf("layout = %+v, want 30/30", cfg.Layout)
	}
	if time.Duration(cfg.Highlight.Delay) != 250*time.Millisecond {
		t.Errorf("delay = %v, want 250ms", time.Duration(cfg.Highlight.Delay))
	}
	if cfg.Macros.Backend != macro.BackendFile || cfg.Macros.Path != filepath.Join("/tmp/cfg", "termmap", "macros.toml") {
		t.Errorf("macros = %+v", cfg.Macros)
	}
	if cfg.Sessions.Backend != "memory" || time.Duration(cfg.Serve.SessionTTL) != time.Hour {
		t.Errorf("sessions = %+v, ttl = %v", cfg.Sessions, time.Duration(cfg.Serve.SessionTTL))
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestPath(t *testing.T) {
	t.Setenv("TERMMAP_CONFIG", "")
	t.Setenv("XDG_CONFIG_HOME", "/tmp/custom-config")

	p, err := Path()
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join("/tmp/custom-config", appName, "config.toml"); p != want {
		t.Errorf("Path() = %q, want %q", p, want)
	}

	t.Setenv("TERMMAP_CONFIG", "/etc/termmap.toml")
	if p, _ := Path(); p != "/etc/termmap.toml" {
		t.Errorf("Path() with TERMMAP_CONFIG = %q", p)
	}
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Serve.Addr != DefaultAddr {
		t.Errorf("Addr = %q, want default", cfg.Serve.Addr)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	body := `
[layout]
dx = 40

[reduction]
max_vertices = 50
max_level = 3

[highlight]
delay = "1s"

[macros]
backend = "redis"
url = "redis://localhost:6379/0"

[serve]
addr = ":9000"
session_ttl = "30m"

[sessions]
backend = "redis"
url = "redis://localhost:6379/1"
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Layout.DistanceX != 40 || cfg.Layout.DistanceY != 30 {
		t.Errorf("layout = %+v, want dx from file and default dy", cfg.Layout)
	}
	if cfg.Reduction.MaxVertices != 50 || cfg.Reduction.MaxLevel != 3 || cfg.Reduction.MaxEdges != 5000 {
		t.Errorf("reduction = %+v", cfg.Reduction)
	}
	if time.Duration(cfg.Highlight.Delay) != time.Second {
		t.Errorf("delay = %v", time.Duration(cfg.Highlight.Delay))
	}
	if cfg.Macros.Backend != macro.BackendRedis || cfg.Macros.URL == "" {
		t.Errorf("macros = %+v", cfg.Macros)
	}
	if cfg.Serve.Addr != ":9000" {
		t.Errorf("addr = %q", cfg.Serve.Addr)
	}
	if time.Duration(cfg.Serve.SessionTTL) != 30*time.Minute {
		t.Errorf("session_ttl = %v", time.Duration(cfg.Serve.SessionTTL))
	}
	if cfg.Sessions.Backend != "redis" || cfg.Sessions.URL != "redis://localhost:6379/1" {
		t.Errorf("sessions = %+v", cfg.Sessions)
	}
}

func TestLoadInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[layout\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); !terrors.Is(err, terrors.ErrCodeInvalidInput) {
		t.Errorf("err = %v, want INVALID_INPUT", err)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("TERMMAP_DY", "12.5")
	t.Setenv("TERMMAP_MAX_EDGES", "7")
	t.Setenv("TERMMAP_HIGHLIGHT_DELAY", "10ms")
	t.Setenv("TERMMAP_MACRO_BACKEND", "mongo")
	t.Setenv("TERMMAP_MACRO_URL", "mongodb://localhost:27017")
	t.Setenv("TERMMAP_ADDR", "  ")
	t.Setenv("TERMMAP_SESSION_BACKEND", "file")
	t.Setenv("TERMMAP_SESSION_TTL", "5m")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Layout.DistanceY != 12.5 || cfg.Reduction.MaxEdges != 7 {
		t.Errorf("overrides not applied: %+v %+v", cfg.Layout, cfg.Reduction)
	}
	if time.Duration(cfg.Highlight.Delay) != 10*time.Millisecond {
		t.Errorf("delay = %v", time.Duration(cfg.Highlight.Delay))
	}
	if cfg.Macros.Backend != macro.BackendMongo {
		t.Errorf("backend = %q", cfg.Macros.Backend)
	}
	if cfg.Serve.Addr != DefaultAddr {
		t.Errorf("blank TERMMAP_ADDR should keep default, got %q", cfg.Serve.Addr)
	}
	if cfg.Sessions.Backend != "file" || time.Duration(cfg.Serve.SessionTTL) != 5*time.Minute {
		t.Errorf("sessions = %+v, ttl = %v", cfg.Sessions, time.Duration(cfg.Serve.SessionTTL))
	}
}

func TestEnvInvalid(t *testing.T) {
	tests := []struct{ key, value string }{
		{"TERMMAP_DX", "wide"},
		{"TERMMAP_MAX_VERTICES", "1.5"},
		{"TERMMAP_HIGHLIGHT_DELAY", "soon"},
		{"TERMMAP_MAX_LEVEL", "-1"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
			if !terrors.Is(err, terrors.ErrCodeInvalidInput) {
				t.Errorf("err = %v, want INVALID_INPUT", err)
			}
		})
	}
}

func TestWriteRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	cfg := Default()
	cfg.Reduction.MaxLevel = 4
	cfg.Highlight.Delay = Duration(time.Second / 2)

	if err := Write(path, cfg); err != nil {
		t.Fatalf("Write() error: %v", err)
	}
	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), `delay = "500ms"`) {
		t.Errorf("written config:\n%s", data)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.Reduction.MaxLevel != 4 || got.Highlight.Delay != cfg.Highlight.Delay {
		t.Errorf("round trip = %+v", got)
	}
}
