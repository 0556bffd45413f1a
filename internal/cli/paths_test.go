package cli

import (
	"path/filepath"
	"testing"
)

func TestArtifactCacheDirs(t *testing.T) {
	home := t.TempDir()
	xdg := t.TempDir()

	tests := []struct {
		name      string
		cacheHome string
		cache     string
		artifacts string
	}{
		{"home fallback", "", filepath.Join(home, ".cache", "termmap"), filepath.Join(home, ".cache", "termmap", "artifacts")},
		{"xdg cache home", xdg, filepath.Join(xdg, "termmap"), filepath.Join(xdg, "termmap", "artifacts")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("HOME", home)
			t.Setenv("XDG_CACHE_HOME", tt.cacheHome)

			dir, err := cacheDir()
			if err != nil {
				t.Fatalf("cacheDir: %v", err)
			}
			if dir != tt.cache {
				t.Errorf("cacheDir() = %q, want %q", dir, tt.cache)
			}
			artifacts, err := artifactCacheDir()
			if err != nil {
				t.Fatalf("artifactCacheDir: %v", err)
			}
			if artifacts != tt.artifacts {
				t.Errorf("artifactCacheDir() = %q, want %q", artifacts, tt.artifacts)
			}
		})
	}
}

func TestResolvedConfigPath(t *testing.T) {
	home := t.TempDir()
	xdg := t.TempDir()

	tests := []struct {
		name       string
		flag       string
		env        string
		configHome string
		want       string
	}{
		{"home fallback", "", "", "", filepath.Join(home, ".config", "termmap", "config.toml")},
		{"xdg config home", "", "", xdg, filepath.Join(xdg, "termmap", "config.toml")},
		{"env override", "", "/etc/termmap.toml", xdg, "/etc/termmap.toml"},
		{"flag wins", "./local.toml", "/etc/termmap.toml", xdg, "./local.toml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("HOME", home)
			t.Setenv("XDG_CONFIG_HOME", tt.configHome)
			t.Setenv("TERMMAP_CONFIG", tt.env)

			c := &CLI{configPath: tt.flag}
			got, err := c.resolvedConfigPath()
			if err != nil {
				t.Fatalf("resolvedConfigPath: %v", err)
			}
			if got != tt.want {
				t.Errorf("resolvedConfigPath() = %q, want %q", got, tt.want)
			}
		})
	}
}
