package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/sankey/pkg/buildinfo"
	"github.com/matzehuels/sankey/pkg/cache"
	"github.com/matzehuels/sankey/pkg/observability"
)

func TestCacheDir(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home directory: %v", err)
	}

	tests := []struct {
		name string
		xdg  string
		want string
	}{
		{"default", "", filepath.Join(home, ".cache", "sankey")},
		{"xdg", "/tmp/custom-cache", filepath.Join("/tmp/custom-cache", "sankey")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("XDG_CACHE_HOME", tt.xdg)
			dir, err := cacheDir()
			if err != nil {
				t.Fatalf("cacheDir() error: %v", err)
			}
			if dir != tt.want {
				t.Errorf("cacheDir() = %q, want %q", dir, tt.want)
			}
		})
	}
}

func TestNewCache(t *testing.T) {
	t.Setenv(envRedisURL, "")
	c := New(io.Discard, LogInfo)
	t.Cleanup(observability.Reset)

	t.Run("no cache", func(t *testing.T) {
		store, err := c.newCache(context.Background(), true)
		if err != nil {
			t.Fatalf("newCache() error: %v", err)
		}
		if _, ok := store.(*cache.NullCache); !ok {
			t.Errorf("newCache(noCache) = %T, want *cache.NullCache", store)
		}
	})

	t.Run("file cache under xdg", func(t *testing.T) {
		xdg := t.TempDir()
		t.Setenv("XDG_CACHE_HOME", xdg)
		store, err := c.newCache(context.Background(), false)
		if err != nil {
			t.Fatalf("newCache() error: %v", err)
		}
		defer store.Close()
		fc, ok := store.(*cache.FileCache)
		if !ok {
			t.Fatalf("newCache() = %T, want *cache.FileCache", store)
		}
		if want := filepath.Join(xdg, appName); fc.Dir() != want {
			t.Errorf("Dir() = %q, want %q", fc.Dir(), want)
		}
	})

	t.Run("bad redis url", func(t *testing.T) {
		t.Setenv(envRedisURL, "not-a-url")
		if _, err := c.newCache(context.Background(), false); err == nil {
			t.Error("newCache() with an invalid redis url should fail")
		}
	})
}

func TestRunnerKeysScopedToVersion(t *testing.T) {
	c := New(io.Discard, LogInfo)
	t.Cleanup(observability.Reset)
	r, err := c.newRunner(context.Background(), true)
	if err != nil {
		t.Fatalf("newRunner() error: %v", err)
	}
	defer r.Close()

	key := r.Keyer.ArtifactKey("abc", cache.ArtifactKeyOpts{Format: "png"})
	if !strings.HasPrefix(key, buildinfo.Version+":") {
		t.Errorf("ArtifactKey() = %q, want prefix %q", key, buildinfo.Version+":")
	}
	unscoped := cache.NewDefaultKeyer().ArtifactKey("abc", cache.ArtifactKeyOpts{Format: "png"})
	if key != buildinfo.Version+":"+unscoped {
		t.Errorf("ArtifactKey() = %q, want %q", key, buildinfo.Version+":"+unscoped)
	}
}
