package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/cubicleview/pkg/cache"
	"github.com/matzehuels/cubicleview/pkg/config"
)

func TestNewCacheBackends(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		backend string
		noCache bool
		wantDir bool
	}{
		{"file", config.CacheFile, false, true},
		{"none", config.CacheNone, false, false},
		{"no-cache flag", config.CacheFile, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(os.Stderr, LogInfo)
			c.Config.Cache.Backend = tt.backend
			c.Config.Cache.Dir = filepath.Join(dir, tt.name)

			got, err := c.newCache(context.Background(), tt.noCache)
			if err != nil {
				t.Fatal(err)
			}
			fc, isFile := got.(*cache.FileCache)
			if isFile != tt.wantDir {
				t.Fatalf("newCache() = %T", got)
			}
			if isFile && fc.Dir() != c.Config.Cache.Dir {
				t.Errorf("Dir() = %q, want %q", fc.Dir(), c.Config.Cache.Dir)
			}
		})
	}
}

func TestCacheClear(t *testing.T) {
	dir := t.TempDir()
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	for _, key := range []string{"a", "b"} {
		if err := fc.Set(ctx, key, []byte("layout"), 0); err != nil {
			t.Fatal(err)
		}
	}

	c := New(os.Stderr, LogInfo)
	root := c.RootCommand()
	root.SetArgs([]string{"--config", writeConfig(t, "[cache]\ndir = \""+filepath.ToSlash(dir)+"\"\n"), "cache", "clear"})
	if err := root.ExecuteContext(ctx); err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	if _, hit, _ := fc.Get(ctx, "a"); hit {
		t.Error("entry survived cache clear")
	}
}

// writeConfig writes a config file and returns its path.
func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}
