package cli

import (
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/geosect/geosect/pkg/cache"
	"github.com/geosect/geosect/pkg/config"
)

// newTestCLI builds a CLI that ignores any config file on the host.
func newTestCLI(t *testing.T) *CLI {
	t.Helper()
	t.Setenv(config.EnvConfigPath, filepath.Join(t.TempDir(), "absent.toml"))
	return New(io.Discard, LogInfo)
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := newTestCLI(t).RootCommand()

	want := []string{"extract", "reconcile", "layout", "render", "visualize", "cache", "serve", "runs", "completion"}
	for _, name := range want {
		found := false
		for _, cmd := range root.Commands() {
			if cmd.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("root command missing subcommand %q", name)
		}
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", []string{"svg"}},
		{"png", []string{"png"}},
		{"svg,png,json", []string{"svg", "png", "json"}},
	}
	for _, tt := range tests {
		if got := parseFormats(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("parseFormats(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		output, input, want string
	}{
		{"", "report.pdf", "report"},
		{"", "pages", "pages"},
		{"site_a.svg", "report.pdf", "site_a"},
		{"site_a", "report.pdf", "site_a"},
		{"out.tar", "report.pdf", "out.tar"},
	}
	for _, tt := range tests {
		if got := basePath(tt.output, tt.input); got != tt.want {
			t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
		}
	}
}

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")
	os.Unsetenv("XDG_CACHE_HOME")

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	home, _ := os.UserHomeDir()
	if !strings.HasPrefix(dir, home) {
		t.Errorf("cacheDir() = %q, should be under home %q", dir, home)
	}
	if !strings.HasSuffix(dir, appName) {
		t.Errorf("cacheDir() = %q, should end with %q", dir, appName)
	}
}

func TestCacheDirXDG(t *testing.T) {
	custom := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", custom)

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if dir != filepath.Join(custom, appName) {
		t.Errorf("cacheDir() = %q, want %q", dir, filepath.Join(custom, appName))
	}
}

func TestNewCacheBackends(t *testing.T) {
	c := newTestCLI(t)
	c.Config.Cache.Dir = t.TempDir()

	got, err := c.newCache(true)
	if err != nil {
		t.Fatalf("newCache(true) error: %v", err)
	}
	if _, ok := got.(*cache.NullCache); !ok {
		t.Errorf("noCache should yield a NullCache, got %T", got)
	}

	c.Config.Cache.Backend = "none"
	got, err = c.newCache(false)
	if err != nil {
		t.Fatalf("newCache backend none error: %v", err)
	}
	if _, ok := got.(*cache.NullCache); !ok {
		t.Errorf("backend none should yield a NullCache, got %T", got)
	}

	c.Config.Cache.Backend = "file"
	got, err = c.newCache(false)
	if err != nil {
		t.Fatalf("newCache backend file error: %v", err)
	}
	if _, ok := got.(*cache.FileCache); !ok {
		t.Errorf("backend file should yield a FileCache, got %T", got)
	}

	c.Config.Cache.Backend = "redis"
	if _, err := c.newCache(false); err == nil {
		t.Error("redis backend should be rejected for CLI runs")
	}
}

func TestNewExtractorMissingKey(t *testing.T) {
	c := newTestCLI(t)
	c.Config.Oracle.APIKeyEnv = "GEOSECT_TEST_ABSENT_KEY"
	os.Unsetenv("GEOSECT_TEST_ABSENT_KEY")

	if _, err := c.newExtractor(""); err == nil {
		t.Error("newExtractor should fail without an API key")
	}
}
