package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFileMissingYieldsDefaults(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Oracle.APIKeyEnv != "OPENAI_API_KEY" {
		t.Errorf("APIKeyEnv = %q", cfg.Oracle.APIKeyEnv)
	}
	if cfg.Cache.Backend != "file" {
		t.Errorf("Backend = %q", cfg.Cache.Backend)
	}
}

func TestLoadFileParsesSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[oracle]
model = "gpt-4o-mini"
requests_per_minute = 10

[cache]
backend = "redis"
redis_addr = "localhost:6379"

[store]
mongo_uri = "mongodb://localhost:27017"

[render]
title = "Site Sections"
formats = ["svg", "png"]
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Oracle.Model != "gpt-4o-mini" || cfg.Oracle.RequestsPerMinute != 10 {
		t.Errorf("oracle = %+v", cfg.Oracle)
	}
	// Unset fields keep their defaults.
	if cfg.Oracle.APIKeyEnv != "OPENAI_API_KEY" {
		t.Errorf("APIKeyEnv = %q", cfg.Oracle.APIKeyEnv)
	}
	if cfg.Cache.Backend != "redis" || cfg.Cache.RedisAddr != "localhost:6379" {
		t.Errorf("cache = %+v", cfg.Cache)
	}
	if cfg.Store.MongoURI != "mongodb://localhost:27017" {
		t.Errorf("store = %+v", cfg.Store)
	}
	if len(cfg.Render.Formats) != 2 {
		t.Errorf("render = %+v", cfg.Render)
	}
}

func TestLoadFileMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[oracle\nbroken"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Error("malformed TOML should fail")
	}
}

func TestPathHonorsEnvOverride(t *testing.T) {
	t.Setenv(EnvConfigPath, "/tmp/custom.toml")
	if got := Path(); got != "/tmp/custom.toml" {
		t.Errorf("Path() = %q", got)
	}
}
