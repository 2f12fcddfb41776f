package cache

import (
	"context"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}
	_, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("NullCache should never store data")
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestFileCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()

	if err := c.Set(ctx, "frag:abc", []byte("payload"), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}

	data, hit, err := c.Get(ctx, "frag:abc")
	if err != nil || !hit {
		t.Fatalf("Get: hit=%v err=%v", hit, err)
	}
	if string(data) != "payload" {
		t.Errorf("data = %q", data)
	}

	// Unknown key is a miss, not an error.
	_, hit, err = c.Get(ctx, "frag:missing")
	if err != nil {
		t.Fatalf("Get missing: %v", err)
	}
	if hit {
		t.Error("missing key should miss")
	}

	if err := c.Delete(ctx, "frag:abc"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	_, hit, _ = c.Get(ctx, "frag:abc")
	if hit {
		t.Error("deleted key should miss")
	}
	// Deleting again is fine.
	if err := c.Delete(ctx, "frag:abc"); err != nil {
		t.Errorf("double Delete: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()

	// Entry already expired: TTL of -1s puts Expires in the past.
	if err := c.Set(ctx, "old", []byte("stale"), -time.Second); err != nil {
		t.Fatalf("Set: %v", err)
	}
	_, hit, err := c.Get(ctx, "old")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if hit {
		t.Error("expired entry should miss")
	}

	// Zero TTL never expires.
	if err := c.Set(ctx, "forever", []byte("keep"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	_, hit, _ = c.Get(ctx, "forever")
	if !hit {
		t.Error("zero-TTL entry should persist")
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("bh-log-page-1"))
	h2 := Hash([]byte("bh-log-page-1"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}
	if h1 == Hash([]byte("bh-log-page-2")) {
		t.Error("different inputs should hash differently")
	}
	if len(h1) != 64 {
		t.Errorf("hash length = %d, want 64", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	a := k.FragmentKey("pagehash", FragmentKeyOpts{Provider: "openai", Model: "gpt-4o"})
	b := k.FragmentKey("pagehash", FragmentKeyOpts{Provider: "openai", Model: "gpt-4o-mini"})
	if a == b {
		t.Error("different models must partition the fragment cache")
	}
	if a != k.FragmentKey("pagehash", FragmentKeyOpts{Provider: "openai", Model: "gpt-4o"}) {
		t.Error("keys should be deterministic")
	}

	if k.SectionKey("h1") == k.SectionKey("h2") {
		t.Error("different borehole sets must key differently")
	}
	if k.ArtifactKey("h", ArtifactKeyOpts{Format: "svg"}) == k.ArtifactKey("h", ArtifactKeyOpts{Format: "png"}) {
		t.Error("formats must partition the artifact cache")
	}
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	scoped := NewScopedKeyer(inner, "tenant:42:")

	key := scoped.SectionKey("hash")
	if key == inner.SectionKey("hash") {
		t.Error("scoped key should differ from unscoped")
	}
	if key[:10] != "tenant:42:" {
		t.Errorf("scoped key missing prefix: %q", key)
	}
}
