package pages

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadSingleImage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "log.png")
	if err := os.WriteFile(path, []byte("fake png bytes"), 0o644); err != nil {
		t.Fatal(err)
	}

	images, err := Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(images) != 1 {
		t.Fatalf("got %d images, want 1", len(images))
	}
	if images[0].Page != 1 {
		t.Errorf("Page = %d, want 1", images[0].Page)
	}
	if string(images[0].PNG) != "fake png bytes" {
		t.Error("image bytes should pass through untouched")
	}
}

func TestLoadDirectoryOrdersByName(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.png", "a.jpg", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(name), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	images, err := Load(context.Background(), dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(images) != 2 {
		t.Fatalf("got %d images, want 2 (txt skipped)", len(images))
	}
	if string(images[0].PNG) != "a.jpg" || string(images[1].PNG) != "b.png" {
		t.Errorf("wrong order: %q, %q", images[0].PNG, images[1].PNG)
	}
	if images[0].Page != 1 || images[1].Page != 2 {
		t.Errorf("pages = %d, %d", images[0].Page, images[1].Page)
	}
}

func TestLoadEmptyDirectory(t *testing.T) {
	if _, err := Load(context.Background(), t.TempDir()); err == nil {
		t.Error("directory with no images should fail")
	}
}

func TestLoadUnsupportedFormat(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "log.docx")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(context.Background(), path); err == nil {
		t.Error("unsupported extension should fail")
	}
}

func TestLoadMissingPath(t *testing.T) {
	if _, err := Load(context.Background(), filepath.Join(t.TempDir(), "nope.pdf")); err == nil {
		t.Error("missing input should fail")
	}
}
