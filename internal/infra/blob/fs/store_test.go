package fs

import (
	"affordhostel/internal/blob/core"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRejectsUnsafeKeys(t *testing.T) {
	s, err := New(t.TempDir(), "")
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	ctx := context.Background()
	for _, key := range []string{"", "  ", "/etc/passwd", "../escape", "a/../../b", "a.meta"} {
		if _, err := s.Put(ctx, key, strings.NewReader("x"), core.PutOptions{}); !errors.Is(err, core.ErrInvalidKey) {
			t.Fatalf("key %q: expected ErrInvalidKey, got %v", key, err)
		}
	}
	if _, err := s.URL(ctx, "../x"); !errors.Is(err, core.ErrInvalidKey) {
		t.Fatalf("expected invalid key on URL")
	}
}

func TestPutWritesSidecarAndURL(t *testing.T) {
	root := t.TempDir()
	s, _ := New(root, "https://cdn.example/media/")
	obj, err := s.Put(context.Background(), "avatars/1/a.png", strings.NewReader("data"), core.PutOptions{ContentType: "image/png"})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if obj.URL != "https://cdn.example/media/avatars/1/a.png" {
		t.Fatalf("unexpected url %s", obj.URL)
	}
	if len(obj.ETag) != 64 {
		t.Fatalf("expected sha256 etag, got %q", obj.ETag)
	}
	if _, err := os.Stat(filepath.Join(root, "avatars", "1", "a.png.meta")); err != nil {
		t.Fatalf("sidecar missing: %v", err)
	}
	if s.Root() != root || s.Driver() != core.DriverFilesystem {
		t.Fatalf("unexpected root or driver")
	}
}

func TestCorruptSidecarSurfaces(t *testing.T) {
	root := t.TempDir()
	s, _ := New(root, "")
	ctx := context.Background()
	if _, err := s.Put(ctx, "k.png", strings.NewReader("x"), core.PutOptions{}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, "k.png.meta"), []byte("{"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := s.Stat(ctx, "k.png"); err == nil || errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected decode error, got %v", err)
	}
	if _, _, err := s.Get(ctx, "k.png"); err == nil {
		t.Fatalf("expected decode error on get")
	}
	if _, err := s.List(ctx, ""); err == nil {
		t.Fatalf("expected decode error on list")
	}
}
