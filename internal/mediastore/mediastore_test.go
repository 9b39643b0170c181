package mediastore

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sakif/microblog/internal/apperror"
)

func TestSave(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	relPath, err := store.Save("cat.png", strings.NewReader("not really a png"))
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	if !strings.HasPrefix(relPath, "posts/") {
		t.Errorf("relPath = %q, want posts/ prefix", relPath)
	}
	if !strings.HasSuffix(relPath, ".png") {
		t.Errorf("relPath = %q, want .png suffix", relPath)
	}
	// The client's filename must not survive into the stored path.
	if strings.Contains(relPath, "cat") {
		t.Errorf("relPath = %q leaks the original filename", relPath)
	}

	data, err := os.ReadFile(filepath.Join(store.Root(), relPath))
	if err != nil {
		t.Fatalf("reading stored file: %v", err)
	}
	if string(data) != "not really a png" {
		t.Errorf("stored content = %q, want original blob", data)
	}
}

func TestSave_RejectsUnknownExtension(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	_, err = store.Save("evil.exe", strings.NewReader("nope"))
	if !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("Save() error = %v, want ErrValidation", err)
	}
}

func TestSave_UniqueNames(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	p1, err := store.Save("same.jpg", strings.NewReader("a"))
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	p2, err := store.Save("same.jpg", strings.NewReader("b"))
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if p1 == p2 {
		t.Error("two uploads with the same filename stored at the same path")
	}
}
