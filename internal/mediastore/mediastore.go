// Package mediastore persists uploaded image blobs and hands back the
// stored path a post records.
//
// The store is a directory on local disk, served by the /media/ file
// route. Uploads are renamed to a uuid (keeping only the original
// extension), so a hostile or colliding client filename never touches the
// filesystem.
package mediastore

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/sakif/microblog/internal/apperror"
)

// allowed upload extensions, lower-cased.
var allowedExt = map[string]bool{
	".gif":  true,
	".jpeg": true,
	".jpg":  true,
	".png":  true,
	".webp": true,
}

// Store writes uploaded blobs under a root directory.
type Store struct {
	root string
}

// New creates a Store rooted at dir, creating it if needed.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("mediastore: creating media dir %s: %w", dir, err)
	}
	return &Store{root: dir}, nil
}

// Save writes the blob to disk and returns the stored path relative to
// the media root (e.g. "posts/1b4e28ba.png") — the string a post's
// image_path column records and templates prefix with /media/.
func (s *Store) Save(filename string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExt[ext] {
		return "", apperror.ValidationFailed("image",
			fmt.Sprintf("unsupported image type %q", ext))
	}

	if err := os.MkdirAll(filepath.Join(s.root, "posts"), 0o755); err != nil {
		return "", fmt.Errorf("mediastore: creating posts dir: %w", err)
	}

	relPath := filepath.Join("posts", uuid.NewString()+ext)
	f, err := os.Create(filepath.Join(s.root, relPath))
	if err != nil {
		return "", fmt.Errorf("mediastore: creating %s: %w", relPath, err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("mediastore: writing %s: %w", relPath, err)
	}

	// The stored path uses forward slashes regardless of OS — it becomes
	// a URL segment.
	return filepath.ToSlash(relPath), nil
}

// Root returns the media root directory, for wiring the /media/ file server.
func (s *Store) Root() string {
	return s.root
}
