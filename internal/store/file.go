package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nhle/packlist/internal/apperrors"
)

// FileStore keeps each document in its own JSON file under dir.
type FileStore struct {
	dir string
}

// NewFileStore creates dir if needed and returns a store rooted there.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory %s: %w", dir, err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(doc Document) string {
	return filepath.Join(s.dir, string(doc)+".json")
}

// Put writes payload to a temporary file and renames it over the document,
// so readers see either the old or the new body.
func (s *FileStore) Put(_ context.Context, doc Document, payload []byte) error {
	tmp, err := os.CreateTemp(s.dir, string(doc)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file for %s: %w", doc, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", doc, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("syncing %s: %w", doc, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", doc, err)
	}
	if err := os.Rename(tmp.Name(), s.path(doc)); err != nil {
		return fmt.Errorf("replacing %s: %w", doc, err)
	}
	return nil
}

// Get reads the document file.
func (s *FileStore) Get(_ context.Context, doc Document) ([]byte, error) {
	payload, err := os.ReadFile(s.path(doc))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("document %s: %w", doc, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("reading %s: %w", doc, err)
	}
	return payload, nil
}

func (s *FileStore) Close() error {
	return nil
}
