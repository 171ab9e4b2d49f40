package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/nhle/packlist/internal/apperrors"
	"github.com/nhle/packlist/internal/model"
)

// Document names one of the independently persisted state documents.
type Document string

const (
	DocSessions   Document = "sessions"
	DocConditions Document = "conditions"
	DocRules      Document = "rules"
	DocIdentity   Document = "identity"
	DocStatistics Document = "statistics"
	DocOnboarding Document = "onboarding"
)

// Documents lists every persisted document.
var Documents = []Document{
	DocSessions,
	DocConditions,
	DocRules,
	DocIdentity,
	DocStatistics,
	DocOnboarding,
}

// Store persists JSON documents. Put atomically replaces a whole document;
// Get returns an error wrapping apperrors.ErrNotFound for a document that was
// never written.
type Store interface {
	Put(ctx context.Context, doc Document, payload []byte) error
	Get(ctx context.Context, doc Document) ([]byte, error)
	Close() error
}

// Open returns the store selected by cfg.
func Open(cfg model.StorageConfig) (Store, error) {
	switch cfg.Backend {
	case model.BackendSQLite:
		return NewSQLiteStore(sqlitePath(cfg.Dir))
	case model.BackendJSON, "":
		return NewFileStore(cfg.Dir)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

// SaveJSON marshals v and writes it as doc.
func SaveJSON(ctx context.Context, s Store, doc Document, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", doc, err)
	}
	return s.Put(ctx, doc, payload)
}

// LoadJSON reads doc into v. It reports false without error when the
// document does not exist yet.
func LoadJSON(ctx context.Context, s Store, doc Document, v any) (bool, error) {
	payload, err := s.Get(ctx, doc)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(payload, v); err != nil {
		return false, fmt.Errorf("unmarshaling %s: %w", doc, err)
	}
	return true, nil
}
