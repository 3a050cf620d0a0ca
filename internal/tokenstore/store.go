// Package tokenstore persists the single auth token across runs.
package tokenstore

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/naveenspark/bartr/internal/config"
)

// Key is the fixed name the token is stored under.
const Key = "bartr_token"

// ErrUnknownBackend is returned by Open for an unsupported backend name.
var ErrUnknownBackend = errors.New("tokenstore: unknown backend")

// Store holds at most one token. Load returns "" with a nil error when
// nothing is stored. Clear on an empty store is not an error.
type Store interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, token string) error
	Clear(ctx context.Context) error
	Close() error
}

// Open returns the backend selected by cfg.TokenStore, rooted at cfg.DataDir.
func Open(cfg *config.Config) (Store, error) {
	switch cfg.TokenStore {
	case config.StoreFile:
		return NewFileStore(filepath.Join(cfg.DataDir, "token")), nil
	case config.StoreSQLite:
		return OpenSQLite(filepath.Join(cfg.DataDir, "bartr.db"))
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.TokenStore)
	}
}
