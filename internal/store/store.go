// internal/store/store.go
package store

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/shannenjosh/verifyeye/internal/models"
	"github.com/shannenjosh/verifyeye/internal/store/jsondb"
	"github.com/shannenjosh/verifyeye/internal/store/sqlitedb"
)

// Store is the append-only log of analysis records. Append failures are
// the caller's problem to isolate: the orchestration layer treats every
// write as fire-and-forget.
type Store interface {
	Append(ctx context.Context, record models.AnalysisRecord) error
	Recent(ctx context.Context, limit int) ([]models.AnalysisRecord, error)
	Close() error
}

// New selects a store backend by name. "sqlite" keeps records in a
// single database file, "jsondb" in per-day JSON-lines files.
func New(backend, dataDir string) (Store, error) {
	switch backend {
	case "sqlite", "":
		return sqlitedb.Open(filepath.Join(dataDir, "results.db"))
	case "jsondb":
		return jsondb.Open(filepath.Join(dataDir, "results"))
	default:
		return nil, fmt.Errorf("unknown store backend: %s", backend)
	}
}
