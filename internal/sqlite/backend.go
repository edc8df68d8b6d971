package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/larder/pkg/types"
)

// Backend implements the Store interface using SQLite as the query engine
// and JSONL files as the source of truth.
//
// generation counts mutations since Attach. LinkViews record the generation
// they last reconciled at; SyncIfNeeded is a no-op while the two match.
type Backend struct {
	mu         sync.RWMutex
	attached   bool
	config     types.Config
	db         *sql.DB
	dataDir    string
	generation int64
}

var _ types.Store = (*Backend)(nil)

// NewBackend creates a new SQLite backend instance.
// The backend is not attached; call Attach with a Config to initialize.
func NewBackend() *Backend {
	return &Backend{}
}

// Attach initializes the backend with the given configuration.
// Creates DataDir if it does not exist, initializes the SQLite schema, and
// loads JSONL files into SQLite.
// Returns ErrAlreadyAttached if already attached.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}

	if err := config.Validate(); err != nil {
		return err
	}

	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return err
	}

	// The database is rebuilt from JSONL on every attach.
	dbPath := filepath.Join(dataDir, "larder.db")
	_ = os.Remove(dbPath)

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return err
	}

	for _, stmt := range schemaStatements {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return fmt.Errorf("initializing schema: %w", err)
		}
	}

	b.db = db
	b.config = config
	b.dataDir = dataDir
	b.generation = 0

	if err := b.initJSONLFiles(); err != nil {
		db.Close()
		return err
	}
	if err := b.loadAllJSONL(); err != nil {
		db.Close()
		return fmt.Errorf("load JSONL: %w", err)
	}

	b.attached = true
	return nil
}

// Detach releases all resources held by the backend and closes the SQLite
// connection. After Detach, store operations return ErrStoreDetached and
// every LinkView issued by this backend reports detached.
// Detach is idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil // idempotent
	}

	if b.db != nil {
		if err := b.db.Close(); err != nil {
			return err
		}
		b.db = nil
	}

	b.attached = false
	return nil
}

// bumpLocked advances the mutation generation. The caller must hold b.mu
// for writing.
func (b *Backend) bumpLocked() {
	b.generation++
}

// newUUID generates a UUID v7 string.
func newUUID() string {
	return uuid.Must(uuid.NewV7()).String()
}
