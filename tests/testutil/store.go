package testutil

import (
	"path/filepath"
	"testing"

	"github.com/nhle/taskboard/internal/store"
)

// NewTestStore opens a migrated SQLite database file in the test's temp dir,
// so it runs with WAL and a full connection pool like the dev backend does.
func NewTestStore(t *testing.T) *store.SQLiteStore {
	t.Helper()

	path := filepath.Join(t.TempDir(), "taskboard.db")
	s, err := store.NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("opening test store %s: %v", path, err)
	}
	t.Cleanup(func() { _ = s.Close() })

	return s
}
