// Package testutil provides shared test helpers for setting up vaults,
// databases and repositories.
package testutil

import (
	"os"
	"testing"
	"time"

	"github.com/zettelhub/zettel/internal/index"
	"github.com/zettelhub/zettel/internal/notestore"
	"github.com/zettelhub/zettel/internal/repository"
	"github.com/zettelhub/zettel/internal/storage"
)

// TestDB creates a temporary SQLite database that is automatically cleaned up.
func TestDB(t *testing.T) *index.DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "zettel-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := index.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestVault creates a temporary vault directory with a storage.Provider.
func TestVault(t *testing.T) (string, storage.Provider) {
	t.Helper()
	vaultDir := t.TempDir()
	files, err := storage.NewFS(vaultDir)
	if err != nil {
		t.Fatal(err)
	}
	return vaultDir, files
}

// TestRepo wires a temporary vault and database into a Repository.
func TestRepo(t *testing.T) *repository.Repository {
	t.Helper()
	_, files := TestVault(t)
	return repository.New(notestore.New(files), TestDB(t), nil)
}

// FixedClock returns a clock function that yields t0 plus one second
// per call, so generated ids are deterministic and strictly increasing.
func FixedClock(t0 time.Time) func() time.Time {
	n := 0
	return func() time.Time {
		n++
		return t0.Add(time.Duration(n-1) * time.Second)
	}
}
