// Package testutil provides shared test helpers for setting up vaults,
// indexes and settings stores.
package testutil

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/starford/filenav/internal/index"
	"github.com/starford/filenav/internal/settings"
	"github.com/starford/filenav/internal/storage"
)

// TestDB creates a temporary SQLite database that is automatically cleaned up.
func TestDB(t *testing.T) *index.DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "filenav-test-*.db")
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
	store, err := storage.NewFS(vaultDir)
	if err != nil {
		t.Fatal(err)
	}
	return vaultDir, store
}

// TestSettings opens a settings store backed by a temporary file.
func TestSettings(t *testing.T) *settings.Store {
	t.Helper()
	s, err := settings.Open(context.Background(), filepath.Join(t.TempDir(), "data.json"))
	if err != nil {
		t.Fatal(err)
	}
	return s
}

// WriteNote writes a Markdown file into the vault, creating parent directories.
func WriteNote(t *testing.T, vaultDir, rel, content string) {
	t.Helper()
	abs := filepath.Join(vaultDir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(abs, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

// IndexedVault writes the given notes into a fresh vault and indexes them.
// Each note's mtime is one minute after the previous one, so list order is
// also created/modified order.
func IndexedVault(t *testing.T, notes ...Note) (*index.DB, string) {
	t.Helper()
	vaultDir, store := TestVault(t)
	db := TestDB(t)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, n := range notes {
		WriteNote(t, vaultDir, n.Path, n.Content)
		mtime := base.Add(time.Duration(i) * time.Minute)
		abs := filepath.Join(vaultDir, filepath.FromSlash(n.Path))
		if err := os.Chtimes(abs, mtime, mtime); err != nil {
			t.Fatal(err)
		}
	}
	if err := index.Sync(db, store, QuietLogger()); err != nil {
		t.Fatalf("Sync: %v", err)
	}
	return db, vaultDir
}

// Note is a vault file used by IndexedVault.
type Note struct {
	Path    string
	Content string
}

// QuietLogger returns a logger that discards everything.
func QuietLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}
