package index

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/starford/filenav/internal/storage"
)

type watchEnv struct {
	dir   string
	store storage.Provider
	db    *DB

	mu     sync.Mutex
	events []string
}

// startWatch indexes whatever the vault holds, then runs the watcher until
// the test ends.
func startWatch(t *testing.T, seed map[string]string) *watchEnv {
	t.Helper()
	dir := t.TempDir()
	for rel, content := range seed {
		writeVault(t, dir, rel, content)
	}
	store, err := storage.NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	e := &watchEnv{dir: dir, store: store, db: testDB(t)}
	if err := Sync(e.db, store, errorLogger()); err != nil {
		t.Fatalf("Sync: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = Watch(ctx, e.db, store, dir, errorLogger(), func(kind, path string) {
			e.mu.Lock()
			e.events = append(e.events, kind+":"+path)
			e.mu.Unlock()
		})
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	time.Sleep(100 * time.Millisecond)
	return e
}

func (e *watchEnv) sawEvent(want string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Contains(e.events, want)
}

func writeVault(t *testing.T, dir, rel, content string) {
	t.Helper()
	p := filepath.Join(dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

// eventually polls fn every tick until it returns true or timeout elapses.
func eventually(t *testing.T, timeout, tick time.Duration, fn func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if fn() {
			return
		}
		time.Sleep(tick)
	}
	t.Error(msg)
}

func errorLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestWatcher_NewFileIndexed(t *testing.T) {
	e := startWatch(t, nil)

	writeVault(t, e.dir, "Journal/today.md", "---\ntags: [daily]\n---\n# Today\n#mood\n")

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		d, ok := findDoc(t, e.db, "Journal/today.md")
		if !ok || d.Folder != "Journal" || !slices.Contains(d.Tags, "mood") {
			return false
		}
		fmTags, _ := d.Frontmatter["tags"].([]any)
		return slices.Contains(fmTags, any("daily"))
	}, "new file not indexed with its inline tags, frontmatter tags and folder")

	eventually(t, 2*time.Second, 50*time.Millisecond, func() bool {
		return e.sawEvent(EventCreated + ":Journal/today.md")
	}, "expected created callback")
}

func TestWatcher_NewDirWatched(t *testing.T) {
	e := startWatch(t, nil)

	if err := os.MkdirAll(filepath.Join(e.dir, "Projects", "alpha"), 0o755); err != nil {
		t.Fatal(err)
	}
	time.Sleep(100 * time.Millisecond)
	writeVault(t, e.dir, "Projects/alpha/plan.md", "# Plan")

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		_, ok := findDoc(t, e.db, "Projects/alpha/plan.md")
		return ok
	}, "file in new subdir not indexed by watcher")
}

func TestWatcher_FrontmatterEditKeepsCreated(t *testing.T) {
	e := startWatch(t, map[string]string{"task.md": "---\npriority: 1\n---\n"})

	before, ok := findDoc(t, e.db, "task.md")
	if !ok {
		t.Fatal("precondition: file should be indexed")
	}

	writeVault(t, e.dir, "task.md", "---\npriority: 5\n---\n")

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		d, _ := findDoc(t, e.db, "task.md")
		return d.Frontmatter["priority"] == float64(5)
	}, "frontmatter change not picked up")

	after, _ := findDoc(t, e.db, "task.md")
	if !after.CreatedAt.Equal(before.CreatedAt) {
		t.Errorf("created moved from %v to %v", before.CreatedAt, after.CreatedAt)
	}
	eventually(t, 2*time.Second, 50*time.Millisecond, func() bool {
		return e.sawEvent(EventUpdated + ":task.md")
	}, "expected updated callback")
}

func TestWatcher_DeleteRemovesFromIndex(t *testing.T) {
	e := startWatch(t, map[string]string{"del.md": "# Delete Me"})

	if checksumOf(t, e.db, "del.md") == "" {
		t.Fatal("precondition: file should be indexed")
	}
	_ = os.Remove(filepath.Join(e.dir, "del.md"))

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		return checksumOf(t, e.db, "del.md") == ""
	}, "deleted file still in index")
}

func TestWatcher_RenameReconciles(t *testing.T) {
	e := startWatch(t, map[string]string{"old.md": "# Rename"})

	_ = os.Rename(filepath.Join(e.dir, "old.md"), filepath.Join(e.dir, "renamed.md"))

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		return checksumOf(t, e.db, "old.md") == "" && checksumOf(t, e.db, "renamed.md") != ""
	}, "rename reconciliation failed: old path should be removed and new path indexed")
}

func TestWatcher_IgnoresHiddenAndNonMarkdown(t *testing.T) {
	e := startWatch(t, nil)

	writeVault(t, e.dir, ".obsidian/workspace.md", "hidden")
	writeVault(t, e.dir, "image.png", "png")
	writeVault(t, e.dir, "visible.md", "# Visible")

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		_, ok := findDoc(t, e.db, "visible.md")
		return ok
	}, "visible note not indexed")

	docs, err := e.db.ListDocuments(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 1 {
		t.Errorf("indexed %d documents, want 1", len(docs))
	}
}
