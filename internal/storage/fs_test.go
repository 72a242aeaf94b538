package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func tempVault(t *testing.T) *FS {
	t.Helper()
	dir := t.TempDir()
	fs, err := NewFS(dir)
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	return fs
}

// put writes a vault file the way an external editor would.
func put(t *testing.T, s *FS, rel string, content []byte) {
	t.Helper()
	abs := filepath.Join(s.root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := WriteFileAtomic(abs, content); err != nil {
		t.Fatalf("WriteFileAtomic: %v", err)
	}
}

func TestRead(t *testing.T) {
	s := tempVault(t)
	content := []byte("# Hello\nWorld\n")
	put(t, s, "note.md", content)
	got, err := s.Read("note.md")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(got) != string(content) {
		t.Errorf("content mismatch: got %q", got)
	}
}

func TestReadNested(t *testing.T) {
	s := tempVault(t)
	put(t, s, "a/b/c.md", []byte("deep"))
	got, err := s.Read("a/b/c.md")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(got) != "deep" {
		t.Errorf("content = %q", got)
	}
}

func TestList(t *testing.T) {
	s := tempVault(t)
	put(t, s, "a.md", []byte("a"))
	put(t, s, "sub/b.md", []byte("b"))
	put(t, s, "readme.txt", []byte("not md"))
	put(t, s, ".obsidian/workspace.md", []byte("hidden"))
	put(t, s, ".trash/old.md", []byte("trashed"))

	items, err := s.List("")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("len = %d, want 2: %+v", len(items), items)
	}
	paths := map[string]bool{}
	for _, it := range items {
		paths[it.Path] = true
		if it.Checksum != Checksum([]byte(map[string]string{"a.md": "a", "sub/b.md": "b"}[it.Path])) {
			t.Errorf("checksum mismatch for %s", it.Path)
		}
		if it.ModifiedAt.IsZero() {
			t.Errorf("missing mtime for %s", it.Path)
		}
	}
	if !paths["a.md"] || !paths["sub/b.md"] {
		t.Errorf("paths = %v, want slash-separated a.md and sub/b.md", paths)
	}
}

func TestStat(t *testing.T) {
	s := tempVault(t)
	put(t, s, "dir/n.md", []byte("n"))
	info, err := s.Stat("dir/n.md")
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if info.Path != "dir/n.md" || info.Checksum != Checksum([]byte("n")) {
		t.Errorf("info = %+v", info)
	}
	if _, err := s.Stat("missing.md"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestTraversalBlocked(t *testing.T) {
	s := tempVault(t)

	cases := []string{
		"../../etc/passwd",
		"../outside.md",
		"/etc/shadow",
	}
	for _, p := range cases {
		if _, err := s.Read(p); err == nil {
			t.Errorf("expected error for path %q", p)
		}
		if _, err := s.Stat(p); err == nil {
			t.Errorf("expected error for stat of %q", p)
		}
	}
}

func TestAtomicWriteNoLeftovers(t *testing.T) {
	s := tempVault(t)
	put(t, s, "atomic.md", []byte("original content"))

	updated := []byte("updated content")
	if err := WriteFileAtomic(filepath.Join(s.root, "atomic.md"), updated); err != nil {
		t.Fatalf("WriteFileAtomic: %v", err)
	}
	got, _ := s.Read("atomic.md")
	if string(got) != string(updated) {
		t.Errorf("expected updated content, got %q", got)
	}

	matches, _ := filepath.Glob(filepath.Join(s.root, ".filenav-tmp-*"))
	if len(matches) != 0 {
		t.Errorf("leftover temp files: %v", matches)
	}
}

func TestIsMarkdown(t *testing.T) {
	for name, want := range map[string]bool{"a.md": true, "B.MD": true, "c.txt": false, "md": false} {
		if got := IsMarkdown(name); got != want {
			t.Errorf("IsMarkdown(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestNewFS_NonExistentDir(t *testing.T) {
	_, err := NewFS("/tmp/filenav-does-not-exist-" + t.Name())
	if err == nil {
		t.Error("expected error for non-existent dir")
	}
}

func TestNewFS_FileNotDir(t *testing.T) {
	f, _ := os.CreateTemp("", "filenav-test-*")
	_ = f.Close()
	defer os.Remove(f.Name())
	_, err := NewFS(f.Name())
	if err == nil {
		t.Error("expected error when root is a file")
	}
}
