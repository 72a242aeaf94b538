package settings

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/filenav/internal/apperr"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "data.json"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return s
}

func ruleIDs(rules []Rule) []string {
	out := make([]string, len(rules))
	for i, r := range rules {
		out[i] = r.ID
	}
	return out
}

func TestOpenMissingFile(t *testing.T) {
	s := openStore(t)
	if got := s.Snapshot(); len(got.Groups) != 0 {
		t.Errorf("groups = %d, want 0", len(got.Groups))
	}
}

func TestOpenMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Open(context.Background(), path); err == nil {
		t.Error("expected error for malformed settings")
	}
}

func TestOpenNormalizesLegacyBlob(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	blob := `{"groups":[{"id":"g1","name":"Journal","rules":[{"id":"r1","filterType":"folder","filterValue":"Journal","sortType":"created","sortDirection":"desc","sortKey":"stale"}]}]}`
	if err := os.WriteFile(path, []byte(blob), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := Open(context.Background(), path)
	if err != nil {
		t.Fatal(err)
	}
	g, err := s.Group("g1")
	if err != nil {
		t.Fatal(err)
	}
	if g.Name != "Journal" || len(g.Rules) != 1 || g.Rules[0].SortKey != nil {
		t.Errorf("unexpected group: %+v", g)
	}
}

func TestStorePersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	g, err := s.AddGroup(ctx, "Projects")
	if err != nil {
		t.Fatal(err)
	}
	r, err := s.AddRule(ctx, g.ID, Rule{FilterType: FilterFolder, FilterValue: "Projects", SortType: SortFilename})
	if err != nil {
		t.Fatal(err)
	}
	if r.ID == "" || r.SortDirection != Asc {
		t.Errorf("rule not normalized: %+v", r)
	}

	reopened, err := Open(ctx, s.Path())
	if err != nil {
		t.Fatal(err)
	}
	got, err := reopened.Group(g.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "Projects" || len(got.Rules) != 1 || got.Rules[0].ID != r.ID {
		t.Errorf("reopened group = %+v", got)
	}
}

func TestRenameAndRemoveGroup(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	g, _ := s.AddGroup(ctx, "old")

	renamed, err := s.RenameGroup(ctx, g.ID, "new")
	if err != nil || renamed.Name != "new" {
		t.Fatalf("RenameGroup = %+v, %v", renamed, err)
	}
	if err := s.RemoveGroup(ctx, g.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Group(g.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("Group after remove: err = %v, want ErrNotFound", err)
	}
	if err := s.RemoveGroup(ctx, g.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("second RemoveGroup: err = %v, want ErrNotFound", err)
	}
}

func TestUpdateAndRemoveRule(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	g, _ := s.AddGroup(ctx, "g")
	r, _ := s.AddRule(ctx, g.ID, Rule{SortType: SortFrontmatter, SortKey: ptr("due")})

	r.SortType = SortModified
	updated, err := s.UpdateRule(ctx, g.ID, r)
	if err != nil {
		t.Fatal(err)
	}
	if updated.SortKey != nil {
		t.Error("UpdateRule should normalize away sortKey")
	}

	if _, err := s.UpdateRule(ctx, g.ID, Rule{ID: "missing"}); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("UpdateRule unknown: err = %v", err)
	}
	if _, err := s.AddRule(ctx, g.ID, Rule{ID: r.ID}); !errors.Is(err, apperr.ErrAlreadyExists) {
		t.Errorf("AddRule duplicate: err = %v", err)
	}
	if err := s.RemoveRule(ctx, g.ID, r.ID); err != nil {
		t.Fatal(err)
	}
	got, _ := s.Group(g.ID)
	if len(got.Rules) != 0 {
		t.Errorf("rules = %d, want 0", len(got.Rules))
	}
}

func TestMoveRule(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	g, _ := s.AddGroup(ctx, "g")
	for _, id := range []string{"a", "b", "c"} {
		if _, err := s.AddRule(ctx, g.ID, Rule{ID: id}); err != nil {
			t.Fatal(err)
		}
	}

	tests := []struct {
		rule   string
		offset int
		want   []string
	}{
		{"c", -1, []string{"a", "c", "b"}},
		{"a", -1, []string{"a", "c", "b"}},
		{"a", 1, []string{"c", "a", "b"}},
		{"b", 1, []string{"c", "a", "b"}},
		{"c", 5, []string{"a", "b", "c"}},
	}
	for _, tt := range tests {
		rules, err := s.MoveRule(ctx, g.ID, tt.rule, tt.offset)
		if err != nil {
			t.Fatalf("MoveRule(%s, %d): %v", tt.rule, tt.offset, err)
		}
		if got := ruleIDs(rules); !equalStrings(got, tt.want) {
			t.Errorf("MoveRule(%s, %d) = %v, want %v", tt.rule, tt.offset, got, tt.want)
		}
	}
}

func TestOnChangeFiresAfterSave(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	var calls []int
	s.OnChange(func(st Settings) { calls = append(calls, len(st.Groups)) })

	g, _ := s.AddGroup(ctx, "one")
	_, _ = s.AddGroup(ctx, "two")
	_, _ = s.RenameGroup(ctx, "unknown", "x")
	_ = s.RemoveGroup(ctx, g.ID)

	want := []int{1, 2, 1}
	if len(calls) != len(want) {
		t.Fatalf("calls = %v, want %v", calls, want)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Errorf("calls = %v, want %v", calls, want)
		}
	}
}

func TestSnapshotIsolation(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	g, _ := s.AddGroup(ctx, "g")
	_, _ = s.AddRule(ctx, g.ID, Rule{ID: "r"})

	snap := s.Snapshot()
	snap.Groups[0].Rules[0].FilterValue = "mutated"
	snap.Groups[0].Name = "mutated"

	got, _ := s.Group(g.ID)
	if got.Name != "g" || got.Rules[0].FilterValue != "" {
		t.Errorf("store mutated through snapshot: %+v", got)
	}
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
