package parser

import (
	"testing"
)

func TestParse_FrontmatterAndBody(t *testing.T) {
	input := []byte("---\ntitle: Hello\ntags:\n  - go\n  - filenav\n---\n# Hello\nBody text #inline.\n")
	r, err := Parse(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Title != "Hello" {
		t.Errorf("title = %q, want %q", r.Title, "Hello")
	}
	if len(r.Tags) != 1 || r.Tags[0] != "inline" {
		t.Errorf("tags = %v, want [inline]", r.Tags)
	}
	fmTags, ok := r.Frontmatter["tags"].([]any)
	if !ok || len(fmTags) != 2 {
		t.Errorf("frontmatter tags = %#v, want two-element list", r.Frontmatter["tags"])
	}
	if r.Body != "# Hello\nBody text #inline.\n" {
		t.Errorf("body = %q", r.Body)
	}
}

func TestParse_NoFrontmatter(t *testing.T) {
	input := []byte("# Just a heading\nSome text.\n")
	r, err := Parse(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Frontmatter != nil {
		t.Errorf("expected nil frontmatter, got %v", r.Frontmatter)
	}
	if r.Title != "Just a heading" {
		t.Errorf("title = %q, want %q", r.Title, "Just a heading")
	}
}

func TestParse_InvalidYAMLFallback(t *testing.T) {
	input := []byte("---\n: invalid: yaml: {{{\n---\nBody\n")
	r, err := Parse(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Frontmatter != nil {
		t.Errorf("expected nil frontmatter on invalid YAML")
	}
	if r.Body != string(input) {
		t.Errorf("body = %q, want whole input", r.Body)
	}
}

func TestParse_DateValuesStayStrings(t *testing.T) {
	r, _ := Parse([]byte("---\ndue: 2024-03-01\nrank: 3\n---\n"))
	if v, ok := r.Frontmatter["due"].(string); !ok || v != "2024-03-01" {
		t.Errorf("due = %#v, want string 2024-03-01", r.Frontmatter["due"])
	}
	if v, ok := r.Frontmatter["rank"].(int); !ok || v != 3 {
		t.Errorf("rank = %#v, want int 3", r.Frontmatter["rank"])
	}
}

func TestParse_NestedTimestampsKeepSourceText(t *testing.T) {
	r, err := Parse([]byte("---\nat: 2024-03-01 09:30:00\ndates: [2024-01-01, \"2024-01-02\"]\nmeta:\n  seen: 2023-12-31T23:59:59Z\n---\n"))
	if err != nil {
		t.Fatal(err)
	}
	if v := r.Frontmatter["at"]; v != "2024-03-01 09:30:00" {
		t.Errorf("at = %#v", v)
	}
	dates, _ := r.Frontmatter["dates"].([]any)
	if len(dates) != 2 || dates[0] != "2024-01-01" || dates[1] != "2024-01-02" {
		t.Errorf("dates = %#v", r.Frontmatter["dates"])
	}
	meta, _ := r.Frontmatter["meta"].(map[string]any)
	if meta["seen"] != "2023-12-31T23:59:59Z" {
		t.Errorf("meta = %#v", r.Frontmatter["meta"])
	}
}

func TestParse_EmptyFrontmatter(t *testing.T) {
	r, err := Parse([]byte("---\n---\nBody\n"))
	if err != nil {
		t.Fatal(err)
	}
	if r.Frontmatter != nil || r.Body != "Body\n" {
		t.Errorf("frontmatter = %#v, body = %q", r.Frontmatter, r.Body)
	}
}

func TestExtractTags(t *testing.T) {
	cases := []struct {
		name string
		body string
		want []string
	}{
		{"inline", "Some text #beta and #alpha again #beta.", []string{"beta", "alpha"}},
		{"nested", "#project/sub-task done", []string{"project/sub-task"}},
		{"unicode", "メモ #日記", []string{"日記"}},
		{"heading is not a tag", "# Title\n## Sub", nil},
		{"no leading digit", "issue #123", nil},
		{"fenced code skipped", "#keep\n```\n#skip\n```\n#also", []string{"keep", "also"}},
		{"unterminated fence", "#keep\n```go\n#skip", []string{"keep"}},
	}
	for _, tc := range cases {
		got := extractTags(tc.body)
		if len(got) != len(tc.want) {
			t.Errorf("%s: tags = %v, want %v", tc.name, got, tc.want)
			continue
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Errorf("%s: tags = %v, want %v", tc.name, got, tc.want)
				break
			}
		}
	}
}

func TestDeriveTitle_FrontmatterOverH1(t *testing.T) {
	fm := map[string]any{"title": "FM Title"}
	title := deriveTitle(fm, "# H1 Title\ntext")
	if title != "FM Title" {
		t.Errorf("title = %q, want %q", title, "FM Title")
	}
}

func TestDeriveTitle_H1Fallback(t *testing.T) {
	title := deriveTitle(nil, "some text\n# My Heading\nmore")
	if title != "My Heading" {
		t.Errorf("title = %q, want %q", title, "My Heading")
	}
}
