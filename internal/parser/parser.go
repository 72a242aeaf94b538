// Package parser extracts frontmatter, inline tags, and a title from Markdown content.
package parser

import (
	"bytes"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	tagRe   = regexp.MustCompile(`(?:^|\s)#([\p{L}_][\p{L}\p{N}_/-]*)`)
	fenceRe = regexp.MustCompile("(?m)^(```|~~~)")
)

// Result holds the output of parsing a Markdown file.
type Result struct {
	Frontmatter map[string]any
	Body        string
	// Tags are the inline #tags found in the body, without the leading '#'.
	// Frontmatter tags are left in Frontmatter["tags"].
	Tags  []string
	Title string
}

// Parse extracts frontmatter, body, inline tags, and title from raw Markdown bytes.
// Invalid frontmatter is not an error: the whole file is treated as body.
func Parse(data []byte) (*Result, error) {
	fm, body := splitFrontmatter(data)

	return &Result{
		Frontmatter: fm,
		Body:        body,
		Tags:        extractTags(body),
		Title:       deriveTitle(fm, body),
	}, nil
}

// splitFrontmatter separates YAML frontmatter (between leading --- delimiters)
// from the Markdown body. If no frontmatter is found the entire content is body.
func splitFrontmatter(data []byte) (map[string]any, string) {
	const delim = "---"
	trimmed := bytes.TrimLeft(data, "\n\r")

	if !bytes.HasPrefix(trimmed, []byte(delim)) {
		return nil, string(data)
	}

	rest := trimmed[len(delim):]
	idx := bytes.Index(rest, []byte("\n"+delim))
	if idx < 0 {
		return nil, string(data)
	}

	yamlBlock := rest[:idx]
	afterDelim := rest[idx+1+len(delim):]
	body := strings.TrimLeft(string(afterDelim), "\n\r")

	fm, err := decodeFrontmatter(yamlBlock)
	if err != nil {
		return nil, string(data)
	}

	return fm, body
}

// decodeFrontmatter decodes a YAML mapping. Timestamp scalars keep their
// source text, so `due: 2024-03-01` reads back as the string "2024-03-01".
func decodeFrontmatter(block []byte) (map[string]any, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(block, &doc); err != nil {
		return nil, err
	}
	if len(doc.Content) == 0 {
		return nil, nil
	}
	keepTimestampText(&doc)

	var fm map[string]any
	if err := doc.Decode(&fm); err != nil {
		return nil, err
	}
	return fm, nil
}

func keepTimestampText(n *yaml.Node) {
	if n.Kind == yaml.ScalarNode && n.ShortTag() == "!!timestamp" {
		n.Tag = "!!str"
	}
	for _, c := range n.Content {
		keepTimestampText(c)
	}
}

// extractTags collects deduplicated inline #tags from body, skipping fenced code blocks.
func extractTags(body string) []string {
	seen := make(map[string]struct{})
	var out []string

	for _, chunk := range outsideFences(body) {
		for _, m := range tagRe.FindAllStringSubmatch(chunk, -1) {
			t := m[1]
			if _, dup := seen[t]; dup {
				continue
			}
			seen[t] = struct{}{}
			out = append(out, t)
		}
	}
	return out
}

// outsideFences splits body on fence lines and returns the parts outside code blocks.
// An unterminated fence swallows the rest of the body.
func outsideFences(body string) []string {
	locs := fenceRe.FindAllStringIndex(body, -1)
	if len(locs) == 0 {
		return []string{body}
	}
	var out []string
	start := 0
	inside := false
	for _, loc := range locs {
		if !inside {
			out = append(out, body[start:loc[0]])
		} else {
			start = lineEnd(body, loc[1])
		}
		inside = !inside
	}
	if !inside {
		out = append(out, body[start:])
	}
	return out
}

func lineEnd(s string, from int) int {
	if i := strings.IndexByte(s[from:], '\n'); i >= 0 {
		return from + i + 1
	}
	return len(s)
}

// deriveTitle returns the frontmatter "title" if present, otherwise the first
// H1 heading, otherwise empty string.
func deriveTitle(fm map[string]any, body string) string {
	if t, ok := fm["title"].(string); ok && t != "" {
		return t
	}
	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "# ") {
			return strings.TrimSpace(trimmed[2:])
		}
	}
	return ""
}
