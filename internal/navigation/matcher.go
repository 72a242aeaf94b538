// Package navigation resolves navigation targets for a group of rules:
// it filters a document snapshot per rule, orders the candidates and picks
// the neighbour or edge document for a direction. Everything here is pure.
package navigation

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/starford/filenav/internal/models"
	"github.com/starford/filenav/internal/settings"
)

var tagSplitRe = regexp.MustCompile(`[,\s]+`)

// Matches reports whether doc belongs to the rule's candidate set.
func Matches(r settings.Rule, doc models.Document) bool {
	switch r.FilterType {
	case settings.FilterFolder:
		return matchesFolder(r.FilterValue, doc)
	case settings.FilterProperty:
		key, value := r.Property()
		return matchesProperty(key, value, doc)
	default:
		return matchesTag(r.FilterValue, doc)
	}
}

func matchesTag(value string, doc models.Document) bool {
	want := normalizeTag(value)
	if want == "" {
		return true
	}
	_, ok := tagSet(doc)[want]
	return ok
}

func matchesFolder(value string, doc models.Document) bool {
	want := strings.TrimSpace(value)
	if want == "" {
		return true
	}
	want = strings.ToLower(strings.Trim(want, `/\`))
	folder := strings.ToLower(doc.Folder)
	return folder == want || strings.HasPrefix(folder, want+"/")
}

func matchesProperty(key, value string, doc models.Document) bool {
	key = strings.TrimSpace(key)
	if key == "" {
		return false
	}
	v, ok := doc.Frontmatter[key]
	if !ok {
		return false
	}
	if strings.TrimSpace(value) != "" {
		return stringify(v) == value
	}
	return true
}

// normalizeTag strips the leading '#' run, trims and lowercases.
func normalizeTag(s string) string {
	return strings.ToLower(strings.TrimSpace(strings.TrimLeft(s, "#")))
}

// tagSet unions the document's metadata tags with its frontmatter "tags"
// field, which may be a list or a comma/space separated string.
func tagSet(doc models.Document) map[string]struct{} {
	set := make(map[string]struct{}, len(doc.Tags))
	add := func(s string) {
		if n := normalizeTag(s); n != "" {
			set[n] = struct{}{}
		}
	}
	for _, t := range doc.Tags {
		add(t)
	}
	switch fm := doc.Frontmatter["tags"].(type) {
	case []any:
		for _, v := range fm {
			add(stringify(v))
		}
	case []string:
		for _, v := range fm {
			add(v)
		}
	case string:
		for _, tok := range tagSplitRe.Split(fm, -1) {
			add(tok)
		}
	}
	return set
}

// stringify renders a frontmatter value the way a user reads it in the
// source file: lists are comma joined, objects collapse to a placeholder.
func stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case uint64:
		return strconv.FormatUint(x, 10)
	case float32:
		return formatNumber(float64(x))
	case float64:
		return formatNumber(x)
	case time.Time:
		return x.Format(time.RFC3339)
	case []any:
		parts := make([]string, len(x))
		for i, e := range x {
			if e == nil {
				continue
			}
			parts[i] = stringify(e)
		}
		return strings.Join(parts, ",")
	case []string:
		return strings.Join(x, ",")
	case map[string]any:
		return "[object Object]"
	default:
		return "[object Object]"
	}
}

func formatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	if abs := math.Abs(f); abs != 0 && (abs >= 1e21 || abs < 1e-6) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
