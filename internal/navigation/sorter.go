package navigation

import (
	"math"
	"math/big"
	"slices"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/starford/filenav/internal/models"
	"github.com/starford/filenav/internal/settings"
)

// dateLayouts are tried in order when a frontmatter value is sorted as a date.
// Layouts without a zone are read as UTC.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02",
	time.RFC1123Z,
	time.RFC1123,
	time.RFC850,
	time.ANSIC,
}

// Sort returns docs ordered by the rule's sort key. The comparison is always
// ascending and stable; a descending rule reverses the whole result.
// The input slice is left untouched.
func Sort(docs []models.Document, r settings.Rule) []models.Document {
	out := slices.Clone(docs)
	slices.SortStableFunc(out, comparator(r))
	if r.SortDirection == settings.Desc {
		slices.Reverse(out)
	}
	return out
}

func comparator(r settings.Rule) func(a, b models.Document) int {
	switch r.SortType {
	case settings.SortModified:
		return func(a, b models.Document) int { return a.ModifiedAt.Compare(b.ModifiedAt) }
	case settings.SortFilename:
		// Collators keep internal buffers, so each sort gets its own.
		c := collate.New(language.Und, collate.IgnoreCase, collate.IgnoreDiacritics)
		return func(a, b models.Document) int { return c.CompareString(a.Path, b.Path) }
	case settings.SortFrontmatter:
		c := collate.New(language.Und)
		key, vt := strings.TrimSpace(r.Key()), r.ValueType()
		return func(a, b models.Document) int {
			return compareValues(c, sortValue(a, key, vt), sortValue(b, key, vt))
		}
	default:
		return func(a, b models.Document) int { return a.CreatedAt.Compare(b.CreatedAt) }
	}
}

// value is an extracted frontmatter sort value. The zero value is "missing".
type value struct {
	present bool
	numeric bool
	num     float64
	str     string
}

func compareValues(c *collate.Collator, a, b value) int {
	switch {
	case !a.present && !b.present:
		return 0
	case !a.present:
		return -1
	case !b.present:
		return 1
	case a.numeric && b.numeric:
		switch {
		case a.num < b.num:
			return -1
		case a.num > b.num:
			return 1
		}
		return 0
	}
	return c.CompareString(a.text(), b.text())
}

func (v value) text() string {
	if v.numeric {
		return formatNumber(v.num)
	}
	return v.str
}

func sortValue(doc models.Document, key string, vt settings.SortValueType) value {
	if key == "" {
		return value{}
	}
	raw, ok := doc.Frontmatter[key]
	if !ok {
		return value{}
	}
	switch vt {
	case settings.ValueNumber:
		if f, ok := parseNumber(raw); ok {
			return value{present: true, numeric: true, num: f}
		}
		return value{}
	case settings.ValueDate:
		if t, ok := parseDate(raw); ok {
			return value{present: true, numeric: true, num: float64(t.UnixMilli())}
		}
		return value{}
	default:
		if raw == nil {
			return value{}
		}
		return value{present: true, str: stringify(raw)}
	}
}

// parseNumber accepts numeric values and numeric strings. Empty strings,
// booleans, nil and collections count as missing.
func parseNumber(raw any) (float64, bool) {
	var f float64
	switch x := raw.(type) {
	case int:
		f = float64(x)
	case int64:
		f = float64(x)
	case uint64:
		f = float64(x)
	case float32:
		f = float64(x)
	case float64:
		f = x
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return 0, false
		}
		parsed, ok := parseNumericString(s)
		if !ok {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

var radixPrefixes = map[byte]int{'x': 16, 'X': 16, 'o': 8, 'O': 8, 'b': 2, 'B': 2}

// parseNumericString accepts decimal floats and unsigned 0x/0o/0b integers.
func parseNumericString(s string) (float64, bool) {
	if len(s) > 2 && s[0] == '0' {
		if base, ok := radixPrefixes[s[1]]; ok {
			digits := s[2:]
			if digits[0] == '+' || digits[0] == '-' {
				return 0, false
			}
			n, ok := new(big.Int).SetString(digits, base)
			if !ok {
				return 0, false
			}
			f, _ := new(big.Float).SetInt(n).Float64()
			return f, true
		}
	}
	f, err := strconv.ParseFloat(s, 64)
	return f, err == nil
}

func parseDate(raw any) (time.Time, bool) {
	if t, ok := raw.(time.Time); ok {
		return t, true
	}
	if raw == nil {
		return time.Time{}, false
	}
	s := strings.TrimSpace(stringify(raw))
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
