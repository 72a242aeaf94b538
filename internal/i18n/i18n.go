// Package i18n provides the user-facing strings in English and Japanese.
package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/starford/filenav/internal/settings"
)

// Supported locales.
const (
	English  = "en"
	Japanese = "ja"
)

//go:embed locales/*.json
var localeFS embed.FS

var dictionaries = mustLoad(English, Japanese)

func mustLoad(locales ...string) map[string]map[string]string {
	out := make(map[string]map[string]string, len(locales))
	for _, loc := range locales {
		data, err := localeFS.ReadFile("locales/" + loc + ".json")
		if err != nil {
			panic(fmt.Sprintf("i18n: read %s: %v", loc, err))
		}
		dict := map[string]string{}
		if err := json.Unmarshal(data, &dict); err != nil {
			panic(fmt.Sprintf("i18n: parse %s: %v", loc, err))
		}
		out[loc] = dict
	}
	return out
}

// ResolveLocale maps a locale tag such as "ja_JP.UTF-8" to a supported
// locale. Anything not starting with "ja" resolves to English.
func ResolveLocale(tag string) string {
	if strings.HasPrefix(strings.ToLower(tag), Japanese) {
		return Japanese
	}
	return English
}

// Translator looks keys up in one locale, falling back to English and then
// to the key itself.
type Translator struct {
	locale string
}

// New returns a Translator for the given locale tag.
func New(tag string) *Translator {
	return &Translator{locale: ResolveLocale(tag)}
}

// Locale returns the resolved locale.
func (t *Translator) Locale() string {
	return t.locale
}

// T translates key.
func (t *Translator) T(key string) string {
	if s, ok := dictionaries[t.locale][key]; ok {
		return s
	}
	if s, ok := dictionaries[English][key]; ok {
		return s
	}
	return key
}

// GroupLabel returns the trimmed group name, or the localized placeholder
// when the name is blank.
func (t *Translator) GroupLabel(g settings.Group) string {
	if name := strings.TrimSpace(g.Name); name != "" {
		return name
	}
	return t.T("settings.group.titleFallback")
}

// RuleSummary describes a rule's filter in one line, e.g. "Tag: #journal".
func (t *Translator) RuleSummary(r settings.Rule) string {
	missing := t.T("settings.rule.summary.missing")
	switch r.FilterType {
	case settings.FilterFolder:
		return fill(t.T("settings.rule.summary.folder"), "{value}", orDefault(r.FilterValue, missing))
	case settings.FilterProperty:
		key, value := r.Property()
		key = orDefault(key, missing)
		if value = strings.TrimSpace(value); value != "" {
			return fill(fill(t.T("settings.rule.summary.propertyWithValue"), "{key}", key), "{value}", value)
		}
		return fill(t.T("settings.rule.summary.propertyWithoutValue"), "{key}", key)
	default:
		return fill(t.T("settings.rule.summary.tag"), "{value}", orDefault(r.FilterValue, missing))
	}
}

// SortSummary describes a rule's ordering, e.g. "Created time (Descending)"
// or "Frontmatter key: due (Date, Ascending)".
func (t *Translator) SortSummary(r settings.Rule) string {
	dir := t.T("settings.rule.sortDirection." + string(r.SortDirection))
	label := t.T("settings.rule.sort." + string(r.SortType))
	if r.SortType != settings.SortFrontmatter {
		return fmt.Sprintf("%s (%s)", label, dir)
	}
	key := orDefault(r.Key(), t.T("settings.rule.summary.missing"))
	vt := t.T("settings.rule.sortValueType." + string(r.ValueType()))
	return fmt.Sprintf("%s: %s (%s, %s)", label, key, vt, dir)
}

// fill replaces the first occurrence of placeholder.
func fill(s, placeholder, value string) string {
	return strings.Replace(s, placeholder, value, 1)
}

func orDefault(s, fallback string) string {
	if s = strings.TrimSpace(s); s != "" {
		return s
	}
	return fallback
}
