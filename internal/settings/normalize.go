package settings

import (
	"encoding/json"
	"fmt"
)

// Decode parses a persisted settings blob and normalizes it.
// Empty input yields default settings.
func Decode(data []byte) (Settings, error) {
	if len(data) == 0 {
		return Default(), nil
	}
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return Settings{}, fmt.Errorf("settings: decode: %w", err)
	}
	return Normalize(raw), nil
}

// Normalize converts arbitrary decoded JSON into validated settings.
// Missing or mistyped fields get inert defaults; the function never fails and
// is idempotent over its own output.
func Normalize(raw any) Settings {
	root := asObject(raw)
	rawGroups, _ := root["groups"].([]any)

	out := Settings{Groups: make([]Group, 0, len(rawGroups))}
	for _, rg := range rawGroups {
		out.Groups = append(out.Groups, normalizeGroup(asObject(rg)))
	}
	return out
}

func normalizeGroup(m map[string]any) Group {
	g := Group{
		ID:   stringOr(m, "id", NewID),
		Name: stringOr(m, "name", emptyString),
	}
	rawRules, _ := m["rules"].([]any)
	g.Rules = make([]Rule, 0, len(rawRules))
	for _, rr := range rawRules {
		g.Rules = append(g.Rules, normalizeRule(asObject(rr)))
	}
	return g
}

func normalizeRule(m map[string]any) Rule {
	r := Rule{
		ID:            stringOr(m, "id", NewID),
		FilterType:    FilterType(stringOr(m, "filterType", emptyString)),
		FilterValue:   stringOr(m, "filterValue", emptyString),
		SortType:      SortType(stringOr(m, "sortType", emptyString)),
		SortDirection: SortDirection(stringOr(m, "sortDirection", emptyString)),
		SortKey:       optionalString(m, "sortKey"),
		PropertyKey:   optionalString(m, "propertyKey"),
		PropertyValue: optionalString(m, "propertyValue"),
	}
	if vt := optionalString(m, "sortValueType"); vt != nil {
		r.SortValueType = ptr(SortValueType(*vt))
	}
	r.Normalize()
	return r
}

func asObject(v any) map[string]any {
	if m, ok := v.(map[string]any); ok {
		return m
	}
	return map[string]any{}
}

func stringOr(m map[string]any, key string, fallback func() string) string {
	if s, ok := m[key].(string); ok {
		return s
	}
	return fallback()
}

func optionalString(m map[string]any, key string) *string {
	if s, ok := m[key].(string); ok {
		return &s
	}
	return nil
}

func emptyString() string { return "" }
