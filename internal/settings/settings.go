// Package settings holds the navigation group/rule configuration, its
// normalization from loosely-typed persisted data, and the file-backed store.
package settings

// FilterType selects how a rule decides document membership.
type FilterType string

const (
	FilterTag      FilterType = "tag"
	FilterFolder   FilterType = "folder"
	FilterProperty FilterType = "property"
)

// SortType selects the key a rule orders its candidates by.
type SortType string

const (
	SortCreated     SortType = "created"
	SortModified    SortType = "modified"
	SortFilename    SortType = "filename"
	SortFrontmatter SortType = "frontmatter"
)

// SortDirection is the order applied after the ascending sort.
type SortDirection string

const (
	Asc  SortDirection = "asc"
	Desc SortDirection = "desc"
)

// SortValueType tells the sorter how to interpret a frontmatter sort value.
type SortValueType string

const (
	ValueString SortValueType = "string"
	ValueNumber SortValueType = "number"
	ValueDate   SortValueType = "date"
)

// Rule is one filter + sort specification inside a group.
//
// The pointer fields are only present when relevant: SortKey and SortValueType
// for frontmatter sorts, PropertyKey and PropertyValue for property filters.
type Rule struct {
	ID            string         `json:"id"`
	FilterType    FilterType     `json:"filterType"`
	FilterValue   string         `json:"filterValue"`
	SortType      SortType       `json:"sortType"`
	SortDirection SortDirection  `json:"sortDirection"`
	SortValueType *SortValueType `json:"sortValueType,omitempty"`
	SortKey       *string        `json:"sortKey,omitempty"`
	PropertyKey   *string        `json:"propertyKey,omitempty"`
	PropertyValue *string        `json:"propertyValue,omitempty"`
}

// Group is a named, ordered list of rules. Rule order is resolution priority.
type Group struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Rules []Rule `json:"rules"`
}

// Settings is the persisted configuration root.
type Settings struct {
	Groups []Group `json:"groups"`
}

// Default returns empty settings.
func Default() Settings {
	return Settings{Groups: []Group{}}
}

// Normalize drops or defaults fields according to the rule's filter and sort type.
// Unknown enum values fall back to tag / created / asc / string.
func (r *Rule) Normalize() {
	switch r.FilterType {
	case FilterTag, FilterFolder, FilterProperty:
	default:
		r.FilterType = FilterTag
	}
	switch r.SortType {
	case SortCreated, SortModified, SortFilename, SortFrontmatter:
	default:
		r.SortType = SortCreated
	}
	if r.SortDirection != Desc {
		r.SortDirection = Asc
	}

	if r.SortType == SortFrontmatter {
		if r.SortKey == nil {
			r.SortKey = ptr("")
		}
		if r.SortValueType == nil || !validValueType(*r.SortValueType) {
			r.SortValueType = ptr(ValueString)
		}
	} else {
		r.SortKey = nil
		r.SortValueType = nil
	}

	if r.FilterType == FilterProperty {
		if r.PropertyKey == nil {
			r.PropertyKey = ptr("")
		}
		if r.PropertyValue == nil {
			r.PropertyValue = ptr("")
		}
		r.FilterValue = ""
	} else {
		r.PropertyKey = nil
		r.PropertyValue = nil
	}
}

// Key returns the frontmatter sort key, or "" when unset.
func (r Rule) Key() string {
	return deref(r.SortKey)
}

// ValueType returns the frontmatter sort value type, defaulting to string.
func (r Rule) ValueType() SortValueType {
	if r.SortValueType == nil {
		return ValueString
	}
	return *r.SortValueType
}

// Property returns the property filter key and value, "" when unset.
func (r Rule) Property() (key, value string) {
	return deref(r.PropertyKey), deref(r.PropertyValue)
}

// Clone returns a deep copy of the rule.
func (r Rule) Clone() Rule {
	c := r
	c.SortValueType = clonePtr(r.SortValueType)
	c.SortKey = clonePtr(r.SortKey)
	c.PropertyKey = clonePtr(r.PropertyKey)
	c.PropertyValue = clonePtr(r.PropertyValue)
	return c
}

// Clone returns a deep copy of the group.
func (g Group) Clone() Group {
	c := g
	c.Rules = make([]Rule, len(g.Rules))
	for i, r := range g.Rules {
		c.Rules[i] = r.Clone()
	}
	return c
}

// Clone returns a deep copy of the settings.
func (s Settings) Clone() Settings {
	c := Settings{Groups: make([]Group, len(s.Groups))}
	for i, g := range s.Groups {
		c.Groups[i] = g.Clone()
	}
	return c
}

// Group returns the group with the given id.
func (s Settings) Group(id string) (Group, bool) {
	for _, g := range s.Groups {
		if g.ID == id {
			return g, true
		}
	}
	return Group{}, false
}

func validValueType(v SortValueType) bool {
	return v == ValueString || v == ValueNumber || v == ValueDate
}

func ptr[T any](v T) *T {
	return &v
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
