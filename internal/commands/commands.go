// Package commands derives the per-group navigation commands. Command ids
// depend only on the group id and the direction, so bindings made against
// them survive restarts and renames.
package commands

import (
	"fmt"
	"strings"
	"sync"

	"github.com/starford/filenav/internal/apperr"
	"github.com/starford/filenav/internal/i18n"
	"github.com/starford/filenav/internal/navigation"
	"github.com/starford/filenav/internal/settings"
)

// Namespace prefixes every full command id.
const Namespace = "filenav"

const basePrefix = "group-"

// Descriptor is one invocable command.
type Descriptor struct {
	ID        string               `json:"id"`
	BaseID    string               `json:"base_id"`
	GroupID   string               `json:"group_id"`
	Direction navigation.Direction `json:"direction"`
	Label     string               `json:"label"`
}

var directionKeys = map[navigation.Direction]string{
	navigation.Previous: "commands.navigatePrevious",
	navigation.Next:     "commands.navigateNext",
	navigation.Latest:   "commands.navigateLatest",
	navigation.Oldest:   "commands.navigateOldest",
}

// BaseID returns the unqualified command id for a group and direction.
func BaseID(groupID string, dir navigation.Direction) string {
	return basePrefix + groupID + "-" + string(dir)
}

// FullID returns the namespaced command id.
func FullID(groupID string, dir navigation.Direction) string {
	return Namespace + ":" + BaseID(groupID, dir)
}

// Label formats "<group> • <direction>".
func Label(tr *i18n.Translator, g settings.Group, dir navigation.Direction) string {
	return tr.GroupLabel(g) + " • " + tr.T(directionKeys[dir])
}

// ForGroup returns the four descriptors of a group in registration order.
func ForGroup(tr *i18n.Translator, g settings.Group) []Descriptor {
	out := make([]Descriptor, 0, len(navigation.Directions))
	for _, dir := range navigation.Directions {
		out = append(out, Descriptor{
			ID:        FullID(g.ID, dir),
			BaseID:    BaseID(g.ID, dir),
			GroupID:   g.ID,
			Direction: dir,
			Label:     Label(tr, g, dir),
		})
	}
	return out
}

// List returns descriptors for every group.
func List(tr *i18n.Translator, s settings.Settings) []Descriptor {
	out := make([]Descriptor, 0, len(s.Groups)*len(navigation.Directions))
	for _, g := range s.Groups {
		out = append(out, ForGroup(tr, g)...)
	}
	return out
}

// Parse splits a full or base command id into group id and direction.
func Parse(id string) (groupID string, dir navigation.Direction, err error) {
	base := strings.TrimPrefix(id, Namespace+":")
	rest, ok := strings.CutPrefix(base, basePrefix)
	i := strings.LastIndexByte(rest, '-')
	if !ok || i <= 0 {
		return "", "", fmt.Errorf("commands: malformed id %q", id)
	}
	dir, err = navigation.ParseDirection(rest[i+1:])
	if err != nil {
		return "", "", fmt.Errorf("commands: malformed id %q: %w", id, err)
	}
	return rest[:i], dir, nil
}

// Registry holds the descriptors of the current settings. Refresh is meant
// to be called after every settings save.
type Registry struct {
	tr *i18n.Translator

	mu   sync.RWMutex
	list []Descriptor
	byID map[string]Descriptor
}

// NewRegistry builds a registry from the initial settings.
func NewRegistry(tr *i18n.Translator, s settings.Settings) *Registry {
	r := &Registry{tr: tr}
	r.Refresh(s)
	return r
}

// Refresh replaces the registered descriptors.
func (r *Registry) Refresh(s settings.Settings) {
	list := List(r.tr, s)
	byID := make(map[string]Descriptor, len(list)*2)
	for _, d := range list {
		byID[d.ID] = d
		byID[d.BaseID] = d
	}
	r.mu.Lock()
	r.list, r.byID = list, byID
	r.mu.Unlock()
}

// List returns a copy of the registered descriptors.
func (r *Registry) List() []Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Descriptor(nil), r.list...)
}

// Lookup finds a descriptor by full or base id.
func (r *Registry) Lookup(id string) (Descriptor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.byID[id]
	if !ok {
		return Descriptor{}, fmt.Errorf("commands: %q: %w", id, apperr.ErrNotFound)
	}
	return d, nil
}
