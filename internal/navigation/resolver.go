package navigation

import (
	"fmt"
	"slices"

	"github.com/starford/filenav/internal/models"
	"github.com/starford/filenav/internal/settings"
)

// Direction is a navigation verb.
type Direction string

const (
	Previous Direction = "previous"
	Next     Direction = "next"
	Latest   Direction = "latest"
	Oldest   Direction = "oldest"
)

// Directions lists every direction in command registration order.
var Directions = []Direction{Previous, Next, Latest, Oldest}

// ParseDirection validates a direction name.
func ParseDirection(s string) (Direction, error) {
	d := Direction(s)
	if slices.Contains(Directions, d) {
		return d, nil
	}
	return "", fmt.Errorf("navigation: unknown direction %q", s)
}

// Candidates returns the documents matching r, in the rule's order.
func Candidates(r settings.Rule, docs []models.Document) []models.Document {
	var matched []models.Document
	for _, d := range docs {
		if Matches(r, d) {
			matched = append(matched, d)
		}
	}
	return Sort(matched, r)
}

// Resolve picks the navigation target for the active document.
//
// Rules are tried in order; the first whose candidates contain the active
// document decides the result, and later rules are never consulted. next and
// previous do not wrap. latest and oldest pick an edge of that rule's list
// according to its sort direction. The returned document may be the active
// one itself; callers treat that as a no-op.
func Resolve(rules []settings.Rule, docs []models.Document, activePath string, dir Direction) (models.Document, bool) {
	for _, r := range rules {
		candidates := Candidates(r, docs)
		if len(candidates) == 0 {
			continue
		}
		idx := slices.IndexFunc(candidates, func(d models.Document) bool { return d.Path == activePath })
		if idx == -1 {
			continue
		}
		last := len(candidates) - 1
		switch dir {
		case Next:
			if idx >= last {
				return models.Document{}, false
			}
			return candidates[idx+1], true
		case Previous:
			if idx <= 0 {
				return models.Document{}, false
			}
			return candidates[idx-1], true
		case Latest:
			if r.SortDirection == settings.Desc {
				return candidates[0], true
			}
			return candidates[last], true
		case Oldest:
			if r.SortDirection == settings.Desc {
				return candidates[last], true
			}
			return candidates[0], true
		default:
			return models.Document{}, false
		}
	}
	return models.Document{}, false
}
