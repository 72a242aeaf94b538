package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"github.com/starford/filenav/internal/apperr"
	"github.com/starford/filenav/internal/storage"
)

const (
	lockTimeout   = 3 * time.Second
	lockRetryWait = 100 * time.Millisecond
)

// Store keeps the settings in memory and writes the whole blob back to disk
// after every mutation. A mutation whose save fails leaves the in-memory
// settings untouched.
type Store struct {
	path     string
	fileLock *flock.Flock

	mu        sync.Mutex
	current   Settings
	listeners []func(Settings)
}

// Open loads settings from path. A missing file yields empty settings;
// malformed JSON is an error.
func Open(ctx context.Context, path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("settings: create dir: %w", err)
	}
	s := &Store{
		path:     path,
		fileLock: flock.New(path + ".lock"),
	}
	if err := s.withFileLock(ctx, func() error {
		data, err := os.ReadFile(path)
		if errors.Is(err, os.ErrNotExist) {
			s.current = Default()
			return nil
		}
		if err != nil {
			return fmt.Errorf("settings: read: %w", err)
		}
		s.current, err = Decode(data)
		return err
	}); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the settings file location.
func (s *Store) Path() string {
	return s.path
}

// Snapshot returns a deep copy of the current settings.
func (s *Store) Snapshot() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.Clone()
}

// Group returns a copy of the group with the given id.
func (s *Store) Group(id string) (Group, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.current.Group(id)
	if !ok {
		return Group{}, fmt.Errorf("settings: group %q: %w", id, apperr.ErrNotFound)
	}
	return g.Clone(), nil
}

// OnChange registers fn to be called with the new settings after every
// successful save.
func (s *Store) OnChange(fn func(Settings)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// AddGroup appends a new empty group.
func (s *Store) AddGroup(ctx context.Context, name string) (Group, error) {
	g := Group{ID: NewID(), Name: name, Rules: []Rule{}}
	err := s.mutate(ctx, func(st *Settings) error {
		st.Groups = append(st.Groups, g)
		return nil
	})
	if err != nil {
		return Group{}, err
	}
	return g, nil
}

// RenameGroup sets a group's display name.
func (s *Store) RenameGroup(ctx context.Context, id, name string) (Group, error) {
	var out Group
	err := s.mutate(ctx, func(st *Settings) error {
		g, err := findGroup(st, id)
		if err != nil {
			return err
		}
		g.Name = name
		out = g.Clone()
		return nil
	})
	return out, err
}

// RemoveGroup deletes a group together with its rules.
func (s *Store) RemoveGroup(ctx context.Context, id string) error {
	return s.mutate(ctx, func(st *Settings) error {
		for i := range st.Groups {
			if st.Groups[i].ID == id {
				st.Groups = append(st.Groups[:i], st.Groups[i+1:]...)
				return nil
			}
		}
		return fmt.Errorf("settings: group %q: %w", id, apperr.ErrNotFound)
	})
}

// AddRule normalizes r and appends it to the group. An empty id is replaced
// with a generated one.
func (s *Store) AddRule(ctx context.Context, groupID string, r Rule) (Rule, error) {
	if r.ID == "" {
		r.ID = NewID()
	}
	r.Normalize()
	err := s.mutate(ctx, func(st *Settings) error {
		g, err := findGroup(st, groupID)
		if err != nil {
			return err
		}
		for _, existing := range g.Rules {
			if existing.ID == r.ID {
				return fmt.Errorf("settings: rule %q: %w", r.ID, apperr.ErrAlreadyExists)
			}
		}
		g.Rules = append(g.Rules, r.Clone())
		return nil
	})
	if err != nil {
		return Rule{}, err
	}
	return r, nil
}

// UpdateRule replaces the rule with the same id, keeping its position.
func (s *Store) UpdateRule(ctx context.Context, groupID string, r Rule) (Rule, error) {
	r.Normalize()
	err := s.mutate(ctx, func(st *Settings) error {
		g, err := findGroup(st, groupID)
		if err != nil {
			return err
		}
		i, err := findRule(g, r.ID)
		if err != nil {
			return err
		}
		g.Rules[i] = r.Clone()
		return nil
	})
	if err != nil {
		return Rule{}, err
	}
	return r, nil
}

// RemoveRule deletes a rule from its group.
func (s *Store) RemoveRule(ctx context.Context, groupID, ruleID string) error {
	return s.mutate(ctx, func(st *Settings) error {
		g, err := findGroup(st, groupID)
		if err != nil {
			return err
		}
		i, err := findRule(g, ruleID)
		if err != nil {
			return err
		}
		g.Rules = append(g.Rules[:i], g.Rules[i+1:]...)
		return nil
	})
}

// MoveRule shifts a rule by offset positions within its group, clamped to the
// list bounds. Moving past either edge leaves the order unchanged and skips
// the save.
func (s *Store) MoveRule(ctx context.Context, groupID, ruleID string, offset int) ([]Rule, error) {
	var out []Rule
	err := s.mutate(ctx, func(st *Settings) error {
		g, err := findGroup(st, groupID)
		if err != nil {
			return err
		}
		from, err := findRule(g, ruleID)
		if err != nil {
			return err
		}
		to := min(max(from+offset, 0), len(g.Rules)-1)
		if to == from {
			out = g.Clone().Rules
			return errUnchanged
		}
		moved := g.Rules[from]
		g.Rules = append(g.Rules[:from], g.Rules[from+1:]...)
		g.Rules = append(g.Rules[:to], append([]Rule{moved}, g.Rules[to:]...)...)
		out = g.Clone().Rules
		return nil
	})
	return out, err
}

// errUnchanged aborts a mutation without reporting an error.
var errUnchanged = errors.New("settings: unchanged")

func (s *Store) mutate(ctx context.Context, fn func(*Settings) error) error {
	s.mu.Lock()
	next := s.current.Clone()
	if err := fn(&next); err != nil {
		s.mu.Unlock()
		if errors.Is(err, errUnchanged) {
			return nil
		}
		return err
	}
	if err := s.save(ctx, next); err != nil {
		s.mu.Unlock()
		return err
	}
	s.current = next
	listeners := append([]func(Settings){}, s.listeners...)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(next.Clone())
	}
	return nil
}

func (s *Store) save(ctx context.Context, st Settings) error {
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("settings: encode: %w", err)
	}
	return s.withFileLock(ctx, func() error {
		if err := storage.WriteFileAtomic(s.path, append(data, '\n')); err != nil {
			return fmt.Errorf("settings: write: %w", err)
		}
		return nil
	})
}

func (s *Store) withFileLock(ctx context.Context, fn func() error) error {
	ctx, cancel := context.WithTimeout(ctx, lockTimeout)
	defer cancel()

	locked, err := s.fileLock.TryLockContext(ctx, lockRetryWait)
	if err != nil {
		return fmt.Errorf("settings: acquire lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("settings: could not acquire lock on %s", s.path)
	}
	defer func() { _ = s.fileLock.Unlock() }()
	return fn()
}

func findGroup(st *Settings, id string) (*Group, error) {
	for i := range st.Groups {
		if st.Groups[i].ID == id {
			return &st.Groups[i], nil
		}
	}
	return nil, fmt.Errorf("settings: group %q: %w", id, apperr.ErrNotFound)
}

func findRule(g *Group, id string) (int, error) {
	for i := range g.Rules {
		if g.Rules[i].ID == id {
			return i, nil
		}
	}
	return -1, fmt.Errorf("settings: rule %q: %w", id, apperr.ErrNotFound)
}
