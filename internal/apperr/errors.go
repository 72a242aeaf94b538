// Package apperr holds sentinel errors shared across layers.
package apperr

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrConflict      = errors.New("conflict")
	ErrAlreadyExists = errors.New("already exists")
)

// Navigation outcomes. These are advisory: callers turn them into notices.
var (
	ErrNoRules          = errors.New("group has no rules")
	ErrNoActiveDocument = errors.New("no active document")
	ErrNoCandidate      = errors.New("no candidate found")
)
