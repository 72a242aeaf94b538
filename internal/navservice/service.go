// Package navservice runs a navigation command end to end: it checks the
// group and the active document, resolves the target against the current
// index snapshot and opens it.
package navservice

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"strings"

	"github.com/starford/filenav/internal/apperr"
	"github.com/starford/filenav/internal/commands"
	"github.com/starford/filenav/internal/i18n"
	"github.com/starford/filenav/internal/models"
	"github.com/starford/filenav/internal/navigation"
	"github.com/starford/filenav/internal/settings"
)

// DocumentSource supplies the document snapshot navigation runs against.
type DocumentSource interface {
	ListDocuments(ctx context.Context) ([]models.Document, error)
}

// GroupSource looks up a group by id.
type GroupSource interface {
	Group(id string) (settings.Group, error)
}

// Opener shows a document to the user.
type Opener interface {
	Open(ctx context.Context, doc models.Document) error
}

// OpenerFunc adapts a function to Opener.
type OpenerFunc func(ctx context.Context, doc models.Document) error

// Open calls f.
func (f OpenerFunc) Open(ctx context.Context, doc models.Document) error { return f(ctx, doc) }

// Notice is an advisory message for the user.
type Notice struct {
	Key     string `json:"key"`
	Message string `json:"message"`
}

// Notifier delivers notices.
type Notifier interface {
	Notify(ctx context.Context, n Notice)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, n Notice)

// Notify calls f.
func (f NotifierFunc) Notify(ctx context.Context, n Notice) { f(ctx, n) }

// Status is the result kind of a navigation request.
type Status string

const (
	StatusOpened    Status = "opened"
	StatusUnchanged Status = "unchanged"
	StatusNotice    Status = "notice"
)

// Outcome describes what a navigation request did.
type Outcome struct {
	Status Status `json:"status"`
	Target string `json:"target,omitempty"`
	Notice string `json:"notice,omitempty"`
	// Reason is one of apperr.ErrNoRules, ErrNoActiveDocument or
	// ErrNoCandidate when Status is StatusNotice.
	Reason error `json:"-"`
}

var noticeKeys = map[error]string{
	apperr.ErrNoRules:          "notices.groupHasNoRules",
	apperr.ErrNoActiveDocument: "notices.noActiveFile",
	apperr.ErrNoCandidate:      "notices.noCandidateFound",
}

// Service wires the resolver to its collaborators.
type Service struct {
	groups   GroupSource
	docs     DocumentSource
	opener   Opener
	notifier Notifier
	tr       *i18n.Translator
	logger   *slog.Logger
}

// New creates a navigation service.
func New(groups GroupSource, docs DocumentSource, opener Opener, notifier Notifier, tr *i18n.Translator, logger *slog.Logger) *Service {
	return &Service{
		groups:   groups,
		docs:     docs,
		opener:   opener,
		notifier: notifier,
		tr:       tr,
		logger:   logger,
	}
}

// Navigate moves from activePath in the given direction within a group.
//
// A group without rules, a missing active document and an unresolvable
// target are reported as notices, not errors. Errors are reserved for an
// unknown group and for failing collaborators.
func (s *Service) Navigate(ctx context.Context, groupID string, dir navigation.Direction, activePath string) (Outcome, error) {
	group, err := s.groups.Group(groupID)
	if err != nil {
		return Outcome{}, err
	}
	if len(group.Rules) == 0 {
		return s.notice(ctx, apperr.ErrNoRules), nil
	}
	active := CleanPath(activePath)
	if active == "" {
		return s.notice(ctx, apperr.ErrNoActiveDocument), nil
	}

	s.logger.Debug("navigate",
		slog.String("group", group.ID),
		slog.String("direction", string(dir)),
		slog.String("path", active),
	)

	docs, err := s.docs.ListDocuments(ctx)
	if err != nil {
		return Outcome{}, fmt.Errorf("navservice: list documents: %w", err)
	}
	target, ok := navigation.Resolve(group.Rules, docs, active, dir)
	if !ok {
		return s.notice(ctx, apperr.ErrNoCandidate), nil
	}
	if target.Path == active {
		return Outcome{Status: StatusUnchanged, Target: target.Path}, nil
	}
	if err := s.opener.Open(ctx, target); err != nil {
		return Outcome{}, fmt.Errorf("navservice: open %s: %w", target.Path, err)
	}
	return Outcome{Status: StatusOpened, Target: target.Path}, nil
}

// RunCommand invokes a command by its full or base id.
func (s *Service) RunCommand(ctx context.Context, commandID, activePath string) (Outcome, error) {
	groupID, dir, err := commands.Parse(commandID)
	if err != nil {
		return Outcome{}, fmt.Errorf("%w: %w", apperr.ErrNotFound, err)
	}
	return s.Navigate(ctx, groupID, dir, activePath)
}

func (s *Service) notice(ctx context.Context, reason error) Outcome {
	n := Notice{Key: noticeKeys[reason], Message: s.tr.T(noticeKeys[reason])}
	s.notifier.Notify(ctx, n)
	return Outcome{Status: StatusNotice, Notice: n.Message, Reason: reason}
}

// CleanPath converts a user-supplied path to the vault's slash-separated,
// root-relative form. Blank input stays blank.
func CleanPath(p string) string {
	p = strings.TrimSpace(strings.ReplaceAll(p, `\`, "/"))
	if p == "" {
		return ""
	}
	p = strings.TrimLeft(path.Clean("/"+p), "/")
	return p
}
