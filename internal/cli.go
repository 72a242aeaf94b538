package internal

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/starford/filenav/internal/apperr"
	"github.com/starford/filenav/internal/mcpserver"
	"github.com/starford/filenav/internal/models"
	"github.com/starford/filenav/internal/navigation"
	"github.com/starford/filenav/internal/navservice"
	"github.com/starford/filenav/internal/settings"
)

// withCLI runs fn against a bootstrapped runtime whose navigator prints the
// opened path to stdout and notices to stderr. Logs go to stderr so stdout
// stays scriptable.
func withCLI(ctx context.Context, opts []Option, fn func(*application, *runtime, *navservice.Service) error) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}

	logger := newLogger(app.stderr, app.config.App.LogLevel)
	rt, err := bootstrap(ctx, app.config, logger)
	if err != nil {
		return err
	}
	defer rt.Close()

	out, errOut := printerFor(app.stdout), printerFor(app.stderr)
	nav := rt.navigator(
		navservice.OpenerFunc(func(_ context.Context, doc models.Document) error {
			out.Path(doc.Path)
			return nil
		}),
		navservice.NotifierFunc(func(_ context.Context, n navservice.Notice) {
			errOut.Notice(n.Message)
		}),
	)
	return fn(app, rt, nav)
}

// Navigate resolves one navigation request for the group identified by id
// or name.
func Navigate(ctx context.Context, groupRef, direction, activePath string, opts ...Option) error {
	dir, err := navigation.ParseDirection(direction)
	if err != nil {
		return err
	}
	return withCLI(ctx, opts, func(_ *application, rt *runtime, nav *navservice.Service) error {
		g, err := findGroup(rt.settings.Snapshot(), groupRef)
		if err != nil {
			return err
		}
		_, err = nav.Navigate(ctx, g.ID, dir, activePath)
		return err
	})
}

// RunCommand invokes a command by its full or base id.
func RunCommand(ctx context.Context, commandID, activePath string, opts ...Option) error {
	return withCLI(ctx, opts, func(_ *application, rt *runtime, nav *navservice.Service) error {
		cmd, err := rt.registry.Lookup(commandID)
		if err != nil {
			return err
		}
		_, err = nav.RunCommand(ctx, cmd.ID, activePath)
		return err
	})
}

// ListCommands prints every registered command.
func ListCommands(ctx context.Context, opts ...Option) error {
	return withCLI(ctx, opts, func(app *application, rt *runtime, _ *navservice.Service) error {
		printerFor(app.stdout).Commands(rt.registry.List())
		return nil
	})
}

// ListGroups prints the groups and their rules, or the normalized settings
// JSON when asJSON is set.
func ListGroups(ctx context.Context, asJSON bool, opts ...Option) error {
	return withCLI(ctx, opts, func(app *application, rt *runtime, _ *navservice.Service) error {
		s := rt.settings.Snapshot()
		if !asJSON {
			printerFor(app.stdout).Groups(rt.tr, s)
			return nil
		}
		enc := json.NewEncoder(app.stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(s)
	})
}

// ServeMCP runs the MCP server on stdio until the client disconnects.
func ServeMCP(ctx context.Context, version string, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}

	// stdout carries the protocol.
	logger := newLogger(app.stderr, app.config.App.LogLevel)
	slog.SetDefault(logger)

	rt, err := bootstrap(ctx, app.config, logger)
	if err != nil {
		return err
	}
	defer rt.Close()

	opener := navservice.OpenerFunc(func(_ context.Context, doc models.Document) error {
		logger.Info("open document", slog.String("path", doc.Path))
		return nil
	})
	notifier := navservice.NotifierFunc(func(_ context.Context, n navservice.Notice) {
		logger.Info("notice", slog.String("key", n.Key), slog.String("message", n.Message))
	})

	srv := mcpserver.New(mcpserver.Deps{
		Settings:  rt.settings,
		Commands:  rt.registry,
		Navigator: rt.navigator(opener, notifier),
		Documents: rt.db,
		Store:     rt.store,
	}, version)

	logger.Info("MCP server starting on stdio")
	return srv.ServeStdio()
}

// findGroup matches ref against group ids first, then trimmed names.
func findGroup(s settings.Settings, ref string) (settings.Group, error) {
	if g, ok := s.Group(ref); ok {
		return g, nil
	}
	name := strings.TrimSpace(ref)
	for _, g := range s.Groups {
		if strings.TrimSpace(g.Name) == name {
			return g, nil
		}
	}
	return settings.Group{}, fmt.Errorf("group %q: %w", ref, apperr.ErrNotFound)
}
