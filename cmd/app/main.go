package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/filenav/internal"
	"github.com/starford/filenav/internal/navigation"
	pkgconfig "github.com/starford/filenav/pkg/config"
)

var version = "dev"

func options(cmd *cli.Command) ([]internal.Option, error) {
	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.LoadOptional(cmd.String("config"), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return []internal.Option{internal.WithConfig(cfg)}, nil
}

func serve(ctx context.Context, cmd *cli.Command) error {
	opts, err := options(cmd)
	if err != nil {
		return err
	}
	if err := internal.Run(ctx, opts...); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}
	return nil
}

func nav(ctx context.Context, cmd *cli.Command) error {
	opts, err := options(cmd)
	if err != nil {
		return err
	}
	return internal.Navigate(ctx, cmd.String("group"), cmd.String("direction"), cmd.String("active"), opts...)
}

func run(ctx context.Context, cmd *cli.Command) error {
	id := cmd.Args().First()
	if id == "" {
		return fmt.Errorf("command id is required")
	}
	opts, err := options(cmd)
	if err != nil {
		return err
	}
	return internal.RunCommand(ctx, id, cmd.String("active"), opts...)
}

func listCommands(ctx context.Context, cmd *cli.Command) error {
	opts, err := options(cmd)
	if err != nil {
		return err
	}
	return internal.ListCommands(ctx, opts...)
}

func listGroups(ctx context.Context, cmd *cli.Command) error {
	opts, err := options(cmd)
	if err != nil {
		return err
	}
	return internal.ListGroups(ctx, cmd.Bool("json"), opts...)
}

func mcp(ctx context.Context, cmd *cli.Command) error {
	opts, err := options(cmd)
	if err != nil {
		return err
	}
	return internal.ServeMCP(ctx, version, opts...)
}

func activeFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "active",
		Aliases: []string{"a"},
		Usage:   "Vault-relative path of the active document",
		Sources: cli.EnvVars("FILENAV_ACTIVE"),
	}
}

func main() {
	cmd := &cli.Command{
		Name:    "filenav",
		Usage:   "Move between related Markdown notes using rule-driven navigation groups",
		Version: version,
		Action:  serve,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "config/config.yaml",
				Value:       "config/config.yaml",
				Sources:     cli.EnvVars("APP_CONFIG_FILE"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP API, vault watcher and event stream",
				Action: serve,
			},
			{
				Name:  "nav",
				Usage: "Navigate once and print the target path",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "group",
						Aliases:  []string{"g"},
						Usage:    "Group id or name",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "direction",
						Aliases: []string{"d"},
						Usage:   fmt.Sprintf("One of %v", navigation.Directions),
						Value:   string(navigation.Next),
					},
					activeFlag(),
				},
				Action: nav,
			},
			{
				Name:      "run",
				Usage:     "Invoke a navigation command by id",
				ArgsUsage: "<command-id>",
				Flags:     []cli.Flag{activeFlag()},
				Action:    run,
			},
			{
				Name:   "commands",
				Usage:  "List navigation commands",
				Action: listCommands,
			},
			{
				Name:  "groups",
				Usage: "List navigation groups and rules",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Print the normalized settings as JSON",
					},
				},
				Action: listGroups,
			},
			{
				Name:   "mcp",
				Usage:  "Serve MCP tools on stdio",
				Action: mcp,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
