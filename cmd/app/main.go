package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/virel/pagesmith/internal"
	"github.com/virel/pagesmith/internal/content"
	"github.com/virel/pagesmith/internal/mcpserver"
	"github.com/virel/pagesmith/internal/remote"
	pkgconfig "github.com/virel/pagesmith/pkg/config"
)

func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.LoadIfPresent(cmd.String("config"), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

func runServe(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	opts := []internal.Option{
		internal.WithConfig(cfg),
	}

	if err := internal.Run(ctx, opts...); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}

	return nil
}

func runMCP(_ context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	var store remote.Provider
	switch cfg.Store.Mode {
	case internal.StoreModeFS:
		fsStore, err := remote.NewFS(cfg.Store.FS.Path)
		if err != nil {
			return fmt.Errorf("init store: %w", err)
		}
		store = fsStore
	default:
		store = remote.NewGitHub(remote.GitHubOptions{
			BaseURL: cfg.Store.GitHub.BaseURL,
			Owner:   cfg.Store.GitHub.Owner,
			Repo:    cfg.Store.GitHub.Repo,
			Branch:  cfg.Store.GitHub.Branch,
			Token:   cfg.Store.GitHub.Token,
		})
	}

	return mcpserver.New(content.NewRepository(store)).ServeStdio()
}

func main() {
	configFlag := &cli.StringFlag{
		Name:        "config",
		Aliases:     []string{"c"},
		Usage:       "Path to config file",
		DefaultText: "config/config.yaml",
		Value:       "config/config.yaml",
		Sources:     cli.EnvVars("APP_CONFIG_FILE"),
	}

	cmd := &cli.Command{
		Name:   "pagesmith",
		Usage:  "Admin backend for a GitHub Pages blog: posts, pages, settings and media over the repository contents",
		Action: runServe,
		Flags:  []cli.Flag{configFlag},
		Commands: []*cli.Command{
			{
				Name:   "mcp",
				Usage:  "Serve blog management tools over MCP stdio transport",
				Action: runMCP,
				Flags:  []cli.Flag{configFlag},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
