package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/backlog/internal"
	"github.com/starford/backlog/internal/credentials"
	"github.com/starford/backlog/internal/plot"
	pkgconfig "github.com/starford/backlog/pkg/config"
)

func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.Load(cmd.String("config"), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

func run(ctx context.Context, cmd *cli.Command) error {
	if n := cmd.Int("plot"); n > 0 {
		return plot.Render(os.Stdout, int(n))
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	opts := []internal.Option{
		internal.WithConfig(cfg),
		internal.WithBuy(cmd.Bool("buy")),
		internal.WithReverse(cmd.Bool("reverse")),
	}

	if err := internal.Run(ctx, opts...); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}

	return nil
}

func setToken(_ context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	token, err := credentials.ReadToken(os.Stdin, os.Stderr)
	if err != nil {
		return err
	}
	if err := credentials.NewStore().SetToken(cfg.Trello.Key, token); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "\nToken stored in keyring service %q\n", credentials.Service)
	return nil
}

func deleteToken(_ context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if err := credentials.NewStore().DeleteToken(cfg.Trello.Key); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Token removed from keyring service %q\n", credentials.Service)
	return nil
}

func main() {
	cmd := &cli.Command{
		Name:   "backlog",
		Usage:  "Triage a Trello list one weighted random card at a time",
		Action: run,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file (.yaml or .toml)",
				DefaultText: "config/config.yaml",
				Value:       "config/config.yaml",
				Sources:     cli.EnvVars("APP_CONFIG_FILE"),
			},
			&cli.BoolFlag{
				Name:  "buy",
				Usage: "Triage the buy list instead of the listen list",
			},
			&cli.BoolFlag{
				Name:  "reverse",
				Usage: "Weight the end of the list most heavily",
			},
			&cli.IntFlag{
				Name:  "plot",
				Usage: "Print the selection probabilities for `N` cards and exit",
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "token",
				Usage: "Manage the Trello API token",
				Commands: []*cli.Command{
					{
						Name:   "set",
						Usage:  "Read a token from stdin and store it in the OS keyring",
						Action: setToken,
					},
					{
						Name:   "delete",
						Usage:  "Remove the stored token from the OS keyring",
						Action: deleteToken,
					},
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
