// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/starford/backlog/internal/cardcache"
	"github.com/starford/backlog/internal/credentials"
	"github.com/starford/backlog/internal/models"
	"github.com/starford/backlog/internal/trello"
	"github.com/starford/backlog/internal/triage"
)

// Run starts the triage session with the given options. It returns once the
// user quits and every dispatched card update has completed.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{
		in:     os.Stdin,
		out:    os.Stdout,
		errOut: os.Stderr,
	}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	// Initialize structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(app.errOut, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	list := models.ListListen
	if app.buy {
		list = models.ListBuy
	}

	logger.Info("Configuration loaded",
		slog.String("base_url", cfg.Trello.BaseURL),
		slog.String("list", list.String()),
		slog.String("list_id", cfg.Lists.IDs().ID(list)),
		slog.Bool("reverse", app.reverse),
		slog.Bool("use_keyring", cfg.Trello.UseKeyring),
		slog.Duration("cache_ttl", cfg.Triage.CacheTTL),
		slog.Int("max_in_flight", cfg.Triage.MaxInFlight),
		slog.String("log_level", cfg.App.LogLevel.String()))

	token := cfg.Trello.Token
	if cfg.Trello.UseKeyring {
		var storeOpts []credentials.Option
		if app.keyring != nil {
			storeOpts = append(storeOpts, credentials.WithKeyring(app.keyring))
		}
		var err error
		token, err = credentials.NewStore(storeOpts...).Resolve(cfg.Trello.Key, token)
		if err != nil {
			return fmt.Errorf("resolve token: %w", err)
		}
	}

	client, err := trello.NewClient(trello.Config{
		BaseURL:      cfg.Trello.BaseURL,
		Key:          cfg.Trello.Key,
		Token:        token,
		FetchTimeout: cfg.Trello.FetchTimeout,
	})
	if err != nil {
		return fmt.Errorf("init trello client: %w", err)
	}
	defer client.Close()

	rules, err := cfg.Triage.Rules()
	if err != nil {
		return fmt.Errorf("compile skip rules: %w", err)
	}

	cache := cardcache.New(client, cfg.Lists.IDs(), cfg.Triage.CacheTTL, cardcache.WithLogger(logger))

	loop := triage.NewLoop(cache, client, triage.Config{
		List:               list,
		Reverse:            app.reverse,
		MaxInFlight:        cfg.Triage.MaxInFlight,
		PollInterval:       cfg.Triage.PollInterval,
		InvalidateOnMutate: cfg.Triage.InvalidateOnMutate,
		Actions:            triage.DefaultActions(cfg.Lists.Buy),
		SkipRules:          rules,
	},
		triage.WithIO(app.in, app.out, app.errOut),
		triage.WithLogger(logger),
	)

	// The first signal quits like 'q' and still drains; a second one kills.
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	context.AfterFunc(ctx, stop)

	if err := loop.Run(ctx); err != nil {
		logger.Error("Triage stopped", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Triage finished")
	return nil
}
