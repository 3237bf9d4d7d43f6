package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/MyelinBots/vitals-go/config"
	"github.com/MyelinBots/vitals-go/internal/db"
	"github.com/MyelinBots/vitals-go/internal/db/repositories"
	"github.com/MyelinBots/vitals-go/internal/db/repositories/memstore"
	"github.com/MyelinBots/vitals-go/internal/healthcheck"
	"github.com/MyelinBots/vitals-go/internal/server"
	"github.com/MyelinBots/vitals-go/internal/services/nutrition"
)

var ErrUnknownUser = errors.New("no user with that email")

type Options struct {
	// InMemory serves from a map-backed store and skips postgres entirely.
	InMemory bool
}

// StartServer runs the HTTP service until ctx is cancelled.
func StartServer(ctx context.Context, cfg config.Config, opts Options, logger *slog.Logger) error {
	logger.Info("starting vitals",
		"version", cfg.AppConfig.Version,
		"env", cfg.AppConfig.Env,
		"port", cfg.AppConfig.Port,
		"in_memory", opts.InMemory,
	)
	if cfg.AuthConfig.JWTSecret == "change-me" {
		logger.Warn("JWT_SECRET is the built-in default, set it before exposing the service")
	}

	var (
		store  repositories.Store
		pinger healthcheck.Pinger
	)
	if opts.InMemory {
		store = memstore.New()
	} else {
		database, err := OpenDatabase(ctx, cfg.DBConfig, logger)
		if err != nil {
			return err
		}
		defer database.Close()
		store = repositories.NewStore(database)
		pinger = database
	}

	srv, err := server.New(cfg, store, pinger, nutrition.NewOpenFoodFactsClient(cfg.NutritionConfig), logger)
	if err != nil {
		return err
	}
	return srv.Run(ctx)
}

// OpenDatabase connects and brings the schema up to date.
func OpenDatabase(ctx context.Context, cfg config.DBConfig, logger *slog.Logger) (*db.DB, error) {
	database, err := db.Open(cfg)
	if err != nil {
		return nil, err
	}
	if err := database.Ping(ctx); err != nil {
		database.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := db.MigrateUp(cfg.URL()); err != nil {
		database.Close()
		return nil, err
	}
	logger.Info("database ready", "host", cfg.Host, "name", cfg.DataBase)
	return database, nil
}

// DeleteUser removes the account and everything recorded for it.
func DeleteUser(ctx context.Context, store repositories.Store, email string) error {
	u, err := store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("lookup user: %w", err)
	}
	if u == nil {
		return ErrUnknownUser
	}
	return store.Users().DeleteUser(ctx, u.ID)
}
