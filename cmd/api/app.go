package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/suar-net/starter-be/internal/config"
	"github.com/suar-net/starter-be/internal/database"
	"github.com/suar-net/starter-be/internal/handler"
	"github.com/suar-net/starter-be/internal/logger"
	"github.com/suar-net/starter-be/internal/repository"
	"github.com/suar-net/starter-be/internal/service"
)

type app struct {
	cfg    *config.Config
	logger *zap.Logger
	db     *sql.DB
	router *chi.Mux
}

// loadEnvironment reads envFile into the process environment, then the
// configuration and logger from it.
func loadEnvironment(envFile string) (*config.Config, *zap.Logger, error) {
	envMissing := false
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return nil, nil, fmt.Errorf("failed to load %s: %w", envFile, err)
			}
			envMissing = true
		}
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}
	if envMissing {
		log.Info("No env file found, using environment variables from OS", zap.String("path", envFile))
	}
	return cfg, log, nil
}

// newApp wires storage, services and the route tree. Without a database
// host the items live in memory.
func newApp(ctx context.Context, cfg *config.Config, log *zap.Logger) (*app, error) {
	a := &app{cfg: cfg, logger: log}

	if cfg.DB.Enabled() {
		db, err := database.ConnectDB(cfg.DB)
		if err != nil {
			return nil, err
		}
		schemaCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		if err := database.EnsureSchema(schemaCtx, db); err != nil {
			db.Close()
			return nil, err
		}
		log.Info("Successfully connected to database", zap.String("host", cfg.DB.Host), zap.String("name", cfg.DB.Name))
		a.db = db
	} else {
		log.Info("No database configured, using the in-memory item store")
	}

	repo := repository.NewRepository(a.db)

	var authService service.IAuthService
	if cfg.JWT.Enabled() {
		authService = service.NewAuthService(cfg.JWT)
	}

	a.router = handler.SetupRouter(handler.Dependencies{
		Config:      cfg,
		DB:          a.db,
		ItemService: service.NewItemService(repo.Item()),
		AuthService: authService,
		Logger:      log,
	})
	return a, nil
}

func (a *app) Close() {
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn("failed to close database", zap.Error(err))
		}
	}
	_ = a.logger.Sync()
}
