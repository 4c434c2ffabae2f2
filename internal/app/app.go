// Package app assembles repositories, object storage and services from the
// configuration. The API server and the admin CLI share it.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"azimute/internal/auth"
	"azimute/internal/config"
	"azimute/internal/database"
	"azimute/internal/http/handler"
	"azimute/internal/metrics"
	"azimute/internal/repository/postgres"
	"azimute/internal/service"
	"azimute/internal/storage"
)

// App holds the live dependencies of one process.
type App struct {
	Config   *config.AppConfig
	Log      *zap.Logger
	DB       *sql.DB
	Storage  storage.Storage
	Services handler.Services
}

// Options selects optional parts of the assembly.
type Options struct {
	// Registerer receives the domain metrics; nil skips them.
	Registerer prometheus.Registerer
	// SkipStorage leaves Storage nil for commands that never touch the archive.
	SkipStorage bool
}

// New connects to PostgreSQL and object storage and builds every service.
func New(ctx context.Context, cfg *config.AppConfig, log *zap.Logger, opts Options) (*App, error) {
	if log == nil {
		log = zap.NewNop()
	}
	loc := cfg.Location()
	clock := func() time.Time { return time.Now().In(loc) }

	db, err := database.NewPostgres(ctx, cfg.Database, log)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	var store storage.Storage
	if !opts.SkipStorage {
		store, err = storage.NewMinIO(ctx, cfg.MinIO, log)
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("init object storage: %w", err)
		}
	}

	tokens, err := auth.NewTokens(cfg.Auth)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init tokens: %w", err)
	}

	var recorder service.TransitionRecorder
	if opts.Registerer != nil {
		m, err := metrics.NewObjectives(opts.Registerer)
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("register objective metrics: %w", err)
		}
		recorder = m
	}

	users := postgres.NewUserPostgres(db)
	subunits := postgres.NewSubunitPostgres(db)
	catalogRepo := postgres.NewCatalogPostgres(db)
	objectives := postgres.NewObjectivePostgres(db)
	notifications := postgres.NewNotificationPostgres(db)
	posts := postgres.NewPostPostgres(db)

	catalog := service.NewCatalogService(catalogRepo, log, clock)

	return &App{
		Config:  cfg,
		Log:     log,
		DB:      db,
		Storage: store,
		Services: handler.Services{
			Accounts: service.NewAccountService(users, tokens, service.AccountOptions{
				ResetPassword: cfg.App.ResetPassword,
				Clock:         clock,
			}),
			Objectives: service.NewObjectiveService(service.ObjectiveDeps{
				Users:         users,
				Catalog:       catalogRepo,
				Objectives:    objectives,
				Notifications: notifications,
				Recorder:      recorder,
				Logger:        log,
				Clock:         clock,
			}),
			Roster:  service.NewRosterService(users, subunits, notifications, log, clock),
			Catalog: catalog,
			Imports: service.NewImportService(service.ImportDeps{
				Users:          users,
				Subunits:       subunits,
				Catalog:        catalog,
				Storage:        store,
				EmailDomain:    cfg.App.EmailDomain,
				ImportPassword: cfg.App.ImportPassword,
				Logger:         log,
				Clock:          clock,
			}),
			Notifications: service.NewNotificationService(notifications, clock),
			Bulletin:      service.NewBulletinService(posts, cfg.App.PostValidity, clock),
		},
	}, nil
}

// Close releases the database pool.
func (a *App) Close() error {
	return a.DB.Close()
}
