// Package server wires the mirror server: PostgreSQL storage, the gRPC
// service used by ledger clients and the read-only HTTP API.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/budgetbuddy/ledger/internal/logging"
	"github.com/budgetbuddy/ledger/internal/server/config"
	"github.com/budgetbuddy/ledger/internal/server/repositories/repomanager"
	"github.com/budgetbuddy/ledger/internal/server/services"
	_ "github.com/jackc/pgx/v5/stdlib"

	gs "github.com/budgetbuddy/ledger/internal/server/grpc"
	hs "github.com/budgetbuddy/ledger/internal/server/http"
)

type runner interface {
	Run(ctx context.Context) error
}

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	grpc   runner
	http   runner
}

// NewApp connects to PostgreSQL, migrates the schema and builds both servers.
func NewApp(ctx context.Context, cfg *config.Config, logger logging.Logger) (*App, error) {
	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db connect error: %w", err)
	}

	app, err := newApp(ctx, cfg, logger, db, repomanager.NewPostgresRepositoryManager())
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return app, nil
}

func newApp(ctx context.Context, cfg *config.Config, logger logging.Logger, db *sql.DB, rm repomanager.RepositoryManager) (*App, error) {
	if err := rm.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	us := services.NewUserService(db, rm, cfg)
	ds := services.NewDocumentService(db, rm)

	router := hs.NewRouter(hs.NewDocumentsHandler(ds, us, logger))

	return &App{
		config: cfg,
		logger: logger,
		db:     db,
		grpc:   gs.NewGRPCServer(cfg.EndpointAddrGRPC, logger, us, ds, cfg.SecretKey),
		http:   hs.NewServer(cfg.EndpointAddrHTTP, router, logger, cfg.ShutdownTimeout),
	}, nil
}

// Run serves until ctx is cancelled or one of the servers fails, which
// stops the other one too. The database is closed on return.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)

	start := func(name string, r runner) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := r.Run(ctx); err != nil {
				app.logger.Error(ctx, "server failed", "server", name, "error", err.Error())
				mu.Lock()
				if firstErr == nil {
					firstErr = fmt.Errorf("%s server: %w", name, err)
				}
				mu.Unlock()
				cancelFunc()
			}
		}()
	}

	start("grpc", app.grpc)
	start("http", app.http)

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Warn(ctx, "closing database", "error", err.Error())
	}

	app.logger.Info(ctx, "App stopped")
	return firstErr
}
