// Package server wires configuration, storage, media backends and the
// HTTP and gRPC transports into a runnable application.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrijs2005/visittracker/internal/logging"
	"github.com/dmitrijs2005/visittracker/internal/server/blobstore"
	"github.com/dmitrijs2005/visittracker/internal/server/config"
	"github.com/dmitrijs2005/visittracker/internal/server/httpserver"
	"github.com/dmitrijs2005/visittracker/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/visittracker/internal/server/services"
	"github.com/dmitrijs2005/visittracker/internal/server/storage"

	gs "github.com/dmitrijs2005/visittracker/internal/server/grpc"
)

// logOutput is where the application logger writes.
var logOutput io.Writer = os.Stdout

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	http   *httpserver.Server
	grpc   *gs.GRPCServer
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	logger := logging.New(c.Environment, c.LogLevel, logOutput)

	store, db, err := openStore(ctx, c, logger)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	blobs, err := openBlobStore(ctx, c)
	if err != nil {
		closeDB(db)
		return nil, fmt.Errorf("blob store init error: %w", err)
	}

	ss := services.NewSyncService(store, blobs, logger)
	svc := httpserver.Services{
		Sync:    ss,
		Objects: services.NewObjectService(store, blobs, logger),
		Users:   services.NewUserService(store, c, logger),
		Notify:  services.NewNotifyService(logger),
	}

	return &App{
		config: c,
		logger: logger,
		db:     db,
		http:   httpserver.NewServer(c, logger, svc),
		grpc:   gs.NewGRPCServer(c, logger, ss),
	}, nil
}

// openStore picks PostgreSQL when a DSN is configured and the in-memory
// store otherwise.
func openStore(ctx context.Context, c *config.Config, logger logging.Logger) (storage.Store, *sql.DB, error) {
	if c.DatabaseDSN == "" {
		logger.Warn(ctx, "DATABASE_URL is empty, using in-memory store")
		return storage.NewMemoryStore(), nil, nil
	}

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		closeDB(db)
		return nil, nil, err
	}

	rm, err := repomanager.NewPostgresRepositoryManager(db)
	if err != nil {
		closeDB(db)
		return nil, nil, err
	}
	if err := rm.RunMigrations(ctx, db); err != nil {
		closeDB(db)
		return nil, nil, fmt.Errorf("migrations: %w", err)
	}

	return storage.NewPostgresStore(db, rm), db, nil
}

func openBlobStore(ctx context.Context, c *config.Config) (blobstore.BlobStore, error) {
	if c.BlobBackend == config.BlobBackendLocal {
		return blobstore.NewLocalStore(c.LocalMediaPath, c.LocalMediaURL)
	}
	return blobstore.NewS3Store(ctx, blobstore.S3Config{
		Endpoint:  c.S3Endpoint,
		Region:    c.S3Region,
		AccessKey: c.S3AccessKey,
		SecretKey: c.S3SecretKey,
		Bucket:    c.S3Bucket,
		PublicURL: c.S3PublicURL,
	})
}

func closeDB(db *sql.DB) {
	if db != nil {
		_ = db.Close()
	}
}

// Run starts both transports and blocks until a signal arrives, ctx is
// cancelled or one of the servers fails.
func (app *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app.logger.Info(ctx, "Starting app...", "environment", app.config.Environment, "blob_backend", app.config.BlobBackend)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return app.http.Run(gctx)
	})
	g.Go(func() error {
		return app.grpc.Run(gctx)
	})

	err := g.Wait()
	closeDB(app.db)
	app.logger.Info(ctx, "App stopped")
	return err
}
