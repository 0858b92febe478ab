// Package app initializes and runs the main application service.
// It configures logging, storage, authentication, and routing,
// and handles graceful shutdown.
package app

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/patric-chuzhbe/shortlinks/internal/auth"
	"github.com/patric-chuzhbe/shortlinks/internal/config"
	"github.com/patric-chuzhbe/shortlinks/internal/db/memorystorage"
	"github.com/patric-chuzhbe/shortlinks/internal/db/postgresdb"
	"github.com/patric-chuzhbe/shortlinks/internal/db/storage"
	"github.com/patric-chuzhbe/shortlinks/internal/logger"
	"github.com/patric-chuzhbe/shortlinks/internal/router"
	"github.com/patric-chuzhbe/shortlinks/internal/service"
)

// App encapsulates the configuration, HTTP handler, and storage backend
// needed to run the URL shortener service.
type App struct {
	cfg         *config.Config
	db          storage.Storage
	httpHandler http.Handler
}

// New initializes a new instance of App by:
// - loading configuration
// - initializing logger
// - selecting and setting up storage
// - setting up the router and middleware
func New() (*App, error) {
	var err error
	app := &App{}

	app.cfg, err = config.New()
	if err != nil {
		return nil, err
	}

	err = logger.Init(app.cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	app.db, err = getStorageByType(app.cfg)
	if err != nil {
		return nil, err
	}

	authTokenSigningSecretKey, err := base64.URLEncoding.DecodeString(app.cfg.AuthTokenSigningSecretKey)
	if err != nil {
		return nil, err
	}

	theAuth := auth.New(
		app.cfg.AuthCookieName,
		authTokenSigningSecretKey,
		app.cfg.AuthTokenTTL,
	)

	theService := service.New(app.db, theAuth, app.cfg.ShortKeyLength)

	app.httpHandler = router.New(
		theService,
		theAuth,
		app.cfg.ShortURLBase,
		app.cfg.CORSOrigin,
	)

	return app, nil
}

// Run starts the HTTP server with graceful shutdown support.
// It listens for system signals and cleans up resources upon termination.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Log.Infoln("server running", "RunAddr", a.cfg.RunAddr)

	server := &http.Server{
		Addr:    a.cfg.RunAddr,
		Handler: a.httpHandler,
	}

	serverErrCh := make(chan error, 1)
	go func() {
		serverErrCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Log.Infoln("Received shutdown signal. Closing storage and exiting...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}

		return a.db.Close()

	case err := <-serverErrCh:
		return fmt.Errorf("server error: %w", err)
	}
}

// Close finalizes resources used by App such as logging.
func (a *App) Close() {
	if err := logger.Sync(); err != nil {
		fmt.Println("Logger sync error:", err)
	}
}

func getStorageByType(cfg *config.Config) (storage.Storage, error) {
	if cfg.DatabaseDSN != "" {
		return postgresdb.New(
			context.Background(),
			cfg.DatabaseDSN,
			cfg.DBConnectionTimeout,
			cfg.MigrationsDir,
		)
	}

	return memorystorage.New()
}
