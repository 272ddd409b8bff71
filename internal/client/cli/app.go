// Package cli implements the interactive photo-pigeon client: a small REPL
// over the upload queue, the auth service, and the local database.
package cli

import (
	"bufio"
	"context"
	"database/sql"
	"log"
	"log/slog"
	"os"

	"github.com/gontarzpawel/photo-pigeon-send/internal/client/auth"
	"github.com/gontarzpawel/photo-pigeon-send/internal/client/client"
	"github.com/gontarzpawel/photo-pigeon-send/internal/client/config"
	"github.com/gontarzpawel/photo-pigeon-send/internal/client/ledger"
	"github.com/gontarzpawel/photo-pigeon-send/internal/client/metadata"
	"github.com/gontarzpawel/photo-pigeon-send/internal/client/queue"
	"github.com/gontarzpawel/photo-pigeon-send/internal/client/transport"
	"github.com/gontarzpawel/photo-pigeon-send/internal/logging"
)

type App struct {
	config      *config.Config
	db          *sql.DB
	authService *auth.Service
	store       *queue.Store
	scheduler   *queue.Scheduler
	reader      *bufio.Reader
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	db, err := client.InitDatabase(ctx, cfg.DatabasePath)
	if err != nil {
		log.Printf("error initializing database: %s", err.Error())
		return nil, err
	}

	led, err := ledger.Open(ctx, db)
	if err != nil {
		db.Close()
		return nil, err
	}

	authService, err := auth.NewService(ctx, metadata.NewSQLiteRepository(db))
	if err != nil {
		db.Close()
		return nil, err
	}

	// Queue internals log at warn and above so the REPL stays readable.
	slogger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	logger := logging.NewSlogLogger(slogger)

	store := queue.NewStore(led)
	scheduler := queue.NewScheduler(store, transport.New(), authService, led, logger,
		queue.WithConcurrency(cfg.Concurrency),
		queue.WithUploadTimeout(cfg.UploadTimeout),
	)

	return &App{
		config:      cfg,
		db:          db,
		authService: authService,
		store:       store,
		scheduler:   scheduler,
		reader:      bufio.NewReader(os.Stdin),
	}, nil
}

func (a *App) isLoggedIn() bool {
	return a.authService.IsLoggedIn()
}

// serverURL prefers the URL saved at login and falls back to the configured
// default.
func (a *App) serverURL() string {
	if url := a.authService.BaseURL(); url != "" {
		return url
	}
	return a.config.ServerURL
}

func (a *App) Run(ctx context.Context) {
	defer a.db.Close()
	a.Root(ctx)
	a.scheduler.Wait()
}
