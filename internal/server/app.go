// Package server initializes and runs the photo ingestion server.
// It prepares the uploads tree and user database, rebuilds the dedup index,
// and serves the HTTP API with graceful shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/gontarzpawel/photo-pigeon-send/internal/analytics"
	"github.com/gontarzpawel/photo-pigeon-send/internal/filex"
	"github.com/gontarzpawel/photo-pigeon-send/internal/logging"
	"github.com/gontarzpawel/photo-pigeon-send/internal/server/config"
	"github.com/gontarzpawel/photo-pigeon-send/internal/server/handler"
	"github.com/gontarzpawel/photo-pigeon-send/internal/server/middleware"
	"github.com/gontarzpawel/photo-pigeon-send/internal/server/storage"
	"github.com/gontarzpawel/photo-pigeon-send/internal/server/users"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	store   *storage.Store
	handler *handler.Handler
	sink    analytics.Sink
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	slogger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(slogger)

	if err := filex.EnsureDir(cfg.UploadsDir); err != nil {
		return nil, fmt.Errorf("create uploads directory: %w", err)
	}
	if err := filex.EnsureDir(cfg.DataDir); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	db, err := initDatabase(ctx, filepath.Join(cfg.DataDir, "users.db"))
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	store := storage.New(cfg.UploadsDir, logger)
	if err := store.Load(ctx); err != nil {
		return nil, fmt.Errorf("load photo hashes: %w", err)
	}

	var sink analytics.Sink = analytics.Noop{}
	if cfg.HeapAppID != "" {
		sink = analytics.NewHeap(cfg.HeapAppID, cfg.HeapAPIKey)
	}

	userService := users.NewService(users.NewSQLiteRepository(db), cfg)
	h := handler.New(store, userService, cfg.MaxUploadBytes, logger, sink)

	return &App{config: cfg, logger: logger, store: store, handler: h, sink: sink}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Router assembles the gin engine with CORS, public auth routes and the
// token-protected upload route.
func (app *App) Router() *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"POST", "GET", "OPTIONS", "PUT"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "x-heap-user-id"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.POST("/login", app.handler.Login)
	router.POST("/register", app.handler.Register)

	authorized := router.Group("/")
	authorized.Use(middleware.Auth([]byte(app.config.SecretKey), app.sink))
	authorized.POST("/upload", app.handler.Upload)

	return router
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "addr", app.config.Addr)

	app.initSignalHandler(cancelFunc)

	srv := &http.Server{
		Addr:    app.config.Addr,
		Handler: app.Router(),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.logger.Error(ctx, err.Error())
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			app.logger.Error(ctx, err.Error())
		}
	}

	app.logger.Info(ctx, "Server stopped")
}
