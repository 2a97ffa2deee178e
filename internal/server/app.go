// Package server wires the diary backend together: database, object
// storage, services and the HTTP API. It also runs the cleanup job.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/gophdiary/internal/logging"
	"github.com/dmitrijs2005/gophdiary/internal/server/cleanup"
	"github.com/dmitrijs2005/gophdiary/internal/server/config"
	"github.com/dmitrijs2005/gophdiary/internal/server/httpapi"
	"github.com/dmitrijs2005/gophdiary/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophdiary/internal/server/services"
	"github.com/dmitrijs2005/gophdiary/internal/server/storage"
	"github.com/redis/go-redis/v9"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	db      *sql.DB
	redis   *redis.Client
	handler *httpapi.Handler
	router  httpapi.RouterOptions
}

func newLogger() logging.Logger {
	return logging.NewJSONLogger(os.Stdout, slog.LevelInfo)
}

// openDB connects to PostgreSQL and applies pending migrations.
func openDB(ctx context.Context, c *config.Config, m *repomanager.PostgresRepositoryManager) (*sql.DB, error) {
	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}
	if err := m.RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := newLogger()

	m := repomanager.NewPostgresRepositoryManager()
	db, err := openDB(ctx, c, m)
	if err != nil {
		return nil, err
	}

	store, err := storage.NewClient(ctx, c)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("storage init error: %w", err)
	}

	app := &App{config: c, logger: logger, db: db}
	app.router = httpapi.RouterOptions{Secret: []byte(c.SecretKey), UploadLimit: c.UploadRateLimit}
	if c.RedisAddr != "" {
		app.redis = redis.NewClient(&redis.Options{Addr: c.RedisAddr})
		app.router.UploadCounter = httpapi.NewRedisCounter(app.redis)
	}

	app.handler = httpapi.NewHandler(
		services.NewUserService(db, m, c, logger),
		services.NewDiaryService(db, m, logger),
		services.NewEntryService(db, m, logger),
		services.NewPostService(db, m, store, logger),
		services.NewImageService(db, m, store, logger),
		logger,
	)

	return app, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	router := httpapi.NewRouter(app.handler, app.router)
	s := httpapi.NewHTTPServer(app.config.EndpointAddrHTTP, router, app.logger)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if app.redis != nil {
		_ = app.redis.Close()
	}
	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err.Error())
	}
	app.logger.Info(ctx, "Stopped")
}

// RunCleanup performs one cleanup run and returns its report.
func RunCleanup(ctx context.Context, c *config.Config) (cleanup.Report, error) {
	logger := newLogger()

	m := repomanager.NewPostgresRepositoryManager()
	db, err := openDB(ctx, c, m)
	if err != nil {
		return cleanup.Report{}, err
	}
	defer db.Close()

	store, err := storage.NewClient(ctx, c)
	if err != nil {
		return cleanup.Report{}, fmt.Errorf("storage init error: %w", err)
	}

	r := cleanup.NewReconciler(db, m, store, logger, cleanup.OptionsFromConfig(c))
	return r.Run(ctx)
}

// CreateUser registers a user directly against the database.
func CreateUser(ctx context.Context, c *config.Config, name, password string) (string, error) {
	m := repomanager.NewPostgresRepositoryManager()
	db, err := openDB(ctx, c, m)
	if err != nil {
		return "", err
	}
	defer db.Close()

	u, err := services.NewUserService(db, m, c, logging.NewNopLogger()).Register(ctx, name, password)
	if err != nil {
		return "", err
	}
	return u.ID, nil
}
