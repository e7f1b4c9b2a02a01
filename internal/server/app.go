// Package server initializes and runs the LoveLetters API server.
// It opens the database, applies migrations, wires services and the mail
// dispatcher, and serves HTTP until a termination signal arrives.
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

	"github.com/dmitrijs2005/loveletters/internal/logging"
	"github.com/dmitrijs2005/loveletters/internal/server/config"
	"github.com/dmitrijs2005/loveletters/internal/server/db"
	"github.com/dmitrijs2005/loveletters/internal/server/httpapi"
	"github.com/dmitrijs2005/loveletters/internal/server/mailer"
	"github.com/dmitrijs2005/loveletters/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/loveletters/internal/server/services"
	"github.com/dmitrijs2005/loveletters/internal/server/storage"
)

type App struct {
	config        *config.Config
	logger        logging.Logger
	db            *sql.DB
	userService   *services.UserService
	letterService *services.LetterService
	presigner     *storage.Presigner
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger := logging.NewJSONLogger(os.Stdout, slog.LevelInfo)

	conn, err := db.Open(ctx, c.DatabaseDSN, c.DatabaseTLS)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	logger.Info(ctx, "Connected to the database", "tls", c.DatabaseTLS)

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, conn); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	dispatcher := mailer.NewDispatcher(mailer.SettingsFromConfig(c), logger)

	// Uploads are optional; the API works without object storage.
	presigner, err := storage.NewPresigner(ctx, c)
	if err != nil {
		logger.Warn(ctx, "uploads disabled", "error", err)
		presigner = nil
	}

	return &App{
		config:        c,
		logger:        logger,
		db:            conn,
		userService:   services.NewUserService(conn, rm, c),
		letterService: services.NewLetterService(conn, rm, dispatcher),
		presigner:     presigner,
	}, nil
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

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	opts := httpapi.Options{
		Address:     app.config.EndpointAddr,
		CORSOrigins: app.config.CORSOrigins,
		RequireAuth: app.config.RequireAuth,
		Users:       app.userService,
		Letters:     app.letterService,
	}
	if app.presigner != nil {
		opts.Uploads = app.presigner
	}

	s := httpapi.NewServer(opts, app.logger)

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

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}
	app.logger.Info(ctx, "Stopped")
}
