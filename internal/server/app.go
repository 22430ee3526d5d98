// Package server initializes and runs the book delivery backend.
// It opens the database, applies migrations, wires the services together,
// handles graceful shutdown, and starts the HTTP server.
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

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/bookdelivery/backend/internal/logging"
	"github.com/bookdelivery/backend/internal/server/config"
	"github.com/bookdelivery/backend/internal/server/httpapi"
	"github.com/bookdelivery/backend/internal/server/repositories/repomanager"
	"github.com/bookdelivery/backend/internal/server/services"
)

type App struct {
	config            *config.Config
	logger            logging.Logger
	db                *sql.DB
	authService       *services.AuthService
	bookService       *services.BookService
	orderService      *services.OrderService
	statisticsService *services.StatisticsService
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	sl := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(sl)

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	m := repomanager.NewPostgresRepositoryManager()
	if err := m.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("db migration error: %w", err)
	}

	rts := services.NewRefreshTokenService(db, m, cfg)
	as := services.NewAuthService(db, m, rts, logger, cfg)
	bs := services.NewBookService(db, m)
	ors := services.NewOrderService(db, m)
	ss := services.NewStatisticsService(db, m)

	return &App{
		config:            cfg,
		logger:            logger,
		db:                db,
		authService:       as,
		bookService:       bs,
		orderService:      ors,
		statisticsService: ss,
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

	s := httpapi.NewServer(
		app.config.EndpointAddrHTTP,
		app.logger,
		app.authService,
		app.bookService,
		app.orderService,
		app.statisticsService,
		app.config.SecretKey,
	)

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
		app.logger.Error(ctx, err.Error())
	}
}
