package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"maktaba/internal/config"
	"maktaba/internal/models"
	"maktaba/internal/report"
	"maktaba/internal/repository"
	"maktaba/internal/server"
	"maktaba/internal/storage/fixtures"
	"maktaba/internal/storage/pg"
)

// App represents the application
type App struct {
	config *config.Config
	logger *zap.Logger

	db           *pg.DB // nil in fixture mode
	books        *repository.Repository[models.Book, models.BookPatch]
	participants *repository.Repository[models.Participant, models.ParticipantPatch]
	reports      *report.Service

	server *http.Server
}

// New creates and initializes a new application instance
func New() (*App, error) {
	// Load .env file if it exists
	loadedEnv := godotenv.Load() == nil

	logger, err := zap.NewProduction()
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	if !loadedEnv {
		logger.Info("No .env file found, using system environment variables")
	}

	// Load configuration from environment variables
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	app := &App{config: cfg, logger: logger}

	logger.Info("Starting maktaba")

	if err := app.initSources(); err != nil {
		return nil, err
	}
	app.initHTTPServer()

	return app, nil
}

// initSources selects the data source once, at startup, and builds the
// repositories and the report service over it. The selection is fixed for
// the process lifetime.
func (a *App) initSources() error {
	bookCfg := repository.Config{Name: "books", SortColumn: "updated_at", ForeignKey: "reader_id"}
	participantCfg := repository.Config{Name: "participants", SortColumn: "updated_at"}

	if a.config.UseFixtures {
		a.logger.Info("Using fixture dataset (no backend configured)")
		bookSrc := fixtures.NewBookSource()
		participantSrc := fixtures.NewParticipantSource()
		a.books = repository.New[models.Book, models.BookPatch](bookCfg, bookSrc, a.logger)
		a.participants = repository.New[models.Participant, models.ParticipantPatch](participantCfg, participantSrc, a.logger)
		a.reports = report.NewService(bookSrc, a.logger)
		return nil
	}

	a.logger.Info("Connecting to Postgres",
		zap.String("host", a.config.PostgresHost),
		zap.Int("port", a.config.PostgresPort),
		zap.String("database", a.config.PostgresDatabase),
		zap.String("user", a.config.PostgresUser),
	)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	db, err := pg.New(ctx, a.config.PostgresDSN())
	if err != nil {
		return fmt.Errorf("failed to connect to Postgres: %w", err)
	}
	a.db = db
	a.books = repository.New[models.Book, models.BookPatch](bookCfg, db.Books(), a.logger)
	a.participants = repository.New[models.Participant, models.ParticipantPatch](participantCfg, db.Participants(), a.logger)
	a.reports = report.NewService(db.Books(), a.logger)
	a.logger.Info("Database connection established")
	return nil
}

// initHTTPServer initializes the HTTP server for the dashboard API
func (a *App) initHTTPServer() {
	mux := http.NewServeMux()

	// Health check endpoint
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK")
	})

	// Prometheus metrics
	mux.Handle("/metrics", promhttp.Handler())

	api := server.New(a.books, a.participants, a.reports, a.logger)
	api.RegisterRoutes(mux)

	a.server = &http.Server{
		Addr:         ":" + a.config.Port,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}

// Run starts the application and blocks until shutdown
func (a *App) Run() error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		a.logger.Info("Starting HTTP server", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case <-sigChan:
		a.logger.Info("Shutting down")
	case err := <-errChan:
		a.logger.Error("HTTP server error", zap.Error(err))
		return err
	}
	return a.Shutdown()
}

// Shutdown gracefully shuts down the application
func (a *App) Shutdown() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("HTTP server shutdown error", zap.Error(err))
	}

	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Error("Error closing database", zap.Error(err))
			return err
		}
	}

	a.logger.Info("Shutdown complete")
	_ = a.logger.Sync()
	return nil
}
