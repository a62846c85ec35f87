package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/outreach/internal/config"
	"github.com/outreach/internal/directory"
	"github.com/outreach/internal/dispatch"
	"github.com/outreach/internal/mailer"
)

type App struct {
	config    *config.Config
	logger    *slog.Logger
	directory *directory.Directory
	engine    *dispatch.Engine
}

// New loads configuration from the environment and flags and builds the app.
func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return NewWithConfig(ctx, cfg, newLogger(cfg))
}

// NewWithConfig builds the app from an existing configuration. The contact
// directory is loaded here, once, and shared read-only afterwards.
func NewWithConfig(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	dir, err := directory.Load(ctx, cfg.DirectorySource)
	if err != nil {
		return nil, err
	}
	logger.Info("contact directory loaded", "contacts", dir.Len())

	transport, err := NewTransport(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("mail transport: %w", err)
	}

	engine := dispatch.New(dir, transport,
		dispatch.WithWorkers(cfg.DispatchWorkers),
		dispatch.WithLogger(logger),
	)

	return &App{
		config:    cfg,
		logger:    logger,
		directory: dir,
		engine:    engine,
	}, nil
}

// Engine exposes the dispatch engine for callers that run batches directly.
func (app *App) Engine() *dispatch.Engine {
	return app.engine
}

// NewTransport builds the mail transport selected by MAIL_TRANSPORT.
func NewTransport(cfg *config.Config, logger *slog.Logger) (mailer.Transport, error) {
	switch cfg.MailTransport {
	case "smtp":
		t, err := mailer.NewSMTPTransport(mailer.SMTPConfig{
			Host:    cfg.SMTPHost,
			Port:    cfg.SMTPPort,
			TLSMode: cfg.SMTPTLSMode,
		})
		if err != nil {
			return nil, err
		}
		return t, nil
	case "postmark":
		return mailer.NewPostmarkTransport(cfg.PostmarkAccountToken), nil
	case "log":
		return mailer.NewLogTransport(logger), nil
	default:
		return nil, fmt.Errorf("%w: unknown transport %q", mailer.ErrInvalidConfig, cfg.MailTransport)
	}
}

// Start serves HTTP until ctx is cancelled, then shuts down gracefully.
func (app *App) Start(ctx context.Context) error {
	// Create an errgroup derived from the parent context
	g, gctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:        fmt.Sprintf(":%s", app.config.Port),
		Handler:     app.routes(),
		IdleTimeout: time.Minute,
		ReadTimeout: 30 * time.Second,
		// A batch is answered only after every recipient was attempted.
		WriteTimeout: 10 * time.Minute,
		ErrorLog:     slog.NewLogLogger(app.logger.Handler(), slog.LevelError),
	}

	g.Go(func() error {
		app.logger.Info("starting server", "addr", srv.Addr, "env", app.config.Env, "transport", app.config.MailTransport)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done() // Wait for OS signal or parent context to fail

		app.logger.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	app.logger.Info("stopped server")
	return nil
}

func newLogger(cfg *config.Config) *slog.Logger {
	logLevel := slog.LevelInfo

	if cfg.IsDevelopment() {
		logLevel = slog.LevelDebug
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))

	slog.SetDefault(logger)
	return logger
}
