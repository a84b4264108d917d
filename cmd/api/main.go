package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	httpSwagger "github.com/swaggo/http-swagger"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	_ "github.com/fkhayef/calendar/docs"
	"github.com/fkhayef/calendar/internal/config"
	"github.com/fkhayef/calendar/internal/database"
	"github.com/fkhayef/calendar/internal/logger"
	mw "github.com/fkhayef/calendar/pkg/middleware"
)

// @title           Calendar Scheduling API
// @version         1.0
// @description     Calendars, events with recurrence, invitations, availability search, reminders and an in-app inbox.
// @host            localhost:8080
// @BasePath        /api/v1
func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	app := &cli.App{
		Name:  "calendar",
		Usage: "Calendar scheduling engine",
		Commands: []*cli.Command{
			serveCommand(),
			migrateCommand(),
			remindCommand(),
		},
		DefaultCommand: "serve",
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatalf("calendar: %v", err)
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP API and the reminder dispatcher",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "port", Usage: "Listen port, overrides PORT"},
			&cli.BoolFlag{Name: "migrate", Usage: "Apply the database schema before serving"},
			&cli.BoolFlag{Name: "no-dispatcher", Usage: "Do not poll and deliver due reminders"},
		},
		Action: func(c *cli.Context) error {
			cfg, zl, err := setup()
			if err != nil {
				return err
			}
			defer zl.Sync()

			if port := c.String("port"); port != "" {
				cfg.Port = port
			}

			ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := newApp(ctx, cfg, zl, c.Bool("migrate"))
			if err != nil {
				return err
			}
			defer a.Close()

			if !c.Bool("no-dispatcher") {
				if err := a.dispatcher.Start(cfg.ReminderPollSchedule); err != nil {
					return fmt.Errorf("failed to start reminder dispatcher: %w", err)
				}
				defer a.dispatcher.Stop()
			}

			srv := &http.Server{
				Addr:              ":" + cfg.Port,
				Handler:           router(a, zl),
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				zl.Info("server starting", zap.String("port", cfg.Port), zap.String("storage", cfg.StorageDriver))
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("server failed: %w", err)
				}
				return nil
			case <-ctx.Done():
			}

			zl.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
}

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Apply the PostgreSQL schema",
		Action: func(c *cli.Context) error {
			cfg, zl, err := setup()
			if err != nil {
				return err
			}
			defer zl.Sync()

			db, err := database.NewPostgresConnection(cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := database.Migrate(c.Context, db); err != nil {
				return err
			}
			zl.Info("schema applied")
			return nil
		},
	}
}

func remindCommand() *cli.Command {
	return &cli.Command{
		Name:  "remind",
		Usage: "Deliver every due reminder once and exit",
		Action: func(c *cli.Context) error {
			cfg, zl, err := setup()
			if err != nil {
				return err
			}
			defer zl.Sync()

			a, err := newApp(c.Context, cfg, zl, false)
			if err != nil {
				return err
			}
			defer a.Close()

			n, err := a.dispatcher.RunOnce(c.Context)
			if err != nil {
				return err
			}
			zl.Info("due reminders delivered", zap.Int("count", n))
			return nil
		},
	}
}

func setup() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	zl, err := logger.New(cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	return cfg, zl, nil
}

func router(a *app, zl *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(mw.RequestLogger(zl))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Swagger documentation
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(mw.ActorMiddleware)

		r.Mount("/calendars", a.calendarHandler.Routes())
		r.Mount("/events", a.eventHandler.Routes())
		r.Mount("/availability", a.availabilityHandler.Routes())
		r.Mount("/invitations", a.invitationHandler.Routes())
		r.Mount("/reminders", a.reminderHandler.Routes())
		r.Mount("/notifications", a.notificationHandler.Routes())
	})

	return r
}
