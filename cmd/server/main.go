package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"softfocus/internal/api"
	"softfocus/internal/app"
	"softfocus/internal/config"
	"softfocus/internal/middleware"
	"softfocus/internal/service/export"
	"softfocus/internal/ui"
)

func main() {
	root := &cobra.Command{
		Use:          "softfocus",
		Short:        "Interactive CSV exploration dashboard",
		SilenceUsage: true,
	}
	root.AddCommand(serveCmd(), cleanupCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig(logger *slog.Logger) (*config.Config, error) {
	if err := config.LoadDotEnv(".env"); err != nil {
		logger.Warn("could not load .env", "error", err)
	}
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return nil, err
	}
	for _, w := range cfg.Warnings {
		logger.Warn(w)
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	if cfg.IsProduction() {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the dashboard server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			bootLogger := slog.New(slog.NewTextHandler(os.Stderr, nil))
			cfg, err := loadConfig(bootLogger)
			if err != nil {
				return err
			}
			logger := newLogger(cfg)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a, err := app.New(ctx, app.Deps{Cfg: cfg, Logger: logger})
			if err != nil {
				logger.Error("startup failed", "error", err)
				return err
			}

			if err := a.Cleaner.Start(cfg.CleanupSchedule); err != nil {
				return err
			}
			defer a.Cleaner.Stop()

			r := chi.NewRouter()
			r.Use(chimw.RequestID)
			r.Use(chimw.Logger)
			r.Use(chimw.Recoverer)
			r.Use(cors.Handler(cors.Options{
				AllowedOrigins:   cfg.CORSAllowedOrigins,
				AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
				AllowedHeaders:   []string{"Accept", "Content-Type"},
				AllowCredentials: true,
			}))
			r.Use(middleware.RateLimiter(middleware.RateLimitConfig{
				RequestsPerSecond: cfg.RateLimitRPS,
				Burst:             cfg.RateLimitBurst,
			}))
			r.Use(middleware.Session)

			r.Get("/", func(w http.ResponseWriter, req *http.Request) {
				http.Redirect(w, req, "/ui", http.StatusSeeOther)
			})
			r.Mount("/api", api.NewHandler(a.Manager, a.Exporter, logger).Routes())
			r.Route("/ui", func(r chi.Router) {
				ui.MountRoutes(r, ui.NewHandler(a.Manager, a.Exporter, logger))
			})

			srv := &http.Server{
				Addr:              cfg.ListenAddr,
				Handler:           r,
				ReadHeaderTimeout: 10 * time.Second,
			}

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				logger.Info("listening", "addr", cfg.ListenAddr)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			})
			g.Go(func() error {
				a.Manager.ReapIdle(gctx)
				return nil
			})
			g.Go(func() error {
				<-gctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				a.Manager.CloseAll()
				return srv.Shutdown(shutdownCtx)
			})

			if err := g.Wait(); err != nil {
				logger.Error("server stopped", "error", err)
				return err
			}
			logger.Info("server stopped")
			return nil
		},
	}
}

func cleanupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cleanup",
		Short: "Remove aged export artifacts once and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			bootLogger := slog.New(slog.NewTextHandler(os.Stderr, nil))
			cfg, err := loadConfig(bootLogger)
			if err != nil {
				return err
			}
			logger := newLogger(cfg)

			cleaner := export.NewCleaner(cfg.ArtifactDir, cfg.RetentionAge, logger.With("component", "cleaner"))
			removed, err := cleaner.Sweep()
			if err != nil {
				return err
			}
			fmt.Printf("removed %d artifact(s) older than %s\n", removed, cfg.RetentionAge)
			return nil
		},
	}
}
