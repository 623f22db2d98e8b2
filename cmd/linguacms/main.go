// Copyright (c) 2026 linguacms authors
// SPDX-License-Identifier: GPL-3.0-or-later

// Command linguacms runs the locale-aware content server: localized
// routes generated from a static route table, translated content with
// fallback, and a JSON management API.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/linguacms/linguacms/internal/cache"
	"github.com/linguacms/linguacms/internal/config"
	"github.com/linguacms/linguacms/internal/handler"
	"github.com/linguacms/linguacms/internal/i18n"
	"github.com/linguacms/linguacms/internal/locale"
	"github.com/linguacms/linguacms/internal/logging"
	"github.com/linguacms/linguacms/internal/middleware"
	"github.com/linguacms/linguacms/internal/routing"
	"github.com/linguacms/linguacms/internal/scheduler"
	"github.com/linguacms/linguacms/internal/store"
	"github.com/linguacms/linguacms/internal/translation"
	"github.com/linguacms/linguacms/internal/version"
)

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	envFile := flag.String("env", ".env", "path to env file (optional)")
	flag.Parse()

	if *showVersion {
		fmt.Println("linguacms " + version.String())
		return
	}

	// Missing .env is fine; real deployments set the environment directly.
	if err := godotenv.Load(*envFile); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "loading %s: %v\n", *envFile, err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration: %v\n", err)
		os.Exit(1)
	}

	log := newLogger(cfg)
	slog.SetDefault(log)

	if err := run(cfg, log); err != nil {
		log.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.IsDevelopment() {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}

func run(cfg *config.Config, log *slog.Logger) error {
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("migrating database: %w", err)
	}
	q := store.New(db)

	// From here on, warnings and errors also land in the events table.
	log = slog.New(logging.NewEventLogHandler(log.Handler(), q))
	slog.SetDefault(log)

	if cfg.DoSeed {
		if err := store.Seed(context.Background(), db, log); err != nil {
			return fmt.Errorf("seeding: %w", err)
		}
	}

	reg, err := locale.NewRegistry(cfg.Locales, cfg.DefaultLocale, cfg.FallbackLocale)
	if err != nil {
		return err
	}
	table, err := routing.Build(routing.DefaultRoutes(), reg, routing.DefaultPaths())
	if err != nil {
		return err
	}
	log.Info("route table built", "routes", table.Len(), "locales", reg.Codes(), "default", reg.Default().Code)

	ui, err := i18n.New(reg.Default().Code, reg.Codes(), log)
	if err != nil {
		return err
	}

	c := cache.New(cfg, log)
	tr := translation.NewService(q, reg, cache.NewTranslations(c), log)

	sched := scheduler.New(q, tr, log)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("starting scheduler: %w", err)
	}
	defer sched.Stop()

	frontend := handler.NewFrontend(q, tr, ui, table, reg, log)
	api := handler.NewAPI(q, tr, reg, log)
	diag := handler.NewDiagnostics(db, q, table, c, log)
	writeLimiter := middleware.NewRateLimiter(cfg.WriteRateLimit, cfg.WriteRateBurst)

	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.TrimTrailingSlash)
	r.Use(middleware.LocaleResolver(reg))

	if err := routing.Mount(r, table, frontend.Handlers()); err != nil {
		return err
	}
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(writeLimiterMiddleware(writeLimiter))
		api.Routes(r)
	})
	diag.Routes(r)

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", srv.Addr, "version", version.Version, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		log.Info("shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// writeLimiterMiddleware rate limits mutating methods only; reads on
// the management API stay unthrottled.
func writeLimiterMiddleware(rl *middleware.RateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		limited := rl.Handler(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
				limited.ServeHTTP(w, r)
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}
