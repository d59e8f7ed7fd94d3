package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/diewo77/store-admin/internal/backend"
	"github.com/diewo77/store-admin/internal/config"
	"github.com/diewo77/store-admin/internal/db"
	"github.com/diewo77/store-admin/internal/logger"
)

func main() {
	// Load environment variables from .env file
	_ = godotenv.Load()

	root := &cli.Command{
		Name:  "store-admin",
		Usage: "Back-office dashboard for the store API",
		Commands: []*cli.Command{
			serveCommand(),
			migrateCommand(),
			checkBackendCommand(),
		},
		Action: func(ctx context.Context, _ *cli.Command) error {
			return serve(ctx, config.Load())
		},
	}
	if err := root.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP server",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "addr", Usage: "listen address, overrides PORT"},
			&cli.BoolFlag{Name: "migrate", Usage: "apply migrations before serving"},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg := config.Load()
			if addr := c.String("addr"); addr != "" {
				cfg.Server.Port = addr
			}
			if c.Bool("migrate") {
				cfg.App.Migrations = true
			}
			return serve(ctx, cfg)
		},
	}
}

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Apply the local store migrations and exit",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "sql", Usage: "run the versioned SQL files instead of AutoMigrate"},
		},
		Action: func(_ context.Context, c *cli.Command) error {
			cfg := config.Load()
			log := logger.New(cfg.Log)
			defer func() { _ = log.Sync() }()
			conn, err := db.Open(cfg.Database, log)
			if err != nil {
				return err
			}
			if err := db.Migrate(conn, cfg.Database, c.Bool("sql"), log); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			log.Info("migrations completed")
			return nil
		},
	}
}

func checkBackendCommand() *cli.Command {
	return &cli.Command{
		Name:  "check-backend",
		Usage: "Verify that BACKEND_URL answers",
		Action: func(ctx context.Context, _ *cli.Command) error {
			cfg := config.Load()
			client, err := backend.New(backend.Options{BaseURL: cfg.Backend.URL, Timeout: cfg.Backend.Timeout})
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(ctx, cfg.Backend.Timeout)
			defer cancel()
			if err := client.Ping(ctx); err != nil {
				return err
			}
			fmt.Println("backend reachable:", cfg.Backend.URL)
			return nil
		},
	}
}

func serve(ctx context.Context, cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	log := logger.New(cfg.Log)
	defer func() { _ = log.Sync() }()

	conn, err := db.Open(cfg.Database, log)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	if cfg.App.Migrations {
		if err := db.Migrate(conn, cfg.Database, false, log); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	app, err := NewApp(cfg, conn, log)
	if err != nil {
		return err
	}
	defer app.Close()

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      app,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", zap.String("addr", srv.Addr), zap.Bool("dev", cfg.App.Dev))
		errCh <- srv.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-quit:
		log.Info("shutdown signal received", zap.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	}

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown", zap.Error(err))
		return err
	}
	log.Info("server stopped gracefully")
	return nil
}
