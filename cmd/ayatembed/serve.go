package main

import (
	"context"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/danielledeleo/ayatembed/internal/server"
	"github.com/urfave/cli/v3"
)

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the embed server (reads config.yaml from the working directory)",
		Action: func(ctx context.Context, c *cli.Command) error {
			return serve(ctx)
		},
	}
}

func serve(ctx context.Context) error {
	app := server.Setup()

	srv := &http.Server{
		Addr:    app.Config.Host,
		Handler: app.Handler(),
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			errc <- err
		}
		close(errc)
	}()

	slog.Info("server starting", "url", "http://"+app.Config.Host, "base_url", app.Config.BaseURL)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Stop accepting requests before draining the fetch queue
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	slog.Info("shutting down fetch queue...")
	if err := app.Close(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}

	slog.Info("server stopped")
	return nil
}
