package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/Shivanand-hulikatti/eventhub/internal/handler"
	"github.com/Shivanand-hulikatti/eventhub/internal/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		// ── 1. Configuration and storage ─────────────────────────────────────
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		sys, closeStore, err := openSystem(ctx, cfg)
		if err != nil {
			return err
		}
		defer closeStore()

		// ── 2. Wire up layers ────────────────────────────────────────────────
		eventHandler := handler.NewEventHandler(sys)
		authHandler := handler.NewAuthHandler(sys, cfg.JWTSecret, cfg.TokenTTL)
		router := handler.NewRouter(eventHandler, authHandler)

		// ── 3. Start server with graceful shutdown ───────────────────────────
		srv := &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.ServerPort),
			Handler:      router,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  cfg.IdleTimeout,
			ErrorLog:     slog.NewLogLogger(logger.Default().Handler(), slog.LevelError),
		}

		serverErr := make(chan error, 1)
		go func() {
			logger.Info("server listening", "addr", srv.Addr, "store", cfg.StoreDriver)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				serverErr <- err
			}
			close(serverErr)
		}()

		// Block until SIGINT/SIGTERM cancels ctx or the listener fails.
		select {
		case err := <-serverErr:
			if err != nil {
				return fmt.Errorf("server error: %w", err)
			}
			return nil
		case <-ctx.Done():
		}

		logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		logger.Info("server stopped")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
