/*
serve.go - HTTP server command

STARTUP SEQUENCE:
  1. Config and store are opened by the root command
  2. Create API handler around the session engine
  3. Configure HTTP router (CORS origins from config)
  4. Start the month close scheduler
  5. Start server with graceful shutdown

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop the scheduler
  2. Stop accepting new connections
  3. Wait for active requests to complete (30s timeout)
  4. Close database connection (root command)
*/
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/warp/shift-payroll/api"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("port") {
			cfg.Port, _ = cmd.Flags().GetInt("port")
		}

		handler := api.NewHandler(engine, store)
		router := api.NewRouter(handler, cfg.AllowedOrigins)

		scheduler := api.NewMonthCloseScheduler(engine)
		scheduler.Enabled = cfg.MonthClose.Enabled
		scheduler.CheckInterval = cfg.MonthClose.CheckInterval
		scheduler.Start()
		defer scheduler.Stop()

		server := &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Port),
			Handler:      router,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		}

		// Start server in goroutine
		errc := make(chan error, 1)
		go func() {
			log.Printf("Server starting on http://localhost:%d (db: %s)", cfg.Port, cfg.DatabasePath)
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				errc <- err
			}
		}()

		// Wait for interrupt signal
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		select {
		case <-quit:
		case err := <-errc:
			return fmt.Errorf("server failed: %w", err)
		}

		log.Println("Shutting down server...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}

		log.Println("Server stopped")
		return nil
	},
}

func init() {
	serveCmd.Flags().IntP("port", "p", 0, "HTTP server port (overrides config)")
}
