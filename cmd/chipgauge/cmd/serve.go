package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/MeKo-Tech/chipgauge/internal/server"
)

// newServeCmd builds the serve command.
func newServeCmd() *cobra.Command {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start HTTP server for the measurement API",
		Long: `Start an HTTP server that provides REST API endpoints for chip
package measurement.

The server provides the following endpoints:
  POST /measure     - Measure an uploaded image
  POST /batch       - Measure a JSON batch of images
  GET  /ws/progress - Stream batch progress over WebSocket
  GET  /health      - Health check endpoint
  GET  /metrics     - Prometheus metrics

Examples:
  chipgauge serve
  chipgauge serve --port 8080
  chipgauge serve --host 0.0.0.0 --port 3000`,
		SilenceUsage: true,
		RunE:         runServe,
	}

	serveCmd.Flags().String("host", "", "host to bind the server to")
	serveCmd.Flags().IntP("port", "p", 0, "port to bind the server to")
	serveCmd.Flags().String("cors-origin", "", "CORS allowed origin")
	serveCmd.Flags().Int("max-upload-size", 0, "maximum upload size in MB")
	serveCmd.Flags().Int("timeout", 0, "request timeout in seconds")
	serveCmd.Flags().Int("shutdown-timeout", 0, "graceful shutdown timeout in seconds")
	serveCmd.Flags().Bool("annotate-enable", true, "allow annotated image responses")

	return serveCmd
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	host := cfg.Server.Host
	if cmd.Flags().Changed("host") {
		host, _ = cmd.Flags().GetString("host")
	}

	port := cfg.Server.Port
	if cmd.Flags().Changed("port") {
		port, _ = cmd.Flags().GetInt("port")
	}

	corsOrigin := cfg.Server.CORSOrigin
	if cmd.Flags().Changed("cors-origin") {
		corsOrigin, _ = cmd.Flags().GetString("cors-origin")
	}

	maxUploadSize := cfg.Server.MaxUploadMB
	if cmd.Flags().Changed("max-upload-size") {
		maxUploadSize, _ = cmd.Flags().GetInt("max-upload-size")
	}

	timeout := cfg.Server.TimeoutSec
	if cmd.Flags().Changed("timeout") {
		timeout, _ = cmd.Flags().GetInt("timeout")
	}

	shutdownTimeout := cfg.Server.ShutdownTimeout
	if cmd.Flags().Changed("shutdown-timeout") {
		shutdownTimeout, _ = cmd.Flags().GetInt("shutdown-timeout")
	}

	annotateEnabled := cfg.Server.AnnotateEnabled
	if cmd.Flags().Changed("annotate-enable") {
		annotateEnabled, _ = cmd.Flags().GetBool("annotate-enable")
	}

	if port < 1 || port > 65535 {
		return fmt.Errorf("invalid port number: %d (must be between 1 and 65535)", port)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	serverConfig := server.Config{
		Host:            host,
		Port:            port,
		CORSOrigin:      corsOrigin,
		MaxUploadMB:     int64(maxUploadSize),
		TimeoutSec:      timeout,
		AnnotateEnabled: annotateEnabled,
		Options:         cfg.Measure,
		Calibration:     cfg.Calibration.ToModel(),
	}

	srv, err := server.NewServer(serverConfig)
	if err != nil {
		return fmt.Errorf("failed to initialize server: %w", err)
	}

	mux := http.NewServeMux()
	srv.SetupRoutes(mux)

	httpServer := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", host, port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       time.Duration(timeout) * time.Second,
		WriteTimeout:      time.Duration(timeout) * time.Second,
	}

	go func() {
		slog.Info("starting measurement server", "host", host, "port", port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			cancel()
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	select {
	case sig := <-sigChan:
		slog.Info("received shutdown signal", "signal", sig.String())
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(
		context.Background(), time.Duration(shutdownTimeout)*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	slog.Info("server stopped")
	return nil
}
