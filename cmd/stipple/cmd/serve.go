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

	"github.com/MeKo-Tech/stipple/internal/encode"
	"github.com/MeKo-Tech/stipple/internal/server"
	"github.com/MeKo-Tech/stipple/internal/style"
)

// serveCmd represents the serve command.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start HTTP server for the generation API",
	Long: `Start an HTTP server that provides REST and WebSocket endpoints for
code generation.

The server provides the following endpoints:
  POST /generate     - Render a styled code (JSON in, PNG out)
  GET  /styles       - List available styles
  GET  /formats      - List supported symbologies
  GET  /health       - Health check endpoint
  GET  /metrics      - Prometheus metrics
  GET  /ws/generate  - WebSocket generation endpoint

Examples:
  stipple serve
  stipple serve --port 8080
  stipple serve --host 0.0.0.0 --port 3000 --rate-per-minute 120`,
	RunE: runServe,
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

	maxBodyKB := cfg.Server.MaxBodyKB
	if cmd.Flags().Changed("max-body-kb") {
		maxBodyKB, _ = cmd.Flags().GetInt("max-body-kb")
	}

	timeout := cfg.Server.TimeoutSec
	if cmd.Flags().Changed("timeout") {
		timeout, _ = cmd.Flags().GetInt("timeout")
	}

	shutdownTimeout := cfg.Server.ShutdownTimeout
	if cmd.Flags().Changed("shutdown-timeout") {
		shutdownTimeout, _ = cmd.Flags().GetInt("shutdown-timeout")
	}

	ratePerMinute := cfg.Server.RatePerMinute
	if cmd.Flags().Changed("rate-per-minute") {
		ratePerMinute, _ = cmd.Flags().GetInt("rate-per-minute")
	}

	if port < 1 || port > 65535 {
		return fmt.Errorf("invalid port number: %d (must be between 1 and 65535)", port)
	}

	defaultFormat := encode.FormatUnknown
	if cfg.Generate.Format != "" {
		f, err := encode.ParseFormat(cfg.Generate.Format)
		if err != nil {
			return err
		}
		defaultFormat = f
	}
	defaultStyle := style.StyleUnknown
	if cfg.Generate.Style != "" {
		st, err := style.ParseStyle(cfg.Generate.Style)
		if err != nil {
			return err
		}
		defaultStyle = st
	}
	defaultLevel, err := encode.ParseLevel(cfg.Generate.ErrorCorrection)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	srv, err := server.NewServer(server.Config{
		Host:          host,
		Port:          port,
		CORSOrigin:    corsOrigin,
		MaxBodyKB:     int64(maxBodyKB),
		TimeoutSec:    timeout,
		RatePerMinute: ratePerMinute,
		DefaultSize:   cfg.Generate.Size,
		DefaultFormat: defaultFormat,
		DefaultStyle:  defaultStyle,
		DefaultLevel:  defaultLevel,
	})
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
		slog.Info("Starting generation server", "host", host, "port", port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server error", "error", err)
			cancel()
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	select {
	case sig := <-sigChan:
		slog.Info("Received shutdown signal", "signal", sig.String())
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(),
		time.Duration(shutdownTimeout)*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("Server stopped")
	return nil
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("host", "localhost", "host interface to bind")
	serveCmd.Flags().IntP("port", "p", 8080, "port to listen on")
	serveCmd.Flags().String("cors-origin", "*", "allowed CORS origin")
	serveCmd.Flags().Int("max-body-kb", 256, "maximum request body size in KiB")
	serveCmd.Flags().Int("timeout", 30, "request timeout in seconds")
	serveCmd.Flags().Int("shutdown-timeout", 10, "graceful shutdown timeout in seconds")
	serveCmd.Flags().Int("rate-per-minute", 0, "per-client request limit per minute (0 = unlimited)")
}
