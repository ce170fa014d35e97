// cmd/mcp-server/main.go — Standalone HTTP MCP server for gouncertain
//
// Exposes the uncertainty tools as an HTTP endpoint for AI agent frameworks.
//
// Usage:
//
//	UNCERTAIN_PORT=8080 go run ./cmd/mcp-server
//
// Tool call endpoint: POST /tool
// Schema endpoint:    GET  /schema
// Health endpoint:    GET  /health
// Metrics endpoint:   GET  /metrics
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	gouncertain "github.com/njchilds90/gouncertain"
	"github.com/njchilds90/gouncertain/internal/config"
	"github.com/njchilds90/gouncertain/internal/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.NewDefault().Fatal("load config", zap.Error(err))
	}
	port := flag.String("port", cfg.Server.Port, "Port to listen on")
	flag.Parse()
	cfg.Server.Port = *port

	log := logging.FromLevel(cfg.Logging.Level, cfg.Logging.Development)
	defer func() { _ = log.Sync() }()
	gouncertain.SetLogger(log.Logger)
	gouncertain.DefaultFormatter = cfg.Formatter()

	reg := prometheus.NewRegistry()
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           newRouter(log.Logger, newMetrics(reg), reg, cfg.Server.MaxBodyBytes),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	log.Info("gouncertain MCP server listening",
		zap.String("addr", srv.Addr),
		zap.Strings("tools", gouncertain.Tools),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			log.Fatal("server failed", zap.Error(err))
		}
	case <-ctx.Done():
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("shutdown", zap.Error(err))
		}
	}
}
