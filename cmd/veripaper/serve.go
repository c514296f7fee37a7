// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/veripaper/internal/analyzer"
	"github.com/pdiddy/veripaper/internal/server"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the analysis history over HTTP",
	Long: `Serve starts the JSON API used by the web frontend:

  GET    /health
  POST   /api/analyze                      (multipart field "file")
  GET    /api/history
  POST   /api/history                      (analysis result JSON)
  DELETE /api/history
  GET    /api/history/{id}
  GET    /api/history/{id}/summary
  GET    /api/history/{id}/export/{kind}   (pdf, csv, json, yaml)

The server stops cleanly on SIGINT or SIGTERM.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		cfg.Server.Addr = addr
	}

	h, backend, err := openHistory(ctx)
	if err != nil {
		return err
	}
	defer backend.Close()

	api := server.New(h,
		server.WithAnalyzer(analyzer.New(cfg.Analyzer), cfg.Analyzer.BaseURL),
		server.WithAllowedOrigins(cfg.Server.AllowedOrigins),
		server.WithLogger(zap.L()))

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           api.Handler(),
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		zap.L().Info("server listening", zap.String("addr", srv.Addr), zap.String("store", string(cfg.Store.Driver)))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		zap.L().Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (overrides server.addr)")
	rootCmd.AddCommand(serveCmd)
}
