// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the veripaper CLI. It uploads papers
// to the scoring service, keeps the local analysis history, renders
// summaries, exports results, and serves the history API.
package main

import (
	"context"
	"os"
	"sort"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pdiddy/veripaper/internal/config"
	"github.com/pdiddy/veripaper/internal/history"
	"github.com/pdiddy/veripaper/internal/kv"
	"github.com/pdiddy/veripaper/internal/secrets"
	"github.com/pdiddy/veripaper/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// cfg is loaded in PersistentPreRunE before any subcommand runs.
var cfg *types.Config

var rootCmd = &cobra.Command{
	Use:   "veripaper",
	Short: "Check research papers for plagiarism, AI text, citations, and statistics",
	Long: `veripaper uploads a paper (PDF, DOCX, or TXT) to the VeriPaper scoring
service and presents the result: an overall credibility score, per-check
scores with color bands, and an AI authorship classification.

The last ten results are kept in a local history. Results can be exported
as CSV, JSON, or YAML, and the history can be served over HTTP for the
web frontend.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfgFile, _ := cmd.Flags().GetString("config")
		c, err := config.Load(cfgFile)
		if err != nil {
			return err
		}

		secretsDir, _ := cmd.Flags().GetString("secrets-dir")
		s, err := secrets.Load(secretsDir)
		if err != nil {
			return err
		}
		secrets.Apply(c, s)

		if cmd.Flags().Changed("store") {
			driver, _ := cmd.Flags().GetString("store")
			c.Store.Driver = types.StoreDriver(driver)
		}
		if cmd.Flags().Changed("log-level") {
			c.Log.Level, _ = cmd.Flags().GetString("log-level")
		}
		if err := config.Validate(c); err != nil {
			return err
		}
		if err := config.InitLogger(c.Log); err != nil {
			return err
		}

		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			zap.L().Debug("loaded secrets", zap.Strings("keys", keys))
		}
		cfg = c
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file (default: ./veripaper.yaml or ~/.config/veripaper/veripaper.yaml)")
	rootCmd.PersistentFlags().String("secrets-dir", ".secrets", "directory of credential files (analyzer-api-key, s3-access-key, ...)")
	rootCmd.PersistentFlags().String("store", "", "history backend: memory, file, sqlite3, mysql, pgx, badger, s3 (overrides store.driver)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error (overrides log.level)")
}

// openHistory opens the configured backend and a history cache over it.
// The caller closes the returned backend.
func openHistory(ctx context.Context) (*history.Cache, kv.Backend, error) {
	backend, err := kv.Open(ctx, cfg.Store)
	if err != nil {
		return nil, nil, err
	}
	h := history.New(backend,
		history.WithCapacity(cfg.History.Capacity),
		history.WithLogger(zap.L()))
	return h, backend, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
