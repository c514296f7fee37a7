// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pdiddy/veripaper/internal/analyzer"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Upload a paper to the scoring service and record the result",
	Long: `Analyze uploads a PDF, DOCX, or TXT file to the scoring service, adds
the result to the local history, and prints the summary. The hosted
service may take a minute to wake up; cold-start errors are retried.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if err := analyzer.CheckFile(args[0]); err != nil {
		return err
	}

	h, backend, err := openHistory(ctx)
	if err != nil {
		return err
	}
	defer backend.Close()

	zap.L().Info("uploading paper", zap.String("file", args[0]), zap.String("service", cfg.Analyzer.BaseURL))
	result, err := analyzer.New(cfg.Analyzer).Analyze(ctx, args[0])
	if err != nil {
		return err
	}

	entries := h.Push(ctx, result)

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return writeJSON(os.Stdout, entries[0])
	}
	return printSummary(os.Stdout, entries[0].ID, result)
}

func init() {
	analyzeCmd.Flags().Bool("json", false, "print the recorded history entry as JSON")
	rootCmd.AddCommand(analyzeCmd)
}
