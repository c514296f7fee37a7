// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/pdiddy/veripaper/internal/export"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export an analysis as CSV, JSON, YAML, or a PDF report link",
	Long: `Export writes one analysis from the history to a file named
VeriPaper_Analysis_<date>.<ext> in --out (default: the current directory).
Use --out - to write to stdout.

The pdf format prints the link to the report generated by the scoring
service; it fails when the service produced no report.`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	id, _ := cmd.Flags().GetString("id")
	format, _ := cmd.Flags().GetString("format")
	out, _ := cmd.Flags().GetString("out")

	kind, err := export.ParseKind(format)
	if err != nil {
		return err
	}

	h, backend, err := openHistory(ctx)
	if err != nil {
		return err
	}
	defer backend.Close()

	e, err := findEntry(h.Load(ctx), id)
	if err != nil {
		return err
	}

	a, err := export.Render(kind, e.AnalysisResult, time.Now())
	if err != nil {
		return err
	}
	if a.Location != "" {
		fmt.Fprintln(os.Stdout, export.ResolveReport(a.Location, cfg.Analyzer.BaseURL))
		return nil
	}
	return writeArtifact(os.Stdout, out, a)
}

// writeArtifact writes a to stdout when dir is "-", otherwise to dir/a.Filename.
func writeArtifact(stdout io.Writer, dir string, a export.Artifact) error {
	if dir == "-" {
		_, err := stdout.Write(a.Content)
		return err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return eris.Wrapf(err, "creating %s", dir)
	}
	path := filepath.Join(dir, a.Filename)
	if err := os.WriteFile(path, a.Content, 0o644); err != nil {
		return eris.Wrapf(err, "writing %s", path)
	}
	fmt.Fprintf(stdout, "Wrote %s\n", path)
	return nil
}

func init() {
	exportCmd.Flags().String("id", "", "history entry to export (default: the newest)")
	exportCmd.Flags().String("format", "csv", "export format: pdf, csv, json, or yaml")
	exportCmd.Flags().String("out", ".", "output directory, or - for stdout")
	rootCmd.AddCommand(exportCmd)
}
