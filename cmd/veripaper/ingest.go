// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/pdiddy/veripaper/internal/ingest"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [file|-]",
	Short: "Add a saved analysis result (JSON) to the history",
	Long: `Ingest reads one analysis result in the scoring service's JSON format
from a file, or from stdin when the argument is "-" or omitted, validates
it, and adds it to the history. Results with missing fields or scores
outside 0-100 are rejected.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIngest,
}

func runIngest(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	var in io.Reader = os.Stdin
	if len(args) == 1 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return eris.Wrapf(err, "opening %s", args[0])
		}
		defer f.Close()
		in = f
	}

	result, err := ingest.Decode(in)
	if err != nil {
		return err
	}

	h, backend, err := openHistory(ctx)
	if err != nil {
		return err
	}
	defer backend.Close()

	entries := h.Push(ctx, result)
	fmt.Fprintf(os.Stdout, "Recorded %s (%d in history)\n", entries[0].ID, len(entries))
	return nil
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}
