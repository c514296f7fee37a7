// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/pdiddy/veripaper/pkg/types"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List, show, or clear recent analyses",
}

// --- list subcommand ---

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent analyses, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		h, backend, err := openHistory(cmd.Context())
		if err != nil {
			return err
		}
		defer backend.Close()

		entries := h.Load(cmd.Context())
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return writeJSON(os.Stdout, entries)
		}
		return printHistory(os.Stdout, entries)
	},
}

// --- show subcommand ---

var historyShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show the summary of one analysis (default: the newest)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		h, backend, err := openHistory(cmd.Context())
		if err != nil {
			return err
		}
		defer backend.Close()

		id := ""
		if len(args) == 1 {
			id = args[0]
		}
		e, err := findEntry(h.Load(cmd.Context()), id)
		if err != nil {
			return err
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return writeJSON(os.Stdout, e)
		}
		return printSummary(os.Stdout, e.ID, e.AnalysisResult)
	},
}

// --- clear subcommand ---

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all recorded analyses",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		h, backend, err := openHistory(cmd.Context())
		if err != nil {
			return err
		}
		defer backend.Close()

		h.Clear(cmd.Context())
		fmt.Fprintln(os.Stdout, "History cleared.")
		return nil
	},
}

// findEntry returns the entry with id, or the newest entry when id is empty.
func findEntry(entries []types.HistoryEntry, id string) (types.HistoryEntry, error) {
	if len(entries) == 0 {
		return types.HistoryEntry{}, eris.New("history is empty: run veripaper analyze first")
	}
	if id == "" {
		return entries[0], nil
	}
	for _, e := range entries {
		if e.ID == id {
			return e, nil
		}
	}
	return types.HistoryEntry{}, eris.Errorf("no analysis with id %s: see veripaper history list", id)
}

func init() {
	historyListCmd.Flags().Bool("json", false, "output entries as JSON")
	historyShowCmd.Flags().Bool("json", false, "output the entry as JSON")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyClearCmd)

	rootCmd.AddCommand(historyCmd)
}
