// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/pdiddy/veripaper/internal/score"
	"github.com/pdiddy/veripaper/pkg/types"
)

var (
	highColor = color.New(color.FgGreen, color.Bold)
	midColor  = color.New(color.FgYellow)
	lowColor  = color.New(color.FgRed, color.Bold)
)

// bandText colors text by band: green for high, yellow for mid, red for low.
func bandText(b score.Band, text string) string {
	switch b {
	case score.BandHigh:
		return highColor.Sprint(text)
	case score.BandMid:
		return midColor.Sprint(text)
	default:
		return lowColor.Sprint(text)
	}
}

func pct(v float64) string {
	return strconv.FormatFloat(score.Gauge(v), 'f', -1, 64) + "%"
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printSummary renders the headline score, the AI classification, and one
// row per metric card.
func printSummary(w io.Writer, id string, r types.AnalysisResult) error {
	s := score.Summarize(r)

	if id != "" {
		fmt.Fprintf(w, "Analysis %s", id)
		if r.Filename != "" {
			fmt.Fprintf(w, " (%s)", r.Filename)
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintf(w, "Overall research credibility: %s  %s\n",
		bandText(s.OverallBand, pct(s.Overall)), bandText(s.OverallBand, string(s.Grade)))
	fmt.Fprintf(w, "AI authorship: %s\n\n", bandText(s.AIConfidence.Band, string(s.AIConfidence.Label)))

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Check", "Score", "Band", "Summary"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.PerColumn = []tw.Align{tw.AlignLeft, tw.AlignRight, tw.AlignLeft, tw.AlignLeft}
	})

	var data [][]string
	for _, c := range s.Cards {
		data = append(data, []string{
			c.Title,
			pct(c.Display),
			bandText(c.Band, string(c.Band)),
			c.Summary,
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if len(r.PlagiarismMatches) > 0 {
		fmt.Fprintln(w, "\nTop plagiarism matches:")
		for _, m := range r.PlagiarismMatches {
			sim := strconv.FormatFloat(m.Similarity, 'f', -1, 64) + "%"
			fmt.Fprintf(w, "  %s  %s  (%s)\n", sim, m.Title, m.Source)
		}
	}
	for _, group := range []struct {
		label string
		items []string
	}{
		{"Invalid DOIs", r.CitationInvalidDOIs},
		{"Missing DOIs", r.CitationMissingDOIs},
		{"Year mismatches", r.CitationYearMismatches},
	} {
		if len(group.items) > 0 {
			fmt.Fprintf(w, "%s: %s\n", group.label, strings.Join(group.items, ", "))
		}
	}

	fmt.Fprintln(w)
	for _, c := range s.Cards {
		if c.Explanation != "" {
			fmt.Fprintf(w, "%s: %s\n", c.Title, c.Explanation)
		}
	}
	if s.HasReport {
		fmt.Fprintf(w, "\nPDF report: %s\n", r.ReportPath)
	}
	return nil
}

// printHistory lists entries newest first.
func printHistory(w io.Writer, entries []types.HistoryEntry) error {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No analyses in history.")
		return nil
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"ID", "Date", "File", "Overall", "Grade", "AI"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignLeft
	})

	var data [][]string
	for _, e := range entries {
		when := e.Timestamp
		if t, err := e.Time(); err == nil {
			when = t.Local().Format(time.DateTime)
		}
		s := score.Summarize(e.AnalysisResult)
		data = append(data, []string{
			e.ID,
			when,
			e.Filename,
			bandText(s.OverallBand, pct(s.Overall)),
			string(s.Grade),
			bandText(s.AIConfidence.Band, string(s.AIConfidence.Label)),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}
