// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/veripaper/internal/export"
	"github.com/pdiddy/veripaper/pkg/types"
)

func init() {
	color.NoColor = true
}

func sampleEntry(id string, overall float64) types.HistoryEntry {
	return types.HistoryEntry{
		ID:        id,
		Timestamp: "2026-10-16T09:00:00.000Z",
		AnalysisResult: types.AnalysisResult{
			OverallResearchCredibility: overall,
			PlagiarismScore:            10,
			PlagiarismSummary:          "low overlap",
			PlagiarismMatches:          []types.PlagiarismMatch{{Title: "Prior Work", Similarity: 12.5, Source: "arXiv"}},
			AIProbability:              70,
			AIConfidence:               "High",
			CitationValidityScore:      90,
			CitationSummary:            "mostly valid",
			CitationInvalidDOIs:        []string{"10.1/bad"},
			StatisticalRiskScore:       5,
			StatisticalSummary:         "fine",
			Explanations:               types.Explanations{Plagiarism: "p-exp", AI: "a-exp"},
			ReportPath:                 "/reports/r.pdf",
			Filename:                   "paper.pdf",
		},
	}
}

func TestFindEntry(t *testing.T) {
	entries := []types.HistoryEntry{sampleEntry("b", 2), sampleEntry("a", 1)}

	e, err := findEntry(entries, "")
	require.NoError(t, err)
	assert.Equal(t, "b", e.ID, "defaults to the newest")

	e, err = findEntry(entries, "a")
	require.NoError(t, err)
	assert.Equal(t, 1.0, e.OverallResearchCredibility)

	_, err = findEntry(entries, "zzz")
	assert.ErrorContains(t, err, "no analysis with id zzz")

	_, err = findEntry(nil, "")
	assert.ErrorContains(t, err, "history is empty")
}

func TestPrintSummary(t *testing.T) {
	var buf bytes.Buffer
	e := sampleEntry("analysis_1", 80)
	require.NoError(t, printSummary(&buf, e.ID, e.AnalysisResult))

	out := buf.String()
	assert.Contains(t, out, "Analysis analysis_1 (paper.pdf)")
	assert.Contains(t, out, "Overall research credibility: 80%  Excellent")
	assert.Contains(t, out, "AI authorship: High AI")
	assert.Contains(t, out, "AI Confidence: High")
	assert.Contains(t, out, "12.5%  Prior Work  (arXiv)")
	assert.Contains(t, out, "Invalid DOIs: 10.1/bad")
	assert.Contains(t, out, "AI Detection: a-exp")
	assert.NotContains(t, out, "Citations: \n", "empty explanations are skipped")
	assert.Contains(t, out, "PDF report: /reports/r.pdf")
}

func TestPrintHistory(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printHistory(&buf, nil))
	assert.Equal(t, "No analyses in history.\n", buf.String())

	buf.Reset()
	require.NoError(t, printHistory(&buf, []types.HistoryEntry{sampleEntry("analysis_2", 40), sampleEntry("analysis_1", 80)}))
	out := buf.String()
	assert.Contains(t, out, "analysis_2")
	assert.Contains(t, out, "Review")
	assert.Contains(t, out, "Excellent")
	assert.Contains(t, out, "paper.pdf")
}

func TestWriteArtifact(t *testing.T) {
	a := export.Artifact{Filename: "VeriPaper_Analysis_2026-10-16.csv", Content: []byte("Metric,Score,Details\n")}

	var stdout bytes.Buffer
	require.NoError(t, writeArtifact(&stdout, "-", a))
	assert.Equal(t, "Metric,Score,Details\n", stdout.String())

	dir := filepath.Join(t.TempDir(), "exports")
	stdout.Reset()
	require.NoError(t, writeArtifact(&stdout, dir, a))

	data, err := os.ReadFile(filepath.Join(dir, a.Filename))
	require.NoError(t, err)
	assert.Equal(t, a.Content, data)
	assert.Contains(t, stdout.String(), "Wrote ")
}
