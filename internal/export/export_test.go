// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/veripaper/internal/ingest"
	"github.com/pdiddy/veripaper/pkg/types"
)

func fullResult() types.AnalysisResult {
	return types.AnalysisResult{
		OverallResearchCredibility: 81,
		PlagiarismScore:            12.5,
		PlagiarismSummary:          "Low plagiarism detected",
		PlagiarismMatches: []types.PlagiarismMatch{
			{Title: `He said "x"`, Similarity: 34, Source: "https://example.org/a"},
			{Title: "Second", Similarity: 8, Source: "crossref"},
		},
		AIProbability:          22,
		AIConfidence:           "Low",
		CitationValidityScore:  88,
		CitationSummary:        "Most citations are valid",
		CitationInvalidDOIs:    []string{"10.1000/bad1", "10.1000/bad2"},
		CitationMissingDOIs:    []string{"Smith 2019"},
		CitationYearMismatches: []string{"Doe 2020 vs 2021"},
		StatisticalRiskScore:   7,
		StatisticalSummary:     "Statistical integrity appears sound",
		SuspiciousParagraphs:   []string{"We propose a novel framework <sic> & more"},
		Explanations: types.Explanations{
			Plagiarism:  "Plagiarism check: 12.5% similarity found",
			AI:          "AI Detection: 22% probability of AI generation",
			Citation:    "Citation Validation: 88% of citations are valid",
			Statistical: "Statistical Analysis: 7% statistical risk detected",
		},
		ReportPath: "/reports/test_report.pdf",
		Filename:   "paper.pdf",
	}
}

func TestToCSV(t *testing.T) {
	want := strings.Join([]string{
		`Metric,Score,Details`,
		`"Overall Research Credibility","81%",""`,
		`"Plagiarism Score","12.5%","Low plagiarism detected"`,
		`"AI-Generated Probability","22%","Confidence: Low"`,
		`"Citation Validity","88%","Most citations are valid"`,
		`"Statistical Risk","7%","Statistical integrity appears sound"`,
		`"","",""`,
		`"Invalid DOIs Found","2","10.1000/bad1; 10.1000/bad2"`,
		`"Missing DOIs","1",""`,
		`"Year Mismatches","1","Doe 2020 vs 2021"`,
		`"Top Plagiarism Match","34%","He said ""x"""`,
	}, "\n")

	assert.Equal(t, want, ToCSV(fullResult()))
}

func TestToCSVMissingOptionalData(t *testing.T) {
	r := types.AnalysisResult{OverallResearchCredibility: 50}
	lines := strings.Split(ToCSV(r), "\n")

	require.Len(t, lines, 11)
	assert.Equal(t, `"Invalid DOIs Found","0",""`, lines[7])
	assert.Equal(t, `"Missing DOIs","0",""`, lines[8])
	assert.Equal(t, `"Year Mismatches","0",""`, lines[9])
	assert.Equal(t, `"Top Plagiarism Match","N/A",""`, lines[10])
}

func TestToCSVQuotesEveryDataCell(t *testing.T) {
	r := fullResult()
	r.PlagiarismSummary = `a, "b"`
	lines := strings.Split(ToCSV(r), "\n")
	assert.Equal(t, `"Plagiarism Score","12.5%","a, ""b"""`, lines[2])
}

func TestToJSONRoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		result types.AnalysisResult
	}{
		{"full result", fullResult()},
		{"no optional fields", func() types.AnalysisResult {
			r := fullResult()
			r.ReportPath = ""
			r.Filename = ""
			r.SuspiciousParagraphs = nil
			r.PlagiarismMatches = []types.PlagiarismMatch{}
			return r
		}()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, err := ToJSON(tt.result)
			require.NoError(t, err)

			var got types.AnalysisResult
			require.NoError(t, json.Unmarshal([]byte(text), &got))
			assert.Equal(t, tt.result, got)
		})
	}
}

func TestToJSONNilListsReingest(t *testing.T) {
	r := fullResult()
	r.PlagiarismMatches = nil
	r.CitationInvalidDOIs = nil
	r.CitationMissingDOIs = nil
	r.CitationYearMismatches = nil

	text, err := ToJSON(r)
	require.NoError(t, err)
	assert.NotContains(t, text, "null")
	assert.Contains(t, text, "\"citation_missing_dois\": []")

	got, err := ingest.Parse([]byte(text))
	require.NoError(t, err)
	assert.Empty(t, got.PlagiarismMatches)
	assert.NotNil(t, got.CitationYearMismatches)
	assert.Equal(t, r.OverallResearchCredibility, got.OverallResearchCredibility)
	assert.Nil(t, r.CitationInvalidDOIs, "the caller's result is not modified")
}

func TestToJSONFormat(t *testing.T) {
	text, err := ToJSON(fullResult())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(text, "{\n  \"overall_research_credibility\": 81,"))
	assert.False(t, strings.HasSuffix(text, "\n"))
	assert.Contains(t, text, "<sic> & more", "HTML characters are not escaped")
	// Explanations stay positional on the wire.
	assert.Contains(t, text, "\"explanations\": [\n    \"Plagiarism check: 12.5% similarity found\",")
}

func TestToYAML(t *testing.T) {
	text, err := ToYAML(fullResult())
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(text), &doc))
	assert.Equal(t, 81, doc["overall_research_credibility"])
	assert.Equal(t, "/reports/test_report.pdf", doc["report_path"])

	explanations, ok := doc["explanations"].([]any)
	require.True(t, ok)
	assert.Len(t, explanations, 4)
}

func TestSuggestedFilename(t *testing.T) {
	date := time.Date(2026, 3, 9, 23, 30, 0, 0, time.UTC)
	tests := []struct {
		kind Kind
		want string
	}{
		{KindPDF, "VeriPaper_Report_2026-03-09.pdf"},
		{KindCSV, "VeriPaper_Analysis_2026-03-09.csv"},
		{KindJSON, "VeriPaper_Analysis_2026-03-09.json"},
		{KindYAML, "VeriPaper_Analysis_2026-03-09.yaml"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SuggestedFilename(tt.kind, date))
	}
}

func TestSuggestedFilenameUsesUTCDate(t *testing.T) {
	zone := time.FixedZone("UTC+9", 9*60*60)
	date := time.Date(2026, 3, 10, 2, 0, 0, 0, zone)
	assert.Equal(t, "VeriPaper_Analysis_2026-03-09.csv", SuggestedFilename(KindCSV, date))
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind(" JSON ")
	require.NoError(t, err)
	assert.Equal(t, KindJSON, k)

	_, err = ParseKind("xlsx")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported format")
}

func TestRender(t *testing.T) {
	now := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)

	a, err := Render(KindCSV, fullResult(), now)
	require.NoError(t, err)
	assert.Equal(t, "VeriPaper_Analysis_2026-01-02.csv", a.Filename)
	assert.Equal(t, "text/csv;charset=utf-8", a.ContentType)
	assert.Equal(t, ToCSV(fullResult()), string(a.Content))

	a, err = Render(KindPDF, fullResult(), now)
	require.NoError(t, err)
	assert.Equal(t, "/reports/test_report.pdf", a.Location)
	assert.Empty(t, a.Content)
}

func TestRenderPDFWithoutReport(t *testing.T) {
	r := fullResult()
	r.ReportPath = ""

	_, err := Render(KindPDF, r, time.Now())
	require.Error(t, err)

	var pe *PreconditionError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, KindPDF, pe.Kind)
	assert.Equal(t, "No PDF report available.", pe.Error())
}

func TestResolveReport(t *testing.T) {
	tests := []struct {
		link, service, want string
	}{
		{"/reports/r.pdf", "https://veripaper.onrender.com/api", "https://veripaper.onrender.com/reports/r.pdf"},
		{"reports/r.pdf", "http://localhost:8000/api/", "http://localhost:8000/reports/r.pdf"},
		{"https://cdn.example/r.pdf", "https://veripaper.onrender.com/api", "https://cdn.example/r.pdf"},
		{"/reports/r.pdf", "", "/reports/r.pdf"},
		{"/reports/r.pdf", "not a url", "/reports/r.pdf"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ResolveReport(tt.link, tt.service), "%s against %s", tt.link, tt.service)
	}
}
