// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package export serializes an analysis result into downloadable artifacts
// (CSV, JSON, YAML) and names them. It performs no I/O; callers hand the
// returned content to whatever delivers it to the user.
package export

import (
	"bytes"
	"encoding/json"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/veripaper/pkg/types"
)

// Kind is an export format.
type Kind string

const (
	KindPDF  Kind = "pdf"
	KindCSV  Kind = "csv"
	KindJSON Kind = "json"
	KindYAML Kind = "yaml"
)

// Kinds lists the supported export formats.
var Kinds = []Kind{KindPDF, KindCSV, KindJSON, KindYAML}

// ParseKind validates a format name.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Kinds {
		if k == known {
			return k, nil
		}
	}
	return "", eris.Errorf("unsupported format %q: use pdf, csv, json, or yaml", s)
}

// ContentType returns the MIME type of an artifact of kind k.
func (k Kind) ContentType() string {
	switch k {
	case KindPDF:
		return "application/pdf"
	case KindCSV:
		return "text/csv;charset=utf-8"
	case KindJSON:
		return "application/json;charset=utf-8"
	case KindYAML:
		return "application/yaml;charset=utf-8"
	default:
		return "application/octet-stream"
	}
}

// PreconditionError reports an export the result cannot satisfy, such as a
// PDF download when the service generated no report. The message is meant
// for the user.
type PreconditionError struct {
	Kind    Kind
	Message string
}

func (e *PreconditionError) Error() string {
	return e.Message
}

// SuggestedFilename names an export produced on date. Reports are named
// VeriPaper_Report_<date>.pdf; data exports VeriPaper_Analysis_<date>.<ext>.
// The date is taken in UTC.
func SuggestedFilename(kind Kind, date time.Time) string {
	day := date.UTC().Format(time.DateOnly)
	if kind == KindPDF {
		return "VeriPaper_Report_" + day + ".pdf"
	}
	return "VeriPaper_Analysis_" + day + "." + string(kind)
}

// ReportLink returns the report path of r, or a PreconditionError when the
// service produced no report.
func ReportLink(r types.AnalysisResult) (string, error) {
	if strings.TrimSpace(r.ReportPath) == "" {
		return "", &PreconditionError{Kind: KindPDF, Message: "No PDF report available."}
	}
	return r.ReportPath, nil
}

// ResolveReport makes a report link absolute. The scoring service returns
// paths such as /reports/x.pdf relative to its own host, so a link without
// a scheme is resolved against the origin of serviceURL. Absolute links
// and unparsable inputs are returned unchanged.
func ResolveReport(link, serviceURL string) string {
	ref, err := url.Parse(link)
	if err != nil || ref.IsAbs() || serviceURL == "" {
		return link
	}
	base, err := url.Parse(serviceURL)
	if err != nil || !base.IsAbs() {
		return link
	}
	origin := &url.URL{Scheme: base.Scheme, Host: base.Host, Path: "/"}
	return origin.ResolveReference(ref).String()
}

// withEmptyLists replaces nil required lists with empty ones so they
// serialize as [] rather than null.
func withEmptyLists(r types.AnalysisResult) types.AnalysisResult {
	if r.PlagiarismMatches == nil {
		r.PlagiarismMatches = []types.PlagiarismMatch{}
	}
	for _, list := range []*[]string{&r.CitationInvalidDOIs, &r.CitationMissingDOIs, &r.CitationYearMismatches} {
		if *list == nil {
			*list = []string{}
		}
	}
	return r
}

// ToJSON renders r as indented JSON. Parsing the output back yields r, with
// nil required lists read back as empty.
func ToJSON(r types.AnalysisResult) (string, error) {
	r = withEmptyLists(r)
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(r); err != nil {
		return "", eris.Wrap(err, "export: marshal JSON")
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// ToYAML renders r as YAML with the same field names as ToJSON.
func ToYAML(r types.AnalysisResult) (string, error) {
	data, err := yaml.Marshal(withEmptyLists(r))
	if err != nil {
		return "", eris.Wrap(err, "export: marshal YAML")
	}
	return string(data), nil
}

// ToCSV renders the fixed Metric,Score,Details table for r. Every data cell
// is quoted; missing optional data renders as 0, "" or N/A.
func ToCSV(r types.AnalysisResult) string {
	topScore, topTitle := "N/A", ""
	if len(r.PlagiarismMatches) > 0 {
		top := r.PlagiarismMatches[0]
		topScore, topTitle = percent(top.Similarity), top.Title
	}

	rows := [][]string{
		{"Overall Research Credibility", percent(r.OverallResearchCredibility), ""},
		{"Plagiarism Score", percent(r.PlagiarismScore), r.PlagiarismSummary},
		{"AI-Generated Probability", percent(r.AIProbability), "Confidence: " + r.AIConfidence},
		{"Citation Validity", percent(r.CitationValidityScore), r.CitationSummary},
		{"Statistical Risk", percent(r.StatisticalRiskScore), r.StatisticalSummary},
		{"", "", ""},
		{"Invalid DOIs Found", strconv.Itoa(len(r.CitationInvalidDOIs)), strings.Join(r.CitationInvalidDOIs, "; ")},
		{"Missing DOIs", strconv.Itoa(len(r.CitationMissingDOIs)), ""},
		{"Year Mismatches", strconv.Itoa(len(r.CitationYearMismatches)), strings.Join(r.CitationYearMismatches, "; ")},
		{"Top Plagiarism Match", topScore, topTitle},
	}

	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, "Metric,Score,Details")
	for _, row := range rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = quote(cell)
		}
		lines = append(lines, strings.Join(cells, ","))
	}
	return strings.Join(lines, "\n")
}

// quote encloses a cell in double quotes, doubling embedded quotes.
func quote(cell string) string {
	return `"` + strings.ReplaceAll(cell, `"`, `""`) + `"`
}

// percent formats a score with the shortest exact decimal form.
func percent(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "%"
}
