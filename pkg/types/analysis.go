// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the data structures shared by the VeriPaper
// packages: analysis results, history entries, and configuration.
package types

import (
	"encoding/json"
	"fmt"
	"time"
)

// Metric names one of the four scored checks in an analysis.
type Metric string

const (
	MetricPlagiarism  Metric = "plagiarism"
	MetricAI          Metric = "ai"
	MetricCitation    Metric = "citation"
	MetricStatistical Metric = "statistical"
)

// Metrics lists the checks in their wire order. The index of each metric is
// its position in the explanations array sent by the scoring service.
var Metrics = []Metric{MetricPlagiarism, MetricAI, MetricCitation, MetricStatistical}

// Valid reports whether m is one of the known metrics.
func (m Metric) Valid() bool {
	for _, known := range Metrics {
		if m == known {
			return true
		}
	}
	return false
}

// PlagiarismMatch is one source document that overlaps with the analyzed paper.
type PlagiarismMatch struct {
	// Title is the matched document title.
	Title string `json:"title" yaml:"title"`

	// Similarity is the overlap percentage in [0,100].
	Similarity float64 `json:"similarity" yaml:"similarity"`

	// Source is where the match was found (URL or database name).
	Source string `json:"source" yaml:"source"`
}

// Explanations holds the free-text explanation for each metric.
//
// The scoring service sends explanations as a positional array ordered like
// Metrics. In memory they are keyed by metric; MarshalJSON writes the
// positional array back so exports stay wire compatible.
type Explanations struct {
	Plagiarism  string
	AI          string
	Citation    string
	Statistical string
}

// For returns the explanation for metric m, or "" for an unknown metric.
func (e Explanations) For(m Metric) string {
	switch m {
	case MetricPlagiarism:
		return e.Plagiarism
	case MetricAI:
		return e.AI
	case MetricCitation:
		return e.Citation
	case MetricStatistical:
		return e.Statistical
	default:
		return ""
	}
}

// Slice returns the explanations in wire order.
func (e Explanations) Slice() []string {
	return []string{e.Plagiarism, e.AI, e.Citation, e.Statistical}
}

// ExplanationsFromSlice translates the positional wire form. It requires
// exactly one entry per metric.
func ExplanationsFromSlice(s []string) (Explanations, error) {
	if len(s) != len(Metrics) {
		return Explanations{}, fmt.Errorf("want %d explanations, got %d", len(Metrics), len(s))
	}
	return Explanations{
		Plagiarism:  s[0],
		AI:          s[1],
		Citation:    s[2],
		Statistical: s[3],
	}, nil
}

// MarshalJSON encodes the explanations as the positional array.
func (e Explanations) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.Slice())
}

// UnmarshalJSON decodes the positional array.
func (e *Explanations) UnmarshalJSON(data []byte) error {
	var s []string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ExplanationsFromSlice(s)
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}

// MarshalYAML encodes the explanations as a sequence, matching the JSON form.
func (e Explanations) MarshalYAML() (any, error) {
	return e.Slice(), nil
}

// AnalysisResult is the complete output of the scoring service for one
// uploaded paper. It is treated as immutable once received.
type AnalysisResult struct {
	// OverallResearchCredibility is the combined credibility score in [0,100].
	OverallResearchCredibility float64 `json:"overall_research_credibility" yaml:"overall_research_credibility"`

	PlagiarismScore   float64           `json:"plagiarism_score" yaml:"plagiarism_score"`
	PlagiarismSummary string            `json:"plagiarism_summary" yaml:"plagiarism_summary"`
	PlagiarismMatches []PlagiarismMatch `json:"plagiarism_matches" yaml:"plagiarism_matches"`

	// AIProbability is the likelihood in [0,100] that the text was machine generated.
	AIProbability float64 `json:"ai_probability" yaml:"ai_probability"`

	// AIConfidence is the service's own confidence wording (e.g. "High", "Low").
	AIConfidence string `json:"ai_confidence" yaml:"ai_confidence"`

	CitationValidityScore  float64  `json:"citation_validity_score" yaml:"citation_validity_score"`
	CitationSummary        string   `json:"citation_summary" yaml:"citation_summary"`
	CitationInvalidDOIs    []string `json:"citation_invalid_dois" yaml:"citation_invalid_dois"`
	CitationMissingDOIs    []string `json:"citation_missing_dois" yaml:"citation_missing_dois"`
	CitationYearMismatches []string `json:"citation_year_mismatches" yaml:"citation_year_mismatches"`

	StatisticalRiskScore float64 `json:"statistical_risk_score" yaml:"statistical_risk_score"`
	StatisticalSummary   string  `json:"statistical_summary" yaml:"statistical_summary"`

	// SuspiciousParagraphs quotes passages the service flagged. Optional.
	SuspiciousParagraphs []string `json:"suspicious_paragraphs,omitempty" yaml:"suspicious_paragraphs,omitempty"`

	Explanations Explanations `json:"explanations" yaml:"explanations"`

	// ReportPath links to a generated PDF report. Empty when the service
	// produced none.
	ReportPath string `json:"report_path,omitempty" yaml:"report_path,omitempty"`

	// Filename is the uploaded file name echoed by the service. Optional.
	Filename string `json:"filename,omitempty" yaml:"filename,omitempty"`
}

// Score returns the raw score the service reported for metric m.
func (r AnalysisResult) Score(m Metric) float64 {
	switch m {
	case MetricPlagiarism:
		return r.PlagiarismScore
	case MetricAI:
		return r.AIProbability
	case MetricCitation:
		return r.CitationValidityScore
	case MetricStatistical:
		return r.StatisticalRiskScore
	default:
		return 0
	}
}

// TimestampLayout is the ISO-8601 form used for history timestamps
// (millisecond precision, UTC).
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// HistoryEntry is an AnalysisResult stamped when it was added to history.
// Entries are never modified after creation.
type HistoryEntry struct {
	AnalysisResult `yaml:",inline"`

	// Timestamp is the insertion time formatted with TimestampLayout.
	Timestamp string `json:"timestamp" yaml:"timestamp"`

	// ID uniquely identifies the entry within the history.
	ID string `json:"id" yaml:"id"`
}

// Time parses the entry timestamp.
func (e HistoryEntry) Time() (time.Time, error) {
	return time.Parse(time.RFC3339Nano, e.Timestamp)
}
