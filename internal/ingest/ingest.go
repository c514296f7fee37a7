// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ingest is the boundary where analysis results from the scoring
// service enter the system. It rejects payloads with missing fields or
// out-of-range scores instead of coercing them.
package ingest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/rotisserie/eris"

	"github.com/pdiddy/veripaper/pkg/types"
)

// ValidationError reports a payload that violates the AnalysisResult contract.
type ValidationError struct {
	// Field is the offending JSON field; empty when the payload as a whole
	// is malformed.
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "invalid analysis result: " + e.Reason
	}
	return fmt.Sprintf("invalid analysis result: %s: %s", e.Field, e.Reason)
}

// requiredFields lists the keys every payload must carry. report_path,
// suspicious_paragraphs, and filename are optional.
var requiredFields = []string{
	"overall_research_credibility",
	"plagiarism_score",
	"plagiarism_summary",
	"plagiarism_matches",
	"ai_probability",
	"ai_confidence",
	"citation_validity_score",
	"citation_summary",
	"citation_invalid_dois",
	"citation_missing_dois",
	"citation_year_mismatches",
	"statistical_risk_score",
	"statistical_summary",
	"explanations",
}

// Decode reads one JSON analysis result from r and validates it.
func Decode(r io.Reader) (types.AnalysisResult, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return types.AnalysisResult{}, eris.Wrap(err, "ingest: read analysis result")
	}
	return Parse(data)
}

// Parse validates and decodes a JSON analysis result.
func Parse(data []byte) (types.AnalysisResult, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return types.AnalysisResult{}, &ValidationError{Reason: "payload is not a JSON object"}
	}

	for _, field := range requiredFields {
		v, ok := raw[field]
		if !ok || bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
			return types.AnalysisResult{}, &ValidationError{Field: field, Reason: "missing required field"}
		}
	}

	// Decode explanations separately so a wrong count names the field.
	var explanations []string
	if err := json.Unmarshal(raw["explanations"], &explanations); err != nil {
		return types.AnalysisResult{}, &ValidationError{Field: "explanations", Reason: "must be an array of strings"}
	}
	if len(explanations) != len(types.Metrics) {
		return types.AnalysisResult{}, &ValidationError{
			Field:  "explanations",
			Reason: fmt.Sprintf("must have %d entries, got %d", len(types.Metrics), len(explanations)),
		}
	}

	var result types.AnalysisResult
	if err := json.Unmarshal(data, &result); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return types.AnalysisResult{}, &ValidationError{Field: typeErr.Field, Reason: "wrong type " + typeErr.Value}
		}
		return types.AnalysisResult{}, &ValidationError{Reason: err.Error()}
	}

	if err := Validate(result); err != nil {
		return types.AnalysisResult{}, err
	}
	return result, nil
}

type scoreField struct {
	field string
	value float64
}

// Validate checks that every score of r lies in [0,100].
func Validate(r types.AnalysisResult) error {
	scores := []scoreField{
		{"overall_research_credibility", r.OverallResearchCredibility},
		{"plagiarism_score", r.PlagiarismScore},
		{"ai_probability", r.AIProbability},
		{"citation_validity_score", r.CitationValidityScore},
		{"statistical_risk_score", r.StatisticalRiskScore},
	}
	for i, m := range r.PlagiarismMatches {
		scores = append(scores, scoreField{fmt.Sprintf("plagiarism_matches[%d].similarity", i), m.Similarity})
	}

	for _, s := range scores {
		if !inRange(s.value) {
			return &ValidationError{Field: s.field, Reason: fmt.Sprintf("%v is outside [0,100]", s.value)}
		}
	}
	return nil
}

func inRange(v float64) bool {
	return !math.IsNaN(v) && v >= 0 && v <= 100
}
