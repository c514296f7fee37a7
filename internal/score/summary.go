// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package score

import (
	"fmt"

	"github.com/pdiddy/veripaper/pkg/types"
)

// cardTitles are the headings of the per-metric result cards.
var cardTitles = map[types.Metric]string{
	types.MetricPlagiarism:  "Plagiarism",
	types.MetricAI:          "AI Detection",
	types.MetricCitation:    "Citations",
	types.MetricStatistical: "Statistics",
}

// Card is the display state of one metric.
type Card struct {
	Metric      types.Metric `json:"metric" yaml:"metric"`
	Title       string       `json:"title" yaml:"title"`
	Raw         float64      `json:"raw" yaml:"raw"`
	Display     float64      `json:"display" yaml:"display"`
	Band        Band         `json:"band" yaml:"band"`
	Summary     string       `json:"summary" yaml:"summary"`
	Explanation string       `json:"explanation" yaml:"explanation"`
}

// Tile is one cell of the summary strip under the overall score.
type Tile struct {
	Label string  `json:"label" yaml:"label"`
	Value float64 `json:"value" yaml:"value"`
}

// Summary holds every derived value a renderer needs for one result.
type Summary struct {
	Overall      float64    `json:"overall" yaml:"overall"`
	OverallBand  Band       `json:"overall_band" yaml:"overall_band"`
	Grade        Grade      `json:"grade" yaml:"grade"`
	Tiles        []Tile     `json:"tiles" yaml:"tiles"`
	AIConfidence Confidence `json:"ai_confidence" yaml:"ai_confidence"`
	Cards        []Card     `json:"cards" yaml:"cards"`
	HasReport    bool       `json:"has_report" yaml:"has_report"`
}

// Summarize derives the display state of r.
//
// The statistics tile and the statistics card share DisplayScore, so both
// show 100 minus the statistical risk.
func Summarize(r types.AnalysisResult) Summary {
	s := Summary{
		Overall:      r.OverallResearchCredibility,
		OverallBand:  ColorBand(r.OverallResearchCredibility),
		Grade:        OverallBand(r.OverallResearchCredibility),
		AIConfidence: Classify(r.AIProbability),
		HasReport:    r.ReportPath != "",
		Tiles: []Tile{
			{Label: "Plagiarism", Value: r.PlagiarismScore},
			{Label: "AI", Value: r.AIProbability},
			{Label: "Citations", Value: r.CitationValidityScore},
			{Label: "Statistics", Value: DisplayScore(types.MetricStatistical, r.StatisticalRiskScore)},
		},
	}

	for _, m := range types.Metrics {
		raw := r.Score(m)
		display := DisplayScore(m, raw)
		s.Cards = append(s.Cards, Card{
			Metric:      m,
			Title:       cardTitles[m],
			Raw:         raw,
			Display:     display,
			Band:        ColorBand(display),
			Summary:     cardSummary(r, m),
			Explanation: r.Explanations.For(m),
		})
	}
	return s
}

func cardSummary(r types.AnalysisResult, m types.Metric) string {
	switch m {
	case types.MetricPlagiarism:
		return r.PlagiarismSummary
	case types.MetricAI:
		return fmt.Sprintf("AI Confidence: %s", r.AIConfidence)
	case types.MetricCitation:
		return r.CitationSummary
	default:
		return r.StatisticalSummary
	}
}
