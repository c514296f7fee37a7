// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package score

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/veripaper/pkg/types"
)

func TestColorBand(t *testing.T) {
	tests := []struct {
		score float64
		want  Band
	}{
		{0, BandLow},
		{49.99, BandLow},
		{50, BandMid},
		{74.9, BandMid},
		{75, BandHigh},
		{100, BandHigh},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ColorBand(tt.score), "ColorBand(%v)", tt.score)
	}
}

func TestColorBandAllIntegers(t *testing.T) {
	for x := 0; x <= 100; x++ {
		got := ColorBand(float64(x))
		switch {
		case x >= 75:
			assert.Equal(t, BandHigh, got, "x=%d", x)
		case x >= 50:
			assert.Equal(t, BandMid, got, "x=%d", x)
		default:
			assert.Equal(t, BandLow, got, "x=%d", x)
		}
	}
}

func TestOverallBand(t *testing.T) {
	assert.Equal(t, GradeExcellent, OverallBand(75))
	assert.Equal(t, GradeExcellent, OverallBand(80))
	assert.Equal(t, GradeGood, OverallBand(50))
	assert.Equal(t, GradeGood, OverallBand(74))
	assert.Equal(t, GradeReview, OverallBand(49))
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name  string
		score float64
		want  Label
		band  Band
	}{
		{"clearly human", 5, LabelHighHuman, BandHigh},
		{"just below lower bound", 29, LabelHighHuman, BandHigh},
		{"lower bound is uncertain", 30, LabelUncertain, BandMid},
		{"threshold", 45, LabelUncertain, BandMid},
		{"upper bound is uncertain", 60, LabelUncertain, BandMid},
		{"just above upper bound", 60.01, LabelHighAI, BandLow},
		{"above upper bound", 61, LabelHighAI, BandLow},
		{"clearly ai", 95, LabelHighAI, BandLow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.score)
			assert.Equal(t, tt.want, got.Label)
			assert.Equal(t, tt.band, got.Band)
		})
	}
}

func TestDisplayScore(t *testing.T) {
	assert.Equal(t, 72.0, DisplayScore(types.MetricCitation, 72))
	assert.Equal(t, 80.0, DisplayScore(types.MetricPlagiarism, 20))
	assert.Equal(t, 65.0, DisplayScore(types.MetricAI, 35))
	assert.Equal(t, 90.0, DisplayScore(types.MetricStatistical, 10))
}

func TestGauge(t *testing.T) {
	assert.Equal(t, 0.0, Gauge(-4))
	assert.Equal(t, 100.0, Gauge(130))
	assert.Equal(t, 67.0, Gauge(66.6))
}

func sampleResult() types.AnalysisResult {
	return types.AnalysisResult{
		OverallResearchCredibility: 80,
		PlagiarismScore:            10,
		PlagiarismSummary:          "Low plagiarism detected",
		AIProbability:              70,
		AIConfidence:               "high",
		CitationValidityScore:      90,
		CitationSummary:            "Most citations are valid",
		StatisticalRiskScore:       5,
		StatisticalSummary:         "Statistical integrity appears sound",
		Explanations: types.Explanations{
			Plagiarism:  "p",
			AI:          "a",
			Citation:    "c",
			Statistical: "s",
		},
	}
}

func TestSummarizeEndToEnd(t *testing.T) {
	s := Summarize(sampleResult())

	assert.Equal(t, GradeExcellent, s.Grade)
	assert.Equal(t, BandHigh, s.OverallBand)
	assert.Equal(t, LabelHighAI, s.AIConfidence.Label)
	assert.False(t, s.HasReport)

	require.Len(t, s.Cards, 4)
	plag := s.Cards[0]
	assert.Equal(t, types.MetricPlagiarism, plag.Metric)
	assert.Equal(t, 90.0, plag.Display)
	assert.Equal(t, BandHigh, plag.Band)
	assert.Equal(t, "p", plag.Explanation)

	ai := s.Cards[1]
	assert.Equal(t, 30.0, ai.Display)
	assert.Equal(t, BandLow, ai.Band)
	assert.Equal(t, "AI Confidence: high", ai.Summary)

	assert.Equal(t, 90.0, s.Cards[2].Display)
	assert.Equal(t, "c", s.Cards[2].Explanation)
	assert.Equal(t, 95.0, s.Cards[3].Display)
}

func TestSummarizeStatisticsTileMatchesCard(t *testing.T) {
	r := sampleResult()
	r.StatisticalRiskScore = 37
	s := Summarize(r)

	require.Len(t, s.Tiles, 4)
	assert.Equal(t, "Statistics", s.Tiles[3].Label)
	assert.Equal(t, s.Cards[3].Display, s.Tiles[3].Value)
	assert.Equal(t, 63.0, s.Tiles[3].Value)

	// The other tiles show raw values.
	assert.Equal(t, r.PlagiarismScore, s.Tiles[0].Value)
	assert.Equal(t, r.AIProbability, s.Tiles[1].Value)
}

func TestSummarizeHasReport(t *testing.T) {
	r := sampleResult()
	r.ReportPath = "/reports/a.pdf"
	assert.True(t, Summarize(r).HasReport)
}
