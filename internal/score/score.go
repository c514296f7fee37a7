// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package score derives display values from a raw analysis result: color
// bands, the AI confidence classification, and risk-to-safety inverted
// scores. Every function is pure.
package score

import (
	"math"

	"github.com/pdiddy/veripaper/pkg/types"
)

// Band is a severity tier for a displayed percentage.
type Band string

const (
	BandLow  Band = "low"
	BandMid  Band = "mid"
	BandHigh Band = "high"
)

// Cutoffs shared by ColorBand and OverallBand. A score equal to a cutoff
// belongs to the higher band.
const (
	HighCutoff = 75
	MidCutoff  = 50
)

// ColorBand returns the band for a displayed score.
func ColorBand(score float64) Band {
	switch {
	case score >= HighCutoff:
		return BandHigh
	case score >= MidCutoff:
		return BandMid
	default:
		return BandLow
	}
}

// Grade is the headline label for the overall credibility score.
type Grade string

const (
	GradeExcellent Grade = "Excellent"
	GradeGood      Grade = "Good"
	GradeReview    Grade = "Review"
)

// OverallBand grades the overall credibility score with the ColorBand cutoffs.
func OverallBand(score float64) Grade {
	switch ColorBand(score) {
	case BandHigh:
		return GradeExcellent
	case BandMid:
		return GradeGood
	default:
		return GradeReview
	}
}

// Label is the AI authorship classification shown next to the AI score.
type Label string

const (
	LabelHighAI    Label = "High AI"
	LabelHighHuman Label = "High Human"
	LabelUncertain Label = "Uncertain"
)

// The detector was tuned to a 0.45 decision threshold; scores within
// AIMargin of it are reported as uncertain.
const (
	AIThreshold = 45
	AIMargin    = 15
)

// Confidence is the classification of an AI probability.
type Confidence struct {
	Label Label `json:"label" yaml:"label"`
	Band  Band  `json:"band" yaml:"band"`
}

// Classify maps an AI probability to a confidence label. Both boundaries
// (30 and 60) are Uncertain.
func Classify(aiScore float64) Confidence {
	switch {
	case aiScore > AIThreshold+AIMargin:
		return Confidence{Label: LabelHighAI, Band: BandLow}
	case aiScore < AIThreshold-AIMargin:
		return Confidence{Label: LabelHighHuman, Band: BandHigh}
	default:
		return Confidence{Label: LabelUncertain, Band: BandMid}
	}
}

// DisplayScore orients a raw score so that higher is better. Citation
// validity is already oriented; the other metrics are risk scores and are
// shown as 100 minus the risk.
func DisplayScore(m types.Metric, raw float64) float64 {
	if m == types.MetricCitation {
		return raw
	}
	return 100 - raw
}

// Gauge clamps a score to [0,100] and rounds it for gauge rendering.
func Gauge(score float64) float64 {
	return math.Round(math.Max(0, math.Min(100, score)))
}
