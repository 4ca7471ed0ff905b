// Package rating turns risk selections into the score, rating factor and
// risk level used to scale cost.
//
// Everything here is a pure function of its inputs: no I/O, no state. It
// is cheap enough to run on every keystroke.
package rating

import (
	"math"

	"github.com/roach88/quotedraft/internal/assessment"
)

// Threshold constants. These are shared with the server-side cost
// calculation and must stay identical to it.
const (
	// DefaultMaxScore replaces a catalog maximum of 0.
	DefaultMaxScore = 100.0

	BaseThresholdRatio = 0.7
	MidThresholdRatio  = 1.0
	PeakThresholdRatio = 1.2
	MidFactor          = 1.2
	FactorCap          = 1.5

	LowLevelCutoff  = 0.4
	HighLevelCutoff = 0.7
)

// Level is the three-way risk classification.
type Level string

const (
	LevelLow    Level = "low"
	LevelMedium Level = "medium"
	LevelHigh   Level = "high"
)

// Summary is the result of evaluating a set of risk selections.
type Summary struct {
	TotalScore       float64 `json:"total_score"`
	MaxScore         float64 `json:"max_score"`
	ScoreRatio       float64 `json:"score_ratio"`
	NormalizedFactor float64 `json:"normalized_factor"`
	Level            Level   `json:"level"`
}

// Evaluate scores the selections against the catalog.
//
// Unset and non-finite scores contribute nothing. Every set score counts
// toward the total, including names the catalog no longer lists.
func Evaluate(scores map[string]assessment.Score, items []RiskItem) Summary {
	total := 0.0
	for _, s := range scores {
		v, ok := s.Value()
		if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		total += v
	}

	maxScore := MaxScore(items)
	if maxScore <= 0 {
		maxScore = DefaultMaxScore
	}

	ratio := 0.0
	if maxScore > 0 {
		ratio = total / maxScore
	}

	return Summary{
		TotalScore:       total,
		MaxScore:         maxScore,
		ScoreRatio:       ratio,
		NormalizedFactor: FactorFromRatio(ratio),
		Level:            LevelFromRatio(ratio),
	}
}

// MaxScore sums each item's highest option score. Items without options, or
// whose options are all negative, contribute 0.
func MaxScore(items []RiskItem) float64 {
	total := 0.0
	for _, item := range items {
		best := 0.0
		for _, opt := range item.Options {
			if opt.Score > best {
				best = opt.Score
			}
		}
		total += best
	}
	return total
}

// FactorFromRatio maps a score ratio onto the rating factor:
//
//	ratio <= 0.7        1.0
//	0.7 < ratio <= 1.0  1.0 -> 1.2 linearly
//	1.0 < ratio <= 1.2  1.2 -> 1.5 linearly
//	ratio > 1.2         1.5
//
// Negative ratios are treated as 0.
func FactorFromRatio(ratio float64) float64 {
	safe := math.Max(0, ratio)

	if safe <= BaseThresholdRatio {
		return 1
	}

	if safe <= MidThresholdRatio {
		span := MidThresholdRatio - BaseThresholdRatio
		progress := 0.0
		if span > 0 {
			progress = (safe - BaseThresholdRatio) / span
		}
		return 1 + progress*(MidFactor-1)
	}

	capped := math.Min(safe, PeakThresholdRatio)
	span := PeakThresholdRatio - MidThresholdRatio
	progress := 0.0
	if span > 0 {
		progress = (capped - MidThresholdRatio) / span
	}
	return math.Min(FactorCap, MidFactor+progress*(FactorCap-MidFactor))
}

// LevelFromRatio classifies a score ratio.
func LevelFromRatio(ratio float64) Level {
	switch {
	case ratio >= HighLevelCutoff:
		return LevelHigh
	case ratio >= LowLevelCutoff:
		return LevelMedium
	default:
		return LevelLow
	}
}
