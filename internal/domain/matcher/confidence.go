package matcher

import "fmt"

// Confidence is a calibrated match score in the closed interval [0, 1].
// Values outside the interval cannot be constructed; every MatchResult in
// the system therefore carries a valid score.
type Confidence float64

// NewConfidence validates and wraps a raw score.
func NewConfidence(v float64) (Confidence, error) {
	if v < 0.0 || v > 1.0 {
		return 0, fmt.Errorf("confidence %v outside [0.0, 1.0]", v)
	}
	return Confidence(v), nil
}

// Float64 returns the underlying score.
func (c Confidence) Float64() float64 {
	return float64(c)
}

// AtLeast reports whether the score meets a threshold.
func (c Confidence) AtLeast(threshold float64) bool {
	return float64(c) >= threshold
}
