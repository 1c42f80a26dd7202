package strip

import "math"

// DegenerateValue is returned by Normalize when the limits do not span a
// range (upper <= lower) or the input is NaN.
const DegenerateValue = 0.5

// Normalize maps v into [0,1] against [lower, upper], clamping first.
func Normalize(v, lower, upper float64) float64 {
	if !(upper > lower) || math.IsNaN(v) {
		return DegenerateValue
	}
	span := upper - lower
	if math.IsInf(span, 0) {
		return DegenerateValue
	}
	switch {
	case v <= lower:
		return 0
	case v >= upper:
		return 1
	}
	return (v - lower) / span
}

// Limits is the clamping range applied at read time.
type Limits struct {
	Lower float64 `json:"lower" yaml:"lower"`
	Upper float64 `json:"upper" yaml:"upper"`
}

// Degenerate reports whether l cannot produce a meaningful mapping.
func (l Limits) Degenerate() bool { return !(l.Upper > l.Lower) }

// Normalize maps v into [0,1] against l.
func (l Limits) Normalize(v float64) float64 { return Normalize(v, l.Lower, l.Upper) }
