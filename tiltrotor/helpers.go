package tiltrotor

import (
	"math"

	"golang.org/x/exp/constraints"
)

// Constrain limits value to [min, max].
func Constrain[T constraints.Float](value, min, max T) T {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// MapRange maps a value from one range to another.
func MapRange[T constraints.Float](value, fromMin, fromMax, toMin, toMax T) T {
	return (value-fromMin)/(fromMax-fromMin)*(toMax-toMin) + toMin
}

// ScaleToRange maps a normalized fraction (0..1) into [lo, hi].
// The fraction is saturated first so the result never leaves the range.
func ScaleToRange[T constraints.Float](fraction, lo, hi T) T {
	return MapRange(Constrain(fraction, 0, 1), 0, 1, lo, hi)
}

// clamp01 is Constrain(v, 0, 1) that also maps NaN to 0.
func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return Constrain(v, 0, 1)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// finiteOr returns v, or fallback when v is NaN or infinite.
func finiteOr(v, fallback float64) float64 {
	if finite(v) {
		return v
	}
	return fallback
}
