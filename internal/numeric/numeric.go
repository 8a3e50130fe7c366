// Package numeric holds the scalar helpers shared by the chart-facing packages:
// clamping, interpolation, axis domain padding and a stable string hash.
package numeric

import (
	"math"
	"unicode/utf16"
)

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// Lerp interpolates linearly between a and b.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// EaseInOutQuad maps t in [0,1] onto a quadratic ease curve.
func EaseInOutQuad(t float64) float64 {
	if t < 0.5 {
		return 2 * t * t
	}
	return -1 + (4-2*t)*t
}

// TweenDomain eases a domain from one range to another.
func TweenDomain(from, to [2]float64, t float64) [2]float64 {
	e := EaseInOutQuad(t)
	return [2]float64{from[0] + (to[0]-from[0])*e, from[1] + (to[1]-from[1])*e}
}

// PaddedDomain returns [min, max] of vals widened by 5% of the span on each side.
// A degenerate range is first widened by 5% of |min| (or 1 when min is 0).
func PaddedDomain(vals []float64) [2]float64 {
	if len(vals) == 0 {
		return [2]float64{0, 1}
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range vals {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if !isFinite(lo) || !isFinite(hi) {
		return [2]float64{0, 1}
	}
	if lo == hi {
		base := lo
		if base == 0 {
			base = 1
		}
		eps := math.Abs(base) * 0.05
		lo -= eps
		hi += eps
	}
	pad := (hi - lo) * 0.05
	return [2]float64{lo - pad, hi + pad}
}

// PercentPaddedDomain is PaddedDomain for percent axes: non-finite values are
// ignored, the result is clamped to [0,100] and rounded outward to integers.
func PercentPaddedDomain(vals []float64) [2]float64 {
	lo, hi := math.Inf(1), math.Inf(-1)
	n := 0
	for _, v := range vals {
		if !isFinite(v) {
			continue
		}
		n++
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if n == 0 {
		return [2]float64{0, 100}
	}
	if lo == hi {
		eps := math.Max(1, math.Abs(lo)*0.05)
		lo -= eps
		hi += eps
	} else {
		pad := (hi - lo) * 0.05
		lo -= pad
		hi += pad
	}
	lo = Clamp(lo, 0, 100)
	hi = Clamp(hi, 0, 100)
	return [2]float64{math.Floor(lo), math.Ceil(hi)}
}

// HashString is the 31-multiplier string hash over UTF-16 code units with
// 32-bit wrap-around, returned as an absolute value. It is stable across runs
// and platforms, which makes it usable for color assignment and sampling.
func HashString(s string) uint32 {
	var h int32
	for _, c := range utf16.Encode([]rune(s)) {
		h = h*31 + int32(c)
	}
	if h < 0 {
		return uint32(-int64(h))
	}
	return uint32(h)
}

// IsFinite reports whether v is neither NaN nor ±Inf.
func IsFinite(v float64) bool { return isFinite(v) }

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
