// Package numeric holds display rounding shared by the pipeline stages.
package numeric

import (
	"math"

	"github.com/shopspring/decimal"
)

// Round rounds x to places decimals, half away from zero.
// Going through decimal avoids binary artefacts such as 0.1+0.2 -> 0.30000000000000004.
func Round(x float64, places int32) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	f, _ := decimal.NewFromFloat(x).Round(places).Float64()
	return f
}

// Round3 is Round(x, 3), the precision used for scores
func Round3(x float64) float64 {
	return Round(x, 3)
}

// Round2 is Round(x, 2), the precision used for prices
func Round2(x float64) float64 {
	return Round(x, 2)
}

// Clamp bounds x to [lo, hi]
func Clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
