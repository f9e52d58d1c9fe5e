package prices

import (
	"math"
	"sort"

	"github.com/wonny/astroquant/internal/contracts"
	"github.com/wonny/astroquant/pkg/numeric"
)

// DefaultVaRConfidence is the confidence level reported by Compute
const DefaultVaRConfidence = 0.95

// RiskMetrics are tail-loss measures of a series
// ⭐ SSOT: VaR/CVaR/MDD는 손실을 양수로 표현 (0.05 → 5% 손실)
type RiskMetrics struct {
	Confidence  float64 `json:"confidence"`
	VaR         float64 `json:"var"`          // historical one-day VaR
	CVaR        float64 `json:"cvar"`         // mean loss at or beyond VaR
	MaxDrawdown float64 `json:"max_drawdown"` // worst peak-to-trough close
}

// Risk computes historical VaR/CVaR of daily returns and the maximum drawdown.
// Series with fewer than two bars report zeros.
func Risk(series *contracts.PriceSeries, confidence float64) (*RiskMetrics, error) {
	if confidence <= 0 || confidence >= 1 {
		return nil, contracts.NewInputError("confidence", "must be in (0, 1), got %g", confidence)
	}

	m := &RiskMetrics{Confidence: confidence}
	if series == nil || len(series.Bars) < 2 {
		return m, nil
	}

	closes := series.Closes()
	m.VaR, m.CVaR = historicalVaR(DailyReturns(closes), confidence)
	m.MaxDrawdown = numeric.Round(maxDrawdown(closes), 6)
	return m, nil
}

// historicalVaR sorts returns ascending and takes the (1-confidence) percentile
func historicalVaR(returns []float64, confidence float64) (float64, float64) {
	if len(returns) == 0 {
		return 0, 0
	}

	sorted := make([]float64, len(returns))
	copy(sorted, returns)
	sort.Float64s(sorted)

	idx := int(math.Floor((1 - confidence) * float64(len(sorted))))
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}

	// 손실만 양수로
	var tail float64
	for i := 0; i <= idx; i++ {
		tail += sorted[i]
	}
	return numeric.Round(math.Max(-sorted[idx], 0), 6), numeric.Round(math.Max(-tail/float64(idx+1), 0), 6)
}

// maxDrawdown is the largest fall from a running peak, as a fraction of the peak
func maxDrawdown(closes []float64) float64 {
	var peak, mdd float64
	for _, c := range closes {
		if c > peak {
			peak = c
		}
		if peak > 0 {
			if dd := (peak - c) / peak; dd > mdd {
				mdd = dd
			}
		}
	}
	return mdd
}
