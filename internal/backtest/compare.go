// Package backtest compares astrological verdicts with realized returns.
package backtest

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/wonny/astroquant/internal/contracts"
	"github.com/wonny/astroquant/internal/prices"
	"github.com/wonny/astroquant/pkg/numeric"
)

// Row pairs one verdict with its realized return
type Row struct {
	Symbol            string                   `json:"symbol"`
	AstrologicalScore float64                  `json:"astrological_score"`
	Recommendation    contracts.Recommendation `json:"recommendation"`
	RealizedReturn    float64                  `json:"realized_return"` // percent over the horizon
	Realized          bool                     `json:"realized"`        // series long enough
	Hit               *bool                    `json:"hit,omitempty"`   // nil for hold
}

// Comparison is the outcome of scoring against a horizon
type Comparison struct {
	Horizon     int     `json:"horizon"`
	Pairs       int     `json:"pairs"`
	Correlation float64 `json:"correlation"` // Pearson, score vs realized return
	Calls       int     `json:"calls"`       // directional recommendations with a realized return
	Hits        int     `json:"hits"`
	HitRate     float64 `json:"hit_rate"`

	// Mean realized return per recommendation bucket
	AvgReturnByRecommendation map[contracts.Recommendation]float64 `json:"avg_return_by_recommendation"`

	Rows []Row `json:"rows"`
}

// Compare pairs each score with the h-day return of its symbol's series.
// Buy buckets expect a positive return, sell buckets a negative one.
// ⭐ SSOT: 예측 vs 실현 비교는 여기서만
func Compare(scores []contracts.AggregatedScore, series map[string]*contracts.PriceSeries, horizon int) (*Comparison, error) {
	if horizon <= 0 {
		return nil, contracts.NewInputError("horizon", "must be > 0, got %d", horizon)
	}

	result := &Comparison{
		Horizon:                   horizon,
		AvgReturnByRecommendation: make(map[contracts.Recommendation]float64),
		Rows:                      make([]Row, 0, len(scores)),
	}

	var xs, ys []float64
	sums := make(map[contracts.Recommendation]float64)
	counts := make(map[contracts.Recommendation]int)

	for _, s := range scores {
		row := Row{
			Symbol:            s.Symbol,
			AstrologicalScore: s.AstrologicalScore,
			Recommendation:    s.Recommendation,
		}

		ps, ok := series[s.Symbol]
		if ok && ps.Len() >= horizon+1 {
			returns, err := prices.Returns(ps, []int{horizon})
			if err != nil {
				return nil, err
			}
			row.RealizedReturn = returns[prices.HorizonKey(horizon)]
			row.Realized = true

			xs = append(xs, s.AstrologicalScore)
			ys = append(ys, row.RealizedReturn)
			sums[s.Recommendation] += row.RealizedReturn
			counts[s.Recommendation]++

			if dir := s.Recommendation.Direction(); dir != 0 {
				hit := (dir > 0 && row.RealizedReturn > 0) || (dir < 0 && row.RealizedReturn < 0)
				row.Hit = &hit
				result.Calls++
				if hit {
					result.Hits++
				}
			}
		}

		result.Rows = append(result.Rows, row)
	}

	result.Pairs = len(xs)
	result.Correlation = correlation(xs, ys)
	if result.Calls > 0 {
		result.HitRate = numeric.Round3(float64(result.Hits) / float64(result.Calls))
	}
	for rec, n := range counts {
		result.AvgReturnByRecommendation[rec] = numeric.Round(sums[rec]/float64(n), 4)
	}

	return result, nil
}

// correlation is Pearson's r, 0 when undefined
func correlation(xs, ys []float64) float64 {
	if len(xs) < 2 || len(xs) != len(ys) {
		return 0
	}
	r := stat.Correlation(xs, ys, nil)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0
	}
	return numeric.Round3(r)
}
