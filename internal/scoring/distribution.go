package scoring

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/wonny/astroquant/internal/contracts"
	"github.com/wonny/astroquant/pkg/numeric"
)

// Distribution builds the histogram and summary statistics of a batch.
// An empty batch yields zero counts.
func (a *Aggregator) Distribution(scores []contracts.AggregatedScore) contracts.ScoreDistribution {
	n := a.cfg.Distribution.Buckets
	if n < 1 {
		n = 1
	}

	dist := contracts.ScoreDistribution{
		Count:           len(scores),
		Buckets:         make([]contracts.HistogramBucket, n),
		Recommendations: make(map[contracts.Recommendation]int, len(a.thresholds)),
	}

	width := 1.0 / float64(n)
	for i := range dist.Buckets {
		dist.Buckets[i] = contracts.HistogramBucket{
			Lower: numeric.Round3(float64(i) * width),
			Upper: numeric.Round3(float64(i+1) * width),
		}
	}
	for _, th := range a.thresholds {
		dist.Recommendations[th.Name] = 0
	}

	if len(scores) == 0 {
		return dist
	}

	values := make([]float64, len(scores))
	for i, s := range scores {
		values[i] = s.AstrologicalScore
		dist.Buckets[bucketIndex(s.AstrologicalScore, n)].Count++
		dist.Recommendations[s.Recommendation]++
	}

	mean, std := stat.PopMeanStdDev(values, nil)
	dist.Min = floats.Min(values)
	dist.Max = floats.Max(values)
	dist.Mean = numeric.Round3(mean)
	dist.StdDev = numeric.Round3(std)

	return dist
}

// bucketIndex places score in [0,1] into one of n buckets; 1.0 lands in the last
func bucketIndex(score float64, n int) int {
	idx := int(numeric.Clamp(score, 0, 1) * float64(n))
	if idx >= n {
		idx = n - 1
	}
	return idx
}
