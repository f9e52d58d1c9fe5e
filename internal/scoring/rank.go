package scoring

import (
	"sort"

	"github.com/wonny/astroquant/internal/contracts"
)

// Rank sorts by score descending, keeps input order among ties and
// truncates to topN
func (a *Aggregator) Rank(scores []contracts.AggregatedScore, topN int) ([]contracts.RankedScore, error) {
	if topN <= 0 {
		return nil, contracts.NewInputError("top_n", "must be > 0, got %d", topN)
	}

	sorted := make([]contracts.AggregatedScore, len(scores))
	copy(sorted, scores)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].AstrologicalScore > sorted[j].AstrologicalScore
	})

	if len(sorted) > topN {
		sorted = sorted[:topN]
	}

	ranked := make([]contracts.RankedScore, len(sorted))
	for i, s := range sorted {
		ranked[i] = contracts.RankedScore{Rank: i + 1, AggregatedScore: s}
	}

	if len(ranked) > 0 {
		a.log.Info().
			Int("candidates", len(scores)).
			Int("top_n", topN).
			Str("top_symbol", ranked[0].Symbol).
			Float64("top_score", ranked[0].AstrologicalScore).
			Msg("ranking completed")
	}

	return ranked, nil
}
