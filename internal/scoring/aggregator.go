// Package scoring combines feature sets into astrological scores,
// recommendations, rankings and distributions.
package scoring

import (
	"fmt"
	"math"
	"sort"

	"github.com/rs/zerolog"

	"github.com/wonny/astroquant/internal/catalog"
	"github.com/wonny/astroquant/internal/contracts"
	"github.com/wonny/astroquant/internal/features"
	"github.com/wonny/astroquant/internal/scoringconfig"
	"github.com/wonny/astroquant/pkg/numeric"
)

// Aggregator 점수 집계기
// ⭐ SSOT: 점수 집계/추천 판정은 여기서만
type Aggregator struct {
	cfg        *scoringconfig.Config
	thresholds []scoringconfig.Threshold
	log        zerolog.Logger
}

// NewAggregator 새 집계기 생성. cfg must already be validated.
func NewAggregator(cfg *scoringconfig.Config, log zerolog.Logger) *Aggregator {
	thresholds := make([]scoringconfig.Threshold, len(cfg.Thresholds))
	copy(thresholds, cfg.Thresholds)
	sort.SliceStable(thresholds, func(i, j int) bool {
		return thresholds[i].Min > thresholds[j].Min
	})

	return &Aggregator{
		cfg:        cfg,
		thresholds: thresholds,
		log:        log.With().Str("component", "scoring.aggregator").Logger(),
	}
}

// Config returns the active ruleset
func (a *Aggregator) Config() *scoringconfig.Config {
	return a.cfg
}

// Thresholds returns the recommendation cut points, highest first
func (a *Aggregator) Thresholds() []scoringconfig.Threshold {
	out := make([]scoringconfig.Threshold, len(a.thresholds))
	copy(out, a.thresholds)
	return out
}

// CategoryMax is the largest group sum a generated horoscope can reach;
// the divisor in catalog_max normalization
func CategoryMax(category string) float64 {
	switch category {
	case contracts.CategoryHouse:
		return float64(len(catalog.WealthHouses))
	case contracts.CategoryPlanetary:
		total := 0.0
		for _, p := range catalog.Planets {
			total += p.Weight
		}
		return total
	case contracts.CategoryYoga:
		return catalog.TopYogaScoreSum()
	case contracts.CategoryTiming:
		return catalog.MaxPlanetWeight() + 1.0
	default:
		return 1.0
	}
}

// ResolveWeights overlays overrides on the configured weights.
// Unknown categories and negative values are rejected.
func (a *Aggregator) ResolveWeights(overrides map[string]float64) (map[string]float64, error) {
	weights := a.cfg.Weights.Map()
	for k, v := range overrides {
		if _, ok := weights[k]; !ok {
			return nil, contracts.NewInputError("weights."+k, "unknown category, expected one of %v", contracts.Categories)
		}
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, contracts.NewInputError("weights."+k, "must be a finite value >= 0")
		}
		weights[k] = v
	}
	return weights, nil
}

// Aggregate scores one feature set
func (a *Aggregator) Aggregate(fs *contracts.FeatureSet, overrides map[string]float64) (contracts.AggregatedScore, error) {
	if fs == nil {
		return contracts.AggregatedScore{}, contracts.NewInputError("features", "must not be nil")
	}

	weights, err := a.ResolveWeights(overrides)
	if err != nil {
		return contracts.AggregatedScore{}, err
	}

	return a.aggregate(fs, weights), nil
}

// aggregate: none mode rounds each weighted component to 3 places like
// features.TotalScore; catalog_max clamps each ratio to [0,1]
func (a *Aggregator) aggregate(fs *contracts.FeatureSet, weights map[string]float64) contracts.AggregatedScore {
	sub := make(map[string]float64, len(contracts.Categories))
	raw := 0.0
	for _, c := range contracts.Categories {
		sum := features.GroupSum(fs, c)
		if a.cfg.Normalization == scoringconfig.NormalizationCatalogMax {
			s := numeric.Clamp(sum/CategoryMax(c), 0, 1)
			sub[c] = numeric.Round3(s)
			raw += weights[c] * s
			continue
		}
		sub[c] = numeric.Round3(sum)
		raw += numeric.Round3(weights[c] * sum)
	}

	score := numeric.Round3(numeric.Clamp(raw, 0, 1))

	return contracts.AggregatedScore{
		Symbol:            fs.Symbol,
		AstrologicalScore: score,
		Confidence:        a.Confidence(score),
		Recommendation:    a.Recommend(score),
		CategoryScores:    sub,
		Weights:           weights,
	}
}

// AggregateBatch scores in input order; the first failure aborts the batch
func (a *Aggregator) AggregateBatch(list []*contracts.FeatureSet, overrides map[string]float64) ([]contracts.AggregatedScore, error) {
	if len(list) == 0 {
		return nil, contracts.NewInputError("features", "must not be empty")
	}

	weights, err := a.ResolveWeights(overrides)
	if err != nil {
		return nil, err
	}

	out := make([]contracts.AggregatedScore, 0, len(list))
	for i, fs := range list {
		if fs == nil {
			return nil, fmt.Errorf("features[%d]: %w", i, contracts.NewInputError("features", "must not be nil"))
		}
		out = append(out, a.aggregate(fs, weights))
	}

	a.log.Info().
		Int("count", len(out)).
		Bool("custom_weights", len(overrides) > 0).
		Msg("aggregation completed")

	return out, nil
}

// Confidence grows linearly with the distance of score from 0.5:
// floor at 0.5, 1.0 at either end.
func (a *Aggregator) Confidence(score float64) float64 {
	floor := a.cfg.Confidence.Floor
	extremity := 2 * math.Abs(numeric.Clamp(score, 0, 1)-0.5)
	return numeric.Round3(numeric.Clamp(floor+(1-floor)*extremity, 0, 1))
}

// Recommend returns the first threshold whose min is <= score
func (a *Aggregator) Recommend(score float64) contracts.Recommendation {
	for _, th := range a.thresholds {
		if score >= th.Min {
			return th.Name
		}
	}
	// Validate guarantees a bottom threshold at or below zero
	return a.thresholds[len(a.thresholds)-1].Name
}
