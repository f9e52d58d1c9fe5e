// Package scoringconfig holds the scoring rules: category weights,
// sub-score normalization, recommendation thresholds, the confidence floor
// and histogram layout.
package scoringconfig

import (
	"github.com/wonny/astroquant/internal/contracts"
)

// Sub-score normalization modes
const (
	// NormalizationNone uses the raw category sums, the same sub-scores as
	// the feature set total, so the default-weight score is the total clamped to [0,1]
	NormalizationNone = "none"
	// NormalizationCatalogMax divides each category sum by the largest sum a
	// generated horoscope can reach
	NormalizationCatalogMax = "catalog_max"
)

// NormalizationModes lists the accepted normalization values
var NormalizationModes = []string{NormalizationNone, NormalizationCatalogMax}

// Config는 점수 집계 규칙 전체 설정
type Config struct {
	Meta          Meta         `yaml:"meta" json:"meta"`
	Weights       Weights      `yaml:"weights" json:"weights"`
	Normalization string       `yaml:"normalization" json:"normalization"`
	Thresholds    []Threshold  `yaml:"thresholds" json:"thresholds"`
	Confidence    Confidence   `yaml:"confidence" json:"confidence"`
	Distribution  Distribution `yaml:"distribution" json:"distribution"`
}

// Meta 메타 정보
type Meta struct {
	RulesetID string `yaml:"ruleset_id" json:"ruleset_id"`
	Version   string `yaml:"version" json:"version"`
}

// Weights are the category weights; struct instead of map keeps Hash stable
type Weights struct {
	House     float64 `yaml:"house" json:"house"`
	Planetary float64 `yaml:"planetary" json:"planetary"`
	Yoga      float64 `yaml:"yoga" json:"yoga"`
	Timing    float64 `yaml:"timing" json:"timing"`
}

// Map returns the weights keyed by category name
func (w Weights) Map() map[string]float64 {
	return map[string]float64{
		contracts.CategoryHouse:     w.House,
		contracts.CategoryPlanetary: w.Planetary,
		contracts.CategoryYoga:      w.Yoga,
		contracts.CategoryTiming:    w.Timing,
	}
}

// Sum adds the four weights
func (w Weights) Sum() float64 {
	return w.House + w.Planetary + w.Yoga + w.Timing
}

// Threshold maps scores >= Min to a recommendation
type Threshold struct {
	Name contracts.Recommendation `yaml:"name" json:"name"`
	Min  float64                  `yaml:"min" json:"min"`
}

// Confidence 신뢰도 곡선
type Confidence struct {
	Floor float64 `yaml:"floor" json:"floor"` // confidence at score 0.5
}

// Distribution 히스토그램 설정
type Distribution struct {
	Buckets int `yaml:"buckets" json:"buckets"`
}

// Default returns the built-in ruleset
func Default() *Config {
	return &Config{
		Meta: Meta{
			RulesetID: "default",
			Version:   "1.0.0",
		},
		Weights: Weights{
			House:     0.35,
			Planetary: 0.30,
			Yoga:      0.25,
			Timing:    0.10,
		},
		Thresholds: []Threshold{
			{Name: contracts.RecommendationStrongBuy, Min: 0.75},
			{Name: contracts.RecommendationBuy, Min: 0.60},
			{Name: contracts.RecommendationHold, Min: 0.40},
			{Name: contracts.RecommendationSell, Min: 0.25},
			{Name: contracts.RecommendationStrongSell, Min: 0},
		},
		Normalization: NormalizationNone,
		Confidence:    Confidence{Floor: 0.5},
		Distribution:  Distribution{Buckets: 10},
	}
}
