package contracts

// Recommendation is the bucket an astrological score falls into
type Recommendation string

const (
	RecommendationStrongBuy  Recommendation = "strong_buy"
	RecommendationBuy        Recommendation = "buy"
	RecommendationHold       Recommendation = "hold"
	RecommendationSell       Recommendation = "sell"
	RecommendationStrongSell Recommendation = "strong_sell"
)

// Recommendations lists the buckets from most to least bullish
var Recommendations = []Recommendation{
	RecommendationStrongBuy,
	RecommendationBuy,
	RecommendationHold,
	RecommendationSell,
	RecommendationStrongSell,
}

// Direction returns +1 for buy buckets, -1 for sell buckets, 0 otherwise
func (r Recommendation) Direction() int {
	switch r {
	case RecommendationStrongBuy, RecommendationBuy:
		return 1
	case RecommendationSell, RecommendationStrongSell:
		return -1
	default:
		return 0
	}
}

// AggregatedScore is the final per-symbol verdict
// ⭐ SSOT: Aggregator → Ranker 전달
type AggregatedScore struct {
	Symbol            string             `json:"symbol"`
	AstrologicalScore float64            `json:"astrological_score"` // [0,1]
	Confidence        float64            `json:"confidence"`         // [0,1]
	Recommendation    Recommendation     `json:"recommendation"`
	CategoryScores    map[string]float64 `json:"category_scores"` // normalized sub-scores
	Weights           map[string]float64 `json:"weights"`         // effective weights
}

// RankedScore is an AggregatedScore with its 1-based position
type RankedScore struct {
	Rank int `json:"rank"`
	AggregatedScore
}

// HistogramBucket counts scores in [Lower, Upper); the last bucket is closed
type HistogramBucket struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
	Count int     `json:"count"`
}

// ScoreDistribution summarizes a batch of aggregated scores
type ScoreDistribution struct {
	Count           int                    `json:"count"`
	Min             float64                `json:"min"`
	Max             float64                `json:"max"`
	Mean            float64                `json:"mean"`
	StdDev          float64                `json:"stddev"`
	Buckets         []HistogramBucket      `json:"buckets"`
	Recommendations map[Recommendation]int `json:"recommendations"`
}
