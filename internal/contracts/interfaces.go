package contracts

import "time"

// HoroscopeGenerator synthesizes deterministic charts
// ⭐ SSOT: 호로스코프 생성 인터페이스
type HoroscopeGenerator interface {
	Generate(symbol string, seed int64, dates DateRange, times TimeRange, location string) (*Horoscope, error)
	GenerateBatch(symbols []string, seed int64, dates DateRange, times TimeRange, location string) ([]*Horoscope, error)
}

// FeatureExtractor turns charts into feature groups
// ⭐ SSOT: 피처 추출 인터페이스
type FeatureExtractor interface {
	Extract(h *Horoscope) (*FeatureSet, error)
	ExtractBatch(hs []*Horoscope) ([]*FeatureSet, error)
}

// ScoreAggregator combines features into verdicts, ranks and summarizes them
// ⭐ SSOT: 점수 집계/랭킹 인터페이스
type ScoreAggregator interface {
	AggregateBatch(fs []*FeatureSet, weights map[string]float64) ([]AggregatedScore, error)
	Rank(scores []AggregatedScore, topN int) ([]RankedScore, error)
	Distribution(scores []AggregatedScore) ScoreDistribution
}

// PriceSynthesizer produces synthetic daily series
// ⭐ SSOT: 가격 시계열 생성 인터페이스
type PriceSynthesizer interface {
	Synthesize(symbol string, start, end time.Time) (*PriceSeries, error)
}
