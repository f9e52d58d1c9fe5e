package scoring

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/astroquant/internal/catalog"
	"github.com/wonny/astroquant/internal/contracts"
	"github.com/wonny/astroquant/internal/features"
	"github.com/wonny/astroquant/internal/horoscope"
	"github.com/wonny/astroquant/internal/scoringconfig"
	"github.com/wonny/astroquant/pkg/logger"
	"github.com/wonny/astroquant/pkg/numeric"
)

func newTestAggregator() *Aggregator {
	return NewAggregator(scoringconfig.Default(), zerolog.Nop())
}

func newCatalogMaxAggregator() *Aggregator {
	cfg := scoringconfig.Default()
	cfg.Normalization = scoringconfig.NormalizationCatalogMax
	return NewAggregator(cfg, zerolog.Nop())
}

// uniformFeatures builds a feature set whose every group sits at fraction f of its maximum
func uniformFeatures(symbol string, f float64) *contracts.FeatureSet {
	fs := &contracts.FeatureSet{
		Symbol:            symbol,
		HouseFeatures:     map[string]float64{},
		PlanetaryFeatures: map[string]float64{},
		YogaFeatures:      map[string]float64{},
		TimingFeatures:    map[string]float64{},
	}
	for _, h := range catalog.WealthHouses {
		fs.HouseFeatures[features.HouseKey(h)] = f
	}
	for _, p := range catalog.Planets {
		fs.PlanetaryFeatures[p.Name] = f * p.Weight
	}
	for i, y := range catalog.Yogas {
		if i < catalog.MaxYogas {
			fs.YogaFeatures[y.Name] = f * y.Score
		} else {
			fs.YogaFeatures[y.Name] = 0
		}
	}
	fs.TimingFeatures[contracts.TimingDashaStrength] = f * catalog.MaxPlanetWeight()
	fs.TimingFeatures[contracts.TimingNakshatraInfluence] = f
	return fs
}

func TestAggregate_NoNormalizationMatchesTotalScore(t *testing.T) {
	a := newTestAggregator()
	gen := horoscope.NewGenerator(logger.Nop())
	ext := features.NewExtractor(logger.Nop())

	var list []*contracts.FeatureSet
	for seed := int64(0); seed < 20; seed++ {
		h, err := gen.Generate("TESTSTOCK", seed,
			contracts.DateRange{Start: "2024-01-01", End: "2024-01-31"},
			contracts.TimeRange{Start: "09:00", End: "15:00"}, "Mumbai")
		require.NoError(t, err)
		fs, err := ext.Extract(h)
		require.NoError(t, err)
		list = append(list, fs)
	}
	// Charts below the clamp
	for _, f := range []float64{0, 0.1, 0.2, 0.3} {
		fs := uniformFeatures("LOW", f)
		fs.TotalScore = features.TotalScore(fs)
		list = append(list, fs)
	}

	for i, fs := range list {
		s, err := a.Aggregate(fs, nil)
		require.NoError(t, err)
		assert.InDelta(t, numeric.Clamp(fs.TotalScore, 0, 1), s.AstrologicalScore, 1e-12, "features[%d] total %v", i, fs.TotalScore)
		for _, c := range contracts.Categories {
			assert.Equal(t, numeric.Round3(features.GroupSum(fs, c)), s.CategoryScores[c], c)
		}
	}

	low := list[len(list)-1]
	s, err := a.Aggregate(low, nil)
	require.NoError(t, err)
	assert.Less(t, s.AstrologicalScore, 1.0)
	assert.Greater(t, s.AstrologicalScore, 0.0)
}

func TestAggregate_UnlistedYogaRaisesScore(t *testing.T) {
	a := newTestAggregator()
	ext := features.NewExtractor(logger.Nop())

	h := &contracts.Horoscope{
		Symbol:      "LOW",
		DashaLord:   "Ketu",
		Nakshatra:   "Ashwini",
		ActiveYogas: []string{"Raj Yoga"},
		PlanetaryPositions: map[string]float64{
			"Sun": 0, "Moon": 0, "Mars": 0, "Mercury": 0, "Jupiter": 0,
			"Venus": 0, "Saturn": 0, "Rahu": 0, "Ketu": 0,
		},
		HousePositions: map[int]float64{2: 0, 5: 0, 8: 0, 9: 0, 10: 0, 11: 0, 12: 0},
	}
	without, err := ext.Extract(h)
	require.NoError(t, err)

	h.ActiveYogas = append(h.ActiveYogas, "Sunapha Yoga")
	with, err := ext.Extract(h)
	require.NoError(t, err)

	sWithout, err := a.Aggregate(without, nil)
	require.NoError(t, err)
	sWith, err := a.Aggregate(with, nil)
	require.NoError(t, err)
	assert.InDelta(t, 0.025, sWith.AstrologicalScore-sWithout.AstrologicalScore, 1e-9)
}

func TestAggregate_UniformFraction(t *testing.T) {
	a := newCatalogMaxAggregator()

	for _, f := range []float64{0, 0.2, 0.5, 0.8, 1} {
		s, err := a.Aggregate(uniformFeatures("X", f), nil)
		require.NoError(t, err)
		assert.InDelta(t, f, s.AstrologicalScore, 1e-9, "fraction %v", f)
		for _, c := range contracts.Categories {
			assert.InDelta(t, f, s.CategoryScores[c], 1e-9, c)
		}
	}
}

func TestAggregate_Recommendation(t *testing.T) {
	a := newTestAggregator()

	tests := []struct {
		score float64
		want  contracts.Recommendation
	}{
		{1.0, contracts.RecommendationStrongBuy},
		{0.75, contracts.RecommendationStrongBuy},
		{0.749, contracts.RecommendationBuy},
		{0.60, contracts.RecommendationBuy},
		{0.5, contracts.RecommendationHold},
		{0.40, contracts.RecommendationHold},
		{0.3, contracts.RecommendationSell},
		{0.25, contracts.RecommendationSell},
		{0.1, contracts.RecommendationStrongSell},
		{0, contracts.RecommendationStrongSell},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, a.Recommend(tt.score), "score %v", tt.score)
	}
}

func TestConfidence_MonotonicInExtremity(t *testing.T) {
	a := newTestAggregator()

	assert.Equal(t, 0.5, a.Confidence(0.5))
	assert.Equal(t, 1.0, a.Confidence(0))
	assert.Equal(t, 1.0, a.Confidence(1))
	assert.Equal(t, a.Confidence(0.2), a.Confidence(0.8))

	prev := a.Confidence(0.5)
	for s := 0.51; s <= 1.0; s += 0.01 {
		c := a.Confidence(s)
		assert.GreaterOrEqual(t, c, prev)
		assert.LessOrEqual(t, c, 1.0)
		prev = c
	}
}

func TestAggregate_CustomWeights(t *testing.T) {
	a := newCatalogMaxAggregator()
	fs := uniformFeatures("X", 0.5)
	fs.YogaFeatures["Raj Yoga"] = 0
	fs.YogaFeatures["Dhana Yoga"] = 0
	fs.YogaFeatures["Lakshmi Yoga"] = 0
	fs.YogaFeatures["Gaja Kesari Yoga"] = 0

	yogaOnly, err := a.Aggregate(fs, map[string]float64{"house": 0, "planetary": 0, "timing": 0, "yoga": 1})
	require.NoError(t, err)
	assert.Equal(t, 0.0, yogaOnly.AstrologicalScore)
	assert.Equal(t, 1.0, yogaOnly.Weights["yoga"])

	// Partial override keeps the other defaults
	partial, err := a.Aggregate(fs, map[string]float64{"yoga": 0})
	require.NoError(t, err)
	assert.Equal(t, 0.35, partial.Weights["house"])
	assert.InDelta(t, 0.5*0.75, partial.AstrologicalScore, 1e-9)
}

func TestAggregate_ClampsOverweight(t *testing.T) {
	a := newTestAggregator()

	s, err := a.Aggregate(uniformFeatures("X", 1), map[string]float64{"house": 2})
	require.NoError(t, err)
	assert.Equal(t, 1.0, s.AstrologicalScore)
}

func TestAggregate_InvalidWeights(t *testing.T) {
	a := newTestAggregator()
	fs := uniformFeatures("X", 0.5)

	_, err := a.Aggregate(fs, map[string]float64{"lunar": 0.1})
	assert.ErrorIs(t, err, contracts.ErrInvalidInput)

	_, err = a.Aggregate(fs, map[string]float64{"house": -0.1})
	assert.ErrorIs(t, err, contracts.ErrInvalidInput)

	_, err = a.Aggregate(nil, nil)
	assert.ErrorIs(t, err, contracts.ErrInvalidInput)
}

func TestAggregateBatch(t *testing.T) {
	a := newTestAggregator()
	list := []*contracts.FeatureSet{
		uniformFeatures("A", 0.9),
		uniformFeatures("B", 0.1),
		uniformFeatures("C", 0.5),
	}

	out, err := a.AggregateBatch(list, nil)
	require.NoError(t, err)
	require.Len(t, out, 3)
	for i, fs := range list {
		single, err := a.Aggregate(fs, nil)
		require.NoError(t, err)
		assert.Equal(t, single, out[i])
	}

	_, err = a.AggregateBatch(nil, nil)
	assert.ErrorIs(t, err, contracts.ErrInvalidInput)

	_, err = a.AggregateBatch([]*contracts.FeatureSet{list[0], nil}, nil)
	assert.ErrorIs(t, err, contracts.ErrInvalidInput)
	assert.Contains(t, err.Error(), "features[1]")
}

func TestThresholdsExposedHighestFirst(t *testing.T) {
	cfg := scoringconfig.Default()
	// Reverse on purpose
	for i, j := 0, len(cfg.Thresholds)-1; i < j; i, j = i+1, j-1 {
		cfg.Thresholds[i], cfg.Thresholds[j] = cfg.Thresholds[j], cfg.Thresholds[i]
	}
	a := NewAggregator(cfg, zerolog.Nop())

	th := a.Thresholds()
	require.Len(t, th, 5)
	assert.Equal(t, contracts.RecommendationStrongBuy, th[0].Name)
	assert.Equal(t, contracts.RecommendationStrongSell, th[4].Name)

	th[0].Min = 0
	assert.Equal(t, 0.75, a.Thresholds()[0].Min)
}

func TestCategoryMax(t *testing.T) {
	assert.Equal(t, 7.0, CategoryMax(contracts.CategoryHouse))
	assert.InDelta(t, 1.0, CategoryMax(contracts.CategoryPlanetary), 1e-9)
	assert.InDelta(t, 0.85, CategoryMax(contracts.CategoryYoga), 1e-9)
	assert.InDelta(t, 1.18, CategoryMax(contracts.CategoryTiming), 1e-9)
}
