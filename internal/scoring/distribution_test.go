package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/astroquant/internal/contracts"
)

func TestDistribution_Empty(t *testing.T) {
	a := newTestAggregator()

	d := a.Distribution(nil)
	assert.Equal(t, 0, d.Count)
	assert.Equal(t, 0.0, d.Mean)
	assert.Equal(t, 0.0, d.StdDev)
	require.Len(t, d.Buckets, 10)
	for _, b := range d.Buckets {
		assert.Equal(t, 0, b.Count)
	}
	assert.Len(t, d.Recommendations, 5)
	for _, n := range d.Recommendations {
		assert.Equal(t, 0, n)
	}
}

func TestDistribution(t *testing.T) {
	a := newTestAggregator()

	list := []contracts.AggregatedScore{
		{Symbol: "A", AstrologicalScore: 0.0, Recommendation: contracts.RecommendationStrongSell},
		{Symbol: "B", AstrologicalScore: 0.45, Recommendation: contracts.RecommendationHold},
		{Symbol: "C", AstrologicalScore: 0.55, Recommendation: contracts.RecommendationHold},
		{Symbol: "D", AstrologicalScore: 1.0, Recommendation: contracts.RecommendationStrongBuy},
	}

	d := a.Distribution(list)
	assert.Equal(t, 4, d.Count)
	assert.Equal(t, 0.0, d.Min)
	assert.Equal(t, 1.0, d.Max)
	assert.InDelta(t, 0.5, d.Mean, 1e-9)
	// population stddev of {0,.45,.55,1}: sqrt((.25+.0025+.0025+.25)/4)
	assert.InDelta(t, 0.355, d.StdDev, 1e-9)

	assert.Equal(t, 1, d.Buckets[0].Count)
	assert.Equal(t, 1, d.Buckets[4].Count)
	assert.Equal(t, 1, d.Buckets[5].Count)
	assert.Equal(t, 1, d.Buckets[9].Count, "1.0 belongs to the last bucket")
	assert.Equal(t, 0.9, d.Buckets[9].Lower)
	assert.Equal(t, 1.0, d.Buckets[9].Upper)

	assert.Equal(t, 2, d.Recommendations[contracts.RecommendationHold])
	assert.Equal(t, 1, d.Recommendations[contracts.RecommendationStrongBuy])
	assert.Equal(t, 0, d.Recommendations[contracts.RecommendationBuy])
}

func TestBucketIndex(t *testing.T) {
	assert.Equal(t, 0, bucketIndex(0, 10))
	assert.Equal(t, 0, bucketIndex(0.099, 10))
	assert.Equal(t, 1, bucketIndex(0.1, 10))
	assert.Equal(t, 9, bucketIndex(1.0, 10))
	assert.Equal(t, 9, bucketIndex(1.5, 10))
	assert.Equal(t, 0, bucketIndex(-0.2, 10))
	assert.Equal(t, 0, bucketIndex(0.7, 1))
}
