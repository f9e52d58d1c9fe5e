package catalog

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCatalogSizes(t *testing.T) {
	assert.Len(t, Signs, 12)
	assert.Len(t, Nakshatras, 27)
	assert.Len(t, Planets, 9)
	assert.Len(t, Yogas, 10)
	assert.Equal(t, []int{2, 5, 8, 9, 10, 11, 12}, WealthHouses)
}

func TestPlanetWeightsSumToOne(t *testing.T) {
	sum := 0.0
	for _, p := range Planets {
		sum += p.Weight
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
	assert.Equal(t, 0.18, MaxPlanetWeight())
}

func TestYogaScores(t *testing.T) {
	for _, y := range Yogas {
		assert.GreaterOrEqual(t, y.Score, 0.08, y.Name)
		assert.LessOrEqual(t, y.Score, 0.25, y.Name)
	}

	assert.True(t, sort.SliceIsSorted(Yogas, func(i, j int) bool { return Yogas[i].Score > Yogas[j].Score }),
		"TopYogaScoreSum relies on descending order")

	assert.Equal(t, 0.25, YogaScore("Raj Yoga"))
	assert.Equal(t, DefaultUnknownYogaScore, YogaScore("Sunapha Yoga"))
	assert.False(t, IsCatalogYoga("Sunapha Yoga"))
	assert.InDelta(t, 0.85, TopYogaScoreSum(), 1e-9)
}

func TestLookups(t *testing.T) {
	w, ok := PlanetWeight("Jupiter")
	assert.True(t, ok)
	assert.Equal(t, 0.18, w)

	_, ok = PlanetWeight("Pluto")
	assert.False(t, ok)

	idx, ok := NakshatraIndex("Revati")
	assert.True(t, ok)
	assert.Equal(t, 26, idx)

	_, ok = NakshatraIndex("Unknown")
	assert.False(t, ok)
}
