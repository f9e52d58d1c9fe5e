package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/astroquant/internal/contracts"
)

func scores(pairs ...interface{}) []contracts.AggregatedScore {
	var out []contracts.AggregatedScore
	for i := 0; i < len(pairs); i += 2 {
		out = append(out, contracts.AggregatedScore{
			Symbol:            pairs[i].(string),
			AstrologicalScore: pairs[i+1].(float64),
		})
	}
	return out
}

func TestRank(t *testing.T) {
	a := newTestAggregator()

	ranked, err := a.Rank(scores("A", 0.3, "B", 0.9, "C", 0.6, "D", 0.1), 3)
	require.NoError(t, err)
	require.Len(t, ranked, 3)

	assert.Equal(t, "B", ranked[0].Symbol)
	assert.Equal(t, "C", ranked[1].Symbol)
	assert.Equal(t, "A", ranked[2].Symbol)
	for i, r := range ranked {
		assert.Equal(t, i+1, r.Rank)
	}
}

func TestRank_StableTies(t *testing.T) {
	a := newTestAggregator()

	ranked, err := a.Rank(scores("E", 0.5, "A", 0.5, "D", 0.7, "C", 0.5, "B", 0.5), 10)
	require.NoError(t, err)
	require.Len(t, ranked, 5)

	got := make([]string, len(ranked))
	for i, r := range ranked {
		got[i] = r.Symbol
	}
	assert.Equal(t, []string{"D", "E", "A", "C", "B"}, got)
}

func TestRank_DoesNotMutateInput(t *testing.T) {
	a := newTestAggregator()
	in := scores("A", 0.1, "B", 0.9)

	_, err := a.Rank(in, 1)
	require.NoError(t, err)
	assert.Equal(t, "A", in[0].Symbol)
}

func TestRank_InvalidTopN(t *testing.T) {
	a := newTestAggregator()

	for _, n := range []int{0, -1} {
		_, err := a.Rank(scores("A", 0.1), n)
		assert.ErrorIs(t, err, contracts.ErrInvalidInput)
	}
}

func TestRank_Empty(t *testing.T) {
	a := newTestAggregator()

	ranked, err := a.Rank(nil, 5)
	require.NoError(t, err)
	assert.Empty(t, ranked)
}
