package prices

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/astroquant/internal/contracts"
	"github.com/wonny/astroquant/pkg/logger"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestSynthesize_WeekdaysChained(t *testing.T) {
	s := NewSynthesizer(42, logger.Nop())

	// 2024-01-01 is a Monday; four full weeks
	series, err := s.Synthesize("TCS", day(2024, 1, 1), day(2024, 1, 28))
	require.NoError(t, err)
	require.Len(t, series.Bars, 20)

	assert.GreaterOrEqual(t, series.Bars[0].Open, MinStartPrice)
	assert.Less(t, series.Bars[0].Open, MaxStartPrice)

	for i, bar := range series.Bars {
		assert.NotEqual(t, time.Saturday, bar.Date.Weekday())
		assert.NotEqual(t, time.Sunday, bar.Date.Weekday())
		assert.GreaterOrEqual(t, bar.High, bar.Open)
		assert.GreaterOrEqual(t, bar.High, bar.Close)
		assert.LessOrEqual(t, bar.Low, bar.Open)
		assert.LessOrEqual(t, bar.Low, bar.Close)
		assert.GreaterOrEqual(t, bar.Volume, int64(MinVolume))
		assert.Less(t, bar.Volume, int64(MaxVolume))

		if i > 0 {
			assert.True(t, bar.Date.After(series.Bars[i-1].Date))
			assert.Equal(t, series.Bars[i-1].Close, bar.Open)
		}
	}
}

func TestSynthesize_SeedReproducible(t *testing.T) {
	a, err := NewSynthesizer(7, logger.Nop()).Synthesize("INFY", day(2024, 3, 1), day(2024, 4, 30))
	require.NoError(t, err)
	b, err := NewSynthesizer(7, logger.Nop()).Synthesize("INFY", day(2024, 3, 1), day(2024, 4, 30))
	require.NoError(t, err)
	assert.Equal(t, a, b)

	other, err := NewSynthesizer(7, logger.Nop()).Synthesize("TCS", day(2024, 3, 1), day(2024, 4, 30))
	require.NoError(t, err)
	assert.NotEqual(t, a.Bars[0].Open, other.Bars[0].Open)
}

func TestSynthesize_ZeroSeedUsesClock(t *testing.T) {
	s := NewSynthesizer(0, logger.Nop())
	tick := int64(0)
	s.now = func() time.Time {
		tick++
		return time.Unix(0, tick)
	}

	a, err := s.Synthesize("INFY", day(2024, 3, 1), day(2024, 3, 29))
	require.NoError(t, err)
	b, err := s.Synthesize("INFY", day(2024, 3, 1), day(2024, 3, 29))
	require.NoError(t, err)
	assert.NotEqual(t, a.Bars, b.Bars)
}

func TestSynthesize_Edges(t *testing.T) {
	s := NewSynthesizer(1, logger.Nop())

	weekend, err := s.Synthesize("TCS", day(2024, 1, 6), day(2024, 1, 7))
	require.NoError(t, err)
	assert.Empty(t, weekend.Bars)

	_, err = s.Synthesize("TCS", day(2024, 2, 1), day(2024, 1, 1))
	assert.ErrorIs(t, err, contracts.ErrInvalidInput)

	_, err = s.Synthesize(" ", day(2024, 1, 1), day(2024, 2, 1))
	assert.ErrorIs(t, err, contracts.ErrInvalidInput)
}
