package prices

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/astroquant/internal/contracts"
)

func TestRisk(t *testing.T) {
	// returns: +10%, -20%, +25%, -10%
	s := seriesOf(100, 110, 88, 110, 99)

	m, err := Risk(s, 0.75)
	require.NoError(t, err)

	// idx = floor(0.25 * 4) = 1 → sorted[-0.2, -0.1, 0.1, 0.25][1] = -0.1
	assert.InDelta(t, 0.1, m.VaR, 1e-9)
	assert.InDelta(t, 0.15, m.CVaR, 1e-9)
	// peak 110 → trough 88
	assert.InDelta(t, 0.2, m.MaxDrawdown, 1e-9)
}

func TestRisk_NoLosses(t *testing.T) {
	m, err := Risk(seriesOf(100, 101, 102, 103), DefaultVaRConfidence)
	require.NoError(t, err)
	assert.Equal(t, 0.0, m.VaR)
	assert.Equal(t, 0.0, m.CVaR)
	assert.Equal(t, 0.0, m.MaxDrawdown)
}

func TestRisk_ShortSeries(t *testing.T) {
	m, err := Risk(seriesOf(100), DefaultVaRConfidence)
	require.NoError(t, err)
	assert.Equal(t, &RiskMetrics{Confidence: DefaultVaRConfidence}, m)

	m, err = Risk(nil, DefaultVaRConfidence)
	require.NoError(t, err)
	assert.Equal(t, 0.0, m.VaR)
}

func TestRisk_InvalidConfidence(t *testing.T) {
	for _, c := range []float64{0, 1, -0.5, 1.5} {
		_, err := Risk(seriesOf(100, 90), c)
		assert.ErrorIs(t, err, contracts.ErrInvalidInput, "confidence %g", c)
	}
}
