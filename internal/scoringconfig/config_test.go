package scoringconfig

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	path := "../../config/scoring.yaml"

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Skip("config file not found")
	}

	cfg, yamlData, err := Load(path)
	require.NoError(t, err)
	assert.NotEmpty(t, yamlData)

	// 파일과 내장 기본값은 동일해야 함
	assert.Equal(t, Default(), cfg)

	hash, err := Hash(cfg)
	require.NoError(t, err)
	assert.Len(t, hash, 64)

	defaultHash, err := Hash(Default())
	require.NoError(t, err)
	assert.Equal(t, defaultHash, hash)
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, Validate(cfg))
	assert.InDelta(t, 1.0, cfg.Weights.Sum(), 1e-12)
}

func TestParse_UnknownField(t *testing.T) {
	_, err := Parse([]byte(`
weights:
  house: 0.35
  planetary: 0.30
  yoga: 0.25
  timing: 0.10
  lunar: 0.1
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lunar")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(cfg *Config)
		field  string
	}{
		{"weights sum", func(c *Config) { c.Weights.House = 0.5 }, "weights"},
		{"negative weight", func(c *Config) { c.Weights.House = 0.55; c.Weights.Timing = -0.10 }, "weights.timing"},
		{"no normalization", func(c *Config) { c.Normalization = "" }, "normalization"},
		{"unknown normalization", func(c *Config) { c.Normalization = "zscore" }, "normalization"},
		{"no thresholds", func(c *Config) { c.Thresholds = nil }, "thresholds"},
		{"not descending", func(c *Config) { c.Thresholds[1].Min = 0.8 }, "thresholds[1].min"},
		{"duplicate name", func(c *Config) { c.Thresholds[2].Name = c.Thresholds[1].Name }, "thresholds[2].name"},
		{"empty name", func(c *Config) { c.Thresholds[0].Name = "" }, "thresholds[0].name"},
		{"uncovered bottom", func(c *Config) { c.Thresholds = c.Thresholds[:4] }, "thresholds"},
		{"floor too high", func(c *Config) { c.Confidence.Floor = 1.5 }, "confidence.floor"},
		{"no buckets", func(c *Config) { c.Distribution.Buckets = 0 }, "distribution.buckets"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := Validate(cfg)
			require.Error(t, err)

			var ve ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestHash_ChangesWithRules(t *testing.T) {
	a, err := Hash(Default())
	require.NoError(t, err)

	cfg := Default()
	cfg.Confidence.Floor = 0.4
	b, err := Hash(cfg)
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestNormalizationModes(t *testing.T) {
	assert.Equal(t, NormalizationNone, Default().Normalization)

	for _, mode := range NormalizationModes {
		cfg := Default()
		cfg.Normalization = mode
		assert.NoError(t, Validate(cfg), mode)
	}

	a, err := Hash(Default())
	require.NoError(t, err)
	cfg := Default()
	cfg.Normalization = NormalizationCatalogMax
	b, err := Hash(cfg)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestLoadOrDefault(t *testing.T) {
	cfg, err := LoadOrDefault("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("confidence:\n  floor: 2\n"), 0o600))

	_, err = LoadOrDefault(path)
	require.Error(t, err)
}
