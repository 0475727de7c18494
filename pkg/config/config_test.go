package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/complyscan/complyscan/pkg/score"
	"github.com/complyscan/complyscan/pkg/taxonomy"
)

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestDefaultValues(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "technology", cfg.Industry)
	assert.Equal(t, 8, cfg.SeverityWeights[taxonomy.Critical])
	assert.Equal(t, 5, cfg.SeverityWeights[taxonomy.High])
	assert.Equal(t, 90, cfg.LookbackDays)
	assert.Equal(t, 30, cfg.HorizonDays)
	assert.InDelta(t, 1.0, cfg.Blend.Sum(), 1e-9)
}

func TestParseOverlaysDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
organization: acme
industry: finance
horizon_days: 60
seasonal:
  q1: 1.3
  q2: 0.9
  q3: 0.8
  q4: 1.1
`))
	require.NoError(t, err)

	assert.Equal(t, "acme", cfg.Organization)
	assert.Equal(t, "finance", cfg.Industry)
	assert.Equal(t, 60, cfg.HorizonDays)
	assert.Equal(t, 1.3, cfg.Seasonal.Q1)
	// Untouched sections keep their defaults.
	assert.Equal(t, 90, cfg.LookbackDays)
	assert.Equal(t, 8, cfg.SeverityWeights[taxonomy.Critical])
}

func TestParseRejectsBadYAML(t *testing.T) {
	_, err := Parse([]byte("industry: [unclosed"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestParseRejectsBadBlend(t *testing.T) {
	_, err := Parse([]byte(`
blend:
  security: 0.5
  compliance: 0.5
  data_processing: 0.5
  financial_stability: 0.1
  service_quality: 0.1
`))
	require.Error(t, err)
	assert.ErrorIs(t, err, score.ErrInvalidWeightConfig)
}

func TestValidateRejectsNegativeWeight(t *testing.T) {
	cfg := Default()
	cfg.SeverityWeights[taxonomy.High] = -1
	err := cfg.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestValidateRejectsUnknownLevel(t *testing.T) {
	cfg := Default()
	cfg.SeverityWeights["catastrophic"] = 10
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
}

func TestValidateRejectsZeroSeasonal(t *testing.T) {
	cfg := Default()
	cfg.Seasonal.Q3 = 0
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
}

func TestValidateRequiresHistoryDir(t *testing.T) {
	cfg := Default()
	cfg.HistoryDir = ""
	assert.ErrorIs(t, cfg.Validate(), ErrMissingRequired)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "complyscan.yaml")
	require.NoError(t, os.WriteFile(path, []byte("organization: acme\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "acme", cfg.Organization)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrInvalidConfig), "missing file is an I/O error, not invalid config")
}

func TestWeightsConversion(t *testing.T) {
	cfg := Default()
	w := cfg.Weights()
	assert.Equal(t, 8, w[taxonomy.Critical])
	assert.Equal(t, 0, w[taxonomy.None])
}
