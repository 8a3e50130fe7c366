package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.yaml")
	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "cluster", c.GroupBy)
	assert.Equal(t, "OL_MODEL_GRP", c.LoyaltyField)
	assert.Equal(t, "PR_MOST", c.PurchaseReasonField)
	assert.Equal(t, 0.5, c.SubsampleFraction)
	assert.Equal(t, 960, c.ChartWidth)
	assert.NotEmpty(t, c.SessionsDir)
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	c, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, c.Set("group_by", "model"))
	require.NoError(t, c.Set("chart_width", "1200"))
	require.NoError(t, c.Set("subsample_fraction", "0.25"))
	require.NoError(t, Save(c, path))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "model", got.GroupBy)
	assert.Equal(t, 1200, got.ChartWidth)
	assert.Equal(t, 0.25, got.SubsampleFraction)
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	c, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, c.Set("price_field", "FROM_FILE"))
	require.NoError(t, Save(c, path))

	t.Setenv("SEGMAP_PRICE_FIELD", "FROM_ENV")
	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "FROM_ENV", got.PriceField)
}

func TestSetRejectsBadValues(t *testing.T) {
	var c Global
	assert.Error(t, c.Set("nope", "x"))
	assert.Error(t, c.Set("chart_height", "-3"))
	assert.Error(t, c.Set("subsample_fraction", "2"))
	assert.NoError(t, c.Set("fallback_color", "#000000"))
	assert.Equal(t, "#000000", c.FallbackColor)
}
