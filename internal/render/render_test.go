package render

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/KaramelBytes/segmap-cli/internal/perception"
	"github.com/KaramelBytes/segmap-cli/internal/regression"
	"github.com/KaramelBytes/segmap-cli/internal/survey"
)

var pngSignature = []byte("\x89PNG\r\n\x1a\n")

func TestScatterPNG(t *testing.T) {
	pts := []survey.PercentPoint{
		{Name: "C1", X: 20, Y: 30, N: 10, Color: "#1F77B4"},
		{Name: "C2", X: 50, Y: 45, N: 12, Color: "#FF7F0E"},
		{Name: "C3", X: 80, Y: 70, N: 9, Color: "bogus"},
	}
	trend := regression.BuildTrendLine(survey.XY(pts), [2]float64{18, 82})
	require.NotNil(t, trend)
	b, err := Scatter(pts, trend, Options{Width: 400, Height: 300, Title: "Loyalty vs WTP"})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(b, pngSignature))

	_, err = Scatter(nil, nil, Options{})
	assert.True(t, errors.Is(err, ErrNoPoints))
}

func TestPerceptionPNG(t *testing.T) {
	tbl := perception.BuildTable([]perception.Observation{
		{Model: "Sedan", Attribute: "Fun", Value: 30},
		{Model: "Sedan", Attribute: "Safe", Value: 10},
		{Model: "Truck", Attribute: "Fun", Value: 5},
		{Model: "Truck", Attribute: "Safe", Value: 25},
	})
	m, err := tbl.Coords()
	require.NoError(t, err)
	b, err := Perception(m, tbl, Options{Width: 400, Height: 300})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(b, pngSignature))

	_, err = Perception(nil, tbl, Options{})
	assert.ErrorIs(t, err, ErrNoPoints)
}

func TestHexColor(t *testing.T) {
	c, ok := HexColor("#1F77B4")
	require.True(t, ok)
	assert.Equal(t, drawing.Color{R: 0x1F, G: 0x77, B: 0xB4, A: 255}, c)
	_, ok = HexColor("#123")
	assert.False(t, ok)
	_, ok = HexColor("zzzzzz")
	assert.False(t, ok)
}

func TestEmbeddingPNG(t *testing.T) {
	groups := []EmbeddingGroup{
		{Name: "C1", Color: "#2563EB", X: []float64{0.1, 0.2, 0.3}, Y: []float64{1, 1.5, 0.8}},
		{Name: "C2", Color: "", X: []float64{-1, -0.5}, Y: []float64{0, 0.2}},
		{Name: "ragged", X: []float64{1}, Y: nil},
	}
	b, err := Embedding(groups, Options{Width: 320, Height: 240})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(b, pngSignature))

	_, err = Embedding([]EmbeddingGroup{{Name: "empty"}}, Options{})
	assert.ErrorIs(t, err, ErrNoPoints)
}
