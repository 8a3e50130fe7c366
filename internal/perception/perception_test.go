package perception

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoordsRejectsSmallMatrices(t *testing.T) {
	for name, m := range map[string][][]float64{
		"nil":     nil,
		"one row": {{1, 2, 3}},
		"one col": {{1}, {2}},
		"no cols": {{}, {}},
	} {
		if _, err := Coords(m); !errors.Is(err, ErrInsufficientData) {
			t.Fatalf("%s: err = %v, want ErrInsufficientData", name, err)
		}
	}
	_, err := Coords([][]float64{{1, 2}, {3}})
	assert.ErrorIs(t, err, ErrRagged)
	_, err = Coords([][]float64{{0, 0}, {0, 0}})
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestCoordsAssociationStrength(t *testing.T) {
	m, err := Coords([][]float64{{50, 10}, {5, 5}})
	require.NoError(t, err)
	require.Len(t, m.Rows, 2)
	require.Len(t, m.Cols, 2)
	assert.False(t, m.Scaled)

	r1, r2 := m.Rows[0][0], m.Rows[1][0]
	assert.Greater(t, math.Abs(r2), math.Abs(r1), "weaker row should sit farther out")
	assert.Less(t, r1*r2, 0.0, "rows should fall on opposite sides")

	// a 2x2 table has a single non-trivial dimension: |F_i1| = ||Z_i|| / sqrt(r_i)
	assert.InDelta(t, 0.116, math.Abs(r1), 0.002)
	assert.InDelta(t, 0.696, math.Abs(r2), 0.002)
	for _, c := range append(m.Rows, m.Cols...) {
		assert.False(t, math.IsNaN(c[1]) || math.IsInf(c[1], 0))
	}
	assert.GreaterOrEqual(t, m.Sigma[0], m.Sigma[1])
}

func TestCoordsDeterministic(t *testing.T) {
	in := [][]float64{{12, 3, 7}, {4, 9, 2}, {6, 6, 11}}
	a, err := Coords(in)
	require.NoError(t, err)
	b, err := Coords(in)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestCoordsInflatesTinyMaps(t *testing.T) {
	m, err := Coords([][]float64{{1000, 1001}, {1001, 1000}})
	require.NoError(t, err)
	assert.True(t, m.Scaled)
	assert.InDelta(t, 0.025, math.Abs(m.Rows[0][0]), 0.001)
	assert.InDelta(t, 0.025, math.Abs(m.Cols[1][0]), 0.001)
}

func TestBuildTable(t *testing.T) {
	tbl := BuildTable([]Observation{
		{Model: "Sedan", Attribute: "Fun", Value: 3},
		{Model: "Truck", Attribute: "Rugged", Value: 9},
		{Model: "Sedan", Attribute: "Rugged", Value: 1},
		{Model: "Sedan", Attribute: "Fun", Value: 2},
		{Model: " ", Attribute: "Fun", Value: 100},
	})
	assert.Equal(t, []string{"Sedan", "Truck"}, tbl.Rows)
	assert.Equal(t, []string{"Fun", "Rugged"}, tbl.Cols)
	assert.Equal(t, [][]float64{{5, 1}, {0, 9}}, tbl.Matrix)

	m, err := tbl.Coords()
	require.NoError(t, err)
	assert.Len(t, m.Rows, 2)
}
