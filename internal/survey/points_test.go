package survey

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/segmap-cli/internal/numeric"
)

func loyaltyRows() []Row {
	return []Row{
		{"model": String("A"), "cluster": Number(1), "LOY": String("loyal")},
		{"model": String("A"), "cluster": Number(1), "LOY": String("not loyal")},
		{"model": String("B"), "cluster": Number(2), "LOY": String("loyal")},
	}
}

func TestBuildGroupedPointsEndToEnd(t *testing.T) {
	p, err := NewPolicies("LOY", "")
	require.NoError(t, err)
	s := NewScorer(nil, p)
	axis := Axis{Type: AxisLoyalty, Key: "LOY"}

	pts := s.BuildGroupedPoints(loyaltyRows(), PointOptions{GroupBy: ByCluster, X: axis, Y: axis})
	require.Len(t, pts, 2)
	assert.Equal(t, "C1", pts[0].Name)
	assert.Equal(t, 50.0, pts[0].X)
	assert.Equal(t, 50.0, pts[0].Y)
	assert.Equal(t, 2, pts[0].N)
	assert.Equal(t, "#1F77B4", pts[0].Color)
	assert.Equal(t, 100.0, pts[1].X)
	assert.Equal(t, 100.0, pts[1].Y)
	assert.Equal(t, "#FF7F0E", pts[1].Color)
}

func TestBuildGroupedPointsIsPure(t *testing.T) {
	s := NewScorer(nil, nil)
	rows := loyaltyRows()
	opts := PointOptions{
		GroupBy: ByModel,
		X:       Axis{Type: AxisLoyalty, Key: "LOY"},
		Y:       Axis{Type: AxisImagery, Key: "IMAGE_X"},
	}
	a := s.BuildGroupedPoints(rows, opts)
	b := s.BuildGroupedPoints(rows, opts)
	if diff := cmp.Diff(a, b); diff != "" {
		t.Fatalf("second call differs (-first +second):\n%s", diff)
	}
	for i := range a {
		assert.Equal(t, math.Float64bits(a[i].X), math.Float64bits(b[i].X))
	}
	assert.Equal(t, loyaltyRows(), rows)
}

func TestBuildGroupedPointsModelColors(t *testing.T) {
	s := NewScorer(nil, nil)
	axis := Axis{Type: AxisLoyalty, Key: "LOY"}
	pal := DefaultPalette()
	pts := s.BuildGroupedPoints(loyaltyRows(), PointOptions{
		GroupBy:     ByModel,
		X:           axis,
		Y:           axis,
		ColorMode:   ColorByModel,
		ModelColors: map[string]string{"A": "#000000"},
	})
	require.Len(t, pts, 2)
	assert.Equal(t, "#000000", pts[0].Color)
	assert.Equal(t, pal.Series[numeric.HashString("B")%15], pts[1].Color)

	// cluster coloring on model groups has no cluster id to use
	pts = s.BuildGroupedPoints(loyaltyRows(), PointOptions{
		GroupBy: ByModel, X: axis, Y: axis, ColorMode: ColorByCluster, Fallback: "#123456",
	})
	assert.Equal(t, "#123456", pts[0].Color)
}

func TestBuildGroupedPointsDropsUndefinedGroups(t *testing.T) {
	s := NewScorer(nil, nil)
	rows := append(loyaltyRows(), Row{"model": String("C"), "cluster": String("x")})
	pts := s.BuildGroupedPoints(rows, PointOptions{
		X: Axis{Type: AxisLoyalty, Key: "LOY"},
		Y: Axis{Type: AxisPurchaseReason},
	})
	assert.Empty(t, pts)
}

func TestClusterColorFallbackCycles(t *testing.T) {
	p := DefaultPalette()
	assert.Equal(t, "#EC4899", p.ClusterColor(7))
	assert.Equal(t, p.Series[7], p.ClusterColor(8))
	assert.Equal(t, p.Series[0], p.ClusterColor(16))
	assert.Equal(t, p.Series[14], p.ClusterColor(0))
}

func TestPartitionOrdering(t *testing.T) {
	rows := []Row{
		{"model": String("Zed"), "cluster": Number(10)},
		{"model": String("Alpha"), "cluster": Number(2)},
		{"model": String(""), "cluster": Number(2)},
		{"model": String("Alpha")},
	}
	byCluster := Partition(rows, ByCluster)
	require.Len(t, byCluster, 2)
	assert.Equal(t, 2, byCluster[0].Key.Cluster)
	assert.Len(t, byCluster[0].Rows, 2)
	assert.Equal(t, 10, byCluster[1].Key.Cluster)

	byModel := Partition(rows, ByModel)
	require.Len(t, byModel, 2)
	assert.Equal(t, "Alpha", byModel[0].Key.Model)
	assert.Len(t, byModel[0].Rows, 2)
	assert.Equal(t, "Zed", byModel[1].Key.Model)
}
