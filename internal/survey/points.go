package survey

import (
	"github.com/KaramelBytes/segmap-cli/internal/numeric"
	"github.com/KaramelBytes/segmap-cli/internal/regression"
)

// ColorMode picks how a point's color is resolved.
type ColorMode string

const (
	ColorByCluster ColorMode = "cluster"
	ColorByModel   ColorMode = "model"
)

// DefaultFallbackColor is used when nothing else resolves.
const DefaultFallbackColor = "#94A3B8"

// PointOptions configures BuildGroupedPoints.
type PointOptions struct {
	GroupBy     GroupBy
	X, Y        Axis
	ColorMode   ColorMode
	Palette     Palette
	ModelColors map[string]string
	Fallback    string
}

// PercentPoint is one group's position on the scatter.
type PercentPoint struct {
	Key   GroupKey `json:"key"`
	Name  string   `json:"name"`
	X     float64  `json:"x"`
	Y     float64  `json:"y"`
	N     int      `json:"n"`
	Color string   `json:"color"`
}

// BuildGroupedPoints partitions rows and emits one point per group whose x
// and y percentages are both defined.
func (s *Scorer) BuildGroupedPoints(rows []Row, opts PointOptions) []PercentPoint {
	by := opts.GroupBy
	if by == "" {
		by = ByCluster
	}
	if opts.Palette.Series == nil {
		opts.Palette = DefaultPalette()
	}
	groups := Partition(rows, by)
	out := make([]PercentPoint, 0, len(groups))
	for _, g := range groups {
		x := s.Percent(g.Rows, opts.X)
		y := s.Percent(g.Rows, opts.Y)
		if !numeric.IsFinite(x) || !numeric.IsFinite(y) {
			continue
		}
		out = append(out, PercentPoint{
			Key:   g.Key,
			Name:  g.Key.String(),
			X:     x,
			Y:     y,
			N:     len(g.Rows),
			Color: opts.colorFor(g.Key),
		})
	}
	return out
}

func (o PointOptions) colorFor(k GroupKey) string {
	fallback := o.Fallback
	if fallback == "" {
		fallback = DefaultFallbackColor
	}
	mode := o.ColorMode
	if mode == "" {
		mode = ColorMode(k.By)
	}
	switch mode {
	case ColorByModel:
		if k.By != ByModel {
			return fallback
		}
		if c, ok := o.ModelColors[k.Model]; ok && c != "" {
			return c
		}
		if c := o.Palette.ModelColor(k.Model); c != "" {
			return c
		}
	default:
		if k.By != ByCluster {
			return fallback
		}
		if c := o.Palette.ClusterColor(k.Cluster); c != "" {
			return c
		}
	}
	return fallback
}

// XY converts points to regression input.
func XY(points []PercentPoint) []regression.Point {
	out := make([]regression.Point, len(points))
	for i, p := range points {
		out[i] = regression.Point{X: p.X, Y: p.Y}
	}
	return out
}
