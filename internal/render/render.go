// Package render draws the scatter and perception charts as PNG images.
package render

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/KaramelBytes/segmap-cli/internal/numeric"
	"github.com/KaramelBytes/segmap-cli/internal/perception"
	"github.com/KaramelBytes/segmap-cli/internal/regression"
	"github.com/KaramelBytes/segmap-cli/internal/survey"
)

// ErrNoPoints is returned when there is nothing to plot.
var ErrNoPoints = errors.New("render: no points to plot")

// Options sets the canvas size and captions.
type Options struct {
	Width  int
	Height int
	Title  string
	XLabel string
	YLabel string
}

func (o Options) size() (int, int) {
	w, h := o.Width, o.Height
	if w <= 0 {
		w = 960
	}
	if h <= 0 {
		h = 640
	}
	return w, h
}

var transparent = drawing.Color{R: 255, G: 255, B: 255, A: 0}

// pointStyle renders dots only, no connecting line.
func pointStyle(col drawing.Color, width float64) chart.Style {
	return chart.Style{
		StrokeWidth: 0,
		StrokeColor: transparent,
		DotWidth:    width,
		DotColor:    col,
	}
}

// Scatter plots one dot per group and, when trend is non-nil, the fitted line.
func Scatter(points []survey.PercentPoint, trend *regression.TrendLine, opt Options) ([]byte, error) {
	if len(points) == 0 {
		return nil, ErrNoPoints
	}
	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	series := make([]chart.Series, 0, len(points)+1)
	for i, p := range points {
		xs[i], ys[i] = p.X, p.Y
		col, ok := HexColor(p.Color)
		if !ok {
			col = chart.ColorBlue
		}
		series = append(series, chart.ContinuousSeries{
			Name:    fmt.Sprintf("%s (n=%d)", p.Name, p.N),
			XValues: []float64{p.X},
			YValues: []float64{p.Y},
			Style:   pointStyle(col, 8),
		})
	}
	xd := numeric.PercentPaddedDomain(xs)
	yd := numeric.PercentPaddedDomain(ys)
	if trend != nil {
		name := fmt.Sprintf("Trend (R²=%.2f)", trend.R2)
		series = append(series, chart.ContinuousSeries{
			Name:    name,
			XValues: []float64{trend.Line[0].X, trend.Line[1].X},
			YValues: []float64{trend.Line[0].Y, trend.Line[1].Y},
			Style: chart.Style{
				StrokeWidth:     2,
				StrokeColor:     drawing.Color{R: 17, G: 35, B: 47, A: 200},
				StrokeDashArray: []float64{6, 4},
			},
		})
	}
	return renderPNG(series, xd, yd, opt)
}

// Perception plots row (model) and column (attribute) coordinates with labels.
func Perception(m *perception.Map, t perception.Table, opt Options) ([]byte, error) {
	if m == nil || len(m.Rows) == 0 {
		return nil, ErrNoPoints
	}
	var xs, ys []float64
	split := func(cs []perception.Coord) ([]float64, []float64) {
		x := make([]float64, len(cs))
		y := make([]float64, len(cs))
		for i, c := range cs {
			x[i], y[i] = c[0], c[1]
		}
		xs = append(xs, x...)
		ys = append(ys, y...)
		return x, y
	}
	rx, ry := split(m.Rows)
	cx, cy := split(m.Cols)

	var notes []chart.Value2
	for i, c := range m.Rows {
		if i < len(t.Rows) {
			notes = append(notes, chart.Value2{XValue: c[0], YValue: c[1], Label: t.Rows[i]})
		}
	}
	for j, c := range m.Cols {
		if j < len(t.Cols) {
			notes = append(notes, chart.Value2{XValue: c[0], YValue: c[1], Label: t.Cols[j]})
		}
	}
	series := []chart.Series{
		chart.ContinuousSeries{Name: "Models", XValues: rx, YValues: ry, Style: pointStyle(chart.ColorBlue, 9)},
		chart.ContinuousSeries{Name: "Attributes", XValues: cx, YValues: cy, Style: pointStyle(chart.ColorOrange, 6)},
	}
	if len(notes) > 0 {
		series = append(series, chart.AnnotationSeries{Annotations: notes})
	}
	return renderPNG(series, numeric.PaddedDomain(xs), numeric.PaddedDomain(ys), opt)
}

func renderPNG(series []chart.Series, xd, yd [2]float64, opt Options) ([]byte, error) {
	w, h := opt.size()
	ch := chart.Chart{
		Title:      opt.Title,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 12, Bottom: 24}},
		Width:      w,
		Height:     h,
		XAxis:      chart.XAxis{Name: opt.XLabel, Range: &chart.ContinuousRange{Min: xd[0], Max: xd[1]}},
		YAxis:      chart.YAxis{Name: opt.YLabel, Range: &chart.ContinuousRange{Min: yd[0], Max: yd[1]}},
		Series:     series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render chart: %w", err)
	}
	return buf.Bytes(), nil
}

// HexColor parses "#RRGGBB" or "RRGGBB".
func HexColor(s string) (drawing.Color, bool) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return drawing.Color{}, false
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return drawing.Color{}, false
	}
	return drawing.Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, true
}

// EmbeddingGroup is one cluster's respondents in embedding space.
type EmbeddingGroup struct {
	Name  string
	Color string
	X, Y  []float64
}

// Embedding plots respondents as small dots, one series per group.
func Embedding(groups []EmbeddingGroup, opt Options) ([]byte, error) {
	var xs, ys []float64
	series := make([]chart.Series, 0, len(groups))
	for _, g := range groups {
		if len(g.X) == 0 || len(g.X) != len(g.Y) {
			continue
		}
		col, ok := HexColor(g.Color)
		if !ok {
			col = chart.ColorAlternateGray
		}
		xs = append(xs, g.X...)
		ys = append(ys, g.Y...)
		series = append(series, chart.ContinuousSeries{
			Name:    fmt.Sprintf("%s (n=%d)", g.Name, len(g.X)),
			XValues: g.X,
			YValues: g.Y,
			Style:   pointStyle(col, 2),
		})
	}
	if len(series) == 0 {
		return nil, ErrNoPoints
	}
	return renderPNG(series, numeric.PaddedDomain(xs), numeric.PaddedDomain(ys), opt)
}
