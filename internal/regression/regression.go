// Package regression fits ordinary least-squares lines to scatter points and
// derives the trend-line endpoints drawn over a chart domain.
package regression

import (
	"github.com/KaramelBytes/segmap-cli/internal/numeric"
)

// Point is a single (x, y) sample.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Result is a fitted line y = Slope*x + Intercept with its coefficient of determination.
type Result struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
	R2        float64 `json:"r2"`
}

// At evaluates the fitted line.
func (r Result) At(x float64) float64 { return r.Intercept + r.Slope*x }

// TrendLine is a fitted line clipped to a chart's x-domain.
type TrendLine struct {
	Line [2]Point `json:"line"`
	R2   float64  `json:"r2"`
}

// Fit returns the least-squares fit of points, or nil when fewer than two
// finite points remain or every x is identical. Points with a non-finite
// coordinate are discarded. When every y is identical R2 is 0.
func Fit(points []Point) *Result {
	var n, sumX, sumY, sumXY, sumXX float64
	pts := make([]Point, 0, len(points))
	for _, p := range points {
		if !numeric.IsFinite(p.X) || !numeric.IsFinite(p.Y) {
			continue
		}
		pts = append(pts, p)
		n++
		sumX += p.X
		sumY += p.Y
		sumXY += p.X * p.Y
		sumXX += p.X * p.X
	}
	if len(pts) < 2 {
		return nil
	}
	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return nil
	}
	slope := (n*sumXY - sumX*sumY) / denom
	intercept := (sumY - slope*sumX) / n

	meanY := sumY / n
	var ssRes, ssTot float64
	for _, p := range pts {
		res := p.Y - (slope*p.X + intercept)
		dev := p.Y - meanY
		ssRes += res * res
		ssTot += dev * dev
	}
	r2 := 0.0
	if ssTot > 0 {
		r2 = 1 - ssRes/ssTot
	}
	return &Result{Slope: slope, Intercept: intercept, R2: r2}
}

// BuildTrendLine fits points and evaluates the line at both edges of xDomain.
// The domain may be given in either order.
func BuildTrendLine(points []Point, xDomain [2]float64) *TrendLine {
	reg := Fit(points)
	if reg == nil || !numeric.IsFinite(xDomain[0]) || !numeric.IsFinite(xDomain[1]) {
		return nil
	}
	x0, x1 := xDomain[0], xDomain[1]
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	return &TrendLine{
		Line: [2]Point{{X: x0, Y: reg.At(x0)}, {X: x1, Y: reg.At(x1)}},
		R2:   reg.R2,
	}
}

// InsetEndpoint returns an anchor for the R² label: xPct of the x-span left of
// the right domain edge, on the line, lifted by yPct of the y-span.
func InsetEndpoint(trend *TrendLine, xDomain, yDomain [2]float64, xPct, yPct float64) (Point, bool) {
	if trend == nil {
		return Point{}, false
	}
	d0, d1 := xDomain[0], xDomain[1]
	if d0 > d1 {
		d0, d1 = d1, d0
	}
	spanX := d1 - d0
	if spanX == 0 {
		spanX = 1
	}
	x := d1 - spanX*xPct
	p0, p1 := trend.Line[0], trend.Line[1]
	dx := p1.X - p0.X
	if dx == 0 {
		dx = 1e-9
	}
	m := (p1.Y - p0.Y) / dx
	b := p0.Y - m*p0.X

	spanY := yDomain[1] - yDomain[0]
	if spanY == 0 {
		spanY = 1
	}
	return Point{X: x, Y: m*x + b + spanY*yPct}, true
}
