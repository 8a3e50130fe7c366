// Package perception places models and attributes on a shared 2-D map using
// a small correspondence analysis.
package perception

import (
	"errors"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

var (
	ErrInsufficientData = errors.New("perception: need at least 2 rows and 2 columns")
	ErrRagged           = errors.New("perception: rows have different lengths")
	ErrEmpty            = errors.New("perception: matrix total is zero")
)

const (
	iterations  = 100
	massEpsilon = 1e-12
	tinyCoord   = 1e-3
	inflation   = 50
	seed        = 1
)

// Coord is a 2-D position.
type Coord [2]float64

// Map holds the row and column coordinates plus the two singular values.
type Map struct {
	Rows   []Coord    `json:"rows"`
	Cols   []Coord    `json:"cols"`
	Sigma  [2]float64 `json:"sigma"`
	Scaled bool       `json:"scaled"`
}

// Coords runs the correspondence analysis on an R×C contingency matrix.
func Coords(matrix [][]float64) (*Map, error) {
	r := len(matrix)
	if r < 2 {
		return nil, ErrInsufficientData
	}
	c := len(matrix[0])
	if c < 2 {
		return nil, ErrInsufficientData
	}
	var total float64
	for _, row := range matrix {
		if len(row) != c {
			return nil, ErrRagged
		}
		for _, v := range row {
			total += v
		}
	}
	if total == 0 || math.IsNaN(total) || math.IsInf(total, 0) {
		return nil, ErrEmpty
	}

	rMass := make([]float64, r)
	cMass := make([]float64, c)
	p := mat.NewDense(r, c, nil)
	for i, row := range matrix {
		for j, v := range row {
			pv := v / total
			p.Set(i, j, pv)
			rMass[i] += pv
			cMass[j] += pv
		}
	}
	for i := range rMass {
		rMass[i] = floorMass(rMass[i])
	}
	for j := range cMass {
		cMass[j] = floorMass(cMass[j])
	}

	z := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			e := rMass[i] * cMass[j]
			z.Set(i, j, (p.At(i, j)-e)/math.Sqrt(e))
		}
	}

	var ztz mat.Dense
	ztz.Mul(z.T(), z)

	rng := rand.New(rand.NewSource(seed))
	v1, l1 := powerIterate(&ztz, rng)
	var outer, deflated mat.Dense
	outer.Outer(l1, v1, v1)
	deflated.Sub(&ztz, &outer)
	v2, l2 := powerIterate(&deflated, rng)

	s1 := math.Sqrt(math.Max(0, l1))
	s2 := math.Sqrt(math.Max(0, l2))

	var zv1, zv2 mat.VecDense
	zv1.MulVec(z, v1)
	zv2.MulVec(z, v2)

	m := &Map{Rows: make([]Coord, r), Cols: make([]Coord, c), Sigma: [2]float64{s1, s2}}
	for i := 0; i < r; i++ {
		u1 := unitScore(zv1.AtVec(i), s1)
		u2 := unitScore(zv2.AtVec(i), s2)
		d := math.Sqrt(rMass[i])
		m.Rows[i] = Coord{s1 * u1 / d, s2 * u2 / d}
	}
	for j := 0; j < c; j++ {
		d := math.Sqrt(cMass[j])
		m.Cols[j] = Coord{s1 * v1.AtVec(j) / d, s2 * v2.AtVec(j) / d}
	}
	m.inflateIfTiny()
	return m, nil
}

func floorMass(v float64) float64 {
	if v == 0 {
		return massEpsilon
	}
	return v
}

func unitScore(zv, sigma float64) float64 {
	if sigma <= massEpsilon {
		return 0
	}
	return zv / sigma
}

// powerIterate returns the dominant eigenvector of the symmetric matrix a and
// its Rayleigh quotient after a fixed number of steps.
func powerIterate(a mat.Matrix, rng *rand.Rand) (*mat.VecDense, float64) {
	n, _ := a.Dims()
	v := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		v.SetVec(i, rng.Float64()-0.5)
	}
	normalize(v)
	var w mat.VecDense
	for k := 0; k < iterations; k++ {
		w.MulVec(a, v)
		v.CopyVec(&w)
		normalize(v)
	}
	w.MulVec(a, v)
	return v, mat.Dot(v, &w)
}

func normalize(v *mat.VecDense) {
	n := mat.Norm(v, 2)
	if n == 0 {
		return
	}
	v.ScaleVec(1/n, v)
}

func (m *Map) inflateIfTiny() {
	var maxAbs float64
	for _, set := range [][]Coord{m.Rows, m.Cols} {
		for _, c := range set {
			maxAbs = math.Max(maxAbs, math.Max(math.Abs(c[0]), math.Abs(c[1])))
		}
	}
	if maxAbs >= tinyCoord {
		return
	}
	for i := range m.Rows {
		m.Rows[i][0] *= inflation
		m.Rows[i][1] *= inflation
	}
	for i := range m.Cols {
		m.Cols[i][0] *= inflation
		m.Cols[i][1] *= inflation
	}
	m.Scaled = true
}
