package perception

import "strings"

// Observation is one long-form cell: how strongly model is associated with attribute.
type Observation struct {
	Model     string  `json:"model"`
	Attribute string  `json:"attribute"`
	Value     float64 `json:"value"`
}

// Table is a labelled contingency matrix.
type Table struct {
	Rows   []string    `json:"rows"`
	Cols   []string    `json:"cols"`
	Matrix [][]float64 `json:"matrix"`
}

// BuildTable pivots observations into a matrix with rows and columns in
// first-seen order. Repeated cells are summed; blank names are skipped.
func BuildTable(obs []Observation) Table {
	var t Table
	rowIdx := map[string]int{}
	colIdx := map[string]int{}
	type cell struct{ i, j int }
	sums := map[cell]float64{}
	for _, o := range obs {
		m := strings.TrimSpace(o.Model)
		a := strings.TrimSpace(o.Attribute)
		if m == "" || a == "" {
			continue
		}
		i, ok := rowIdx[m]
		if !ok {
			i = len(t.Rows)
			rowIdx[m] = i
			t.Rows = append(t.Rows, m)
		}
		j, ok := colIdx[a]
		if !ok {
			j = len(t.Cols)
			colIdx[a] = j
			t.Cols = append(t.Cols, a)
		}
		sums[cell{i, j}] += o.Value
	}
	t.Matrix = make([][]float64, len(t.Rows))
	for i := range t.Matrix {
		t.Matrix[i] = make([]float64, len(t.Cols))
	}
	for k, v := range sums {
		t.Matrix[k.i][k.j] = v
	}
	return t
}

// Coords runs the analysis on the table's matrix.
func (t Table) Coords() (*Map, error) { return Coords(t.Matrix) }
