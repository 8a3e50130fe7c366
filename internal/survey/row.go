package survey

import (
	"math"
	"strings"
)

// Row is one survey respondent keyed by field name. The engine never mutates rows.
type Row map[string]Value

const (
	FieldModel   = "model"
	FieldCluster = "cluster"
)

// Get returns the cell for field, or Missing when absent.
func (r Row) Get(field string) Value {
	if r == nil {
		return Missing()
	}
	v, ok := r[field]
	if !ok {
		return Missing()
	}
	return v
}

// Model returns the respondent's model identifier.
func (r Row) Model() string {
	return strings.TrimSpace(r.Get(FieldModel).Text())
}

// Cluster returns the integer cluster id when present.
func (r Row) Cluster() (int, bool) {
	f, ok := r.Get(FieldCluster).Float()
	if !ok || f != math.Trunc(f) {
		return 0, false
	}
	return int(f), true
}

// With returns a copy of r with field set to v.
func (r Row) With(field string, v Value) Row {
	out := make(Row, len(r)+1)
	for k, val := range r {
		out[k] = val
	}
	out[field] = v
	return out
}
