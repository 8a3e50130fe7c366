// Package survey models respondent rows and turns them into the group-level
// percentages plotted on the segmentation scatter charts.
package survey

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind tags the variant held by a Value.
type Kind uint8

const (
	KindMissing Kind = iota
	KindString
	KindNumber
)

// Value is a single row cell: a string, a number or missing.
type Value struct {
	kind Kind
	str  string
	num  float64
}

// String returns a string cell.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Number returns a numeric cell.
func Number(f float64) Value { return Value{kind: KindNumber, num: f} }

// Missing returns an absent cell.
func Missing() Value { return Value{} }

// Kind reports which variant the cell holds.
func (v Value) Kind() Kind { return v.kind }

// IsMissing reports whether the cell is absent or a blank string.
func (v Value) IsMissing() bool {
	switch v.kind {
	case KindString:
		return strings.TrimSpace(v.str) == ""
	case KindNumber:
		return false
	default:
		return true
	}
}

// Text renders the cell the way it would print in the source JSON.
func (v Value) Text() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return formatNumber(v.num)
	default:
		return ""
	}
}

// Float coerces the cell to a finite number. Strings are trimmed and
// thousands commas removed; blank strings are not numbers.
func (v Value) Float() (float64, bool) {
	switch v.kind {
	case KindNumber:
		if math.IsNaN(v.num) || math.IsInf(v.num, 0) {
			return 0, false
		}
		return v.num, true
	case KindString:
		s := strings.ReplaceAll(strings.TrimSpace(v.str), ",", "")
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// String implements fmt.Stringer.
func (v Value) String() string { return v.Text() }

// MarshalJSON writes strings and numbers as JSON scalars and missing as null.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindString:
		return json.Marshal(v.str)
	case KindNumber:
		if math.IsNaN(v.num) || math.IsInf(v.num, 0) {
			return []byte("null"), nil
		}
		return []byte(formatNumber(v.num)), nil
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON accepts strings, numbers, booleans and null (missing).
func (v *Value) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	val, err := valueOf(raw)
	if err != nil {
		return err
	}
	*v = val
	return nil
}

func valueOf(raw any) (Value, error) {
	switch t := raw.(type) {
	case nil:
		return Missing(), nil
	case string:
		return String(t), nil
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return Value{}, fmt.Errorf("parse number %q: %w", t, err)
		}
		return Number(f), nil
	case float64:
		return Number(t), nil
	case bool:
		return String(strconv.FormatBool(t)), nil
	default:
		// nested arrays/objects carry nothing the engine reads
		return Missing(), nil
	}
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
