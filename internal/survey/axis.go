package survey

import (
	"fmt"
	"strings"
)

// AxisType is one of the four axis families.
type AxisType string

const (
	AxisLoyalty        AxisType = "loyalty"
	AxisWTP            AxisType = "wtp"
	AxisPurchaseReason AxisType = "pr"
	AxisImagery        AxisType = "img"
)

// AxisTypes lists the families in their canonical order.
var AxisTypes = []AxisType{AxisLoyalty, AxisWTP, AxisPurchaseReason, AxisImagery}

func (t AxisType) Valid() bool {
	switch t {
	case AxisLoyalty, AxisWTP, AxisPurchaseReason, AxisImagery:
		return true
	}
	return false
}

// Label is the display name of the family.
func (t AxisType) Label() string {
	switch t {
	case AxisLoyalty:
		return "Loyalty"
	case AxisWTP:
		return "Willingness to Pay"
	case AxisPurchaseReason:
		return "Purchase Reason"
	case AxisImagery:
		return "Imagery"
	}
	return string(t)
}

// Axis identifies one variable of one family.
type Axis struct {
	Type AxisType `json:"type" yaml:"type"`
	Key  string   `json:"key" yaml:"key"`
}

func (a Axis) String() string { return string(a.Type) + ":" + a.Key }

// IsZero reports whether the axis is unset.
func (a Axis) IsZero() bool { return a.Type == "" && a.Key == "" }

// ParseAxis parses "type:key", e.g. "loyalty:OL_MODEL_GRP" or "pr:Styling".
func ParseAxis(s string) (Axis, error) {
	typ, key, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok || strings.TrimSpace(key) == "" {
		return Axis{}, fmt.Errorf("invalid axis %q (want type:key)", s)
	}
	t := AxisType(strings.ToLower(strings.TrimSpace(typ)))
	if !t.Valid() {
		return Axis{}, fmt.Errorf("invalid axis type %q (use loyalty|wtp|pr|img)", typ)
	}
	return Axis{Type: t, Key: strings.TrimSpace(key)}, nil
}
