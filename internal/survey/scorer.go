package survey

import (
	"math"
	"strings"
)

// DefaultPurchaseReasonField holds the "most important purchase reason" answer.
const DefaultPurchaseReasonField = "PR_MOST"

var labelAliases = []string{"_LABEL", "_TXT", "_TEXT", "_DESC", "_LAB"}

// Scorer resolves coded answers and computes per-group percentages.
type Scorer struct {
	Codes               *CodeMap
	Policies            *Policies
	PurchaseReasonField string
}

// NewScorer returns a scorer with the default purchase-reason field. Nil
// arguments fall back to an empty code map and the default policies.
func NewScorer(codes *CodeMap, policies *Policies) *Scorer {
	if codes == nil {
		codes = NewCodeMap()
	}
	if policies == nil {
		policies = DefaultPolicies()
	}
	return &Scorer{Codes: codes, Policies: policies, PurchaseReasonField: DefaultPurchaseReasonField}
}

// Raw returns field's cell, falling back to its label/text alias columns.
func (s *Scorer) Raw(row Row, field string) (Value, bool) {
	if v := row.Get(field); !v.IsMissing() {
		return v, true
	}
	for _, suffix := range labelAliases {
		if v := row.Get(field + suffix); !v.IsMissing() {
			return v, true
		}
	}
	return Missing(), false
}

// Resolve returns the human label for field: the mapped label when the code
// map knows the raw value, the raw text otherwise. ok is false when the
// answer is missing or resolves to a blank label.
func (s *Scorer) Resolve(row Row, field string) (string, bool) {
	raw, ok := s.Raw(row, field)
	if !ok {
		return "", false
	}
	label := raw.Text()
	if mapped, found := s.Codes.Lookup(field, raw); found {
		label = mapped
	}
	if strings.TrimSpace(label) == "" {
		return "", false
	}
	return label, true
}

// Percent returns the share of rows (0-100) satisfying axis, or NaN for an
// empty group. The denominator is always the whole group: rows without an
// answer count against the share.
func (s *Scorer) Percent(rows []Row, axis Axis) float64 {
	if len(rows) == 0 {
		return math.NaN()
	}
	switch axis.Type {
	case AxisLoyalty, AxisWTP:
		pol := s.Policies.For(axis.Key)
		var agree, valid, miss int
		for _, r := range rows {
			lab, ok := s.Resolve(r, axis.Key)
			if !ok {
				miss++
				continue
			}
			valid++
			if s.Policies.Agrees(lab, pol) {
				agree++
			}
		}
		return share(agree, valid+miss)
	case AxisPurchaseReason:
		if axis.Key == "" {
			return math.NaN()
		}
		var sel int
		for _, r := range rows {
			if lab, ok := s.Resolve(r, s.purchaseField()); ok && lab == axis.Key {
				sel++
			}
		}
		return share(sel, len(rows))
	case AxisImagery:
		var hits int
		for _, r := range rows {
			if isSelected(r.Get(axis.Key)) {
				hits++
			}
		}
		return share(hits, len(rows))
	}
	return math.NaN()
}

func (s *Scorer) purchaseField() string {
	if s.PurchaseReasonField == "" {
		return DefaultPurchaseReasonField
	}
	return s.PurchaseReasonField
}

// isSelected matches the literal imagery flag 1 or "1".
func isSelected(v Value) bool {
	switch v.Kind() {
	case KindNumber:
		f, _ := v.Float()
		return f == 1
	case KindString:
		return v.Text() == "1"
	}
	return false
}

func share(num, den int) float64 {
	if den == 0 {
		return math.NaN()
	}
	return float64(num) / float64(den) * 100
}
