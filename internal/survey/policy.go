package survey

import (
	"fmt"
	"regexp"
	"strings"
)

// Policy decides which resolved labels count as agreement for a field.
type Policy uint8

const (
	PolicyTop3 Policy = iota
	PolicyTop2
	PolicyLoyalOnly
)

func (p Policy) String() string {
	switch p {
	case PolicyTop2:
		return "TOP2"
	case PolicyLoyalOnly:
		return "LOYAL_ONLY"
	default:
		return "TOP3"
	}
}

const (
	DefaultLoyaltyField = "OL_MODEL_GRP"
	DefaultStatePattern = `(?i)^STATE_`
)

// Policies holds the agreement rules. Build once and share; it is read-only.
type Policies struct {
	loyaltyField string
	statePattern *regexp.Regexp
	top2         map[string]struct{}
	top3         map[string]struct{}
}

// DefaultPolicies uses OL_MODEL_GRP as the loyalty grouping field and STATE_*
// as the state-opinion naming pattern.
func DefaultPolicies() *Policies {
	p, _ := NewPolicies(DefaultLoyaltyField, DefaultStatePattern)
	return p
}

// NewPolicies builds policies for the given loyalty field and state-opinion pattern.
func NewPolicies(loyaltyField, statePattern string) (*Policies, error) {
	if statePattern == "" {
		statePattern = DefaultStatePattern
	}
	re, err := regexp.Compile(statePattern)
	if err != nil {
		return nil, fmt.Errorf("compile state pattern: %w", err)
	}
	if loyaltyField == "" {
		loyaltyField = DefaultLoyaltyField
	}
	return &Policies{
		loyaltyField: loyaltyField,
		statePattern: re,
		top2:         setOf("strongly agree", "somewhat agree"),
		top3:         setOf("strongly agree", "agree", "somewhat agree"),
	}, nil
}

// LoyaltyField returns the field scored with LOYAL_ONLY.
func (p *Policies) LoyaltyField() string { return p.loyaltyField }

// For returns the policy applied to field.
func (p *Policies) For(field string) Policy {
	if field == p.loyaltyField {
		return PolicyLoyalOnly
	}
	if p.statePattern.MatchString(field) {
		return PolicyTop2
	}
	return PolicyTop3
}

// Agrees reports whether label counts as agreement under pol.
func (p *Policies) Agrees(label string, pol Policy) bool {
	s := NormalizeLabel(label)
	switch pol {
	case PolicyLoyalOnly:
		return s == "loyal"
	case PolicyTop2:
		_, ok := p.top2[s]
		return ok
	default:
		_, ok := p.top3[s]
		return ok
	}
}

// NormalizeLabel trims, lower-cases and collapses internal whitespace.
func NormalizeLabel(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

func setOf(items ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(items))
	for _, it := range items {
		m[it] = struct{}{}
	}
	return m
}
