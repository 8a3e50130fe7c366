package dataset

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/segmap-cli/internal/analysis"
	"github.com/KaramelBytes/segmap-cli/internal/combo"
	"github.com/KaramelBytes/segmap-cli/internal/survey"
)

//go:embed taxonomy.yaml
var defaultTaxonomy []byte

// FieldGroup is a named set of fields summarized together.
type FieldGroup struct {
	Name      string   `yaml:"name" json:"name"`
	Fields    []string `yaml:"fields" json:"fields"`
	Numeric   bool     `yaml:"numeric,omitempty" json:"numeric,omitempty"`
	KeepOrder bool     `yaml:"keep_order,omitempty" json:"keepOrder,omitempty"`
}

// Option is a selectable key with a display label.
type Option struct {
	Key   string `yaml:"key" json:"key"`
	Label string `yaml:"label" json:"label"`
}

// Taxonomy is the catalog of field groups, imagery tags and label orders.
type Taxonomy struct {
	FieldGroups          []FieldGroup        `yaml:"field_groups"`
	CategoricalFinancing []string            `yaml:"categorical_financing"`
	TopLimits            map[string]int      `yaml:"top_limits"`
	Families             map[string]string   `yaml:"families"`
	Imagery              []Option            `yaml:"imagery"`
	ValueOrder           map[string][]string `yaml:"value_order"`
}

// DefaultTaxonomy returns the built-in catalog.
func DefaultTaxonomy() *Taxonomy {
	t, err := ParseTaxonomy(defaultTaxonomy)
	if err != nil {
		panic(fmt.Sprintf("embedded taxonomy: %v", err))
	}
	return t
}

// LoadTaxonomy reads a catalog file; an empty path returns the default.
func LoadTaxonomy(path string) (*Taxonomy, error) {
	if path == "" {
		return DefaultTaxonomy(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read taxonomy: %w", err)
	}
	return ParseTaxonomy(b)
}

func ParseTaxonomy(data []byte) (*Taxonomy, error) {
	var t Taxonomy
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("decode taxonomy: %w", err)
	}
	for _, g := range t.FieldGroups {
		if strings.TrimSpace(g.Name) == "" {
			return nil, fmt.Errorf("field group without a name")
		}
	}
	return &t, nil
}

// Group finds a field group by name, case-insensitively.
func (t *Taxonomy) Group(name string) (FieldGroup, bool) {
	for _, g := range t.FieldGroups {
		if strings.EqualFold(g.Name, strings.TrimSpace(name)) {
			return g, true
		}
	}
	return FieldGroup{}, false
}

// GroupNames lists the field group names in catalog order.
func (t *Taxonomy) GroupNames() []string {
	out := make([]string, len(t.FieldGroups))
	for i, g := range t.FieldGroups {
		out[i] = g.Name
	}
	return out
}

// SummaryOptions returns the field summary settings for group g.
func (t *Taxonomy) SummaryOptions(g FieldGroup) analysis.SummaryOptions {
	return analysis.SummaryOptions{
		Numeric:        g.Numeric,
		Categorical:    t.CategoricalFinancing,
		ValueOrder:     t.ValueOrder,
		TopLimits:      t.TopLimits,
		KeepFieldOrder: g.KeepOrder,
	}
}

// ImageryKeys lists the imagery field names in catalog order.
func (t *Taxonomy) ImageryKeys() []string {
	out := make([]string, len(t.Imagery))
	for i, o := range t.Imagery {
		out[i] = o.Key
	}
	return out
}

// ImageryLabel returns the display label of an imagery key.
func (t *Taxonomy) ImageryLabel(key string) string {
	for _, o := range t.Imagery {
		if o.Key == key {
			return o.Label
		}
	}
	return key
}

// FamilyKeys returns the candidate keys of one axis family. Purchase reasons
// come from the data, so they are passed in.
func (t *Taxonomy) FamilyKeys(typ survey.AxisType, purchaseReasons []string) []string {
	switch typ {
	case survey.AxisImagery:
		return t.ImageryKeys()
	case survey.AxisPurchaseReason:
		return purchaseReasons
	}
	if g, ok := t.Group(t.Families[string(typ)]); ok {
		return g.Fields
	}
	return nil
}

// ComboFamilies returns the four families in canonical order.
func (t *Taxonomy) ComboFamilies(purchaseReasons []string) []combo.Family {
	out := make([]combo.Family, 0, len(survey.AxisTypes))
	for _, typ := range survey.AxisTypes {
		out = append(out, combo.Family{Type: typ, Keys: t.FamilyKeys(typ, purchaseReasons)})
	}
	return out
}

// PurchaseReasons lists the distinct non-blank resolved purchase-reason
// labels in rows, sorted. Labels are kept verbatim so each one matches its
// rows exactly when scored.
func PurchaseReasons(rows []survey.Row, scorer *survey.Scorer) []string {
	field := scorer.PurchaseReasonField
	if field == "" {
		field = survey.DefaultPurchaseReasonField
	}
	seen := map[string]bool{}
	var out []string
	for _, r := range rows {
		lab, ok := scorer.Resolve(r, field)
		if !ok || strings.TrimSpace(lab) == "" || seen[lab] {
			continue
		}
		seen[lab] = true
		out = append(out, lab)
	}
	sort.Strings(out)
	return out
}
