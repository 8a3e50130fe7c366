package survey

import (
	"sort"
	"strconv"
	"strings"
)

// CodeMap maps a field's raw coded values onto human labels.
type CodeMap struct {
	fields map[string]map[string]string
}

func NewCodeMap() *CodeMap {
	return &CodeMap{fields: make(map[string]map[string]string)}
}

// Add registers label for code under field. Numeric codes are also indexed by
// their canonical form so "01", "1" and 1 resolve alike.
func (c *CodeMap) Add(field string, code Value, label string) {
	field = strings.TrimSpace(field)
	if field == "" {
		return
	}
	m := c.fields[field]
	if m == nil {
		m = make(map[string]string)
		c.fields[field] = m
	}
	m[code.Text()] = label
	if key, ok := canonicalKey(code); ok {
		if _, exists := m[key]; !exists {
			m[key] = label
		}
	}
}

// Lookup resolves raw through field's table.
func (c *CodeMap) Lookup(field string, raw Value) (string, bool) {
	if c == nil || raw.IsMissing() {
		return "", false
	}
	m := c.fields[field]
	if m == nil {
		return "", false
	}
	if lab, ok := m[raw.Text()]; ok {
		return lab, true
	}
	if key, ok := canonicalKey(raw); ok {
		if lab, ok := m[key]; ok {
			return lab, true
		}
	}
	return "", false
}

// Fields lists the fields with a table, sorted.
func (c *CodeMap) Fields() []string {
	if c == nil {
		return nil
	}
	out := make([]string, 0, len(c.fields))
	for f := range c.fields {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of fields with a table.
func (c *CodeMap) Len() int {
	if c == nil {
		return 0
	}
	return len(c.fields)
}

func canonicalKey(v Value) (string, bool) {
	f, ok := v.Float()
	if !ok {
		return "", false
	}
	return strconv.FormatFloat(f, 'f', -1, 64), true
}
