package analysis

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/KaramelBytes/segmap-cli/internal/survey"
)

// UnknownLabel buckets missing answers in categorical summaries.
const UnknownLabel = "Unknown"

type SummaryMode string

const (
	ModeNumeric     SummaryMode = "numeric"
	ModeCategorical SummaryMode = "categorical"
)

// LabelCount is one category of a categorical summary.
type LabelCount struct {
	Label string  `json:"label"`
	Count int     `json:"count"`
	Pct   float64 `json:"pct"`
}

// FieldSummary describes one field over a row set. Numeric summaries fill
// Average/Display, categorical ones fill Items.
type FieldSummary struct {
	Field   string       `json:"field"`
	Mode    SummaryMode  `json:"mode"`
	Average float64      `json:"average,omitempty"`
	Display string       `json:"display,omitempty"`
	Valid   int          `json:"valid"`
	Missing int          `json:"missing"`
	Items   []LabelCount `json:"items,omitempty"`
}

// Total is the denominator used for percentages.
func (f FieldSummary) Total() int { return f.Valid + f.Missing }

// SummaryOptions controls SummarizeFields.
type SummaryOptions struct {
	// Numeric averages fields instead of tallying them, except those listed in
	// Categorical. Fields with no numeric value fall back to a tally.
	Numeric     bool
	Categorical []string
	// ValueOrder fixes the display order of known labels per field.
	ValueOrder map[string][]string
	// TopLimits keeps only the N largest labels (plus Unknown) for a field.
	TopLimits map[string]int
	// KeepFieldOrder returns summaries in input field order. Otherwise numeric
	// summaries come first and categorical ones follow by their leading share.
	KeepFieldOrder bool
}

// DefaultTopLimits caps the long-tailed employment field.
func DefaultTopLimits() map[string]int { return map[string]int{"DEMO_EMPLOY": 10} }

// DefaultCategoricalFinancing lists financing fields that are coded, not amounts.
var DefaultCategoricalFinancing = []string{"C1_PL", "FIN_CREDIT"}

// SummarizeFields tallies or averages each field over rows.
func SummarizeFields(rows []survey.Row, fields []string, codes *survey.CodeMap, opt SummaryOptions) []FieldSummary {
	categorical := make(map[string]bool, len(opt.Categorical))
	for _, f := range opt.Categorical {
		categorical[f] = true
	}
	var out []FieldSummary
	for _, field := range fields {
		if opt.Numeric && !categorical[field] {
			if s, ok := averageField(rows, field); ok {
				out = append(out, s)
				continue
			}
		}
		s, ok := tallyField(rows, field, codes)
		if !ok {
			continue
		}
		if lim, ok := opt.TopLimits[field]; ok && lim > 0 {
			s.Items = keepTop(s.Items, lim)
		} else if order := opt.ValueOrder[field]; len(order) > 0 {
			sortByOrder(s.Items, order)
		}
		out = append(out, s)
	}
	if opt.KeepFieldOrder {
		return out
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Mode != out[j].Mode {
			return out[i].Mode == ModeNumeric
		}
		return leadPct(out[i]) > leadPct(out[j])
	})
	return out
}

func averageField(rows []survey.Row, field string) (FieldSummary, bool) {
	s := FieldSummary{Field: field, Mode: ModeNumeric}
	var sum float64
	for _, r := range rows {
		if v, ok := r.Get(field).Float(); ok {
			sum += v
			s.Valid++
		} else {
			s.Missing++
		}
	}
	if s.Valid == 0 {
		return s, false
	}
	s.Average = sum / float64(s.Valid)
	s.Display = FormatFinancing(field, s.Average)
	return s, true
}

func tallyField(rows []survey.Row, field string, codes *survey.CodeMap) (FieldSummary, bool) {
	s := FieldSummary{Field: field, Mode: ModeCategorical}
	counts := map[string]int{}
	var order []string
	for _, r := range rows {
		raw := r.Get(field)
		if raw.IsMissing() {
			s.Missing++
			continue
		}
		label := strings.TrimSpace(raw.Text())
		if mapped, ok := codes.Lookup(field, raw); ok {
			label = mapped
		}
		if _, seen := counts[label]; !seen {
			order = append(order, label)
		}
		counts[label]++
		s.Valid++
	}
	total := s.Total()
	if total == 0 {
		return s, false
	}
	for _, label := range order {
		s.Items = append(s.Items, LabelCount{Label: label, Count: counts[label], Pct: pct(counts[label], total)})
	}
	sort.SliceStable(s.Items, func(i, j int) bool { return s.Items[i].Count > s.Items[j].Count })
	if s.Missing > 0 {
		s.Items = append(s.Items, LabelCount{Label: UnknownLabel, Count: s.Missing, Pct: pct(s.Missing, total)})
	}
	var sum float64
	for _, it := range s.Items {
		sum += it.Pct
	}
	if len(s.Items) > 0 && math.Abs(sum-100) > 0.1 {
		s.Items[len(s.Items)-1].Pct += 100 - sum
	}
	return s, true
}

func keepTop(items []LabelCount, n int) []LabelCount {
	var unknown *LabelCount
	top := make([]LabelCount, 0, len(items))
	for i := range items {
		if items[i].Label == UnknownLabel {
			unknown = &items[i]
			continue
		}
		top = append(top, items[i])
	}
	sort.SliceStable(top, func(i, j int) bool { return top[i].Count > top[j].Count })
	if len(top) > n {
		top = top[:n]
	}
	if unknown != nil {
		top = append(top, *unknown)
	}
	return top
}

func sortByOrder(items []LabelCount, order []string) {
	rank := make(map[string]int, len(order))
	for i, l := range order {
		rank[l] = i
	}
	idx := func(l string) int {
		if i, ok := rank[l]; ok {
			return i
		}
		return math.MaxInt
	}
	sort.SliceStable(items, func(i, j int) bool {
		ai, bj := idx(items[i].Label), idx(items[j].Label)
		if ai != bj {
			return ai < bj
		}
		return items[i].Pct > items[j].Pct
	})
}

func leadPct(s FieldSummary) float64 {
	if len(s.Items) == 0 {
		return 0
	}
	return s.Items[0].Pct
}

func pct(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total) * 100
}

var (
	percentField  = regexp.MustCompile(`(?i)APR|PCT|PERCENT`)
	currencyField = regexp.MustCompile(`(?i)DOWN|TRADE|PAY|MONPAY|PAYMENT|PRICE`)
	lengthField   = regexp.MustCompile(`(?i)LENGTH`)

	printer = message.NewPrinter(language.English)
)

// FormatFinancing renders an average the way its field name suggests:
// percentages, whole US dollars, months, or a grouped plain number.
func FormatFinancing(field string, v float64) string {
	switch {
	case math.IsNaN(v):
		return "n/a"
	case percentField.MatchString(field):
		return printer.Sprintf("%.1f%%", v)
	case currencyField.MatchString(field):
		if v < 0 {
			return printer.Sprintf("-$%.0f", -v)
		}
		return printer.Sprintf("$%.0f", v)
	case lengthField.MatchString(field):
		return printer.Sprintf("%.0f mo", v)
	}
	s := printer.Sprintf("%.3f", v)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
