package analysis

import (
	"regexp"
	"sort"
	"strings"

	"github.com/KaramelBytes/segmap-cli/internal/survey"
)

// StateKeys are the fields checked, in order, for a respondent's state.
var StateKeys = []string{
	"ADMARK_STATE", "admark_state", "STATE", "State", "state",
	"DM_STATE", "DM_STATE_CODE", "STATE_ABBR", "state_abbr", "ST", "st",
}

// codedStateField is resolved through the code map before matching.
const codedStateField = "ADMARK_STATE"

var stateByAbbr = map[string]string{
	"AL": "Alabama", "AK": "Alaska", "AZ": "Arizona", "AR": "Arkansas", "CA": "California",
	"CO": "Colorado", "CT": "Connecticut", "DE": "Delaware", "FL": "Florida", "GA": "Georgia",
	"HI": "Hawaii", "ID": "Idaho", "IL": "Illinois", "IN": "Indiana", "IA": "Iowa",
	"KS": "Kansas", "KY": "Kentucky", "LA": "Louisiana", "ME": "Maine", "MD": "Maryland",
	"MA": "Massachusetts", "MI": "Michigan", "MN": "Minnesota", "MS": "Mississippi", "MO": "Missouri",
	"MT": "Montana", "NE": "Nebraska", "NV": "Nevada", "NH": "New Hampshire", "NJ": "New Jersey",
	"NM": "New Mexico", "NY": "New York", "NC": "North Carolina", "ND": "North Dakota", "OH": "Ohio",
	"OK": "Oklahoma", "OR": "Oregon", "PA": "Pennsylvania", "RI": "Rhode Island", "SC": "South Carolina",
	"SD": "South Dakota", "TN": "Tennessee", "TX": "Texas", "UT": "Utah", "VT": "Vermont",
	"VA": "Virginia", "WA": "Washington", "WV": "West Virginia", "WI": "Wisconsin", "WY": "Wyoming",
	"DC": "District of Columbia",
}

var (
	stateByLowerName = func() map[string]string {
		m := make(map[string]string, len(stateByAbbr))
		for _, name := range stateByAbbr {
			m[strings.ToLower(name)] = name
		}
		return m
	}()
	abbrToken = regexp.MustCompile(`\b[A-Z]{2}\b`)
)

// StateName maps an abbreviation, a full name or a label embedding an
// upper-case two-letter code ("Austin, TX") to the state's full name.
func StateName(label string) (string, bool) {
	s := strings.TrimSpace(label)
	if s == "" {
		return "", false
	}
	if name, ok := stateByAbbr[strings.ToUpper(s)]; ok {
		return name, true
	}
	if name, ok := stateByLowerName[strings.ToLower(s)]; ok {
		return name, true
	}
	for _, tok := range abbrToken.FindAllString(s, -1) {
		if name, ok := stateByAbbr[tok]; ok {
			return name, true
		}
	}
	return "", false
}

// RowState returns the first resolvable state among StateKeys.
func RowState(row survey.Row, codes *survey.CodeMap) (string, bool) {
	for _, k := range StateKeys {
		raw := row.Get(k)
		if raw.IsMissing() {
			continue
		}
		val := strings.TrimSpace(raw.Text())
		if k == codedStateField {
			if mapped, ok := codes.Lookup(k, raw); ok && strings.TrimSpace(mapped) != "" {
				val = strings.TrimSpace(mapped)
			}
		}
		if name, ok := StateName(val); ok {
			return name, true
		}
	}
	return "", false
}

// StateShare is the distribution of respondents over states.
type StateShare struct {
	Counts map[string]int     `json:"counts"`
	Pcts   map[string]float64 `json:"pcts"`
	Total  int                `json:"total"`
	MaxPct float64            `json:"maxPct"`
}

// StateShares counts rows per resolved state. Rows without a state are ignored.
func StateShares(rows []survey.Row, codes *survey.CodeMap) StateShare {
	out := StateShare{Counts: map[string]int{}, Pcts: map[string]float64{}}
	for _, r := range rows {
		name, ok := RowState(r, codes)
		if !ok {
			continue
		}
		out.Counts[name]++
		out.Total++
	}
	for name, c := range out.Counts {
		p := pct(c, out.Total)
		out.Pcts[name] = p
		if p > out.MaxPct {
			out.MaxPct = p
		}
	}
	return out
}

// Ranked lists states by count, then name.
func (s StateShare) Ranked() []LabelCount {
	out := make([]LabelCount, 0, len(s.Counts))
	for name, c := range s.Counts {
		out = append(out, LabelCount{Label: name, Count: c, Pct: s.Pcts[name]})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count == out[j].Count {
			return out[i].Label < out[j].Label
		}
		return out[i].Count > out[j].Count
	})
	return out
}
