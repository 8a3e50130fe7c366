// Package analysis builds the profile panels shown next to the segmentation
// scatter: field summaries, price buckets, states and cluster snapshots.
package analysis

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/segmap-cli/internal/survey"
)

// Options selects the scope and panels of a profile report.
type Options struct {
	// Name labels the report, usually the dataset file name.
	Name string
	// FieldGroup names the summarized field group; Fields lists its members.
	FieldGroup string
	Fields     []string
	Summary    SummaryOptions
	// Cluster restricts the scope to one cluster when set.
	Cluster *int
	// Model restricts the scope to one model when non-empty.
	Model      string
	GroupBy    survey.GroupBy
	PriceField string
	// MaxStates caps the state list in Markdown; 0 means 10.
	MaxStates int
}

// Report is the full profile of a scoped row set.
type Report struct {
	Name       string         `json:"name"`
	Rows       int            `json:"rows"`
	Scoped     int            `json:"scoped"`
	FieldGroup string         `json:"fieldGroup,omitempty"`
	Fields     []FieldSummary `json:"fields,omitempty"`
	Price      []PriceBucket  `json:"price,omitempty"`
	PriceValid int            `json:"priceValid"`
	PriceByGrp []PriceSeries  `json:"priceByGroup,omitempty"`
	States     StateShare     `json:"states"`
	Snapshot   *Snapshot      `json:"snapshot,omitempty"`
	ModelShare []ModelCount   `json:"modelShare,omitempty"`
	Centroids  []Centroid     `json:"centroids,omitempty"`
	Warnings   []string       `json:"warnings,omitempty"`
	opt        Options
}

// Build computes every panel for rows under opt.
func Build(rows []survey.Row, scorer *survey.Scorer, opt Options) *Report {
	if opt.GroupBy == "" {
		opt.GroupBy = survey.ByCluster
	}
	scoped := Scope(rows, opt.Cluster, opt.Model)
	rep := &Report{Name: opt.Name, Rows: len(rows), Scoped: len(scoped), FieldGroup: opt.FieldGroup, opt: opt}
	if len(scoped) == 0 {
		rep.Warnings = append(rep.Warnings, "no rows in scope")
		return rep
	}
	rep.Fields = SummarizeFields(scoped, opt.Fields, scorer.Codes, opt.Summary)
	rep.Price, rep.PriceValid = PriceBuckets(scoped, opt.PriceField)
	if rep.PriceValid == 0 {
		rep.Warnings = append(rep.Warnings, "no valid prices in scope")
	}
	rep.PriceByGrp = PriceSeriesByGroup(scoped, opt.GroupBy, opt.PriceField)
	rep.States = StateShares(scoped, scorer.Codes)
	rep.Centroids = Centroids(scoped, opt.GroupBy)
	if opt.Cluster != nil {
		rep.Snapshot = ClusterSnapshot(rows, *opt.Cluster, scorer)
		rep.ModelShare, _ = ModelShare(scoped, *opt.Cluster)
	}
	return rep
}

// Scope filters rows to a cluster and/or a model.
func Scope(rows []survey.Row, cluster *int, model string) []survey.Row {
	if cluster == nil && model == "" {
		return rows
	}
	out := make([]survey.Row, 0, len(rows))
	for _, r := range rows {
		if cluster != nil {
			if c, ok := r.Cluster(); !ok || c != *cluster {
				continue
			}
		}
		if model != "" && r.Model() != model {
			continue
		}
		out = append(out, r)
	}
	return out
}

// Markdown renders the report as bracketed plain-text sections.
func (r *Report) Markdown() string {
	var b strings.Builder
	b.WriteString("[PROFILE SUMMARY]\n")
	if r.Name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", r.Name))
	}
	if r.Scoped < r.Rows {
		b.WriteString(fmt.Sprintf("Rows: %d (in scope %d)\n", r.Rows, r.Scoped))
	} else {
		b.WriteString(fmt.Sprintf("Rows: %d\n", r.Rows))
	}
	if r.opt.Cluster != nil {
		b.WriteString(fmt.Sprintf("Cluster: C%d\n", *r.opt.Cluster))
	}
	if r.opt.Model != "" {
		b.WriteString(fmt.Sprintf("Model: %s\n", safeVal(r.opt.Model)))
	}

	if len(r.Fields) > 0 {
		title := "FIELDS"
		if r.FieldGroup != "" {
			title = strings.ToUpper(r.FieldGroup)
		}
		b.WriteString(fmt.Sprintf("\n[%s]\n", title))
		for _, f := range r.Fields {
			if f.Mode == ModeNumeric {
				b.WriteString(fmt.Sprintf("- %s: average %s (valid %d, missing %d)\n", safeName(f.Field), f.Display, f.Valid, f.Missing))
				continue
			}
			b.WriteString(fmt.Sprintf("- %s (n=%d): ", safeName(f.Field), f.Total()))
			for i, it := range f.Items {
				if i > 0 {
					b.WriteString(", ")
				}
				b.WriteString(fmt.Sprintf("%s %.1f%%", safeVal(it.Label), it.Pct))
			}
			b.WriteString("\n")
		}
	}

	if r.PriceValid > 0 {
		b.WriteString(fmt.Sprintf("\n[PRICE DISTRIBUTION]\nValid prices: %d\n", r.PriceValid))
		for _, pb := range r.Price {
			if pb.Count == 0 {
				continue
			}
			b.WriteString(fmt.Sprintf("- %s: %d (%.1f%%)\n", pb.Label, pb.Count, pb.Pct))
		}
	}

	if r.States.Total > 0 {
		b.WriteString(fmt.Sprintf("\n[STATES]\nSample size: %d\n", r.States.Total))
		limit := r.opt.MaxStates
		if limit <= 0 {
			limit = 10
		}
		for i, s := range r.States.Ranked() {
			if i >= limit {
				break
			}
			b.WriteString(fmt.Sprintf("- %s: %d (%.1f%%)\n", s.Label, s.Count, s.Pct))
		}
	}

	if s := r.Snapshot; s != nil {
		b.WriteString(fmt.Sprintf("\n[CLUSTER SNAPSHOT]\nC%d, n=%d\n", s.Cluster, s.Total))
		for _, row := range []struct {
			name   string
			shares []Share
		}{
			{"Gender", s.Gender}, {"Age", s.Age}, {"Occupation", s.Occupation},
			{"Location", s.Location}, {"Income", s.Income}, {"Education", s.Education},
			{"Hobbies", s.Hobby},
		} {
			if len(row.shares) == 0 {
				continue
			}
			parts := make([]string, len(row.shares))
			for i, sh := range row.shares {
				parts[i] = fmt.Sprintf("%s %d%%", safeVal(sh.Label), sh.Pct)
			}
			b.WriteString(fmt.Sprintf("- %s: %s\n", row.name, strings.Join(parts, ", ")))
		}
	}

	if len(r.ModelShare) > 0 {
		b.WriteString("\n[MODEL SHARE]\n")
		for _, m := range r.ModelShare {
			b.WriteString(fmt.Sprintf("- %s: %d (%.1f%%)\n", safeVal(m.Name), m.Count, m.Pct))
		}
	}

	if len(r.Centroids) > 0 {
		b.WriteString("\n[CENTROIDS]\n")
		for _, c := range r.Centroids {
			b.WriteString(fmt.Sprintf("- %s (n=%d): x=%.4g, y=%.4g\n", safeVal(c.Key.String()), c.N, c.X, c.Y))
		}
	}

	if len(r.Warnings) > 0 {
		b.WriteString("\n[NOTES]\n")
		for _, w := range r.Warnings {
			b.WriteString("- ")
			b.WriteString(w)
			b.WriteString("\n")
		}
	}
	return b.String()
}

func safeName(s string) string {
	if s == "" {
		return "(unnamed)"
	}
	return safeVal(s)
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
