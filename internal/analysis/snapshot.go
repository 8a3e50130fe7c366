package analysis

import (
	"math"
	"sort"

	"github.com/KaramelBytes/segmap-cli/internal/numeric"
	"github.com/KaramelBytes/segmap-cli/internal/survey"
)

// Embedding coordinate fields carried by every normalized row.
const (
	FieldEmbX = "emb_x"
	FieldEmbY = "emb_y"
)

// Share is a label with its rounded whole-percent share.
type Share struct {
	Label string `json:"label"`
	Count int    `json:"count"`
	Pct   int    `json:"pct"`
}

// Snapshot is the headline demographic profile of one cluster.
type Snapshot struct {
	Cluster    int     `json:"cluster"`
	Total      int     `json:"total"`
	Gender     []Share `json:"gender"`
	Age        []Share `json:"age"`
	Occupation []Share `json:"occupation"`
	Location   []Share `json:"location"`
	Income     []Share `json:"income"`
	Education  []Share `json:"education"`
	Hobby      []Share `json:"hobby"`
}

var incomeFields = []string{"DEMO_INCOME_BUCKET", "DEMO_INCOME", "DEMO_INCOME_LABEL"}

// ClusterSnapshot profiles the rows of cluster. It returns nil when the
// cluster has no rows.
func ClusterSnapshot(rows []survey.Row, cluster int, scorer *survey.Scorer) *Snapshot {
	var subset []survey.Row
	for _, r := range rows {
		if c, ok := r.Cluster(); ok && c == cluster {
			subset = append(subset, r)
		}
	}
	if len(subset) == 0 {
		return nil
	}
	total := len(subset)
	top := func(field string, n int) []Share { return topShares(tally(subset, field, scorer), n, total) }

	var income []Share
	for _, f := range incomeFields {
		if t := tally(subset, f, scorer); len(t) > 0 {
			income = topShares(t, 3, total)
			break
		}
	}
	return &Snapshot{
		Cluster:    cluster,
		Total:      total,
		Gender:     top("DEMO_GENDER1", 2),
		Age:        top("BLD_AGE_GRP", 1),
		Occupation: top("DEMO_EMPLOY", 3),
		Location:   top("DEMO_LOCATION", 2),
		Income:     income,
		Education:  top("DEMO_EDUCATION", 2),
		Hobby:      top("BLD_HOBBY1_GRP", 3),
	}
}

// tally counts resolved labels in first-seen order.
func tally(rows []survey.Row, field string, scorer *survey.Scorer) []Share {
	idx := map[string]int{}
	var out []Share
	for _, r := range rows {
		lab, ok := scorer.Resolve(r, field)
		if !ok {
			continue
		}
		i, seen := idx[lab]
		if !seen {
			i = len(out)
			idx[lab] = i
			out = append(out, Share{Label: lab})
		}
		out[i].Count++
	}
	return out
}

func topShares(counts []Share, n, total int) []Share {
	sort.SliceStable(counts, func(i, j int) bool { return counts[i].Count > counts[j].Count })
	if len(counts) > n {
		counts = counts[:n]
	}
	for i := range counts {
		counts[i].Pct = int(math.Round(float64(counts[i].Count) * 100 / float64(total)))
	}
	return counts
}

// OtherLabel collects the models beyond the top entries of ModelShare.
const OtherLabel = "Other"

// ModelCount is one slice of the model share chart.
type ModelCount struct {
	Name  string  `json:"name"`
	Count int     `json:"count"`
	Pct   float64 `json:"pct"`
}

// ModelShare returns the top 8 models of cluster by respondents plus an
// "Other" slice for the rest, and the cluster size.
func ModelShare(rows []survey.Row, cluster int) ([]ModelCount, int) {
	idx := map[string]int{}
	var counts []ModelCount
	total := 0
	for _, r := range rows {
		if c, ok := r.Cluster(); !ok || c != cluster {
			continue
		}
		total++
		m := r.Model()
		i, seen := idx[m]
		if !seen {
			i = len(counts)
			idx[m] = i
			counts = append(counts, ModelCount{Name: m})
		}
		counts[i].Count++
	}
	if total == 0 {
		return nil, 0
	}
	sort.SliceStable(counts, func(i, j int) bool { return counts[i].Count > counts[j].Count })
	const top = 8
	var other int
	if len(counts) > top {
		for _, c := range counts[top:] {
			other += c.Count
		}
		counts = counts[:top]
	}
	if other > 0 {
		counts = append(counts, ModelCount{Name: OtherLabel, Count: other})
	}
	for i := range counts {
		counts[i].Pct = pct(counts[i].Count, total)
	}
	return counts, total
}

// Centroid is the mean embedding position of a group.
type Centroid struct {
	Key survey.GroupKey `json:"key"`
	X   float64         `json:"x"`
	Y   float64         `json:"y"`
	N   int             `json:"n"`
}

// Centroids averages emb_x/emb_y per group. Rows without both coordinates are skipped.
func Centroids(rows []survey.Row, by survey.GroupBy) []Centroid {
	var out []Centroid
	for _, g := range survey.Partition(rows, by) {
		c := Centroid{Key: g.Key}
		for _, r := range g.Rows {
			x, okx := r.Get(FieldEmbX).Float()
			y, oky := r.Get(FieldEmbY).Float()
			if !okx || !oky {
				continue
			}
			c.X += x
			c.Y += y
			c.N++
		}
		if c.N == 0 {
			continue
		}
		c.X /= float64(c.N)
		c.Y /= float64(c.N)
		out = append(out, c)
	}
	return out
}

// LargestCluster returns the most populated cluster; ties go to the lowest id.
func LargestCluster(rows []survey.Row) (int, bool) {
	counts := map[int]int{}
	for _, r := range rows {
		if c, ok := r.Cluster(); ok {
			counts[c]++
		}
	}
	best, bestN, found := 0, -1, false
	for c, n := range counts {
		if n > bestN || (n == bestN && c < best) {
			best, bestN, found = c, n, true
		}
	}
	return best, found
}

// SampleKey is the stable identity used to order rows for subsampling.
func SampleKey(r survey.Row) string {
	return r.Model() + "|" + r.Get(FieldEmbX).Text() + "|" + r.Get(FieldEmbY).Text() + "|" + r.Get(survey.FieldCluster).Text()
}

// Subsample thins the largest cluster for rendering. Every row outside it is
// kept; inside it each model keeps ceil(fraction*n) rows, picked by ascending
// hash of SampleKey. Row order is preserved.
func Subsample(rows []survey.Row, fraction float64) []survey.Row {
	largest, ok := LargestCluster(rows)
	if !ok || fraction >= 1 {
		return rows
	}
	if fraction < 0 {
		fraction = 0
	}
	byModel := map[string][]int{}
	var models []string
	for i, r := range rows {
		if c, ok := r.Cluster(); !ok || c != largest {
			continue
		}
		m := r.Model()
		if _, seen := byModel[m]; !seen {
			models = append(models, m)
		}
		byModel[m] = append(byModel[m], i)
	}
	keep := make(map[int]bool)
	for _, m := range models {
		idxs := byModel[m]
		sort.SliceStable(idxs, func(a, b int) bool {
			return numeric.HashString(SampleKey(rows[idxs[a]])) < numeric.HashString(SampleKey(rows[idxs[b]]))
		})
		n := int(math.Ceil(float64(len(idxs)) * fraction))
		for _, i := range idxs[:n] {
			keep[i] = true
		}
	}
	out := make([]survey.Row, 0, len(rows))
	for i, r := range rows {
		if c, ok := r.Cluster(); ok && c == largest && !keep[i] {
			continue
		}
		out = append(out, r)
	}
	return out
}
