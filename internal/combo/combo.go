// Package combo searches every cross-family axis pair for the one whose
// group-level scatter fits a straight line best.
package combo

import (
	"sort"

	"github.com/KaramelBytes/segmap-cli/internal/numeric"
	"github.com/KaramelBytes/segmap-cli/internal/regression"
	"github.com/KaramelBytes/segmap-cli/internal/survey"
)

// Family is one axis family and its candidate keys.
type Family struct {
	Type survey.AxisType `json:"type" yaml:"type"`
	Keys []string        `json:"keys" yaml:"keys"`
}

// Combo is a scored axis pair.
type Combo struct {
	XType survey.AxisType `json:"xType"`
	XKey  string          `json:"xKey"`
	YType survey.AxisType `json:"yType"`
	YKey  string          `json:"yKey"`
	R2    float64         `json:"r2"`
	// Points is the number of groups that fed the fit.
	Points int `json:"points"`
}

// X returns the x axis descriptor.
func (c Combo) X() survey.Axis { return survey.Axis{Type: c.XType, Key: c.XKey} }

// Y returns the y axis descriptor.
func (c Combo) Y() survey.Axis { return survey.Axis{Type: c.YType, Key: c.YKey} }

func (c Combo) sameAxes(o Combo) bool {
	return c.XType == o.XType && c.XKey == o.XKey && c.YType == o.YType && c.YKey == o.YKey
}

// Result holds the best and runner-up pairs; either may be nil.
type Result struct {
	Best   *Combo `json:"best"`
	Second *Combo `json:"second"`
}

type cacheKey struct {
	typ   survey.AxisType
	key   string
	group int
}

// percentCache memoizes percentages by (family, key, group).
type percentCache struct {
	scorer *survey.Scorer
	groups []survey.Group
	vals   map[cacheKey]float64
	hits   int
}

func newPercentCache(scorer *survey.Scorer, groups []survey.Group) *percentCache {
	return &percentCache{scorer: scorer, groups: groups, vals: make(map[cacheKey]float64)}
}

func (c *percentCache) get(typ survey.AxisType, key string, group int) float64 {
	k := cacheKey{typ: typ, key: key, group: group}
	if v, ok := c.vals[k]; ok {
		c.hits++
		return v
	}
	v := c.scorer.Percent(c.groups[group].Rows, survey.Axis{Type: typ, Key: key})
	c.vals[k] = v
	return v
}

// Search scores every key pair across every pair of distinct non-empty
// families and returns the candidates sorted by R2, highest first. Ties keep
// enumeration order.
func Search(rows []survey.Row, by survey.GroupBy, families []Family, scorer *survey.Scorer) []Combo {
	fams := make([]Family, 0, len(families))
	for _, f := range families {
		if len(f.Keys) > 0 {
			fams = append(fams, f)
		}
	}
	if len(fams) < 2 {
		return nil
	}
	groups := survey.Partition(rows, by)
	cache := newPercentCache(scorer, groups)

	var out []Combo
	pts := make([]regression.Point, 0, len(groups))
	for i := 0; i < len(fams); i++ {
		for j := i + 1; j < len(fams); j++ {
			fx, fy := fams[i], fams[j]
			if fx.Type == fy.Type {
				continue
			}
			for _, kx := range fx.Keys {
				for _, ky := range fy.Keys {
					pts = pts[:0]
					for g := range groups {
						x := cache.get(fx.Type, kx, g)
						y := cache.get(fy.Type, ky, g)
						if numeric.IsFinite(x) && numeric.IsFinite(y) {
							pts = append(pts, regression.Point{X: x, Y: y})
						}
					}
					if len(pts) < 2 {
						continue
					}
					fit := regression.Fit(pts)
					if fit == nil || !numeric.IsFinite(fit.R2) {
						continue
					}
					out = append(out, Combo{
						XType: fx.Type, XKey: kx,
						YType: fy.Type, YKey: ky,
						R2: fit.R2, Points: len(pts),
					})
				}
			}
		}
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].R2 > out[b].R2 })
	return out
}

// FindBestCombos returns the top candidate and the first later candidate that
// differs from it in any axis type or key.
func FindBestCombos(rows []survey.Row, by survey.GroupBy, families []Family, scorer *survey.Scorer) Result {
	return Pick(Search(rows, by, families, scorer))
}

// Pick selects best and second from candidates already sorted by Search.
func Pick(candidates []Combo) Result {
	if len(candidates) == 0 {
		return Result{}
	}
	best := candidates[0]
	res := Result{Best: &best}
	for _, c := range candidates[1:] {
		if !c.sameAxes(best) {
			second := c
			res.Second = &second
			break
		}
	}
	return res
}

// BestPair returns the best pair restricted to x from xf and y from yf, or
// nil when no pair fits.
func BestPair(rows []survey.Row, by survey.GroupBy, xf, yf Family, scorer *survey.Scorer) *Combo {
	return Pick(Search(rows, by, []Family{xf, yf}, scorer)).Best
}
