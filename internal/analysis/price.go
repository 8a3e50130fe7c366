package analysis

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/KaramelBytes/segmap-cli/internal/survey"
)

// DefaultPriceField holds the unedited transaction price.
const DefaultPriceField = "FIN_PRICE_UNEDITED"

const (
	bucketMin  = 30000
	bucketStep = 5000
	overMin    = 110000
)

// PriceBucket is one fixed price range. Low is inclusive, High exclusive.
type PriceBucket struct {
	Label string  `json:"label"`
	Low   float64 `json:"low"`
	High  float64 `json:"high"`
	Count int     `json:"count"`
	Pct   float64 `json:"pct"`
}

// PriceRanges returns the empty buckets: under $30k, $5k steps up to $110k, $110k+.
func PriceRanges() []PriceBucket {
	out := []PriceBucket{{Label: bucketLabel(math.Inf(-1), bucketMin), Low: math.Inf(-1), High: bucketMin}}
	for low := float64(bucketMin); low < overMin; low += bucketStep {
		out = append(out, PriceBucket{Label: bucketLabel(low, low+bucketStep), Low: low, High: low + bucketStep})
	}
	return append(out, PriceBucket{Label: bucketLabel(overMin, math.Inf(1)), Low: overMin, High: math.Inf(1)})
}

func bucketLabel(low, high float64) string {
	switch {
	case math.IsInf(low, -1):
		return "Under $30k"
	case math.IsInf(high, 1):
		return "$110k+"
	}
	return fmt.Sprintf("$%.0fk to $%.1fk", math.Round(low/1000), (high-100)/1000)
}

func bucketIndex(price float64, n int) int {
	switch {
	case price < bucketMin:
		return 0
	case price >= overMin:
		return n - 1
	}
	return 1 + int(math.Floor((price-bucketMin)/bucketStep))
}

// ParsePrice reads a price cell, ignoring "$" and thousands commas.
func ParsePrice(v survey.Value) (float64, bool) {
	if v.Kind() == survey.KindNumber {
		return v.Float()
	}
	s := strings.NewReplacer("$", "", ",", "").Replace(v.Text())
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// PriceBuckets distributes the valid prices of rows over PriceRanges.
// It returns nil when no row carries a price.
func PriceBuckets(rows []survey.Row, field string) ([]PriceBucket, int) {
	if field == "" {
		field = DefaultPriceField
	}
	buckets := PriceRanges()
	valid := 0
	for _, r := range rows {
		p, ok := ParsePrice(r.Get(field))
		if !ok {
			continue
		}
		buckets[bucketIndex(p, len(buckets))].Count++
		valid++
	}
	if valid == 0 {
		return nil, 0
	}
	for i := range buckets {
		buckets[i].Pct = pct(buckets[i].Count, valid)
	}
	return buckets, valid
}

// PriceSeries is the price distribution of one group.
type PriceSeries struct {
	Key     survey.GroupKey `json:"key"`
	Buckets []PriceBucket   `json:"buckets"`
	Valid   int             `json:"valid"`
}

// PriceSeriesByGroup returns one distribution per group that has at least
// one valid price, in partition order.
func PriceSeriesByGroup(rows []survey.Row, by survey.GroupBy, field string) []PriceSeries {
	var out []PriceSeries
	for _, g := range survey.Partition(rows, by) {
		b, valid := PriceBuckets(g.Rows, field)
		if valid == 0 {
			continue
		}
		out = append(out, PriceSeries{Key: g.Key, Buckets: b, Valid: valid})
	}
	return out
}
