package dataset

import (
	"strings"

	"github.com/KaramelBytes/segmap-cli/internal/analysis"
	"github.com/KaramelBytes/segmap-cli/internal/survey"
)

// modelFields are checked in order for the model identifier.
var modelFields = []string{"model", "BLD_DESC_RV_MODEL", "Model", "model_name", "MODEL"}

// Normalize keeps rows with a model and a numeric cluster, and returns copies
// with those fields in canonical form. emb_x and emb_y are canonicalized when
// finite and left as-is otherwise; only embedding consumers need them. It
// reports how many rows were dropped.
func Normalize(rows []survey.Row) ([]survey.Row, int) {
	out := make([]survey.Row, 0, len(rows))
	dropped := 0
	for _, r := range rows {
		model := ""
		for _, f := range modelFields {
			if v := r.Get(f); !v.IsMissing() {
				model = strings.TrimSpace(v.Text())
				break
			}
		}
		c, okc := r.Get(survey.FieldCluster).Float()
		if model == "" || !okc {
			dropped++
			continue
		}
		n := make(survey.Row, len(r)+4)
		for k, v := range r {
			n[k] = v
		}
		n[survey.FieldModel] = survey.String(model)
		n[survey.FieldCluster] = survey.Number(c)
		if x, ok := r.Get(analysis.FieldEmbX).Float(); ok {
			n[analysis.FieldEmbX] = survey.Number(x)
		}
		if y, ok := r.Get(analysis.FieldEmbY).Float(); ok {
			n[analysis.FieldEmbY] = survey.Number(y)
		}
		out = append(out, n)
	}
	return out, dropped
}

// Models lists the distinct models of rows, sorted.
func Models(rows []survey.Row) []string {
	groups := survey.Partition(rows, survey.ByModel)
	out := make([]string, len(groups))
	for i, g := range groups {
		out[i] = g.Key.Model
	}
	return out
}
