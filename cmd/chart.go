package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/KaramelBytes/segmap-cli/internal/analysis"
	"github.com/KaramelBytes/segmap-cli/internal/render"
	"github.com/KaramelBytes/segmap-cli/internal/session"
	"github.com/KaramelBytes/segmap-cli/internal/survey"
	"github.com/KaramelBytes/segmap-cli/internal/utils"
)

var (
	chSession   string
	chOutput    string
	chWhich     string
	chColorBy   string
	chEmbedding bool
)

// embeddingGroups subsamples rows and splits them into per-cluster series.
func embeddingGroups(rows []survey.Row, fraction float64) []render.EmbeddingGroup {
	if fraction <= 0 {
		fraction = 0.5
	}
	sampled := analysis.Subsample(rows, fraction)
	pal := survey.DefaultPalette()
	parts := survey.Partition(sampled, survey.ByCluster)
	out := make([]render.EmbeddingGroup, 0, len(parts))
	for _, g := range parts {
		eg := render.EmbeddingGroup{Name: g.Key.String(), Color: pal.ClusterColor(g.Key.Cluster)}
		for _, r := range g.Rows {
			x, okx := r.Get(analysis.FieldEmbX).Float()
			y, oky := r.Get(analysis.FieldEmbY).Float()
			if !okx || !oky {
				continue
			}
			eg.X = append(eg.X, x)
			eg.Y = append(eg.Y, y)
		}
		out = append(out, eg)
	}
	log.Debug("embedding subsampled", zap.Int("rows", len(rows)), zap.Int("kept", len(sampled)))
	return out
}

var chartCmd = &cobra.Command{
	Use:   "chart <rows>",
	Short: "Render a session's chart (or the respondent embedding) to PNG",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if chOutput == "" {
			return fmt.Errorf("--output is required")
		}
		w, err := loadWorkspace(args[0])
		if err != nil {
			return err
		}
		c := settings()
		var img []byte
		if chEmbedding {
			img, err = render.Embedding(embeddingGroups(w.rows, c.SubsampleFraction), render.Options{
				Width: c.ChartWidth, Height: c.ChartHeight, Title: "Respondent embedding",
				XLabel: "emb_x", YLabel: "emb_y",
			})
		} else {
			if chSession == "" {
				return fmt.Errorf("--session is required unless --embedding is set")
			}
			dir, err := resolveSessionDirByName(chSession)
			if err != nil {
				return err
			}
			s, err := session.Load(dir)
			if err != nil {
				return err
			}
			sel, err := s.Chart(chWhich)
			if err != nil {
				return err
			}
			if sel.IsZero() {
				return fmt.Errorf("chart %s of session '%s' has no axes; run `segmap best -s %s` or `segmap session set`", chWhich, s.Name, s.Name)
			}
			by := s.GroupBy
			if by == "" {
				by = survey.ByCluster
			}
			sc, err := buildScatter(w, by, sel.X, sel.Y, chColorBy, sel.Trend)
			if err != nil {
				return err
			}
			img, err = sc.png(w, fmt.Sprintf("%s · chart %s", s.Name, chWhich))
			if err != nil {
				return err
			}
		}
		if err != nil {
			return err
		}
		if err := utils.SafeWriteFile(chOutput, img); err != nil {
			return err
		}
		fmt.Printf("✓ Wrote chart to %s\n", chOutput)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(chartCmd)
	chartCmd.Flags().StringVarP(&chSession, "session", "s", "", "session whose chart selection to render")
	chartCmd.Flags().StringVarP(&chOutput, "output", "o", "", "PNG output path")
	chartCmd.Flags().StringVar(&chWhich, "chart", "a", "which chart: a|b")
	chartCmd.Flags().StringVar(&chColorBy, "color-by", "", "point colors: cluster|model (must match the session grouping)")
	chartCmd.Flags().BoolVar(&chEmbedding, "embedding", false, "render the subsampled respondent embedding instead")
}
