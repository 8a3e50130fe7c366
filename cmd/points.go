package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/KaramelBytes/segmap-cli/internal/dataset"
	"github.com/KaramelBytes/segmap-cli/internal/numeric"
	"github.com/KaramelBytes/segmap-cli/internal/regression"
	"github.com/KaramelBytes/segmap-cli/internal/render"
	"github.com/KaramelBytes/segmap-cli/internal/survey"
	"github.com/KaramelBytes/segmap-cli/internal/utils"
)

var (
	ptX       string
	ptY       string
	ptGroupBy string
	ptColorBy string
	ptTrend   bool
	ptJSON    bool
	ptPNG     string
)

// scatter is the computed content of one chart.
type scatter struct {
	X       survey.Axis           `json:"x"`
	Y       survey.Axis           `json:"y"`
	GroupBy survey.GroupBy        `json:"groupBy"`
	Points  []survey.PercentPoint `json:"points"`
	Fit     *regression.Result    `json:"fit,omitempty"`
	Trend   *regression.TrendLine `json:"trend,omitempty"`
	XDomain [2]float64            `json:"xDomain"`
	YDomain [2]float64            `json:"yDomain"`
}

// colorMode picks how points are colored. An explicit flag must agree with
// the grouping; otherwise the grouping decides.
func colorMode(flag string, by survey.GroupBy) (survey.ColorMode, error) {
	want := survey.ColorMode(by)
	if m := survey.ColorMode(strings.ToLower(strings.TrimSpace(flag))); m != "" {
		if m != survey.ColorByCluster && m != survey.ColorByModel {
			return "", fmt.Errorf("invalid color mode %q (use cluster|model)", flag)
		}
		if m != want {
			return "", fmt.Errorf("color mode %q needs --group-by %s", m, m)
		}
		return m, nil
	}
	if m := survey.ColorMode(settings().ColorMode); m != "" && m != want {
		log.Debug("configured color mode does not match grouping; following grouping",
			zap.String("color_mode", string(m)), zap.String("group_by", string(by)))
	}
	return want, nil
}

func buildScatter(w *workspace, by survey.GroupBy, x, y survey.Axis, colorBy string, trend bool) (*scatter, error) {
	c := settings()
	mode, err := colorMode(colorBy, by)
	if err != nil {
		return nil, err
	}
	opts := survey.PointOptions{
		GroupBy:   by,
		X:         x,
		Y:         y,
		ColorMode: mode,
		Palette:   survey.DefaultPalette(),
		Fallback:  c.FallbackColor,
	}
	if mode == survey.ColorByModel {
		opts.ModelColors = opts.Palette.ModelColors(dataset.Models(w.rows))
	}
	pts := w.scorer.BuildGroupedPoints(w.rows, opts)
	sc := &scatter{X: x, Y: y, GroupBy: by, Points: pts}
	xs := make([]float64, len(pts))
	ys := make([]float64, len(pts))
	for i, p := range pts {
		xs[i], ys[i] = p.X, p.Y
	}
	sc.XDomain = numeric.PercentPaddedDomain(xs)
	sc.YDomain = numeric.PercentPaddedDomain(ys)
	sc.Fit = regression.Fit(survey.XY(pts))
	if trend {
		sc.Trend = regression.BuildTrendLine(survey.XY(pts), sc.XDomain)
	}
	log.Debug("scatter built",
		zap.String("x", x.String()), zap.String("y", y.String()),
		zap.String("group_by", string(by)), zap.Int("points", len(pts)))
	return sc, nil
}

func (sc *scatter) Markdown(w *workspace) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[SCATTER]\nX: %s\nY: %s\nGrouped by: %s\n\n", w.axisLabel(sc.X), w.axisLabel(sc.Y), sc.GroupBy)
	b.WriteString("| Group | N | X % | Y % | Color |\n|---|---:|---:|---:|---|\n")
	for _, p := range sc.Points {
		fmt.Fprintf(&b, "| %s | %d | %.1f | %.1f | %s |\n", p.Name, p.N, p.X, p.Y, p.Color)
	}
	b.WriteString("\n[FIT]\n")
	if sc.Fit == nil {
		b.WriteString("- undefined (fewer than 2 points or no x variance)\n")
	} else {
		fmt.Fprintf(&b, "- y = %.4f·x + %.4f\n- R² = %.4f\n", sc.Fit.Slope, sc.Fit.Intercept, sc.Fit.R2)
	}
	if sc.Trend != nil {
		fmt.Fprintf(&b, "- trend: (%.1f, %.1f) → (%.1f, %.1f)\n",
			sc.Trend.Line[0].X, sc.Trend.Line[0].Y, sc.Trend.Line[1].X, sc.Trend.Line[1].Y)
	}
	return b.String()
}

func (sc *scatter) png(w *workspace, title string) ([]byte, error) {
	c := settings()
	return render.Scatter(sc.Points, sc.Trend, render.Options{
		Width:  c.ChartWidth,
		Height: c.ChartHeight,
		Title:  title,
		XLabel: w.axisLabel(sc.X),
		YLabel: w.axisLabel(sc.Y),
	})
}

var pointsCmd = &cobra.Command{
	Use:   "points <rows>",
	Short: "Compute group percent points for an axis pair, with optional trend line",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		x, err := survey.ParseAxis(ptX)
		if err != nil {
			return fmt.Errorf("--x: %w", err)
		}
		y, err := survey.ParseAxis(ptY)
		if err != nil {
			return fmt.Errorf("--y: %w", err)
		}
		by, err := groupBy(ptGroupBy, cmd.Flags().Changed("group-by"))
		if err != nil {
			return err
		}
		w, err := loadWorkspace(args[0])
		if err != nil {
			return err
		}
		sc, err := buildScatter(w, by, x, y, ptColorBy, ptTrend)
		if err != nil {
			return err
		}
		if len(sc.Points) == 0 {
			fmt.Fprintln(os.Stderr, "⚠ Warning: no group has both percentages defined")
		}
		if ptPNG != "" {
			img, err := sc.png(w, fmt.Sprintf("%s vs %s", x.Key, y.Key))
			if err != nil {
				return err
			}
			if err := utils.SafeWriteFile(ptPNG, img); err != nil {
				return err
			}
			fmt.Printf("✓ Wrote chart to %s\n", ptPNG)
		}
		if ptJSON {
			b, err := utils.PrettyJSON(sc)
			if err != nil {
				return err
			}
			fmt.Println(string(b))
			return nil
		}
		fmt.Print(sc.Markdown(w))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(pointsCmd)
	pointsCmd.Flags().StringVar(&ptX, "x", "", "x axis as type:key (loyalty|wtp|pr|img)")
	pointsCmd.Flags().StringVar(&ptY, "y", "", "y axis as type:key (loyalty|wtp|pr|img)")
	pointsCmd.Flags().StringVar(&ptGroupBy, "group-by", "cluster", "group rows by: cluster|model")
	pointsCmd.Flags().StringVar(&ptColorBy, "color-by", "", "point colors: cluster|model (must match --group-by; default follows it)")
	pointsCmd.Flags().BoolVar(&ptTrend, "trend", false, "include the least-squares trend line")
	pointsCmd.Flags().BoolVar(&ptJSON, "json", false, "print JSON instead of Markdown")
	pointsCmd.Flags().StringVar(&ptPNG, "png", "", "also render the scatter to this PNG path")
	_ = pointsCmd.MarkFlagRequired("x")
	_ = pointsCmd.MarkFlagRequired("y")
}
