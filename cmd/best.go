package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/KaramelBytes/segmap-cli/internal/combo"
	"github.com/KaramelBytes/segmap-cli/internal/dataset"
	"github.com/KaramelBytes/segmap-cli/internal/session"
	"github.com/KaramelBytes/segmap-cli/internal/survey"
	"github.com/KaramelBytes/segmap-cli/internal/utils"
)

var (
	bcGroupBy string
	bcSession string
	bcTop     int
	bcJSON    bool
	bcXFamily string
	bcYFamily string
)

type bestOutput struct {
	GroupBy    survey.GroupBy `json:"groupBy"`
	Candidates int            `json:"candidates"`
	Result     combo.Result   `json:"result"`
	Top        []combo.Combo  `json:"top"`
}

func familyOf(families []combo.Family, name string) (combo.Family, error) {
	t := survey.AxisType(strings.ToLower(strings.TrimSpace(name)))
	if !t.Valid() {
		return combo.Family{}, fmt.Errorf("unknown family %q (use loyalty|wtp|pr|img)", name)
	}
	for _, f := range families {
		if f.Type == t {
			return f, nil
		}
	}
	return combo.Family{Type: t}, nil
}

var bestCmd = &cobra.Command{
	Use:   "best <rows>",
	Short: "Search every cross-family axis pair for the best linear fit",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		by, err := groupBy(bcGroupBy, cmd.Flags().Changed("group-by"))
		if err != nil {
			return err
		}
		if (bcXFamily == "") != (bcYFamily == "") {
			return fmt.Errorf("--x-family and --y-family must be given together")
		}
		w, err := loadWorkspace(args[0])
		if err != nil {
			return err
		}
		families := w.taxonomy.ComboFamilies(dataset.PurchaseReasons(w.rows, w.scorer))
		if bcXFamily != "" {
			xf, err := familyOf(families, bcXFamily)
			if err != nil {
				return err
			}
			yf, err := familyOf(families, bcYFamily)
			if err != nil {
				return err
			}
			families = []combo.Family{xf, yf}
		}

		start := time.Now()
		cands := combo.Search(w.rows, by, families, w.scorer)
		res := combo.Pick(cands)
		log.Debug("combo search done",
			zap.Int("families", len(families)),
			zap.Int("candidates", len(cands)),
			zap.Duration("elapsed", time.Since(start)))

		if bcSession != "" {
			dir, err := resolveSessionDirByName(bcSession)
			if err != nil {
				return err
			}
			s, err := session.Load(dir)
			if err != nil {
				return err
			}
			s.GroupBy = by
			s.ApplyCombos(res)
			if err := s.Save(); err != nil {
				return err
			}
			if res.Best != nil {
				fmt.Printf("✓ Session '%s' charts set to the best pairs\n", s.Name)
			}
		}

		top := cands
		if bcTop > 0 && len(top) > bcTop {
			top = top[:bcTop]
		}
		if bcJSON {
			b, err := utils.PrettyJSON(bestOutput{GroupBy: by, Candidates: len(cands), Result: res, Top: top})
			if err != nil {
				return err
			}
			fmt.Println(string(b))
			return nil
		}
		if res.Best == nil {
			fmt.Println("⚠ Warning: no axis pair produced a fit (need at least two groups per pair)")
			return nil
		}
		var b strings.Builder
		fmt.Fprintf(&b, "[BEST COMBINATIONS]\nGrouped by: %s\nCandidates: %d\n\n", by, len(cands))
		fmt.Fprintf(&b, "Best:   %s vs %s (R² %.4f)\n", w.axisLabel(res.Best.X()), w.axisLabel(res.Best.Y()), res.Best.R2)
		if res.Second != nil {
			fmt.Fprintf(&b, "Second: %s vs %s (R² %.4f)\n", w.axisLabel(res.Second.X()), w.axisLabel(res.Second.Y()), res.Second.R2)
		}
		b.WriteString("\n| # | X | Y | R² | Groups |\n|---:|---|---|---:|---:|\n")
		for i, c := range top {
			fmt.Fprintf(&b, "| %d | %s | %s | %.4f | %d |\n", i+1, c.X(), c.Y(), c.R2, c.Points)
		}
		fmt.Print(b.String())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(bestCmd)
	bestCmd.Flags().StringVar(&bcGroupBy, "group-by", "cluster", "group rows by: cluster|model")
	bestCmd.Flags().StringVarP(&bcSession, "session", "s", "", "session to point at the best and second pairs")
	bestCmd.Flags().IntVar(&bcTop, "top", 10, "number of ranked candidates to list (0 = all)")
	bestCmd.Flags().BoolVar(&bcJSON, "json", false, "print JSON instead of Markdown")
	bestCmd.Flags().StringVar(&bcXFamily, "x-family", "", "restrict x to one family (requires --y-family)")
	bestCmd.Flags().StringVar(&bcYFamily, "y-family", "", "restrict y to one family (requires --x-family)")
}
