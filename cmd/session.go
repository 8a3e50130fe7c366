package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/segmap-cli/internal/session"
	"github.com/KaramelBytes/segmap-cli/internal/survey"
	"github.com/KaramelBytes/segmap-cli/internal/utils"
)

var (
	ssChart   string
	ssX       string
	ssY       string
	ssTrend   bool
	ssGroupBy string
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Inspect or edit a session's chart selections",
}

func loadSessionByName(name string) (*session.Session, error) {
	dir, err := resolveSessionDirByName(name)
	if err != nil {
		return nil, err
	}
	return session.Load(dir)
}

var sessionShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Print a session as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSessionByName(args[0])
		if err != nil {
			return err
		}
		b, err := utils.PrettyJSON(s)
		if err != nil {
			return err
		}
		fmt.Println(string(b))
		return nil
	},
}

var sessionSetCmd = &cobra.Command{
	Use:   "set <name>",
	Short: "Set the axes or trend toggle of chart a or b",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSessionByName(args[0])
		if err != nil {
			return err
		}
		sel, err := s.Chart(ssChart)
		if err != nil {
			return err
		}
		f := cmd.Flags()
		if f.Changed("x") {
			if sel.X, err = survey.ParseAxis(ssX); err != nil {
				return fmt.Errorf("--x: %w", err)
			}
		}
		if f.Changed("y") {
			if sel.Y, err = survey.ParseAxis(ssY); err != nil {
				return fmt.Errorf("--y: %w", err)
			}
		}
		if f.Changed("trend") {
			sel.Trend = ssTrend
		}
		if f.Changed("group-by") {
			if s.GroupBy, err = survey.ParseGroupBy(ssGroupBy); err != nil {
				return err
			}
		}
		if ssChart == "b" {
			s.ChartB = sel
		} else {
			s.ChartA = sel
		}
		if err := s.Save(); err != nil {
			return err
		}
		fmt.Printf("✓ Updated chart %s of session '%s': %s vs %s\n", ssChart, s.Name, sel.X, sel.Y)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sessionCmd)
	sessionCmd.AddCommand(sessionShowCmd)
	sessionCmd.AddCommand(sessionSetCmd)

	sessionSetCmd.Flags().StringVar(&ssChart, "chart", "a", "which chart: a|b")
	sessionSetCmd.Flags().StringVar(&ssX, "x", "", "x axis as type:key")
	sessionSetCmd.Flags().StringVar(&ssY, "y", "", "y axis as type:key")
	sessionSetCmd.Flags().BoolVar(&ssTrend, "trend", false, "show the trend line")
	sessionSetCmd.Flags().StringVar(&ssGroupBy, "group-by", "", "session grouping: cluster|model")
}
