package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/KaramelBytes/segmap-cli/internal/perception"
	"github.com/KaramelBytes/segmap-cli/internal/render"
	"github.com/KaramelBytes/segmap-cli/internal/utils"
)

var (
	pcJSON bool
	pcPNG  string
)

type perceptionOutput struct {
	Table perception.Table `json:"table"`
	Map   *perception.Map  `json:"map"`
}

// readTable accepts either long-form observations or a labelled matrix.
func readTable(path string) (perception.Table, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return perception.Table{}, fmt.Errorf("read observations: %w", err)
	}
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '[' {
		var obs []perception.Observation
		if err := json.Unmarshal(b, &obs); err != nil {
			return perception.Table{}, fmt.Errorf("decode observations: %w", err)
		}
		return perception.BuildTable(obs), nil
	}
	var t perception.Table
	if err := json.Unmarshal(b, &t); err != nil {
		return perception.Table{}, fmt.Errorf("decode table: %w", err)
	}
	return t, nil
}

var perceptionCmd = &cobra.Command{
	Use:   "perception <observations>",
	Short: "Compute a correspondence-analysis perception map",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := resolvePath(args[0])
		if err != nil {
			return err
		}
		t, err := readTable(path)
		if err != nil {
			return err
		}
		m, err := t.Coords()
		if errors.Is(err, perception.ErrInsufficientData) {
			return fmt.Errorf("%w: got %d models x %d attributes", err, len(t.Rows), len(t.Cols))
		}
		if err != nil {
			return err
		}
		log.Debug("perception map computed",
			zap.Int("rows", len(t.Rows)), zap.Int("cols", len(t.Cols)),
			zap.Float64s("sigma", m.Sigma[:]), zap.Bool("scaled", m.Scaled))

		if pcPNG != "" {
			c := settings()
			img, err := render.Perception(m, t, render.Options{
				Width: c.ChartWidth, Height: c.ChartHeight, Title: "Perception map",
				XLabel: "Dimension 1", YLabel: "Dimension 2",
			})
			if err != nil {
				return err
			}
			if err := utils.SafeWriteFile(pcPNG, img); err != nil {
				return err
			}
			fmt.Printf("✓ Wrote perception map to %s\n", pcPNG)
		}
		if pcJSON {
			b, err := utils.PrettyJSON(perceptionOutput{Table: t, Map: m})
			if err != nil {
				return err
			}
			fmt.Println(string(b))
			return nil
		}
		var b strings.Builder
		fmt.Fprintf(&b, "[PERCEPTION MAP]\nσ1 = %.4f, σ2 = %.4f\n", m.Sigma[0], m.Sigma[1])
		if m.Scaled {
			b.WriteString("(coordinates inflated for display)\n")
		}
		b.WriteString("\n| Kind | Name | Dim 1 | Dim 2 |\n|---|---|---:|---:|\n")
		for i, c := range m.Rows {
			fmt.Fprintf(&b, "| model | %s | %.4f | %.4f |\n", t.Rows[i], c[0], c[1])
		}
		for j, c := range m.Cols {
			fmt.Fprintf(&b, "| attribute | %s | %.4f | %.4f |\n", t.Cols[j], c[0], c[1])
		}
		fmt.Print(b.String())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(perceptionCmd)
	perceptionCmd.Flags().BoolVar(&pcJSON, "json", false, "print JSON instead of Markdown")
	perceptionCmd.Flags().StringVar(&pcPNG, "png", "", "also render the map to this PNG path")
}
