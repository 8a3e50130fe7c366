package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/segmap-cli/internal/dataset"
	"github.com/KaramelBytes/segmap-cli/internal/survey"
)

var fieldsData string

var fieldsCmd = &cobra.Command{
	Use:   "fields",
	Short: "List field groups and axis families from the taxonomy",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		tax, err := loadTaxonomy()
		if err != nil {
			return err
		}
		var reasons []string
		if fieldsData != "" {
			w, err := loadWorkspace(fieldsData)
			if err != nil {
				return err
			}
			reasons = dataset.PurchaseReasons(w.rows, w.scorer)
		}
		var b strings.Builder
		b.WriteString("[FIELD GROUPS]\n")
		for _, name := range tax.GroupNames() {
			g, _ := tax.Group(name)
			kind := "categorical"
			if g.Numeric {
				kind = "numeric"
			}
			fmt.Fprintf(&b, "- %s (%d fields, %s)\n", g.Name, len(g.Fields), kind)
		}
		b.WriteString("\n[AXIS FAMILIES]\n")
		for _, f := range tax.ComboFamilies(reasons) {
			fmt.Fprintf(&b, "- %s (%s): %d keys\n", f.Type, f.Type.Label(), len(f.Keys))
			for _, k := range f.Keys {
				label := k
				if f.Type == survey.AxisImagery {
					label = tax.ImageryLabel(k)
				}
				if label != k {
					fmt.Fprintf(&b, "    %s:%s  %s\n", f.Type, k, label)
				} else {
					fmt.Fprintf(&b, "    %s:%s\n", f.Type, k)
				}
			}
		}
		if fieldsData == "" {
			b.WriteString("\n(purchase reasons come from the data; pass --data to list them)\n")
		}
		fmt.Print(b.String())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(fieldsCmd)
	fieldsCmd.Flags().StringVar(&fieldsData, "data", "", "dataset to read purchase-reason keys from")
}
