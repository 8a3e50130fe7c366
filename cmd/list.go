package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/segmap-cli/internal/session"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List sessions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := defaultSessionsDir()
		if err != nil {
			return err
		}
		infos, err := session.List(root)
		if err != nil {
			return err
		}
		if len(infos) == 0 {
			fmt.Println("(no sessions)")
			return nil
		}
		for _, in := range infos {
			ds := in.Dataset
			if ds == "" {
				ds = "-"
			}
			fmt.Printf("- %s  %s  (updated %s)\n", in.Name, ds, in.UpdatedAt.Format("2006-01-02 15:04"))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
