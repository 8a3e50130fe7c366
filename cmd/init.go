package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/segmap-cli/internal/session"
	"github.com/KaramelBytes/segmap-cli/internal/utils"
)

var (
	initDataset string
	initGroupBy string
)

var initCmd = &cobra.Command{
	Use:   "init <session-name>",
	Short: "Initialize a new segmap session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		root, err := defaultSessionsDir()
		if err != nil {
			return err
		}
		dir := filepath.Join(root, name)
		// Refuse to overwrite an existing session.
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			if _, err := os.Stat(filepath.Join(dir, utils.SessionFileName)); err == nil {
				return fmt.Errorf("session already exists at %s", dir)
			}
			entries, err := os.ReadDir(dir)
			if err != nil {
				return fmt.Errorf("inspect session directory: %w", err)
			}
			if len(entries) > 0 {
				return fmt.Errorf("directory %s already exists and is not empty; refusing to initialize session", dir)
			}
		} else if err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("stat session directory: %w", err)
		}
		by, err := groupBy(initGroupBy, cmd.Flags().Changed("group-by"))
		if err != nil {
			return err
		}
		ds := initDataset
		if ds != "" {
			if abs, err := filepath.Abs(ds); err == nil {
				ds = abs
			}
		}
		s := session.New(name, ds, dir)
		s.GroupBy = by
		if err := s.Save(); err != nil {
			return err
		}
		fmt.Printf("✓ Session initialized at %s\n", dir)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().StringVar(&initDataset, "dataset", "", "dataset the session analyzes")
	initCmd.Flags().StringVar(&initGroupBy, "group-by", "cluster", "grouping for the session's charts: cluster|model")
}
