package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/KaramelBytes/segmap-cli/internal/analysis"
	"github.com/KaramelBytes/segmap-cli/internal/utils"
)

var (
	pbSession    string
	pbOutputDir  string
	pbFieldGroup string
	pbGroupBy    string
	pbJSON       bool
	pbJobs       int
	pbQuiet      bool
)

// expandInputs resolves globs and literal paths, dropping duplicates.
func expandInputs(args []string) []string {
	var files []string
	seen := map[string]struct{}{}
	for _, arg := range args {
		matches, _ := filepath.Glob(arg)
		if len(matches) == 0 {
			// treat as literal path if exists
			if _, err := os.Stat(arg); err == nil {
				matches = []string{arg}
			}
		}
		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			files = append(files, m)
		}
	}
	sort.Strings(files)
	return files
}

// buildProfiles computes one report per file concurrently; results keep input order.
func buildProfiles(ctx context.Context, files []string, p profileParams, jobs int) ([]*analysis.Report, error) {
	_ = settings()
	reports := make([]*analysis.Report, len(files))
	g, gctx := errgroup.WithContext(ctx)
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	g.SetLimit(jobs)
	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rep, err := buildProfile(path, p)
			if err != nil {
				return fmt.Errorf("%s: %w", filepath.Base(path), err)
			}
			reports[i] = rep
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}

var profileBatchCmd = &cobra.Command{
	Use:   "profile-batch <files...>",
	Short: "Profile multiple JSON/CSV/XLSX datasets concurrently",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files := expandInputs(args)
		if len(files) == 0 {
			return fmt.Errorf("no input files matched")
		}
		by, err := groupBy(pbGroupBy, cmd.Flags().Changed("group-by"))
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		start := time.Now()
		reports, err := buildProfiles(ctx, files, profileParams{FieldGroup: pbFieldGroup, GroupBy: by}, pbJobs)
		if err != nil {
			return err
		}
		log.Debug("batch profiled", zap.Int("files", len(files)), zap.Duration("elapsed", time.Since(start)))

		ext := ".profile.md"
		if pbJSON {
			ext = ".profile.json"
		}
		if pbOutputDir != "" {
			if err := utils.EnsureDir(pbOutputDir); err != nil {
				return err
			}
		}
		total := len(files)
		for i, rep := range reports {
			path := files[i]
			if !pbQuiet {
				fmt.Printf("[%d/%d] %s: %d rows\n", i+1, total, filepath.Base(path), rep.Rows)
			}
			body, err := renderProfile(rep, pbJSON)
			if err != nil {
				return err
			}
			written := false
			if pbOutputDir != "" {
				out := uniquePath(pbOutputDir, profileFileBase(path, rep.FieldGroup), ext)
				if filepath.Base(out) != profileFileBase(path, rep.FieldGroup)+ext && !pbQuiet {
					fmt.Printf("⚠ Detected existing profile, writing to %s to avoid overwrite.\n", filepath.Base(out))
				}
				if err := utils.SafeWriteFile(out, []byte(body)); err != nil {
					return fmt.Errorf("write profile: %w", err)
				}
				written = true
			}
			if pbSession != "" {
				out, err := attachProfile(pbSession, path, rep.FieldGroup, body, ext)
				if err != nil {
					return err
				}
				if !pbQuiet {
					fmt.Printf("✓ Added profile to session '%s' as %s\n", pbSession, filepath.Base(out))
				}
				written = true
			}
			if !written && !pbQuiet {
				fmt.Print(body)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(profileBatchCmd)
	profileBatchCmd.Flags().StringVarP(&pbSession, "session", "s", "", "session name to attach profiles to")
	profileBatchCmd.Flags().StringVarP(&pbOutputDir, "output", "o", "", "directory to write one profile per dataset")
	profileBatchCmd.Flags().StringVarP(&pbFieldGroup, "field-group", "g", "Demographics", "field group to summarize")
	profileBatchCmd.Flags().StringVar(&pbGroupBy, "group-by", "cluster", "grouping for price series and centroids: cluster|model")
	profileBatchCmd.Flags().BoolVar(&pbJSON, "json", false, "emit JSON instead of Markdown")
	profileBatchCmd.Flags().IntVar(&pbJobs, "jobs", 0, "concurrent loaders (0 = number of CPUs)")
	profileBatchCmd.Flags().BoolVar(&pbQuiet, "quiet", false, "suppress progress and non-essential output")
}
