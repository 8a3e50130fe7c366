package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/KaramelBytes/segmap-cli/internal/analysis"
	"github.com/KaramelBytes/segmap-cli/internal/session"
	"github.com/KaramelBytes/segmap-cli/internal/survey"
	"github.com/KaramelBytes/segmap-cli/internal/utils"
)

var (
	prSession    string
	prOutputPath string
	prFieldGroup string
	prCluster    int
	prModel      string
	prGroupBy    string
	prJSON       bool
)

// profileParams are the report settings shared by profile and profile-batch.
type profileParams struct {
	FieldGroup string
	Cluster    *int
	Model      string
	GroupBy    survey.GroupBy
}

func buildProfile(path string, p profileParams) (*analysis.Report, error) {
	w, err := loadWorkspace(path)
	if err != nil {
		return nil, err
	}
	g, ok := w.taxonomy.Group(p.FieldGroup)
	if !ok {
		return nil, fmt.Errorf("unknown field group %q (known: %s)", p.FieldGroup, strings.Join(w.taxonomy.GroupNames(), ", "))
	}
	c := settings()
	rep := analysis.Build(w.rows, w.scorer, analysis.Options{
		Name:       filepath.Base(w.path),
		FieldGroup: g.Name,
		Fields:     g.Fields,
		Summary:    w.taxonomy.SummaryOptions(g),
		Cluster:    p.Cluster,
		Model:      p.Model,
		GroupBy:    p.GroupBy,
		PriceField: c.PriceField,
	})
	if w.dropped > 0 {
		rep.Warnings = append(rep.Warnings, fmt.Sprintf("%d rows dropped during normalization", w.dropped))
	}
	log.Debug("profile built", zap.String("dataset", rep.Name), zap.Int("scoped", rep.Scoped), zap.Int("fields", len(rep.Fields)))
	return rep, nil
}

func renderProfile(rep *analysis.Report, asJSON bool) (string, error) {
	if asJSON {
		b, err := utils.PrettyJSON(rep)
		if err != nil {
			return "", err
		}
		return string(b) + "\n", nil
	}
	return rep.Markdown(), nil
}

// profileFileBase builds the output name for a dataset summary.
func profileFileBase(path, fieldGroup string) string {
	base := filepath.Base(path)
	safe := strings.TrimSuffix(base, filepath.Ext(base))
	return safe + "__" + slug(fieldGroup)
}

func slug(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else if r == ' ' || r == '-' || r == '_' {
			b.WriteRune('-')
		}
	}
	out := strings.Trim(b.String(), "-")
	if out == "" {
		out = "profile"
	}
	return out
}

// uniquePath appends __2, __3, ... before ext until the path is free.
func uniquePath(dir, base, ext string) string {
	out := filepath.Join(dir, base+ext)
	if _, err := os.Stat(out); err != nil {
		return out
	}
	for idx := 2; ; idx++ {
		cand := filepath.Join(dir, fmt.Sprintf("%s__%d%s", base, idx, ext))
		if _, err := os.Stat(cand); os.IsNotExist(err) {
			return cand
		}
	}
}

// attachProfile stores a rendered profile under the session's profiles/ dir.
func attachProfile(sessionName, datasetPath, fieldGroup, body, ext string) (string, error) {
	dir, err := resolveSessionDirByName(sessionName)
	if err != nil {
		return "", err
	}
	s, err := session.Load(dir)
	if err != nil {
		return "", err
	}
	outDir := filepath.Join(s.RootDir(), "profiles")
	if err := utils.EnsureDir(outDir); err != nil {
		return "", err
	}
	out := uniquePath(outDir, profileFileBase(datasetPath, fieldGroup), ext)
	if err := utils.SafeWriteFile(out, []byte(body)); err != nil {
		return "", fmt.Errorf("write session profile: %w", err)
	}
	if err := s.Save(); err != nil {
		return "", err
	}
	return out, nil
}

var profileCmd = &cobra.Command{
	Use:   "profile <rows>",
	Short: "Summarize a field group with price, state and cluster panels",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		by, err := groupBy(prGroupBy, cmd.Flags().Changed("group-by"))
		if err != nil {
			return err
		}
		params := profileParams{FieldGroup: prFieldGroup, Model: prModel, GroupBy: by}
		if cmd.Flags().Changed("cluster") {
			c := prCluster
			params.Cluster = &c
		}
		rep, err := buildProfile(args[0], params)
		if err != nil {
			return err
		}
		body, err := renderProfile(rep, prJSON)
		if err != nil {
			return err
		}
		ext := ".profile.md"
		if prJSON {
			ext = ".profile.json"
		}

		// Decide where to write: --output path, or attach to session, or stdout
		written := false
		if prOutputPath != "" {
			if err := utils.SafeWriteFile(prOutputPath, []byte(body)); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Printf("✓ Wrote profile to %s\n", prOutputPath)
			written = true
		}
		if prSession != "" {
			out, err := attachProfile(prSession, args[0], rep.FieldGroup, body, ext)
			if err != nil {
				return err
			}
			fmt.Printf("✓ Added profile to session '%s' as %s\n", prSession, filepath.Base(out))
			written = true
		}
		if !written {
			fmt.Print(body)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(profileCmd)
	profileCmd.Flags().StringVarP(&prSession, "session", "s", "", "session name to attach the profile to")
	profileCmd.Flags().StringVarP(&prOutputPath, "output", "o", "", "optional path to write the profile")
	profileCmd.Flags().StringVarP(&prFieldGroup, "field-group", "g", "Demographics", "field group to summarize")
	profileCmd.Flags().IntVar(&prCluster, "cluster", 0, "restrict to one cluster (adds the cluster snapshot)")
	profileCmd.Flags().StringVar(&prModel, "model", "", "restrict to one model")
	profileCmd.Flags().StringVar(&prGroupBy, "group-by", "cluster", "grouping for price series and centroids: cluster|model")
	profileCmd.Flags().BoolVar(&prJSON, "json", false, "emit JSON instead of Markdown")
}
