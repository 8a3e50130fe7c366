package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	cfgpkg "github.com/KaramelBytes/segmap-cli/internal/config"
	"github.com/KaramelBytes/segmap-cli/internal/dataset"
	"github.com/KaramelBytes/segmap-cli/internal/survey"
	"github.com/KaramelBytes/segmap-cli/internal/utils"
)

// workspace is a loaded dataset with the lookups needed to score it.
type workspace struct {
	path     string
	rows     []survey.Row
	dropped  int
	scorer   *survey.Scorer
	taxonomy *dataset.Taxonomy
	labels   dataset.VarLabels
}

// settings returns the loaded config, falling back to defaults when the
// command runs without cobra initialization.
func settings() *cfgpkg.Global {
	if cfg != nil {
		return cfg
	}
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		return &cfgpkg.Global{}
	}
	cfg = c
	return cfg
}

// resolvePath expands a leading ~ and joins relative paths onto data_dir.
func resolvePath(p string) (string, error) {
	if p == "" {
		return "", nil
	}
	if strings.HasPrefix(p, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		p = strings.TrimPrefix(p, "~")
		p = strings.TrimPrefix(p, string(os.PathSeparator))
		p = strings.TrimPrefix(p, "/")
		p = filepath.Join(home, p)
	}
	if dd := settings().DataDir; dd != "" && !filepath.IsAbs(p) {
		if _, err := os.Stat(p); errors.Is(err, os.ErrNotExist) {
			p = filepath.Join(dd, p)
		}
	}
	return filepath.Clean(p), nil
}

func loadTaxonomy() (*dataset.Taxonomy, error) {
	path, err := resolvePath(settings().TaxonomyFile)
	if err != nil {
		return nil, err
	}
	if path == "" {
		return dataset.DefaultTaxonomy(), nil
	}
	return dataset.LoadTaxonomy(path)
}

func newScorer(codes *survey.CodeMap) (*survey.Scorer, error) {
	c := settings()
	pol, err := survey.NewPolicies(c.LoyaltyField, c.StatePattern)
	if err != nil {
		return nil, err
	}
	s := survey.NewScorer(codes, pol)
	if c.PurchaseReasonField != "" {
		s.PurchaseReasonField = c.PurchaseReasonField
	}
	return s, nil
}

// loadWorkspace reads and normalizes a dataset together with its code map,
// variable labels and taxonomy.
func loadWorkspace(path string) (*workspace, error) {
	start := time.Now()
	src, err := resolvePath(path)
	if err != nil {
		return nil, err
	}
	raw, err := dataset.LoadFile(src, dataset.Options{Sheet: flagSheet})
	if err != nil {
		return nil, err
	}
	rows, dropped := dataset.Normalize(raw)
	if dropped > 0 {
		log.Warn("dropped rows without model or cluster",
			zap.String("dataset", src), zap.Int("dropped", dropped), zap.Int("kept", len(rows)))
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s: no usable rows (need model and cluster)", filepath.Base(src))
	}

	codes := survey.NewCodeMap()
	if p, err := resolvePath(settings().CodesFile); err != nil {
		return nil, err
	} else if p != "" {
		if codes, err = dataset.LoadCodeMap(p); err != nil {
			return nil, err
		}
	}
	var labels dataset.VarLabels
	if p, err := resolvePath(settings().LabelsFile); err != nil {
		return nil, err
	} else if p != "" {
		if labels, err = dataset.LoadVarLabels(p); err != nil {
			return nil, err
		}
	}
	tax, err := loadTaxonomy()
	if err != nil {
		return nil, err
	}
	scorer, err := newScorer(codes)
	if err != nil {
		return nil, err
	}
	log.Debug("dataset loaded",
		zap.String("dataset", src),
		zap.Int("rows", len(rows)),
		zap.Int("codes", codes.Len()),
		zap.Duration("elapsed", time.Since(start)))
	return &workspace{path: src, rows: rows, dropped: dropped, scorer: scorer, taxonomy: tax, labels: labels}, nil
}

// groupBy resolves --group-by against the configured default.
func groupBy(flag string, changed bool) (survey.GroupBy, error) {
	if changed || settings().GroupBy == "" {
		return survey.ParseGroupBy(flag)
	}
	return survey.ParseGroupBy(settings().GroupBy)
}

// axisLabel names an axis for chart captions, using variable labels when known.
func (w *workspace) axisLabel(a survey.Axis) string {
	name := a.Key
	switch a.Type {
	case survey.AxisImagery:
		name = w.taxonomy.ImageryLabel(a.Key)
	case survey.AxisLoyalty, survey.AxisWTP:
		name = w.labels.Label(a.Key)
	}
	return fmt.Sprintf("%s: %s (%%)", a.Type.Label(), name)
}

func defaultSessionsDir() (string, error) {
	dir := settings().SessionsDir
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dir = filepath.Join(home, ".segmap", "sessions")
	}
	dir, err := resolvePath(dir)
	if err != nil {
		return "", err
	}
	if err := utils.EnsureDir(dir); err != nil {
		return "", err
	}
	return dir, nil
}

// resolveSessionDirByName maps a session name to its directory. A value that
// looks like a path is resolved by walking up to the enclosing session.json.
func resolveSessionDirByName(name string) (string, error) {
	if name == "" {
		return "", errors.New("session name is required")
	}
	if strings.ContainsRune(name, os.PathSeparator) || strings.HasPrefix(name, ".") {
		dir, err := utils.FindSessionRoot(name)
		if err != nil {
			return "", fmt.Errorf("resolve session %s: %w", name, err)
		}
		return dir, nil
	}
	root, err := defaultSessionsDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, name), nil
}
