// Package session persists a named chart selection between runs.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/KaramelBytes/segmap-cli/internal/combo"
	"github.com/KaramelBytes/segmap-cli/internal/survey"
	"github.com/KaramelBytes/segmap-cli/internal/utils"
)

// Selection is the axis pair and trend toggle of one chart.
type Selection struct {
	X     survey.Axis `json:"x"`
	Y     survey.Axis `json:"y"`
	Trend bool        `json:"trend"`
}

// IsZero reports whether no axes are chosen.
func (s Selection) IsZero() bool { return s.X.IsZero() && s.Y.IsZero() }

// Session is the saved state of one analysis.
type Session struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Dataset   string         `json:"dataset"`
	GroupBy   survey.GroupBy `json:"group_by"`
	ChartA    Selection      `json:"chart_a"`
	ChartB    Selection      `json:"chart_b"`
	Best      *combo.Combo   `json:"best,omitempty"`
	Second    *combo.Combo   `json:"second,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`

	rootDir string
}

// New constructs an in-memory session. Call Save to persist.
func New(name, dataset, rootDir string) *Session {
	now := time.Now()
	return &Session{
		ID:        uuid.NewString(),
		Name:      name,
		Dataset:   dataset,
		GroupBy:   survey.ByCluster,
		CreatedAt: now,
		UpdatedAt: now,
		rootDir:   rootDir,
	}
}

// Load reads session.json from dir.
func Load(dir string) (*Session, error) {
	path := filepath.Join(dir, utils.SessionFileName)
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("session not found at %s: %w", path, err)
		}
		return nil, fmt.Errorf("read session: %w", err)
	}
	var s Session
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("parse session: %w", err)
	}
	s.rootDir = dir
	return &s, nil
}

// RootDir returns the on-disk session directory.
func (s *Session) RootDir() string { return s.rootDir }

// Save writes session.json atomically.
func (s *Session) Save() error {
	if s.rootDir == "" {
		return errors.New("session root directory not set")
	}
	if err := utils.EnsureDir(s.rootDir); err != nil {
		return fmt.Errorf("ensure dir: %w", err)
	}
	s.UpdatedAt = time.Now()
	data, err := utils.PrettyJSON(s)
	if err != nil {
		return err
	}
	return utils.SafeWriteFile(filepath.Join(s.rootDir, utils.SessionFileName), data)
}

// ApplyCombos stores a search result and points the charts at it: best goes
// to chart A, second to chart B, both with trend lines on. A missing pair
// leaves its chart unchanged.
func (s *Session) ApplyCombos(res combo.Result) {
	s.Best, s.Second = res.Best, res.Second
	if res.Best != nil {
		s.ChartA = Selection{X: res.Best.X(), Y: res.Best.Y(), Trend: true}
	}
	if res.Second != nil {
		s.ChartB = Selection{X: res.Second.X(), Y: res.Second.Y(), Trend: true}
	}
	s.UpdatedAt = time.Now()
}

// Chart returns the selection for "a" or "b".
func (s *Session) Chart(which string) (Selection, error) {
	switch strings.ToLower(strings.TrimSpace(which)) {
	case "", "a":
		return s.ChartA, nil
	case "b":
		return s.ChartB, nil
	}
	return Selection{}, fmt.Errorf("unknown chart %q (use a|b)", which)
}

// Info is a listing entry.
type Info struct {
	Name      string
	Dataset   string
	UpdatedAt time.Time
	Dir       string
}

// List returns the sessions stored under root, sorted by name. Directories
// without a readable session.json are skipped.
func List(root string) ([]Info, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read sessions dir: %w", err)
	}
	var out []Info
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		dir := filepath.Join(root, e.Name())
		s, err := Load(dir)
		if err != nil {
			continue
		}
		out = append(out, Info{Name: s.Name, Dataset: s.Dataset, UpdatedAt: s.UpdatedAt, Dir: dir})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
