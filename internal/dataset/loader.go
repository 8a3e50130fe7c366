// Package dataset reads respondent rows and lookup tables from disk.
package dataset

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/KaramelBytes/segmap-cli/internal/survey"
)

// Loader reads one file format into rows.
type Loader interface {
	CanLoad(path string) bool
	Load(path string, opt Options) ([]survey.Row, error)
}

// Options tunes loading.
type Options struct {
	// Sheet selects a worksheet by name for spreadsheet inputs; empty means the first.
	Sheet string
	// Delimiter overrides CSV delimiter detection.
	Delimiter rune
}

// ErrUnsupported indicates no registered loader handles the file.
var ErrUnsupported = errors.New("unsupported dataset format")

var registry []Loader

// Register adds a loader. Earlier registrations win.
func Register(l Loader) {
	registry = append(registry, l)
}

// LoadFile reads path with the first loader that accepts it.
func LoadFile(path string, opt Options) ([]survey.Row, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("stat dataset: %w", err)
	}
	for _, l := range registry {
		if l.CanLoad(path) {
			rows, err := l.Load(path, opt)
			if err != nil {
				return nil, fmt.Errorf("load %s: %w", filepath.Base(path), err)
			}
			return rows, nil
		}
	}
	return nil, fmt.Errorf("%s: %w", filepath.Base(path), ErrUnsupported)
}

func init() {
	Register(jsonLoader{})
	Register(csvLoader{})
	Register(xlsxLoader{})
}
