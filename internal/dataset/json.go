package dataset

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/KaramelBytes/segmap-cli/internal/survey"
)

type jsonLoader struct{}

func (jsonLoader) CanLoad(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), ".json")
}

func (jsonLoader) Load(path string, _ Options) ([]survey.Row, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read json: %w", err)
	}
	var rows []survey.Row
	if err := json.Unmarshal(b, &rows); err != nil {
		return nil, fmt.Errorf("decode rows: %w", err)
	}
	return rows, nil
}
