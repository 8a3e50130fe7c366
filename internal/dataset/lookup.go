package dataset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/KaramelBytes/segmap-cli/internal/survey"
)

type mappingEntry struct {
	Name  survey.Value `json:"NAME"`
	Start survey.Value `json:"START"`
	Label survey.Value `json:"LABEL"`
}

// LoadCodeMap reads a demographics mapping file: a JSON array of
// {"NAME": field, "START": code, "LABEL": label}.
func LoadCodeMap(path string) (*survey.CodeMap, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read code map: %w", err)
	}
	return ParseCodeMap(b)
}

// ParseCodeMap decodes mapping entries. Entries without a field name are skipped.
func ParseCodeMap(data []byte) (*survey.CodeMap, error) {
	var entries []mappingEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decode code map: %w", err)
	}
	cm := survey.NewCodeMap()
	for _, e := range entries {
		field := strings.TrimSpace(e.Name.Text())
		if field == "" {
			continue
		}
		cm.Add(field, e.Start, strings.TrimSpace(e.Label.Text()))
	}
	return cm, nil
}

// VarLabels maps variable codes to display text.
type VarLabels map[string]string

// Label returns the display text for code, or code itself when unknown.
func (v VarLabels) Label(code string) string {
	code = strings.TrimSpace(code)
	if l, ok := v[code]; ok && l != "" {
		return l
	}
	return code
}

var (
	codeKeys = []string{"code", "CODE", "key", "Key", "variable", "VARIABLE"}
	textKeys = []string{"text", "label", "LABEL", "display", "Display"}
)

// LoadVarLabels reads a code-to-text file. Entries may be [code, text]
// pairs or objects using any of the common code/text key spellings.
func LoadVarLabels(path string) (VarLabels, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read labels: %w", err)
	}
	return ParseVarLabels(b)
}

func ParseVarLabels(data []byte) (VarLabels, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode labels: %w", err)
	}
	out := VarLabels{}
	for i, item := range raw {
		var code, text string
		switch {
		case bytes.HasPrefix(bytes.TrimSpace(item), []byte("[")):
			var pair []survey.Value
			if err := json.Unmarshal(item, &pair); err != nil {
				return nil, fmt.Errorf("decode label %d: %w", i, err)
			}
			if len(pair) > 0 {
				code = pair[0].Text()
			}
			if len(pair) > 1 {
				text = pair[1].Text()
			}
		case bytes.HasPrefix(bytes.TrimSpace(item), []byte("{")):
			var obj map[string]survey.Value
			if err := json.Unmarshal(item, &obj); err != nil {
				return nil, fmt.Errorf("decode label %d: %w", i, err)
			}
			code = firstOf(obj, codeKeys)
			text = firstOf(obj, textKeys)
		default:
			continue
		}
		code, text = strings.TrimSpace(code), strings.TrimSpace(text)
		if code == "" {
			continue
		}
		if text == "" {
			text = code
		}
		out[code] = text
	}
	return out, nil
}

func firstOf(obj map[string]survey.Value, keys []string) string {
	for _, k := range keys {
		if v, ok := obj[k]; ok && !v.IsMissing() {
			return v.Text()
		}
	}
	return ""
}
