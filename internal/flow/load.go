package flow

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadFile reads a workflow definition from a JSON or YAML file. The format
// is chosen by extension; anything other than .json is parsed as YAML.
func LoadFile(path string) (*WorkflowDefinition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading workflow file: %w", err)
	}
	return Parse(data, filepath.Ext(path))
}

// Parse decodes a workflow definition. ext is a file extension such as
// ".json" or ".yaml".
func Parse(data []byte, ext string) (*WorkflowDefinition, error) {
	var wf WorkflowDefinition
	switch strings.ToLower(ext) {
	case ".json":
		if err := json.Unmarshal(data, &wf); err != nil {
			return nil, fmt.Errorf("parsing workflow JSON: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, &wf); err != nil {
			return nil, fmt.Errorf("parsing workflow YAML: %w", err)
		}
	}
	return &wf, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
