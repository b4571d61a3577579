package visibility

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/outbreakkit/go-entityform/pkg/schema"
)

// ParseOverrides decodes an override table from YAML or JSON. The document is
// keyed by visibleMandatoryKey, then field key:
//
//	cases:
//	  pregnancyStatus: {visible: true, required: false}
//	  dateOfBurial:    {visible: false, required: false}
func ParseOverrides(data []byte, path string) (OverrideTable, error) {
	raw := map[string]map[string]schema.VisibleRequired{}
	if strings.HasSuffix(strings.ToLower(path), ".json") {
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("visibility: parse %s: %w", path, err)
		}
	} else {
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("visibility: parse %s: %w", path, err)
		}
	}

	table := OverrideTable{}
	for vmKey, entries := range raw {
		key := strings.TrimSpace(vmKey)
		if key == "" {
			return nil, fmt.Errorf("visibility: file %s defines an empty entity-type key", path)
		}
		if _, exists := table[key]; exists {
			return nil, fmt.Errorf("visibility: duplicate entity-type key %q (file %s)", key, path)
		}
		table[key] = entries
	}
	return table, nil
}

// LoadOverridesFS walks fsys and merges every JSON/YAML override file found.
// A visibleMandatoryKey appearing in two files is a configuration error. A nil
// fsys yields an empty table.
func LoadOverridesFS(fsys fs.FS) (OverrideTable, error) {
	table := OverrideTable{}
	if fsys == nil {
		return table, nil
	}

	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isOverrideFile(path) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("visibility: read %s: %w", path, err)
		}
		parsed, err := ParseOverrides(data, path)
		if err != nil {
			return err
		}
		for vmKey, entries := range parsed {
			if _, exists := table[vmKey]; exists {
				return fmt.Errorf("visibility: duplicate entity-type key %q (file %s)", vmKey, path)
			}
			table[vmKey] = entries
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return table, nil
}

func isOverrideFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
