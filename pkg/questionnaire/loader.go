package questionnaire

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ParseTemplate decodes a single template document from YAML or JSON.
func ParseTemplate(data []byte, path string) (*Template, error) {
	var tpl Template
	if strings.HasSuffix(strings.ToLower(path), ".json") {
		if err := json.Unmarshal(data, &tpl); err != nil {
			return nil, fmt.Errorf("questionnaire: parse %s: %w", path, err)
		}
	} else {
		if err := yaml.Unmarshal(data, &tpl); err != nil {
			return nil, fmt.Errorf("questionnaire: parse %s: %w", path, err)
		}
	}
	if err := validate(&tpl, path); err != nil {
		return nil, err
	}
	return &tpl, nil
}

// LoadFS walks fsys and parses every JSON/YAML template file, keyed by the
// template's Name or, when empty, the file's base name without extension.
func LoadFS(fsys fs.FS) (map[string]*Template, error) {
	templates := make(map[string]*Template)
	if fsys == nil {
		return templates, nil
	}

	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isTemplateFile(path) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("questionnaire: read %s: %w", path, err)
		}
		tpl, err := ParseTemplate(data, path)
		if err != nil {
			return err
		}

		name := strings.TrimSpace(tpl.Name)
		if name == "" {
			base := filepath.Base(path)
			name = strings.TrimSuffix(base, filepath.Ext(base))
		}
		if _, exists := templates[name]; exists {
			return fmt.Errorf("questionnaire: duplicate template %q (file %s)", name, path)
		}
		templates[name] = tpl
		return nil
	})
	if err != nil {
		return nil, err
	}

	return templates, nil
}

func validate(tpl *Template, path string) error {
	seen := make(map[string]struct{})
	var walk func(questions []Question) error
	walk = func(questions []Question) error {
		for _, q := range questions {
			variable := strings.TrimSpace(q.Variable)
			if variable == "" {
				return fmt.Errorf("questionnaire: file %s has a question without a variable", path)
			}
			if _, dup := seen[variable]; dup {
				return fmt.Errorf("questionnaire: file %s declares variable %q twice", path, variable)
			}
			seen[variable] = struct{}{}
			for _, answer := range q.Answers {
				if err := walk(answer.AdditionalQuestions); err != nil {
					return err
				}
			}
		}
		return nil
	}
	return walk(tpl.Questions)
}

func isTemplateFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
