package schema

import "fmt"

// ConfigError reports a schema authoring bug: an unknown field kind, an
// unmodeled list item kind, a duplicate key. These are fatal at tree-build
// time and must not be swallowed, since they indicate the schema and the
// consuming surface have drifted apart.
type ConfigError struct {
	Path   string
	Detail string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("schema: %s: %s", e.Path, e.Detail)
}

// ValidateTree checks the closed kind set, list item kinds, and flattened key
// uniqueness. Tree builders call it before handing a tree to the resolver.
func ValidateTree(tabs []Tab) error {
	seen := make(map[string]string)
	var fail *ConfigError

	WalkFields(tabs, func(tab, section string, field *Field) {
		if fail != nil {
			return
		}
		path := tab + "/" + section + "/" + field.Key
		if _, ok := knownKinds[field.Kind]; !ok {
			fail = &ConfigError{Path: path, Detail: fmt.Sprintf("unknown field kind %q", field.Kind)}
			return
		}
		if field.Kind == KindList {
			if field.Items == nil {
				fail = &ConfigError{Path: path, Detail: "list field has no item definition"}
				return
			}
			if _, ok := listItemKinds[field.Items.Kind]; !ok {
				fail = &ConfigError{Path: path, Detail: fmt.Sprintf("unmodeled list item kind %q", field.Items.Kind)}
				return
			}
		}
		// Item sub-fields share the parent's key namespace only when keyed.
		if field.Key == "" {
			return
		}
		if prior, dup := seen[field.Key]; dup {
			fail = &ConfigError{Path: path, Detail: fmt.Sprintf("duplicate key (already declared at %s)", prior)}
			return
		}
		seen[field.Key] = path
	})

	if fail != nil {
		return fail
	}
	return nil
}
