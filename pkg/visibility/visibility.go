// Package visibility resolves the effective visible/mandatory state of every
// field in a schema tree against an outbreak's override table, then prunes
// sections and tabs left without anything to show. Resolution is a pure
// function of (tree, overrides, key): no hidden state, repeatable for the same
// outbreak without re-fetching overrides.
package visibility

import (
	"fmt"

	"github.com/outbreakkit/go-entityform/pkg/schema"
)

// OverrideTable is the per-outbreak configuration: visibleMandatoryKey
// ("cases", "contacts", ...) → field key → the configured pair. It is created
// by outbreak configuration and read-only here, loaded once per outbreak
// selection and immutable for the duration of a form session.
type OverrideTable map[string]map[string]schema.VisibleRequired

// Lookup returns the override entry for a field under the given
// visibleMandatoryKey, if one exists.
func (t OverrideTable) Lookup(visibleMandatoryKey, fieldKey string) (schema.VisibleRequired, bool) {
	entries, ok := t[visibleMandatoryKey]
	if !ok {
		return schema.VisibleRequired{}, false
	}
	vr, ok := entries[fieldKey]
	return vr, ok
}

// ResolvedTree pairs the pruned tree with the per-field effective states. The
// states map covers every keyed field of the input tree, including ones pruned
// from Tabs, so structurally parallel consumers (the advanced-filter
// generator) can gate on the same resolution.
type ResolvedTree struct {
	Tabs   []schema.Tab
	States map[string]schema.VisibleRequired
}

// Visible reports the effective visibility of a field key. Unknown keys are
// not visible.
func (r *ResolvedTree) Visible(fieldKey string) bool {
	vr, ok := r.States[fieldKey]
	return ok && vr.Visible
}

// Mandatory reports the effective requiredness of a field key.
func (r *ResolvedTree) Mandatory(fieldKey string) bool {
	vr, ok := r.States[fieldKey]
	return ok && vr.Required
}

type resolveConfig struct {
	env       map[string]any
	evaluator Evaluator
}

// Option customises a Resolve call.
type Option func(*resolveConfig)

// WithEnvironment supplies the entity environment tab-level rule predicates
// are evaluated against.
func WithEnvironment(env map[string]any) Option {
	return func(cfg *resolveConfig) { cfg.env = env }
}

// WithEvaluator swaps the rule evaluator. Defaults to the expr-backed one.
func WithEvaluator(evaluator Evaluator) Option {
	return func(cfg *resolveConfig) { cfg.evaluator = evaluator }
}

// Resolve computes effective {visible, mandatory} for every keyed field and
// returns the pruned tree. The input tree is not mutated.
//
// Fields without an explicit VisibleMandatory are always visible and never
// overridable. Fields with one fall back to their built-in default when the
// table has no entry under visibleMandatoryKey. A field with needs is visible
// only while every named dependency resolves visible; dependencies must be
// declared before dependents (declaration order, not runtime-checked).
//
// Schema authoring bugs (unknown kinds, unmodeled list item kinds) surface as
// a fatal *schema.ConfigError: rendering of the affected tree must halt rather
// than silently degrade.
func Resolve(tree []schema.Tab, overrides OverrideTable, visibleMandatoryKey string, opts ...Option) (*ResolvedTree, error) {
	if err := schema.ValidateTree(tree); err != nil {
		return nil, err
	}

	cfg := resolveConfig{evaluator: DefaultEvaluator()}
	for _, opt := range opts {
		opt(&cfg)
	}

	states := make(map[string]schema.VisibleRequired)
	schema.WalkFields(tree, func(_, _ string, field *schema.Field) {
		if field.Key == "" {
			return
		}
		states[field.Key] = resolveField(field, overrides, visibleMandatoryKey, states)
	})

	pruned := make([]schema.Tab, 0, len(tree))
	for _, tab := range tree {
		if tab.Rule != "" {
			ok, err := cfg.evaluator.Eval(tab.Rule, cfg.env)
			if err != nil {
				return nil, fmt.Errorf("visibility: tab %q rule: %w", tab.Name, err)
			}
			if !ok {
				continue
			}
		}

		sections := make([]schema.Section, 0, len(tab.Sections))
		for _, section := range tab.Sections {
			fields := make([]schema.Field, 0, len(section.Fields))
			for _, field := range section.Fields {
				if field.Key != "" && !states[field.Key].Visible {
					continue
				}
				fields = append(fields, field)
			}
			if len(fields) == 0 {
				continue
			}
			section.Fields = fields
			sections = append(sections, section)
		}
		if len(sections) == 0 {
			continue
		}
		tab.Sections = sections
		pruned = append(pruned, tab)
	}

	return &ResolvedTree{Tabs: pruned, States: states}, nil
}

func resolveField(field *schema.Field, overrides OverrideTable, visibleMandatoryKey string, states map[string]schema.VisibleRequired) schema.VisibleRequired {
	effective := schema.VisibleRequired{Visible: true}
	if field.VisibleMandatory != nil {
		effective = *field.VisibleMandatory
		if override, ok := overrides.Lookup(visibleMandatoryKey, field.Key); ok {
			effective = override
		}
	}

	// Static one-level dependency gate: all named fields must already have
	// resolved visible.
	for _, need := range field.Needs {
		dep, ok := states[need.Field]
		if !ok || !dep.Visible {
			effective.Visible = false
			break
		}
	}

	return effective
}
