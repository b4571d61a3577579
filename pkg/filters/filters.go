// Package filters derives the advanced-filter descriptors a list view
// exposes for an entity type. It is the structural twin of the form tree
// builders: the same tab tree and the same visibility resolution decide
// what is filterable, so a field hidden from data entry is hidden from
// filtering too.
package filters

import (
	"github.com/outbreakkit/go-entityform/pkg/access"
	"github.com/outbreakkit/go-entityform/pkg/refdata"
	"github.com/outbreakkit/go-entityform/pkg/schema"
	"github.com/outbreakkit/go-entityform/pkg/visibility"
)

// Descriptor is one exposed filter. RelationshipLabel and ExtraConditions
// are set only on relationship-scoped descriptors; ExtraConditions must be
// applied by the query backend, never dropped client-side.
type Descriptor struct {
	FieldKey          string           `json:"fieldKey"`
	Kind              schema.FieldKind `json:"kind"`
	Label             string           `json:"label,omitempty"`
	Options           []refdata.Option `json:"options,omitempty"`
	Sortable          bool             `json:"sortable,omitempty"`
	RelationshipLabel string           `json:"relationshipLabel,omitempty"`
	ExtraConditions   map[string]any   `json:"extraConditions,omitempty"`
}

// Capability names the permission a candidate needs on top of visibility.
type Capability struct {
	Action  string
	Subject string
}

// Candidate is a Descriptor plus its optional permission gate. Candidates
// with a nil Capability are gated by visibility alone.
type Candidate struct {
	Descriptor
	Capability *Capability
}

// FromTree flattens a form tree into filter candidates, keeping field
// declaration order. List item sub-fields are not filterable and are
// skipped; neither are pure display fields.
func FromTree(tabs []schema.Tab) []Candidate {
	var candidates []Candidate
	for _, tab := range tabs {
		for _, section := range tab.Sections {
			for _, field := range section.Fields {
				if field.Kind == schema.KindLabel {
					continue
				}
				candidates = append(candidates, Candidate{Descriptor: Descriptor{
					FieldKey: field.Key,
					Kind:     field.Kind,
					Label:    field.Label,
					Options:  field.Options,
					Sortable: field.Sortable,
				}})
			}
		}
	}
	return candidates
}

// Generate resolves visibility for the given tab tree and emits the ordered
// descriptor list: tree-derived candidates first, then extras. Two gates
// apply in order. The visibility gate runs first, driven by the same
// override table key the form uses, so the two surfaces cannot disagree.
// The capability gate runs second and only ever narrows further; it never
// resurrects a field the resolver hid.
func Generate(tabs []schema.Tab, extras []Candidate, overrides visibility.OverrideTable, visibleMandatoryKey string, caller access.Checker, opts ...visibility.Option) ([]Descriptor, error) {
	resolved, err := visibility.Resolve(tabs, overrides, visibleMandatoryKey, opts...)
	if err != nil {
		return nil, err
	}
	if caller == nil {
		caller = access.AllowAll()
	}

	descriptors := make([]Descriptor, 0, len(resolved.States)+len(extras))
	for _, candidate := range FromTree(tabs) {
		if !resolved.Visible(candidate.FieldKey) {
			continue
		}
		if !permitted(caller, candidate.Capability) {
			continue
		}
		descriptors = append(descriptors, candidate.Descriptor)
	}

	// Extras live outside the form tree, so the resolver never saw them;
	// the override table still suppresses them directly.
	for _, candidate := range extras {
		if vr, ok := overrides.Lookup(visibleMandatoryKey, candidate.FieldKey); ok && !vr.Visible {
			continue
		}
		if !permitted(caller, candidate.Capability) {
			continue
		}
		descriptors = append(descriptors, candidate.Descriptor)
	}
	return descriptors, nil
}

func permitted(caller access.Checker, capability *Capability) bool {
	if capability == nil {
		return true
	}
	return caller.Can(capability.Action, capability.Subject)
}
