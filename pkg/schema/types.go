package schema

import (
	"context"

	"github.com/outbreakkit/go-entityform/pkg/refdata"
)

// FieldKind tags the input widget a field resolves to.
type FieldKind string

const (
	KindText         FieldKind = "text"
	KindTextarea     FieldKind = "textarea"
	KindSingleSelect FieldKind = "single-select"
	KindMultiSelect  FieldKind = "multi-select"
	KindDate         FieldKind = "date"
	KindToggle       FieldKind = "toggle"
	KindAgeDOB       FieldKind = "age-dob"
	KindAddress      FieldKind = "address"
	KindDocument     FieldKind = "document"
	KindVaccine      FieldKind = "vaccine"
	KindDateRange    FieldKind = "date-range"
	KindList         FieldKind = "list"
	KindLabel        FieldKind = "label"
)

// knownKinds is the closed set ValidateTree accepts. Anything outside it is a
// schema authoring bug and fails tree validation.
var knownKinds = map[FieldKind]struct{}{
	KindText:         {},
	KindTextarea:     {},
	KindSingleSelect: {},
	KindMultiSelect:  {},
	KindDate:         {},
	KindToggle:       {},
	KindAgeDOB:       {},
	KindAddress:      {},
	KindDocument:     {},
	KindVaccine:      {},
	KindDateRange:    {},
	KindList:         {},
	KindLabel:        {},
}

// listItemKinds are the sub-kinds a KindList field may repeat.
var listItemKinds = map[FieldKind]struct{}{
	KindAddress:   {},
	KindDocument:  {},
	KindVaccine:   {},
	KindDateRange: {},
}

// VisibleRequired is the pair the resolver computes per field.
type VisibleRequired struct {
	Visible  bool `json:"visible" yaml:"visible"`
	Required bool `json:"required" yaml:"required"`
}

// Need names another field this field's visibility hangs on. The dependency is
// static: it is evaluated once at resolve time, in declaration order, not
// re-evaluated as values change.
type Need struct {
	Field string `json:"field" yaml:"field"`
}

// Field is one leaf of the schema tree. Key must be unique across the whole
// flattened tree; it may encode a nested path such as "sequence[hasSequence]".
//
// VisibleMandatory carries the field's built-in default and marks it as
// participating in outbreak override resolution. A nil VisibleMandatory means
// the field is always visible and never individually overridable.
type Field struct {
	Key              string
	Kind             FieldKind
	Label            string
	Description      string
	Category         string           // reference-data category for select kinds
	Options          []refdata.Option // resolved option list, select kinds only
	DependsOn        []string         // keys this field's validators or disabled state read
	Needs            []Need
	VisibleMandatory *VisibleRequired
	Items            *Field // KindList only: the repeated sub-field
	ReadOnly         bool
	Sortable         bool // surfaced by the advanced-filter generator
	Value            Accessor
	Validate         ValidatorFunc // optional, may suspend (network-backed checks)
	Relationship     string        // non-empty for fields reached through a related entity
}

// ValidatorFunc runs a field-level validation against the field's current
// bound value. Network-backed validators (visual-ID uniqueness) honour ctx
// cancellation.
type ValidatorFunc func(ctx context.Context) error

// Section groups an ordered run of fields under a label. A section has no
// visibility of its own: it is dropped when every child resolves invisible.
type Section struct {
	Label  string
	Fields []Field
}

// Tab is the top nesting level. Rule, when non-empty, is a predicate expression
// evaluated against the entity environment; a false result drops the whole tab
// (entity subtype not applicable). A tab is also dropped when pruning leaves it
// without visible sections.
type Tab struct {
	Name     string
	Label    string
	Rule     string
	Sections []Section
}

// WalkFields visits every field in the tree in declaration order, including
// list item sub-fields. The visitor receives the owning tab and section names.
func WalkFields(tabs []Tab, visit func(tab, section string, field *Field)) {
	for t := range tabs {
		for s := range tabs[t].Sections {
			sec := &tabs[t].Sections[s]
			for f := range sec.Fields {
				field := &sec.Fields[f]
				visit(tabs[t].Name, sec.Label, field)
				if field.Items != nil {
					visit(tabs[t].Name, sec.Label, field.Items)
				}
			}
		}
	}
}
