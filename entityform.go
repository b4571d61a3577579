// Package entityform assembles declarative entity forms for outbreak
// investigation records: tab trees with bound accessors, per-outbreak
// visibility and mandatoriness resolution, advanced filter derivation,
// duplicate-person detection and questionnaire alert evaluation.
package entityform

import (
	"context"

	"github.com/outbreakkit/go-entityform/pkg/access"
	"github.com/outbreakkit/go-entityform/pkg/alerts"
	"github.com/outbreakkit/go-entityform/pkg/duplicates"
	"github.com/outbreakkit/go-entityform/pkg/filters"
	"github.com/outbreakkit/go-entityform/pkg/forms"
	"github.com/outbreakkit/go-entityform/pkg/questionnaire"
	"github.com/outbreakkit/go-entityform/pkg/schema"
	"github.com/outbreakkit/go-entityform/pkg/visibility"
)

// Field is one leaf of a form tree; alias exported via the root package for
// convenience.
type Field = schema.Field

// Tab groups sections of fields under one named surface.
type Tab = schema.Tab

// Section is a labelled run of fields inside a tab.
type Section = schema.Section

// VisibleRequired is the effective visibility/requiredness pair of a field.
type VisibleRequired = schema.VisibleRequired

// OverrideTable carries the per-outbreak field overrides, keyed by the
// entity surface they apply to.
type OverrideTable = visibility.OverrideTable

// ResolvedTree is the pruned tree plus the per-field effective states.
type ResolvedTree = visibility.ResolvedTree

// FilterDescriptor is one advanced filter exposed to a list view.
type FilterDescriptor = filters.Descriptor

// Template is a questionnaire template with nested follow-up questions.
type Template = questionnaire.Template

// CaseData is the mutable record a case form tree binds to.
type CaseData = forms.CaseData

// ContactData is the mutable record a contact form tree binds to.
type ContactData = forms.ContactData

// ContactOfContactData is the mutable record a contact-of-contact form
// tree binds to.
type ContactOfContactData = forms.ContactOfContactData

// LabResultData is the mutable record a lab result form tree binds to.
type LabResultData = forms.LabResultData

// BuildCaseForm builds the case tab tree with accessors bound to data.
func BuildCaseForm(ctx context.Context, data *forms.CaseData, entityID string, tpl *questionnaire.Template, opts ...forms.Option) ([]schema.Tab, error) {
	return forms.BuildCaseTree(ctx, data, entityID, tpl, opts...)
}

// BuildContactForm builds the contact tab tree with accessors bound to data.
func BuildContactForm(ctx context.Context, data *forms.ContactData, entityID string, tpl *questionnaire.Template, opts ...forms.Option) ([]schema.Tab, error) {
	return forms.BuildContactTree(ctx, data, entityID, tpl, opts...)
}

// BuildContactOfContactForm builds the contact-of-contact tab tree with
// accessors bound to data.
func BuildContactOfContactForm(ctx context.Context, data *forms.ContactOfContactData, entityID string, opts ...forms.Option) ([]schema.Tab, error) {
	return forms.BuildContactOfContactTree(ctx, data, entityID, opts...)
}

// BuildLabResultForm builds the lab result tab tree with accessors bound
// to data.
func BuildLabResultForm(ctx context.Context, data *forms.LabResultData, entityID string, tpl *questionnaire.Template, opts ...forms.Option) ([]schema.Tab, error) {
	return forms.BuildLabResultTree(ctx, data, entityID, tpl, opts...)
}

// ResolveVisibility applies the outbreak override table and dependency gates
// to a tab tree, returning the pruned tree and effective field states.
func ResolveVisibility(tree []schema.Tab, overrides visibility.OverrideTable, visibleMandatoryKey string, opts ...visibility.Option) (*visibility.ResolvedTree, error) {
	return visibility.Resolve(tree, overrides, visibleMandatoryKey, opts...)
}

// GenerateFilters derives the ordered advanced-filter descriptors for one
// entity surface, applying visibility first and capability gates second.
func GenerateFilters(tree []schema.Tab, extras []filters.Candidate, overrides visibility.OverrideTable, visibleMandatoryKey string, caller access.Checker, opts ...visibility.Option) ([]filters.Descriptor, error) {
	return filters.Generate(tree, extras, overrides, visibleMandatoryKey, caller, opts...)
}

// GenerateIDMask expands a visual-ID mask for the current year.
func GenerateIDMask(mask string) string {
	return forms.GenerateIDMask(mask)
}

// DetermineAlertness re-evaluates the alerted flag of every entity from the
// newest questionnaire answers only.
func DetermineAlertness[E alerts.Entity](tpl *questionnaire.Template, entities []E) []E {
	return alerts.DetermineAlertness(tpl, entities)
}

// NewDuplicateDetector wires the debounced duplicate-person detector over
// the given contact-space and case-space lookups.
func NewDuplicateDetector(contacts, cases duplicates.Lookup, opts ...duplicates.DetectorOption) *duplicates.Detector {
	return duplicates.NewDetector(contacts, cases, opts...)
}
