package forms

import (
	"context"
	"time"

	"github.com/outbreakkit/go-entityform/pkg/questionnaire"
	"github.com/outbreakkit/go-entityform/pkg/schema"
)

// BuildCaseTree assembles the case form tree. entityID is the case being
// edited (empty on create); it excludes the case itself from duplicate and
// visual-ID clash lookups. tpl is the outbreak's case-investigation template,
// nil when the outbreak has none.
func BuildCaseTree(ctx context.Context, c *CaseData, entityID string, tpl *questionnaire.Template, opts ...Option) ([]schema.Tab, error) {
	cfg := newConfig(opts)

	genders, err := cfg.options(ctx, "gender")
	if err != nil {
		return nil, err
	}
	pregnancyStatuses, err := cfg.options(ctx, "pregnancyStatus")
	if err != nil {
		return nil, err
	}
	occupations, err := cfg.options(ctx, "occupation")
	if err != nil {
		return nil, err
	}
	classifications, err := cfg.options(ctx, "caseClassification")
	if err != nil {
		return nil, err
	}
	outcomes, err := cfg.options(ctx, "outcome")
	if err != nil {
		return nil, err
	}
	risks, err := cfg.options(ctx, "riskLevel")
	if err != nil {
		return nil, err
	}

	tabs := []schema.Tab{
		{
			Name:  "personal",
			Label: "Personal",
			Sections: []schema.Section{
				{
					Label: "Name & identifiers",
					Fields: []schema.Field{
						{
							Key:              "firstName",
							Kind:             schema.KindText,
							Label:            "First name",
							VisibleMandatory: &schema.VisibleRequired{Visible: true, Required: true},
							ReadOnly:         cfg.readOnly(),
							Sortable:         true,
							Value: cfg.nameAccessor(&c.PersonData,
								func() string { return c.FirstName },
								func(v string) { c.FirstName = v }, entityID),
						},
						{
							Key:              "middleName",
							Kind:             schema.KindText,
							Label:            "Middle name",
							VisibleMandatory: &schema.VisibleRequired{Visible: true},
							ReadOnly:         cfg.readOnly(),
							Sortable:         true,
							Value: cfg.nameAccessor(&c.PersonData,
								func() string { return c.MiddleName },
								func(v string) { c.MiddleName = v }, entityID),
						},
						{
							Key:              "lastName",
							Kind:             schema.KindText,
							Label:            "Last name",
							VisibleMandatory: &schema.VisibleRequired{Visible: true},
							ReadOnly:         cfg.readOnly(),
							Sortable:         true,
							Value: cfg.nameAccessor(&c.PersonData,
								func() string { return c.LastName },
								func(v string) { c.LastName = v }, entityID),
						},
						cfg.visualIDField(
							func() string { return c.VisualID },
							func(v string) { c.VisualID = v }, entityID),
						{
							Key:   "documents",
							Kind:  schema.KindList,
							Label: "Documents",
							Items: &schema.Field{Kind: schema.KindDocument, Label: "Document"},
						},
					},
				},
				{
					Label: "Demographics",
					Fields: []schema.Field{
						{
							Key:              "gender",
							Kind:             schema.KindSingleSelect,
							Label:            "Gender",
							Category:         "gender",
							Options:          genders,
							VisibleMandatory: &schema.VisibleRequired{Visible: true},
							ReadOnly:         cfg.readOnly(),
							Sortable:         true,
							Value: cfg.bind(
								func() any { return c.Gender },
								func(v any) error {
									gender, err := stringValue(v)
									if err != nil {
										return err
									}
									c.SetGender(gender)
									return nil
								}),
						},
						{
							Key:              "pregnancyStatus",
							Kind:             schema.KindSingleSelect,
							Label:            "Pregnancy status",
							Category:         "pregnancyStatus",
							Options:          pregnancyStatuses,
							DependsOn:        []string{"gender"},
							Needs:            []schema.Need{{Field: "gender"}},
							VisibleMandatory: &schema.VisibleRequired{Visible: true},
							ReadOnly:         cfg.readOnly(),
							Value: cfg.bind(
								func() any { return c.PregnancyStatus },
								func(v any) error {
									status, err := stringPtrValue(v)
									if err != nil {
										return err
									}
									c.PregnancyStatus = status
									return nil
								}),
						},
						{
							Key:              "ageDob",
							Kind:             schema.KindAgeDOB,
							Label:            "Age / Date of birth",
							VisibleMandatory: &schema.VisibleRequired{Visible: true},
							ReadOnly:         cfg.readOnly(),
							Value:            cfg.ageDOBAccessor(&c.PersonData),
						},
						{
							Key:              "occupation",
							Kind:             schema.KindSingleSelect,
							Label:            "Occupation",
							Category:         "occupation",
							Options:          occupations,
							VisibleMandatory: &schema.VisibleRequired{Visible: true},
							ReadOnly:         cfg.readOnly(),
							Sortable:         true,
							Value: cfg.bind(
								func() any { return c.Occupation },
								func(v any) error {
									occupation, err := stringValue(v)
									if err != nil {
										return err
									}
									c.Occupation = occupation
									return nil
								}),
						},
					},
				},
				{
					Label: "Addresses",
					Fields: []schema.Field{
						{
							Key:   "addresses",
							Kind:  schema.KindList,
							Label: "Addresses",
							Items: &schema.Field{Kind: schema.KindAddress, Label: "Address"},
						},
					},
				},
			},
		},
		{
			Name:  "epidemiology",
			Label: "Epidemiology",
			Sections: []schema.Section{
				{
					Label: "Classification & dates",
					Fields: []schema.Field{
						{
							Key:              "classification",
							Kind:             schema.KindSingleSelect,
							Label:            "Case classification",
							Category:         "caseClassification",
							Options:          classifications,
							VisibleMandatory: &schema.VisibleRequired{Visible: true, Required: true},
							ReadOnly:         cfg.readOnly(),
							Sortable:         true,
							Value: cfg.bind(
								func() any { return c.Classification },
								func(v any) error {
									classification, err := stringValue(v)
									if err != nil {
										return err
									}
									c.Classification = classification
									return nil
								}),
						},
						dateField("dateOfOnset", "Date of onset", cfg, &c.DateOfOnset, true),
						dateField("dateOfReport", "Date of reporting", cfg, &c.DateOfReport, true),
						dateField("dateBecomeCase", "Date became case", cfg, &c.DateBecomeCase, false),
						{
							Key:              "transferRefused",
							Kind:             schema.KindToggle,
							Label:            "Refused transfer to treatment unit",
							VisibleMandatory: &schema.VisibleRequired{Visible: true},
							ReadOnly:         cfg.readOnly(),
							Value: cfg.bind(
								func() any { return c.TransferRefused },
								func(v any) error {
									transferred, err := boolValue(v)
									if err != nil {
										return err
									}
									c.TransferRefused = transferred
									return nil
								}),
						},
						{
							Key:              "riskLevel",
							Kind:             schema.KindSingleSelect,
							Label:            "Risk level",
							Category:         "riskLevel",
							Options:          risks,
							VisibleMandatory: &schema.VisibleRequired{Visible: true},
							ReadOnly:         cfg.readOnly(),
							Sortable:         true,
							Value: cfg.bind(
								func() any { return c.RiskLevel },
								func(v any) error {
									risk, err := stringValue(v)
									if err != nil {
										return err
									}
									c.RiskLevel = risk
									return nil
								}),
						},
					},
				},
				{
					Label: "Outcome",
					Fields: []schema.Field{
						{
							Key:              "outcomeId",
							Kind:             schema.KindSingleSelect,
							Label:            "Outcome",
							Category:         "outcome",
							Options:          outcomes,
							VisibleMandatory: &schema.VisibleRequired{Visible: true},
							ReadOnly:         cfg.readOnly(),
							Sortable:         true,
							Value: cfg.bind(
								func() any { return c.OutcomeID },
								func(v any) error {
									outcome, err := stringValue(v)
									if err != nil {
										return err
									}
									c.SetOutcome(outcome)
									return nil
								}),
						},
						dateField("dateOfOutcome", "Date of outcome", cfg, &c.DateOfOutcome, false),
						burialDateField(cfg, c),
						{
							Key:              "burialLocationId",
							Kind:             schema.KindSingleSelect,
							Label:            "Burial location",
							DependsOn:        []string{"outcomeId"},
							VisibleMandatory: &schema.VisibleRequired{Visible: true},
							ReadOnly:         cfg.readOnly(),
							Value: cfg.bind(
								func() any { return c.BurialLocationID },
								func(v any) error {
									location, err := stringPtrValue(v)
									if err != nil {
										return err
									}
									c.BurialLocationID = location
									return nil
								}),
						},
						{
							Key:              "burialPlaceName",
							Kind:             schema.KindText,
							Label:            "Burial place name",
							DependsOn:        []string{"outcomeId"},
							VisibleMandatory: &schema.VisibleRequired{Visible: true},
							ReadOnly:         cfg.readOnly(),
							Value: cfg.bind(
								func() any { return c.BurialPlaceName },
								func(v any) error {
									place, err := stringPtrValue(v)
									if err != nil {
										return err
									}
									c.BurialPlaceName = place
									return nil
								}),
						},
						{
							Key:              "safeBurial",
							Kind:             schema.KindToggle,
							Label:            "Safe burial",
							DependsOn:        []string{"outcomeId"},
							VisibleMandatory: &schema.VisibleRequired{Visible: true},
							ReadOnly:         cfg.readOnly(),
							Value: cfg.bind(
								func() any { return c.SafeBurial },
								func(v any) error {
									safe, err := boolPtrValue(v)
									if err != nil {
										return err
									}
									c.SafeBurial = safe
									return nil
								}),
						},
					},
				},
			},
		},
	}

	if tab, ok := cfg.questionnaireTab("questionnaire", "Case investigation", tpl, &c.QuestionnaireRecord); ok {
		tabs = append(tabs, tab)
	}

	return cfg.validateAndLog("case", tabs)
}

// burialDateField keeps the burial date declaration next to its dependants.
func burialDateField(cfg Config, c *CaseData) schema.Field {
	field := dateField("dateOfBurial", "Date of burial", cfg, &c.DateOfBurial, false)
	field.DependsOn = []string{"outcomeId"}
	return field
}

// dateField builds a plain date input bound to a *time.Time.
func dateField(key, label string, cfg Config, target **time.Time, sortable bool) schema.Field {
	return schema.Field{
		Key:              key,
		Kind:             schema.KindDate,
		Label:            label,
		VisibleMandatory: &schema.VisibleRequired{Visible: true},
		ReadOnly:         cfg.readOnly(),
		Sortable:         sortable,
		Value: cfg.bind(
			func() any { return *target },
			func(v any) error {
				parsed, err := timePtrValue(v)
				if err != nil {
					return err
				}
				*target = parsed
				return nil
			}),
	}
}
