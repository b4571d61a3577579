package forms

import (
	"context"

	"github.com/outbreakkit/go-entityform/pkg/schema"
)

// personalTab is the person-shaped first tab shared by the contact and
// contact-of-contact builders. The case builder declares its richer variant
// inline.
func (cfg *Config) personalTab(ctx context.Context, person *PersonData, entityID string) (schema.Tab, error) {
	genders, err := cfg.options(ctx, "gender")
	if err != nil {
		return schema.Tab{}, err
	}
	pregnancyStatuses, err := cfg.options(ctx, "pregnancyStatus")
	if err != nil {
		return schema.Tab{}, err
	}
	occupations, err := cfg.options(ctx, "occupation")
	if err != nil {
		return schema.Tab{}, err
	}
	risks, err := cfg.options(ctx, "riskLevel")
	if err != nil {
		return schema.Tab{}, err
	}

	return schema.Tab{
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
						Value: cfg.nameAccessor(person,
							func() string { return person.FirstName },
							func(v string) { person.FirstName = v }, entityID),
					},
					{
						Key:              "middleName",
						Kind:             schema.KindText,
						Label:            "Middle name",
						VisibleMandatory: &schema.VisibleRequired{Visible: true},
						ReadOnly:         cfg.readOnly(),
						Value: cfg.nameAccessor(person,
							func() string { return person.MiddleName },
							func(v string) { person.MiddleName = v }, entityID),
					},
					{
						Key:              "lastName",
						Kind:             schema.KindText,
						Label:            "Last name",
						VisibleMandatory: &schema.VisibleRequired{Visible: true},
						ReadOnly:         cfg.readOnly(),
						Sortable:         true,
						Value: cfg.nameAccessor(person,
							func() string { return person.LastName },
							func(v string) { person.LastName = v }, entityID),
					},
					cfg.visualIDField(
						func() string { return person.VisualID },
						func(v string) { person.VisualID = v }, entityID),
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
							func() any { return person.Gender },
							func(v any) error {
								gender, err := stringValue(v)
								if err != nil {
									return err
								}
								person.SetGender(gender)
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
							func() any { return person.PregnancyStatus },
							func(v any) error {
								status, err := stringPtrValue(v)
								if err != nil {
									return err
								}
								person.PregnancyStatus = status
								return nil
							}),
					},
					{
						Key:              "ageDob",
						Kind:             schema.KindAgeDOB,
						Label:            "Age / Date of birth",
						VisibleMandatory: &schema.VisibleRequired{Visible: true},
						ReadOnly:         cfg.readOnly(),
						Value:            cfg.ageDOBAccessor(person),
					},
					{
						Key:              "occupation",
						Kind:             schema.KindSingleSelect,
						Label:            "Occupation",
						Category:         "occupation",
						Options:          occupations,
						VisibleMandatory: &schema.VisibleRequired{Visible: true},
						ReadOnly:         cfg.readOnly(),
						Value: cfg.bind(
							func() any { return person.Occupation },
							func(v any) error {
								occupation, err := stringValue(v)
								if err != nil {
									return err
								}
								person.Occupation = occupation
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
							func() any { return person.RiskLevel },
							func(v any) error {
								risk, err := stringValue(v)
								if err != nil {
									return err
								}
								person.RiskLevel = risk
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
	}, nil
}
