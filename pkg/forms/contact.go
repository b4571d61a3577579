package forms

import (
	"context"

	"github.com/outbreakkit/go-entityform/pkg/questionnaire"
	"github.com/outbreakkit/go-entityform/pkg/schema"
)

// BuildContactTree assembles the contact form tree. tpl is the outbreak's
// follow-up template, nil when the outbreak has none.
func BuildContactTree(ctx context.Context, contact *ContactData, entityID string, tpl *questionnaire.Template, opts ...Option) ([]schema.Tab, error) {
	cfg := newConfig(opts)

	personal, err := cfg.personalTab(ctx, &contact.PersonData, entityID)
	if err != nil {
		return nil, err
	}
	statuses, err := cfg.options(ctx, "followUpStatus")
	if err != nil {
		return nil, err
	}
	teams, err := cfg.options(ctx, "team")
	if err != nil {
		return nil, err
	}

	tabs := []schema.Tab{
		personal,
		{
			Name:  "epidemiology",
			Label: "Epidemiology",
			Sections: []schema.Section{
				{
					Label: "Tracking",
					Fields: []schema.Field{
						dateField("dateOfReport", "Date of reporting", cfg, &contact.DateOfReport, true),
						dateField("dateOfLastContact", "Date of last contact", cfg, &contact.DateOfLastContact, true),
						{
							Key:              "followUpStatus",
							Kind:             schema.KindSingleSelect,
							Label:            "Follow-up final status",
							Category:         "followUpStatus",
							Options:          statuses,
							VisibleMandatory: &schema.VisibleRequired{Visible: true},
							ReadOnly:         cfg.readOnly(),
							Sortable:         true,
							Value: cfg.bind(
								func() any { return contact.FollowUpStatus },
								func(v any) error {
									status, err := stringValue(v)
									if err != nil {
										return err
									}
									contact.FollowUpStatus = status
									return nil
								}),
						},
						{
							Key:              "followUpTeamId",
							Kind:             schema.KindSingleSelect,
							Label:            "Follow-up team",
							Category:         "team",
							Options:          teams,
							VisibleMandatory: &schema.VisibleRequired{Visible: true},
							ReadOnly:         cfg.readOnly(),
							Value: cfg.bind(
								func() any { return contact.FollowUpTeamID },
								func(v any) error {
									team, err := stringPtrValue(v)
									if err != nil {
										return err
									}
									contact.FollowUpTeamID = team
									return nil
								}),
						},
					},
				},
			},
		},
	}

	if tab, ok := cfg.questionnaireTab("questionnaire", "Follow-up", tpl, &contact.QuestionnaireRecord); ok {
		tabs = append(tabs, tab)
	}

	return cfg.validateAndLog("contact", tabs)
}

// BuildContactOfContactTree assembles the contact-of-contact form tree. The
// type has no questionnaire of its own.
func BuildContactOfContactTree(ctx context.Context, coc *ContactOfContactData, entityID string, opts ...Option) ([]schema.Tab, error) {
	cfg := newConfig(opts)

	personal, err := cfg.personalTab(ctx, &coc.PersonData, entityID)
	if err != nil {
		return nil, err
	}

	tabs := []schema.Tab{
		personal,
		{
			Name:  "epidemiology",
			Label: "Epidemiology",
			Sections: []schema.Section{
				{
					Label: "Tracking",
					Fields: []schema.Field{
						dateField("dateOfReport", "Date of reporting", cfg, &coc.DateOfReport, true),
						dateField("dateOfLastContact", "Date of last contact", cfg, &coc.DateOfLastContact, true),
					},
				},
			},
		},
	}

	return cfg.validateAndLog("contactOfContact", tabs)
}
