package forms

import (
	"context"

	"github.com/outbreakkit/go-entityform/pkg/questionnaire"
	"github.com/outbreakkit/go-entityform/pkg/refdata"
	"github.com/outbreakkit/go-entityform/pkg/schema"
)

// BuildLabResultTree assembles the lab-result form tree. tpl is the
// outbreak's lab questionnaire, nil when the outbreak has none.
func BuildLabResultTree(ctx context.Context, lab *LabResultData, entityID string, tpl *questionnaire.Template, opts ...Option) ([]schema.Tab, error) {
	cfg := newConfig(opts)

	sampleTypes, err := cfg.options(ctx, "sampleType")
	if err != nil {
		return nil, err
	}
	testTypes, err := cfg.options(ctx, "testType")
	if err != nil {
		return nil, err
	}
	results, err := cfg.options(ctx, "labResult")
	if err != nil {
		return nil, err
	}
	statuses, err := cfg.options(ctx, "labResultStatus")
	if err != nil {
		return nil, err
	}
	labs, err := cfg.options(ctx, "labName")
	if err != nil {
		return nil, err
	}

	tabs := []schema.Tab{
		{
			Name:  "sample",
			Label: "Sample",
			Sections: []schema.Section{
				{
					Label: "Identifiers",
					Fields: []schema.Field{
						{
							Key:              "sampleLabNumber",
							Kind:             schema.KindText,
							Label:            "Sample lab number",
							VisibleMandatory: &schema.VisibleRequired{Visible: true, Required: true},
							ReadOnly:         cfg.readOnly(),
							Sortable:         true,
							Value: cfg.bind(
								func() any { return lab.SampleLabNumber },
								func(v any) error {
									number, err := stringValue(v)
									if err != nil {
										return err
									}
									lab.SampleLabNumber = number
									return nil
								}),
						},
						cfg.visualIDField(
							func() string { return lab.VisualID },
							func(v string) { lab.VisualID = v }, entityID),
					},
				},
				{
					Label: "Dates",
					Fields: []schema.Field{
						dateField("dateSampleTaken", "Date sample taken", cfg, &lab.DateSampleTaken, true),
						dateField("dateSampleDelivered", "Date sample delivered", cfg, &lab.DateSampleDelivered, false),
						dateField("dateTesting", "Date of testing", cfg, &lab.DateTesting, false),
						dateField("dateOfResult", "Date of result", cfg, &lab.DateOfResult, true),
					},
				},
			},
		},
		{
			Name:  "result",
			Label: "Result",
			Sections: []schema.Section{
				{
					Label: "Testing",
					Fields: []schema.Field{
						selectField("sampleType", "Sample type", "sampleType", sampleTypes, cfg,
							func() any { return lab.SampleType },
							func(v string) { lab.SampleType = v }),
						selectField("testType", "Test type", "testType", testTypes, cfg,
							func() any { return lab.TestType },
							func(v string) { lab.TestType = v }),
						selectField("result", "Result", "labResult", results, cfg,
							func() any { return lab.Result },
							func(v string) { lab.Result = v }),
						selectField("status", "Status", "labResultStatus", statuses, cfg,
							func() any { return lab.Status },
							func(v string) { lab.Status = v }),
						{
							Key:              "quantitativeResult",
							Kind:             schema.KindText,
							Label:            "Quantitative result",
							DependsOn:        []string{"result"},
							VisibleMandatory: &schema.VisibleRequired{Visible: true},
							ReadOnly:         cfg.readOnly(),
							Value: cfg.bind(
								func() any { return lab.QuantitativeResult },
								func(v any) error {
									quantitative, err := stringPtrValue(v)
									if err != nil {
										return err
									}
									lab.QuantitativeResult = quantitative
									return nil
								}),
						},
						{
							Key:              "notes",
							Kind:             schema.KindTextarea,
							Label:            "Notes",
							VisibleMandatory: &schema.VisibleRequired{Visible: true},
							ReadOnly:         cfg.readOnly(),
							Value: cfg.bind(
								func() any { return lab.Notes },
								func(v any) error {
									notes, err := stringValue(v)
									if err != nil {
										return err
									}
									lab.Notes = notes
									return nil
								}),
						},
					},
				},
				{
					Label: "Sequencing",
					Fields: []schema.Field{
						{
							Key:              "hasSequence",
							Kind:             schema.KindToggle,
							Label:            "Has variant / strain sequence",
							VisibleMandatory: &schema.VisibleRequired{Visible: true},
							ReadOnly:         cfg.readOnly(),
							Value: cfg.bind(
								func() any { return lab.HasSequence },
								func(v any) error {
									has, err := boolValue(v)
									if err != nil {
										return err
									}
									lab.HasSequence = has
									if !has {
										lab.SequenceLab = nil
										lab.SequenceResultID = nil
										lab.DateSequenceResult = nil
									}
									return nil
								}),
						},
						{
							Key:              "sequence[lab]",
							Kind:             schema.KindSingleSelect,
							Label:            "Sequencing lab",
							Category:         "labName",
							Options:          labs,
							DependsOn:        []string{"hasSequence"},
							Needs:            []schema.Need{{Field: "hasSequence"}},
							VisibleMandatory: &schema.VisibleRequired{Visible: true},
							ReadOnly:         cfg.readOnly(),
							Value: cfg.bind(
								func() any { return lab.SequenceLab },
								func(v any) error {
									seqLab, err := stringPtrValue(v)
									if err != nil {
										return err
									}
									lab.SequenceLab = seqLab
									return nil
								}),
						},
						{
							Key:              "sequence[resultId]",
							Kind:             schema.KindText,
							Label:            "Sequence result",
							DependsOn:        []string{"hasSequence"},
							Needs:            []schema.Need{{Field: "hasSequence"}},
							VisibleMandatory: &schema.VisibleRequired{Visible: true},
							ReadOnly:         cfg.readOnly(),
							Value: cfg.bind(
								func() any { return lab.SequenceResultID },
								func(v any) error {
									result, err := stringPtrValue(v)
									if err != nil {
										return err
									}
									lab.SequenceResultID = result
									return nil
								}),
						},
						dateField("sequence[dateResult]", "Date of sequence result", cfg, &lab.DateSequenceResult, false),
					},
				},
			},
		},
	}

	if tab, ok := cfg.questionnaireTab("questionnaire", "Lab questionnaire", tpl, &lab.QuestionnaireRecord); ok {
		tabs = append(tabs, tab)
	}

	return cfg.validateAndLog("labResult", tabs)
}

// selectField builds a single-select bound to a plain string target.
func selectField(key, label, category string, options []refdata.Option, cfg Config, get func() any, set func(string)) schema.Field {
	return schema.Field{
		Key:              key,
		Kind:             schema.KindSingleSelect,
		Label:            label,
		Category:         category,
		Options:          options,
		VisibleMandatory: &schema.VisibleRequired{Visible: true},
		ReadOnly:         cfg.readOnly(),
		Sortable:         true,
		Value: cfg.bind(get, func(v any) error {
			value, err := stringValue(v)
			if err != nil {
				return err
			}
			set(value)
			return nil
		}),
	}
}
