package forms

import (
	"github.com/outbreakkit/go-entityform/pkg/questionnaire"
	"github.com/outbreakkit/go-entityform/pkg/refdata"
	"github.com/outbreakkit/go-entityform/pkg/schema"
)

// questionnaireTab maps the outbreak template onto a form tab. Answer writes
// prepend to the variable's history so the newest entry stays at index 0,
// which is what alert evaluation keys on.
func (cfg *Config) questionnaireTab(name, label string, tpl *questionnaire.Template, record *QuestionnaireRecord) (schema.Tab, bool) {
	if tpl == nil || len(tpl.Questions) == 0 {
		return schema.Tab{}, false
	}

	section := schema.Section{Label: label}
	for _, question := range tpl.Questions {
		section.Fields = append(section.Fields, cfg.questionField(question, record)...)
	}

	return schema.Tab{Name: name, Label: label, Sections: []schema.Section{section}}, true
}

func (cfg *Config) questionField(question questionnaire.Question, record *QuestionnaireRecord) []schema.Field {
	kind := schema.KindText
	var options []refdata.Option
	if len(question.Answers) > 0 {
		kind = schema.KindSingleSelect
		if question.Multi {
			kind = schema.KindMultiSelect
		}
		options = make([]refdata.Option, 0, len(question.Answers))
		for _, answer := range question.Answers {
			options = append(options, refdata.Option{Label: answer.Label, Value: answer.Value})
		}
	}

	variable := question.Variable
	field := schema.Field{
		Key:     variable,
		Kind:    kind,
		Label:   question.Text,
		Options: options,
		VisibleMandatory: &schema.VisibleRequired{
			Visible:  true,
			Required: question.Required,
		},
		ReadOnly: cfg.readOnly(),
		Value: cfg.bind(
			func() any {
				newest, ok := record.Answers.Newest(variable)
				if !ok {
					return nil
				}
				return newest.Value
			},
			func(value any) error {
				if record.Answers == nil {
					record.Answers = questionnaire.NewAnswerSet()
				}
				now := cfg.Now()
				history := append(
					[]questionnaire.AnswerEntry{{Value: value, Date: &now}},
					record.Answers.Record(variable)...,
				)
				record.Answers.Set(variable, history...)
				return nil
			},
		),
	}

	fields := []schema.Field{field}
	for _, answer := range question.Answers {
		for _, followUp := range answer.AdditionalQuestions {
			nested := cfg.questionField(followUp, record)
			for i := range nested {
				// Follow-ups surface only while their parent question is shown.
				nested[i].Needs = append(nested[i].Needs, schema.Need{Field: variable})
				nested[i].DependsOn = append(nested[i].DependsOn, variable)
			}
			fields = append(fields, nested...)
		}
	}
	return fields
}
