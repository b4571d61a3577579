package alerts

import (
	"testing"

	"github.com/outbreakkit/go-entityform/pkg/questionnaire"
)

type fakeCase struct {
	answers *questionnaire.AnswerSet
	alerted bool
}

func (c *fakeCase) QuestionnaireAnswers() *questionnaire.AnswerSet { return c.answers }
func (c *fakeCase) SetAlerted(alerted bool)                        { c.alerted = alerted }

func riskTemplate() *questionnaire.Template {
	return &questionnaire.Template{
		Questions: []questionnaire.Question{
			{
				Text:     "Recent travel?",
				Variable: "recentTravel",
				Answers: []questionnaire.AnswerOption{
					{Label: "Yes", Value: "yes"},
					{Label: "No", Value: "no"},
				},
			},
			{
				Text:     "Contact with a confirmed case?",
				Variable: "riskAnswer",
				Answers: []questionnaire.AnswerOption{
					{Label: "Yes", Value: "yes", Alert: true,
						AdditionalQuestions: []questionnaire.Question{
							{
								Text:     "Was protective equipment used?",
								Variable: "protectiveEquipment",
								Answers: []questionnaire.AnswerOption{
									{Label: "No", Value: "no", Alert: true},
									{Label: "Yes", Value: "yes"},
								},
							},
						},
					},
					{Label: "No", Value: "no"},
				},
			},
		},
	}
}

func TestDetermineAlertAnswers_CollectsNestedFlags(t *testing.T) {
	index := DetermineAlertAnswers(riskTemplate())

	if _, ok := index["recentTravel"]; ok {
		t.Fatalf("recentTravel has no alert options, should not be indexed")
	}
	if !index["riskAnswer"].Contains("yes") {
		t.Fatalf("expected riskAnswer/yes to be alert-flagged")
	}
	if !index["protectiveEquipment"].Contains("no") {
		t.Fatalf("expected nested protectiveEquipment/no to be alert-flagged")
	}
}

func TestDetermineAlertness_NewestAnswerTriggers(t *testing.T) {
	entity := &fakeCase{answers: questionnaire.NewAnswerSet().
		Set("riskAnswer", questionnaire.AnswerEntry{Value: "yes"})}

	DetermineAlertness(riskTemplate(), []*fakeCase{entity})

	if !entity.alerted {
		t.Fatalf("newest alert-flagged answer must set alerted")
	}
}

func TestDetermineAlertness_HistoricalAnswerNeverTriggers(t *testing.T) {
	entity := &fakeCase{answers: questionnaire.NewAnswerSet().
		Set("riskAnswer",
			questionnaire.AnswerEntry{Value: "no"},
			questionnaire.AnswerEntry{Value: "yes"},
		)}

	DetermineAlertness(riskTemplate(), []*fakeCase{entity})

	if entity.alerted {
		t.Fatalf("an older historical answer must not trigger an alert")
	}
}

func TestDetermineAlertness_ArrayValuedAnswer(t *testing.T) {
	entity := &fakeCase{answers: questionnaire.NewAnswerSet().
		Set("riskAnswer", questionnaire.AnswerEntry{Value: []any{"no", "yes"}})}

	DetermineAlertness(riskTemplate(), []*fakeCase{entity})

	if !entity.alerted {
		t.Fatalf("any alerted element of an array answer must trigger")
	}
}

func TestDetermineAlertness_AbsentValueSkipsVariable(t *testing.T) {
	entity := &fakeCase{answers: questionnaire.NewAnswerSet().
		Set("riskAnswer", questionnaire.AnswerEntry{Value: nil}).
		Set("protectiveEquipment", questionnaire.AnswerEntry{Value: ""})}

	DetermineAlertness(riskTemplate(), []*fakeCase{entity})

	if entity.alerted {
		t.Fatalf("absent newest values must not alert")
	}
}

func TestDetermineAlertness_ResetsStaleFlag(t *testing.T) {
	entity := &fakeCase{
		alerted: true,
		answers: questionnaire.NewAnswerSet().
			Set("riskAnswer", questionnaire.AnswerEntry{Value: "no"}),
	}

	DetermineAlertness(riskTemplate(), []*fakeCase{entity})

	if entity.alerted {
		t.Fatalf("evaluation must clear a previously set flag")
	}
}

func TestDetermineAlertness_UnknownVariableIsIgnored(t *testing.T) {
	entity := &fakeCase{answers: questionnaire.NewAnswerSet().
		Set("neverInTemplate", questionnaire.AnswerEntry{Value: "yes"})}

	DetermineAlertness(riskTemplate(), []*fakeCase{entity})

	if entity.alerted {
		t.Fatalf("variables missing from the template are not alert-eligible")
	}
}

func TestDetermineAlertness_ShortCircuitsInInsertionOrder(t *testing.T) {
	// Both variables would match; insertion order makes riskAnswer the one
	// that stops the scan, which Set ordering keeps reproducible.
	entity := &fakeCase{answers: questionnaire.NewAnswerSet().
		Set("riskAnswer", questionnaire.AnswerEntry{Value: "yes"}).
		Set("protectiveEquipment", questionnaire.AnswerEntry{Value: "no"})}

	DetermineAlertness(riskTemplate(), []*fakeCase{entity})

	if !entity.alerted {
		t.Fatalf("expected alert")
	}
	if got := entity.answers.Variables()[0]; got != "riskAnswer" {
		t.Fatalf("insertion order must be stable, got first variable %q", got)
	}
}

func TestDetermineAlertness_NilAnswerSet(t *testing.T) {
	entity := &fakeCase{answers: nil, alerted: true}

	DetermineAlertness(riskTemplate(), []*fakeCase{entity})

	if entity.alerted {
		t.Fatalf("nil answer set must clear and skip, not panic")
	}
}
