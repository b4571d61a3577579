// Package alerts derives the per-entity alerted flag from a questionnaire
// template and the entity's recorded answers. Only the newest answer per
// question can trigger an alert; historical answers never do.
package alerts

import (
	"fmt"

	"github.com/outbreakkit/go-entityform/pkg/questionnaire"
)

// ValueSet is the set of answer values flagged alert-triggering for one
// question.
type ValueSet map[string]struct{}

// Contains reports membership.
func (s ValueSet) Contains(value string) bool {
	_, ok := s[value]
	return ok
}

// Entity is the slice of an epidemiological record the evaluator touches.
type Entity interface {
	QuestionnaireAnswers() *questionnaire.AnswerSet
	SetAlerted(alerted bool)
}

// DetermineAlertAnswers walks the template once, nested follow-ups included,
// and collects per question variable the answer values flagged as alerts.
// Pure and deterministic; the index is ephemeral, built per evaluation batch.
func DetermineAlertAnswers(tpl *questionnaire.Template) map[string]ValueSet {
	index := make(map[string]ValueSet)
	if tpl == nil {
		return index
	}

	var walk func(questions []questionnaire.Question)
	walk = func(questions []questionnaire.Question) {
		for _, q := range questions {
			for _, answer := range q.Answers {
				if answer.Alert {
					set, ok := index[q.Variable]
					if !ok {
						set = make(ValueSet)
						index[q.Variable] = set
					}
					set[answer.Value] = struct{}{}
				}
				walk(answer.AdditionalQuestions)
			}
		}
	}
	walk(tpl.Questions)

	return index
}

// DetermineAlertness sets each entity's alerted flag from its newest recorded
// answers. Per entity it scans recorded variables in insertion order and stops
// at the first match. Variables without a template entry contribute nothing;
// malformed records never raise.
func DetermineAlertness[E Entity](tpl *questionnaire.Template, entities []E) []E {
	index := DetermineAlertAnswers(tpl)

	for _, entity := range entities {
		entity.SetAlerted(false)
		answers := entity.QuestionnaireAnswers()
		if answers == nil {
			continue
		}
		for _, variable := range answers.Variables() {
			alerted, ok := index[variable]
			if !ok || len(alerted) == 0 {
				continue
			}
			newest, ok := answers.Newest(variable)
			if !ok || !present(newest.Value) {
				continue
			}
			if matches(alerted, newest.Value) {
				entity.SetAlerted(true)
				break
			}
		}
	}

	return entities
}

// present mirrors the "has a value" rule: nil and blank strings are absent,
// numeric zero is present.
func present(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case string:
		return v != ""
	default:
		return true
	}
}

func matches(alerted ValueSet, value any) bool {
	switch v := value.(type) {
	case []any:
		for _, element := range v {
			if present(element) && alerted.Contains(coerceString(element)) {
				return true
			}
		}
		return false
	case []string:
		for _, element := range v {
			if element != "" && alerted.Contains(element) {
				return true
			}
		}
		return false
	default:
		return alerted.Contains(coerceString(value))
	}
}

func coerceString(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return fmt.Sprint(value)
	}
}
