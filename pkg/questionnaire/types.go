// Package questionnaire models the outbreak-supplied template: a tree of
// questions whose answer options may nest follow-up questions, plus the
// answer records entities accumulate against it. The alert evaluator consumes
// both; the form builders attach templates to questionnaire tabs.
package questionnaire

import "time"

// AnswerOption is one selectable answer. Alert marks the option as
// alert-triggering; AdditionalQuestions nest follow-ups shown when the option
// is selected.
type AnswerOption struct {
	Label               string     `json:"label" yaml:"label"`
	Value               string     `json:"value" yaml:"value"`
	Alert               bool       `json:"alert,omitempty" yaml:"alert,omitempty"`
	AdditionalQuestions []Question `json:"additionalQuestions,omitempty" yaml:"additionalQuestions,omitempty"`
}

// Question is one node of the template tree. Variable is the stable key
// answer records are stored under.
type Question struct {
	Text     string         `json:"text" yaml:"text"`
	Variable string         `json:"variable" yaml:"variable"`
	Category string         `json:"category,omitempty" yaml:"category,omitempty"`
	Required bool           `json:"required,omitempty" yaml:"required,omitempty"`
	Multi    bool           `json:"multiAnswer,omitempty" yaml:"multiAnswer,omitempty"`
	Answers  []AnswerOption `json:"answers,omitempty" yaml:"answers,omitempty"`
}

// Template is a questionnaire as configured on the outbreak.
type Template struct {
	Name      string     `json:"name,omitempty" yaml:"name,omitempty"`
	Questions []Question `json:"questions" yaml:"questions"`
}

// AnswerEntry is one recorded answer. Value may be a scalar or, for
// multi-answer questions, a slice. Date is when the answer was captured.
type AnswerEntry struct {
	Value any        `json:"value" yaml:"value"`
	Date  *time.Time `json:"date,omitempty" yaml:"date,omitempty"`
}

// AnswerSet holds an entity's recorded answers per question variable, each a
// newest-first history. Variables keep insertion order so consumers that
// short-circuit (the alert evaluator) scan in a reproducible order.
type AnswerSet struct {
	order   []string
	records map[string][]AnswerEntry
}

// NewAnswerSet returns an empty set.
func NewAnswerSet() *AnswerSet {
	return &AnswerSet{records: make(map[string][]AnswerEntry)}
}

// Set replaces the history for a variable, newest entry first. First-time
// variables append to the scan order; repeats keep their original position.
func (s *AnswerSet) Set(variable string, entries ...AnswerEntry) *AnswerSet {
	if s.records == nil {
		s.records = make(map[string][]AnswerEntry)
	}
	if _, seen := s.records[variable]; !seen {
		s.order = append(s.order, variable)
	}
	s.records[variable] = entries
	return s
}

// Record returns the newest-first history for a variable.
func (s *AnswerSet) Record(variable string) []AnswerEntry {
	if s == nil {
		return nil
	}
	return s.records[variable]
}

// Newest returns the most recent entry for a variable, if any.
func (s *AnswerSet) Newest(variable string) (AnswerEntry, bool) {
	entries := s.Record(variable)
	if len(entries) == 0 {
		return AnswerEntry{}, false
	}
	return entries[0], true
}

// Variables lists the recorded variables in insertion order.
func (s *AnswerSet) Variables() []string {
	if s == nil {
		return nil
	}
	return s.order
}
