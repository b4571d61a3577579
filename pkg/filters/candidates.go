package filters

import (
	"github.com/outbreakkit/go-entityform/pkg/refdata"
	"github.com/outbreakkit/go-entityform/pkg/schema"
)

// UserScoped returns the user-column candidates shared by every list view.
// All three require the caller to be allowed to list users; without that
// capability there is nothing meaningful to select a value from.
func UserScoped() []Candidate {
	gate := &Capability{Action: "list", Subject: "user"}
	keys := []struct{ key, label string }{
		{"responsibleUserId", "Responsible user"},
		{"createdBy", "Created by"},
		{"updatedBy", "Updated by"},
	}
	candidates := make([]Candidate, 0, len(keys))
	for _, k := range keys {
		candidates = append(candidates, Candidate{
			Descriptor: Descriptor{
				FieldKey: k.key,
				Kind:     schema.KindSingleSelect,
				Label:    k.label,
				Sortable: true,
			},
			Capability: gate,
		})
	}
	return candidates
}

// CaseRelationships returns the relationship-scoped candidates for case
// list views: filtering cases by fields of their related contacts. The
// extra conditions restrict the relationship target type at query time.
func CaseRelationships(gender []refdata.Option) []Candidate {
	return relationshipCandidates("Related contact", map[string]any{"type": "contact"}, gender)
}

// ContactRelationships returns the relationship-scoped candidates for
// contact list views, reaching through to the exposing case.
func ContactRelationships(gender []refdata.Option) []Candidate {
	return relationshipCandidates("Related case", map[string]any{"type": "case"}, gender)
}

func relationshipCandidates(label string, conditions map[string]any, gender []refdata.Option) []Candidate {
	return []Candidate{
		{Descriptor: Descriptor{
			FieldKey:          "relationship[firstName]",
			Kind:              schema.KindText,
			Label:             "First name",
			RelationshipLabel: label,
			ExtraConditions:   conditions,
		}},
		{Descriptor: Descriptor{
			FieldKey:          "relationship[lastName]",
			Kind:              schema.KindText,
			Label:             "Last name",
			RelationshipLabel: label,
			ExtraConditions:   conditions,
		}},
		{Descriptor: Descriptor{
			FieldKey:          "relationship[gender]",
			Kind:              schema.KindSingleSelect,
			Label:             "Gender",
			Options:           gender,
			RelationshipLabel: label,
			ExtraConditions:   conditions,
		}},
	}
}
