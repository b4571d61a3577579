package duplicates

import (
	"github.com/google/uuid"

	"github.com/outbreakkit/go-entityform/pkg/access"
)

// Entity spaces a candidate may come from. A case-like search fans out to
// both: contacts and cases are both legitimate duplicates of a case.
const (
	EntityContact = "contact"
	EntityCase    = "case"
)

// Candidate is one possible duplicate record.
type Candidate struct {
	ID         uuid.UUID
	EntityType string
	FirstName  string
	MiddleName string
	LastName   string
	VisualID   string
}

// Viewable reports whether the caller may follow a link to this candidate.
// Checked at display time, not query time: candidates the caller cannot view
// render as plain text instead of links. Pure in the caller's capability set
// and the candidate's entity type.
func (c Candidate) Viewable(caller access.Checker) bool {
	return caller != nil && caller.Can("view", c.EntityType)
}

// mergeCandidates joins the two entity-space result sets, contact space
// first, dropping repeated ids. The set is replaced wholesale per completed
// query, never patched incrementally.
func mergeCandidates(fromContacts, fromCases []Candidate) []Candidate {
	merged := make([]Candidate, 0, len(fromContacts)+len(fromCases))
	seen := make(map[uuid.UUID]struct{}, len(fromContacts)+len(fromCases))
	for _, set := range [][]Candidate{fromContacts, fromCases} {
		for _, candidate := range set {
			if _, dup := seen[candidate.ID]; dup {
				continue
			}
			seen[candidate.ID] = struct{}{}
			merged = append(merged, candidate)
		}
	}
	return merged
}
