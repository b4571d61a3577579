package forms

import (
	"time"

	"github.com/outbreakkit/go-entityform/pkg/questionnaire"
)

// QuestionnaireRecord carries an entity's recorded answers and the derived
// alerted flag. Embedding it satisfies the alert evaluator's Entity contract.
type QuestionnaireRecord struct {
	Answers *questionnaire.AnswerSet
	Alerted bool
}

// QuestionnaireAnswers returns the recorded answers, possibly nil.
func (r *QuestionnaireRecord) QuestionnaireAnswers() *questionnaire.AnswerSet {
	return r.Answers
}

// SetAlerted stores the evaluated alert flag.
func (r *QuestionnaireRecord) SetAlerted(alerted bool) {
	r.Alerted = alerted
}

// Reference-data values the cascades key on. These are the canonical option
// values; option labels come from the reference-data collaborator.
const (
	GenderMale      = "male"
	GenderFemale    = "female"
	OutcomeDeceased = "deceased"
)

// Age is the derived years/months pair. Months is only populated while the
// person is under a year old.
type Age struct {
	Years  int `json:"years"`
	Months int `json:"months"`
}

// AgeFromDOB derives an Age from a date of birth relative to now. Whole years
// zero the months component; under a year, months carry the value.
func AgeFromDOB(dob, now time.Time) Age {
	months := (now.Year()-dob.Year())*12 + int(now.Month()) - int(dob.Month())
	if now.Day() < dob.Day() {
		months--
	}
	if months < 0 {
		months = 0
	}
	if months >= 12 {
		return Age{Years: months / 12}
	}
	return Age{Months: months}
}

// PersonData is the mutable person-shaped slice of a case, contact or
// contact-of-contact bound into a form tree. Cascade setters keep dependent
// fields consistent atomically with the triggering write; the tree builders
// bind accessors to these setters rather than to raw fields.
type PersonData struct {
	FirstName  string
	MiddleName string
	LastName   string

	Gender          string
	PregnancyStatus *string

	DOB *time.Time
	Age *Age

	Occupation string
	VisualID   string

	RiskLevel  string
	RiskReason string
}

// SetGender writes the gender and, for male, clears the pregnancy status in
// the same update. Any other value leaves it untouched.
func (p *PersonData) SetGender(gender string) {
	p.Gender = gender
	if gender == GenderMale {
		p.PregnancyStatus = nil
	}
}

// SetDOB writes the date of birth and recomputes the derived age against now.
// Entering a DOB wins over a previously entered age; clearing it clears the
// derived age too.
func (p *PersonData) SetDOB(dob *time.Time, now time.Time) {
	p.DOB = dob
	if dob == nil {
		p.Age = nil
		return
	}
	age := AgeFromDOB(*dob, now)
	p.Age = &age
}

// SetAge writes an explicitly entered age. Whichever of age/DOB was edited
// last wins, so the DOB is nulled.
func (p *PersonData) SetAge(age *Age) {
	p.Age = age
	if age != nil {
		p.DOB = nil
	}
}

// CaseData is the case entity slice the case form tree binds to.
type CaseData struct {
	PersonData
	QuestionnaireRecord

	Classification  string
	DateOfOnset     *time.Time
	DateOfReport    *time.Time
	DateBecomeCase  *time.Time
	TransferRefused bool

	OutcomeID     string
	DateOfOutcome *time.Time

	DateOfBurial     *time.Time
	BurialLocationID *string
	BurialPlaceName  *string
	SafeBurial       *bool
}

// SetOutcome writes the outcome and, when it moves away from deceased, clears
// the whole burial group atomically with the write.
func (c *CaseData) SetOutcome(outcomeID string) {
	c.OutcomeID = outcomeID
	if outcomeID != OutcomeDeceased {
		c.DateOfBurial = nil
		c.BurialLocationID = nil
		c.BurialPlaceName = nil
		c.SafeBurial = nil
	}
}

// ContactData is the contact entity slice.
type ContactData struct {
	PersonData
	QuestionnaireRecord

	DateOfReport      *time.Time
	DateOfLastContact *time.Time
	FollowUpStatus    string
	FollowUpTeamID    *string
}

// ContactOfContactData is the contact-of-contact entity slice.
type ContactOfContactData struct {
	PersonData
	QuestionnaireRecord

	DateOfReport      *time.Time
	DateOfLastContact *time.Time
}

// LabResultData is the lab-result entity slice.
type LabResultData struct {
	QuestionnaireRecord

	SampleLabNumber string
	VisualID        string

	DateSampleTaken      *time.Time
	DateSampleDelivered  *time.Time
	DateTesting          *time.Time
	DateOfResult         *time.Time

	SampleType string
	TestType   string
	Result     string
	Status     string

	HasSequence        bool
	SequenceLab        *string
	SequenceResultID   *string
	DateSequenceResult *time.Time

	QuantitativeResult *string
	Notes              string
}
