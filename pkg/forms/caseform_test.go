package forms

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/outbreakkit/go-entityform/pkg/alerts"
	"github.com/outbreakkit/go-entityform/pkg/duplicates"
	"github.com/outbreakkit/go-entityform/pkg/questionnaire"
	"github.com/outbreakkit/go-entityform/pkg/refdata"
	"github.com/outbreakkit/go-entityform/pkg/schema"
)

func testProvider() refdata.Provider {
	return refdata.Static(map[string][]refdata.Option{
		"gender": {
			{Label: "Male", Value: GenderMale},
			{Label: "Female", Value: GenderFemale},
		},
		"outcome": {
			{Label: "Deceased", Value: OutcomeDeceased},
			{Label: "Recovered", Value: "recovered"},
		},
		"caseClassification": {
			{Label: "Confirmed", Value: "confirmed"},
			{Label: "Suspect", Value: "suspect"},
		},
	})
}

func caseTemplate() *questionnaire.Template {
	return &questionnaire.Template{
		Name: "case-investigation",
		Questions: []questionnaire.Question{
			{
				Text:     "Contact with a confirmed case?",
				Variable: "riskAnswer",
				Answers: []questionnaire.AnswerOption{
					{Label: "Yes", Value: "yes", Alert: true},
					{Label: "No", Value: "no"},
				},
			},
		},
	}
}

func findField(t *testing.T, tabs []schema.Tab, key string) *schema.Field {
	t.Helper()
	var found *schema.Field
	schema.WalkFields(tabs, func(_, _ string, field *schema.Field) {
		if field.Key == key {
			found = field
		}
	})
	if found == nil {
		t.Fatalf("field %q not found in tree", key)
	}
	return found
}

func TestBuildCaseTree_Structure(t *testing.T) {
	c := &CaseData{}
	tabs, err := BuildCaseTree(context.Background(), c, "", caseTemplate(),
		WithRefData(testProvider()))
	require.NoError(t, err)

	require.Len(t, tabs, 3)
	require.Equal(t, "personal", tabs[0].Name)
	require.Equal(t, "epidemiology", tabs[1].Name)
	require.Equal(t, "questionnaire", tabs[2].Name)

	gender := findField(t, tabs, "gender")
	require.Len(t, gender.Options, 2, "options come from the reference-data provider")

	pregnancy := findField(t, tabs, "pregnancyStatus")
	require.Equal(t, []schema.Need{{Field: "gender"}}, pregnancy.Needs)
}

func TestBuildCaseTree_GenderCascadeThroughAccessor(t *testing.T) {
	status := "trimester-1"
	c := &CaseData{PersonData: PersonData{Gender: GenderFemale, PregnancyStatus: &status}}
	tabs, err := BuildCaseTree(context.Background(), c, "", nil, WithRefData(testProvider()))
	require.NoError(t, err)

	require.NoError(t, findField(t, tabs, "gender").Value.Set(GenderMale))
	require.Nil(t, c.PregnancyStatus, "gender cascade must run inside the accessor write")
}

func TestBuildCaseTree_OutcomeCascadeThroughAccessor(t *testing.T) {
	burial := time.Now()
	place := "North cemetery"
	c := &CaseData{OutcomeID: OutcomeDeceased, DateOfBurial: &burial, BurialPlaceName: &place}
	tabs, err := BuildCaseTree(context.Background(), c, "", nil, WithRefData(testProvider()))
	require.NoError(t, err)

	require.NoError(t, findField(t, tabs, "outcomeId").Value.Set("recovered"))
	require.Nil(t, c.DateOfBurial)
	require.Nil(t, c.BurialPlaceName)
}

func TestBuildCaseTree_AgeDOBMutualExclusivity(t *testing.T) {
	now := time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)
	c := &CaseData{}
	tabs, err := BuildCaseTree(context.Background(), c, "", nil,
		WithRefData(testProvider()), WithClock(func() time.Time { return now }))
	require.NoError(t, err)

	ageDob := findField(t, tabs, "ageDob")

	dob := now.AddDate(0, -18, 0)
	require.NoError(t, ageDob.Value.Set(dob))
	require.Equal(t, &Age{Years: 1, Months: 0}, c.Age)

	require.NoError(t, ageDob.Value.Set(Age{Years: 30}))
	require.Nil(t, c.DOB, "entering an age must null the DOB")

	got := ageDob.Value.Get().(AgeDOB)
	require.Equal(t, 30, got.Age.Years)
}

func TestBuildCaseTree_ViewModeIsReadOnly(t *testing.T) {
	c := &CaseData{PersonData: PersonData{FirstName: "Jane"}}
	tabs, err := BuildCaseTree(context.Background(), c, "case-1", nil,
		WithRefData(testProvider()), WithMode(ModeView))
	require.NoError(t, err)

	first := findField(t, tabs, "firstName")
	require.True(t, first.ReadOnly)
	require.NoError(t, first.Value.Set("Janet"))
	require.Equal(t, "Jane", c.FirstName, "view-mode accessors must not write")
}

func TestBuildCaseTree_NameEditsTriggerDuplicateDetection(t *testing.T) {
	var lookups atomic.Int32
	lookup := func(ctx context.Context, q duplicates.Query) ([]duplicates.Candidate, error) {
		lookups.Add(1)
		return nil, nil
	}
	detector := duplicates.NewDetector(lookup, lookup, duplicates.WithDebounce(5*time.Millisecond))
	defer detector.Close()

	c := &CaseData{}
	tabs, err := BuildCaseTree(context.Background(), c, "case-1", nil,
		WithRefData(testProvider()), WithDuplicateDetector(detector))
	require.NoError(t, err)

	require.NoError(t, findField(t, tabs, "firstName").Value.Set("Jane"))
	require.NoError(t, findField(t, tabs, "lastName").Value.Set("Doe"))

	require.Eventually(t, func() bool { return lookups.Load() == 2 },
		time.Second, time.Millisecond, "one dispatch fanning out to both spaces")
}

func TestBuildCaseTree_VisualIDUniquenessIsMemoized(t *testing.T) {
	var checks atomic.Int32
	validator, err := NewVisualIDValidator(
		func(ctx context.Context, outbreakID, mask, value, excludeID string) (bool, error) {
			checks.Add(1)
			return true, nil
		}, 0)
	require.NoError(t, err)

	c := &CaseData{}
	tabs, err := BuildCaseTree(context.Background(), c, "case-1", nil,
		WithRefData(testProvider()),
		WithOutbreak("ob-1", "CAS-YYYY-***"),
		WithVisualIDValidator(validator))
	require.NoError(t, err)

	visual := findField(t, tabs, "visualId")
	require.NotNil(t, visual.Validate)

	require.NoError(t, visual.Value.Set("CAS-2024-7"))
	require.NoError(t, visual.Validate(context.Background()))
	require.NoError(t, visual.Validate(context.Background()))
	require.Equal(t, int32(1), checks.Load(), "unchanged key must not re-issue the check")

	require.NoError(t, visual.Value.Set("CAS-2024-8"))
	require.NoError(t, visual.Validate(context.Background()))
	require.Equal(t, int32(2), checks.Load(), "changed value component re-issues")
}

func TestBuildCaseTree_QuestionnaireAnswersFeedAlerts(t *testing.T) {
	now := time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)
	c := &CaseData{}
	tabs, err := BuildCaseTree(context.Background(), c, "", caseTemplate(),
		WithRefData(testProvider()), WithClock(func() time.Time { return now }))
	require.NoError(t, err)

	risk := findField(t, tabs, "riskAnswer")
	require.NoError(t, risk.Value.Set("yes"))
	require.NoError(t, risk.Value.Set("no"))

	// Newest first: the second write shadows the first.
	entries := c.Answers.Record("riskAnswer")
	require.Len(t, entries, 2)
	require.Equal(t, "no", entries[0].Value)

	alerts.DetermineAlertness(caseTemplate(), []*CaseData{c})
	require.False(t, c.Alerted, "historical yes must not alert")

	require.NoError(t, risk.Value.Set("yes"))
	alerts.DetermineAlertness(caseTemplate(), []*CaseData{c})
	require.True(t, c.Alerted)
}

func TestBuildContactTree_Structure(t *testing.T) {
	contact := &ContactData{}
	tabs, err := BuildContactTree(context.Background(), contact, "", nil, WithRefData(testProvider()))
	require.NoError(t, err)

	require.Len(t, tabs, 2)
	findField(t, tabs, "followUpStatus")
	findField(t, tabs, "pregnancyStatus")
}

func TestBuildLabResultTree_SequenceNeedsGate(t *testing.T) {
	lab := &LabResultData{}
	tabs, err := BuildLabResultTree(context.Background(), lab, "", nil, WithRefData(testProvider()))
	require.NoError(t, err)

	seq := findField(t, tabs, "sequence[lab]")
	require.Equal(t, []schema.Need{{Field: "hasSequence"}}, seq.Needs)

	has := findField(t, tabs, "hasSequence")
	seqLab := "lab-1"
	lab.SequenceLab = &seqLab
	require.NoError(t, has.Value.Set(false))
	require.Nil(t, lab.SequenceLab, "clearing the toggle clears the sequence group")
}
