package visibility

import (
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/outbreakkit/go-entityform/pkg/schema"
)

func vr(visible, required bool) *schema.VisibleRequired {
	return &schema.VisibleRequired{Visible: visible, Required: required}
}

func caseLikeTree() []schema.Tab {
	return []schema.Tab{
		{
			Name:  "personal",
			Label: "Personal",
			Sections: []schema.Section{
				{
					Label: "Details",
					Fields: []schema.Field{
						{Key: "firstName", Kind: schema.KindText, VisibleMandatory: vr(true, true)},
						{Key: "gender", Kind: schema.KindSingleSelect, VisibleMandatory: vr(true, false)},
						{
							Key:              "pregnancyStatus",
							Kind:             schema.KindSingleSelect,
							VisibleMandatory: vr(true, false),
							Needs:            []schema.Need{{Field: "gender"}},
						},
					},
				},
				{
					Label: "Identifiers",
					Fields: []schema.Field{
						{Key: "visualId", Kind: schema.KindText, VisibleMandatory: vr(true, false)},
					},
				},
			},
		},
		{
			Name:  "outcome",
			Label: "Outcome",
			Sections: []schema.Section{
				{
					Label: "Burial",
					Fields: []schema.Field{
						{Key: "dateOfBurial", Kind: schema.KindDate, VisibleMandatory: vr(true, false)},
					},
				},
			},
		},
	}
}

func TestResolve_OverrideFallsBackToBuiltInDefault(t *testing.T) {
	resolved, err := Resolve(caseLikeTree(), OverrideTable{}, "cases")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	if !resolved.Visible("firstName") || !resolved.Mandatory("firstName") {
		t.Fatalf("expected built-in default {visible:true required:true} for firstName, got %+v", resolved.States["firstName"])
	}
	if !resolved.Visible("pregnancyStatus") {
		t.Fatalf("expected pregnancyStatus visible by default")
	}
}

func TestResolve_OverrideWinsOverDefault(t *testing.T) {
	overrides := OverrideTable{
		"cases": {
			"visualId": {Visible: false, Required: false},
			"gender":   {Visible: true, Required: true},
		},
	}

	resolved, err := Resolve(caseLikeTree(), overrides, "cases")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	if resolved.Visible("visualId") {
		t.Fatalf("expected visualId hidden by override")
	}
	if !resolved.Mandatory("gender") {
		t.Fatalf("expected gender required by override")
	}
}

func TestResolve_OverridesAreScopedByEntityTypeKey(t *testing.T) {
	overrides := OverrideTable{
		"cases":    {"visualId": {Visible: false}},
		"contacts": {"visualId": {Visible: true}},
	}

	forCases, err := Resolve(caseLikeTree(), overrides, "cases")
	if err != nil {
		t.Fatalf("resolve cases: %v", err)
	}
	forContacts, err := Resolve(caseLikeTree(), overrides, "contacts")
	if err != nil {
		t.Fatalf("resolve contacts: %v", err)
	}

	if forCases.Visible("visualId") {
		t.Fatalf("visualId should be hidden for cases")
	}
	if !forContacts.Visible("visualId") {
		t.Fatalf("visualId should stay visible for contacts")
	}
}

func TestResolve_NeedsGateOverridesOwnEntry(t *testing.T) {
	overrides := OverrideTable{
		"cases": {
			"gender": {Visible: false},
			// pregnancyStatus explicitly visible, but its dependency is not.
			"pregnancyStatus": {Visible: true, Required: true},
		},
	}

	resolved, err := Resolve(caseLikeTree(), overrides, "cases")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	if resolved.Visible("pregnancyStatus") {
		t.Fatalf("pregnancyStatus must follow its gender dependency into invisibility")
	}
}

func TestResolve_PrunesEmptySectionsAndTabs(t *testing.T) {
	overrides := OverrideTable{
		"cases": {"dateOfBurial": {Visible: false}},
	}

	resolved, err := Resolve(caseLikeTree(), overrides, "cases")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	for _, tab := range resolved.Tabs {
		if tab.Name == "outcome" {
			t.Fatalf("outcome tab should be pruned once its only field is hidden")
		}
	}
	// The hidden field still has a resolved state for the filter generator.
	if resolved.Visible("dateOfBurial") {
		t.Fatalf("dateOfBurial state should be invisible")
	}
}

func TestResolve_TabRuleDropsTab(t *testing.T) {
	tree := caseLikeTree()
	tree[1].Rule = `outcomeId == "deceased"`

	resolved, err := Resolve(tree, OverrideTable{}, "cases",
		WithEnvironment(map[string]any{"outcomeId": "recovered"}))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(resolved.Tabs) != 1 || resolved.Tabs[0].Name != "personal" {
		t.Fatalf("expected only the personal tab, got %d tabs", len(resolved.Tabs))
	}

	resolved, err = Resolve(tree, OverrideTable{}, "cases",
		WithEnvironment(map[string]any{"outcomeId": "deceased"}))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(resolved.Tabs) != 2 {
		t.Fatalf("expected both tabs when the rule holds, got %d", len(resolved.Tabs))
	}
}

func TestResolve_IsPure(t *testing.T) {
	tree := caseLikeTree()
	overrides := OverrideTable{"cases": {"visualId": {Visible: false}}}

	first, err := Resolve(tree, overrides, "cases")
	if err != nil {
		t.Fatalf("first resolve: %v", err)
	}
	second, err := Resolve(tree, overrides, "cases")
	if err != nil {
		t.Fatalf("second resolve: %v", err)
	}

	opts := cmp.Options{
		cmp.Comparer(func(a, b schema.Accessor) bool { return true }),
	}
	if diff := cmp.Diff(first.Tabs, second.Tabs, opts); diff != "" {
		t.Fatalf("resolve is not repeatable (-first +second):\n%s", diff)
	}
	if diff := cmp.Diff(first.States, second.States); diff != "" {
		t.Fatalf("resolved states differ (-first +second):\n%s", diff)
	}

	// Input tree unchanged: the pruned copy must not leak back.
	if len(tree[0].Sections[0].Fields) != 3 {
		t.Fatalf("input tree was mutated")
	}
}

func TestResolve_UnknownKindIsFatal(t *testing.T) {
	tree := caseLikeTree()
	tree[0].Sections[0].Fields[0].Kind = schema.FieldKind("hologram")

	if _, err := Resolve(tree, OverrideTable{}, "cases"); err == nil {
		t.Fatalf("expected fatal config error for unknown kind")
	}
}

func TestLoadOverridesFS(t *testing.T) {
	fsys := fstest.MapFS{
		"cases.yaml": &fstest.MapFile{Data: []byte(
			"cases:\n  pregnancyStatus: {visible: true, required: false}\n  visualId: {visible: false, required: false}\n",
		)},
		"contacts.json": &fstest.MapFile{Data: []byte(
			`{"contacts": {"riskLevel": {"visible": true, "required": true}}}`,
		)},
		"notes.txt": &fstest.MapFile{Data: []byte("ignored")},
	}

	table, err := LoadOverridesFS(fsys)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if got, ok := table.Lookup("cases", "visualId"); !ok || got.Visible {
		t.Fatalf("expected hidden visualId for cases, got %+v ok=%v", got, ok)
	}
	if got, ok := table.Lookup("contacts", "riskLevel"); !ok || !got.Required {
		t.Fatalf("expected required riskLevel for contacts, got %+v ok=%v", got, ok)
	}
}

func TestLoadOverridesFS_DuplicateEntityKey(t *testing.T) {
	fsys := fstest.MapFS{
		"a.yaml": &fstest.MapFile{Data: []byte("cases:\n  visualId: {visible: true}\n")},
		"b.yaml": &fstest.MapFile{Data: []byte("cases:\n  visualId: {visible: false}\n")},
	}

	if _, err := LoadOverridesFS(fsys); err == nil {
		t.Fatalf("expected duplicate entity-type key error")
	}
}
