package schema

import (
	"strings"
	"testing"
)

func sampleTree() []Tab {
	return []Tab{
		{
			Name:  "personal",
			Label: "Personal",
			Sections: []Section{
				{
					Label: "Details",
					Fields: []Field{
						{Key: "firstName", Kind: KindText},
						{Key: "gender", Kind: KindSingleSelect, Category: "gender"},
						{Key: "documents", Kind: KindList, Items: &Field{Kind: KindDocument}},
					},
				},
			},
		},
	}
}

func TestValidateTree_Accepts(t *testing.T) {
	if err := ValidateTree(sampleTree()); err != nil {
		t.Fatalf("expected valid tree, got %v", err)
	}
}

func TestValidateTree_UnknownKind(t *testing.T) {
	tree := sampleTree()
	tree[0].Sections[0].Fields[0].Kind = FieldKind("carousel")

	err := ValidateTree(tree)
	if err == nil {
		t.Fatalf("expected config error for unknown kind")
	}
	cfg, ok := err.(*ConfigError)
	if !ok {
		t.Fatalf("expected *ConfigError, got %T", err)
	}
	if !strings.Contains(cfg.Detail, "carousel") {
		t.Fatalf("expected detail to name the kind, got %q", cfg.Detail)
	}
}

func TestValidateTree_UnmodeledListItemKind(t *testing.T) {
	tree := sampleTree()
	tree[0].Sections[0].Fields[2].Items = &Field{Kind: KindText}

	if err := ValidateTree(tree); err == nil {
		t.Fatalf("expected config error for list item kind")
	}
}

func TestValidateTree_MissingListItems(t *testing.T) {
	tree := sampleTree()
	tree[0].Sections[0].Fields[2].Items = nil

	if err := ValidateTree(tree); err == nil {
		t.Fatalf("expected config error for missing item definition")
	}
}

func TestValidateTree_DuplicateKeyAcrossTabs(t *testing.T) {
	tree := sampleTree()
	tree = append(tree, Tab{
		Name: "epidemiology",
		Sections: []Section{
			{Label: "Tracking", Fields: []Field{{Key: "firstName", Kind: KindText}}},
		},
	})

	err := ValidateTree(tree)
	if err == nil {
		t.Fatalf("expected duplicate key error")
	}
	if !strings.Contains(err.Error(), "firstName") {
		t.Fatalf("expected error to name the key, got %v", err)
	}
}

func TestBind_NilSetIsNoOp(t *testing.T) {
	value := "seed"
	acc := Bind(func() any { return value }, nil)

	if got := acc.Get(); got != "seed" {
		t.Fatalf("expected seed, got %v", got)
	}
	if err := acc.Set("ignored"); err != nil {
		t.Fatalf("read-only set should not error, got %v", err)
	}
	if value != "seed" {
		t.Fatalf("read-only set mutated the value")
	}
}
