package contract

import (
	"strings"
	"testing"
)

func TestRegistryValidate_AllowsValidDefinitions(t *testing.T) {
	registry := Registry[*counterWorld]{
		{Kind: "bump", New: func() Effect[*counterWorld] { return &bumpEffect{} }},
		{Kind: "toggle_lamp", New: func() Effect[*counterWorld] { return &lampEffect{} }},
	}

	if err := registry.Validate(); err != nil {
		t.Fatalf("expected registry to validate, got error: %v", err)
	}
}

func TestRegistryValidate_DetectsDuplicateKinds(t *testing.T) {
	registry := Registry[*counterWorld]{
		{Kind: "dup", New: func() Effect[*counterWorld] { return &bumpEffect{} }},
		{Kind: "dup", New: func() Effect[*counterWorld] { return &lampEffect{} }},
	}

	err := registry.Validate()
	if err == nil {
		t.Fatal("expected duplicate kind to fail validation")
	}
	if !strings.Contains(err.Error(), "duplicate") {
		t.Fatalf("expected duplicate error, got %v", err)
	}
}

func TestRegistryValidate_DetectsInvalidDefinitions(t *testing.T) {
	tests := []struct {
		name string
		def  Definition[*counterWorld]
	}{
		{name: "empty kind", def: Definition[*counterWorld]{New: func() Effect[*counterWorld] { return &bumpEffect{} }}},
		{name: "bad kind", def: Definition[*counterWorld]{Kind: "Bad-Kind", New: func() Effect[*counterWorld] { return &bumpEffect{} }}},
		{name: "nil constructor", def: Definition[*counterWorld]{Kind: "nil_ctor"}},
		{name: "nil effect", def: Definition[*counterWorld]{Kind: "nil_effect", New: func() Effect[*counterWorld] { return nil }}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := (Registry[*counterWorld]{tt.def}).Validate(); err == nil {
				t.Fatalf("expected %s to fail validation", tt.name)
			}
		})
	}
}

func TestRegistryIndexAndKinds(t *testing.T) {
	registry := Registry[*counterWorld]{
		{Kind: "toggle_lamp", New: func() Effect[*counterWorld] { return &lampEffect{} }},
		{Kind: "bump", New: func() Effect[*counterWorld] { return &bumpEffect{} }},
	}

	index := registry.MustIndex()
	if len(index) != 2 {
		t.Fatalf("expected 2 indexed definitions, got %d", len(index))
	}
	if index["bump"].Removable() {
		t.Fatal("expected bump to be non-removable")
	}
	if !index["toggle_lamp"].Removable() {
		t.Fatal("expected toggle_lamp to be removable")
	}

	kinds := registry.Kinds()
	if kinds[0] != "bump" || kinds[1] != "toggle_lamp" {
		t.Fatalf("expected sorted kinds, got %v", kinds)
	}

	first := index["bump"].Instantiate(ParamsFrom(1))
	second := index["bump"].Instantiate(ParamsFrom(2))
	if first.Params() == second.Params() {
		t.Fatal("expected instances to carry their own parameter blocks")
	}
}

func TestRegistryMustIndexPanicsOnInvalid(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected MustIndex to panic")
		}
	}()
	Registry[*counterWorld]{{Kind: ""}}.MustIndex()
}
