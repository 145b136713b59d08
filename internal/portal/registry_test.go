package portal_test

import (
	"testing"

	"github.com/D-J-Software-Engineers/Notes-Management-System/internal/model"
	"github.com/D-J-Software-Engineers/Notes-Management-System/internal/portal"
)

func newRegistry(t *testing.T) *portal.CombinationRegistry {
	t.Helper()
	registry, err := portal.NewCombinationRegistry(portal.DefaultCombinations())
	if err != nil {
		t.Fatalf("build registry: %v", err)
	}
	return registry
}

func TestRegistryRejectsBadDefinitions(t *testing.T) {
	cases := map[string][]model.CombinationDefinition{
		"two subjects": {
			{Code: "XY", Name: "Broken", Subjects: []string{"X", "Y"}},
		},
		"empty code": {
			{Code: "", Name: "Broken", Subjects: []string{"X", "Y", "Z"}},
		},
		"duplicate code": {
			{Code: "PCM", Name: "First", Subjects: []string{"Physics", "Chemistry", "Mathematics"}},
			{Code: "pcm", Name: "Second", Subjects: []string{"Physics", "Chemistry", "Music"}},
		},
	}
	for name, defs := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := portal.NewCombinationRegistry(defs); err == nil {
				t.Fatal("expected constructor error")
			}
		})
	}
}

func TestRegistryLookup(t *testing.T) {
	registry := newRegistry(t)

	def, err := registry.Lookup("pcm")
	if err != nil {
		t.Fatalf("lookup pcm: %v", err)
	}
	if def.Code != "PCM" {
		t.Fatalf("expected PCM, got %s", def.Code)
	}

	if _, err := registry.Lookup("XYZ"); !portal.IsNotFound(err) {
		t.Fatalf("expected not-found error, got %v", err)
	}
	if !registry.Has("PCB") || registry.Has("XYZ") {
		t.Fatal("Has gave wrong answer")
	}
}

func TestDeriveCodeRoundTrip(t *testing.T) {
	registry := newRegistry(t)

	// Every definition must be derivable from its own subject codes.
	for _, def := range registry.Definitions() {
		codes := portal.SubjectCodes(def)
		derived, err := registry.DeriveCode(codes)
		if err != nil {
			t.Fatalf("derive %s from %v: %v", def.Code, codes, err)
		}
		if derived != def.Code {
			t.Fatalf("derived %s, expected %s", derived, def.Code)
		}
	}
}

func TestDeriveCodeOrderInsensitive(t *testing.T) {
	registry := newRegistry(t)

	derived, err := registry.DeriveCode([]string{"m", " C ", "P"})
	if err != nil {
		t.Fatalf("derive: %v", err)
	}
	if derived != "PCM" {
		t.Fatalf("expected PCM, got %s", derived)
	}
}

func TestDeriveCodeRejectsBadInput(t *testing.T) {
	registry := newRegistry(t)

	cases := map[string][]string{
		"too few":       {"P", "C"},
		"duplicates":    {"P", "P", "C"},
		"unknown set":   {"P", "C", "Z"},
		"empty entries": {"", "", ""},
		"four subjects": {"P", "C", "M", "B"},
	}
	for name, codes := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := registry.DeriveCode(codes); !portal.IsValidation(err) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}
