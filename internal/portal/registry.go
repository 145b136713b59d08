package portal

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/D-J-Software-Engineers/Notes-Management-System/internal/model"
)

// CombinationRegistry is the static table of A-Level subject combinations.
// It is built once at startup, injected into whatever needs it, and never
// mutated afterwards, so concurrent reads need no synchronization.
type CombinationRegistry struct {
	defs  map[string]model.CombinationDefinition
	codes []string // sorted, for stable presentation
}

func NewCombinationRegistry(defs []model.CombinationDefinition) (*CombinationRegistry, error) {
	reg := &CombinationRegistry{defs: make(map[string]model.CombinationDefinition, len(defs))}
	for _, def := range defs {
		code := strings.ToUpper(strings.TrimSpace(def.Code))
		if code == "" {
			return nil, fmt.Errorf("combination with empty code")
		}
		if len(def.Subjects) != 3 {
			return nil, fmt.Errorf("combination %s must have exactly 3 subjects, has %d", code, len(def.Subjects))
		}
		if _, dup := reg.defs[code]; dup {
			return nil, fmt.Errorf("duplicate combination code %s", code)
		}
		def.Code = code
		def.Subjects = append([]string(nil), def.Subjects...)
		reg.defs[code] = def
		reg.codes = append(reg.codes, code)
	}
	sort.Strings(reg.codes)
	return reg, nil
}

// Lookup resolves a combination code.
func (r *CombinationRegistry) Lookup(code string) (model.CombinationDefinition, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	def, ok := r.defs[code]
	if !ok {
		return model.CombinationDefinition{}, &NotFoundError{Message: fmt.Sprintf("unknown combination %q", code)}
	}
	return def, nil
}

// Has reports whether the code names a known combination.
func (r *CombinationRegistry) Has(code string) bool {
	_, ok := r.defs[strings.ToUpper(strings.TrimSpace(code))]
	return ok
}

// Definitions returns every combination in stable code order.
func (r *CombinationRegistry) Definitions() []model.CombinationDefinition {
	out := make([]model.CombinationDefinition, 0, len(r.codes))
	for _, code := range r.codes {
		out = append(out, r.defs[code])
	}
	return out
}

// DeriveCode resolves the combination whose subjects match the given
// single-letter subject codes, for registrants who pick three subjects
// rather than a pre-named combination. Codes are trimmed and uppercased;
// order does not matter.
func (r *CombinationRegistry) DeriveCode(subjectCodes []string) (string, error) {
	seen := make(map[string]struct{}, len(subjectCodes))
	for _, code := range subjectCodes {
		code = strings.ToUpper(strings.TrimSpace(code))
		if code == "" {
			continue
		}
		seen[code] = struct{}{}
	}
	if len(seen) != 3 {
		return "", &ValidationError{Message: "exactly 3 distinct subjects are required"}
	}

	for _, code := range r.codes {
		if matchesSubjectSet(r.defs[code], seen) {
			return code, nil
		}
	}
	return "", &ValidationError{Message: "no combination matches the selected subjects"}
}

// SubjectCodes returns the derivable codes of a definition's subjects, in
// subject order.
func SubjectCodes(def model.CombinationDefinition) []string {
	out := make([]string, 0, len(def.Subjects))
	for _, subject := range def.Subjects {
		out = append(out, subjectCode(subject))
	}
	return out
}

func matchesSubjectSet(def model.CombinationDefinition, want map[string]struct{}) bool {
	if len(def.Subjects) != len(want) {
		return false
	}
	for _, subject := range def.Subjects {
		if _, ok := want[subjectCode(subject)]; !ok {
			return false
		}
	}
	return true
}

func subjectCode(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	first, _ := utf8.DecodeRuneInString(name)
	return strings.ToUpper(string(first))
}

// DefaultCombinations is the supported A-Level combination table.
func DefaultCombinations() []model.CombinationDefinition {
	return []model.CombinationDefinition{
		{Code: "PCM", Name: "Physics, Chemistry, Mathematics", Subjects: []string{"Physics", "Chemistry", "Mathematics"}},
		{Code: "PCB", Name: "Physics, Chemistry, Biology", Subjects: []string{"Physics", "Chemistry", "Biology"}},
		{Code: "BCG", Name: "Biology, Chemistry, Geography", Subjects: []string{"Biology", "Chemistry", "Geography"}},
		{Code: "HEG", Name: "History, Economics, Geography", Subjects: []string{"History", "Economics", "Geography"}},
		{Code: "HEL", Name: "History, Economics, Literature", Subjects: []string{"History", "Economics", "Literature"}},
		{Code: "MEG", Name: "Mathematics, Economics, Geography", Subjects: []string{"Mathematics", "Economics", "Geography"}},
		{Code: "DEG", Name: "Divinity, Economics, Geography", Subjects: []string{"Divinity", "Economics", "Geography"}},
		{Code: "MPG", Name: "Mathematics, Physics, Geography", Subjects: []string{"Mathematics", "Physics", "Geography"}},
		{Code: "BCM", Name: "Biology, Chemistry, Mathematics", Subjects: []string{"Biology", "Chemistry", "Mathematics"}},
		{Code: "HGL", Name: "History, Geography, Literature", Subjects: []string{"History", "Geography", "Literature"}},
		{Code: "AKR", Name: "Arabic, Kiswahili, Religious Education", Subjects: []string{"Arabic", "Kiswahili", "Religious Education"}},
	}
}

// OLevelSubjects is the fixed O-Level subject list used by the subjects
// surface.
func OLevelSubjects() []string {
	return []string{
		"Mathematics",
		"English",
		"Physics",
		"Chemistry",
		"Biology",
		"History",
		"Geography",
		"CRE",
		"Agriculture",
		"Commerce",
	}
}
