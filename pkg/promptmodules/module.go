// Package promptmodules holds the independent prompt fragments composed by
// pkg/promptorchestrator into one generation prompt. Each
// module is a pure function of (term, ModuleContext, shared-state snapshot).
package promptmodules

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Chris-Lehnen-ICT-CONSULTING/definitie-engine/pkg/domain"
)

// SharedState is the module-to-module write bus: writes from
// a later module never affect earlier ones, so modules only ever read the
// snapshot taken before they ran.
type SharedState map[string]any

// Snapshot returns a shallow copy so a module can read what ran before it
// without being able to mutate the live bus.
func (s SharedState) Snapshot() SharedState {
	snap := make(SharedState, len(s))
	for k, v := range s {
		snap[k] = v
	}
	return snap
}

// ModuleContext is the read-only input every module receives.
type ModuleContext struct {
	Term                  string
	OrganizationalContext []string
	JuridicalContext      []string
	LegalBasis            []string
	OntologicalCategory   *domain.OntologicalCategory
	Synonyms              []domain.WeightedSynonym
	Feedback              []FeedbackEntry
	Sources               []domain.Provenance
	CompactMode           bool
}

// FeedbackEntry is one prior validation failure surfaced to the prompt.
type FeedbackEntry struct {
	Type    string
	Content string
}

// Module is the contract every prompt fragment implements.
type Module interface {
	ID() string
	Priority() int
	Execute(ctx ModuleContext, shared SharedState) (domain.PromptModuleOutput, error)
}

// Abbreviations expands common Dutch government acronyms referenced by
// ContextAwareness and, in pkg/validation, by the
// context-leakage rule's verbatim check.
var Abbreviations = map[string]string{
	"OM":  "Openbaar Ministerie",
	"DJI": "Dienst Justitiële Inrichtingen",
	"AVG": "Algemene Verordening Gegevensbescherming",
	"RvS": "Raad van State",
	"IND": "Immigratie- en Naturalisatiedienst",
	"UWV": "Uitvoeringsinstituut Werknemersverzekeringen",
}

func expandAbbreviations(items []string) []string {
	expanded := make([]string, len(items))
	for i, item := range items {
		if full, ok := Abbreviations[item]; ok {
			expanded[i] = fmt.Sprintf("%s (%s)", item, full)
			continue
		}
		expanded[i] = item
	}
	return expanded
}

// inferWordClass is Expertise's shared_state contribution:
// a coarse lexical guess from the term's surface form, written to
// shared_state as "word_class". No module in this package reads it back.
func inferWordClass(term string) string {
	lower := strings.ToLower(strings.TrimSpace(term))
	switch {
	case strings.HasSuffix(lower, "ing") || strings.HasSuffix(lower, "atie") || strings.HasSuffix(lower, "itie"):
		return "verbal-noun"
	case strings.HasSuffix(lower, "heid") || strings.HasSuffix(lower, "schap") || strings.HasSuffix(lower, "isme"):
		return "abstract-noun"
	default:
		return "other"
	}
}

// Catalog16 returns the 16-module catalog in descending-priority order,
// already sorted per the orchestrator contract.
func Catalog16() []Module {
	modules := []Module{
		&expertiseModule{},
		&outputSpecificationModule{},
		&contextAwarenessModule{},
		&semanticCategorisationModule{},
		&templateModule{},
		&grammarModule{},
		&errorPreventionModule{},
		newRuleModule("ARAI", 60, araiRules),
		newRuleModule("CON", 59, conRules),
		newRuleModule("ESS", 58, essRules),
		newRuleModule("INT", 57, intRules),
		newRuleModule("SAM", 56, samRules),
		newRuleModule("STR", 55, strRules),
		newRuleModule("VER", 54, verRules),
		&definitionTaskModule{},
		&metricsModule{},
	}
	sortByPriority(modules)
	return modules
}

// Catalog9 returns the consolidated variant: the seven rule-family modules
// merge into UnifiedValidationRules, and Grammar+Template merge into
// LinguisticRules, without losing any rule content.
func Catalog9() []Module {
	modules := []Module{
		&expertiseModule{},
		&outputSpecificationModule{},
		&contextAwarenessModule{},
		&semanticCategorisationModule{},
		&linguisticRulesModule{},
		&errorPreventionModule{},
		&unifiedValidationRulesModule{},
		&definitionTaskModule{},
		&metricsModule{},
	}
	sortByPriority(modules)
	return modules
}

func sortByPriority(modules []Module) {
	sort.SliceStable(modules, func(i, j int) bool {
		return modules[i].Priority() > modules[j].Priority()
	})
}

func categoryLabel(category *domain.OntologicalCategory) string {
	if category == nil {
		return ""
	}
	return string(*category)
}

func formatList(items []string) string {
	if len(items) == 0 {
		return "(geen)"
	}
	return strings.Join(items, ", ")
}
