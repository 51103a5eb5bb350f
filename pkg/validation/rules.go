// Package validation implements ValidationOrchestrator: a
// schema-normalized wrapper around a set of independent Rego policies, one
// per mandatory rule class, evaluated via open-policy-agent/opa/rego.
package validation

import "github.com/Chris-Lehnen-ICT-CONSULTING/definitie-engine/pkg/domain"

// RuleSpec names one independent Rego package under policies/ and the
// severity its violation carries (mandatory rule classes).
type RuleSpec struct {
	ID       string
	Severity string
	Package  string // Rego package path, e.g. "validation.rules.single_sentence"
}

// severityRank orders violations from most to least severe for stable
// sorting ("ordered by rule id then severity").
var severityRank = map[string]int{
	domain.SeverityCritical: 0,
	"high":                  1,
	"medium":                2,
	"low":                   3,
}

// mandatoryRules is the fixed rule-class list. Order here is
// insertion order only; evaluation is concurrent and final ordering is
// reimposed by sortViolations.
func mandatoryRules() []RuleSpec {
	return []RuleSpec{
		{ID: "SINGLE_SENTENCE", Severity: domain.SeverityCritical, Package: "validation.rules.single_sentence"},
		{ID: "NO_CIRCULAR_REFERENCE", Severity: domain.SeverityCritical, Package: "validation.rules.circular_reference"},
		{ID: "NO_CONTEXT_LEAKAGE", Severity: "high", Package: "validation.rules.context_leakage"},
		{ID: "ONTOLOGICAL_MARKER", Severity: domain.SeverityCritical, Package: "validation.rules.ontological_marker"},
		{ID: "CHARACTER_LIMIT", Severity: "medium", Package: "validation.rules.character_limit"},
		{ID: "FORBIDDEN_STARTER", Severity: domain.SeverityCritical, Package: "validation.rules.forbidden_starter"},
		{ID: "SUBJECTIVE_WORDS", Severity: "low", Package: "validation.rules.subjective_words"},
	}
}
