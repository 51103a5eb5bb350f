package validation

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/Chris-Lehnen-ICT-CONSULTING/definitie-engine/internal/config"
	"github.com/Chris-Lehnen-ICT-CONSULTING/definitie-engine/pkg/domain"
	"github.com/Chris-Lehnen-ICT-CONSULTING/definitie-engine/pkg/promptmodules"
)

var (
	sentenceEndPattern = regexp.MustCompile(`[.!?]+(\s|$)`)
	copulaStarters     = []string{"is", "zijn", "wordt", "worden", "betreft", "was", "waren"}
)

// ValidationContext carries per-request correlation data into Validate;
// Options mirrors force_duplicate/other request overrides.
type ValidationContext struct {
	CorrelationID string
	ForceDuplicate bool
	Options        map[string]any
}

// features is the precomputed set of booleans/strings every Rego policy
// reads from input. Extraction stays in Go so the policies themselves hold
// only the pass/fail decision and message, which is what makes editing or
// retiring a rule a file-level change (adding one also needs its RuleSpec
// in mandatoryRules).
type features struct {
	Term                   string   `json:"term"`
	SentenceCount          int      `json:"sentence_count"`
	StartsWithCopula       bool     `json:"starts_with_copula"`
	StartsWithForbidden    bool     `json:"starts_with_forbidden"`
	MatchedStarter         string   `json:"matched_starter"`
	ContainsTermStandalone bool     `json:"contains_term_standalone"`
	ContainsContextVerbatim bool    `json:"contains_context_verbatim"`
	MatchedContext         []string `json:"matched_context"`
	HasOntologicalMarker   bool     `json:"has_ontological_marker"`
	Length                 int      `json:"length"`
	MinLength              int      `json:"min_length"`
	MaxLength              int      `json:"max_length"`
	ContainsSubjectiveWord bool     `json:"contains_subjective_word"`
	MatchedSubjectiveWords []string `json:"matched_subjective_words"`
}

func extractFeatures(definition domain.Definition, cfg config.ValidationConfig) features {
	text := strings.TrimSpace(definition.Text)
	lower := strings.ToLower(text)

	f := features{
		Term:          definition.Term,
		SentenceCount: countSentences(text),
		Length:        utf8.RuneCountInString(text),
		MinLength:     cfg.MinLength,
		MaxLength:     cfg.MaxLength,
		HasOntologicalMarker: strings.TrimSpace(definition.Metadata.OntologicalMarker) != "",
	}

	firstWord := firstWord(lower)
	for _, copula := range copulaStarters {
		if firstWord == copula {
			f.StartsWithCopula = true
			break
		}
	}

	for _, starter := range cfg.ForbiddenStarters {
		if strings.HasPrefix(lower, strings.ToLower(starter)) {
			f.StartsWithForbidden = true
			f.MatchedStarter = starter
			break
		}
	}

	if hasStandaloneWord(lower, strings.ToLower(definition.Term)) {
		f.ContainsTermStandalone = true
	}

	f.MatchedContext = matchedContextStrings(lower, definition.OrganizationalContext, definition.JuridicalContext, definition.LegalBasis)
	f.ContainsContextVerbatim = len(f.MatchedContext) > 0

	for _, word := range cfg.SubjectiveWords {
		if hasStandaloneWord(lower, strings.ToLower(word)) {
			f.ContainsSubjectiveWord = true
			f.MatchedSubjectiveWords = append(f.MatchedSubjectiveWords, word)
		}
	}

	return f
}

func countSentences(text string) int {
	if text == "" {
		return 0
	}
	count := len(sentenceEndPattern.FindAllString(text, -1))
	if count == 0 {
		return 1
	}
	return count
}

func firstWord(lower string) string {
	fields := strings.Fields(lower)
	if len(fields) == 0 {
		return ""
	}
	return strings.Trim(fields[0], ".,;:")
}

func hasStandaloneWord(haystack, word string) bool {
	if word == "" {
		return false
	}
	pattern := `\b` + regexp.QuoteMeta(word) + `\b`
	matched, err := regexp.MatchString(pattern, haystack)
	return err == nil && matched
}

// matchedContextStrings checks organizational/juridical/legal-basis
// strings, and their expanded abbreviation form, for a verbatim mention
// ("including organizational abbreviations after expansion").
func matchedContextStrings(lower string, groups ...[]string) []string {
	var matched []string
	for _, group := range groups {
		for _, item := range group {
			if item == "" {
				continue
			}
			candidates := []string{item}
			if full, ok := promptmodules.Abbreviations[item]; ok {
				candidates = append(candidates, full)
			}
			for _, candidate := range candidates {
				if hasStandaloneWord(lower, strings.ToLower(candidate)) || strings.Contains(lower, strings.ToLower(candidate)) {
					matched = append(matched, candidate)
					break
				}
			}
		}
	}
	return matched
}
