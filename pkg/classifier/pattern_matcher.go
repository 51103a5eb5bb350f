package classifier

import (
	"regexp"
	"strings"

	"github.com/Chris-Lehnen-ICT-CONSULTING/definitie-engine/pkg/domain"
	"github.com/Chris-Lehnen-ICT-CONSULTING/definitie-engine/pkg/lexicon"
)

// categoryPatterns is one UFO category's regex/keyword/weight triple.
type categoryPatterns struct {
	patterns []*regexp.Regexp
	keywords []string
	weight   float64
}

// disambiguationRule is one (regex, category) override for an ambiguous
// term (Disambiguation).
type disambiguationRule struct {
	pattern  *regexp.Regexp
	category domain.UFOCategory
}

// PatternMatcher holds, per UFO category, the regex/keyword/weight triple,
// and per ambiguous term a disambiguation rule list.
type PatternMatcher struct {
	lexicon        *lexicon.Lexicon
	byCategory     map[domain.UFOCategory]categoryPatterns
	disambiguation map[string][]disambiguationRule
}

func mustCompile(pattern string) *regexp.Regexp {
	return regexp.MustCompile(pattern)
}

// NewPatternMatcher builds the regex/keyword pattern catalog for the 8
// primary UFO categories. The 8 subcategories are not in this catalog:
// step 9 picks them by keyword phrases in classifier.go's
// refineSubcategory, mirroring original_source's _refine_with_subcategories.
func NewPatternMatcher(lex *lexicon.Lexicon) *PatternMatcher {
	pm := &PatternMatcher{
		lexicon:    lex,
		byCategory: map[domain.UFOCategory]categoryPatterns{},
	}

	pm.byCategory[domain.UFOKind] = categoryPatterns{
		patterns: []*regexp.Regexp{mustCompile(`\b(?:roerende|onroerende)\s+zaak\b`)},
		keywords: []string{"persoon", "organisatie", "document", "gebouw", "zelfstandige entiteit"},
		weight:   1.0,
	}
	pm.byCategory[domain.UFOEvent] = categoryPatterns{
		patterns: []*regexp.Regexp{mustCompile(`\w+(?:ing|atie|itie)\b`)},
		keywords: []string{"tijdens", "gedurende", "proces", "procedure", "handeling", "gebeurtenis"},
		weight:   1.0,
	}
	pm.byCategory[domain.UFORole] = categoryPatterns{
		patterns: []*regexp.Regexp{mustCompile(`in de hoedanigheid van`)},
		keywords: []string{"verdachte", "dader", "koper", "verkoper", "eigenaar", "hoedanigheid"},
		weight:   1.0,
	}
	pm.byCategory[domain.UFOPhase] = categoryPatterns{
		patterns: []*regexp.Regexp{mustCompile(`\bin\s+onderzoek\b`)},
		keywords: []string{"voorlopig", "definitief", "actief", "inactief", "fase", "stadium"},
		weight:   1.0,
	}
	pm.byCategory[domain.UFORelator] = categoryPatterns{
		patterns: []*regexp.Regexp{mustCompile(`tussen\s+\w+\s+en\s+\w+`)},
		keywords: []string{"contract", "verbintenis", "overeenkomst", "vergunning", "huwelijk"},
		weight:   1.0,
	}
	pm.byCategory[domain.UFOMode] = categoryPatterns{
		patterns: []*regexp.Regexp{mustCompile(`behorend bij`)},
		keywords: []string{"eigenschap", "kenmerk", "toestand", "conditie", "gezondheid", "locatie"},
		weight:   1.0,
	}
	pm.byCategory[domain.UFOQuantity] = categoryPatterns{
		patterns: []*regexp.Regexp{mustCompile(`\d+\s*(?:euro|eur|€|%)`)},
		keywords: []string{"bedrag", "aantal", "hoeveelheid", "percentage"},
		weight:   1.0,
	}
	pm.byCategory[domain.UFOQuality] = categoryPatterns{
		patterns: []*regexp.Regexp{mustCompile(`mate van|graad van`)},
		keywords: []string{"kwaliteit", "hoedanigheid", "ernst", "zwaarte", "betrouwbaarheid", "waarschijnlijkheid"},
		weight:   1.0,
	}

	pm.disambiguation = map[string][]disambiguationRule{
		"zaak": {
			{mustCompile(`(?:rechts|straf|civiele)\s*zaak`), domain.UFOEvent},
			{mustCompile(`zaak\s+(?:voor|bij)\s+de\s+rechter`), domain.UFOEvent},
			{mustCompile(`(?:roerende|onroerende)\s+zaak`), domain.UFOKind},
			{mustCompile(`zaak\s+(?:als|zoals)\s+(?:auto|gebouw|voorwerp)`), domain.UFOKind},
			// original_source references UFOCategory.ABSTRACT here, a
			// category that does not exist in its own 16-value enum
			// (Open Question). Coerced to the nearest defined
			// category, Kind. No note marks the coercion itself; a match
			// adds the usual disambiguation notes, and only when it
			// changes the step result (see classifier.go).
			{mustCompile(`de\s+zaak\s+van\s+(?:verdachte|eisende partij)`), domain.UFOKind},
		},
		"huwelijk": {
			{mustCompile(`(?:sluiten|voltrekken|aangaan)\s+(?:van\s+)?(?:een\s+)?huwelijk`), domain.UFOEvent},
			{mustCompile(`huwelijks(?:voltrekking|sluiting|ceremonie)`), domain.UFOEvent},
			{mustCompile(`(?:staat|band|verbintenis)\s+van\s+het\s+huwelijk`), domain.UFORelator},
			{mustCompile(`huwelijk\s+tussen`), domain.UFORelator},
			{mustCompile(`gehuwd\s+(?:zijn|paar|stel)`), domain.UFORelator},
		},
		"overeenkomst": {
			{mustCompile(`(?:sluiten|aangaan|tekenen)\s+(?:van\s+)?(?:een\s+)?overeenkomst`), domain.UFOEvent},
			{mustCompile(`overeenkomst\s+(?:komt\s+)?tot\s+stand`), domain.UFOEvent},
			{mustCompile(`(?:koop|huur|arbeids)overeenkomst`), domain.UFORelator},
			{mustCompile(`overeenkomst\s+tussen\s+partijen`), domain.UFORelator},
			{mustCompile(`document\s+van\s+de\s+overeenkomst`), domain.UFOKind},
		},
		"procedure": {
			{mustCompile(`(?:start|begin|aanvang)\s+(?:van\s+)?(?:de\s+)?procedure`), domain.UFOEvent},
			{mustCompile(`procedure\s+(?:duurt|neemt|vergt)`), domain.UFOEvent},
			{mustCompile(`(?:bezwaar|beroeps|klacht)procedure`), domain.UFOEvent},
			{mustCompile(`volgens\s+de\s+procedure`), domain.UFOKind},
			{mustCompile(`procedurele\s+(?:regel|voorschrift)`), domain.UFOKind},
		},
		"vergunning": {
			{mustCompile(`(?:aanvragen|verlenen|verstrekken)\s+(?:van\s+)?(?:een\s+)?vergunning`), domain.UFOEvent},
			{mustCompile(`vergunning(?:verlening|aanvraag)`), domain.UFOEvent},
			{mustCompile(`(?:bouw|milieu|omgevings)vergunning`), domain.UFORelator},
			{mustCompile(`vergunning\s+voor`), domain.UFORelator},
			{mustCompile(`document\s+van\s+de\s+vergunning`), domain.UFOKind},
		},
		"besluit": {
			{mustCompile(`(?:nemen|maken)\s+(?:van\s+)?(?:een\s+)?besluit`), domain.UFOEvent},
			{mustCompile(`besluitvorming(?:sproces)?`), domain.UFOEvent},
			{mustCompile(`(?:bestuurs|rechterlijk)\s+besluit`), domain.UFORelator},
			{mustCompile(`besluit\s+(?:van|door)\s+(?:het\s+)?(?:bestuur|rechter)`), domain.UFORelator},
			{mustCompile(`schriftelijk\s+besluit`), domain.UFOKind},
		},
	}

	return pm
}

// PrimaryCategories lists the 8 categories FindAllMatches / MatchesForCategory
// scan for; the remaining 8 UFO categories are subcategories only reachable
// through step 9's refinement.
func (pm *PatternMatcher) PrimaryCategories() []domain.UFOCategory {
	return []domain.UFOCategory{
		domain.UFOKind, domain.UFOEvent, domain.UFORole, domain.UFOPhase,
		domain.UFORelator, domain.UFOMode, domain.UFOQuantity, domain.UFOQuality,
	}
}

// MatchesForCategory returns every pattern/keyword hit for a single
// category, independent of every other category's computation. This
// independence is what lets the classifier score all 8 categories
// concurrently.
func (pm *PatternMatcher) MatchesForCategory(category domain.UFOCategory, text string) []string {
	lower := strings.ToLower(text)
	cp, ok := pm.byCategory[category]
	if !ok {
		return nil
	}
	var hits []string
	for _, pattern := range cp.patterns {
		if pattern.MatchString(lower) {
			hits = append(hits, "pattern:"+pattern.String())
		}
	}
	for _, keyword := range cp.keywords {
		if strings.Contains(lower, keyword) {
			hits = append(hits, "keyword:"+keyword)
		}
	}
	return hits
}

// FindAllMatches finds every match for every one of the 8 primary
// categories, no early exit. Legal-lexicon hits are appended
// under every category that matched structurally, since the lexicon itself
// carries no per-category mapping.
func (pm *PatternMatcher) FindAllMatches(text string) map[domain.UFOCategory][]string {
	matches := make(map[domain.UFOCategory][]string)

	for _, category := range pm.PrimaryCategories() {
		if hits := pm.MatchesForCategory(category, text); len(hits) > 0 {
			matches[category] = hits
		}
	}

	legalHits := pm.lexicon.FindMatchingTerms(text)
	for d, terms := range legalHits {
		for category := range matches {
			for _, term := range terms {
				matches[category] = append(matches[category], "legal["+string(d)+"]:"+term)
			}
		}
	}

	return matches
}

// ApplyDisambiguation overrides the category for a term known to be
// ambiguous, if its definition matches one of the term's disambiguation
// patterns. Returns ok=false when no rule applies.
func (pm *PatternMatcher) ApplyDisambiguation(term, definition string) (category domain.UFOCategory, explanation string, ok bool) {
	rules, found := pm.disambiguation[strings.ToLower(term)]
	if !found {
		return "", "", false
	}
	lowerDef := strings.ToLower(definition)
	for _, rule := range rules {
		if rule.pattern.MatchString(lowerDef) {
			explanation = "term '" + term + "' gedisambigueerd naar " + string(rule.category) +
				" op basis van patroon: " + rule.pattern.String()
			return rule.category, explanation, true
		}
	}
	return "", "", false
}
