// Package classifier assigns a UFO/OntoUML ontological category to a term
// and its generated definition, grounded on original_source's
// COMPLETE_UFO_CLASSIFIER_CODE.py 9-step decision procedure.
package classifier

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/Chris-Lehnen-ICT-CONSULTING/definitie-engine/pkg/domain"
)

// strengthOrder ranks the 8 primary categories from most generic (1) to
// most specific (5), mirroring original_source's _has_stronger_category.
// Role and Phase tie at 3; Mode, Quantity, and Quality tie at 5.
// Subcategories produced by step 9 are not ranked; they never compete in
// the dominance check because step 9 runs last and unconditionally.
var strengthOrder = map[domain.UFOCategory]int{
	domain.UFOKind:     1,
	domain.UFOEvent:    2,
	domain.UFORole:     3,
	domain.UFOPhase:    3,
	domain.UFORelator:  4,
	domain.UFOMode:     5,
	domain.UFOQuantity: 5,
	domain.UFOQuality:  5,
}

// dominanceMargin is the factor by which another matched category's count
// must exceed the candidate category's count to block promotion
// ("1.5x dominance" rule).
const dominanceMargin = 1.5

// UFOClassifier implements the 9-step decision procedure.
type UFOClassifier struct {
	matcher *PatternMatcher
}

func NewUFOClassifier(matcher *PatternMatcher) *UFOClassifier {
	return &UFOClassifier{matcher: matcher}
}

// Classify scores term+definition against every UFO category, applies the
// stepwise decision procedure to pick a primary category, and returns the
// full classification result with its audit trail.
func (c *UFOClassifier) Classify(ctx context.Context, term, definition string, juridicalContext []string) (*domain.UFOClassificationResult, error) {
	matches, err := c.scoreAllCategories(ctx, definition)
	if err != nil {
		return nil, fmt.Errorf("scoring categories: %w", err)
	}

	primary, decisionPath := c.decide(matches, definition, nil)

	// One disambiguation rule ("de zaak van verdachte/eisende partij")
	// corresponds to an undefined enum member in original_source
	// (Open Question); pattern_matcher.go coerces it to Kind,
	// the most generic category, at rule-definition time.
	//
	// Disambiguation only overrides the 9-step result, never replaces it:
	// the full decision path always runs first, and a disambiguation
	// match that agrees with the step result leaves primary untouched.
	var disambiguationNotes []string
	if category, explanation, ok := c.matcher.ApplyDisambiguation(term, definition); ok && category != primary {
		disambiguationNotes = append(disambiguationNotes,
			explanation,
			fmt.Sprintf("Oorspronkelijke classificatie: %s, Na disambiguatie: %s", primary, category))
		primary = category
	}

	result := c.buildResult(term, definition, primary, matches, decisionPath, disambiguationNotes, juridicalContext)
	return result, nil
}

// scoreAllCategories computes every primary category's match list
// concurrently (each category's regex/keyword scan is independent), then
// folds in the shared legal-lexicon scan sequentially.
func (c *UFOClassifier) scoreAllCategories(ctx context.Context, definition string) (map[domain.UFOCategory][]string, error) {
	categories := c.matcher.PrimaryCategories()
	hits := make([][]string, len(categories))

	g, _ := errgroup.WithContext(ctx)
	for i, category := range categories {
		i, category := i, category
		g.Go(func() error {
			hits[i] = c.matcher.MatchesForCategory(category, definition)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	matches := make(map[domain.UFOCategory][]string, len(categories))
	for i, category := range categories {
		if len(hits[i]) > 0 {
			matches[category] = hits[i]
		}
	}

	legalHits := c.matcher.lexicon.FindMatchingTerms(definition)
	for d, terms := range legalHits {
		for category := range matches {
			for _, term := range terms {
				matches[category] = append(matches[category], "legal["+string(d)+"]:"+term)
			}
		}
	}

	return matches, nil
}

// hasStrongerCategory reports whether some other matched category with a
// lower strength rank than candidate has more than dominanceMargin times
// candidate's match count; if so, candidate must not be promoted yet.
func (c *UFOClassifier) hasStrongerCategory(matches map[domain.UFOCategory][]string, candidate domain.UFOCategory) bool {
	candidateCount := len(matches[candidate])
	candidateRank := strengthOrder[candidate]
	for other, hits := range matches {
		if other == candidate {
			continue
		}
		if strengthOrder[other] >= candidateRank {
			continue
		}
		if float64(len(hits)) > float64(candidateCount)*dominanceMargin {
			return true
		}
	}
	return false
}

// decide runs the 9-step sequential procedure over precomputed matches.
func (c *UFOClassifier) decide(matches map[domain.UFOCategory][]string, definition string, decisionPath []string) (domain.UFOCategory, []string) {
	steps := []struct {
		name     string
		category domain.UFOCategory
	}{
		{"step1_kind", domain.UFOKind},
		{"step2_event", domain.UFOEvent},
		{"step3_role", domain.UFORole},
		{"step4_phase", domain.UFOPhase},
		{"step5_relator", domain.UFORelator},
		{"step6_mode", domain.UFOMode},
		{"step7_quantity", domain.UFOQuantity},
		{"step8_quality", domain.UFOQuality},
	}

	for _, step := range steps {
		hits, matched := matches[step.category]
		gate := matched && len(hits) >= 1
		if matched && len(hits) >= 2 {
			decisionPath = append(decisionPath, fmt.Sprintf("%s: strong match (%d hits)", step.name, len(hits)))
		}
		if !gate {
			decisionPath = append(decisionPath, step.name+": no match")
			continue
		}
		if c.hasStrongerCategory(matches, step.category) {
			decisionPath = append(decisionPath, step.name+": suppressed by stronger category")
			continue
		}
		decisionPath = append(decisionPath, step.name+": selected "+string(step.category))
		return step.category, decisionPath
	}

	refined, note := c.refineSubcategory(definition)
	decisionPath = append(decisionPath, "step9_subcategory: "+note)
	if refined != "" {
		return refined, decisionPath
	}

	decisionPath = append(decisionPath, "fallback: Kind (no step matched)")
	return domain.UFOKind, decisionPath
}

// refineSubcategory mirrors original_source's _refine_with_subcategories:
// keyword phrases over the definition text pick one of the 8
// subcategories, independent of the strength/dominance machinery used for
// primaries.
func (c *UFOClassifier) refineSubcategory(definition string) (domain.UFOCategory, string) {
	lower := strings.ToLower(definition)

	hasAny := func(words ...string) bool {
		for _, w := range words {
			if strings.Contains(lower, w) {
				return true
			}
		}
		return false
	}

	switch {
	case hasAny("groep", "verzameling", "team"):
		switch {
		case hasAny("vast", "bepaald"):
			return domain.UFOFixedCollection, "groep/verzameling met vaste samenstelling"
		case hasAny("variabel", "wisselend"):
			return domain.UFOVariableCollection, "groep/verzameling met wisselende samenstelling"
		default:
			return domain.UFOCollective, "groep/verzameling zonder nadere specificatie"
		}
	case hasAny("gemeenschappelijk", "gedeeld"):
		switch {
		case hasAny("rol"):
			return domain.UFORoleMixin, "gedeeld kenmerk gebonden aan een rol"
		case hasAny("fase"):
			return domain.UFOPhaseMixin, "gedeeld kenmerk gebonden aan een fase"
		default:
			return domain.UFOMixin, "gedeeld kenmerk zonder rol- of fasebinding"
		}
	case hasAny("soort van", "type van"):
		return domain.UFOSubkind, "specialisatie van een bestaande soort"
	case hasAny("categorie", "klasse"):
		return domain.UFOCategoryCat, "classificerend begrip over meerdere soorten"
	default:
		return "", "geen subcategorie-indicatoren gevonden"
	}
}

// domainRelevance is original_source's _is_relevant_for_domain table: the
// categories a given juridical domain lends its +0.1 scoring bonus to.
var domainRelevance = map[string][]domain.UFOCategory{
	"strafrecht":         {domain.UFOEvent, domain.UFORole, domain.UFOPhase},
	"bestuursrecht":      {domain.UFORelator, domain.UFOKind, domain.UFOEvent},
	"civiel_recht":       {domain.UFORelator, domain.UFORole, domain.UFOKind},
	"algemeen_juridisch": {domain.UFOKind, domain.UFOCategoryCat, domain.UFOMixin},
}

func isRelevantForDomain(category domain.UFOCategory, juridicalDomain string) bool {
	for _, relevant := range domainRelevance[juridicalDomain] {
		if relevant == category {
			return true
		}
	}
	return false
}

// buildResult computes per-category scores, confidence, secondary
// categories, and the detailed explanation, then assembles the final
// result.
func (c *UFOClassifier) buildResult(term, definition string, primary domain.UFOCategory, matches map[domain.UFOCategory][]string, decisionPath, disambiguationNotes, juridicalContext []string) *domain.UFOClassificationResult {
	lowerDef := strings.ToLower(definition)
	hedge := strings.Contains(lowerDef, "mogelijk") || strings.Contains(lowerDef, "waarschijnlijk")

	var juridicalDomain string
	if len(juridicalContext) > 0 {
		juridicalDomain = juridicalContext[0]
	}

	scores := make(map[domain.UFOCategory]float64, len(domain.AllUFOCategories))
	for _, category := range domain.AllUFOCategories {
		count := len(matches[category])
		score := 0.0
		if count > 0 {
			score = float64(count) * 0.2
			if score > 0.8 {
				score = 0.8
			}
		}
		if juridicalDomain != "" && isRelevantForDomain(category, juridicalDomain) {
			score += 0.1
		}
		if hedge {
			score *= 0.9
		}
		if score > 1.0 {
			score = 1.0
		}
		scores[category] = score
	}

	primaryScore := scores[primary]
	confidence := primaryScore

	var totalMatchCount int
	for _, hits := range matches {
		totalMatchCount += len(hits)
	}
	switch {
	case totalMatchCount > 10:
		confidence += 0.2
	case totalMatchCount > 5:
		confidence += 0.1
	}

	sortedCategories := make([]domain.UFOCategory, 0, len(scores))
	for category := range scores {
		sortedCategories = append(sortedCategories, category)
	}
	sort.Slice(sortedCategories, func(i, j int) bool {
		return scores[sortedCategories[i]] > scores[sortedCategories[j]]
	})

	var runnerUp float64
	for _, category := range sortedCategories {
		if category != primary {
			runnerUp = scores[category]
			break
		}
	}
	if primaryScore-runnerUp > 0.3 {
		confidence += 0.15
	}

	aboveThreshold := 0
	for _, score := range scores {
		if score > 0.4 {
			aboveThreshold++
		}
	}
	if aboveThreshold > 3 {
		confidence *= 0.8
	}

	if confidence < 0 {
		confidence = 0
	}
	if confidence > 1 {
		confidence = 1
	}

	var secondary []domain.UFOCategory
	for _, category := range sortedCategories {
		if category == primary {
			continue
		}
		if scores[category] < 0.3 {
			break
		}
		secondary = append(secondary, category)
		if len(secondary) == 3 {
			break
		}
	}

	var matchedPatterns []string
	for _, hits := range matches {
		matchedPatterns = append(matchedPatterns, hits...)
	}
	sort.Strings(matchedPatterns)

	explanation := c.explain(term, primary, confidence, decisionPath, matches, sortedCategories, scores, disambiguationNotes, secondary)

	return &domain.UFOClassificationResult{
		Term:                term,
		Definition:          definition,
		PrimaryCategory:     primary,
		SecondaryCategories: secondary,
		Confidence:          confidence,
		AllScores:           scores,
		MatchedPatterns:     matchedPatterns,
		DecisionPath:        decisionPath,
		DisambiguationNotes: disambiguationNotes,
		DetailedExplanation: explanation,
	}
}

func (c *UFOClassifier) explain(term string, primary domain.UFOCategory, confidence float64, decisionPath []string, matches map[domain.UFOCategory][]string, sortedCategories []domain.UFOCategory, scores map[domain.UFOCategory]float64, disambiguationNotes []string, secondary []domain.UFOCategory) []string {
	lines := []string{
		fmt.Sprintf("UFO-classificatie voor '%s'", term),
		fmt.Sprintf("Primaire categorie: %s (confidence %.0f%%)", primary, confidence*100),
	}
	lines = append(lines, "Beslispad:")
	for _, step := range decisionPath {
		lines = append(lines, "  "+step)
	}
	if hits := matches[primary]; len(hits) > 0 {
		lines = append(lines, "Gematchte patronen voor primaire categorie:")
		for i, h := range hits {
			if i >= 5 {
				break
			}
			lines = append(lines, "  "+h)
		}
	}
	lines = append(lines, "Scoreoverzicht:")
	for i, category := range sortedCategories {
		if i >= 8 {
			break
		}
		lines = append(lines, fmt.Sprintf("  %s: %.2f", category, scores[category]))
	}
	for _, note := range disambiguationNotes {
		lines = append(lines, "Disambiguatie: "+note)
	}
	if len(secondary) > 0 {
		var parts []string
		for _, s := range secondary {
			parts = append(parts, fmt.Sprintf("%s (%.2f)", s, scores[s]))
		}
		lines = append(lines, "Secundaire categorieën: "+strings.Join(parts, ", "))
	}
	return lines
}
