package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/Chris-Lehnen-ICT-CONSULTING/definitie-engine/pkg/domain"
)

// DuplicateCandidate is one find_duplicates hit.
type DuplicateCandidate struct {
	Record  domain.Definition
	Score   float64
	Reasons []string
}

// FindDuplicates matches term exactly (score 1.0) and, absent an exact
// hit, falls back to token-Jaccard >= 0.7 similarity over the candidate
// pool scoped to the same organizational context.
func (r *Repository) FindDuplicates(ctx context.Context, term, org string, juridical []string) ([]DuplicateCandidate, error) {
	exact, err := r.FindByTerm(ctx, term)
	if err != nil {
		return nil, err
	}
	if len(exact) > 0 {
		candidates := make([]DuplicateCandidate, len(exact))
		for i, d := range exact {
			candidates[i] = DuplicateCandidate{Record: d, Score: 1.0, Reasons: []string{"exact_term_match"}}
		}
		return candidates, nil
	}

	pool, err := r.Search(ctx, SearchQuery{Org: org, Limit: 500})
	if err != nil {
		return nil, fmt.Errorf("loading candidate pool for fuzzy match: %w", err)
	}

	termTokens := tokenize(term)
	var candidates []DuplicateCandidate
	for _, d := range pool {
		score := jaccard(termTokens, tokenize(d.Term))
		if score < 0.7 {
			continue
		}
		reasons := []string{"token_jaccard"}
		if juridicalOverlap(juridical, d.JuridicalContext) {
			reasons = append(reasons, "juridical_context_overlap")
		}
		candidates = append(candidates, DuplicateCandidate{Record: d, Score: score, Reasons: reasons})
	}
	return candidates, nil
}

func tokenize(s string) map[string]bool {
	tokens := make(map[string]bool)
	for _, word := range strings.Fields(strings.ToLower(s)) {
		tokens[word] = true
	}
	return tokens
}

func jaccard(a, b map[string]bool) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1.0
	}
	intersection := 0
	for token := range a {
		if b[token] {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

func juridicalOverlap(a []string, b []string) bool {
	set := make(map[string]bool, len(a))
	for _, v := range a {
		set[strings.ToLower(v)] = true
	}
	for _, v := range b {
		if set[strings.ToLower(v)] {
			return true
		}
	}
	return false
}
