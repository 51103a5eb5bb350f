package weblookup

import (
	"regexp"
	"sort"
	"strings"
)

// legalKeywords is the Dutch legal-vocabulary set used to detect
// juridically relevant content (original_source/src/services/web_lookup/
// juridisch_ranker.py's JURIDISCHE_KEYWORDS.
var legalKeywords = []string{
	"wetboek", "artikel", "wet", "recht", "rechter", "vonnis", "uitspraak",
	"rechtspraak", "juridisch", "wettelijk", "strafbaar", "rechtbank",
	"gerechtshof", "hoge raad",
	"strafrecht", "verdachte", "beklaagde", "dagvaarding", "veroordeling",
	"vrijspraak", "schuldig", "delict", "misdrijf", "overtreding",
	"burgerlijk", "civiel", "overeenkomst", "contract", "schadevergoeding",
	"aansprakelijkheid",
	"bestuursrecht", "beschikking", "besluit", "bezwaar", "beroep", "awb",
	"procedure", "proces", "hoger beroep", "cassatie", "appel",
	"sr", "sv", "rv", "bw",
}

var legalKeywordPatterns = compileKeywordPatterns(legalKeywords)

func compileKeywordPatterns(keywords []string) []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, len(keywords))
	for i, kw := range keywords {
		patterns[i] = regexp.MustCompile(`\b` + regexp.QuoteMeta(kw) + `\b`)
	}
	return patterns
}

// legalDomains are source URLs treated as authoritative juridical
// sources, boosted over generic sources like Wikipedia.
var legalDomains = []string{
	"rechtspraak.nl", "overheid.nl", "wetgeving.nl", "wetten.overheid.nl",
	"officielebekendmakingen.nl", "zoekservice.overheid.nl",
	"repository.overheid.nl", "data.rechtspraak.nl",
}

var articlePattern = regexp.MustCompile(`(?i)\b(?:artikel|art\.?)\s+(\d+[a-z]?)\b`)
var ledPattern = regexp.MustCompile(`(?i)\b(?:lid|eerste|tweede|derde|vierde|vijfde)\s+(?:lid\s+)?(\d+|eerste|tweede|derde|vierde|vijfde)\b`)

// IsJuridicalSource reports whether url belongs to a recognized
// juridical domain.
func IsJuridicalSource(url string) bool {
	if url == "" {
		return false
	}
	lower := strings.ToLower(url)
	for _, domain := range legalDomains {
		if strings.Contains(lower, domain) {
			return true
		}
	}
	return false
}

func countLegalKeywords(text string) int {
	if text == "" {
		return 0
	}
	lower := strings.ToLower(text)
	count := 0
	for _, pattern := range legalKeywordPatterns {
		if pattern.MatchString(lower) {
			count++
		}
	}
	return count
}

func legalBoostFactor(result LookupResult, context []string) float64 {
	boost := 1.0

	if IsJuridicalSource(result.URL) {
		boost *= 1.2
	}

	if keywordCount := countLegalKeywords(result.Snippet); keywordCount > 0 {
		keywordBoost := minFloat(powFloat(1.1, keywordCount), 1.3)
		boost *= keywordBoost
	}

	if articlePattern.MatchString(result.Snippet) {
		boost *= 1.15
	}
	if ledPattern.MatchString(result.Snippet) {
		boost *= 1.05
	}

	if len(context) > 0 {
		lowerSnippet := strings.ToLower(result.Snippet)
		matches := 0
		for _, c := range context {
			if strings.Contains(lowerSnippet, strings.ToLower(c)) {
				matches++
			}
		}
		if matches > 0 {
			boost *= minFloat(powFloat(1.1, matches), 1.3)
		}
	}

	return boost
}

func powFloat(base float64, exp int) float64 {
	result := 1.0
	for i := 0; i < exp; i++ {
		result *= base
	}
	return result
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

// RankJuridisch applies the legal-domain boost to every result's score
// and re-sorts by score descending, highest first. It adjusts score only;
// used_in_prompt selection order is decided downstream.
func RankJuridisch(results []LookupResult, context []string) []LookupResult {
	if len(results) == 0 {
		return results
	}

	ranked := make([]LookupResult, len(results))
	copy(ranked, results)

	for i := range ranked {
		boost := legalBoostFactor(ranked[i], context)
		ranked[i].Score = minFloat(ranked[i].Score*boost, 1.0)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	return ranked
}
