// Package lexicon holds the Dutch legal-domain dictionaries consulted by
// pkg/classifier's PatternMatcher, grounded on
// original_source's DutchLegalLexicon ("500+ termen, georganiseerd per
// rechtsgebied").
package lexicon

import "strings"

// Domain names the four legal subdomains the lexicon is organized by
// (requires at least these four).
type Domain string

const (
	DomainCriminal       Domain = "strafrecht"
	DomainAdministrative Domain = "bestuursrecht"
	DomainCivil          Domain = "civielrecht"
	DomainGeneral        Domain = "algemeen"
)

// Lexicon is an in-memory mapping domain -> set<term>.
type Lexicon struct {
	terms map[Domain]map[string]struct{}
}

func New() *Lexicon {
	l := &Lexicon{terms: map[Domain]map[string]struct{}{
		DomainCriminal:       toSet(criminalTerms),
		DomainAdministrative: toSet(administrativeTerms),
		DomainCivil:          toSet(civilTerms),
		DomainGeneral:        toSet(generalTerms),
	}}
	return l
}

func toSet(terms []string) map[string]struct{} {
	s := make(map[string]struct{}, len(terms))
	for _, t := range terms {
		s[t] = struct{}{}
	}
	return s
}

// Contains reports whether term belongs to domain's vocabulary.
func (l *Lexicon) Contains(domain Domain, term string) bool {
	set, ok := l.terms[domain]
	if !ok {
		return false
	}
	_, found := set[strings.ToLower(term)]
	return found
}

// Domains returns every domain the lexicon is organized by.
func (l *Lexicon) Domains() []Domain {
	return []Domain{DomainCriminal, DomainAdministrative, DomainCivil, DomainGeneral}
}

// FindMatchingTerms scans text for every lexicon term, across all domains,
// returning domain -> matched terms (find_matching_terms).
func (l *Lexicon) FindMatchingTerms(text string) map[Domain][]string {
	lower := strings.ToLower(text)
	result := make(map[Domain][]string)
	for domain, set := range l.terms {
		var matched []string
		for term := range set {
			if strings.Contains(lower, term) {
				matched = append(matched, term)
			}
		}
		if len(matched) > 0 {
			result[domain] = matched
		}
	}
	return result
}

var criminalTerms = []string{
	"strafrecht", "verdachte", "beklaagde", "dagvaarding", "veroordeling",
	"vrijspraak", "schuldig", "delict", "misdrijf", "overtreding",
	"voorlopige hechtenis", "reclassering", "detentie", "vervoersverbod",
	"proces-verbaal", "aanhouding", "tenuitvoerlegging",
}

var administrativeTerms = []string{
	"bestuursrecht", "beschikking", "besluit", "bezwaar", "beroep",
	"awb", "vergunning", "handhaving", "sanctie", "toezicht",
	"bestuursorgaan", "mandaat", "delegatie",
}

var civilTerms = []string{
	"burgerlijk", "civiel", "overeenkomst", "contract", "schadevergoeding",
	"aansprakelijkheid", "huwelijk", "echtscheiding", "erfrecht", "eigendom",
}

var generalTerms = []string{
	"wetboek", "artikel", "wet", "recht", "rechter", "vonnis", "uitspraak",
	"rechtspraak", "juridisch", "wettelijk", "rechtbank", "gerechtshof",
	"hoge raad", "procedure", "hoger beroep", "cassatie",
}
