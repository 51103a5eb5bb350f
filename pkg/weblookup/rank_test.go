package weblookup

import "testing"

func TestIsJuridicalSourceRecognizesKnownDomains(t *testing.T) {
	cases := []struct {
		url      string
		expected bool
	}{
		{"https://www.rechtspraak.nl/uitspraken/123", true},
		{"https://www.overheid.nl/zoeken/documenten", true},
		{"https://nl.wikipedia.org/wiki/Vervoersverbod", false},
		{"", false},
	}
	for _, c := range cases {
		if got := IsJuridicalSource(c.url); got != c.expected {
			t.Errorf("IsJuridicalSource(%q) = %v, want %v", c.url, got, c.expected)
		}
	}
}

func TestRankJuridischBoostsLegalSourceAboveGeneric(t *testing.T) {
	results := []LookupResult{
		{Provider: "wikipedia", URL: "https://nl.wikipedia.org/wiki/X", Snippet: "een algemene beschrijving", Score: 0.6},
		{Provider: "rechtspraak", URL: "https://www.rechtspraak.nl/uitspraken/1", Snippet: "de rechtbank oordeelt in dit vonnis, zie artikel 5 Sr", Score: 0.5},
	}

	ranked := RankJuridisch(results, nil)

	if ranked[0].Provider != "rechtspraak" {
		t.Errorf("expected the juridical source to rank first, got %q first", ranked[0].Provider)
	}
	if ranked[0].Score <= 0.5 {
		t.Errorf("expected the juridical result's score to be boosted above its original 0.5, got %v", ranked[0].Score)
	}
}

func TestRankJuridischClampsScoreAtOne(t *testing.T) {
	results := []LookupResult{
		{URL: "https://www.rechtspraak.nl/x", Snippet: "wetboek artikel recht rechter vonnis uitspraak, artikel 12, lid 2", Score: 0.95},
	}
	ranked := RankJuridisch(results, nil)
	if ranked[0].Score > 1.0 {
		t.Errorf("expected score clamped to 1.0, got %v", ranked[0].Score)
	}
}

func TestRankJuridischAppliesContextMatchBoost(t *testing.T) {
	base := LookupResult{Snippet: "dit gaat over strafrecht en een Sv procedure", Score: 0.4}
	withoutContext := RankJuridisch([]LookupResult{base}, nil)[0].Score
	withContext := RankJuridisch([]LookupResult{base}, []string{"Sv"})[0].Score

	if withContext <= withoutContext {
		t.Errorf("expected context match to increase score further: without=%v with=%v", withoutContext, withContext)
	}
}

func TestRankJuridischLeavesEmptyInputUnchanged(t *testing.T) {
	ranked := RankJuridisch(nil, nil)
	if ranked != nil {
		t.Errorf("expected nil passthrough, got %v", ranked)
	}
}
