package synonymsuggester

import (
	"context"
	"testing"

	"github.com/Chris-Lehnen-ICT-CONSULTING/definitie-engine/internal/config"
	"github.com/Chris-Lehnen-ICT-CONSULTING/definitie-engine/pkg/aiprovider"
	"github.com/Chris-Lehnen-ICT-CONSULTING/definitie-engine/pkg/domain"
)

type stubProvider struct {
	text string
}

func (s *stubProvider) Generate(ctx context.Context, req aiprovider.Request) (aiprovider.Response, error) {
	return aiprovider.Response{Text: s.text, Model: "claude-sonnet-4-5"}, nil
}

func TestSuggestParsesJSONArrayResponse(t *testing.T) {
	stub := &stubProvider{text: `Hier zijn de synoniemen:
[{"term": "aanhouding", "weight": 0.8, "rationale": "nauw verwant"}, {"term": "arrestatie", "weight": 0.9, "rationale": "synoniem"}]
Laat het weten als je meer wilt.`}
	client := New(stub, config.AIConfig{Model: "claude-sonnet-4-5", MaxTokens: 200})

	suggestions, err := client.Suggest(context.Background(), "inverzekeringstelling", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(suggestions) != 2 {
		t.Fatalf("expected 2 suggestions, got %d", len(suggestions))
	}
	if suggestions[0].Term != "aanhouding" || suggestions[0].Weight != 0.8 {
		t.Errorf("unexpected first suggestion: %+v", suggestions[0])
	}
	if suggestions[0].Model != "claude-sonnet-4-5" {
		t.Errorf("expected model stamped from response, got %q", suggestions[0].Model)
	}
}

func TestSuggestSkipsEmptyTermEntries(t *testing.T) {
	stub := &stubProvider{text: `[{"term": "", "weight": 0.5, "rationale": "x"}]`}
	client := New(stub, config.AIConfig{})

	suggestions, err := client.Suggest(context.Background(), "term", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(suggestions) != 0 {
		t.Errorf("expected empty-term entries to be skipped, got %d", len(suggestions))
	}
}

func TestBuildSuggestionPromptListsExistingSynonyms(t *testing.T) {
	prompt := buildSuggestionPrompt("aanhouding", []domain.WeightedSynonym{{Term: "arrestatie"}})
	if want := "arrestatie"; !contains(prompt, want) {
		t.Errorf("expected prompt to mention existing synonym %q, got %q", want, prompt)
	}
}

func contains(haystack, needle string) bool {
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if haystack[i:i+len(needle)] == needle {
			return true
		}
	}
	return false
}
