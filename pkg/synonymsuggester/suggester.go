// Package synonymsuggester implements the AI synonym-suggestion
// collaborator, satisfying pkg/synonym.Suggester by asking
// the configured aiprovider.Provider for candidate synonyms and parsing
// its structured response.
package synonymsuggester

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Chris-Lehnen-ICT-CONSULTING/definitie-engine/internal/config"
	"github.com/Chris-Lehnen-ICT-CONSULTING/definitie-engine/pkg/aiprovider"
	"github.com/Chris-Lehnen-ICT-CONSULTING/definitie-engine/pkg/domain"
	"github.com/Chris-Lehnen-ICT-CONSULTING/definitie-engine/pkg/synonym"
)

// Client calls the AI backend with a synonym-suggestion prompt and
// decodes its JSON response into []synonym.Suggestion.
type Client struct {
	provider aiprovider.Provider
	cfg      config.AIConfig
}

func New(provider aiprovider.Provider, cfg config.AIConfig) *Client {
	return &Client{provider: provider, cfg: cfg}
}

// suggestionPayload is the JSON shape the prompt instructs the model to
// return, one entry per candidate synonym.
type suggestionPayload struct {
	Term      string  `json:"term"`
	Weight    float64 `json:"weight"`
	Rationale string  `json:"rationale"`
}

// Suggest asks the model for synonyms of term not already present among
// existing, bounded by the orchestrator's configured timeout via ctx.
func (c *Client) Suggest(ctx context.Context, term string, existing []domain.WeightedSynonym) ([]synonym.Suggestion, error) {
	resp, err := c.provider.Generate(ctx, aiprovider.Request{
		Prompt:      buildSuggestionPrompt(term, existing),
		Temperature: c.cfg.Temperature,
		MaxTokens:   c.cfg.MaxTokens,
		Model:       c.cfg.Model,
	})
	if err != nil {
		return nil, fmt.Errorf("synonym suggestion generate: %w", err)
	}

	var payloads []suggestionPayload
	if err := json.Unmarshal([]byte(extractJSONArray(resp.Text)), &payloads); err != nil {
		return nil, fmt.Errorf("decoding synonym suggestions: %w", err)
	}

	suggestions := make([]synonym.Suggestion, 0, len(payloads))
	for _, p := range payloads {
		if strings.TrimSpace(p.Term) == "" {
			continue
		}
		suggestions = append(suggestions, synonym.Suggestion{
			Term:      p.Term,
			Weight:    p.Weight,
			Rationale: p.Rationale,
			Model:     resp.Model,
		})
	}
	return suggestions, nil
}

func buildSuggestionPrompt(term string, existing []domain.WeightedSynonym) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Geef synoniemen voor de juridische term '%s'.\n", term)
	if len(existing) > 0 {
		b.WriteString("Reeds bekende synoniemen (niet herhalen): ")
		names := make([]string, len(existing))
		for i, s := range existing {
			names[i] = s.Term
		}
		b.WriteString(strings.Join(names, ", "))
		b.WriteString("\n")
	}
	b.WriteString("Antwoord uitsluitend met een JSON-array van objecten ")
	b.WriteString(`{"term": string, "weight": number tussen 0 en 1, "rationale": string}.`)
	return b.String()
}

// extractJSONArray trims any prose the model adds around the JSON array,
// taking the substring between the first '[' and the last ']'.
func extractJSONArray(text string) string {
	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start == -1 || end == -1 || end < start {
		return "[]"
	}
	return text[start : end+1]
}
