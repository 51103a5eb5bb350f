// Package enhancement implements EnhancementService: the
// single remediation pass the orchestrator runs when validation fails.
package enhancement

import (
	"context"
	"fmt"
	"strings"

	"github.com/Chris-Lehnen-ICT-CONSULTING/definitie-engine/internal/config"
	"github.com/Chris-Lehnen-ICT-CONSULTING/definitie-engine/pkg/aiprovider"
	"github.com/Chris-Lehnen-ICT-CONSULTING/definitie-engine/pkg/domain"
)

// Service wraps a Provider with the enhancement-specific temperature, so
// callers never need to remember to lower it themselves.
type Service struct {
	provider aiprovider.Provider
	cfg      config.AIConfig
}

func New(provider aiprovider.Provider, cfg config.AIConfig) *Service {
	return &Service{provider: provider, cfg: cfg}
}

// Enhance builds a remediation prompt from text and violations and returns
// a single revised definition string. Callers must not call this more than
// once per request ("never invoked more than once").
func (s *Service) Enhance(ctx context.Context, term, text string, violations []domain.Violation, req domain.GenerationRequest) (string, error) {
	prompt := buildRemediationPrompt(term, text, violations, req)

	resp, err := s.provider.Generate(ctx, aiprovider.Request{
		Prompt:      prompt,
		Temperature: s.cfg.EnhancementTemp,
		MaxTokens:   s.cfg.MaxTokens,
		Model:       s.cfg.Model,
	})
	if err != nil {
		return "", fmt.Errorf("enhancement generate: %w", err)
	}

	return resp.Text, nil
}

func buildRemediationPrompt(term, text string, violations []domain.Violation, req domain.GenerationRequest) string {
	var b strings.Builder

	fmt.Fprintf(&b, "De volgende definitie van '%s' voldoet niet aan de eisen:\n\n%s\n\n", term, text)
	b.WriteString("Geconstateerde problemen:\n")
	for _, v := range violations {
		fmt.Fprintf(&b, "- [%s] %s", v.Severity, v.Message)
		if v.Evidence != "" {
			fmt.Fprintf(&b, " (%s)", v.Evidence)
		}
		b.WriteString("\n")
	}

	if len(req.LegalBasis) > 0 {
		fmt.Fprintf(&b, "\nWettelijke grondslag: %s\n", strings.Join(req.LegalBasis, ", "))
	}

	b.WriteString("\nSchrijf één herziene definitie die deze problemen oplost, ")
	b.WriteString("in exact één zin, zonder de geconstateerde problemen te herhalen.")

	return b.String()
}
