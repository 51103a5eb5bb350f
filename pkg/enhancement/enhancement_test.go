package enhancement

import (
	"context"
	"strings"
	"testing"

	"github.com/Chris-Lehnen-ICT-CONSULTING/definitie-engine/internal/config"
	"github.com/Chris-Lehnen-ICT-CONSULTING/definitie-engine/pkg/aiprovider"
	"github.com/Chris-Lehnen-ICT-CONSULTING/definitie-engine/pkg/domain"
)

type stubProvider struct {
	lastReq aiprovider.Request
	resp    aiprovider.Response
}

func (s *stubProvider) Generate(ctx context.Context, req aiprovider.Request) (aiprovider.Response, error) {
	s.lastReq = req
	return s.resp, nil
}

func TestEnhanceUsesEnhancementTemperature(t *testing.T) {
	stub := &stubProvider{resp: aiprovider.Response{Text: "Een handeling die iets doet."}}
	cfg := config.AIConfig{EnhancementTemp: 0.1, Temperature: 0.7, MaxTokens: 100, Model: "claude-sonnet-4-5"}
	svc := New(stub, cfg)

	text, err := svc.Enhance(context.Background(), "Vervoersverbod", "Is een maatregel die iets doet.", []domain.Violation{
		{RuleID: "SINGLE_SENTENCE", Severity: "critical", Message: "definitie begint met een koppelwerkwoord"},
	}, domain.GenerationRequest{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "Een handeling die iets doet." {
		t.Errorf("expected passthrough of provider text, got %q", text)
	}
	if stub.lastReq.Temperature != 0.1 {
		t.Errorf("expected enhancement temperature 0.1, got %v", stub.lastReq.Temperature)
	}
}

func TestBuildRemediationPromptIncludesViolationsAndLegalBasis(t *testing.T) {
	prompt := buildRemediationPrompt("Vervoersverbod", "Is een maatregel.", []domain.Violation{
		{RuleID: "SINGLE_SENTENCE", Severity: "critical", Message: "begint met koppelwerkwoord", Evidence: "Is"},
	}, domain.GenerationRequest{LegalBasis: []string{"Wegenverkeerswet art. 1"}})

	if !strings.Contains(prompt, "Vervoersverbod") {
		t.Error("expected the term to appear in the prompt")
	}
	if !strings.Contains(prompt, "begint met koppelwerkwoord") {
		t.Error("expected the violation message to appear in the prompt")
	}
	if !strings.Contains(prompt, "Wegenverkeerswet art. 1") {
		t.Error("expected the legal basis to appear in the prompt")
	}
}
