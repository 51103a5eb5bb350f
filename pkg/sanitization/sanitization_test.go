package sanitization

import (
	"strings"
	"testing"

	"github.com/Chris-Lehnen-ICT-CONSULTING/definitie-engine/pkg/domain"
)

func TestSanitizeWithFallbackRedactsBSN(t *testing.T) {
	s := NewSanitizer()

	result, err := s.SanitizeWithFallback("verdachte met BSN 123456789 aangehouden")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(result, "123456789") {
		t.Errorf("expected BSN to be redacted, got %q", result)
	}
	if !strings.Contains(result, "***REDACTED***") {
		t.Errorf("expected redaction marker, got %q", result)
	}
}

func TestSanitizeWithFallbackRedactsEmailAndIBAN(t *testing.T) {
	s := NewSanitizer()

	result, err := s.SanitizeWithFallback("contact jan@example.com, rekening NL91ABNA0417164300")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(result, "jan@example.com") || strings.Contains(result, "NL91ABNA0417164300") {
		t.Errorf("expected email and IBAN to be redacted, got %q", result)
	}
}

func TestNoopSanitizerPassesThrough(t *testing.T) {
	s := NoopSanitizer()

	input := "BSN 123456789"
	result, err := s.SanitizeWithFallback(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != input {
		t.Errorf("expected pass-through when no patterns configured, got %q", result)
	}
}

func TestSafeFallbackRedactsKnownNeedles(t *testing.T) {
	s := NewSanitizer()

	result := s.SafeFallback("wachtwoord: geheim123 en verder niets")
	if strings.Contains(result, "geheim123") {
		t.Errorf("expected value after wachtwoord: to be redacted, got %q", result)
	}
	if !strings.Contains(result, "[REDACTED]") {
		t.Errorf("expected fallback marker, got %q", result)
	}
}

func TestSafeFallbackLeavesPlainTextUnchanged(t *testing.T) {
	s := NewSanitizer()

	input := "een normale juridische definitie zonder gevoelige gegevens"
	if result := s.SafeFallback(input); result != input {
		t.Errorf("expected plain text unchanged, got %q", result)
	}
}

func TestSanitizeRequestRedactsContextFields(t *testing.T) {
	s := NewSanitizer()

	req := domain.GenerationRequest{
		Term:                  "aanhouding van 123456789",
		OrganizationalContext: []string{"politie", "melder jan@example.com"},
		Actor:                 "actor-1",
	}

	sanitized, err := s.SanitizeRequest(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(sanitized.Term, "123456789") {
		t.Errorf("expected term to be redacted, got %q", sanitized.Term)
	}
	if strings.Contains(sanitized.OrganizationalContext[1], "jan@example.com") {
		t.Errorf("expected organizational context email to be redacted, got %q", sanitized.OrganizationalContext[1])
	}
	if sanitized.Actor != "actor-1" {
		t.Errorf("expected actor to be preserved for audit attribution, got %q", sanitized.Actor)
	}
	if req.Term == sanitized.Term {
		t.Error("expected SanitizeRequest not to mutate the caller's request")
	}
}
