package audit

import (
	"context"
	"errors"
	"testing"

	"github.com/go-logr/logr"

	"github.com/Chris-Lehnen-ICT-CONSULTING/definitie-engine/pkg/domain"
)

type stubSink struct {
	events []Event
	err    error
}

func (s *stubSink) Emit(_ context.Context, event Event) error {
	s.events = append(s.events, event)
	return s.err
}

func TestRecordGenerationErrorFansOutToAllSinks(t *testing.T) {
	sinkA := &stubSink{}
	sinkB := &stubSink{}
	client := NewClient(logr.Discard(), sinkA, sinkB)

	req := domain.GenerationRequest{ID: "req-1", Term: "aanhouding"}
	client.RecordGenerationError(context.Background(), req, "InvokeModel", errors.New("timeout"))

	if len(sinkA.events) != 1 || len(sinkB.events) != 1 {
		t.Fatalf("expected both sinks to receive one event, got %d and %d", len(sinkA.events), len(sinkB.events))
	}
	if sinkA.events[0].Type != "generation.error.occurred" {
		t.Errorf("unexpected event type %q", sinkA.events[0].Type)
	}
	if sinkA.events[0].CorrelationID != "req-1" {
		t.Errorf("expected correlation id req-1, got %s", sinkA.events[0].CorrelationID)
	}
}

func TestRecordValidationFailureListsViolations(t *testing.T) {
	sink := &stubSink{}
	client := NewClient(logr.Discard(), sink)

	def := domain.Definition{ID: "d1", Term: "aanhouding"}
	result := domain.ValidationResult{
		Violations: []domain.Violation{{RuleID: "R1", Severity: "critical"}},
	}
	client.RecordValidationFailure(context.Background(), def, result)

	if len(sink.events) != 1 {
		t.Fatalf("expected one event, got %d", len(sink.events))
	}
	if len(sink.events[0].Violations) != 1 || sink.events[0].Violations[0] != "R1:critical" {
		t.Errorf("unexpected violations: %+v", sink.events[0].Violations)
	}
}

func TestEmitSwallowsSinkErrors(t *testing.T) {
	failing := &stubSink{err: errors.New("slack unavailable")}
	client := NewClient(logr.Discard(), failing)

	req := domain.GenerationRequest{ID: "req-2", Term: "borgtocht"}
	client.RecordGenerationError(context.Background(), req, "EnrichFromWeb", errors.New("upstream down"))

	if len(failing.events) != 1 {
		t.Fatalf("expected the failing sink to still receive the event, got %d", len(failing.events))
	}
}
