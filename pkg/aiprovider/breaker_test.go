package aiprovider

import (
	"context"
	"errors"
	"testing"

	"github.com/go-logr/logr"

	"github.com/Chris-Lehnen-ICT-CONSULTING/definitie-engine/internal/config"
)

type stubBackend struct {
	calls int
	err   error
}

func (s *stubBackend) Generate(ctx context.Context, req Request) (Response, error) {
	s.calls++
	if s.err != nil {
		return Response{}, s.err
	}
	return Response{Text: "ok", Model: req.Model, Tokens: 3}, nil
}

func TestBreakerProviderPassesThroughOnSuccess(t *testing.T) {
	backend := &stubBackend{}
	provider := newBreakerProvider(backend, config.AIConfig{Provider: "anthropic"}, logr.Discard())

	resp, err := provider.Generate(context.Background(), Request{Prompt: "hallo"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Text != "ok" {
		t.Errorf("expected passthrough response, got %q", resp.Text)
	}
	if backend.calls != 1 {
		t.Errorf("expected exactly one backend call, got %d", backend.calls)
	}
}

func TestBreakerProviderOpensAfterConsecutiveFailures(t *testing.T) {
	backend := &stubBackend{err: errors.New("backend down")}
	provider := newBreakerProvider(backend, config.AIConfig{Provider: "anthropic"}, logr.Discard())

	for i := 0; i < 5; i++ {
		if _, err := provider.Generate(context.Background(), Request{Prompt: "hallo"}); err == nil {
			t.Fatalf("expected error on call %d", i)
		}
	}

	callsBeforeOpen := backend.calls

	if _, err := provider.Generate(context.Background(), Request{Prompt: "hallo"}); err == nil {
		t.Fatal("expected breaker-open error on the 6th call")
	}

	if backend.calls != callsBeforeOpen {
		t.Errorf("expected the open breaker to skip the backend entirely, backend was called %d times after opening", backend.calls-callsBeforeOpen)
	}
}
