// Package aiprovider abstracts the generation-model collaborator behind a
// single Provider interface: an Anthropic-backed primary
// implementation and an AWS Bedrock-hosted secondary, both wrapped in a
// sony/gobreaker circuit breaker so a failing backend degrades instead of
// retrying into a cascading failure.
package aiprovider

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"

	"github.com/Chris-Lehnen-ICT-CONSULTING/definitie-engine/internal/config"
)

// Request is one model invocation; the InvokeModel phase and the Enhance
// phase share this shape, with Enhance set to a distinct, lower Temperature.
type Request struct {
	Prompt      string
	Temperature float32
	MaxTokens   int
	Model       string
}

// Response is the raw model output plus the token accounting persisted
// into Definition.metadata.
type Response struct {
	Text   string
	Model  string
	Tokens int
}

// Provider is implemented by each backend ("opaque to the
// core"). The same interface serves initial generation and the single
// enhancement pass.
type Provider interface {
	Generate(ctx context.Context, req Request) (Response, error)
}

// New constructs the configured backend wrapped in a circuit breaker.
func New(cfg config.AIConfig, logger logr.Logger) (Provider, error) {
	var backend Provider
	var err error

	switch cfg.Provider {
	case "anthropic":
		backend, err = newAnthropicProvider(cfg)
	case "bedrock":
		backend, err = newBedrockProvider(cfg)
	default:
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}
	if err != nil {
		return nil, err
	}

	return newBreakerProvider(backend, cfg, logger), nil
}
