package aiprovider

import (
	"context"
	"fmt"
	"os"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/Chris-Lehnen-ICT-CONSULTING/definitie-engine/internal/config"
)

// anthropicProvider is the primary backend: the Anthropic
// Messages API called directly, credentials read from the environment
// variable named by cfg.APIKeyEnv rather than held in config itself.
type anthropicProvider struct {
	client anthropic.Client
	model  string
}

func newAnthropicProvider(cfg config.AIConfig) (Provider, error) {
	apiKey := os.Getenv(cfg.APIKeyEnv)
	if apiKey == "" {
		return nil, fmt.Errorf("anthropic provider: environment variable %s is not set", cfg.APIKeyEnv)
	}

	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithBaseURL(cfg.Endpoint))
	}

	return &anthropicProvider{
		client: anthropic.NewClient(opts...),
		model:  cfg.Model,
	}, nil
}

func (p *anthropicProvider) Generate(ctx context.Context, req Request) (Response, error) {
	model := req.Model
	if model == "" {
		model = p.model
	}

	prompt, err := formatPrompt(req.Prompt)
	if err != nil {
		return Response{}, fmt.Errorf("anthropic generate: formatting prompt: %w", err)
	}

	message, err := p.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(model),
		MaxTokens:   int64(req.MaxTokens),
		Temperature: anthropic.Float(float64(req.Temperature)),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return Response{}, fmt.Errorf("anthropic generate: %w", err)
	}

	var text string
	for _, block := range message.Content {
		if variant := block.AsAny(); variant != nil {
			if textBlock, ok := variant.(anthropic.TextBlock); ok {
				text += textBlock.Text
			}
		}
	}

	return Response{
		Text:   text,
		Model:  string(message.Model),
		Tokens: int(message.Usage.InputTokens + message.Usage.OutputTokens),
	}, nil
}
