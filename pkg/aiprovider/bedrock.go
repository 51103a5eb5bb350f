package aiprovider

import (
	"context"
	"encoding/json"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"

	"github.com/Chris-Lehnen-ICT-CONSULTING/definitie-engine/internal/config"
)

// bedrockProvider is the secondary backend: Claude models
// invoked through Amazon Bedrock's Converse API, selected when the
// configured provider is "bedrock". New never falls back from one backend
// to the other.
type bedrockProvider struct {
	client *bedrockruntime.Client
	model  string
}

func newBedrockProvider(cfg config.AIConfig) (Provider, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(cfg.BedrockRegion))
	if err != nil {
		return nil, fmt.Errorf("bedrock provider: loading aws config: %w", err)
	}

	return &bedrockProvider{
		client: bedrockruntime.NewFromConfig(awsCfg),
		model:  cfg.Model,
	}, nil
}

func (p *bedrockProvider) Generate(ctx context.Context, req Request) (Response, error) {
	model := req.Model
	if model == "" {
		model = p.model
	}

	prompt, err := formatPrompt(req.Prompt)
	if err != nil {
		return Response{}, fmt.Errorf("bedrock generate: formatting prompt: %w", err)
	}

	maxTokens := int32(req.MaxTokens)
	temperature := req.Temperature

	output, err := p.client.Converse(ctx, &bedrockruntime.ConverseInput{
		ModelId: &model,
		Messages: []types.Message{
			{
				Role: types.ConversationRoleUser,
				Content: []types.ContentBlock{
					&types.ContentBlockMemberText{Value: prompt},
				},
			},
		},
		InferenceConfig: &types.InferenceConfiguration{
			MaxTokens:   &maxTokens,
			Temperature: &temperature,
		},
	})
	if err != nil {
		return Response{}, fmt.Errorf("bedrock generate: %w", err)
	}

	text, err := extractBedrockText(output)
	if err != nil {
		return Response{}, fmt.Errorf("bedrock generate: %w", err)
	}

	tokens := 0
	if output.Usage != nil {
		tokens = int(output.Usage.InputTokens + output.Usage.OutputTokens)
	}

	return Response{Text: text, Model: model, Tokens: tokens}, nil
}

func extractBedrockText(output *bedrockruntime.ConverseOutput) (string, error) {
	message, ok := output.Output.(*types.ConverseOutputMemberMessage)
	if !ok {
		return "", fmt.Errorf("unexpected converse output shape: %T", output.Output)
	}

	var text string
	for _, block := range message.Value.Content {
		if textBlock, ok := block.(*types.ContentBlockMemberText); ok {
			text += textBlock.Value
		}
	}
	if text == "" {
		raw, _ := json.Marshal(message.Value.Content)
		return "", fmt.Errorf("no text content block in response: %s", raw)
	}
	return text, nil
}
