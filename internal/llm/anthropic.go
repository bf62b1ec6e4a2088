package llm

import (
	"context"
	"fmt"
	"os"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// DefaultAnthropicModel is used when no model is configured.
const DefaultAnthropicModel = "claude-sonnet-4-5-20250929"

const anthropicMaxTokens = 1024

// Anthropic talks to the Anthropic Messages API.
type Anthropic struct {
	model string
}

// NewAnthropic creates an Anthropic-backed client. The API key is read from
// ANTHROPIC_API_KEY at call time.
func NewAnthropic(model string) *Anthropic {
	if model == "" {
		model = DefaultAnthropicModel
	}
	return &Anthropic{model: model}
}

// GenerateText sends a single user message and concatenates the text blocks
// of the response.
func (a *Anthropic) GenerateText(ctx context.Context, prompt string) (string, error) {
	apiKey := os.Getenv("ANTHROPIC_API_KEY")
	if apiKey == "" {
		return "", fmt.Errorf("anthropic: ANTHROPIC_API_KEY not set")
	}

	client := anthropic.NewClient(option.WithAPIKey(apiKey))
	message, err := client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(a.model),
		MaxTokens: anthropicMaxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic: messages call: %w", err)
	}
	if len(message.Content) == 0 {
		return "", fmt.Errorf("anthropic: empty response")
	}

	var text string
	for _, block := range message.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}
	if text == "" {
		return "", fmt.Errorf("anthropic: response contains no text blocks")
	}
	return text, nil
}

// GenerateStructured sends the prompt and decodes a JSON object from the reply.
func (a *Anthropic) GenerateStructured(ctx context.Context, prompt string) (map[string]interface{}, error) {
	raw, err := a.GenerateText(ctx, prompt)
	if err != nil {
		return nil, err
	}
	return decodeObject(raw)
}
