package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// DefaultGeminiModel is used when no model is configured.
const DefaultGeminiModel = "gemini-2.5-flash"

// Gemini talks to the Gemini API. The client reads GEMINI_API_KEY from the
// environment; construction is deferred to the first call so a tracker run
// without credentials only fails if escalation is actually needed.
type Gemini struct {
	model string
}

// NewGemini creates a Gemini-backed client.
func NewGemini(model string) *Gemini {
	if model == "" {
		model = DefaultGeminiModel
	}
	return &Gemini{model: model}
}

// GenerateText sends a single prompt and returns the response text.
func (g *Gemini) GenerateText(ctx context.Context, prompt string) (string, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return "", fmt.Errorf("gemini: create client: %w", err)
	}

	contents := []*genai.Content{
		{
			Role:  "user",
			Parts: []*genai.Part{{Text: prompt}},
		},
	}

	resp, err := client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("gemini: generate content: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("gemini: empty response from model")
	}
	return text, nil
}

// GenerateStructured sends a prompt that demands strict JSON and decodes the
// object from the response, tolerating code fences the model may add.
func (g *Gemini) GenerateStructured(ctx context.Context, prompt string) (map[string]interface{}, error) {
	raw, err := g.GenerateText(ctx, prompt)
	if err != nil {
		return nil, err
	}
	return decodeObject(raw)
}
