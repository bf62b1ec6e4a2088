// Package llm abstracts the text-generation capability behind a single
// interface with interchangeable providers: Gemini, Anthropic, or a local
// Ollama endpoint. The provider is selected once from configuration; the
// pipelines are indifferent to which one answers.
package llm

import (
	"context"
	"fmt"
	"strings"
)

// Client is the capability contract the parsing and query pipelines consume.
// GenerateStructured asks for a single JSON object and returns it decoded;
// GenerateText returns plain prose. Providers own any internal retry; callers
// make exactly one attempt and recover locally on error.
type Client interface {
	GenerateStructured(ctx context.Context, prompt string) (map[string]interface{}, error)
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// Provider names accepted by New.
const (
	ProviderGemini    = "gemini"
	ProviderAnthropic = "anthropic"
	ProviderOllama    = "ollama"
)

// Options carries provider construction settings.
type Options struct {
	Provider string // gemini | anthropic | ollama
	Model    string // provider-specific model name; empty uses the provider default
	BaseURL  string // ollama only
}

// New builds the configured provider.
func New(opts Options) (Client, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Provider)) {
	case ProviderGemini, "":
		return NewGemini(opts.Model), nil
	case ProviderAnthropic:
		return NewAnthropic(opts.Model), nil
	case ProviderOllama:
		return NewOllama(opts.BaseURL, opts.Model), nil
	default:
		return nil, fmt.Errorf("llm: unknown provider %q", opts.Provider)
	}
}
