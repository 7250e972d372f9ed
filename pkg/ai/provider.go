package ai

import (
	"context"
	"fmt"
)

// Providers lists the names accepted by New.
var Providers = []string{"gemini", "openai", "moonshot", "anthropic"}

// New builds the gateway for a named provider. An empty model keeps the
// provider default.
func New(ctx context.Context, provider, apiKey, model string) (Gateway, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("an API key is required for provider %s", provider)
	}
	switch provider {
	case "gemini":
		c, err := NewClient(ctx, apiKey, model)
		if err != nil {
			return nil, err
		}
		return c, nil
	case "openai":
		return NewOpenAIClient(apiKey).WithModel(model), nil
	case "moonshot":
		c := NewMoonshotClient(apiKey)
		c.WithModel(model)
		return c, nil
	case "anthropic":
		return NewAnthropicClient(apiKey).WithModel(model), nil
	default:
		return nil, fmt.Errorf("unknown AI provider: %s", provider)
	}
}
