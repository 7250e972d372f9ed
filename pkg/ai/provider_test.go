package ai

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProviders(t *testing.T) {
	ctx := context.Background()

	gw, err := New(ctx, "openai", "k", "gpt-4o")
	require.NoError(t, err)
	require.IsType(t, &OpenAIClient{}, gw)
	assert.Equal(t, "gpt-4o", gw.(*OpenAIClient).model)

	gw, err = New(ctx, "moonshot", "k", "")
	require.NoError(t, err)
	require.IsType(t, &MoonshotClient{}, gw)
	assert.Equal(t, moonshotDefaultModel, gw.(*MoonshotClient).model)

	gw, err = New(ctx, "anthropic", "k", "")
	require.NoError(t, err)
	require.IsType(t, &AnthropicClient{}, gw)
	assert.Equal(t, anthropicDefaultModel, gw.(*AnthropicClient).model)
}

func TestNewRejectsUnknownProvider(t *testing.T) {
	_, err := New(context.Background(), "eliza", "k", "")
	assert.ErrorContains(t, err, "unknown AI provider")
}

func TestNewRequiresKey(t *testing.T) {
	_, err := New(context.Background(), "openai", "", "")
	assert.ErrorContains(t, err, "API key is required")
}

func TestDisabledGateway(t *testing.T) {
	ctx := context.Background()
	var gw Gateway = Disabled{}

	_, err := gw.GenerateText(ctx, "hi")
	assert.ErrorIs(t, err, ErrDisabled)
	_, err = gw.GenerateJSON(ctx, "hi")
	assert.ErrorIs(t, err, ErrDisabled)
	_, err = gw.StartChat("be brief").SendMessage(ctx, "hi")
	assert.ErrorIs(t, err, ErrDisabled)
}
