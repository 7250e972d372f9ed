package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const geminiDefaultModel = "gemini-1.5-flash"

// Client wraps the Gemini API client
type Client struct {
	genaiClient *genai.Client
	modelName   string
}

// Ensure Client implements Gateway
var _ Gateway = (*Client)(nil)

// NewClient creates a new Gemini client. An empty model selects the default.
func NewClient(ctx context.Context, apiKey, model string) (*Client, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	if model == "" {
		model = geminiDefaultModel
	}

	return &Client{
		genaiClient: client,
		modelName:   model,
	}, nil
}

// Close closes the client
func (c *Client) Close() error {
	return c.genaiClient.Close()
}

// GenerateText generates text from a prompt
func (c *Client) GenerateText(ctx context.Context, prompt string) (string, error) {
	model := c.genaiClient.GenerativeModel(c.modelName)
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}
	return responseText(resp)
}

// GenerateJSON generates content with the JSON response MIME type
func (c *Client) GenerateJSON(ctx context.Context, prompt string) (string, error) {
	model := c.genaiClient.GenerativeModel(c.modelName)
	model.ResponseMIMEType = "application/json"
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate json content: %w", err)
	}
	return responseText(resp)
}

// StartChat opens a Gemini chat session with instruction as the system prompt
func (c *Client) StartChat(instruction string) ChatSession {
	model := c.genaiClient.GenerativeModel(c.modelName)
	model.SystemInstruction = genai.NewUserContent(genai.Text(instruction))
	return &geminiChat{session: model.StartChat()}
}

type geminiChat struct {
	session *genai.ChatSession
}

func (g *geminiChat) SendMessage(ctx context.Context, message string) (string, error) {
	resp, err := g.session.SendMessage(ctx, genai.Text(message))
	if err != nil {
		return "", fmt.Errorf("failed to send chat message: %w", err)
	}
	return responseText(resp)
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("no candidates returned")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}

	return sb.String(), nil
}
