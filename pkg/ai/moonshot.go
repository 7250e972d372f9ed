package ai

const (
	moonshotDefaultBaseURL = "https://api.moonshot.ai/v1"
	moonshotDefaultModel   = "kimi-k2.5"
)

// MoonshotClient implements the Gateway interface using the Moonshot API (Kimi 2.5).
// The Moonshot API is OpenAI-compatible, so requests go through the
// chat completions code path with a different base URL and model.
type MoonshotClient struct {
	*OpenAIClient
}

// Ensure MoonshotClient implements Gateway
var _ Gateway = (*MoonshotClient)(nil)

// NewMoonshotClient creates a new Moonshot API client
func NewMoonshotClient(apiKey string) *MoonshotClient {
	c := NewOpenAIClient(apiKey)
	c.model = moonshotDefaultModel
	c.baseURL = moonshotDefaultBaseURL
	c.provider = "moonshot"
	return &MoonshotClient{OpenAIClient: c}
}
