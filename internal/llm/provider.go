package llm

import "context"

// Provider defines the interface for language-model providers.
// The verification agents (self-check, answer, safety) treat the model as
// a black box: given a prompt, return text.
type Provider interface {
	// Name returns the provider name
	Name() string

	// Invoke sends a prompt to the model and returns the raw text response
	Invoke(ctx context.Context, req Request) (*Response, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// Request contains the input for a model invocation.
type Request struct {
	// System is the system prompt framing the agent's role
	System string

	// Prompt is the user-turn content
	Prompt string

	// Model is the specific model to use (provider-specific, optional)
	Model string

	// MaxTokens limits the response length
	MaxTokens int

	// Temperature controls sampling; verification agents keep it low
	Temperature float64
}

// Response contains the model's output.
type Response struct {
	// Text is the raw response text; callers parse it defensively
	Text string

	// Model is the model that generated the response
	Model string

	// TokensUsed tracks token consumption
	TokensUsed int
}

// Config holds LLM provider configuration.
type Config struct {
	// Provider name: "openai", "anthropic", "ollama", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI/Anthropic
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama)
	BaseURL string

	// Timeout for API requests
	Timeout int // seconds

	// MaxTokens for response generation
	MaxTokens int

	// Temperature default for all invocations
	Temperature float64

	// Proxy settings
	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Provider:    "", // Disabled by default
		Model:       "",
		Timeout:     30,
		MaxTokens:   1200,
		Temperature: 0.1,
	}
}
