package model

import "time"

// Config holds the complete veridex configuration.
// Populated from (highest to lowest priority): CLI flags, VERIDEX_* env
// vars, ~/.veridex/config.yaml, and the defaults below.
type Config struct {
	LLM         LLMConfig         `yaml:"llm" mapstructure:"llm"`
	Embedding   EmbeddingConfig   `yaml:"embedding" mapstructure:"embedding"`
	Index       IndexConfig       `yaml:"index" mapstructure:"index"`
	WebSearch   WebSearchConfig   `yaml:"web_search" mapstructure:"web_search"`
	Retrieval   RetrievalConfig   `yaml:"retrieval" mapstructure:"retrieval"`
	Cache       CacheConfig       `yaml:"cache" mapstructure:"cache"`
	HTTP        HTTPConfig        `yaml:"http" mapstructure:"http"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	Output      OutputConfig      `yaml:"output" mapstructure:"output"`
}

// LLMConfig configures the language-model provider.
type LLMConfig struct {
	Provider   string  `yaml:"provider" mapstructure:"provider"` // openai, anthropic, ollama
	Model      string  `yaml:"model" mapstructure:"model"`
	APIKey     string  `yaml:"api_key" mapstructure:"api_key"`
	BaseURL    string  `yaml:"base_url" mapstructure:"base_url"`
	Timeout    int     `yaml:"timeout" mapstructure:"timeout"` // seconds
	MaxTokens  int     `yaml:"max_tokens" mapstructure:"max_tokens"`
	Temperature float64 `yaml:"temperature" mapstructure:"temperature"`
	HTTPProxy  string  `yaml:"http_proxy" mapstructure:"http_proxy"`
	HTTPSProxy string  `yaml:"https_proxy" mapstructure:"https_proxy"`
	NoProxy    string  `yaml:"no_proxy" mapstructure:"no_proxy"`
}

// EmbeddingConfig configures the embedding service backing the local index.
type EmbeddingConfig struct {
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
	Model   string `yaml:"model" mapstructure:"model"`
	APIKey  string `yaml:"api_key" mapstructure:"api_key"`
}

// IndexConfig configures the local vector index.
type IndexConfig struct {
	Path     string `yaml:"path" mapstructure:"path"`
	InMemory bool   `yaml:"in_memory" mapstructure:"in_memory"`
}

// WebSearchConfig configures the live web search provider.
// An empty APIKey disables web search gracefully (empty results, no error).
type WebSearchConfig struct {
	APIKey        string `yaml:"api_key" mapstructure:"api_key"`
	BaseURL       string `yaml:"base_url" mapstructure:"base_url"`
	MaxResults    int    `yaml:"max_results" mapstructure:"max_results"`
	Timeout       int    `yaml:"timeout" mapstructure:"timeout"` // seconds
	ExpandContent bool   `yaml:"expand_content" mapstructure:"expand_content"`
	MinSnippetLen int    `yaml:"min_snippet_len" mapstructure:"min_snippet_len"`
}

// RetrievalConfig holds the hybrid-retrieval policy constants.
type RetrievalConfig struct {
	K                  int     `yaml:"k" mapstructure:"k"`                                       // local neighbors requested
	ScoreThreshold     float64 `yaml:"score_threshold" mapstructure:"score_threshold"`           // min local relevance kept
	MinLocalDocs       int     `yaml:"min_local_docs" mapstructure:"min_local_docs"`             // below this, always search web
	WebSearchThreshold float64 `yaml:"web_search_threshold" mapstructure:"web_search_threshold"` // avg-relevance trigger
	PersistWebResults  bool    `yaml:"persist_web_results" mapstructure:"persist_web_results"`
}

// CacheConfig configures the web search result cache.
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir" mapstructure:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// HTTPConfig configures outbound HTTP for page expansion.
type HTTPConfig struct {
	Timeout      time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent    string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	HTTPProxy    string        `yaml:"http_proxy" mapstructure:"http_proxy"`
	HTTPSProxy   string        `yaml:"https_proxy" mapstructure:"https_proxy"`
	NoProxy      string        `yaml:"no_proxy" mapstructure:"no_proxy"`
}

// ConcurrencyConfig configures batch processing.
type ConcurrencyConfig struct {
	BatchWorkers int `yaml:"batch_workers" mapstructure:"batch_workers"`
}

// OutputConfig configures report rendering.
type OutputConfig struct {
	Verbose       bool `yaml:"verbose" mapstructure:"verbose"`
	IncludeFooter bool `yaml:"include_footer" mapstructure:"include_footer"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider:    "",
			Model:       "",
			Timeout:     30,
			MaxTokens:   1200,
			Temperature: 0.1,
		},
		Embedding: EmbeddingConfig{
			BaseURL: "http://localhost:11434/v1",
			Model:   "nomic-embed-text",
		},
		Index: IndexConfig{
			Path: "data/index",
		},
		WebSearch: WebSearchConfig{
			BaseURL:       "https://api.tavily.com",
			MaxResults:    3,
			Timeout:       15,
			ExpandContent: false,
			MinSnippetLen: 200,
		},
		Retrieval: RetrievalConfig{
			K:                  5,
			ScoreThreshold:     0.6,
			MinLocalDocs:       2,
			WebSearchThreshold: 0.5,
			PersistWebResults:  true,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       ".veridex-cache",
			MemoryTTL: 15 * time.Minute,
			DiskTTL:   24 * time.Hour,
		},
		HTTP: HTTPConfig{
			Timeout:      20 * time.Second,
			UserAgent:    "Veridex/0.1 (+https://github.com/veridex/veridex)",
			MaxBodyBytes: 2_000_000,
		},
		Concurrency: ConcurrencyConfig{
			BatchWorkers: 4,
		},
		Output: OutputConfig{
			IncludeFooter: true,
		},
	}
}
