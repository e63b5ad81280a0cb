package cli

import (
	"fmt"
	"os"

	"github.com/spf13/viper"

	"github.com/veridex/veridex/internal/answer"
	"github.com/veridex/veridex/internal/cache"
	"github.com/veridex/veridex/internal/evaluate"
	"github.com/veridex/veridex/internal/index"
	"github.com/veridex/veridex/internal/llm"
	"github.com/veridex/veridex/internal/model"
	"github.com/veridex/veridex/internal/pipeline"
	"github.com/veridex/veridex/internal/retrieval"
	"github.com/veridex/veridex/internal/safety"
	"github.com/veridex/veridex/internal/websearch"
)

// loadConfig builds the effective configuration: defaults, overlaid by
// the config file and VERIDEX_* env vars that viper has already read.
func loadConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.Output.Verbose = verbose
	return cfg, nil
}

// resolveAPIKeys fills provider credentials from the conventional
// environment variables when the config leaves them empty.
func resolveAPIKeys(cfg *model.Config) error {
	switch cfg.LLM.Provider {
	case "openai":
		if cfg.LLM.APIKey == "" {
			cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		}
		if cfg.LLM.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	case "anthropic", "claude":
		if cfg.LLM.APIKey == "" {
			cfg.LLM.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		}
		if cfg.LLM.APIKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY environment variable not set")
		}
	case "ollama":
		// Ollama doesn't need an API key
		if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" {
			cfg.LLM.BaseURL = baseURL
		}
	}

	if cfg.WebSearch.APIKey == "" {
		cfg.WebSearch.APIKey = os.Getenv("TAVILY_API_KEY")
	}
	if cfg.Embedding.APIKey == "" {
		cfg.Embedding.APIKey = os.Getenv("OPENAI_API_KEY")
	}

	return nil
}

// buildVerifier wires the full verification graph from config.
// The returned cleanup closes the index and must always be called.
func buildVerifier(cfg *model.Config) (*pipeline.Verifier, func() error, error) {
	noop := func() error { return nil }

	provider, err := llm.NewProvider(llm.ConfigFromModel(cfg.LLM))
	if err != nil {
		return nil, noop, fmt.Errorf("create LLM provider: %w", err)
	}
	if provider == nil {
		return nil, noop, fmt.Errorf("LLM provider required: set llm.provider (openai, anthropic, ollama) in config or use --llm-provider")
	}

	embedder, err := index.NewOpenAIEmbedder(cfg.Embedding)
	if err != nil {
		return nil, noop, fmt.Errorf("create embedder: %w", err)
	}

	store, err := index.Open(cfg.Index.Path, cfg.Index.InMemory, embedder)
	if err != nil {
		return nil, noop, fmt.Errorf("open index: %w", err)
	}
	cleanup := store.Close

	var searchCache cache.Cache
	if cfg.Cache.Enabled {
		searchCache = cache.NewLayeredCache(cfg.Cache.MemoryTTL, cfg.Cache.Dir, cfg.Cache.DiskTTL)
	}

	var expander *websearch.Expander
	if cfg.WebSearch.ExpandContent {
		expander = websearch.NewExpander(cfg.HTTP, cfg.WebSearch.MinSnippetLen)
	}

	client, err := websearch.NewClient(cfg.WebSearch, searchCache, cfg.Cache.DiskTTL, expander)
	if err != nil {
		_ = cleanup()
		return nil, noop, fmt.Errorf("create web search client: %w", err)
	}

	local := retrieval.NewLocalSource(store, cfg.Retrieval.K, cfg.Retrieval.ScoreThreshold)
	web := retrieval.NewWebSource(client)
	retriever := retrieval.NewRetriever(local, web, store, cfg.Retrieval)

	verifier := pipeline.NewVerifier(
		retriever,
		evaluate.NewEvaluator(provider),
		answer.NewSynthesizer(provider),
		safety.NewReviewer(provider),
	)

	return verifier, cleanup, nil
}

// openStore opens just the index, for commands that manage the
// knowledge base without running verifications.
func openStore(cfg *model.Config) (index.Store, error) {
	embedder, err := index.NewOpenAIEmbedder(cfg.Embedding)
	if err != nil {
		return nil, fmt.Errorf("create embedder: %w", err)
	}

	store, err := index.Open(cfg.Index.Path, cfg.Index.InMemory, embedder)
	if err != nil {
		return nil, fmt.Errorf("open index: %w", err)
	}
	return store, nil
}
