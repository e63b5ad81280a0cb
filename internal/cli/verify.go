package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/veridex/veridex/internal/pipeline"
)

var (
	outJSON       string
	outMD         string
	verifyTimeout time.Duration
	noCache       bool
	noFooter      bool
	llmProvider   string
	llmModel      string
	webAPIKey     string
)

// verifyCmd represents the verify command
var verifyCmd = &cobra.Command{
	Use:   "verify <claim>",
	Short: "Verify a single claim against local and web evidence",
	Long: `Verify runs one claim through the full verification flow:
- Retrieve evidence from the local knowledge base
- Fall back to live web search when local evidence is weak
- Judge whether the evidence is sufficient to decide the claim
- Synthesize a cited, evidence-grounded answer
- Apply a safety review before delivery

Example:
  veridex verify "Coffee causes dehydration"
  veridex verify "The Great Wall is visible from space" --json report.json --md report.md
  veridex verify "Vaccines cause autism" --llm-provider anthropic --llm-model claude-3-5-haiku-latest`,
	Args: cobra.ExactArgs(1),
	RunE: runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)

	// Output flags
	verifyCmd.Flags().StringVar(&outJSON, "json", "", "output JSON path (optional)")
	verifyCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (optional)")
	verifyCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")

	// Pipeline flags
	verifyCmd.Flags().DurationVar(&verifyTimeout, "timeout", 2*time.Minute, "overall verification timeout")
	verifyCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable web search cache (force fresh search)")
	verifyCmd.Flags().StringVar(&webAPIKey, "web-api-key", "", "web search API key (default: TAVILY_API_KEY env var)")

	// LLM flags
	verifyCmd.Flags().StringVar(&llmProvider, "llm-provider", "", "LLM provider (openai, anthropic, ollama)")
	verifyCmd.Flags().StringVar(&llmModel, "llm-model", "", "LLM model name")
}

func runVerify(cmd *cobra.Command, args []string) error {
	claim := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), verifyTimeout)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// Flag overrides
	if llmProvider != "" {
		cfg.LLM.Provider = llmProvider
	}
	if llmModel != "" {
		cfg.LLM.Model = llmModel
	}
	if webAPIKey != "" {
		cfg.WebSearch.APIKey = webAPIKey
	}
	cfg.Cache.Enabled = !noCache
	cfg.Output.IncludeFooter = !noFooter

	if err := resolveAPIKeys(cfg); err != nil {
		return err
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Verifying: %s\n", claim)
		fmt.Fprintf(os.Stderr, "LLM: %s/%s\n", cfg.LLM.Provider, cfg.LLM.Model)
		fmt.Fprintf(os.Stderr, "Web search: %v\n", cfg.WebSearch.APIKey != "")
		fmt.Fprintln(os.Stderr)
	}

	verifier, cleanup, err := buildVerifier(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := cleanup(); closeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: close index: %v\n", closeErr)
		}
	}()

	result := verifier.Verify(ctx, claim)

	renderer := pipeline.NewRenderer(cfg.Output.IncludeFooter)
	renderer.RenderSummary(result)

	if outJSON != "" {
		if err := renderer.RenderJSON(result, outJSON); err != nil {
			return fmt.Errorf("write JSON report: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ JSON report: %s\n", outJSON)
		}
	}
	if outMD != "" {
		if err := renderer.RenderMarkdown(result, outMD); err != nil {
			return fmt.Errorf("write Markdown report: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Markdown report: %s\n", outMD)
		}
	}

	if !result.Success {
		return fmt.Errorf("verification failed: %s", result.Error)
	}
	return nil
}
