package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/veridex/veridex/internal/answer"
	"github.com/veridex/veridex/internal/model"
)

// Renderer writes verification results as JSON, Markdown, or a
// terminal summary.
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a renderer. includeFooter controls the generator
// footer on Markdown reports.
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// RenderJSON writes the result as indented JSON to path.
func (r *Renderer) RenderJSON(result *model.VerificationResult, path string) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write JSON: %w", err)
	}
	return nil
}

// RenderMarkdown writes a human-readable report to path.
func (r *Renderer) RenderMarkdown(result *model.VerificationResult, path string) error {
	var b strings.Builder

	b.WriteString("# Claim Verification Report\n\n")
	fmt.Fprintf(&b, "**Claim**: %s\n\n", result.Claim)
	fmt.Fprintf(&b, "**Verdict**: %s\n\n", result.Verdict)
	fmt.Fprintf(&b, "**Verified at**: %s\n\n", result.VerifiedAt.Format(time.RFC3339))

	if !result.Success {
		fmt.Fprintf(&b, "## Error\n\n%s\n\n", result.Error)
	}

	b.WriteString("## Answer\n\n")
	b.WriteString(result.FinalAnswer)
	b.WriteString("\n\n")

	b.WriteString("## Citations\n\n")
	b.WriteString(answer.FormatCitations(result.Citations))
	b.WriteString("\n")

	if r.includeFooter {
		fmt.Fprintf(&b, "\n---\n_Generated by veridex in %s_\n", result.Duration.Round(time.Millisecond))
	}

	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("write markdown: %w", err)
	}
	return nil
}

// RenderSummary prints a short result summary to stdout.
func (r *Renderer) RenderSummary(result *model.VerificationResult) {
	fmt.Println(strings.Repeat("═", 60))
	fmt.Printf("Claim:   %s\n", result.Claim)
	fmt.Printf("Verdict: %s\n", result.Verdict)
	if !result.Success {
		fmt.Printf("Error:   %s\n", result.Error)
	}
	fmt.Println(strings.Repeat("─", 60))
	fmt.Println(result.FinalAnswer)
	if len(result.Citations) > 0 {
		fmt.Println(strings.Repeat("─", 60))
		fmt.Println("Citations:")
		fmt.Println(answer.FormatCitations(result.Citations))
	}
	fmt.Println(strings.Repeat("═", 60))
}
