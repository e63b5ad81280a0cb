// Package evaluate judges whether retrieved evidence is sufficient to
// reach a conclusion about a claim.
package evaluate

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/veridex/veridex/internal/llm"
	"github.com/veridex/veridex/internal/model"
)

// previewChars bounds how much of each evidence item reaches the prompt.
const previewChars = 500

const systemPrompt = `You are an agent that judges whether retrieved evidence is sufficient to verify a claim.

RULES:
1. If the documents are RELEVANT to the claim's topic, mark SUFFICIENT
2. Do not demand direct evidence; indirect evidence counts
3. Documents on the same general topic (e.g. vaccines, health, climate) count as SUFFICIENT
4. Combine document evidence with general knowledge
5. Be permissive when there is thematic relevance

EXAMPLES:
- Claim: "Vaccines cause autism" + documents about "vaccines are safe" = SUFFICIENT
- Claim: "Global warming is real" + documents about "climate change" = SUFFICIENT
- Claim: "Exercise improves health" + documents about "COVID vaccines" = INSUFFICIENT`

// relevanceKeywords upgrade a high-confidence INSUFFICIENT to SUFFICIENT
// when the reasoning shows the model actually judged the evidence relevant.
// Portuguese forms included for models answering in-language.
var relevanceKeywords = []string{
	"relevant", "related", "topic", "similar",
	"relevante", "relacionado", "tópico", "assunto",
}

// Evaluator prompts a language model to judge evidence sufficiency and
// parses the structured reply defensively.
type Evaluator struct {
	provider llm.Provider
	logger   *slog.Logger
}

// NewEvaluator creates an evidence evaluator.
func NewEvaluator(provider llm.Provider) *Evaluator {
	return &Evaluator{
		provider: provider,
		logger:   slog.Default().With("component", "evaluate"),
	}
}

// Evaluate judges the evidence set for the claim. Empty evidence
// short-circuits to INSUFFICIENT without a model call. A model
// invocation failure is the only error path; malformed model output is
// absorbed with documented defaults.
func (e *Evaluator) Evaluate(ctx context.Context, claim model.Claim, evidence model.EvidenceSet) (model.SufficiencyVerdict, error) {
	if evidence.Empty() {
		return model.SufficiencyVerdict{
			Quality:    model.QualityInsufficient,
			Confidence: 0,
			Reasoning:  "no documents found",
		}, nil
	}

	prompt := buildEvaluationPrompt(claim, evidence)

	resp, err := e.provider.Invoke(ctx, llm.Request{
		System: systemPrompt,
		Prompt: prompt,
	})
	if err != nil {
		return model.SufficiencyVerdict{}, fmt.Errorf("sufficiency evaluation: %w", err)
	}

	verdict := parseEvaluation(resp.Text)

	e.logger.Info("sufficiency judged",
		"quality", string(verdict.Quality),
		"confidence", verdict.Confidence,
		"documents", len(evidence))

	return verdict, nil
}

func buildEvaluationPrompt(claim model.Claim, evidence model.EvidenceSet) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Claim to verify: %q\n\nDocuments found:\n", claim.Text)

	for i, item := range evidence {
		fmt.Fprintf(&b, "Document %d:\n", i+1)
		fmt.Fprintf(&b, "Source: %s\n", item.SourceID)
		if item.URL != "" {
			fmt.Fprintf(&b, "URL: %s\n", item.URL)
		}
		fmt.Fprintf(&b, "Content: %s\n\n", preview(item.Content))
	}

	b.WriteString(`Judge whether this evidence is sufficient to verify the claim.

IMPORTANT: Be PERMISSIVE. Documents on the same general topic count as SUFFICIENT
even without a direct answer.

Respond in this format:
DECISION: [SUFFICIENT/INSUFFICIENT/CONTRADICTORY]
CONFIDENCE: [0.0-1.0]
REASONING: [detailed explanation]`)

	return b.String()
}

func preview(content string) string {
	if len(content) <= previewChars {
		return content
	}
	return content[:previewChars] + "..."
}

// parseEvaluation scans the reply line by line for the three expected
// fields. Missing or malformed lines fall back to the documented
// defaults so the pipeline is total over all model outputs.
func parseEvaluation(text string) model.SufficiencyVerdict {
	quality := model.QualityInsufficient
	confidence := 0.5
	reasoning := "response could not be parsed"

	scanner := bufio.NewScanner(strings.NewReader(text))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		switch {
		case strings.HasPrefix(line, "DECISION:"):
			token := strings.ToUpper(strings.TrimSpace(strings.TrimPrefix(line, "DECISION:")))
			token = strings.Trim(token, " .*[]")
			switch token {
			case "SUFFICIENT":
				quality = model.QualitySufficient
			case "CONTRADICTORY":
				quality = model.QualityContradictory
			case "INSUFFICIENT":
				quality = model.QualityInsufficient
			}
		case strings.HasPrefix(line, "CONFIDENCE:"):
			raw := strings.TrimSpace(strings.TrimPrefix(line, "CONFIDENCE:"))
			if v, err := strconv.ParseFloat(raw, 64); err == nil {
				confidence = clamp01(v)
			}
		case strings.HasPrefix(line, "REASONING:"):
			if r := strings.TrimSpace(strings.TrimPrefix(line, "REASONING:")); r != "" {
				reasoning = r
			}
		}
	}

	verdict := model.SufficiencyVerdict{
		Quality:    quality,
		Confidence: confidence,
		Reasoning:  reasoning,
	}

	return escalate(verdict)
}

// escalate upgrades INSUFFICIENT to SUFFICIENT when the model expressed
// high confidence in a relevance judgment while mislabeling the
// top-level decision token.
func escalate(v model.SufficiencyVerdict) model.SufficiencyVerdict {
	if v.Quality != model.QualityInsufficient || v.Confidence <= 0.6 {
		return v
	}

	reasoning := strings.ToLower(v.Reasoning)
	for _, keyword := range relevanceKeywords {
		if strings.Contains(reasoning, keyword) {
			v.Quality = model.QualitySufficient
			return v
		}
	}
	return v
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
