// Package answer synthesizes a verdict and explanation from judged
// evidence, building citations strictly from retrieved items.
package answer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/veridex/veridex/internal/llm"
	"github.com/veridex/veridex/internal/model"
)

const systemPrompt = `You are an agent that writes verified answers for a fact-checking system.

RULES:
1. ALWAYS base the answer on the provided evidence
2. Include citations (source + URL)
3. Be objective and impartial
4. Use clear, accessible language
5. State clearly whether the claim is TRUE, FALSE or PARTIALLY_TRUE
6. Explain the reasoning behind the conclusion

RESPONSE FORMAT:
VERDICT: [TRUE/FALSE/PARTIALLY_TRUE/INSUFFICIENT]
EVIDENCE: [list of the evidence found]
CITATIONS: [source + URL for each piece of evidence]
EXPLANATION: [detailed reasoning]`

// Synthesis is the answer produced for a claim.
type Synthesis struct {
	Verdict     model.Verdict
	Explanation string
	Citations   []model.Citation
}

// Synthesizer prompts a language model to reach a verdict over the
// evidence. Insufficient evidence gets a fixed templated answer without
// a model call.
type Synthesizer struct {
	provider llm.Provider
	logger   *slog.Logger
}

// NewSynthesizer creates an answer synthesizer.
func NewSynthesizer(provider llm.Provider) *Synthesizer {
	return &Synthesizer{
		provider: provider,
		logger:   slog.Default().With("component", "answer"),
	}
}

// Synthesize produces the verdict, explanation and citations for the
// claim. label drives the citation source-type filter.
func (s *Synthesizer) Synthesize(ctx context.Context, claim model.Claim, evidence model.EvidenceSet, sufficiency model.SufficiencyVerdict, label model.SourceLabel) (*Synthesis, error) {
	if sufficiency.Quality == model.QualityInsufficient {
		return insufficientEvidenceAnswer(claim), nil
	}

	prompt := buildAnswerPrompt(claim, evidence)

	resp, err := s.provider.Invoke(ctx, llm.Request{
		System: systemPrompt,
		Prompt: prompt,
	})
	if err != nil {
		return nil, fmt.Errorf("answer synthesis: %w", err)
	}

	verdict := extractVerdict(resp.Text)
	citations := buildCitations(evidence, label)

	s.logger.Info("answer synthesized",
		"verdict", string(verdict),
		"citations", len(citations),
		"label", string(label))

	return &Synthesis{
		Verdict:     verdict,
		Explanation: strings.TrimSpace(resp.Text),
		Citations:   citations,
	}, nil
}

// insufficientEvidenceAnswer is the canned response when evidence was
// judged insufficient. No citations, no model call.
func insufficientEvidenceAnswer(claim model.Claim) *Synthesis {
	return &Synthesis{
		Verdict: model.VerdictInsufficient,
		Explanation: fmt.Sprintf(
			"We could not find enough information in our trusted sources to verify the claim %q. "+
				"We recommend consulting primary sources or subject-matter experts for more precise information.",
			claim.Text),
		Citations: []model.Citation{},
	}
}

func buildAnswerPrompt(claim model.Claim, evidence model.EvidenceSet) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Claim to verify: %q\n\nEvidence found:\n", claim.Text)

	for i, item := range evidence {
		fmt.Fprintf(&b, "Evidence %d:\n", i+1)
		fmt.Fprintf(&b, "Source: %s\n", item.SourceID)
		if item.URL != "" {
			fmt.Fprintf(&b, "URL: %s\n", item.URL)
		}
		fmt.Fprintf(&b, "Relevance: %.2f\n", item.RelevanceScore)
		fmt.Fprintf(&b, "Content: %s\n\n", item.Content)
	}

	b.WriteString(`Based on the evidence above, produce a complete answer in the specified format.

IMPORTANT:
- Be objective and grounded only in the evidence
- Include specific citations for each piece of evidence
- State the conclusion about the claim's veracity clearly`)

	return b.String()
}

// extractVerdict finds the verdict line in the reply. Absent or
// unrecognized verdicts resolve to INSUFFICIENT.
func extractVerdict(text string) model.Verdict {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		upper := strings.ToUpper(line)
		for _, prefix := range []string{"VERDICT:", "CONCLUSION:", "CONCLUSÃO:"} {
			if strings.HasPrefix(upper, prefix) {
				return model.ParseVerdict(line[len(prefix):])
			}
		}
	}
	return model.VerdictInsufficient
}

// buildCitations projects evidence items into citations, applying the
// source-type filter: local-only retrievals cite everything; once a web
// search contributed, citations point only at web sources, which are
// externally verifiable by the reader.
func buildCitations(evidence model.EvidenceSet, label model.SourceLabel) []model.Citation {
	citations := make([]model.Citation, 0, len(evidence))

	webOnly := label == model.SourceHybrid || label == model.SourceWebOnly
	for _, item := range evidence {
		if webOnly && item.Origin != model.OriginWeb {
			continue
		}
		citations = append(citations, model.Citation{
			Source:         item.SourceID,
			URL:            item.URL,
			RelevanceScore: item.RelevanceScore,
		})
	}
	return citations
}

// FormatCitations renders citations for terminal or report output.
func FormatCitations(citations []model.Citation) string {
	if len(citations) == 0 {
		return "No citations available."
	}

	var b strings.Builder
	for i, c := range citations {
		if c.URL != "" {
			fmt.Fprintf(&b, "%d. %s - %s (relevance: %.2f)\n", i+1, c.Source, c.URL, c.RelevanceScore)
		} else {
			fmt.Fprintf(&b, "%d. %s (relevance: %.2f)\n", i+1, c.Source, c.RelevanceScore)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
