// Package safety reviews synthesized answers before delivery. The
// review is fail-open: an outage in the safety model must not block an
// otherwise valid answer, and the disclaimer is always appended.
package safety

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/veridex/veridex/internal/llm"
	"github.com/veridex/veridex/internal/model"
)

// Decision is the safety reviewer's outcome for an answer.
type Decision string

const (
	Approve Decision = "APPROVE"
	Modify  Decision = "MODIFY"
	Reject  Decision = "REJECT"
)

// RiskLevel grades harmful-keyword density in an answer.
type RiskLevel string

const (
	RiskLow    RiskLevel = "LOW"
	RiskMedium RiskLevel = "MEDIUM"
	RiskHigh   RiskLevel = "HIGH"
)

// Disclaimer is appended to every delivered answer regardless of the
// review decision.
const Disclaimer = `⚠️ **IMPORTANT DISCLAIMER** ⚠️

This information is based on publicly available data and does not replace consulting primary sources or experts. The goal is to provide an informative analysis from the sources at hand.

- We do not offer specific legal, medical or financial advice
- Always consult official sources and experts
- Information may be outdated or incomplete
- Use this tool as a starting point for further investigation`

const safetyNote = "\n\n⚠️ **SAFETY NOTE**: This answer may contain information that requires consulting a specialist.\n"

const rejectedAnswer = "This answer was withheld by the safety review. " +
	"Please consult official sources or subject-matter experts about this claim."

const systemPrompt = `You are a safety agent reviewing fact-check answers before delivery.

SAFETY CRITERIA:
1. No specific legal advice
2. No medical diagnoses
3. No specific financial advice
4. No violence or hate speech
5. Appropriate disclaimers included
6. Neutral and objective tone

POSSIBLE ACTIONS:
- APPROVE: answer approved
- MODIFY: answer needs modification
- REJECT: answer rejected for safety reasons`

// harmfulKeywords flag advice categories the system must not dispense.
var harmfulKeywords = []string{
	"legal advice", "lawyer", "lawsuit",
	"diagnosis", "medical treatment", "medication",
	"investment", "stock purchase", "financial advice",
	"violence", "hatred", "discrimination",
}

// Review is the full safety assessment of one answer.
type Review struct {
	Decision      Decision
	Reason        string
	RiskLevel     RiskLevel
	FoundKeywords []string
	FinalAnswer   string
}

// IsSafe reports whether the answer may be delivered.
func (r *Review) IsSafe() bool {
	return r.Decision == Approve || r.Decision == Modify
}

// RequiresModification reports whether the reviewer asked for changes.
func (r *Review) RequiresModification() bool {
	return r.Decision == Modify
}

// Reviewer runs keyword screening plus a model-backed review on
// synthesized answers.
type Reviewer struct {
	provider llm.Provider
	logger   *slog.Logger
}

// NewReviewer creates a safety reviewer.
func NewReviewer(provider llm.Provider) *Reviewer {
	return &Reviewer{
		provider: provider,
		logger:   slog.Default().With("component", "safety"),
	}
}

// Examine reviews the answer and builds the deliverable final text.
// It never returns an error: model failures default to APPROVE.
// REJECT substitutes a safe fallback answer; MODIFY inserts a safety
// note but still delivers. The disclaimer is always present.
func (r *Reviewer) Examine(ctx context.Context, claim model.Claim, answer string, verdict model.Verdict) *Review {
	keywords := scanHarmfulKeywords(answer)
	risk := riskLevel(len(keywords))

	decision, reason := r.modelReview(ctx, claim, answer, verdict)

	final := answer
	switch decision {
	case Reject:
		final = rejectedAnswer
	case Modify:
		final += safetyNote
	default:
		if len(keywords) > 0 {
			final += safetyNote
		}
	}
	final += "\n\n" + Disclaimer

	review := &Review{
		Decision:      decision,
		Reason:        reason,
		RiskLevel:     risk,
		FoundKeywords: keywords,
		FinalAnswer:   final,
	}

	r.logger.Info("safety review completed",
		"decision", string(decision),
		"risk", string(risk),
		"flagged_keywords", len(keywords))

	return review
}

// modelReview asks the language model to classify the answer. Any
// failure defaults to APPROVE so the review never blocks delivery.
func (r *Reviewer) modelReview(ctx context.Context, claim model.Claim, answer string, verdict model.Verdict) (Decision, string) {
	prompt := fmt.Sprintf(`Claim: %q
Verdict: %s
Answer: %s

Review this answer for safety and ethics.

Check whether:
1. The answer offers specific legal, medical or financial advice
2. The answer promotes violence or hate speech
3. The answer is neutral and objective

Respond in this format:
DECISION: [APPROVE/MODIFY/REJECT]
REASON: [explanation of the decision]`, claim.Text, verdict, answer)

	resp, err := r.provider.Invoke(ctx, llm.Request{
		System: systemPrompt,
		Prompt: prompt,
	})
	if err != nil {
		r.logger.Warn("safety model call failed, approving by default", "err", err)
		return Approve, "safety review unavailable: " + err.Error()
	}

	return parseReview(resp.Text)
}

// parseReview extracts the decision and reason. Unrecognized decisions
// default to APPROVE, keeping the reviewer fail-open.
func parseReview(text string) (Decision, string) {
	decision := Approve
	reason := "answer approved"

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "DECISION:"):
			token := strings.ToUpper(strings.TrimSpace(strings.TrimPrefix(line, "DECISION:")))
			token = strings.Trim(token, " .*[]")
			switch token {
			case "MODIFY":
				decision = Modify
			case "REJECT":
				decision = Reject
			case "APPROVE":
				decision = Approve
			}
		case strings.HasPrefix(line, "REASON:"):
			if v := strings.TrimSpace(strings.TrimPrefix(line, "REASON:")); v != "" {
				reason = v
			}
		}
	}

	return decision, reason
}

func scanHarmfulKeywords(text string) []string {
	lower := strings.ToLower(text)

	var found []string
	for _, keyword := range harmfulKeywords {
		if strings.Contains(lower, keyword) {
			found = append(found, keyword)
		}
	}
	return found
}

func riskLevel(keywordCount int) RiskLevel {
	switch {
	case keywordCount > 2:
		return RiskHigh
	case keywordCount > 0:
		return RiskMedium
	default:
		return RiskLow
	}
}
