package evaluate

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/veridex/veridex/internal/llm"
	"github.com/veridex/veridex/internal/model"
)

func testEvidence() model.EvidenceSet {
	return model.EvidenceSet{
		{
			Content:        "Multiple large studies found no link between vaccines and autism.",
			Origin:         model.OriginLocal,
			SourceID:       "vaccines.md",
			RelevanceScore: 0.85,
			Rank:           1,
		},
	}
}

func TestEvaluate_EmptyEvidenceSkipsModel(t *testing.T) {
	provider := llm.NewMockProvider("should never be used")
	evaluator := NewEvaluator(provider)

	verdict, err := evaluator.Evaluate(context.Background(), model.NewClaim("some claim"), model.EvidenceSet{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if verdict.Quality != model.QualityInsufficient {
		t.Errorf("expected INSUFFICIENT, got %s", verdict.Quality)
	}
	if verdict.Confidence != 0 {
		t.Errorf("expected confidence 0, got %v", verdict.Confidence)
	}
	if provider.Invocations() != 0 {
		t.Errorf("expected no model calls, got %d", provider.Invocations())
	}
}

func TestEvaluate_Sufficient(t *testing.T) {
	provider := llm.NewMockProvider(`DECISION: SUFFICIENT
CONFIDENCE: 0.9
REASONING: The documents directly address the claim.`)
	evaluator := NewEvaluator(provider)

	verdict, err := evaluator.Evaluate(context.Background(), model.NewClaim("vaccines cause autism"), testEvidence())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if verdict.Quality != model.QualitySufficient {
		t.Errorf("expected SUFFICIENT, got %s", verdict.Quality)
	}
	if verdict.Confidence != 0.9 {
		t.Errorf("expected confidence 0.9, got %v", verdict.Confidence)
	}
	if !verdict.ShouldProceed() {
		t.Error("expected ShouldProceed true")
	}
}

func TestEvaluate_PromptContainsClaimAndPreview(t *testing.T) {
	provider := llm.NewMockProvider("DECISION: SUFFICIENT\nCONFIDENCE: 0.8\nREASONING: ok")
	evaluator := NewEvaluator(provider)

	longContent := strings.Repeat("x", 900)
	evidence := model.EvidenceSet{{Content: longContent, SourceID: "long.md"}}

	if _, err := evaluator.Evaluate(context.Background(), model.NewClaim("a claim"), evidence); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	reqs := provider.Requests()
	if len(reqs) != 1 {
		t.Fatalf("expected 1 request, got %d", len(reqs))
	}
	prompt := reqs[0].Prompt
	if !strings.Contains(prompt, `"a claim"`) {
		t.Error("expected prompt to contain the claim")
	}
	if strings.Contains(prompt, longContent) {
		t.Error("expected evidence content truncated in prompt")
	}
	if !strings.Contains(prompt, longContent[:500]+"...") {
		t.Error("expected 500-char preview with ellipsis")
	}
}

func TestEvaluate_MalformedOutputDefaults(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{"no structure at all", "I think the evidence looks fine to me."},
		{"missing decision line", "CONFIDENCE: 0.3\nREASONING: partial output"},
		{"non-numeric confidence", "DECISION: INSUFFICIENT\nCONFIDENCE: high\nREASONING: hmm"},
		{"empty response", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := llm.NewMockProvider(tt.response)
			evaluator := NewEvaluator(provider)

			verdict, err := evaluator.Evaluate(context.Background(), model.NewClaim("a claim"), testEvidence())
			if err != nil {
				t.Fatalf("malformed output must not error: %v", err)
			}
			if verdict.Quality != model.QualityInsufficient {
				t.Errorf("expected default INSUFFICIENT, got %s", verdict.Quality)
			}
		})
	}
}

func TestEvaluate_ConfidenceClamped(t *testing.T) {
	provider := llm.NewMockProvider("DECISION: SUFFICIENT\nCONFIDENCE: 1.7\nREASONING: very sure")
	evaluator := NewEvaluator(provider)

	verdict, err := evaluator.Evaluate(context.Background(), model.NewClaim("a claim"), testEvidence())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if verdict.Confidence != 1.0 {
		t.Errorf("expected confidence clamped to 1.0, got %v", verdict.Confidence)
	}
}

func TestEvaluate_EscalatesRelevantInsufficient(t *testing.T) {
	provider := llm.NewMockProvider(`DECISION: INSUFFICIENT
CONFIDENCE: 0.8
REASONING: The documents are highly relevant to the vaccine topic but do not answer directly.`)
	evaluator := NewEvaluator(provider)

	verdict, err := evaluator.Evaluate(context.Background(), model.NewClaim("vaccines cause autism"), testEvidence())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if verdict.Quality != model.QualitySufficient {
		t.Errorf("expected escalation to SUFFICIENT, got %s", verdict.Quality)
	}
}

func TestEvaluate_NoEscalationAtLowConfidence(t *testing.T) {
	provider := llm.NewMockProvider(`DECISION: INSUFFICIENT
CONFIDENCE: 0.4
REASONING: Somewhat related to the topic but too thin.`)
	evaluator := NewEvaluator(provider)

	verdict, err := evaluator.Evaluate(context.Background(), model.NewClaim("a claim"), testEvidence())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if verdict.Quality != model.QualityInsufficient {
		t.Errorf("expected INSUFFICIENT kept at low confidence, got %s", verdict.Quality)
	}
}

func TestEvaluate_NoEscalationWithoutKeywords(t *testing.T) {
	provider := llm.NewMockProvider(`DECISION: INSUFFICIENT
CONFIDENCE: 0.9
REASONING: The documents discuss something else entirely.`)
	evaluator := NewEvaluator(provider)

	verdict, err := evaluator.Evaluate(context.Background(), model.NewClaim("a claim"), testEvidence())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if verdict.Quality != model.QualityInsufficient {
		t.Errorf("expected INSUFFICIENT without relevance keywords, got %s", verdict.Quality)
	}
}

func TestEvaluate_Contradictory(t *testing.T) {
	provider := llm.NewMockProvider("DECISION: CONTRADICTORY\nCONFIDENCE: 0.7\nREASONING: sources disagree")
	evaluator := NewEvaluator(provider)

	verdict, err := evaluator.Evaluate(context.Background(), model.NewClaim("a claim"), testEvidence())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if verdict.Quality != model.QualityContradictory {
		t.Errorf("expected CONTRADICTORY, got %s", verdict.Quality)
	}
	if !verdict.ShouldProceed() {
		t.Error("contradictory evidence should still proceed to synthesis")
	}
}

func TestEvaluate_ProviderError(t *testing.T) {
	provider := &llm.MockProvider{Err: errors.New("model unavailable")}
	evaluator := NewEvaluator(provider)

	if _, err := evaluator.Evaluate(context.Background(), model.NewClaim("a claim"), testEvidence()); err == nil {
		t.Error("expected provider error to propagate")
	}
}
