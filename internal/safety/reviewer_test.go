package safety

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/veridex/veridex/internal/llm"
	"github.com/veridex/veridex/internal/model"
)

func TestExamine_Approve(t *testing.T) {
	reviewer := NewReviewer(llm.NewMockProvider("DECISION: APPROVE\nREASON: neutral and objective"))

	review := reviewer.Examine(context.Background(),
		model.NewClaim("brazil grows coffee"),
		"The claim is TRUE based on the evidence.",
		model.VerdictTrue)

	if review.Decision != Approve {
		t.Errorf("expected APPROVE, got %s", review.Decision)
	}
	if !review.IsSafe() {
		t.Error("expected approved answer to be safe")
	}
	if review.RequiresModification() {
		t.Error("approved answer must not require modification")
	}
	if !strings.Contains(review.FinalAnswer, "The claim is TRUE") {
		t.Error("expected original answer preserved")
	}
	if !strings.Contains(review.FinalAnswer, "IMPORTANT DISCLAIMER") {
		t.Error("expected disclaimer appended")
	}
}

func TestExamine_ModifyStillDelivers(t *testing.T) {
	reviewer := NewReviewer(llm.NewMockProvider("DECISION: MODIFY\nREASON: tone could mislead"))

	review := reviewer.Examine(context.Background(),
		model.NewClaim("a claim"), "original answer text", model.VerdictFalse)

	if review.Decision != Modify {
		t.Errorf("expected MODIFY, got %s", review.Decision)
	}
	if !review.IsSafe() || !review.RequiresModification() {
		t.Error("MODIFY must be safe and flagged for modification")
	}
	if !strings.Contains(review.FinalAnswer, "original answer text") {
		t.Error("MODIFY must still deliver the answer")
	}
	if !strings.Contains(review.FinalAnswer, "SAFETY NOTE") {
		t.Error("expected inline safety note for MODIFY")
	}
	if !strings.Contains(review.FinalAnswer, "IMPORTANT DISCLAIMER") {
		t.Error("expected disclaimer appended")
	}
}

func TestExamine_RejectSubstitutesFallback(t *testing.T) {
	reviewer := NewReviewer(llm.NewMockProvider("DECISION: REJECT\nREASON: dispenses medical advice"))

	review := reviewer.Examine(context.Background(),
		model.NewClaim("a claim"), "take this medication immediately", model.VerdictTrue)

	if review.Decision != Reject {
		t.Errorf("expected REJECT, got %s", review.Decision)
	}
	if review.IsSafe() {
		t.Error("rejected answer must not be safe")
	}
	if strings.Contains(review.FinalAnswer, "take this medication") {
		t.Error("rejected answer text must not be delivered")
	}
	if !strings.Contains(review.FinalAnswer, "withheld by the safety review") {
		t.Error("expected safe fallback answer")
	}
	if !strings.Contains(review.FinalAnswer, "IMPORTANT DISCLAIMER") {
		t.Error("expected disclaimer even on rejection")
	}
}

func TestExamine_FailOpenOnModelError(t *testing.T) {
	reviewer := NewReviewer(&llm.MockProvider{Err: errors.New("safety model down")})

	review := reviewer.Examine(context.Background(),
		model.NewClaim("a claim"), "some answer", model.VerdictTrue)

	if review.Decision != Approve {
		t.Errorf("expected fail-open APPROVE, got %s", review.Decision)
	}
	if !strings.Contains(review.FinalAnswer, "some answer") {
		t.Error("expected answer delivered despite review outage")
	}
	if !strings.Contains(review.FinalAnswer, "IMPORTANT DISCLAIMER") {
		t.Error("expected disclaimer despite review outage")
	}
}

func TestExamine_MalformedReviewDefaultsToApprove(t *testing.T) {
	reviewer := NewReviewer(llm.NewMockProvider("I am not sure what to say about this."))

	review := reviewer.Examine(context.Background(),
		model.NewClaim("a claim"), "an answer", model.VerdictTrue)

	if review.Decision != Approve {
		t.Errorf("expected default APPROVE, got %s", review.Decision)
	}
}

func TestExamine_KeywordScan(t *testing.T) {
	reviewer := NewReviewer(llm.NewMockProvider("DECISION: APPROVE\nREASON: ok"))

	review := reviewer.Examine(context.Background(),
		model.NewClaim("a claim"),
		"You should seek legal advice and consider an investment with your lawyer.",
		model.VerdictTrue)

	if review.RiskLevel != RiskHigh {
		t.Errorf("expected HIGH risk for 3 keywords, got %s", review.RiskLevel)
	}
	if len(review.FoundKeywords) != 3 {
		t.Errorf("expected 3 flagged keywords, got %v", review.FoundKeywords)
	}
	if !strings.Contains(review.FinalAnswer, "SAFETY NOTE") {
		t.Error("expected inline safety note when keywords found")
	}
}

func TestRiskLevel(t *testing.T) {
	tests := []struct {
		count int
		want  RiskLevel
	}{
		{0, RiskLow},
		{1, RiskMedium},
		{2, RiskMedium},
		{3, RiskHigh},
	}

	for _, tt := range tests {
		if got := riskLevel(tt.count); got != tt.want {
			t.Errorf("riskLevel(%d) = %s, want %s", tt.count, got, tt.want)
		}
	}
}
