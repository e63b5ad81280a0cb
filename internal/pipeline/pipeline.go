// Package pipeline runs the verification state machine: a claim flows
// through supervisor validation, hybrid retrieval, sufficiency
// self-check, answer synthesis and safety review, one stage at a time,
// with an absorbing error state reachable from any stage.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/veridex/veridex/internal/answer"
	"github.com/veridex/veridex/internal/evaluate"
	"github.com/veridex/veridex/internal/model"
	"github.com/veridex/veridex/internal/retrieval"
	"github.com/veridex/veridex/internal/safety"
)

// Verifier drives one claim through all stages to completion. Stages
// run strictly sequentially; there is no retry and no cancellation
// beyond what the passed context enforces on external calls.
type Verifier struct {
	retriever   *retrieval.Retriever
	evaluator   *evaluate.Evaluator
	synthesizer *answer.Synthesizer
	reviewer    *safety.Reviewer
	logger      *slog.Logger
}

// NewVerifier wires the stage collaborators into a pipeline.
func NewVerifier(retriever *retrieval.Retriever, evaluator *evaluate.Evaluator, synthesizer *answer.Synthesizer, reviewer *safety.Reviewer) *Verifier {
	return &Verifier{
		retriever:   retriever,
		evaluator:   evaluator,
		synthesizer: synthesizer,
		reviewer:    reviewer,
		logger:      slog.Default().With("component", "pipeline"),
	}
}

// Verify runs the full pipeline for one claim. It never returns an
// error: failures surface in the result with Success=false and a
// generic failure message as the final answer.
func (v *Verifier) Verify(ctx context.Context, claimText string) *model.VerificationResult {
	started := time.Now()

	claim := model.NewClaim(claimText)
	state := model.NewVerificationState(claim)

	stage := StageSupervisor
	for !stage.terminal() {
		next := v.step(ctx, stage, state)
		v.logger.Debug("stage transition", "from", string(stage), "to", string(next))
		stage = next
	}

	if stage == StageError {
		state.Verdict = model.VerdictError
		state.FinalAnswer = fmt.Sprintf("❌ Verification failed: %s", state.ErrorMessage)
	}

	result := &model.VerificationResult{
		Claim:        claim.Text,
		Success:      !state.Failed(),
		Verdict:      state.Verdict,
		FinalAnswer:  state.FinalAnswer,
		Citations:    state.Citations,
		StageResults: state.StageResults,
		Error:        state.ErrorMessage,
		VerifiedAt:   started.UTC(),
		Duration:     time.Since(started),
	}

	v.logger.Info("verification finished",
		"success", result.Success,
		"verdict", string(result.Verdict),
		"duration", result.Duration)

	return result
}

// step executes one stage and returns the next. Each transition is a
// pure function of the current state; no global state is consulted.
func (v *Verifier) step(ctx context.Context, stage Stage, state *model.VerificationState) Stage {
	switch stage {
	case StageSupervisor:
		return v.supervise(state)
	case StageRetrieve:
		return v.retrieve(ctx, state)
	case StageSelfCheck:
		return v.selfCheck(ctx, state)
	case StageAnswer:
		return v.answer(ctx, state)
	case StageSafety:
		return v.safetyReview(ctx, state)
	default:
		state.Fail(fmt.Sprintf("unknown stage %q", stage))
		return StageError
	}
}

// supervise rejects empty claims before any external call is made.
func (v *Verifier) supervise(state *model.VerificationState) Stage {
	if state.Claim.IsEmpty() {
		state.Fail("empty claim: nothing to verify")
		return StageError
	}

	state.RecordStage(model.StageSupervisor, map[string]any{"valid": true})
	return StageRetrieve
}

func (v *Verifier) retrieve(ctx context.Context, state *model.VerificationState) Stage {
	result, err := v.retriever.Retrieve(ctx, state.Claim)
	if err != nil {
		state.Fail(fmt.Sprintf("retrieval failed: %v", err))
		return StageError
	}

	state.Evidence = result.Evidence
	state.SourceLabel = result.Label
	state.RecordStage(model.StageRetrieve, map[string]any{
		"label":        string(result.Label),
		"local_count":  result.LocalCount,
		"web_count":    result.WebCount,
		"web_searched": result.WebSearched,
		"successful":   result.Successful,
	})

	// Zero evidence is a normal outcome, not an error: the self-check
	// short-circuits it to INSUFFICIENT and the answer stage emits the
	// insufficient-evidence template.
	return StageSelfCheck
}

func (v *Verifier) selfCheck(ctx context.Context, state *model.VerificationState) Stage {
	verdict, err := v.evaluator.Evaluate(ctx, state.Claim, state.Evidence)
	if err != nil {
		state.Fail(fmt.Sprintf("sufficiency check failed: %v", err))
		return StageError
	}

	state.Sufficiency = &verdict
	state.RecordStage(model.StageSelfCheck, map[string]any{
		"quality":    string(verdict.Quality),
		"confidence": verdict.Confidence,
		"reasoning":  verdict.Reasoning,
	})

	return StageAnswer
}

func (v *Verifier) answer(ctx context.Context, state *model.VerificationState) Stage {
	synthesis, err := v.synthesizer.Synthesize(ctx, state.Claim, state.Evidence, *state.Sufficiency, state.SourceLabel)
	if err != nil {
		state.Fail(fmt.Sprintf("answer synthesis failed: %v", err))
		return StageError
	}

	state.Verdict = synthesis.Verdict
	state.Explanation = synthesis.Explanation
	state.Citations = synthesis.Citations
	state.RecordStage(model.StageAnswer, map[string]any{
		"verdict":   string(synthesis.Verdict),
		"citations": len(synthesis.Citations),
	})

	return StageSafety
}

func (v *Verifier) safetyReview(ctx context.Context, state *model.VerificationState) Stage {
	review := v.reviewer.Examine(ctx, state.Claim, state.Explanation, state.Verdict)

	state.FinalAnswer = review.FinalAnswer
	state.RecordStage(model.StageSafety, map[string]any{
		"decision":              string(review.Decision),
		"risk_level":            string(review.RiskLevel),
		"flagged_keywords":      review.FoundKeywords,
		"requires_modification": review.RequiresModification(),
		"is_safe":               review.IsSafe(),
	})

	return StageDone
}
