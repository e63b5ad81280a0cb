package model

import "time"

// Stage names used as keys in per-stage results.
const (
	StageSupervisor = "supervisor"
	StageRetrieve   = "retrieve"
	StageSelfCheck  = "self_check"
	StageAnswer     = "answer"
	StageSafety     = "safety"
)

// VerificationState is the single mutable record threaded through the
// pipeline. Each stage mutates it in place; it is created at request start
// and discarded at request end. Once ErrorMessage is set, the state is
// pinned to the terminal error path and no later stage may overwrite
// FinalAnswer with non-error content.
type VerificationState struct {
	Claim        Claim
	Evidence     EvidenceSet
	SourceLabel  SourceLabel
	Sufficiency  *SufficiencyVerdict
	Verdict      Verdict
	Explanation  string
	Citations    []Citation
	FinalAnswer  string
	StageResults map[string]any
	ErrorMessage string
}

// NewVerificationState creates the initial state for one request.
func NewVerificationState(claim Claim) *VerificationState {
	return &VerificationState{
		Claim:        claim,
		Verdict:      VerdictInsufficient,
		StageResults: make(map[string]any),
	}
}

// Fail records the first error and pins the state to the error path.
func (s *VerificationState) Fail(msg string) {
	if s.ErrorMessage == "" {
		s.ErrorMessage = msg
	}
}

// Failed reports whether the state is on the terminal error path.
func (s *VerificationState) Failed() bool {
	return s.ErrorMessage != ""
}

// RecordStage stores a stage's result for downstream consumers.
func (s *VerificationState) RecordStage(name string, result any) {
	s.StageResults[name] = result
}

// VerificationResult is the surface returned to callers.
type VerificationResult struct {
	Claim        string         `json:"claim"`
	Success      bool           `json:"success"`
	Verdict      Verdict        `json:"verdict"`
	FinalAnswer  string         `json:"final_answer"`
	Citations    []Citation     `json:"citations"`
	StageResults map[string]any `json:"stage_results,omitempty"`
	Error        string         `json:"error,omitempty"`
	VerifiedAt   time.Time      `json:"verified_at"`
	Duration     time.Duration  `json:"duration_ns"`
}
