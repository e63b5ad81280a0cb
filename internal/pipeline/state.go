package pipeline

// Stage is one state of the verification state machine.
type Stage string

const (
	StageStart      Stage = "START"
	StageSupervisor Stage = "SUPERVISOR"
	StageRetrieve   Stage = "RETRIEVE"
	StageSelfCheck  Stage = "SELF_CHECK"
	StageAnswer     Stage = "ANSWER"
	StageSafety     Stage = "SAFETY"
	StageDone       Stage = "DONE"
	StageError      Stage = "ERROR"
)

// terminal reports whether the state machine has finished.
func (s Stage) terminal() bool {
	return s == StageDone || s == StageError
}
