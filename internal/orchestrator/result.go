package orchestrator

import "fmt"

type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeSkipped Outcome = "skipped"
	OutcomeFailed  Outcome = "failed"
)

// Stage names the pipeline step a failure is attributed to.
type Stage string

const (
	StageParse         Stage = "parse"
	StageFetchMetadata Stage = "fetch_metadata"
	StageFetchChanges  Stage = "fetch_changes"
	StageSummarize     Stage = "summarize"
	StagePostComment   Stage = "post_comment"

	StageNone Stage = "none"
)

const ReasonStateNotAllowed = "state_not_allowed"

// Result is the terminal outcome of one orchestrator run. It is observed and
// logged, never persisted.
type Result struct {
	Outcome Outcome
	Stage   Stage
	Reason  string
	Err     error
}

func (r Result) Success() bool {
	return r.Outcome == OutcomeSuccess
}

func (r Result) String() string {
	switch r.Outcome {
	case OutcomeSkipped:
		return fmt.Sprintf("skipped(%s)", r.Reason)
	case OutcomeFailed:
		return fmt.Sprintf("failed(%s): %v", r.Stage, r.Err)
	default:
		return string(r.Outcome)
	}
}

func success() Result {
	return Result{Outcome: OutcomeSuccess, Stage: StageNone}
}

func skipped(reason string) Result {
	return Result{Outcome: OutcomeSkipped, Stage: StageNone, Reason: reason}
}

func failed(stage Stage, err error) Result {
	return Result{Outcome: OutcomeFailed, Stage: stage, Err: err}
}
