package model

import "time"

// State names one node of the pipeline state machine. The graph is acyclic:
// no state is revisited within a run, so every run terminates regardless of
// external-service behavior.
type State string

const (
	StateResolvingFollowup State = "resolving_followup"
	StateClassifying       State = "classifying"
	StateExtracting        State = "extracting"
	StateNormalizingDates  State = "normalizing_dates"
	StateValidating        State = "validating"
	StateExecuting         State = "executing"
	StateDisambiguating    State = "disambiguating"
	StateClarifying        State = "clarifying"
	StateFormatting        State = "formatting"
	StateDone              State = "done"
)

// StepStatus records how one state transition went.
type StepStatus string

const (
	StepOK    StepStatus = "ok"
	StepError StepStatus = "error"
)

// StepResult is one entry in a run's ordered step log.
type StepResult struct {
	State    State      `json:"state"`
	Status   StepStatus `json:"status"`
	Duration int64      `json:"duration_ms"`
	Error    string     `json:"error,omitempty"`
}

// Outcome tags the terminal shape of a run's answer.
type Outcome string

const (
	OutcomeAnswered      Outcome = "answered"
	OutcomeClarification Outcome = "clarification"
	OutcomeNoData        Outcome = "no_data"
	OutcomeServiceError  Outcome = "service_error"
	OutcomeInternalError Outcome = "internal_error"
)

// WorkflowState is the single mutable context threaded through one pipeline
// run. It is created at the start of a run, owned exclusively by the
// orchestrator for that run's lifetime, and discarded once the response is
// produced; its terminal turn is projected into a ConversationTurn.
type WorkflowState struct {
	RunID     string `json:"run_id"`
	SessionID string `json:"session_id"`

	OriginalQuery string `json:"original_query"`
	Query         string `json:"query"`

	IsFollowUp         bool `json:"is_follow_up"`
	ClearTemporalScope bool `json:"clear_temporal_scope"`

	Intent     Intent     `json:"intent"`
	Confidence Confidence `json:"confidence"`

	Entities       ExtractedEntities `json:"entities"`
	Periods        []Period          `json:"periods"`
	InvalidPeriods []InvalidPeriod   `json:"invalid_periods,omitempty"`

	Validation ValidationResult   `json:"validation"`
	Residual   []AmbiguousMention `json:"residual,omitempty"`

	Result  *QueryResult `json:"result,omitempty"`
	Outcome Outcome      `json:"outcome"`
	Answer  string       `json:"answer"`

	Steps     []StepResult `json:"steps"`
	StartedAt time.Time    `json:"started_at"`
}

// RecordStep appends one entry to the ordered step log.
func (w *WorkflowState) RecordStep(state State, d time.Duration, err error) {
	step := StepResult{
		State:    state,
		Status:   StepOK,
		Duration: d.Milliseconds(),
	}
	if err != nil {
		step.Status = StepError
		step.Error = err.Error()
	}
	w.Steps = append(w.Steps, step)
}

// Visited reports whether a state already appears in the step log.
func (w *WorkflowState) Visited(state State) bool {
	for _, s := range w.Steps {
		if s.State == state {
			return true
		}
	}
	return false
}
