// File: internal/runner/result.go
package runner

import "time"

// StepStatus is the execution outcome of a single step.
type StepStatus int

const (
	// StepPassed indicates the handler returned without error.
	StepPassed StepStatus = iota
	// StepFailed indicates resolution or the handler failed.
	StepFailed
	// StepSkipped indicates the step never ran because an earlier step
	// failed (fail-fast).
	StepSkipped
)

func (s StepStatus) String() string {
	switch s {
	case StepPassed:
		return "passed"
	case StepFailed:
		return "failed"
	case StepSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// Status is the scenario-level state machine. A scenario starts Pending,
// moves to Running when its first step executes, and finalizes as exactly
// one of Passed or Failed.
type Status int

const (
	Pending Status = iota
	Running
	Passed
	Failed
)

func (s Status) String() string {
	switch s {
	case Pending:
		return "pending"
	case Running:
		return "running"
	case Passed:
		return "passed"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// StepResult records the outcome of one step line.
type StepResult struct {
	Keyword  string        `json:"keyword"`
	Text     string        `json:"text"`
	Status   StepStatus    `json:"-"`
	StatusS  string        `json:"status"`
	Error    string        `json:"error,omitempty"`
	Duration time.Duration `json:"duration_ns"`
}

// Result is the finalized outcome of one concrete scenario execution. It
// is created during execution, handed to the reporting sink and never
// mutated afterwards.
type Result struct {
	Scenario string        `json:"scenario"`
	Source   string        `json:"source,omitempty"`
	Status   Status        `json:"-"`
	StatusS  string        `json:"status"`
	Steps    []StepResult  `json:"steps"`
	Duration time.Duration `json:"duration_ns"`

	// FailedStepIndex is the zero-based index of the failing step, -1 for
	// a passing scenario. FailedStepText carries the step's literal text
	// for traceability.
	FailedStepIndex int    `json:"failed_step_index"`
	FailedStepText  string `json:"failed_step_text,omitempty"`
	Error           string `json:"error,omitempty"`

	// Diagnostic references the attachment captured on failure (e.g. a
	// screenshot path). Empty when the scenario passed or capture failed.
	Diagnostic string `json:"diagnostic,omitempty"`

	err error
}

// Err returns the structured failure cause, nil for a passing scenario.
// The full error chain is preserved so callers can inspect the original
// driver or assertion error with errors.As.
func (r *Result) Err() error { return r.err }

// Summary aggregates the results of one suite run.
type Summary struct {
	RunID    string        `json:"run_id"`
	Started  time.Time     `json:"started"`
	Finished time.Time     `json:"finished"`
	Duration time.Duration `json:"duration_ns"`
	Results  []Result      `json:"results"`
}

// Passed counts scenarios that finalized as Passed.
func (s *Summary) Passed() int {
	n := 0
	for i := range s.Results {
		if s.Results[i].Status == Passed {
			n++
		}
	}
	return n
}

// Failed counts scenarios that finalized as Failed.
func (s *Summary) Failed() int {
	return len(s.Results) - s.Passed()
}

// OK reports whether every scenario passed. The process exit status is
// derived from this.
func (s *Summary) OK() bool { return s.Failed() == 0 }
