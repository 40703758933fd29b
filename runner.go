package tickunit

// Re-exports for the suite runner. Implementation lives in internal/runner.

import (
	"github.com/tickunit/tickunit/internal/runner"
)

// Runner executes registered test methods one at a time and aggregates
// their outcomes, absorbing fatal faults into an error outcome.
type Runner = runner.Runner

// NewRunner creates a Runner writing to stdout with logging discarded.
func NewRunner() *Runner {
	return runner.New()
}

// Summary aggregates the runs of one suite.
type Summary = runner.Summary

// CaseRun is the aggregated record of one test method run.
type CaseRun = runner.CaseRun

// Outcome classifies one case run.
type Outcome = runner.Outcome

// Outcomes.
const (
	Passed  = runner.Passed
	Failed  = runner.Failed
	Errored = runner.Errored
)

// Plan selects and annotates test methods for a run.
type Plan = runner.Plan

// LoadPlan reads and validates a YAML plan file.
func LoadPlan(path string) (*Plan, error) {
	return runner.LoadPlan(path)
}
