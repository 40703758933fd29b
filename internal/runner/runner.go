// Package runner is the caller side of the engine: it drives many test
// methods of a case, aggregates their results, and renders a summary
// report. It is also where fatal faults are converted into an outcome
// distinct from an ordinary test failure.
package runner

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/tickunit/tickunit/internal/core"
)

// Outcome classifies one case run.
type Outcome int

const (
	// Passed: the run completed with zero recorded failures.
	Passed Outcome = iota
	// Failed: the run completed with one or more recorded failures.
	Failed
	// Errored: the run did not complete normally. Either the configuration
	// was invalid or a fatal fault propagated out of the run. This is a bug
	// in the test or the code under test, not a documented expectation
	// mismatch.
	Errored
)

func (o Outcome) String() string {
	switch o {
	case Passed:
		return "pass"
	case Failed:
		return "fail"
	case Errored:
		return "error"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// CaseRun is the aggregated record of one test method run.
type CaseRun struct {
	Case    string
	Method  string
	Outcome Outcome
	// Result is nil when Outcome is Errored.
	Result *core.TestResult
	// Err describes the configuration error or fatal fault for an Errored
	// run.
	Err error
	// Expected is the outcome the plan declared for this method; defaults
	// to Passed.
	Expected Outcome
}

// AsExpected reports whether the run came out the way the plan declared.
func (cr CaseRun) AsExpected() bool { return cr.Outcome == cr.Expected }

// Summary aggregates the runs of one suite in execution order.
type Summary struct {
	Suite string
	Runs  []CaseRun
}

// Count returns how many runs had the given outcome.
func (s *Summary) Count(outcome Outcome) int {
	n := 0

	for _, run := range s.Runs {
		if run.Outcome == outcome {
			n++
		}
	}

	return n
}

// OK reports whether every run came out as its declared expectation.
func (s *Summary) OK() bool {
	for _, run := range s.Runs {
		if !run.AsExpected() {
			return false
		}
	}

	return true
}

// Runner executes registered test methods one at a time and aggregates
// their outcomes.
type Runner struct {
	// Out receives the rendered report. Defaults to os.Stdout.
	Out io.Writer
	// Logger receives per-run progress. Defaults to discard.
	Logger *slog.Logger
	// NoColor disables ANSI colors in the report regardless of TTY state.
	NoColor bool
}

// New returns a Runner writing to stdout with logging discarded.
func New() *Runner {
	return &Runner{
		Out:    os.Stdout,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// logger tolerates a zero-value Runner.
func (r *Runner) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return r.Logger
}

// RunAll runs every registered method of the case in registration order and
// returns the aggregated summary.
func (r *Runner) RunAll(tc *core.TestCase) *Summary {
	summary := &Summary{Suite: tc.Name()}

	for _, method := range tc.TestMethods() {
		summary.Runs = append(summary.Runs, r.runOne(tc, method, Passed))
	}

	return summary
}

// RunPlan runs the methods the plan selects, in registration order, with the
// plan's declared expectations applied.
func (r *Runner) RunPlan(tc *core.TestCase, plan *Plan) (*Summary, error) {
	summary := &Summary{Suite: plan.Suite}
	if summary.Suite == "" {
		summary.Suite = tc.Name()
	}

	for _, method := range tc.TestMethods() {
		selected, err := plan.Selects(method)
		if err != nil {
			return nil, err
		}

		if !selected {
			continue
		}

		expected, err := plan.ExpectedOutcome(method)
		if err != nil {
			return nil, err
		}

		summary.Runs = append(summary.Runs, r.runOne(tc, method, expected))
	}

	return summary, nil
}

// runOne drives a single method. Run re-panics fatal faults by contract;
// the runner is the caller responsible for absorbing them and recording an
// error state distinct from a failed test.
func (r *Runner) runOne(tc *core.TestCase, method string, expected Outcome) (run CaseRun) {
	run = CaseRun{Case: tc.Name(), Method: method, Expected: expected}

	defer func() {
		if fault := recover(); fault != nil {
			run.Outcome = Errored
			run.Err = fmt.Errorf("fatal fault in %s.%s: %v", tc.Name(), method, fault)
			r.logger().Error("run faulted", "case", tc.Name(), "method", method, "fault", fault)
		}
	}()

	r.logger().Info("running", "case", tc.Name(), "method", method)
	tc.SetTestMethodName(method)

	result, err := tc.Run(nil)
	if err != nil {
		run.Outcome = Errored
		run.Err = err

		return run
	}

	run.Result = result
	if result.Passed() {
		run.Outcome = Passed
	} else {
		run.Outcome = Failed
	}

	return run
}
