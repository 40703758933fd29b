package runner

// This file provides the human-readable summary report.

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Report renders the summary to the writer. Output is colored unless the
// runner disables it; the color library additionally suppresses ANSI codes
// on non-TTY destinations and under NO_COLOR.
func (r *Runner) Report(w io.Writer, summary *Summary) error {
	paint := r.painter()

	_, err := fmt.Fprintf(w, "suite %s: %d run, %d passed, %d failed, %d errored\n",
		summary.Suite, len(summary.Runs),
		summary.Count(Passed), summary.Count(Failed), summary.Count(Errored))
	if err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	for _, run := range summary.Runs {
		if err := r.reportRun(w, paint, run); err != nil {
			return err
		}
	}

	return nil
}

func (r *Runner) reportRun(w io.Writer, paint map[Outcome]func(...any) string, run CaseRun) error {
	suffix := ""

	switch {
	case !run.AsExpected():
		suffix = " (unexpected)"
	case run.Expected != Passed:
		suffix = " (expected)"
	}

	_, err := fmt.Fprintf(w, "  %s %s%s\n", paint[run.Outcome](statusLabel(run.Outcome)), run.Method, suffix)
	if err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	if run.Err != nil {
		if _, err := fmt.Fprintf(w, "        %s\n", run.Err); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
	}

	if run.Result == nil {
		return nil
	}

	for _, failure := range run.Result.Failures() {
		if _, err := fmt.Fprintf(w, "        %s\n", failure); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
	}

	return nil
}

// painter maps outcomes to sprint functions, identity functions when color
// is off.
func (r *Runner) painter() map[Outcome]func(...any) string {
	if r.NoColor {
		plain := fmt.Sprint

		return map[Outcome]func(...any) string{Passed: plain, Failed: plain, Errored: plain}
	}

	return map[Outcome]func(...any) string{
		Passed:  color.New(color.FgGreen).SprintFunc(),
		Failed:  color.New(color.FgRed, color.Bold).SprintFunc(),
		Errored: color.New(color.FgYellow, color.Bold).SprintFunc(),
	}
}

func statusLabel(outcome Outcome) string {
	switch outcome {
	case Passed:
		return "pass "
	case Failed:
		return "FAIL "
	case Errored:
		return "ERROR"
	default:
		return outcome.String()
	}
}
