// Package tickunit provides a unit-testing engine for cooperatively
// scheduled test bodies: tests that suspend across scheduler ticks while
// assertion failures raised anywhere beneath them are captured, attributed
// to the offending user-code line, and aggregated into a per-run result.
//
// This is the public API entry point. Implementation lives in internal/core.
package tickunit

import (
	"github.com/tickunit/tickunit/internal/core"
)

// TestCase owns registered test methods and drives the selected one to
// completion under the cooperative scheduler.
type TestCase = core.TestCase

// NewTestCase creates a TestCase; the name stands in for the owning type
// name in failure descriptions.
func NewTestCase(name string) *TestCase {
	return core.NewTestCase(name)
}

// TestResult aggregates the outcome of one run.
type TestResult = core.TestResult

// NewTestResult creates an empty result, for callers that want to supply
// their own to Run.
func NewTestResult() *TestResult {
	return core.NewTestResult()
}

// T is the run handle passed to test bodies: scheduling operations plus the
// assertion predicates.
type T = core.T

// Body is a registered test method.
type Body = core.Body

// FailureRecord describes one failed assertion, with its attributed source
// location.
type FailureRecord = core.FailureRecord

// Frame is one captured stack frame, for attribution.
type Frame = core.Frame

// Location is a resolved source position.
type Location = core.Location

// Attributor resolves the user-code call site of a failure.
type Attributor = core.Attributor

// NewAttributor creates an Attributor that skips the engine's own frames
// plus any frames matching the given markers.
func NewAttributor(markers ...string) *Attributor {
	return core.NewAttributor(markers...)
}

// CaptureFrames captures the current call stack at the raise point.
func CaptureFrames(skip int) []Frame {
	return core.CaptureFrames(skip)
}

// Timer supplies the time source for run deadlines.
type Timer = core.Timer

// Errors.
var (
	// ErrNoTestSelected reports a Run with no test method name set.
	ErrNoTestSelected = core.ErrNoTestSelected
	// ErrUnknownTest reports a selected name with no registered method.
	ErrUnknownTest = core.ErrUnknownTest
)
