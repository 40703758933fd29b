package core

// This file provides TestCase and the run handle passed to test bodies.

// Error philosophy (see also the predicate layer in assert.go):
//
// Failures: assertion mismatches the user is testing for. Recorded, never
// fatal; the test body keeps executing subsequent statements.
//
// Errors: conditions the caller can correct, like selecting a test method
// that was never registered. Returned from Run before any setup executes.
//
// Panics: everything else. A panic in SetUp, TearDown, or non-predicate body
// code is a bug in the test or the code under test; it propagates out of Run
// uncaught so the harness can report it as an error state distinct from a
// documented test failure.

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"
)

// Body is a registered test method. The handle gives it access to yielding,
// nested units of work, and the assertion predicates.
type Body func(ti *T)

// TestCase owns a set of registered test methods, drives the selected one
// under a cooperative scheduler, and collects the failures it raises into a
// TestResult. An instance may be reused for sequential runs of different
// methods; each run produces an independent result.
type TestCase struct {
	caseName   string
	methodName string
	methods    map[string]Body
	names      []string

	setUp    func()
	tearDown func()

	failures        []FailureRecord
	result          *TestResult
	expectedFailure string
	expectationSet  bool

	timer      Timer
	timeout    time.Duration
	attributor *Attributor
	logger     *slog.Logger
}

// NewTestCase returns a TestCase with the given name. The name stands in for
// the owning type name in failure descriptions.
func NewTestCase(name string) *TestCase {
	return &TestCase{
		caseName:   name,
		methods:    map[string]Body{},
		timer:      realTimer{},
		attributor: NewAttributor(),
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// Name returns the case name.
func (tc *TestCase) Name() string { return tc.caseName }

// Register adds a test method under the given name, replacing any previous
// registration of that name.
func (tc *TestCase) Register(name string, body Body) {
	if _, exists := tc.methods[name]; !exists {
		tc.names = append(tc.names, name)
	}

	tc.methods[name] = body
}

// TestMethods returns the registered method names in registration order.
func (tc *TestCase) TestMethods() []string {
	out := make([]string, len(tc.names))
	copy(out, tc.names)

	return out
}

// SetTestMethodName selects which registered method the next Run drives.
func (tc *TestCase) SetTestMethodName(name string) { tc.methodName = name }

// TestMethodName returns the currently selected method name.
func (tc *TestCase) TestMethodName() string { return tc.methodName }

// OnSetUp installs the hook invoked before the test body. The default is a
// no-op. A panic here is fatal to the run, not a recorded failure: setup is
// not test-body code.
func (tc *TestCase) OnSetUp(hook func()) { tc.setUp = hook }

// OnTearDown installs the hook invoked after the test body, whether or not
// the body recorded failures. The default is a no-op.
func (tc *TestCase) OnTearDown(hook func()) { tc.tearDown = hook }

// SetTimeout bounds how long a run may take across all of its units of
// work. Zero, the default, means wait forever.
func (tc *TestCase) SetTimeout(timeout time.Duration) { tc.timeout = timeout }

// SetTimer replaces the time source used for run deadlines.
func (tc *TestCase) SetTimer(timer Timer) { tc.timer = timer }

// SetAttributor replaces the stack attributor used when recording failures.
func (tc *TestCase) SetAttributor(attributor *Attributor) { tc.attributor = attributor }

// SetLogger installs the logger for run-level pass/fail notifications.
// Notifications are informational only; results carry the contract.
func (tc *TestCase) SetLogger(logger *slog.Logger) { tc.logger = logger }

// Result returns the result of the most recently completed run, nil before
// the first run completes.
func (tc *TestCase) Result() *TestResult { return tc.result }

// Run drives the selected test method to completion and reports into the
// given result, constructing a fresh one when result is nil.
//
// The full lifecycle: validate the selection, SetUp, mark the result
// started, drive the body (and every nested unit of work it spawns) under
// the cooperative scheduler, drain recorded failures into the result in
// raise order, TearDown, clear the expected-failure slot, store the result.
//
// Assertion failures raised during the body are non-fatal and recorded; any
// other panic propagates out of Run after TearDown and the slot clearing
// have had their chance to execute.
func (tc *TestCase) Run(result *TestResult) (*TestResult, error) {
	if tc.methodName == "" {
		return nil, ErrNoTestSelected
	}

	body, registered := tc.methods[tc.methodName]
	if !registered {
		return nil, fmt.Errorf("%w: %s has no test method named %q",
			ErrUnknownTest, tc.caseName, tc.methodName)
	}

	if result == nil {
		result = NewTestResult()
	}

	// The list is drained at the end of every completed run; resetting here
	// additionally keeps a reused case clean after a prior fatal fault.
	tc.failures = nil

	// Deferred first so it runs last: the expectation slot is cleared
	// unconditionally, after TearDown, in every outcome including a
	// propagating fatal fault.
	defer func() {
		tc.expectedFailure = ""
		tc.expectationSet = false
	}()

	if tc.setUp != nil {
		tc.setUp()
	}

	// TearDown is registered only once SetUp succeeded, and runs even when
	// the body faults fatally.
	defer func() {
		if tc.tearDown != nil {
			tc.tearDown()
		}
	}()

	result.TestStarted()

	scheduler := newSched(tc.timer, tc.timeout)

	panicValue, panicked := scheduler.run(tc.unit(body))
	if panicked {
		panic(panicValue)
	}

	for _, record := range tc.failures {
		result.TestFailed(record)
	}

	failed := len(tc.failures) > 0
	tc.failures = nil

	if failed {
		tc.logger.Info("test failed",
			"case", tc.caseName, "method", tc.methodName, "result", result.String())
	} else {
		tc.logger.Info("test passed",
			"case", tc.caseName, "method", tc.methodName)
	}

	tc.result = result

	return result, nil
}

// unit wraps a body as a schedulable unit of work. The wrapper is the
// per-unit catch boundary for the failure signal: a FailNow inside the body
// records its failure and ends only that unit, while any other panic
// re-raises and aborts the whole schedule.
func (tc *TestCase) unit(body Body) func(*task) {
	return func(t *task) {
		defer func() {
			panicValue := recover()
			if panicValue == nil {
				return
			}

			signal, isFailure := panicValue.(failureSignal)
			if !isFailure {
				panic(panicValue)
			}

			tc.record(signal.record)
		}()

		body(&T{tc: tc, task: t})
	}
}

// record appends a failure in raise order, unless it matches the declared
// expected failure, in which case it is consumed along with the expectation.
func (tc *TestCase) record(record FailureRecord) {
	if tc.expectationSet && record.Message() == tc.expectedFailure {
		tc.expectedFailure = ""
		tc.expectationSet = false

		return
	}

	tc.failures = append(tc.failures, record)
}

// T is the run handle passed to test bodies. It carries the scheduling
// operations and the failure-recording entry point the predicate layer
// reports through.
type T struct {
	tc   *TestCase
	task *task
}

// Name returns the name of the running test method.
func (t *T) Name() string { return t.tc.methodName }

// Yield suspends the current unit of work until the next scheduler tick.
func (t *T) Yield() { t.task.yield() }

// Go schedules a nested unit of work. The run does not complete until every
// spawned unit has finished.
func (t *T) Go(body Body) {
	t.task.sched.spawn(t.tc.unit(body))
}

// MarkAsFailure records an assertion failure attributed to the first
// non-framework frame above the raise point, then returns: execution of the
// body continues with subsequent statements.
func (t *T) MarkAsFailure(message string) {
	t.tc.record(t.failure(message))
}

// FailNow records an assertion failure like MarkAsFailure, then stops the
// current unit of work. Other scheduled units still run to completion.
func (t *T) FailNow(message string) {
	panic(failureSignal{record: t.failure(message)})
}

// ExpectFailure declares that one upcoming failure with exactly the given
// message is expected, to test a collaborator's failure path. The next
// matching failure is consumed instead of recorded. The declaration never
// outlives the run: the engine clears it unconditionally when Run returns.
func (t *T) ExpectFailure(message string) {
	t.tc.expectedFailure = message
	t.tc.expectationSet = true
}

func (t *T) failure(message string) FailureRecord {
	return newFailureRecord(
		t.tc.caseName, t.tc.methodName, message, CaptureFrames(1), t.tc.attributor,
	)
}

// Errors.
var (
	// ErrNoTestSelected reports a Run with no test method name set.
	ErrNoTestSelected = errors.New("no test method selected")
	// ErrUnknownTest reports a selected name with no registered method.
	ErrUnknownTest = errors.New("unknown test method")
)
