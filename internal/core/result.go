package core

// This file provides TestResult.

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TestResult aggregates the outcome of one TestCase run: when it started and
// every failure recorded during execution. It is mutated only through
// TestStarted and TestFailed while the run is in flight, and never after the
// owning run completes.
type TestResult struct {
	id        uuid.UUID
	startedAt time.Time
	started   bool
	failures  []FailureRecord
}

// NewTestResult returns an empty result with a fresh run ID.
func NewTestResult() *TestResult {
	return &TestResult{id: uuid.New()}
}

// ID identifies this run, e.g. for persistence.
func (r *TestResult) ID() uuid.UUID { return r.id }

// TestStarted records the start time. Calling it again on the same result is
// a no-op, so a pre-supplied result keeps its original timestamp.
func (r *TestResult) TestStarted() {
	if r.started {
		return
	}

	r.started = true
	r.startedAt = time.Now()
}

// StartedAt returns the recorded start time, zero if TestStarted was never
// called.
func (r *TestResult) StartedAt() time.Time { return r.startedAt }

// TestFailed appends a failure. Failures arrive in the order the
// corresponding assertion calls occurred; nothing ever removes one.
func (r *TestResult) TestFailed(record FailureRecord) {
	r.failures = append(r.failures, record)
}

// Passed reports whether zero failures were recorded.
func (r *TestResult) Passed() bool { return len(r.failures) == 0 }

// Failures returns the recorded failures in raise order. The returned slice
// is a copy; mutating it does not affect the result.
func (r *TestResult) Failures() []FailureRecord {
	out := make([]FailureRecord, len(r.failures))
	copy(out, r.failures)

	return out
}

func (r *TestResult) String() string {
	if r.Passed() {
		return "passed"
	}

	return fmt.Sprintf("failed with %d failure(s)", len(r.failures))
}
