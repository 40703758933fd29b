//nolint:testpackage // Exercises the result with internally-built records
package core

import (
	"testing"
	"time"
)

func TestTestResult_StartIsIdempotent(t *testing.T) {
	t.Parallel()

	result := NewTestResult()
	result.TestStarted()

	first := result.StartedAt()
	time.Sleep(time.Millisecond)
	result.TestStarted()

	if !result.StartedAt().Equal(first) {
		t.Error("a second TestStarted moved the start time")
	}
}

func TestTestResult_PassedTracksFailures(t *testing.T) {
	t.Parallel()

	result := NewTestResult()
	if !result.Passed() {
		t.Error("a fresh result should pass")
	}

	result.TestFailed(FailureRecord{message: "broke"})

	if result.Passed() {
		t.Error("a result with a failure should not pass")
	}

	if result.String() != "failed with 1 failure(s)" {
		t.Errorf("wrong string: %s", result.String())
	}
}

func TestTestResult_FailuresIsACopy(t *testing.T) {
	t.Parallel()

	result := NewTestResult()
	result.TestFailed(FailureRecord{message: "original"})

	leaked := result.Failures()
	leaked[0] = FailureRecord{message: "tampered"}

	if result.Failures()[0].Message() != "original" {
		t.Error("mutating the returned slice reached the result")
	}
}
