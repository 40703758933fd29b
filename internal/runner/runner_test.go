package runner_test

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tickunit/tickunit/internal/core"
	"github.com/tickunit/tickunit/internal/runner"
)

func quietRunner() *runner.Runner {
	return &runner.Runner{
		Out:     io.Discard,
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		NoColor: true,
	}
}

func mixedCase() *core.TestCase {
	tc := core.NewTestCase("mixed")
	tc.Register("TestFine", func(*core.T) {})
	tc.Register("TestFailing", func(ti *core.T) { ti.MarkAsFailure("documented mismatch") })
	tc.Register("TestFaulting", func(*core.T) { panic("kaboom") })

	return tc
}

func TestRunAll_AggregatesOutcomes(t *testing.T) {
	t.Parallel()

	summary := quietRunner().RunAll(mixedCase())

	require.Len(t, summary.Runs, 3)
	assert.Equal(t, 1, summary.Count(runner.Passed))
	assert.Equal(t, 1, summary.Count(runner.Failed))
	assert.Equal(t, 1, summary.Count(runner.Errored))
	assert.False(t, summary.OK())

	assert.Equal(t, "mixed", summary.Suite)
	assert.Equal(t, runner.Passed, summary.Runs[0].Outcome)
	assert.Equal(t, runner.Failed, summary.Runs[1].Outcome)

	faulted := summary.Runs[2]
	assert.Equal(t, runner.Errored, faulted.Outcome)
	assert.Nil(t, faulted.Result, "errored runs carry no result")
	require.Error(t, faulted.Err)
	assert.Contains(t, faulted.Err.Error(), "kaboom")
	assert.Contains(t, faulted.Err.Error(), "mixed.TestFaulting")
}

func TestRunAll_FaultDoesNotStopLaterMethods(t *testing.T) {
	t.Parallel()

	tc := core.NewTestCase("resilient")
	tc.Register("TestFaulting", func(*core.T) { panic("kaboom") })

	ranAfter := false

	tc.Register("TestAfter", func(*core.T) { ranAfter = true })

	summary := quietRunner().RunAll(tc)

	require.Len(t, summary.Runs, 2)
	assert.True(t, ranAfter, "a fault in one method must not stop the suite")
	assert.Equal(t, runner.Passed, summary.Runs[1].Outcome)
}

func TestRunPlan_SelectsAndAnnotates(t *testing.T) {
	t.Parallel()

	plan := &runner.Plan{
		Suite:   "planned",
		Include: []string{"Test*"},
		Exclude: []string{"TestFaulting"},
		Expect:  map[string]string{"TestFailing": "fail"},
	}

	summary, err := quietRunner().RunPlan(mixedCase(), plan)
	require.NoError(t, err)

	require.Len(t, summary.Runs, 2)
	assert.Equal(t, "planned", summary.Suite)
	assert.True(t, summary.OK(), "a declared failure should keep the summary OK")

	failing := summary.Runs[1]
	assert.Equal(t, runner.Failed, failing.Outcome)
	assert.Equal(t, runner.Failed, failing.Expected)
	assert.True(t, failing.AsExpected())
}

func TestRunPlan_UnexpectedOutcomeBreaksOK(t *testing.T) {
	t.Parallel()

	tc := core.NewTestCase("strict")
	tc.Register("TestFailing", func(ti *core.T) { ti.MarkAsFailure("surprise") })

	summary, err := quietRunner().RunPlan(tc, &runner.Plan{})
	require.NoError(t, err)

	require.Len(t, summary.Runs, 1)
	assert.False(t, summary.OK())
	assert.False(t, summary.Runs[0].AsExpected())
}
