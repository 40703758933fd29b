//nolint:testpackage // Tests the unexported scheduler directly
package core

import (
	"testing"
	"time"
)

// TestSchedRun_SingleBody proves a body with no yields runs to completion.
func TestSchedRun_SingleBody(t *testing.T) {
	t.Parallel()

	ran := false
	scheduler := newSched(realTimer{}, 0)

	if _, panicked := scheduler.run(func(*task) { ran = true }); panicked {
		t.Fatal("unexpected panic")
	}

	if !ran {
		t.Error("body never ran")
	}
}

// TestSchedRun_RoundRobinAcrossYields proves two units of work interleave
// only at yield boundaries, round-robin.
func TestSchedRun_RoundRobinAcrossYields(t *testing.T) {
	t.Parallel()

	var order []string

	scheduler := newSched(realTimer{}, 0)

	_, panicked := scheduler.run(func(root *task) {
		order = append(order, "root-1")

		root.sched.spawn(func(child *task) {
			order = append(order, "child-1")
			child.yield()
			order = append(order, "child-2")
		})

		root.yield()
		order = append(order, "root-2")
		root.yield()
		order = append(order, "root-3")
	})
	if panicked {
		t.Fatal("unexpected panic")
	}

	want := []string{"root-1", "child-1", "root-2", "child-2", "root-3"}
	if len(order) != len(want) {
		t.Fatalf("expected %d steps, got %v", len(want), order)
	}

	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("wrong order: expected %v, got %v", want, order)
		}
	}
}

// TestSchedRun_WaitsForNestedUnits proves run resolves only after every
// transitively spawned unit finishes.
func TestSchedRun_WaitsForNestedUnits(t *testing.T) {
	t.Parallel()

	grandchildDone := false
	scheduler := newSched(realTimer{}, 0)

	scheduler.run(func(root *task) {
		root.sched.spawn(func(child *task) {
			child.yield()
			child.sched.spawn(func(grandchild *task) {
				grandchild.yield()
				grandchildDone = true
			})
		})
	})

	if !grandchildDone {
		t.Error("run returned before a nested unit of work completed")
	}
}

// TestSchedRun_PanicAborts proves a fatal panic surfaces with its original
// value and that parked tasks are unwound, running their defers.
func TestSchedRun_PanicAborts(t *testing.T) {
	t.Parallel()

	cleanedUp := false
	scheduler := newSched(realTimer{}, 0)

	panicValue, panicked := scheduler.run(func(root *task) {
		root.sched.spawn(func(child *task) {
			defer func() {
				if p := recover(); p != nil {
					cleanedUp = true
					panic(p)
				}
			}()
			child.yield()
			t.Error("aborted unit kept executing")
		})

		root.yield()
		panic("boom")
	})

	if !panicked {
		t.Fatal("expected the schedule to report a panic")
	}

	if panicValue != "boom" {
		t.Errorf("expected the original panic value, got %v", panicValue)
	}

	if !cleanedUp {
		t.Error("parked task was not unwound")
	}
}

// TestSchedRun_NeverStartedTaskUnwinds proves aborting also releases tasks
// that were spawned but never got the token.
func TestSchedRun_NeverStartedTaskUnwinds(t *testing.T) {
	t.Parallel()

	ran := false
	scheduler := newSched(realTimer{}, 0)

	_, panicked := scheduler.run(func(root *task) {
		root.sched.spawn(func(*task) { ran = true })
		panic("early")
	})

	if !panicked {
		t.Fatal("expected the schedule to report a panic")
	}

	if ran {
		t.Error("a spawned unit ran after the schedule aborted")
	}
}

// fakeTimer hands back a pre-armed channel so tests control the deadline.
type fakeTimer struct {
	fire chan time.Time
}

func (f fakeTimer) After(time.Duration) <-chan time.Time { return f.fire }

// TestSchedRun_TimeoutPanics proves a hung unit of work trips the deadline
// with a panic rather than resolving the run.
func TestSchedRun_TimeoutPanics(t *testing.T) {
	t.Parallel()

	fire := make(chan time.Time, 1)
	fire <- time.Now()

	scheduler := newSched(fakeTimer{fire: fire}, time.Millisecond)

	defer func() {
		if recover() == nil {
			t.Error("expected a timeout panic")
		}
	}()

	scheduler.run(func(*task) {
		select {} // hang forever
	})
}
