package core

// This file provides the cooperative scheduler that drives test bodies.
//
// Scheduling model: strict token handoff. Every unit of work runs on its own
// goroutine, but exactly one holds the token at any moment: the scheduler
// resumes a task and then blocks on the report channel until that task
// yields, finishes, or panics. No two task bodies ever execute interleaved
// instructions; interleaving happens only at yield boundaries.

import (
	"errors"
	"fmt"
	"time"
)

type sigKind int

const (
	sigYielded sigKind = iota
	sigDone
	sigPanicked
)

// sig is a task's report back to the scheduler when it gives up the token.
type sig struct {
	task       *task
	kind       sigKind
	panicValue any
}

// sched drives a root unit of work, plus every unit it transitively spawns,
// to full completion. A sched is single-use.
type sched struct {
	timer    Timer
	timeout  time.Duration
	queue    []*task
	report   chan sig
	aborting bool
}

// task is one cooperatively-scheduled unit of work.
type task struct {
	sched  *sched
	resume chan struct{}
}

func newSched(timer Timer, timeout time.Duration) *sched {
	return &sched{
		timer:  timer,
		report: make(chan sig),

		timeout: timeout,
	}
}

// spawn queues a new unit of work. The body does not start executing until
// the scheduler hands it the token.
//
// The queue needs no lock: the scheduler and the running task alternate via
// the resume/report channels, so only one side ever touches it at a time.
func (s *sched) spawn(body func(*task)) {
	spawned := &task{sched: s, resume: make(chan struct{})}
	s.queue = append(s.queue, spawned)

	go func() {
		<-spawned.resume

		if s.aborting {
			s.report <- sig{task: spawned, kind: sigDone}
			return
		}

		defer func() {
			panicValue := recover()

			switch {
			case panicValue == nil:
				s.report <- sig{task: spawned, kind: sigDone}
			case errors.Is(asError(panicValue), errScheduleAborted):
				s.report <- sig{task: spawned, kind: sigDone}
			default:
				s.report <- sig{task: spawned, kind: sigPanicked, panicValue: panicValue}
			}
		}()

		body(spawned)
	}()
}

// yield returns the token to the scheduler until the next tick.
func (t *task) yield() {
	t.sched.report <- sig{task: t, kind: sigYielded}
	<-t.resume

	if t.sched.aborting {
		panic(errScheduleAborted)
	}
}

// run drives the root body and every nested unit of work to completion,
// round-robin. It returns the panic value of the first task that failed
// fatally, or ok for a fully completed schedule.
//
// A timeout of zero means wait forever. When the deadline fires, run panics:
// a hung test body is a programming error that needs intervention, not a
// condition a caller can meaningfully recover from. The hung goroutines are
// abandoned.
func (s *sched) run(root func(*task)) (panicValue any, panicked bool) {
	s.spawn(root)

	var deadline <-chan time.Time
	if s.timeout > 0 {
		deadline = s.timer.After(s.timeout)
	}

	for len(s.queue) > 0 {
		next := s.queue[0]
		s.queue = s.queue[1:]
		next.resume <- struct{}{}

		select {
		case reported := <-s.report:
			switch reported.kind {
			case sigYielded:
				s.queue = append(s.queue, reported.task)
			case sigDone:
			case sigPanicked:
				s.abort()
				return reported.panicValue, true
			}
		case <-deadline:
			panic(fmt.Sprintf(
				"test timeout: a unit of work was still running after %s", s.timeout,
			))
		}
	}

	return nil, false
}

// abort unwinds every still-queued task so no goroutine is left parked on
// its resume channel. Each resumed task sees the aborting flag, panics with
// errScheduleAborted, and reports done.
func (s *sched) abort() {
	s.aborting = true

	for _, parked := range s.queue {
		parked.resume <- struct{}{}
		<-s.report
	}

	s.queue = nil
}

// asError lets the abort sentinel survive a trip through recover().
func asError(panicValue any) error {
	err, ok := panicValue.(error)
	if !ok {
		return nil
	}

	return err
}

// Errors.
var errScheduleAborted = errors.New("schedule aborted")
