package core

import "time"

// Timer supplies the time source for run deadlines, so tests can substitute
// a fake instead of waiting on the wall clock.
type Timer interface {
	After(d time.Duration) <-chan time.Time
}

// realTimer is the default Timer, backed by the standard lib time.After.
type realTimer struct{}

func (realTimer) After(d time.Duration) <-chan time.Time { return time.After(d) }
