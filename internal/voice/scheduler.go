package voice

import "time"

// Scheduler defers a function. The controller routes every delayed
// transition through it so a stop can deterministically cancel pending
// work, and tests can fire timers by hand.
type Scheduler interface {
	After(d time.Duration, fn func()) Timer
}

// Timer is a cancellable scheduled call.
type Timer interface {
	// Stop cancels the call if it has not run yet.
	Stop() bool
}

type realScheduler struct{}

// NewScheduler returns the time.AfterFunc-backed scheduler.
func NewScheduler() Scheduler {
	return realScheduler{}
}

func (realScheduler) After(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}
