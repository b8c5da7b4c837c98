package voice

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/sadopc/moodo/internal/emotion"
	"github.com/sadopc/moodo/internal/store"
)

// State is the controller's position in the voice-entry flow.
type State int

const (
	// Idle: no recognition session is active.
	Idle State = iota
	// ListeningForTrigger: waiting for a trigger phrase.
	ListeningForTrigger
	// CapturingTask: the next transcript becomes a task.
	CapturingTask
)

var stateNames = map[State]string{
	Idle:                "idle",
	ListeningForTrigger: "listening",
	CapturingTask:       "capturing",
}

func (s State) String() string {
	return stateNames[s]
}

// triggerPhrases are matched case-insensitively as substrings; "high"
// covers the common misrecognition of "hi".
var triggerPhrases = []string{"hi moodo", "hey moodo", "hello moodo", "high moodo"}

// ErrUnavailable is returned by Start when no recognizer was detected.
var ErrUnavailable = errors.New("voice: speech recognition unavailable")

// EventKind tags events surfaced to the UI.
type EventKind int

const (
	EventState EventKind = iota
	EventHeard
	EventTaskAdded
	EventError
)

// Event is a controller notification. State is always the state after
// the event took effect.
type Event struct {
	Kind       EventKind
	State      State
	Transcript string
	Err        error
}

// Controller drives the trigger-phrase flow: Idle → ListeningForTrigger
// → CapturingTask → Idle, with every error path collapsing back to
// Idle. Recognition sessions are single-shot, so each transition that
// keeps listening starts a fresh session.
type Controller struct {
	// Delays sequencing the flow: RetryDelay spaces out re-listens
	// after a trigger miss, SubmitDelay holds a captured transcript
	// before auto-submit so feedback can display. Set before Start.
	RetryDelay  time.Duration
	SubmitDelay time.Duration

	mu      sync.Mutex
	rec     Recognizer
	sched   Scheduler
	tasks   *store.Store
	catalog emotion.Catalog
	log     zerolog.Logger
	notify  func(Event)

	state   State
	session Session
	pending Timer
	gen     int // bumps on every transition; stale callbacks check it
}

// NewController wires a controller. rec may be nil when speech is
// unavailable; Start then returns ErrUnavailable.
func NewController(rec Recognizer, sched Scheduler, tasks *store.Store, catalog emotion.Catalog, log zerolog.Logger) *Controller {
	return &Controller{
		RetryDelay:  400 * time.Millisecond,
		SubmitDelay: 1500 * time.Millisecond,
		rec:         rec,
		sched:       sched,
		tasks:       tasks,
		catalog:     catalog,
		log:         log,
	}
}

// SetNotify installs the event sink. Events fire without the
// controller lock held.
func (c *Controller) SetNotify(fn func(Event)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notify = fn
}

// Available reports whether a recognizer was detected at startup.
func (c *Controller) Available() bool {
	return c.rec != nil
}

// State returns the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Start begins listening for the trigger phrase. A no-op when already
// listening.
func (c *Controller) Start() error {
	if c.rec == nil {
		return ErrUnavailable
	}

	c.mu.Lock()
	if c.state != Idle {
		c.mu.Unlock()
		return nil
	}
	c.state = ListeningForTrigger
	err := c.startSessionLocked()
	if err != nil {
		c.state = Idle
		c.mu.Unlock()
		return err
	}
	c.mu.Unlock()

	c.emit(Event{Kind: EventState, State: ListeningForTrigger})
	return nil
}

// Stop aborts whatever is in flight and returns to Idle. A pending
// auto-submit delay is cancelled, so its side effects never run.
func (c *Controller) Stop() {
	c.mu.Lock()
	if c.state == Idle {
		c.mu.Unlock()
		return
	}
	c.resetLocked()
	c.mu.Unlock()

	c.emit(Event{Kind: EventState, State: Idle})
}

// resetLocked drops to Idle: cancels the pending timer, aborts the
// session, and invalidates outstanding callbacks. A capture that was
// cut short also unstages the emotion queued for its submit.
func (c *Controller) resetLocked() {
	c.gen++
	if c.pending != nil {
		c.pending.Stop()
		c.pending = nil
	}
	if c.session != nil {
		c.session.Abort()
		c.session = nil
	}
	if c.state == CapturingTask {
		c.tasks.SetSelectedEmotion(nil)
	}
	c.state = Idle
}

// startSessionLocked begins a fresh single-shot session whose
// callbacks are tied to the current generation.
func (c *Controller) startSessionLocked() error {
	c.gen++
	gen := c.gen
	session, err := c.rec.Start(Callbacks{
		OnResult: func(transcript string) { c.onResult(gen, transcript) },
		OnError:  func(err error) { c.onError(gen, err) },
		OnEnd:    func() { c.onEnd(gen) },
	})
	if err != nil {
		return err
	}
	c.session = session
	return nil
}

func (c *Controller) onResult(gen int, transcript string) {
	c.mu.Lock()
	if gen != c.gen {
		c.mu.Unlock()
		return
	}
	c.session = nil

	switch c.state {
	case ListeningForTrigger:
		if !matchesTrigger(transcript) {
			// Normal negative case: re-listen after a beat to
			// avoid a tight restart loop.
			c.scheduleRelistenLocked()
			c.mu.Unlock()
			c.emit(Event{Kind: EventHeard, State: ListeningForTrigger, Transcript: transcript})
			return
		}

		// Trigger heard: the recognizer cannot switch modes
		// mid-session, so start a separate capture session.
		c.state = CapturingTask
		if err := c.startSessionLocked(); err != nil {
			c.resetLocked()
			c.mu.Unlock()
			c.emit(Event{Kind: EventError, State: Idle, Err: err})
			return
		}
		c.mu.Unlock()
		c.emit(Event{Kind: EventHeard, State: CapturingTask, Transcript: transcript})
		c.emit(Event{Kind: EventState, State: CapturingTask})

	case CapturingTask:
		// Voice tasks default to the neutral tag. The submit waits
		// out SubmitDelay so the heard text can display first; a
		// Stop during the delay suppresses it.
		neutral := c.catalog.Neutral()
		c.tasks.SetSelectedEmotion(&neutral)

		submitGen := c.gen
		text := strings.TrimSpace(transcript)
		c.pending = c.sched.After(c.SubmitDelay, func() {
			c.mu.Lock()
			if c.gen != submitGen || c.state != CapturingTask {
				c.mu.Unlock()
				return
			}
			c.pending = nil
			c.gen++
			c.state = Idle
			c.mu.Unlock()

			if text == "" {
				c.tasks.SetSelectedEmotion(nil)
			} else if _, err := c.tasks.AddTask(text); err != nil {
				c.log.Error().Err(err).Msg("persist voice task")
				c.emit(Event{Kind: EventError, State: Idle, Err: err})
			} else {
				c.emit(Event{Kind: EventTaskAdded, State: Idle, Transcript: text})
			}
			c.emit(Event{Kind: EventState, State: Idle})
		})
		c.mu.Unlock()
		c.emit(Event{Kind: EventHeard, State: CapturingTask, Transcript: transcript})

	default:
		c.mu.Unlock()
	}
}

// scheduleRelistenLocked queues a fresh trigger session after
// RetryDelay. Caller holds the lock and is in ListeningForTrigger.
func (c *Controller) scheduleRelistenLocked() {
	retryGen := c.gen
	c.pending = c.sched.After(c.RetryDelay, func() {
		c.mu.Lock()
		if c.gen != retryGen || c.state != ListeningForTrigger {
			c.mu.Unlock()
			return
		}
		c.pending = nil
		if err := c.startSessionLocked(); err != nil {
			c.resetLocked()
			c.mu.Unlock()
			c.emit(Event{Kind: EventError, State: Idle, Err: err})
			return
		}
		c.mu.Unlock()
	})
}

// onEnd handles a session that terminated without delivering a result
// or an error; after either of those the session reference is already
// cleared, so trailing end notifications fall through the nil check.
func (c *Controller) onEnd(gen int) {
	c.mu.Lock()
	if gen != c.gen || c.session == nil {
		c.mu.Unlock()
		return
	}
	c.session = nil

	switch c.state {
	case ListeningForTrigger:
		// Nothing was heard before the session closed; listen again.
		c.scheduleRelistenLocked()
		c.mu.Unlock()
	case CapturingTask:
		c.resetLocked()
		c.mu.Unlock()
		c.emit(Event{Kind: EventState, State: Idle})
	default:
		c.mu.Unlock()
	}
}

func (c *Controller) onError(gen int, err error) {
	c.mu.Lock()
	if gen != c.gen || c.state == Idle {
		c.mu.Unlock()
		return
	}
	c.resetLocked()
	c.mu.Unlock()

	c.log.Warn().Err(err).Msg("recognition error")
	c.emit(Event{Kind: EventError, State: Idle, Err: err})
}

func (c *Controller) emit(e Event) {
	c.mu.Lock()
	fn := c.notify
	c.mu.Unlock()
	if fn != nil {
		fn(e)
	}
}

func matchesTrigger(transcript string) bool {
	lower := strings.ToLower(transcript)
	for _, phrase := range triggerPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}
