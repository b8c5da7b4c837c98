// Package voice adds hands-free task entry: a trigger-phrase state
// machine layered on an external single-shot speech recognizer.
package voice

// Callbacks receive the events of one recognition session. A session
// delivers at most one result or one error, then ends.
type Callbacks struct {
	OnResult func(transcript string)
	OnError  func(err error)
	OnEnd    func()
}

// Session is an in-flight recognition session.
type Session interface {
	// Abort stops the session; no further callbacks fire for it.
	Abort()
}

// Recognizer starts single-shot recognition sessions. The recognizer
// does not support switching modes mid-session; every re-listen is a
// fresh Start.
type Recognizer interface {
	Start(cb Callbacks) (Session, error)
}
