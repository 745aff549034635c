package session

import (
	"errors"
	"fmt"
)

// Domain errors for session transitions.
var (
	// ErrAccessDenied is returned by Start when the entitlement gate rejects
	// the paper. The session never leaves NotStarted.
	ErrAccessDenied = errors.New("paper requires an active subscription")

	// ErrInvalidOption is returned by SelectAnswer for an out-of-range option
	// index or an unknown question ID. The selection is rejected and state is
	// unchanged.
	ErrInvalidOption = errors.New("invalid option for question")

	// ErrNotActive is returned by transitions that are only valid while the
	// session is Active.
	ErrNotActive = errors.New("session is not active")

	// ErrAlreadyStarted is returned by Start on any state other than NotStarted.
	ErrAlreadyStarted = errors.New("session already started")

	// ErrNoQuestions is returned by Start when the paper has no questions.
	ErrNoQuestions = errors.New("paper has no questions")

	// ErrNoLoader is the cause of a LoadError when no AudioLoader was
	// provided to the engine.
	ErrNoLoader = errors.New("no audio loader configured")
)

// LoadError reports a failed audio load. It is non-fatal to the session:
// the question remains answerable without audio.
type LoadError struct {
	Ref string
	Err error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load audio %q: %v", e.Ref, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// PersistenceError reports a failed attempt write. The in-memory result has
// already been rendered; persistence failures never revert it.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("save attempt: %v", e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
