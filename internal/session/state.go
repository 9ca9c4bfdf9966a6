// Package session owns the lifecycle of one streaming speech-to-text
// session per active media stream.
package session

import (
	"errors"
	"fmt"
)

// State represents the lifecycle state of a transcription session.
type State int

const (
	// StateIdle - session constructed, provider not started.
	StateIdle State = iota
	// StateActive - provider session established, audio may flow.
	StateActive
	// StateClosed - resources released. Terminal and non-reentrant: a
	// new stream needs a brand-new Session, never a resurrected one.
	StateClosed
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateActive:
		return "ACTIVE"
	case StateClosed:
		return "CLOSED"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", s)
	}
}

// Errors for invalid lifecycle transitions.
var (
	ErrSessionNotStarted = errors.New("session not started")
	ErrAlreadyStarted    = errors.New("session already started")
	ErrSessionClosed     = errors.New("session is closed")
)
