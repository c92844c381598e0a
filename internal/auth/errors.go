package auth

import "errors"

var (
	// ErrNoLauncher is returned when an interactive login is needed but no
	// browser launcher is configured.
	ErrNoLauncher = errors.New("no login browser configured")

	// ErrNoConfirmer is returned when an interactive login is needed but
	// nothing can signal that the operator finished.
	ErrNoConfirmer = errors.New("no login confirmation source configured")
)

// State is the login state of a Manager.
type State int

const (
	// Unauthenticated means no persisted browser state exists.
	Unauthenticated State = iota

	// Authenticated means a persisted browser state is on disk.
	Authenticated
)

// String returns a human-readable representation of the state.
func (s State) String() string {
	switch s {
	case Unauthenticated:
		return "unauthenticated"
	case Authenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}
