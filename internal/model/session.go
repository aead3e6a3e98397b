package model

// SessionState describes where the session store is in its lifecycle.
// The store starts in SessionUnknown, moves to SessionChecking while a
// stored credential is being resolved, and settles in either
// SessionAuthenticated or SessionAnonymous.
type SessionState int

const (
	SessionUnknown SessionState = iota
	SessionChecking
	SessionAuthenticated
	SessionAnonymous
)

func (s SessionState) String() string {
	switch s {
	case SessionUnknown:
		return "unknown"
	case SessionChecking:
		return "checking"
	case SessionAuthenticated:
		return "authenticated"
	case SessionAnonymous:
		return "anonymous"
	default:
		return "invalid"
	}
}
