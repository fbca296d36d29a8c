package core

import "sync"

// SessionState tracks where a session is in its lifecycle.
type SessionState int

const (
	// StateConnecting is the initial state after socket acceptance; no
	// identity, space, or coordinates are defined yet.
	StateConnecting SessionState = iota
	// StateJoined means the session passed the join exchange and occupies
	// a cell in exactly one space.
	StateJoined
	// StateClosed is terminal; no further commands are processed.
	StateClosed
)

// Session is one client connection as seen by the core layer. The transport
// writes commands in and drains events out; everything else is owned by the
// hub run loop once the session is registered.
type Session struct {
	ID       string
	Commands chan *Command
	Events   chan *Event

	closeOnce sync.Once

	// Hub-confined state. Only the hub goroutine reads or writes these
	// after registration.
	state  SessionState
	userID string
	role   string
	space  string
	x, y   int
	width  int
	height int
}

// NewSession constructs a session with initialized channels. eventBuffer
// bounds how far a slow client may fall behind before events are dropped.
func NewSession(id string, eventBuffer int) *Session {
	if eventBuffer <= 0 {
		eventBuffer = 32
	}
	return &Session{
		ID:       id,
		Commands: make(chan *Command, 8),
		Events:   make(chan *Event, eventBuffer),
	}
}

// CloseCommands stops the inbound side of the session. Safe to call more
// than once; cleanup downstream of it happens exactly once.
func (s *Session) CloseCommands() {
	s.closeOnce.Do(func() {
		close(s.Commands)
	})
}
