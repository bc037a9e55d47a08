package core

import "github.com/google/uuid"

// State is the protocol position of a session.
type State int

const (
	// StateUnregistered means no nickname has been accepted yet.
	StateUnregistered State = iota
	// StateIdle means registered but not in any room.
	StateIdle
	// StateInRoom means registered and joined to exactly one room.
	StateInRoom
)

// Session is the server-side state for one connected client. The transport
// creates it on accept and hands it to the Hub, which owns it from then on;
// a room only ever references a session, never owns it.
//
// All mutable fields are touched exclusively by the hub goroutine.
type Session struct {
	ID string

	nick  string
	state State
	room  *Room

	out    chan string
	closed bool
}

// NewSession builds a session with an outbound queue of the given length.
func NewSession(queue int) *Session {
	if queue <= 0 {
		queue = 1
	}
	return &Session{
		ID:    uuid.NewString(),
		state: StateUnregistered,
		out:   make(chan string, queue),
	}
}

// Outbound is the line queue the transport write loop drains. The hub closes
// it when the session ends; the transport then flushes and closes the socket.
func (s *Session) Outbound() <-chan string {
	return s.out
}

// Nick returns the registered nickname, empty until registration.
func (s *Session) Nick() string {
	return s.nick
}

// State reports the session's protocol position.
func (s *Session) State() State {
	return s.state
}

// send queues one line without blocking. Reports false when the session is
// already closed or the peer has fallen OutboundQueue lines behind.
func (s *Session) send(line string) bool {
	if s.closed {
		return false
	}
	select {
	case s.out <- line:
		return true
	default:
		return false
	}
}
