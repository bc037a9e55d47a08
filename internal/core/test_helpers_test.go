package core

import (
	"context"
	"testing"
	"time"
)

const testTimeout = 2 * time.Second

func newTestHub(t *testing.T) *Hub {
	t.Helper()

	hub := NewHub(nil)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)
	return hub
}

func attach(t *testing.T, hub *Hub) *Session {
	t.Helper()

	s := NewSession(16)
	if !hub.Attach(s) {
		t.Fatal("hub refused attach")
	}
	return s
}

// register attaches a session and walks it through nickname registration.
func register(t *testing.T, hub *Hub, nick string) *Session {
	t.Helper()

	s := attach(t, hub)
	hub.Dispatch(s, "/nick "+nick)
	mustLine(t, s, "OK")
	return s
}

// joined registers a session and puts it into the given room.
func joined(t *testing.T, hub *Hub, nick, room string) *Session {
	t.Helper()

	s := register(t, hub, nick)
	hub.Dispatch(s, "/join "+room)
	mustLine(t, s, "OK")
	return s
}

// mustLine waits for the next outbound line and requires it to match.
func mustLine(t *testing.T, s *Session, want string) {
	t.Helper()

	select {
	case got, ok := <-s.Outbound():
		if !ok {
			t.Fatalf("outbound closed while waiting for %q", want)
		}
		if got != want {
			t.Fatalf("got line %q, want %q", got, want)
		}
	case <-time.After(testTimeout):
		t.Fatalf("timed out waiting for line %q", want)
	}
}

// mustClosed waits for the session's outbound queue to be closed by the hub.
func mustClosed(t *testing.T, s *Session) {
	t.Helper()

	deadline := time.After(testTimeout)
	for {
		select {
		case _, ok := <-s.Outbound():
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("timed out waiting for session teardown")
		}
	}
}

// mustSilent verifies no line arrives within a short window.
func mustSilent(t *testing.T, s *Session) {
	t.Helper()

	select {
	case got, ok := <-s.Outbound():
		if ok {
			t.Fatalf("expected silence, got line %q", got)
		}
		t.Fatal("expected silence, outbound closed")
	case <-time.After(50 * time.Millisecond):
	}
}
