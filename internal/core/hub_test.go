package core

import "testing"

func TestNickRegistrationAndConflict(t *testing.T) {
	hub := newTestHub(t)

	alice := attach(t, hub)
	hub.Dispatch(alice, "/nick alice")
	mustLine(t, alice, "OK")

	second := attach(t, hub)
	hub.Dispatch(second, "/nick alice")
	mustLine(t, second, "ERROR")
	hub.Dispatch(second, "/nick bob")
	mustLine(t, second, "OK")
}

func TestNickArgumentCount(t *testing.T) {
	hub := newTestHub(t)
	s := attach(t, hub)

	hub.Dispatch(s, "/nick")
	mustLine(t, s, "ERROR")
	hub.Dispatch(s, "/nick one two")
	mustLine(t, s, "ERROR")
}

func TestNickIsCaseSensitive(t *testing.T) {
	hub := newTestHub(t)
	register(t, hub, "alice")

	other := attach(t, hub)
	hub.Dispatch(other, "/nick Alice")
	mustLine(t, other, "OK")
}

func TestJoinRequiresRegistration(t *testing.T) {
	hub := newTestHub(t)
	s := attach(t, hub)

	hub.Dispatch(s, "/join lobby")
	mustLine(t, s, "ERROR")
}

func TestJoinAndBroadcast(t *testing.T) {
	hub := newTestHub(t)

	alice := joined(t, hub, "alice", "lobby")

	bob := register(t, hub, "bob")
	hub.Dispatch(bob, "/join lobby")
	mustLine(t, bob, "OK")
	mustLine(t, alice, "JOINED bob")

	hub.Dispatch(alice, "hello")
	mustLine(t, alice, "MESSAGE alice hello")
	mustLine(t, bob, "MESSAGE alice hello")
}

func TestBroadcastReachesEveryMember(t *testing.T) {
	hub := newTestHub(t)

	members := []*Session{
		joined(t, hub, "n0", "big"),
		joined(t, hub, "n1", "big"),
		joined(t, hub, "n2", "big"),
		joined(t, hub, "n3", "big"),
	}
	// Drain the JOINED notices earlier members saw.
	for i, s := range members {
		for j := i + 1; j < len(members); j++ {
			mustLine(t, s, "JOINED n"+string(rune('0'+j)))
		}
	}

	hub.Dispatch(members[2], "ping")
	for _, s := range members {
		mustLine(t, s, "MESSAGE n2 ping")
	}
}

func TestChatOutsideRoomRejected(t *testing.T) {
	hub := newTestHub(t)

	unregistered := attach(t, hub)
	hub.Dispatch(unregistered, "hello")
	mustLine(t, unregistered, "ERROR")

	idle := register(t, hub, "idle")
	hub.Dispatch(idle, "hello")
	mustLine(t, idle, "ERROR")
}

func TestEscapedSlashIsChatText(t *testing.T) {
	hub := newTestHub(t)
	alice := joined(t, hub, "alice", "lobby")

	hub.Dispatch(alice, "//test")
	mustLine(t, alice, "MESSAGE alice /test")

	hub.Dispatch(alice, "/")
	mustLine(t, alice, "MESSAGE alice /")
}

func TestEmptyLineBroadcastsEmptyMessage(t *testing.T) {
	hub := newTestHub(t)
	alice := joined(t, hub, "alice", "lobby")

	hub.Dispatch(alice, "")
	mustLine(t, alice, "MESSAGE alice ")
}

func TestUnknownCommandRejected(t *testing.T) {
	hub := newTestHub(t)
	alice := joined(t, hub, "alice", "lobby")

	hub.Dispatch(alice, "/frobnicate")
	mustLine(t, alice, "ERROR")
}

func TestJoinSwitchesRooms(t *testing.T) {
	hub := newTestHub(t)

	alice := joined(t, hub, "alice", "red")
	bob := joined(t, hub, "bob", "red")
	mustLine(t, alice, "JOINED bob")

	// Switching rooms leaves the old one implicitly; exactly one OK.
	hub.Dispatch(alice, "/join blue")
	mustLine(t, alice, "OK")
	mustLine(t, bob, "LEFT alice")
	mustSilent(t, alice)
}

func TestLeaveAndRoomCleanup(t *testing.T) {
	hub := newTestHub(t)

	alice := joined(t, hub, "alice", "lobby")
	bob := joined(t, hub, "bob", "lobby")
	mustLine(t, alice, "JOINED bob")

	hub.Dispatch(alice, "/leave")
	mustLine(t, alice, "OK")
	mustLine(t, bob, "LEFT alice")

	// Last member out removes the room.
	hub.Dispatch(bob, "/leave")
	mustLine(t, bob, "OK")

	// A fresh join creates a brand-new room: nobody gets a JOINED notice.
	hub.Dispatch(alice, "/join lobby")
	mustLine(t, alice, "OK")
	mustSilent(t, bob)
}

func TestLeaveWithoutRoomRejected(t *testing.T) {
	hub := newTestHub(t)

	idle := register(t, hub, "idle")
	hub.Dispatch(idle, "/leave")
	mustLine(t, idle, "ERROR")

	unregistered := attach(t, hub)
	hub.Dispatch(unregistered, "/leave")
	mustLine(t, unregistered, "ERROR")
}

func TestPrivateMessage(t *testing.T) {
	hub := newTestHub(t)

	alice := register(t, hub, "alice")
	bob := register(t, hub, "bob")

	hub.Dispatch(alice, "/priv bob hi there")
	mustLine(t, alice, "OK")
	mustLine(t, bob, "PRIVATE alice hi there")

	hub.Dispatch(alice, "/priv carol hi")
	mustLine(t, alice, "ERROR")

	// Recipient without a body is an argument error, not an empty send.
	hub.Dispatch(alice, "/priv bob")
	mustLine(t, alice, "ERROR")
	mustSilent(t, bob)
}

func TestPrivateRequiresRegistration(t *testing.T) {
	hub := newTestHub(t)
	register(t, hub, "bob")

	s := attach(t, hub)
	hub.Dispatch(s, "/priv bob hello")
	mustLine(t, s, "ERROR")
}

func TestRenameNotifiesRoommates(t *testing.T) {
	hub := newTestHub(t)

	alice := joined(t, hub, "alice", "lobby")
	bob := joined(t, hub, "bob", "lobby")
	mustLine(t, alice, "JOINED bob")

	hub.Dispatch(alice, "/nick alicia")
	mustLine(t, alice, "OK")
	mustLine(t, bob, "NEWNICK alice alicia")

	// Renaming to the current nickname acknowledges without a notice.
	hub.Dispatch(alice, "/nick alicia")
	mustLine(t, alice, "OK")
	mustSilent(t, bob)

	// Membership survived both renames.
	hub.Dispatch(alice, "still here")
	mustLine(t, bob, "MESSAGE alicia still here")
}

func TestRenameFreesOldNick(t *testing.T) {
	hub := newTestHub(t)

	alice := register(t, hub, "alice")
	hub.Dispatch(alice, "/nick alicia")
	mustLine(t, alice, "OK")

	other := attach(t, hub)
	hub.Dispatch(other, "/nick alice")
	mustLine(t, other, "OK")
}

func TestByeLeavesRoomAndCloses(t *testing.T) {
	hub := newTestHub(t)

	alice := joined(t, hub, "alice", "lobby")
	bob := joined(t, hub, "bob", "lobby")
	mustLine(t, alice, "JOINED bob")

	hub.Dispatch(alice, "/bye")
	mustLine(t, alice, "BYE")
	mustClosed(t, alice)
	mustLine(t, bob, "LEFT alice")

	// The nickname is released with the session.
	other := attach(t, hub)
	hub.Dispatch(other, "/nick alice")
	mustLine(t, other, "OK")
}

func TestByeWithArgumentsRejected(t *testing.T) {
	hub := newTestHub(t)
	alice := register(t, hub, "alice")

	hub.Dispatch(alice, "/bye now")
	mustLine(t, alice, "ERROR")

	// Still alive and usable.
	hub.Dispatch(alice, "/join lobby")
	mustLine(t, alice, "OK")
}

func TestDetachNotifiesRoomExactlyOnce(t *testing.T) {
	hub := newTestHub(t)

	alice := joined(t, hub, "alice", "lobby")
	bob := joined(t, hub, "bob", "lobby")
	mustLine(t, alice, "JOINED bob")
	carol := joined(t, hub, "carol", "lobby")
	mustLine(t, alice, "JOINED carol")
	mustLine(t, bob, "JOINED carol")

	hub.Detach(alice)
	hub.Detach(alice) // transport may detach twice; only one notice fires
	mustClosed(t, alice)

	mustLine(t, bob, "LEFT alice")
	mustLine(t, carol, "LEFT alice")
	mustSilent(t, bob)

	// Remaining members keep chatting undisturbed.
	hub.Dispatch(bob, "still up")
	mustLine(t, bob, "MESSAGE bob still up")
	mustLine(t, carol, "MESSAGE bob still up")
}

func TestJoinSurvivesTeardownDuringJoinNotice(t *testing.T) {
	hub := newTestHub(t)

	// Alice's queue holds exactly her two acks and is never drained, so
	// the next line queued for her tears her down.
	alice := NewSession(2)
	if !hub.Attach(alice) {
		t.Fatal("hub refused attach")
	}
	hub.Dispatch(alice, "/nick alice")
	hub.Dispatch(alice, "/join lobby")

	// Bob's arrival notice cannot be queued for alice: she is dropped
	// mid-join, and her departure must not take the room with her.
	bob := register(t, hub, "bob")
	hub.Dispatch(bob, "/join lobby")
	mustLine(t, bob, "LEFT alice")
	mustLine(t, bob, "OK")
	mustClosed(t, alice)

	// The room bob joined is the one in the registry: carol's join is
	// visible to him and broadcasts reach both.
	carol := register(t, hub, "carol")
	hub.Dispatch(carol, "/join lobby")
	mustLine(t, carol, "OK")
	mustLine(t, bob, "JOINED carol")

	hub.Dispatch(bob, "hello")
	mustLine(t, bob, "MESSAGE bob hello")
	mustLine(t, carol, "MESSAGE bob hello")
}

func TestSlowConsumerIsDropped(t *testing.T) {
	hub := newTestHub(t)

	alice := joined(t, hub, "alice", "lobby")

	// Bob's queue holds exactly his two OK acks and is never drained.
	bob := NewSession(2)
	if !hub.Attach(bob) {
		t.Fatal("hub refused attach")
	}
	hub.Dispatch(bob, "/nick bob")
	hub.Dispatch(bob, "/join lobby")
	mustLine(t, alice, "JOINED bob")

	// The first broadcast cannot be queued for bob, so he is torn down;
	// delivery to the rest of the room is unaffected.
	hub.Dispatch(alice, "one")
	mustLine(t, alice, "MESSAGE alice one")
	mustLine(t, alice, "LEFT bob")

	hub.Dispatch(alice, "two")
	mustLine(t, alice, "MESSAGE alice two")
}
