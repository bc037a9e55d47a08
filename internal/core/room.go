package core

import "slices"

// Room groups the sessions subscribed to the same channel. Members are kept
// in join order so broadcast delivery order is deterministic. Rooms exist
// only while they have members: the hub creates one on first join and drops
// it when the last member leaves.
type Room struct {
	Name    string
	members []*Session
}

// NewRoom constructs a room with no members.
func NewRoom(name string) *Room {
	return &Room{Name: name}
}

// AddMember appends a session to the room. Returns true if newly added.
func (r *Room) AddMember(s *Session) bool {
	if slices.Contains(r.members, s) {
		return false
	}
	r.members = append(r.members, s)
	return true
}

// RemoveMember deletes a session from the room. Returns true if removed.
func (r *Room) RemoveMember(s *Session) bool {
	i := slices.Index(r.members, s)
	if i < 0 {
		return false
	}
	r.members = slices.Delete(r.members, i, i+1)
	return true
}

// Members returns a snapshot of the member list in join order. Callers may
// mutate membership while iterating the snapshot.
func (r *Room) Members() []*Session {
	return slices.Clone(r.members)
}

// Empty returns true if no sessions are in the room.
func (r *Room) Empty() bool {
	return len(r.members) == 0
}

// Size returns the current member count.
func (r *Room) Size() int {
	return len(r.members)
}
