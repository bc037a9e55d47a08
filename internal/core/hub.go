package core

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/linechat-server/internal/proto"
)

// Hub owns every live session plus the room and nickname registries. It runs
// as a single goroutine: transports feed it attach/line/detach requests
// through one channel, so no session or room is ever observed mid-update.
// Outbound lines go through per-session buffered queues drained by transport
// write loops, so one slow peer never stalls the hub.
type Hub struct {
	log *zerolog.Logger

	requests chan request
	done     chan struct{}

	sessions map[*Session]struct{}
	nicks    map[string]*Session
	rooms    map[string]*Room
}

type requestKind int

const (
	reqAttach requestKind = iota
	reqLine
	reqDetach
)

type request struct {
	kind requestKind
	sess *Session
	line string
}

// NewHub creates a hub. A nil logger disables logging.
func NewHub(logger *zerolog.Logger) *Hub {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Hub{
		log:      logger,
		requests: make(chan request),
		done:     make(chan struct{}),
		sessions: make(map[*Session]struct{}),
		nicks:    make(map[string]*Session),
		rooms:    make(map[string]*Room),
	}
}

// Attach hands a freshly accepted, unregistered session to the hub. Returns
// false when the hub has already stopped; the caller keeps ownership then.
func (h *Hub) Attach(s *Session) bool {
	select {
	case h.requests <- request{kind: reqAttach, sess: s}:
		return true
	case <-h.done:
		return false
	}
}

// Dispatch hands one complete inbound line to the hub.
func (h *Hub) Dispatch(s *Session, line string) {
	h.submit(request{kind: reqLine, sess: s, line: line})
}

// Detach removes a session whose transport has died. Safe to call more than
// once; departure notifications fire at most once.
func (h *Hub) Detach(s *Session) {
	h.submit(request{kind: reqDetach, sess: s})
}

func (h *Hub) submit(r request) {
	select {
	case h.requests <- r:
	case <-h.done:
	}
}

// Run processes requests until the context is canceled, then closes every
// remaining session. It must be running before any transport attaches.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case req := <-h.requests:
			switch req.kind {
			case reqAttach:
				h.attach(req.sess)
			case reqLine:
				h.handleLine(req.sess, req.line)
			case reqDetach:
				h.remove(req.sess, "transport closed")
			}
		}
	}
}

func (h *Hub) attach(s *Session) {
	h.sessions[s] = struct{}{}
	h.log.Debug().Str("session", s.ID).Msg("session attached")
}

// handleLine runs one line through the parser and the protocol state machine.
func (h *Hub) handleLine(s *Session, raw string) {
	if _, ok := h.sessions[s]; !ok {
		return
	}

	ln := proto.ParseLine(raw)
	if ln.Kind == proto.KindMessage {
		h.handleChat(s, ln.Text)
		return
	}

	switch ln.Name {
	case proto.CmdNick:
		h.handleNick(s, ln.Args)
	case proto.CmdJoin:
		h.handleJoin(s, ln.Args)
	case proto.CmdLeave:
		h.handleLeave(s, ln.Args)
	case proto.CmdBye:
		h.handleBye(s, ln.Args)
	case proto.CmdPriv:
		h.handlePriv(s, ln.Args)
	default:
		h.reject(s, ErrUnknownCommand)
	}
}

// handleNick registers or renames. Uniqueness is case-sensitive and checked
// against every other session; renaming to your own current nickname is a
// no-op that still acknowledges.
func (h *Hub) handleNick(s *Session, args []string) {
	if len(args) != 1 {
		h.reject(s, ErrBadArguments)
		return
	}
	newNick := args[0]

	if holder, taken := h.nicks[newNick]; taken && holder != s {
		h.reject(s, ErrNickTaken)
		return
	}

	old := s.nick
	if old != "" {
		delete(h.nicks, old)
	}
	h.nicks[newNick] = s
	s.nick = newNick

	switch {
	case s.state == StateUnregistered:
		s.state = StateIdle
	case s.state == StateInRoom && old != newNick:
		h.fanout(s.room, s, proto.NewNick(old, newNick))
	}

	h.send(s, proto.StatusOK)
	h.log.Debug().Str("session", s.ID).Str("nick", newNick).Msg("nick set")
}

// handleJoin moves a registered session into a room, leaving its current
// room first. Exactly one OK is acknowledged even when an implicit leave
// happens.
func (h *Hub) handleJoin(s *Session, args []string) {
	if len(args) != 1 {
		h.reject(s, ErrBadArguments)
		return
	}
	if s.state == StateUnregistered {
		h.reject(s, ErrNotRegistered)
		return
	}
	if s.state == StateInRoom {
		h.leaveRoom(s)
	}

	name := args[0]
	room, existed := h.rooms[name]
	if !existed {
		room = NewRoom(name)
		h.rooms[name] = room
	}

	// Become a member before notifying anyone: a notice that tears down a
	// slow member triggers leaveRoom, and an empty-looking room would be
	// deleted out of the registry with the joiner stranded in it.
	room.AddMember(s)
	s.room = room
	s.state = StateInRoom

	if existed {
		h.fanout(room, s, proto.Joined(s.nick))
	}

	h.send(s, proto.StatusOK)
	h.log.Debug().Str("session", s.ID).Str("room", name).Msg("joined room")
}

func (h *Hub) handleLeave(s *Session, args []string) {
	if len(args) != 0 {
		h.reject(s, ErrBadArguments)
		return
	}
	if s.state != StateInRoom {
		h.reject(s, ErrNotInRoom)
		return
	}
	h.leaveRoom(s)
	h.send(s, proto.StatusOK)
}

// handleBye sends the farewell and discards the session. An in-room session
// leaves first so roommates get their departure notice.
func (h *Hub) handleBye(s *Session, args []string) {
	if len(args) != 0 {
		h.reject(s, ErrBadArguments)
		return
	}
	if s.state == StateInRoom {
		h.leaveRoom(s)
	}
	h.send(s, proto.StatusBye)
	h.remove(s, "bye")
}

// handlePriv delivers a direct message. Argument errors outrank state errors,
// matching the command grammar: recipient token plus a non-empty body.
func (h *Hub) handlePriv(s *Session, args []string) {
	if len(args) != 2 {
		h.reject(s, ErrBadArguments)
		return
	}
	if s.state == StateUnregistered {
		h.reject(s, ErrNotRegistered)
		return
	}

	target, ok := h.nicks[args[0]]
	if !ok {
		h.reject(s, ErrTargetNotFound)
		return
	}

	h.send(target, proto.Private(s.nick, args[1]))
	h.send(s, proto.StatusOK)
}

// handleChat broadcasts plain text to the sender's room, sender included.
// The broadcast itself is the acknowledgment; no separate OK is sent.
func (h *Hub) handleChat(s *Session, text string) {
	switch s.state {
	case StateUnregistered:
		h.reject(s, ErrNotRegistered)
		return
	case StateIdle:
		h.reject(s, ErrNotInRoom)
		return
	}
	h.fanout(s.room, nil, proto.RoomMessage(s.nick, text))
}

// leaveRoom detaches s from its room, deletes the room when it empties, and
// notifies the remaining members. It never acknowledges; callers decide
// whether an OK, a BYE, or nothing follows.
func (h *Hub) leaveRoom(s *Session) {
	room := s.room
	room.RemoveMember(s)
	s.room = nil
	s.state = StateIdle

	if room.Empty() {
		delete(h.rooms, room.Name)
		h.log.Debug().Str("room", room.Name).Msg("room removed")
		return
	}
	h.fanout(room, nil, proto.Left(s.nick))
}

// fanout queues line to every room member except the excluded one. Delivery
// is best-effort per member: a full queue tears that member down but the
// remaining sends still happen.
func (h *Hub) fanout(room *Room, except *Session, line string) {
	for _, m := range room.Members() {
		if m == except {
			continue
		}
		h.send(m, line)
	}
}

// send queues one line to a session, tearing the session down when its peer
// cannot keep up.
func (h *Hub) send(s *Session, line string) {
	if _, ok := h.sessions[s]; !ok {
		return
	}
	if s.send(line) {
		return
	}
	h.log.Warn().Str("session", s.ID).Str("nick", s.nick).Msg("outbound queue full, dropping connection")
	h.remove(s, "slow consumer")
}

// remove discards a session: implicit leave, nickname release, outbound
// queue closed so the transport flushes and closes the socket. Idempotent.
func (h *Hub) remove(s *Session, reason string) {
	if _, ok := h.sessions[s]; !ok {
		return
	}
	delete(h.sessions, s)

	if s.state == StateInRoom {
		h.leaveRoom(s)
	}
	if s.nick != "" {
		delete(h.nicks, s.nick)
	}

	s.closed = true
	close(s.out)
	h.log.Debug().Str("session", s.ID).Str("reason", reason).Msg("session removed")
}

// reject logs the violation and answers with a bare ERROR line. State is
// never changed on a rejected command.
func (h *Hub) reject(s *Session, err error) {
	h.log.Debug().Str("session", s.ID).Str("code", errorCode(err)).Msg("command rejected")
	h.send(s, proto.StatusError)
}

func (h *Hub) closeAll() {
	for s := range h.sessions {
		delete(h.sessions, s)
		s.closed = true
		close(s.out)
	}
	h.nicks = make(map[string]*Session)
	h.rooms = make(map[string]*Room)
}
