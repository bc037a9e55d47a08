package tcp

import (
	"net"
	"time"

	"github.com/vovakirdan/linechat-server/internal/core"
	"github.com/vovakirdan/linechat-server/internal/proto"
)

// handle owns one accepted connection for its whole lifetime. The hub owns
// the session; this side owns the socket and the line framer.
func (s *Server) handle(conn net.Conn) {
	remote := conn.RemoteAddr().String()

	sess := core.NewSession(s.cfg.OutboundQueue)
	if !s.hub.Attach(sess) {
		// Hub already stopped; refuse the late arrival.
		conn.Close()
		return
	}
	s.log.Info().Str("remote", remote).Str("session", sess.ID).Msg("connection accepted")

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		s.writeLoop(conn, sess)
	}()

	s.readLoop(conn, sess)

	// Reader is done: either the peer vanished or the framer gave up on it.
	// Detach triggers departure cleanup in the hub, which closes the
	// outbound queue, which ends the write loop and closes the socket.
	s.hub.Detach(sess)
	<-writerDone

	s.log.Info().Str("remote", remote).Str("session", sess.ID).Msg("connection closed")
}

// readLoop reads raw bytes, frames them into lines, and dispatches every
// complete line in arrival order. Returns on read failure, EOF, or a framer
// overflow; all three mean this connection is done.
func (s *Server) readLoop(conn net.Conn, sess *core.Session) {
	framer := proto.NewFramer(s.cfg.MaxLineBytes)
	buf := make([]byte, s.cfg.ReadBufferBytes)

	for {
		n, err := conn.Read(buf)
		if n > 0 {
			lines, ferr := framer.Push(buf[:n])
			for _, line := range lines {
				s.hub.Dispatch(sess, line)
			}
			if ferr != nil {
				s.log.Warn().Str("session", sess.ID).Err(ferr).Msg("malformed input, dropping connection")
				return
			}
		}
		if err != nil {
			return
		}
	}
}

// writeLoop drains the session's outbound queue to the socket. The hub closes
// the queue when the session ends; remaining lines are flushed, then the
// socket is closed, which also unblocks the read loop.
func (s *Server) writeLoop(conn net.Conn, sess *core.Session) {
	defer conn.Close()

	for line := range sess.Outbound() {
		if s.cfg.WriteTimeout > 0 {
			if err := conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout)); err != nil {
				s.log.Debug().Str("session", sess.ID).Err(err).Msg("set write deadline failed")
			}
		}
		if _, err := conn.Write([]byte(line + "\n")); err != nil {
			s.log.Debug().Str("session", sess.ID).Err(err).Msg("write failed")
			s.hub.Detach(sess)
			for range sess.Outbound() {
				// Discard until the hub closes the queue.
			}
			return
		}
	}
}
