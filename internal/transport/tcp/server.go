package tcp

import (
	"context"
	"errors"
	"net"
	"sync"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/linechat-server/internal/config"
	"github.com/vovakirdan/linechat-server/internal/core"
)

// Server accepts TCP connections and bridges each one to a core session:
// a read goroutine frames inbound bytes into lines for the hub, a write
// goroutine drains the session's outbound queue back to the socket.
type Server struct {
	cfg config.Config
	hub *core.Hub
	log *zerolog.Logger

	ln net.Listener
	wg sync.WaitGroup
}

// NewServer builds a TCP server bound to the given hub.
func NewServer(hub *core.Hub, cfg config.Config, logger *zerolog.Logger) *Server {
	return &Server{cfg: cfg, hub: hub, log: logger}
}

// Listen binds the configured address. Failing to bind is the only fatal
// startup error the relay has.
func (s *Server) Listen() error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	s.ln = ln
	s.log.Info().Str("addr", ln.Addr().String()).Msg("listening")
	return nil
}

// Addr returns the bound address. Valid after Listen; lets tests use ":0".
func (s *Server) Addr() net.Addr {
	return s.ln.Addr()
}

// Serve accepts connections until the context is canceled, then waits for
// every connection handler to finish. Listen must have been called.
func (s *Server) Serve(ctx context.Context) error {
	stopped := make(chan struct{})
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		select {
		case <-ctx.Done():
			s.ln.Close()
		case <-stopped:
		}
	}()

	for {
		conn, err := s.ln.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				break
			}
			s.log.Warn().Err(err).Msg("accept failed")
			continue
		}

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.handle(conn)
		}()
	}

	close(stopped)
	s.wg.Wait()
	return nil
}
