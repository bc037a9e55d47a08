package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/linechat-server/internal/config"
	"github.com/vovakirdan/linechat-server/internal/core"
	"github.com/vovakirdan/linechat-server/internal/transport/tcp"
)

// App wires together the hub and the TCP transport.
type App struct {
	cfg    config.Config
	hub    *core.Hub
	server *tcp.Server
	log    *zerolog.Logger
}

// New constructs the application with provided configuration.
func New(cfg config.Config, logger *zerolog.Logger) *App {
	hub := core.NewHub(logger)
	return &App{
		cfg:    cfg,
		hub:    hub,
		server: tcp.NewServer(hub, cfg, logger),
		log:    logger,
	}
}

// Run binds the listener, starts the hub, and blocks until context
// cancellation. Shutdown is graceful up to ShutdownTimeout: the listener
// closes, live sessions are dropped by the hub, handlers drain.
func (a *App) Run(ctx context.Context) error {
	if err := a.server.Listen(); err != nil {
		return fmt.Errorf("bind %s: %w", a.cfg.Addr, err)
	}

	go a.hub.Run(ctx)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- a.server.Serve(ctx)
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	a.log.Info().Msg("shutting down")
	select {
	case err := <-serverErr:
		return err
	case <-time.After(a.cfg.ShutdownTimeout):
		return errors.New("shutdown timed out")
	}
}
