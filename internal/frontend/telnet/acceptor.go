package telnet

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/xanadu/internal/config"
)

// SessionHandler runs one client's session. It returns when the client
// leaves or ctx is cancelled.
type SessionHandler interface {
	HandleSession(ctx context.Context, conn *Conn) error
}

// Acceptor accepts Telnet clients on a TCP port and runs a SessionHandler
// for each of them.
type Acceptor struct {
	cfg     config.TelnetConfig
	handler SessionHandler
	logger  *zap.Logger

	mu       sync.Mutex
	listener net.Listener
	cancel   context.CancelFunc
	sessions sync.WaitGroup
	active   atomic.Int64
}

// NewAcceptor creates an Acceptor.
//
// Precondition: handler and logger must be non-nil.
// Postcondition: Returns an Acceptor ready to Serve.
func NewAcceptor(cfg config.TelnetConfig, handler SessionHandler, logger *zap.Logger) *Acceptor {
	if handler == nil || logger == nil {
		panic("telnet.NewAcceptor: precondition violated: handler and logger must be non-nil")
	}
	return &Acceptor{cfg: cfg, handler: handler, logger: logger}
}

// Serve listens and accepts clients until ctx is cancelled or Stop is
// called, then waits for every session to end.
//
// Postcondition: Returns nil on a requested shutdown, or the listen error.
func (a *Acceptor) Serve(ctx context.Context) error {
	listener, err := net.Listen("tcp", a.cfg.Addr())
	if err != nil {
		return fmt.Errorf("listening on %s: %w", a.cfg.Addr(), err)
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	a.mu.Lock()
	a.listener = listener
	a.cancel = cancel
	a.mu.Unlock()

	go func() {
		<-ctx.Done()
		_ = listener.Close()
	}()

	a.logger.Info("telnet acceptor listening", zap.String("addr", listener.Addr().String()))
	defer func() {
		a.sessions.Wait()
		a.logger.Info("telnet acceptor stopped")
	}()

	for {
		raw, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			a.logger.Error("accepting connection", zap.Error(err))
			continue
		}
		a.sessions.Add(1)
		go a.serveConn(ctx, raw)
	}
}

func (a *Acceptor) serveConn(ctx context.Context, raw net.Conn) {
	defer a.sessions.Done()
	start := time.Now()
	addr := raw.RemoteAddr().String()
	n := a.active.Add(1)
	defer a.active.Add(-1)
	a.logger.Info("client connected", zap.String("remote_addr", addr), zap.Int64("active", n))

	conn := NewConn(raw, a.cfg.ReadTimeout, a.cfg.WriteTimeout)
	defer conn.Close()

	// Closing the connection unblocks a pending ReadLine on shutdown.
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	if err := conn.Negotiate(); err != nil {
		a.logger.Warn("telnet negotiation failed", zap.String("remote_addr", addr), zap.Error(err))
		return
	}

	err := a.handler.HandleSession(ctx, conn)
	fields := []zap.Field{zap.String("remote_addr", addr), zap.Duration("duration", time.Since(start))}
	if err != nil {
		a.logger.Debug("session ended", append(fields, zap.Error(err))...)
		return
	}
	a.logger.Info("session ended cleanly", fields...)
}

// Stop cancels Serve. It is safe to call before Serve or more than once.
func (a *Acceptor) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.cancel != nil {
		a.cancel()
	}
}

// Addr returns the listening address, or "" before Serve has bound.
func (a *Acceptor) Addr() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.listener != nil {
		return a.listener.Addr().String()
	}
	return ""
}

// ActiveSessions returns the number of sessions currently running.
func (a *Acceptor) ActiveSessions() int64 {
	return a.active.Load()
}
