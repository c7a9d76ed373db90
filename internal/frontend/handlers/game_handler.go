// Package handlers contains the Telnet session handler that connects a
// client to the game hub and renders the hub's messages as terminal text.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/cory-johannsen/xanadu/internal/frontend/telnet"
	"github.com/cory-johannsen/xanadu/internal/game/command"
	"github.com/cory-johannsen/xanadu/internal/game/session"
)

// QuitCommand ends a Telnet session.
const QuitCommand = "/quit"

// Hub is the subset of the game hub a transport session needs.
type Hub interface {
	Connect(ctx context.Context) (string, *session.Outbox, error)
	Submit(ctx context.Context, id, content string) error
	Disconnect(ctx context.Context, id string) error
}

// GameHandler implements telnet.SessionHandler by joining each client to the hub.
type GameHandler struct {
	hub        Hub
	serverName string
	commands   *command.Registry
	logger     *zap.Logger
}

// NewGameHandler creates a GameHandler.
//
// Precondition: hub and logger must be non-nil.
func NewGameHandler(hub Hub, serverName string, logger *zap.Logger) *GameHandler {
	if hub == nil || logger == nil {
		panic("handlers.NewGameHandler: precondition violated: hub and logger must be non-nil")
	}
	return &GameHandler{
		hub:        hub,
		serverName: serverName,
		commands:   command.DefaultRegistry(),
		logger:     logger,
	}
}

// HandleSession greets the client, connects it to the hub and pumps lines in
// and rendered messages out until the client quits or the hub drops it.
//
// Postcondition: The player is disconnected from the hub when this returns.
func (h *GameHandler) HandleSession(ctx context.Context, conn *telnet.Conn) error {
	banner := telnet.Bold.Wrapf("Welcome to %s!", h.serverName) + "\n" + RenderHelp(h.commands)
	if err := conn.WriteText(banner); err != nil {
		return fmt.Errorf("writing banner: %w", err)
	}

	id, outbox, err := h.hub.Connect(ctx)
	if err != nil {
		_ = conn.WriteText(telnet.Red.Wrapf("The game cannot accept you right now: %v", err))
		return fmt.Errorf("connecting to hub: %w", err)
	}
	logger := h.logger.With(zap.String("player_id", id), zap.String("remote_addr", conn.RemoteAddr().String()))
	logger.Debug("telnet session joined hub")

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		h.forward(outbox, conn, id, logger)
	}()

	err = h.readLoop(ctx, conn, id)

	if derr := h.hub.Disconnect(context.WithoutCancel(ctx), id); derr != nil {
		logger.Debug("disconnecting from hub", zap.Error(derr))
		// The hub is gone, so nobody will close the outbox.
		_ = conn.Close()
		wg.Wait()
		return err
	}
	wg.Wait()
	return err
}

// forward renders messages until the outbox closes, then closes conn so a
// blocked ReadLine returns.
func (h *GameHandler) forward(outbox *session.Outbox, conn *telnet.Conn, id string, logger *zap.Logger) {
	defer conn.Close()
	for msg := range outbox.Messages() {
		text, ok := RenderMessage(msg, id)
		if !ok {
			continue
		}
		if err := conn.WriteText(text); err != nil {
			logger.Debug("writing message", zap.Error(err))
			continue
		}
		if len(outbox.Messages()) == 0 {
			_ = conn.WritePrompt(Prompt)
		}
	}
}

func (h *GameHandler) readLoop(ctx context.Context, conn *telnet.Conn, id string) error {
	for {
		line, err := conn.ReadLine()
		if errors.Is(err, telnet.ErrLineTooLong) {
			_ = conn.WriteText(telnet.Red.Wrapf("Lines are limited to %d characters.", telnet.MaxLineLength))
			continue
		}
		if err != nil {
			return fmt.Errorf("reading input: %w", err)
		}

		line = strings.TrimSpace(line)
		switch {
		case line == "":
			_ = conn.WritePrompt(Prompt)
			continue
		case strings.EqualFold(line, QuitCommand):
			_ = conn.WriteText(telnet.Cyan.Wrap("Goodbye."))
			return nil
		}

		if err := h.hub.Submit(ctx, id, line); err != nil {
			return fmt.Errorf("submitting input: %w", err)
		}
	}
}
