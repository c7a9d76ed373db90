// Package gameserver runs the single coordination queue that owns the current
// game context and fans its output out to connected players.
package gameserver

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/xanadu/internal/game/lobby"
	"github.com/cory-johannsen/xanadu/internal/game/match"
	"github.com/cory-johannsen/xanadu/internal/game/message"
	"github.com/cory-johannsen/xanadu/internal/game/player"
	"github.com/cory-johannsen/xanadu/internal/game/session"
)

// ErrHubClosed is returned by requests made after Run has returned.
var ErrHubClosed = errors.New("hub closed")

const (
	// MatchStartText is announced to every player at the lobby to match hand-off.
	MatchStartText = "All players are ready. The match begins!"
	// MatchEndText is announced when too few players remain to continue a match.
	MatchEndText = "Not enough players remain. Returning to the lobby."

	recordTimeout = 5 * time.Second
)

// RosterRecorder persists the roster of each match as it starts.
//
// Postcondition: Returns nil on success or a non-nil error on failure.
type RosterRecorder interface {
	RecordRoster(ctx context.Context, matchID string, players []player.Player) error
}

// Config configures a Hub.
type Config struct {
	Lobby lobby.Options
	// MinPlayers is the fewest ready players that start a match, and the
	// fewest that keep one running.
	MinPlayers int
	// Seed drives character building.
	Seed uint64
	// OutboxSize is the per-connection message buffer.
	OutboxSize int
	// UpdateInterval is how often the context is polled for timed updates;
	// zero disables polling.
	UpdateInterval time.Duration
}

// Snapshot describes the hub's current context.
type Snapshot struct {
	Context string
	Players []player.Player
}

type request interface{ isRequest() }

type connectRequest struct {
	reply chan connectReply
}

type connectReply struct {
	id     string
	outbox *session.Outbox
	err    error
}

type lineRequest struct {
	id      string
	content string
}

type disconnectRequest struct {
	id string
}

type snapshotRequest struct {
	reply chan Snapshot
}

func (connectRequest) isRequest()    {}
func (lineRequest) isRequest()       {}
func (disconnectRequest) isRequest() {}
func (snapshotRequest) isRequest()   {}

// Hub serializes every input for the current context through one goroutine.
// Transports call Connect, Submit, Disconnect and Snapshot from any goroutine.
type Hub struct {
	cfg      Config
	recorder RosterRecorder
	logger   *zap.Logger
	inbox    chan request
	done     chan struct{}
	records  sync.WaitGroup

	// Owned by the Run goroutine.
	current  session.Context
	outboxes map[string]*session.Outbox
	rng      *rand.Rand
}

// NewHub creates a Hub whose first context is an empty lobby.
//
// Precondition: logger must be non-nil; cfg.MinPlayers must be >= 1.
// recorder may be nil (rosters are not persisted).
// Postcondition: Returns a Hub ready to Run.
func NewHub(cfg Config, recorder RosterRecorder, logger *zap.Logger) *Hub {
	if logger == nil {
		panic("gameserver.NewHub: precondition violated: logger must be non-nil")
	}
	if cfg.MinPlayers < 1 {
		panic("gameserver.NewHub: precondition violated: MinPlayers must be >= 1")
	}
	return &Hub{
		cfg:      cfg,
		recorder: recorder,
		logger:   logger,
		inbox:    make(chan request, 64),
		done:     make(chan struct{}),
		current:  lobby.New(cfg.Lobby, nil, logger),
		outboxes: make(map[string]*session.Outbox),
		rng:      rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15)),
	}
}

// Run processes requests until ctx is cancelled, then closes every outbox.
//
// Postcondition: Returns nil after ctx is cancelled; later requests fail with ErrHubClosed.
func (h *Hub) Run(ctx context.Context) error {
	var (
		clock *UpdateClock
		ticks chan Tick
	)
	if h.cfg.UpdateInterval > 0 {
		clock = NewUpdateClock(h.cfg.UpdateInterval)
		ticks = make(chan Tick, 1)
		clock.Subscribe(ticks)
		stop := clock.Start()
		defer stop()
	}

	h.logger.Info("hub started", zap.String("context", h.current.Name()))
	defer func() {
		close(h.done)
		for id, o := range h.outboxes {
			o.Close()
			delete(h.outboxes, id)
		}
		h.records.Wait()
		if clock != nil {
			h.logger.Info("hub stopped", zap.Uint64("ticks", uint64(clock.Current())))
			return
		}
		h.logger.Info("hub stopped")
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case req := <-h.inbox:
			h.dispatch(ctx, req)
		case t := <-ticks:
			h.guard("tick", func() { h.update(ctx, t) })
		}
	}
}

// Connect registers a new connection as an anonymous player.
//
// Postcondition: Returns the player id and its outbox, or an error if the
// current context refuses new players or the hub is closed.
func (h *Hub) Connect(ctx context.Context) (string, *session.Outbox, error) {
	reply := make(chan connectReply, 1)
	if err := h.send(ctx, connectRequest{reply: reply}); err != nil {
		return "", nil, err
	}
	select {
	case r := <-reply:
		return r.id, r.outbox, r.err
	case <-h.done:
		return "", nil, ErrHubClosed
	case <-ctx.Done():
		return "", nil, ctx.Err()
	}
}

// Submit queues one line of input from player id.
func (h *Hub) Submit(ctx context.Context, id, content string) error {
	return h.send(ctx, lineRequest{id: id, content: content})
}

// Disconnect queues the removal of player id. Its outbox is closed once processed.
func (h *Hub) Disconnect(ctx context.Context, id string) error {
	return h.send(ctx, disconnectRequest{id: id})
}

// Snapshot returns the current context's name and players.
func (h *Hub) Snapshot(ctx context.Context) (Snapshot, error) {
	reply := make(chan Snapshot, 1)
	if err := h.send(ctx, snapshotRequest{reply: reply}); err != nil {
		return Snapshot{}, err
	}
	select {
	case s := <-reply:
		return s, nil
	case <-h.done:
		return Snapshot{}, ErrHubClosed
	case <-ctx.Done():
		return Snapshot{}, ctx.Err()
	}
}

func (h *Hub) send(ctx context.Context, req request) error {
	select {
	case <-h.done:
		return ErrHubClosed
	default:
	}
	select {
	case h.inbox <- req:
		return nil
	case <-h.done:
		return ErrHubClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (h *Hub) dispatch(ctx context.Context, req request) {
	switch r := req.(type) {
	case connectRequest:
		h.guard("connect", func() { r.reply <- h.connect() })
	case lineRequest:
		h.guard("line", func() { h.line(ctx, r.id, r.content) })
	case disconnectRequest:
		h.guard("disconnect", func() { h.disconnect(ctx, r.id) })
	case snapshotRequest:
		r.reply <- Snapshot{Context: h.current.Name(), Players: h.current.Players()}
	}
}

// guard runs fn, recovering invariant violations so one bad input cannot
// stop the hub. Any other panic is re-raised.
func (h *Hub) guard(op string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			v, ok := r.(*session.InvariantViolation)
			if !ok {
				panic(r)
			}
			h.logger.Error("invariant violation",
				zap.String("request", op),
				zap.String("op", v.Op),
				zap.String("detail", v.Detail),
			)
		}
	}()
	fn()
}

func (h *Hub) connect() connectReply {
	id := uuid.NewString()
	msgs, err := h.current.Join(player.New(id))
	if err != nil {
		h.logger.Info("connection refused", zap.String("context", h.current.Name()), zap.Error(err))
		return connectReply{err: fmt.Errorf("joining %s: %w", h.current.Name(), err)}
	}
	o := session.NewOutbox(id, h.cfg.OutboxSize)
	h.outboxes[id] = o
	h.logger.Info("player connected", zap.String("player_id", id), zap.Int("players", len(h.outboxes)))
	h.deliver(msgs)
	return connectReply{id: id, outbox: o}
}

func (h *Hub) line(ctx context.Context, id, content string) {
	p, ok := h.current.GetPlayer(id)
	if !ok {
		h.logger.Debug("input from unknown player dropped", zap.String("player_id", id))
		return
	}
	h.deliver(h.current.HandleMessage(session.ClientMessage{Player: p, Content: content}))
	h.advance(ctx)
}

func (h *Hub) disconnect(ctx context.Context, id string) {
	h.deliver(h.current.Leave(id))
	if o, ok := h.outboxes[id]; ok {
		o.Close()
		delete(h.outboxes, id)
	}
	h.logger.Info("player disconnected", zap.String("player_id", id), zap.Int("players", len(h.outboxes)))
	h.advance(ctx)
}

func (h *Hub) update(ctx context.Context, t Tick) {
	if !h.current.IsReadyForUpdate() {
		return
	}
	result := h.current.Update()
	for _, line := range result.Log {
		h.logger.Info(line, zap.String("context", h.current.Name()), zap.Uint64("tick", uint64(t)))
	}
	h.deliver(result.Messages)
	h.advance(ctx)
}

// advance moves to the next context once the current one is finished.
func (h *Hub) advance(ctx context.Context) {
	if !h.current.IsReadyForNextContext() {
		return
	}
	switch c := h.current.(type) {
	case *lobby.Lobby:
		players := c.Players()
		if len(players) < h.cfg.MinPlayers {
			return
		}
		m := match.New(uuid.NewString(), players, c.Rules().Catalog, h.rng, h.cfg.MinPlayers, h.logger)
		h.current = m
		h.logger.Info("match started", zap.String("match_id", m.ID()), zap.Int("players", len(players)))
		h.deliver([]message.Message{message.NewGame(MatchStartText, m.Players()...)})
		h.record(ctx, m)
	case *match.Match:
		l := lobby.New(h.cfg.Lobby, c.Players(), h.logger)
		h.current = l
		h.logger.Info("match ended", zap.String("match_id", c.ID()), zap.Int("players", l.PlayerCount()))
		h.deliver([]message.Message{message.NewGame(MatchEndText, l.Players()...)})
	}
}

func (h *Hub) record(ctx context.Context, m *match.Match) {
	if h.recorder == nil {
		return
	}
	players := m.Players()
	h.records.Add(1)
	go func() {
		defer h.records.Done()
		rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), recordTimeout)
		defer cancel()
		if err := h.recorder.RecordRoster(rctx, m.ID(), players); err != nil {
			h.logger.Error("recording roster", zap.String("match_id", m.ID()), zap.Error(err))
		}
	}()
}

func (h *Hub) deliver(msgs []message.Message) {
	if len(msgs) == 0 {
		return
	}
	everyone := h.current.Players()
	for _, msg := range msgs {
		for _, id := range Recipients(msg, everyone) {
			o, ok := h.outboxes[id]
			if !ok {
				continue
			}
			if err := o.Push(msg); err != nil {
				h.logger.Warn("dropping message", zap.String("player_id", id), zap.String("kind", string(msg.Kind())), zap.Error(err))
			}
		}
	}
}
