package session

import (
	"errors"
	"fmt"
	"sync"

	"github.com/cory-johannsen/xanadu/internal/game/message"
	"github.com/cory-johannsen/xanadu/internal/game/player"
)

var (
	// ErrDuplicatePlayer is returned when a player id is already registered.
	ErrDuplicatePlayer = errors.New("player already connected")
	// ErrPlayerNotFound is returned when a player id is not registered.
	ErrPlayerNotFound = errors.New("player not found")
)

// Manager is the arena of player records for one context. Records are stored
// by value; every lookup returns a copy and UpdatePlayer is the only writer.
// Insertion order is preserved.
// All methods are safe for concurrent use.
type Manager struct {
	mu      sync.RWMutex
	players map[string]player.Player // id → record
	order   []string
}

// NewManager creates a Manager holding players in the given order.
//
// Precondition: player ids must be unique and non-empty.
func NewManager(players ...player.Player) *Manager {
	m := &Manager{players: make(map[string]player.Player, len(players))}
	for _, p := range players {
		if err := m.AddPlayer(p); err != nil {
			Violate("NewManager", "%v", err)
		}
	}
	return m
}

// AddPlayer appends p to the collection.
//
// Precondition: p.ID must be non-empty.
// Postcondition: Returns ErrDuplicatePlayer if p.ID is already present.
func (m *Manager) AddPlayer(p player.Player) error {
	if p.ID == "" {
		Violate("AddPlayer", "player id must be non-empty")
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.players[p.ID]; exists {
		return fmt.Errorf("player %q: %w", p.ID, ErrDuplicatePlayer)
	}
	m.players[p.ID] = p
	m.order = append(m.order, p.ID)
	return nil
}

// RemovePlayer deletes the record for id and returns it.
//
// Postcondition: Returns ErrPlayerNotFound if id is unknown.
func (m *Manager) RemovePlayer(id string) (player.Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, exists := m.players[id]
	if !exists {
		return player.Player{}, fmt.Errorf("player %q: %w", id, ErrPlayerNotFound)
	}
	delete(m.players, id)
	for i, oid := range m.order {
		if oid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return p, nil
}

// GetPlayer returns the record for id.
//
// Postcondition: Returns (record, true) if found, or (zero, false) otherwise.
func (m *Manager) GetPlayer(id string) (player.Player, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.players[id]
	return p, ok
}

// GetPlayerByName returns the first player, in insertion order, whose name is
// exactly name. The empty name never matches.
func (m *Manager) GetPlayerByName(name string) (player.Player, bool) {
	if name == "" {
		return player.Player{}, false
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, id := range m.order {
		if p := m.players[id]; p.Name == name {
			return p, true
		}
	}
	return player.Player{}, false
}

// Players returns every record in insertion order.
func (m *Manager) Players() []player.Player {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]player.Player, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.players[id])
	}
	return out
}

// PlayersWithout returns every record whose id is not among excluded.
func (m *Manager) PlayersWithout(excluded ...player.Player) []player.Player {
	skip := make(map[string]bool, len(excluded))
	for _, p := range excluded {
		skip[p.ID] = true
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]player.Player, 0, len(m.order))
	for _, id := range m.order {
		if !skip[id] {
			out = append(out, m.players[id])
		}
	}
	return out
}

// PlayerCount returns the number of players held.
func (m *Manager) PlayerCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.players)
}

// UpdatePlayer merge-patches the record for id and returns the result.
//
// Precondition: id must be present; an unknown id panics with *InvariantViolation.
// Postcondition: Subsequent lookups observe the patched record.
func (m *Manager) UpdatePlayer(id string, patch player.Patch) player.Player {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.players[id]
	if !ok {
		Violate("UpdatePlayer", "unknown player id %q", id)
	}
	p = patch.Apply(p)
	m.players[id] = p
	return p
}

// AllReady reports whether every player satisfies player.IsReady.
// An empty collection is vacuously ready.
func (m *Manager) AllReady() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.players {
		if !player.IsReady(p) {
			return false
		}
	}
	return true
}

// BroadcastFromPlayer constructs, but does not deliver, a broadcast from
// the given sender to every player.
func (m *Manager) BroadcastFromPlayer(text string, from player.Player) message.Broadcast {
	return message.NewBroadcast(text, from)
}

// Leave removes id and returns the departure announcement for a named
// player. Anonymous players and unknown ids produce no messages.
func (m *Manager) Leave(id string) []message.Message {
	p, err := m.RemovePlayer(id)
	if err != nil || p.State == player.StateAnon || p.Name == "" {
		return nil
	}
	return []message.Message{message.NewAnnouncement(fmt.Sprintf("%s has left the game.", p.Name))}
}
