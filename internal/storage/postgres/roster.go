package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/xanadu/internal/game/character"
	"github.com/cory-johannsen/xanadu/internal/game/player"
)

// ErrMatchNotFound is returned when no roster exists for a match id.
var ErrMatchNotFound = errors.New("match not found")

// ErrMatchExists is returned when a roster is recorded twice for one match.
var ErrMatchExists = errors.New("match already recorded")

// RosterEntry is one seat of a recorded match.
type RosterEntry struct {
	Seat       int
	PlayerID   string
	Name       string
	ClassName  string
	Allegiance string
	Modifiers  []string
}

// Roster is the recorded line-up of a match.
type Roster struct {
	MatchID   string
	StartedAt time.Time
	Entries   []RosterEntry
}

// RosterRepository records the players of every match as it starts.
type RosterRepository struct {
	db *pgxpool.Pool
}

// NewRosterRepository creates a RosterRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewRosterRepository(db *pgxpool.Pool) *RosterRepository {
	return &RosterRepository{db: db}
}

// RecordRoster stores matchID and one row per player in a single transaction.
// Players without a built character are recorded with class and allegiance None.
//
// Precondition: matchID must be a UUID.
// Postcondition: Either every row is written or none is; a repeated matchID
// returns ErrMatchExists.
func (r *RosterRepository) RecordRoster(ctx context.Context, matchID string, players []player.Player) error {
	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`INSERT INTO matches (id, player_count) VALUES ($1, $2)
			 ON CONFLICT (id) DO NOTHING`,
			matchID, len(players),
		)
		if err != nil {
			return fmt.Errorf("inserting match %s: %w", matchID, err)
		}
		if tag.RowsAffected() == 0 {
			return ErrMatchExists
		}

		batch := &pgx.Batch{}
		for seat, p := range players {
			e := entryFor(seat, p)
			batch.Queue(
				`INSERT INTO match_players (match_id, seat, player_id, name, class_name, allegiance, modifiers)
				 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
				matchID, e.Seat, e.PlayerID, e.Name, e.ClassName, e.Allegiance, e.Modifiers,
			)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("inserting roster for match %s: %w", matchID, err)
		}
		return nil
	})
}

func entryFor(seat int, p player.Player) RosterEntry {
	e := RosterEntry{
		Seat:       seat,
		PlayerID:   p.ID,
		Name:       p.Name,
		ClassName:  character.None,
		Allegiance: character.None,
		Modifiers:  []string{},
	}
	if p.Character != nil {
		e.ClassName = p.Character.ClassName
		e.Allegiance = p.Character.Allegiance
		e.Modifiers = p.Character.ActiveModifierNames()
	}
	return e
}

// ListRoster returns the recorded roster of matchID ordered by seat.
//
// Postcondition: Returns ErrMatchNotFound if matchID was never recorded.
func (r *RosterRepository) ListRoster(ctx context.Context, matchID string) (Roster, error) {
	roster := Roster{MatchID: matchID}
	err := r.db.QueryRow(ctx, `SELECT started_at FROM matches WHERE id = $1`, matchID).Scan(&roster.StartedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Roster{}, ErrMatchNotFound
	}
	if err != nil {
		return Roster{}, fmt.Errorf("querying match %s: %w", matchID, err)
	}

	rows, err := r.db.Query(ctx,
		`SELECT seat, player_id, name, class_name, allegiance, modifiers
		 FROM match_players WHERE match_id = $1 ORDER BY seat`,
		matchID,
	)
	if err != nil {
		return Roster{}, fmt.Errorf("querying roster %s: %w", matchID, err)
	}
	entries, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (RosterEntry, error) {
		var e RosterEntry
		err := row.Scan(&e.Seat, &e.PlayerID, &e.Name, &e.ClassName, &e.Allegiance, &e.Modifiers)
		return e, err
	})
	if err != nil {
		return Roster{}, fmt.Errorf("scanning roster %s: %w", matchID, err)
	}
	roster.Entries = entries
	return roster, nil
}

// RecentMatches returns up to limit match ids, newest first.
//
// Precondition: limit must be > 0.
func (r *RosterRepository) RecentMatches(ctx context.Context, limit int) ([]string, error) {
	if limit <= 0 {
		panic("postgres.RecentMatches: precondition violated: limit must be > 0")
	}
	rows, err := r.db.Query(ctx,
		`SELECT id::text FROM matches ORDER BY started_at DESC, id LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying recent matches: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scanning recent matches: %w", err)
	}
	return ids, nil
}
