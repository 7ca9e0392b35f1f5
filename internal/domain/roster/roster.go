// Package roster holds the two match rosters as ordered lists of actors.
// Roster management (creating and editing entries) happens outside the
// core; the store only needs ordered iteration and id lookup.
package roster

import (
	"context"
	"sync"

	"github.com/okian/skudd/internal/domain/model"
)

// Store keeps home players and opposing players in insertion order. IDs are
// assigned sequentially per roster and are never reused within a session.
type Store struct {
	mu           sync.RWMutex
	players      []model.Player
	opponents    []model.Opponent
	nextPlayer   int
	nextOpponent int
}

// New creates an empty roster store.
func New() *Store {
	return &Store{nextPlayer: 1, nextOpponent: 1}
}

// AddPlayer appends a home player and assigns its id.
func (s *Store) AddPlayer(ctx context.Context, name string, number int, isKeeper bool) model.Player {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := model.Player{ID: s.nextPlayer, Name: name, Number: number, IsKeeper: isKeeper}
	s.nextPlayer++
	s.players = append(s.players, p)
	return p
}

// AddOpponent appends an opposing player and assigns its id.
func (s *Store) AddOpponent(ctx context.Context, name string, number int) model.Opponent {
	s.mu.Lock()
	defer s.mu.Unlock()
	o := model.Opponent{ID: s.nextOpponent, Name: name, Number: number}
	s.nextOpponent++
	s.opponents = append(s.opponents, o)
	return o
}

// Player looks up a home player by id.
func (s *Store) Player(ctx context.Context, id int) (model.Player, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.players {
		if p.ID == id {
			return p, true
		}
	}
	return model.Player{}, false
}

// Opponent looks up an opposing player by id.
func (s *Store) Opponent(ctx context.Context, id int) (model.Opponent, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, o := range s.opponents {
		if o.ID == id {
			return o, true
		}
	}
	return model.Opponent{}, false
}

// Players returns the home roster in insertion order.
func (s *Store) Players(ctx context.Context) []model.Player {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Player, len(s.players))
	copy(out, s.players)
	return out
}

// Opponents returns the opposing roster in insertion order.
func (s *Store) Opponents(ctx context.Context) []model.Opponent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Opponent, len(s.opponents))
	copy(out, s.opponents)
	return out
}

// Keepers returns the home players flagged as keepers, in roster order.
func (s *Store) Keepers(ctx context.Context) []model.Player {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.Player
	for _, p := range s.players {
		if p.IsKeeper {
			out = append(out, p)
		}
	}
	return out
}

// Replace swaps in complete rosters, used when restoring an exported
// snapshot. Id counters continue past the highest imported id.
func (s *Store) Replace(ctx context.Context, players []model.Player, opponents []model.Opponent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.players = make([]model.Player, len(players))
	copy(s.players, players)
	s.opponents = make([]model.Opponent, len(opponents))
	copy(s.opponents, opponents)
	s.nextPlayer, s.nextOpponent = 1, 1
	for _, p := range s.players {
		if p.ID >= s.nextPlayer {
			s.nextPlayer = p.ID + 1
		}
	}
	for _, o := range s.opponents {
		if o.ID >= s.nextOpponent {
			s.nextOpponent = o.ID + 1
		}
	}
}
