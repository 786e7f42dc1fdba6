// Package session wires two players to two rosters against one catalog and
// exposes the operations the presentation layer calls.
//
// A Session is built explicitly by the entry point and injected into its
// consumers; there is no ambient instance. It assumes a single logical caller:
// the presentation layer must not invoke add/remove/sort concurrently with a
// battle in flight. The serving layer upholds that discipline.
package session

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/rs/zerolog"

	"pokebattle/internal/battle"
	"pokebattle/internal/catalog"
	"pokebattle/internal/models"
	"pokebattle/internal/roster"
)

var (
	// ErrNotInCatalog is returned when adding a name the catalog lacks.
	ErrNotInCatalog = errors.New("session: not in catalog")
	// ErrRejected is returned when the roster refuses an add (full team,
	// insufficient credits, or duplicate name).
	ErrRejected = errors.New("session: add rejected")
	// ErrUnknownPlayer is returned for a player selector other than 1 or 2.
	ErrUnknownPlayer = errors.New("session: unknown player")
)

// Player pairs a display name with an owned roster.
type Player struct {
	Name string
	Team *roster.Roster
}

// Session coordinates the catalog, both players and the battle engine.
type Session struct {
	catalog  *catalog.Catalog
	engine   *battle.Engine
	player1  *Player
	player2  *Player
	current  *Player
	credits  int
	maxSize  int
	rng      *rand.Rand
	onChange func()
	log      zerolog.Logger
}

// Option configures a Session.
type Option func(*Session)

// WithOnChange registers a callback invoked after every mutating operation, so
// the presentation layer can re-render without polling.
func WithOnChange(fn func()) Option { return func(s *Session) { s.onChange = fn } }

// WithRand injects the random source used to shuffle auto-selected teams.
func WithRand(r *rand.Rand) Option { return func(s *Session) { s.rng = r } }

// New returns a session with two empty rosters and player 1 selected.
func New(cat *catalog.Catalog, eng *battle.Engine, credits, maxSize int, log zerolog.Logger, opts ...Option) *Session {
	s := &Session{
		catalog: cat,
		engine:  eng,
		player1: &Player{Name: "Player 1", Team: roster.New(credits, maxSize)},
		player2: &Player{Name: "Player 2", Team: roster.New(credits, maxSize)},
		credits: credits,
		maxSize: maxSize,
		log:     log.With().Str("component", "session").Logger(),
	}
	s.current = s.player1
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return s
}

// InitializeMatch names both players and resets their rosters.
func (s *Session) InitializeMatch(name1, name2 string) {
	s.player1.Name = name1
	s.player2.Name = name2
	s.player1.Team.Reset()
	s.player2.Team.Reset()
	s.current = s.player1
	s.log.Info().Str("player1", name1).Str("player2", name2).Msg("match initialized")
	s.notify()
}

// SetPlayerNames renames both players without touching their teams.
func (s *Session) SetPlayerNames(name1, name2 string) {
	s.player1.Name = name1
	s.player2.Name = name2
	s.notify()
}

// SwitchPlayer toggles which player the assembly-phase operations act on.
func (s *Session) SwitchPlayer() {
	if s.current == s.player1 {
		s.current = s.player2
	} else {
		s.current = s.player1
	}
	s.log.Debug().Str("current", s.current.Name).Msg("switched player")
	s.notify()
}

// CurrentPlayer returns the player assembly operations act on.
func (s *Session) CurrentPlayer() *Player { return s.current }

// Player returns player 1 or 2.
func (s *Session) Player(n int) (*Player, error) {
	switch n {
	case 1:
		return s.player1, nil
	case 2:
		return s.player2, nil
	}
	return nil, fmt.Errorf("%w: %d", ErrUnknownPlayer, n)
}

// AddToCurrentTeam looks the name up in the catalog and adds an independent
// copy to the current player's roster.
func (s *Session) AddToCurrentTeam(name string) error {
	c, ok := s.catalog.ByName(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrNotInCatalog, name)
	}
	if !s.current.Team.Add(c) {
		s.log.Warn().Str("name", name).Str("player", s.current.Name).Msg("add rejected")
		return fmt.Errorf("%w: %q", ErrRejected, name)
	}
	s.log.Info().Str("name", name).Str("player", s.current.Name).Int("credits", s.current.Team.Credits()).Msg("added to team")
	s.notify()
	return nil
}

// RemoveFromCurrentTeam removes the named entry from the current player's
// roster, refunding its cost. Absent names are a normal no-op.
func (s *Session) RemoveFromCurrentTeam(name string) bool {
	_, ok := s.current.Team.RemoveByName(name)
	if ok {
		s.notify()
	}
	return ok
}

// SortCatalog delegates to the catalog and returns its snapshot in new order.
func (s *Session) SortCatalog(criterion, algorithm string) ([]models.Combatant, error) {
	if err := s.catalog.Sort(criterion, algorithm); err != nil {
		return nil, err
	}
	s.notify()
	return s.catalog.List(), nil
}

// Catalog returns a snapshot of the catalog in current order.
func (s *Session) Catalog() []models.Combatant { return s.catalog.List() }

// Lookup finds a catalog entry by exact name.
func (s *Session) Lookup(name string) (models.Combatant, bool) { return s.catalog.ByName(name) }

// AutoSelectTeam rebuilds player n's roster greedily from a shuffled catalog
// snapshot: random order, add while the size and credit invariants hold.
// Greedy-random, not optimal.
func (s *Session) AutoSelectTeam(n int) (*Player, error) {
	p, err := s.Player(n)
	if err != nil {
		return nil, err
	}
	available := s.catalog.List()
	s.rng.Shuffle(len(available), func(i, j int) {
		available[i], available[j] = available[j], available[i]
	})
	p.Team.Reset()
	for _, c := range available {
		if p.Team.Full() {
			break
		}
		p.Team.Add(c)
	}
	s.log.Info().Str("player", p.Name).Int("size", p.Team.Size()).Int("credits", p.Team.Credits()).Msg("auto-selected team")
	s.notify()
	return p, nil
}

// TeamsReady reports whether both players have at least one combatant.
func (s *Session) TeamsReady() bool {
	return s.player1.Team.Size() > 0 && s.player2.Team.Size() > 0
}

// StartBattle runs the battle loop to completion, mutating both rosters.
func (s *Session) StartBattle(ctx context.Context) (battle.Result, error) {
	res, err := s.engine.Run(ctx,
		battle.Side{Player: s.player1.Name, Team: s.player1.Team},
		battle.Side{Player: s.player2.Name, Team: s.player2.Team},
	)
	s.notify()
	return res, err
}

// BattleLog returns a copy of the battle log.
func (s *Session) BattleLog() []battle.Entry { return s.engine.Entries() }

// Fighting returns the combatant currently flagged as fighting for player n.
func (s *Session) Fighting(n int) (models.Combatant, bool, error) {
	p, err := s.Player(n)
	if err != nil {
		return models.Combatant{}, false, err
	}
	c, ok := p.Team.Fighter()
	return c, ok, nil
}

func (s *Session) notify() {
	if s.onChange != nil {
		s.onChange()
	}
}
