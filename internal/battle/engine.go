// Package battle drives the turn loop between two rosters. Each round pairs a
// uniformly random fighter per side and resolves by comparing special power:
// equal powers eliminate both, otherwise the loser is removed and the winner
// pays a special-power cost equal to the loser's stat (and may die from it).
package battle

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"pokebattle/internal/models"
	"pokebattle/internal/roster"
)

// State is the engine's position in its round loop.
type State int

const (
	StateIdle State = iota
	StateRoundInProgress
	StateRoundResolved
	StateFinished
)

// Side pairs a player name with their roster.
type Side struct {
	Player string
	Team   *roster.Roster
}

// Hit records one power transfer, used for outcome stats.
type Hit struct {
	Attacker string `json:"attacker"`
	Victim   string `json:"victim"`
	Damage   int    `json:"damage"`
}

// Result is the terminal outcome of a battle.
type Result struct {
	Winner     string `json:"winner,omitempty"`
	Draw       bool   `json:"draw"`
	Rounds     int    `json:"rounds"`
	BiggestHit Hit    `json:"biggest_hit"`
}

// Engine resolves battles. One battle at a time; rosters must not be mutated
// by anyone else while Run is in flight (precondition, not enforced). The log
// and loop state may be read concurrently so renderers can observe
// intermediate rounds.
type Engine struct {
	rng      *rand.Rand
	delay    time.Duration
	observer func(Entry)
	log      zerolog.Logger

	mu      sync.Mutex
	entries []Entry
	state   State
}

// Option configures an Engine.
type Option func(*Engine)

// WithDelay paces rounds with a fixed inter-round sleep. Presentation concern;
// zero keeps resolution immediate and changes no observable log or roster state.
func WithDelay(d time.Duration) Option { return func(e *Engine) { e.delay = d } }

// WithRand injects the random source, e.g. a seeded one for deterministic runs.
func WithRand(r *rand.Rand) Option { return func(e *Engine) { e.rng = r } }

// WithObserver registers a callback invoked for every appended log entry.
func WithObserver(fn func(Entry)) Option { return func(e *Engine) { e.observer = fn } }

// New returns an idle engine.
func New(log zerolog.Logger, opts ...Option) *Engine {
	e := &Engine{log: log.With().Str("component", "battle").Logger()}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = newRNG()
	}
	return e
}

// State returns the engine's current loop state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

func (e *Engine) setState(s State) {
	e.mu.Lock()
	e.state = s
	e.mu.Unlock()
}

// Run clears the log and resolves rounds until a roster empties or ctx is
// cancelled. Cancellation is honored at round boundaries only; a round that
// started always resolves fully.
func (e *Engine) Run(ctx context.Context, a, b Side) (Result, error) {
	e.mu.Lock()
	e.entries = e.entries[:0]
	e.state = StateIdle
	e.mu.Unlock()

	e.logEntry("The battle begins!", LevelHeading, false)
	e.logEntry(fmt.Sprintf("%s vs %s", a.Player, b.Player), LevelHeading, false)

	var res Result
	for a.Team.Size() > 0 && b.Team.Size() > 0 {
		if err := ctx.Err(); err != nil {
			e.logEntry("The battle was aborted.", LevelParagraph, true)
			e.setState(StateFinished)
			return res, err
		}
		e.setState(StateRoundInProgress)
		e.fightRound(a, b, &res)
		res.Rounds++
		e.setState(StateRoundResolved)
		if e.delay > 0 && a.Team.Size() > 0 && b.Team.Size() > 0 {
			select {
			case <-time.After(e.delay):
			case <-ctx.Done():
			}
		}
	}

	e.setState(StateFinished)
	switch {
	case a.Team.Size() > 0:
		res.Winner = a.Player
	case b.Team.Size() > 0:
		res.Winner = b.Player
	default:
		// Mutual defeat on the final round left both rosters empty.
		res.Draw = true
	}
	if res.Draw {
		e.logEntry("The battle is over! Both teams are wiped out, it's a draw!", LevelHeading, true)
	} else {
		e.logEntry(fmt.Sprintf("The battle is over! %s wins!", res.Winner), LevelHeading, true)
	}
	e.log.Info().Str("winner", res.Winner).Bool("draw", res.Draw).Int("rounds", res.Rounds).Msg("battle finished")
	return res, nil
}

func (e *Engine) fightRound(a, b Side, res *Result) {
	f1, ok1 := e.randomFighter(a.Team)
	f2, ok2 := e.randomFighter(b.Team)
	if !ok1 || !ok2 {
		return
	}

	e.logEntry("A new fight begins!", LevelParagraph, false)
	e.logEntry(fmt.Sprintf("%s (%d) vs %s (%d)", f1.Name, f1.SpecialPower, f2.Name, f2.SpecialPower), LevelParagraph, false)

	switch {
	case f1.SpecialPower == f2.SpecialPower:
		e.logEntry(fmt.Sprintf("%s and %s defeat each other!", f1.Name, f2.Name), LevelParagraph, true)
		b.Team.RemoveByName(f2.Name)
		a.Team.RemoveByName(f1.Name)
	case f1.SpecialPower > f2.SpecialPower:
		e.resolveVictory(a, f1, b, f2, res)
	default:
		e.resolveVictory(b, f2, a, f1, res)
	}

	e.logEntry("Team status:", LevelParagraph, false)
	e.logEntry(fmt.Sprintf("%s: %d Pokémon", a.Player, a.Team.Size()), LevelParagraph, false)
	e.logEntry(fmt.Sprintf("%s: %d Pokémon", b.Player, b.Team.Size()), LevelParagraph, false)
}

// resolveVictory removes the loser and charges its special power to the winner,
// who may be eliminated by the cost.
func (e *Engine) resolveVictory(winSide Side, winner models.Combatant, loseSide Side, loser models.Combatant, res *Result) {
	e.logEntry(fmt.Sprintf("%s defeats %s!", winner.Name, loser.Name), LevelParagraph, false)
	damageMade, _ := loseSide.Team.RemoveByName(loser.Name)
	if damageMade > res.BiggestHit.Damage {
		res.BiggestHit = Hit{Attacker: winner.Name, Victim: loser.Name, Damage: damageMade}
	}
	dec := winSide.Team.DecreaseSpecialPower(winner.Name, damageMade)
	switch dec.Status {
	case roster.StatusEliminated:
		e.logEntry(fmt.Sprintf("%s has lost all of its special power and leaves the team!", winner.Name), LevelParagraph, true)
	case roster.StatusSurvives:
		e.logEntry(fmt.Sprintf("%s survives with %d special power remaining.", winner.Name, dec.Remaining), LevelParagraph, true)
	case roster.StatusNotFound:
		// Unreachable: the winner was just drawn from that roster.
		e.logEntry(fmt.Sprintf("%s was not found in the team.", winner.Name), LevelParagraph, true)
	}
}

// randomFighter picks a uniform entry, clears the roster's fighting flags and
// marks the pick.
func (e *Engine) randomFighter(team *roster.Roster) (models.Combatant, bool) {
	members := team.Team()
	if len(members) == 0 {
		return models.Combatant{}, false
	}
	pick := members[pickIndex(e.rng, len(members))]
	team.MarkFighting(pick.Name)
	return pick, true
}
