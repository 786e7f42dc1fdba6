// Package stats keeps in-memory battle outcome tallies. State is ephemeral by
// design and rebuilt on every process start.
package stats

import (
	"sync"
	"time"

	"pokebattle/internal/battle"
)

// Knockout is the single biggest power transfer recorded today.
type Knockout struct {
	Attacker string    `json:"attacker"`
	Victim   string    `json:"victim"`
	Damage   int       `json:"damage"`
	At       time.Time `json:"at"`
}

// Tracker tallies wins, draws and the daily top knockout. Safe for concurrent
// use.
type Tracker struct {
	mu       sync.Mutex
	wins     map[string]int
	draws    int
	battles  int
	topDay   string // YYYY-MM-DD UTC
	topKnock Knockout
}

// New returns an empty tracker.
func New() *Tracker {
	return &Tracker{wins: make(map[string]int)}
}

// RecordOutcome tallies one finished battle.
func (t *Tracker) RecordOutcome(res battle.Result) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.battles++
	if res.Draw {
		t.draws++
	} else if res.Winner != "" {
		t.wins[res.Winner]++
	}
	if res.BiggestHit.Damage > 0 {
		today := time.Now().UTC().Format("2006-01-02")
		if t.topDay != today || res.BiggestHit.Damage > t.topKnock.Damage {
			t.topDay = today
			t.topKnock = Knockout{
				Attacker: res.BiggestHit.Attacker,
				Victim:   res.BiggestHit.Victim,
				Damage:   res.BiggestHit.Damage,
				At:       time.Now().UTC(),
			}
		}
	}
}

// Wins returns the win count for a player name.
func (t *Tracker) Wins(name string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.wins[name]
}

// Summary is the serializable snapshot served by the stats endpoint.
type Summary struct {
	Battles     int            `json:"battles"`
	Draws       int            `json:"draws"`
	Wins        map[string]int `json:"wins"`
	TopKnockout *Knockout      `json:"top_knockout_today,omitempty"`
}

// Snapshot returns a copy of the current tallies.
func (t *Tracker) Snapshot() Summary {
	t.mu.Lock()
	defer t.mu.Unlock()
	s := Summary{Battles: t.battles, Draws: t.draws, Wins: make(map[string]int, len(t.wins))}
	for k, v := range t.wins {
		s.Wins[k] = v
	}
	today := time.Now().UTC().Format("2006-01-02")
	if t.topDay == today && t.topKnock.Damage > 0 {
		k := t.topKnock
		s.TopKnockout = &k
	}
	return s
}

// ResetDaily clears the daily top knockout. Intended for tests and dev
// convenience.
func (t *Tracker) ResetDaily() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.topDay = ""
	t.topKnock = Knockout{}
}
