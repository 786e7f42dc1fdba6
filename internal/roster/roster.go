// Package roster holds one player's selected team under a credit budget and a
// size cap. It keeps three invariants at all times: size never exceeds the cap,
// credits never go negative (credits + cost of every selected entry equals the
// initial allotment), and no two entries share a name.
package roster

import (
	"strings"

	"pokebattle/internal/models"
)

// Status classifies the outcome of DecreaseSpecialPower.
type Status int

const (
	// StatusNotFound means no entry with that name exists. Recoverable.
	StatusNotFound Status = iota
	// StatusEliminated means the entry dropped to zero or below and was
	// removed without a credit refund.
	StatusEliminated
	// StatusSurvives means the entry lost power but stays on the team.
	StatusSurvives
)

// DecreaseResult reports what happened to the named entry.
type DecreaseResult struct {
	Status    Status
	Remaining int
}

// Roster is a single player's team. It stores independent Combatant copies, so
// mutating an entry here never touches the catalog or the other player.
// Not safe for concurrent use; callers serialize access.
type Roster struct {
	selected  []models.Combatant
	credits   int
	allotment int
	maxSize   int
}

// New returns an empty roster with the full credit allotment.
func New(credits, maxSize int) *Roster {
	return &Roster{credits: credits, allotment: credits, maxSize: maxSize}
}

// Add appends a copy of c and debits its cost. It rejects atomically, with no
// state change, when the roster is full, credits are insufficient, or an entry
// with the same name is already selected.
func (r *Roster) Add(c models.Combatant) bool {
	if len(r.selected) >= r.maxSize {
		return false
	}
	if r.credits < c.Points {
		return false
	}
	if r.indexOf(c.Name) >= 0 {
		return false
	}
	c.Fighting = false
	r.selected = append(r.selected, c)
	r.credits -= c.Points
	return true
}

// RemoveByName removes the named entry, refunds its cost, and returns its
// special power (the "damage carried" the battle engine transfers to a
// victor). An absent name returns ok=false and changes nothing.
func (r *Roster) RemoveByName(name string) (damage int, ok bool) {
	i := r.indexOf(name)
	if i < 0 {
		return 0, false
	}
	damage = r.selected[i].SpecialPower
	r.credits += r.selected[i].Points
	r.selected = append(r.selected[:i], r.selected[i+1:]...)
	return damage, true
}

// DecreaseSpecialPower subtracts amount from the named entry. At zero or below
// the entry is removed as a battle death: no credit refund.
func (r *Roster) DecreaseSpecialPower(name string, amount int) DecreaseResult {
	i := r.indexOf(name)
	if i < 0 {
		return DecreaseResult{Status: StatusNotFound}
	}
	r.selected[i].SpecialPower -= amount
	if r.selected[i].SpecialPower <= 0 {
		r.selected = append(r.selected[:i], r.selected[i+1:]...)
		return DecreaseResult{Status: StatusEliminated}
	}
	return DecreaseResult{Status: StatusSurvives, Remaining: r.selected[i].SpecialPower}
}

// MarkFighting flags the named entry as the one currently fighting, clearing
// every other flag first so at most one entry carries it.
func (r *Roster) MarkFighting(name string) bool {
	i := r.indexOf(name)
	if i < 0 {
		return false
	}
	r.ClearFighting()
	r.selected[i].Fighting = true
	return true
}

// ClearFighting clears the fighting flag on every entry.
func (r *Roster) ClearFighting() {
	for i := range r.selected {
		r.selected[i].Fighting = false
	}
}

// Fighter returns a copy of the currently flagged entry, if any.
func (r *Roster) Fighter() (models.Combatant, bool) {
	for _, c := range r.selected {
		if c.Fighting {
			return c, true
		}
	}
	return models.Combatant{}, false
}

// Size returns the number of selected entries.
func (r *Roster) Size() int { return len(r.selected) }

// Credits returns the remaining credit balance.
func (r *Roster) Credits() int { return r.credits }

// MaxSize returns the team size cap.
func (r *Roster) MaxSize() int { return r.maxSize }

// Full reports whether the roster is at its size cap.
func (r *Roster) Full() bool { return len(r.selected) >= r.maxSize }

// Team returns an independent copy of the selection, in selection order.
func (r *Roster) Team() []models.Combatant {
	out := make([]models.Combatant, len(r.selected))
	copy(out, r.selected)
	return out
}

// Details returns the team as display text, one entry per line.
func (r *Roster) Details() string {
	lines := make([]string, len(r.selected))
	for i, c := range r.selected {
		lines[i] = c.Details()
	}
	return strings.Join(lines, "\n")
}

// Reset empties the roster and restores the full credit allotment.
func (r *Roster) Reset() {
	r.selected = r.selected[:0]
	r.credits = r.allotment
}

func (r *Roster) indexOf(name string) int {
	for i, c := range r.selected {
		if c.Name == name {
			return i
		}
	}
	return -1
}
