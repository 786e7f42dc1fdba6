package battle

import (
	"context"
	"fmt"
	"math/rand"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pokebattle/internal/models"
	"pokebattle/internal/roster"
)

func mkRoster(t *testing.T, members ...models.Combatant) *roster.Roster {
	t.Helper()
	r := roster.New(10000, len(members)+1)
	for _, m := range members {
		require.True(t, r.Add(m))
	}
	return r
}

func seededEngine(seed int64) *Engine {
	return New(zerolog.Nop(), WithRand(rand.New(rand.NewSource(seed))))
}

func logMessages(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Message
	}
	return out
}

func TestMutualDefeat(t *testing.T) {
	a := mkRoster(t, models.Combatant{ID: 1, Name: "Pikachu", SpecialPower: 10})
	b := mkRoster(t, models.Combatant{ID: 2, Name: "Onix", SpecialPower: 10})
	eng := seededEngine(1)

	res, err := eng.Run(context.Background(), Side{Player: "Ash", Team: a}, Side{Player: "Brock", Team: b})
	require.NoError(t, err)

	assert.True(t, res.Draw)
	assert.Empty(t, res.Winner)
	assert.Equal(t, 1, res.Rounds)
	assert.Equal(t, 0, a.Size())
	assert.Equal(t, 0, b.Size())
	assert.Contains(t, logMessages(eng.Entries()), "Pikachu and Onix defeat each other!")
	assert.Equal(t, StateFinished, eng.State())
}

func TestWinnerPaysLosersPower(t *testing.T) {
	a := mkRoster(t, models.Combatant{ID: 1, Name: "Pikachu", SpecialPower: 10})
	b := mkRoster(t, models.Combatant{ID: 2, Name: "Onix", SpecialPower: 6})
	eng := seededEngine(1)

	res, err := eng.Run(context.Background(), Side{Player: "Ash", Team: a}, Side{Player: "Brock", Team: b})
	require.NoError(t, err)

	assert.False(t, res.Draw)
	assert.Equal(t, "Ash", res.Winner)
	assert.Equal(t, 0, b.Size())
	require.Equal(t, 1, a.Size())
	assert.Equal(t, 4, a.Team()[0].SpecialPower)
	assert.Equal(t, Hit{Attacker: "Pikachu", Victim: "Onix", Damage: 6}, res.BiggestHit)

	msgs := logMessages(eng.Entries())
	assert.Contains(t, msgs, "Pikachu defeats Onix!")
	assert.Contains(t, msgs, "Pikachu survives with 4 special power remaining.")
	assert.Contains(t, msgs, "The battle is over! Ash wins!")
}

func TestVictoryCostCarriesAcrossRounds(t *testing.T) {
	a := mkRoster(t, models.Combatant{ID: 1, Name: "Mew", SpecialPower: 12})
	b := mkRoster(t, models.Combatant{ID: 2, Name: "Ditto", SpecialPower: 6},
		models.Combatant{ID: 3, Name: "Onix", SpecialPower: 6})
	eng := seededEngine(7)

	res, err := eng.Run(context.Background(), Side{Player: "Ash", Team: a}, Side{Player: "Brock", Team: b})
	require.NoError(t, err)

	// Mew beats the first 6-power defender and pays 6, dropping to 6; the
	// second round is then a mutual defeat that empties both teams.
	assert.True(t, res.Draw)
	assert.Equal(t, 2, res.Rounds)
	msgs := logMessages(eng.Entries())
	assert.Contains(t, msgs, "Mew survives with 6 special power remaining.")
	assert.True(t,
		contains(msgs, "Mew and Ditto defeat each other!") || contains(msgs, "Mew and Onix defeat each other!"))
}

func contains(list []string, want string) bool {
	for _, s := range list {
		if s == want {
			return true
		}
	}
	return false
}

func TestTerminationBound(t *testing.T) {
	for seed := int64(0); seed < 20; seed++ {
		t.Run(fmt.Sprintf("seed_%d", seed), func(t *testing.T) {
			rng := rand.New(rand.NewSource(seed))
			mk := func(idBase, n int) *roster.Roster {
				r := roster.New(10000, n)
				for i := 0; i < n; i++ {
					r.Add(models.Combatant{
						ID:           idBase + i,
						Name:         fmt.Sprintf("p%d", idBase+i),
						SpecialPower: 1 + rng.Intn(30),
					})
				}
				return r
			}
			a, b := mk(1, 4), mk(100, 3)
			eng := seededEngine(seed)

			res, err := eng.Run(context.Background(), Side{Player: "A", Team: a}, Side{Player: "B", Team: b})
			require.NoError(t, err)
			assert.LessOrEqual(t, res.Rounds, 7)
			assert.True(t, a.Size() == 0 || b.Size() == 0)
			assert.Equal(t, StateFinished, eng.State())
		})
	}
}

func TestCancellationAtRoundBoundary(t *testing.T) {
	a := mkRoster(t, models.Combatant{ID: 1, Name: "Pikachu", SpecialPower: 10})
	b := mkRoster(t, models.Combatant{ID: 2, Name: "Onix", SpecialPower: 6})
	eng := seededEngine(1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := eng.Run(ctx, Side{Player: "Ash", Team: a}, Side{Player: "Brock", Team: b})

	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, res.Rounds)
	// No round resolved: both rosters untouched.
	assert.Equal(t, 1, a.Size())
	assert.Equal(t, 1, b.Size())
	assert.Contains(t, logMessages(eng.Entries()), "The battle was aborted.")
}

func TestLogClearedOnStart(t *testing.T) {
	a := mkRoster(t, models.Combatant{ID: 1, Name: "Pikachu", SpecialPower: 10})
	b := mkRoster(t, models.Combatant{ID: 2, Name: "Onix", SpecialPower: 10})
	eng := seededEngine(1)

	_, err := eng.Run(context.Background(), Side{Player: "Ash", Team: a}, Side{Player: "Brock", Team: b})
	require.NoError(t, err)
	first := len(eng.Entries())
	require.Greater(t, first, 0)

	// A rematch with fresh rosters starts from an empty log.
	a2 := mkRoster(t, models.Combatant{ID: 1, Name: "Pikachu", SpecialPower: 10})
	b2 := mkRoster(t, models.Combatant{ID: 2, Name: "Onix", SpecialPower: 10})
	_, err = eng.Run(context.Background(), Side{Player: "Ash", Team: a2}, Side{Player: "Brock", Team: b2})
	require.NoError(t, err)
	assert.Equal(t, first, len(eng.Entries()))
	assert.Equal(t, "The battle begins!", eng.Entries()[0].Message)
	assert.Equal(t, LevelHeading, eng.Entries()[0].Level)
}

func TestObserverSeesEveryEntry(t *testing.T) {
	a := mkRoster(t, models.Combatant{ID: 1, Name: "Pikachu", SpecialPower: 10})
	b := mkRoster(t, models.Combatant{ID: 2, Name: "Onix", SpecialPower: 6})

	var streamed []Entry
	eng := New(zerolog.Nop(),
		WithRand(rand.New(rand.NewSource(1))),
		WithObserver(func(e Entry) { streamed = append(streamed, e) }),
	)
	_, err := eng.Run(context.Background(), Side{Player: "Ash", Team: a}, Side{Player: "Brock", Team: b})
	require.NoError(t, err)
	assert.Equal(t, eng.Entries(), streamed)
}

func TestFightersAreFlagged(t *testing.T) {
	a := mkRoster(t,
		models.Combatant{ID: 1, Name: "Pikachu", SpecialPower: 10},
		models.Combatant{ID: 2, Name: "Mew", SpecialPower: 99})
	b := mkRoster(t, models.Combatant{ID: 3, Name: "Onix", SpecialPower: 6})
	eng := seededEngine(3)

	_, err := eng.Run(context.Background(), Side{Player: "Ash", Team: a}, Side{Player: "Brock", Team: b})
	require.NoError(t, err)

	// The last fighter on the surviving side keeps its flag for display.
	f, ok := a.Fighter()
	require.True(t, ok)
	assert.True(t, f.Fighting)
}
