package catalog

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pokebattle/internal/models"
)

func testRecords() []models.Record {
	return []models.Record{
		{Name: "Pikachu", Points: 50, SpecialPower: 40, ClassType: "ElectricPokemon"},
		{Name: "Charmander", Points: 60, SpecialPower: 35, ClassType: "FirePokemon"},
		{Name: "Bulbasaur", Points: 45, SpecialPower: 30, ClassType: "GrassPokemon"},
		{Name: "Squirtle", Points: 45, SpecialPower: 30, ClassType: "WaterPokemon"},
		{Name: "Onix", Points: 30, SpecialPower: 20, ClassType: "RockPokemon"},
	}
}

func testResolver() StaticResolver {
	return StaticResolver{"default": "default.png", "pikachu": "pikachu.png"}
}

func newTestCatalog(t *testing.T) *Catalog {
	t.Helper()
	c := New(testResolver(), zerolog.Nop())
	require.NoError(t, c.Load(testRecords()))
	return c
}

func names(list []models.Combatant) []string {
	out := make([]string, len(list))
	for i, c := range list {
		out[i] = c.Name
	}
	return out
}

func TestLoad(t *testing.T) {
	c := newTestCatalog(t)
	assert.True(t, c.Loaded())
	assert.Equal(t, 5, c.Len())

	list := c.List()
	// IDs follow 1-based input order.
	for i, cb := range list {
		assert.Equal(t, i+1, cb.ID)
	}
	assert.Equal(t, "pikachu.png", list[0].Sprite)
	// Names without a sprite resolve to the default reference.
	assert.Equal(t, "default.png", list[1].Sprite)
	assert.Equal(t, models.CategoryFire, list[1].Category)
}

func TestLoadFailures(t *testing.T) {
	tests := []struct {
		name    string
		records []models.Record
		wantErr error
	}{
		{
			name: "unknown class tag",
			records: []models.Record{
				{Name: "Pikachu", Points: 50, SpecialPower: 40, ClassType: "ElectricPokemon"},
				{Name: "MissingNo", Points: 10, SpecialPower: 10, ClassType: "GlitchPokemon"},
			},
			wantErr: ErrUnknownClassTag,
		},
		{
			name: "duplicate name",
			records: []models.Record{
				{Name: "Pikachu", Points: 50, SpecialPower: 40, ClassType: "ElectricPokemon"},
				{Name: "Pikachu", Points: 50, SpecialPower: 40, ClassType: "ElectricPokemon"},
			},
			wantErr: ErrDuplicateName,
		},
		{
			name:    "missing name",
			records: []models.Record{{Points: 50, SpecialPower: 40, ClassType: "ElectricPokemon"}},
			wantErr: ErrBadRecord,
		},
		{
			name:    "negative points",
			records: []models.Record{{Name: "Pikachu", Points: -1, SpecialPower: 40, ClassType: "ElectricPokemon"}},
			wantErr: ErrBadRecord,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(testResolver(), zerolog.Nop())
			err := c.Load(tt.records)
			require.ErrorIs(t, err, tt.wantErr)
			// Fail-fast: no partial catalog survives.
			assert.False(t, c.Loaded())
			assert.Equal(t, 0, c.Len())
		})
	}
}

func TestByName(t *testing.T) {
	c := newTestCatalog(t)
	got, ok := c.ByName("Bulbasaur")
	require.True(t, ok)
	assert.Equal(t, 3, got.ID)

	_, ok = c.ByName("MissingNo")
	assert.False(t, ok)
}

func TestListIsSnapshot(t *testing.T) {
	c := newTestCatalog(t)
	list := c.List()
	list[0].Name = "Hacked"
	list[0].SpecialPower = 9999

	again := c.List()
	assert.Equal(t, "Pikachu", again[0].Name)
	assert.Equal(t, 40, again[0].SpecialPower)
}

func TestSortValidation(t *testing.T) {
	c := newTestCatalog(t)
	before := names(c.List())

	err := c.Sort("bogus", "bubble")
	require.ErrorIs(t, err, ErrInvalidCriterion)
	assert.Equal(t, before, names(c.List()))

	err = c.Sort("name", "quicksort")
	require.ErrorIs(t, err, ErrInvalidAlgorithm)
	assert.Equal(t, before, names(c.List()))
}

func TestSortNotLoadedOrEmpty(t *testing.T) {
	c := New(testResolver(), zerolog.Nop())
	assert.ErrorIs(t, c.Sort("name", "bubble"), ErrNotLoaded)

	require.NoError(t, c.Load(nil))
	assert.ErrorIs(t, c.Sort("name", "bubble"), ErrEmpty)
}

func TestSortCrossAlgorithmEquivalence(t *testing.T) {
	criteria := []string{"name", "points", "category"}
	algorithms := []string{"bubble", "insertion", "selection"}
	for _, crit := range criteria {
		t.Run(crit, func(t *testing.T) {
			var results [][]string
			for _, algo := range algorithms {
				c := newTestCatalog(t)
				require.NoError(t, c.Sort(crit, algo))
				results = append(results, names(c.List()))
			}
			assert.Equal(t, results[0], results[1])
			assert.Equal(t, results[0], results[2])
		})
	}
}

func TestSortOrderings(t *testing.T) {
	c := newTestCatalog(t)
	require.NoError(t, c.Sort("name", "insertion"))
	assert.Equal(t, []string{"Bulbasaur", "Charmander", "Onix", "Pikachu", "Squirtle"}, names(c.List()))

	require.NoError(t, c.Sort("points", "selection"))
	got := c.List()
	for i := 1; i < len(got); i++ {
		assert.LessOrEqual(t, got[i-1].Points, got[i].Points)
	}

	require.NoError(t, c.Sort("category", "bubble"))
	got = c.List()
	for i := 1; i < len(got); i++ {
		assert.LessOrEqual(t, string(got[i-1].Category), string(got[i].Category))
	}
}

func TestSortIdempotence(t *testing.T) {
	c := newTestCatalog(t)
	require.NoError(t, c.Sort("points", "bubble"))
	once := names(c.List())
	require.NoError(t, c.Sort("points", "bubble"))
	assert.Equal(t, once, names(c.List()))
}

func TestSortAliases(t *testing.T) {
	a := newTestCatalog(t)
	b := newTestCatalog(t)
	require.NoError(t, a.Sort("points", "bubble"))
	require.NoError(t, b.Sort("cost", "bubble"))
	assert.Equal(t, names(a.List()), names(b.List()))

	require.NoError(t, a.Sort("category", "bubble"))
	require.NoError(t, b.Sort("type", "bubble"))
	assert.Equal(t, names(a.List()), names(b.List()))
}
