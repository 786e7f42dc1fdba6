// Package catalog owns the master, load-once list of all available combatants.
// It supports lookup by name, an independent snapshot listing, and in-place
// re-sorting by three criteria with three separately implemented algorithms.
package catalog

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"pokebattle/internal/models"
)

var (
	// ErrNotLoaded is returned when sorting a catalog that never loaded.
	ErrNotLoaded = errors.New("catalog: not loaded")
	// ErrEmpty is returned when sorting a catalog with no entries.
	ErrEmpty = errors.New("catalog: empty")
	// ErrInvalidCriterion is returned for an unknown sort criterion.
	ErrInvalidCriterion = errors.New("catalog: invalid sort criterion")
	// ErrInvalidAlgorithm is returned for an unknown sort algorithm.
	ErrInvalidAlgorithm = errors.New("catalog: invalid sort algorithm")
	// ErrUnknownClassTag aborts a load when a record's class tag matches no
	// known category.
	ErrUnknownClassTag = errors.New("catalog: unknown class tag")
	// ErrDuplicateName aborts a load containing two records with one name.
	ErrDuplicateName = errors.New("catalog: duplicate name")
	// ErrBadRecord aborts a load on a malformed record.
	ErrBadRecord = errors.New("catalog: bad record")
)

// Catalog is the load-once creature list. It is not safe for concurrent
// mutation; the serving layer upholds the single-caller discipline.
type Catalog struct {
	combatants []models.Combatant
	loaded     bool
	sprites    SpriteResolver
	log        zerolog.Logger
}

// New returns an empty, unloaded catalog resolving sprites through res.
func New(res SpriteResolver, log zerolog.Logger) *Catalog {
	return &Catalog{sprites: res, log: log.With().Str("component", "catalog").Logger()}
}

// Load builds one Combatant per record in input order (ID = 1-based index).
// Any schema violation fails the whole load: the catalog stays unloaded and
// keeps no partial state.
func (c *Catalog) Load(records []models.Record) error {
	built := make([]models.Combatant, 0, len(records))
	seen := make(map[string]bool, len(records))
	for i, rec := range records {
		if rec.Name == "" {
			return fmt.Errorf("%w: record %d has no name", ErrBadRecord, i+1)
		}
		if rec.Points < 0 {
			return fmt.Errorf("%w: %s has negative points", ErrBadRecord, rec.Name)
		}
		if seen[rec.Name] {
			return fmt.Errorf("%w: %s", ErrDuplicateName, rec.Name)
		}
		seen[rec.Name] = true
		cat, ok := models.CategoryFromClassTag(rec.ClassType)
		if !ok {
			return fmt.Errorf("%w: %q (record %s)", ErrUnknownClassTag, rec.ClassType, rec.Name)
		}
		built = append(built, models.Combatant{
			ID:           i + 1,
			Name:         rec.Name,
			Sprite:       c.sprites.Resolve(SpriteName(rec.Name)),
			Points:       rec.Points,
			SpecialPower: rec.SpecialPower,
			Category:     cat,
		})
	}
	c.combatants = built
	c.loaded = true
	c.log.Info().Int("count", len(built)).Msg("catalog loaded")
	return nil
}

// Loaded reports whether a load has completed successfully.
func (c *Catalog) Loaded() bool { return c.loaded }

// Len returns the number of entries.
func (c *Catalog) Len() int { return len(c.combatants) }

// ByName returns a copy of the first exact name match. The second return is
// false when no entry matches; that is a normal outcome, not a fault.
func (c *Catalog) ByName(name string) (models.Combatant, bool) {
	for _, cb := range c.combatants {
		if cb.Name == name {
			return cb, true
		}
	}
	return models.Combatant{}, false
}

// List returns an independent snapshot in current order. Callers can mutate
// the returned slice freely without corrupting the catalog.
func (c *Catalog) List() []models.Combatant {
	out := make([]models.Combatant, len(c.combatants))
	copy(out, c.combatants)
	return out
}

// Sort reorders the catalog in place. Criterion is one of name, points or
// category ("cost" and "type" are accepted as aliases); algorithm is one of
// bubble, insertion or selection. Invalid arguments leave the order untouched.
func (c *Catalog) Sort(criterion, algorithm string) error {
	if !c.loaded {
		return ErrNotLoaded
	}
	if len(c.combatants) == 0 {
		return ErrEmpty
	}
	var less lessFunc
	switch criterion {
	case "name":
		less = lessByName
	case "points", "cost":
		less = lessByPoints
	case "category", "type":
		less = lessByCategory
	default:
		return fmt.Errorf("%w: %q", ErrInvalidCriterion, criterion)
	}
	switch algorithm {
	case "bubble":
		bubbleSort(c.combatants, less)
	case "insertion":
		insertionSort(c.combatants, less)
	case "selection":
		selectionSort(c.combatants, less)
	default:
		return fmt.Errorf("%w: %q", ErrInvalidAlgorithm, algorithm)
	}
	c.log.Debug().Str("criterion", criterion).Str("algorithm", algorithm).Msg("catalog sorted")
	return nil
}
