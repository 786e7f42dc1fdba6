package models

import "fmt"

// ========================= Domain Models =========================
// Minimal shapes for gameplay. The catalog document is mapped into this.

// Category is the creature category carried as data on a Combatant.
type Category string

const (
	CategoryGrass    Category = "Grass"
	CategoryFire     Category = "Fire"
	CategoryWater    Category = "Water"
	CategoryElectric Category = "Electric"
	CategoryBug      Category = "Bug"
	CategoryNormal   Category = "Normal"
	CategoryPoison   Category = "Poison"
	CategoryPsychic  Category = "Psychic"
	CategoryGround   Category = "Ground"
	CategoryFairy    Category = "Fairy"
	CategoryRock     Category = "Rock"
	CategoryIce      Category = "Ice"
	CategoryDragon   Category = "Dragon"
	CategoryDark     Category = "Dark"
	CategorySteel    Category = "Steel"
	CategoryGhost    Category = "Ghost"
	CategoryFighting Category = "Fighting"
	CategoryFlying   Category = "Flying"
)

// Categories lists every known creature category.
var Categories = []Category{
	CategoryGrass, CategoryFire, CategoryWater, CategoryElectric,
	CategoryBug, CategoryNormal, CategoryPoison, CategoryPsychic,
	CategoryGround, CategoryFairy, CategoryRock, CategoryIce,
	CategoryDragon, CategoryDark, CategorySteel, CategoryGhost,
	CategoryFighting, CategoryFlying,
}

var categorySet = func() map[Category]bool {
	m := make(map[Category]bool, len(Categories))
	for _, c := range Categories {
		m[c] = true
	}
	return m
}()

// CategoryFromClassTag maps a record class tag to a Category. Both the bare
// category name ("Fire") and the legacy class name ("FirePokemon") are accepted.
func CategoryFromClassTag(tag string) (Category, bool) {
	c := Category(tag)
	if categorySet[c] {
		return c, true
	}
	if n := len(tag); n > len("Pokemon") && tag[n-len("Pokemon"):] == "Pokemon" {
		c = Category(tag[:n-len("Pokemon")])
		if categorySet[c] {
			return c, true
		}
	}
	return "", false
}

// Record is one raw entry of the catalog source document.
type Record struct {
	Name         string `json:"name"`
	Points       int    `json:"points"`
	SpecialPower int    `json:"special_power"`
	Type         string `json:"type,omitempty"`
	ClassType    string `json:"class_type"`
}

// Combatant is one creature instance. ID, Name, Sprite, Points and Category are
// fixed at load; SpecialPower and Fighting mutate during a battle. Rosters hold
// independent copies, so battle never dirties the catalog's own entries.
type Combatant struct {
	ID           int      `json:"id"`
	Name         string   `json:"name"`
	Sprite       string   `json:"sprite"`
	Points       int      `json:"points"`
	SpecialPower int      `json:"special_power"`
	Category     Category `json:"category"`
	Fighting     bool     `json:"fighting"`
}

// Details returns the one-line display text for team listings.
func (c Combatant) Details() string {
	return fmt.Sprintf("%s (ID: %d) - Points: %d", c.Name, c.ID, c.Points)
}

// WebSocket message structure
type WsMsg struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}
