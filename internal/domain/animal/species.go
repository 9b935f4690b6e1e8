// Package animal defines the core domain entities for zoo animals.
// This package is PURE and must NOT import any infrastructure packages
// (network, events, platform).
package animal

import (
	"strings"

	"github.com/wildsim/ozzoo/internal/domain/item"
)

// Species is the tagged variant that replaces a class hierarchy: shared
// transition logic is parameterized by the per-species Traits table below.
type Species string

const (
	SpeciesKoala            Species = "Koala"
	SpeciesKangaroo         Species = "Kangaroo"
	SpeciesWedgeTailedEagle Species = "Wedge-tailed Eagle"
	SpeciesWombat           Species = "Wombat"
	SpeciesEmu              Species = "Emu"
)

// Class groups species for habitat compatibility checks.
type Class string

const (
	ClassMarsupial Class = "Marsupial"
	ClassBird      Class = "Bird"
)

// Traits is the per-species attribute table.
type Traits struct {
	Species    Species
	Class      Class
	Diet       []item.ItemType // preference order, walked by the auto-feeder
	Price      float64         // Purchase price; resale pays a fraction of this
	OldAgeDays int             // Senescence threshold in simulation days
	Sound      string          // Flavor line for logs and reports
}

// catalog holds every species the zoo can acquire.
var catalog = map[Species]Traits{
	SpeciesKoala: {
		Species:    SpeciesKoala,
		Class:      ClassMarsupial,
		Diet:       []item.ItemType{item.FoodEucalyptus},
		Price:      400,
		OldAgeDays: 60,
		Sound:      "munch munch",
	},
	SpeciesKangaroo: {
		Species:    SpeciesKangaroo,
		Class:      ClassMarsupial,
		Diet:       []item.ItemType{item.FoodHerbivorePellets, item.FoodGeneral},
		Price:      350,
		OldAgeDays: 80,
		Sound:      "chortle",
	},
	SpeciesWedgeTailedEagle: {
		Species:    SpeciesWedgeTailedEagle,
		Class:      ClassBird,
		Diet:       []item.ItemType{item.FoodMeaty},
		Price:      500,
		OldAgeDays: 120,
		Sound:      "screech",
	},
	SpeciesWombat: {
		Species:    SpeciesWombat,
		Class:      ClassMarsupial,
		Diet:       []item.ItemType{item.FoodHerbivorePellets, item.FoodGeneral},
		Price:      320,
		OldAgeDays: 90,
		Sound:      "snuffle",
	},
	SpeciesEmu: {
		Species:    SpeciesEmu,
		Class:      ClassBird,
		Diet:       []item.ItemType{item.FoodSeeds, item.FoodGeneral},
		Price:      280,
		OldAgeDays: 70,
		Sound:      "drum drum",
	},
}

// speciesOrder fixes catalog enumeration for reports and purchase listings.
var speciesOrder = []Species{
	SpeciesKoala,
	SpeciesKangaroo,
	SpeciesWedgeTailedEagle,
	SpeciesWombat,
	SpeciesEmu,
}

// TraitsFor returns the attribute table for a species.
func TraitsFor(s Species) (Traits, bool) {
	t, ok := catalog[s]
	return t, ok
}

// Catalog returns every species' traits in stable order.
func Catalog() []Traits {
	out := make([]Traits, 0, len(speciesOrder))
	for _, s := range speciesOrder {
		out = append(out, catalog[s])
	}
	return out
}

// ParseSpecies resolves a loosely-spelled species name ("koala", "wedge
// tailed eagle", "EMU") to its canonical Species value.
func ParseSpecies(name string) (Species, bool) {
	n := strings.ToLower(strings.TrimSpace(name))
	switch {
	case strings.Contains(n, "koala"):
		return SpeciesKoala, true
	case strings.Contains(n, "kangaroo"), strings.Contains(n, "roo"):
		return SpeciesKangaroo, true
	case strings.Contains(n, "eagle"), strings.Contains(n, "wedge"):
		return SpeciesWedgeTailedEagle, true
	case strings.Contains(n, "wombat"):
		return SpeciesWombat, true
	case strings.Contains(n, "emu"):
		return SpeciesEmu, true
	default:
		return "", false
	}
}
