// Package enclosure defines the domain entity for an animal enclosure.
// This package is PURE and must NOT import any infrastructure packages.
package enclosure

import (
	"github.com/google/uuid"

	"github.com/wildsim/ozzoo/internal/domain/animal"
	"github.com/wildsim/ozzoo/internal/domain/rules"
)

// Habitat classifies an enclosure and determines which species may live in
// it.
type Habitat string

const (
	HabitatForest    Habitat = "forest"
	HabitatGrassland Habitat = "grassland"
	HabitatAviary    Habitat = "aviary"
)

// compatible maps each habitat to its allowed species set.
var compatible = map[Habitat]map[animal.Species]bool{
	HabitatForest: {
		animal.SpeciesKoala:  true,
		animal.SpeciesWombat: true,
	},
	HabitatGrassland: {
		animal.SpeciesKangaroo: true,
		animal.SpeciesEmu:      true,
		animal.SpeciesWombat:   true,
	},
	HabitatAviary: {
		animal.SpeciesWedgeTailedEagle: true,
	},
}

// Accepts reports whether the habitat can house the species.
func (h Habitat) Accepts(s animal.Species) bool {
	return compatible[h][s]
}

// Habitats returns every habitat that can house the species, in stable
// order. Used by purchase placement and the report.
func Habitats(s animal.Species) []Habitat {
	var out []Habitat
	for _, h := range []Habitat{HabitatForest, HabitatGrassland, HabitatAviary} {
		if h.Accepts(s) {
			out = append(out, h)
		}
	}
	return out
}

// Enclosure holds a bounded set of animals and degrades daily. It does not
// own the animals' lifetimes beyond containment: animals can be moved or
// sold out of it.
type Enclosure struct {
	ID           string           `json:"id"`
	Name         string           `json:"name"`
	Habitat      Habitat          `json:"habitat"`
	Capacity     int              `json:"capacity"`
	UpgradeLevel int              `json:"upgrade_level"`
	Cleanliness  float64          `json:"cleanliness"` // 0-100
	Animals      []*animal.Animal `json:"animals"`
}

// New creates an empty, spotless enclosure.
func New(name string, habitat Habitat, capacity int) *Enclosure {
	return &Enclosure{
		ID:           uuid.NewString(),
		Name:         name,
		Habitat:      habitat,
		Capacity:     capacity,
		UpgradeLevel: 1,
		Cleanliness:  100,
	}
}

// Add places an animal, enforcing capacity first and habitat compatibility
// second. A rejected add leaves the contents untouched.
func (e *Enclosure) Add(a *animal.Animal) error {
	if len(e.Animals) >= e.Capacity {
		return &rules.CapacityError{Enclosure: e.Name, Capacity: e.Capacity}
	}
	if !e.Habitat.Accepts(a.Species) {
		return &rules.IncompatibilityError{
			Detail: string(a.Species) + " cannot live in the " + e.Name + " (" + string(e.Habitat) + ")",
		}
	}
	e.Animals = append(e.Animals, a)
	return nil
}

// Remove detaches the animal with the given ID and returns it, or nil if it
// was not here.
func (e *Enclosure) Remove(animalID string) *animal.Animal {
	for i, a := range e.Animals {
		if a.ID == animalID {
			e.Animals = append(e.Animals[:i], e.Animals[i+1:]...)
			return a
		}
	}
	return nil
}

// Find returns the contained animal with the given ID, or nil.
func (e *Enclosure) Find(animalID string) *animal.Animal {
	for _, a := range e.Animals {
		if a.ID == animalID {
			return a
		}
	}
	return nil
}

// Count returns the number of contained animals.
func (e *Enclosure) Count() int {
	return len(e.Animals)
}

// Decay applies one day of soiling: perAnimal points per occupant, softened
// by upgrade level. Resistance is the fractional reduction each upgrade
// level past the first contributes.
func (e *Enclosure) Decay(perAnimal, resistance float64) {
	drop := perAnimal * float64(len(e.Animals))
	drop /= 1 + resistance*float64(e.UpgradeLevel-1)
	e.Cleanliness = rules.Clamp(e.Cleanliness-drop, 0, 100)
}

// Clean restores the enclosure to spotless.
func (e *Enclosure) Clean() {
	e.Cleanliness = 100
}

// ApplyUpgrade raises the upgrade level, expands capacity, and cheers up the
// occupants. Cost checks happen at the command boundary before this runs.
func (e *Enclosure) ApplyUpgrade() {
	e.UpgradeLevel++
	e.Capacity += 2
	for _, a := range e.Animals {
		a.SetHappiness(a.Happiness + 5)
	}
}

// AvgHappiness is the mean happiness of the occupants, with 50 standing in
// for an empty enclosure (visitors find nothing to love or hate).
func (e *Enclosure) AvgHappiness() float64 {
	if len(e.Animals) == 0 {
		return 50
	}
	var sum float64
	for _, a := range e.Animals {
		sum += a.Happiness
	}
	return sum / float64(len(e.Animals))
}
