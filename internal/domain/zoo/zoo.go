// Package zoo defines the aggregate root that owns all simulation state:
// enclosures, the ledger, the supply inventory, the day counter, and the
// latest visitor aggregate.
// This package is PURE and must NOT import any infrastructure packages.
package zoo

import (
	"strings"

	"github.com/wildsim/ozzoo/internal/domain/animal"
	"github.com/wildsim/ozzoo/internal/domain/enclosure"
	"github.com/wildsim/ozzoo/internal/domain/finance"
	"github.com/wildsim/ozzoo/internal/domain/item"
)

// VisitorDay is the daily visitor aggregate: a summary, not persisted
// individuals.
type VisitorDay struct {
	Day          int     `json:"day"`
	Count        int     `json:"count"`
	TicketIncome float64 `json:"ticket_income"`
	Spending     float64 `json:"spending"`     // Stall takings on top of tickets
	Satisfaction float64 `json:"satisfaction"` // Average over the day's crowd
}

// Zoo is the single aggregate instance for the process lifetime. There is
// no persistence across runs.
type Zoo struct {
	Name       string                 `json:"name"`
	Day        int                    `json:"day"`
	Enclosures []*enclosure.Enclosure `json:"enclosures"`
	Ledger     *finance.Ledger        `json:"-"`
	Stock      map[item.ItemType]int  `json:"stock"`
	Visitors   VisitorDay             `json:"visitors"`
}

// New creates an empty zoo around the one ledger instance.
func New(name string, ledger *finance.Ledger) *Zoo {
	return &Zoo{
		Name:   name,
		Day:    1,
		Ledger: ledger,
		Stock:  make(map[item.ItemType]int),
	}
}

// AddEnclosure registers a new enclosure.
func (z *Zoo) AddEnclosure(e *enclosure.Enclosure) {
	z.Enclosures = append(z.Enclosures, e)
}

// FindEnclosure resolves an enclosure by ID, or by case-insensitive name as
// a convenience for hand-typed commands.
func (z *Zoo) FindEnclosure(ref string) *enclosure.Enclosure {
	for _, e := range z.Enclosures {
		if e.ID == ref {
			return e
		}
	}
	for _, e := range z.Enclosures {
		if strings.EqualFold(e.Name, ref) {
			return e
		}
	}
	return nil
}

// FindAnimal locates a living animal and its enclosure by animal ID or
// case-insensitive name. Names can collide; IDs win.
func (z *Zoo) FindAnimal(ref string) (*animal.Animal, *enclosure.Enclosure) {
	for _, e := range z.Enclosures {
		if a := e.Find(ref); a != nil {
			return a, e
		}
	}
	for _, e := range z.Enclosures {
		for _, a := range e.Animals {
			if strings.EqualFold(a.Name, ref) {
				return a, e
			}
		}
	}
	return nil, nil
}

// RemoveAnimal detaches an animal from whichever enclosure holds it.
func (z *Zoo) RemoveAnimal(animalID string) (*animal.Animal, *enclosure.Enclosure) {
	for _, e := range z.Enclosures {
		if a := e.Remove(animalID); a != nil {
			return a, e
		}
	}
	return nil, nil
}

// Animals returns every contained animal in enclosure order.
func (z *Zoo) Animals() []*animal.Animal {
	var out []*animal.Animal
	for _, e := range z.Enclosures {
		out = append(out, e.Animals...)
	}
	return out
}

// AnimalCount returns the number of contained animals.
func (z *Zoo) AnimalCount() int {
	n := 0
	for _, e := range z.Enclosures {
		n += e.Count()
	}
	return n
}

// SpeciesCount returns the number of distinct species on show. Drives the
// attractiveness score.
func (z *Zoo) SpeciesCount() int {
	seen := make(map[animal.Species]bool)
	for _, e := range z.Enclosures {
		for _, a := range e.Animals {
			seen[a.Species] = true
		}
	}
	return len(seen)
}

// AvgCleanliness is the mean cleanliness over all enclosures, or 100 for a
// zoo with no enclosures at all.
func (z *Zoo) AvgCleanliness() float64 {
	if len(z.Enclosures) == 0 {
		return 100
	}
	var sum float64
	for _, e := range z.Enclosures {
		sum += e.Cleanliness
	}
	return sum / float64(len(z.Enclosures))
}

// AvgHappiness is the mean happiness over all animals, with 50 standing in
// for an animal-free zoo.
func (z *Zoo) AvgHappiness() float64 {
	animals := z.Animals()
	if len(animals) == 0 {
		return 50
	}
	var sum float64
	for _, a := range animals {
		sum += a.Happiness
	}
	return sum / float64(len(animals))
}

// StockOf returns the on-hand quantity of a supply type.
func (z *Zoo) StockOf(t item.ItemType) int {
	return z.Stock[t]
}

// AddStock books purchased supplies into the inventory.
func (z *Zoo) AddStock(t item.ItemType, qty int) {
	z.Stock[t] += qty
}

// ConsumeStock removes qty units if available and reports whether it did.
func (z *Zoo) ConsumeStock(t item.ItemType, qty int) bool {
	if z.Stock[t] < qty {
		return false
	}
	z.Stock[t] -= qty
	return true
}
