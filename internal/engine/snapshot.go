package engine

import (
	"github.com/wildsim/ozzoo/internal/domain/animal"
	"github.com/wildsim/ozzoo/internal/domain/enclosure"
	"github.com/wildsim/ozzoo/internal/domain/finance"
	"github.com/wildsim/ozzoo/internal/domain/item"
	"github.com/wildsim/ozzoo/internal/domain/zoo"
	"github.com/wildsim/ozzoo/internal/events"
)

// AnimalView is a detached copy of one animal's state, safe to hand across
// goroutines and serialize.
type AnimalView struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Species   string  `json:"species"`
	Sex       string  `json:"sex"`
	AgeDays   int     `json:"age_days"`
	Hunger    float64 `json:"hunger"`
	Health    float64 `json:"health"`
	Happiness float64 `json:"happiness"`
	Alive     bool    `json:"alive"`
}

// EnclosureView is a detached copy of one enclosure and its occupants.
type EnclosureView struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Habitat      string       `json:"habitat"`
	Capacity     int          `json:"capacity"`
	UpgradeLevel int          `json:"upgrade_level"`
	Cleanliness  float64      `json:"cleanliness"`
	Animals      []AnimalView `json:"animals"`
}

// ZooSnapshot is the full public state of the zoo at one moment.
type ZooSnapshot struct {
	Name           string                `json:"name"`
	Day            int                   `json:"day"`
	Mode           string                `json:"mode"`
	Balance        float64               `json:"balance"`
	Enclosures     []EnclosureView       `json:"enclosures"`
	Stock          map[item.ItemType]int `json:"stock"`
	Visitors       zoo.VisitorDay        `json:"visitors"`
	AnimalCount    int                   `json:"animal_count"`
	SpeciesCount   int                   `json:"species_count"`
	AvgHappiness   float64               `json:"avg_happiness"`
	AvgCleanliness float64               `json:"avg_cleanliness"`
}

// ReportData bundles everything a report renderer needs. Rendering happens
// outside the engine goroutine.
type ReportData struct {
	Snapshot ZooSnapshot           `json:"snapshot"`
	History  []finance.Transaction `json:"history"`
	Events   []events.GameEvent    `json:"events"`
}

// DaySummary is the settlement record for one simulated day.
type DaySummary struct {
	Day            int     `json:"day"`
	Balance        float64 `json:"balance"`
	Net            float64 `json:"net"`
	Animals        int     `json:"animals"`
	Deaths         int     `json:"deaths"`
	Visitors       int     `json:"visitors"`
	Satisfaction   float64 `json:"satisfaction"`
	AvgHappiness   float64 `json:"avg_happiness"`
	AvgCleanliness float64 `json:"avg_cleanliness"`
	Incident       string  `json:"incident,omitempty"`
}

func viewAnimal(a *animal.Animal) AnimalView {
	return AnimalView{
		ID:        a.ID,
		Name:      a.Name,
		Species:   string(a.Species),
		Sex:       string(a.Sex),
		AgeDays:   a.AgeDays,
		Hunger:    a.Hunger,
		Health:    a.Health,
		Happiness: a.Happiness,
		Alive:     a.Alive,
	}
}

func viewEnclosure(e *enclosure.Enclosure) EnclosureView {
	v := EnclosureView{
		ID:           e.ID,
		Name:         e.Name,
		Habitat:      string(e.Habitat),
		Capacity:     e.Capacity,
		UpgradeLevel: e.UpgradeLevel,
		Cleanliness:  e.Cleanliness,
		Animals:      make([]AnimalView, 0, len(e.Animals)),
	}
	for _, a := range e.Animals {
		v.Animals = append(v.Animals, viewAnimal(a))
	}
	return v
}

// snapshotZoo copies the zoo's public state into a detached snapshot.
func snapshotZoo(z *zoo.Zoo, mode string) ZooSnapshot {
	s := ZooSnapshot{
		Name:           z.Name,
		Day:            z.Day,
		Mode:           mode,
		Balance:        z.Ledger.Balance(),
		Enclosures:     make([]EnclosureView, 0, len(z.Enclosures)),
		Stock:          make(map[item.ItemType]int, len(z.Stock)),
		Visitors:       z.Visitors,
		AnimalCount:    z.AnimalCount(),
		SpeciesCount:   z.SpeciesCount(),
		AvgHappiness:   z.AvgHappiness(),
		AvgCleanliness: z.AvgCleanliness(),
	}
	for _, e := range z.Enclosures {
		s.Enclosures = append(s.Enclosures, viewEnclosure(e))
	}
	for t, qty := range z.Stock {
		s.Stock[t] = qty
	}
	return s
}
