package animal

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/wildsim/ozzoo/internal/domain/item"
	"github.com/wildsim/ozzoo/internal/domain/rules"
)

// Sex determines breeding roles. Every pair needs one of each.
type Sex string

const (
	SexFemale Sex = "F"
	SexMale   Sex = "M"
)

// Animal represents one resident of the zoo.
//
// All vitals live in [0,100]. Hunger runs upward: 0 is sated, 100 is
// starving. Health hitting 0 flips Alive and the animal is removed from its
// enclosure by the husbandry pass; a dead animal is never ticked again.
type Animal struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Species Species `json:"species"`
	Sex     Sex     `json:"sex"`
	AgeDays int     `json:"age_days"`

	// Vitals
	Hunger    float64 `json:"hunger"`    // 0-100 (100 = starving)
	Health    float64 `json:"health"`    // 0-100 (0 = dead)
	Happiness float64 `json:"happiness"` // 0-100

	Alive bool `json:"alive"`
}

// New creates an animal of the given species. An empty name gets a
// species-tagged default. Unknown species are rejected with InvalidAction:
// the factory is the only constructor, keyed on the species catalog.
func New(species Species, name string, sex Sex) (*Animal, error) {
	if _, ok := TraitsFor(species); !ok {
		return nil, &rules.InvalidActionError{Reason: fmt.Sprintf("unknown species %q", species)}
	}
	id := uuid.NewString()
	if name == "" {
		name = fmt.Sprintf("%s-%s", species, id[:4])
	}
	return &Animal{
		ID:        id,
		Name:      name,
		Species:   species,
		Sex:       sex,
		Hunger:    0,
		Health:    100,
		Happiness: 100,
		Alive:     true,
	}, nil
}

// NewFromName creates an animal from a loosely-spelled species name.
func NewFromName(speciesName, name string, sex Sex) (*Animal, error) {
	s, ok := ParseSpecies(speciesName)
	if !ok {
		return nil, &rules.InvalidActionError{Reason: fmt.Sprintf("unknown species %q", speciesName)}
	}
	return New(s, name, sex)
}

// NewOffspring creates a newborn from a validated pairing. The sex roll
// belongs to the caller. Newborns start slightly worn from the ordeal of
// being born.
func NewOffspring(species Species, sex Sex) (*Animal, error) {
	a, err := New(species, "", sex)
	if err != nil {
		return nil, err
	}
	a.Health = 80
	a.Happiness = 80
	return a, nil
}

// Traits returns the species attribute table for this animal.
func (a *Animal) Traits() Traits {
	t, _ := TraitsFor(a.Species)
	return t
}

// Eats reports whether the species accepts the given food type.
func (a *Animal) Eats(t item.ItemType) bool {
	for _, f := range a.Traits().Diet {
		if f == t {
			return true
		}
	}
	return false
}

// SetHealth clamps and applies a new health value, flipping Alive when it
// bottoms out. It never resurrects: once dead, health stays at 0.
func (a *Animal) SetHealth(v float64) {
	if !a.Alive {
		a.Health = 0
		return
	}
	a.Health = rules.Clamp(v, 0, 100)
	if a.Health == 0 {
		a.Alive = false
	}
}

// SetHunger clamps and applies a new hunger value.
func (a *Animal) SetHunger(v float64) {
	a.Hunger = rules.Clamp(v, 0, 100)
}

// SetHappiness clamps and applies a new happiness value.
func (a *Animal) SetHappiness(v float64) {
	a.Happiness = rules.Clamp(v, 0, 100)
}

// FeedResult describes what happened when food was offered.
type FeedResult struct {
	Accepted  bool
	Food      item.ItemType
	Nutrition float64
	Message   string
}

// Feed offers one serving of food. Accepted food reduces hunger by its
// nutrition value and lifts mood and condition a little; refused food is
// nibbled at, costing 5 hunger and 5 happiness.
func (a *Animal) Feed(food item.ItemType, nutrition float64) FeedResult {
	if !a.Eats(food) {
		a.SetHunger(a.Hunger - 5)
		a.SetHappiness(a.Happiness - 5)
		return FeedResult{
			Accepted: false,
			Food:     food,
			Message:  fmt.Sprintf("%s refused most of the %s", a.Name, food),
		}
	}
	a.SetHunger(a.Hunger - nutrition)
	a.SetHappiness(a.Happiness + min(10, nutrition*0.3))
	a.SetHealth(a.Health + min(5, nutrition*0.1))
	return FeedResult{
		Accepted:  true,
		Food:      food,
		Nutrition: nutrition,
		Message:   fmt.Sprintf("%s ate %s (-%.0f hunger)", a.Name, food, nutrition),
	}
}

// Treat administers one dose of medicine.
func (a *Animal) Treat(healing float64) {
	a.SetHealth(a.Health + healing)
}

// PastPrime reports whether the animal has reached its species' old-age
// threshold and started the slow decline.
func (a *Animal) PastPrime() bool {
	return a.AgeDays > a.Traits().OldAgeDays
}

// ValidatePair checks breeding compatibility. Wrong species mix and same-sex
// pairs are incompatibility rejections; dead or run-down animals are invalid
// targets. Eligible pairs still need a conception roll to produce offspring.
func ValidatePair(a, b *Animal, minHealth, minHappiness float64) error {
	if a == nil || b == nil {
		return &rules.InvalidActionError{Reason: "breeding needs two animals"}
	}
	if a.ID == b.ID {
		return &rules.InvalidActionError{Reason: "an animal cannot breed with itself"}
	}
	if !a.Alive || !b.Alive {
		return &rules.InvalidActionError{Reason: "dead animals cannot breed"}
	}
	if a.Species != b.Species {
		return &rules.IncompatibilityError{
			Detail: fmt.Sprintf("%s and %s cannot breed", a.Species, b.Species),
		}
	}
	if a.Sex == b.Sex {
		return &rules.IncompatibilityError{
			Detail: fmt.Sprintf("two %s %ss make an incompatible pair", sexWord(a.Sex), a.Species),
		}
	}
	if a.Health < minHealth || b.Health < minHealth {
		return &rules.InvalidActionError{Reason: "both parents must be healthy enough to breed"}
	}
	if a.Happiness < minHappiness || b.Happiness < minHappiness {
		return &rules.InvalidActionError{Reason: "both parents must be content enough to breed"}
	}
	return nil
}

func sexWord(s Sex) string {
	if s == SexFemale {
		return "female"
	}
	return "male"
}
