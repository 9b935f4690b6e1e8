package engine

import (
	"fmt"
	"math/rand"

	"github.com/wildsim/ozzoo/internal/config"
	"github.com/wildsim/ozzoo/internal/domain/animal"
	"github.com/wildsim/ozzoo/internal/domain/enclosure"
	"github.com/wildsim/ozzoo/internal/domain/rules"
	"github.com/wildsim/ozzoo/internal/domain/zoo"
	"github.com/wildsim/ozzoo/internal/events"
	"github.com/wildsim/ozzoo/internal/platform/logger"
	"github.com/wildsim/ozzoo/internal/platform/metrics"
)

// BreedOutcome describes a pairing attempt that passed validation.
// Offspring is nil when the conception roll came up short, which is a normal
// result rather than an error.
type BreedOutcome struct {
	Offspring *animal.Animal
	Enclosure *enclosure.Enclosure
	Chance    float64
}

// BreedingSystem manages pairing validation, conception rolls, and placing
// newborns.
type BreedingSystem struct {
	eventLog *events.EventLog
	logger   *logger.Logger
	tuning   config.BreedingTuning
	rng      *rand.Rand
}

// NewBreedingSystem creates a new breeding manager.
func NewBreedingSystem(eventLog *events.EventLog, log *logger.Logger, tuning config.BreedingTuning, rng *rand.Rand) *BreedingSystem {
	return &BreedingSystem{
		eventLog: eventLog,
		logger:   log,
		tuning:   tuning,
		rng:      rng,
	}
}

// Breed attempts to pair two animals. Validation failures and a zoo with no
// room for offspring reject the attempt before any dice are rolled; once the
// pair is eligible and housed, conception is down to how happy they are.
func (bs *BreedingSystem) Breed(z *zoo.Zoo, refA, refB string) (BreedOutcome, error) {
	a, _ := z.FindAnimal(refA)
	if a == nil {
		return BreedOutcome{}, &rules.InvalidActionError{Reason: fmt.Sprintf("no animal matching %q", refA)}
	}
	b, _ := z.FindAnimal(refB)
	if b == nil {
		return BreedOutcome{}, &rules.InvalidActionError{Reason: fmt.Sprintf("no animal matching %q", refB)}
	}
	if err := animal.ValidatePair(a, b, bs.tuning.MinHealth, bs.tuning.MinHappiness); err != nil {
		return BreedOutcome{}, err
	}

	nursery := bs.findNursery(z, a)
	if nursery == nil {
		return BreedOutcome{}, &rules.CapacityError{Enclosure: "every compatible enclosure", Capacity: 0}
	}

	chance := rules.BreedingChance(a.Happiness, b.Happiness)
	if bs.rng.Float64() >= chance {
		return BreedOutcome{Chance: chance}, nil
	}

	sex := animal.SexFemale
	if bs.rng.Float64() < 0.5 {
		sex = animal.SexMale
	}
	offspring, err := animal.NewOffspring(a.Species, sex)
	if err != nil {
		return BreedOutcome{}, err
	}
	if err := nursery.Add(offspring); err != nil {
		return BreedOutcome{}, err
	}

	bs.eventLog.Append(events.NewEvent(events.EventTypeAnimalBorn, z.Day, offspring.ID,
		fmt.Sprintf("%s the %s was born to %s and %s in %s",
			offspring.Name, offspring.Species, a.Name, b.Name, nursery.Name)))
	bs.logger.Infof("New arrival: %s the %s, born in %s", offspring.Name, offspring.Species, nursery.Name)
	metrics.Get().RecordBirth()

	return BreedOutcome{Offspring: offspring, Enclosure: nursery, Chance: chance}, nil
}

// findNursery picks where a newborn would live: the first parent's enclosure
// when it has room, otherwise any compatible enclosure with space.
func (bs *BreedingSystem) findNursery(z *zoo.Zoo, parent *animal.Animal) *enclosure.Enclosure {
	_, home := z.FindAnimal(parent.ID)
	if home != nil && home.Count() < home.Capacity {
		return home
	}
	for _, enc := range z.Enclosures {
		if enc.Habitat.Accepts(parent.Species) && enc.Count() < enc.Capacity {
			return enc
		}
	}
	return nil
}
