package engine

import (
	"math/rand"
	"testing"

	"github.com/wildsim/ozzoo/internal/domain/animal"
	"github.com/wildsim/ozzoo/internal/domain/enclosure"
	"github.com/wildsim/ozzoo/internal/domain/rules"
	"github.com/wildsim/ozzoo/internal/events"
	"github.com/wildsim/ozzoo/internal/platform/logger"
)

func newBreedingRig(t *testing.T, seed int64) (*BreedingSystem, *events.EventLog) {
	t.Helper()
	el := events.NewEventLog()
	tun := defaultTuning(t)
	return NewBreedingSystem(el, logger.NewLogger(), tun.Breeding, rand.New(rand.NewSource(seed))), el
}

func TestBreedingRejectsMixedSpecies(t *testing.T) {
	// Setup
	bs, el := newBreedingRig(t, 7)
	z := newTestZoo(1000)
	enc := enclosure.New("Outback Run", enclosure.HabitatGrassland, 6)
	z.AddEnclosure(enc)
	roo, _ := animal.New(animal.SpeciesKangaroo, "Joey", animal.SexFemale)
	wombat, _ := animal.New(animal.SpeciesWombat, "Waldo", animal.SexMale)
	_ = enc.Add(roo)
	_ = enc.Add(wombat)

	// Act
	_, err := bs.Breed(z, "Joey", "Waldo")

	// Assert
	if err == nil {
		t.Fatalf("Expected a cross-species rejection")
	}
	if kind, ok := rules.KindOf(err); !ok || kind != rules.KindSpeciesIncompatibility {
		t.Errorf("Expected SpeciesIncompatibility, got %v", err)
	}
	if z.AnimalCount() != 2 {
		t.Errorf("Expected no new animal, got %d residents", z.AnimalCount())
	}
	if born := el.GetByType(events.EventTypeAnimalBorn); len(born) != 0 {
		t.Errorf("Expected no birth events, got %d", len(born))
	}
}

func TestBreedingRejectsSameSexPair(t *testing.T) {
	// Setup
	bs, _ := newBreedingRig(t, 7)
	z := newTestZoo(1000)
	enc := enclosure.New("Outback Run", enclosure.HabitatGrassland, 6)
	z.AddEnclosure(enc)
	a, _ := animal.New(animal.SpeciesKangaroo, "Joey", animal.SexMale)
	b, _ := animal.New(animal.SpeciesKangaroo, "Jack", animal.SexMale)
	_ = enc.Add(a)
	_ = enc.Add(b)

	// Act
	_, err := bs.Breed(z, "Joey", "Jack")

	// Assert
	if err == nil {
		t.Fatalf("Expected a same-sex rejection")
	}
	if kind, ok := rules.KindOf(err); !ok || kind != rules.KindSpeciesIncompatibility {
		t.Errorf("Expected SpeciesIncompatibility, got %v", err)
	}
}

func TestBreedingRejectsRunDownParents(t *testing.T) {
	// Setup: one parent below the health floor
	bs, _ := newBreedingRig(t, 7)
	z := newTestZoo(1000)
	enc := enclosure.New("Outback Run", enclosure.HabitatGrassland, 6)
	z.AddEnclosure(enc)
	a, _ := animal.New(animal.SpeciesKangaroo, "Joey", animal.SexFemale)
	b, _ := animal.New(animal.SpeciesKangaroo, "Jack", animal.SexMale)
	b.SetHealth(40)
	_ = enc.Add(a)
	_ = enc.Add(b)

	// Act
	_, err := bs.Breed(z, "Joey", "Jack")

	// Assert
	if err == nil {
		t.Fatalf("Expected a rejection for the sick parent")
	}
	if kind, ok := rules.KindOf(err); !ok || kind != rules.KindInvalidAction {
		t.Errorf("Expected InvalidAction, got %v", err)
	}
}

func TestBreedingNeedsNurserySpace(t *testing.T) {
	// Setup: the parents fill their enclosure, and the only other enclosure
	// is the wrong habitat
	bs, el := newBreedingRig(t, 7)
	z := newTestZoo(1000)
	enc := enclosure.New("Outback Run", enclosure.HabitatGrassland, 2)
	z.AddEnclosure(enc)
	z.AddEnclosure(enclosure.New("Raptor Dome", enclosure.HabitatAviary, 6))
	a, _ := animal.New(animal.SpeciesKangaroo, "Joey", animal.SexFemale)
	b, _ := animal.New(animal.SpeciesKangaroo, "Jack", animal.SexMale)
	_ = enc.Add(a)
	_ = enc.Add(b)

	// Act
	_, err := bs.Breed(z, "Joey", "Jack")

	// Assert
	if err == nil {
		t.Fatalf("Expected a capacity rejection with nowhere to put a joey")
	}
	if kind, ok := rules.KindOf(err); !ok || kind != rules.KindCapacityExceeded {
		t.Errorf("Expected CapacityExceeded, got %v", err)
	}
	if z.AnimalCount() != 2 {
		t.Errorf("Expected no new animal, got %d residents", z.AnimalCount())
	}
	if born := el.GetByType(events.EventTypeAnimalBorn); len(born) != 0 {
		t.Errorf("Expected no birth events, got %d", len(born))
	}
}

func TestBreedingHappyPairProducesOffspring(t *testing.T) {
	// Setup: both parents at full happiness, so conception is certain
	bs, el := newBreedingRig(t, 7)
	z := newTestZoo(1000)
	enc := enclosure.New("Outback Run", enclosure.HabitatGrassland, 6)
	z.AddEnclosure(enc)
	a, _ := animal.New(animal.SpeciesKangaroo, "Joey", animal.SexFemale)
	b, _ := animal.New(animal.SpeciesKangaroo, "Jack", animal.SexMale)
	_ = enc.Add(a)
	_ = enc.Add(b)

	// Act
	out, err := bs.Breed(z, "Joey", "Jack")

	// Assert
	if err != nil {
		t.Fatalf("Expected a birth, got %v", err)
	}
	if out.Offspring == nil {
		t.Fatalf("Expected offspring from a fully content pair")
	}
	if out.Offspring.Species != animal.SpeciesKangaroo {
		t.Errorf("Expected a kangaroo, got %s", out.Offspring.Species)
	}
	if out.Enclosure != enc {
		t.Errorf("Expected the joey to live with its parents")
	}
	if enc.Count() != 3 {
		t.Errorf("Expected 3 residents, got %d", enc.Count())
	}
	if born := el.GetByType(events.EventTypeAnimalBorn); len(born) != 1 {
		t.Errorf("Expected 1 birth event, got %d", len(born))
	}
}

func TestConceptionRollCanFail(t *testing.T) {
	// Setup: middling happiness gives a 50% chance, and seed 1 opens with a
	// roll of ~0.60
	bs, el := newBreedingRig(t, 1)
	z := newTestZoo(1000)
	enc := enclosure.New("Outback Run", enclosure.HabitatGrassland, 6)
	z.AddEnclosure(enc)
	a, _ := animal.New(animal.SpeciesKangaroo, "Joey", animal.SexFemale)
	b, _ := animal.New(animal.SpeciesKangaroo, "Jack", animal.SexMale)
	a.SetHappiness(50)
	b.SetHappiness(50)
	_ = enc.Add(a)
	_ = enc.Add(b)

	// Act
	out, err := bs.Breed(z, "Joey", "Jack")

	// Assert: a failed roll is a quiet season, not an error
	if err != nil {
		t.Fatalf("Expected no error on a failed roll, got %v", err)
	}
	if out.Offspring != nil {
		t.Errorf("Expected no offspring on a failed roll")
	}
	if out.Chance != 0.5 {
		t.Errorf("Expected a 0.5 conception chance, got %.2f", out.Chance)
	}
	if enc.Count() != 2 {
		t.Errorf("Expected 2 residents, got %d", enc.Count())
	}
	if born := el.GetByType(events.EventTypeAnimalBorn); len(born) != 0 {
		t.Errorf("Expected no birth events, got %d", len(born))
	}
}
