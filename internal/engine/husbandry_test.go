package engine

import (
	"math/rand"
	"testing"

	"github.com/wildsim/ozzoo/internal/config"
	"github.com/wildsim/ozzoo/internal/domain/animal"
	"github.com/wildsim/ozzoo/internal/domain/enclosure"
	"github.com/wildsim/ozzoo/internal/domain/finance"
	"github.com/wildsim/ozzoo/internal/domain/item"
	"github.com/wildsim/ozzoo/internal/domain/zoo"
	"github.com/wildsim/ozzoo/internal/events"
	"github.com/wildsim/ozzoo/internal/platform/logger"
)

func defaultTuning(t *testing.T) *config.Tuning {
	t.Helper()
	tun, err := config.LoadTuning("")
	if err != nil {
		t.Fatalf("loading embedded tuning defaults: %v", err)
	}
	return tun
}

func newTestZoo(balance float64) *zoo.Zoo {
	return zoo.New("Test Park", finance.NewLedger(balance))
}

func TestHungryAnimalGetsAutoFed(t *testing.T) {
	// Setup: a hungry koala with eucalyptus on the shelf
	el := events.NewEventLog()
	tun := defaultTuning(t)
	hs := NewHusbandrySystem(el, logger.NewLogger(), tun.Animal, rand.New(rand.NewSource(7)))

	z := newTestZoo(1000)
	enc := enclosure.New("Gum Grove", enclosure.HabitatForest, 4)
	z.AddEnclosure(enc)
	kiki, _ := animal.New(animal.SpeciesKoala, "Kiki", animal.SexFemale)
	kiki.SetHunger(70)
	if err := enc.Add(kiki); err != nil {
		t.Fatalf("adding koala: %v", err)
	}
	z.AddStock(item.FoodEucalyptus, 20)

	// Act
	deaths := hs.OnDayTick(z)

	// Assert: the keeper fed her and a unit left the shelf
	if deaths != 0 {
		t.Errorf("Expected no deaths, got %d", deaths)
	}
	if z.StockOf(item.FoodEucalyptus) != 19 {
		t.Errorf("Expected 19 eucalyptus left, got %d", z.StockOf(item.FoodEucalyptus))
	}
	if fed := el.GetByType(events.EventTypeAnimalFed); len(fed) != 1 {
		t.Errorf("Expected 1 feed event, got %d", len(fed))
	}
	// Hunger rolled up by at most 15 and then dropped 20 by the feed
	if kiki.Hunger >= 70 {
		t.Errorf("Expected hunger below starting 70 after auto-feed, got %.1f", kiki.Hunger)
	}
}

func TestAutoFeedPicksCheapestAcceptedFood(t *testing.T) {
	// Setup: a kangaroo eats pellets ($2) and general feed ($2.5); only the
	// pricier one is stocked, then both
	el := events.NewEventLog()
	tun := defaultTuning(t)
	hs := NewHusbandrySystem(el, logger.NewLogger(), tun.Animal, rand.New(rand.NewSource(7)))

	z := newTestZoo(1000)
	joey, _ := animal.New(animal.SpeciesKangaroo, "Joey", animal.SexMale)
	joey.SetHunger(90)
	z.AddStock(item.FoodGeneral, 5)

	// Act: only general feed available
	food, ok := hs.autoFeed(z, joey)
	if !ok || food != item.FoodGeneral {
		t.Errorf("Expected general feed when it is the only stock, got %v (ok=%v)", food, ok)
	}

	// Act: pellets back in stock are the cheaper pick
	z.AddStock(item.FoodHerbivorePellets, 5)
	joey.SetHunger(90)
	food, ok = hs.autoFeed(z, joey)
	if !ok || food != item.FoodHerbivorePellets {
		t.Errorf("Expected pellets as the cheapest accepted food, got %v (ok=%v)", food, ok)
	}
	if z.StockOf(item.FoodHerbivorePellets) != 4 {
		t.Errorf("Expected 4 pellets left, got %d", z.StockOf(item.FoodHerbivorePellets))
	}
}

func TestUnfedAnimalGetsHungrierAndSadder(t *testing.T) {
	// Setup: empty pantry
	el := events.NewEventLog()
	tun := defaultTuning(t)
	hs := NewHusbandrySystem(el, logger.NewLogger(), tun.Animal, rand.New(rand.NewSource(7)))

	z := newTestZoo(1000)
	enc := enclosure.New("Gum Grove", enclosure.HabitatForest, 4)
	z.AddEnclosure(enc)
	kiki, _ := animal.New(animal.SpeciesKoala, "Kiki", animal.SexFemale)
	kiki.SetHunger(70)
	_ = enc.Add(kiki)

	// Act
	hs.OnDayTick(z)

	// Assert: daily roll (>=5) plus the unfed surcharge of 5
	if kiki.Hunger < 80 {
		t.Errorf("Expected hunger of at least 80 with nothing to eat, got %.1f", kiki.Hunger)
	}
	if kiki.Happiness >= 100 {
		t.Errorf("Expected happiness to drop past the hunger threshold, got %.1f", kiki.Happiness)
	}
	if fed := el.GetByType(events.EventTypeAnimalFed); len(fed) != 0 {
		t.Errorf("Expected no feed events, got %d", len(fed))
	}
}

func TestStarvingAnimalDiesAndIsRemoved(t *testing.T) {
	// Setup: health low enough that one starving day finishes it
	el := events.NewEventLog()
	tun := defaultTuning(t)
	hs := NewHusbandrySystem(el, logger.NewLogger(), tun.Animal, rand.New(rand.NewSource(7)))

	var alerts []WelfareAlert
	hs.AddObserver(func(a WelfareAlert) { alerts = append(alerts, a) })

	z := newTestZoo(1000)
	enc := enclosure.New("Gum Grove", enclosure.HabitatForest, 4)
	z.AddEnclosure(enc)
	kiki, _ := animal.New(animal.SpeciesKoala, "Kiki", animal.SexFemale)
	kiki.SetHunger(100)
	kiki.SetHealth(2)
	_ = enc.Add(kiki)

	// Act
	deaths := hs.OnDayTick(z)

	// Assert
	if deaths != 1 {
		t.Fatalf("Expected 1 death, got %d", deaths)
	}
	if kiki.Alive {
		t.Errorf("Expected the koala to be dead")
	}
	if enc.Count() != 0 {
		t.Errorf("Expected the enclosure to be emptied, got %d occupants", enc.Count())
	}
	if died := el.GetByType(events.EventTypeAnimalDied); len(died) != 1 {
		t.Errorf("Expected 1 death event, got %d", len(died))
	}
	if len(alerts) != 1 || !alerts[0].Fatal {
		t.Errorf("Expected one fatal welfare alert, got %+v", alerts)
	}

	// Act again: the next day must not resurrect or re-process her
	deaths = hs.OnDayTick(z)
	if deaths != 0 {
		t.Errorf("Expected no deaths on the following day, got %d", deaths)
	}
	if kiki.Health != 0 || kiki.Alive {
		t.Errorf("Expected the dead koala to stay dead, got health %.1f alive %v", kiki.Health, kiki.Alive)
	}
}

func TestLowHealthAlertFiresOnCrossing(t *testing.T) {
	// Setup: healthy-ish but starving, so the sick penalty drags health
	// below the alert line in one day
	el := events.NewEventLog()
	tun := defaultTuning(t)
	hs := NewHusbandrySystem(el, logger.NewLogger(), tun.Animal, rand.New(rand.NewSource(7)))

	var alerts []WelfareAlert
	hs.AddObserver(func(a WelfareAlert) { alerts = append(alerts, a) })

	z := newTestZoo(1000)
	enc := enclosure.New("Gum Grove", enclosure.HabitatForest, 4)
	z.AddEnclosure(enc)
	kiki, _ := animal.New(animal.SpeciesKoala, "Kiki", animal.SexFemale)
	kiki.SetHunger(95)
	kiki.SetHealth(33)
	_ = enc.Add(kiki)

	// Act
	hs.OnDayTick(z)

	// Assert: hunger clamps at 100, health drops by 10 to 23
	if kiki.Health > tun.Animal.LowHealthAlert {
		t.Fatalf("Expected health at or below %.0f, got %.1f", tun.Animal.LowHealthAlert, kiki.Health)
	}
	if got := el.GetByType(events.EventTypeHealthAlert); len(got) != 1 {
		t.Errorf("Expected 1 health alert event, got %d", len(got))
	}
	if len(alerts) != 1 || alerts[0].Fatal {
		t.Fatalf("Expected one non-fatal welfare alert, got %+v", alerts)
	}

	// Act again: no second alert while already below the line
	hs.OnDayTick(z)
	if got := el.GetByType(events.EventTypeHealthAlert); len(got) != 1 {
		t.Errorf("Expected the alert to fire only on the crossing, got %d events", len(got))
	}
}

func TestVitalsStayInRangeOverLongRuns(t *testing.T) {
	// Setup: a full enclosure and a deep pantry, then starve them later
	el := events.NewEventLog()
	tun := defaultTuning(t)
	hs := NewHusbandrySystem(el, logger.NewLogger(), tun.Animal, rand.New(rand.NewSource(42)))

	z := newTestZoo(1000)
	enc := enclosure.New("Gum Grove", enclosure.HabitatForest, 6)
	z.AddEnclosure(enc)
	for i := 0; i < 4; i++ {
		a, _ := animal.New(animal.SpeciesKoala, "", animal.SexFemale)
		_ = enc.Add(a)
	}
	z.AddStock(item.FoodEucalyptus, 200)

	// Act + Assert: 50 fed days, then 50 starving days
	for day := 0; day < 100; day++ {
		if day == 50 {
			z.ConsumeStock(item.FoodEucalyptus, z.StockOf(item.FoodEucalyptus))
		}
		hs.OnDayTick(z)
		z.Day++
		for _, a := range z.Animals() {
			if a.Hunger < 0 || a.Hunger > 100 {
				t.Fatalf("Day %d: hunger out of range: %.2f", day, a.Hunger)
			}
			if a.Health < 0 || a.Health > 100 {
				t.Fatalf("Day %d: health out of range: %.2f", day, a.Health)
			}
			if a.Happiness < 0 || a.Happiness > 100 {
				t.Fatalf("Day %d: happiness out of range: %.2f", day, a.Happiness)
			}
		}
	}
}

func TestHandFeedingRefusedFood(t *testing.T) {
	// Setup: koalas do not touch seed mix
	el := events.NewEventLog()
	tun := defaultTuning(t)
	hs := NewHusbandrySystem(el, logger.NewLogger(), tun.Animal, rand.New(rand.NewSource(7)))

	z := newTestZoo(1000)
	kiki, _ := animal.New(animal.SpeciesKoala, "Kiki", animal.SexFemale)
	kiki.SetHunger(50)

	// Act
	res, err := hs.FeedAnimal(z, kiki, item.FoodSeeds)

	// Assert
	if err != nil {
		t.Fatalf("Expected refusal, not an error: %v", err)
	}
	if res.Accepted {
		t.Errorf("Expected the koala to refuse seed mix")
	}
	if got := el.GetByType(events.EventTypeAnimalRefusedFood); len(got) != 1 {
		t.Errorf("Expected 1 refusal event, got %d", len(got))
	}
	if kiki.Happiness != 95 {
		t.Errorf("Expected happiness 95 after the refusal, got %.1f", kiki.Happiness)
	}
}

func TestTreatAnimalRestoresHealth(t *testing.T) {
	// Setup
	el := events.NewEventLog()
	tun := defaultTuning(t)
	hs := NewHusbandrySystem(el, logger.NewLogger(), tun.Animal, rand.New(rand.NewSource(7)))

	z := newTestZoo(1000)
	kiki, _ := animal.New(animal.SpeciesKoala, "Kiki", animal.SexFemale)
	kiki.SetHealth(40)

	// Act
	if err := hs.TreatAnimal(z, kiki); err != nil {
		t.Fatalf("Expected treatment to succeed, got %v", err)
	}

	// Assert: one basic dose heals 15
	if kiki.Health != 55 {
		t.Errorf("Expected health 55 after treatment, got %.1f", kiki.Health)
	}
	if got := el.GetByType(events.EventTypeAnimalTreated); len(got) != 1 {
		t.Errorf("Expected 1 treatment event, got %d", len(got))
	}
}
