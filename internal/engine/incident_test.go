package engine

import (
	"math/rand"
	"testing"

	"github.com/wildsim/ozzoo/internal/config"
	"github.com/wildsim/ozzoo/internal/domain/animal"
	"github.com/wildsim/ozzoo/internal/domain/enclosure"
	"github.com/wildsim/ozzoo/internal/events"
	"github.com/wildsim/ozzoo/internal/platform/logger"
)

// forceIncident returns tuning where exactly one incident kind is certain.
func forceIncident(t *testing.T, heatwave, donation, escape float64) config.IncidentTuning {
	t.Helper()
	tun := defaultTuning(t)
	ic := tun.Incident
	ic.HeatwaveChance = heatwave
	ic.DonationChance = donation
	ic.EscapeChance = escape
	return ic
}

func TestHeatwaveStressesTheWholeZoo(t *testing.T) {
	// Setup
	el := events.NewEventLog()
	ic := NewIncidentSystem(el, logger.NewLogger(), forceIncident(t, 1, 0, 0), rand.New(rand.NewSource(7)))

	z := newTestZoo(1000)
	enc := enclosure.New("Gum Grove", enclosure.HabitatForest, 4)
	z.AddEnclosure(enc)
	kiki, _ := animal.New(animal.SpeciesKoala, "Kiki", animal.SexFemale)
	_ = enc.Add(kiki)

	// Act
	kind := ic.OnDayTick(z)

	// Assert
	if kind != IncidentHeatwave {
		t.Fatalf("Expected a heatwave, got %q", kind)
	}
	if kiki.Hunger != 10 {
		t.Errorf("Expected hunger 10 after the heatwave, got %.1f", kiki.Hunger)
	}
	if kiki.Health != 95 {
		t.Errorf("Expected health 95, got %.1f", kiki.Health)
	}
	if kiki.Happiness != 90 {
		t.Errorf("Expected happiness 90, got %.1f", kiki.Happiness)
	}
	if enc.Cleanliness != 85 {
		t.Errorf("Expected cleanliness 85, got %.1f", enc.Cleanliness)
	}
	if z.Ledger.Balance() != 800 {
		t.Errorf("Expected $200 cooling bill (balance 800), got %.2f", z.Ledger.Balance())
	}
	if got := el.GetByType(events.EventTypeIncident); len(got) != 1 {
		t.Errorf("Expected 1 incident event, got %d", len(got))
	}
}

func TestHeatwaveCoolingBillIsSwallowedWhenBroke(t *testing.T) {
	// Setup: the zoo cannot pay the $200 cooling bill
	el := events.NewEventLog()
	ic := NewIncidentSystem(el, logger.NewLogger(), forceIncident(t, 1, 0, 0), rand.New(rand.NewSource(7)))

	z := newTestZoo(50)
	enc := enclosure.New("Gum Grove", enclosure.HabitatForest, 4)
	z.AddEnclosure(enc)

	// Act
	kind := ic.OnDayTick(z)

	// Assert: the heatwave still happens, the bill just goes unpaid
	if kind != IncidentHeatwave {
		t.Fatalf("Expected a heatwave, got %q", kind)
	}
	if z.Ledger.Balance() != 50 {
		t.Errorf("Expected balance unchanged at 50, got %.2f", z.Ledger.Balance())
	}
	if enc.Cleanliness != 85 {
		t.Errorf("Expected the heat to soil the enclosure anyway, got %.1f", enc.Cleanliness)
	}
}

func TestDonationNeedsASolventZoo(t *testing.T) {
	// Setup: donors pass over a zoo at or under the balance gate
	el := events.NewEventLog()
	ic := NewIncidentSystem(el, logger.NewLogger(), forceIncident(t, 0, 1, 0), rand.New(rand.NewSource(7)))

	broke := newTestZoo(500)
	if kind := ic.OnDayTick(broke); kind != "" {
		t.Errorf("Expected no donation below the gate, got %q", kind)
	}
	if broke.Ledger.Balance() != 500 {
		t.Errorf("Expected balance unchanged at 500, got %.2f", broke.Ledger.Balance())
	}

	// Act: a solvent zoo gets the cheque
	rich := newTestZoo(2000)
	kind := ic.OnDayTick(rich)

	// Assert
	if kind != IncidentDonation {
		t.Fatalf("Expected a donation, got %q", kind)
	}
	got := rich.Ledger.Balance() - 2000
	if got < 100 || got > 500 {
		t.Errorf("Expected a donation between 100 and 500, got %.2f", got)
	}
	if evs := el.GetByType(events.EventTypeIncident); len(evs) != 1 {
		t.Errorf("Expected 1 incident event, got %d", len(evs))
	}
}

func TestEscapeRemovesOneAnimal(t *testing.T) {
	// Setup
	el := events.NewEventLog()
	ic := NewIncidentSystem(el, logger.NewLogger(), forceIncident(t, 0, 0, 1), rand.New(rand.NewSource(7)))

	z := newTestZoo(1000)
	enc := enclosure.New("Gum Grove", enclosure.HabitatForest, 4)
	z.AddEnclosure(enc)
	kiki, _ := animal.New(animal.SpeciesKoala, "Kiki", animal.SexFemale)
	_ = enc.Add(kiki)

	// Act
	kind := ic.OnDayTick(z)

	// Assert
	if kind != IncidentEscape {
		t.Fatalf("Expected an escape, got %q", kind)
	}
	if enc.Count() != 0 {
		t.Errorf("Expected the enclosure to be empty after the escape, got %d", enc.Count())
	}
	if z.Ledger.Balance() != 950 {
		t.Errorf("Expected a $50 recovery bill (balance 950), got %.2f", z.Ledger.Balance())
	}
	if evs := el.GetByType(events.EventTypeAnimalEscaped); len(evs) != 1 {
		t.Errorf("Expected 1 escape event, got %d", len(evs))
	}
}

func TestEscapeWithNoAnimalsIsAQuietDay(t *testing.T) {
	// Setup
	el := events.NewEventLog()
	ic := NewIncidentSystem(el, logger.NewLogger(), forceIncident(t, 0, 0, 1), rand.New(rand.NewSource(7)))

	z := newTestZoo(1000)
	z.AddEnclosure(enclosure.New("Gum Grove", enclosure.HabitatForest, 4))

	// Act
	kind := ic.OnDayTick(z)

	// Assert
	if kind != "" {
		t.Errorf("Expected no incident with nobody to escape, got %q", kind)
	}
	if evs := el.Len(); evs != 0 {
		t.Errorf("Expected an empty event log, got %d events", evs)
	}
}

func TestQuietDayRollsNothing(t *testing.T) {
	// Setup: all chances zeroed
	el := events.NewEventLog()
	ic := NewIncidentSystem(el, logger.NewLogger(), forceIncident(t, 0, 0, 0), rand.New(rand.NewSource(7)))
	z := newTestZoo(1000)

	// Act + Assert
	for i := 0; i < 20; i++ {
		if kind := ic.OnDayTick(z); kind != "" {
			t.Fatalf("Expected 20 quiet days, got %q on day %d", kind, i)
		}
	}
	if el.Len() != 0 {
		t.Errorf("Expected an empty event log, got %d events", el.Len())
	}
}
