package engine

import (
	"math/rand"
	"testing"

	"github.com/wildsim/ozzoo/internal/domain/animal"
	"github.com/wildsim/ozzoo/internal/domain/enclosure"
	"github.com/wildsim/ozzoo/internal/events"
	"github.com/wildsim/ozzoo/internal/platform/logger"
)

func TestNoEnclosuresMeansNoVisitors(t *testing.T) {
	// Setup: a zoo that is just a gate and a paddock-less field
	el := events.NewEventLog()
	tun := defaultTuning(t)
	vs := NewVisitorSystem(el, logger.NewLogger(), tun.Visitor, rand.New(rand.NewSource(7)))
	z := newTestZoo(1000)

	// Act
	day := vs.OnDayTick(z)

	// Assert
	if day.Count != 0 {
		t.Errorf("Expected zero visitors with nothing to see, got %d", day.Count)
	}
	if z.Ledger.Balance() != 1000 {
		t.Errorf("Expected balance unchanged at 1000, got %.2f", z.Ledger.Balance())
	}
	if z.Visitors.Count != 0 {
		t.Errorf("Expected the zoo's visitor record to be zeroed, got %d", z.Visitors.Count)
	}
}

func TestVisitorDayCreditsTheLedgerOnce(t *testing.T) {
	// Setup: one clean enclosure with a content koala
	el := events.NewEventLog()
	tun := defaultTuning(t)
	vs := NewVisitorSystem(el, logger.NewLogger(), tun.Visitor, rand.New(rand.NewSource(7)))

	z := newTestZoo(1000)
	enc := enclosure.New("Gum Grove", enclosure.HabitatForest, 4)
	z.AddEnclosure(enc)
	kiki, _ := animal.New(animal.SpeciesKoala, "Kiki", animal.SexFemale)
	_ = enc.Add(kiki)

	// Act
	day := vs.OnDayTick(z)

	// Assert: a clean single-species zoo still pulls a crowd
	if day.Count < tun.Visitor.MinVisitors {
		t.Errorf("Expected at least %d visitors, got %d", tun.Visitor.MinVisitors, day.Count)
	}
	if day.TicketIncome != tun.Visitor.TicketPrice*float64(day.Count) {
		t.Errorf("Expected ticket income %.2f, got %.2f",
			tun.Visitor.TicketPrice*float64(day.Count), day.TicketIncome)
	}
	if day.Satisfaction <= 0 {
		t.Errorf("Expected a positive satisfaction average, got %.2f", day.Satisfaction)
	}

	wantBalance := 1000 + day.TicketIncome + day.Spending
	if z.Ledger.Balance() != wantBalance {
		t.Errorf("Expected balance %.2f, got %.2f", wantBalance, z.Ledger.Balance())
	}

	// A single combined credit, not one per visitor
	credits := 0
	for _, tx := range z.Ledger.History() {
		if tx.Reason == "Daily visitors & sales" {
			credits++
		}
	}
	if credits != 1 {
		t.Errorf("Expected exactly 1 visitor credit, got %d", credits)
	}
	if got := el.GetByType(events.EventTypeVisitorIntake); len(got) != 1 {
		t.Errorf("Expected 1 visitor event, got %d", len(got))
	}
}

func TestVisitorSpendingRespectsBudgets(t *testing.T) {
	// Setup: per-visitor spend is capped by the configured budget range
	el := events.NewEventLog()
	tun := defaultTuning(t)
	vs := NewVisitorSystem(el, logger.NewLogger(), tun.Visitor, rand.New(rand.NewSource(11)))

	z := newTestZoo(1000)
	enc := enclosure.New("Gum Grove", enclosure.HabitatForest, 4)
	z.AddEnclosure(enc)

	// Act
	day := vs.OnDayTick(z)

	// Assert
	if day.Spending < 0 {
		t.Errorf("Expected non-negative spending, got %.2f", day.Spending)
	}
	if max := tun.Visitor.BudgetMax * float64(day.Count); day.Spending > max {
		t.Errorf("Expected spending within the crowd's combined budget %.2f, got %.2f", max, day.Spending)
	}
}
