package engine

import (
	"fmt"
	"math/rand"

	"github.com/wildsim/ozzoo/internal/config"
	"github.com/wildsim/ozzoo/internal/domain/rules"
	"github.com/wildsim/ozzoo/internal/domain/zoo"
	"github.com/wildsim/ozzoo/internal/events"
	"github.com/wildsim/ozzoo/internal/platform/logger"
	"github.com/wildsim/ozzoo/internal/platform/metrics"
)

// VisitorSystem simulates the daily crowd: how many come through the gate,
// what they see, and what they spend.
type VisitorSystem struct {
	eventLog *events.EventLog
	logger   *logger.Logger
	tuning   config.VisitorTuning
	rng      *rand.Rand
}

// NewVisitorSystem creates a new visitor simulator.
func NewVisitorSystem(eventLog *events.EventLog, log *logger.Logger, tuning config.VisitorTuning, rng *rand.Rand) *VisitorSystem {
	return &VisitorSystem{
		eventLog: eventLog,
		logger:   log,
		tuning:   tuning,
		rng:      rng,
	}
}

// OnDayTick runs one day of visitors. Each visitor gets a budget, views one
// random enclosure, and spends according to how satisfied they left. Gate
// takings and stall spending land in the ledger as a single credit.
func (vs *VisitorSystem) OnDayTick(z *zoo.Zoo) zoo.VisitorDay {
	day := zoo.VisitorDay{Day: z.Day}
	if len(z.Enclosures) == 0 {
		z.Visitors = day
		return day
	}

	attract := rules.Attractiveness(z.AvgCleanliness(), z.SpeciesCount())
	count := rules.VisitorCount(attract, vs.rng.Float64(), vs.tuning.MinVisitors, vs.tuning.MaxVisitors)

	var spending, satSum float64
	for i := 0; i < count; i++ {
		budget := vs.tuning.BudgetMin + vs.rng.Float64()*(vs.tuning.BudgetMax-vs.tuning.BudgetMin)
		enc := z.Enclosures[vs.rng.Intn(len(z.Enclosures))]
		sat := rules.Satisfaction(70, enc.AvgHappiness(), enc.Cleanliness)
		spending += rules.VisitorSpend(sat, budget, vs.rng.Float64())
		satSum += sat
	}

	day.Count = count
	day.TicketIncome = vs.tuning.TicketPrice * float64(count)
	day.Spending = spending
	if count > 0 {
		day.Satisfaction = satSum / float64(count)
	}

	if total := day.TicketIncome + day.Spending; total > 0 {
		if err := z.Ledger.Credit(z.Day, total, "Daily visitors & sales"); err != nil {
			vs.logger.Errorf("visitor credit failed: %v", err)
		}
	}

	ev := events.NewEvent(events.EventTypeVisitorIntake, z.Day, z.Name,
		fmt.Sprintf("%d visitors today (satisfaction %.1f)", count, day.Satisfaction))
	ev.Payload = events.VisitorPayload{
		Count:        count,
		TicketIncome: day.TicketIncome,
		Spending:     day.Spending,
		Satisfaction: day.Satisfaction,
	}
	vs.eventLog.Append(ev)
	metrics.Get().RecordVisitors(count, day.TicketIncome)

	z.Visitors = day
	return day
}
