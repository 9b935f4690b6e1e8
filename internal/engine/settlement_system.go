package engine

import (
	"fmt"

	"github.com/wildsim/ozzoo/internal/domain/zoo"
	"github.com/wildsim/ozzoo/internal/events"
	"github.com/wildsim/ozzoo/internal/platform/logger"
)

// SettlementSystem closes out each day: it folds the day's outcomes into a
// summary record and writes the closing entry to the event log.
type SettlementSystem struct {
	eventLog *events.EventLog
	logger   *logger.Logger
}

// NewSettlementSystem creates a new settlement manager.
func NewSettlementSystem(eventLog *events.EventLog, log *logger.Logger) *SettlementSystem {
	return &SettlementSystem{
		eventLog: eventLog,
		logger:   log,
	}
}

// OnDayTick builds the day's summary from the ledger and the other systems'
// outcomes, then appends the closing event.
func (ss *SettlementSystem) OnDayTick(z *zoo.Zoo, deaths int, visitors zoo.VisitorDay, incident string) DaySummary {
	summary := DaySummary{
		Day:            z.Day,
		Balance:        z.Ledger.Balance(),
		Net:            z.Ledger.NetForDay(z.Day),
		Animals:        z.AnimalCount(),
		Deaths:         deaths,
		Visitors:       visitors.Count,
		Satisfaction:   visitors.Satisfaction,
		AvgHappiness:   z.AvgHappiness(),
		AvgCleanliness: z.AvgCleanliness(),
		Incident:       incident,
	}

	ev := events.NewEvent(events.EventTypeDaySettled, z.Day, z.Name,
		fmt.Sprintf("Day %d closed: net $%+.2f, %d visitors, %d animals",
			summary.Day, summary.Net, summary.Visitors, summary.Animals))
	ev.Payload = summary
	ss.eventLog.Append(ev)

	ss.logger.Infof("Day %d settled: balance $%.2f (net $%+.2f), %d visitors, %d deaths",
		summary.Day, summary.Balance, summary.Net, summary.Visitors, summary.Deaths)
	return summary
}
