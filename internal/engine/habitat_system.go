package engine

import (
	"fmt"

	"github.com/wildsim/ozzoo/internal/config"
	"github.com/wildsim/ozzoo/internal/domain/enclosure"
	"github.com/wildsim/ozzoo/internal/domain/rules"
	"github.com/wildsim/ozzoo/internal/domain/zoo"
	"github.com/wildsim/ozzoo/internal/events"
	"github.com/wildsim/ozzoo/internal/platform/logger"
)

// HabitatSystem manages enclosure soiling and its knock-on effects, plus the
// cleaning and upgrade operations.
type HabitatSystem struct {
	eventLog *events.EventLog
	logger   *logger.Logger
	tuning   config.EnclosureTuning
}

// NewHabitatSystem creates a new habitat manager.
func NewHabitatSystem(eventLog *events.EventLog, log *logger.Logger, tuning config.EnclosureTuning) *HabitatSystem {
	return &HabitatSystem{
		eventLog: eventLog,
		logger:   log,
		tuning:   tuning,
	}
}

// OnDayTick applies one day of soiling to every enclosure. Occupants of
// enclosures below the dirty threshold lose happiness and health.
func (hb *HabitatSystem) OnDayTick(z *zoo.Zoo) {
	for _, enc := range z.Enclosures {
		enc.Decay(hb.tuning.DecayPerAnimal, hb.tuning.UpgradeResistance)
		if enc.Cleanliness >= hb.tuning.DirtyThreshold {
			continue
		}
		for _, a := range enc.Animals {
			a.SetHappiness(a.Happiness - hb.tuning.DirtyHappinessLoss)
			a.SetHealth(a.Health - hb.tuning.DirtyHealthLoss)
		}
	}
}

// Clean pays for and performs a full cleaning. Cost scales with the number
// of occupants; an unaffordable cleaning changes nothing.
func (hb *HabitatSystem) Clean(z *zoo.Zoo, enc *enclosure.Enclosure) (float64, error) {
	cost := rules.CleanCost(hb.tuning.CleanBaseCost, enc.Count())
	if err := z.Ledger.Debit(z.Day, cost, fmt.Sprintf("Cleaning: %s", enc.Name)); err != nil {
		return 0, err
	}
	enc.Clean()
	hb.eventLog.Append(events.NewEvent(events.EventTypeEnclosureCleaned, z.Day, enc.ID,
		fmt.Sprintf("%s cleaned for $%.2f", enc.Name, cost)))
	return cost, nil
}

// Upgrade pays for and applies the next upgrade level. Cost scales with the
// current level; an unaffordable upgrade changes nothing.
func (hb *HabitatSystem) Upgrade(z *zoo.Zoo, enc *enclosure.Enclosure) (float64, error) {
	cost := rules.UpgradeCost(hb.tuning.UpgradeBaseCost, enc.UpgradeLevel)
	if err := z.Ledger.Debit(z.Day, cost, fmt.Sprintf("Upgrade: %s", enc.Name)); err != nil {
		return 0, err
	}
	enc.ApplyUpgrade()
	hb.eventLog.Append(events.NewEvent(events.EventTypeEnclosureUpgraded, z.Day, enc.ID,
		fmt.Sprintf("%s upgraded to level %d (capacity %d)", enc.Name, enc.UpgradeLevel, enc.Capacity)))
	hb.logger.Infof("%s upgraded to level %d for $%.2f", enc.Name, enc.UpgradeLevel, cost)
	return cost, nil
}
