// Package engine - incident_system.go
// T008: Random Incident Generation
//
// One uniform roll per day against a fixed catalog: heatwave, surprise
// donation, or an escape. At most one incident fires per day.
package engine

import (
	"fmt"
	"math/rand"

	"github.com/wildsim/ozzoo/internal/config"
	"github.com/wildsim/ozzoo/internal/domain/enclosure"
	"github.com/wildsim/ozzoo/internal/domain/rules"
	"github.com/wildsim/ozzoo/internal/domain/zoo"
	"github.com/wildsim/ozzoo/internal/events"
	"github.com/wildsim/ozzoo/internal/platform/logger"
)

// Incident kinds, recorded in event payloads and day summaries.
const (
	IncidentHeatwave = "heatwave"
	IncidentDonation = "donation"
	IncidentEscape   = "escape"
)

// IncidentSystem rolls and applies the daily incident, if any.
type IncidentSystem struct {
	eventLog *events.EventLog
	logger   *logger.Logger
	tuning   config.IncidentTuning
	rng      *rand.Rand
}

// NewIncidentSystem creates a new incident roller.
func NewIncidentSystem(eventLog *events.EventLog, log *logger.Logger, tuning config.IncidentTuning, rng *rand.Rand) *IncidentSystem {
	return &IncidentSystem{
		eventLog: eventLog,
		logger:   log,
		tuning:   tuning,
		rng:      rng,
	}
}

// OnDayTick makes the day's single incident roll and applies whichever
// incident the roll lands on. Returns the incident kind, or "" for a quiet
// day.
func (ic *IncidentSystem) OnDayTick(z *zoo.Zoo) string {
	r := ic.rng.Float64()
	switch {
	case r < ic.tuning.HeatwaveChance:
		ic.heatwave(z)
		return IncidentHeatwave
	case r < ic.tuning.HeatwaveChance+ic.tuning.DonationChance:
		// Donors only show up for a zoo that looks solvent.
		if z.Ledger.Balance() <= ic.tuning.DonationBalanceGate {
			return ""
		}
		ic.donation(z)
		return IncidentDonation
	case r < ic.tuning.HeatwaveChance+ic.tuning.DonationChance+ic.tuning.EscapeChance:
		if !ic.escape(z) {
			return ""
		}
		return IncidentEscape
	}
	return ""
}

func (ic *IncidentSystem) heatwave(z *zoo.Zoo) {
	for _, enc := range z.Enclosures {
		enc.Cleanliness = rules.Clamp(enc.Cleanliness-ic.tuning.HeatwaveCleanlinessLoss, 0, 100)
		for _, a := range enc.Animals {
			a.SetHunger(a.Hunger + ic.tuning.HeatwaveHungerGain)
			a.SetHealth(a.Health - ic.tuning.HeatwaveHealthLoss)
			a.SetHappiness(a.Happiness - ic.tuning.HeatwaveHappinessLoss)
		}
	}
	cost := ic.tuning.HeatwaveCoolingCost
	if err := z.Ledger.Debit(z.Day, cost, "Emergency cooling"); err != nil {
		ic.logger.Warnf("Heatwave cooling unpaid: %v", err)
		cost = 0
	}
	ev := events.NewEvent(events.EventTypeIncident, z.Day, z.Name,
		"A heatwave swept the zoo. Animals are stressed and enclosures need attention.")
	ev.Payload = events.IncidentPayload{Kind: IncidentHeatwave, Amount: cost}
	ic.eventLog.Append(ev)
	ic.logger.Warn("Incident: heatwave")
}

func (ic *IncidentSystem) donation(z *zoo.Zoo) {
	amount := ic.tuning.DonationMin + ic.rng.Float64()*(ic.tuning.DonationMax-ic.tuning.DonationMin)
	if err := z.Ledger.Credit(z.Day, amount, "Surprise donation"); err != nil {
		ic.logger.Errorf("donation credit failed: %v", err)
		return
	}
	ev := events.NewEvent(events.EventTypeIncident, z.Day, z.Name,
		fmt.Sprintf("A generous visitor donated $%.2f!", amount))
	ev.Payload = events.IncidentPayload{Kind: IncidentDonation, Amount: amount}
	ic.eventLog.Append(ev)
	ic.logger.Infof("Incident: donation of $%.2f", amount)
}

func (ic *IncidentSystem) escape(z *zoo.Zoo) bool {
	var occupied []*enclosure.Enclosure
	for _, enc := range z.Enclosures {
		if enc.Count() > 0 {
			occupied = append(occupied, enc)
		}
	}
	if len(occupied) == 0 {
		return false
	}
	enc := occupied[ic.rng.Intn(len(occupied))]
	a := enc.Animals[ic.rng.Intn(len(enc.Animals))]
	enc.Remove(a.ID)

	cost := ic.tuning.EscapeRepairCost
	if err := z.Ledger.Debit(z.Day, cost, fmt.Sprintf("Recovery attempt: %s", a.Name)); err != nil {
		ic.logger.Warnf("Escape recovery unpaid: %v", err)
		cost = 0
	}
	ic.eventLog.Append(events.NewEvent(events.EventTypeAnimalEscaped, z.Day, a.ID,
		fmt.Sprintf("%s the %s slipped out of %s and was last seen heading for the hills", a.Name, a.Species, enc.Name)))
	ev := events.NewEvent(events.EventTypeIncident, z.Day, z.Name,
		fmt.Sprintf("Escape! %s the %s is gone.", a.Name, a.Species))
	ev.Payload = events.IncidentPayload{Kind: IncidentEscape, Amount: cost}
	ic.eventLog.Append(ev)
	ic.logger.Warnf("Incident: %s the %s escaped from %s", a.Name, a.Species, enc.Name)
	return true
}
