package engine

import (
	"fmt"
	"math/rand"

	"github.com/wildsim/ozzoo/internal/config"
	"github.com/wildsim/ozzoo/internal/domain/animal"
	"github.com/wildsim/ozzoo/internal/domain/item"
	"github.com/wildsim/ozzoo/internal/domain/rules"
	"github.com/wildsim/ozzoo/internal/domain/zoo"
	"github.com/wildsim/ozzoo/internal/events"
	"github.com/wildsim/ozzoo/internal/platform/logger"
	"github.com/wildsim/ozzoo/internal/platform/metrics"
)

// WelfareAlert is pushed to observers when an animal's condition crosses the
// low-health line or the animal dies.
type WelfareAlert struct {
	Day            int     `json:"day"`
	AnimalID       string  `json:"animal_id"`
	Name           string  `json:"name"`
	Species        string  `json:"species"`
	PreviousHealth float64 `json:"previous_health"`
	Health         float64 `json:"health"`
	Fatal          bool    `json:"fatal"`
}

// WelfareObserver receives welfare alerts. Observers run on the engine
// goroutine and must not block or submit commands back into the engine.
type WelfareObserver func(WelfareAlert)

// HusbandrySystem manages hunger, feeding, condition, aging, and mortality.
type HusbandrySystem struct {
	eventLog  *events.EventLog
	logger    *logger.Logger
	tuning    config.AnimalTuning
	rng       *rand.Rand
	observers []WelfareObserver
}

// NewHusbandrySystem creates a new husbandry manager.
func NewHusbandrySystem(eventLog *events.EventLog, log *logger.Logger, tuning config.AnimalTuning, rng *rand.Rand) *HusbandrySystem {
	return &HusbandrySystem{
		eventLog: eventLog,
		logger:   log,
		tuning:   tuning,
		rng:      rng,
	}
}

// AddObserver registers a welfare observer.
func (hs *HusbandrySystem) AddObserver(fn WelfareObserver) {
	hs.observers = append(hs.observers, fn)
}

func (hs *HusbandrySystem) notify(alert WelfareAlert) {
	for _, fn := range hs.observers {
		fn(alert)
	}
}

// OnDayTick runs the daily husbandry round over every animal: the hunger
// roll, keeper auto-feeding, hunger penalties, recovery, old age, and death.
// Returns the number of animals that died today.
func (hs *HusbandrySystem) OnDayTick(z *zoo.Zoo) int {
	deaths := 0
	for _, enc := range z.Enclosures {
		var dead []*animal.Animal
		for _, a := range enc.Animals {
			if !a.Alive {
				dead = append(dead, a)
				continue
			}
			prev := a.Health

			// Daily appetite.
			gain := hs.tuning.HungerDailyMin + hs.rng.Float64()*(hs.tuning.HungerDailyMax-hs.tuning.HungerDailyMin)
			a.SetHunger(a.Hunger + gain)

			// Keeper rounds: hungry animals get the cheapest accepted food
			// still in stock. An empty pantry leaves them hungrier.
			if a.Hunger >= hs.tuning.AutoFeedHungerAt {
				if food, ok := hs.autoFeed(z, a); ok {
					hs.eventLog.Append(events.NewEvent(events.EventTypeAnimalFed, z.Day, a.ID,
						fmt.Sprintf("Keeper fed %s the %s 1 %s", a.Name, a.Species, food)))
				} else {
					a.SetHunger(a.Hunger + hs.tuning.UnfedExtraHunger)
				}
			}

			// Sustained hunger wears on mood first, then on health.
			if a.Hunger > hs.tuning.HungerSadThreshold {
				a.SetHappiness(a.Happiness - (a.Hunger-hs.tuning.HungerSadThreshold)*hs.tuning.HungerSadFactor)
			}
			if a.Hunger > hs.tuning.HungerSickThreshold {
				a.SetHealth(a.Health - (a.Hunger-hs.tuning.HungerSickThreshold)*hs.tuning.HungerSickFactor)
			}

			// Well-fed, happy animals recover a little each day.
			if a.Hunger < hs.tuning.ContentHungerBelow && a.Happiness > hs.tuning.ContentHappinessAbove {
				a.SetHealth(a.Health + hs.tuning.ContentRegen)
			}

			if a.PastPrime() {
				a.SetHealth(a.Health - hs.tuning.SenescenceDecline)
			}
			a.AgeDays++

			if !a.Alive {
				dead = append(dead, a)
				hs.notify(WelfareAlert{
					Day:            z.Day,
					AnimalID:       a.ID,
					Name:           a.Name,
					Species:        string(a.Species),
					PreviousHealth: prev,
					Health:         0,
					Fatal:          true,
				})
				continue
			}

			// Alert once, on the day health first drops below the line.
			if prev > hs.tuning.LowHealthAlert && a.Health <= hs.tuning.LowHealthAlert {
				ev := events.NewEvent(events.EventTypeHealthAlert, z.Day, a.ID,
					fmt.Sprintf("%s the %s is in poor health (%.1f)", a.Name, a.Species, a.Health))
				ev.Payload = events.HealthAlertPayload{
					AnimalID: a.ID,
					Species:  string(a.Species),
					Health:   a.Health,
				}
				hs.eventLog.Append(ev)
				hs.logger.Warnf("Health alert: %s the %s at %.1f", a.Name, a.Species, a.Health)
				hs.notify(WelfareAlert{
					Day:            z.Day,
					AnimalID:       a.ID,
					Name:           a.Name,
					Species:        string(a.Species),
					PreviousHealth: prev,
					Health:         a.Health,
				})
			}
		}

		for _, a := range dead {
			enc.Remove(a.ID)
			deaths++
			hs.logger.Warnf("%s the %s has died (age %d days)", a.Name, a.Species, a.AgeDays)
			hs.eventLog.Append(events.NewEvent(events.EventTypeAnimalDied, z.Day, a.ID,
				fmt.Sprintf("%s the %s has died at age %d days", a.Name, a.Species, a.AgeDays)))
			metrics.Get().RecordDeath()
		}
	}
	return deaths
}

// autoFeed finds the cheapest food in the animal's diet that is still in
// stock, consumes one unit, and feeds it at the keeper's hurried ration.
func (hs *HusbandrySystem) autoFeed(z *zoo.Zoo, a *animal.Animal) (item.ItemType, bool) {
	var best item.ItemType
	bestPrice := -1.0
	for _, food := range a.Traits().Diet {
		if z.StockOf(food) <= 0 {
			continue
		}
		def, ok := item.GetItem(food)
		if !ok {
			continue
		}
		if bestPrice < 0 || def.Price < bestPrice {
			best = food
			bestPrice = def.Price
		}
	}
	if bestPrice < 0 {
		return "", false
	}
	z.ConsumeStock(best, 1)
	a.Feed(best, hs.tuning.AutoFeedNutrition)
	return best, true
}

// FeedAnimal hand-feeds one unit of the given food. The caller has already
// sourced the unit (from stock or a walk-up purchase); refusal still wastes
// it.
func (hs *HusbandrySystem) FeedAnimal(z *zoo.Zoo, a *animal.Animal, food item.ItemType) (animal.FeedResult, error) {
	if !a.Alive {
		return animal.FeedResult{}, &rules.InvalidActionError{Reason: fmt.Sprintf("%s is no longer with us", a.Name)}
	}
	def, ok := item.GetItem(food)
	if !ok || !def.IsFood {
		return animal.FeedResult{}, &rules.InvalidActionError{Reason: fmt.Sprintf("%s is not food", food)}
	}
	res := a.Feed(food, def.Nutrition)
	if res.Accepted {
		hs.eventLog.Append(events.NewEvent(events.EventTypeAnimalFed, z.Day, a.ID, res.Message))
	} else {
		hs.eventLog.Append(events.NewEvent(events.EventTypeAnimalRefusedFood, z.Day, a.ID, res.Message))
	}
	return res, nil
}

// TreatAnimal administers one dose of medicine. The caller has already
// sourced the dose.
func (hs *HusbandrySystem) TreatAnimal(z *zoo.Zoo, a *animal.Animal) error {
	if !a.Alive {
		return &rules.InvalidActionError{Reason: fmt.Sprintf("%s is beyond medicine", a.Name)}
	}
	def, _ := item.GetItem(item.MedicineBasic)
	a.Treat(def.Healing)
	hs.eventLog.Append(events.NewEvent(events.EventTypeAnimalTreated, z.Day, a.ID,
		fmt.Sprintf("Vet treated %s the %s (+%.0f health)", a.Name, a.Species, def.Healing)))
	return nil
}
