// Package keeper runs the head keeper's autopilot: a rule table inspected
// after every settled day that files the chores a human operator would
// otherwise type in by hand. Each round is one perceive-decide-act cycle:
// fetch a snapshot, walk the rules, submit the resulting commands.
//
// The keeper is an ordinary engine client. It holds no zoo state of its
// own and everything it does lands in the event log like any other command.
package keeper

import (
	"context"
	"fmt"

	"github.com/wildsim/ozzoo/internal/domain/animal"
	"github.com/wildsim/ozzoo/internal/domain/item"
	"github.com/wildsim/ozzoo/internal/engine"
	"github.com/wildsim/ozzoo/internal/platform/logger"
)

const (
	feedAt    = 70.0  // hunger above this gets a meal
	treatAt   = 40.0  // health below this gets the vet
	cleanAt   = 40.0  // cleanliness below this gets a scrub
	restockTo = 10    // order size for an empty shelf
	cashFloor = 150.0 // never spend the till below this
)

// Chore is one queued piece of keeper work.
type Chore struct {
	Reason  string
	Command engine.Command
}

// Rule inspects a snapshot and files the chores it calls for.
type Rule struct {
	Name    string
	Inspect func(snap engine.ZooSnapshot) []Chore
}

// Keeper wakes after each settled day and works through its rule table.
type Keeper struct {
	engine *engine.Engine
	logger *logger.Logger
	rules  []Rule
	wake   chan struct{}
}

// NewKeeper builds the autopilot with the standard chore rules. It does
// nothing until Run is started and Notify is wired to the engine.
func NewKeeper(eng *engine.Engine, log *logger.Logger) *Keeper {
	return &Keeper{
		engine: eng,
		logger: log,
		rules:  DefaultRules(),
		wake:   make(chan struct{}, 1),
	}
}

// DefaultRules is the standard chore table. Restocking runs first so the
// feeding rule can draw from fresh stock in the same round.
func DefaultRules() []Rule {
	return []Rule{restockRule(), medicineRule(), feedingRule(), cleaningRule()}
}

// Notify wakes the keeper for a round. Never blocks, coalesces bursts;
// safe to use directly as an engine day-settled callback.
func (k *Keeper) Notify(engine.DaySummary) {
	select {
	case k.wake <- struct{}{}:
	default:
	}
}

// Run works rounds until ctx is cancelled. Start it in its own goroutine.
func (k *Keeper) Run(ctx context.Context) {
	k.logger.Info("Head keeper on duty")
	for {
		select {
		case <-ctx.Done():
			k.logger.Info("Head keeper clocking off")
			return
		case <-k.wake:
			k.runRound(ctx)
		}
	}
}

// runRound executes one perceive-decide-act cycle over the whole park.
func (k *Keeper) runRound(ctx context.Context) {
	res := k.engine.Submit(ctx, engine.Command{Action: engine.ActionStatus})
	if res.Err != nil {
		k.logger.Errorf("keeper round aborted: %v", res.Err)
		return
	}
	snap, ok := res.Data.(engine.ZooSnapshot)
	if !ok {
		k.logger.Errorf("keeper round aborted: unexpected status payload %T", res.Data)
		return
	}

	var done, skipped int
	for _, rule := range k.rules {
		for _, chore := range rule.Inspect(snap) {
			out := k.engine.Submit(ctx, chore.Command)
			if out.Err != nil {
				skipped++
				k.logger.Warnf("[KEEPER] could not %s: %v", chore.Reason, out.Err)
				continue
			}
			done++
			k.logger.Infof("[KEEPER] %s", chore.Reason)
		}
	}
	if done+skipped > 0 {
		k.logger.Infof("Keeper round for day %d: %d chores done, %d skipped", snap.Day, done, skipped)
	}
}

// restockRule reorders every food a living resident needs once its shelf
// hits zero. Runs first so the feeding rule can draw from stock.
func restockRule() Rule {
	return Rule{
		Name: "RESTOCK_EMPTY_SHELVES",
		Inspect: func(snap engine.ZooSnapshot) []Chore {
			needed := neededFoods(snap)
			var chores []Chore
			budget := snap.Balance
			for _, food := range needed {
				if snap.Stock[food] > 0 {
					continue
				}
				def, ok := item.GetItem(food)
				if !ok {
					continue
				}
				cost := def.Price * float64(restockTo)
				if budget-cost < cashFloor {
					continue
				}
				budget -= cost
				chores = append(chores, Chore{
					Reason:  fmt.Sprintf("restock %dx %s", restockTo, def.Name),
					Command: engine.Command{Action: engine.ActionBuyFood, Food: food, Quantity: restockTo},
				})
			}
			return chores
		},
	}
}

// medicineRule sends the vet to every living animal below the health line.
func medicineRule() Rule {
	return Rule{
		Name: "CALL_THE_VET",
		Inspect: func(snap engine.ZooSnapshot) []Chore {
			var chores []Chore
			for _, enc := range snap.Enclosures {
				for _, a := range enc.Animals {
					if !a.Alive || a.Health >= treatAt {
						continue
					}
					chores = append(chores, Chore{
						Reason:  fmt.Sprintf("treat %s the %s (health %.0f)", a.Name, a.Species, a.Health),
						Command: engine.Command{Action: engine.ActionMedicine, Animal: a.ID},
					})
				}
			}
			return chores
		},
	}
}

// feedingRule hand-feeds every animal hungrier than the feed line,
// preferring stocked food so meals do not ring the till.
func feedingRule() Rule {
	return Rule{
		Name: "FEED_THE_HUNGRY",
		Inspect: func(snap engine.ZooSnapshot) []Chore {
			var chores []Chore
			for _, enc := range snap.Enclosures {
				for _, a := range enc.Animals {
					if !a.Alive || a.Hunger <= feedAt {
						continue
					}
					food, ok := pickFood(a.Species, snap.Stock)
					if !ok {
						continue
					}
					chores = append(chores, Chore{
						Reason:  fmt.Sprintf("feed %s the %s (hunger %.0f)", a.Name, a.Species, a.Hunger),
						Command: engine.Command{Action: engine.ActionFeed, Animal: a.ID, Food: food},
					})
				}
			}
			return chores
		},
	}
}

// cleaningRule scrubs every enclosure below the cleanliness line.
func cleaningRule() Rule {
	return Rule{
		Name: "SCRUB_THE_PENS",
		Inspect: func(snap engine.ZooSnapshot) []Chore {
			var chores []Chore
			for _, enc := range snap.Enclosures {
				if enc.Cleanliness >= cleanAt {
					continue
				}
				chores = append(chores, Chore{
					Reason:  fmt.Sprintf("clean %s (cleanliness %.0f)", enc.Name, enc.Cleanliness),
					Command: engine.Command{Action: engine.ActionClean, Enclosure: enc.ID},
				})
			}
			return chores
		},
	}
}

// pickFood chooses what to feed a species: the first diet entry with stock
// on the shelf, falling back to the cheapest diet entry as a walk-up buy.
func pickFood(species string, stock map[item.ItemType]int) (item.ItemType, bool) {
	s, ok := animal.ParseSpecies(species)
	if !ok {
		return "", false
	}
	traits, ok := animal.TraitsFor(s)
	if !ok || len(traits.Diet) == 0 {
		return "", false
	}
	for _, food := range traits.Diet {
		if stock[food] > 0 {
			return food, true
		}
	}
	best := traits.Diet[0]
	for _, food := range traits.Diet[1:] {
		bd, _ := item.GetItem(best)
		fd, ok := item.GetItem(food)
		if ok && fd.Price < bd.Price {
			best = food
		}
	}
	return best, true
}

// neededFoods is the union of the diets of every living resident, in a
// stable order.
func neededFoods(snap engine.ZooSnapshot) []item.ItemType {
	present := make(map[item.ItemType]bool)
	for _, enc := range snap.Enclosures {
		for _, a := range enc.Animals {
			if !a.Alive {
				continue
			}
			s, ok := animal.ParseSpecies(a.Species)
			if !ok {
				continue
			}
			traits, ok := animal.TraitsFor(s)
			if !ok {
				continue
			}
			for _, food := range traits.Diet {
				present[food] = true
			}
		}
	}
	var out []item.ItemType
	for _, food := range item.AllFoods() {
		if present[food] {
			out = append(out, food)
		}
	}
	return out
}
