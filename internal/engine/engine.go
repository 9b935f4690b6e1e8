package engine

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/wildsim/ozzoo/internal/config"
	"github.com/wildsim/ozzoo/internal/domain/animal"
	"github.com/wildsim/ozzoo/internal/domain/item"
	"github.com/wildsim/ozzoo/internal/domain/rules"
	"github.com/wildsim/ozzoo/internal/domain/zoo"
	"github.com/wildsim/ozzoo/internal/events"
	"github.com/wildsim/ozzoo/internal/platform/logger"
	"github.com/wildsim/ozzoo/internal/platform/metrics"
)

// commandBuffer bounds how many commands can queue while a day is running.
const commandBuffer = 32

// Engine is the central orchestrator: it owns the zoo, the day clock, and
// every subsystem, and is the only goroutine that mutates them.
type Engine struct {
	zoo      *zoo.Zoo
	eventLog *events.EventLog
	logger   *logger.Logger
	clock    *Clock
	tuning   *config.Tuning
	interval time.Duration
	rng      *rand.Rand

	// Sub-systems
	husbandry  *HusbandrySystem
	habitat    *HabitatSystem
	inventory  *InventorySystem
	breeding   *BreedingSystem
	visitors   *VisitorSystem
	incidents  *IncidentSystem
	settlement *SettlementSystem

	commands     chan Command
	onDaySettled []func(DaySummary)
}

// NewEngine wires up the zoo with all simulation subsystems. The interval
// is the real-time length of one day in auto mode.
func NewEngine(z *zoo.Zoo, eventLog *events.EventLog, log *logger.Logger, tun *config.Tuning, interval time.Duration, rng *rand.Rand) *Engine {
	return &Engine{
		zoo:      z,
		eventLog: eventLog,
		logger:   log,
		clock:    NewClock(interval, log),
		tuning:   tun,
		interval: interval,
		rng:      rng,

		husbandry:  NewHusbandrySystem(eventLog, log, tun.Animal, rng),
		habitat:    NewHabitatSystem(eventLog, log, tun.Enclosure),
		inventory:  NewInventorySystem(eventLog, log),
		breeding:   NewBreedingSystem(eventLog, log, tun.Breeding, rng),
		visitors:   NewVisitorSystem(eventLog, log, tun.Visitor, rng),
		incidents:  NewIncidentSystem(eventLog, log, tun.Incident, rng),
		settlement: NewSettlementSystem(eventLog, log),

		commands: make(chan Command, commandBuffer),
	}
}

// OnDaySettled registers a callback invoked after each completed day.
// Callbacks run on the engine goroutine and must not block or call Submit.
// Register before Run starts.
func (e *Engine) OnDaySettled(fn func(DaySummary)) {
	e.onDaySettled = append(e.onDaySettled, fn)
}

// OnWelfareAlert registers a welfare observer with the husbandry system.
// Same rules as OnDaySettled: register before Run, never block.
func (e *Engine) OnWelfareAlert(fn WelfareObserver) {
	e.husbandry.AddObserver(fn)
}

// StartAutoOnBoot engages auto mode before the loop starts. Used when the
// server is configured to open the gates immediately.
func (e *Engine) StartAutoOnBoot() error {
	return e.clock.StartAuto()
}

// Run is the engine's single mutator loop. It blocks until ctx is
// cancelled, serving submitted commands and auto-mode day ticks in arrival
// order.
func (e *Engine) Run(ctx context.Context) {
	e.logger.Infof("Engine running for %s (day %d, %d animals)", e.zoo.Name, e.zoo.Day, e.zoo.AnimalCount())
	for {
		select {
		case <-ctx.Done():
			e.clock.Stop()
			e.logger.Info("Engine stopped")
			return
		case cmd := <-e.commands:
			res := e.handleCommand(cmd)
			if cmd.replyTo != nil {
				cmd.replyTo <- res
			}
		case <-e.clock.TickC():
			if _, err := e.advanceDay(); err != nil {
				e.logger.Errorf("auto advance failed: %v", err)
			}
		}
	}
}

// Submit sends a command to the engine loop and waits for its result. Safe
// to call from any goroutine except the engine's own callbacks.
func (e *Engine) Submit(ctx context.Context, cmd Command) CommandResult {
	cmd.replyTo = make(chan CommandResult, 1)
	select {
	case e.commands <- cmd:
	case <-ctx.Done():
		return CommandResult{Err: ctx.Err()}
	}
	select {
	case res := <-cmd.replyTo:
		return res
	case <-ctx.Done():
		return CommandResult{Err: ctx.Err()}
	}
}

// handleCommand dispatches one command to its handler. Every path records a
// metric; failed commands leave the zoo exactly as it was.
func (e *Engine) handleCommand(cmd Command) CommandResult {
	var res CommandResult
	switch cmd.Action {
	case ActionStatus:
		res = e.handleStatus()
	case ActionReport:
		res = e.handleReport()
	case ActionAdvanceDay:
		res = e.handleAdvanceDay()
	case ActionStartAuto:
		res = e.handleStartAuto()
	case ActionPause:
		res = e.handlePause()
	case ActionResume:
		res = e.handleResume()
	case ActionFeed:
		res = e.handleFeed(cmd)
	case ActionMedicine:
		res = e.handleMedicine(cmd)
	case ActionBreed:
		res = e.handleBreed(cmd)
	case ActionBuyFood:
		res = e.handleBuyFood(cmd)
	case ActionBuyAnimal:
		res = e.handleBuyAnimal(cmd)
	case ActionSellAnimal:
		res = e.handleSellAnimal(cmd)
	case ActionMoveAnimal:
		res = e.handleMoveAnimal(cmd)
	case ActionClean:
		res = e.handleClean(cmd)
	case ActionUpgrade:
		res = e.handleUpgrade(cmd)
	default:
		res = CommandResult{Err: &rules.InvalidActionError{Reason: fmt.Sprintf("unknown action %q", cmd.Action)}}
	}

	metrics.Get().RecordCommand(res.Err)
	if res.Err != nil && res.Message == "" {
		res.Message = res.Err.Error()
	}
	return res
}

// advanceDay runs one full day if the clock allows it.
func (e *Engine) advanceDay() (DaySummary, error) {
	if err := e.clock.BeginDay(); err != nil {
		return DaySummary{}, err
	}
	start := time.Now()
	summary := e.runDay()
	e.clock.EndDay()
	metrics.Get().RecordDay(time.Since(start))
	for _, fn := range e.onDaySettled {
		fn(summary)
	}
	return summary, nil
}

// runDay executes the fixed phase order for one simulated day: husbandry,
// habitat effects, visitors, the incident roll, settlement.
func (e *Engine) runDay() DaySummary {
	day := e.zoo.Day
	e.eventLog.Append(events.NewEvent(events.EventTypeDayTick, day, e.zoo.Name,
		fmt.Sprintf("Day %d begins at %s", day, e.zoo.Name)))

	deaths := e.husbandry.OnDayTick(e.zoo)
	e.habitat.OnDayTick(e.zoo)
	visitors := e.visitors.OnDayTick(e.zoo)
	incident := e.incidents.OnDayTick(e.zoo)
	summary := e.settlement.OnDayTick(e.zoo, deaths, visitors, incident)

	e.zoo.Day++
	return summary
}

func (e *Engine) handleStatus() CommandResult {
	snap := snapshotZoo(e.zoo, e.clock.Mode())
	return CommandResult{
		Message: fmt.Sprintf("%s, day %d: $%.2f, %d animals, %d visitors yesterday",
			snap.Name, snap.Day, snap.Balance, snap.AnimalCount, snap.Visitors.Count),
		Data: snap,
	}
}

func (e *Engine) handleReport() CommandResult {
	data := ReportData{
		Snapshot: snapshotZoo(e.zoo, e.clock.Mode()),
		History:  e.zoo.Ledger.History(),
		Events:   e.eventLog.Replay(),
	}
	return CommandResult{
		Message: fmt.Sprintf("Report data through day %d", e.zoo.Day),
		Data:    data,
	}
}

func (e *Engine) handleAdvanceDay() CommandResult {
	summary, err := e.advanceDay()
	if err != nil {
		return CommandResult{Err: err}
	}
	return CommandResult{
		Message: fmt.Sprintf("Day %d complete: %d visitors, net $%+.2f, balance $%.2f",
			summary.Day, summary.Visitors, summary.Net, summary.Balance),
		Data: summary,
	}
}

func (e *Engine) handleStartAuto() CommandResult {
	if err := e.clock.StartAuto(); err != nil {
		return CommandResult{Err: err}
	}
	return CommandResult{Message: fmt.Sprintf("Auto advance engaged: one day every %s", e.interval)}
}

func (e *Engine) handlePause() CommandResult {
	if err := e.clock.Pause(); err != nil {
		return CommandResult{Err: err}
	}
	return CommandResult{Message: fmt.Sprintf("Simulation paused at day %d", e.zoo.Day)}
}

func (e *Engine) handleResume() CommandResult {
	if err := e.clock.Resume(); err != nil {
		return CommandResult{Err: err}
	}
	return CommandResult{Message: "Auto advance resumed"}
}

func (e *Engine) handleFeed(cmd Command) CommandResult {
	a, _ := e.zoo.FindAnimal(cmd.Animal)
	if a == nil {
		return CommandResult{Err: &rules.InvalidActionError{Reason: fmt.Sprintf("no animal matching %q", cmd.Animal)}}
	}
	if !a.Alive {
		return CommandResult{Err: &rules.InvalidActionError{Reason: fmt.Sprintf("%s is no longer with us", a.Name)}}
	}
	def, ok := item.GetItem(cmd.Food)
	if !ok || !def.IsFood {
		return CommandResult{Err: &rules.InvalidActionError{Reason: fmt.Sprintf("%s is not food", cmd.Food)}}
	}
	if err := e.inventory.TakeItem(e.zoo, cmd.Food); err != nil {
		return CommandResult{Err: err}
	}
	res, err := e.husbandry.FeedAnimal(e.zoo, a, cmd.Food)
	if err != nil {
		return CommandResult{Err: err}
	}
	return CommandResult{Message: res.Message}
}

func (e *Engine) handleMedicine(cmd Command) CommandResult {
	a, _ := e.zoo.FindAnimal(cmd.Animal)
	if a == nil {
		return CommandResult{Err: &rules.InvalidActionError{Reason: fmt.Sprintf("no animal matching %q", cmd.Animal)}}
	}
	if !a.Alive {
		return CommandResult{Err: &rules.InvalidActionError{Reason: fmt.Sprintf("%s is beyond medicine", a.Name)}}
	}
	if err := e.inventory.TakeItem(e.zoo, item.MedicineBasic); err != nil {
		return CommandResult{Err: err}
	}
	if err := e.husbandry.TreatAnimal(e.zoo, a); err != nil {
		return CommandResult{Err: err}
	}
	return CommandResult{Message: fmt.Sprintf("%s the %s was treated (health %.1f)", a.Name, a.Species, a.Health)}
}

func (e *Engine) handleBreed(cmd Command) CommandResult {
	out, err := e.breeding.Breed(e.zoo, cmd.Animal, cmd.AnimalB)
	if err != nil {
		return CommandResult{Err: err}
	}
	if out.Offspring == nil {
		return CommandResult{Message: fmt.Sprintf("No luck this season (%.0f%% chance)", out.Chance*100)}
	}
	return CommandResult{
		Message: fmt.Sprintf("%s the %s was born in %s!", out.Offspring.Name, out.Offspring.Species, out.Enclosure.Name),
		Data:    viewAnimal(out.Offspring),
	}
}

func (e *Engine) handleBuyFood(cmd Command) CommandResult {
	cost, err := e.inventory.BuyFood(e.zoo, cmd.Food, cmd.Quantity)
	if err != nil {
		return CommandResult{Err: err}
	}
	return CommandResult{
		Message: fmt.Sprintf("Bought %dx %s for $%.2f (stock now %d)",
			cmd.Quantity, cmd.Food, cost, e.zoo.StockOf(cmd.Food)),
	}
}

// handleBuyAnimal validates everything before any money moves: a rejected
// purchase must leave no trace.
func (e *Engine) handleBuyAnimal(cmd Command) CommandResult {
	sp, ok := animal.ParseSpecies(cmd.Species)
	if !ok {
		return CommandResult{Err: &rules.InvalidActionError{Reason: fmt.Sprintf("unknown species %q", cmd.Species)}}
	}
	traits, _ := animal.TraitsFor(sp)
	enc := e.zoo.FindEnclosure(cmd.Enclosure)
	if enc == nil {
		return CommandResult{Err: &rules.InvalidActionError{Reason: fmt.Sprintf("no enclosure matching %q", cmd.Enclosure)}}
	}
	if enc.Count() >= enc.Capacity {
		return CommandResult{Err: &rules.CapacityError{Enclosure: enc.Name, Capacity: enc.Capacity}}
	}
	if !enc.Habitat.Accepts(sp) {
		return CommandResult{Err: &rules.IncompatibilityError{
			Detail: fmt.Sprintf("a %s cannot live in %s (%s habitat)", sp, enc.Name, enc.Habitat),
		}}
	}

	sex := animal.SexFemale
	if e.rng.Float64() < 0.5 {
		sex = animal.SexMale
	}
	a, err := animal.New(sp, cmd.Name, sex)
	if err != nil {
		return CommandResult{Err: err}
	}
	if err := e.zoo.Ledger.Debit(e.zoo.Day, traits.Price, fmt.Sprintf("Bought %s the %s", a.Name, sp)); err != nil {
		return CommandResult{Err: err}
	}
	if err := enc.Add(a); err != nil {
		return CommandResult{Err: err}
	}

	e.eventLog.Append(events.NewEvent(events.EventTypeAnimalBought, e.zoo.Day, a.ID,
		fmt.Sprintf("%s the %s arrived in %s for $%.2f", a.Name, sp, enc.Name, traits.Price)))
	return CommandResult{
		Message: fmt.Sprintf("%s the %s has arrived in %s ($%.2f)", a.Name, sp, enc.Name, traits.Price),
		Data:    viewAnimal(a),
	}
}

func (e *Engine) handleSellAnimal(cmd Command) CommandResult {
	a, _ := e.zoo.FindAnimal(cmd.Animal)
	if a == nil {
		return CommandResult{Err: &rules.InvalidActionError{Reason: fmt.Sprintf("no animal matching %q", cmd.Animal)}}
	}
	if !a.Alive {
		return CommandResult{Err: &rules.InvalidActionError{Reason: "cannot sell a dead animal"}}
	}
	price := a.Traits().Price * e.tuning.Economy.SellFraction
	e.zoo.RemoveAnimal(a.ID)
	if err := e.zoo.Ledger.Credit(e.zoo.Day, price, fmt.Sprintf("Sold %s the %s", a.Name, a.Species)); err != nil {
		return CommandResult{Err: err}
	}
	e.eventLog.Append(events.NewEvent(events.EventTypeAnimalSold, e.zoo.Day, a.ID,
		fmt.Sprintf("%s the %s was sold to another zoo for $%.2f", a.Name, a.Species, price)))
	return CommandResult{Message: fmt.Sprintf("Sold %s the %s for $%.2f", a.Name, a.Species, price)}
}

func (e *Engine) handleMoveAnimal(cmd Command) CommandResult {
	a, from := e.zoo.FindAnimal(cmd.Animal)
	if a == nil {
		return CommandResult{Err: &rules.InvalidActionError{Reason: fmt.Sprintf("no animal matching %q", cmd.Animal)}}
	}
	dest := e.zoo.FindEnclosure(cmd.Enclosure)
	if dest == nil {
		return CommandResult{Err: &rules.InvalidActionError{Reason: fmt.Sprintf("no enclosure matching %q", cmd.Enclosure)}}
	}
	if dest == from {
		return CommandResult{Err: &rules.InvalidActionError{Reason: fmt.Sprintf("%s already lives in %s", a.Name, dest.Name)}}
	}
	if dest.Count() >= dest.Capacity {
		return CommandResult{Err: &rules.CapacityError{Enclosure: dest.Name, Capacity: dest.Capacity}}
	}
	if !dest.Habitat.Accepts(a.Species) {
		return CommandResult{Err: &rules.IncompatibilityError{
			Detail: fmt.Sprintf("a %s cannot live in %s (%s habitat)", a.Species, dest.Name, dest.Habitat),
		}}
	}

	from.Remove(a.ID)
	if err := dest.Add(a); err != nil {
		return CommandResult{Err: err}
	}
	e.eventLog.Append(events.NewEvent(events.EventTypeAnimalMoved, e.zoo.Day, a.ID,
		fmt.Sprintf("%s the %s moved from %s to %s", a.Name, a.Species, from.Name, dest.Name)))
	return CommandResult{Message: fmt.Sprintf("%s moved to %s", a.Name, dest.Name)}
}

func (e *Engine) handleClean(cmd Command) CommandResult {
	enc := e.zoo.FindEnclosure(cmd.Enclosure)
	if enc == nil {
		return CommandResult{Err: &rules.InvalidActionError{Reason: fmt.Sprintf("no enclosure matching %q", cmd.Enclosure)}}
	}
	cost, err := e.habitat.Clean(e.zoo, enc)
	if err != nil {
		return CommandResult{Err: err}
	}
	return CommandResult{Message: fmt.Sprintf("%s cleaned for $%.2f", enc.Name, cost)}
}

func (e *Engine) handleUpgrade(cmd Command) CommandResult {
	enc := e.zoo.FindEnclosure(cmd.Enclosure)
	if enc == nil {
		return CommandResult{Err: &rules.InvalidActionError{Reason: fmt.Sprintf("no enclosure matching %q", cmd.Enclosure)}}
	}
	cost, err := e.habitat.Upgrade(e.zoo, enc)
	if err != nil {
		return CommandResult{Err: err}
	}
	return CommandResult{Message: fmt.Sprintf("%s upgraded to level %d for $%.2f", enc.Name, enc.UpgradeLevel, cost)}
}
