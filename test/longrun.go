// Package test - longrun.go
// Soak scenarios: drive the full engine headless for many simulated days
// and verify the park stays inside its rails the whole way.
package test

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/wildsim/ozzoo/internal/config"
	"github.com/wildsim/ozzoo/internal/domain/animal"
	"github.com/wildsim/ozzoo/internal/domain/enclosure"
	"github.com/wildsim/ozzoo/internal/domain/finance"
	"github.com/wildsim/ozzoo/internal/domain/item"
	"github.com/wildsim/ozzoo/internal/domain/zoo"
	"github.com/wildsim/ozzoo/internal/engine"
	"github.com/wildsim/ozzoo/internal/events"
	"github.com/wildsim/ozzoo/internal/platform/logger"
)

// TestResult captures the outcome of each scenario.
type TestResult struct {
	ScenarioName string
	Input        string
	Expected     string
	Actual       string
	Passed       bool
	Reason       string
}

// LongRunTest drives a seeded park through a full season of days and
// checks the state invariants after every single one.
type LongRunTest struct {
	days    int
	seed    int64
	logger  *logger.Logger
	results []TestResult
}

// NewLongRunTest creates the soak harness. The seed is fixed so failures
// reproduce.
func NewLongRunTest(days int) *LongRunTest {
	return &LongRunTest{
		days:    days,
		seed:    42,
		logger:  logger.NewLogger(),
		results: make([]TestResult, 0),
	}
}

// RunTest advances the park day by day, taking a snapshot after each
// advance and recording every invariant violation it finds.
func (t *LongRunTest) RunTest(ctx context.Context) {
	fmt.Println("\n" + strings.Repeat("=", 60))
	fmt.Printf("🧪 SOAK TEST: %d DAY SEASON\n", t.days)
	fmt.Println(strings.Repeat("=", 60))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	eventLog := events.NewEventLog()
	eng, err := t.buildPark(eventLog)
	if err != nil {
		t.fail("Season soak", "park construction", "a seeded park", err.Error(), "setup failed")
		return
	}
	go eng.Run(ctx)

	violations := make([]string, 0)
	prevDay := 0

	for i := 0; i < t.days; i++ {
		res := eng.Submit(ctx, engine.Command{Action: engine.ActionAdvanceDay})
		if res.Err != nil {
			violations = append(violations, fmt.Sprintf("advance %d failed: %v", i+1, res.Err))
			break
		}

		snap, ok := t.takeSnapshot(ctx, eng)
		if !ok {
			violations = append(violations, fmt.Sprintf("no snapshot after advance %d", i+1))
			break
		}

		if prevDay != 0 && snap.Day != prevDay+1 {
			violations = append(violations, fmt.Sprintf("day jumped from %d to %d", prevDay, snap.Day))
		}
		prevDay = snap.Day

		violations = append(violations, checkSnapshot(snap)...)
	}

	// Every completed day must have left exactly one settlement event.
	settled := len(eventLog.GetByType(events.EventTypeDaySettled))
	if settled != t.days && len(violations) == 0 {
		violations = append(violations, fmt.Sprintf("expected %d settlement events, log has %d", t.days, settled))
	}

	fmt.Println("\n📊 FINAL STATE:")
	if snap, ok := t.takeSnapshot(ctx, eng); ok {
		fmt.Printf("   Day: %d\n", snap.Day)
		fmt.Printf("   Balance: $%.2f\n", snap.Balance)
		fmt.Printf("   Animals alive: %d\n", snap.AnimalCount)
		fmt.Printf("   Events logged: %d\n", eventLog.Len())
	}

	result := TestResult{
		ScenarioName: "Season soak",
		Input:        fmt.Sprintf("advance_day x%d against the starter park", t.days),
		Expected:     "vitals and cleanliness in [0,100], days strictly incrementing, finite averages",
	}
	if len(violations) == 0 {
		result.Passed = true
		result.Actual = "no violations"
		result.Reason = fmt.Sprintf("all %d days stayed inside the rails", t.days)
	} else {
		result.Passed = false
		result.Actual = fmt.Sprintf("%d violations", len(violations))
		result.Reason = violations[0]
		for i, v := range violations {
			if i == 5 {
				fmt.Printf("   ... and %d more\n", len(violations)-5)
				break
			}
			fmt.Printf("   ❌ %s\n", v)
		}
	}
	t.results = append(t.results, result)
	printVerdict(result)
}

// GetResults returns all scenario results.
func (t *LongRunTest) GetResults() []TestResult {
	return t.results
}

func (t *LongRunTest) fail(name, input, expected, actual, reason string) {
	t.results = append(t.results, TestResult{
		ScenarioName: name, Input: input, Expected: expected,
		Actual: actual, Passed: false, Reason: reason,
	})
}

func (t *LongRunTest) takeSnapshot(ctx context.Context, eng *engine.Engine) (engine.ZooSnapshot, bool) {
	res := eng.Submit(ctx, engine.Command{Action: engine.ActionStatus})
	if res.Err != nil {
		return engine.ZooSnapshot{}, false
	}
	snap, ok := res.Data.(engine.ZooSnapshot)
	return snap, ok
}

// buildPark seeds the same residents the server opens with.
func (t *LongRunTest) buildPark(eventLog *events.EventLog) (*engine.Engine, error) {
	tun, err := config.LoadTuning("")
	if err != nil {
		return nil, err
	}

	park := zoo.New("Soak Park", finance.NewLedger(tun.Economy.StartingBalance))

	forest := enclosure.New("Forest Enclosure", enclosure.HabitatForest, 4)
	grass := enclosure.New("Grassland Enclosure", enclosure.HabitatGrassland, 5)
	aviary := enclosure.New("Aviary", enclosure.HabitatAviary, 6)
	park.AddEnclosure(forest)
	park.AddEnclosure(grass)
	park.AddEnclosure(aviary)

	starters := []struct {
		species animal.Species
		name    string
		sex     animal.Sex
		home    *enclosure.Enclosure
	}{
		{animal.SpeciesKoala, "Kiki", animal.SexFemale, forest},
		{animal.SpeciesKoala, "Koko", animal.SexMale, forest},
		{animal.SpeciesKangaroo, "Joey", animal.SexMale, grass},
		{animal.SpeciesWedgeTailedEagle, "Aerie", animal.SexFemale, aviary},
	}
	for _, s := range starters {
		a, err := animal.New(s.species, s.name, s.sex)
		if err != nil {
			return nil, err
		}
		if err := s.home.Add(a); err != nil {
			return nil, err
		}
	}

	park.AddStock(item.FoodEucalyptus, 20)
	park.AddStock(item.FoodHerbivorePellets, 30)
	park.AddStock(item.FoodSeeds, 20)
	park.AddStock(item.FoodMeaty, 10)
	park.AddStock(item.FoodGeneral, 25)
	park.AddStock(item.MedicineBasic, 5)

	rng := rand.New(rand.NewSource(t.seed))
	return engine.NewEngine(park, eventLog, t.logger, tun, time.Hour, rng), nil
}

// EmptyParkTest advances a park with no enclosures at all. The engine must
// neither panic nor produce NaN averages when there is nothing to average.
type EmptyParkTest struct {
	days    int
	logger  *logger.Logger
	results []TestResult
}

// NewEmptyParkTest creates the empty-park harness.
func NewEmptyParkTest() *EmptyParkTest {
	return &EmptyParkTest{
		days:    10,
		logger:  logger.NewLogger(),
		results: make([]TestResult, 0),
	}
}

// RunTest advances the empty park and checks the averages stay finite.
func (t *EmptyParkTest) RunTest(ctx context.Context) {
	fmt.Println("\n" + strings.Repeat("=", 60))
	fmt.Println("🧪 EDGE TEST: THE EMPTY PARK")
	fmt.Println(strings.Repeat("=", 60))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	tun, err := config.LoadTuning("")
	if err != nil {
		t.results = append(t.results, TestResult{
			ScenarioName: "Empty park", Passed: false, Reason: err.Error(),
		})
		return
	}

	park := zoo.New("Ghost Park", finance.NewLedger(tun.Economy.StartingBalance))
	eventLog := events.NewEventLog()
	eng := engine.NewEngine(park, eventLog, t.logger, tun, time.Hour, rand.New(rand.NewSource(7)))
	go eng.Run(ctx)

	violations := make([]string, 0)
	for i := 0; i < t.days; i++ {
		if res := eng.Submit(ctx, engine.Command{Action: engine.ActionAdvanceDay}); res.Err != nil {
			violations = append(violations, fmt.Sprintf("advance %d failed: %v", i+1, res.Err))
			break
		}
	}

	res := eng.Submit(ctx, engine.Command{Action: engine.ActionStatus})
	snap, ok := res.Data.(engine.ZooSnapshot)
	switch {
	case res.Err != nil || !ok:
		violations = append(violations, "no final snapshot")
	default:
		if snap.Day != t.days+1 {
			violations = append(violations, fmt.Sprintf("expected day %d, got %d", t.days+1, snap.Day))
		}
		if snap.AnimalCount != 0 {
			violations = append(violations, fmt.Sprintf("ghost park counts %d animals", snap.AnimalCount))
		}
		// With nothing to average, the snapshot reports the neutral
		// stand-ins: 50 happiness, 100 cleanliness.
		if snap.AvgHappiness != 50 || snap.AvgCleanliness != 100 {
			violations = append(violations, fmt.Sprintf("averages off neutral: happiness %.2f cleanliness %.2f",
				snap.AvgHappiness, snap.AvgCleanliness))
		}
		violations = append(violations, checkSnapshot(snap)...)
	}

	result := TestResult{
		ScenarioName: "Empty park",
		Input:        fmt.Sprintf("advance_day x%d with zero enclosures", t.days),
		Expected:     "no panic, neutral averages, day counter still moves",
	}
	if len(violations) == 0 {
		result.Passed = true
		result.Actual = "no violations"
		result.Reason = "the engine idles cleanly with nothing to simulate"
	} else {
		result.Passed = false
		result.Actual = fmt.Sprintf("%d violations", len(violations))
		result.Reason = violations[0]
		for _, v := range violations {
			fmt.Printf("   ❌ %s\n", v)
		}
	}
	t.results = append(t.results, result)
	printVerdict(result)
}

// GetResults returns all scenario results.
func (t *EmptyParkTest) GetResults() []TestResult {
	return t.results
}

// checkSnapshot returns one violation string per value outside its rails.
func checkSnapshot(snap engine.ZooSnapshot) []string {
	v := make([]string, 0)

	if math.IsNaN(snap.Balance) || math.IsInf(snap.Balance, 0) {
		v = append(v, fmt.Sprintf("day %d: balance is not finite", snap.Day))
	}
	if !finite01(snap.AvgHappiness) {
		v = append(v, fmt.Sprintf("day %d: avg happiness out of range: %.2f", snap.Day, snap.AvgHappiness))
	}
	if !finite01(snap.AvgCleanliness) {
		v = append(v, fmt.Sprintf("day %d: avg cleanliness out of range: %.2f", snap.Day, snap.AvgCleanliness))
	}
	if snap.Visitors.Count < 0 {
		v = append(v, fmt.Sprintf("day %d: negative visitor count %d", snap.Day, snap.Visitors.Count))
	}
	if !finite01(snap.Visitors.Satisfaction) {
		v = append(v, fmt.Sprintf("day %d: visitor satisfaction out of range: %.2f", snap.Day, snap.Visitors.Satisfaction))
	}

	living := 0
	for _, enc := range snap.Enclosures {
		if !finite01(enc.Cleanliness) {
			v = append(v, fmt.Sprintf("day %d: %s cleanliness out of range: %.2f", snap.Day, enc.Name, enc.Cleanliness))
		}
		for _, a := range enc.Animals {
			if a.Alive {
				living++
			}
			if !finite01(a.Hunger) || !finite01(a.Health) || !finite01(a.Happiness) {
				v = append(v, fmt.Sprintf("day %d: %s vitals out of range: hunger %.2f health %.2f happiness %.2f",
					snap.Day, a.Name, a.Hunger, a.Health, a.Happiness))
			}
		}
	}
	if living != snap.AnimalCount {
		v = append(v, fmt.Sprintf("day %d: snapshot counts %d animals but lists %d alive", snap.Day, snap.AnimalCount, living))
	}

	for food, qty := range snap.Stock {
		if qty < 0 {
			v = append(v, fmt.Sprintf("day %d: negative stock for %s: %d", snap.Day, food, qty))
		}
	}

	return v
}

func finite01(x float64) bool {
	return !math.IsNaN(x) && x >= 0 && x <= 100
}

func printVerdict(r TestResult) {
	fmt.Println("\n" + strings.Repeat("=", 60))
	if r.Passed {
		fmt.Printf("✅ TEST PASSED: %s\n", r.ScenarioName)
	} else {
		fmt.Printf("❌ TEST FAILED: %s\n", r.ScenarioName)
	}
	fmt.Println("   " + r.Reason)
	fmt.Println(strings.Repeat("=", 60))
}
