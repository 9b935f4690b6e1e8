package main

import (
	"context"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/wildsim/ozzoo/internal/config"
	"github.com/wildsim/ozzoo/internal/domain/animal"
	"github.com/wildsim/ozzoo/internal/domain/enclosure"
	"github.com/wildsim/ozzoo/internal/domain/finance"
	"github.com/wildsim/ozzoo/internal/domain/item"
	"github.com/wildsim/ozzoo/internal/domain/zoo"
	"github.com/wildsim/ozzoo/internal/engine"
	"github.com/wildsim/ozzoo/internal/events"
	"github.com/wildsim/ozzoo/internal/keeper"
	"github.com/wildsim/ozzoo/internal/platform/logger"
)

// FitnessEvaluator runs headless keeper-tended seasons and computes
// fitness. Lower is better.
type FitnessEvaluator struct {
	params     *ParamVector
	maxDays    int
	seeds      []int64
	baseTuning *config.Tuning

	// Best run tracking
	mu          sync.Mutex
	bestFitness float64
	bestSeason  []engine.DaySummary
	lastQuality float64 // quality from most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxDays int, seeds []int64, baseTun *config.Tuning) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		maxDays:     maxDays,
		seeds:       seeds,
		baseTuning:  baseTun,
		bestFitness: math.Inf(1),
	}
}

// BestSeason returns the day-by-day summaries from the best evaluation.
func (fe *FitnessEvaluator) BestSeason() []engine.DaySummary {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.bestSeason
}

// LastQuality returns the quality score from the most recent evaluation.
func (fe *FitnessEvaluator) LastQuality() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastQuality
}

// runResult holds the results from a single season run.
type runResult struct {
	survivalDays int                 // days before the park lost its last animal (or maxDays)
	summaries    []engine.DaySummary // one settlement record per completed day
}

// seedResult holds the result from one seed evaluation.
type seedResult struct {
	fitness float64
	quality float64
	season  []engine.DaySummary
}

// Evaluate computes fitness for a parameter vector (lower = better).
// Fitness is negative survival days: the longer the keeper can hold the
// park together, the lower (better) the fitness.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	// Run all seeds in parallel
	results := make([]seedResult, len(fe.seeds))
	var wg sync.WaitGroup

	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			result := fe.runSeason(x, s)
			results[idx] = seedResult{
				fitness: fe.computeFitness(result),
				quality: fe.computeQuality(result.summaries),
				season:  result.summaries,
			}
		}(i, seed)
	}
	wg.Wait()

	// Aggregate results
	var totalFitness, totalQuality float64
	bestSeedFitness := math.Inf(1)
	var bestSeedSeason []engine.DaySummary

	for _, r := range results {
		totalFitness += r.fitness
		totalQuality += r.quality
		if r.fitness < bestSeedFitness {
			bestSeedFitness = r.fitness
			bestSeedSeason = r.season
		}
	}

	n := float64(len(fe.seeds))
	avgFitness := totalFitness / n

	// Update best tracking
	fe.mu.Lock()
	if avgFitness < fe.bestFitness {
		fe.bestFitness = avgFitness
		fe.bestSeason = bestSeedSeason
	}
	fe.lastQuality = totalQuality / n
	fe.mu.Unlock()

	return avgFitness
}

// runSeason executes one headless season: the engine advances a day at a
// time and the keeper's standard chore table tends the park after each
// settle, exactly as the live server would. The run ends early when the
// last animal dies.
func (fe *FitnessEvaluator) runSeason(x []float64, seed int64) *runResult {
	tun := fe.copyTuning()
	fe.params.ApplyToTuning(tun, x)

	// Errors only; a season per evaluation would otherwise flood stdout.
	log := logger.Must(logger.New("error", false))

	park, err := seedPark(tun)
	if err != nil {
		return &runResult{}
	}

	eventLog := events.NewEventLog()
	rng := rand.New(rand.NewSource(seed))
	eng := engine.NewEngine(park, eventLog, log, tun, time.Hour, rng)

	// Settlement callbacks run on the engine goroutine before Submit
	// returns, so reading this slice between Submits is ordered.
	summaries := make([]engine.DaySummary, 0, fe.maxDays)
	eng.OnDaySettled(func(s engine.DaySummary) {
		summaries = append(summaries, s)
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go eng.Run(ctx)

	rules := keeper.DefaultRules()
	result := &runResult{}

	for day := 1; day <= fe.maxDays; day++ {
		if res := eng.Submit(ctx, engine.Command{Action: engine.ActionAdvanceDay}); res.Err != nil {
			break
		}

		res := eng.Submit(ctx, engine.Command{Action: engine.ActionStatus})
		snap, ok := res.Data.(engine.ZooSnapshot)
		if res.Err != nil || !ok {
			break
		}

		if snap.AnimalCount == 0 {
			result.survivalDays = day
			result.summaries = summaries
			return result
		}

		// The keeper's round: rejected chores are simply skipped, the
		// same as the live autopilot.
		for _, rule := range rules {
			for _, chore := range rule.Inspect(snap) {
				eng.Submit(ctx, chore.Command)
			}
		}
	}

	result.survivalDays = fe.maxDays
	result.summaries = summaries
	return result
}

// copyTuning returns a private copy of the base tuning. Tuning is a flat
// value struct, so assignment is a deep copy.
func (fe *FitnessEvaluator) copyTuning() *config.Tuning {
	c := *fe.baseTuning
	return &c
}

// seedPark builds the same starter park the server opens with.
func seedPark(tun *config.Tuning) (*zoo.Zoo, error) {
	park := zoo.New("Tuning Park", finance.NewLedger(tun.Economy.StartingBalance))

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

	return park, nil
}

// computeFitness calculates the scalar fitness (lower = better).
// Formula: -(survivalDays × (1.0 + 0.2 × quality))
// Survival dominates; quality adds up to 20% bonus to differentiate
// tunings that keep the park alive equally long.
func (fe *FitnessEvaluator) computeFitness(r *runResult) float64 {
	survival := float64(r.survivalDays)
	quality := fe.computeQuality(r.summaries)
	return -(survival * (1.0 + 0.2*quality))
}

// Quality component weights.
const (
	qualityWeightWelfare   = 0.30
	qualityWeightSolvency  = 0.25
	qualityWeightCrowd     = 0.25
	qualityWeightStability = 0.20

	qualityWarmupDays = 3 // skip first N days (stock and routines settling)
)

// computeQuality scores a season ∈ [0, 1] from its settlement records.
// A good tuning keeps happiness around 70, earns a modest daily surplus,
// sends visitors home around 65 satisfaction, and draws a steady gate.
func (fe *FitnessEvaluator) computeQuality(season []engine.DaySummary) float64 {
	if len(season) <= qualityWarmupDays {
		return 0
	}

	valid := season[qualityWarmupDays:]

	var welfareSum, crowdSum, netSum float64
	var count int
	gate := make([]float64, 0, len(valid))

	for _, s := range valid {
		if s.Animals == 0 {
			continue
		}

		gate = append(gate, float64(s.Visitors))

		welfareSum += math.Exp(-math.Pow((s.AvgHappiness-70.0)/20.0, 2))
		crowdSum += math.Exp(-math.Pow((s.Satisfaction-65.0)/25.0, 2))
		netSum += s.Net
		count++
	}

	// No valid days → zero quality
	if count == 0 {
		return 0
	}

	welfareScore := welfareSum / float64(count)
	crowdScore := crowdSum / float64(count)

	// A healthy park earns a little every day; runaway profit scores as
	// badly as a slow bleed.
	meanNet := netSum / float64(count)
	solvencyScore := math.Exp(-math.Pow((meanNet-50.0)/150.0, 2))

	// Steady attendance (low coefficient of variation across the season)
	stabilityScore := 0.0
	if len(gate) >= 2 {
		cvGate := cv(gate)
		stabilityScore = math.Exp(-(cvGate * cvGate))
	}

	quality := qualityWeightWelfare*welfareScore +
		qualityWeightSolvency*solvencyScore +
		qualityWeightCrowd*crowdScore +
		qualityWeightStability*stabilityScore

	return clamp01(quality)
}

// cv computes the coefficient of variation (std/mean) for a slice of values.
func cv(values []float64) float64 {
	n := float64(len(values))
	if n == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / n
	if mean == 0 {
		return 0
	}
	var sqDiff float64
	for _, v := range values {
		d := v - mean
		sqDiff += d * d
	}
	return math.Sqrt(sqDiff/n) / mean
}

// clamp01 clamps x to [0, 1].
func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
