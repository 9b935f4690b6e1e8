package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Tuning holds every numeric constant of the simulation. These are balance
// parameters, not architectural contracts: the defaults ship embedded in
// the binary and a YAML file can override any subset of them.
type Tuning struct {
	Animal    AnimalTuning    `yaml:"animal"`
	Enclosure EnclosureTuning `yaml:"enclosure"`
	Visitor   VisitorTuning   `yaml:"visitor"`
	Incident  IncidentTuning  `yaml:"incident"`
	Breeding  BreedingTuning  `yaml:"breeding"`
	Economy   EconomyTuning   `yaml:"economy"`
}

// AnimalTuning drives the daily metabolism pass.
type AnimalTuning struct {
	HungerDailyMin        float64 `yaml:"hunger_daily_min"`        // Daily hunger gain, lower bound
	HungerDailyMax        float64 `yaml:"hunger_daily_max"`        // Daily hunger gain, upper bound
	UnfedExtraHunger      float64 `yaml:"unfed_extra_hunger"`      // Extra gain when the auto-feeder found nothing
	HungerSadThreshold    float64 `yaml:"hunger_sad_threshold"`    // Above this, hunger eats happiness
	HungerSadFactor       float64 `yaml:"hunger_sad_factor"`       // Happiness lost per hunger point over threshold
	HungerSickThreshold   float64 `yaml:"hunger_sick_threshold"`   // Above this, hunger eats health
	HungerSickFactor      float64 `yaml:"hunger_sick_factor"`      // Health lost per hunger point over threshold
	ContentHungerBelow    float64 `yaml:"content_hunger_below"`    // Regen gate: hunger below this
	ContentHappinessAbove float64 `yaml:"content_happiness_above"` // Regen gate: happiness above this
	ContentRegen          float64 `yaml:"content_regen"`           // Daily health regen for content animals
	SenescenceDecline     float64 `yaml:"senescence_decline"`      // Daily health loss past the species old-age threshold
	AutoFeedHungerAt      float64 `yaml:"auto_feed_hunger_at"`     // Auto-feeder steps in at this hunger
	AutoFeedNutrition     float64 `yaml:"auto_feed_nutrition"`     // Nutrition of an auto-fed serving (hand-feeding uses the food's own value)
	LowHealthAlert        float64 `yaml:"low_health_alert"`        // Health observers fire when health crosses below this
}

// EnclosureTuning drives daily soiling and the cleaning economy.
type EnclosureTuning struct {
	DecayPerAnimal     float64 `yaml:"decay_per_animal"`     // Cleanliness lost per occupant per day
	UpgradeResistance  float64 `yaml:"upgrade_resistance"`   // Fractional decay reduction per upgrade level past the first
	DirtyThreshold     float64 `yaml:"dirty_threshold"`      // Below this cleanliness, occupants suffer
	DirtyHappinessLoss float64 `yaml:"dirty_happiness_loss"` // Daily happiness loss in a dirty enclosure
	DirtyHealthLoss    float64 `yaml:"dirty_health_loss"`    // Daily health loss in a dirty enclosure
	CleanBaseCost      float64 `yaml:"clean_base_cost"`      // Cleaning fee before the per-occupant surcharge
	UpgradeBaseCost    float64 `yaml:"upgrade_base_cost"`    // Upgrade fee per current level
}

// VisitorTuning drives the daily gate.
type VisitorTuning struct {
	MinVisitors int     `yaml:"min_visitors"` // Gate count at zero attractiveness
	MaxVisitors int     `yaml:"max_visitors"` // Gate count at full attractiveness
	TicketPrice float64 `yaml:"ticket_price"` // Flat admission per visitor
	BudgetMin   float64 `yaml:"budget_min"`   // Per-visitor stall budget, lower bound
	BudgetMax   float64 `yaml:"budget_max"`   // Per-visitor stall budget, upper bound
}

// IncidentTuning drives the daily random incident roll. The chances are
// cumulative brackets over a single uniform roll, so at most one incident
// fires per day.
type IncidentTuning struct {
	HeatwaveChance          float64 `yaml:"heatwave_chance"`
	DonationChance          float64 `yaml:"donation_chance"`
	EscapeChance            float64 `yaml:"escape_chance"`
	HeatwaveHungerGain      float64 `yaml:"heatwave_hunger_gain"`      // Per animal
	HeatwaveHealthLoss      float64 `yaml:"heatwave_health_loss"`      // Per animal
	HeatwaveHappinessLoss   float64 `yaml:"heatwave_happiness_loss"`   // Per animal
	HeatwaveCleanlinessLoss float64 `yaml:"heatwave_cleanliness_loss"` // Per enclosure
	HeatwaveCoolingCost     float64 `yaml:"heatwave_cooling_cost"`
	DonationBalanceGate     float64 `yaml:"donation_balance_gate"` // Donors only give to a solvent zoo
	DonationMin             float64 `yaml:"donation_min"`
	DonationMax             float64 `yaml:"donation_max"`
	EscapeRepairCost        float64 `yaml:"escape_repair_cost"` // Swallowed if the ledger cannot cover it
}

// BreedingTuning gates the breeding command.
type BreedingTuning struct {
	MinHealth    float64 `yaml:"min_health"`    // Both parents need at least this health
	MinHappiness float64 `yaml:"min_happiness"` // Both parents need at least this happiness
}

// EconomyTuning holds the remaining money knobs.
type EconomyTuning struct {
	StartingBalance float64 `yaml:"starting_balance"`
	SellFraction    float64 `yaml:"sell_fraction"` // Resale pays this fraction of the species price
}

// LoadTuning returns the embedded defaults, overlaid with the YAML file at
// path when one is given.
func LoadTuning(path string) (*Tuning, error) {
	t := &Tuning{}
	if err := yaml.Unmarshal(defaultsYAML, t); err != nil {
		return nil, fmt.Errorf("embedded tuning defaults are broken: %w", err)
	}
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading tuning override %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, t); err != nil {
			return nil, fmt.Errorf("parsing tuning override %s: %w", path, err)
		}
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// Validate rejects tuning values that would break simulation invariants.
func (t *Tuning) Validate() error {
	if t.Animal.HungerDailyMax < t.Animal.HungerDailyMin {
		return fmt.Errorf("animal.hunger_daily_max %.1f below min %.1f", t.Animal.HungerDailyMax, t.Animal.HungerDailyMin)
	}
	if t.Visitor.MaxVisitors < t.Visitor.MinVisitors {
		return fmt.Errorf("visitor.max_visitors %d below min %d", t.Visitor.MaxVisitors, t.Visitor.MinVisitors)
	}
	total := t.Incident.HeatwaveChance + t.Incident.DonationChance + t.Incident.EscapeChance
	if total > 1 {
		return fmt.Errorf("incident chances sum to %.2f, must stay within 1.0", total)
	}
	if t.Economy.SellFraction < 0 || t.Economy.SellFraction > 1 {
		return fmt.Errorf("economy.sell_fraction %.2f outside [0,1]", t.Economy.SellFraction)
	}
	return nil
}
