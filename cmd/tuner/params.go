// Package main provides CMA-ES search over simulation tuning values.
package main

import (
	"github.com/wildsim/ozzoo/internal/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Tuning path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of optimizable parameters.
// Values the search must not touch stay locked: the starting balance and
// sell fraction define the economy contract, and the donation chance is
// pinned so the incident brackets cannot sum past 1.0.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			// Metabolism
			{Name: "hunger_daily_min", Path: "animal.hunger_daily_min", Min: 2, Max: 10, Default: 5},
			{Name: "hunger_daily_max", Path: "animal.hunger_daily_max", Min: 8, Max: 25, Default: 15},
			{Name: "hunger_sad_factor", Path: "animal.hunger_sad_factor", Min: 0.02, Max: 0.4, Default: 0.1},
			{Name: "hunger_sick_factor", Path: "animal.hunger_sick_factor", Min: 0.1, Max: 1.5, Default: 0.5},
			{Name: "content_regen", Path: "animal.content_regen", Min: 0.1, Max: 2.0, Default: 0.5},
			{Name: "senescence_decline", Path: "animal.senescence_decline", Min: 0.1, Max: 1.5, Default: 0.4},
			{Name: "auto_feed_nutrition", Path: "animal.auto_feed_nutrition", Min: 5, Max: 40, Default: 20},
			// Enclosures
			{Name: "decay_per_animal", Path: "enclosure.decay_per_animal", Min: 0.1, Max: 3.0, Default: 0.5},
			{Name: "dirty_happiness_loss", Path: "enclosure.dirty_happiness_loss", Min: 0.2, Max: 4.0, Default: 1.0},
			{Name: "clean_base_cost", Path: "enclosure.clean_base_cost", Min: 5, Max: 60, Default: 20},
			// Visitors
			{Name: "max_visitors", Path: "visitor.max_visitors", Min: 10, Max: 60, Default: 20},
			{Name: "ticket_price", Path: "visitor.ticket_price", Min: 5, Max: 60, Default: 25},
			{Name: "budget_max", Path: "visitor.budget_max", Min: 50, Max: 400, Default: 200},
			// Incidents (donation_chance locked at 0.06)
			{Name: "heatwave_chance", Path: "incident.heatwave_chance", Min: 0, Max: 0.2, Default: 0.06},
			{Name: "escape_chance", Path: "incident.escape_chance", Min: 0, Max: 0.2, Default: 0.06},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		val := v[i]
		if val < spec.Min {
			val = spec.Min
		}
		if val > spec.Max {
			val = spec.Max
		}
		clamped[i] = val
	}
	return clamped
}

// ApplyToTuning applies parameter values to a Tuning struct.
func (pv *ParamVector) ApplyToTuning(t *config.Tuning, values []float64) {
	clamped := pv.Clamp(values)

	// Order must match Specs order
	i := 0

	// Metabolism
	t.Animal.HungerDailyMin = clamped[i]
	i++
	t.Animal.HungerDailyMax = clamped[i]
	i++
	t.Animal.HungerSadFactor = clamped[i]
	i++
	t.Animal.HungerSickFactor = clamped[i]
	i++
	t.Animal.ContentRegen = clamped[i]
	i++
	t.Animal.SenescenceDecline = clamped[i]
	i++
	t.Animal.AutoFeedNutrition = clamped[i]
	i++

	// Enclosures
	t.Enclosure.DecayPerAnimal = clamped[i]
	i++
	t.Enclosure.DirtyHappinessLoss = clamped[i]
	i++
	t.Enclosure.CleanBaseCost = clamped[i]
	i++

	// Visitors
	t.Visitor.MaxVisitors = int(clamped[i])
	i++
	t.Visitor.TicketPrice = clamped[i]
	i++
	t.Visitor.BudgetMax = clamped[i]
	i++

	// Incidents
	t.Incident.HeatwaveChance = clamped[i]
	i++
	t.Incident.EscapeChance = clamped[i]

	// The bounds overlap, so keep the pairs ordered for Validate.
	if t.Animal.HungerDailyMax < t.Animal.HungerDailyMin {
		t.Animal.HungerDailyMax = t.Animal.HungerDailyMin
	}
	if t.Visitor.MaxVisitors < t.Visitor.MinVisitors {
		t.Visitor.MaxVisitors = t.Visitor.MinVisitors
	}
	if t.Visitor.BudgetMax < t.Visitor.BudgetMin {
		t.Visitor.BudgetMax = t.Visitor.BudgetMin
	}
}

// ExtractFromTuning reads the current parameter values out of a Tuning
// struct, in Specs order.
func (pv *ParamVector) ExtractFromTuning(t *config.Tuning) []float64 {
	return []float64{
		// Metabolism
		t.Animal.HungerDailyMin,
		t.Animal.HungerDailyMax,
		t.Animal.HungerSadFactor,
		t.Animal.HungerSickFactor,
		t.Animal.ContentRegen,
		t.Animal.SenescenceDecline,
		t.Animal.AutoFeedNutrition,
		// Enclosures
		t.Enclosure.DecayPerAnimal,
		t.Enclosure.DirtyHappinessLoss,
		t.Enclosure.CleanBaseCost,
		// Visitors
		float64(t.Visitor.MaxVisitors),
		t.Visitor.TicketPrice,
		t.Visitor.BudgetMax,
		// Incidents
		t.Incident.HeatwaveChance,
		t.Incident.EscapeChance,
	}
}
