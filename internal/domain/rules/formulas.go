package rules

// Clamp bounds v to the inclusive [lo, hi] range.
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Attractiveness scores the zoo for prospective visitors. A half-clean zoo
// with no species scores 50; each distinct living species on show adds 5,
// and cleanliness pulls the score up or down around its midpoint.
// The result is clamped to [0,100].
func Attractiveness(avgCleanliness float64, speciesCount int) float64 {
	score := 50 + (avgCleanliness-50)*0.5 + float64(speciesCount)*5
	return Clamp(score, 0, 100)
}

// VisitorCount converts an attractiveness score into a daily gate count.
// roll must be in [0,1) and bounds the randomness to ±20% around the
// attractiveness-scaled base.
func VisitorCount(attractiveness, roll float64, min, max int) int {
	if max < min {
		max = min
	}
	base := float64(min) + float64(max-min)*attractiveness/100
	jitter := 0.8 + 0.4*roll
	n := int(base*jitter + 0.5)
	if n < 0 {
		n = 0
	}
	return n
}

// Satisfaction is a visitor's mood after seeing one enclosure, folded into
// their running satisfaction score.
func Satisfaction(current, avgHappiness, cleanliness float64) float64 {
	s := current + (avgHappiness-50)/20 + (cleanliness-50)/50
	return Clamp(s, 0, 100)
}

// VisitorSpend is what one visitor leaves at the stalls after a viewing,
// bounded by their remaining budget. roll must be in [0,1).
func VisitorSpend(satisfaction, budget, roll float64) float64 {
	base := 5 + roll*20
	return Clamp(base*satisfaction/100, 0, budget)
}

// BreedingChance is the conception probability for an already-validated
// pair. Content animals breed; miserable ones do not.
func BreedingChance(happiness1, happiness2 float64) float64 {
	return Clamp((happiness1+happiness2)/200, 0, 1)
}

// CleanCost prices a full cleaning of an enclosure holding n animals.
func CleanCost(base float64, occupants int) float64 {
	return base * (1 + float64(occupants)/2)
}

// UpgradeCost prices the next enclosure upgrade at the current level.
func UpgradeCost(base float64, level int) float64 {
	return base * float64(level)
}
