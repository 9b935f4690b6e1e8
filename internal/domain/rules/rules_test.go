package rules

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOfClosedSet(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want Kind
	}{
		{"funds", &InsufficientFundsError{Need: 150, Have: 100, Reason: "buy koala"}, KindInsufficientFunds},
		{"capacity", &CapacityError{Enclosure: "Aviary", Capacity: 6}, KindCapacityExceeded},
		{"species", &IncompatibilityError{Detail: "mammals cannot live in the aviary"}, KindSpeciesIncompatibility},
		{"action", &InvalidActionError{Reason: "animal is dead"}, KindInvalidAction},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := KindOf(tc.err)
			if !ok {
				t.Fatalf("Expected %v to carry a kind", tc.err)
			}
			if got != tc.want {
				t.Errorf("Expected kind %s, got %s", tc.want, got)
			}
		})
	}
}

func TestKindOfWrappedError(t *testing.T) {
	// Errors stay classifiable through %w chains at the dispatch boundary.
	inner := &CapacityError{Enclosure: "Forest Enclosure", Capacity: 4}
	wrapped := fmt.Errorf("placing joey: %w", inner)

	kind, ok := KindOf(wrapped)
	if !ok || kind != KindCapacityExceeded {
		t.Errorf("Expected CAPACITY_EXCEEDED through wrap, got %s (ok=%v)", kind, ok)
	}

	if _, ok := KindOf(errors.New("disk on fire")); ok {
		t.Error("Expected non-domain error to carry no kind")
	}
}

func TestClampBounds(t *testing.T) {
	if got := Clamp(120, 0, 100); got != 100 {
		t.Errorf("Expected clamp to 100, got %f", got)
	}
	if got := Clamp(-3, 0, 100); got != 0 {
		t.Errorf("Expected clamp to 0, got %f", got)
	}
	if got := Clamp(42, 0, 100); got != 42 {
		t.Errorf("Expected passthrough 42, got %f", got)
	}
}

func TestAttractivenessRange(t *testing.T) {
	// A spotless zoo full of different species maxes out.
	if got := Attractiveness(100, 10); got != 100 {
		t.Errorf("Expected attractiveness 100, got %f", got)
	}
	// A filthy, empty zoo bottoms out near 25, never below 0.
	if got := Attractiveness(0, 0); got != 25 {
		t.Errorf("Expected attractiveness 25 for filthy empty zoo, got %f", got)
	}
	// Neutral midpoint.
	if got := Attractiveness(50, 0); got != 50 {
		t.Errorf("Expected attractiveness 50, got %f", got)
	}
}

func TestVisitorCountBounds(t *testing.T) {
	// Zero roll shrinks the base by 20%, max roll inflates it by 20%.
	low := VisitorCount(100, 0, 5, 20)
	high := VisitorCount(100, 0.999, 5, 20)
	if low > high {
		t.Errorf("Expected low roll <= high roll, got %d > %d", low, high)
	}
	if low < 0 {
		t.Errorf("Expected non-negative count, got %d", low)
	}
	// Attractiveness 0 still trickles in the minimum crowd, jittered.
	if got := VisitorCount(0, 0.5, 5, 20); got < 4 || got > 6 {
		t.Errorf("Expected roughly the minimum gate (5±1), got %d", got)
	}
}

func TestSatisfactionNeutral(t *testing.T) {
	// Average animals in an average enclosure leave the mood unchanged.
	if got := Satisfaction(70, 50, 50); got != 70 {
		t.Errorf("Expected neutral satisfaction 70, got %f", got)
	}
	happier := Satisfaction(70, 100, 100)
	if happier <= 70 {
		t.Errorf("Expected happy animals to raise satisfaction, got %f", happier)
	}
}

func TestVisitorSpendBudgetBound(t *testing.T) {
	// A big spender roll cannot exceed the visitor's remaining budget.
	if got := VisitorSpend(100, 3.50, 0.999); got != 3.5 {
		t.Errorf("Expected spend capped at budget 3.50, got %f", got)
	}
	if got := VisitorSpend(0, 100, 0.999); got != 0 {
		t.Errorf("Expected zero spend at zero satisfaction, got %f", got)
	}
}

func TestBreedingChance(t *testing.T) {
	if got := BreedingChance(100, 100); got != 1 {
		t.Errorf("Expected certain conception for blissful pair, got %f", got)
	}
	if got := BreedingChance(50, 50); got != 0.5 {
		t.Errorf("Expected 0.5, got %f", got)
	}
}

func TestCostFormulas(t *testing.T) {
	// Two occupants double the base cleaning fee.
	if got := CleanCost(20, 2); got != 40 {
		t.Errorf("Expected clean cost 40, got %f", got)
	}
	if got := UpgradeCost(200, 3); got != 600 {
		t.Errorf("Expected upgrade cost 600, got %f", got)
	}
}
