// Package rules contains the pure calculation logic for zoo mechanics and
// the closed set of recoverable rejections the simulation can produce.
// This package is PURE and must NOT import any infrastructure packages.
package rules

import (
	"errors"
	"fmt"
)

// Kind classifies a recoverable rejection. The set is closed: the command
// dispatch boundary maps kinds to operator messages and nothing outside this
// enumeration is ever surfaced as a gameplay error.
type Kind string

const (
	KindInsufficientFunds      Kind = "INSUFFICIENT_FUNDS"
	KindCapacityExceeded       Kind = "CAPACITY_EXCEEDED"
	KindSpeciesIncompatibility Kind = "SPECIES_INCOMPATIBILITY"
	KindInvalidAction          Kind = "INVALID_ACTION"
)

// InsufficientFundsError rejects a debit larger than the ledger balance.
// The balance is left untouched by the rejected operation.
type InsufficientFundsError struct {
	Need   float64
	Have   float64
	Reason string
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds for %s: need $%.2f, have $%.2f", e.Reason, e.Need, e.Have)
}

// Kind implements the closed enumeration.
func (e *InsufficientFundsError) Kind() Kind { return KindInsufficientFunds }

// CapacityError rejects adding an animal to a full enclosure.
type CapacityError struct {
	Enclosure string
	Capacity  int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("enclosure %q is at capacity (%d)", e.Enclosure, e.Capacity)
}

func (e *CapacityError) Kind() Kind { return KindCapacityExceeded }

// IncompatibilityError rejects a species/habitat mismatch or an impossible
// breeding pair (wrong species mix, same sex).
type IncompatibilityError struct {
	Detail string
}

func (e *IncompatibilityError) Error() string {
	return "species incompatibility: " + e.Detail
}

func (e *IncompatibilityError) Kind() Kind { return KindSpeciesIncompatibility }

// InvalidActionError rejects actions that are well-formed but not allowed
// right now: targeting a dead or unknown animal, an illegal clock
// transition, an unknown food or species name.
type InvalidActionError struct {
	Reason string
}

func (e *InvalidActionError) Error() string {
	return "invalid action: " + e.Reason
}

func (e *InvalidActionError) Kind() Kind { return KindInvalidAction }

type kinded interface {
	Kind() Kind
}

// KindOf extracts the rejection kind from an error chain. The boolean is
// false for errors outside the closed set (programmer errors, I/O faults).
func KindOf(err error) (Kind, bool) {
	var k kinded
	if errors.As(err, &k) {
		return k.Kind(), true
	}
	return "", false
}
