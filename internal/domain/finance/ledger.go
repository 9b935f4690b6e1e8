// Package finance defines the zoo's money ledger.
// This package is PURE and must NOT import any infrastructure packages.
//
// INVARIANTS:
//   - The history is append-only; entries are never edited or removed.
//   - Debit is all-or-nothing: a rejected debit leaves the balance and the
//     history exactly as they were.
//   - The balance never goes negative through this API.
//
// There is exactly one ledger per zoo, created once and passed by reference
// to every component that moves money. No global instance.
package finance

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/wildsim/ozzoo/internal/domain/rules"
)

// EntryType tags the direction of a transaction.
type EntryType string

const (
	EntryCredit EntryType = "CREDIT"
	EntryDebit  EntryType = "DEBIT"
)

// Transaction is one settled movement of money.
type Transaction struct {
	ID      string    `json:"id"`
	Day     int       `json:"day"`
	Type    EntryType `json:"type"`
	Amount  float64   `json:"amount"`  // Always positive
	Reason  string    `json:"reason"`  // Operator-facing, e.g. "Bought 5x SEEDS"
	Balance float64   `json:"balance"` // Running balance after this entry
}

// Ledger tracks the zoo's balance and its full transaction history.
type Ledger struct {
	balance float64
	history []Transaction
}

// NewLedger opens a ledger with the given starting balance.
func NewLedger(startingBalance float64) *Ledger {
	return &Ledger{balance: startingBalance}
}

// Balance returns the current balance.
func (l *Ledger) Balance() float64 {
	return l.balance
}

// CanAfford reports whether a debit of amount would succeed.
func (l *Ledger) CanAfford(amount float64) bool {
	return amount <= l.balance
}

// Credit adds income to the ledger.
func (l *Ledger) Credit(day int, amount float64, reason string) error {
	if amount < 0 {
		return &rules.InvalidActionError{Reason: fmt.Sprintf("credit of negative amount %.2f", amount)}
	}
	l.balance += amount
	l.append(day, EntryCredit, amount, reason)
	return nil
}

// Debit removes money from the ledger. A debit beyond the balance is
// rejected with InsufficientFunds and changes nothing: no partial debits.
func (l *Ledger) Debit(day int, amount float64, reason string) error {
	if amount < 0 {
		return &rules.InvalidActionError{Reason: fmt.Sprintf("debit of negative amount %.2f", amount)}
	}
	if amount > l.balance {
		return &rules.InsufficientFundsError{Need: amount, Have: l.balance, Reason: reason}
	}
	l.balance -= amount
	l.append(day, EntryDebit, amount, reason)
	return nil
}

func (l *Ledger) append(day int, t EntryType, amount float64, reason string) {
	l.history = append(l.history, Transaction{
		ID:      uuid.NewString(),
		Day:     day,
		Type:    t,
		Amount:  amount,
		Reason:  reason,
		Balance: l.balance,
	})
}

// History returns a copy of the full transaction history, oldest first.
func (l *Ledger) History() []Transaction {
	out := make([]Transaction, len(l.history))
	copy(out, l.history)
	return out
}

// HistoryForDay returns the transactions settled on one day.
func (l *Ledger) HistoryForDay(day int) []Transaction {
	var out []Transaction
	for _, tx := range l.history {
		if tx.Day == day {
			out = append(out, tx)
		}
	}
	return out
}

// NetForDay sums one day's credits minus debits.
func (l *Ledger) NetForDay(day int) float64 {
	var net float64
	for _, tx := range l.history {
		if tx.Day != day {
			continue
		}
		if tx.Type == EntryCredit {
			net += tx.Amount
		} else {
			net -= tx.Amount
		}
	}
	return net
}
