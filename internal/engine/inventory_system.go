package engine

import (
	"fmt"

	"github.com/wildsim/ozzoo/internal/domain/item"
	"github.com/wildsim/ozzoo/internal/domain/rules"
	"github.com/wildsim/ozzoo/internal/domain/zoo"
	"github.com/wildsim/ozzoo/internal/events"
	"github.com/wildsim/ozzoo/internal/platform/logger"
)

// InventorySystem manages the food store and item sourcing.
type InventorySystem struct {
	eventLog *events.EventLog
	logger   *logger.Logger
}

// NewInventorySystem creates a new inventory manager.
func NewInventorySystem(eventLog *events.EventLog, log *logger.Logger) *InventorySystem {
	return &InventorySystem{
		eventLog: eventLog,
		logger:   log,
	}
}

// BuyFood purchases a quantity of one food type into stock. The whole order
// is paid up front; an unaffordable order changes nothing.
func (is *InventorySystem) BuyFood(z *zoo.Zoo, food item.ItemType, qty int) (float64, error) {
	def, ok := item.GetItem(food)
	if !ok || !def.IsFood {
		return 0, &rules.InvalidActionError{Reason: fmt.Sprintf("%s is not a food the supplier carries", food)}
	}
	if qty <= 0 {
		return 0, &rules.InvalidActionError{Reason: "quantity must be positive"}
	}
	cost := def.Price * float64(qty)
	if err := z.Ledger.Debit(z.Day, cost, fmt.Sprintf("Food purchase: %dx %s", qty, def.Name)); err != nil {
		return 0, err
	}
	z.AddStock(food, qty)
	is.eventLog.Append(events.NewEvent(events.EventTypeFoodPurchased, z.Day, string(food),
		fmt.Sprintf("Bought %dx %s for $%.2f", qty, def.Name, cost)))
	is.logger.Infof("[STORE] Bought %dx %s for $%.2f (stock now %d)", qty, def.Name, cost, z.StockOf(food))
	return cost, nil
}

// TakeItem sources one unit of an item for immediate use: from stock when
// available, otherwise as a walk-up purchase at full price. The walk-up path
// fails without payment when funds are short.
func (is *InventorySystem) TakeItem(z *zoo.Zoo, t item.ItemType) error {
	def, ok := item.GetItem(t)
	if !ok {
		return &rules.InvalidActionError{Reason: fmt.Sprintf("unknown item %s", t)}
	}
	if z.ConsumeStock(t, 1) {
		return nil
	}
	if err := z.Ledger.Debit(z.Day, def.Price, fmt.Sprintf("Walk-up purchase: %s", def.Name)); err != nil {
		return err
	}
	is.logger.Infof("[STORE] Walk-up purchase of %s for $%.2f", def.Name, def.Price)
	return nil
}
