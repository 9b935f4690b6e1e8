package engine

import (
	"github.com/wildsim/ozzoo/internal/domain/item"
)

// ActionType identifies a player-facing operation.
type ActionType string

const (
	ActionStatus     ActionType = "status"
	ActionReport     ActionType = "report"
	ActionAdvanceDay ActionType = "advance_day"
	ActionStartAuto  ActionType = "start_auto"
	ActionPause      ActionType = "pause"
	ActionResume     ActionType = "resume"
	ActionFeed       ActionType = "feed"
	ActionMedicine   ActionType = "medicine"
	ActionBreed      ActionType = "breed"
	ActionBuyFood    ActionType = "buy_food"
	ActionBuyAnimal  ActionType = "buy_animal"
	ActionSellAnimal ActionType = "sell_animal"
	ActionMoveAnimal ActionType = "move_animal"
	ActionClean      ActionType = "clean"
	ActionUpgrade    ActionType = "upgrade"
)

// Command is one mutation (or state read) request for the engine loop.
// Animal and Enclosure references accept either an ID or a name.
type Command struct {
	Action    ActionType    `json:"action"`
	Animal    string        `json:"animal,omitempty"`
	AnimalB   string        `json:"animal_b,omitempty"` // breeding partner
	Enclosure string        `json:"enclosure,omitempty"`
	Species   string        `json:"species,omitempty"`
	Name      string        `json:"name,omitempty"` // optional name for a bought animal
	Food      item.ItemType `json:"food,omitempty"`
	Quantity  int           `json:"quantity,omitempty"`

	replyTo chan CommandResult
}

// CommandResult is the synchronous answer to a submitted Command.
// Data carries a ZooSnapshot for status requests and a ReportData for
// report requests; it is nil for plain mutations.
type CommandResult struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Err     error       `json:"-"`
}
