// Package events provides the append-only chronicle of zoo life.
// This is the "zoo diary" - an immutable log of every notable change.
package events

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// EventType defines the category of a zoo event.
type EventType string

const (
	EventTypeDayTick           EventType = "DAY_TICK"
	EventTypeAnimalFed         EventType = "ANIMAL_FED"
	EventTypeAnimalRefusedFood EventType = "ANIMAL_REFUSED_FOOD"
	EventTypeAnimalTreated     EventType = "ANIMAL_TREATED"
	EventTypeAnimalBorn        EventType = "ANIMAL_BORN"
	EventTypeAnimalDied        EventType = "ANIMAL_DIED"
	EventTypeAnimalBought      EventType = "ANIMAL_BOUGHT"
	EventTypeAnimalSold        EventType = "ANIMAL_SOLD"
	EventTypeAnimalMoved       EventType = "ANIMAL_MOVED"
	EventTypeAnimalEscaped     EventType = "ANIMAL_ESCAPED"
	EventTypeEnclosureBuilt    EventType = "ENCLOSURE_BUILT"
	EventTypeEnclosureCleaned  EventType = "ENCLOSURE_CLEANED"
	EventTypeEnclosureUpgraded EventType = "ENCLOSURE_UPGRADED"
	EventTypeFoodPurchased     EventType = "FOOD_PURCHASED"
	EventTypeHealthAlert       EventType = "HEALTH_ALERT"
	EventTypeIncident          EventType = "INCIDENT"
	EventTypeVisitorIntake     EventType = "VISITOR_INTAKE"
	EventTypeTransaction       EventType = "TRANSACTION"
	EventTypeDaySettled        EventType = "DAY_SETTLED"
)

// HealthAlertPayload holds the details for a low-health warning.
type HealthAlertPayload struct {
	AnimalID string  `json:"animalId"`
	Species  string  `json:"species"`
	Health   float64 `json:"health"`
}

// VisitorPayload holds the details of a day's visitor intake.
type VisitorPayload struct {
	Count        int     `json:"count"`
	TicketIncome float64 `json:"ticketIncome"`
	Spending     float64 `json:"spending"`
	Satisfaction float64 `json:"satisfaction"`
}

// IncidentPayload holds the details of a random daily incident.
type IncidentPayload struct {
	Kind   string  `json:"kind"`
	Amount float64 `json:"amount"` // money moved, if any
}

// GameEvent represents an immutable record of something that happened.
type GameEvent struct {
	ID        string      `json:"id"`
	Timestamp time.Time   `json:"timestamp"`
	Type      EventType   `json:"type"`
	Subject   string      `json:"subject"` // Animal or enclosure affected (optional)
	Message   string      `json:"message"` // Human-readable description
	Payload   interface{} `json:"payload,omitempty"`
	GameDay   int         `json:"game_day"`
}

// EventLog is the in-memory append-only log of zoo events.
type EventLog struct {
	mu     sync.RWMutex
	events []GameEvent
}

// NewEventLog creates an empty event log.
func NewEventLog() *EventLog {
	return &EventLog{
		events: make([]GameEvent, 0),
	}
}

// Append adds a new event to the log. Events are immutable once appended.
func (el *EventLog) Append(event GameEvent) {
	el.mu.Lock()
	defer el.mu.Unlock()
	el.events = append(el.events, event)
}

// GetByDay returns all events that occurred on a specific game day.
func (el *EventLog) GetByDay(day int) []GameEvent {
	el.mu.RLock()
	defer el.mu.RUnlock()

	var result []GameEvent
	for _, e := range el.events {
		if e.GameDay == day {
			result = append(result, e)
		}
	}
	return result
}

// GetByType returns all events of a specific type.
func (el *EventLog) GetByType(t EventType) []GameEvent {
	el.mu.RLock()
	defer el.mu.RUnlock()

	var result []GameEvent
	for _, e := range el.events {
		if e.Type == t {
			result = append(result, e)
		}
	}
	return result
}

// GetRecent returns the last n events in chronological order.
func (el *EventLog) GetRecent(n int) []GameEvent {
	el.mu.RLock()
	defer el.mu.RUnlock()

	if n > len(el.events) {
		n = len(el.events)
	}
	result := make([]GameEvent, n)
	copy(result, el.events[len(el.events)-n:])
	return result
}

// Len returns the number of recorded events.
func (el *EventLog) Len() int {
	el.mu.RLock()
	defer el.mu.RUnlock()
	return len(el.events)
}

// Replay returns the full history of events for state reconstruction.
// This is the "season recap" system.
func (el *EventLog) Replay() []GameEvent {
	el.mu.RLock()
	defer el.mu.RUnlock()

	result := make([]GameEvent, len(el.events))
	copy(result, el.events)
	return result
}

// NewEvent builds a GameEvent with a fresh ID and timestamp.
func NewEvent(t EventType, day int, subject, message string) GameEvent {
	return GameEvent{
		ID:        GenerateEventID(),
		Timestamp: time.Now(),
		Type:      t,
		Subject:   subject,
		Message:   message,
		GameDay:   day,
	}
}

// GenerateEventID creates a unique event identifier.
func GenerateEventID() string {
	return uuid.NewString()
}
