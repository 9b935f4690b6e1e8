// Package network - history.go
// Read-only replay of the park's event log: what happened, when, and how
// it cut. Lets the frontend build timelines without holding state.
package network

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/wildsim/ozzoo/internal/events"
	"github.com/wildsim/ozzoo/internal/platform/logger"
)

// HistoryHandler serves the event replay API.
type HistoryHandler struct {
	eventLog *events.EventLog
	logger   *logger.Logger
}

// NewHistoryHandler creates the replay handler.
func NewHistoryHandler(el *events.EventLog, log *logger.Logger) *HistoryHandler {
	return &HistoryHandler{
		eventLog: el,
		logger:   log,
	}
}

// ReplayEvent is one sanitized log entry for public viewing.
type ReplayEvent struct {
	ID        string `json:"id"`
	Timestamp string `json:"timestamp"`
	GameDay   int    `json:"game_day"`
	Type      string `json:"type"`
	Subject   string `json:"subject,omitempty"`
	Summary   string `json:"summary"`
	Impact    string `json:"impact"`
}

// ReplayResponse is the API response for a replay query.
type ReplayResponse struct {
	TotalEvents int           `json:"total_events"`
	FilteredBy  string        `json:"filtered_by,omitempty"`
	GeneratedAt string        `json:"generated_at"`
	Events      []ReplayEvent `json:"events"`
}

// HandleReplay returns the event history, optionally filtered.
// GET /api/history/replay?day=N&type=ANIMAL_DIED
func (hh *HistoryHandler) HandleReplay(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		hh.jsonError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	dayStr := r.URL.Query().Get("day")
	eventType := r.URL.Query().Get("type")

	var source []events.GameEvent
	filterDesc := ""
	switch {
	case dayStr != "":
		day, err := strconv.Atoi(dayStr)
		if err != nil {
			hh.jsonError(w, "day must be a number", http.StatusBadRequest)
			return
		}
		source = hh.eventLog.GetByDay(day)
		filterDesc = "Day " + dayStr
	case eventType != "":
		source = hh.eventLog.GetByType(events.EventType(eventType))
		filterDesc = "Type " + eventType
	default:
		source = hh.eventLog.Replay()
	}

	replay := make([]ReplayEvent, 0, len(source))
	for _, e := range source {
		// A day filter can still be combined with a type filter.
		if dayStr != "" && eventType != "" && string(e.Type) != eventType {
			continue
		}
		replay = append(replay, convertToReplayEvent(e))
	}

	response := ReplayResponse{
		TotalEvents: len(replay),
		FilteredBy:  filterDesc,
		GeneratedAt: time.Now().Format(time.RFC3339),
		Events:      replay,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// HandleEventDetail returns one event in full, payload included.
// GET /api/history/event?event_id=XXX
func (hh *HistoryHandler) HandleEventDetail(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		hh.jsonError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	eventID := r.URL.Query().Get("event_id")
	if eventID == "" {
		hh.jsonError(w, "Missing event_id", http.StatusBadRequest)
		return
	}

	for _, e := range hh.eventLog.Replay() {
		if e.ID == eventID {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]interface{}{
				"event":   convertToReplayEvent(e),
				"payload": e.Payload,
			})
			return
		}
	}

	hh.jsonError(w, "Event not found", http.StatusNotFound)
}

// HandleStats returns aggregate counts over the whole log.
// GET /api/history/stats
func (hh *HistoryHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		hh.jsonError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	all := hh.eventLog.Replay()

	stats := map[string]int{
		"total_events":  len(all),
		"births":        0,
		"deaths":        0,
		"incidents":     0,
		"health_alerts": 0,
		"trades":        0,
		"days_settled":  0,
	}

	for _, e := range all {
		switch e.Type {
		case events.EventTypeAnimalBorn:
			stats["births"]++
		case events.EventTypeAnimalDied:
			stats["deaths"]++
		case events.EventTypeIncident, events.EventTypeAnimalEscaped:
			stats["incidents"]++
		case events.EventTypeHealthAlert:
			stats["health_alerts"]++
		case events.EventTypeAnimalBought, events.EventTypeAnimalSold:
			stats["trades"]++
		case events.EventTypeDaySettled:
			stats["days_settled"]++
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"generated_at": time.Now().Format(time.RFC3339),
		"stats":        stats,
	})
}

// RegisterRoutes sets up the history API routes.
func (hh *HistoryHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/history/replay", hh.HandleReplay)
	mux.HandleFunc("/api/history/event", hh.HandleEventDetail)
	mux.HandleFunc("/api/history/stats", hh.HandleStats)
}

// convertToReplayEvent transforms an internal event to the public format.
func convertToReplayEvent(e events.GameEvent) ReplayEvent {
	return ReplayEvent{
		ID:        e.ID,
		Timestamp: e.Timestamp.Format("15:04:05"),
		GameDay:   e.GameDay,
		Type:      string(e.Type),
		Subject:   e.Subject,
		Summary:   e.Message,
		Impact:    impactOf(e),
	}
}

// impactOf classifies how an event landed for the park. Incidents are
// negative except donations, which arrive through the same channel.
func impactOf(e events.GameEvent) string {
	switch e.Type {
	case events.EventTypeAnimalDied, events.EventTypeAnimalEscaped,
		events.EventTypeHealthAlert, events.EventTypeAnimalRefusedFood:
		return "NEGATIVE"
	case events.EventTypeAnimalBorn, events.EventTypeAnimalFed,
		events.EventTypeAnimalTreated, events.EventTypeEnclosureCleaned,
		events.EventTypeEnclosureUpgraded, events.EventTypeVisitorIntake:
		return "POSITIVE"
	case events.EventTypeIncident:
		if p, ok := e.Payload.(events.IncidentPayload); ok && p.Kind == "donation" {
			return "POSITIVE"
		}
		return "NEGATIVE"
	default:
		return "NEUTRAL"
	}
}

// jsonError sends an error response.
func (hh *HistoryHandler) jsonError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
