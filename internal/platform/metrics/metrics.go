// Package metrics provides observability for the zoo server.
// T030: Metrics collection for long-run simulation analysis.
package metrics

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// Collector gathers performance and simulation metrics.
type Collector struct {
	// Day cycle metrics
	DaysSimulated int64
	DayLatencySum int64 // nanoseconds
	DayLatencyMax int64
	LastDayTime   time.Time

	// Command metrics
	CommandsProcessed int64
	CommandErrors     int64

	// WebSocket metrics
	WSConnectionsActive int64
	WSMessagesIn        int64
	WSMessagesOut       int64
	WSErrors            int64

	// Simulation metrics
	VisitorsTotal int64
	BirthsTotal   int64
	DeathsTotal   int64
	TicketIncome  float64

	// System
	StartTime time.Time
	mu        sync.RWMutex
}

// Global collector instance
var collector = &Collector{
	StartTime: time.Now(),
}

// Get returns the global collector.
func Get() *Collector {
	return collector
}

// RecordDay records a completed day cycle.
func (c *Collector) RecordDay(latency time.Duration) {
	atomic.AddInt64(&c.DaysSimulated, 1)
	atomic.AddInt64(&c.DayLatencySum, int64(latency))

	// Update max (non-atomic but acceptable for metrics)
	if int64(latency) > atomic.LoadInt64(&c.DayLatencyMax) {
		atomic.StoreInt64(&c.DayLatencyMax, int64(latency))
	}

	c.mu.Lock()
	c.LastDayTime = time.Now()
	c.mu.Unlock()
}

// RecordCommand records a processed player command.
func (c *Collector) RecordCommand(err error) {
	atomic.AddInt64(&c.CommandsProcessed, 1)
	if err != nil {
		atomic.AddInt64(&c.CommandErrors, 1)
	}
}

// RecordWSConnection records WebSocket connection changes.
func (c *Collector) RecordWSConnection(delta int64) {
	atomic.AddInt64(&c.WSConnectionsActive, delta)
}

// RecordWSMessage records WebSocket messages.
func (c *Collector) RecordWSMessage(incoming bool) {
	if incoming {
		atomic.AddInt64(&c.WSMessagesIn, 1)
	} else {
		atomic.AddInt64(&c.WSMessagesOut, 1)
	}
}

// RecordWSError records a WebSocket error.
func (c *Collector) RecordWSError() {
	atomic.AddInt64(&c.WSErrors, 1)
}

// RecordVisitors records a day's visitor intake.
func (c *Collector) RecordVisitors(count int, ticketIncome float64) {
	atomic.AddInt64(&c.VisitorsTotal, int64(count))

	c.mu.Lock()
	c.TicketIncome += ticketIncome
	c.mu.Unlock()
}

// RecordBirth records an animal birth.
func (c *Collector) RecordBirth() {
	atomic.AddInt64(&c.BirthsTotal, 1)
}

// RecordDeath records an animal death.
func (c *Collector) RecordDeath() {
	atomic.AddInt64(&c.DeathsTotal, 1)
}

// Snapshot returns current metrics as a map.
func (c *Collector) Snapshot() map[string]interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	days := atomic.LoadInt64(&c.DaysSimulated)
	commands := atomic.LoadInt64(&c.CommandsProcessed)

	// Calculate averages
	var dayAvg float64
	if days > 0 {
		dayAvg = float64(atomic.LoadInt64(&c.DayLatencySum)) / float64(days) / 1e6 // ms
	}

	return map[string]interface{}{
		"uptime_seconds": time.Since(c.StartTime).Seconds(),

		"day": map[string]interface{}{
			"count":          days,
			"avg_latency_ms": dayAvg,
			"max_latency_ms": float64(atomic.LoadInt64(&c.DayLatencyMax)) / 1e6,
			"last_day":       c.LastDayTime.Format(time.RFC3339),
		},

		"commands": map[string]interface{}{
			"processed": commands,
			"errors":    atomic.LoadInt64(&c.CommandErrors),
		},

		"websocket": map[string]interface{}{
			"active_connections": atomic.LoadInt64(&c.WSConnectionsActive),
			"messages_in":        atomic.LoadInt64(&c.WSMessagesIn),
			"messages_out":       atomic.LoadInt64(&c.WSMessagesOut),
			"errors":             atomic.LoadInt64(&c.WSErrors),
		},

		"simulation": map[string]interface{}{
			"visitors_total": atomic.LoadInt64(&c.VisitorsTotal),
			"births_total":   atomic.LoadInt64(&c.BirthsTotal),
			"deaths_total":   atomic.LoadInt64(&c.DeathsTotal),
			"ticket_income":  c.TicketIncome,
		},
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-cache")

		snapshot := collector.Snapshot()
		json.NewEncoder(w).Encode(snapshot)
	}
}

// PrometheusHandler returns metrics in Prometheus format.
func PrometheusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")

		c := collector

		// Day cycle metrics
		fmt.Fprintf(w, "# HELP ozzoo_days_simulated Total simulated days\n")
		fmt.Fprintf(w, "# TYPE ozzoo_days_simulated counter\n")
		fmt.Fprintf(w, "ozzoo_days_simulated %d\n\n", atomic.LoadInt64(&c.DaysSimulated))

		fmt.Fprintf(w, "# HELP ozzoo_day_latency_max_ms Maximum day cycle latency\n")
		fmt.Fprintf(w, "# TYPE ozzoo_day_latency_max_ms gauge\n")
		fmt.Fprintf(w, "ozzoo_day_latency_max_ms %.2f\n\n", float64(atomic.LoadInt64(&c.DayLatencyMax))/1e6)

		// Command metrics
		fmt.Fprintf(w, "# HELP ozzoo_commands_processed Total player commands processed\n")
		fmt.Fprintf(w, "# TYPE ozzoo_commands_processed counter\n")
		fmt.Fprintf(w, "ozzoo_commands_processed %d\n\n", atomic.LoadInt64(&c.CommandsProcessed))

		fmt.Fprintf(w, "# HELP ozzoo_command_errors Total rejected player commands\n")
		fmt.Fprintf(w, "# TYPE ozzoo_command_errors counter\n")
		fmt.Fprintf(w, "ozzoo_command_errors %d\n\n", atomic.LoadInt64(&c.CommandErrors))

		// WebSocket metrics
		fmt.Fprintf(w, "# HELP ozzoo_ws_connections Active WebSocket connections\n")
		fmt.Fprintf(w, "# TYPE ozzoo_ws_connections gauge\n")
		fmt.Fprintf(w, "ozzoo_ws_connections %d\n\n", atomic.LoadInt64(&c.WSConnectionsActive))

		fmt.Fprintf(w, "# HELP ozzoo_ws_messages_total Total WebSocket messages\n")
		fmt.Fprintf(w, "# TYPE ozzoo_ws_messages_total counter\n")
		fmt.Fprintf(w, "ozzoo_ws_messages_total{direction=\"in\"} %d\n", atomic.LoadInt64(&c.WSMessagesIn))
		fmt.Fprintf(w, "ozzoo_ws_messages_total{direction=\"out\"} %d\n\n", atomic.LoadInt64(&c.WSMessagesOut))

		// Simulation metrics
		fmt.Fprintf(w, "# HELP ozzoo_visitors_total Total visitors admitted\n")
		fmt.Fprintf(w, "# TYPE ozzoo_visitors_total counter\n")
		fmt.Fprintf(w, "ozzoo_visitors_total %d\n\n", atomic.LoadInt64(&c.VisitorsTotal))

		fmt.Fprintf(w, "# HELP ozzoo_births_total Total animal births\n")
		fmt.Fprintf(w, "# TYPE ozzoo_births_total counter\n")
		fmt.Fprintf(w, "ozzoo_births_total %d\n\n", atomic.LoadInt64(&c.BirthsTotal))

		fmt.Fprintf(w, "# HELP ozzoo_deaths_total Total animal deaths\n")
		fmt.Fprintf(w, "# TYPE ozzoo_deaths_total counter\n")
		fmt.Fprintf(w, "ozzoo_deaths_total %d\n\n", atomic.LoadInt64(&c.DeathsTotal))

		c.mu.RLock()
		fmt.Fprintf(w, "# HELP ozzoo_ticket_income_total Total ticket income\n")
		fmt.Fprintf(w, "# TYPE ozzoo_ticket_income_total counter\n")
		fmt.Fprintf(w, "ozzoo_ticket_income_total %.2f\n", c.TicketIncome)
		c.mu.RUnlock()
	}
}
