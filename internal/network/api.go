// Package network - api.go
// Operator REST surface: submit commands, read status, pull reports.
//
// Everything here is a thin translation layer over engine.Submit; the
// engine stays the single place where rules are enforced.
package network

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/wildsim/ozzoo/internal/domain/rules"
	"github.com/wildsim/ozzoo/internal/engine"
	"github.com/wildsim/ozzoo/internal/platform/logger"
	"github.com/wildsim/ozzoo/internal/reports"
)

// ZooAPI handles the operator HTTP endpoints.
type ZooAPI struct {
	engine *engine.Engine
	hub    *Hub
	logger *logger.Logger
}

// NewZooAPI creates the REST handler set.
func NewZooAPI(eng *engine.Engine, hub *Hub, log *logger.Logger) *ZooAPI {
	return &ZooAPI{
		engine: eng,
		hub:    hub,
		logger: log,
	}
}

// HandleCommand accepts one engine command as JSON.
// POST /api/zoo/command
func (api *ZooAPI) HandleCommand(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		api.jsonError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var cmd engine.Command
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		api.jsonError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if cmd.Action == "" {
		api.jsonError(w, "Missing action", http.StatusBadRequest)
		return
	}

	res := api.engine.Submit(r.Context(), cmd)
	if res.Err != nil {
		api.jsonRejection(w, res.Err)
		return
	}

	api.jsonSuccess(w, map[string]interface{}{
		"success": true,
		"message": res.Message,
		"data":    res.Data,
	})
}

// HandleStatus returns the current park snapshot.
// GET /api/zoo/status
func (api *ZooAPI) HandleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		api.jsonError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	res := api.engine.Submit(r.Context(), engine.Command{Action: engine.ActionStatus})
	if res.Err != nil {
		api.jsonRejection(w, res.Err)
		return
	}

	api.jsonSuccess(w, res.Data)
}

// HandleReport renders the daily report.
// GET /api/zoo/report?format=text|pdf|json
func (api *ZooAPI) HandleReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		api.jsonError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	res := api.engine.Submit(r.Context(), engine.Command{Action: engine.ActionReport})
	if res.Err != nil {
		api.jsonRejection(w, res.Err)
		return
	}
	data, ok := res.Data.(engine.ReportData)
	if !ok {
		api.jsonError(w, "Report unavailable", http.StatusInternalServerError)
		return
	}

	switch r.URL.Query().Get("format") {
	case "pdf":
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", "inline; filename=zoo-report.pdf")
		if err := reports.RenderPDF(data, w); err != nil {
			api.logger.Errorf("PDF render failed: %v", err)
		}
	case "text", "":
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte(reports.RenderText(data)))
	case "json":
		api.jsonSuccess(w, data)
	default:
		api.jsonError(w, "Unknown format, want text, pdf or json", http.StatusBadRequest)
	}
}

// HandleHealth is the liveness probe.
// GET /healthz
func (api *ZooAPI) HandleHealth(w http.ResponseWriter, r *http.Request) {
	api.jsonSuccess(w, map[string]interface{}{
		"status":    "ok",
		"clients":   api.hub.ClientCount(),
		"timestamp": time.Now().Unix(),
	})
}

// RegisterRoutes sets up the operator API routes.
func (api *ZooAPI) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/zoo/command", api.HandleCommand)
	mux.HandleFunc("/api/zoo/status", api.HandleStatus)
	mux.HandleFunc("/api/zoo/report", api.HandleReport)
	mux.HandleFunc("/healthz", api.HandleHealth)
}

// jsonRejection maps an engine rejection to its HTTP status, carrying the
// rejection kind so the frontend can react without parsing prose.
func (api *ZooAPI) jsonRejection(w http.ResponseWriter, err error) {
	kind, ok := rules.KindOf(err)
	if !ok {
		api.logger.Errorf("Command failed outside the rejection set: %v", err)
		api.jsonError(w, "Internal error", http.StatusInternalServerError)
		return
	}

	status := http.StatusBadRequest
	switch kind {
	case rules.KindInsufficientFunds:
		status = http.StatusPaymentRequired
	case rules.KindCapacityExceeded, rules.KindSpeciesIncompatibility:
		status = http.StatusConflict
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{
		"error": err.Error(),
		"kind":  string(kind),
	})
}

// jsonError sends an error response.
func (api *ZooAPI) jsonError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// jsonSuccess sends a success response.
func (api *ZooAPI) jsonSuccess(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(data)
}
