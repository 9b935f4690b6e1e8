package network

import (
	"context"
	"encoding/json"
	"io"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/wildsim/ozzoo/internal/config"
	"github.com/wildsim/ozzoo/internal/domain/enclosure"
	"github.com/wildsim/ozzoo/internal/domain/finance"
	"github.com/wildsim/ozzoo/internal/domain/zoo"
	"github.com/wildsim/ozzoo/internal/engine"
	"github.com/wildsim/ozzoo/internal/events"
	"github.com/wildsim/ozzoo/internal/platform/logger"
	"github.com/wildsim/ozzoo/internal/platform/optimization"
)

// newTestServer stands up the full HTTP stack over a live engine loop.
func newTestServer(t *testing.T, balance float64, build func(z *zoo.Zoo)) (*httptest.Server, *engine.Engine, *events.EventLog) {
	t.Helper()
	tun, err := config.LoadTuning("")
	if err != nil {
		t.Fatalf("Expected embedded tuning to load, got %v", err)
	}
	z := zoo.New("Test Park", finance.NewLedger(balance))
	if build != nil {
		build(z)
	}
	el := events.NewEventLog()
	log := logger.NewLogger()
	eng := engine.NewEngine(z, el, log, tun, time.Hour, rand.New(rand.NewSource(3)))
	hub := NewHub(eng, optimization.LowResourceConfig(), log)

	ctx, cancel := context.WithCancel(context.Background())
	go eng.Run(ctx)
	go hub.Run(ctx)
	t.Cleanup(cancel)

	mux := http.NewServeMux()
	NewZooAPI(eng, hub, log).RegisterRoutes(mux)
	NewHistoryHandler(el, log).RegisterRoutes(mux)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, eng, el
}

func doRequest(t *testing.T, method, url, body string) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequestWithContext(context.Background(), method, url, reader)
	if err != nil {
		t.Fatalf("Building %s %s failed: %v", method, url, err)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, url, err)
	}
	return resp
}

func TestStatusEndpointServesASnapshot(t *testing.T) {
	// Setup
	srv, _, _ := newTestServer(t, 2000, func(z *zoo.Zoo) {
		z.AddEnclosure(enclosure.New("Gum Grove", enclosure.HabitatForest, 4))
	})

	// Act
	resp := doRequest(t, http.MethodGet, srv.URL+"/api/zoo/status", "")
	defer resp.Body.Close()

	// Assert
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	var snap engine.ZooSnapshot
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		t.Fatalf("Expected a snapshot body, got %v", err)
	}
	if snap.Name != "Test Park" {
		t.Errorf("Expected Test Park, got %q", snap.Name)
	}
	if snap.Day != 1 {
		t.Errorf("Expected day 1, got %d", snap.Day)
	}
	if len(snap.Enclosures) != 1 {
		t.Errorf("Expected 1 enclosure, got %d", len(snap.Enclosures))
	}
}

func TestCommandEndpointBuysAnAnimal(t *testing.T) {
	// Setup
	srv, _, _ := newTestServer(t, 2000, func(z *zoo.Zoo) {
		z.AddEnclosure(enclosure.New("Gum Grove", enclosure.HabitatForest, 4))
	})

	// Act
	resp := doRequest(t, http.MethodPost, srv.URL+"/api/zoo/command",
		`{"action":"buy_animal","species":"koala","enclosure":"Gum Grove","name":"Matilda"}`)
	defer resp.Body.Close()

	// Assert
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	var out struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("Expected a JSON body, got %v", err)
	}
	if !out.Success || !strings.Contains(out.Message, "Matilda") {
		t.Errorf("Expected a purchase naming Matilda, got %+v", out)
	}

	status := doRequest(t, http.MethodGet, srv.URL+"/api/zoo/status", "")
	defer status.Body.Close()
	var snap engine.ZooSnapshot
	if err := json.NewDecoder(status.Body).Decode(&snap); err != nil {
		t.Fatalf("Expected a snapshot body, got %v", err)
	}
	if snap.AnimalCount != 1 {
		t.Errorf("Expected 1 animal after the purchase, got %d", snap.AnimalCount)
	}
	if snap.Balance != 1600 {
		t.Errorf("Expected balance 1600 after a $400 koala, got %.2f", snap.Balance)
	}
}

func TestCommandEndpointMapsRejections(t *testing.T) {
	// Setup: $100 cannot buy a $400 koala
	srv, _, _ := newTestServer(t, 100, func(z *zoo.Zoo) {
		z.AddEnclosure(enclosure.New("Gum Grove", enclosure.HabitatForest, 4))
	})

	cases := []struct {
		name       string
		body       string
		wantStatus int
		wantKind   string
	}{
		{
			name:       "insufficient funds pays 402",
			body:       `{"action":"buy_animal","species":"koala","enclosure":"Gum Grove"}`,
			wantStatus: http.StatusPaymentRequired,
			wantKind:   "INSUFFICIENT_FUNDS",
		},
		{
			name:       "wrong habitat conflicts",
			body:       `{"action":"buy_animal","species":"emu","enclosure":"Gum Grove"}`,
			wantStatus: http.StatusConflict,
			wantKind:   "SPECIES_INCOMPATIBILITY",
		},
		{
			name:       "unknown action is a bad request",
			body:       `{"action":"paint_the_fence"}`,
			wantStatus: http.StatusBadRequest,
			wantKind:   "INVALID_ACTION",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			// Act
			resp := doRequest(t, http.MethodPost, srv.URL+"/api/zoo/command", tc.body)
			defer resp.Body.Close()

			// Assert
			if resp.StatusCode != tc.wantStatus {
				t.Errorf("Expected status %d, got %d", tc.wantStatus, resp.StatusCode)
			}
			var out struct {
				Error string `json:"error"`
				Kind  string `json:"kind"`
			}
			if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
				t.Fatalf("Expected a JSON error body, got %v", err)
			}
			if out.Kind != tc.wantKind {
				t.Errorf("Expected kind %s, got %s", tc.wantKind, out.Kind)
			}
			if out.Error == "" {
				t.Errorf("Expected a readable error message")
			}
		})
	}
}

func TestCommandEndpointRejectsGarbage(t *testing.T) {
	// Setup
	srv, _, _ := newTestServer(t, 2000, nil)

	// Act
	broken := doRequest(t, http.MethodPost, srv.URL+"/api/zoo/command", `{"action":`)
	defer broken.Body.Close()
	empty := doRequest(t, http.MethodPost, srv.URL+"/api/zoo/command", `{}`)
	defer empty.Body.Close()

	// Assert
	if broken.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected 400 for malformed JSON, got %d", broken.StatusCode)
	}
	if empty.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected 400 for a missing action, got %d", empty.StatusCode)
	}
}

func TestReportEndpointServesThreeFormats(t *testing.T) {
	// Setup
	srv, _, _ := newTestServer(t, 2000, func(z *zoo.Zoo) {
		z.AddEnclosure(enclosure.New("Gum Grove", enclosure.HabitatForest, 4))
	})

	// Act
	text := doRequest(t, http.MethodGet, srv.URL+"/api/zoo/report", "")
	defer text.Body.Close()
	pdf := doRequest(t, http.MethodGet, srv.URL+"/api/zoo/report?format=pdf", "")
	defer pdf.Body.Close()
	unknown := doRequest(t, http.MethodGet, srv.URL+"/api/zoo/report?format=docx", "")
	defer unknown.Body.Close()

	// Assert
	body, _ := io.ReadAll(text.Body)
	if !strings.Contains(string(body), "Test Park") {
		t.Errorf("Expected the text report to name the park")
	}
	if ct := text.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("Expected text/plain, got %s", ct)
	}

	pdfBody, _ := io.ReadAll(pdf.Body)
	if !strings.HasPrefix(string(pdfBody), "%PDF-") {
		t.Errorf("Expected a PDF document")
	}

	if unknown.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected 400 for an unknown format, got %d", unknown.StatusCode)
	}
}

func TestHealthEndpointAnswers(t *testing.T) {
	// Setup
	srv, _, _ := newTestServer(t, 2000, nil)

	// Act
	resp := doRequest(t, http.MethodGet, srv.URL+"/healthz", "")
	defer resp.Body.Close()

	// Assert
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	var out struct {
		Status  string `json:"status"`
		Clients int    `json:"clients"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("Expected a JSON body, got %v", err)
	}
	if out.Status != "ok" {
		t.Errorf("Expected status ok, got %q", out.Status)
	}
	if out.Clients != 0 {
		t.Errorf("Expected zero clients, got %d", out.Clients)
	}
}
