// Package main is the entry point for the OzZoo park server.
// It only handles dependency injection and server initialization.
// NO business logic belongs here.
package main

import (
	"context"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/websocket"

	"github.com/wildsim/ozzoo/internal/config"
	"github.com/wildsim/ozzoo/internal/domain/animal"
	"github.com/wildsim/ozzoo/internal/domain/enclosure"
	"github.com/wildsim/ozzoo/internal/domain/finance"
	"github.com/wildsim/ozzoo/internal/domain/item"
	"github.com/wildsim/ozzoo/internal/domain/zoo"
	"github.com/wildsim/ozzoo/internal/engine"
	"github.com/wildsim/ozzoo/internal/events"
	"github.com/wildsim/ozzoo/internal/keeper"
	"github.com/wildsim/ozzoo/internal/network"
	"github.com/wildsim/ozzoo/internal/platform/logger"
	"github.com/wildsim/ozzoo/internal/platform/metrics"
	"github.com/wildsim/ozzoo/internal/platform/optimization"
	"github.com/wildsim/ozzoo/internal/reports"
	"github.com/wildsim/ozzoo/internal/telemetry"
)

func main() {
	log.Println("[ZOO-SERVER] Initializing OzZoo park server...")

	cfg, err := config.Load("")
	if err != nil {
		log.Fatalf("[ZOO-SERVER] Configuration error: %v", err)
	}

	appLogger := logger.Must(logger.New(cfg.Logging.Level, cfg.Logging.Dev))
	defer appLogger.Sync()

	tun, err := config.LoadTuning(cfg.TuningPath)
	if err != nil {
		appLogger.Errorf("Tuning error: %v", err)
		os.Exit(1)
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))
	appLogger.Infof("Simulation seed: %d", seed)

	appLogger.Info("Bootstrapping event log and park...")
	eventLog := events.NewEventLog()
	park := seedStarterZoo(cfg.ZooName, tun, appLogger)

	appLogger.Info("Bootstrapping engine subsystems...")
	eng := engine.NewEngine(park, eventLog, appLogger, tun, cfg.Clock.TickInterval, rng)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	appLogger.Info("Bootstrapping WebSocket hub...")
	hub := network.NewHub(eng, optimization.DefaultConfig(), appLogger)
	go hub.Run(ctx)
	hub.StartEventPoller(ctx, eventLog)
	eng.OnDaySettled(hub.BroadcastSummary)
	eng.OnWelfareAlert(hub.BroadcastAlert)

	if cfg.Telemetry.Enabled {
		recorder, err := telemetry.NewRecorder(cfg.Telemetry.Dir, appLogger)
		if err != nil {
			appLogger.Errorf("Telemetry disabled: %v", err)
		} else {
			go recorder.Run(ctx)
			eng.OnDaySettled(recorder.Record)
			appLogger.Infof("Telemetry recording to %s/", cfg.Telemetry.Dir)
		}
	}

	if cfg.Keeper.Enabled {
		appLogger.Info("Head keeper autopilot engaged")
		autopilot := keeper.NewKeeper(eng, appLogger)
		go autopilot.Run(ctx)
		eng.OnDaySettled(autopilot.Notify)
	}

	exporter := reports.NewExporter(cfg.Reporting.Dir, cfg.Reporting.CronSchedule, eng, appLogger)
	if err := exporter.Start(); err != nil {
		appLogger.Errorf("Report exporter failed to start: %v", err)
	}
	defer exporter.Stop()

	if cfg.Clock.AutoStart {
		if err := eng.StartAutoOnBoot(); err != nil {
			appLogger.Errorf("Auto mode failed to engage: %v", err)
		} else {
			appLogger.Infof("Auto mode engaged: one day every %s", cfg.Clock.TickInterval)
		}
	}
	go eng.Run(ctx)

	// HTTP surface
	mux := http.NewServeMux()
	network.NewZooAPI(eng, hub, appLogger).RegisterRoutes(mux)
	network.NewHistoryHandler(eventLog, appLogger).RegisterRoutes(mux)
	mux.HandleFunc("/metrics", metrics.Handler())
	mux.HandleFunc("/metrics/prometheus", metrics.PrometheusHandler())
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		serveWs(hub, w, r, appLogger)
	})

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Printf("[ZOO-SERVER] HTTP API & WS listening on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[ZOO-SERVER] Server failed: %v", err)
		}
	}()

	log.Println("[ZOO-SERVER] Park open. Press Ctrl+C to close.")

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("[ZOO-SERVER] Shutting down...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Errorf("HTTP shutdown: %v", err)
	}
	cancel()
}

// seedStarterZoo builds the park every fresh server boots with: three
// starter enclosures, four residents, and a stocked store.
func seedStarterZoo(name string, tun *config.Tuning, log *logger.Logger) *zoo.Zoo {
	park := zoo.New(name, finance.NewLedger(tun.Economy.StartingBalance))

	forest := enclosure.New("Forest Enclosure", enclosure.HabitatForest, 4)
	grass := enclosure.New("Grassland Enclosure", enclosure.HabitatGrassland, 5)
	aviary := enclosure.New("Aviary", enclosure.HabitatAviary, 6)
	park.AddEnclosure(forest)
	park.AddEnclosure(grass)
	park.AddEnclosure(aviary)

	starters := []struct {
		species animal.Species
		name    string
		sex     animal.Sex
		ageDays int
		home    *enclosure.Enclosure
	}{
		{animal.SpeciesKoala, "Kiki", animal.SexFemale, 2, forest},
		{animal.SpeciesKoala, "Koko", animal.SexMale, 3, forest},
		{animal.SpeciesKangaroo, "Joey", animal.SexMale, 4, grass},
		{animal.SpeciesWedgeTailedEagle, "Aerie", animal.SexFemale, 5, aviary},
	}
	for _, s := range starters {
		a, err := animal.New(s.species, s.name, s.sex)
		if err != nil {
			log.Errorf("Starter animal %s: %v", s.name, err)
			continue
		}
		a.AgeDays = s.ageDays
		if err := s.home.Add(a); err != nil {
			log.Errorf("Placing %s: %v", s.name, err)
		}
	}

	park.AddStock(item.FoodEucalyptus, 20)
	park.AddStock(item.FoodHerbivorePellets, 30)
	park.AddStock(item.FoodSeeds, 20)
	park.AddStock(item.FoodMeaty, 10)
	park.AddStock(item.FoodGeneral, 25)
	park.AddStock(item.MedicineBasic, 5)

	log.Infof("%s seeded: %d enclosures, %d animals, $%.2f in the till",
		name, len(park.Enclosures), park.AnimalCount(), park.Ledger.Balance())
	return park
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Local operator frontend runs on its own dev port
	},
}

// serveWs handles websocket requests from the peer.
func serveWs(hub *network.Hub, w http.ResponseWriter, r *http.Request, log *logger.Logger) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Errorf("Failed to upgrade websocket connection: %v", err)
		return
	}

	client := network.NewClient(hub, conn)
	client.Register()

	// Allow collection of memory referenced by the caller by doing all work in
	// new goroutines.
	go client.WritePump()
	go client.ReadPump()
}
