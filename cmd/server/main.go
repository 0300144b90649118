package main

import (
	"context"
	"encoding/json"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"wingsim/internal/aero"
	"wingsim/internal/config"
	"wingsim/internal/level"
	"wingsim/internal/logging"
	"wingsim/internal/phys"
	"wingsim/internal/plane"
	"wingsim/internal/sim"
	"wingsim/internal/transport/ws"
)

func main() {
	configPath := flag.String("config", "", "path to JSON config file (optional)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		bootLog := logging.New("info")
		bootLog.Fatal().Err(err).Msg("config")
	}

	log := logging.New(cfg.LogLevel)
	log.Info().Str("listen", cfg.ListenAddr).Str("level", cfg.LevelPath).Msg("starting")

	mainFoil, err := aero.LoadAirfoil(cfg.MainAirfoil)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.MainAirfoil).Msg("main airfoil")
	}
	tailFoil, err := aero.LoadAirfoil(cfg.TailAirfoil)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.TailAirfoil).Msg("tail airfoil")
	}

	lvl, err := level.Load(cfg.LevelPath)
	if err != nil {
		log.Fatal().Err(err).Msg("level")
	}

	world := phys.NewWorld()
	registry := sim.NewRegistry()
	planeID, err := lvl.Populate(world, registry, logging.Component(log, "level"))
	if err != nil {
		log.Fatal().Err(err).Msg("populate level")
	}
	if planeID == "" {
		log.Fatal().Str("level", lvl.Name).Msg("level has no plane entity")
	}
	log.Info().Str("name", lvl.Name).Int("entities", registry.Len()).Str("plane", planeID).Msg("level loaded")

	airframe := plane.New(mainFoil, tailFoil, logging.Component(log, "plane"))
	bridge := sim.NewBridge()
	loop := sim.NewLoop(world, registry, airframe, planeID, bridge, logging.Component(log, "physics"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		loop.Run(ctx)
	}()

	hub := ws.NewHub(bridge, logging.Component(log, "ws"))
	syncLoop := ws.NewSyncLoop(hub, bridge, cfg.UpdateInterval, logging.Component(log, "sync"))
	wg.Add(1)
	go func() {
		defer wg.Done()
		syncLoop.Run(ctx)
	}()

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", hub.HandleWS)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/stats", func(w http.ResponseWriter, r *http.Request) {
		stats := loop.Stats().Snapshot()
		stats["clients"] = hub.ClientCount()
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(stats)
	})

	server := &http.Server{Addr: cfg.ListenAddr, Handler: mux}

	go func() {
		log.Info().Str("addr", cfg.ListenAddr).Msg("http server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("http server")
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info().Msg("shutting down")
	bridge.Shutdown()
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("http shutdown")
	}

	wg.Wait()
	log.Info().Msg("stopped")
}
