package main

import (
	"context"
	"flag"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"contagion/internal/config"
	"contagion/internal/handler"
	"contagion/internal/hub"
	"contagion/internal/random"
	"contagion/internal/repository/sqlite"
	"contagion/internal/service"
	"contagion/internal/sim"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg, cfgPath, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfgPath != "" {
		log.Printf("Loaded config from %s", cfgPath)
	}

	// Flags override file and environment
	addr := flag.String("addr", cfg.Server.Addr, "HTTP listen address")
	dbPath := flag.String("db", cfg.Database.Path, "SQLite database path")
	dataDir := flag.String("data", cfg.Dataset.Dir, "dataset directory")
	seed := flag.Int64("seed", 0, "RNG seed (0 = random)")
	flag.Parse()

	log.Println("Starting Contagion server...")

	// Layout cache
	repo, err := sqlite.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer repo.Close()
	log.Printf("Database opened: %s", *dbPath)

	// Event bus and SSE hub
	eventBus := service.NewEventBus()
	sseHub := hub.New()
	go sseHub.Run()

	eventChan := make(chan service.Event, 100)
	eventBus.Subscribe(eventChan)
	go func() {
		for event := range eventChan {
			sseHub.Broadcast(string(event.Type), event.Payload)
		}
	}()

	// Simulation engine behind the service mutex
	if *seed == 0 {
		*seed = random.MustSeed()
	}
	rng := rand.New(rand.NewSource(*seed))
	log.Printf("RNG seed: %d", *seed)

	engine := sim.New(cfg.Parameters(), rng)
	simSvc := service.New(engine, repo, eventBus, rng, service.Options{
		DatasetSource: cfg.Dataset.Source,
		DatasetDir:    *dataDir,
		TargetNodes:   cfg.Dataset.TargetNodes,
	})

	// Routes
	mux := http.NewServeMux()
	simHandler := handler.NewSimulationHandler(simSvc, cfg.Parameters())
	simHandler.Register(mux)
	mux.Handle("GET /events", sseHub)

	finalHandler := handler.Chain(mux,
		handler.Recover,
		handler.CORS,
		handler.Logger,
	)

	server := &http.Server{
		Addr:        *addr,
		Handler:     finalHandler,
		ReadTimeout: 10 * time.Second,
		// No write timeout: SSE connections stay open indefinitely.
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		log.Printf("Server listening on %s", *addr)
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server stopped")
}
