package service

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"contagion/internal/repository/sqlite"
	"contagion/internal/sim"
)

func newTestService(t *testing.T) *SimulationService {
	t.Helper()

	repo, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("failed to create repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })

	rng := rand.New(rand.NewSource(1))
	engine := sim.New(sim.DefaultParameters(), rng)
	return New(engine, repo, NewEventBus(), rng, Options{TargetNodes: 50})
}

func TestLoadNetworkSynthetic(t *testing.T) {
	svc := newTestService(t)

	view, err := svc.LoadNetwork(context.Background(), "", false)
	if err != nil {
		t.Fatalf("LoadNetwork() error = %v", err)
	}
	if view.Source != "synthetic" {
		t.Errorf("source = %q, want synthetic default", view.Source)
	}
	if len(view.Nodes) != 50 {
		t.Errorf("nodes = %d, want 50", len(view.Nodes))
	}
	if len(view.Edges) == 0 {
		t.Error("network has no edges")
	}
	if view.Stats.Healthy != 50 {
		t.Errorf("initial healthy = %d, want 50", view.Stats.Healthy)
	}
	for _, n := range view.Nodes {
		if n.State != "healthy" {
			t.Fatalf("node %d state = %q before start, want healthy", n.ID, n.State)
		}
		if n.X < 0 || n.X > 1 || n.Y < 0 || n.Y > 1 {
			t.Fatalf("node %d position (%v,%v) outside unit square", n.ID, n.X, n.Y)
		}
	}
}

func TestLoadNetworkUnknownSource(t *testing.T) {
	svc := newTestService(t)
	if _, err := svc.LoadNetwork(context.Background(), "twitter", false); err == nil {
		t.Fatal("LoadNetwork() with unknown source should fail")
	}
}

func TestLoadNetworkUsesCache(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	first, err := svc.LoadNetwork(ctx, "synthetic", false)
	if err != nil {
		t.Fatalf("LoadNetwork() error = %v", err)
	}

	// A second load with a fresh rng state must reproduce the cached
	// topology exactly.
	second, err := svc.LoadNetwork(ctx, "synthetic", false)
	if err != nil {
		t.Fatalf("LoadNetwork() from cache error = %v", err)
	}
	if len(first.Edges) != len(second.Edges) {
		t.Fatalf("cached reload edges = %d, want %d", len(second.Edges), len(first.Edges))
	}
	for i := range first.Edges {
		if first.Edges[i] != second.Edges[i] {
			t.Fatalf("edge %d = %v from cache, want %v", i, second.Edges[i], first.Edges[i])
		}
	}
	for i := range first.Nodes {
		if first.Nodes[i].X != second.Nodes[i].X || first.Nodes[i].Y != second.Nodes[i].Y {
			t.Fatalf("node %d layout differs across cached reload", first.Nodes[i].ID)
		}
	}
}

func TestStartStepStop(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Step(); !errors.Is(err, sim.ErrNoNetwork) {
		t.Fatalf("Step() before load error = %v, want ErrNoNetwork", err)
	}

	if _, err := svc.LoadNetwork(ctx, "synthetic", false); err != nil {
		t.Fatalf("LoadNetwork() error = %v", err)
	}

	params := sim.DefaultParameters()
	params.InitialInfected = 5
	status, err := svc.Start(params)
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if !status.Running {
		t.Error("status.Running = false after start")
	}
	if status.Stats.Infected != 5 {
		t.Errorf("infected = %d after start, want 5", status.Stats.Infected)
	}

	view, err := svc.Step()
	if err != nil {
		t.Fatalf("Step() error = %v", err)
	}
	if view.Stats.Tick != 1 {
		t.Errorf("tick = %d after one step, want 1", view.Stats.Tick)
	}
	if len(view.Nodes) != 50 {
		t.Errorf("step view nodes = %d, want 50", len(view.Nodes))
	}

	status = svc.Stop()
	if status.Running {
		t.Error("status.Running = true after stop")
	}

	// Stopped steps do not advance the tick.
	view, err = svc.Step()
	if err != nil {
		t.Fatalf("Step() while stopped error = %v", err)
	}
	if view.Stats.Tick != 1 {
		t.Errorf("tick = %d after stopped step, want 1", view.Stats.Tick)
	}
}

func TestReset(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.LoadNetwork(ctx, "synthetic", false); err != nil {
		t.Fatalf("LoadNetwork() error = %v", err)
	}
	if _, err := svc.Start(sim.DefaultParameters()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	for i := 0; i < 5; i++ {
		if _, err := svc.Step(); err != nil {
			t.Fatalf("Step() error = %v", err)
		}
	}

	status := svc.Reset()
	if status.Running || status.Tick != 0 {
		t.Errorf("status after reset = %+v, want stopped at tick 0", status)
	}
	if status.Stats.Healthy != 50 {
		t.Errorf("healthy = %d after reset, want 50", status.Stats.Healthy)
	}
}

func TestApplyIntervention(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.ApplyIntervention(sim.InterventionVaccination, 0.5); !errors.Is(err, sim.ErrNoNetwork) {
		t.Fatalf("ApplyIntervention() before load error = %v, want ErrNoNetwork", err)
	}

	if _, err := svc.LoadNetwork(ctx, "synthetic", false); err != nil {
		t.Fatalf("LoadNetwork() error = %v", err)
	}

	if _, err := svc.ApplyIntervention("unknown", 0.5); !errors.Is(err, sim.ErrUnknownIntervention) {
		t.Fatalf("ApplyIntervention() error = %v, want ErrUnknownIntervention", err)
	}

	status, err := svc.ApplyIntervention(sim.InterventionLockdown, 1)
	if err != nil {
		t.Fatalf("ApplyIntervention() error = %v", err)
	}
	if !status.NetworkLoaded {
		t.Error("status.NetworkLoaded = false")
	}
}

func TestAnalysis(t *testing.T) {
	svc := newTestService(t)

	if _, err := svc.Analysis(); !errors.Is(err, sim.ErrNoNetwork) {
		t.Fatalf("Analysis() before load error = %v, want ErrNoNetwork", err)
	}

	if _, err := svc.LoadNetwork(context.Background(), "synthetic", false); err != nil {
		t.Fatalf("LoadNetwork() error = %v", err)
	}

	analysis, err := svc.Analysis()
	if err != nil {
		t.Fatalf("Analysis() error = %v", err)
	}
	if analysis.AvgDegree <= 0 {
		t.Errorf("average degree = %v, want positive", analysis.AvgDegree)
	}
	if len(analysis.DegreeCentrality) != 50 {
		t.Errorf("degree centrality entries = %d, want 50", len(analysis.DegreeCentrality))
	}
}

func TestEventBusReceivesTicks(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	ch := make(chan Event, 64)
	svc.bus.Subscribe(ch)

	if _, err := svc.LoadNetwork(ctx, "synthetic", false); err != nil {
		t.Fatalf("LoadNetwork() error = %v", err)
	}
	if _, err := svc.Start(sim.DefaultParameters()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if _, err := svc.Step(); err != nil {
		t.Fatalf("Step() error = %v", err)
	}

	var types []EventType
	for len(ch) > 0 {
		types = append(types, (<-ch).Type)
	}

	want := []EventType{EventNetworkLoaded, EventSimulationStarted, EventSimulationTick}
	if len(types) != len(want) {
		t.Fatalf("event types = %v, want %v", types, want)
	}
	for i := range want {
		if types[i] != want[i] {
			t.Fatalf("event %d = %v, want %v", i, types[i], want[i])
		}
	}
}
