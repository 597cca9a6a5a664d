package service

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"sync"

	"contagion/internal/dataset"
	"contagion/internal/domain"
	"contagion/internal/graph"
	"contagion/internal/repository"
	"contagion/internal/sim"
)

// NodeView is one node as rendered by the front end
type NodeView struct {
	ID    int64   `json:"id"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	State string  `json:"state"`
}

// NetworkView is the full network payload: topology, positions, and the
// current statistics snapshot.
type NetworkView struct {
	Source string          `json:"source"`
	Nodes  []NodeView      `json:"nodes"`
	Edges  [][2]int64      `json:"edges"`
	Stats  domain.Snapshot `json:"stats"`
}

// StepView is the per-tick payload: statistics plus the node states and
// positions the front end animates.
type StepView struct {
	Stats   domain.Snapshot `json:"stats"`
	Nodes   []NodeView      `json:"nodes"`
	Running bool            `json:"running"`
}

// Status summarizes the simulation for polling clients
type Status struct {
	NetworkLoaded bool            `json:"network_loaded"`
	Running       bool            `json:"running"`
	Tick          int             `json:"tick"`
	Source        string          `json:"source,omitempty"`
	Parameters    sim.Parameters  `json:"parameters"`
	Stats         domain.Snapshot `json:"stats"`
}

// Options configure dataset resolution
type Options struct {
	DatasetSource string
	DatasetDir    string
	TargetNodes   int
}

// SimulationService provides business logic for simulation operations.
// The simulation itself is single-threaded; the service's mutex is the one
// mutual-exclusion region guarding it against concurrent HTTP requests.
type SimulationService struct {
	mu sync.Mutex

	sim    *sim.Simulation
	repo   repository.Repository
	bus    *EventBus
	rng    *rand.Rand
	opts   Options
	source string
}

// New creates a new simulation service. The repository may be nil to
// disable the layout cache.
func New(engine *sim.Simulation, repo repository.Repository, bus *EventBus, rng *rand.Rand, opts Options) *SimulationService {
	if opts.DatasetSource == "" {
		opts.DatasetSource = "synthetic"
	}
	if opts.TargetNodes <= 0 {
		opts.TargetNodes = dataset.DefaultTargetNodes
	}
	return &SimulationService{
		sim:  engine,
		repo: repo,
		bus:  bus,
		rng:  rng,
		opts: opts,
	}
}

// LoadNetwork prepares the contact network for a dataset source and binds
// the simulation to it. Cached networks are reused unless fresh is set;
// cache failures degrade to a rebuild, never an error.
func (s *SimulationService) LoadNetwork(ctx context.Context, source string, fresh bool) (*NetworkView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if source == "" {
		source = s.opts.DatasetSource
	}
	if source != "synthetic" && source != "real" {
		return nil, fmt.Errorf("unknown dataset source %q", source)
	}
	key := fmt.Sprintf("%s-%d", source, s.opts.TargetNodes)

	var (
		net    *graph.Network
		layout map[int64]domain.Point
	)
	if !fresh && s.repo != nil {
		cached, err := s.repo.GetNetwork(ctx, key)
		if err != nil {
			log.Printf("Layout cache read failed for %s: %v", key, err)
		} else if cached != nil {
			net = graph.New(cached.Edges)
			layout = cached.Layout
			log.Printf("Loaded cached network %s (%d nodes, %d edges)", key, net.Order(), net.Size())
		}
	}

	if net == nil {
		net = dataset.Load(source, s.opts.DatasetDir, s.opts.TargetNodes, s.rng)
		layout = graph.Layout(net, s.rng.Uint64())
		log.Printf("Built network %s (%d nodes, %d edges)", key, net.Order(), net.Size())

		if s.repo != nil {
			cached := &repository.CachedNetwork{
				Key:       key,
				NodeCount: net.Order(),
				Edges:     net.Edges(),
				Layout:    layout,
			}
			if err := s.repo.SaveNetwork(ctx, cached); err != nil {
				log.Printf("Layout cache write failed for %s: %v", key, err)
			}
		}
	}

	s.sim.LoadNetwork(net, layout)
	s.source = source

	s.bus.Publish(Event{
		Type: EventNetworkLoaded,
		Payload: map[string]interface{}{
			"source": source,
			"nodes":  net.Order(),
			"edges":  net.Size(),
		},
	})

	return s.networkView(), nil
}

// Network returns the current network payload
func (s *SimulationService) Network() (*NetworkView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sim.Network() == nil {
		return nil, sim.ErrNoNetwork
	}
	return s.networkView(), nil
}

// Start seeds the infected set with the given parameters and begins the
// run. Starting over a previous run reinitializes the population.
func (s *SimulationService) Start(params sim.Parameters) (*Status, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sim.SetParameters(params)
	if err := s.sim.Initialize(s.sim.Parameters().InitialInfected, nil); err != nil {
		return nil, err
	}
	s.sim.Start()

	s.bus.Publish(Event{Type: EventSimulationStarted, Payload: s.sim.Parameters()})
	return s.status(), nil
}

// Step advances the simulation one tick. While stopped it returns the
// current view unchanged.
func (s *SimulationService) Step() (*StepView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.sim.Step()
	if err != nil {
		return nil, err
	}

	view := &StepView{Stats: snap, Nodes: s.nodeViews(), Running: s.sim.Running()}
	if s.sim.Running() {
		s.bus.Publish(Event{Type: EventSimulationTick, Payload: view})
	}
	return view, nil
}

// Stop halts the run without touching agent state
func (s *SimulationService) Stop() *Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sim.Stop()
	s.bus.Publish(Event{Type: EventSimulationStopped})
	return s.status()
}

// Reset returns every agent to healthy and clears the tick counter; the
// network and layout stay loaded.
func (s *SimulationService) Reset() *Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sim.Reset()
	s.bus.Publish(Event{Type: EventSimulationReset})
	return s.status()
}

// Status reports the current simulation state
func (s *SimulationService) Status() *Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status()
}

// ApplyIntervention applies a named intervention at the given strength
func (s *SimulationService) ApplyIntervention(kind string, strength float64) (*Status, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.sim.ApplyIntervention(kind, strength); err != nil {
		return nil, err
	}

	s.bus.Publish(Event{
		Type:    EventInterventionApplied,
		Payload: map[string]interface{}{"kind": kind, "strength": strength},
	})
	return s.status(), nil
}

// Analysis computes structural measures over the loaded network
func (s *SimulationService) Analysis() (*graph.Analysis, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sim.NetworkAnalysis()
}

func (s *SimulationService) nodeViews() []NodeView {
	states := s.sim.AgentStates()
	positions := s.sim.Positions()

	nodes := make([]NodeView, 0, len(states))
	for _, id := range s.sim.Network().Nodes() {
		nodes = append(nodes, NodeView{
			ID:    id,
			X:     positions[id].X,
			Y:     positions[id].Y,
			State: string(states[id]),
		})
	}
	return nodes
}

func (s *SimulationService) networkView() *NetworkView {
	return &NetworkView{
		Source: s.source,
		Nodes:  s.nodeViews(),
		Edges:  s.sim.Network().Edges(),
		Stats:  s.sim.Snapshot(),
	}
}

func (s *SimulationService) status() *Status {
	return &Status{
		NetworkLoaded: s.sim.Network() != nil,
		Running:       s.sim.Running(),
		Tick:          s.sim.Tick(),
		Source:        s.source,
		Parameters:    s.sim.Parameters(),
		Stats:         s.sim.Snapshot(),
	}
}
