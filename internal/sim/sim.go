package sim

import (
	"errors"
	"math/rand"

	"contagion/internal/domain"
	"contagion/internal/graph"
	"contagion/internal/random"
)

var (
	// ErrNoNetwork is returned by operations that need a loaded network
	ErrNoNetwork = errors.New("no network loaded")

	// ErrUnknownIntervention is returned for unrecognized intervention kinds
	ErrUnknownIntervention = errors.New("unknown intervention")
)

// Simulation is a caller-owned epidemic simulation over one contact
// network. It is not safe for concurrent use; callers serving parallel
// requests must serialize access (see service.SimulationService).
type Simulation struct {
	params Parameters
	rng    *rand.Rand

	net *graph.Network
	reg *Registry

	tick    int
	running bool
	last    domain.Snapshot
}

// New creates a simulation with the given parameters. A nil rng gets a
// crypto-seeded source; tests inject a fixed-seed rng for reproducibility.
func New(params Parameters, rng *rand.Rand) *Simulation {
	if rng == nil {
		rng = rand.New(rand.NewSource(random.MustSeed()))
	}
	return &Simulation{params: params.normalized(), rng: rng}
}

// SetParameters replaces the transition parameters, filling structural
// zero values with defaults.
func (s *Simulation) SetParameters(p Parameters) {
	s.params = p.normalized()
}

// Parameters returns the active parameters
func (s *Simulation) Parameters() Parameters {
	return s.params
}

// LoadNetwork binds the simulation to a contact network and creates one
// agent per node. Home positions come from the layout; the quarantine grid
// is assigned immediately so every position is defined from load time on.
func (s *Simulation) LoadNetwork(n *graph.Network, homes map[int64]domain.Point) {
	s.net = n
	s.reg = NewRegistry(n, s.rng)

	center := domain.Point{X: 0.4, Y: 0.4}
	s.reg.ForEach(func(a *domain.Agent) {
		home, ok := homes[a.ID]
		if !ok {
			home = center
		}
		a.Home = home
		a.Current = home
	})
	s.assignQuarantineGrid()

	s.tick = 0
	s.running = false
	s.last = s.snapshot()
}

// Network returns the bound contact network, or nil
func (s *Simulation) Network() *graph.Network {
	return s.net
}

// Registry exposes the agent registry for inspection
func (s *Simulation) Registry() *Registry {
	return s.reg
}

// Initialize seeds the infected set and resets all counters. Seed nodes,
// when given, are truncated to count; otherwise count agents are sampled
// uniformly. The graph and agent attributes are kept.
func (s *Simulation) Initialize(count int, seeds []int64) error {
	if s.reg == nil {
		return ErrNoNetwork
	}

	s.reg.Reinitialize()
	s.tick = 0

	if count > s.reg.Count() {
		count = s.reg.Count()
	}

	if len(seeds) > 0 {
		if len(seeds) > count {
			seeds = seeds[:count]
		}
		for _, id := range seeds {
			if a := s.reg.Get(id); a != nil {
				a.Infect()
			}
		}
	} else {
		ids := s.reg.IDs()
		for _, idx := range s.rng.Perm(len(ids))[:count] {
			s.reg.Get(ids[idx]).Infect()
		}
	}

	s.last = s.snapshot()
	return nil
}

// Start sets the running flag; no other side effects
func (s *Simulation) Start() {
	s.running = true
}

// Stop clears the running flag. An in-progress tick is never interrupted;
// the flag is checked only at the start of Step.
func (s *Simulation) Stop() {
	s.running = false
}

// Running reports whether the simulation advances on Step
func (s *Simulation) Running() bool {
	return s.running
}

// Tick returns the last completed tick number
func (s *Simulation) Tick() int {
	return s.tick
}

// Reset reinitializes all agents to healthy, clears the tick counter, and
// stops the run. The network stays loaded.
func (s *Simulation) Reset() {
	s.running = false
	s.tick = 0
	if s.reg == nil {
		return
	}
	s.reg.Reinitialize()
	s.last = s.snapshot()
}

// Step advances one tick and returns the new snapshot. While stopped it
// returns the last snapshot unchanged, so idle polling is a safe no-op.
// Stepping before a network is loaded is a precondition failure.
func (s *Simulation) Step() (domain.Snapshot, error) {
	if s.reg == nil {
		return domain.Snapshot{}, ErrNoNetwork
	}
	if !s.running {
		return s.last, nil
	}

	t := s.tick + 1
	day := t % 7

	s.reg.ForEach(func(a *domain.Agent) {
		if !a.Status.Terminal() {
			a.DaysInState++
		}
	})

	var active map[int64]bool
	if s.params.DayScheduling {
		active = s.activeAgents(day)
	}

	tr := s.computeTransitions(t, active)
	s.commit(t, tr)

	s.tick = t
	s.updatePositions()

	s.last = s.snapshot()
	return s.last, nil
}

// Snapshot returns the statistics for the current state
func (s *Simulation) Snapshot() domain.Snapshot {
	if s.reg == nil {
		return domain.Snapshot{}
	}
	return s.last
}

// AgentStates maps every node to its display classification
func (s *Simulation) AgentStates() map[int64]domain.DisplayState {
	states := make(map[int64]domain.DisplayState)
	if s.reg == nil {
		return states
	}
	s.reg.ForEach(func(a *domain.Agent) {
		states[a.ID] = a.Display()
	})
	return states
}

// Positions maps every node to its current unit-square position
func (s *Simulation) Positions() map[int64]domain.Point {
	positions := make(map[int64]domain.Point)
	if s.reg == nil {
		return positions
	}
	s.reg.ForEach(func(a *domain.Agent) {
		positions[a.ID] = a.Current
	})
	return positions
}

// NetworkAnalysis computes centrality, clustering, and path-length
// measures for the bound network.
func (s *Simulation) NetworkAnalysis() (*graph.Analysis, error) {
	if s.net == nil {
		return nil, ErrNoNetwork
	}
	return graph.Analyze(s.net, s.rng), nil
}

func (s *Simulation) snapshot() domain.Snapshot {
	snap := domain.Snapshot{Tick: s.tick, Day: s.tick % 7}
	s.reg.ForEach(func(a *domain.Agent) {
		snap.Add(a.Display())
	})
	return snap
}
