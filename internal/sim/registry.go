package sim

import (
	"math"
	"math/rand"

	"contagion/internal/domain"
	"contagion/internal/graph"
)

// Agent attribute ranges, taken from the reference population model
const (
	minAge = 18
	maxAge = 80

	minCompliance = 0.5

	weekdayMobilityMin = 0.1
	weekdayMobilityMax = 0.5
	weekendMobilityMin = 0.3
	weekendMobilityMax = 0.8
)

// Registry holds one agent per network node. Agents are created once at
// network-load time and mutated in place for the simulation's lifetime;
// iteration is always in ascending node-ID order so seeded runs are
// reproducible.
type Registry struct {
	agents map[int64]*domain.Agent
	ids    []int64
}

// NewRegistry creates agents for every node of the network with randomized
// static attributes: age uniform in [18,80], social activity Beta(2,2),
// compliance uniform in [0.5,1], and a weekly mobility pattern scaled by
// social activity (weekend days draw from a wider range than weekdays).
func NewRegistry(n *graph.Network, rng *rand.Rand) *Registry {
	ids := n.Nodes()
	r := &Registry{
		agents: make(map[int64]*domain.Agent, len(ids)),
		ids:    ids,
	}

	for _, id := range ids {
		age := minAge + rng.Intn(maxAge-minAge+1)
		social := beta22(rng)
		compliance := minCompliance + rng.Float64()*(1-minCompliance)

		a := domain.NewAgent(id, age, social, compliance)
		a.Mobility = mobilityPattern(social, rng)
		r.agents[id] = a
	}

	return r
}

// mobilityPattern samples the per-weekday circulation fractions. Index 0 is
// Monday; Saturday and Sunday (5, 6) draw from the wider weekend range.
func mobilityPattern(social float64, rng *rand.Rand) [7]float64 {
	var pattern [7]float64
	for day := 0; day < 7; day++ {
		lo, hi := weekdayMobilityMin, weekdayMobilityMax
		if day >= 5 {
			lo, hi = weekendMobilityMin, weekendMobilityMax
		}
		pattern[day] = (lo + rng.Float64()*(hi-lo)) * social
	}
	return pattern
}

// beta22 samples Beta(2,2), a symmetric bell over [0,1], via two Gamma(2)
// draws.
func beta22(rng *rand.Rand) float64 {
	g1 := -math.Log(rng.Float64() * rng.Float64())
	g2 := -math.Log(rng.Float64() * rng.Float64())
	return g1 / (g1 + g2)
}

// Get returns the agent for a node ID, or nil
func (r *Registry) Get(id int64) *domain.Agent {
	return r.agents[id]
}

// IDs returns all node IDs in ascending order
func (r *Registry) IDs() []int64 {
	return r.ids
}

// Count returns the population size
func (r *Registry) Count() int {
	return len(r.ids)
}

// ForEach visits every agent in ascending node-ID order
func (r *Registry) ForEach(fn func(*domain.Agent)) {
	for _, id := range r.ids {
		fn(r.agents[id])
	}
}

// Reinitialize returns every agent to the healthy default in place
func (r *Registry) Reinitialize() {
	r.ForEach(func(a *domain.Agent) { a.Reinitialize() })
}
