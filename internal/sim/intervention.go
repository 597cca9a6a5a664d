package sim

import (
	"fmt"

	"contagion/internal/domain"
)

// Intervention kinds accepted by ApplyIntervention
const (
	InterventionSocialDistancing = "social_distancing"
	InterventionLockdown         = "lockdown"
	InterventionVaccination      = "vaccination"
)

const vaccineImmunity = 0.9

// ApplyIntervention mutates the agent population once, taking effect from
// the next tick. Strength is clamped to [0,1]. Interventions apply at any
// time, running or stopped.
func (s *Simulation) ApplyIntervention(kind string, strength float64) error {
	if s.reg == nil {
		return ErrNoNetwork
	}
	strength = clamp01(strength)

	switch kind {
	case InterventionSocialDistancing:
		// Permanent population-wide activity cut; repeated applications
		// compound.
		factor := 1 - strength
		s.reg.ForEach(func(a *domain.Agent) {
			a.SocialActivity *= factor
		})

	case InterventionLockdown:
		targets := s.agentsWhere(func(a *domain.Agent) bool {
			return a.Status == domain.StatusHealthy
		})
		count := int(float64(len(targets)) * strength)
		for _, idx := range s.rng.Perm(len(targets))[:count] {
			targets[idx].Isolate(s.tick)
		}

	case InterventionVaccination:
		targets := s.agentsWhere(func(a *domain.Agent) bool {
			return a.Status == domain.StatusHealthy && !a.Vaccinated
		})
		count := int(float64(len(targets)) * strength)
		for _, idx := range s.rng.Perm(len(targets))[:count] {
			targets[idx].Vaccinated = true
			targets[idx].Immunity = vaccineImmunity
		}

	default:
		return fmt.Errorf("%w: %q", ErrUnknownIntervention, kind)
	}
	return nil
}

// agentsWhere returns matching agents in ascending ID order so sampling
// over the slice is reproducible under a seeded rng.
func (s *Simulation) agentsWhere(keep func(*domain.Agent) bool) []*domain.Agent {
	var out []*domain.Agent
	s.reg.ForEach(func(a *domain.Agent) {
		if keep(a) {
			out = append(out, a)
		}
	})
	return out
}
