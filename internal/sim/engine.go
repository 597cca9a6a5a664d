package sim

import "contagion/internal/domain"

// backgroundDetection scales the quarantine rate for infected agents that
// slipped past detection at infection time.
const backgroundDetection = 0.1

// transitions holds one tick's pending state changes. All random draws
// happen against the pre-tick state; nothing is applied until commit.
type transitions struct {
	infections []int64
	isolations []int64
	deaths     []int64
	recoveries []int64
	releases   []int64
}

// computeTransitions evaluates spread, isolation, resolution, and release
// against the state as it stood when the tick began. A nil active set
// means day scheduling is off and every agent circulates.
func (s *Simulation) computeTransitions(t int, active map[int64]bool) transitions {
	var tr transitions

	circulating := func(a *domain.Agent) bool {
		if a.Isolated || a.Status.Terminal() {
			return false
		}
		return active == nil || active[a.ID]
	}

	// Spread. Sources are the agents infected before this tick; each
	// susceptible neighbor gets one draw per infectious contact but at
	// most one infection.
	newlyInfected := make(map[int64]bool)
	s.reg.ForEach(func(a *domain.Agent) {
		if a.Status != domain.StatusInfected || !circulating(a) {
			return
		}
		for _, nb := range s.net.Neighbors(a.ID) {
			b := s.reg.Get(nb)
			if b.Status != domain.StatusHealthy || !circulating(b) {
				continue
			}
			if s.rng.Float64() < s.transmissionProbability(a, b) && !newlyInfected[b.ID] {
				newlyInfected[b.ID] = true
				tr.infections = append(tr.infections, b.ID)
			}
		}
	})

	// Isolation. Newly infected agents are detected with probability
	// scaled by their compliance; the rest of the infected pool faces a
	// weaker background detection each tick.
	for _, id := range tr.infections {
		a := s.reg.Get(id)
		if s.rng.Float64() < s.params.QuarantineRate*a.QuarantineCompliance {
			tr.isolations = append(tr.isolations, id)
		}
	}
	s.reg.ForEach(func(a *domain.Agent) {
		if a.Status != domain.StatusInfected || a.Isolated {
			return
		}
		if s.rng.Float64() < s.params.QuarantineRate*backgroundDetection {
			tr.isolations = append(tr.isolations, a.ID)
		}
	})

	// Resolution. Only agents infected before this tick resolve; death is
	// drawn first and excludes recovery. Both chances grow with time in
	// state, capped so long infections never become certainties.
	s.reg.ForEach(func(a *domain.Agent) {
		if a.Status != domain.StatusInfected {
			return
		}
		d := float64(a.DaysInState)
		deathChance := min(s.params.DeathRate*(1+d/20), maxDeathChance)
		recoveryChance := min(s.params.RecoveryRate*(1+d/15), maxRecoveryChance)
		if s.rng.Float64() < deathChance {
			tr.deaths = append(tr.deaths, a.ID)
		} else if s.rng.Float64() < recoveryChance {
			tr.recoveries = append(tr.recoveries, a.ID)
		}
	})

	// Release. An agent isolated at tick T leaves exactly at T+limit
	// unless recovery or death released it first.
	s.reg.ForEach(func(a *domain.Agent) {
		if a.Isolated && t-a.IsolationEnteredAt >= s.params.IsolationLimit {
			tr.releases = append(tr.releases, a.ID)
		}
	})

	return tr
}

// commit applies one tick's transitions atomically. Ordering matters:
// deaths and recoveries settle the pre-tick infected before infections
// land, and the agent methods make conflicting entries harmless no-ops
// (a released agent that died this tick is already out of isolation).
func (s *Simulation) commit(t int, tr transitions) {
	for _, id := range tr.deaths {
		s.reg.Get(id).Die()
	}
	for _, id := range tr.recoveries {
		s.reg.Get(id).Recover()
	}
	for _, id := range tr.infections {
		s.reg.Get(id).Infect()
	}
	for _, id := range tr.isolations {
		s.reg.Get(id).Isolate(t)
	}
	for _, id := range tr.releases {
		s.reg.Get(id).Release()
	}
}

// transmissionProbability is the per-contact infection chance from src to
// dst: base rate scaled by both social activities, the source's
// infectiousness decay, the target's age risk, and the target's immunity.
func (s *Simulation) transmissionProbability(src, dst *domain.Agent) float64 {
	p := s.params.InfectionRate *
		src.SocialActivity * dst.SocialActivity *
		timeDecay(src.DaysInState) *
		ageRisk(dst.Age) *
		(1 - dst.Immunity)
	return clamp01(p)
}

// timeDecay models waning infectiousness: full strength on the first day
// infected, then falling off as 2/(1+d).
func timeDecay(days int) float64 {
	v := 2.0 / float64(1+days)
	if v > 1 {
		return 1
	}
	return v
}

// ageRisk raises susceptibility past age 40 and lowers it below
func ageRisk(age int) float64 {
	return 1 + float64(age-40)/100
}
