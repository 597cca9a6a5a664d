package sim

import (
	"math/rand"
	"testing"

	"contagion/internal/domain"
)

func TestRegistryAttributes(t *testing.T) {
	net := ringNetwork(200)
	reg := NewRegistry(net, rand.New(rand.NewSource(1)))

	if reg.Count() != 200 {
		t.Fatalf("Count() = %d, want 200", reg.Count())
	}

	reg.ForEach(func(a *domain.Agent) {
		if a.Age < minAge || a.Age > maxAge {
			t.Errorf("agent %d age = %d, want in [%d,%d]", a.ID, a.Age, minAge, maxAge)
		}
		if a.SocialActivity <= 0 || a.SocialActivity >= 1 {
			t.Errorf("agent %d social activity = %v, want in (0,1)", a.ID, a.SocialActivity)
		}
		if a.QuarantineCompliance < minCompliance || a.QuarantineCompliance > 1 {
			t.Errorf("agent %d compliance = %v, want in [%v,1]", a.ID, a.QuarantineCompliance, minCompliance)
		}
		for day, m := range a.Mobility {
			max := weekdayMobilityMax
			if day >= 5 {
				max = weekendMobilityMax
			}
			if m < 0 || m > max {
				t.Errorf("agent %d day %d mobility = %v, want in [0,%v]", a.ID, day, m, max)
			}
		}
		if a.Status != domain.StatusHealthy || a.Isolated {
			t.Errorf("agent %d created in state %v isolated=%v", a.ID, a.Status, a.Isolated)
		}
	})
}

func TestRegistryDeterministic(t *testing.T) {
	net := ringNetwork(50)
	a := NewRegistry(net, rand.New(rand.NewSource(9)))
	b := NewRegistry(net, rand.New(rand.NewSource(9)))

	a.ForEach(func(agent *domain.Agent) {
		other := b.Get(agent.ID)
		if *agent != *other {
			t.Fatalf("agent %d differs across same-seed registries", agent.ID)
		}
	})
}

func TestRegistryReinitialize(t *testing.T) {
	net := ringNetwork(10)
	reg := NewRegistry(net, rand.New(rand.NewSource(1)))

	a := reg.Get(4)
	social := a.SocialActivity
	mobility := a.Mobility
	a.Infect()
	a.Isolate(3)
	a.Vaccinated = true
	a.Immunity = 0.9

	reg.Reinitialize()
	if a.Status != domain.StatusHealthy || a.Isolated || a.DaysInState != 0 {
		t.Errorf("agent after reinitialize: status=%v isolated=%v days=%d", a.Status, a.Isolated, a.DaysInState)
	}
	if a.Vaccinated || a.Immunity != 0 {
		t.Errorf("vaccination survived reinitialize")
	}
	if a.SocialActivity != social || a.Mobility != mobility {
		t.Errorf("static attributes changed by reinitialize")
	}
}

func TestQuarantineGridWithinRegion(t *testing.T) {
	for _, n := range []int{1, 7, 50, 300} {
		s := newTestSim(t, ringNetwork(n), DefaultParameters(), 1)
		seen := make(map[domain.Point]int64)
		s.Registry().ForEach(func(a *domain.Agent) {
			q := a.Quarantine
			if q.X < quarantineMin || q.X > quarantineMax || q.Y < quarantineMin || q.Y > quarantineMax {
				t.Errorf("n=%d: agent %d quarantine cell %+v outside region", n, a.ID, q)
			}
			if prev, ok := seen[q]; ok {
				t.Errorf("n=%d: agents %d and %d share quarantine cell %+v", n, prev, a.ID, q)
			}
			seen[q] = a.ID
		})
	}
}

func TestActiveAgents(t *testing.T) {
	s := newTestSim(t, ringNetwork(5), DefaultParameters(), 1)

	// Fixed mobility patterns: Monday (day 0) values straddle the
	// threshold, Sunday (day 6) clears it for everyone.
	monday := []float64{0.1, 0.4, 0.9, 0.2, 0.5}
	for i, id := range s.Registry().IDs() {
		a := s.Registry().Get(id)
		a.Mobility = [7]float64{monday[i], 0, 0, 0, 0, 0, 0.6}
	}

	active := s.activeAgents(0)
	want := map[int64]bool{1: true, 2: true, 4: true}
	if len(active) != len(want) {
		t.Fatalf("activeAgents(0) = %v, want %v", active, want)
	}
	for id := range want {
		if !active[id] {
			t.Errorf("node %d missing from Monday active set", id)
		}
	}

	t.Run("isolated and deceased excluded", func(t *testing.T) {
		s.Registry().Get(2).Isolate(0)
		a := s.Registry().Get(4)
		a.Infect()
		a.Die()

		active := s.activeAgents(6)
		for _, id := range []int64{2, 4} {
			if active[id] {
				t.Errorf("node %d in active set, want excluded", id)
			}
		}
		for _, id := range []int64{0, 1, 3} {
			if !active[id] {
				t.Errorf("node %d missing from Sunday active set", id)
			}
		}
	})
}
