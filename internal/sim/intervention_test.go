package sim

import (
	"errors"
	"math/rand"
	"testing"

	"contagion/internal/domain"
	"contagion/internal/graph"
)

func TestApplyInterventionWithoutNetwork(t *testing.T) {
	s := New(DefaultParameters(), rand.New(rand.NewSource(1)))
	if err := s.ApplyIntervention(InterventionVaccination, 0.5); !errors.Is(err, ErrNoNetwork) {
		t.Fatalf("ApplyIntervention() error = %v, want ErrNoNetwork", err)
	}
}

func TestApplyInterventionUnknownKind(t *testing.T) {
	s := newTestSim(t, ringNetwork(10), DefaultParameters(), 1)
	err := s.ApplyIntervention("curfew", 0.5)
	if !errors.Is(err, ErrUnknownIntervention) {
		t.Fatalf("ApplyIntervention() error = %v, want ErrUnknownIntervention", err)
	}
}

func TestSocialDistancing(t *testing.T) {
	s := newTestSim(t, ringNetwork(10), DefaultParameters(), 1)

	before := make(map[int64]float64)
	s.Registry().ForEach(func(a *domain.Agent) {
		before[a.ID] = a.SocialActivity
	})

	if err := s.ApplyIntervention(InterventionSocialDistancing, 0.5); err != nil {
		t.Fatalf("ApplyIntervention() error = %v", err)
	}
	s.Registry().ForEach(func(a *domain.Agent) {
		if got, want := a.SocialActivity, before[a.ID]*0.5; got != want {
			t.Errorf("agent %d social activity = %v, want %v", a.ID, got, want)
		}
	})

	// Repeated applications compound rather than reapply to the original.
	if err := s.ApplyIntervention(InterventionSocialDistancing, 0.5); err != nil {
		t.Fatalf("ApplyIntervention() error = %v", err)
	}
	s.Registry().ForEach(func(a *domain.Agent) {
		if got, want := a.SocialActivity, before[a.ID]*0.25; got != want {
			t.Errorf("agent %d social activity = %v after second pass, want %v", a.ID, got, want)
		}
	})
}

func TestLockdown(t *testing.T) {
	s := newTestSim(t, ringNetwork(10), DefaultParameters(), 1)
	if err := s.Initialize(2, []int64{0, 5}); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}

	if err := s.ApplyIntervention(InterventionLockdown, 1); err != nil {
		t.Fatalf("ApplyIntervention() error = %v", err)
	}

	s.Registry().ForEach(func(a *domain.Agent) {
		switch a.Status {
		case domain.StatusHealthy:
			if !a.Isolated {
				t.Errorf("healthy agent %d not isolated under full lockdown", a.ID)
			}
			if a.IsolationEnteredAt != s.Tick() {
				t.Errorf("agent %d entry tick = %d, want %d", a.ID, a.IsolationEnteredAt, s.Tick())
			}
		case domain.StatusInfected:
			if a.Isolated {
				t.Errorf("infected agent %d isolated by lockdown, want untouched", a.ID)
			}
		}
	})
}

func TestLockdownPartial(t *testing.T) {
	s := newTestSim(t, ringNetwork(20), DefaultParameters(), 1)
	if err := s.Initialize(0, nil); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}

	if err := s.ApplyIntervention(InterventionLockdown, 0.5); err != nil {
		t.Fatalf("ApplyIntervention() error = %v", err)
	}
	if got := s.Snapshot().Quarantined; got != 0 {
		// Snapshot is refreshed on step, not on intervention.
		t.Fatalf("stale snapshot quarantined = %d, want 0", got)
	}

	isolated := 0
	s.Registry().ForEach(func(a *domain.Agent) {
		if a.Isolated {
			isolated++
		}
	})
	if isolated != 10 {
		t.Errorf("isolated = %d after half-strength lockdown of 20, want 10", isolated)
	}
}

func TestVaccination(t *testing.T) {
	s := newTestSim(t, ringNetwork(10), DefaultParameters(), 1)
	if err := s.Initialize(2, []int64{0, 5}); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}

	if err := s.ApplyIntervention(InterventionVaccination, 1); err != nil {
		t.Fatalf("ApplyIntervention() error = %v", err)
	}

	s.Registry().ForEach(func(a *domain.Agent) {
		if a.Status == domain.StatusHealthy {
			if !a.Vaccinated || a.Immunity != vaccineImmunity {
				t.Errorf("healthy agent %d vaccinated=%v immunity=%v, want full coverage", a.ID, a.Vaccinated, a.Immunity)
			}
		} else if a.Vaccinated {
			t.Errorf("non-healthy agent %d vaccinated, want skipped", a.ID)
		}
	})

	// A second full pass finds no unvaccinated healthy targets.
	if err := s.ApplyIntervention(InterventionVaccination, 1); err != nil {
		t.Fatalf("ApplyIntervention() second pass error = %v", err)
	}
}

func TestVaccinationBlocksTransmissionPressure(t *testing.T) {
	// With certain transmission and total immunity the product probability
	// drops to zero, so a fully vaccinated ring never progresses.
	s := newTestSim(t, ringNetwork(10), deterministicParams(), 1)
	uniformPopulation(s)
	if err := s.Initialize(1, []int64{0}); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	s.Registry().ForEach(func(a *domain.Agent) {
		if a.Status == domain.StatusHealthy {
			a.Immunity = 1
		}
	})
	s.Start()

	for tick := 0; tick < 5; tick++ {
		snap, err := s.Step()
		if err != nil {
			t.Fatalf("Step() error = %v", err)
		}
		if snap.Infected != 1 {
			t.Fatalf("tick %d: infected = %d, want 1", s.Tick(), snap.Infected)
		}
	}
}

func TestStrengthClamped(t *testing.T) {
	s := newTestSim(t, graph.New([][2]int64{{0, 1}}), DefaultParameters(), 1)
	if err := s.Initialize(0, nil); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}

	if err := s.ApplyIntervention(InterventionLockdown, 2.5); err != nil {
		t.Fatalf("ApplyIntervention() error = %v", err)
	}
	s.Registry().ForEach(func(a *domain.Agent) {
		if !a.Isolated {
			t.Errorf("agent %d not isolated at clamped full strength", a.ID)
		}
	})

	if err := s.ApplyIntervention(InterventionSocialDistancing, -1); err != nil {
		t.Fatalf("ApplyIntervention() error = %v", err)
	}
	s.Registry().ForEach(func(a *domain.Agent) {
		if a.SocialActivity == 0 {
			t.Errorf("agent %d social activity zeroed by clamped negative strength", a.ID)
		}
	})
}
