package sim

import (
	"math"

	"contagion/internal/domain"
)

// Quarantine area: a grid packed into the reserved corner of the unit
// square, away from the home region used by the network layout.
const (
	quarantineMin  = 0.70
	quarantineMax  = 0.95
	quarantineSpan = 0.25
)

// assignQuarantineGrid computes a fixed quarantine-target position per
// agent. Columns outnumber rows (cols = ceil(sqrt(n*1.5))) for a
// horizontal layout; cells are filled in ascending node-ID order.
func (s *Simulation) assignQuarantineGrid() {
	n := s.reg.Count()
	if n == 0 {
		return
	}

	cols := int(math.Ceil(math.Sqrt(float64(n) * 1.5)))
	rows := int(math.Ceil(float64(n) / float64(cols)))

	cellW := quarantineSpan / float64(cols)
	cellH := quarantineSpan / float64(rows)

	for i, id := range s.reg.IDs() {
		row := i / cols
		col := i % cols

		x := quarantineMin + float64(col)*cellW + cellW*0.3
		y := quarantineMin + float64(row)*cellH + cellH*0.3

		s.reg.Get(id).Quarantine = domain.Point{
			X: math.Min(quarantineMax, math.Max(quarantineMin, x)),
			Y: math.Min(quarantineMax, math.Max(quarantineMin, y)),
		}
	}
}

// updatePositions animates every agent one tick: isolated agents drift
// toward their quarantine cell, everyone else drifts home, and the
// deceased stay frozen where they died.
func (s *Simulation) updatePositions() {
	fraction := s.params.MovementFraction
	epsilon := s.params.SnapEpsilon

	s.reg.ForEach(func(a *domain.Agent) {
		switch {
		case a.Status == domain.StatusDeceased:
			// frozen
		case a.Isolated:
			a.Current = a.Current.StepToward(a.Quarantine, fraction, epsilon)
		default:
			a.Current = a.Current.StepToward(a.Home, fraction, epsilon)
		}
	})
}
