package sim

// Parameters control the stochastic transition rules. Rates are expected in
// [0,1]; derived per-tick probabilities are clamped to the documented caps
// rather than rejected, so out-of-range input degrades gracefully.
type Parameters struct {
	InfectionRate  float64 `json:"infection_rate"`
	RecoveryRate   float64 `json:"recovery_rate"`
	DeathRate      float64 `json:"death_rate"`
	QuarantineRate float64 `json:"quarantine_rate"`

	InitialInfected int `json:"initial_infected"`

	// IsolationLimit is the number of ticks after which an isolated agent
	// is released regardless of health.
	IsolationLimit int `json:"isolation_limit"`

	// MovementFraction and SnapEpsilon drive the per-tick position
	// animation toward the quarantine grid or back home.
	MovementFraction float64 `json:"movement_fraction"`
	SnapEpsilon      float64 `json:"snap_epsilon"`

	// ActivityThreshold is the minimum daily mobility fraction for an
	// agent to circulate; DayScheduling toggles the weekly schedule
	// entirely (disabled means every agent is eligible every day).
	ActivityThreshold float64 `json:"activity_threshold"`
	DayScheduling     bool    `json:"day_scheduling"`
}

// Caps for time-scaled resolution probabilities
const (
	maxRecoveryChance = 0.8
	maxDeathChance    = 0.5
)

// DefaultParameters mirrors the reference front end's defaults
func DefaultParameters() Parameters {
	return Parameters{
		InfectionRate:     0.3,
		RecoveryRate:      0.1,
		DeathRate:         0.02,
		QuarantineRate:    0.3,
		InitialInfected:   5,
		IsolationLimit:    10,
		MovementFraction:  0.6,
		SnapEpsilon:       0.001,
		ActivityThreshold: 0.3,
		DayScheduling:     true,
	}
}

// normalized fills zero-valued structural fields with defaults so partially
// specified parameters (for example from an API request carrying only the
// rates) stay usable.
func (p Parameters) normalized() Parameters {
	def := DefaultParameters()
	if p.IsolationLimit <= 0 {
		p.IsolationLimit = def.IsolationLimit
	}
	if p.MovementFraction <= 0 {
		p.MovementFraction = def.MovementFraction
	}
	if p.SnapEpsilon <= 0 {
		p.SnapEpsilon = def.SnapEpsilon
	}
	if p.ActivityThreshold <= 0 {
		p.ActivityThreshold = def.ActivityThreshold
	}
	if p.InitialInfected <= 0 {
		p.InitialInfected = def.InitialInfected
	}
	return p
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
