package domain

// HealthStatus represents the mutually exclusive health dimension of an agent
type HealthStatus string

const (
	StatusHealthy   HealthStatus = "healthy"
	StatusInfected  HealthStatus = "infected"
	StatusRecovered HealthStatus = "recovered"
	StatusDeceased  HealthStatus = "deceased"
)

// Terminal reports whether the status admits no further health transitions
func (s HealthStatus) Terminal() bool {
	return s == StatusRecovered || s == StatusDeceased
}

// DisplayState is the disjoint classification shown to the front end.
// Priority order: deceased > quarantined > infected > recovered > healthy.
type DisplayState string

const (
	DisplayHealthy     DisplayState = "healthy"
	DisplayInfected    DisplayState = "infected"
	DisplayQuarantined DisplayState = "quarantined"
	DisplayRecovered   DisplayState = "recovered"
	DisplayDeceased    DisplayState = "deceased"
)

// Agent represents one member of the simulated population, bound to a
// contact-network node. Static attributes are fixed at creation; dynamic
// state is mutated in place each tick and never destroyed.
type Agent struct {
	ID                   int64      `json:"id"`
	Age                  int        `json:"age"`
	SocialActivity       float64    `json:"social_activity"`
	QuarantineCompliance float64    `json:"quarantine_compliance"`
	Vaccinated           bool       `json:"vaccinated"`
	Immunity             float64    `json:"immunity"`
	Mobility             [7]float64 `json:"mobility"`

	Status      HealthStatus `json:"status"`
	Isolated    bool         `json:"isolated"`
	DaysInState int          `json:"days_in_state"`

	// IsolationEnteredAt is meaningful only while Isolated is true.
	IsolationEnteredAt int `json:"-"`

	Home       Point `json:"-"`
	Quarantine Point `json:"-"`
	Current    Point `json:"-"`
}

// NewAgent creates a healthy, non-isolated agent with the given static
// attributes. The mobility pattern is filled in by the registry.
func NewAgent(id int64, age int, socialActivity, compliance float64) *Agent {
	return &Agent{
		ID:                   id,
		Age:                  age,
		SocialActivity:       socialActivity,
		QuarantineCompliance: compliance,
		Status:               StatusHealthy,
	}
}

// Reinitialize returns the agent to the healthy, non-isolated default
// without touching static attributes, mobility pattern, or fixed positions.
// The current position snaps back home.
func (a *Agent) Reinitialize() {
	a.Status = StatusHealthy
	a.Isolated = false
	a.DaysInState = 0
	a.IsolationEnteredAt = 0
	a.Vaccinated = false
	a.Immunity = 0
	a.Current = a.Home
}

// Infect transitions a healthy agent to Infected. Terminal agents are
// left untouched.
func (a *Agent) Infect() {
	if a.Status != StatusHealthy {
		return
	}
	a.Status = StatusInfected
	a.DaysInState = 0
}

// Recover transitions an infected agent to Recovered. Recovered agents are
// never isolated, so isolation is released and the position snaps home.
func (a *Agent) Recover() {
	if a.Status != StatusInfected {
		return
	}
	a.Status = StatusRecovered
	a.DaysInState = 0
	if a.Isolated {
		a.Isolated = false
		a.IsolationEnteredAt = 0
	}
	a.Current = a.Home
}

// Die transitions an infected agent to Deceased. Deceased is terminal: the
// isolation flag clears and the current position freezes where it is.
func (a *Agent) Die() {
	if a.Status != StatusInfected {
		return
	}
	a.Status = StatusDeceased
	a.DaysInState = 0
	a.Isolated = false
	a.IsolationEnteredAt = 0
}

// Isolate places the agent in quarantine at the given tick. Only Healthy
// and Infected agents can be isolated; nothing happens for terminal
// statuses or agents already isolated.
func (a *Agent) Isolate(tick int) {
	if a.Isolated || a.Status.Terminal() {
		return
	}
	a.Isolated = true
	a.IsolationEnteredAt = tick
	a.DaysInState = 0
}

// Release ends isolation and snaps the agent back to its home position.
func (a *Agent) Release() {
	if !a.Isolated {
		return
	}
	a.Isolated = false
	a.IsolationEnteredAt = 0
	a.DaysInState = 0
	a.Current = a.Home
}

// Display returns the disjoint display classification for the agent
func (a *Agent) Display() DisplayState {
	switch {
	case a.Status == StatusDeceased:
		return DisplayDeceased
	case a.Isolated:
		return DisplayQuarantined
	case a.Status == StatusInfected:
		return DisplayInfected
	case a.Status == StatusRecovered:
		return DisplayRecovered
	default:
		return DisplayHealthy
	}
}
