package domain

// Snapshot is the per-tick statistics record emitted after every step.
// The five category counts are disjoint and always sum to Total.
type Snapshot struct {
	Tick        int `json:"step"`
	Day         int `json:"day"`
	Healthy     int `json:"healthy"`
	Infected    int `json:"infected"`
	Quarantined int `json:"quarantined"`
	Recovered   int `json:"recovered"`
	Deceased    int `json:"deceased"`
	Total       int `json:"total"`
}

// Add counts one agent into its display category
func (s *Snapshot) Add(state DisplayState) {
	switch state {
	case DisplayDeceased:
		s.Deceased++
	case DisplayQuarantined:
		s.Quarantined++
	case DisplayInfected:
		s.Infected++
	case DisplayRecovered:
		s.Recovered++
	default:
		s.Healthy++
	}
	s.Total++
}
