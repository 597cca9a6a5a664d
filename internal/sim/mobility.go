package sim

import (
	"sort"

	"contagion/internal/domain"
)

// activeAgents builds the day's circulation set: non-isolated,
// non-deceased agents whose mobility fraction for the weekday exceeds the
// activity threshold, ordered by descending mobility (ties broken by node
// ID for stable output). Only these agents act as transmission sources or
// targets while day scheduling is enabled.
func (s *Simulation) activeAgents(day int) map[int64]bool {
	type entry struct {
		id       int64
		mobility float64
	}

	var ordered []entry
	s.reg.ForEach(func(a *domain.Agent) {
		if a.Isolated || a.Status == domain.StatusDeceased {
			return
		}
		if a.Mobility[day] > s.params.ActivityThreshold {
			ordered = append(ordered, entry{id: a.ID, mobility: a.Mobility[day]})
		}
	})

	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].mobility != ordered[j].mobility {
			return ordered[i].mobility > ordered[j].mobility
		}
		return ordered[i].id < ordered[j].id
	})

	active := make(map[int64]bool, len(ordered))
	for _, e := range ordered {
		active[e.id] = true
	}
	return active
}
