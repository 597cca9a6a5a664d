package graph

import (
	"math"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/graph/network"
	"gonum.org/v1/gonum/graph/path"
)

// Thresholds for the average-path-length computation: above sampleThreshold
// nodes the exact all-pairs average is replaced by a sampled approximation.
const (
	sampleThreshold = 1000
	sampleSize      = 100
)

// Analysis holds network measures relevant to disease spread
type Analysis struct {
	AvgDegree             float64           `json:"avg_degree"`
	ClusteringCoefficient float64           `json:"clustering_coefficient"`
	AvgPathLength         float64           `json:"avg_path_length"`
	SuperSpreaders        []int64           `json:"super_spreaders"`
	DegreeCentrality      map[int64]float64 `json:"degree_centrality"`
	BetweennessCentrality map[int64]float64 `json:"betweenness_centrality"`
}

// Analyze computes centrality, clustering, and path-length measures for the
// network. The rng drives node sampling for large networks only; below the
// threshold the result is deterministic.
func Analyze(n *Network, rng *rand.Rand) *Analysis {
	a := &Analysis{
		DegreeCentrality:      degreeCentrality(n),
		BetweennessCentrality: betweennessCentrality(n),
		ClusteringCoefficient: averageClustering(n),
		AvgPathLength:         AveragePathLength(n, rng),
		SuperSpreaders:        superSpreaders(n),
	}

	if n.Order() > 0 {
		total := 0
		for _, id := range n.ids {
			total += n.Degree(id)
		}
		a.AvgDegree = float64(total) / float64(n.Order())
	}

	return a
}

// degreeCentrality is degree / (n-1) per node
func degreeCentrality(n *Network) map[int64]float64 {
	out := make(map[int64]float64, n.Order())
	if n.Order() < 2 {
		for _, id := range n.ids {
			out[id] = 0
		}
		return out
	}
	for _, id := range n.ids {
		out[id] = float64(n.Degree(id)) / float64(n.Order()-1)
	}
	return out
}

func betweennessCentrality(n *Network) map[int64]float64 {
	out := make(map[int64]float64, n.Order())
	for _, id := range n.ids {
		out[id] = 0
	}
	for id, v := range network.Betweenness(n.g) {
		out[id] = v
	}
	return out
}

// averageClustering is the mean local clustering coefficient: for each node
// the fraction of neighbor pairs that are themselves connected.
func averageClustering(n *Network) float64 {
	if n.Order() == 0 {
		return 0
	}

	var sum float64
	for _, id := range n.ids {
		neighbors := n.Neighbors(id)
		k := len(neighbors)
		if k < 2 {
			continue
		}
		links := 0
		for i := 0; i < k; i++ {
			for j := i + 1; j < k; j++ {
				if n.g.HasEdgeBetween(neighbors[i], neighbors[j]) {
					links++
				}
			}
		}
		sum += float64(2*links) / float64(k*(k-1))
	}
	return sum / float64(n.Order())
}

// superSpreaders returns the top 5% of nodes by degree
func superSpreaders(n *Network) []int64 {
	count := n.Order() / 20
	if count == 0 {
		return []int64{}
	}

	ids := make([]int64, len(n.ids))
	copy(ids, n.ids)
	sort.Slice(ids, func(i, j int) bool {
		di, dj := n.Degree(ids[i]), n.Degree(ids[j])
		if di != dj {
			return di > dj
		}
		return ids[i] < ids[j]
	})
	return ids[:count]
}

// AveragePathLength returns the mean shortest-path length between node
// pairs. Networks up to sampleThreshold nodes are computed exactly over all
// pairs, returning 0 if the network is disconnected or has fewer than two
// nodes. Larger networks are approximated from up to sampleSize uniformly
// sampled nodes, averaging over the reachable sample pairs and skipping
// unreachable ones.
func AveragePathLength(n *Network, rng *rand.Rand) float64 {
	if n.Order() <= sampleThreshold {
		return exactAveragePathLength(n)
	}
	return sampledAveragePathLength(n, rng)
}

func exactAveragePathLength(n *Network) float64 {
	if n.Order() < 2 {
		return 0
	}

	var total float64
	var count int
	for i, u := range n.ids {
		shortest := path.DijkstraFrom(n.g.Node(u), n.g)
		for _, v := range n.ids[i+1:] {
			w := shortest.WeightTo(v)
			if math.IsInf(w, 1) {
				// Disconnected network: mirror the exact algorithm's
				// failure mode instead of averaging partial pairs.
				return 0
			}
			total += w
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return total / float64(count)
}

func sampledAveragePathLength(n *Network, rng *rand.Rand) float64 {
	size := sampleSize
	if n.Order() < size {
		size = n.Order()
	}

	sample := make([]int64, 0, size)
	for _, idx := range rng.Perm(n.Order())[:size] {
		sample = append(sample, n.ids[idx])
	}

	var total float64
	var count int
	for i, u := range sample {
		shortest := path.DijkstraFrom(n.g.Node(u), n.g)
		for _, v := range sample[i+1:] {
			w := shortest.WeightTo(v)
			if math.IsInf(w, 1) {
				continue
			}
			total += w
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return total / float64(count)
}
