package graph

import (
	"sort"

	"gonum.org/v1/gonum/graph/simple"
)

// Network is an undirected contact graph with stable int64 node IDs.
// It is immutable for the lifetime of a simulation.
type Network struct {
	g   *simple.UndirectedGraph
	ids []int64
	adj map[int64][]int64
}

// New builds a network from a list of undirected edges. Self-loops and
// duplicate edges are dropped. Node identity is taken from the edge
// endpoints; isolated nodes cannot be expressed in an edge list and so do
// not occur.
func New(edges [][2]int64) *Network {
	n := &Network{
		g:   simple.NewUndirectedGraph(),
		adj: make(map[int64][]int64),
	}

	for _, e := range edges {
		u, v := e[0], e[1]
		if u == v {
			continue
		}
		if n.g.Node(u) == nil {
			n.g.AddNode(simple.Node(u))
		}
		if n.g.Node(v) == nil {
			n.g.AddNode(simple.Node(v))
		}
		if n.g.HasEdgeBetween(u, v) {
			continue
		}
		n.g.SetEdge(simple.Edge{F: simple.Node(u), T: simple.Node(v)})
		n.adj[u] = append(n.adj[u], v)
		n.adj[v] = append(n.adj[v], u)
	}

	n.ids = make([]int64, 0, len(n.adj))
	for id := range n.adj {
		n.ids = append(n.ids, id)
	}
	sort.Slice(n.ids, func(i, j int) bool { return n.ids[i] < n.ids[j] })

	for _, neighbors := range n.adj {
		sort.Slice(neighbors, func(i, j int) bool { return neighbors[i] < neighbors[j] })
	}

	return n
}

// Nodes returns all node IDs in ascending order. Callers must not mutate
// the returned slice.
func (n *Network) Nodes() []int64 {
	return n.ids
}

// Neighbors returns the sorted neighbor IDs of a node
func (n *Network) Neighbors(id int64) []int64 {
	return n.adj[id]
}

// Has reports whether the node exists in the network
func (n *Network) Has(id int64) bool {
	_, ok := n.adj[id]
	return ok
}

// Degree returns the number of neighbors of a node
func (n *Network) Degree(id int64) int {
	return len(n.adj[id])
}

// Order returns the number of nodes
func (n *Network) Order() int {
	return len(n.ids)
}

// Size returns the number of edges
func (n *Network) Size() int {
	return n.g.Edges().Len()
}

// Edges returns every undirected edge once, endpoints ordered low-high,
// sorted for stable output.
func (n *Network) Edges() [][2]int64 {
	edges := make([][2]int64, 0, n.Size())
	for _, u := range n.ids {
		for _, v := range n.adj[u] {
			if u < v {
				edges = append(edges, [2]int64{u, v})
			}
		}
	}
	return edges
}
