// Package graph provides the immutable contact network the simulation runs
// over, its force-directed 2-D layout, and the network-analysis measures
// exposed by the API.
//
// The network is backed by gonum's simple.UndirectedGraph. Node identifiers
// are stable int64 values taken from the dataset; neighbor lists are kept
// sorted so that iteration order (and therefore any seeded random draw
// sequence downstream) is reproducible.
package graph
