// Package dataset loads contact networks from edge-list files or generates
// synthetic ones. It mirrors the import layer of the visualization server:
// a small Parser interface plus format-specific sources.
package dataset

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"contagion/internal/graph"
)

// Default sizes matching the reference front end
const (
	DefaultTargetNodes = 500

	barabasiAttachment = 2
	erdosRenyiProb     = 0.02
)

// Parser reads a network edge list from a stream
type Parser interface {
	Parse(r io.Reader) ([][2]int64, error)
	Format() string
}

// EdgeListParser parses whitespace-separated "u v" integer pairs, one edge
// per line. Lines that do not start with two integers are skipped, matching
// the tolerant behavior expected for SNAP-style datasets with comment
// headers.
type EdgeListParser struct{}

// Format returns the format name
func (EdgeListParser) Format() string { return "edgelist" }

// Parse reads edges until EOF
func (EdgeListParser) Parse(r io.Reader) ([][2]int64, error) {
	var edges [][2]int64

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 2 {
			continue
		}
		u, err := strconv.ParseInt(fields[0], 10, 64)
		if err != nil {
			continue
		}
		v, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			continue
		}
		edges = append(edges, [2]int64{u, v})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read edge list: %w", err)
	}

	return edges, nil
}

// LoadFile reads an edge-list file, transparently decompressing .gz, and
// subsamples the resulting network down to target nodes if larger.
func LoadFile(path string, target int, rng *rand.Rand) (*graph.Network, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("open gzip dataset: %w", err)
		}
		defer gz.Close()
		r = gz
	}

	edges, err := EdgeListParser{}.Parse(r)
	if err != nil {
		return nil, err
	}

	n := graph.New(edges)
	if n.Order() == 0 {
		return nil, fmt.Errorf("dataset %s contains no edges", filepath.Base(path))
	}

	return Subsample(n, target, rng), nil
}

// LoadDir finds the first usable .txt or .txt.gz edge list in dir
func LoadDir(dir string, target int, rng *rand.Rand) (*graph.Network, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read data dir: %w", err)
	}

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || (!strings.HasSuffix(name, ".txt") && !strings.HasSuffix(name, ".txt.gz")) {
			continue
		}
		n, err := LoadFile(filepath.Join(dir, name), target, rng)
		if err != nil {
			continue
		}
		return n, nil
	}

	return nil, fmt.Errorf("no usable dataset in %s", dir)
}

// Subsample returns the induced subgraph on a uniform sample of target
// nodes, or the network unchanged when it is already small enough.
func Subsample(n *graph.Network, target int, rng *rand.Rand) *graph.Network {
	if target <= 0 || n.Order() <= target {
		return n
	}

	ids := n.Nodes()
	keep := make(map[int64]bool, target)
	for _, idx := range rng.Perm(len(ids))[:target] {
		keep[ids[idx]] = true
	}

	var edges [][2]int64
	for _, e := range n.Edges() {
		if keep[e[0]] && keep[e[1]] {
			edges = append(edges, e)
		}
	}
	return graph.New(edges)
}

// Synthetic generates a scale-free Barabási–Albert network of n nodes,
// falling back to an Erdős–Rényi network when n is too small for
// preferential attachment.
func Synthetic(n int, rng *rand.Rand) *graph.Network {
	if n > barabasiAttachment {
		return graph.New(BarabasiAlbert(n, barabasiAttachment, rng))
	}
	return graph.New(ErdosRenyi(n, erdosRenyiProb, rng))
}

// BarabasiAlbert generates a preferential-attachment edge list: each new
// node attaches to m existing nodes chosen with probability proportional to
// their current degree.
func BarabasiAlbert(n, m int, rng *rand.Rand) [][2]int64 {
	if n <= m {
		return nil
	}

	var edges [][2]int64
	// repeated holds one entry per edge endpoint, so uniform draws from it
	// are degree-weighted.
	repeated := make([]int64, 0, 2*m*n)

	// Seed star over the first m+1 nodes.
	for i := 0; i < m; i++ {
		edges = append(edges, [2]int64{int64(i), int64(m)})
		repeated = append(repeated, int64(i), int64(m))
	}

	for v := int64(m + 1); v < int64(n); v++ {
		seen := make(map[int64]bool, m)
		targets := make([]int64, 0, m)
		for len(targets) < m {
			u := repeated[rng.Intn(len(repeated))]
			if seen[u] {
				continue
			}
			seen[u] = true
			targets = append(targets, u)
		}
		for _, u := range targets {
			edges = append(edges, [2]int64{u, v})
			repeated = append(repeated, u, v)
		}
	}

	return edges
}

// ErdosRenyi generates each possible edge independently with probability p
func ErdosRenyi(n int, p float64, rng *rand.Rand) [][2]int64 {
	var edges [][2]int64
	for u := int64(0); u < int64(n); u++ {
		for v := u + 1; v < int64(n); v++ {
			if rng.Float64() < p {
				edges = append(edges, [2]int64{u, v})
			}
		}
	}
	return edges
}

// Load resolves a dataset kind ("real" loads from dir with synthetic
// fallback; anything else generates a synthetic network of target nodes).
func Load(kind, dir string, target int, rng *rand.Rand) *graph.Network {
	if kind == "real" && dir != "" {
		if n, err := LoadDir(dir, target, rng); err == nil {
			return n
		}
	}
	return Synthetic(target, rng)
}
