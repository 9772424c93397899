// Package regalloc builds the interference graph from liveness results and
// colors it with a greedy MCS/SEO-ordered pass against a fixed x86-64
// register file, falling back to deterministic spill-all above a size
// threshold (spec §4.4, §4.5).
package regalloc

import "l5c/internal/ir"

// Graph is the interference graph: vertices are ir.Temp, where a negative
// id denotes a pre-bound hard register (ir.HardTemp) and a non-negative id
// an ordinary temp (spec §3's Reg(HardReg) | Temp(Temp) union, represented
// here as one Temp-keyed type per ir.HardTemp's doc comment).
type Graph struct {
	adj map[ir.Temp]map[ir.Temp]bool
}

// NewGraph returns an empty interference graph.
func NewGraph() *Graph {
	return &Graph{adj: make(map[ir.Temp]map[ir.Temp]bool)}
}

// AddVertex ensures v is present in the graph even if it has no edges yet.
func (g *Graph) AddVertex(v ir.Temp) {
	if g.adj[v] == nil {
		g.adj[v] = make(map[ir.Temp]bool)
	}
}

// AddEdge adds an undirected edge between u and v. Self-loops are never
// inserted (spec §4.4).
func (g *Graph) AddEdge(u, v ir.Temp) {
	if u == v {
		return
	}
	g.AddVertex(u)
	g.AddVertex(v)
	g.adj[u][v] = true
	g.adj[v][u] = true
}

// Neighbours returns v's neighbours. Returns nil if v is not in the graph.
func (g *Graph) Neighbours(v ir.Temp) map[ir.Temp]bool {
	return g.adj[v]
}

// Vertices returns every vertex in the graph, order unspecified.
func (g *Graph) Vertices() []ir.Temp {
	out := make([]ir.Temp, 0, len(g.adj))
	for v := range g.adj {
		out = append(out, v)
	}
	return out
}

// Adjacency exposes the full adjacency map for callers that need to walk
// every edge (e.g. coloring validation).
func (g *Graph) Adjacency() map[ir.Temp]map[ir.Temp]bool {
	return g.adj
}

// Size returns the vertex count.
func (g *Graph) Size() int { return len(g.adj) }

// Interferes reports whether u and v share an edge.
func (g *Graph) Interferes(u, v ir.Temp) bool {
	return g.adj[u][v]
}

// CheckSymmetry verifies the reflexive-free symmetry invariant spec §3
// requires: v ∈ adj[u] ⇔ u ∈ adj[v], and u ∉ adj[u]. Returns a descriptive
// error on the first violation found, for use by tests and by callers that
// want to assert the invariant after a Build.
func (g *Graph) CheckSymmetry() error {
	for u, nbrs := range g.adj {
		if nbrs[u] {
			return internalInvariantf("%s has a self-loop", u)
		}
		for v := range nbrs {
			if !g.adj[v][u] {
				return internalInvariantf("%s is a neighbour of %s but not vice versa", u, v)
			}
		}
	}
	return nil
}
