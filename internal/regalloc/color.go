package regalloc

import "l5c/internal/ir"

// DefaultSpillThreshold is the vertex count above which Allocate skips MCS
// ordering and coloring and spills every temp (spec §4.5, §9 REDESIGN note
// (c): kept as a tunable field rather than baked in as a constant). The
// interference graph itself is still built (by Build) before Allocate sees
// it; only the ordering and coloring work is skipped.
const DefaultSpillThreshold = 2000

// AssignmentKind distinguishes a hard-register assignment from a spill.
type AssignmentKind int

const (
	RegAssignment AssignmentKind = iota
	SpillAssignment
)

// Assignment is one temp's final location.
type Assignment struct {
	Kind  AssignmentKind
	Reg   ir.HardReg
	Spill ir.SpillSlot
}

func (a Assignment) String() string {
	if a.Kind == RegAssignment {
		return a.Reg.String()
	}
	return a.Spill.String()
}

// Allocator colors an interference graph against the fixed x86-64 register
// file (spec §4.5).
type Allocator struct {
	// SpillThreshold is the vertex count above which every temp is spilled.
	// Zero spills every non-empty graph; a negative value selects
	// DefaultSpillThreshold.
	SpillThreshold int
}

// NewAllocator returns an Allocator with the default spill threshold.
func NewAllocator() *Allocator {
	return &Allocator{SpillThreshold: DefaultSpillThreshold}
}

// Allocate returns a Temp -> Assignment mapping for every non-hard vertex in
// g. Hard-register vertices are never present in the result (spec §4.5
// "Output contract": "Hard-register vertices are omitted from the map").
func (a *Allocator) Allocate(g *Graph) (map[ir.Temp]Assignment, error) {
	threshold := a.SpillThreshold
	if threshold < 0 {
		threshold = DefaultSpillThreshold
	}
	if g.Size() > threshold {
		return a.spillAll(g), nil
	}
	return a.colorGraph(g)
}

// spillAll is the fast path (spec §4.5): every non-hard temp gets a
// distinct spill slot, in ascending Temp-id order for determinism, with no
// SEO or coloring computed; only the vertex set of the already-built graph
// is read.
func (a *Allocator) spillAll(g *Graph) map[ir.Temp]Assignment {
	vertices := g.Vertices()
	sortTemps(vertices)

	result := make(map[ir.Temp]Assignment)
	next := ir.NumHardRegs
	for _, v := range vertices {
		if v.IsHard() {
			continue
		}
		result[v] = Assignment{Kind: SpillAssignment, Spill: ir.SpillSlot(next)}
		next++
	}
	return result
}

// colorGraph is the main path: MCS/SEO ordering followed by greedy coloring
// (spec §4.5 steps 1-2).
func (a *Allocator) colorGraph(g *Graph) (map[ir.Temp]Assignment, error) {
	seo := MCS(g)

	assignedIndex := make(map[ir.Temp]int, len(seo))
	for _, v := range g.Vertices() {
		if v.IsHard() {
			assignedIndex[v] = ir.IndexOfReg(v.AsHardReg())
		}
	}

	result := make(map[ir.Temp]Assignment)
	for _, t := range seo {
		if t.IsHard() {
			continue
		}

		forbidden := make(map[int]bool)
		for n := range g.Neighbours(t) {
			if idx, ok := assignedIndex[n]; ok {
				forbidden[idx] = true
			}
		}

		k := 0
		for {
			if !forbidden[k] && !ir.SpecialUse(k) {
				break
			}
			k++
		}

		assignedIndex[t] = k
		if ir.IsSpill(k) {
			result[t] = Assignment{Kind: SpillAssignment, Spill: ir.SpillSlot(k)}
		} else {
			result[t] = Assignment{Kind: RegAssignment, Reg: ir.RegOfIndex(k)}
		}
	}

	if err := validateColoring(g, result); err != nil {
		return nil, err
	}
	return result, nil
}

// validateColoring checks spec §8's "Coloring validity" and "No forbidden
// register" properties hold for the produced assignment.
func validateColoring(g *Graph, result map[ir.Temp]Assignment) error {
	for u, nbrs := range g.Adjacency() {
		au, uok := resolvedIndex(u, result)
		if !uok {
			continue
		}
		for v := range nbrs {
			av, vok := resolvedIndex(v, result)
			if vok && au == av {
				return internalInvariantf("%s and %s interfere but both got index %d", u, v, au)
			}
		}
	}
	for t, assign := range result {
		if assign.Kind == RegAssignment && ir.SpecialUse(ir.IndexOfReg(assign.Reg)) {
			return internalInvariantf("%s assigned special-use register %s", t, assign.Reg)
		}
	}
	return nil
}

func resolvedIndex(t ir.Temp, result map[ir.Temp]Assignment) (int, bool) {
	if t.IsHard() {
		return ir.IndexOfReg(t.AsHardReg()), true
	}
	a, ok := result[t]
	if !ok {
		return 0, false
	}
	if a.Kind == RegAssignment {
		return ir.IndexOfReg(a.Reg), true
	}
	return int(a.Spill), true
}
