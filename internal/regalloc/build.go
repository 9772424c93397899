package regalloc

import (
	"l5c/internal/ir"
	"l5c/internal/regconv"
)

// toTemp converts an allocatable regconv.Operand into the graph's Temp
// vertex type, wrapping hard registers as negative-id temps (spec §3).
func toTemp(o regconv.Operand) (ir.Temp, bool) {
	switch o.Kind {
	case regconv.TempOperand:
		return o.Temp, true
	case regconv.RegOperand:
		return ir.HardTemp(o.Reg), true
	default:
		return ir.Temp{}, false
	}
}

// Build constructs the interference graph from per-line (defines, live-out)
// pairs following spec §4.4's three rules:
//  1. every pair of distinct defs on a line interferes;
//  2. every def interferes with every live-out operand other than itself;
//  3. (contract, not optional in this implementation) every def interferes
//     with every use on the same line, so the downstream emitter is freer
//     to choose instruction forms without breaking register assignments.
func Build(lines []regconv.Line, liveOut []map[regconv.Operand]bool) *Graph {
	g := NewGraph()

	for i, ln := range lines {
		var defs []ir.Temp
		for _, d := range ln.Defines {
			if t, ok := toTemp(d); ok {
				defs = append(defs, t)
				g.AddVertex(t)
			}
		}

		// Rule 1: pairwise interference among defs on the same line.
		for a := 0; a < len(defs); a++ {
			for b := a + 1; b < len(defs); b++ {
				g.AddEdge(defs[a], defs[b])
			}
		}

		// Rule 2: defs interfere with live-out operands.
		if i < len(liveOut) {
			for lo := range liveOut[i] {
				t, ok := toTemp(lo)
				if !ok {
					continue
				}
				g.AddVertex(t)
				for _, d := range defs {
					if d != t {
						g.AddEdge(d, t)
					}
				}
			}
		}

		// Rule 3: defs interfere with same-line uses.
		for _, u := range ln.Uses {
			t, ok := toTemp(u)
			if !ok {
				continue
			}
			g.AddVertex(t)
			for _, d := range defs {
				if d != t {
					g.AddEdge(d, t)
				}
			}
		}
	}

	return g
}
