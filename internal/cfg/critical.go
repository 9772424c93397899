package cfg

import (
	"fmt"

	"l5c/internal/errors"
	"l5c/internal/ir"
)

// IsCriticalEdge reports whether (u, v) is a critical edge: u has two or
// more successors and v has two or more predecessors (spec §4.1, §4.6).
func IsCriticalEdge(u, v ir.Label, edges *ir.EdgeMaps) bool {
	return len(edges.Succ[u]) >= 2 && len(edges.Pred[v]) >= 2
}

// SplitEdge splits the edge (u, v) by minting a fresh block M: jump(v),
// rewriting u's terminator to target M instead of v, and updating the edge
// maps accordingly (spec §4.1). Returns errors.ErrNoSuchEdge if (u, v) is
// not currently an edge.
func SplitEdge(u, v ir.Label, bm ir.BlockMap, edges *ir.EdgeMaps, factory *ir.Factory, instrFactory ir.InstrFactory) (ir.Label, error) {
	if !edges.Succ[u][v] {
		return ir.Label{}, errors.NoSuchEdge(fmt.Sprintf("%s -> %s", u, v), "split_edge called on a non-existent edge")
	}

	m := factory.NewLabel()
	bm[m] = &ir.BasicBlock{
		Label: m,
		Instrs: []ir.Instruction{
			instrFactory.NewLabelInstr(m),
			instrFactory.NewJumpInstr(v),
		},
	}

	term := bm[u].Terminator()
	if term.IsCJump() {
		term.ReplaceCTarget(v, m)
	} else {
		term.ReplaceTarget(m)
	}

	edges.RemoveEdge(u, v)
	edges.AddEdge(u, m)
	edges.AddEdge(m, v)

	return m, nil
}
