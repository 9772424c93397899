// Package cfg builds control-flow graphs over any instruction sequence
// satisfying ir.Instruction (spec §4.1): partitioning into basic blocks,
// fall-through elimination, predecessor/successor edge maps, critical-edge
// splitting, and postorder traversal.
package cfg

import (
	"fmt"

	"l5c/internal/errors"
	"l5c/internal/ir"
)

// EliminateFallThrough inserts an explicit jump(L) between any non-control
// instruction and the label L that immediately follows it, so that every
// block boundary is reachable only via an explicit jump/cjump/ret (spec
// §4.1). It is idempotent: running it twice yields the same sequence,
// because the second pass never finds a non-control/label adjacency left
// unbridged by the first.
func EliminateFallThrough(instrs []ir.Instruction, factory ir.InstrFactory) []ir.Instruction {
	if len(instrs) == 0 {
		return nil
	}
	out := make([]ir.Instruction, 0, len(instrs)+4)
	for i, inst := range instrs {
		out = append(out, inst)
		if i+1 >= len(instrs) {
			continue
		}
		next := instrs[i+1]
		if isControl(inst) {
			continue
		}
		if next.IsLabel() {
			out = append(out, factory.NewJumpInstr(next.GetLabel()))
		}
	}
	return out
}

func isControl(inst ir.Instruction) bool {
	return inst.IsJump() || inst.IsCJump() || inst.IsReturn()
}

// BuildBB partitions a linear, fall-through-free instruction sequence into
// basic blocks (spec §4.1). A new block starts at every label instruction
// and terminates at the first control instruction encountered after it. If
// a control instruction is followed by further non-label instructions (dead
// code left behind by a jump/cjump/ret with no intervening label), a fresh
// synthetic label is minted via mintFactory so that code is preserved as its
// own dead block instead of being folded after an already-terminated
// block's terminator. Synthetic ENTRY (label(ENTRY); jump(first)) and EXIT
// (label(EXIT); ret()) blocks are always added. If the final block has no
// explicit terminator (the source ended without a return), a jump(EXIT) is
// appended to it.
func BuildBB(instrs []ir.Instruction, mintFactory *ir.Factory, factory ir.InstrFactory) (ir.BlockMap, error) {
	bm := make(ir.BlockMap)

	var firstReal ir.Label
	haveFirstReal := false

	var cur *ir.BasicBlock
	terminated := false
	for _, inst := range instrs {
		if inst.IsLabel() {
			l := inst.GetLabel()
			if _, exists := bm[l]; exists {
				return nil, errors.Malformed(l.String(), "duplicate label")
			}
			if !haveFirstReal {
				firstReal = l
				haveFirstReal = true
			}
			cur = &ir.BasicBlock{Label: l, Instrs: []ir.Instruction{inst}}
			bm[l] = cur
			terminated = false
			continue
		}
		if cur == nil {
			return nil, errors.Malformed("", "instruction sequence does not start with a label")
		}
		if terminated {
			l := mintFactory.NewLabel()
			cur = &ir.BasicBlock{Label: l, Instrs: []ir.Instruction{factory.NewLabelInstr(l)}}
			bm[l] = cur
			terminated = false
		}
		cur.Instrs = append(cur.Instrs, inst)
		if isControl(inst) {
			terminated = true
		}
	}

	if !haveFirstReal {
		return nil, errors.Malformed("", "instruction sequence has no label at all")
	}

	// Append jump(EXIT) to any block that fell off the end without a
	// terminator (spec §4.1: "If the original program ends without a
	// return, append jump(EXIT) to the last block").
	for _, l := range bm.Labels() {
		b := bm[l]
		if len(b.Instrs) == 0 {
			return nil, errors.Malformed(l.String(), "block has no instructions")
		}
		last := b.Instrs[len(b.Instrs)-1]
		if !isControl(last) {
			b.Instrs = append(b.Instrs, factory.NewJumpInstr(ir.EXIT))
		}
	}

	bm[ir.ENTRY] = &ir.BasicBlock{
		Label: ir.ENTRY,
		Instrs: []ir.Instruction{
			factory.NewLabelInstr(ir.ENTRY),
			factory.NewJumpInstr(firstReal),
		},
	}
	bm[ir.EXIT] = &ir.BasicBlock{
		Label: ir.EXIT,
		Instrs: []ir.Instruction{
			factory.NewLabelInstr(ir.EXIT),
			factory.NewRetInstr(),
		},
	}

	if err := validateBlocks(bm); err != nil {
		return nil, err
	}
	return bm, nil
}

func validateBlocks(bm ir.BlockMap) error {
	for _, l := range bm.Labels() {
		b := bm[l]
		if len(b.Instrs) == 0 || !b.Instrs[0].IsLabel() || b.Instrs[0].GetLabel() != l {
			return errors.Malformed(l.String(), "block's first instruction must be its own label")
		}
		for _, inst := range b.Instrs[1:] {
			if inst.IsLabel() {
				return errors.Malformed(l.String(), "interior label instruction inside a block")
			}
		}
		if !isControl(b.Terminator()) {
			return errors.Malformed(l.String(), "block does not end with a control-flow instruction")
		}
	}
	return nil
}

// BuildEdges computes the successor/predecessor edge maps of a block map
// (spec §4.1's build_ino). Every label in bm appears as a key in both maps,
// even when its adjacency set is empty.
func BuildEdges(bm ir.BlockMap) (*ir.EdgeMaps, error) {
	labels := bm.Labels()
	edges := ir.NewEdgeMaps(labels)
	for _, l := range labels {
		term := bm[l].Terminator()
		if term.IsReturn() {
			// ret has no explicit target (Next() is deliberately empty, for
			// liveness's sake), but the CFG still needs every block to flow
			// into the single synthetic EXIT sink (spec §3, §4.1).
			if l != ir.EXIT {
				edges.AddEdge(l, ir.EXIT)
			}
			continue
		}
		for _, target := range term.Next() {
			if _, ok := bm[target]; !ok {
				return nil, errors.Malformed(fmt.Sprintf("%s -> %s", l, target), "jump targets a label absent from the block map")
			}
			edges.AddEdge(l, target)
		}
	}
	return edges, nil
}

// Postorder performs a deterministic DFS from ENTRY over succ, emitting
// each node after all of its successors (spec §4.1). Ties among successors
// are broken by ascending label id, which EdgeMaps.SuccOf already
// guarantees. Implemented with an explicit stack (spec §9: "reimplement
// iteratively with explicit stacks") so deep CFGs never overflow the Go
// call stack.
func Postorder(edges *ir.EdgeMaps) []ir.Label {
	visited := make(map[ir.Label]bool)
	var order []ir.Label

	type frame struct {
		label ir.Label
		succ  []ir.Label
		idx   int
	}
	var stack []*frame

	push := func(l ir.Label) {
		if visited[l] {
			return
		}
		visited[l] = true
		stack = append(stack, &frame{label: l, succ: edges.SuccOf(l)})
	}

	push(ir.ENTRY)
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		if top.idx < len(top.succ) {
			next := top.succ[top.idx]
			top.idx++
			push(next)
			continue
		}
		order = append(order, top.label)
		stack = stack[:len(stack)-1]
	}
	return order
}

// ToInstrs concatenates the blocks named by order into one linear
// instruction sequence, the inverse of BuildBB for callers that want a
// textual/linear form back (spec §4.1).
func ToInstrs(bm ir.BlockMap, order []ir.Label) []ir.Instruction {
	var out []ir.Instruction
	for _, l := range order {
		b, ok := bm[l]
		if !ok {
			continue
		}
		out = append(out, b.Instrs...)
	}
	return out
}
