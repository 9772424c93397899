// Package liveness computes per-instruction gen/kill sets and solves the
// backward-may dataflow equations to produce live-out sets (spec §4.3).
package liveness

import (
	"l5c/internal/ir"
	"l5c/internal/regconv"
)

// lineSuccessors returns, for each instruction index, the set of successor
// line indices per spec §4.3: {ℓ+1} for straight-line instructions and
// labels, {label_line(target)} for an unconditional jump, {ℓ+1,
// label_line(target)} for a conditional jump, and {} for a return.
func lineSuccessors(instrs []ir.Instruction) ([][]int, error) {
	labelLine := make(map[ir.Label]int, len(instrs))
	for i, inst := range instrs {
		if inst.IsLabel() {
			labelLine[inst.GetLabel()] = i
		}
	}

	succ := make([][]int, len(instrs))
	for i, inst := range instrs {
		switch {
		case inst.IsReturn():
			succ[i] = nil
		case inst.IsJump():
			targets := inst.Next()
			if len(targets) != 1 {
				succ[i] = nil
				continue
			}
			line, ok := labelLine[targets[0]]
			if !ok {
				continue
			}
			succ[i] = []int{line}
		case inst.IsCJump():
			var s []int
			if i+1 < len(instrs) {
				s = append(s, i+1)
			}
			for _, t := range inst.Next() {
				if line, ok := labelLine[t]; ok {
					s = append(s, line)
				}
			}
			succ[i] = s
		default:
			if i+1 < len(instrs) {
				succ[i] = []int{i + 1}
			}
		}
	}
	return succ, nil
}

// genKill derives gen[ℓ]/kill[ℓ] from a regconv Line: gen is the use set,
// kill is defines minus uses (a variable used and defined on the same
// instruction stays live across it, spec §4.3).
func genKill(lines []regconv.Line) (gen, kill []map[regconv.Operand]bool) {
	gen = make([]map[regconv.Operand]bool, len(lines))
	kill = make([]map[regconv.Operand]bool, len(lines))
	for i, ln := range lines {
		g := make(map[regconv.Operand]bool)
		for _, u := range ln.Uses {
			if u.IsAllocatable() {
				g[u] = true
			}
		}
		k := make(map[regconv.Operand]bool)
		for _, d := range ln.Defines {
			if d.IsAllocatable() && !g[d] {
				k[d] = true
			}
		}
		gen[i] = g
		kill[i] = k
	}
	return gen, kill
}

// Result is the output of Analyze: per-line live-out sets, keyed by
// instruction index into the original instrs slice.
type Result struct {
	LiveOut []map[regconv.Operand]bool
}

// Analyze computes live-out sets for a flat instruction sequence (spec
// §4.3). instrs and lines must have the same length and line-for-line
// correspondence; lines is typically regconv.FromInstrs(instrs).
func Analyze(instrs []ir.Instruction, lines []regconv.Line) (*Result, error) {
	succ, err := lineSuccessors(instrs)
	if err != nil {
		return nil, err
	}
	gen, kill := genKill(lines)
	liveOut := Solve(len(instrs), gen, kill, succ)
	return &Result{LiveOut: liveOut}, nil
}
