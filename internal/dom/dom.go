// Package dom computes immediate dominators, the dominator tree, and
// dominance frontiers over a CFG built by internal/cfg (spec §4.2), using
// the Cooper–Harvey–Kennedy iterative algorithm.
package dom

import (
	"l5c/internal/cfg"
	"l5c/internal/errors"
	"l5c/internal/ir"
)

// Result holds the three artifacts spec §4.2 names.
type Result struct {
	idom   map[ir.Label]ir.Label
	tree   map[ir.Label][]ir.Label
	df     map[ir.Label]map[ir.Label]bool
	rpoNum map[ir.Label]int
}

// Idom returns the immediate dominator of n, or errors.ErrUnreachableAssumption
// if n was never reached from ENTRY (spec §4.2 "Failure modes").
func (r *Result) Idom(n ir.Label) (ir.Label, error) {
	d, ok := r.idom[n]
	if !ok {
		return ir.Label{}, errors.Unreachable(n.String(), "idom requested for a block unreachable from ENTRY")
	}
	return d, nil
}

// Dominates reports whether a dominates b (a == b counts as dominating).
func (r *Result) Dominates(a, b ir.Label) bool {
	if a == b {
		return true
	}
	cur, ok := r.idom[b]
	if !ok {
		return false
	}
	for {
		if cur == a {
			return true
		}
		if cur == ir.ENTRY {
			return a == ir.ENTRY
		}
		next, ok := r.idom[cur]
		if !ok || next == cur {
			return false
		}
		cur = next
	}
}

// Tree returns n's immediate children in the dominator tree (spec §4.2
// "Dominator tree"), in ascending label-id order.
func (r *Result) Tree(n ir.Label) []ir.Label {
	return r.tree[n]
}

// DominanceFrontier returns DF(n) (spec §4.2). Reachable blocks always have
// an entry, possibly empty.
func (r *Result) DominanceFrontier(n ir.Label) map[ir.Label]bool {
	return r.df[n]
}

// Reachable reports whether n was reached from ENTRY.
func (r *Result) Reachable(n ir.Label) bool {
	_, ok := r.idom[n]
	return ok
}

// Compute runs the full dominator analysis over a block map and its edges.
func Compute(bm ir.BlockMap, edges *ir.EdgeMaps) (*Result, error) {
	post := cfg.Postorder(edges)
	rpo := reversed(post)

	rpoNum := make(map[ir.Label]int, len(rpo))
	for i, l := range rpo {
		rpoNum[l] = i
	}

	idom := map[ir.Label]ir.Label{ir.ENTRY: ir.ENTRY}

	intersect := func(b1, b2 ir.Label) ir.Label {
		for b1 != b2 {
			for rpoNum[b1] > rpoNum[b2] {
				b1 = idom[b1]
			}
			for rpoNum[b2] > rpoNum[b1] {
				b2 = idom[b2]
			}
		}
		return b1
	}

	changed := true
	for changed {
		changed = false
		for _, n := range rpo {
			if n == ir.ENTRY {
				continue
			}
			var newIdom ir.Label
			haveFirst := false
			for _, p := range edges.PredOf(n) {
				if _, ok := idom[p]; !ok {
					continue
				}
				if !haveFirst {
					newIdom = p
					haveFirst = true
					continue
				}
				newIdom = intersect(p, newIdom)
			}
			if !haveFirst {
				continue
			}
			if cur, ok := idom[n]; !ok || cur != newIdom {
				idom[n] = newIdom
				changed = true
			}
		}
	}

	df := computeFrontier(rpo, idom, edges)
	tree := computeTree(idom)

	return &Result{idom: idom, tree: tree, df: df, rpoNum: rpoNum}, nil
}

func reversed(ls []ir.Label) []ir.Label {
	out := make([]ir.Label, len(ls))
	for i, l := range ls {
		out[len(ls)-1-i] = l
	}
	return out
}

func computeFrontier(rpo []ir.Label, idom map[ir.Label]ir.Label, edges *ir.EdgeMaps) map[ir.Label]map[ir.Label]bool {
	df := make(map[ir.Label]map[ir.Label]bool, len(rpo))
	for _, n := range rpo {
		df[n] = make(map[ir.Label]bool)
	}
	for _, n := range rpo {
		preds := edges.PredOf(n)
		if len(preds) < 2 {
			continue
		}
		for _, p := range preds {
			if _, ok := idom[p]; !ok {
				continue
			}
			runner := p
			for runner != idom[n] {
				df[runner][n] = true
				next, ok := idom[runner]
				if !ok || next == runner {
					break
				}
				runner = next
			}
		}
	}
	return df
}

func computeTree(idom map[ir.Label]ir.Label) map[ir.Label][]ir.Label {
	tree := make(map[ir.Label][]ir.Label)
	for n, p := range idom {
		if n == p {
			continue
		}
		tree[p] = append(tree[p], n)
	}
	for p := range tree {
		sortLabelsAsc(tree[p])
	}
	return tree
}

func sortLabelsAsc(ls []ir.Label) {
	for i := 1; i < len(ls); i++ {
		for j := i; j > 0 && ls[j].ID() < ls[j-1].ID(); j-- {
			ls[j], ls[j-1] = ls[j-1], ls[j]
		}
	}
}
