package dom

import (
	"fmt"
	"strings"

	"l5c/internal/ir"
)

// Dump renders idom/DF/tree for every block bm names, for --verbose output.
func Dump(bm ir.BlockMap, r *Result) string {
	var b strings.Builder
	for _, l := range bm.Labels() {
		if !r.Reachable(l) {
			fmt.Fprintf(&b, "%s: unreachable\n", l)
			continue
		}
		idom, _ := r.Idom(l)
		fmt.Fprintf(&b, "%s: idom=%s df=%s children=%s\n", l, idom, joinSet(r.DominanceFrontier(l)), joinSlice(r.Tree(l)))
	}
	return b.String()
}

func joinSet(m map[ir.Label]bool) string {
	ls := make([]ir.Label, 0, len(m))
	for l := range m {
		ls = append(ls, l)
	}
	sortLabelsAsc(ls)
	return joinSlice(ls)
}

func joinSlice(ls []ir.Label) string {
	if len(ls) == 0 {
		return "{}"
	}
	parts := make([]string, len(ls))
	for i, l := range ls {
		parts[i] = l.String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
