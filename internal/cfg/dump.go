package cfg

import (
	"fmt"
	"strings"

	"l5c/internal/ir"
)

// Dump renders a block map and its edges as a human-readable listing, used
// by cmd/l5c's --verbose flag and the repl (spec §4.9's debug dump; this is
// textual debug output, not the x86 emission spec.md excludes).
func Dump(bm ir.BlockMap, edges *ir.EdgeMaps) string {
	var b strings.Builder
	for _, l := range bm.Labels() {
		fmt.Fprintf(&b, "%s:\n", l)
		fmt.Fprintf(&b, "  succ = %s\n", joinLabels(edges.SuccOf(l)))
		fmt.Fprintf(&b, "  pred = %s\n", joinLabels(edges.PredOf(l)))
		for _, inst := range bm[l].Instrs {
			fmt.Fprintf(&b, "    %v\n", inst)
		}
	}
	return b.String()
}

func joinLabels(ls []ir.Label) string {
	if len(ls) == 0 {
		return "{}"
	}
	parts := make([]string, len(ls))
	for i, l := range ls {
		parts[i] = l.String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
