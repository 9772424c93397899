package absasm

import (
	"strings"

	"l5c/internal/ir"
)

// Print renders a flat instruction stream as text for cmd/l5c's --emit abs
// output: labels flush left, other instructions indented, one per line.
// Operands use the instructions' String forms (temps as t0, registers as
// rax, immediates as $1), so the output is not in the syntax ParseString
// accepts and does not parse back.
func Print(instrs []ir.Instruction) string {
	var b strings.Builder
	for _, instr := range instrs {
		if instr.IsLabel() {
			b.WriteString(instr.(interface{ String() string }).String())
		} else {
			b.WriteString("    ")
			b.WriteString(instr.(interface{ String() string }).String())
		}
		b.WriteString("\n")
	}
	return b.String()
}
