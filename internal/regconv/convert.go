package regconv

import "l5c/internal/ir"

// FromInstrs builds one Line per instruction in instrs, pulling uses/defines
// from Source when an instruction implements it and leaving both empty
// otherwise (spec §4.3/§6). LiveOut is left nil: liveness.Analyze returns
// live-out sets separately in its Result and does not fill this field.
func FromInstrs(instrs []ir.Instruction) []Line {
	lines := make([]Line, len(instrs))
	for i, inst := range instrs {
		src, ok := inst.(Source)
		if !ok {
			continue
		}
		uses, defines, isMove := src.RegInfo()
		lines[i] = Line{Uses: uses, Defines: defines, IsMove: isMove}
	}
	return lines
}
