// Package absasm is the one concrete instruction set this repo ships
// alongside the backend: a small textual "abstract assembly" format
// satisfying ir.Instruction, used by cmd/l5c's --emit abs surface, the
// repl, and the cfg/dom/liveness/regconv tests (spec §3, §6, §9's "monomorphise per
// instruction flavour" guidance — there is exactly one flavour here,
// abs-asm, so the CFG/dom/liveness/regalloc packages are generic over
// ir.Instruction but this package never needs a second one).
package absasm

import (
	"fmt"

	"l5c/internal/ir"
	"l5c/internal/regconv"
)

// LabelInstr marks the start of a basic block.
type LabelInstr struct{ L ir.Label }

func (i *LabelInstr) IsLabel() bool { return true }
func (i *LabelInstr) IsJump() bool { return false }
func (i *LabelInstr) IsCJump() bool { return false }
func (i *LabelInstr) IsReturn() bool { return false }
func (i *LabelInstr) IsAssert() bool { return false }
func (i *LabelInstr) GetLabel() ir.Label { return i.L }
func (i *LabelInstr) Next() []ir.Label { return nil }
func (i *LabelInstr) ReplaceTarget(ir.Label) {}
func (i *LabelInstr) ReplaceCTarget(ir.Label, ir.Label) {}
func (i *LabelInstr) String() string { return fmt.Sprintf("%s:", i.L) }

// MovInstr copies Src into Dst.
type MovInstr struct {
	Dst ir.Temp
	Src regconv.Operand
}

func (i *MovInstr) IsLabel() bool { return false }
func (i *MovInstr) IsJump() bool { return false }
func (i *MovInstr) IsCJump() bool { return false }
func (i *MovInstr) IsReturn() bool { return false }
func (i *MovInstr) IsAssert() bool { return false }
func (i *MovInstr) GetLabel() ir.Label { return ir.Label{} }
func (i *MovInstr) Next() []ir.Label { return nil }
func (i *MovInstr) ReplaceTarget(ir.Label) {}
func (i *MovInstr) ReplaceCTarget(ir.Label, ir.Label) {}
func (i *MovInstr) String() string { return fmt.Sprintf("mov %s, %s", i.Dst, i.Src) }

func (i *MovInstr) RegInfo() (uses, defines []regconv.Operand, isMove bool) {
	defines = []regconv.Operand{regconv.MakeTemp(i.Dst)}
	if i.Src.IsAllocatable() {
		uses = []regconv.Operand{i.Src}
	}
	isMove = i.Src.Kind == regconv.TempOperand || i.Src.Kind == regconv.RegOperand
	return uses, defines, isMove
}

// JumpInstr is an unconditional jump.
type JumpInstr struct{ Target ir.Label }

func (i *JumpInstr) IsLabel() bool { return false }
func (i *JumpInstr) IsJump() bool { return true }
func (i *JumpInstr) IsCJump() bool { return false }
func (i *JumpInstr) IsReturn() bool { return false }
func (i *JumpInstr) IsAssert() bool { return false }
func (i *JumpInstr) GetLabel() ir.Label { return ir.Label{} }
func (i *JumpInstr) Next() []ir.Label { return []ir.Label{i.Target} }
func (i *JumpInstr) ReplaceTarget(newTarget ir.Label) { i.Target = newTarget }
func (i *JumpInstr) ReplaceCTarget(ir.Label, ir.Label) {}
func (i *JumpInstr) String() string { return fmt.Sprintf("jump %s", i.Target) }

func (i *JumpInstr) RegInfo() (uses, defines []regconv.Operand, isMove bool) { return nil, nil, false }

// CJumpInstr is a conditional jump: falls through-equivalent in the sense
// that it names both the true and false targets explicitly (abs-asm has no
// implicit fallthrough once internal/cfg.EliminateFallThrough has run).
type CJumpInstr struct {
	Cond             regconv.Operand
	TTarget, FTarget ir.Label
}

func (i *CJumpInstr) IsLabel() bool { return false }
func (i *CJumpInstr) IsJump() bool { return false }
func (i *CJumpInstr) IsCJump() bool { return true }
func (i *CJumpInstr) IsReturn() bool { return false }
func (i *CJumpInstr) IsAssert() bool { return false }
func (i *CJumpInstr) GetLabel() ir.Label { return ir.Label{} }
func (i *CJumpInstr) Next() []ir.Label { return []ir.Label{i.TTarget, i.FTarget} }
func (i *CJumpInstr) ReplaceTarget(ir.Label) {}
func (i *CJumpInstr) ReplaceCTarget(oldTarget, newTarget ir.Label) {
	if i.TTarget == oldTarget {
		i.TTarget = newTarget
	}
	if i.FTarget == oldTarget {
		i.FTarget = newTarget
	}
}
func (i *CJumpInstr) String() string {
	return fmt.Sprintf("cjump %s, %s, %s", i.Cond, i.TTarget, i.FTarget)
}

func (i *CJumpInstr) RegInfo() (uses, defines []regconv.Operand, isMove bool) {
	if i.Cond.IsAllocatable() {
		uses = []regconv.Operand{i.Cond}
	}
	return uses, nil, false
}

// RetInstr returns from the function, optionally carrying a value.
type RetInstr struct{ Value *regconv.Operand }

func (i *RetInstr) IsLabel() bool { return false }
func (i *RetInstr) IsJump() bool { return false }
func (i *RetInstr) IsCJump() bool { return false }
func (i *RetInstr) IsReturn() bool { return true }
func (i *RetInstr) IsAssert() bool { return false }
func (i *RetInstr) GetLabel() ir.Label { return ir.Label{} }
func (i *RetInstr) Next() []ir.Label { return nil }
func (i *RetInstr) ReplaceTarget(ir.Label) {}
func (i *RetInstr) ReplaceCTarget(ir.Label, ir.Label) {}
func (i *RetInstr) String() string {
	if i.Value == nil {
		return "ret"
	}
	return fmt.Sprintf("ret %s", *i.Value)
}

func (i *RetInstr) RegInfo() (uses, defines []regconv.Operand, isMove bool) {
	if i.Value != nil && i.Value.IsAllocatable() {
		uses = []regconv.Operand{*i.Value}
	}
	return uses, nil, false
}

// AssertInstr aborts the program if Cond is false/zero at runtime. It does
// not branch at the abstract-instruction level (the lowering to real
// conditional jumps happens in instruction selection, out of scope here per
// spec §1), so it behaves as straight-line code to the CFG builder.
type AssertInstr struct{ Cond regconv.Operand }

func (i *AssertInstr) IsLabel() bool { return false }
func (i *AssertInstr) IsJump() bool { return false }
func (i *AssertInstr) IsCJump() bool { return false }
func (i *AssertInstr) IsReturn() bool { return false }
func (i *AssertInstr) IsAssert() bool { return true }
func (i *AssertInstr) GetLabel() ir.Label { return ir.Label{} }
func (i *AssertInstr) Next() []ir.Label { return nil }
func (i *AssertInstr) ReplaceTarget(ir.Label) {}
func (i *AssertInstr) ReplaceCTarget(ir.Label, ir.Label) {}
func (i *AssertInstr) String() string { return fmt.Sprintf("assert %s", i.Cond) }

func (i *AssertInstr) RegInfo() (uses, defines []regconv.Operand, isMove bool) {
	if i.Cond.IsAllocatable() {
		uses = []regconv.Operand{i.Cond}
	}
	return uses, nil, false
}

// instrFactory implements ir.InstrFactory for abs-asm instructions.
type instrFactory struct{}

// Factory is the ir.InstrFactory value the cfg/dom pipelines use to
// synthesize ENTRY/EXIT blocks and split edges over abs-asm instructions.
var Factory ir.InstrFactory = instrFactory{}

func (instrFactory) NewLabelInstr(l ir.Label) ir.Instruction { return &LabelInstr{L: l} }
func (instrFactory) NewJumpInstr(target ir.Label) ir.Instruction {
	return &JumpInstr{Target: target}
}
func (instrFactory) NewRetInstr() ir.Instruction { return &RetInstr{} }
