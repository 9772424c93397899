package absasm

import (
	"fmt"

	"l5c/internal/errors"
	"l5c/internal/ir"
	"l5c/internal/regconv"
)

// lowerer carries the per-function state needed to turn a parsed Program
// into a flat []ir.Instruction: the label table (pre-populated so forward
// jumps resolve) and a name -> Temp table so repeated occurrences of the
// same temp name share one ir.Temp.
type lowerer struct {
	factory *ir.Factory
	labels  map[string]ir.Label
	temps   map[string]ir.Temp
}

// Lower converts a parsed Program into the flat instruction stream the rest
// of the backend consumes, minting labels and temps from factory. Returns a
// *errors.CompilerError wrapping errors.ErrMalformedCFG if a jump names a
// label the program never declares.
func Lower(prog *Program, factory *ir.Factory) ([]ir.Instruction, error) {
	l := &lowerer{
		factory: factory,
		labels:  make(map[string]ir.Label),
		temps:   make(map[string]ir.Temp),
	}

	for _, line := range prog.Lines {
		if line.Label != nil {
			l.labels[line.Label.Name] = factory.NewNamedLabel(line.Label.Name)
		}
	}

	out := make([]ir.Instruction, 0, len(prog.Lines))
	for _, line := range prog.Lines {
		switch {
		case line.Label != nil:
			out = append(out, &LabelInstr{L: l.labels[line.Label.Name]})
		case line.Instr != nil:
			instr, err := l.lowerInstr(line.Instr)
			if err != nil {
				return nil, err
			}
			out = append(out, instr)
		}
	}
	return out, nil
}

func (l *lowerer) lowerInstr(n *InstrLine) (ir.Instruction, error) {
	switch {
	case n.Mov != nil:
		return &MovInstr{Dst: l.temp(n.Mov.Dst.Name), Src: l.operand(&n.Mov.Src)}, nil
	case n.Jump != nil:
		target, err := l.label(n.Jump.Target)
		if err != nil {
			return nil, err
		}
		return &JumpInstr{Target: target}, nil
	case n.CJump != nil:
		tt, err := l.label(n.CJump.TTarget)
		if err != nil {
			return nil, err
		}
		ft, err := l.label(n.CJump.FTarget)
		if err != nil {
			return nil, err
		}
		return &CJumpInstr{Cond: l.operand(&n.CJump.Cond), TTarget: tt, FTarget: ft}, nil
	case n.Ret != nil:
		if n.Ret.Value == nil {
			return &RetInstr{}, nil
		}
		v := l.operand(n.Ret.Value)
		return &RetInstr{Value: &v}, nil
	case n.Assert != nil:
		return &AssertInstr{Cond: l.operand(&n.Assert.Cond)}, nil
	default:
		return nil, errors.Malformed("", "instruction line has no recognized shape")
	}
}

func (l *lowerer) label(name string) (ir.Label, error) {
	lbl, ok := l.labels[name]
	if !ok {
		return ir.Label{}, errors.Malformed(name, fmt.Sprintf("jump target %q is never declared", name))
	}
	return lbl, nil
}

// temp resolves a `%name` reference to a Temp, binding hard-register names
// (rax, rbx, ...) to their pre-bound hard Temp and minting/reusing an
// ordinary Temp for every other name.
func (l *lowerer) temp(name string) ir.Temp {
	if r, ok := ir.ParseHardReg(name); ok {
		return ir.HardTemp(r)
	}
	if t, ok := l.temps[name]; ok {
		return t
	}
	t := l.factory.NewTemp()
	l.temps[name] = t
	return t
}

func (l *lowerer) operand(n *OperandNode) regconv.Operand {
	if n.Int != nil {
		return regconv.MakeImm(*n.Int)
	}
	t := l.temp(n.Reg.Name)
	if t.IsHard() {
		return regconv.MakeReg(t.AsHardReg())
	}
	return regconv.MakeTemp(t)
}
