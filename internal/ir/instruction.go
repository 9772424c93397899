package ir

// Instruction is the capability trait the CFG builder requires of whatever
// instruction-selection layer feeds it (spec §3, §6, §9's "polymorphic
// instruction layer" note). Rather than a functor over an InstrInterface
// type class, Go expresses this as an interface the CFG builder is generic
// over; internal/absasm supplies one concrete satisfying type, monomorphised
// rather than dispatched per instruction the way §9 recommends.
type Instruction interface {
	IsLabel() bool
	IsJump() bool
	IsCJump() bool
	IsReturn() bool
	IsAssert() bool

	// GetLabel returns the label carried by a label instruction. Callers
	// must only invoke this when IsLabel() is true.
	GetLabel() Label

	// Next returns the successor labels implied by this instruction: empty
	// for straight-line/non-control instructions, one label for an
	// unconditional jump, two for a conditional jump, none for a return.
	Next() []Label

	// ReplaceTarget rewrites an unconditional jump's target in place.
	ReplaceTarget(newTarget Label)

	// ReplaceCTarget rewrites one target of a conditional jump, identified
	// by its old value, in place.
	ReplaceCTarget(oldTarget, newTarget Label)
}

// InstrFactory supplies the constructor side of the instruction trait (spec
// §3: "constructors — label(L), jump(L), ret()"). Go has no static-dispatch
// equivalent of a type-class constructor, so the CFG builder takes a value
// implementing this interface instead of calling package-level functions
// tied to one concrete instruction type.
type InstrFactory interface {
	NewLabelInstr(l Label) Instruction
	NewJumpInstr(target Label) Instruction
	NewRetInstr() Instruction
}

// BasicBlock is a label plus its straight-line instruction body (spec §3).
// Invariant: Instrs[0].IsLabel() && Instrs[0].GetLabel() == Label, no other
// element of Instrs is a label, and the last element is a jump, cjump, or
// ret (enforced by the CFG builder, never by this type itself).
type BasicBlock struct {
	Label  Label
	Instrs []Instruction
}

// Terminator returns the block's control-flow instruction, i.e. its last
// instruction. Panics on an empty block, which the builder never produces.
func (b *BasicBlock) Terminator() Instruction {
	return b.Instrs[len(b.Instrs)-1]
}

// BlockMap is the CFG builder's primary output: every block keyed by its
// label, including the synthesized ENTRY and EXIT blocks (spec §3, §4.1).
type BlockMap map[Label]*BasicBlock

// Labels returns the map's keys in ascending id order, giving callers a
// deterministic iteration order without depending on Go's randomized map
// iteration.
func (m BlockMap) Labels() []Label {
	out := make([]Label, 0, len(m))
	for l := range m {
		out = append(out, l)
	}
	sortLabels(out)
	return out
}

func sortLabels(ls []Label) {
	// insertion sort: block counts are small enough per function that this
	// never shows up in profiles, and it keeps this package free of a sort
	// import purely for a handful of labels.
	for i := 1; i < len(ls); i++ {
		for j := i; j > 0 && ls[j].ID() < ls[j-1].ID(); j-- {
			ls[j], ls[j-1] = ls[j-1], ls[j]
		}
	}
}

// EdgeMaps holds the CFG's successor and predecessor relation (spec §3,
// §4.1's build_ino). Both maps carry every label as a key, even those with
// an empty adjacency set, and are mutual inverses: v is in Succ[u] iff u is
// in Pred[v].
type EdgeMaps struct {
	Succ map[Label]map[Label]bool
	Pred map[Label]map[Label]bool
}

// NewEdgeMaps returns EdgeMaps with an (empty) entry for every label in ls.
func NewEdgeMaps(ls []Label) *EdgeMaps {
	e := &EdgeMaps{
		Succ: make(map[Label]map[Label]bool, len(ls)),
		Pred: make(map[Label]map[Label]bool, len(ls)),
	}
	for _, l := range ls {
		e.Succ[l] = make(map[Label]bool)
		e.Pred[l] = make(map[Label]bool)
	}
	return e
}

// AddEdge records u -> v in both directions.
func (e *EdgeMaps) AddEdge(u, v Label) {
	if e.Succ[u] == nil {
		e.Succ[u] = make(map[Label]bool)
	}
	if e.Pred[v] == nil {
		e.Pred[v] = make(map[Label]bool)
	}
	e.Succ[u][v] = true
	e.Pred[v][u] = true
}

// RemoveEdge undoes AddEdge(u, v).
func (e *EdgeMaps) RemoveEdge(u, v Label) {
	delete(e.Succ[u], v)
	delete(e.Pred[v], u)
}

// SuccOf returns the successor labels of u in ascending id order.
func (e *EdgeMaps) SuccOf(u Label) []Label {
	return sortedKeys(e.Succ[u])
}

// PredOf returns the predecessor labels of v in ascending id order.
func (e *EdgeMaps) PredOf(v Label) []Label {
	return sortedKeys(e.Pred[v])
}

func sortedKeys(m map[Label]bool) []Label {
	out := make([]Label, 0, len(m))
	for l := range m {
		out = append(out, l)
	}
	sortLabels(out)
	return out
}
