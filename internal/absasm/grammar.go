package absasm

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// Program is the root grammar node: an abs-asm source file is nothing more
// than an ordered sequence of label declarations and instruction lines.
type Program struct {
	Pos   lexer.Position
	Lines []*Line `@@*`
}

// Line is either a label declaration or an instruction.
type Line struct {
	Pos   lexer.Position
	Label *LabelDecl `  @@`
	Instr *InstrLine `| @@`
}

// LabelDecl declares a basic block entry point: `name:`.
type LabelDecl struct {
	Pos  lexer.Position
	Name string `@Ident ":"`
}

// InstrLine dispatches to one of the five instruction shapes.
type InstrLine struct {
	Pos    lexer.Position
	Mov    *MovNode    `  @@`
	Jump   *JumpNode   `| @@`
	CJump  *CJumpNode  `| @@`
	Ret    *RetNode    `| @@`
	Assert *AssertNode `| @@`
}

// RegRef is a `%name` reference: either an ordinary temp (e.g. %t3) or a
// hard register (e.g. %rax), disambiguated during lowering by name.
type RegRef struct {
	Pos  lexer.Position
	Name string `"%" @Ident`
}

// OperandNode is either a RegRef or an immediate integer.
type OperandNode struct {
	Pos lexer.Position
	Reg *RegRef `  @@`
	Int *int64  `| @Integer`
}

// MovNode is `mov %dst, src`.
type MovNode struct {
	Pos lexer.Position
	Dst RegRef      `"mov" @@ ","`
	Src OperandNode `@@`
}

// JumpNode is `jump target`.
type JumpNode struct {
	Pos    lexer.Position
	Target string `"jump" @Ident`
}

// CJumpNode is `cjump cond, ttarget, ftarget`.
type CJumpNode struct {
	Pos     lexer.Position
	Cond    OperandNode `"cjump" @@ ","`
	TTarget string      `@Ident ","`
	FTarget string      `@Ident`
}

// RetNode is `ret` or `ret value`.
type RetNode struct {
	Pos   lexer.Position
	Value *OperandNode `"ret" @@?`
}

// AssertNode is `assert cond`.
type AssertNode struct {
	Pos  lexer.Position
	Cond OperandNode `"assert" @@`
}
