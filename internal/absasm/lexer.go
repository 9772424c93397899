package absasm

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// AbsAsmLexer tokenizes the abs-asm textual format: labels, the five
// mnemonics, `%`-prefixed temps and hard registers, integers, and the
// punctuation that separates operands.
var AbsAsmLexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		{"Comment", `#[^\n]*`, nil},
		{"Ident", `[a-zA-Z_][a-zA-Z0-9_]*`, nil},
		{"Integer", `-?[0-9]+`, nil},
		{"Punctuation", `[%:,]`, nil},
		{"Whitespace", `[ \t\r\n]+`, nil},
	},
})
