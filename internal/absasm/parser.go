package absasm

import (
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/fatih/color"

	"l5c/internal/ir"
)

var parser = buildParser()

func buildParser() *participle.Parser[Program] {
	p, err := participle.Build[Program](
		participle.Lexer(AbsAsmLexer),
		participle.Elide("Whitespace", "Comment"),
		participle.UseLookahead(2),
	)
	if err != nil {
		panic(fmt.Sprintf("absasm: grammar failed to build: %s", err))
	}
	return p
}

// ParseString parses abs-asm source held in memory, labelling diagnostics
// with filename. It only builds the AST; call Lower to get instructions.
func ParseString(filename, source string) (*Program, error) {
	prog, err := parser.ParseString(filename, source)
	if err != nil {
		reportParseError(source, err)
		return nil, err
	}
	return prog, nil
}

// ParseFile reads and parses an abs-asm source file.
func ParseFile(path string) (*Program, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return ParseString(path, string(source))
}

// ParseFunction is the common case: parse source and lower it in one step,
// using a fresh ir.Factory for the minted labels/temps.
func ParseFunction(filename, source string) ([]ir.Instruction, *ir.Factory, error) {
	prog, err := ParseString(filename, source)
	if err != nil {
		return nil, nil, err
	}
	factory := ir.NewFactory()
	instrs, err := Lower(prog, factory)
	if err != nil {
		return nil, nil, err
	}
	return instrs, factory, nil
}

// reportParseError prints a caret-style parse error message.
func reportParseError(src string, err error) {
	pe, ok := err.(participle.Error)
	if !ok {
		color.Red("unexpected error: %s", err)
		return
	}

	pos := pe.Position()
	lines := strings.Split(src, "\n")
	if pos.Line <= 0 || pos.Line > len(lines) {
		color.Red("syntax error at unknown location: %s", err)
		return
	}

	line := lines[pos.Line-1]
	caret := strings.Repeat(" ", pos.Column-1) + "^"

	color.Red("syntax error in %s at line %d, column %d:", pos.Filename, pos.Line, pos.Column)
	fmt.Println(line)
	color.HiRed(caret)
	fmt.Printf("-> %s\n", pe.Message())
}
