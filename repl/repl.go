// SPDX-License-Identifier: Apache-2.0

// Package repl is an interactive inspector: the lines the user types up to
// a blank line are parsed as one abs-asm function body, pushed through
// CFG/dominance/liveness/register allocation, and reported back, following
// the teacher's bufio.Scanner REPL shape.
package repl

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"l5c/internal/absasm"
	"l5c/internal/cfg"
	"l5c/internal/dom"
	"l5c/internal/liveness"
	"l5c/internal/regalloc"
	"l5c/internal/regconv"
)

const PROMPT = ">> "

// Start runs the REPL loop against in, writing prompts and results to out.
// Lines accumulate until a blank line, since one abs-asm function spans
// several physical lines (labels, instructions).
func Start(in io.Reader, out io.Writer) {
	scanner := bufio.NewScanner(in)
	var buf strings.Builder

	flush := func() {
		src := buf.String()
		buf.Reset()
		if strings.TrimSpace(src) == "" {
			return
		}
		inspect(out, src)
	}

	for {
		fmt.Fprint(out, PROMPT)
		if !scanner.Scan() {
			flush()
			return
		}
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		buf.WriteString(line)
		buf.WriteString("\n")
	}
}

func inspect(out io.Writer, src string) {
	instrs, factory, err := absasm.ParseFunction("<repl>", src)
	if err != nil {
		// ParseFunction already printed a caret diagnostic for syntax
		// errors; lowering errors (undefined label) still need reporting.
		fmt.Fprintln(out, err)
		return
	}

	instrs = cfg.EliminateFallThrough(instrs, absasm.Factory)
	bm, err := cfg.BuildBB(instrs, factory, absasm.Factory)
	if err != nil {
		fmt.Fprintln(out, err)
		return
	}
	edges, err := cfg.BuildEdges(bm)
	if err != nil {
		fmt.Fprintln(out, err)
		return
	}

	color.New(color.FgCyan).Fprintln(out, "-- CFG --")
	fmt.Fprint(out, cfg.Dump(bm, edges))

	domResult, err := dom.Compute(bm, edges)
	if err != nil {
		fmt.Fprintln(out, err)
		return
	}
	color.New(color.FgCyan).Fprintln(out, "-- dominance --")
	fmt.Fprint(out, dom.Dump(bm, domResult))

	linear := cfg.ToInstrs(bm, cfg.Postorder(edges))
	lines := regconv.FromInstrs(linear)
	liveResult, err := liveness.Analyze(linear, lines)
	if err != nil {
		fmt.Fprintln(out, err)
		return
	}

	g := regalloc.Build(lines, liveResult.LiveOut)
	assignment, err := regalloc.NewAllocator().Allocate(g)
	if err != nil {
		fmt.Fprintln(out, err)
		return
	}

	color.New(color.FgCyan).Fprintln(out, "-- register allocation --")
	for _, t := range g.Vertices() {
		if t.IsHard() {
			continue
		}
		if a, ok := assignment[t]; ok {
			fmt.Fprintf(out, "  %s -> %s\n", t, a)
		}
	}

	color.New(color.FgGreen).Fprintf(out, "done (%d blocks, %d temps)\n", len(bm), len(assignment))
}
