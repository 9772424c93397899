// SPDX-License-Identifier: Apache-2.0

// Command l5c drives the backend-middle pipeline over a single abs-asm
// function: parse, CFG construction, SSA-preparation, dominance, liveness,
// and register allocation. Instruction selection and real x86 emission are
// out of scope (spec's frontend/backend-end split), so --emit x86 reports
// that plainly rather than pretending to support it.
package main

import (
	stderrors "errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"

	"l5c/internal/absasm"
	"l5c/internal/cfg"
	"l5c/internal/dom"
	"l5c/internal/errors"
	"l5c/internal/ir"
	"l5c/internal/liveness"
	"l5c/internal/regalloc"
	"l5c/internal/regconv"
	"l5c/repl"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "regs" {
		runRegsCommand(os.Args[2:])
		return
	}
	if len(os.Args) > 1 && os.Args[1] == "repl" {
		repl.Start(os.Stdin, os.Stdout)
		return
	}

	fs := flag.NewFlagSet("l5c", flag.ExitOnError)
	emit := fs.String("emit", "abs", "output form: abs (normalized abs-asm) or x86 (not implemented by this backend core)")
	typecheckOnly := fs.Bool("typecheck-only", false, "only validate CFG/edge well-formedness, emit nothing")
	unsafe := fs.Bool("unsafe", false, "strip assert instructions before analysis")
	verbose := fs.Bool("verbose", false, "print pass, CFG, dominance and register-assignment debug output to stderr")
	header := fs.String("l", "", "license/header comment to prepend to emitted output")
	optLevel := fs.Int("O", 1, "optimization level: 0 forces spill-all allocation, >=1 uses graph coloring")
	fs.Parse(os.Args[1:])

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "usage: l5c [flags] <file.s>")
		fmt.Fprintln(os.Stderr, "       l5c regs")
		fmt.Fprintln(os.Stderr, "       l5c repl")
		os.Exit(2)
	}
	path := fs.Arg(0)

	reporter := errors.NewReporter(os.Stderr)
	logf := func(string, ...any) {}
	if *verbose {
		logf = func(format string, args ...any) { fmt.Fprintf(os.Stderr, format+"\n", args...) }
	}

	prog, err := absasm.ParseFile(path)
	if err != nil {
		// ParseFile reports syntax errors itself as a caret diagnostic; a
		// failure to read the file is returned unreported, so print it here.
		var pathErr *os.PathError
		if stderrors.As(err, &pathErr) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}

	factory := ir.NewFactory()
	instrs, err := absasm.Lower(prog, factory)
	if err != nil {
		reportAndExit(reporter, err)
	}

	if *unsafe {
		instrs = stripAsserts(instrs)
	}

	instrs = cfg.EliminateFallThrough(instrs, absasm.Factory)
	bm, err := cfg.BuildBB(instrs, factory, absasm.Factory)
	if err != nil {
		reportAndExit(reporter, err)
	}
	edges, err := cfg.BuildEdges(bm)
	if err != nil {
		reportAndExit(reporter, err)
	}

	state := &cfg.State{Blocks: bm, Edges: edges, Factory: factory, InstrFactory: absasm.Factory}
	pipeline := cfg.NewSSAPreparationPipeline()
	pipeline.SetLogger(logf)
	if err := pipeline.Run(state); err != nil {
		reportAndExit(reporter, err)
	}

	domResult, err := dom.Compute(state.Blocks, state.Edges)
	if err != nil {
		reportAndExit(reporter, err)
	}
	if *verbose {
		logf("%s", cfg.Dump(state.Blocks, state.Edges))
		logf("%s", dom.Dump(state.Blocks, domResult))
	}

	if *typecheckOnly {
		color.Green("ok: %s is structurally well-formed (%d blocks)", path, len(state.Blocks))
		return
	}

	linear := cfg.ToInstrs(state.Blocks, cfg.Postorder(state.Edges))

	switch *emit {
	case "abs":
		if *header != "" {
			fmt.Println("# " + *header)
		}
		fmt.Print(absasm.Print(linear))
	case "x86":
		reporter.Report(errors.Malformed(path, "this backend core has no instruction-selection/emission stage; --emit x86 is out of scope"))
		os.Exit(1)
	default:
		fmt.Fprintf(os.Stderr, "unknown --emit value %q\n", *emit)
		os.Exit(2)
	}

	lines := regconv.FromInstrs(linear)
	liveResult, err := liveness.Analyze(linear, lines)
	if err != nil {
		reportAndExit(reporter, err)
	}

	g := regalloc.Build(lines, liveResult.LiveOut)
	alloc := regalloc.NewAllocator()
	if *optLevel <= 0 {
		alloc.SpillThreshold = 0
	}
	assignment, err := alloc.Allocate(g)
	if err != nil {
		reportAndExit(reporter, err)
	}

	if *verbose {
		for _, t := range g.Vertices() {
			if a, ok := assignment[t]; ok {
				logf("  %s -> %s", t, a)
			}
		}
	}

	color.Green("ok: %s allocated (%d temps, %d blocks)", path, len(assignment), len(state.Blocks))
}

func stripAsserts(instrs []ir.Instruction) []ir.Instruction {
	out := make([]ir.Instruction, 0, len(instrs))
	for _, inst := range instrs {
		if inst.IsAssert() {
			continue
		}
		out = append(out, inst)
	}
	return out
}

func reportAndExit(r *errors.Reporter, err error) {
	var ce *errors.CompilerError
	if stderrors.As(err, &ce) {
		r.Report(ce)
	} else {
		fmt.Fprintln(os.Stderr, err)
	}
	if stderrors.Is(err, errors.ErrInternalInvariant) {
		os.Exit(2)
	}
	os.Exit(1)
}

// runRegsCommand implements `l5c regs`: a register-file introspection
// subcommand listing every hard register, its allocation index, and
// whether it's reserved for special use (spec's supplemented "regs"
// subcommand).
func runRegsCommand(args []string) {
	fs := flag.NewFlagSet("l5c regs", flag.ExitOnError)
	fs.Parse(args)

	fmt.Println("idx  reg   special")
	for i := 0; i < ir.NumHardRegs; i++ {
		r := ir.RegOfIndex(i)
		special := ""
		if ir.SpecialUse(i) {
			special = "yes"
		}
		fmt.Printf("%-4d %-5s %s\n", i, r, special)
	}
	fmt.Println(strings.Repeat("-", 20))
	fmt.Printf("spill threshold (default): %d\n", regalloc.DefaultSpillThreshold)
}
