package errors

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Reporter renders CompilerError values to an io.Writer the way the
// teacher's CLI renders parse errors: a colored level/code header followed
// by the message, context and notes. There is no source file/line to point
// at here (the core has no source positions, spec §3), so there is no
// caret-diagram rendering step.
type Reporter struct {
	out io.Writer
}

// NewReporter creates a Reporter writing to out.
func NewReporter(out io.Writer) *Reporter {
	return &Reporter{out: out}
}

// Report prints a single diagnostic.
func (r *Reporter) Report(err *CompilerError) {
	levelColor := r.levelColor(err.Level)
	bold := color.New(color.Bold).SprintFunc()

	fmt.Fprintf(r.out, "%s%s: %s\n", levelColor(string(err.Level)), bold(fmt.Sprintf("[%s]", err.Code)), err.Message)
	if err.Context != "" {
		fmt.Fprintf(r.out, "  --> %s\n", err.Context)
	}
	for _, n := range err.Notes {
		fmt.Fprintf(r.out, "  = note: %s\n", n)
	}
}

func (r *Reporter) levelColor(level ErrorLevel) func(a ...interface{}) string {
	switch level {
	case Error:
		return color.New(color.FgRed, color.Bold).SprintFunc()
	case Warning:
		return color.New(color.FgYellow, color.Bold).SprintFunc()
	default:
		return color.New(color.FgCyan).SprintFunc()
	}
}
