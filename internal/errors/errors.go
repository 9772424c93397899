// Package errors defines the structured diagnostic kinds the backend core can
// surface to its caller. None of these are caught internally: each is fatal
// to the current function's compilation (spec §7 propagation policy).
package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorLevel mirrors the teacher's Rust-like diagnostic levels.
type ErrorLevel string

const (
	Error   ErrorLevel = "error"
	Warning ErrorLevel = "warning"
	Note    ErrorLevel = "note"
)

// Sentinel kinds. Wrap one of these with fmt.Errorf("%w: ...") and compare
// with errors.Is at the call site, the same way the rest of the corpus
// threads sentinel errors through fmt.Errorf("%w: ...").
var (
	// ErrMalformedCFG: dangling jump targets, multiple labels collide, or a
	// block lacks a terminator.
	ErrMalformedCFG = stderrors.New(Describe(CodeMalformedCFG))

	// ErrNoSuchEdge: split_edge called with a non-existent edge.
	ErrNoSuchEdge = stderrors.New(Describe(CodeNoSuchEdge))

	// ErrUnreachableAssumption: dominator code asked for idom of an
	// unreachable node.
	ErrUnreachableAssumption = stderrors.New(Describe(CodeUnreachableAssumption))

	// ErrRegisterExhausted is reserved. The allocator always has a fallback
	// (spill), so this is never actually returned; kept for completeness of
	// the contract described in spec §7.
	ErrRegisterExhausted = stderrors.New(Describe(CodeRegisterExhausted))

	// ErrInternalInvariant: any symmetry/bijection invariant violated during
	// construction. Treated as a bug, not a user error.
	ErrInternalInvariant = stderrors.New(Describe(CodeInternalInvariant))
)

// CompilerError is a structured diagnostic. It carries no source position:
// most backend errors describe a malformed graph rather than a source span,
// so the optional Context names the label/vertex/function concerned instead.
type CompilerError struct {
	Level   ErrorLevel
	Code    string
	Message string
	Context string // optional: label/vertex/function name the error concerns
	Notes   []string
	cause   error
}

func (e *CompilerError) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("%s[%s]: %s (%s)", e.Level, e.Code, e.Message, e.Context)
	}
	return fmt.Sprintf("%s[%s]: %s", e.Level, e.Code, e.Message)
}

func (e *CompilerError) Unwrap() error { return e.cause }

// Malformed builds a CompilerError wrapping ErrMalformedCFG.
func Malformed(context, message string) *CompilerError {
	return &CompilerError{Level: Error, Code: CodeMalformedCFG, Message: message, Context: context, cause: ErrMalformedCFG}
}

// NoSuchEdge builds a CompilerError wrapping ErrNoSuchEdge.
func NoSuchEdge(context, message string) *CompilerError {
	return &CompilerError{Level: Error, Code: CodeNoSuchEdge, Message: message, Context: context, cause: ErrNoSuchEdge}
}

// Unreachable builds a CompilerError wrapping ErrUnreachableAssumption.
func Unreachable(context, message string) *CompilerError {
	return &CompilerError{Level: Error, Code: CodeUnreachableAssumption, Message: message, Context: context, cause: ErrUnreachableAssumption}
}

// Internal builds a CompilerError wrapping ErrInternalInvariant.
func Internal(context, message string) *CompilerError {
	return &CompilerError{Level: Error, Code: CodeInternalInvariant, Message: message, Context: context, cause: ErrInternalInvariant}
}
