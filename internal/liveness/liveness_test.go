package liveness_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"l5c/internal/absasm"
	"l5c/internal/liveness"
	"l5c/internal/regconv"
)

func TestStraightLineLiveness(t *testing.T) {
	src := `
start:
    mov %t0, 1
    mov %t1, 2
    mov %t2, %t0
    ret %t2
`
	instrs, _, err := absasm.ParseFunction("straight.s", src)
	require.NoError(t, err)

	lines := regconv.FromInstrs(instrs)
	result, err := liveness.Analyze(instrs, lines)
	require.NoError(t, err)

	// "mov %t0, 1" is index 1 (index 0 is the label); t0 feeds the later
	// "mov %t2, %t0", so it must be live-out of its defining instruction.
	movT0Idx := 1
	t0 := lines[movT0Idx].Defines[0]
	assert.True(t, result.LiveOut[movT0Idx][t0])

	// "mov %t1, 2" is index 2; t1 is never used again, so it must never be
	// live-out anywhere in the function.
	t1 := lines[2].Defines[0]
	for i := range instrs {
		assert.False(t, result.LiveOut[i][t1])
	}
}

func TestBranchLivenessAcrossCJump(t *testing.T) {
	src := `
entry:
    mov %t0, 1
    cjump %t0, left, right
left:
    mov %t1, 2
    jump join
right:
    mov %t1, 3
    jump join
join:
    ret %t1
`
	instrs, _, err := absasm.ParseFunction("branch.s", src)
	require.NoError(t, err)

	lines := regconv.FromInstrs(instrs)
	result, err := liveness.Analyze(instrs, lines)
	require.NoError(t, err)

	// find the cjump line; t0 must be live-in there (i.e. live-out of the
	// preceding mov).
	for i, inst := range instrs {
		if inst.IsCJump() {
			// t0 is used on this very line, so it need not be live-out of
			// the cjump itself, but must be live-out of the instruction
			// immediately before it.
			assert.True(t, result.LiveOut[i-1][lines[i].Uses[0]])
		}
	}
}

func TestReturnHasNoSuccessors(t *testing.T) {
	src := `
start:
    mov %t0, 1
    ret %t0
`
	instrs, _, err := absasm.ParseFunction("ret.s", src)
	require.NoError(t, err)
	lines := regconv.FromInstrs(instrs)
	result, err := liveness.Analyze(instrs, lines)
	require.NoError(t, err)

	for i, inst := range instrs {
		if inst.IsReturn() {
			assert.Empty(t, result.LiveOut[i])
		}
	}
}
