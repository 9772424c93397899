package regconv_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"l5c/internal/absasm"
	"l5c/internal/regconv"
)

func TestFromInstrsBuildsUsesAndDefines(t *testing.T) {
	src := `
start:
    mov %t0, 1
    mov %t1, %t0
    ret %t1
`
	instrs, _, err := absasm.ParseFunction("line.s", src)
	require.NoError(t, err)

	lines := regconv.FromInstrs(instrs)
	require.Len(t, lines, len(instrs))

	// index 0 is the label: no uses/defines.
	assert.Empty(t, lines[0].Uses)
	assert.Empty(t, lines[0].Defines)

	// "mov %t1, %t0" defines t1, uses t0, and is a move.
	movLine := lines[2]
	require.Len(t, movLine.Defines, 1)
	require.Len(t, movLine.Uses, 1)
	assert.True(t, movLine.IsMove)
	assert.Equal(t, regconv.TempOperand, movLine.Uses[0].Kind)
}

func TestImmediateOperandNotAllocatable(t *testing.T) {
	op := regconv.MakeImm(42)
	assert.False(t, op.IsAllocatable())
	assert.Equal(t, "$42", op.String())
}

func TestMoveWithImmediateSourceIsNotAMove(t *testing.T) {
	src := `
start:
    mov %t0, 7
    ret %t0
`
	instrs, _, err := absasm.ParseFunction("imm.s", src)
	require.NoError(t, err)

	lines := regconv.FromInstrs(instrs)
	assert.False(t, lines[1].IsMove)
}
