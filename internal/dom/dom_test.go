package dom_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"l5c/internal/absasm"
	"l5c/internal/cfg"
	"l5c/internal/dom"
	"l5c/internal/ir"
)

const diamondSrc = `
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

func buildDiamond(t *testing.T) (ir.BlockMap, *ir.EdgeMaps, map[string]ir.Label) {
	t.Helper()
	instrs, factory, err := absasm.ParseFunction(t.Name()+".s", diamondSrc)
	require.NoError(t, err)
	instrs = cfg.EliminateFallThrough(instrs, absasm.Factory)
	bm, err := cfg.BuildBB(instrs, factory, absasm.Factory)
	require.NoError(t, err)
	edges, err := cfg.BuildEdges(bm)
	require.NoError(t, err)

	byName := make(map[string]ir.Label)
	for _, l := range bm.Labels() {
		byName[l.String()] = l
	}
	return bm, edges, byName
}

func TestComputeDiamondImmediateDominators(t *testing.T) {
	bm, edges, byName := buildDiamond(t)
	result, err := dom.Compute(bm, edges)
	require.NoError(t, err)

	entryIdom, err := result.Idom(byName["entry"])
	require.NoError(t, err)
	assert.Equal(t, ir.ENTRY, entryIdom)

	leftIdom, err := result.Idom(byName["left"])
	require.NoError(t, err)
	assert.Equal(t, byName["entry"], leftIdom)

	rightIdom, err := result.Idom(byName["right"])
	require.NoError(t, err)
	assert.Equal(t, byName["entry"], rightIdom)

	joinIdom, err := result.Idom(byName["join"])
	require.NoError(t, err)
	assert.Equal(t, byName["entry"], joinIdom)
}

func TestComputeDiamondDominanceFrontier(t *testing.T) {
	bm, edges, byName := buildDiamond(t)
	result, err := dom.Compute(bm, edges)
	require.NoError(t, err)

	leftDF := result.DominanceFrontier(byName["left"])
	assert.True(t, leftDF[byName["join"]])

	rightDF := result.DominanceFrontier(byName["right"])
	assert.True(t, rightDF[byName["join"]])

	entryDF := result.DominanceFrontier(byName["entry"])
	assert.Empty(t, entryDF)
}

func TestDominatesReflexiveAndTransitive(t *testing.T) {
	bm, edges, byName := buildDiamond(t)
	result, err := dom.Compute(bm, edges)
	require.NoError(t, err)

	assert.True(t, result.Dominates(byName["entry"], byName["entry"]))
	assert.True(t, result.Dominates(byName["entry"], byName["left"]))
	assert.True(t, result.Dominates(ir.ENTRY, byName["join"]))
	assert.False(t, result.Dominates(byName["left"], byName["right"]))
}

func TestIdomOfUnreachableBlockFails(t *testing.T) {
	bm, edges, _ := buildDiamond(t)
	result, err := dom.Compute(bm, edges)
	require.NoError(t, err)

	_, err = result.Idom(ir.Label{})
	assert.Error(t, err)
}

func TestDominatorTreeChildren(t *testing.T) {
	bm, edges, byName := buildDiamond(t)
	result, err := dom.Compute(bm, edges)
	require.NoError(t, err)

	children := result.Tree(byName["entry"])
	assert.ElementsMatch(t, children, []ir.Label{byName["left"], byName["right"], byName["join"]})
}
