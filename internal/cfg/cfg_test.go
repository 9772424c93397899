package cfg_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"l5c/internal/absasm"
	"l5c/internal/cfg"
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

func parse(t *testing.T, src string) ([]ir.Instruction, *ir.Factory) {
	t.Helper()
	instrs, factory, err := absasm.ParseFunction(t.Name()+".s", src)
	require.NoError(t, err)
	return instrs, factory
}

func TestEliminateFallThroughIsIdempotent(t *testing.T) {
	instrs, _ := parse(t, diamondSrc)
	once := cfg.EliminateFallThrough(instrs, absasm.Factory)
	twice := cfg.EliminateFallThrough(once, absasm.Factory)
	assert.Equal(t, len(once), len(twice))
}

func TestBuildBBSynthesizesEntryAndExit(t *testing.T) {
	instrs, factory := parse(t, diamondSrc)
	instrs = cfg.EliminateFallThrough(instrs, absasm.Factory)

	bm, err := cfg.BuildBB(instrs, factory, absasm.Factory)
	require.NoError(t, err)

	assert.Contains(t, bm, ir.ENTRY)
	assert.Contains(t, bm, ir.EXIT)
	assert.True(t, bm[ir.ENTRY].Terminator().IsJump())
	assert.True(t, bm[ir.EXIT].Terminator().IsReturn())
}

func TestBuildBBSplitsDeadCodeAfterTerminator(t *testing.T) {
	// start jumps to skip, but a mov follows with no intervening label: dead
	// code that must land in its own synthetic block rather than being
	// appended after start's already-terminated jump (spec §3: "every block
	// ends with exactly one control-flow instruction").
	src := `
start:
    jump skip
    mov %t0, 1
skip:
    ret
`
	instrs, factory := parse(t, src)
	instrs = cfg.EliminateFallThrough(instrs, absasm.Factory)
	bm, err := cfg.BuildBB(instrs, factory, absasm.Factory)
	require.NoError(t, err)

	for _, l := range bm.Labels() {
		b := bm[l]
		for _, inst := range b.Instrs[1:] {
			assert.False(t, inst.IsLabel(), "%s: interior label", l)
		}
		last := b.Instrs[len(b.Instrs)-1]
		assert.True(t, last.IsJump() || last.IsCJump() || last.IsReturn(), "%s: does not end with a control instruction", l)
	}
}

func TestBuildEdgesDiamondShape(t *testing.T) {
	instrs, factory := parse(t, diamondSrc)
	instrs = cfg.EliminateFallThrough(instrs, absasm.Factory)
	bm, err := cfg.BuildBB(instrs, factory, absasm.Factory)
	require.NoError(t, err)

	edges, err := cfg.BuildEdges(bm)
	require.NoError(t, err)

	labels := bm.Labels()
	var entry, left, right, join ir.Label
	for _, l := range labels {
		switch l.String() {
		case "entry":
			entry = l
		case "left":
			left = l
		case "right":
			right = l
		case "join":
			join = l
		}
	}

	assert.Len(t, edges.SuccOf(entry), 2)
	assert.ElementsMatch(t, edges.SuccOf(entry), []ir.Label{left, right})
	assert.ElementsMatch(t, edges.PredOf(join), []ir.Label{left, right})

	// join's `ret` must flow into the synthetic EXIT sink, not dead-end.
	assert.ElementsMatch(t, edges.SuccOf(join), []ir.Label{ir.EXIT})
	assert.Contains(t, edges.PredOf(ir.EXIT), join)
}

func TestDanglingJumpRejectedByLowering(t *testing.T) {
	src := `
start:
    jump ghost
`
	_, _, err := absasm.ParseFunction("dangling.s", src)
	require.Error(t, err)
}

func TestPostorderIsDeterministic(t *testing.T) {
	instrs, factory := parse(t, diamondSrc)
	instrs = cfg.EliminateFallThrough(instrs, absasm.Factory)
	bm, err := cfg.BuildBB(instrs, factory, absasm.Factory)
	require.NoError(t, err)
	edges, err := cfg.BuildEdges(bm)
	require.NoError(t, err)

	first := cfg.Postorder(edges)
	second := cfg.Postorder(edges)
	assert.Equal(t, first, second)
	assert.Equal(t, ir.ENTRY, first[len(first)-1])
}

func TestIsCriticalEdgeOnPlainDiamond(t *testing.T) {
	// A plain diamond has no critical edges: entry's two successors each
	// have a single predecessor, and join's two predecessors each have a
	// single successor.
	instrs, factory := parse(t, diamondSrc)
	instrs = cfg.EliminateFallThrough(instrs, absasm.Factory)
	bm, err := cfg.BuildBB(instrs, factory, absasm.Factory)
	require.NoError(t, err)
	edges, err := cfg.BuildEdges(bm)
	require.NoError(t, err)

	for _, u := range bm.Labels() {
		for _, v := range edges.SuccOf(u) {
			assert.False(t, cfg.IsCriticalEdge(u, v, edges), "%s -> %s should not be critical", u, v)
		}
	}
}

func TestSplitEdgeInsertsBlockOnPath(t *testing.T) {
	instrs, factory := parse(t, diamondSrc)
	instrs = cfg.EliminateFallThrough(instrs, absasm.Factory)
	bm, err := cfg.BuildBB(instrs, factory, absasm.Factory)
	require.NoError(t, err)
	edges, err := cfg.BuildEdges(bm)
	require.NoError(t, err)

	var entry, left ir.Label
	for _, l := range bm.Labels() {
		switch l.String() {
		case "entry":
			entry = l
		case "left":
			left = l
		}
	}

	m, err := cfg.SplitEdge(entry, left, bm, edges, factory, absasm.Factory)
	require.NoError(t, err)
	assert.Contains(t, bm, m)
	assert.True(t, edges.Succ[entry][m])
	assert.True(t, edges.Succ[m][left])
	assert.False(t, edges.Succ[entry][left])

	// Pred must mirror Succ exactly (spec §3, §8 edge symmetry): the split
	// block is reachable only through entry, and left is reachable only
	// through the split block.
	assert.True(t, edges.Pred[m][entry])
	assert.True(t, edges.Pred[left][m])
	assert.False(t, edges.Pred[left][entry])
}

func TestSplitEdgeRejectsNonEdge(t *testing.T) {
	instrs, factory := parse(t, diamondSrc)
	instrs = cfg.EliminateFallThrough(instrs, absasm.Factory)
	bm, err := cfg.BuildBB(instrs, factory, absasm.Factory)
	require.NoError(t, err)
	edges, err := cfg.BuildEdges(bm)
	require.NoError(t, err)

	_, err = cfg.SplitEdge(ir.ENTRY, ir.EXIT, bm, edges, factory, absasm.Factory)
	assert.Error(t, err)
}

func TestSSAPreparationPipelineIsIdempotent(t *testing.T) {
	instrs, factory := parse(t, diamondSrc)
	instrs = cfg.EliminateFallThrough(instrs, absasm.Factory)
	bm, err := cfg.BuildBB(instrs, factory, absasm.Factory)
	require.NoError(t, err)
	edges, err := cfg.BuildEdges(bm)
	require.NoError(t, err)

	state := &cfg.State{Blocks: bm, Edges: edges, Factory: factory, InstrFactory: absasm.Factory}
	pipeline := cfg.NewSSAPreparationPipeline()

	require.NoError(t, pipeline.Run(state))
	sizeAfterFirst := len(state.Blocks)

	require.NoError(t, pipeline.Run(state))
	assert.Equal(t, sizeAfterFirst, len(state.Blocks))
}
