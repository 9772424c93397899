package regalloc_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"l5c/internal/ir"
	"l5c/internal/regalloc"
	"l5c/internal/regconv"
)

func buildClique(n int) (*regalloc.Graph, []ir.Temp) {
	factory := ir.NewFactory()
	temps := make([]ir.Temp, n)
	for i := range temps {
		temps[i] = factory.NewTemp()
	}
	g := regalloc.NewGraph()
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			g.AddEdge(temps[i], temps[j])
		}
	}
	return g, temps
}

func TestColorFourCliqueUsesFourDistinctRegisters(t *testing.T) {
	g, temps := buildClique(4)

	alloc := regalloc.NewAllocator()
	result, err := alloc.Allocate(g)
	require.NoError(t, err)
	require.Len(t, result, 4)

	seen := make(map[int]bool)
	for _, temp := range temps {
		a, ok := result[temp]
		require.True(t, ok)
		require.Equal(t, regalloc.RegAssignment, a.Kind)
		idx := ir.IndexOfReg(a.Reg)
		assert.False(t, seen[idx], "register %s reused within the clique", a.Reg)
		seen[idx] = true
		assert.False(t, ir.SpecialUse(idx))
	}
}

func TestColorRespectsPreBoundHardRegister(t *testing.T) {
	factory := ir.NewFactory()
	t0 := factory.NewTemp()
	hard := ir.HardTemp(ir.RAX)

	g := regalloc.NewGraph()
	g.AddEdge(t0, hard)

	alloc := regalloc.NewAllocator()
	result, err := alloc.Allocate(g)
	require.NoError(t, err)

	// hard vertices never appear in the output map (spec's "omitted" contract).
	_, hasHard := result[hard]
	assert.False(t, hasHard)

	a, ok := result[t0]
	require.True(t, ok)
	require.Equal(t, regalloc.RegAssignment, a.Kind)
	assert.NotEqual(t, ir.RAX, a.Reg)
}

func TestAllocateSpillsAboveThreshold(t *testing.T) {
	const n = 2001
	factory := ir.NewFactory()
	g := regalloc.NewGraph()
	for i := 0; i < n; i++ {
		g.AddVertex(factory.NewTemp())
	}

	alloc := regalloc.NewAllocator()
	result, err := alloc.Allocate(g)
	require.NoError(t, err)
	require.Len(t, result, n)

	for _, a := range result {
		assert.Equal(t, regalloc.SpillAssignment, a.Kind)
	}
}

func TestBuildInterferenceGraphFromLiveness(t *testing.T) {
	factory := ir.NewFactory()
	a := factory.NewTemp()
	b := factory.NewTemp()

	lines := []regconv.Line{
		{Defines: []regconv.Operand{regconv.MakeTemp(a)}},
		{Defines: []regconv.Operand{regconv.MakeTemp(b)}, Uses: []regconv.Operand{regconv.MakeTemp(a)}},
	}
	liveOut := []map[regconv.Operand]bool{
		{regconv.MakeTemp(a): true},
		{},
	}

	g := regalloc.Build(lines, liveOut)
	assert.True(t, g.Interferes(a, b))
	require.NoError(t, g.CheckSymmetry())
}

func TestGraphHasNoSelfLoops(t *testing.T) {
	factory := ir.NewFactory()
	tmp := factory.NewTemp()
	g := regalloc.NewGraph()
	g.AddEdge(tmp, tmp)
	assert.False(t, g.Interferes(tmp, tmp))
}

func TestMCSOrderIsDeterministicPermutation(t *testing.T) {
	g, temps := buildClique(3)
	order1 := regalloc.MCS(g)
	order2 := regalloc.MCS(g)
	assert.Equal(t, order1, order2)
	assert.ElementsMatch(t, order1, temps)
}
