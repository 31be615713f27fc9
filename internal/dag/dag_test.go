package dag

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDAGReduction(t *testing.T) {
	assert := require.New(t)
	const (
		A Node = iota
		B
		C
		nbNodes
	)
	dag := New(int(nbNodes))
	a := dag.AddNode(A)
	b := dag.AddNode(B)
	dag.AddEdges(b, []int{a})
	c := dag.AddNode(C)
	dag.AddEdges(c, []int{a, b})
	assert.Equal(0, len(dag.parents[a]))
	assert.Equal(1, len(dag.parents[b]))
	assert.Equal(1, len(dag.parents[c]))
	assert.Equal(a, dag.parents[b][0])
	assert.Equal(b, dag.parents[c][0])
	assert.Equal(1, len(dag.children[a]))
	assert.Equal(1, len(dag.children[b]))
	assert.Equal(0, len(dag.children[c]))
	assert.Equal(b, dag.children[a][0])
	assert.Equal(c, dag.children[b][0])
}

func TestDAGReductionFork(t *testing.T) {
	assert := require.New(t)
	const (
		A Node = iota
		B
		C
		D
		E
		nbNodes
	)
	dag := New(int(nbNodes))
	a := dag.AddNode(A)
	b := dag.AddNode(B)
	c := dag.AddNode(C)
	d := dag.AddNode(D)
	dag.AddEdges(d, []int{b, c})
	e := dag.AddNode(E)
	dag.AddEdges(e, []int{a, b, c, d})
	assert.Equal(0, len(dag.parents[a]))
	assert.Equal(0, len(dag.parents[b]))
	assert.Equal(0, len(dag.parents[c]))
	assert.Equal(2, len(dag.parents[d]))
	assert.Equal(2, len(dag.parents[e]))
	assert.Equal(c, dag.parents[d][0])
	assert.Equal(b, dag.parents[d][1])
	assert.Equal(d, dag.parents[e][0])
	assert.Equal(a, dag.parents[e][1])
	assert.Equal(1, len(dag.children[a]))
	assert.Equal(1, len(dag.children[b]))
	assert.Equal(1, len(dag.children[c]))
	assert.Equal(1, len(dag.children[d]))
	assert.Equal(0, len(dag.children[e]))
	assert.Equal(e, dag.children[a][0])
	assert.Equal(d, dag.children[b][0])
	assert.Equal(d, dag.children[c][0])
	assert.Equal(e, dag.children[d][0])

	// a, b, c have no parents and share level 0; d depends on b and c,
	// e depends on all four, so each lands in its own following level.
	levels := dag.Levels()

	assert.Equal(3, len(levels))
	assert.Equal(3, len(levels[0].Nodes))
	assert.Equal(1, len(levels[1].Nodes))
	assert.Equal(1, len(levels[2].Nodes))

	assert.Equal([]int{a, b, c}, levels[0].Nodes)
	assert.Equal([]int{d}, levels[1].Nodes)
	assert.Equal([]int{e}, levels[2].Nodes)
}

func BenchmarkDAGReduction(b *testing.B) {
	rand.Seed(42)
	const nbNodes = 100000
	parents := make([]int, 0, nbNodes)
	for i := 0; i < b.N; i++ {
		b.StopTimer()
		dag := New(nbNodes)
		for j := 0; j < nbNodes/1000; j++ {
			dag.AddNode(Node(j))
		}
		b.StartTimer()
		for j := nbNodes / 1000; j < nbNodes; j++ {
			parents = parents[:0]
			for k := 0; k < 10; k++ {
				parents = append(parents, rand.Intn(j-1))
			}
			dag.AddNode(Node(j))
			dag.AddEdges(j, parents)
		}
		_ = dag.Levels()
	}
}
