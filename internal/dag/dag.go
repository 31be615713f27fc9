// Package dag builds a dependency graph over a fixed set of nodes and
// clusters it into levels where every node's dependencies live in a
// strictly earlier level — used to schedule mechanism1's multi-message
// join handshake and mechanism4's two-phase sign precomputation (spec
// §4.G/§4.H), where some steps are independent of others and some
// strictly depend on earlier ones.
package dag

import "sort"

type Node int

type DAG struct {
	parents  [][]int
	children [][]int
	nodes    []Node
	nbNodes  int
}

func New(nbNodes int) DAG {
	return DAG{
		parents:  make([][]int, nbNodes),
		children: make([][]int, nbNodes),
		nodes:    make([]Node, 0, nbNodes),
	}
}

// AddNode registers node and returns its index, which is what AddEdges
// and Levels operate on from here on.
func (dag *DAG) AddNode(node Node) (n int) {
	dag.nodes = append(dag.nodes, node)
	n = dag.nbNodes
	dag.nbNodes++
	return
}

// AddEdges records that nodeID depends on every node in parents.
func (dag *DAG) AddEdges(nodeID int, parents []int) {
	dag.parents[nodeID] = make([]int, len(parents))
	copy(dag.parents[nodeID], parents)

	for _, p := range parents {
		dag.children[p] = append(dag.children[p], nodeID)
	}
}

type Level struct {
	Nodes []int
}

// Levels returns a list of levels. For each level l, all dependencies
// of the nodes in l are guaranteed to be in a previous level. The
// schedules built on top of this package (a handful of join-handshake
// or sign-precomputation steps) are a few nodes deep at most, so this
// is a plain sequential Kahn's-algorithm sweep rather than a
// concurrent worker pool.
func (dag *DAG) Levels() []Level {
	indegree := make([]int, dag.nbNodes)
	for n := 0; n < dag.nbNodes; n++ {
		indegree[n] = len(dag.parents[n])
	}

	solved := make([]bool, dag.nbNodes)
	remaining := dag.nbNodes

	var levels []Level
	for remaining > 0 {
		var current []int
		for n := 0; n < dag.nbNodes; n++ {
			if !solved[n] && indegree[n] == 0 {
				current = append(current, n)
			}
		}
		if len(current) == 0 {
			// a cycle: no well-formed schedule produces one.
			break
		}
		sort.Ints(current)
		levels = append(levels, Level{Nodes: current})

		for _, n := range current {
			solved[n] = true
			remaining--
			for _, c := range dag.children[n] {
				indegree[c]--
			}
		}
	}
	return levels
}
