package mechanism4

import "github.com/nume-crypto/isogs/internal/dag"

// Sign precomputation step indices: 5 bsn-independent scalar mults and
// 3 bsn-dependent ones, joined by the online hashing phase.
const (
	stepBsnIndependent = iota
	stepBsnDependent
	stepFinishSign
	signStepCount
)

// SignSchedule builds the dependency DAG of Sign's precomputation: the
// bsn-independent and bsn-dependent branches have no dependency on
// each other (PrecomputeBsnIndependent/PrecomputeBsnDependent can run
// concurrently), both feeding the online finishSign phase.
func SignSchedule() dag.DAG {
	d := dag.New(signStepCount)
	for i := 0; i < signStepCount; i++ {
		d.AddNode(dag.Node(i))
	}
	d.AddEdges(stepFinishSign, []int{stepBsnIndependent, stepBsnDependent})
	return d
}

// SignLevels returns Sign's steps grouped into dependency levels: the
// two precomputation branches share level 0 (no dependency on each
// other), and finishSign occupies level 1.
func SignLevels() []dag.Level {
	d := SignSchedule()
	return d.Levels()
}
