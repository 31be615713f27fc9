package mechanism1

import "github.com/nume-crypto/isogs/internal/dag"

// Join-handshake step indices, in the order ProverJoinStart/
// IssuerJoinChallenge/ProverJoinFinish/IssuerJoinCredential/
// ProverVerifyCredential run (spec §4.G "Join protocol").
const (
	stepProverJoinStart = iota
	stepIssuerJoinChallenge
	stepProverJoinFinish
	stepIssuerJoinCredential
	stepProverVerifyCredential
	joinStepCount
)

// JoinSchedule builds the dependency DAG of the join handshake: each
// step depends on the message produced by the previous one. Join runs
// these steps in-process sequentially already; JoinLevels exists so a
// networked driver (or a test) can confirm the handshake has no hidden
// parallelism it could exploit, and so a future concurrent-transport
// driver has a scheduler to consult instead of a hardcoded sequence.
func JoinSchedule() dag.DAG {
	d := dag.New(joinStepCount)
	for i := 0; i < joinStepCount; i++ {
		d.AddNode(dag.Node(i))
	}
	d.AddEdges(stepIssuerJoinChallenge, []int{stepProverJoinStart})
	d.AddEdges(stepProverJoinFinish, []int{stepIssuerJoinChallenge})
	d.AddEdges(stepIssuerJoinCredential, []int{stepProverJoinFinish})
	d.AddEdges(stepProverVerifyCredential, []int{stepIssuerJoinCredential})
	return d
}

// JoinLevels returns the handshake's steps grouped into dependency
// levels; every step in this protocol strictly depends on the one
// before it, so each level holds exactly one step.
func JoinLevels() []dag.Level {
	d := JoinSchedule()
	return d.Levels()
}
