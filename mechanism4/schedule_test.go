package mechanism4

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestSignLevelsSharesBsnIndependentAndDependentBranches checks that
// the two precomputation branches (which Sign already runs
// independently before combining them in finishSign) land in the same
// dependency level, with finishSign strictly after both.
func TestSignLevelsSharesBsnIndependentAndDependentBranches(t *testing.T) {
	assert := require.New(t)

	levels := SignLevels()
	assert.Len(levels, 2)
	assert.ElementsMatch([]int{stepBsnIndependent, stepBsnDependent}, levels[0].Nodes)
	assert.Equal([]int{stepFinishSign}, levels[1].Nodes)
}
