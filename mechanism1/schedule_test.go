package mechanism1

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestJoinLevelsIsStrictlySequential checks what the join handshake's
// message ordering implies: every step depends on exactly the one
// before it, so the scheduler must place each in its own level.
func TestJoinLevelsIsStrictlySequential(t *testing.T) {
	assert := require.New(t)

	levels := JoinLevels()
	assert.Len(levels, joinStepCount)
	for i, l := range levels {
		assert.Equal([]int{i}, l.Nodes)
	}
}
