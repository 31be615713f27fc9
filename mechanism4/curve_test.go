package mechanism4

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nume-crypto/isogs/bigint"
)

// bitsMSBFirst converts n to a most-significant-bit-first boolean slice
// suitable for towerfield.E12.Pow, mirroring pairing.bigintBitsMSBFirst
// (unexported there, so restated here for test use).
func bitsMSBFirst(n *bigint.Int) []bool {
	bitLen := n.BitLen()
	if bitLen == 0 {
		return []bool{false}
	}
	bits := make([]bool, bitLen)
	for i := 0; i < bitLen; i++ {
		bits[bitLen-1-i] = n.TestBit(i) == 1
	}
	return bits
}

// TestOptimalAteIsBilinear checks the Beuchat et al. BN curve's pairing
// against the bilinearity identity of spec §8 item 1: for random
// scalars a, b, e([a]P, [b]Q) = e(P,Q)^(ab).
func TestOptimalAteIsBilinear(t *testing.T) {
	assert := require.New(t)

	suite, err := NewCurveSuite()
	assert.NoError(err)

	p, err := suite.G1.RandomGenerator(rand.Reader)
	assert.NoError(err)
	q, err := suite.G2.RandomGenerator(rand.Reader)
	assert.NoError(err)

	a, err := bigint.RandomBelow(suite.Scalar.Q, rand.Reader)
	assert.NoError(err)
	b, err := bigint.RandomBelow(suite.Scalar.Q, rand.Reader)
	assert.NoError(err)

	aP, err := p.ScalarMul(a)
	assert.NoError(err)
	bQ, err := q.ScalarMul(b)
	assert.NoError(err)

	lhs, err := suite.Pairing.OptimalAte(bQ, aP)
	assert.NoError(err)

	base, err := suite.Pairing.OptimalAte(q, p)
	assert.NoError(err)

	ab, err := modMul(suite.Scalar.Q, a, b)
	assert.NoError(err)

	rhs, err := base.Pow(bitsMSBFirst(ab))
	assert.NoError(err)

	assert.True(lhs.Equal(rhs))
}

// TestOptimalAteDoublingMatchesSquare checks the specific identity spec
// §8 item 1 calls out: e(Q,[2]P) = e(Q,P)^2.
func TestOptimalAteDoublingMatchesSquare(t *testing.T) {
	assert := require.New(t)

	suite, err := NewCurveSuite()
	assert.NoError(err)

	p, err := suite.G1.RandomGenerator(rand.Reader)
	assert.NoError(err)
	q, err := suite.G2.RandomGenerator(rand.Reader)
	assert.NoError(err)

	twoP, err := p.Double()
	assert.NoError(err)

	lhs, err := suite.Pairing.OptimalAte(q, twoP)
	assert.NoError(err)

	base, err := suite.Pairing.OptimalAte(q, p)
	assert.NoError(err)
	rhs, err := base.Mul(base)
	assert.NoError(err)

	assert.True(lhs.Equal(rhs))
}

func TestOptimalAteRejectsMismatchedPairs(t *testing.T) {
	assert := require.New(t)

	suite, err := NewCurveSuite()
	assert.NoError(err)

	p, err := suite.G1.RandomGenerator(rand.Reader)
	assert.NoError(err)
	q, err := suite.G2.RandomGenerator(rand.Reader)
	assert.NoError(err)

	a, err := bigint.RandomBelow(suite.Scalar.Q, rand.Reader)
	assert.NoError(err)
	aP, err := p.ScalarMul(a)
	assert.NoError(err)

	ok, err := pairingCheck(suite, aP, q, p, q)
	assert.NoError(err)
	assert.False(ok)
}
