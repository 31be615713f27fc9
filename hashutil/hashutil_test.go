package hashutil

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nume-crypto/isogs/bigint"
	"github.com/nume-crypto/isogs/field"
)

func TestHLProducesRequestedLength(t *testing.T) {
	assert := require.New(t)

	for _, n := range []int{0, 1, 63, 64, 65, 200} {
		out, err := HL([]byte("the quick brown fox"), n)
		assert.NoError(err)
		assert.Len(out, n)
	}
}

func TestHLIsDeterministic(t *testing.T) {
	assert := require.New(t)

	a, err := HL([]byte("abc"), 100)
	assert.NoError(err)
	b, err := HL([]byte("abc"), 100)
	assert.NoError(err)
	assert.Equal(a, b)

	c, err := HL([]byte("abd"), 100)
	assert.NoError(err)
	assert.NotEqual(a, c)
}

func TestHLRejectsNegativeLength(t *testing.T) {
	_, err := HL([]byte("x"), -1)
	require.Error(t, err)
}

func TestHLShake256ProducesRequestedLength(t *testing.T) {
	assert := require.New(t)

	out, err := HLShake256([]byte("the quick brown fox"), 137)
	assert.NoError(err)
	assert.Len(out, 137)
}

func TestHLShake256DiffersFromHL(t *testing.T) {
	assert := require.New(t)

	viaBlake, err := HL([]byte("abc"), 64)
	assert.NoError(err)
	viaShake, err := HLShake256([]byte("abc"), 64)
	assert.NoError(err)
	assert.NotEqual(viaBlake, viaShake)
}

func TestHLNamedDispatch(t *testing.T) {
	assert := require.New(t)

	viaDefault, err := HLNamed("", []byte("abc"), 32)
	assert.NoError(err)
	viaBlake, err := HLNamed("blake2b", []byte("abc"), 32)
	assert.NoError(err)
	assert.Equal(viaDefault, viaBlake)

	viaShake, err := HLNamed("shake-256", []byte("abc"), 32)
	assert.NoError(err)
	want, err := HLShake256([]byte("abc"), 32)
	assert.NoError(err)
	assert.Equal(want, viaShake)

	_, err = HLNamed("md5", []byte("abc"), 32)
	assert.Error(err)
}

func smallPrimeField(t *testing.T) *field.Handle {
	t.Helper()
	q, err := bigint.FromString("115792089237316195423570985008687907853269984665640564039457584007913129640233", 10)
	require.NoError(t, err)
	h, err := field.NewHandle(q, false)
	require.NoError(t, err)
	return h
}

func TestHBS2PF2ReducesIntoField(t *testing.T) {
	assert := require.New(t)
	h := smallPrimeField(t)

	elem, err := HBS2PF2(h, []byte("hash me to a field element"))
	assert.NoError(err)
	assert.NotNil(elem)
}

func TestHBS2ECPFindsAPointWithinAttempts(t *testing.T) {
	assert := require.New(t)
	h := smallPrimeField(t)

	// every x has a candidate y in this toy oracle, so the very first
	// counter-prefixed attempt must succeed.
	alwaysValid := func(x *field.Element) (*field.Element, error) {
		return x, nil
	}
	x, y, err := HBS2ECP(h, []byte("bsn"), alwaysValid)
	assert.NoError(err)
	assert.NotNil(x)
	assert.NotNil(y)
}

func TestHBS2ECPExhaustsAttemptsAndFails(t *testing.T) {
	h := smallPrimeField(t)
	neverValid := func(x *field.Element) (*field.Element, error) {
		return nil, errors.New("no sqrt")
	}
	_, _, err := HBS2ECP(h, []byte("bsn"), neverValid)
	require.Error(t, err)
}
