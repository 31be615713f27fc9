package party

import (
	"crypto/rand"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/nume-crypto/isogs/mechanism1"
)

func smallMechanism1Params() mechanism1.Params {
	return mechanism1.Params{
		Lp: 128, Lx: 40, LX: 90, Le: 40, LE: 100, K: 40,
		EpsilonNum: 5, EpsilonDen: 4,
		HashID: "SHA-1",
	}
}

func TestParseSchemeIDMechanism1(t *testing.T) {
	assert := require.New(t)

	id, err := ParseSchemeID("m1-nr")
	assert.NoError(err)
	assert.Equal(1, id.Mechanism)
	assert.Equal("nr", id.PolicyTag)

	_, err = ParseSchemeID("m1-nr-bigint-affine")
	assert.Error(err)
}

func TestParseSchemeIDMechanism4WithRepresentation(t *testing.T) {
	assert := require.New(t)

	id, err := ParseSchemeID("m4-bl-mont-bigint-mixed")
	assert.NoError(err)
	assert.Equal(4, id.Mechanism)
	assert.Equal("bl", id.PolicyTag)
	assert.True(id.Rep.Montgomery)
	assert.True(id.Rep.Mixed)
	assert.False(id.Rep.FixedWidth)
}

func TestParseSchemeIDRejectsUnknownPolicy(t *testing.T) {
	_, err := ParseSchemeID("m4-whatever")
	require.Error(t, err)
}

func TestParseSchemeIDRejectsUnknownMechanism(t *testing.T) {
	_, err := ParseSchemeID("m2-nr")
	require.Error(t, err)
}

func TestNewMechanism1SchemeJoins(t *testing.T) {
	assert := require.New(t)

	id, err := ParseSchemeID("m1-nr")
	assert.NoError(err)

	params := smallMechanism1Params()
	scheme, err := NewMechanism1Scheme(id, params, rand.Reader, zerolog.Nop())
	assert.NoError(err)

	signer, err := scheme.Join()
	assert.NoError(err)
	assert.NotNil(signer)
}

func TestCompatibleIdentifierVersion(t *testing.T) {
	assert := require.New(t)

	ok, err := CompatibleIdentifierVersion("1.2.3")
	assert.NoError(err)
	assert.True(ok)

	ok, err = CompatibleIdentifierVersion("2.0.0")
	assert.NoError(err)
	assert.False(ok)

	_, err = CompatibleIdentifierVersion("not-a-version")
	assert.Error(err)
}

func TestDebugSnapshotRoundTrip(t *testing.T) {
	assert := require.New(t)

	id, err := ParseSchemeID("m1-nr")
	assert.NoError(err)
	scheme, err := NewMechanism1Scheme(id, smallMechanism1Params(), rand.Reader, zerolog.Nop())
	assert.NoError(err)

	snap := scheme.Snapshot()
	blob, err := EncodeDebugSnapshot(snap)
	assert.NoError(err)

	decoded, err := DecodeDebugSnapshot(blob)
	assert.NoError(err)
	assert.Equal(snap, decoded)
}

func TestMechanism5StubRejectsOperations(t *testing.T) {
	assert := require.New(t)

	id, err := ParseSchemeID("m5-nr")
	assert.NoError(err)

	stub, err := NewMechanism5Scheme(id)
	assert.NoError(err)

	assert.Error(stub.Join())
	assert.Error(stub.Sign(nil, nil))
	_, err = stub.Verify(nil, nil, nil)
	assert.Error(err)
}
