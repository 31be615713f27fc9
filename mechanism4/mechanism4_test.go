package mechanism4

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nume-crypto/isogs/curve"
	"github.com/nume-crypto/isogs/revocation"
)

func TestJoinSignVerifyTamper(t *testing.T) {
	assert := require.New(t)

	scheme, issuer, err := NewScheme(rand.Reader)
	assert.NoError(err)

	signer, err := Join(scheme, issuer)
	assert.NoError(err)

	bsn := []byte("group-linking-base")
	message := []byte("message")

	sig, err := signer.Sign(bsn, message)
	assert.NoError(err)

	ok, err := Verify(scheme.Pub, bsn, message, sig)
	assert.NoError(err)
	assert.True(ok)

	ok, err = Verify(scheme.Pub, bsn, []byte("messagE"), sig)
	assert.NoError(err)
	assert.False(ok)
}

func TestLinkSameSignerSameBsn(t *testing.T) {
	assert := require.New(t)

	scheme, issuer, err := NewScheme(rand.Reader)
	assert.NoError(err)
	signer, err := Join(scheme, issuer)
	assert.NoError(err)

	bsn := []byte("bsn-a")
	sig1, err := signer.Sign(bsn, []byte("m1"))
	assert.NoError(err)
	sig2, err := signer.Sign(bsn, []byte("m2"))
	assert.NoError(err)

	assert.True(Link(sig1, sig2))
}

func TestLinkDistinctSignersDoNotLink(t *testing.T) {
	assert := require.New(t)

	scheme, issuer, err := NewScheme(rand.Reader)
	assert.NoError(err)

	signerA, err := Join(scheme, issuer)
	assert.NoError(err)
	signerB, err := Join(scheme, issuer)
	assert.NoError(err)

	bsn := []byte("shared-bsn")
	sigA, err := signerA.Sign(bsn, []byte("m"))
	assert.NoError(err)
	sigB, err := signerB.Sign(bsn, []byte("m"))
	assert.NoError(err)

	assert.False(Link(sigA, sigB))
}

func TestPrivateKeyRevocationBlocksFurtherVerification(t *testing.T) {
	assert := require.New(t)

	scheme, issuer, err := NewScheme(rand.Reader)
	assert.NoError(err)

	signer, err := Join(scheme, issuer)
	assert.NoError(err)
	other, err := Join(scheme, issuer)
	assert.NoError(err)

	checker := KeyChecker{Pub: scheme.Pub}
	policy := revocation.NewLocalPrivateKeyRevocation(checker)
	verifier := &Verifier{Scheme: scheme, Policy: policy}

	bsn := []byte("bsn")
	sig, err := signer.Sign(bsn, []byte("m"))
	assert.NoError(err)
	sigOther, err := other.Sign(bsn, []byte("m"))
	assert.NoError(err)

	ok, err := verifier.Verify(bsn, []byte("m"), sig, nil)
	assert.NoError(err)
	assert.True(ok)

	assert.NoError(policy.RequestPrivateKeyRevocation(signer.Key.X.X))

	ok, err = verifier.Verify(bsn, []byte("m"), sig, nil)
	assert.NoError(err)
	assert.False(ok)

	ok, err = verifier.Verify(bsn, []byte("m"), sigOther, nil)
	assert.NoError(err)
	assert.True(ok)
}

func TestCredentialUpdateRescalesSurvivingMembers(t *testing.T) {
	assert := require.New(t)

	scheme, issuer, err := NewScheme(rand.Reader)
	assert.NoError(err)

	signerA, err := Join(scheme, issuer)
	assert.NoError(err)
	signerB, err := Join(scheme, issuer)
	assert.NoError(err)
	_, err = Join(scheme, issuer)
	assert.NoError(err)

	bsn := []byte("bsn")
	sigBefore, err := signerA.Sign(bsn, []byte("m"))
	assert.NoError(err)
	ok, err := Verify(scheme.Pub, bsn, []byte("m"), sigBefore)
	assert.NoError(err)
	assert.True(ok)

	assert.NoError(issuer.Registry.RecomputeRatio(false, [][]byte{[]byte("revoked-member")}))
	scheme.State = GroupOpenPrime

	sigAfterStaleKey, err := signerA.Sign(bsn, []byte("m2"))
	assert.NoError(err)
	ok, err = Verify(scheme.Pub, bsn, []byte("m2"), sigAfterStaleKey)
	assert.NoError(err)
	assert.False(ok, "signerA's credential was not rescaled against the new gamma")

	updated, ok := issuer.Registry.CredentialFor(mustIdentity(t, scheme, signerA.Key.C))
	assert.True(ok)
	refreshed, err := ProverFinishJoin(scheme.Pub, &JoinRequest{C: signerA.Key.C, D: signerA.Key.D}, signerA.Key.X, updated)
	assert.NoError(err)
	signerA.Key = refreshed

	sigAfterRescale, err := signerA.Sign(bsn, []byte("m3"))
	assert.NoError(err)
	ok, err = Verify(scheme.Pub, bsn, []byte("m3"), sigAfterRescale)
	assert.NoError(err)
	assert.True(ok)

	sigB, err := signerB.Sign(bsn, []byte("m"))
	assert.NoError(err)
	ok, err = Verify(scheme.Pub, bsn, []byte("m"), sigB)
	assert.NoError(err)
	assert.False(ok, "signerB likewise needs its A rescaled before it verifies again")
}

func mustIdentity(t *testing.T, scheme *Scheme, c *curve.AffineG1) []byte {
	t.Helper()
	identity, err := EncodeIdentity(scheme.Pub.Suite.G1.Fq, nil, c)
	require.NoError(t, err)
	return identity
}
