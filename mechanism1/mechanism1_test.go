package mechanism1

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nume-crypto/isogs/revocation"
)

// smallTestParams trades the literal Lp=1024 test-vector parameters of
// spec §8 item 4 for a much smaller modulus so the safe-prime search in
// GroupSetup terminates quickly; the handshake, sign, verify, link, and
// revocation logic exercised here is identical regardless of Lp.
func smallTestParams() Params {
	return Params{
		Lp: 128, Lx: 40, LX: 90, Le: 40, LE: 100, K: 40,
		EpsilonNum: 5, EpsilonDen: 4,
		HashID: "SHA-1",
	}
}

func TestJoinSignVerifyTamper(t *testing.T) {
	assert := require.New(t)

	params := smallTestParams()
	scheme, priv, err := NewScheme(params, rand.Reader)
	assert.NoError(err)

	issuer := &Issuer{Scheme: scheme, Priv: priv}
	signer, err := Join(scheme, issuer)
	assert.NoError(err)

	bsn := []byte("group-linking-base")
	message := []byte("message")

	sig, err := signer.Sign(bsn, message)
	assert.NoError(err)

	ok, err := Verify(scheme.Pub, params, bsn, message, sig)
	assert.NoError(err)
	assert.True(ok)

	tampered := []byte("messagE")
	ok, err = Verify(scheme.Pub, params, bsn, tampered, sig)
	assert.NoError(err)
	assert.False(ok)
}

func TestLinkSameSignerSameBsn(t *testing.T) {
	assert := require.New(t)

	params := smallTestParams()
	scheme, priv, err := NewScheme(params, rand.Reader)
	assert.NoError(err)
	issuer := &Issuer{Scheme: scheme, Priv: priv}
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

	params := smallTestParams()
	scheme, priv, err := NewScheme(params, rand.Reader)
	assert.NoError(err)
	issuer := &Issuer{Scheme: scheme, Priv: priv}

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

	params := smallTestParams()
	scheme, priv, err := NewScheme(params, rand.Reader)
	assert.NoError(err)
	issuer := &Issuer{Scheme: scheme, Priv: priv}

	signer, err := Join(scheme, issuer)
	assert.NoError(err)
	other, err := Join(scheme, issuer)
	assert.NoError(err)

	checker := KeyChecker{Pub: scheme.Pub, Params: params}
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

	assert.NoError(policy.RequestPrivateKeyRevocation(signer.Key.X))

	ok, err = verifier.Verify(bsn, []byte("m"), sig, nil)
	assert.NoError(err)
	assert.False(ok)

	ok, err = verifier.Verify(bsn, []byte("m"), sigOther, nil)
	assert.NoError(err)
	assert.True(ok)
}
