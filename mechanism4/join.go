package mechanism4

import (
	"io"

	"github.com/google/uuid"

	"github.com/nume-crypto/isogs/bigint"
	"github.com/nume-crypto/isogs/curve"
	"github.com/nume-crypto/isogs/schemeerr"
)

// MemberSecret is the prover's private join value x, an Fr scalar
// (spec §4.H "Join protocol").
type MemberSecret struct {
	X *bigint.Int
}

// JoinRequest is the prover's first and only message: a dual
// commitment (C,D) to x over G1 and G2, plus a Schnorr proof of
// knowledge of x tying them to the same exponent. Nonce is a fresh
// random value the prover mints per attempt and binds into the
// Schnorr challenge, so a replayed request from a network capture
// can't be reissued as a new join (spec §4.H "Join protocol" nI).
type JoinRequest struct {
	Nonce     uuid.UUID
	C         *curve.AffineG1
	D         *curve.AffineG2
	Challenge *bigint.Int
	S         *bigint.Int
}

// Credential is what the issuer returns: the point A and the scalar E
// form a Boneh-Boyen-style signature on P1+C, and B = [e]P2 lets the
// signer re-derive e blindly at sign time. The member's own join
// commitment C/D is not part of it; ProverFinishJoin carries C/D from
// the JoinRequest into the SignatureKey.
type Credential struct {
	A *curve.AffineG1
	B *curve.AffineG2
	E *bigint.Int
}

// SignatureKey bundles everything a joined member needs to sign: the
// secret x, its dual commitment (C,D), and the issued credential
// (A,B,E).
type SignatureKey struct {
	X *MemberSecret
	C *curve.AffineG1
	D *curve.AffineG2
	A *curve.AffineG1
	B *curve.AffineG2
	E *bigint.Int
}

// ProverJoinStart draws a fresh member secret x, commits to it on both
// groups, and proves knowledge of x with a single Schnorr proof whose
// challenge binds C and D together (spec §4.H "Join protocol", message
// 1).
func ProverJoinStart(pub *PublicKey, rnd io.Reader) (*JoinRequest, *MemberSecret, error) {
	nonce, err := uuid.NewRandomFromReader(rnd)
	if err != nil {
		return nil, nil, err
	}

	r := pub.Suite.Scalar.Q
	x, err := bigint.RandomBelow(r, rnd)
	if err != nil {
		return nil, nil, err
	}
	c, err := pub.P1.ScalarMul(x)
	if err != nil {
		return nil, nil, err
	}
	d, err := pub.P2.ScalarMul(x)
	if err != nil {
		return nil, nil, err
	}

	k, err := bigint.RandomBelow(r, rnd)
	if err != nil {
		return nil, nil, err
	}
	rc, err := pub.P1.ScalarMul(k)
	if err != nil {
		return nil, nil, err
	}
	rd, err := pub.P2.ScalarMul(k)
	if err != nil {
		return nil, nil, err
	}

	cb, err := bytesG1(c)
	if err != nil {
		return nil, nil, err
	}
	db, err := bytesG2(d)
	if err != nil {
		return nil, nil, err
	}
	rcb, err := bytesG1(rc)
	if err != nil {
		return nil, nil, err
	}
	rdb, err := bytesG2(rd)
	if err != nil {
		return nil, nil, err
	}
	challenge, err := fiatShamir(pub.Suite, nonce[:], cb, db, rcb, rdb)
	if err != nil {
		return nil, nil, err
	}
	cx, err := modMul(r, challenge, x)
	if err != nil {
		return nil, nil, err
	}
	s, err := modAdd(r, k, cx)
	if err != nil {
		return nil, nil, err
	}

	return &JoinRequest{Nonce: nonce, C: c, D: d, Challenge: challenge, S: s}, &MemberSecret{X: x}, nil
}

// verifyJoinRequest reconstructs the Schnorr commitments from
// (Challenge, S) and checks the recomputed challenge matches, and that
// C and D commit to the same exponent via e(C,P2) = e(P1,D).
func verifyJoinRequest(pub *PublicKey, req *JoinRequest) (bool, error) {
	r := pub.Suite.Scalar.Q

	sameExponent, err := pairingCheck(pub.Suite, req.C, pub.P2, pub.P1, req.D)
	if err != nil {
		return false, err
	}
	if !sameExponent {
		return false, nil
	}

	negC, err := req.Challenge.Neg().Mod(r)
	if err != nil {
		return false, err
	}
	cNegC, err := req.C.ScalarMul(negC)
	if err != nil {
		return false, err
	}
	sP1, err := pub.P1.ScalarMul(req.S)
	if err != nil {
		return false, err
	}
	rc, err := sP1.Add(cNegC)
	if err != nil {
		return false, err
	}

	dNegC, err := req.D.ScalarMul(negC)
	if err != nil {
		return false, err
	}
	sP2, err := pub.P2.ScalarMul(req.S)
	if err != nil {
		return false, err
	}
	rd, err := sP2.Add(dNegC)
	if err != nil {
		return false, err
	}

	cb, err := bytesG1(req.C)
	if err != nil {
		return false, err
	}
	db, err := bytesG2(req.D)
	if err != nil {
		return false, err
	}
	rcb, err := bytesG1(rc)
	if err != nil {
		return false, err
	}
	rdb, err := bytesG2(rd)
	if err != nil {
		return false, err
	}
	expected, err := fiatShamir(pub.Suite, req.Nonce[:], cb, db, rcb, rdb)
	if err != nil {
		return false, err
	}
	return expected.Cmp(req.Challenge) == 0, nil
}

// IssuerJoinCredential verifies req and, if valid, issues a fresh
// credential binding it to the committed member (spec §4.H "Join
// protocol", message 2).
func IssuerJoinCredential(pub *PublicKey, priv *PrivateKey, req *JoinRequest, rnd io.Reader) (*Credential, error) {
	ok, err := verifyJoinRequest(pub, req)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, schemeerr.Protocolf("mechanism4.IssuerJoinCredential", "join request failed verification")
	}

	r := pub.Suite.Scalar.Q
	var e *bigint.Int
	for {
		e, err = bigint.RandomBelow(r, rnd)
		if err != nil {
			return nil, err
		}
		sum, err := modAdd(r, priv.Gamma, e)
		if err != nil {
			return nil, err
		}
		if !sum.IsZero() {
			break
		}
	}

	m, err := pub.P1.Add(req.C)
	if err != nil {
		return nil, err
	}
	gammaPlusE, err := modAdd(r, priv.Gamma, e)
	if err != nil {
		return nil, err
	}
	inv, err := modInverse(r, gammaPlusE)
	if err != nil {
		return nil, err
	}
	a, err := m.ScalarMul(inv)
	if err != nil {
		return nil, err
	}
	b, err := pub.P2.ScalarMul(e)
	if err != nil {
		return nil, err
	}

	return &Credential{A: a, B: b, E: e}, nil
}

// ProverFinishJoin bundles the credential with the member's own secret
// and sanity-checks it against the issuer's public key before trusting
// it (spec §4.H "Join protocol", message 3): e(A, W+B) = e(P1+C, P2).
func ProverFinishJoin(pub *PublicKey, req *JoinRequest, secret *MemberSecret, cred *Credential) (*SignatureKey, error) {
	wPlusB, err := pub.W.Add(cred.B)
	if err != nil {
		return nil, err
	}
	m, err := pub.P1.Add(req.C)
	if err != nil {
		return nil, err
	}
	ok, err := pairingCheck(pub.Suite, cred.A, wPlusB, m, pub.P2)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, schemeerr.Protocolf("mechanism4.ProverFinishJoin", "issued credential failed the membership equation")
	}
	return &SignatureKey{X: secret, C: req.C, D: req.D, A: cred.A, B: cred.B, E: cred.E}, nil
}
