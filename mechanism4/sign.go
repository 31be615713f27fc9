package mechanism4

import (
	"io"

	"github.com/nume-crypto/isogs/bigint"
	"github.com/nume-crypto/isogs/curve"
)

// Signature is the output of Sign: a rerandomized, blinded credential
// (APrime, ABar, BPrime), a bsn-bound pseudonym T4 (the linking base
// for Link and the target for private-key revocation), a spare
// bsn-bound commitment T5 reserved for the interactive non-revocation
// challenge/response, and the Fiat-Shamir challenge with its two
// scalar responses (spec §4.H "Sign").
type Signature struct {
	APrime *curve.AffineG1
	ABar   *curve.AffineG1
	BPrime *curve.AffineG2
	T4     *curve.AffineG1
	T5     *curve.AffineG1

	Challenge *bigint.Int
	SRE       *bigint.Int // response for r*e, the blinded credential exponent
	SX        *bigint.Int // response for x, the member secret
}

// bsnIndependent holds the results of the five scalar multiplications
// Sign performs before bsn is known: [rho]A, [rho](P1+C), [e]A',
// [rho*e]P2 and [k]P2.
type bsnIndependent struct {
	r, k  *bigint.Int
	aP    *curve.AffineG1
	aBar  *curve.AffineG1
	bP    *curve.AffineG2
	rComm *curve.AffineG2 // [k]P2, Schnorr commitment for r*e
}

// PrecomputeBsnIndependent rerandomizes the credential under a fresh
// blinding factor r and prepares the Schnorr commitment for the
// knowledge-of-(r*e) proof, all independent of bsn.
func PrecomputeBsnIndependent(pub *PublicKey, key *SignatureKey, rnd io.Reader) (*bsnIndependent, error) {
	r := pub.Suite.Scalar.Q

	rho, err := bigint.RandomBelow(r, rnd)
	if err != nil {
		return nil, err
	}
	aPrime, err := key.A.ScalarMul(rho)
	if err != nil {
		return nil, err
	}

	m, err := pub.P1.Add(key.C)
	if err != nil {
		return nil, err
	}
	rM, err := m.ScalarMul(rho)
	if err != nil {
		return nil, err
	}
	eAPrime, err := aPrime.ScalarMul(key.E)
	if err != nil {
		return nil, err
	}
	eAPrimeNeg, err := eAPrime.Neg()
	if err != nil {
		return nil, err
	}
	aBar, err := rM.Add(eAPrimeNeg)
	if err != nil {
		return nil, err
	}

	re, err := modMul(r, rho, key.E)
	if err != nil {
		return nil, err
	}
	bPrime, err := pub.P2.ScalarMul(re)
	if err != nil {
		return nil, err
	}

	k, err := bigint.RandomBelow(r, rnd)
	if err != nil {
		return nil, err
	}
	rComm, err := pub.P2.ScalarMul(k)
	if err != nil {
		return nil, err
	}

	return &bsnIndependent{r: re, k: k, aP: aPrime, aBar: aBar, bP: bPrime, rComm: rComm}, nil
}

// bsnDependent holds the three scalar multiplications Sign performs
// once bsn is known: the pseudonym, its Schnorr commitment, and the
// spare commitment for the non-revocation proof.
type bsnDependent struct {
	f     *curve.AffineG1
	t4    *curve.AffineG1
	t5    *curve.AffineG1
	kx    *bigint.Int
	fComm *curve.AffineG1
}

// PrecomputeBsnDependent derives the bsn pseudonym base and binds the
// member's x to it.
func PrecomputeBsnDependent(pub *PublicKey, key *SignatureKey, bsn []byte, rnd io.Reader) (*bsnDependent, error) {
	r := pub.Suite.Scalar.Q

	f, err := pub.Suite.G1.HashToPoint(bsn)
	if err != nil {
		return nil, err
	}
	t4, err := f.ScalarMul(key.X.X)
	if err != nil {
		return nil, err
	}
	t5, err := pub.Q1.ScalarMul(key.X.X)
	if err != nil {
		return nil, err
	}
	kx, err := bigint.RandomBelow(r, rnd)
	if err != nil {
		return nil, err
	}
	fComm, err := f.ScalarMul(kx)
	if err != nil {
		return nil, err
	}
	return &bsnDependent{f: f, t4: t4, t5: t5, kx: kx, fComm: fComm}, nil
}

// Sign runs the precomputation and online phases and returns the
// finished signature (spec §4.H "Sign").
func Sign(pub *PublicKey, key *SignatureKey, bsn, message []byte, rnd io.Reader) (*Signature, error) {
	indep, err := PrecomputeBsnIndependent(pub, key, rnd)
	if err != nil {
		return nil, err
	}
	dep, err := PrecomputeBsnDependent(pub, key, bsn, rnd)
	if err != nil {
		return nil, err
	}
	return finishSign(pub, key, indep, dep, message)
}

func finishSign(pub *PublicKey, key *SignatureKey, indep *bsnIndependent, dep *bsnDependent, message []byte) (*Signature, error) {
	r := pub.Suite.Scalar.Q

	parts := make([][]byte, 0, 10)
	for _, p := range []*curve.AffineG1{indep.aP, indep.aBar, dep.f, dep.t4, dep.t5, dep.fComm} {
		b, err := bytesG1(p)
		if err != nil {
			return nil, err
		}
		parts = append(parts, b)
	}
	for _, p := range []*curve.AffineG2{indep.bP, indep.rComm} {
		b, err := bytesG2(p)
		if err != nil {
			return nil, err
		}
		parts = append(parts, b)
	}
	parts = append(parts, message)

	challenge, err := fiatShamir(pub.Suite, parts...)
	if err != nil {
		return nil, err
	}

	cre, err := modMul(r, challenge, indep.r)
	if err != nil {
		return nil, err
	}
	sre, err := modAdd(r, indep.k, cre)
	if err != nil {
		return nil, err
	}

	cx, err := modMul(r, challenge, key.X.X)
	if err != nil {
		return nil, err
	}
	sx, err := modAdd(r, dep.kx, cx)
	if err != nil {
		return nil, err
	}

	return &Signature{
		APrime: indep.aP, ABar: indep.aBar, BPrime: indep.bP,
		T4: dep.t4, T5: dep.t5,
		Challenge: challenge, SRE: sre, SX: sx,
	}, nil
}

// Verify recomputes the credential-validity pairing check and the two
// Schnorr commitments, then confirms the Fiat-Shamir challenge matches
// (spec §4.H "Verify").
func Verify(pub *PublicKey, bsn, message []byte, sig *Signature) (bool, error) {
	valid, err := pairingCheck(pub.Suite, sig.ABar, pub.P2, sig.APrime, pub.W)
	if err != nil {
		return false, err
	}
	if !valid {
		return false, nil
	}

	r := pub.Suite.Scalar.Q
	negC, err := sig.Challenge.Neg().Mod(r)
	if err != nil {
		return false, err
	}

	bNegC, err := sig.BPrime.ScalarMul(negC)
	if err != nil {
		return false, err
	}
	sP2, err := pub.P2.ScalarMul(sig.SRE)
	if err != nil {
		return false, err
	}
	rComm, err := sP2.Add(bNegC)
	if err != nil {
		return false, err
	}

	f, err := pub.Suite.G1.HashToPoint(bsn)
	if err != nil {
		return false, err
	}
	t4NegC, err := sig.T4.ScalarMul(negC)
	if err != nil {
		return false, err
	}
	sF, err := f.ScalarMul(sig.SX)
	if err != nil {
		return false, err
	}
	fComm, err := sF.Add(t4NegC)
	if err != nil {
		return false, err
	}

	parts := make([][]byte, 0, 10)
	for _, p := range []*curve.AffineG1{sig.APrime, sig.ABar, f, sig.T4, sig.T5, fComm} {
		b, err := bytesG1(p)
		if err != nil {
			return false, err
		}
		parts = append(parts, b)
	}
	for _, p := range []*curve.AffineG2{sig.BPrime, rComm} {
		b, err := bytesG2(p)
		if err != nil {
			return false, err
		}
		parts = append(parts, b)
	}
	parts = append(parts, message)

	expected, err := fiatShamir(pub.Suite, parts...)
	if err != nil {
		return false, err
	}
	return expected.Cmp(sig.Challenge) == 0, nil
}

// Link reports whether sig1 and sig2 were produced under the same bsn
// by the same signer: both carry the same pseudonym T4 iff so (spec
// §4.H "Link").
func Link(sig1, sig2 *Signature) bool {
	if sig1.T4.Infinity != sig2.T4.Infinity {
		return false
	}
	if sig1.T4.Infinity {
		return true
	}
	return sig1.T4.X.Equal(sig2.T4.X) && sig1.T4.Y.Equal(sig2.T4.Y)
}
