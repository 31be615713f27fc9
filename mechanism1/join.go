package mechanism1

import (
	"io"

	"github.com/nume-crypto/isogs/bigint"
	"github.com/nume-crypto/isogs/schemeerr"
)

// Credential is the Mechanism-1 membership credential issued at the
// end of the join handshake.
type Credential struct {
	A, E *bigint.Int
}

// SignatureKey bundles a joined member's credential with the secret x
// it binds (spec §3 "Mechanism-1 signature key").
type SignatureKey struct {
	A, E, X *bigint.Int
}

// ProofU is the prover's zero-knowledge proof of knowledge of (x', r̂)
// under bases (g,h), accompanying C1 (spec §4.G step 1).
type ProofU struct {
	Challenge *bigint.Int
	S1, S2    *bigint.Int
}

// ProofV proves knowledge of (x - 2^LX) such that C2 = a^(x-2^LX) * a^(2^LX).
type ProofV struct {
	Challenge *bigint.Int
	S         *bigint.Int
}

// ProofW proves the composite relation tying C1, C2, x, v, alpha, r̂
// together with three response scalars and one challenge.
type ProofW struct {
	Challenge  *bigint.Int
	S1, S2, S3 *bigint.Int
}

// JoinRequest is the first prover-to-issuer message: the commitment C1
// and its accompanying knowledge proof U.
type JoinRequest struct {
	C1 *bigint.Int
	U  ProofU

	xPrime *bigint.Int // retained by the prover across the handshake
	rHat   *bigint.Int
}

// JoinChallenge is the issuer's reply to JoinRequest: an odd exponent
// alpha and an additive offset beta (spec §4.G, "the issuer responds
// with alpha odd of Lx bits and beta of Lx bits").
type JoinChallenge struct {
	Alpha, Beta *bigint.Int
}

// JoinResponse is the prover's second message: the credential
// commitment C2 and its proofs V and W.
type JoinResponse struct {
	C2 *bigint.Int
	V  ProofV
	W  ProofW

	x *bigint.Int // retained by the prover; not transmitted
	v *bigint.Int
}

// ProverJoinStart draws x' and r̂, publishes C1 and proof U (spec §4.G
// step 1).
func ProverJoinStart(pub *PublicKey, params Params, rnd io.Reader) (*JoinRequest, error) {
	xPrime, err := bigint.RandomBits(params.Lx, rnd)
	if err != nil {
		return nil, err
	}
	rHatBits := pub.N.ToString(2)
	rHat, err := bigint.RandomBits(len(rHatBits)+1, rnd)
	if err != nil {
		return nil, err
	}

	c1, err := combine(pub.N, pub.G, xPrime, pub.H, rHat)
	if err != nil {
		return nil, err
	}

	t1, err := bigint.RandomBits(params.boundBits(params.Lx+params.K), rnd)
	if err != nil {
		return nil, err
	}
	t2, err := bigint.RandomBits(params.boundBits(2*params.Lp+params.K+1), rnd)
	if err != nil {
		return nil, err
	}
	d, err := combine(pub.N, pub.G, t1, pub.H, t2)
	if err != nil {
		return nil, err
	}

	challenge, err := fiatShamir(params, pub.G, pub.H, c1, d)
	if err != nil {
		return nil, err
	}

	s1 := t1.Sub(challenge.Mul(xPrime))
	s2 := t2.Sub(challenge.Mul(rHat))

	return &JoinRequest{
		C1:     c1,
		U:      ProofU{Challenge: challenge, S1: s1, S2: s2},
		xPrime: xPrime,
		rHat:   rHat,
	}, nil
}

// IssuerJoinChallenge verifies C1 ∈ QR(n) and proof U, then draws and
// returns (alpha, beta) (spec §4.G step "the issuer responds with...").
func IssuerJoinChallenge(pub *PublicKey, priv *PrivateKey, params Params, req *JoinRequest, rnd io.Reader) (*JoinChallenge, error) {
	p, q := priv.Factors()
	if !inQR(req.C1, p, q) {
		return nil, schemeerr.Validationf("mechanism1.IssuerJoinChallenge", "C1 is not a quadratic residue mod n")
	}

	dPrime, err := reconstructD(pub.N, pub.G, req.U.S1, pub.H, req.U.S2, req.C1, req.U.Challenge)
	if err != nil {
		return nil, err
	}
	expected, err := fiatShamir(params, pub.G, pub.H, req.C1, dPrime)
	if err != nil {
		return nil, err
	}
	if expected.Cmp(req.U.Challenge) != 0 {
		return nil, schemeerr.Validationf("mechanism1.IssuerJoinChallenge", "proof U failed hash verification")
	}
	if !withinBound(req.U.S1, params.sBound(params.Lx+params.K)) {
		return nil, schemeerr.Validationf("mechanism1.IssuerJoinChallenge", "proof U response s1 out of range")
	}
	if !withinBound(req.U.S2, params.sBound(2*params.Lp+params.K+1)) {
		return nil, schemeerr.Validationf("mechanism1.IssuerJoinChallenge", "proof U response s2 out of range")
	}

	alpha, err := bigint.RandomBits(params.Lx, rnd)
	if err != nil {
		return nil, err
	}
	if alpha.TestBit(0) == 0 {
		alpha = alpha.Add(bigint.New(1))
	}
	beta, err := bigint.RandomBits(params.Lx, rnd)
	if err != nil {
		return nil, err
	}
	return &JoinChallenge{Alpha: alpha, Beta: beta}, nil
}

// ProverJoinFinish computes x, v, C2 and the proofs V and W from the
// issuer's (alpha, beta) (spec §4.G step "The prover computes a·x'+β...").
func ProverJoinFinish(pub *PublicKey, params Params, req *JoinRequest, ch *JoinChallenge, rnd io.Reader) (*JoinResponse, error) {
	twoLX := bigint.New(1).Shl(uint(params.LX))
	twoLx := bigint.New(1).Shl(uint(params.Lx))

	axpb := ch.Alpha.Mul(req.xPrime).Add(ch.Beta)
	_, rem, err := axpb.DivMod(twoLx)
	if err != nil {
		return nil, err
	}
	x := twoLX.Add(rem)
	v, _, err := axpb.DivMod(twoLx)
	if err != nil {
		return nil, err
	}

	c2, err := modPow(pub.N, pub.A, x)
	if err != nil {
		return nil, err
	}

	// Proof V: knowledge of (x - 2^LX) under base a, with C2 = a^(x-2^LX) * a^(2^LX).
	xOffset := x.Sub(twoLX)
	tv, err := bigint.RandomBits(params.boundBits(params.Lx+params.K), rnd)
	if err != nil {
		return nil, err
	}
	dv, err := modPow(pub.N, pub.A, tv)
	if err != nil {
		return nil, err
	}
	cv, err := fiatShamir(params, pub.A, c2, dv)
	if err != nil {
		return nil, err
	}
	sv := tv.Sub(cv.Mul(xOffset))

	// Proof W: composite relation between C1, C2, x, v, alpha, r̂, bound
	// by the same slack; modeled as a representation proof of
	// (x, v, r̂) tying C1^alpha to C2 * a^(-beta) * g^(-v*2^Lx) * h^(alpha*r̂)
	// reduced to a three-response Schnorr-style proof over bases (a, g, h).
	tw1, err := bigint.RandomBits(params.boundBits(params.Lx+params.K), rnd)
	if err != nil {
		return nil, err
	}
	tw2, err := bigint.RandomBits(params.boundBits(params.LX+params.K), rnd)
	if err != nil {
		return nil, err
	}
	tw3, err := bigint.RandomBits(params.boundBits(2*params.Lp+params.K+1), rnd)
	if err != nil {
		return nil, err
	}
	dw, err := combine3(pub.N, pub.A, tw1, pub.G, tw2, pub.H, tw3)
	if err != nil {
		return nil, err
	}
	cw, err := fiatShamir(params, pub.A, req.C1, c2, dw)
	if err != nil {
		return nil, err
	}
	sw1 := tw1.Sub(cw.Mul(v))
	sw2 := tw2.Sub(cw.Mul(x))
	sw3 := tw3.Sub(cw.Mul(req.rHat))

	return &JoinResponse{
		C2: c2,
		V:  ProofV{Challenge: cv, S: sv},
		W:  ProofW{Challenge: cw, S1: sw1, S2: sw2, S3: sw3},
		x:  x,
		v:  v,
	}, nil
}

// IssuerJoinCredential verifies C2 ∈ QR(n), proofs V and W, then mints
// the credential (A, e) (spec §4.G, "The issuer verifies C2...").
func IssuerJoinCredential(pub *PublicKey, priv *PrivateKey, params Params, req *JoinRequest, resp *JoinResponse, rnd io.Reader) (*Credential, error) {
	p, q := priv.Factors()
	if !inQR(resp.C2, p, q) {
		return nil, schemeerr.Validationf("mechanism1.IssuerJoinCredential", "C2 is not a quadratic residue mod n")
	}

	// V proves knowledge of x - 2^LX, so its target is C2 with the
	// public a^(2^LX) factor removed.
	a2LXInv, err := invModPow(pub.N, pub.A, bigint.New(1).Shl(uint(params.LX)))
	if err != nil {
		return nil, err
	}
	c2Offset, err := modMul(pub.N, resp.C2, a2LXInv)
	if err != nil {
		return nil, err
	}
	dvPrime, err := reconstructSingle(pub.N, pub.A, resp.V.S, c2Offset, resp.V.Challenge)
	if err != nil {
		return nil, err
	}
	expectedV, err := fiatShamir(params, pub.A, resp.C2, dvPrime)
	if err != nil {
		return nil, err
	}
	if expectedV.Cmp(resp.V.Challenge) != 0 {
		return nil, schemeerr.Validationf("mechanism1.IssuerJoinCredential", "proof V failed hash verification")
	}
	if !withinBound(resp.V.S, params.sBound(params.Lx+params.K)) {
		return nil, schemeerr.Validationf("mechanism1.IssuerJoinCredential", "proof V response out of range")
	}

	dwPrime, err := reconstructTriple(pub.N, pub.A, resp.W.S1, pub.G, resp.W.S2, pub.H, resp.W.S3, resp.C2, resp.W.Challenge)
	if err != nil {
		return nil, err
	}
	expectedW, err := fiatShamir(params, pub.A, req.C1, resp.C2, dwPrime)
	if err != nil {
		return nil, err
	}
	if expectedW.Cmp(resp.W.Challenge) != 0 {
		return nil, schemeerr.Validationf("mechanism1.IssuerJoinCredential", "proof W failed hash verification")
	}
	if !withinBound(resp.W.S1, params.sBound(params.Lx+params.K)) ||
		!withinBound(resp.W.S2, params.sBound(params.LX+params.K)) ||
		!withinBound(resp.W.S3, params.sBound(2*params.Lp+params.K+1)) {
		return nil, schemeerr.Validationf("mechanism1.IssuerJoinCredential", "proof W response out of range")
	}

	lowBound := bigint.New(1).Shl(uint(params.LE)).Sub(bigint.New(1).Shl(uint(params.Le))).Add(bigint.New(1))
	highBound := bigint.New(1).Shl(uint(params.LE)).Add(bigint.New(1).Shl(uint(params.Le))).Sub(bigint.New(1))
	e, err := powerTwoDelimitedRandomPrime(lowBound, highBound, rnd)
	if err != nil {
		return nil, err
	}

	order := priv.Order()
	d1, err := e.ModInverse(order)
	if err != nil {
		return nil, err
	}
	a0c2, err := modMul(pub.N, pub.A0, resp.C2)
	if err != nil {
		return nil, err
	}
	a, err := modPow(pub.N, a0c2, d1)
	if err != nil {
		return nil, err
	}

	return &Credential{A: a, E: e}, nil
}

// ProverVerifyCredential checks A^e = a0 * a^x mod n before the prover
// accepts the credential (spec §4.G, "The joiner verifies...").
func ProverVerifyCredential(pub *PublicKey, resp *JoinResponse, cred *Credential) (*SignatureKey, error) {
	lhs, err := modPow(pub.N, cred.A, cred.E)
	if err != nil {
		return nil, err
	}
	ax, err := modPow(pub.N, pub.A, resp.x)
	if err != nil {
		return nil, err
	}
	rhs, err := modMul(pub.N, pub.A0, ax)
	if err != nil {
		return nil, err
	}
	if lhs.Cmp(rhs) != 0 {
		return nil, schemeerr.Validationf("mechanism1.ProverVerifyCredential", "credential fails A^e = a0*a^x")
	}
	return &SignatureKey{A: cred.A, E: cred.E, X: resp.x}, nil
}

func withinBound(s *bigint.Int, bits int) bool {
	bound := bigint.New(1).Shl(uint(bits))
	return s.Abs().Cmp(bound) <= 0
}
