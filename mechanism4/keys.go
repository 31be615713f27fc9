package mechanism4

import (
	"io"

	"github.com/nume-crypto/isogs/bigint"
	"github.com/nume-crypto/isogs/curve"
)

// PublicKey holds the group's public generators and the issuer's
// published commitment W = [gamma]P2 (spec §4.H "Group public key").
//
// The spec's glossary calls the member secret an "Fq scalar x"; that is
// almost certainly loose language carried over from the discrete-log
// mechanisms; a scalar multiplied into G1/G2 points and used as a
// pairing exponent is conventionally reduced mod r, the group order,
// not mod q, the base-field prime (see DESIGN.md). Every scalar in
// this package — x, the join nonces, the per-signature witnesses — is
// therefore an element of the dedicated Scalar field (Fr) carried on
// CurveSuite, not of Fq.
type PublicKey struct {
	Suite *CurveSuite
	P1    *curve.AffineG1
	P2    *curve.AffineG2
	Q1    *curve.AffineG1 // [2]P1, spec §8 item 1 sample point
	Q2    *curve.AffineG2 // [2]P2, spec §8 item 1 sample point
	W     *curve.AffineG2 // issuer public key component, W = [gamma]P2
}

// PrivateKey holds the issuer's secret gamma (spec §4.H "Issuing key").
type PrivateKey struct {
	Gamma *bigint.Int
}

// GroupSetup builds the curve suite and a fresh issuing key pair. The
// base points P1, P2 are drawn via FieldG1/FieldG2's RandomGenerator
// rather than reconstructed from the literal coordinates of spec §8
// item 1 (computing those coordinates requires an Fq square root by
// hand, which this derivation does not attempt); the curve parameters
// themselves (q, r, b, t, beta, xi) are the literal ones from the spec
// (see DESIGN.md).
func GroupSetup(rnd io.Reader) (*PublicKey, *PrivateKey, error) {
	suite, err := NewCurveSuite()
	if err != nil {
		return nil, nil, err
	}

	p1, err := suite.G1.RandomGenerator(rnd)
	if err != nil {
		return nil, nil, err
	}
	p2, err := suite.G2.RandomGenerator(rnd)
	if err != nil {
		return nil, nil, err
	}

	q1, err := p1.ScalarMul(bigint.New(2))
	if err != nil {
		return nil, nil, err
	}
	q2, err := p2.ScalarMul(bigint.New(2))
	if err != nil {
		return nil, nil, err
	}

	gamma, err := bigint.RandomBelow(suite.Scalar.Q, rnd)
	if err != nil {
		return nil, nil, err
	}
	w, err := p2.ScalarMul(gamma)
	if err != nil {
		return nil, nil, err
	}

	pub := &PublicKey{Suite: suite, P1: p1, P2: p2, Q1: q1, Q2: q2, W: w}
	priv := &PrivateKey{Gamma: gamma}
	return pub, priv, nil
}

// randomScalar draws a uniform element of Fr.
func randomScalar(suite *CurveSuite, rnd io.Reader) (*bigint.Int, error) {
	return bigint.RandomBelow(suite.Scalar.Q, rnd)
}

// pairingCheck evaluates e(a1,a2) == e(b1,b2) via the optimal Ate
// pairing (spec §4.H credential-verification equation).
func pairingCheck(suite *CurveSuite, a1 *curve.AffineG1, a2 *curve.AffineG2, b1 *curve.AffineG1, b2 *curve.AffineG2) (bool, error) {
	lhs, err := suite.Pairing.OptimalAte(a2, a1)
	if err != nil {
		return false, err
	}
	rhs, err := suite.Pairing.OptimalAte(b2, b1)
	if err != nil {
		return false, err
	}
	return lhs.Equal(rhs), nil
}
